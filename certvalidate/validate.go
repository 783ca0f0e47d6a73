package certvalidate

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"time"

	"github.com/synergy-au/sep2go/internal/sep2err"
)

// Option configures an opt-in check beyond the extension matrix every
// checker always applies. The zero value (no options) reproduces the
// extension-only behavior every existing caller depends on.
type Option func(*checkConfig)

type checkConfig struct {
	checkIssuer    bool
	expectedIssuer string
	checkValidity  bool
	at             time.Time
}

// WithIssuerChecks additionally requires the certificate's issuer common
// name to equal want. Off by default.
func WithIssuerChecks(want string) Option {
	return func(c *checkConfig) {
		c.checkIssuer = true
		c.expectedIssuer = want
	}
}

// WithValidityWindow additionally requires at to fall within the
// certificate's NotBefore/NotAfter window. Off by default.
func WithValidityWindow(at time.Time) Option {
	return func(c *checkConfig) {
		c.checkValidity = true
		c.at = at
	}
}

func applyOptions(cert *x509.Certificate, opts []Option) error {
	var cfg checkConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.checkIssuer && cert.Issuer.CommonName != cfg.expectedIssuer {
		return policyError(fmt.Sprintf("issuer common name %q does not match expected %q",
			cert.Issuer.CommonName, cfg.expectedIssuer))
	}
	if cfg.checkValidity && (cfg.at.Before(cert.NotBefore) || cfg.at.After(cert.NotAfter)) {
		return policyError(fmt.Sprintf("certificate not valid at %s (window %s to %s)",
			cfg.at, cert.NotBefore, cert.NotAfter))
	}
	return nil
}

// CheckDeviceCert verifies that the PEM-encoded certificate at path meets
// the IEEE 2030.5-2018 §6.11.8.3.3 "Device Certificate" extension
// requirements (IEEE 2030.5 §4.B). It returns a *sep2err.Error naming the
// first violation found. WithIssuerChecks/WithValidityWindow add the
// issuer-name and validity-window checks the baseline contract leaves out.
func CheckDeviceCert(path string, opts ...Option) error {
	cert, err := loadCert(path)
	if err != nil {
		return err
	}
	if err := checkDeviceCert(cert); err != nil {
		return err
	}
	return applyOptions(cert, opts)
}

func checkDeviceCert(cert *x509.Certificate) error {
	var keyUsage, certPolicies, san, aki bool
	for _, ext := range cert.Extensions {
		switch {
		case oidEqual(ext.Id, oidPolicyMappings):
			return policyError("device certificates cannot contain policy mappings")
		case oidEqual(ext.Id, oidNameConstraints):
			return policyError("device certificates cannot contain name constraints")
		case oidEqual(ext.Id, oidCertificatePolicies):
			if !ext.Critical {
				return policyError("CertificatePolicies extension must be critical")
			}
			certPolicies = true
		case oidEqual(ext.Id, oidSubjectAltName):
			if !ext.Critical {
				return policyError("SubjectAlternativeName extension must be critical")
			}
			san = true
		case oidEqual(ext.Id, oidKeyUsage):
			if !ext.Critical {
				return policyError("KeyUsage extension must be critical")
			}
			keyUsage = true
		case oidEqual(ext.Id, oidAuthorityKeyIdentifier):
			if ext.Critical {
				return policyError("AuthorityKeyIdentifier extension cannot be critical")
			}
			aki = true
		case oidEqual(ext.Id, oidSubjectKeyIdentifier):
			if ext.Critical {
				return policyError("SubjectKeyIdentifier cannot be critical")
			}
		default:
			return policyError(fmt.Sprintf("unexpected extension %s encountered", ext.Id))
		}
	}

	switch {
	case !keyUsage:
		return policyError("KeyUsage extension not present")
	case !certPolicies:
		return policyError("CertificatePolicies extension not present")
	case !san:
		return policyError("SubjectAlternativeName extension not present")
	case !aki:
		return policyError("AuthorityKeyIdentifier extension not present")
	}
	return nil
}

// CheckSelfSignedClientCert verifies that the PEM-encoded certificate at
// path meets the IEEE 2030.5-2018 §6.11.8.4.3 "Self Signed Client
// Certificate" extension requirements.
func CheckSelfSignedClientCert(path string, opts ...Option) error {
	cert, err := loadCert(path)
	if err != nil {
		return err
	}
	if err := checkSelfSignedClientCert(cert); err != nil {
		return err
	}
	return applyOptions(cert, opts)
}

func checkSelfSignedClientCert(cert *x509.Certificate) error {
	var keyUsage, certPolicies bool
	for _, ext := range cert.Extensions {
		switch {
		case oidEqual(ext.Id, oidPolicyMappings):
			return policyError("self-signed client certificates cannot contain policy mappings")
		case oidEqual(ext.Id, oidNameConstraints):
			return policyError("self-signed client certificates cannot contain name constraints")
		case oidEqual(ext.Id, oidCertificatePolicies):
			if !ext.Critical {
				return policyError("CertificatePolicies extension must be critical")
			}
			certPolicies = true
		case oidEqual(ext.Id, oidKeyUsage):
			if !ext.Critical {
				return policyError("KeyUsage extension must be critical")
			}
			keyUsage = true
		case oidEqual(ext.Id, oidSubjectKeyIdentifier):
			if ext.Critical {
				return policyError("SubjectKeyIdentifier cannot be critical")
			}
		default:
			return policyError(fmt.Sprintf("unexpected extension %s encountered", ext.Id))
		}
	}

	switch {
	case !keyUsage:
		return policyError("KeyUsage extension not present")
	case !certPolicies:
		return policyError("CertificatePolicies extension not present")
	}
	return nil
}

// CheckCA verifies that the PEM-encoded certificate at path meets the
// IEEE 2030.5-2018 CA certificate extension requirements.
func CheckCA(path string, opts ...Option) error {
	cert, err := loadCert(path)
	if err != nil {
		return err
	}
	if err := checkCA(cert); err != nil {
		return err
	}
	return applyOptions(cert, opts)
}

func checkCA(cert *x509.Certificate) error {
	var keyUsage, certPolicies, basicConstraints, ski bool
	for _, ext := range cert.Extensions {
		switch {
		case oidEqual(ext.Id, oidCertificatePolicies):
			if !ext.Critical {
				return policyError("CertificatePolicies extension must be critical")
			}
			certPolicies = true
		case oidEqual(ext.Id, oidKeyUsage):
			if !ext.Critical || !hasKeyCertSignAndCRLSign(cert.KeyUsage) {
				return policyError("KeyUsage extension must be critical and keyCertSign and crlSign must be true")
			}
			keyUsage = true
		case oidEqual(ext.Id, oidBasicConstraints):
			if !ext.Critical || !cert.IsCA || pathLenPresent(cert) {
				return policyError("BasicConstraints must be critical, cA must be true, and pathLen must be absent")
			}
			basicConstraints = true
		case oidEqual(ext.Id, oidSubjectKeyIdentifier):
			if ext.Critical {
				return policyError("SubjectKeyIdentifier cannot be critical")
			}
			ski = true
		default:
			return policyError(fmt.Sprintf("unexpected extension %s encountered", ext.Id))
		}
	}

	switch {
	case !keyUsage:
		return policyError("KeyUsage extension not present")
	case !certPolicies:
		return policyError("CertificatePolicies extension not present")
	case !basicConstraints:
		return policyError("BasicConstraints extension not present")
	case !ski:
		return policyError("SubjectKeyIdentifier extension not present")
	}
	return nil
}

func hasKeyCertSignAndCRLSign(ku x509.KeyUsage) bool {
	return ku&x509.KeyUsageCertSign != 0 && ku&x509.KeyUsageCRLSign != 0
}

// pathLenPresent reports whether the BasicConstraints pathLenConstraint
// was encoded at all — Go represents "absent" as MaxPathLen == -1 (and
// MaxPathLenZero == false), distinct from an explicit pathLen of 0.
func pathLenPresent(cert *x509.Certificate) bool {
	return cert.MaxPathLenZero || cert.MaxPathLen >= 0
}

func loadCert(path string) (*x509.Certificate, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, sep2err.Wrap(sep2err.CertPolicy, "reading certificate file", err)
	}
	block, _ := pem.Decode(contents)
	if block == nil {
		return nil, sep2err.New(sep2err.CertPolicy, "no PEM block found in certificate file")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, sep2err.Wrap(sep2err.CertPolicy, "parsing certificate", err)
	}
	return cert, nil
}

func policyError(msg string) error {
	return sep2err.New(sep2err.CertPolicy, msg)
}

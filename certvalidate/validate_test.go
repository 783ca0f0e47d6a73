package certvalidate

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validDeviceCert() *x509.Certificate {
	return &x509.Certificate{
		Extensions: []pkix.Extension{
			{Id: oidKeyUsage, Critical: true},
			{Id: oidCertificatePolicies, Critical: true},
			{Id: oidSubjectAltName, Critical: true},
			{Id: oidAuthorityKeyIdentifier, Critical: false},
		},
	}
}

func TestCheckDeviceCertValid(t *testing.T) {
	require.NoError(t, checkDeviceCert(validDeviceCert()))
}

func TestCheckDeviceCertRejectsNameConstraints(t *testing.T) {
	cert := validDeviceCert()
	cert.Extensions = append(cert.Extensions, pkix.Extension{Id: oidNameConstraints, Critical: false})
	err := checkDeviceCert(cert)
	require.Error(t, err)
	require.Contains(t, err.Error(), "name constraints")
}

func TestCheckDeviceCertRejectsPolicyMappings(t *testing.T) {
	cert := validDeviceCert()
	cert.Extensions = append(cert.Extensions, pkix.Extension{Id: oidPolicyMappings, Critical: false})
	err := checkDeviceCert(cert)
	require.Error(t, err)
	require.Contains(t, err.Error(), "policy mappings")
}

func TestCheckDeviceCertRejectsUnknownExtension(t *testing.T) {
	cert := validDeviceCert()
	cert.Extensions = append(cert.Extensions, pkix.Extension{Id: []int{1, 2, 3, 4, 5}, Critical: false})
	err := checkDeviceCert(cert)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected extension")
}

func TestCheckDeviceCertRequiresCriticalSAN(t *testing.T) {
	cert := validDeviceCert()
	for i, ext := range cert.Extensions {
		if ext.Id.Equal(oidSubjectAltName) {
			cert.Extensions[i].Critical = false
		}
	}
	err := checkDeviceCert(cert)
	require.Error(t, err)
	require.Contains(t, err.Error(), "SubjectAlternativeName")
}

func TestCheckDeviceCertRequiresNonCriticalAKI(t *testing.T) {
	cert := validDeviceCert()
	for i, ext := range cert.Extensions {
		if ext.Id.Equal(oidAuthorityKeyIdentifier) {
			cert.Extensions[i].Critical = true
		}
	}
	err := checkDeviceCert(cert)
	require.Error(t, err)
	require.Contains(t, err.Error(), "AuthorityKeyIdentifier")
}

func TestCheckDeviceCertMissingRequiredExtension(t *testing.T) {
	cert := &x509.Certificate{
		Extensions: []pkix.Extension{
			{Id: oidKeyUsage, Critical: true},
		},
	}
	err := checkDeviceCert(cert)
	require.Error(t, err)
	require.Contains(t, err.Error(), "CertificatePolicies extension not present")
}

func validSelfSignedClientCert() *x509.Certificate {
	return &x509.Certificate{
		Extensions: []pkix.Extension{
			{Id: oidKeyUsage, Critical: true},
			{Id: oidCertificatePolicies, Critical: true},
		},
	}
}

func TestCheckSelfSignedClientCertValid(t *testing.T) {
	require.NoError(t, checkSelfSignedClientCert(validSelfSignedClientCert()))
}

func TestCheckSelfSignedClientCertRejectsSAN(t *testing.T) {
	cert := validSelfSignedClientCert()
	cert.Extensions = append(cert.Extensions, pkix.Extension{Id: oidSubjectAltName, Critical: true})
	err := checkSelfSignedClientCert(cert)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected extension")
}

func validCACert() *x509.Certificate {
	return &x509.Certificate{
		KeyUsage:           x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		IsCA:               true,
		MaxPathLen:         -1,
		MaxPathLenZero:     false,
		Extensions: []pkix.Extension{
			{Id: oidKeyUsage, Critical: true},
			{Id: oidCertificatePolicies, Critical: true},
			{Id: oidBasicConstraints, Critical: true},
			{Id: oidSubjectKeyIdentifier, Critical: false},
		},
	}
}

func TestCheckCAValid(t *testing.T) {
	require.NoError(t, checkCA(validCACert()))
}

func TestCheckCARequiresKeyCertSignAndCRLSign(t *testing.T) {
	cert := validCACert()
	cert.KeyUsage = x509.KeyUsageCertSign // missing CRLSign
	err := checkCA(cert)
	require.Error(t, err)
	require.Contains(t, err.Error(), "keyCertSign and crlSign")
}

func TestCheckCARejectsPathLenPresent(t *testing.T) {
	cert := validCACert()
	cert.MaxPathLen = 0
	cert.MaxPathLenZero = true
	err := checkCA(cert)
	require.Error(t, err)
	require.Contains(t, err.Error(), "pathLen must be absent")
}

func TestCheckCARejectsNotCA(t *testing.T) {
	cert := validCACert()
	cert.IsCA = false
	err := checkCA(cert)
	require.Error(t, err)
}

func TestCheckCARejectsNameConstraints(t *testing.T) {
	cert := validCACert()
	cert.Extensions = append(cert.Extensions, pkix.Extension{Id: oidNameConstraints, Critical: false})
	err := checkCA(cert)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected extension")
}

func TestApplyOptionsNoneIsNoop(t *testing.T) {
	require.NoError(t, applyOptions(validCACert(), nil))
}

func TestApplyOptionsIssuerMismatch(t *testing.T) {
	cert := validCACert()
	cert.Issuer = pkix.Name{CommonName: "actual-ca"}
	err := applyOptions(cert, []Option{WithIssuerChecks("expected-ca")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "issuer common name")
}

func TestApplyOptionsIssuerMatch(t *testing.T) {
	cert := validCACert()
	cert.Issuer = pkix.Name{CommonName: "expected-ca"}
	require.NoError(t, applyOptions(cert, []Option{WithIssuerChecks("expected-ca")}))
}

func TestApplyOptionsValidityWindowOutsideRange(t *testing.T) {
	cert := validCACert()
	cert.NotBefore = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	cert.NotAfter = time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	err := applyOptions(cert, []Option{WithValidityWindow(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC))})
	require.Error(t, err)
	require.Contains(t, err.Error(), "not valid at")
}

func TestApplyOptionsValidityWindowInsideRange(t *testing.T) {
	cert := validCACert()
	cert.NotBefore = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	cert.NotAfter = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, applyOptions(cert, []Option{WithValidityWindow(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC))}))
}

// Package certvalidate implements the three IEEE 2030.5-2018 §6.11.8
// certificate-extension checkers: device certificates, self-signed client
// certificates, and CA certificates. Go's x509.Certificate exposes parsed
// convenience fields (KeyUsage, BasicConstraintsValid, ...) but drops
// per-extension criticality once parsed, so this package walks
// Certificate.Extensions directly — the same shape the pack's certificate
// compliance fixtures build pkix.Extension values against — to check both
// presence and criticality, exactly as the original source's x509_parser
// walk does.
package certvalidate

import "encoding/asn1"

// RFC 5280 / X.509 v3 standard extension OIDs relevant to the 2030.5
// extension matrix (IEEE 2030.5 §4.B).
var (
	oidKeyUsage               = asn1.ObjectIdentifier{2, 5, 29, 15}
	oidSubjectKeyIdentifier   = asn1.ObjectIdentifier{2, 5, 29, 14}
	oidSubjectAltName         = asn1.ObjectIdentifier{2, 5, 29, 17}
	oidBasicConstraints       = asn1.ObjectIdentifier{2, 5, 29, 19}
	oidNameConstraints        = asn1.ObjectIdentifier{2, 5, 29, 30}
	oidCertificatePolicies    = asn1.ObjectIdentifier{2, 5, 29, 32}
	oidPolicyMappings         = asn1.ObjectIdentifier{2, 5, 29, 33}
	oidAuthorityKeyIdentifier = asn1.ObjectIdentifier{2, 5, 29, 35}
)

func oidEqual(a, b asn1.ObjectIdentifier) bool {
	return a.Equal(b)
}

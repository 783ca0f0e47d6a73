package tlsprofile

import (
	"crypto/tls"

	"github.com/synergy-au/sep2go/internal/sep2err"
)

// ServerConfig holds the inputs needed to build the mutual-TLS server
// acceptor used by the notification receiver (IEEE 2030.5 §6).
type ServerConfig struct {
	CertPath   string
	KeyPath    string
	RootCAPath string
}

// NewServerAcceptor builds a *tls.Config enforcing mutual authentication
// (VERIFY_PEER | FAIL_IF_NO_PEER_CERT) and TLS 1.2 only. Stdlib crypto/tls
// cannot offer the CCM8 suite on the listen side — see this package's doc
// comment — so the closest available suite is pinned instead; this is a
// known, documented interop gap rather than a silent relaxation, and
// callers depending on strict CCM8 interop must terminate TLS themselves
// in front of a plain HTTP listener, as noted in DESIGN.md.
func NewServerAcceptor(cfg ServerConfig) (*tls.Config, error) {
	keypair, err := tls.LoadX509KeyPair(cfg.CertPath, cfg.KeyPath)
	if err != nil {
		return nil, sep2err.Wrap(sep2err.Config, "loading server certificate/key", err)
	}

	clientCAs, err := loadCertPool(cfg.RootCAPath)
	if err != nil {
		return nil, sep2err.Wrap(sep2err.Config, "loading CA bundle for client verification", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{keypair},
		ClientCAs:    clientCAs,
		ClientAuth:   tls.RequireAndVerifyClientCert,
		MinVersion:   tls.VersionTLS12,
		MaxVersion:   tls.VersionTLS12,
		CipherSuites: []uint16{cipherECDHEECDSAAES128GCMSHA256},
	}, nil
}

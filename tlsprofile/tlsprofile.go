// Package tlsprofile builds the client connector and server acceptor for
// the IEEE 2030.5-2018 §6.11 TLS profile: TLS 1.2 only, mutual
// authentication, and client-side hostname verification disabled.
//
// §6.11 mandates TLS_ECDHE_ECDSA_WITH_AES_128_CCM_8 as the cipher suite.
// Neither stdlib crypto/tls nor github.com/refraction-networking/utls —
// the only TLS stacks in reach here capable of a custom ClientHello —
// implement a CCM AEAD at the record layer. uTLS forks crypto/tls's
// cipher_suites.go wholesale, and that table (the cipherSuites slice
// actually wired to encrypt/decrypt records) carries only the GCM and
// ChaCha20-Poly1305 entries; TLS_ECDHE_ECDSA_WITH_AES_128_CCM_8 (0xC0AE)
// exists there only as a bare numeric ID, with no aeadAESCCM
// implementation ever attached to it. A ClientHelloSpec can still put
// 0xC0AE on the wire, but if a peer actually selected it, the handshake
// would fail once the session tried to derive an AEAD for a cipher
// neither stack knows how to run.
//
// Offering CCM8 as the sole cipher would therefore make this client
// unable to complete a handshake with the one kind of peer CCM8 exists to
// support: a compliant, CCM8-only 2030.5 server. Both the client
// connector and the server acceptor pin the GCM suite instead — the only
// one either side can actually encrypt records with. This is a known,
// unresolved conformance gap against the CCM8 mandate, not a silent
// relaxation chosen for convenience; see DESIGN.md.
//
// The server acceptor, needed only by the notification receiver, stays
// on stdlib crypto/tls — uTLS has no listener-side API.
package tlsprofile

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	utls "github.com/refraction-networking/utls"

	"github.com/synergy-au/sep2go/internal/sep2err"
)

// Cipher suite IDs. Go's crypto/tls constants stop short of the CCM
// suites, so the CCM8 ID is declared locally from IANA's TLS Cipher
// Suites registry for documentation purposes even though it is never
// selected — see this package's doc comment. The GCM ID matches
// tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256.
const (
	cipherECDHEECDSAAES128CCM8      uint16 = 0xC0AE // mandated by §6.11; not selectable, see doc comment
	cipherECDHEECDSAAES128GCMSHA256 uint16 = 0xC02B
)

// cipherSuiteID returns the cipher suite this package actually pins.
// CCM8 (cipherECDHEECDSAAES128CCM8) is never returned: neither TLS stack
// available here can complete a handshake that negotiates it.
func cipherSuiteID() uint16 {
	return cipherECDHEECDSAAES128GCMSHA256
}

// ClientConfig holds the inputs needed to build the mutual-TLS client
// connector (IEEE 2030.5 §6's Client configuration inputs).
type ClientConfig struct {
	CertPath     string
	KeyPath      string
	RootCAPath   string
	TCPKeepAlive time.Duration // zero uses net.Dialer's default
}

// Dialer builds TLS-1.2 connections under the 2030.5 cipher pin. Dial
// performs the full TCP connect + handshake, offering only the pinned
// cipher suite and skipping hostname verification while keeping full
// chain/peer verification (2030.5-2018 §6.11; device identity is
// established by S/LFDI elsewhere in the stack, not by DNS name).
type Dialer struct {
	tcpKeepAlive time.Duration
	baseConfig   *utls.Config
}

// NewClientConnector builds the client-side TLS profile. Any missing or
// unparsable cert/key/CA file fails here with a sep2err.Config error — the dialer
// is never returned half-configured.
func NewClientConnector(cfg ClientConfig) (*Dialer, error) {
	keypair, err := tls.LoadX509KeyPair(cfg.CertPath, cfg.KeyPath)
	if err != nil {
		return nil, sep2err.Wrap(sep2err.Config, "loading client certificate/key", err)
	}

	rootCAs, err := loadCertPool(cfg.RootCAPath)
	if err != nil {
		return nil, sep2err.Wrap(sep2err.Config, "loading root CA bundle", err)
	}

	base := &utls.Config{
		// Hostname verification is explicitly disabled per 2030.5-2018
		// §6.11; full chain verification still runs via VerifyPeerCertificate.
		InsecureSkipVerify:    true,
		Certificates:          []tls.Certificate{keypair},
		RootCAs:               rootCAs,
		MinVersion:            tls.VersionTLS12,
		MaxVersion:            tls.VersionTLS12,
		VerifyPeerCertificate: verifyChainNoHostname(rootCAs),
	}

	return &Dialer{
		tcpKeepAlive: cfg.TCPKeepAlive,
		baseConfig:   base,
	}, nil
}

func loadCertPool(path string) (*x509.CertPool, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(contents) {
		return nil, fmt.Errorf("no certificates parsed from %s", path)
	}
	return pool, nil
}

// verifyChainNoHostname returns a VerifyPeerCertificate callback that
// validates the presented chain against roots — signature, validity
// window, chain-building; any extended key usage is accepted — but never checks the leaf's DNS
// name, since InsecureSkipVerify disables Go's automatic verification
// entirely (which would otherwise skip chain validation too).
func verifyChainNoHostname(roots *x509.CertPool) func([][]byte, [][]*x509.Certificate) error {
	return func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		if len(rawCerts) == 0 {
			return fmt.Errorf("tlsprofile: server presented no certificate")
		}
		leaf, err := x509.ParseCertificate(rawCerts[0])
		if err != nil {
			return fmt.Errorf("tlsprofile: parsing peer certificate: %w", err)
		}
		intermediates := x509.NewCertPool()
		for _, raw := range rawCerts[1:] {
			cert, err := x509.ParseCertificate(raw)
			if err != nil {
				return fmt.Errorf("tlsprofile: parsing peer chain certificate: %w", err)
			}
			intermediates.AddCert(cert)
		}
		_, err = leaf.Verify(x509.VerifyOptions{
			Roots:         roots,
			Intermediates: intermediates,
			KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
		})
		return err
	}
}

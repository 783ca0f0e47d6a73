package tlsprofile

import (
	"context"
	"fmt"
	"net"

	utls "github.com/refraction-networking/utls"
)

// Dial connects to addr (host:port), performs the TLS 1.2 handshake under
// the pinned cipher suite, and returns the established connection. The
// caller is responsible for closing the returned net.Conn.
func (d *Dialer) Dial(ctx context.Context, network, addr string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{KeepAlive: d.tcpKeepAlive}
	rawConn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, fmt.Errorf("tlsprofile: dial %s: %w", addr, err)
	}

	cfg := d.baseConfig.Clone()
	cfg.ServerName = host

	uConn := utls.UClient(rawConn, cfg, utls.HelloCustom)
	if err := uConn.ApplyPreset(clientHelloSpec(host)); err != nil {
		rawConn.Close()
		return nil, fmt.Errorf("tlsprofile: building client hello: %w", err)
	}
	if err := uConn.HandshakeContext(ctx); err != nil {
		rawConn.Close()
		return nil, fmt.Errorf("tlsprofile: TLS handshake with %s: %w", addr, err)
	}

	return uConn, nil
}

// clientHelloSpec builds the ClientHelloSpec that restricts the offered
// cipher suite to exactly the one cipherSuiteID pins, disables
// compression by construction, and never offers a version outside TLS
// 1.2: SSLv2/SSLv3 and compression are simply never present in the hello
// this function builds.
func clientHelloSpec(serverName string) *utls.ClientHelloSpec {
	return &utls.ClientHelloSpec{
		CipherSuites:       []uint16{cipherSuiteID()},
		CompressionMethods: []byte{0x00},
		Extensions: []utls.TLSExtension{
			&utls.SNIExtension{ServerName: serverName},
			&utls.SupportedCurvesExtension{Curves: []utls.CurveID{utls.CurveP256, utls.CurveP384}},
			&utls.SupportedPointsExtension{SupportedPoints: []byte{0x00}},
			&utls.SupportedVersionsExtension{Versions: []uint16{utls.VersionTLS12}},
			&utls.SignatureAlgorithmsExtension{
				SupportedSignatureAlgorithms: []utls.SignatureScheme{
					utls.ECDSAWithP256AndSHA256,
				},
			},
			&utls.RenegotiationInfoExtension{Renegotiation: utls.RenegotiateOnceAsClient},
		},
	}
}

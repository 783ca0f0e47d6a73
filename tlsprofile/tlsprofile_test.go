package tlsprofile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// cipherSuiteID must never select CCM8: neither crypto/tls nor utls can
// actually encrypt records with it (see this package's doc comment).
func TestCipherSuiteIDPinsGCM(t *testing.T) {
	require.Equal(t, cipherECDHEECDSAAES128GCMSHA256, cipherSuiteID())
}

func TestNewClientConnectorMissingCertFails(t *testing.T) {
	_, err := NewClientConnector(ClientConfig{
		CertPath:   "testdata/does-not-exist.pem",
		KeyPath:    "testdata/does-not-exist-key.pem",
		RootCAPath: "testdata/does-not-exist-ca.pem",
	})
	require.Error(t, err)
}

func TestNewServerAcceptorMissingCertFails(t *testing.T) {
	_, err := NewServerAcceptor(ServerConfig{
		CertPath:   "testdata/does-not-exist.pem",
		KeyPath:    "testdata/does-not-exist-key.pem",
		RootCAPath: "testdata/does-not-exist-ca.pem",
	})
	require.Error(t, err)
}

package nfe_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gopkcs12 "software.sslmate.com/src/go-pkcs12"

	"github.com/jhoicas/nfe-emissor/internal/domain"
	"github.com/jhoicas/nfe-emissor/internal/domain/entity"
	infranfe "github.com/jhoicas/nfe-emissor/internal/infrastructure/nfe"
)

const testCertPassword = "senha-a1"

var (
	fixtureOnce sync.Once
	fixtureKey  *rsa.PrivateKey
	fixtureCert *x509.Certificate
)

// fixture genera una sola vez llave RSA + certificado autofirmado tipo e-CNPJ.
func fixture(t *testing.T) (*rsa.PrivateKey, *x509.Certificate) {
	t.Helper()
	fixtureOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		tmpl := &x509.Certificate{
			SerialNumber: big.NewInt(4242),
			Subject:      pkix.Name{CommonName: "COMERCIAL PARAIBANA LTDA:12345678000195", Country: []string{"BR"}},
			NotBefore:    time.Now().Add(-time.Hour),
			NotAfter:     time.Now().Add(365 * 24 * time.Hour),
			KeyUsage:     x509.KeyUsageDigitalSignature,
		}
		der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
		if err != nil {
			panic(err)
		}
		cert, err := x509.ParseCertificate(der)
		if err != nil {
			panic(err)
		}
		fixtureKey, fixtureCert = key, cert
	})
	return fixtureKey, fixtureCert
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func writePFX(t *testing.T, password string) string {
	t.Helper()
	key, cert := fixture(t)
	pfx, err := gopkcs12.LegacyDES.Encode(key, cert, nil, password)
	require.NoError(t, err)
	return writeFile(t, "empresa.pfx", pfx)
}

func newLoader() *infranfe.CertificateLoader {
	return infranfe.NewCertificateLoader(zerolog.Nop())
}

func TestLoadCertificate_OK(t *testing.T) {
	path := writePFX(t, testCertPassword)
	company := &entity.Company{CertificatePath: path, CertificatePassword: testCertPassword}

	out, err := newLoader().Load(company)
	require.NoError(t, err)

	keyBlock, _ := pem.Decode([]byte(out.PrivateKeyPEM))
	require.NotNil(t, keyBlock)
	assert.Equal(t, "PRIVATE KEY", keyBlock.Type)
	parsed, err := x509.ParsePKCS8PrivateKey(keyBlock.Bytes)
	require.NoError(t, err)
	key, _ := fixture(t)
	assert.True(t, key.Equal(parsed), "la llave extraída debe ser la misma del .pfx")

	certBlock, _ := pem.Decode([]byte(out.CertificatePEM))
	require.NotNil(t, certBlock)
	assert.Equal(t, "CERTIFICATE", certBlock.Type)

	info, err := out.Describe()
	require.NoError(t, err)
	assert.Contains(t, info.Subject, "COMERCIAL PARAIBANA LTDA")
	assert.Equal(t, "1092", info.Serial) // 4242 en hex
}

func TestLoadCertificate_PasswordVacio(t *testing.T) {
	path := writePFX(t, "")
	t.Setenv(infranfe.CertPasswordEnv, "")
	out, err := newLoader().Load(&entity.Company{CertificatePath: path})
	require.NoError(t, err)
	assert.NotEmpty(t, out.CertificatePEM)
}

func TestLoadCertificate_PasswordConfigurado(t *testing.T) {
	path := writePFX(t, testCertPassword)
	loader := newLoader()
	loader.UseConfiguredCredentials(path, testCertPassword)

	out, err := loader.Load(&entity.Company{})
	require.NoError(t, err)
	assert.NotEmpty(t, out.PrivateKeyPEM)

	// la contraseña de la empresa tiene prioridad sobre la configurada
	_, err = loader.Load(&entity.Company{CertificatePassword: "otra"})
	assert.ErrorIs(t, err, domain.ErrCredential)
}

func TestLoadCertificate_PasswordDesdeEntorno(t *testing.T) {
	path := writePFX(t, testCertPassword)
	t.Setenv(infranfe.CertPasswordEnv, testCertPassword)

	_, err := newLoader().Load(&entity.Company{CertificatePath: path})
	require.NoError(t, err)
}

func TestLoadCertificate_ArchivoInexistente(t *testing.T) {
	company := &entity.Company{CertificatePath: filepath.Join(t.TempDir(), "no-existe.pfx")}
	_, err := newLoader().Load(company)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.NotErrorIs(t, err, domain.ErrCredential)
}

func TestLoadCertificate_PasswordIncorrecto(t *testing.T) {
	path := writePFX(t, testCertPassword)
	_, err := newLoader().Load(&entity.Company{CertificatePath: path, CertificatePassword: "otra"})
	assert.ErrorIs(t, err, domain.ErrCredential)
}

func TestLoadCertificate_ContenedorCorrupto(t *testing.T) {
	path := writeFile(t, "corrupto.pfx", []byte("esto no es un PKCS#12"))
	_, err := newLoader().Load(&entity.Company{CertificatePath: path})
	assert.ErrorIs(t, err, domain.ErrCredential)
}

// Un trust store solo lleva bolsas de certificado: falta la llave.
func TestLoadCertificate_SinLlave(t *testing.T) {
	_, cert := fixture(t)
	pfx, err := gopkcs12.LegacyDES.EncodeTrustStore([]*x509.Certificate{cert}, testCertPassword)
	require.NoError(t, err)
	path := writeFile(t, "truststore.pfx", pfx)

	_, err = newLoader().Load(&entity.Company{CertificatePath: path, CertificatePassword: testCertPassword})
	assert.ErrorIs(t, err, domain.ErrIntegrity)
}

// OpenSSL 3 y las exportaciones actuales de Windows usan PBES2/AES con MAC SHA-256.
func TestDecodePKCS12_ContenedorModerno(t *testing.T) {
	key, cert := fixture(t)
	pfx, err := gopkcs12.Modern.Encode(key, cert, nil, testCertPassword)
	require.NoError(t, err)

	out, err := infranfe.DecodePKCS12(pfx, testCertPassword)
	require.NoError(t, err)
	keyBlock, _ := pem.Decode([]byte(out.PrivateKeyPEM))
	require.NotNil(t, keyBlock)
	parsed, err := x509.ParsePKCS8PrivateKey(keyBlock.Bytes)
	require.NoError(t, err)
	assert.True(t, key.Equal(parsed))

	info, err := out.Describe()
	require.NoError(t, err)
	assert.Equal(t, "1092", info.Serial)

	_, err = infranfe.DecodePKCS12(pfx, "otra")
	assert.ErrorIs(t, err, domain.ErrCredential)
	assert.NotErrorIs(t, err, domain.ErrIntegrity)
}

func TestDecodePKCS12_ContenedorModernoSinLlave(t *testing.T) {
	_, cert := fixture(t)
	pfx, err := gopkcs12.Modern.EncodeTrustStore([]*x509.Certificate{cert}, testCertPassword)
	require.NoError(t, err)

	_, err = infranfe.DecodePKCS12(pfx, testCertPassword)
	assert.ErrorIs(t, err, domain.ErrIntegrity)
}

func TestResolvePath_Fallbacks(t *testing.T) {
	loader := newLoader()

	t.Setenv(infranfe.CertPathEnv, "/etc/nfe/env.pfx")
	assert.Equal(t, "/srv/empresa.pfx", loader.ResolvePath(&entity.Company{CertificatePath: " /srv/empresa.pfx "}))
	assert.Equal(t, "/etc/nfe/env.pfx", loader.ResolvePath(&entity.Company{}))

	t.Setenv(infranfe.CertPathEnv, "")
	assert.Equal(t, infranfe.DefaultCertPath, loader.ResolvePath(&entity.Company{}))
	assert.Equal(t, infranfe.DefaultCertPath, loader.ResolvePath(nil))

	loader.UseConfiguredCredentials("/etc/nfe/config.pfx", "")
	assert.Equal(t, "/etc/nfe/config.pfx", loader.ResolvePath(&entity.Company{}))
}

func TestDescribe_PEMInvalido(t *testing.T) {
	_, err := infranfe.CertificatePEM{CertificatePEM: "  "}.Describe()
	assert.ErrorIs(t, err, domain.ErrIntegrity)
}

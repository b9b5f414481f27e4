package main

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gopkcs12 "software.sslmate.com/src/go-pkcs12"

	"github.com/jhoicas/nfe-emissor/internal/domain"
	infranfe "github.com/jhoicas/nfe-emissor/internal/infrastructure/nfe"
)

var checkNow = time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)

func writePFX(t *testing.T, password string, notAfter time.Time) string {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(4660),
		Subject:      pkix.Name{CommonName: "EMPRESA TESTE:12345678000195"},
		NotBefore:    checkNow.Add(-24 * time.Hour),
		NotAfter:     notAfter,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	pfx, err := gopkcs12.LegacyDES.Encode(key, cert, nil, password)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cert.pfx")
	require.NoError(t, os.WriteFile(path, pfx, 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(func() time.Time { return checkNow })
	var out, logs bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&logs)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCertcheck_Vigente(t *testing.T) {
	path := writePFX(t, "1234", checkNow.Add(30*24*time.Hour))

	out, err := execute(t, "--path", path, "--password", "1234")
	require.NoError(t, err)
	assert.Contains(t, out, "EMPRESA TESTE")
	assert.Contains(t, out, "serie:      1234")
	assert.Contains(t, out, "VIGENTE (30 días restantes)")
	assert.NotContains(t, out, "PRIVATE KEY")
}

func TestCertcheck_Vencido(t *testing.T) {
	path := writePFX(t, "1234", checkNow.Add(-time.Hour))

	out, err := execute(t, "-p", path, "--password", "1234")
	require.NoError(t, err)
	assert.Contains(t, out, "VENCIDO")
}

func TestCertcheck_PasswordDesdeEntorno(t *testing.T) {
	path := writePFX(t, "secreta", checkNow.Add(time.Hour))
	t.Setenv(infranfe.CertPasswordEnv, "secreta")

	_, err := execute(t, "--path", path)
	require.NoError(t, err)
}

func TestCertcheck_PasswordIncorrecta(t *testing.T) {
	path := writePFX(t, "1234", checkNow.Add(time.Hour))

	_, err := execute(t, "--path", path, "--password", "otra")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCredential))
}

func TestCertcheck_ArchivoInexistente(t *testing.T) {
	_, err := execute(t, "--path", filepath.Join(t.TempDir(), "nada.pfx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

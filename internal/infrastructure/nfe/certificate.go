// Carga del certificado digital A1 (.pfx / PKCS#12) para la futura firma XML-DSig.

package nfe

import (
	"bytes"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/pkcs12"
	gopkcs12 "software.sslmate.com/src/go-pkcs12"

	"github.com/jhoicas/nfe-emissor/internal/domain"
	"github.com/jhoicas/nfe-emissor/internal/domain/entity"
)

// Variables de entorno y ruta por defecto cuando la empresa no trae credenciales propias.
const (
	CertPathEnv     = "NFE_CERT_PATH"
	CertPasswordEnv = "NFE_CERT_PASSWORD"
	DefaultCertPath = "./certs/certificado.pfx"
)

const (
	pemTypeCertificate = "CERTIFICATE"
	pemTypePrivateKey  = "PRIVATE KEY"
)

// CertificatePEM material de firma extraído del .pfx. Solo debe vivir durante una
// operación de firma: no se persiste ni se cachea.
type CertificatePEM struct {
	PrivateKeyPEM  string
	CertificatePEM string
}

// CertificateInfo datos públicos del certificado (sin material privado).
type CertificateInfo struct {
	Subject   string    `json:"subject"`
	Issuer    string    `json:"issuer"`
	Serial    string    `json:"serial"`
	NotBefore time.Time `json:"not_before"`
	NotAfter  time.Time `json:"not_after"`
}

// Describe parsea el certificado PEM y devuelve sus datos públicos.
func (c CertificatePEM) Describe() (CertificateInfo, error) {
	block, _ := pem.Decode([]byte(c.CertificatePEM))
	if block == nil || block.Type != pemTypeCertificate {
		return CertificateInfo{}, fmt.Errorf("%w: PEM de certificado inválido", domain.ErrIntegrity)
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return CertificateInfo{}, fmt.Errorf("%w: parsear certificado: %v", domain.ErrIntegrity, err)
	}
	return CertificateInfo{
		Subject:   cert.Subject.String(),
		Issuer:    cert.Issuer.String(),
		Serial:    cert.SerialNumber.Text(16),
		NotBefore: cert.NotBefore,
		NotAfter:  cert.NotAfter,
	}, nil
}

// CertificateLoader carga certificados desde el sistema de archivos.
type CertificateLoader struct {
	log         zerolog.Logger
	envPath     func() string
	envPassword func() string
}

// NewCertificateLoader crea el loader. Los fallbacks de ruta y contraseña se leen de
// NFE_CERT_PATH y NFE_CERT_PASSWORD.
func NewCertificateLoader(log zerolog.Logger) *CertificateLoader {
	return &CertificateLoader{
		log:         log,
		envPath:     func() string { return os.Getenv(CertPathEnv) },
		envPassword: func() string { return os.Getenv(CertPasswordEnv) },
	}
}

// UseConfiguredCredentials reemplaza la lectura directa de NFE_CERT_PATH y
// NFE_CERT_PASSWORD por valores ya resueltos por la configuración (que también considera .env).
func (l *CertificateLoader) UseConfiguredCredentials(path, password string) {
	l.envPath = func() string { return path }
	l.envPassword = func() string { return password }
}

// ResolvePath elige la ruta del .pfx: empresa → NFE_CERT_PATH → ruta fija por defecto.
func (l *CertificateLoader) ResolvePath(company *entity.Company) string {
	if company != nil && strings.TrimSpace(company.CertificatePath) != "" {
		return strings.TrimSpace(company.CertificatePath)
	}
	if p := strings.TrimSpace(l.envPath()); p != "" {
		return p
	}
	// TODO: exigir ruta explícita por empresa cuando todas tengan certificado cargado.
	l.log.Warn().Str("path", DefaultCertPath).Msg("nfe: certificado sin ruta configurada, usando ruta por defecto")
	return DefaultCertPath
}

// resolvePassword usa la contraseña de la empresa y, si viene vacía, la configurada.
func (l *CertificateLoader) resolvePassword(company *entity.Company) string {
	if company != nil && company.CertificatePassword != "" {
		return company.CertificatePassword
	}
	return l.envPassword()
}

// Load lee el .pfx de la empresa y extrae llave privada (PKCS#8) y certificado en PEM.
// Errores: domain.ErrConfiguration (archivo inexistente, antes de cualquier parseo),
// domain.ErrCredential (contraseña o contenedor), domain.ErrIntegrity (faltan bolsas o PEM vacío).
func (l *CertificateLoader) Load(company *entity.Company) (CertificatePEM, error) {
	path := l.ResolvePath(company)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return CertificatePEM{}, fmt.Errorf("%w: certificado no encontrado en %q", domain.ErrConfiguration, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return CertificatePEM{}, fmt.Errorf("%w: leer %q: %v", domain.ErrConfiguration, path, err)
	}
	out, err := DecodePKCS12(data, l.resolvePassword(company))
	if err != nil {
		l.log.Error().Err(err).Str("path", path).Msg("nfe: certificado rechazado")
		return CertificatePEM{}, err
	}
	l.log.Debug().Str("path", path).Msg("nfe: certificado cargado")
	return out, nil
}

// DecodePKCS12 abre el contenedor y devuelve la llave (PKCS#8) y el certificado del titular en PEM.
// Se decodifica con go-pkcs12 (PBES2/AES y MAC SHA-256 además de los formatos legados);
// x/crypto/pkcs12 queda para los algoritmos que go-pkcs12 no implementa.
//
// Errores: domain.ErrCredential cuando el contenedor no abre (contraseña, corrupto o
// algoritmo no soportado); domain.ErrIntegrity cuando abre pero no trae llave y certificado.
func DecodePKCS12(data []byte, password string) (CertificatePEM, error) {
	key, cert, _, err := gopkcs12.DecodeChain(data, password)
	if err == nil {
		der, err := x509.MarshalPKCS8PrivateKey(key)
		if err != nil {
			return CertificatePEM{}, fmt.Errorf("%w: llave privada: %v", domain.ErrIntegrity, err)
		}
		return encodePEM(der, cert.Raw)
	}

	var notImpl gopkcs12.NotImplementedError
	switch {
	case errors.Is(err, gopkcs12.ErrIncorrectPassword):
		return CertificatePEM{}, fmt.Errorf("%w: %v", domain.ErrCredential, err)
	case errors.As(err, &notImpl):
		return decodeLegacy(data, password, err)
	}

	// abre como trust store: hay certificados pero ninguna llave
	if certs, tsErr := gopkcs12.DecodeTrustStore(data, password); tsErr == nil {
		return CertificatePEM{}, fmt.Errorf("%w: el .pfx no contiene llave privada (%d certificados)", domain.ErrIntegrity, len(certs))
	}
	return CertificatePEM{}, fmt.Errorf("%w: %v", domain.ErrCredential, err)
}

// decodeLegacy reintenta con x/crypto/pkcs12 y revisa la estructura de los bloques resultantes.
func decodeLegacy(data []byte, password string, cause error) (CertificatePEM, error) {
	blocks, err := pkcs12.ToPEM(data, password)
	if err != nil {
		return CertificatePEM{}, fmt.Errorf("%w: %v (%v)", domain.ErrCredential, cause, err)
	}

	var keyBlock, certBlock *pem.Block
	for _, b := range blocks {
		switch b.Type {
		case pemTypePrivateKey:
			if keyBlock == nil {
				keyBlock = b
			}
		case pemTypeCertificate:
			if certBlock == nil {
				certBlock = b
			}
		}
	}
	if keyBlock == nil {
		return CertificatePEM{}, fmt.Errorf("%w: el .pfx no contiene llave privada", domain.ErrIntegrity)
	}
	if certBlock == nil {
		return CertificatePEM{}, fmt.Errorf("%w: el .pfx no contiene certificado", domain.ErrIntegrity)
	}

	pkcs8, err := toPKCS8(keyBlock.Bytes)
	if err != nil {
		return CertificatePEM{}, fmt.Errorf("%w: %v", domain.ErrIntegrity, err)
	}
	return encodePEM(pkcs8, certBlock.Bytes)
}

func encodePEM(keyDER, certDER []byte) (CertificatePEM, error) {
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: pemTypePrivateKey, Bytes: keyDER})
	certPEM := pem.EncodeToMemory(&pem.Block{Type: pemTypeCertificate, Bytes: certDER})
	if len(bytes.TrimSpace(keyPEM)) == 0 || len(bytes.TrimSpace(certPEM)) == 0 || len(keyDER) == 0 || len(certDER) == 0 {
		return CertificatePEM{}, fmt.Errorf("%w: PEM vacío", domain.ErrIntegrity)
	}
	return CertificatePEM{PrivateKeyPEM: string(keyPEM), CertificatePEM: string(certPEM)}, nil
}

// toPKCS8 x/crypto/pkcs12 entrega las llaves RSA como PKCS#1 y las EC como SEC1.
func toPKCS8(der []byte) ([]byte, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return x509.MarshalPKCS8PrivateKey(key)
	}
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return x509.MarshalPKCS8PrivateKey(key)
	}
	if _, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		return der, nil
	}
	return nil, errors.New("llave privada en formato desconocido")
}

package domain

import "errors"

// Errores del núcleo de emisión NF-e. Se envuelven con fmt.Errorf("...: %w") y se
// comparan con errors.Is.
var (
	// ErrValidation la empresa emisora no cumple los datos fiscales obligatorios.
	ErrValidation = errors.New("nfe: datos del emisor incompletos")
	// ErrConfiguration la ruta del certificado no apunta a un archivo existente.
	ErrConfiguration = errors.New("nfe: configuración inválida")
	// ErrCredential contraseña PKCS#12 incorrecta o contenedor corrupto.
	ErrCredential = errors.New("nfe: no se pudo abrir el certificado")
	// ErrIntegrity falta la llave o el certificado dentro del .pfx, o el PEM quedó vacío.
	ErrIntegrity = errors.New("nfe: certificado incompleto")
	// ErrInput parámetros fuera de rango (serie, número, mes, UF...).
	ErrInput = errors.New("nfe: parámetro fuera de rango")
)

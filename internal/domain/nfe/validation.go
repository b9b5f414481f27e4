package nfe

import (
	"strings"

	"github.com/jhoicas/nfe-emissor/internal/domain/entity"
	pkgnfe "github.com/jhoicas/nfe-emissor/pkg/nfe"
)

// FieldError falla de un campo obligatorio del emisor.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors lista ordenada de fallas. Implementa error para poder envolverla con
// domain.ErrValidation; una lista vacía no es un error.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, e := range fe {
		parts[i] = e.Field + ": " + e.Message
	}
	return strings.Join(parts, "; ")
}

// ValidateIssuer revisa los datos fiscales obligatorios de la empresa emisora.
// Cada regla se evalúa de forma independiente (sin cortocircuito) y agrega como máximo
// una entrada. Lista vacía = la empresa puede emitir.
func ValidateIssuer(c *entity.Company) FieldErrors {
	if c == nil {
		return FieldErrors{{Field: "Company", Message: "empresa obligatoria"}}
	}
	errs := FieldErrors{}
	add := func(field, msg string) { errs = append(errs, FieldError{Field: field, Message: msg}) }

	cnpj := pkgnfe.OnlyDigits(c.CNPJ)
	switch {
	case strings.TrimSpace(c.CNPJ) == "":
		add("CNPJ", "CNPJ obligatorio")
	case len(cnpj) != 14:
		add("CNPJ", "CNPJ debe tener 14 dígitos")
	}
	if blank(c.LegalName) {
		add("LegalName", "razón social obligatoria")
	}
	if blank(c.StateRegistration) {
		add("StateRegistration", "inscripción estatal (IE) obligatoria")
	}
	if blank(c.Street) {
		add("Street", "calle (logradouro) obligatoria")
	}
	if blank(c.Number) {
		add("Number", "número del domicilio obligatorio")
	}
	if blank(c.Neighborhood) {
		add("Neighborhood", "barrio obligatorio")
	}
	if len(pkgnfe.OnlyDigits(c.CEP)) != 8 {
		add("CEP", "CEP debe tener 8 dígitos")
	}
	if len(strings.TrimSpace(c.UF)) != 2 {
		add("UF", "UF debe tener 2 caracteres")
	}
	if len(pkgnfe.OnlyDigits(c.MunicipalityCode)) != 7 {
		add("MunicipalityCode", "código de municipio IBGE debe tener 7 dígitos")
	}
	if !pkgnfe.ValidTaxRegimeCodes[strings.TrimSpace(c.TaxRegimeCode)] {
		add("TaxRegimeCode", "CRT debe ser 1, 2 o 3")
	}
	if blank(c.CountryCode) {
		add("CountryCode", "código de país obligatorio")
	}
	if blank(c.CountryName) {
		add("CountryName", "nombre de país obligatorio")
	}
	if !blank(c.Phone) {
		if n := len(pkgnfe.OnlyDigits(c.Phone)); n != 10 && n != 11 {
			add("Phone", "teléfono debe tener 10 u 11 dígitos")
		}
	}
	return errs
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

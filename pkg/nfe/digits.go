package nfe

import (
	"strings"
)

// OnlyDigits deja solo dígitos 0-9 (CNPJ, CPF, IE, CEP, teléfono).
func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PadLeft completa con ceros a la izquierda hasta width. No trunca.
func PadLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// NormalizeCNPJ filtra dígitos y completa a 14 posiciones.
func NormalizeCNPJ(cnpj string) string {
	return PadLeft(OnlyDigits(cnpj), 14)
}

// IsAllDigits indica si s es no vacío y solo contiene dígitos.
func IsAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

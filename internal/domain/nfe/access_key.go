// Package nfe: reglas de dominio de la NF-e (chave de acesso y validación del emisor).
// La chave de acesso tiene 44 dígitos: los 43 primeros se derivan de
// {cUF, AAMM, CNPJ, mod, serie, nNF, tpEmis, cNF} y el último es el dígito
// verificador módulo 11.
package nfe

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"

	"github.com/jhoicas/nfe-emissor/internal/domain"
	pkgnfe "github.com/jhoicas/nfe-emissor/pkg/nfe"
)

const (
	AccessKeyLength  = 44
	compositeLength  = 43
	randomCodeLength = 8

	MaxSeries = 999
	MaxNumber = 999_999_999
)

// AccessKeyParams datos de entrada de la chave de acesso, en el orden del composite.
type AccessKeyParams struct {
	UFCode       string // cUF, 2 dígitos
	Year         int    // año completo; solo se usan los 2 últimos dígitos
	Month        int    // 1..12
	CNPJ         string // cualquier formato; se filtra y completa a 14
	Model        string // 2 dígitos (55)
	Series       int    // 1..999
	Number       int    // 1..999999999
	EmissionType int    // tpEmis, 1..9
	RandomCode   string // cNF, 8 dígitos
}

// AccessKeyResult resultado de GenerateAccessKey.
type AccessKeyResult struct {
	Key        AccessKey
	DocumentID string // "NFe" + chave (atributo Id de infNFe)
	CheckDigit string
}

// AccessKey chave de acesso validada: siempre 44 dígitos con dígito verificador correcto.
// El valor cero no es una chave válida.
type AccessKey struct {
	digits string
}

// ParseAccessKey construye la chave desde su representación textual.
func ParseAccessKey(s string) (AccessKey, error) {
	if len(s) != AccessKeyLength || !pkgnfe.IsAllDigits(s) {
		return AccessKey{}, fmt.Errorf("%w: la chave de acesso debe tener %d dígitos", domain.ErrInput, AccessKeyLength)
	}
	dv, err := CheckDigit(s[:compositeLength])
	if err != nil {
		return AccessKey{}, err
	}
	if dv != s[compositeLength:] {
		return AccessKey{}, fmt.Errorf("%w: dígito verificador %s no coincide (esperado %s)", domain.ErrInput, s[compositeLength:], dv)
	}
	return AccessKey{digits: s}, nil
}

func (k AccessKey) String() string     { return k.digits }
func (k AccessKey) IsZero() bool       { return k.digits == "" }
func (k AccessKey) DocumentID() string { return "NFe" + k.digits }

// Accesores por posición (MOC 4.00, 5.4).
func (k AccessKey) UFCode() string       { return k.part(0, 2) }
func (k AccessKey) YearMonth() string    { return k.part(2, 6) }
func (k AccessKey) CNPJ() string         { return k.part(6, 20) }
func (k AccessKey) Model() string        { return k.part(20, 22) }
func (k AccessKey) Series() string       { return k.part(22, 25) }
func (k AccessKey) Number() string       { return k.part(25, 34) }
func (k AccessKey) EmissionType() string { return k.part(34, 35) }
func (k AccessKey) RandomCode() string   { return k.part(35, 43) }
func (k AccessKey) CheckDigit() string   { return k.part(43, 44) }

func (k AccessKey) part(from, to int) string {
	if k.digits == "" {
		return ""
	}
	return k.digits[from:to]
}

// GenerateAccessKey arma el composite de 43 dígitos y le agrega el dígito verificador.
func GenerateAccessKey(p AccessKeyParams) (AccessKeyResult, error) {
	if err := checkAccessKeyParams(p); err != nil {
		return AccessKeyResult{}, err
	}
	yy := pkgnfe.PadLeft(strconv.Itoa(p.Year%100), 2)
	mm := pkgnfe.PadLeft(strconv.Itoa(p.Month), 2)

	composite := p.UFCode +
		yy + mm +
		pkgnfe.NormalizeCNPJ(p.CNPJ) +
		p.Model +
		pkgnfe.PadLeft(strconv.Itoa(p.Series), 3) +
		pkgnfe.PadLeft(strconv.Itoa(p.Number), 9) +
		strconv.Itoa(p.EmissionType) +
		p.RandomCode

	dv, err := CheckDigit(composite)
	if err != nil {
		return AccessKeyResult{}, err
	}
	key := AccessKey{digits: composite + dv}
	return AccessKeyResult{Key: key, DocumentID: key.DocumentID(), CheckDigit: dv}, nil
}

// CheckDigit calcula el dígito verificador módulo 11 de un composite de 43 dígitos.
// Pesos 2..9 desde el dígito más a la derecha, reiniciando cada 8 posiciones.
// Si 11 - (suma % 11) resulta 10 u 11, el dígito es 0.
func CheckDigit(composite string) (string, error) {
	if len(composite) != compositeLength || !pkgnfe.IsAllDigits(composite) {
		return "", fmt.Errorf("%w: el composite debe tener %d dígitos, tiene %q", domain.ErrInput, compositeLength, composite)
	}
	sum, weight := 0, 2
	for i := len(composite) - 1; i >= 0; i-- {
		sum += int(composite[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	dv := 11 - sum%11
	if dv >= 10 {
		dv = 0
	}
	return strconv.Itoa(dv), nil
}

// GenerateRandomCode devuelve el cNF: 8 dígitos pseudoaleatorios con ceros a la izquierda.
// invoiceNumber se recibe pero no interviene en el resultado (no se garantiza cNF != nNF).
func GenerateRandomCode(invoiceNumber int) string {
	_ = invoiceNumber
	n, err := rand.Int(rand.Reader, big.NewInt(100_000_000))
	if err != nil {
		// crypto/rand no falla en plataformas soportadas
		panic("nfe: crypto/rand: " + err.Error())
	}
	return pkgnfe.PadLeft(n.String(), randomCodeLength)
}

func checkAccessKeyParams(p AccessKeyParams) error {
	switch {
	case len(p.UFCode) != 2 || !pkgnfe.IsAllDigits(p.UFCode):
		return fmt.Errorf("%w: cUF %q debe tener 2 dígitos", domain.ErrInput, p.UFCode)
	case p.Year < 0:
		return fmt.Errorf("%w: año %d inválido", domain.ErrInput, p.Year)
	case p.Month < 1 || p.Month > 12:
		return fmt.Errorf("%w: mes %d fuera de 1..12", domain.ErrInput, p.Month)
	case len(pkgnfe.OnlyDigits(p.CNPJ)) > 14:
		return fmt.Errorf("%w: CNPJ con más de 14 dígitos", domain.ErrInput)
	case len(p.Model) != 2 || !pkgnfe.IsAllDigits(p.Model):
		return fmt.Errorf("%w: modelo %q debe tener 2 dígitos", domain.ErrInput, p.Model)
	case p.Series < 1 || p.Series > MaxSeries:
		return fmt.Errorf("%w: serie %d fuera de 1..%d", domain.ErrInput, p.Series, MaxSeries)
	case p.Number < 1 || p.Number > MaxNumber:
		return fmt.Errorf("%w: número %d fuera de 1..%d", domain.ErrInput, p.Number, MaxNumber)
	case p.EmissionType < 1 || p.EmissionType > 9:
		return fmt.Errorf("%w: tpEmis %d fuera de 1..9", domain.ErrInput, p.EmissionType)
	case len(p.RandomCode) != randomCodeLength || !pkgnfe.IsAllDigits(p.RandomCode):
		return fmt.Errorf("%w: cNF %q debe tener %d dígitos", domain.ErrInput, p.RandomCode, randomCodeLength)
	}
	return nil
}

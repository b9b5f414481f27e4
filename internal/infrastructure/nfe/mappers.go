package nfe

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/nfe-emissor/internal/domain/entity"
	pkgnfe "github.com/jhoicas/nfe-emissor/pkg/nfe"
)

const (
	defaultNumber       = "S/N"
	defaultNeighborhood = "CENTRO"
)

// MapCompanyToIssuer transforma la fila de la empresa en el grupo emit.
// No valida: el CRT se copia tal cual (el dominio {1,2,3} lo revisa ValidateIssuer).
func MapCompanyToIssuer(c *entity.Company, municipalityName string) Issuer {
	if c == nil {
		return Issuer{}
	}
	if strings.TrimSpace(municipalityName) == "" {
		municipalityName = c.MunicipalityName
	}
	return Issuer{
		CNPJ:      pkgnfe.OnlyDigits(c.CNPJ),
		Name:      text(c.LegalName),
		TradeName: text(c.TradeName),
		Address: Address{
			Street:           text(c.Street),
			Number:           orDefault(text(c.Number), defaultNumber),
			Complement:       text(c.Complement),
			Neighborhood:     orDefault(text(c.Neighborhood), defaultNeighborhood),
			MunicipalityCode: pkgnfe.OnlyDigits(c.MunicipalityCode),
			MunicipalityName: text(municipalityName),
			UF:               strings.ToUpper(strings.TrimSpace(c.UF)),
			CEP:              pkgnfe.OnlyDigits(c.CEP),
			CountryCode:      orDefault(pkgnfe.OnlyDigits(c.CountryCode), pkgnfe.CountryCodeBrazil),
			CountryName:      orDefault(text(c.CountryName), pkgnfe.CountryNameBrazil),
			Phone:            pkgnfe.OnlyDigits(c.Phone),
		},
		StateRegistration:     pkgnfe.OnlyDigits(c.StateRegistration),
		MunicipalRegistration: pkgnfe.OnlyDigits(c.MunicipalRegistration),
		CNAE:                  pkgnfe.OnlyDigits(c.CNAE),
		TaxRegimeCode:         c.TaxRegimeCode,
	}
}

// MapRecipientFromCustomer transforma el cliente en el grupo dest.
//
// CPF o CNPJ se decide solo por la cantidad de dígitos (>11 ⇒ CNPJ). No valida: un
// documento vacío deja CPF vacío, y el armador del documento lo rechaza antes de serializar.
// indIEDest es contribuyente si hay IE; si no, no contribuyente.
//
// ATENCIÓN: cuando el cliente no trae código de municipio, municipio, UF o CEP se usan los
// del EMISOR (company). Para un cliente realmente sin domicilio el XML sale con la ubicación
// de la empresa. Pendiente decidir si es una simplificación
// válida para ventas locales o un dato faltante que debería bloquear la emisión.
func MapRecipientFromCustomer(cu *entity.Customer, company *entity.Company) Recipient {
	if cu == nil {
		cu = &entity.Customer{}
	}
	var r Recipient
	doc := pkgnfe.OnlyDigits(cu.Document)
	if len(doc) > 11 {
		r.CNPJ = doc
	} else {
		r.CPF = doc
	}
	r.Name = text(cu.Name)
	r.Email = strings.TrimSpace(cu.Email)

	ie := pkgnfe.OnlyDigits(cu.StateRegistration)
	if ie != "" {
		r.IEIndicator = pkgnfe.RecipientIEContributor
		r.StateRegistration = ie
	} else {
		r.IEIndicator = pkgnfe.RecipientIENonContributor
	}

	addr := Address{
		Street:           text(cu.Street),
		Number:           orDefault(text(cu.Number), defaultNumber),
		Complement:       text(cu.Complement),
		Neighborhood:     orDefault(text(cu.Neighborhood), defaultNeighborhood),
		MunicipalityCode: pkgnfe.OnlyDigits(cu.MunicipalityCode),
		MunicipalityName: text(cu.MunicipalityName),
		UF:               strings.ToUpper(strings.TrimSpace(cu.UF)),
		CEP:              pkgnfe.OnlyDigits(cu.CEP),
		CountryCode:      pkgnfe.CountryCodeBrazil,
		CountryName:      pkgnfe.CountryNameBrazil,
		Phone:            pkgnfe.OnlyDigits(cu.Phone),
	}
	if company != nil {
		if addr.MunicipalityCode == "" {
			addr.MunicipalityCode = pkgnfe.OnlyDigits(company.MunicipalityCode)
		}
		if addr.MunicipalityName == "" {
			addr.MunicipalityName = text(company.MunicipalityName)
		}
		if addr.UF == "" {
			addr.UF = strings.ToUpper(strings.TrimSpace(company.UF))
		}
		if addr.CEP == "" {
			addr.CEP = pkgnfe.OnlyDigits(company.CEP)
		}
	}
	r.Address = addr
	return r
}

// text recorta espacios y normaliza a NFC (acentos compuestos).
func text(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/nfe-emissor/internal/domain/entity"
)

// CompanyDTO perfil fiscal de la empresa emisora tal como llega en el body.
// Las credenciales del certificado nunca viajan por HTTP: se toman de la configuración.
type CompanyDTO struct {
	ID                    string `json:"id"`
	LegalName             string `json:"legal_name"`
	TradeName             string `json:"trade_name"`
	CNPJ                  string `json:"cnpj"`
	StateRegistration     string `json:"state_registration"`
	MunicipalRegistration string `json:"municipal_registration"`
	CNAE                  string `json:"cnae"`
	TaxRegimeCode         string `json:"tax_regime_code"`
	Street                string `json:"street"`
	Number                string `json:"number"`
	Complement            string `json:"complement"`
	Neighborhood          string `json:"neighborhood"`
	MunicipalityCode      string `json:"municipality_code"`
	MunicipalityName      string `json:"municipality_name"`
	UF                    string `json:"uf"`
	CEP                   string `json:"cep"`
	CountryCode           string `json:"country_code"`
	CountryName           string `json:"country_name"`
	Phone                 string `json:"phone"`
	Email                 string `json:"email"`
	Environment           string `json:"environment"` // PRODUCTION | HOMOLOGATION
}

// ToEntity convierte a entity.Company.
func (d CompanyDTO) ToEntity() *entity.Company {
	return &entity.Company{
		ID:                    d.ID,
		LegalName:             d.LegalName,
		TradeName:             d.TradeName,
		CNPJ:                  d.CNPJ,
		StateRegistration:     d.StateRegistration,
		MunicipalRegistration: d.MunicipalRegistration,
		CNAE:                  d.CNAE,
		TaxRegimeCode:         d.TaxRegimeCode,
		Street:                d.Street,
		Number:                d.Number,
		Complement:            d.Complement,
		Neighborhood:          d.Neighborhood,
		MunicipalityCode:      d.MunicipalityCode,
		MunicipalityName:      d.MunicipalityName,
		UF:                    d.UF,
		CEP:                   d.CEP,
		CountryCode:           d.CountryCode,
		CountryName:           d.CountryName,
		Phone:                 d.Phone,
		Email:                 d.Email,
		Environment:           d.Environment,
	}
}

// CustomerDTO destinatario.
type CustomerDTO struct {
	Name              string `json:"name"`
	Document          string `json:"document"` // CPF o CNPJ, cualquier formato
	StateRegistration string `json:"state_registration"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Street            string `json:"street"`
	Number            string `json:"number"`
	Complement        string `json:"complement"`
	Neighborhood      string `json:"neighborhood"`
	MunicipalityCode  string `json:"municipality_code"`
	MunicipalityName  string `json:"municipality_name"`
	UF                string `json:"uf"`
	CEP               string `json:"cep"`
}

// ToEntity convierte a entity.Customer. nil se conserva (destinatario de homologación).
func (d *CustomerDTO) ToEntity() *entity.Customer {
	if d == nil {
		return nil
	}
	return &entity.Customer{
		Name:              d.Name,
		Document:          d.Document,
		StateRegistration: d.StateRegistration,
		Email:             d.Email,
		Phone:             d.Phone,
		Street:            d.Street,
		Number:            d.Number,
		Complement:        d.Complement,
		Neighborhood:      d.Neighborhood,
		MunicipalityCode:  d.MunicipalityCode,
		MunicipalityName:  d.MunicipalityName,
		UF:                d.UF,
		CEP:               d.CEP,
	}
}

// LineItemDTO línea de factura. Las alícuotas son porcentajes.
type LineItemDTO struct {
	Code        string          `json:"code" validate:"required,max=60"`
	Description string          `json:"description" validate:"required,max=120"`
	Barcode     string          `json:"barcode"`
	NCM         string          `json:"ncm"`
	CEST        string          `json:"cest"`
	CFOP        string          `json:"cfop"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Origin      string          `json:"origin"`
	ICMSCode    string          `json:"icms_code"`
	ICMSRate    decimal.Decimal `json:"icms_rate"`
	PISCode     string          `json:"pis_code"`
	PISRate     decimal.Decimal `json:"pis_rate"`
	COFINSCode  string          `json:"cofins_code"`
	COFINSRate  decimal.Decimal `json:"cofins_rate"`
}

// ToEntities convierte la lista de ítems.
func ToEntities(items []LineItemDTO) []entity.LineItem {
	out := make([]entity.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, entity.LineItem{
			Code:        it.Code,
			Description: it.Description,
			Barcode:     it.Barcode,
			NCM:         it.NCM,
			CEST:        it.CEST,
			CFOP:        it.CFOP,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Origin:      it.Origin,
			ICMSRate:    it.ICMSRate,
			PISRate:     it.PISRate,
			COFINSRate:  it.COFINSRate,
			ICMSCode:    it.ICMSCode,
			PISCode:     it.PISCode,
			COFINSCode:  it.COFINSCode,
		})
	}
	return out
}

// ValidateIssuerRequest body de POST /api/nfe/issuer/validate.
type ValidateIssuerRequest struct {
	Company CompanyDTO `json:"company"`
}

// ValidateIssuerResponse resultado de la validación del emisor.
type ValidateIssuerResponse struct {
	Valid  bool            `json:"valid"`
	Errors []FieldErrorDTO `json:"errors"`
}

// PreviewRequest body de POST /api/nfe/preview. Series 0 usa la serie por defecto.
type PreviewRequest struct {
	Company       CompanyDTO    `json:"company"`
	InvoiceNumber int           `json:"invoice_number"`
	Series        int           `json:"series" validate:"gte=0,lte=999"`
	Items         []LineItemDTO `json:"items" validate:"max=990,dive"`
	Recipient     *CustomerDTO  `json:"recipient"`
}

// PreviewResponse documento armado.
type PreviewResponse struct {
	XML         string              `json:"xml"`
	AccessKey   string              `json:"access_key"`
	DocumentID  string              `json:"document_id"`
	Certificate *CertificateInfoDTO `json:"certificate,omitempty"`
}

// AccessKeyParseRequest body de POST /api/nfe/access-key/parse.
type AccessKeyParseRequest struct {
	AccessKey string `json:"access_key" validate:"required,len=44,numeric"`
}

// AccessKeyResponse chave de acesso descompuesta.
type AccessKeyResponse struct {
	AccessKey    string `json:"access_key"`
	DocumentID   string `json:"document_id"`
	UFCode       string `json:"uf_code"`
	YearMonth    string `json:"year_month"`
	CNPJ         string `json:"cnpj"`
	Model        string `json:"model"`
	Series       string `json:"series"`
	Number       string `json:"number"`
	EmissionType string `json:"emission_type"`
	RandomCode   string `json:"random_code"`
	CheckDigit   string `json:"check_digit"`
}

// CertificateCheckRequest body de POST /api/nfe/certificate/check: el .pfx en base64.
type CertificateCheckRequest struct {
	PFXBase64 string `json:"pfx_base64" validate:"required"`
	Password  string `json:"password"`
}

// CertificateInfoDTO datos públicos del certificado (nunca la llave).
type CertificateInfoDTO struct {
	Subject   string    `json:"subject"`
	Issuer    string    `json:"issuer"`
	Serial    string    `json:"serial"`
	NotBefore time.Time `json:"not_before"`
	NotAfter  time.Time `json:"not_after"`
	Expired   bool      `json:"expired"`
}

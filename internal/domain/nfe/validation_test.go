package nfe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nfe-emissor/internal/domain/entity"
	"github.com/jhoicas/nfe-emissor/internal/domain/nfe"
)

func validCompany() *entity.Company {
	return &entity.Company{
		LegalName:         "Comercial Paraibana Ltda",
		CNPJ:              "12.345.678/0001-95",
		StateRegistration: "16.123.456-7",
		TaxRegimeCode:     "1",
		Street:            "Av. Epitácio Pessoa",
		Number:            "1200",
		Neighborhood:      "Tambaú",
		MunicipalityCode:  "2507507",
		MunicipalityName:  "João Pessoa",
		UF:                "PB",
		CEP:               "58039-000",
		CountryCode:       "1058",
		CountryName:       "BRASIL",
		Phone:             "(83) 3222-1100",
	}
}

func TestValidateIssuer_EmpresaValida(t *testing.T) {
	errs := nfe.ValidateIssuer(validCompany())
	assert.Empty(t, errs)
}

func TestValidateIssuer_TelefonoOpcional(t *testing.T) {
	c := validCompany()
	c.Phone = ""
	assert.Empty(t, nfe.ValidateIssuer(c))

	c.Phone = "83999991234" // celular 11 dígitos
	assert.Empty(t, nfe.ValidateIssuer(c))
}

// Cada campo roto agrega exactamente una entrada, sin suprimir otras.
func TestValidateIssuer_UnErrorPorCampo(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(c *entity.Company)
	}{
		{"CNPJ", func(c *entity.Company) { c.CNPJ = "" }},
		{"CNPJ", func(c *entity.Company) { c.CNPJ = "12.345.678/0001" }},
		{"LegalName", func(c *entity.Company) { c.LegalName = "  " }},
		{"StateRegistration", func(c *entity.Company) { c.StateRegistration = "" }},
		{"Street", func(c *entity.Company) { c.Street = "" }},
		{"Number", func(c *entity.Company) { c.Number = "" }},
		{"Neighborhood", func(c *entity.Company) { c.Neighborhood = "" }},
		{"CEP", func(c *entity.Company) { c.CEP = "5803900" }},
		{"UF", func(c *entity.Company) { c.UF = "PBA" }},
		{"MunicipalityCode", func(c *entity.Company) { c.MunicipalityCode = "250750" }},
		{"TaxRegimeCode", func(c *entity.Company) { c.TaxRegimeCode = "4" }},
		{"TaxRegimeCode", func(c *entity.Company) { c.TaxRegimeCode = "" }},
		{"CountryCode", func(c *entity.Company) { c.CountryCode = "" }},
		{"CountryName", func(c *entity.Company) { c.CountryName = "" }},
		{"Phone", func(c *entity.Company) { c.Phone = "3222-1100" }},
	}
	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			c := validCompany()
			tc.mutate(c)
			errs := nfe.ValidateIssuer(c)
			require.Len(t, errs, 1)
			assert.Equal(t, tc.field, errs[0].Field)
			assert.NotEmpty(t, errs[0].Message)
		})
	}
}

func TestValidateIssuer_AcumulaEnOrden(t *testing.T) {
	c := validCompany()
	c.CNPJ = ""
	c.CEP = ""
	c.Phone = "1"

	errs := nfe.ValidateIssuer(c)
	require.Len(t, errs, 3)
	assert.Equal(t, "CNPJ", errs[0].Field)
	assert.Equal(t, "CEP", errs[1].Field)
	assert.Equal(t, "Phone", errs[2].Field)
	assert.Contains(t, errs.Error(), "CEP")
}

func TestValidateIssuer_EmpresaNula(t *testing.T) {
	errs := nfe.ValidateIssuer(nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "Company", errs[0].Field)
}

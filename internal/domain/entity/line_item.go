package entity

import "github.com/shopspring/decimal"

// LineItem representa una línea de la factura.
// Las alícuotas son porcentajes (18 = 18%). Los códigos de clasificación vacíos
// equivalen al régimen fijo por defecto (CSOSN 102, PIS/COFINS CST 07).
type LineItem struct {
	Code        string
	Description string
	Barcode     string // GTIN; vacío se serializa como "SEM GTIN"
	NCM         string
	CEST        string
	CFOP        string
	Unit        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Origin      string

	ICMSRate   decimal.Decimal
	PISRate    decimal.Decimal
	COFINSRate decimal.Decimal

	ICMSCode   string // CSOSN (102, 103, 300, 400) o CST 00
	PISCode    string // CST PIS
	COFINSCode string // CST COFINS
}

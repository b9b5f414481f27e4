// Package nfe implementa la generación del XML NF-e layout 4.00 (Brasil), los mapeos
// desde las filas de persistencia y la carga del certificado A1 (.pfx).
package nfe

import (
	"github.com/shopspring/decimal"
)

// Address domicilio listo para enderEmit / enderDest.
type Address struct {
	Street           string // xLgr
	Number           string // nro
	Complement       string // xCpl
	Neighborhood     string // xBairro
	MunicipalityCode string // cMun
	MunicipalityName string // xMun
	UF               string
	CEP              string
	CountryCode      string // cPais
	CountryName      string // xPais
	Phone            string // fone
}

// Issuer grupo emit.
type Issuer struct {
	CNPJ                  string
	Name                  string
	TradeName             string
	Address               Address
	StateRegistration     string // IE
	MunicipalRegistration string // IM
	CNAE                  string
	TaxRegimeCode         string // CRT
}

// Recipient grupo dest. Solo uno de CNPJ o CPF queda con valor.
type Recipient struct {
	CNPJ              string
	CPF               string
	Name              string
	Address           Address
	IEIndicator       string // indIEDest
	StateRegistration string
	Email             string
}

// Identification grupo ide, con todos los valores ya formateados.
type Identification struct {
	UFCode               string // cUF
	RandomCode           string // cNF
	OperationNature      string // natOp
	Model                string // mod
	Series               string // serie
	Number               string // nNF
	EmittedAt            string // dhEmi (AAAA-MM-DDThh:mm:ss±hh:mm)
	OperationType        string // tpNF
	DestinationIndicator string // idDest
	MunicipalityCode     string // cMunFG
	PrintType            string // tpImp
	EmissionType         string // tpEmis
	CheckDigit           string // cDV
	Environment          string // tpAmb
	Purpose              string // finNFe
	FinalConsumer        string // indFinal
	Presence             string // indPres
	EmissionProcess      string // procEmi
	ProcessVersion       string // verProc
}

// Item grupo det (prod + imposto).
type Item struct {
	Number       int // nItem
	Code         string
	Barcode      string
	Description  string
	NCM          string
	CEST         string
	CFOP         string
	Unit         string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	ProductValue decimal.Decimal // vProd
	Tax          ItemTax
}

// ItemTax clasificación tributaria ya resuelta del ítem. El serializador escribe
// exactamente los grupos que indican los códigos.
type ItemTax struct {
	Origin string

	ICMSCode  string // CSOSN (ICMSSN102) o CST 00 (ICMS00)
	ICMSBase  decimal.Decimal
	ICMSRate  decimal.Decimal
	ICMSValue decimal.Decimal

	PISCode  string
	PISBase  decimal.Decimal
	PISRate  decimal.Decimal
	PISValue decimal.Decimal

	COFINSCode  string
	COFINSBase  decimal.Decimal
	COFINSRate  decimal.Decimal
	COFINSValue decimal.Decimal
}

// Totals grupo total/ICMSTot. Los campos no modelados se escriben en 0.00.
type Totals struct {
	ICMSBase    decimal.Decimal // vBC
	ICMSValue   decimal.Decimal // vICMS
	ProductsSum decimal.Decimal // vProd
	PISValue    decimal.Decimal // vPIS
	COFINSValue decimal.Decimal // vCOFINS
	InvoiceSum  decimal.Decimal // vNF
}

// Payment grupo pag/detPag.
type Payment struct {
	Indicator string // indPag
	Method    string // tPag
	Amount    decimal.Decimal
}

// Document agrupa los bloques para BuildDocument.
type Document struct {
	ID             string // "NFe" + chave
	Identification Identification
	Issuer         Issuer
	Recipient      Recipient
	Items          []Item
	Totals         Totals
	Payment        Payment
	Note           string // infAdic/infCpl
}

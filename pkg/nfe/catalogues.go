// Package nfe contiene catálogos y utilidades alineados al Manual de Orientação do
// Contribuinte (MOC) de la NF-e, layout 4.00 (Brasil).
package nfe

// Namespace y versión del layout.
const (
	Namespace     = "http://www.portalfiscal.inf.br/nfe"
	LayoutVersion = "4.00"
)

// =============================================================================
// Identificación (grupo ide)
// =============================================================================

const (
	ModelNFe  = "55" // NF-e
	ModelNFCe = "65" // NFC-e

	EnvironmentProduction   = "1" // tpAmb produção
	EnvironmentHomologation = "2" // tpAmb homologação

	EmissionTypeNormal = 1 // tpEmis emissão normal

	OperationTypeOutbound = "1" // tpNF saída
	DestinationInternal   = "1" // idDest operação interna
	PrintTypePortrait     = "1" // tpImp DANFE retrato
	PurposeNormal         = "1" // finNFe normal
	FinalConsumerYes      = "1" // indFinal consumidor final
	PresenceInPerson      = "1" // indPres operação presencial
	ProcessOwnApp         = "0" // procEmi aplicativo do contribuinte
)

// CompanyEnvironmentProduction valor almacenado en el perfil de la empresa para producción.
// Cualquier otro valor se trata como homologación.
const CompanyEnvironmentProduction = "PRODUCTION"

// =============================================================================
// CRT - Código de Regime Tributário
// =============================================================================

const (
	CRTSimplesNacional      = "1"
	CRTSimplesExcessoSublim = "2"
	CRTRegimeNormal         = "3"
)

// ValidTaxRegimeCodes códigos CRT aceptados por el validador del emisor.
var ValidTaxRegimeCodes = map[string]bool{
	CRTSimplesNacional:      true,
	CRTSimplesExcessoSublim: true,
	CRTRegimeNormal:         true,
}

// =============================================================================
// Tributación por ítem
// =============================================================================

const (
	OriginNational = "0" // orig: nacional

	CSOSNWithoutCredit = "102" // Simples Nacional sin permiso de crédito
	CSTICMSFullyTaxed  = "00"  // ICMS tributado integralmente
	ICMSBaseByValue    = "3"   // modBC: valor da operação

	CSTPISCOFINSTaxedBasic = "01"
	CSTPISCOFINSTaxedDiff  = "02"
	CSTPISCOFINSExempt     = "07" // operação isenta da contribuição
)

// SimplifiedCSOSN códigos CSOSN que se serializan en el grupo ICMSSN102.
var SimplifiedCSOSN = map[string]bool{"102": true, "103": true, "300": true, "400": true}

// NonTaxedPISCOFINS CST que se serializan en PISNT / COFINSNT.
var NonTaxedPISCOFINS = map[string]bool{"04": true, "05": true, "06": true, "07": true, "08": true, "09": true}

// TaxedPISCOFINS CST que se serializan en PISAliq / COFINSAliq.
var TaxedPISCOFINS = map[string]bool{CSTPISCOFINSTaxedBasic: true, CSTPISCOFINSTaxedDiff: true}

// =============================================================================
// Destinatario
// =============================================================================

const (
	RecipientIEContributor    = "1" // indIEDest contribuinte ICMS
	RecipientIENonContributor = "9" // indIEDest não contribuinte (isento de IE)

	HomologationRecipientName = "NF-E EMITIDA EM AMBIENTE DE HOMOLOGACAO - SEM VALOR FISCAL"
)

// =============================================================================
// Producto, transporte y pago
// =============================================================================

const (
	NoBarcode     = "SEM GTIN" // literal exigido por el schema cuando no hay GTIN
	TotalIncluded = "1"        // indTot: compõe o total da NF-e
	FreightNone   = "9"        // modFrete: sem ocorrência de transporte
	PaymentInCash = "0"        // indPag: à vista
	PaymentMoney  = "01"       // tPag: dinheiro
	DefaultUnit   = "UN"

	CountryCodeBrazil = "1058"
	CountryNameBrazil = "BRASIL"
)

// =============================================================================
// Códigos IBGE de las UF
// =============================================================================

// UFCodes código IBGE (cUF) por sigla de estado.
var UFCodes = map[string]string{
	"RO": "11", "AC": "12", "AM": "13", "RR": "14", "PA": "15", "AP": "16", "TO": "17",
	"MA": "21", "PI": "22", "CE": "23", "RN": "24", "PB": "25", "PE": "26", "AL": "27",
	"SE": "28", "BA": "29",
	"MG": "31", "ES": "32", "RJ": "33", "SP": "35",
	"PR": "41", "SC": "42", "RS": "43",
	"MS": "50", "MT": "51", "GO": "52", "DF": "53",
}

// UFCode devuelve el cUF de la sigla (sin distinguir mayúsculas) y si existe.
func UFCode(uf string) (string, bool) {
	code, ok := UFCodes[upperASCII(uf)]
	return code, ok
}

func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

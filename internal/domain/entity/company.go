package entity

// Company representa la empresa emisora (emitente) tal como la entrega la capa de persistencia.
// Es una instantánea de solo lectura: el núcleo NF-e nunca la modifica.
type Company struct {
	ID                    string
	LegalName             string // Razão social (xNome)
	TradeName             string // Nome fantasia (xFant)
	CNPJ                  string // con o sin puntuación
	StateRegistration     string // Inscrição estadual (IE)
	MunicipalRegistration string // Inscrição municipal (IM)
	CNAE                  string
	TaxRegimeCode         string // CRT: 1, 2 o 3

	Street           string
	Number           string
	Complement       string
	Neighborhood     string
	MunicipalityCode string // código IBGE de 7 dígitos
	MunicipalityName string
	UF               string
	CEP              string
	CountryCode      string
	CountryName      string
	Phone            string
	Email            string

	Environment string // "PRODUCTION" u otro valor (homologación)

	CertificatePath     string // ruta al .pfx; vacío = usar NFE_CERT_PATH
	CertificatePassword string
}

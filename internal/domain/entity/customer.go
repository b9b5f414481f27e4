package entity

// Customer representa el destinatario de la factura (cliente de la empresa).
type Customer struct {
	ID                string
	Name              string
	Document          string // CPF o CNPJ, con o sin puntuación
	StateRegistration string // IE; vacío = no contribuyente
	Email             string
	Phone             string

	Street           string
	Number           string
	Complement       string
	Neighborhood     string
	MunicipalityCode string
	MunicipalityName string
	UF               string
	CEP              string
}

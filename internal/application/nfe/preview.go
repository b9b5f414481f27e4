// Package nfe orquesta el armado de la NF-e: identificación + chave de acesso, mapeos,
// cálculo de totales y serialización del documento completo.
package nfe

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/nfe-emissor/internal/domain"
	"github.com/jhoicas/nfe-emissor/internal/domain/entity"
	domainnfe "github.com/jhoicas/nfe-emissor/internal/domain/nfe"
	infranfe "github.com/jhoicas/nfe-emissor/internal/infrastructure/nfe"
	pkgnfe "github.com/jhoicas/nfe-emissor/pkg/nfe"
)

// Valores por defecto del armado.
const (
	DefaultUFCode          = "25" // PB
	DefaultOperationNature = "VENDA DE MERCADORIA"
	DefaultProcessVersion  = "nfe-emissor 1.0"
	SimplesNacionalNote    = "DOCUMENTO EMITIDO POR ME OU EPP OPTANTE PELO SIMPLES NACIONAL"

	// dhEmi exige offset explícito (AAAA-MM-DDThh:mm:ss±hh:mm).
	emissionTimeLayout = "2006-01-02T15:04:05-07:00"

	// Destinatario genérico para homologación.
	homologationRecipientCNPJ = "99999999000191"
)

// Options configuración explícita del armado. Los campos vacíos toman los defaults;
// UFCode vacío deriva el cUF de la UF de la empresa. Note vacío escribe la leyenda del
// Simples Nacional solo para CRT 1 y 2; con CRT 3 el documento sale sin infAdic.
type Options struct {
	UFCode          string
	Model           string
	Location        *time.Location
	Now             func() time.Time
	RandomCode      func(invoiceNumber int) string
	OperationNature string
	ProcessVersion  string
	Note            string
	Logger          zerolog.Logger
}

// PreviewResult XML generado y su chave de acesso.
type PreviewResult struct {
	XML        string
	AccessKey  string
	DocumentID string
}

// IssueResult resultado de Issue: el documento más los datos públicos del certificado
// (nil cuando el servicio no tiene fuente de certificados).
type IssueResult struct {
	PreviewResult
	Certificate *infranfe.CertificateInfo
}

// PreviewService arma documentos NF-e. Es seguro para uso concurrente: no guarda estado
// entre llamadas.
type PreviewService struct {
	opts  Options
	certs CertificateSource
	log   zerolog.Logger
}

// NewPreviewService crea el servicio. certs puede ser nil: Issue entonces solo valida y arma.
func NewPreviewService(opts Options, certs CertificateSource) *PreviewService {
	if opts.Model == "" {
		opts.Model = pkgnfe.ModelNFe
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RandomCode == nil {
		opts.RandomCode = domainnfe.GenerateRandomCode
	}
	if opts.OperationNature == "" {
		opts.OperationNature = DefaultOperationNature
	}
	if opts.ProcessVersion == "" {
		opts.ProcessVersion = DefaultProcessVersion
	}
	return &PreviewService{opts: opts, certs: certs, log: opts.Logger}
}

// BuildIdentificationForCompany genera la chave de acesso y el grupo ide de la empresa.
// tpAmb sale de company.Environment: PRODUCTION ⇒ 1, cualquier otro valor ⇒ 2.
func (s *PreviewService) BuildIdentificationForCompany(company *entity.Company, invoiceNumber, series int) (infranfe.Identification, domainnfe.AccessKeyResult, error) {
	if company == nil {
		return infranfe.Identification{}, domainnfe.AccessKeyResult{}, fmt.Errorf("%w: empresa requerida", domain.ErrInput)
	}
	uf, err := s.ufCode(company)
	if err != nil {
		return infranfe.Identification{}, domainnfe.AccessKeyResult{}, err
	}

	now := s.opts.Now().In(s.opts.Location)
	randomCode := s.opts.RandomCode(invoiceNumber)
	key, err := domainnfe.GenerateAccessKey(domainnfe.AccessKeyParams{
		UFCode:       uf,
		Year:         now.Year(),
		Month:        int(now.Month()),
		CNPJ:         company.CNPJ,
		Model:        s.opts.Model,
		Series:       series,
		Number:       invoiceNumber,
		EmissionType: pkgnfe.EmissionTypeNormal,
		RandomCode:   randomCode,
	})
	if err != nil {
		return infranfe.Identification{}, domainnfe.AccessKeyResult{}, err
	}

	ide := infranfe.Identification{
		UFCode:               uf,
		RandomCode:           randomCode,
		OperationNature:      s.opts.OperationNature,
		Model:                s.opts.Model,
		Series:               strconv.Itoa(series),
		Number:               strconv.Itoa(invoiceNumber),
		EmittedAt:            now.Format(emissionTimeLayout),
		OperationType:        pkgnfe.OperationTypeOutbound,
		DestinationIndicator: pkgnfe.DestinationInternal,
		MunicipalityCode:     pkgnfe.OnlyDigits(company.MunicipalityCode),
		PrintType:            pkgnfe.PrintTypePortrait,
		EmissionType:         strconv.Itoa(pkgnfe.EmissionTypeNormal),
		CheckDigit:           key.CheckDigit,
		Environment:          environment(company),
		Purpose:              pkgnfe.PurposeNormal,
		FinalConsumer:        pkgnfe.FinalConsumerYes,
		Presence:             pkgnfe.PresenceInPerson,
		EmissionProcess:      pkgnfe.ProcessOwnApp,
		ProcessVersion:       s.opts.ProcessVersion,
	}
	return ide, key, nil
}

// BuildInvoicePreviewXML arma el XML completo (sin firma).
//
// Sin recipient se usa el destinatario genérico de homologación; un recipient sin dígitos
// en Document es domain.ErrInput. Sin items, un único ítem de prueba. vProd de cada ítem
// = qCom × vUnCom (2 decimales) y vNF = Σ vProd. Los impuestos se calculan sobre vProd y
// solo suman al total los grupos que efectivamente se escriben (ICMS00, PISAliq, COFINSAliq).
func (s *PreviewService) BuildInvoicePreviewXML(company *entity.Company, invoiceNumber, series int, items []entity.LineItem, recipient *entity.Customer) (PreviewResult, error) {
	ide, key, err := s.BuildIdentificationForCompany(company, invoiceNumber, series)
	if err != nil {
		return PreviewResult{}, err
	}

	if recipient == nil {
		recipient = homologationRecipient(company)
	}
	if pkgnfe.OnlyDigits(recipient.Document) == "" {
		return PreviewResult{}, fmt.Errorf("%w: destinatario sin CPF ni CNPJ", domain.ErrInput)
	}
	dest := infranfe.MapRecipientFromCustomer(recipient, company)
	if ide.Environment == pkgnfe.EnvironmentHomologation {
		// la SEFAZ rechaza xNome distinto del literal en homologación
		dest.Name = pkgnfe.HomologationRecipientName
	}

	if len(items) == 0 {
		items = []entity.LineItem{fallbackItem()}
	}
	detItems := make([]infranfe.Item, 0, len(items))
	var totals infranfe.Totals
	for i, li := range items {
		item, err := buildItem(i+1, li)
		if err != nil {
			return PreviewResult{}, err
		}
		detItems = append(detItems, item)
		accumulate(&totals, item)
	}
	totals.InvoiceSum = totals.ProductsSum

	out, err := infranfe.BuildDocument(infranfe.Document{
		ID:             key.DocumentID,
		Identification: ide,
		Issuer:         infranfe.MapCompanyToIssuer(company, company.MunicipalityName),
		Recipient:      dest,
		Items:          detItems,
		Totals:         totals,
		Payment: infranfe.Payment{
			Indicator: pkgnfe.PaymentInCash,
			Method:    pkgnfe.PaymentMoney,
			Amount:    totals.InvoiceSum,
		},
		Note: s.note(company),
	})
	if err != nil {
		return PreviewResult{}, err
	}

	s.log.Debug().
		Str("document_id", key.DocumentID).
		Int("items", len(detItems)).
		Str("vNF", totals.InvoiceSum.StringFixed(2)).
		Msg("nfe: documento armado")

	return PreviewResult{XML: string(out), AccessKey: key.Key.String(), DocumentID: key.DocumentID}, nil
}

// Issue valida el emisor antes de armar. Con errores de validación retorna
// domain.ErrValidation envolviendo los domainnfe.FieldErrors y no arma nada.
// Si el servicio tiene fuente de certificados, exige un certificado legible y vigente.
func (s *PreviewService) Issue(ctx context.Context, company *entity.Company, invoiceNumber, series int, items []entity.LineItem, recipient *entity.Customer) (IssueResult, error) {
	if err := ctx.Err(); err != nil {
		return IssueResult{}, err
	}
	if errs := domainnfe.ValidateIssuer(company); len(errs) > 0 {
		s.log.Warn().Int("errors", len(errs)).Msg("nfe: emisor rechazado por validación")
		return IssueResult{}, fmt.Errorf("%w: %w", domain.ErrValidation, errs)
	}

	var result IssueResult
	if s.certs != nil {
		pem, err := s.certs.Load(ctx, company)
		if err != nil {
			return IssueResult{}, err
		}
		info, err := pem.Describe()
		if err != nil {
			return IssueResult{}, err
		}
		if now := s.opts.Now(); now.After(info.NotAfter) || now.Before(info.NotBefore) {
			return IssueResult{}, fmt.Errorf("%w: certificado fuera de vigencia (%s a %s)",
				domain.ErrCredential, info.NotBefore.Format(time.DateOnly), info.NotAfter.Format(time.DateOnly))
		}
		result.Certificate = &info
	}

	preview, err := s.BuildInvoicePreviewXML(company, invoiceNumber, series, items, recipient)
	if err != nil {
		return IssueResult{}, err
	}
	result.PreviewResult = preview
	return result, nil
}

func (s *PreviewService) ufCode(company *entity.Company) (string, error) {
	if s.opts.UFCode != "" {
		return s.opts.UFCode, nil
	}
	code, ok := pkgnfe.UFCode(strings.TrimSpace(company.UF))
	if !ok {
		return "", fmt.Errorf("%w: UF %q sin código IBGE", domain.ErrInput, company.UF)
	}
	return code, nil
}

func (s *PreviewService) note(company *entity.Company) string {
	if s.opts.Note != "" {
		return s.opts.Note
	}
	switch strings.TrimSpace(company.TaxRegimeCode) {
	case pkgnfe.CRTSimplesNacional, pkgnfe.CRTSimplesExcessoSublim:
		return SimplesNacionalNote
	}
	return ""
}

func environment(company *entity.Company) string {
	if strings.EqualFold(strings.TrimSpace(company.Environment), pkgnfe.CompanyEnvironmentProduction) {
		return pkgnfe.EnvironmentProduction
	}
	return pkgnfe.EnvironmentHomologation
}

func homologationRecipient(company *entity.Company) *entity.Customer {
	return &entity.Customer{
		Name:         pkgnfe.HomologationRecipientName,
		Document:     homologationRecipientCNPJ,
		Street:       company.Street,
		Number:       company.Number,
		Neighborhood: company.Neighborhood,
	}
}

func fallbackItem() entity.LineItem {
	return entity.LineItem{
		Code:        "TESTE-001",
		Description: "PRODUTO DE TESTE - SEM VALOR FISCAL",
		NCM:         "21069090",
		CFOP:        "5102",
		Unit:        pkgnfe.DefaultUnit,
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   decimal.NewFromInt(10),
	}
}

var hundred = decimal.NewFromInt(100)

// buildItem resuelve la clasificación tributaria del ítem y calcula sus valores.
func buildItem(n int, li entity.LineItem) (infranfe.Item, error) {
	productValue := li.Quantity.Mul(li.UnitPrice).Round(2)
	tax := infranfe.ItemTax{
		Origin:     orDefault(li.Origin, pkgnfe.OriginNational),
		ICMSCode:   orDefault(li.ICMSCode, pkgnfe.CSOSNWithoutCredit),
		PISCode:    orDefault(li.PISCode, pkgnfe.CSTPISCOFINSExempt),
		COFINSCode: orDefault(li.COFINSCode, pkgnfe.CSTPISCOFINSExempt),
	}

	switch {
	case pkgnfe.SimplifiedCSOSN[tax.ICMSCode]:
	case tax.ICMSCode == pkgnfe.CSTICMSFullyTaxed:
		tax.ICMSBase, tax.ICMSRate, tax.ICMSValue = productValue, li.ICMSRate, percent(productValue, li.ICMSRate)
	default:
		return infranfe.Item{}, fmt.Errorf("%w: ítem %d: código ICMS %q no soportado", domain.ErrInput, n, tax.ICMSCode)
	}

	switch {
	case pkgnfe.NonTaxedPISCOFINS[tax.PISCode]:
	case pkgnfe.TaxedPISCOFINS[tax.PISCode]:
		tax.PISBase, tax.PISRate, tax.PISValue = productValue, li.PISRate, percent(productValue, li.PISRate)
	default:
		return infranfe.Item{}, fmt.Errorf("%w: ítem %d: CST PIS %q no soportado", domain.ErrInput, n, tax.PISCode)
	}

	switch {
	case pkgnfe.NonTaxedPISCOFINS[tax.COFINSCode]:
	case pkgnfe.TaxedPISCOFINS[tax.COFINSCode]:
		tax.COFINSBase, tax.COFINSRate, tax.COFINSValue = productValue, li.COFINSRate, percent(productValue, li.COFINSRate)
	default:
		return infranfe.Item{}, fmt.Errorf("%w: ítem %d: CST COFINS %q no soportado", domain.ErrInput, n, tax.COFINSCode)
	}

	return infranfe.Item{
		Number:       n,
		Code:         li.Code,
		Barcode:      pkgnfe.OnlyDigits(li.Barcode),
		Description:  li.Description,
		NCM:          pkgnfe.OnlyDigits(li.NCM),
		CEST:         pkgnfe.OnlyDigits(li.CEST),
		CFOP:         pkgnfe.OnlyDigits(li.CFOP),
		Unit:         li.Unit,
		Quantity:     li.Quantity,
		UnitPrice:    li.UnitPrice,
		ProductValue: productValue,
		Tax:          tax,
	}, nil
}

// accumulate suma el ítem a los totales; los valores de grupos no tributados quedan en cero.
func accumulate(t *infranfe.Totals, item infranfe.Item) {
	t.ProductsSum = t.ProductsSum.Add(item.ProductValue)
	t.ICMSBase = t.ICMSBase.Add(item.Tax.ICMSBase)
	t.ICMSValue = t.ICMSValue.Add(item.Tax.ICMSValue)
	t.PISValue = t.PISValue.Add(item.Tax.PISValue)
	t.COFINSValue = t.COFINSValue.Add(item.Tax.COFINSValue)
}

func percent(base, rate decimal.Decimal) decimal.Decimal {
	return base.Mul(rate).Div(hundred).Round(2)
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

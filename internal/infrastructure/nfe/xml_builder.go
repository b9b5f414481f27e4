package nfe

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/nfe-emissor/internal/domain"
	pkgnfe "github.com/jhoicas/nfe-emissor/pkg/nfe"
)

// El orden de los hijos en cada grupo lo fija el schema NF-e 4.00; los validadores
// de la SEFAZ rechazan hermanos fuera de orden. Cada función crea los elementos en ese
// orden exacto con etree (que además escapa & < > " ' en textos y atributos).

// BuildIdentification serializa el grupo ide.
func BuildIdentification(ide Identification) (string, error) {
	return fragment(identificationElement(ide))
}

// BuildIssuer serializa el grupo emit.
func BuildIssuer(emit Issuer) (string, error) {
	return fragment(issuerElement(emit))
}

// BuildRecipient serializa el grupo dest.
func BuildRecipient(dest Recipient) (string, error) {
	return fragment(recipientElement(dest))
}

// BuildItem serializa un grupo det.
func BuildItem(item Item) (string, error) {
	el, err := itemElement(item)
	if err != nil {
		return "", err
	}
	return fragment(el)
}

// BuildTotals serializa el grupo total.
func BuildTotals(t Totals) (string, error) {
	return fragment(totalsElement(t))
}

// BuildTransport serializa el grupo transp (sin flete).
func BuildTransport() (string, error) {
	return fragment(transportElement())
}

// BuildPayment serializa el grupo pag.
func BuildPayment(p Payment) (string, error) {
	return fragment(paymentElement(p))
}

// BuildAdditionalInfo serializa el grupo infAdic.
func BuildAdditionalInfo(note string) (string, error) {
	return fragment(additionalInfoElement(note))
}

// BuildDocument arma el documento completo con prólogo XML:
//
//	<NFe xmlns><infNFe versao Id> ide emit dest det* total transp pag infAdic </infNFe></NFe>
func BuildDocument(d Document) ([]byte, error) {
	if d.ID == "" {
		return nil, fmt.Errorf("nfe: Id de infNFe obligatorio")
	}
	if len(d.Items) == 0 {
		return nil, fmt.Errorf("nfe: el documento debe tener al menos un ítem")
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("NFe")
	root.CreateAttr("xmlns", pkgnfe.Namespace)
	inf := root.CreateElement("infNFe")
	inf.CreateAttr("versao", pkgnfe.LayoutVersion)
	inf.CreateAttr("Id", d.ID)

	inf.AddChild(identificationElement(d.Identification))
	inf.AddChild(issuerElement(d.Issuer))
	inf.AddChild(recipientElement(d.Recipient))
	for _, item := range d.Items {
		el, err := itemElement(item)
		if err != nil {
			return nil, err
		}
		inf.AddChild(el)
	}
	inf.AddChild(totalsElement(d.Totals))
	inf.AddChild(transportElement())
	inf.AddChild(paymentElement(d.Payment))
	if d.Note != "" {
		inf.AddChild(additionalInfoElement(d.Note))
	}

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("nfe: serializar documento: %w", err)
	}
	return out, nil
}

// ── grupos ───────────────────────────────────────────────────────────────────

func identificationElement(ide Identification) *etree.Element {
	el := etree.NewElement("ide")
	child(el, "cUF", ide.UFCode)
	child(el, "cNF", ide.RandomCode)
	child(el, "natOp", ide.OperationNature)
	child(el, "mod", ide.Model)
	child(el, "serie", ide.Series)
	child(el, "nNF", ide.Number)
	child(el, "dhEmi", ide.EmittedAt)
	child(el, "tpNF", ide.OperationType)
	child(el, "idDest", ide.DestinationIndicator)
	child(el, "cMunFG", ide.MunicipalityCode)
	child(el, "tpImp", ide.PrintType)
	child(el, "tpEmis", ide.EmissionType)
	child(el, "cDV", ide.CheckDigit) // antes de tpAmb
	child(el, "tpAmb", ide.Environment)
	child(el, "finNFe", ide.Purpose)
	child(el, "indFinal", ide.FinalConsumer)
	child(el, "indPres", ide.Presence)
	child(el, "procEmi", ide.EmissionProcess)
	child(el, "verProc", ide.ProcessVersion)
	return el
}

func issuerElement(emit Issuer) *etree.Element {
	el := etree.NewElement("emit")
	child(el, "CNPJ", emit.CNPJ)
	child(el, "xNome", emit.Name)
	optional(el, "xFant", emit.TradeName)
	el.AddChild(addressElement("enderEmit", emit.Address))
	child(el, "IE", emit.StateRegistration)
	if emit.MunicipalRegistration != "" {
		child(el, "IM", emit.MunicipalRegistration)
		optional(el, "CNAE", emit.CNAE)
	}
	child(el, "CRT", emit.TaxRegimeCode)
	return el
}

func recipientElement(dest Recipient) *etree.Element {
	el := etree.NewElement("dest")
	if dest.CNPJ != "" {
		child(el, "CNPJ", dest.CNPJ)
	} else {
		child(el, "CPF", dest.CPF)
	}
	child(el, "xNome", dest.Name)
	el.AddChild(addressElement("enderDest", dest.Address))
	child(el, "indIEDest", dest.IEIndicator)
	if dest.IEIndicator == pkgnfe.RecipientIEContributor {
		child(el, "IE", dest.StateRegistration)
	}
	optional(el, "email", dest.Email)
	return el
}

func addressElement(tag string, a Address) *etree.Element {
	el := etree.NewElement(tag)
	child(el, "xLgr", a.Street)
	child(el, "nro", a.Number)
	optional(el, "xCpl", a.Complement)
	child(el, "xBairro", a.Neighborhood)
	child(el, "cMun", a.MunicipalityCode)
	child(el, "xMun", a.MunicipalityName)
	child(el, "UF", a.UF)
	child(el, "CEP", a.CEP)
	child(el, "cPais", a.CountryCode)
	child(el, "xPais", a.CountryName)
	optional(el, "fone", a.Phone)
	return el
}

func itemElement(item Item) (*etree.Element, error) {
	el := etree.NewElement("det")
	el.CreateAttr("nItem", strconv.Itoa(item.Number))

	barcode := item.Barcode
	if barcode == "" {
		barcode = pkgnfe.NoBarcode
	}
	unit := item.Unit
	if unit == "" {
		unit = pkgnfe.DefaultUnit
	}

	prod := el.CreateElement("prod")
	child(prod, "cProd", item.Code)
	child(prod, "cEAN", barcode)
	child(prod, "xProd", item.Description)
	child(prod, "NCM", item.NCM)
	optional(prod, "CEST", item.CEST)
	child(prod, "CFOP", item.CFOP)
	child(prod, "uCom", unit)
	child(prod, "qCom", quantity(item.Quantity))
	child(prod, "vUnCom", money(item.UnitPrice))
	child(prod, "vProd", money(item.ProductValue))
	child(prod, "cEANTrib", barcode)
	child(prod, "uTrib", unit)
	child(prod, "qTrib", quantity(item.Quantity))
	child(prod, "vUnTrib", money(item.UnitPrice))
	child(prod, "indTot", pkgnfe.TotalIncluded)

	imposto := el.CreateElement("imposto")
	if err := writeICMS(imposto, item.Tax); err != nil {
		return nil, fmt.Errorf("nfe: ítem %d: %w", item.Number, err)
	}
	if err := writeContribution(imposto, "PIS", item.Tax.PISCode, item.Tax.PISBase, item.Tax.PISRate, item.Tax.PISValue); err != nil {
		return nil, fmt.Errorf("nfe: ítem %d: %w", item.Number, err)
	}
	if err := writeContribution(imposto, "COFINS", item.Tax.COFINSCode, item.Tax.COFINSBase, item.Tax.COFINSRate, item.Tax.COFINSValue); err != nil {
		return nil, fmt.Errorf("nfe: ítem %d: %w", item.Number, err)
	}
	return el, nil
}

func writeICMS(imposto *etree.Element, tax ItemTax) error {
	icms := imposto.CreateElement("ICMS")
	origin := tax.Origin
	if origin == "" {
		origin = pkgnfe.OriginNational
	}
	switch {
	case pkgnfe.SimplifiedCSOSN[tax.ICMSCode]:
		g := icms.CreateElement("ICMSSN102")
		child(g, "orig", origin)
		child(g, "CSOSN", tax.ICMSCode)
	case tax.ICMSCode == pkgnfe.CSTICMSFullyTaxed:
		g := icms.CreateElement("ICMS00")
		child(g, "orig", origin)
		child(g, "CST", tax.ICMSCode)
		child(g, "modBC", pkgnfe.ICMSBaseByValue)
		child(g, "vBC", money(tax.ICMSBase))
		child(g, "pICMS", rate(tax.ICMSRate))
		child(g, "vICMS", money(tax.ICMSValue))
	default:
		return fmt.Errorf("%w: código ICMS %q no soportado", domain.ErrInput, tax.ICMSCode)
	}
	return nil
}

// writeContribution escribe PIS o COFINS (mismo formato, distinto prefijo).
func writeContribution(imposto *etree.Element, name, code string, base, pct, value decimal.Decimal) error {
	grp := imposto.CreateElement(name)
	switch {
	case pkgnfe.NonTaxedPISCOFINS[code]:
		g := grp.CreateElement(name + "NT")
		child(g, "CST", code)
	case pkgnfe.TaxedPISCOFINS[code]:
		g := grp.CreateElement(name + "Aliq")
		child(g, "CST", code)
		child(g, "vBC", money(base))
		child(g, "p"+name, rate(pct))
		child(g, "v"+name, money(value))
	default:
		return fmt.Errorf("%w: CST %s %q no soportado", domain.ErrInput, name, code)
	}
	return nil
}

func totalsElement(t Totals) *etree.Element {
	el := etree.NewElement("total")
	tot := el.CreateElement("ICMSTot")
	zero := money(decimal.Zero)
	child(tot, "vBC", money(t.ICMSBase))
	child(tot, "vICMS", money(t.ICMSValue))
	child(tot, "vICMSDeson", zero)
	child(tot, "vFCP", zero)
	child(tot, "vBCST", zero)
	child(tot, "vST", zero)
	child(tot, "vFCPST", zero)
	child(tot, "vFCPSTRet", zero)
	child(tot, "vProd", money(t.ProductsSum))
	child(tot, "vFrete", zero)
	child(tot, "vSeg", zero)
	child(tot, "vDesc", zero)
	child(tot, "vII", zero)
	child(tot, "vIPI", zero)
	child(tot, "vIPIDevol", zero)
	child(tot, "vPIS", money(t.PISValue))
	child(tot, "vCOFINS", money(t.COFINSValue))
	child(tot, "vOutro", zero)
	child(tot, "vNF", money(t.InvoiceSum))
	return el
}

func transportElement() *etree.Element {
	el := etree.NewElement("transp")
	child(el, "modFrete", pkgnfe.FreightNone)
	return el
}

func paymentElement(p Payment) *etree.Element {
	el := etree.NewElement("pag")
	det := el.CreateElement("detPag")
	optional(det, "indPag", p.Indicator)
	child(det, "tPag", p.Method)
	child(det, "vPag", money(p.Amount))
	return el
}

func additionalInfoElement(note string) *etree.Element {
	el := etree.NewElement("infAdic")
	child(el, "infCpl", note)
	return el
}

// ── helpers ──────────────────────────────────────────────────────────────────

func child(parent *etree.Element, tag, value string) {
	parent.CreateElement(tag).SetText(value)
}

func optional(parent *etree.Element, tag, value string) {
	if value != "" {
		child(parent, tag, value)
	}
}

// fragment serializa un elemento suelto, sin prólogo.
func fragment(el *etree.Element) (string, error) {
	doc := etree.NewDocument()
	doc.SetRoot(el)
	s, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("nfe: serializar %s: %w", el.Tag, err)
	}
	return s, nil
}

func money(d decimal.Decimal) string    { return d.Round(2).StringFixed(2) }
func quantity(d decimal.Decimal) string { return d.Round(4).StringFixed(4) }
func rate(d decimal.Decimal) string     { return d.Round(4).StringFixed(4) }

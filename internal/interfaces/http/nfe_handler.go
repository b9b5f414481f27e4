package http

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/nfe-emissor/internal/application/dto"
	appnfe "github.com/jhoicas/nfe-emissor/internal/application/nfe"
	"github.com/jhoicas/nfe-emissor/internal/domain"
	domainnfe "github.com/jhoicas/nfe-emissor/internal/domain/nfe"
	infranfe "github.com/jhoicas/nfe-emissor/internal/infrastructure/nfe"
)

// NFEHandler expone el armado NF-e por HTTP (protegido).
type NFEHandler struct {
	svc           *appnfe.PreviewService
	log           zerolog.Logger
	defaultSeries int
	now           func() time.Time
}

// NewNFEHandler construye el handler. defaultSeries se usa cuando el body no trae serie.
func NewNFEHandler(svc *appnfe.PreviewService, log zerolog.Logger, defaultSeries int) *NFEHandler {
	return &NFEHandler{svc: svc, log: log, defaultSeries: defaultSeries, now: time.Now}
}

// ValidateIssuer revisa los datos fiscales del emisor.
// POST /api/nfe/issuer/validate
func (h *NFEHandler) ValidateIssuer(c *fiber.Ctx) error {
	var in dto.ValidateIssuerRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	errs := domainnfe.ValidateIssuer(in.Company.ToEntity())
	return c.JSON(dto.ValidateIssuerResponse{Valid: len(errs) == 0, Errors: toFieldErrorDTOs(errs)})
}

// Preview valida el emisor y arma el XML (sin firma ni envío).
// POST /api/nfe/preview
func (h *NFEHandler) Preview(c *fiber.Ctx) error {
	var in dto.PreviewRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	series := in.Series
	if series == 0 {
		series = h.defaultSeries
	}

	log := h.requestLogger(c)
	res, err := h.svc.Issue(c.UserContext(), in.Company.ToEntity(), in.InvoiceNumber, series, dto.ToEntities(in.Items), in.Recipient.ToEntity())
	if err != nil {
		log.Warn().Err(err).Int("invoice_number", in.InvoiceNumber).Msg("nfe: preview rechazado")
		return writeError(c, err)
	}
	log.Info().Str("document_id", res.DocumentID).Msg("nfe: preview generado")

	out := dto.PreviewResponse{XML: res.XML, AccessKey: res.AccessKey, DocumentID: res.DocumentID}
	if res.Certificate != nil {
		info := h.certificateDTO(*res.Certificate)
		out.Certificate = &info
	}
	return c.JSON(out)
}

// ParseAccessKey valida y descompone una chave de acesso.
// POST /api/nfe/access-key/parse
func (h *NFEHandler) ParseAccessKey(c *fiber.Ctx) error {
	var in dto.AccessKeyParseRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	key, err := domainnfe.ParseAccessKey(in.AccessKey)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AccessKeyResponse{
		AccessKey:    key.String(),
		DocumentID:   key.DocumentID(),
		UFCode:       key.UFCode(),
		YearMonth:    key.YearMonth(),
		CNPJ:         key.CNPJ(),
		Model:        key.Model(),
		Series:       key.Series(),
		Number:       key.Number(),
		EmissionType: key.EmissionType(),
		RandomCode:   key.RandomCode(),
		CheckDigit:   key.CheckDigit(),
	})
}

// CheckCertificate abre un .pfx enviado en base64 y devuelve solo sus datos públicos.
// POST /api/nfe/certificate/check
func (h *NFEHandler) CheckCertificate(c *fiber.Ctx) error {
	var in dto.CertificateCheckRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(in.PFXBase64))
	if err != nil || len(data) == 0 {
		return writeError(c, fmt.Errorf("%w: pfx_base64 inválido", domain.ErrInput))
	}
	pem, err := infranfe.DecodePKCS12(data, in.Password)
	if err != nil {
		log := h.requestLogger(c)
		log.Warn().Err(err).Msg("nfe: certificado rechazado")
		return writeError(c, err)
	}
	info, err := pem.Describe()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.certificateDTO(info))
}

func (h *NFEHandler) certificateDTO(info infranfe.CertificateInfo) dto.CertificateInfoDTO {
	return dto.CertificateInfoDTO{
		Subject:   info.Subject,
		Issuer:    info.Issuer,
		Serial:    info.Serial,
		NotBefore: info.NotBefore,
		NotAfter:  info.NotAfter,
		Expired:   h.now().After(info.NotAfter),
	}
}

func (h *NFEHandler) requestLogger(c *fiber.Ctx) zerolog.Logger {
	return h.log.With().
		Str("request_id", GetRequestID(c)).
		Str("company_id", GetCompanyID(c)).
		Logger()
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido", RequestID: GetRequestID(c)})
}

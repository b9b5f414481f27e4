package nfe

import (
	"context"

	"github.com/jhoicas/nfe-emissor/internal/domain/entity"
	infranfe "github.com/jhoicas/nfe-emissor/internal/infrastructure/nfe"
)

// CertificateSource entrega el material de firma de la empresa (lo implementa
// *infranfe.CertificatePool). El resultado no se guarda: se usa y se descarta.
type CertificateSource interface {
	Load(ctx context.Context, company *entity.Company) (infranfe.CertificatePEM, error)
}

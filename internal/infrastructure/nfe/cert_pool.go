package nfe

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/jhoicas/nfe-emissor/internal/domain/entity"
)

// certLoader contrato mínimo del pool (lo implementa *CertificateLoader).
type certLoader interface {
	Load(company *entity.Company) (CertificatePEM, error)
}

// CertificatePool limita cuántas cargas de .pfx corren a la vez y acota cada una con un
// timeout, para que la emisión concurrente no bloquee los handlers HTTP.
// No guarda nada entre llamadas.
type CertificatePool struct {
	loader  certLoader
	sem     *semaphore.Weighted
	timeout time.Duration
}

// NewCertificatePool crea el pool. workers <= 0 usa 1; timeout <= 0 desactiva el límite.
func NewCertificatePool(loader certLoader, workers int, timeout time.Duration) *CertificatePool {
	if workers <= 0 {
		workers = 1
	}
	return &CertificatePool{
		loader:  loader,
		sem:     semaphore.NewWeighted(int64(workers)),
		timeout: timeout,
	}
}

type loadResult struct {
	pem CertificatePEM
	err error
}

// Load espera un cupo y ejecuta la carga en una goroutine. Si ctx se cancela o vence el
// timeout la llamada retorna, pero el cupo sigue ocupado hasta que el parseo termine.
func (p *CertificatePool) Load(ctx context.Context, company *entity.Company) (CertificatePEM, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return CertificatePEM{}, fmt.Errorf("nfe: esperando cupo para cargar certificado: %w", err)
	}

	done := make(chan loadResult, 1)
	go func() {
		defer p.sem.Release(1)
		pem, err := p.loader.Load(company)
		done <- loadResult{pem: pem, err: err}
	}()

	select {
	case r := <-done:
		return r.pem, r.err
	case <-ctx.Done():
		return CertificatePEM{}, fmt.Errorf("nfe: carga de certificado: %w", ctx.Err())
	}
}

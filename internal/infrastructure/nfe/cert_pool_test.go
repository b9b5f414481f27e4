package nfe_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nfe-emissor/internal/domain/entity"
	infranfe "github.com/jhoicas/nfe-emissor/internal/infrastructure/nfe"
)

// slowLoader simula el parseo del .pfx y registra la concurrencia máxima observada.
type slowLoader struct {
	delay   time.Duration
	current atomic.Int32
	peak    atomic.Int32
}

func (l *slowLoader) Load(_ *entity.Company) (infranfe.CertificatePEM, error) {
	n := l.current.Add(1)
	for {
		p := l.peak.Load()
		if n <= p || l.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(l.delay)
	l.current.Add(-1)
	return infranfe.CertificatePEM{PrivateKeyPEM: "k", CertificatePEM: "c"}, nil
}

func TestCertificatePool_LimitaConcurrencia(t *testing.T) {
	loader := &slowLoader{delay: 20 * time.Millisecond}
	pool := infranfe.NewCertificatePool(loader, 2, time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := pool.Load(context.Background(), &entity.Company{})
			assert.NoError(t, err)
			assert.Equal(t, "c", out.CertificatePEM)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, loader.peak.Load(), int32(2))
	assert.GreaterOrEqual(t, loader.peak.Load(), int32(1))
}

func TestCertificatePool_Timeout(t *testing.T) {
	loader := &slowLoader{delay: 200 * time.Millisecond}
	pool := infranfe.NewCertificatePool(loader, 1, 10*time.Millisecond)

	_, err := pool.Load(context.Background(), &entity.Company{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestCertificatePool_PropagaErrorDelLoader(t *testing.T) {
	pool := infranfe.NewCertificatePool(newLoader(), 1, time.Second)
	_, err := pool.Load(context.Background(), &entity.Company{CertificatePath: "/no/existe.pfx"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no encontrado")
}

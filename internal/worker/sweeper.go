package worker

import (
	"context"
	"sync"
	"time"

	"github.com/avc/payments-admin-console/internal/session"
	"go.uber.org/zap"
)

// Sweeper периодически проверяет персистентную сессию и очищает ее,
// когда последнее сохранение старше времени жизни сессии. Без этого
// bearer-токен брошенной консоли лежал бы на диске бессрочно.
type Sweeper struct {
	store    *session.Store
	ttl      time.Duration
	interval time.Duration
	logger   *zap.Logger
	wg       sync.WaitGroup
	stop     chan struct{}
}

// NewSweeper создает новый Sweeper
func NewSweeper(store *session.Store, ttl, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		ttl:      ttl,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Start запускает фоновую проверку
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop останавливает фоновую проверку и дожидается ее завершения
func (s *Sweeper) Stop() {
	close(s.stop)
	s.wg.Wait()
}

// run крутит тикер до остановки
func (s *Sweeper) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session sweeper stopping")
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.Sweep(time.Now())
		}
	}
}

// Sweep очищает сессию если она старше TTL
func (s *Sweeper) Sweep(now time.Time) {
	updated, ok := s.store.UpdatedAt()
	if !ok {
		return
	}

	if age := now.Sub(updated); age > s.ttl {
		s.store.Clear()
		s.logger.Info("expired session cleared", zap.Duration("age", age))
	}
}

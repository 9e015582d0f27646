package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/avc/payments-admin-console/internal/domain"
	"go.uber.org/zap"
)

// sampleCount размер выборки платежей для локальных распределений
const sampleCount = 100

// DashboardService реализует domain.DashboardService.
// Агрегаты приходят с бэкенда, распределения по статусам и способам
// оплаты считаются из локальной 100-записной выборки и статистикой
// всей платформы не являются.
type DashboardService struct {
	gateway domain.GatewayClient
	logger  *zap.Logger

	mu      sync.Mutex
	stats   *domain.DashboardStats
	sample  []domain.Payment
	revenue []domain.RevenuePoint
	period  domain.RevenuePeriod
	loaded  bool
	revSeq  uint64 // номер последнего запущенного запроса выручки
}

// NewDashboardService создает новый DashboardService с дневной выручкой
func NewDashboardService(gateway domain.GatewayClient, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		gateway: gateway,
		logger:  logger,
		period:  domain.RevenuePeriodDaily,
	}
}

// Load получает агрегаты и выборку платежей конкурентно.
// Сбой любого из запросов дает единое состояние ошибки, повтором
// служит новый вызов Load. После первого успеха подтягивается выручка
// для текущего периода.
func (s *DashboardService) Load(ctx context.Context) error {
	var (
		wg       sync.WaitGroup
		stats    *domain.DashboardStats
		statsErr error
		list     *domain.PaymentList
		listErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		stats, statsErr = s.gateway.DashboardStats(ctx)
	}()
	go func() {
		defer wg.Done()
		list, listErr = s.gateway.ListPayments(ctx, domain.PaymentQuery{Count: sampleCount})
	}()
	wg.Wait()

	if statsErr != nil {
		return fmt.Errorf("dashboard service: failed to fetch stats: %w", statsErr)
	}
	if listErr != nil {
		return fmt.Errorf("dashboard service: failed to fetch payment sample: %w", listErr)
	}

	s.mu.Lock()
	s.stats = stats
	s.sample = list.Items
	s.loaded = true
	period := s.period
	s.mu.Unlock()

	return s.fetchRevenue(ctx, period)
}

// SetPeriod переключает гранулярность выручки.
// До первого успешного Load запрос не выполняется, повторная установка
// того же периода тоже. Агрегаты и выборка не затрагиваются.
func (s *DashboardService) SetPeriod(ctx context.Context, period domain.RevenuePeriod) error {
	if period != domain.RevenuePeriodDaily && period != domain.RevenuePeriodMonthly {
		return fmt.Errorf("dashboard service: %q: %w", period, domain.ErrInvalidPeriod)
	}

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return domain.ErrNotLoaded
	}
	if s.period == period {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	return s.fetchRevenue(ctx, period)
}

// fetchRevenue запрашивает временной ряд выручки.
// Ответ применяется только если за время полета не стартовал более
// новый запрос: медленный устаревший ответ состояние не перетирает.
func (s *DashboardService) fetchRevenue(ctx context.Context, period domain.RevenuePeriod) error {
	s.mu.Lock()
	s.revSeq++
	mySeq := s.revSeq
	s.mu.Unlock()

	points, err := s.gateway.Revenue(ctx, period)

	s.mu.Lock()
	defer s.mu.Unlock()

	if mySeq != s.revSeq {
		s.logger.Debug("stale revenue response discarded",
			zap.String("period", string(period)),
			zap.Uint64("seq", mySeq),
		)
		return nil
	}

	if err != nil {
		return fmt.Errorf("dashboard service: failed to fetch revenue: %w", err)
	}

	s.revenue = points
	s.period = period
	return nil
}

// Snapshot возвращает снимок состояния дашборда
func (s *DashboardService) Snapshot() domain.DashboardSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.DashboardSnapshot{
		Stats:   s.stats,
		Revenue: append([]domain.RevenuePoint(nil), s.revenue...),
		Period:  s.period,
		Sample:  append([]domain.Payment(nil), s.sample...),
		Loaded:  s.loaded,
	}
}

// StatusDistribution считает распределение статусов по локальной выборке:
// captured это успех, failed провал, created и authorized ожидание
func (s *DashboardService) StatusDistribution() domain.StatusDistribution {
	s.mu.Lock()
	defer s.mu.Unlock()

	var dist domain.StatusDistribution
	for _, payment := range s.sample {
		switch payment.Status {
		case domain.PaymentStatusCaptured:
			dist.Success++
		case domain.PaymentStatusFailed:
			dist.Failed++
		case domain.PaymentStatusCreated, domain.PaymentStatusAuthorized:
			dist.Pending++
		}
	}
	return dist
}

// methodOrder фиксированный порядок способов оплаты в распределении
var methodOrder = []domain.PaymentMethod{
	domain.PaymentMethodCard,
	domain.PaymentMethodUPI,
	domain.PaymentMethodNetbanking,
	domain.PaymentMethodWallet,
	domain.PaymentMethodEMI,
}

// MethodDistribution считает количество платежей каждого способа оплаты
// по локальной выборке, способы без платежей опускаются
func (s *DashboardService) MethodDistribution() []domain.MethodCount {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[domain.PaymentMethod]int)
	for _, payment := range s.sample {
		counts[payment.Method]++
	}

	result := make([]domain.MethodCount, 0, len(counts))
	for _, method := range methodOrder {
		if count := counts[method]; count > 0 {
			result = append(result, domain.MethodCount{
				Method: method,
				Label:  domain.MethodLabel(method),
				Count:  count,
			})
			delete(counts, method)
		}
	}
	// Неизвестные способы оплаты в конец
	for method, count := range counts {
		result = append(result, domain.MethodCount{
			Method: method,
			Label:  domain.MethodLabel(method),
			Count:  count,
		})
	}
	return result
}

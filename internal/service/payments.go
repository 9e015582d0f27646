package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avc/payments-admin-console/internal/domain"
	"github.com/avc/payments-admin-console/internal/utils/csvexport"
	"go.uber.org/zap"
)

const (
	// fetchCount размер страницы, запрашиваемой у бэкенда
	fetchCount = 100
	// pageSize размер страницы отображения
	pageSize = 10
)

// PaymentsService реализует domain.PaymentsService.
// Хранит состояние текущего представления: загруженную с бэкенда
// страницу, набор фильтров и номер страницы отображения. Фильтры по
// режиму и способу оплаты бэкенд не поддерживает, они применяются
// локально к загруженной странице: платеж, отсеченный локальным
// фильтром, может существовать за пределами загруженной страницы и
// в выдачу не попадет.
type PaymentsService struct {
	gateway  domain.GatewayClient
	logger   *zap.Logger
	basename string
	now      func() time.Time

	mu      sync.Mutex
	filters domain.PaymentFilters
	fetched []domain.Payment
	page    int
	seq     uint64 // номер последнего запущенного запроса списка
}

// NewPaymentsService создает новый PaymentsService
func NewPaymentsService(gateway domain.GatewayClient, basename string, logger *zap.Logger) *PaymentsService {
	return &PaymentsService{
		gateway:  gateway,
		logger:   logger,
		basename: basename,
		now:      time.Now,
		filters:  domain.DefaultFilters(),
		page:     1,
	}
}

// SetFilters применяет новый набор фильтров.
// Перезапрос у бэкенда выполняется только при изменении статуса или
// диапазона дат, номер страницы сбрасывается на 1 при любом изменении.
func (s *PaymentsService) SetFilters(ctx context.Context, filters domain.PaymentFilters) error {
	s.mu.Lock()
	old := s.filters
	s.filters = filters
	if old != filters {
		s.page = 1
	}
	needFetch := s.fetched == nil ||
		old.Status != filters.Status ||
		old.StartDate != filters.StartDate ||
		old.EndDate != filters.EndDate
	s.mu.Unlock()

	if !needFetch {
		return nil
	}
	return s.fetch(ctx)
}

// Refresh перезагружает текущую страницу с бэкенда
func (s *PaymentsService) Refresh(ctx context.Context) error {
	return s.fetch(ctx)
}

// Filters возвращает текущий набор фильтров
func (s *PaymentsService) Filters() domain.PaymentFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// fetch запрашивает страницу у бэкенда с серверными фильтрами.
// Каждый запрос получает порядковый номер: ответ применяется только
// если за время полета не стартовал более новый запрос, устаревший
// ответ отбрасывается и не перетирает состояние представления.
func (s *PaymentsService) fetch(ctx context.Context) error {
	s.mu.Lock()
	s.seq++
	mySeq := s.seq
	query := domain.PaymentQuery{
		Count:  fetchCount,
		Status: s.filters.Status,
		From:   dateToEpoch(s.filters.StartDate),
		To:     dateToEpoch(s.filters.EndDate),
	}
	s.mu.Unlock()

	list, err := s.gateway.ListPayments(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()

	if mySeq != s.seq {
		s.logger.Debug("stale payments response discarded", zap.Uint64("seq", mySeq))
		return nil
	}

	if err != nil {
		return fmt.Errorf("payments service: failed to fetch payments: %w", err)
	}

	s.fetched = list.Items
	return nil
}

// SetPage устанавливает номер страницы отображения.
// Значение приводится к допустимому диапазону при построении снимка.
func (s *PaymentsService) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page < 1 {
		page = 1
	}
	s.page = page
}

// View строит снимок отображаемого списка: локальные фильтры по режиму
// и способу оплаты, затем пагинация. Пагинированный набор всегда
// подмножество отфильтрованного, а отфильтрованный подмножество
// загруженной страницы.
func (s *PaymentsService) View() domain.PaymentView {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := applyLocalFilters(s.fetched, s.filters)

	totalPages := (len(filtered) + pageSize - 1) / pageSize

	page := s.page
	if totalPages == 0 {
		page = 1
	} else if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return domain.PaymentView{
		Items:      append([]domain.Payment(nil), filtered[start:end]...),
		Filtered:   len(filtered),
		Fetched:    len(s.fetched),
		Page:       page,
		TotalPages: totalPages,
	}
}

// Payment возвращает платеж для панели деталей.
// Сначала ищет в загруженной странице, затем спрашивает бэкенд.
func (s *PaymentsService) Payment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	s.mu.Lock()
	for i := range s.fetched {
		if s.fetched[i].ID == paymentID {
			payment := s.fetched[i]
			s.mu.Unlock()
			return &payment, nil
		}
	}
	s.mu.Unlock()

	payment, err := s.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("payments service: failed to get payment %q: %w", paymentID, err)
	}
	return payment, nil
}

// ExportCSV сериализует отфильтрованный (не пагинированный) набор
func (s *PaymentsService) ExportCSV() (string, []byte, error) {
	s.mu.Lock()
	filtered := applyLocalFilters(s.fetched, s.filters)
	s.mu.Unlock()

	return csvexport.Filename(s.basename, s.now()), csvexport.Payments(filtered), nil
}

// Refund выполняет возврат и заменяет платеж в загруженной странице
// обновленным представлением от бэкенда
func (s *PaymentsService) Refund(ctx context.Context, paymentID string, amount *int64) (*domain.Payment, error) {
	payment, err := s.gateway.Refund(ctx, paymentID, amount)
	if err != nil {
		return nil, fmt.Errorf("payments service: refund of %q failed: %w", paymentID, err)
	}

	s.mu.Lock()
	for i := range s.fetched {
		if s.fetched[i].ID == payment.ID {
			s.fetched[i] = *payment
			break
		}
	}
	s.mu.Unlock()

	s.logger.Info("payment refunded", zap.String("payment_id", payment.ID))
	return payment, nil
}

// applyLocalFilters применяет фильтры к загруженной странице.
// Статус фильтруется и бэкендом, повторная локальная проверка держит
// инвариант "отфильтрованное подмножество загруженного" даже если
// бэкенд вернул смешанную страницу.
func applyLocalFilters(payments []domain.Payment, filters domain.PaymentFilters) []domain.Payment {
	result := make([]domain.Payment, 0, len(payments))
	for _, payment := range payments {
		if filters.Status != "" && filters.Status != domain.FilterAll && string(payment.Status) != filters.Status {
			continue
		}
		if filters.Mode != "" && filters.Mode != domain.FilterAll && string(payment.Mode) != filters.Mode {
			continue
		}
		if filters.Method != "" && filters.Method != domain.FilterAll && string(payment.Method) != filters.Method {
			continue
		}
		result = append(result, payment)
	}
	return result
}

// dateToEpoch переводит дату YYYY-MM-DD в секунды Unix-времени,
// пустая или некорректная строка означает отсутствие границы
func dateToEpoch(date string) int64 {
	if date == "" {
		return 0
	}
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0
	}
	return parsed.Unix()
}

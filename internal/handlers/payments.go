package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/avc/payments-admin-console/internal/domain"
	"github.com/avc/payments-admin-console/internal/session"
	"github.com/avc/payments-admin-console/internal/web"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentsHandler struct {
	payments domain.PaymentsService
	auth     domain.AuthService
	store    *session.Store
	renderer *web.Renderer
	logger   *zap.Logger
}

func NewPaymentsHandler(payments domain.PaymentsService, auth domain.AuthService, store *session.Store, renderer *web.Renderer, logger *zap.Logger) *PaymentsHandler {
	return &PaymentsHandler{
		payments: payments,
		auth:     auth,
		store:    store,
		renderer: renderer,
		logger:   logger,
	}
}

type paymentsPageData struct {
	Theme         string
	AdminName     string
	Filters       domain.PaymentFilters
	View          domain.PaymentView
	ExportQuery   string
	PrevPageQuery string
	NextPageQuery string
}

// List рендерит список платежей с фильтрами и пагинацией
func (h *PaymentsHandler) List(w http.ResponseWriter, r *http.Request) error {
	filters := filtersFromQuery(r.URL.Query())
	if err := h.payments.SetFilters(r.Context(), filters); err != nil {
		return fmt.Errorf("payments list: %w", err)
	}

	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		h.payments.SetPage(page)
	}

	view := h.payments.View()
	data := paymentsPageData{
		Theme:         h.store.LoadTheme(),
		AdminName:     adminName(h.auth),
		Filters:       h.payments.Filters(),
		View:          view,
		ExportQuery:   filterQuery(filters, 0),
		PrevPageQuery: "/payments" + filterQuery(filters, view.Page-1),
		NextPageQuery: "/payments" + filterQuery(filters, view.Page+1),
	}
	return h.renderer.Render(w, "payments.html", data)
}

type paymentDetailData struct {
	Theme     string
	AdminName string
	Payment   *domain.Payment
	CanRefund bool
	ShowError bool
}

// Detail рендерит карточку платежа
func (h *PaymentsHandler) Detail(w http.ResponseWriter, r *http.Request) error {
	paymentID := chi.URLParam(r, "paymentID")

	payment, err := h.payments.Payment(r.Context(), paymentID)
	if err != nil {
		return fmt.Errorf("payment detail: %w", err)
	}

	data := paymentDetailData{
		Theme:     h.store.LoadTheme(),
		AdminName: adminName(h.auth),
		Payment:   payment,
		CanRefund: payment.Status == domain.PaymentStatusCaptured && payment.AmountRefunded < payment.Amount,
		ShowError: payment.Status == domain.PaymentStatusFailed,
	}
	return h.renderer.Render(w, "payment_detail.html", data)
}

// Export отдает отфильтрованный список платежей CSV-файлом.
// Экспортируется весь отфильтрованный набор, не текущая страница.
func (h *PaymentsHandler) Export(w http.ResponseWriter, r *http.Request) error {
	filters := filtersFromQuery(r.URL.Query())
	if err := h.payments.SetFilters(r.Context(), filters); err != nil {
		return fmt.Errorf("payments export: %w", err)
	}

	filename, data, err := h.payments.ExportCSV()
	if err != nil {
		return fmt.Errorf("payments export: %w", err)
	}

	h.logger.Info("payments exported", zap.String("filename", filename))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, err = w.Write(data)
	return err
}

// Refund инициирует возврат по платежу.
// Пустое поле amount означает полный возврат остатка.
func (h *PaymentsHandler) Refund(w http.ResponseWriter, r *http.Request) error {
	paymentID := chi.URLParam(r, "paymentID")

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("refund: failed to parse form: %w", err)
	}

	var amount *int64
	if raw := r.PostFormValue("amount"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			h.logger.Warn("invalid refund amount rejected",
				zap.String("payment_id", paymentID),
				zap.String("amount", raw),
			)
			http.Redirect(w, r, "/payments/"+paymentID, http.StatusSeeOther)
			return nil
		}
		amount = &parsed
	}

	if _, err := h.payments.Refund(r.Context(), paymentID, amount); err != nil {
		return fmt.Errorf("refund: %w", err)
	}

	h.logger.Info("refund initiated", zap.String("payment_id", paymentID))
	http.Redirect(w, r, "/payments/"+paymentID, http.StatusSeeOther)
	return nil
}

// filtersFromQuery собирает фильтры из query-параметров запроса
func filtersFromQuery(q url.Values) domain.PaymentFilters {
	filters := domain.DefaultFilters()
	if v := q.Get("status"); v != "" {
		filters.Status = v
	}
	if v := q.Get("mode"); v != "" {
		filters.Mode = v
	}
	if v := q.Get("method"); v != "" {
		filters.Method = v
	}
	filters.StartDate = q.Get("start")
	filters.EndDate = q.Get("end")
	return filters
}

// filterQuery собирает query-строку из фильтров, опуская значения
// по умолчанию. page меньше единицы опускается.
func filterQuery(filters domain.PaymentFilters, page int) string {
	q := url.Values{}
	if filters.Status != domain.FilterAll {
		q.Set("status", filters.Status)
	}
	if filters.Mode != domain.FilterAll {
		q.Set("mode", filters.Mode)
	}
	if filters.Method != domain.FilterAll {
		q.Set("method", filters.Method)
	}
	if filters.StartDate != "" {
		q.Set("start", filters.StartDate)
	}
	if filters.EndDate != "" {
		q.Set("end", filters.EndDate)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// adminName возвращает имя текущего оператора для навбара
func adminName(auth domain.AuthService) string {
	admin, ok := auth.CurrentAdmin()
	if !ok {
		return ""
	}
	return admin.Name
}

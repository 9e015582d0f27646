package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avc/payments-admin-console/internal/domain"
)

// TokenSource отдает bearer-токен текущей сессии для исходящих запросов
type TokenSource interface {
	Token() (string, bool)
}

// Client реализует domain.GatewayClient поверх HTTP.
// Запросы не ставятся в очередь и не повторяются автоматически,
// таймаут фиксирован на все время жизни клиента.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient создает новый клиент платежного бэкенда
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		tokens: tokens,
	}
}

// Login обменивает учетные данные на токен и профиль оператора
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error) {
	var authResp domain.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/login", nil, creds, &authResp); err != nil {
		return nil, err
	}
	return &authResp, nil
}

// ListPayments получает страницу платежей.
// Бэкенд поддерживает только фильтры по статусу и диапазону дат.
func (c *Client) ListPayments(ctx context.Context, query domain.PaymentQuery) (*domain.PaymentList, error) {
	params := url.Values{}
	if query.Skip > 0 {
		params.Set("skip", strconv.Itoa(query.Skip))
	}
	if query.Count > 0 {
		params.Set("count", strconv.Itoa(query.Count))
	}
	if query.Status != "" && query.Status != domain.FilterAll {
		params.Set("status", query.Status)
	}
	if query.From > 0 {
		params.Set("from", strconv.FormatInt(query.From, 10))
	}
	if query.To > 0 {
		params.Set("to", strconv.FormatInt(query.To, 10))
	}

	var list domain.PaymentList
	if err := c.do(ctx, http.MethodGet, "/payments", params, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetPayment получает один платеж по идентификатору
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	var payment domain.Payment
	err := c.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(paymentID), nil, nil, &payment)
	if err != nil {
		var statusErr *StatusError
		if AsStatusError(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("gateway: payment %q: %w", paymentID, domain.ErrPaymentNotFound)
		}
		return nil, err
	}
	return &payment, nil
}

// DashboardStats получает агрегированные счетчики платформы
func (c *Client) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Revenue получает временной ряд выручки для заданной гранулярности
func (c *Client) Revenue(ctx context.Context, period domain.RevenuePeriod) ([]domain.RevenuePoint, error) {
	params := url.Values{}
	params.Set("period", string(period))

	var points []domain.RevenuePoint
	if err := c.do(ctx, http.MethodGet, "/dashboard/revenue", params, nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// refundRequest тело запроса возврата, amount отсутствует при полном возврате
type refundRequest struct {
	Amount *int64 `json:"amount,omitempty"`
}

// Refund выполняет полный или частичный возврат платежа
// и возвращает обновленное представление платежа
func (c *Client) Refund(ctx context.Context, paymentID string, amount *int64) (*domain.Payment, error) {
	var payment domain.Payment
	path := "/payments/" + url.PathEscape(paymentID) + "/refund"
	if err := c.do(ctx, http.MethodPost, path, nil, refundRequest{Amount: amount}, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// do выполняет один HTTP запрос к бэкенду.
// Bearer-токен подставляется если сессия его содержит. Ответ 401
// оборачивает domain.ErrUnauthorized, остальные не-2xx статусы
// превращаются в *StatusError и отдаются вызывающему без обработки.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var reqBody *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: failed to encode request body: %w", err)
		}
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("gateway: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if token, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("gateway: failed to decode response: %w", err)
		}
		return nil

	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("gateway: %s %s: %w", method, path, domain.ErrUnauthorized)

	default:
		return &StatusError{
			Code:    resp.StatusCode,
			Message: decodeErrorMessage(resp),
		}
	}
}

// errorBody формат тела ошибки бэкенда
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// decodeErrorMessage извлекает текст ошибки из тела ответа
func decodeErrorMessage(resp *http.Response) string {
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return http.StatusText(resp.StatusCode)
}

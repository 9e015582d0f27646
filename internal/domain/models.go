package domain

// PaymentStatus представляет статус платежа в платежном шлюзе
type PaymentStatus string

const (
	PaymentStatusCreated    PaymentStatus = "created"
	PaymentStatusAuthorized PaymentStatus = "authorized"
	PaymentStatusCaptured   PaymentStatus = "captured"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// PaymentMethod представляет способ оплаты
type PaymentMethod string

const (
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodNetbanking PaymentMethod = "netbanking"
	PaymentMethodWallet     PaymentMethod = "wallet"
	PaymentMethodEMI        PaymentMethod = "emi"
)

// GatewayMode представляет режим работы платежного шлюза
type GatewayMode string

const (
	GatewayModeTest GatewayMode = "test"
	GatewayModeLive GatewayMode = "live"
)

// RevenuePeriod представляет гранулярность временного ряда выручки
type RevenuePeriod string

const (
	RevenuePeriodDaily   RevenuePeriod = "daily"
	RevenuePeriodMonthly RevenuePeriod = "monthly"
)

// FilterAll значение фильтра "все" для статуса, режима и способа оплаты
const FilterAll = "all"

// StatusLabels человекочитаемые метки статусов платежей
var StatusLabels = map[PaymentStatus]string{
	PaymentStatusCaptured:   "Success",
	PaymentStatusAuthorized: "Authorized",
	PaymentStatusFailed:     "Failed",
	PaymentStatusRefunded:   "Refunded",
	PaymentStatusCreated:    "Pending",
}

// MethodLabels человекочитаемые метки способов оплаты
var MethodLabels = map[PaymentMethod]string{
	PaymentMethodCard:       "Card",
	PaymentMethodUPI:        "UPI",
	PaymentMethodNetbanking: "Netbanking",
	PaymentMethodWallet:     "Wallet",
	PaymentMethodEMI:        "EMI",
}

// StatusLabel возвращает метку статуса, либо сам статус если метки нет
func StatusLabel(status PaymentStatus) string {
	if label, ok := StatusLabels[status]; ok {
		return label
	}
	return string(status)
}

// MethodLabel возвращает метку способа оплаты, либо сам способ если метки нет
func MethodLabel(method PaymentMethod) string {
	if label, ok := MethodLabels[method]; ok {
		return label
	}
	return string(method)
}

// AcquirerData представляет данные эквайера по платежу
type AcquirerData struct {
	BankTransactionID string `json:"bank_transaction_id,omitempty"`
	AuthCode          string `json:"auth_code,omitempty"`
	RRN               string `json:"rrn,omitempty"`
}

// Payment представляет транзакцию платежного шлюза.
// Amount, Fee и Tax всегда в минимальных единицах валюты (пайсы),
// CreatedAt в секундах Unix-времени.
type Payment struct {
	ID               string            `json:"id"`
	Entity           string            `json:"entity"`
	Amount           int64             `json:"amount"`
	Currency         string            `json:"currency"`
	Status           PaymentStatus     `json:"status"`
	OrderID          string            `json:"order_id"`
	InvoiceID        *string           `json:"invoice_id"`
	International    bool              `json:"international"`
	Method           PaymentMethod     `json:"method"`
	AmountRefunded   int64             `json:"amount_refunded"`
	RefundStatus     *string           `json:"refund_status"`
	Captured         bool              `json:"captured"`
	Description      string            `json:"description"`
	CardID           *string           `json:"card_id"`
	Bank             *string           `json:"bank"`
	Wallet           *string           `json:"wallet"`
	VPA              *string           `json:"vpa"`
	Email            string            `json:"email"`
	Contact          string            `json:"contact"`
	CustomerID       *string           `json:"customer_id"`
	Notes            map[string]string `json:"notes"`
	Fee              int64             `json:"fee"`
	Tax              int64             `json:"tax"`
	ErrorCode        *string           `json:"error_code"`
	ErrorDescription *string           `json:"error_description"`
	ErrorSource      *string           `json:"error_source"`
	ErrorStep        *string           `json:"error_step"`
	ErrorReason      *string           `json:"error_reason"`
	AcquirerData     AcquirerData      `json:"acquirer_data"`
	CreatedAt        int64             `json:"created_at"`
	Mode             GatewayMode       `json:"mode"`
}

// PaymentList представляет страницу платежей от бэкенда
type PaymentList struct {
	Entity string    `json:"entity"`
	Count  int       `json:"count"`
	Items  []Payment `json:"items"`
}

// PaymentFilters представляет набор фильтров списка платежей.
// Status, Mode и Method принимают значение "all" для отключения фильтра.
// StartDate и EndDate в формате YYYY-MM-DD, пустая строка означает
// отсутствие границы. Состояние чисто клиентское и не персистится.
type PaymentFilters struct {
	Status    string
	Mode      string
	Method    string
	StartDate string
	EndDate   string
}

// DefaultFilters возвращает набор фильтров без ограничений
func DefaultFilters() PaymentFilters {
	return PaymentFilters{
		Status: FilterAll,
		Mode:   FilterAll,
		Method: FilterAll,
	}
}

// Admin представляет профиль оператора.
// Неизменяемый снимок из ответа логина, клиент его не мутирует.
type Admin struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// Credentials представляет учетные данные оператора для логина
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse представляет ответ бэкенда на логин
type AuthResponse struct {
	Token string `json:"token"`
	Admin Admin  `json:"admin"`
}

// DashboardStats представляет агрегированные счетчики платформы.
// Суммы в минимальных единицах валюты.
type DashboardStats struct {
	TotalUsers         int64       `json:"totalUsers"`
	TotalOrganizations int64       `json:"totalOrganizations"`
	TotalRevenue       int64       `json:"totalRevenue"`
	PendingPayments    int64       `json:"pendingPayments"`
	SuccessfulPayments int64       `json:"successfulPayments"`
	FailedPayments     int64       `json:"failedPayments"`
	RazorpayMode       GatewayMode `json:"razorpayMode"`
}

// RevenuePoint представляет точку временного ряда выручки
type RevenuePoint struct {
	Date   string `json:"date"`
	Amount int64  `json:"amount"`
}

// PaymentQuery представляет параметры запроса страницы платежей.
// Бэкенд поддерживает только фильтры по статусу и диапазону дат,
// From и To в секундах Unix-времени, ноль означает отсутствие границы.
type PaymentQuery struct {
	Skip   int
	Count  int
	Status string
	From   int64
	To     int64
}

// AuthState представляет состояние аутентификации оператора
type AuthState int

const (
	// StateLoading начальное переходное состояние на время восстановления сессии
	StateLoading AuthState = iota
	StateAuthenticated
	StateUnauthenticated
)

// PaymentView представляет снимок отображаемого списка платежей.
// Items это текущая страница отфильтрованного набора, Filtered размер
// отфильтрованного набора, Fetched размер загруженной с бэкенда страницы.
type PaymentView struct {
	Items      []Payment
	Filtered   int
	Fetched    int
	Page       int
	TotalPages int
}

// DashboardSnapshot представляет снимок состояния дашборда
type DashboardSnapshot struct {
	Stats   *DashboardStats
	Revenue []RevenuePoint
	Period  RevenuePeriod
	Sample  []Payment
	Loaded  bool
}

// StatusDistribution представляет распределение статусов по локальной
// выборке платежей. Это статистика по выборке, а не по всей платформе.
type StatusDistribution struct {
	Success int
	Failed  int
	Pending int
}

// MethodCount представляет количество платежей одного способа оплаты
type MethodCount struct {
	Method PaymentMethod
	Label  string
	Count  int
}

package domain

import "context"

// KV определяет методы локального key-value хранилища.
// Get возвращает ok=false если ключа нет, Delete игнорирует
// отсутствующие ключи.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(keys ...string) error
}

// GatewayClient определяет методы взаимодействия с платежным бэкендом
type GatewayClient interface {
	Login(ctx context.Context, creds Credentials) (*AuthResponse, error)
	ListPayments(ctx context.Context, query PaymentQuery) (*PaymentList, error)
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)
	DashboardStats(ctx context.Context) (*DashboardStats, error)
	Revenue(ctx context.Context, period RevenuePeriod) ([]RevenuePoint, error)
	Refund(ctx context.Context, paymentID string, amount *int64) (*Payment, error)
}

// AuthService определяет методы управления состоянием аутентификации
type AuthService interface {
	Startup()
	State() AuthState
	CurrentAdmin() (Admin, bool)
	Login(ctx context.Context, email, password string) error
	Logout()
	HandleUnauthorized()
}

// PaymentsService определяет методы контроллера списка платежей
type PaymentsService interface {
	SetFilters(ctx context.Context, filters PaymentFilters) error
	Refresh(ctx context.Context) error
	Filters() PaymentFilters
	SetPage(page int)
	View() PaymentView
	Payment(ctx context.Context, paymentID string) (*Payment, error)
	ExportCSV() (filename string, data []byte, err error)
	Refund(ctx context.Context, paymentID string, amount *int64) (*Payment, error)
}

// DashboardService определяет методы контроллера дашборда
type DashboardService interface {
	Load(ctx context.Context) error
	SetPeriod(ctx context.Context, period RevenuePeriod) error
	Snapshot() DashboardSnapshot
	StatusDistribution() StatusDistribution
	MethodDistribution() []MethodCount
}

package handlers

import (
	"context"

	"github.com/avc/payments-admin-console/internal/domain"
)

// fakeAuthService управляемая реализация domain.AuthService для тестов
type fakeAuthService struct {
	state    domain.AuthState
	admin    domain.Admin
	hasAdmin bool

	loginErr          error
	loginCalls        int
	loginEmail        string
	logoutCalls       int
	unauthorizedCalls int
}

func (f *fakeAuthService) Startup() {}

func (f *fakeAuthService) State() domain.AuthState { return f.state }

func (f *fakeAuthService) CurrentAdmin() (domain.Admin, bool) { return f.admin, f.hasAdmin }

func (f *fakeAuthService) Login(_ context.Context, email, _ string) error {
	f.loginCalls++
	f.loginEmail = email
	if f.loginErr != nil {
		return f.loginErr
	}
	f.state = domain.StateAuthenticated
	f.hasAdmin = true
	return nil
}

func (f *fakeAuthService) Logout() {
	f.logoutCalls++
	f.state = domain.StateUnauthenticated
	f.hasAdmin = false
}

func (f *fakeAuthService) HandleUnauthorized() {
	f.unauthorizedCalls++
	f.state = domain.StateUnauthenticated
	f.hasAdmin = false
}

// fakePaymentsService управляемая реализация domain.PaymentsService
type fakePaymentsService struct {
	filters       domain.PaymentFilters
	setFiltersErr error
	page          int
	view          domain.PaymentView

	payment    *domain.Payment
	paymentErr error

	exportName string
	exportData []byte
	exportErr  error

	refunded     *domain.Payment
	refundErr    error
	refundCalls  int
	refundID     string
	refundAmount *int64
}

func (f *fakePaymentsService) SetFilters(_ context.Context, filters domain.PaymentFilters) error {
	f.filters = filters
	return f.setFiltersErr
}

func (f *fakePaymentsService) Refresh(_ context.Context) error { return f.setFiltersErr }

func (f *fakePaymentsService) Filters() domain.PaymentFilters { return f.filters }

func (f *fakePaymentsService) SetPage(page int) { f.page = page }

func (f *fakePaymentsService) View() domain.PaymentView { return f.view }

func (f *fakePaymentsService) Payment(_ context.Context, _ string) (*domain.Payment, error) {
	if f.paymentErr != nil {
		return nil, f.paymentErr
	}
	return f.payment, nil
}

func (f *fakePaymentsService) ExportCSV() (string, []byte, error) {
	if f.exportErr != nil {
		return "", nil, f.exportErr
	}
	return f.exportName, f.exportData, nil
}

func (f *fakePaymentsService) Refund(_ context.Context, paymentID string, amount *int64) (*domain.Payment, error) {
	f.refundCalls++
	f.refundID = paymentID
	f.refundAmount = amount
	if f.refundErr != nil {
		return nil, f.refundErr
	}
	return f.refunded, nil
}

// fakeDashboardService управляемая реализация domain.DashboardService.
// Load применяет nextStats, имитируя свежий ответ бэкенда.
type fakeDashboardService struct {
	snapshot  domain.DashboardSnapshot
	nextStats *domain.DashboardStats
	loadErr   error

	loadCalls    int
	setPeriodErr error
	periods      []domain.RevenuePeriod

	statusDist domain.StatusDistribution
	methodDist []domain.MethodCount
}

func (f *fakeDashboardService) Load(_ context.Context) error {
	f.loadCalls++
	if f.loadErr != nil {
		return f.loadErr
	}
	if f.nextStats != nil {
		f.snapshot.Stats = f.nextStats
	}
	f.snapshot.Loaded = true
	return nil
}

func (f *fakeDashboardService) SetPeriod(_ context.Context, period domain.RevenuePeriod) error {
	f.periods = append(f.periods, period)
	if f.setPeriodErr != nil {
		return f.setPeriodErr
	}
	f.snapshot.Period = period
	return nil
}

func (f *fakeDashboardService) Snapshot() domain.DashboardSnapshot { return f.snapshot }

func (f *fakeDashboardService) StatusDistribution() domain.StatusDistribution { return f.statusDist }

func (f *fakeDashboardService) MethodDistribution() []domain.MethodCount { return f.methodDist }

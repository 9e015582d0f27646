package service

import (
	"context"
	"errors"
	"sync"

	"github.com/avc/payments-admin-console/internal/domain"
)

// fakeGateway тестовая реализация domain.GatewayClient.
// Поведение задается функциями-полями, вызовы считаются.
type fakeGateway struct {
	mu sync.Mutex

	loginFn   func(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error)
	listFn    func(ctx context.Context, query domain.PaymentQuery) (*domain.PaymentList, error)
	getFn     func(ctx context.Context, paymentID string) (*domain.Payment, error)
	statsFn   func(ctx context.Context) (*domain.DashboardStats, error)
	revenueFn func(ctx context.Context, period domain.RevenuePeriod) ([]domain.RevenuePoint, error)
	refundFn  func(ctx context.Context, paymentID string, amount *int64) (*domain.Payment, error)

	loginCalls   int
	listCalls    int
	getCalls     int
	statsCalls   int
	revenueCalls int
	refundCalls  int
}

var errFakeNotConfigured = errors.New("fake gateway: call not configured")

func (f *fakeGateway) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error) {
	f.count(&f.loginCalls)
	if f.loginFn == nil {
		return nil, errFakeNotConfigured
	}
	return f.loginFn(ctx, creds)
}

func (f *fakeGateway) ListPayments(ctx context.Context, query domain.PaymentQuery) (*domain.PaymentList, error) {
	f.count(&f.listCalls)
	if f.listFn == nil {
		return nil, errFakeNotConfigured
	}
	return f.listFn(ctx, query)
}

func (f *fakeGateway) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	f.count(&f.getCalls)
	if f.getFn == nil {
		return nil, errFakeNotConfigured
	}
	return f.getFn(ctx, paymentID)
}

func (f *fakeGateway) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	f.count(&f.statsCalls)
	if f.statsFn == nil {
		return nil, errFakeNotConfigured
	}
	return f.statsFn(ctx)
}

func (f *fakeGateway) Revenue(ctx context.Context, period domain.RevenuePeriod) ([]domain.RevenuePoint, error) {
	f.count(&f.revenueCalls)
	if f.revenueFn == nil {
		return nil, errFakeNotConfigured
	}
	return f.revenueFn(ctx, period)
}

func (f *fakeGateway) Refund(ctx context.Context, paymentID string, amount *int64) (*domain.Payment, error) {
	f.count(&f.refundCalls)
	if f.refundFn == nil {
		return nil, errFakeNotConfigured
	}
	return f.refundFn(ctx, paymentID, amount)
}

func (f *fakeGateway) count(field *int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	*field++
}

func (f *fakeGateway) calls(field *int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *field
}

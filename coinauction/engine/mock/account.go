package mock

import (
	context "context"
	reflect "reflect"

	models "github.com/hypemarket/coinauction/coinauction/database/models"
	bun "github.com/uptrace/bun"
	gomock "go.uber.org/mock/gomock"
)

// MockAccountRepository is a mock of AccountRepository interface.
type MockAccountRepository struct {
	ctrl     *gomock.Controller
	recorder *MockAccountRepositoryMockRecorder
	isgomock struct{}
}

// MockAccountRepositoryMockRecorder is the mock recorder for MockAccountRepository.
type MockAccountRepositoryMockRecorder struct {
	mock *MockAccountRepository
}

// NewMockAccountRepository creates a new mock instance.
func NewMockAccountRepository(ctrl *gomock.Controller) *MockAccountRepository {
	mock := &MockAccountRepository{ctrl: ctrl}
	mock.recorder = &MockAccountRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockAccountRepository) EXPECT() *MockAccountRepositoryMockRecorder {
	return m.recorder
}

// AdjustBalanceWithTx mocks base method.
func (m *MockAccountRepository) AdjustBalanceWithTx(ctx context.Context, tx bun.Tx, actorID string, delta int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AdjustBalanceWithTx", ctx, tx, actorID, delta)
	ret0, _ := ret[0].(error)
	return ret0
}

// AdjustBalanceWithTx indicates an expected call of AdjustBalanceWithTx.
func (mr *MockAccountRepositoryMockRecorder) AdjustBalanceWithTx(ctx, tx, actorID, delta any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AdjustBalanceWithTx", reflect.TypeOf((*MockAccountRepository)(nil).AdjustBalanceWithTx), ctx, tx, actorID, delta)
}

// EnsureWithTx mocks base method.
func (m *MockAccountRepository) EnsureWithTx(ctx context.Context, tx bun.Tx, actorID string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "EnsureWithTx", ctx, tx, actorID)
	ret0, _ := ret[0].(error)
	return ret0
}

// EnsureWithTx indicates an expected call of EnsureWithTx.
func (mr *MockAccountRepositoryMockRecorder) EnsureWithTx(ctx, tx, actorID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "EnsureWithTx", reflect.TypeOf((*MockAccountRepository)(nil).EnsureWithTx), ctx, tx, actorID)
}

// GetBalance mocks base method.
func (m *MockAccountRepository) GetBalance(ctx context.Context, actorID string) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetBalance", ctx, actorID)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetBalance indicates an expected call of GetBalance.
func (mr *MockAccountRepositoryMockRecorder) GetBalance(ctx, actorID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetBalance", reflect.TypeOf((*MockAccountRepository)(nil).GetBalance), ctx, actorID)
}

// GetForUpdate mocks base method.
func (m *MockAccountRepository) GetForUpdate(ctx context.Context, tx bun.Tx, actorID string) (*models.Account, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetForUpdate", ctx, tx, actorID)
	ret0, _ := ret[0].(*models.Account)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetForUpdate indicates an expected call of GetForUpdate.
func (mr *MockAccountRepositoryMockRecorder) GetForUpdate(ctx, tx, actorID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetForUpdate", reflect.TypeOf((*MockAccountRepository)(nil).GetForUpdate), ctx, tx, actorID)
}

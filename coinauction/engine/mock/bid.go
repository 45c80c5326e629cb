package mock

import (
	context "context"
	reflect "reflect"

	models "github.com/hypemarket/coinauction/coinauction/database/models"
	bun "github.com/uptrace/bun"
	gomock "go.uber.org/mock/gomock"
)

// MockBidRepository is a mock of BidRepository interface.
type MockBidRepository struct {
	ctrl     *gomock.Controller
	recorder *MockBidRepositoryMockRecorder
	isgomock struct{}
}

// MockBidRepositoryMockRecorder is the mock recorder for MockBidRepository.
type MockBidRepositoryMockRecorder struct {
	mock *MockBidRepository
}

// NewMockBidRepository creates a new mock instance.
func NewMockBidRepository(ctrl *gomock.Controller) *MockBidRepository {
	mock := &MockBidRepository{ctrl: ctrl}
	mock.recorder = &MockBidRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockBidRepository) EXPECT() *MockBidRepositoryMockRecorder {
	return m.recorder
}

// CreateWithTx mocks base method.
func (m *MockBidRepository) CreateWithTx(ctx context.Context, tx bun.Tx, bid *models.Bid) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateWithTx", ctx, tx, bid)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateWithTx indicates an expected call of CreateWithTx.
func (mr *MockBidRepositoryMockRecorder) CreateWithTx(ctx, tx, bid any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateWithTx", reflect.TypeOf((*MockBidRepository)(nil).CreateWithTx), ctx, tx, bid)
}

// GetByAuction mocks base method.
func (m *MockBidRepository) GetByAuction(ctx context.Context, auctionID int64) ([]*models.Bid, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByAuction", ctx, auctionID)
	ret0, _ := ret[0].([]*models.Bid)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByAuction indicates an expected call of GetByAuction.
func (mr *MockBidRepositoryMockRecorder) GetByAuction(ctx, auctionID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByAuction", reflect.TypeOf((*MockBidRepository)(nil).GetByAuction), ctx, auctionID)
}

// GetByBidder mocks base method.
func (m *MockBidRepository) GetByBidder(ctx context.Context, bidderID string) ([]*models.Bid, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByBidder", ctx, bidderID)
	ret0, _ := ret[0].([]*models.Bid)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByBidder indicates an expected call of GetByBidder.
func (mr *MockBidRepositoryMockRecorder) GetByBidder(ctx, bidderID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByBidder", reflect.TypeOf((*MockBidRepository)(nil).GetByBidder), ctx, bidderID)
}

// GetLatestPerBidder mocks base method.
func (m *MockBidRepository) GetLatestPerBidder(ctx context.Context, tx bun.Tx, auctionID int64) ([]*models.Bid, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetLatestPerBidder", ctx, tx, auctionID)
	ret0, _ := ret[0].([]*models.Bid)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetLatestPerBidder indicates an expected call of GetLatestPerBidder.
func (mr *MockBidRepositoryMockRecorder) GetLatestPerBidder(ctx, tx, auctionID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetLatestPerBidder", reflect.TypeOf((*MockBidRepository)(nil).GetLatestPerBidder), ctx, tx, auctionID)
}

// GetWinning mocks base method.
func (m *MockBidRepository) GetWinning(ctx context.Context, tx bun.Tx, auctionID int64) (*models.Bid, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetWinning", ctx, tx, auctionID)
	ret0, _ := ret[0].(*models.Bid)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetWinning indicates an expected call of GetWinning.
func (mr *MockBidRepositoryMockRecorder) GetWinning(ctx, tx, auctionID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetWinning", reflect.TypeOf((*MockBidRepository)(nil).GetWinning), ctx, tx, auctionID)
}

// RefundAllWithTx mocks base method.
func (m *MockBidRepository) RefundAllWithTx(ctx context.Context, tx bun.Tx, auctionID int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RefundAllWithTx", ctx, tx, auctionID)
	ret0, _ := ret[0].(error)
	return ret0
}

// RefundAllWithTx indicates an expected call of RefundAllWithTx.
func (mr *MockBidRepositoryMockRecorder) RefundAllWithTx(ctx, tx, auctionID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RefundAllWithTx", reflect.TypeOf((*MockBidRepository)(nil).RefundAllWithTx), ctx, tx, auctionID)
}

// UpdateStatusWithTx mocks base method.
func (m *MockBidRepository) UpdateStatusWithTx(ctx context.Context, tx bun.Tx, bidID int64, status models.BidStatus) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateStatusWithTx", ctx, tx, bidID, status)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateStatusWithTx indicates an expected call of UpdateStatusWithTx.
func (mr *MockBidRepositoryMockRecorder) UpdateStatusWithTx(ctx, tx, bidID, status any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateStatusWithTx", reflect.TypeOf((*MockBidRepository)(nil).UpdateStatusWithTx), ctx, tx, bidID, status)
}

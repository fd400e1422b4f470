package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/stwalsh4118/debtdesk/api/internal/models"
	"github.com/stwalsh4118/debtdesk/api/internal/repository"
	"github.com/stwalsh4118/debtdesk/api/internal/services"
)

// MockCadasterService is a mock implementation of CadasterService for testing
type MockCadasterService struct {
	mock.Mock
}

func (m *MockCadasterService) Filter(ctx context.Context, f repository.ListFilter) (models.Page[models.CadasterRecord], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(models.Page[models.CadasterRecord]), args.Error(1)
}

func (m *MockCadasterService) Get(ctx context.Context, id int64) (*models.CadasterRecord, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*models.CadasterRecord)
	return r, args.Error(1)
}

func (m *MockCadasterService) Create(ctx context.Context, uid int64, in services.CadasterInput) (int64, error) {
	args := m.Called(ctx, uid, in)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCadasterService) Update(ctx context.Context, uid int64, id int64, in services.CadasterInput) error {
	args := m.Called(ctx, uid, id, in)
	return args.Error(0)
}

func (m *MockCadasterService) Delete(ctx context.Context, uid int64, id int64) error {
	args := m.Called(ctx, uid, id)
	return args.Error(0)
}

func (m *MockCadasterService) Import(ctx context.Context, uid int64, u services.Upload) (*services.ImportResult, error) {
	args := m.Called(ctx, uid, u)
	r, _ := args.Get(0).(*services.ImportResult)
	return r, args.Error(1)
}

// MockDebtorService is a mock implementation of DebtorService for testing
type MockDebtorService struct {
	mock.Mock
}

func (m *MockDebtorService) Filter(ctx context.Context, f repository.ListFilter) (models.Page[models.TaxDebtor], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(models.Page[models.TaxDebtor]), args.Error(1)
}

func (m *MockDebtorService) Info(ctx context.Context, id int64) (*services.DebtorInfo, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*services.DebtorInfo)
	return r, args.Error(1)
}

func (m *MockDebtorService) Print(ctx context.Context, id int64) (*services.DebtorPrint, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*services.DebtorPrint)
	return r, args.Error(1)
}

func (m *MockDebtorService) Generate(ctx context.Context, id int64) (*services.Document, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*services.Document)
	return r, args.Error(1)
}

// MockDebtChargeService is a mock implementation of DebtChargeService for testing
type MockDebtChargeService struct {
	mock.Mock
}

func (m *MockDebtChargeService) Filter(ctx context.Context, f repository.ListFilter) (models.Page[models.DebtCharge], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(models.Page[models.DebtCharge]), args.Error(1)
}

func (m *MockDebtChargeService) Get(ctx context.Context, id int64) (*models.DebtCharge, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*models.DebtCharge)
	return r, args.Error(1)
}

func (m *MockDebtChargeService) Import(ctx context.Context, uid int64, u services.Upload) (*services.ImportResult, error) {
	args := m.Called(ctx, uid, u)
	r, _ := args.Get(0).(*services.ImportResult)
	return r, args.Error(1)
}

func (m *MockDebtChargeService) Generate(ctx context.Context, id int64) (*services.Document, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*services.Document)
	return r, args.Error(1)
}

// MockLogService is a mock implementation of LogService for testing
type MockLogService struct {
	mock.Mock
}

func (m *MockLogService) List(ctx context.Context, f repository.CursorFilter) (models.CursorPage[models.LogEntry], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(models.CursorPage[models.LogEntry]), args.Error(1)
}

func (m *MockLogService) Get(ctx context.Context, id int64) (*models.LogEntry, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*models.LogEntry)
	return r, args.Error(1)
}

func (m *MockLogService) Detailed(ctx context.Context, f repository.ListFilter) (models.Page[models.LogEntry], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(models.Page[models.LogEntry]), args.Error(1)
}

func (m *MockLogService) Secure(ctx context.Context, f repository.CursorFilter) (models.CursorPage[models.SecureEntry], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(models.CursorPage[models.SecureEntry]), args.Error(1)
}

func (m *MockLogService) Blacklist(ctx context.Context, f repository.CursorFilter) (models.CursorPage[models.BlacklistEntry], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(models.CursorPage[models.BlacklistEntry]), args.Error(1)
}

func (m *MockLogService) AddBlacklist(ctx context.Context, uid int64, callerIP, ip, details string) (int64, error) {
	args := m.Called(ctx, uid, callerIP, ip, details)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLogService) DeleteBlacklist(ctx context.Context, uid int64, id int64) error {
	args := m.Called(ctx, uid, id)
	return args.Error(0)
}

func (m *MockLogService) IsBlacklisted(ctx context.Context, ip string) (bool, error) {
	args := m.Called(ctx, ip)
	return args.Bool(0), args.Error(1)
}

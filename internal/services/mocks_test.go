package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/stwalsh4118/debtdesk/api/internal/docgen"
	"github.com/stwalsh4118/debtdesk/api/internal/models"
	"github.com/stwalsh4118/debtdesk/api/internal/repository"
)

// MockCadasterRepository is a mock implementation of CadasterRepository for testing
type MockCadasterRepository struct {
	mock.Mock
}

func (m *MockCadasterRepository) Filter(ctx context.Context, f repository.ListFilter) (models.Page[models.CadasterRecord], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(models.Page[models.CadasterRecord]), args.Error(1)
}

func (m *MockCadasterRepository) FindByID(ctx context.Context, id int64) (*models.CadasterRecord, error) {
	args := m.Called(ctx, id)
	record, _ := args.Get(0).(*models.CadasterRecord)
	return record, args.Error(1)
}

func (m *MockCadasterRepository) FindByPayerName(ctx context.Context, name string) ([]models.CadasterRecord, error) {
	args := m.Called(ctx, name)
	records, _ := args.Get(0).([]models.CadasterRecord)
	return records, args.Error(1)
}

func (m *MockCadasterRepository) Create(ctx context.Context, uid int64, r *models.CadasterRecord) (int64, error) {
	args := m.Called(ctx, uid, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCadasterRepository) Update(ctx context.Context, uid int64, r *models.CadasterRecord) (bool, error) {
	args := m.Called(ctx, uid, r)
	return args.Bool(0), args.Error(1)
}

func (m *MockCadasterRepository) Delete(ctx context.Context, uid int64, id int64) (bool, error) {
	args := m.Called(ctx, uid, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCadasterRepository) Upsert(ctx context.Context, uid int64, records []models.CadasterRecord, batchSize int) (int, error) {
	args := m.Called(ctx, uid, records, batchSize)
	return args.Int(0), args.Error(1)
}

// MockDebtorRepository is a mock implementation of DebtorRepository for testing
type MockDebtorRepository struct {
	mock.Mock
}

func (m *MockDebtorRepository) Filter(ctx context.Context, f repository.ListFilter) (models.Page[models.TaxDebtor], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(models.Page[models.TaxDebtor]), args.Error(1)
}

func (m *MockDebtorRepository) FindByID(ctx context.Context, id int64) (*models.TaxDebtor, error) {
	args := m.Called(ctx, id)
	debtor, _ := args.Get(0).(*models.TaxDebtor)
	return debtor, args.Error(1)
}

func (m *MockDebtorRepository) FindLatestByIdentification(ctx context.Context, identification string) (*models.TaxDebtor, error) {
	args := m.Called(ctx, identification)
	debtor, _ := args.Get(0).(*models.TaxDebtor)
	return debtor, args.Error(1)
}

// MockDebtChargeRepository is a mock implementation of DebtChargeRepository for testing
type MockDebtChargeRepository struct {
	mock.Mock
}

func (m *MockDebtChargeRepository) Filter(ctx context.Context, f repository.ListFilter) (models.Page[models.DebtCharge], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(models.Page[models.DebtCharge]), args.Error(1)
}

func (m *MockDebtChargeRepository) FindByID(ctx context.Context, id int64) (*models.DebtCharge, error) {
	args := m.Called(ctx, id)
	charge, _ := args.Get(0).(*models.DebtCharge)
	return charge, args.Error(1)
}

func (m *MockDebtChargeRepository) ReplaceAll(ctx context.Context, uid int64, charges []models.DebtCharge, batchSize int) (int, error) {
	args := m.Called(ctx, uid, charges, batchSize)
	return args.Int(0), args.Error(1)
}

// MockRequisiteRepository is a mock implementation of RequisiteRepository for testing
type MockRequisiteRepository struct {
	mock.Mock
}

func (m *MockRequisiteRepository) Latest(ctx context.Context) (*models.Requisite, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(*models.Requisite)
	return r, args.Error(1)
}

// MockLogRepository is a mock implementation of LogRepository for testing
type MockLogRepository struct {
	mock.Mock
}

func (m *MockLogRepository) List(ctx context.Context, f repository.CursorFilter) (models.CursorPage[models.LogEntry], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(models.CursorPage[models.LogEntry]), args.Error(1)
}

func (m *MockLogRepository) FindByID(ctx context.Context, id int64) (*models.LogEntry, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*models.LogEntry)
	return e, args.Error(1)
}

func (m *MockLogRepository) Detailed(ctx context.Context, f repository.ListFilter) (models.Page[models.LogEntry], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(models.Page[models.LogEntry]), args.Error(1)
}

func (m *MockLogRepository) Secure(ctx context.Context, f repository.CursorFilter) (models.CursorPage[models.SecureEntry], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(models.CursorPage[models.SecureEntry]), args.Error(1)
}

func (m *MockLogRepository) Blacklist(ctx context.Context, f repository.CursorFilter) (models.CursorPage[models.BlacklistEntry], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(models.CursorPage[models.BlacklistEntry]), args.Error(1)
}

func (m *MockLogRepository) AddBlacklist(ctx context.Context, uid int64, ip, details string) (int64, error) {
	args := m.Called(ctx, uid, ip, details)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLogRepository) DeleteBlacklist(ctx context.Context, uid int64, id int64) (bool, error) {
	args := m.Called(ctx, uid, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockLogRepository) IsBlacklisted(ctx context.Context, ip string) (bool, error) {
	args := m.Called(ctx, ip)
	return args.Bool(0), args.Error(1)
}

// MockDocumentGenerator is a mock implementation of DocumentGenerator for testing
type MockDocumentGenerator struct {
	mock.Mock
}

func (m *MockDocumentGenerator) DebtorNotice(n docgen.DebtorNotice) ([]byte, error) {
	args := m.Called(n)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockDocumentGenerator) TaxNotification(n docgen.TaxNotification) ([]byte, error) {
	args := m.Called(n)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

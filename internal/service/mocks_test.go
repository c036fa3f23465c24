package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"gearhouse-backend/internal/domain"
)

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) Update(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) MarkReturned(ctx context.Context, id int32, returnDate time.Time, lateFees, damageCharges decimal.Decimal, notes string) (bool, error) {
	args := m.Called(ctx, id, returnDate, lateFees, damageCharges, notes)
	return args.Bool(0), args.Error(1)
}
func (m *MockRentalRepo) ListActive(ctx context.Context) ([]domain.Rental, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) List(ctx context.Context, status domain.RentalStatus, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}

// MockInventoryRepo
type MockInventoryRepo struct {
	mock.Mock
}

func (m *MockInventoryRepo) GetByID(ctx context.Context, id int32) (*domain.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}
func (m *MockInventoryRepo) ListByStatus(ctx context.Context, status domain.InventoryStatus) ([]domain.InventoryItem, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryItem), args.Error(1)
}
func (m *MockInventoryRepo) MarkRented(ctx context.Context, id int32, renter string, expectedReturn time.Time) (bool, error) {
	args := m.Called(ctx, id, renter, expectedReturn)
	return args.Bool(0), args.Error(1)
}
func (m *MockInventoryRepo) ForceRented(ctx context.Context, id int32, renter string, expectedReturn time.Time) error {
	args := m.Called(ctx, id, renter, expectedReturn)
	return args.Error(0)
}
func (m *MockInventoryRepo) Release(ctx context.Context, id int32) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *MockInventoryRepo) ApplyReturn(ctx context.Context, id int32, status domain.InventoryStatus, condition domain.ItemCondition) error {
	args := m.Called(ctx, id, status, condition)
	return args.Error(0)
}
func (m *MockInventoryRepo) RecordCompletedRental(ctx context.Context, id int32, revenue decimal.Decimal) error {
	args := m.Called(ctx, id, revenue)
	return args.Error(0)
}

// MockMaintenanceRepo
type MockMaintenanceRepo struct {
	mock.Mock
}

func (m *MockMaintenanceRepo) Append(ctx context.Context, record *domain.MaintenanceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
func (m *MockMaintenanceRepo) ExistsForRental(ctx context.Context, rentalID, inventoryItemID int32) (bool, error) {
	args := m.Called(ctx, rentalID, inventoryItemID)
	return args.Bool(0), args.Error(1)
}

// MockTransactionRepo
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Append(ctx context.Context, txn *domain.CustomerTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}
func (m *MockTransactionRepo) ExistsForRental(ctx context.Context, rentalID int32, txnType domain.TransactionType) (bool, error) {
	args := m.Called(ctx, rentalID, txnType)
	return args.Bool(0), args.Error(1)
}

// MockWaiverRepo
type MockWaiverRepo struct {
	mock.Mock
}

func (m *MockWaiverRepo) Create(ctx context.Context, waiver *domain.Waiver) error {
	args := m.Called(ctx, waiver)
	return args.Error(0)
}
func (m *MockWaiverRepo) GetLatestSigned(ctx context.Context, customerID int32) (*domain.Waiver, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Waiver), args.Error(1)
}

// MockCustomerRepo
type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

// MockWaiverService
type MockWaiverService struct {
	mock.Mock
}

func (m *MockWaiverService) IsValid(ctx context.Context, customerID int32, requestedActivities []string) (bool, error) {
	args := m.Called(ctx, customerID, requestedActivities)
	return args.Bool(0), args.Error(1)
}
func (m *MockWaiverService) CreateWaiver(ctx context.Context, customerID *int32, customerName string, activities []string, signedDate time.Time) (*domain.Waiver, error) {
	args := m.Called(ctx, customerID, customerName, activities, signedDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Waiver), args.Error(1)
}

func testPolicies() domain.PolicySet {
	return domain.PolicySet{
		LateFees: domain.LateFeePolicy{
			Enabled:    true,
			GraceHours: 2,
			HourlyRate: decimal.NewFromInt(10),
			MaxFee:     decimal.NewFromInt(50),
		},
		Waiver: map[domain.ActivityType]domain.WaiverPolicy{
			domain.ActivityTypeRental: {ExpiryPeriodDays: 365},
			domain.ActivityTypeLesson: {ExpiryPeriodDays: 30, RequireNewPerActivity: true},
		},
		Insurance: domain.InsurancePolicy{UnitCostPerDay: decimal.NewFromInt(5)},
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gearhouse-backend/internal/domain"
)

func newTestRentalService(
	rentalRepo *MockRentalRepo,
	invRepo *MockInventoryRepo,
	customerRepo *MockCustomerRepo,
	waiverSvc *MockWaiverService,
	now time.Time,
) *rentalService {
	return &rentalService{
		rentalRepo:   rentalRepo,
		invRepo:      invRepo,
		customerRepo: customerRepo,
		waiverSvc:    waiverSvc,
		policies:     testPolicies(),
		now:          func() time.Time { return now },
	}
}

func TestRentalService_CreateRental(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)
	customer := &domain.Customer{ID: 7, Name: "Dana Cole"}

	input := CreateRentalInput{
		CustomerID: 7,
		StartDate:  start,
		EndDate:    end,
		Items: []CreateRentalItemInput{
			{InventoryItemID: 1, Quantity: 2, InsuranceSelected: true},
			{InventoryItemID: 2, Quantity: 1},
		},
	}

	t.Run("success with valid waiver", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		invRepo := new(MockInventoryRepo)
		customerRepo := new(MockCustomerRepo)
		waiverSvc := new(MockWaiverService)
		svc := newTestRentalService(rentalRepo, invRepo, customerRepo, waiverSvc, start)

		customerRepo.On("GetByID", ctx, int32(7)).Return(customer, nil).Once()
		waiverSvc.On("IsValid", ctx, int32(7), []string{EquipmentRentalActivity}).Return(true, nil).Once()
		invRepo.On("GetByID", ctx, int32(1)).Return(&domain.InventoryItem{
			ID: 1, Name: "Snowboard", Status: domain.InventoryStatusAvailable,
			RentalPricePerDay: decimal.NewFromInt(15),
		}, nil).Once()
		invRepo.On("GetByID", ctx, int32(2)).Return(&domain.InventoryItem{
			ID: 2, Name: "Helmet", Status: domain.InventoryStatusAvailable,
			RentalPricePerDay: decimal.NewFromInt(30),
		}, nil).Once()
		rentalRepo.On("Create", ctx, mock.AnythingOfType("*domain.Rental")).Return(nil).Once()
		invRepo.On("MarkRented", ctx, int32(1), "Dana Cole", end).Return(true, nil).Once()
		invRepo.On("MarkRented", ctx, int32(2), "Dana Cole", end).Return(true, nil).Once()

		result, err := svc.CreateRental(ctx, input)
		require.NoError(t, err)
		assert.Empty(t, result.WaiverWarning)
		assert.True(t, result.Rental.WaiverCollected)
		assert.Equal(t, domain.RentalStatusActive, result.Rental.Status)
		// 3 days: 2*15*3 + 1*30*3 = 180 base, 2*5*3 = 30 insurance.
		assert.True(t, result.Rental.InsuranceCost.Equal(decimal.NewFromInt(30)), "got %s", result.Rental.InsuranceCost)
		assert.True(t, result.Rental.TotalAmount.Equal(decimal.NewFromInt(210)), "got %s", result.Rental.TotalAmount)
		// Rates are snapshots of the inventory price at creation.
		assert.True(t, result.Rental.Items[0].DailyRate.Equal(decimal.NewFromInt(15)))

		rentalRepo.AssertExpectations(t)
		invRepo.AssertExpectations(t)
		waiverSvc.AssertExpectations(t)
	})

	t.Run("missing waiver warns but does not block", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		invRepo := new(MockInventoryRepo)
		customerRepo := new(MockCustomerRepo)
		waiverSvc := new(MockWaiverService)
		svc := newTestRentalService(rentalRepo, invRepo, customerRepo, waiverSvc, start)

		customerRepo.On("GetByID", ctx, int32(7)).Return(customer, nil).Once()
		waiverSvc.On("IsValid", ctx, int32(7), []string{EquipmentRentalActivity}).Return(false, nil).Once()
		invRepo.On("GetByID", ctx, int32(1)).Return(&domain.InventoryItem{
			ID: 1, Status: domain.InventoryStatusAvailable, RentalPricePerDay: decimal.NewFromInt(10),
		}, nil).Once()
		invRepo.On("GetByID", ctx, int32(2)).Return(&domain.InventoryItem{
			ID: 2, Status: domain.InventoryStatusAvailable, RentalPricePerDay: decimal.NewFromInt(10),
		}, nil).Once()
		rentalRepo.On("Create", ctx, mock.AnythingOfType("*domain.Rental")).Return(nil).Once()
		invRepo.On("MarkRented", ctx, int32(1), "Dana Cole", end).Return(true, nil).Once()
		invRepo.On("MarkRented", ctx, int32(2), "Dana Cole", end).Return(true, nil).Once()

		result, err := svc.CreateRental(ctx, input)
		require.NoError(t, err)
		assert.Contains(t, result.WaiverWarning, "Dana Cole")
		assert.False(t, result.Rental.WaiverCollected)
	})

	t.Run("unavailable item rejected before creation", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		invRepo := new(MockInventoryRepo)
		customerRepo := new(MockCustomerRepo)
		waiverSvc := new(MockWaiverService)
		svc := newTestRentalService(rentalRepo, invRepo, customerRepo, waiverSvc, start)

		customerRepo.On("GetByID", ctx, int32(7)).Return(customer, nil).Once()
		waiverSvc.On("IsValid", ctx, int32(7), mock.Anything).Return(true, nil).Once()
		invRepo.On("GetByID", ctx, int32(1)).Return(&domain.InventoryItem{
			ID: 1, Name: "Snowboard", Status: domain.InventoryStatusMaintenance,
		}, nil).Once()

		_, err := svc.CreateRental(ctx, input)
		assert.True(t, domain.IsValidation(err))
		rentalRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("lost claim race aborts and releases", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		invRepo := new(MockInventoryRepo)
		customerRepo := new(MockCustomerRepo)
		waiverSvc := new(MockWaiverService)
		svc := newTestRentalService(rentalRepo, invRepo, customerRepo, waiverSvc, start)

		customerRepo.On("GetByID", ctx, int32(7)).Return(customer, nil).Once()
		waiverSvc.On("IsValid", ctx, int32(7), mock.Anything).Return(true, nil).Once()
		invRepo.On("GetByID", ctx, int32(1)).Return(&domain.InventoryItem{
			ID: 1, Status: domain.InventoryStatusAvailable, RentalPricePerDay: decimal.NewFromInt(10),
		}, nil).Once()
		invRepo.On("GetByID", ctx, int32(2)).Return(&domain.InventoryItem{
			ID: 2, Status: domain.InventoryStatusAvailable, RentalPricePerDay: decimal.NewFromInt(10),
		}, nil).Once()
		rentalRepo.On("Create", ctx, mock.AnythingOfType("*domain.Rental")).Return(nil).Once()
		// First item claimed, second lost to a concurrent rental.
		invRepo.On("MarkRented", ctx, int32(1), "Dana Cole", end).Return(true, nil).Once()
		invRepo.On("MarkRented", ctx, int32(2), "Dana Cole", end).Return(false, nil).Once()
		rentalRepo.On("Update", ctx, mock.MatchedBy(func(r *domain.Rental) bool {
			return r.Status == domain.RentalStatusCancelled
		})).Return(nil).Once()
		invRepo.On("Release", ctx, int32(1)).Return(true, nil).Once()

		_, err := svc.CreateRental(ctx, input)
		assert.True(t, domain.IsConflict(err))
		rentalRepo.AssertExpectations(t)
		invRepo.AssertExpectations(t)
	})

	t.Run("input validation", func(t *testing.T) {
		svc := newTestRentalService(new(MockRentalRepo), new(MockInventoryRepo), new(MockCustomerRepo), new(MockWaiverService), start)

		_, err := svc.CreateRental(ctx, CreateRentalInput{CustomerID: 7, StartDate: start, EndDate: end})
		assert.True(t, domain.IsValidation(err))

		bad := input
		bad.EndDate = start.AddDate(0, 0, -1)
		_, err = svc.CreateRental(ctx, bad)
		assert.True(t, domain.IsValidation(err))

		bad = input
		bad.Items = []CreateRentalItemInput{{InventoryItemID: 1, Quantity: 0}}
		_, err = svc.CreateRental(ctx, bad)
		assert.True(t, domain.IsValidation(err))
	})
}

func TestRentalService_CancelRental(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)

	t.Run("cancels and releases items", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		invRepo := new(MockInventoryRepo)
		svc := newTestRentalService(rentalRepo, invRepo, new(MockCustomerRepo), new(MockWaiverService), now)

		rentalRepo.On("GetByID", ctx, int32(4)).Return(&domain.Rental{
			ID: 4, Status: domain.RentalStatusActive,
			Items: []domain.RentalItem{{ID: 1, InventoryItemID: 11}, {ID: 2, InventoryItemID: 12}},
		}, nil).Once()
		rentalRepo.On("Update", ctx, mock.MatchedBy(func(r *domain.Rental) bool {
			return r.Status == domain.RentalStatusCancelled
		})).Return(nil).Once()
		invRepo.On("Release", ctx, int32(11)).Return(true, nil).Once()
		invRepo.On("Release", ctx, int32(12)).Return(true, nil).Once()

		rental, err := svc.CancelRental(ctx, 4, "customer no-show")
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusCancelled, rental.Status)
		assert.Contains(t, rental.Notes, "customer no-show")
		invRepo.AssertExpectations(t)
	})

	t.Run("already cancelled is a no-op", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		svc := newTestRentalService(rentalRepo, new(MockInventoryRepo), new(MockCustomerRepo), new(MockWaiverService), now)

		rentalRepo.On("GetByID", ctx, int32(4)).Return(&domain.Rental{
			ID: 4, Status: domain.RentalStatusCancelled,
		}, nil).Once()

		rental, err := svc.CancelRental(ctx, 4, "again")
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusCancelled, rental.Status)
		rentalRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("returned rental cannot be cancelled", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		svc := newTestRentalService(rentalRepo, new(MockInventoryRepo), new(MockCustomerRepo), new(MockWaiverService), now)

		rentalRepo.On("GetByID", ctx, int32(4)).Return(&domain.Rental{
			ID: 4, Status: domain.RentalStatusReturned,
		}, nil).Once()

		_, err := svc.CancelRental(ctx, 4, "too late")
		assert.True(t, domain.IsValidation(err))
	})
}

func TestRentalService_ListRentals_Overdue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	rentalRepo := new(MockRentalRepo)
	svc := newTestRentalService(rentalRepo, new(MockInventoryRepo), new(MockCustomerRepo), new(MockWaiverService), now)

	rentalRepo.On("ListActive", ctx).Return([]domain.Rental{
		{ID: 1, Status: domain.RentalStatusActive, EndDate: now.AddDate(0, 0, -2)},
		{ID: 2, Status: domain.RentalStatusActive, EndDate: now.AddDate(0, 0, 2)},
		{ID: 3, Status: domain.RentalStatusActive, EndDate: now.AddDate(0, 0, -1)},
	}, nil).Once()

	overdue, total, err := svc.ListRentals(ctx, domain.RentalStatusOverdue, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int32(2), total)
	assert.Equal(t, int32(1), overdue[0].ID)
	assert.Equal(t, int32(3), overdue[1].ID)
	rentalRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

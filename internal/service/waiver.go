package service

import (
	"context"
	"time"

	"gearhouse-backend/internal/domain"
	"gearhouse-backend/internal/repository"
)

type waiverService struct {
	waiverRepo repository.WaiverRepository
	policies   domain.PolicySet
	now        func() time.Time
}

func NewWaiverService(waiverRepo repository.WaiverRepository, policies domain.PolicySet) WaiverService {
	return &waiverService{
		waiverRepo: waiverRepo,
		policies:   policies,
		now:        time.Now,
	}
}

func (s *waiverService) IsValid(ctx context.Context, customerID int32, requestedActivities []string) (bool, error) {
	activityType := domain.ActivityTypeFor(requestedActivities)
	policy := s.policies.WaiverFor(activityType)

	// A fresh waiver per booking trumps any prior one, unexpired or not.
	if policy.RequireNewPerActivity {
		return false, nil
	}

	waiver, err := s.waiverRepo.GetLatestSigned(ctx, customerID)
	if err != nil {
		return false, err
	}
	if waiver == nil {
		return false, nil
	}
	if waiver.ExpiredAsOf(s.now()) {
		return false, nil
	}
	return waiver.Covers(requestedActivities), nil
}

func (s *waiverService) CreateWaiver(ctx context.Context, customerID *int32, customerName string, activities []string, signedDate time.Time) (*domain.Waiver, error) {
	if len(activities) == 0 {
		return nil, &domain.ValidationError{Field: "activities", Message: "at least one activity is required"}
	}
	if customerName == "" {
		return nil, &domain.ValidationError{Field: "customer_name", Message: "customer name is required"}
	}

	policy := s.policies.WaiverFor(domain.ActivityTypeFor(activities))
	waiver := &domain.Waiver{
		CustomerID:   customerID,
		CustomerName: customerName,
		Activities:   activities,
		Status:       domain.WaiverStatusSigned,
		SignedDate:   signedDate,
		ExpiryDate:   signedDate.AddDate(0, 0, policy.ExpiryPeriodDays),
	}
	if err := s.waiverRepo.Create(ctx, waiver); err != nil {
		return nil, err
	}
	return waiver, nil
}

package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gearhouse-backend/internal/domain"
	"gearhouse-backend/internal/logger"
	"gearhouse-backend/internal/pricing"
	"gearhouse-backend/internal/repository"
)

type returnService struct {
	rentalRepo repository.RentalRepository
	invRepo    repository.InventoryRepository
	maintRepo  repository.MaintenanceRepository
	txnRepo    repository.TransactionRepository
	policies   domain.PolicySet
	now        func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*ReturnSession
}

func NewReturnService(
	rentalRepo repository.RentalRepository,
	invRepo repository.InventoryRepository,
	maintRepo repository.MaintenanceRepository,
	txnRepo repository.TransactionRepository,
	policies domain.PolicySet,
) ReturnService {
	return &returnService{
		rentalRepo: rentalRepo,
		invRepo:    invRepo,
		maintRepo:  maintRepo,
		txnRepo:    txnRepo,
		policies:   policies,
		now:        time.Now,
		sessions:   make(map[uuid.UUID]*ReturnSession),
	}
}

func (s *returnService) StartReturn(ctx context.Context, rentalID int32) (*ReturnSession, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.Status != domain.RentalStatusActive {
		return nil, &domain.ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("rental %d is %s, only active rentals can be returned", rentalID, rental.Status),
		}
	}

	session := newReturnSession(rental)
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return session, nil
}

func (s *returnService) GetSession(id uuid.UUID) (*ReturnSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("return session %s: %w", id, domain.ErrNotFound)
	}
	return session, nil
}

func (s *returnService) RecordInspection(ctx context.Context, sessionID uuid.UUID, conditions map[int32]domain.ItemCondition) (*ReturnSession, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := session.recordInspection(conditions); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *returnService) RecordDamage(ctx context.Context, sessionID uuid.UUID, damages []DamageInput) (*ReturnSession, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	reports := make(map[int32]damageReport, len(damages))
	for _, d := range damages {
		cost, err := decimal.NewFromString(d.EstimatedCost)
		if err != nil {
			return nil, &domain.ValidationError{
				Field:   "estimated_cost",
				Message: fmt.Sprintf("invalid repair cost %q for rental item %d", d.EstimatedCost, d.RentalItemID),
			}
		}
		reports[d.RentalItemID] = damageReport{
			description:        strings.TrimSpace(d.Description),
			estimatedCost:      cost,
			coveredByInsurance: d.CoveredByInsurance,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := session.recordDamage(reports); err != nil {
		return nil, err
	}

	charge, err := pricing.DamageCharge(session.assessmentList())
	if err != nil {
		return nil, err
	}
	session.DamageCharge = charge
	session.LateFee = pricing.LateFee(session.rental.EndDate, s.now(), s.policies.LateFees)
	session.Step = StepPayment
	return session, nil
}

func (s *returnService) SetPaymentMethod(ctx context.Context, sessionID uuid.UUID, method domain.PaymentMethod) (*ReturnSession, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := session.setPaymentMethod(method); err != nil {
		return nil, err
	}
	return session, nil
}

// SaveAndComplete short-circuits Inspection -> Complete for damage-free
// returns. No late fee or damage charge is recorded on the rental even when
// it comes back past its end date; the quick "all good" return deliberately
// skips the payment step.
func (s *returnService) SaveAndComplete(ctx context.Context, sessionID uuid.UUID, returnDate time.Time, notes string) (*domain.Rental, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if session.Step != StepInspection || !session.inspected() {
		s.mu.Unlock()
		return nil, &domain.ValidationError{Field: "step", Message: "fast-path completion requires a finished inspection"}
	}
	if session.hasDamage() {
		s.mu.Unlock()
		return nil, &domain.ValidationError{Field: "step", Message: "damaged items require the damage and payment steps"}
	}
	s.mu.Unlock()

	return s.finalize(ctx, session, returnDate, notes, decimal.Zero, decimal.Zero)
}

func (s *returnService) Complete(ctx context.Context, sessionID uuid.UUID, returnDate time.Time, notes string) (*domain.Rental, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if session.Step != StepPayment {
		s.mu.Unlock()
		return nil, &domain.ValidationError{Field: "step", Message: "session is not ready to complete"}
	}
	if session.amountOwed().IsPositive() && session.PaymentMethod == "" {
		s.mu.Unlock()
		return nil, &domain.PolicyViolationError{
			Message: fmt.Sprintf("%s is owed; choose a payment method before completing", session.amountOwed()),
		}
	}
	s.mu.Unlock()

	return s.finalize(ctx, session, returnDate, notes, session.LateFee, session.DamageCharge)
}

// finalize runs the five completion steps in order. None of them share a
// transaction; each is keyed to the rental so a crashed completion can be
// retried without double-charging or duplicating records.
func (s *returnService) finalize(ctx context.Context, session *ReturnSession, returnDate time.Time, notes string, lateFee, damageCharge decimal.Decimal) (*domain.Rental, error) {
	rental := session.rental

	// Step 1: close the rental. Guarded on ACTIVE status, so a retry that
	// finds the rental already returned just moves on.
	noteSuffix := ""
	if notes != "" {
		noteSuffix = "\nreturn: " + notes
	}
	applied, err := s.rentalRepo.MarkReturned(ctx, rental.ID, returnDate, lateFee, damageCharge, noteSuffix)
	if err != nil {
		return nil, err
	}
	if !applied {
		current, err := s.rentalRepo.GetByID(ctx, rental.ID)
		if err != nil {
			return nil, err
		}
		if current.Status != domain.RentalStatusReturned {
			return nil, &domain.ConflictError{
				Resource: "rental",
				ID:       rental.ID,
				Message:  fmt.Sprintf("cannot complete a %s rental", current.Status),
			}
		}
		logger.Info("Rental already marked returned, resuming completion", "rental_id", rental.ID)
	}

	// Step 2: write back item status and condition. Damaged items go to
	// maintenance pending repair; everything else returns to the shelf
	// with its assessed condition. The cumulative counters are bumped only
	// on the run that actually closed the rental, so retries cannot
	// double-count.
	days := pricing.RentalDays(rental.StartDate, rental.EndDate)
	for _, it := range rental.Items {
		a := session.Assessments[it.ID]
		status := domain.InventoryStatusAvailable
		condition := a.Condition
		if a.Condition == domain.ConditionDamaged {
			status = domain.InventoryStatusMaintenance
			condition = domain.ConditionNeedsRepair
		}
		if err := s.invRepo.ApplyReturn(ctx, it.InventoryItemID, status, condition); err != nil {
			return nil, err
		}
		if applied {
			revenue := it.DailyRate.Mul(decimal.NewFromInt32(it.Quantity)).Mul(decimal.NewFromInt32(days))
			if err := s.invRepo.RecordCompletedRental(ctx, it.InventoryItemID, revenue); err != nil {
				return nil, err
			}
		}
	}

	// Step 3: one maintenance record per damaged item.
	for _, it := range rental.Items {
		a := session.Assessments[it.ID]
		if a.Condition != domain.ConditionDamaged {
			continue
		}
		exists, err := s.maintRepo.ExistsForRental(ctx, rental.ID, it.InventoryItemID)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}
		covered := "not covered by insurance"
		if a.CoveredByInsurance {
			covered = "covered by insurance"
		}
		rentalID := rental.ID
		record := &domain.MaintenanceRecord{
			InventoryItemID: it.InventoryItemID,
			RentalID:        &rentalID,
			Type:            domain.MaintenanceTypeRepair,
			BeforeCondition: domain.ConditionDamaged,
			AfterCondition:  domain.ConditionNeedsRepair,
			Cost:            a.EstimatedCost,
			DowntimeHours:   24,
			Notes:           fmt.Sprintf("damage on return: %s (%s)", a.Description, covered),
		}
		if err := s.maintRepo.Append(ctx, record); err != nil {
			return nil, err
		}
	}

	// Steps 4 and 5: ledger entries for money collected.
	if damageCharge.IsPositive() {
		if err := s.appendTransaction(ctx, session, domain.TransactionTypeDamageCharge, damageCharge, s.damageDescription(session)); err != nil {
			return nil, err
		}
	}
	if lateFee.IsPositive() {
		if err := s.appendTransaction(ctx, session, domain.TransactionTypeLateFee, lateFee,
			fmt.Sprintf("late fee for rental %d", rental.ID)); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	session.Step = StepComplete
	delete(s.sessions, session.ID)
	s.mu.Unlock()

	rental.Status = domain.RentalStatusReturned
	rental.ReturnDate = &returnDate
	rental.LateFees = lateFee
	rental.DamageCharges = damageCharge
	rental.Notes = rental.Notes + noteSuffix
	return rental, nil
}

func (s *returnService) appendTransaction(ctx context.Context, session *ReturnSession, txnType domain.TransactionType, amount decimal.Decimal, description string) error {
	exists, err := s.txnRepo.ExistsForRental(ctx, session.RentalID, txnType)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	rentalID := session.RentalID
	return s.txnRepo.Append(ctx, &domain.CustomerTransaction{
		CustomerID:    session.rental.CustomerID,
		RentalID:      &rentalID,
		Type:          txnType,
		Amount:        amount,
		PaymentMethod: session.PaymentMethod,
		Description:   description,
	})
}

// damageDescription itemizes every uninsured damaged item for the ledger.
func (s *returnService) damageDescription(session *ReturnSession) string {
	var parts []string
	for _, it := range session.rental.Items {
		a := session.Assessments[it.ID]
		if a.Condition != domain.ConditionDamaged || a.CoveredByInsurance {
			continue
		}
		parts = append(parts, fmt.Sprintf("item %d: %s (%s)", a.InventoryItemID, a.Description, a.EstimatedCost))
	}
	return "damage charges - " + strings.Join(parts, "; ")
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gearhouse-backend/internal/domain"
	"gearhouse-backend/internal/service"
)

type ReturnHandler struct {
	returnSvc service.ReturnService
}

func NewReturnHandler(returnSvc service.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnSvc: returnSvc}
}

func (h *ReturnHandler) Start(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	session, err := h.returnSvc.StartReturn(r.Context(), rentalID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *ReturnHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	session, err := h.returnSvc.GetSession(sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

type inspectionRequest struct {
	// Conditions maps rental item id to its assessed condition.
	Conditions map[int32]domain.ItemCondition `json:"conditions"`
}

func (h *ReturnHandler) RecordInspection(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req inspectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &domain.ValidationError{Field: "body", Message: "invalid JSON"})
		return
	}
	session, err := h.returnSvc.RecordInspection(r.Context(), sessionID, req.Conditions)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

type completeRequest struct {
	ReturnDate string `json:"return_date"`
	Notes      string `json:"notes"`
}

func (h *ReturnHandler) SaveAndComplete(w http.ResponseWriter, r *http.Request) {
	h.complete(w, r, h.returnSvc.SaveAndComplete)
}

func (h *ReturnHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.complete(w, r, h.returnSvc.Complete)
}

func (h *ReturnHandler) complete(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, sessionID uuid.UUID, returnDate time.Time, notes string) (*domain.Rental, error)) {
	sessionID, err := sessionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &domain.ValidationError{Field: "body", Message: "invalid JSON"})
		return
	}
	returnDate := time.Now()
	if req.ReturnDate != "" {
		returnDate, err = time.Parse(dateLayout, req.ReturnDate)
		if err != nil {
			writeError(w, &domain.ValidationError{Field: "return_date", Message: "expected yyyy-mm-dd"})
			return
		}
	}
	rental, err := fn(r.Context(), sessionID, returnDate, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

type damageItemRequest struct {
	RentalItemID       int32  `json:"rental_item_id"`
	Description        string `json:"description"`
	EstimatedCost      string `json:"estimated_cost"`
	CoveredByInsurance *bool  `json:"covered_by_insurance,omitempty"`
}

type damageRequest struct {
	Damages []damageItemRequest `json:"damages"`
}

func (h *ReturnHandler) RecordDamage(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req damageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &domain.ValidationError{Field: "body", Message: "invalid JSON"})
		return
	}
	damages := make([]service.DamageInput, 0, len(req.Damages))
	for _, d := range req.Damages {
		damages = append(damages, service.DamageInput{
			RentalItemID:       d.RentalItemID,
			Description:        d.Description,
			EstimatedCost:      d.EstimatedCost,
			CoveredByInsurance: d.CoveredByInsurance,
		})
	}
	session, err := h.returnSvc.RecordDamage(r.Context(), sessionID, damages)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

type paymentRequest struct {
	Method domain.PaymentMethod `json:"method"`
}

func (h *ReturnHandler) SetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &domain.ValidationError{Field: "body", Message: "invalid JSON"})
		return
	}
	session, err := h.returnSvc.SetPaymentMethod(r.Context(), sessionID, req.Method)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func sessionID(r *http.Request) (uuid.UUID, error) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &domain.ValidationError{Field: "id", Message: "invalid session id"}
	}
	return id, nil
}

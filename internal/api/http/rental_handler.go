package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"gearhouse-backend/internal/domain"
	"gearhouse-backend/internal/service"
)

const dateLayout = "2006-01-02"

type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

type createRentalItemRequest struct {
	InventoryItemID   int32  `json:"inventory_item_id"`
	Quantity          int32  `json:"quantity"`
	InsuranceSelected bool   `json:"insurance_selected"`
	ItemNotes         string `json:"item_notes"`
}

type createRentalRequest struct {
	CustomerID int32                     `json:"customer_id"`
	StartDate  string                    `json:"start_date"`
	EndDate    string                    `json:"end_date"`
	Notes      string                    `json:"notes"`
	Items      []createRentalItemRequest `json:"items"`
}

type createRentalResponse struct {
	Rental        *domain.Rental `json:"rental"`
	WaiverWarning string         `json:"waiver_warning,omitempty"`
}

func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &domain.ValidationError{Field: "body", Message: "invalid JSON"})
		return
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		writeError(w, &domain.ValidationError{Field: "start_date", Message: "expected yyyy-mm-dd"})
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		writeError(w, &domain.ValidationError{Field: "end_date", Message: "expected yyyy-mm-dd"})
		return
	}

	input := service.CreateRentalInput{
		CustomerID: req.CustomerID,
		StartDate:  start,
		EndDate:    end,
		Notes:      req.Notes,
	}
	for _, it := range req.Items {
		input.Items = append(input.Items, service.CreateRentalItemInput{
			InventoryItemID:   it.InventoryItemID,
			Quantity:          it.Quantity,
			InsuranceSelected: it.InsuranceSelected,
			ItemNotes:         it.ItemNotes,
		})
	}

	result, err := h.rentalSvc.CreateRental(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createRentalResponse{
		Rental:        result.Rental,
		WaiverWarning: result.WaiverWarning,
	})
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rental, err := h.rentalSvc.GetRental(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	// Surface the derived status alongside the stored record.
	writeJSON(w, http.StatusOK, map[string]any{
		"rental":           rental,
		"effective_status": rental.EffectiveStatus(time.Now()),
	})
}

func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.RentalStatus(r.URL.Query().Get("status"))
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	rentals, total, err := h.rentalSvc.ListRentals(r.Context(), status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rentals": rentals,
		"total":   total,
	})
}

type cancelRentalRequest struct {
	Reason string `json:"reason"`
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req cancelRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &domain.ValidationError{Field: "body", Message: "invalid JSON"})
		return
	}
	rental, err := h.rentalSvc.CancelRental(r.Context(), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func pathID(r *http.Request) (int32, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, &domain.ValidationError{Field: "id", Message: "invalid id"}
	}
	return int32(id), nil
}

func queryInt32(r *http.Request, key string, fallback int32) int32 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 1 {
		return fallback
	}
	return int32(v)
}

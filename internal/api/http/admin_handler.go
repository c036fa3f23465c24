package http

import (
	"encoding/json"
	"net/http"
	"time"

	"gearhouse-backend/internal/domain"
	"gearhouse-backend/internal/service"
)

type AdminHandler struct {
	reconcileSvc service.ReconciliationService
	waiverSvc    service.WaiverService
}

func NewAdminHandler(reconcileSvc service.ReconciliationService, waiverSvc service.WaiverService) *AdminHandler {
	return &AdminHandler{reconcileSvc: reconcileSvc, waiverSvc: waiverSvc}
}

func (h *AdminHandler) ReconcileInventory(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconcileSvc.ReconcileInventory(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type createWaiverRequest struct {
	CustomerID   *int32   `json:"customer_id,omitempty"`
	CustomerName string   `json:"customer_name"`
	Activities   []string `json:"activities"`
	SignedDate   string   `json:"signed_date"`
}

func (h *AdminHandler) CreateWaiver(w http.ResponseWriter, r *http.Request) {
	var req createWaiverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &domain.ValidationError{Field: "body", Message: "invalid JSON"})
		return
	}
	signed := time.Now()
	if req.SignedDate != "" {
		var err error
		signed, err = time.Parse(dateLayout, req.SignedDate)
		if err != nil {
			writeError(w, &domain.ValidationError{Field: "signed_date", Message: "expected yyyy-mm-dd"})
			return
		}
	}
	waiver, err := h.waiverSvc.CreateWaiver(r.Context(), req.CustomerID, req.CustomerName, req.Activities, signed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, waiver)
}

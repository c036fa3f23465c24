package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"gearhouse-backend/internal/domain"
	"gearhouse-backend/internal/logger"
	"gearhouse-backend/internal/service"
)

// NewRouter wires every handler onto a mux router.
func NewRouter(
	rentalSvc service.RentalService,
	returnSvc service.ReturnService,
	reconcileSvc service.ReconciliationService,
	waiverSvc service.WaiverService,
) *mux.Router {
	r := mux.NewRouter()

	rentals := NewRentalHandler(rentalSvc)
	r.HandleFunc("/rentals", rentals.Create).Methods(http.MethodPost)
	r.HandleFunc("/rentals", rentals.List).Methods(http.MethodGet)
	r.HandleFunc("/rentals/{id:[0-9]+}", rentals.Get).Methods(http.MethodGet)
	r.HandleFunc("/rentals/{id:[0-9]+}/cancel", rentals.Cancel).Methods(http.MethodPost)

	returns := NewReturnHandler(returnSvc)
	r.HandleFunc("/rentals/{id:[0-9]+}/returns", returns.Start).Methods(http.MethodPost)
	r.HandleFunc("/returns/{id}", returns.Get).Methods(http.MethodGet)
	r.HandleFunc("/returns/{id}/inspection", returns.RecordInspection).Methods(http.MethodPost)
	r.HandleFunc("/returns/{id}/complete", returns.SaveAndComplete).Methods(http.MethodPost)
	r.HandleFunc("/returns/{id}/damage", returns.RecordDamage).Methods(http.MethodPost)
	r.HandleFunc("/returns/{id}/payment", returns.SetPaymentMethod).Methods(http.MethodPost)
	r.HandleFunc("/returns/{id}/finalize", returns.Complete).Methods(http.MethodPost)

	admin := NewAdminHandler(reconcileSvc, waiverSvc)
	r.HandleFunc("/admin/reconcile-inventory", admin.ReconcileInventory).Methods(http.MethodPost)
	r.HandleFunc("/waivers", admin.CreateWaiver).Methods(http.MethodPost)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the domain error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsValidation(err):
		status = http.StatusBadRequest
	case domain.IsNotFound(err):
		status = http.StatusNotFound
	case domain.IsConflict(err):
		status = http.StatusConflict
	case domain.IsPolicyViolation(err):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

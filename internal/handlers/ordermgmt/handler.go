package ordermgmt

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/commercekit/epay-gateway/internal/domain"
	"github.com/commercekit/epay-gateway/internal/domain/ports"
	paymentService "github.com/commercekit/epay-gateway/internal/services/payment"
)

// Handler exposes the post-authorization lifecycle actions to the order
// management backend: capture, refund, void, cancel and transaction lookup.
type Handler struct {
	service *paymentService.Service
	records ports.PaymentRecordRepository
	logger  *zap.Logger
}

// NewHandler creates a new order management handler
func NewHandler(
	service *paymentService.Service,
	records ports.PaymentRecordRepository,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		service: service,
		records: records,
		logger:  logger,
	}
}

// Register mounts the lifecycle routes on a mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /epay/orders/{order_id}/capture", h.Capture)
	mux.HandleFunc("POST /epay/orders/{order_id}/refund", h.Refund)
	mux.HandleFunc("POST /epay/orders/{order_id}/void", h.Void)
	mux.HandleFunc("POST /epay/orders/{order_id}/cancel", h.Cancel)
	mux.HandleFunc("GET /epay/orders/{order_id}/transaction", h.GetTransaction)
}

// actionRequest carries the store context and, for capture and refund, the
// amount to settle in the order's base currency.
type actionRequest struct {
	StoreID  string          `json:"store_id"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

type recordResponse struct {
	TransactionID       string `json:"transaction_id"`
	ParentTransactionID string `json:"parent_transaction_id"`
	Closed              bool   `json:"closed"`
}

// Capture settles a previously authorized amount.
// POST /epay/orders/{order_id}/capture
func (h *Handler) Capture(w http.ResponseWriter, r *http.Request) {
	order, record, req, ok := h.loadAction(w, r, true)
	if !ok {
		return
	}
	if !h.service.CanCapture(record) {
		writeError(w, http.StatusConflict, "the payment is not eligible for capture")
		return
	}
	if err := h.service.Capture(r.Context(), order, record, req.Amount); err != nil {
		h.writeActionError(w, order.IncrementID, "capture", err)
		return
	}
	writeRecord(w, record)
}

// Refund credits a captured amount back to the shopper.
// POST /epay/orders/{order_id}/refund
func (h *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	order, record, req, ok := h.loadAction(w, r, true)
	if !ok {
		return
	}
	if !h.service.CanRefund(record) {
		writeError(w, http.StatusConflict, "the payment is not eligible for refund")
		return
	}
	if err := h.service.Refund(r.Context(), order, record, req.Amount); err != nil {
		h.writeActionError(w, order.IncrementID, "refund", err)
		return
	}
	writeRecord(w, record)
}

// Void releases an uncaptured authorization.
// POST /epay/orders/{order_id}/void
func (h *Handler) Void(w http.ResponseWriter, r *http.Request) {
	order, record, _, ok := h.loadAction(w, r, false)
	if !ok {
		return
	}
	if !h.service.CanVoid(record) {
		writeError(w, http.StatusConflict, "the payment is not eligible for void")
		return
	}
	if err := h.service.Void(r.Context(), order, record); err != nil {
		h.writeActionError(w, order.IncrementID, "void", err)
		return
	}
	writeRecord(w, record)
}

// Cancel voids the authorization on a best-effort basis. Gateway failures are
// reported through the messenger but never block the cancellation, so this
// endpoint always succeeds once the record is loaded.
// POST /epay/orders/{order_id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	order, record, _, ok := h.loadAction(w, r, false)
	if !ok {
		return
	}
	h.service.Cancel(r.Context(), order, record)
	writeRecord(w, record)
}

// GetTransaction fetches the live transaction state from the gateway.
// GET /epay/orders/{order_id}/transaction?store_id=...
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("order_id")
	record, err := h.records.GetByOrderID(r.Context(), orderID)
	if err != nil {
		h.writeRecordError(w, orderID, err)
		return
	}

	storeID := r.URL.Query().Get("store_id")
	info, message := h.service.GetTransaction(r.Context(), storeID, record.Reference)
	if info == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"transaction": nil,
			"message":     message,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"transaction": info})
}

// loadAction decodes the request body, loads the payment record for the order
// in the path, and builds the minimal order context the service needs. On
// failure it writes the response itself and reports ok=false.
func (h *Handler) loadAction(w http.ResponseWriter, r *http.Request, withAmount bool) (*domain.Order, *domain.PaymentRecord, *actionRequest, bool) {
	orderID := r.PathValue("order_id")

	var req actionRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, nil, nil, false
	}
	if withAmount && !req.Amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return nil, nil, nil, false
	}

	record, err := h.records.GetByOrderID(r.Context(), orderID)
	if err != nil {
		h.writeRecordError(w, orderID, err)
		return nil, nil, nil, false
	}

	order := &domain.Order{
		IncrementID:      orderID,
		StoreID:          req.StoreID,
		BaseCurrencyCode: req.Currency,
	}
	return order, record, &req, true
}

func (h *Handler) writeRecordError(w http.ResponseWriter, orderID string, err error) {
	if errors.Is(err, domain.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "no payment record for order")
		return
	}
	h.logger.Error("failed to load payment record",
		zap.String("order_id", orderID),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "failed to load payment record")
}

func (h *Handler) writeActionError(w http.ResponseWriter, orderID, action string, err error) {
	h.logger.Error("payment action failed",
		zap.String("order_id", orderID),
		zap.String("action", action),
		zap.Error(err),
	)
	switch {
	case domain.IsActionNotAllowed(err):
		writeError(w, http.StatusConflict, err.Error())
	case domain.IsGatewayError(err):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "payment action failed")
	}
}

func writeRecord(w http.ResponseWriter, record *domain.PaymentRecord) {
	writeJSON(w, http.StatusOK, recordResponse{
		TransactionID:       record.TransactionID,
		ParentTransactionID: record.ParentTransactionID,
		Closed:              record.Closed,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/commercekit/epay-gateway/internal/adapters/epay"
	"github.com/commercekit/epay-gateway/internal/domain"
	"github.com/commercekit/epay-gateway/internal/domain/ports"
	paymentService "github.com/commercekit/epay-gateway/internal/services/payment"
)

// Handler serves the checkout glue around the payment lifecycle service: the
// window redirect for the store frontend and the gateway-facing accept,
// cancel and callback endpoints.
type Handler struct {
	service *paymentService.Service
	records ports.PaymentRecordRepository
	config  ports.ConfigStore
	logger  *zap.Logger
}

// NewHandler creates a new checkout handler
func NewHandler(
	service *paymentService.Service,
	records ports.PaymentRecordRepository,
	config ports.ConfigStore,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		service: service,
		records: records,
		config:  config,
		logger:  logger,
	}
}

// Register mounts the checkout routes on a mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /epay/checkout/window", h.PaymentWindow)
	mux.HandleFunc("GET /epay/checkout/accept", h.Accept)
	mux.HandleFunc("GET /epay/checkout/cancel", h.Cancel)
	mux.HandleFunc("GET /epay/checkout/callback", h.Callback)
}

// windowRequest is the order context posted by the store frontend.
type windowRequest struct {
	OrderID         string          `json:"order_id"`
	StoreID         string          `json:"store_id"`
	Currency        string          `json:"currency"`
	TotalDue        decimal.Decimal `json:"total_due"`
	BillingAddress  addressPayload  `json:"billing_address"`
	ShippingAddress addressPayload  `json:"shipping_address"`
	Items           []itemPayload   `json:"items"`
	Shipping        shippingPayload `json:"shipping"`
}

type addressPayload struct {
	FirstName string   `json:"firstname"`
	LastName  string   `json:"lastname"`
	Email     string   `json:"email"`
	Street    []string `json:"street"`
	Postcode  string   `json:"postcode"`
	City      string   `json:"city"`
	Country   string   `json:"country"`
}

type itemPayload struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Qty         int64           `json:"qty"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Discount    decimal.Decimal `json:"discount"`
	Tax         decimal.Decimal `json:"tax"`
}

type shippingPayload struct {
	Amount      decimal.Decimal `json:"amount"`
	Discount    decimal.Decimal `json:"discount"`
	InclTax     decimal.Decimal `json:"incl_tax"`
	Tax         decimal.Decimal `json:"tax"`
	Description string          `json:"description"`
}

// PaymentWindow builds the payment window request for a posted order and
// returns the redirect URL.
// POST /epay/checkout/window
func (h *Handler) PaymentWindow(w http.ResponseWriter, r *http.Request) {
	var req windowRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	url, err := h.service.GetPaymentWindow(r.Context(), toOrder(&req))
	if err != nil {
		h.logger.Error("failed to create payment window",
			zap.String("order_id", req.OrderID),
			zap.Error(err),
		)
		status := http.StatusBadGateway
		if domain.IsDomainError(err, domain.ErrorCodeValidationFailed) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]string{"error": "failed to create payment window"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Accept handles the shopper returning from a completed payment window.
// GET /epay/checkout/accept?orderid=...
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("orderid")
	h.logger.Info("payment window accepted", zap.String("order_id", orderID))
	fmt.Fprintf(w, "Payment received for order %s", orderID)
}

// Cancel handles the shopper abandoning the payment window.
// GET /epay/checkout/cancel?orderid=...
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("orderid")
	h.logger.Info("payment window cancelled", zap.String("order_id", orderID))
	fmt.Fprintf(w, "Payment cancelled for order %s", orderID)
}

// Callback is the gateway's server-to-server notification after the shopper
// completes the payment window. It validates the MD5 of the callback
// parameters and creates the payment record carrying the gateway transaction
// reference; every later capture/refund/void reads that record.
// GET /epay/checkout/callback?txnid=...&orderid=...&amount=...&currency=...&hash=...
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	orderID := query.Get("orderid")
	reference := query.Get("txnid")

	if orderID == "" || reference == "" {
		http.Error(w, "missing orderid or txnid", http.StatusBadRequest)
		return
	}

	storeID := query.Get("storeid")
	auth := h.config.Auth(storeID)
	if !epay.ValidateCallbackHash(r.URL.RawQuery, auth.MD5Key) {
		h.logger.Warn("callback hash mismatch",
			zap.String("order_id", orderID),
			zap.String("reference", reference),
		)
		http.Error(w, "invalid hash", http.StatusForbidden)
		return
	}

	// The instant-capture flag is recorded as it was at window creation
	// time; the capture short-circuit depends on it later.
	record := domain.NewPaymentRecord(orderID, reference, h.config.InstantCapture(storeID))
	if err := h.records.Create(r.Context(), record); err != nil {
		if errors.Is(err, domain.ErrRecordConflict) {
			// The gateway retries callbacks; an existing record means
			// this notification was already processed.
			fmt.Fprint(w, "OK")
			return
		}
		h.logger.Error("failed to create payment record",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		http.Error(w, "failed to record payment", http.StatusInternalServerError)
		return
	}

	h.logger.Info("payment record created",
		zap.String("order_id", orderID),
		zap.String("reference", reference),
		zap.Bool("instant_capture", record.InstantCapture),
	)

	fmt.Fprint(w, "OK")
}

func toOrder(req *windowRequest) *domain.Order {
	order := &domain.Order{
		IncrementID:                req.OrderID,
		StoreID:                    req.StoreID,
		BaseCurrencyCode:           req.Currency,
		BaseTotalDue:               req.TotalDue,
		BillingAddress:             toAddress(req.BillingAddress),
		ShippingAddress:            toAddress(req.ShippingAddress),
		BaseShippingAmount:         req.Shipping.Amount,
		BaseShippingDiscountAmount: req.Shipping.Discount,
		BaseShippingInclTax:        req.Shipping.InclTax,
		BaseShippingTaxAmount:      req.Shipping.Tax,
		ShippingDescription:        req.Shipping.Description,
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, domain.OrderItem{
			SKU:                item.SKU,
			Name:               item.Name,
			Description:        item.Description,
			QtyOrdered:         item.Qty,
			BasePrice:          item.BasePrice,
			BaseDiscountAmount: item.Discount,
			BaseTaxAmount:      item.Tax,
		})
	}
	return order
}

func toAddress(a addressPayload) domain.Address {
	return domain.Address{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Street:    a.Street,
		Postcode:  a.Postcode,
		City:      a.City,
		CountryID: a.Country,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/commercekit/epay-gateway/internal/adapters/epay"
	"github.com/commercekit/epay-gateway/internal/domain"
	"github.com/commercekit/epay-gateway/internal/domain/ports"
	"github.com/commercekit/epay-gateway/pkg/observability"
)

// Payment method capabilities. Eligibility additionally requires a stored
// gateway reference; see CanCapture and friends.
const (
	canCapture = true
	canRefund  = true
	canVoid    = true
)

// windowTimeout is the gateway-side payment window expiry in seconds. It is
// not a client socket timeout.
const windowTimeout = 60

// moduleHeader identifies this integration to the gateway.
const moduleHeader = "commercekit-epay/1.0"

// CheckoutURLs are the three callback URLs handed to the payment window.
type CheckoutURLs struct {
	AcceptURL   string
	CancelURL   string
	CallbackURL string
}

// Service orchestrates the payment transaction lifecycle: it builds signed
// payment-window requests, issues capture/refund/void/query instructions, and
// maps validated gateway outcomes onto local payment records.
type Service struct {
	gateway    ports.Gateway
	records    ports.PaymentRecordRepository
	config     ports.ConfigStore
	messenger  ports.Messenger
	logger     ports.Logger
	minorUnits domain.MinorUnitsLookup
	urls       CheckoutURLs

	mu        sync.Mutex
	authCache map[string]ports.Auth
}

// NewService creates a new payment lifecycle service
func NewService(
	gateway ports.Gateway,
	records ports.PaymentRecordRepository,
	config ports.ConfigStore,
	messenger ports.Messenger,
	logger ports.Logger,
	urls CheckoutURLs,
) *Service {
	return &Service{
		gateway:    gateway,
		records:    records,
		config:     config,
		messenger:  messenger,
		logger:     logger,
		minorUnits: domain.DefaultMinorUnits,
		urls:       urls,
		authCache:  make(map[string]ports.Auth),
	}
}

// WithMinorUnitsLookup overrides the currency exponent table.
func (s *Service) WithMinorUnitsLookup(lookup domain.MinorUnitsLookup) *Service {
	s.minorUnits = lookup
	return s
}

// Auth returns the merchant credentials for a store, built once per store.
func (s *Service) Auth(storeID string) ports.Auth {
	s.mu.Lock()
	defer s.mu.Unlock()
	auth, ok := s.authCache[storeID]
	if !ok {
		auth = s.config.Auth(storeID)
		s.authCache[storeID] = auth
	}
	return auth
}

// GetPaymentWindow returns the hosted payment window redirect URL for an
// order, or an error when no order is supplied.
func (s *Service) GetPaymentWindow(ctx context.Context, order *domain.Order) (string, error) {
	if order == nil {
		return "", domain.ErrMissingOrder
	}
	return s.createPaymentRequest(ctx, order)
}

// createPaymentRequest assembles the full payment-window request and obtains
// the redirect URL from the gateway. The adapter signs the request last, so
// every field here must be final before the call.
func (s *Service) createPaymentRequest(ctx context.Context, order *domain.Order) (string, error) {
	currency := order.BaseCurrencyCode
	exponent := s.minorUnits(currency)
	storeID := order.StoreID

	invoice, err := domain.SerializeInvoice(
		domain.BuildInvoice(order, exponent, s.config.InvoiceData(storeID)))
	if err != nil {
		return "", domain.WrapError(domain.ErrorCodeInternalError, "serialize invoice", err)
	}

	req := &ports.PaymentWindowRequest{
		Encoding:       "UTF-8",
		CMS:            moduleHeader,
		WindowState:    s.config.WindowState(storeID),
		Mobile:         s.config.MobileWindow(storeID),
		WindowID:       s.config.WindowID(storeID),
		Amount:         domain.ToMinorUnits(order.BaseTotalDue, exponent),
		Currency:       currency,
		OrderID:        order.IncrementID,
		AcceptURL:      s.urls.AcceptURL,
		CancelURL:      s.urls.CancelURL,
		CallbackURL:    s.urls.CallbackURL,
		InstantCapture: s.config.InstantCapture(storeID),
		Language:       epay.LanguageCode(s.config.Locale(storeID)),
		OwnReceipt:     s.config.OwnReceipt(storeID),
		Timeout:        windowTimeout,
		Invoice:        invoice,
	}

	url, err := s.gateway.CreatePaymentWindowURL(ctx, req, s.Auth(storeID))
	if err != nil {
		observability.RecordPaymentWindow("error")
		s.logger.Error("payment window request failed",
			ports.String("order_id", order.IncrementID),
			ports.Err(err))
		return "", err
	}

	observability.RecordPaymentWindow("ok")
	s.logger.Info("payment window created",
		ports.String("order_id", order.IncrementID),
		ports.Int64("amount_minor", req.Amount),
		ports.String("currency", currency))

	return url, nil
}

// Capture captures a previously authorized payment. When the window was
// created with instant capture, the funds are already captured and only the
// local ledger is updated; the gateway is never called.
func (s *Service) Capture(ctx context.Context, order *domain.Order, record *domain.PaymentRecord, amount decimal.Decimal) error {
	err := s.capture(ctx, order, record, amount)
	if err != nil {
		s.messenger.AddError(fmt.Sprintf("(%s) %s", order.IncrementID, userMessage(err)))
	}
	return err
}

func (s *Service) capture(ctx context.Context, order *domain.Order, record *domain.PaymentRecord, amount decimal.Decimal) error {
	start := time.Now()

	if record.InstantCapture {
		record.ApplyAction(domain.SuffixInstantCapture)
		if err := s.records.AppendAction(ctx, record, domain.ActionCapture); err != nil {
			return err
		}
		observability.RecordGatewayAction(domain.ActionCapture, "instant", time.Since(start))
		s.logger.Info("instant capture recorded locally",
			ports.String("order_id", order.IncrementID),
			ports.String("transaction_id", record.TransactionID))
		return nil
	}

	if !s.config.RemoteInterface(order.StoreID) {
		return domain.NewActionError(domain.ErrorCodeActionNotAllowed, domain.ActionCapture,
			"the capture action could not be processed online, enable remote payment processing in the module configuration")
	}

	exponent := s.minorUnits(order.BaseCurrencyCode)
	amountMinor := domain.ToMinorUnits(amount, exponent)
	auth := s.Auth(order.StoreID)

	resp, err := s.gateway.Capture(ctx, amountMinor, record.Reference, auth)
	if err != nil {
		observability.RecordGatewayAction(domain.ActionCapture, "error", time.Since(start))
		return err
	}

	if ok, message := s.gateway.ValidateResult(resp, record.Reference, auth, domain.ActionCapture); !ok {
		observability.RecordGatewayAction(domain.ActionCapture, "rejected", time.Since(start))
		return domain.NewActionError(domain.ErrorCodeGatewayActionFailed, domain.ActionCapture,
			fmt.Sprintf("the capture action failed: %s", message))
	}

	record.ApplyAction(domain.SuffixCapture)
	if err := s.records.AppendAction(ctx, record, domain.ActionCapture); err != nil {
		return err
	}

	observability.RecordGatewayAction(domain.ActionCapture, "ok", time.Since(start))
	s.logger.Info("capture completed",
		ports.String("order_id", order.IncrementID),
		ports.String("transaction_id", record.TransactionID),
		ports.Int64("amount_minor", amountMinor))

	return nil
}

// Refund credits a captured payment back to the customer.
func (s *Service) Refund(ctx context.Context, order *domain.Order, record *domain.PaymentRecord, amount decimal.Decimal) error {
	err := s.refund(ctx, order, record, amount)
	if err != nil {
		s.messenger.AddError(fmt.Sprintf("(%s) %s", order.IncrementID, userMessage(err)))
	}
	return err
}

func (s *Service) refund(ctx context.Context, order *domain.Order, record *domain.PaymentRecord, amount decimal.Decimal) error {
	start := time.Now()

	if !s.config.RemoteInterface(order.StoreID) {
		return domain.NewActionError(domain.ErrorCodeActionNotAllowed, domain.ActionRefund,
			"the refund action could not be processed online, enable remote payment processing in the module configuration")
	}

	exponent := s.minorUnits(order.BaseCurrencyCode)
	amountMinor := domain.ToMinorUnits(amount, exponent)
	auth := s.Auth(order.StoreID)

	resp, err := s.gateway.Credit(ctx, amountMinor, record.Reference, auth)
	if err != nil {
		observability.RecordGatewayAction(domain.ActionRefund, "error", time.Since(start))
		return err
	}

	if ok, message := s.gateway.ValidateResult(resp, record.Reference, auth, domain.ActionRefund); !ok {
		observability.RecordGatewayAction(domain.ActionRefund, "rejected", time.Since(start))
		return domain.NewActionError(domain.ErrorCodeGatewayActionFailed, domain.ActionRefund,
			fmt.Sprintf("the refund action failed: %s", message))
	}

	record.ApplyAction(domain.SuffixRefund)
	if err := s.records.AppendAction(ctx, record, domain.ActionRefund); err != nil {
		return err
	}

	observability.RecordGatewayAction(domain.ActionRefund, "ok", time.Since(start))
	s.logger.Info("refund completed",
		ports.String("order_id", order.IncrementID),
		ports.String("transaction_id", record.TransactionID),
		ports.Int64("amount_minor", amountMinor))

	return nil
}

// Void deletes an authorized payment at the gateway and removes any surcharge
// fee line previously attached to the order. The surcharge removal is a pure
// local side effect; no gateway response carries surcharge information.
func (s *Service) Void(ctx context.Context, order *domain.Order, record *domain.PaymentRecord) error {
	err := s.void(ctx, order, record)
	if err != nil {
		s.messenger.AddError(fmt.Sprintf("(OrderId: %s) %s", order.IncrementID, userMessage(err)))
	}
	return err
}

func (s *Service) void(ctx context.Context, order *domain.Order, record *domain.PaymentRecord) error {
	start := time.Now()

	if !s.config.RemoteInterface(order.StoreID) {
		return domain.NewActionError(domain.ErrorCodeActionNotAllowed, domain.ActionVoid,
			"the void action could not be processed online, enable remote payment processing in the module configuration")
	}

	auth := s.Auth(order.StoreID)

	resp, err := s.gateway.Delete(ctx, record.Reference, auth)
	if err != nil {
		observability.RecordGatewayAction(domain.ActionVoid, "error", time.Since(start))
		return err
	}

	if ok, message := s.gateway.ValidateResult(resp, record.Reference, auth, domain.ActionVoid); !ok {
		observability.RecordGatewayAction(domain.ActionVoid, "rejected", time.Since(start))
		return domain.NewActionError(domain.ErrorCodeGatewayActionFailed, domain.ActionVoid,
			fmt.Sprintf("the void action failed: %s", message))
	}

	record.ApplyAction(domain.SuffixVoid)
	if err := s.records.AppendAction(ctx, record, domain.ActionVoid); err != nil {
		return err
	}

	s.removeSurcharge(order)

	observability.RecordGatewayAction(domain.ActionVoid, "ok", time.Since(start))
	s.logger.Info("void completed",
		ports.String("order_id", order.IncrementID),
		ports.String("transaction_id", record.TransactionID))

	return nil
}

// Cancel is best-effort void: every failure is reported as a user-visible
// message and swallowed, never returned.
func (s *Service) Cancel(ctx context.Context, order *domain.Order, record *domain.PaymentRecord) {
	if err := s.Void(ctx, order, record); err != nil {
		s.messenger.AddError(userMessage(err))
		return
	}
	s.messenger.AddSuccess(fmt.Sprintf("The payment has been voided (%s)", order.IncrementID))
}

// GetTransaction fetches the gateway's view of a transaction. It never
// returns an error: failures, including a disabled remote interface, degrade
// to an absent result plus a message.
func (s *Service) GetTransaction(ctx context.Context, storeID, reference string) (*ports.TransactionInformation, string) {
	if !s.config.RemoteInterface(storeID) {
		return nil, ""
	}

	auth := s.Auth(storeID)

	resp, err := s.gateway.GetTransaction(ctx, reference, auth)
	if err != nil {
		message := fmt.Sprintf("(TransactionId: %s) %s", reference, userMessage(err))
		s.messenger.AddError(message)
		return nil, message
	}

	if ok, message := s.gateway.ValidateResult(resp, reference, auth, domain.ActionGetTransaction); !ok {
		return nil, message
	}

	return resp.TransactionInformation, ""
}

// CanCapture reports whether capture is currently permitted. Eligibility is
// purely local: the gateway may still reject the action.
func (s *Service) CanCapture(record *domain.PaymentRecord) bool {
	return canCapture && record.HasReference()
}

// CanRefund reports whether refund is currently permitted.
func (s *Service) CanRefund(record *domain.PaymentRecord) bool {
	return canRefund && record.HasReference()
}

// CanVoid reports whether void is currently permitted.
func (s *Service) CanVoid(record *domain.PaymentRecord) bool {
	return canVoid && record.HasReference()
}

// removeSurcharge drops the surcharge fee line from the order if present.
func (s *Service) removeSurcharge(order *domain.Order) {
	if order.RemoveSurchargeItem() {
		s.logger.Info("surcharge fee line removed",
			ports.String("order_id", order.IncrementID))
	}
}

// userMessage strips the machine-readable code prefix from a domain error so
// only the human-readable part reaches the messenger.
func userMessage(err error) string {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}

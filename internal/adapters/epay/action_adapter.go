package epay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/commercekit/epay-gateway/internal/domain"
	"github.com/commercekit/epay-gateway/internal/domain/ports"
)

// ActionAdapter implements ports.Gateway against the ePay remote API. It owns
// the network call and the hash computation; interpretation of validated
// responses stays with the caller.
type ActionAdapter struct {
	baseURL    string
	httpClient ports.HTTPClient
	logger     ports.Logger
}

// NewActionAdapter creates a new remote API adapter with dependency injection
func NewActionAdapter(baseURL string, httpClient ports.HTTPClient, logger ports.Logger) *ActionAdapter {
	return &ActionAdapter{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// NewActionAdapterWithDefaults creates a new remote API adapter with a default HTTP client
func NewActionAdapterWithDefaults(baseURL string, logger ports.Logger) *ActionAdapter {
	return &ActionAdapter{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// windowRequest is the create-payment-window payload. Field names follow the
// window's parameter names exactly.
type windowRequest struct {
	Encoding       string `json:"encoding"`
	CMS            string `json:"cms"`
	WindowState    string `json:"windowstate"`
	Mobile         string `json:"mobile"`
	MerchantNumber string `json:"merchantnumber"`
	WindowID       string `json:"windowid"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	OrderID        string `json:"orderid"`
	AcceptURL      string `json:"accepturl"`
	CancelURL      string `json:"cancelurl"`
	CallbackURL    string `json:"callbackurl"`
	InstantCapture string `json:"instantcapture"`
	Language       string `json:"language"`
	OwnReceipt     string `json:"ownreceipt"`
	Timeout        int    `json:"timeout"`
	Invoice        string `json:"invoice,omitempty"`
	Hash           string `json:"hash"`
}

// actionRequest is the shared payload for capture/credit/delete/gettransaction.
type actionRequest struct {
	MerchantNumber string `json:"merchantnumber"`
	Password       string `json:"pwd"`
	TransactionID  string `json:"transactionid"`
	Amount         int64  `json:"amount,omitempty"`
}

type transactionInformation struct {
	TransactionID  string `json:"transactionid"`
	OrderID        string `json:"orderid"`
	Currency       string `json:"currency"`
	AuthAmount     int64  `json:"authamount"`
	CapturedAmount int64  `json:"capturedamount"`
	CreditedAmount int64  `json:"creditedamount"`
	Status         string `json:"status"`
	AuthDate       string `json:"authdate"`
	CaptureDate    string `json:"captureddate"`
}

type actionResponse struct {
	Result                 bool                    `json:"result"`
	EpayResponse           int                     `json:"epayresponse"`
	PBSResponse            int                     `json:"pbsresponse"`
	MerchantNumber         string                  `json:"merchantnumber"`
	URL                    string                  `json:"url"`
	TransactionInformation *transactionInformation `json:"transactionInformation"`
}

// CreatePaymentWindowURL implements ports.Gateway.CreatePaymentWindowURL.
// The hash is computed here, last, so it covers every finalized field.
func (a *ActionAdapter) CreatePaymentWindowURL(ctx context.Context, req *ports.PaymentWindowRequest, auth ports.Auth) (string, error) {
	req.MerchantNumber = auth.MerchantNumber
	req.Hash = CalculateWindowHash(req, auth.MD5Key)

	apiReq := windowRequest{
		Encoding:       req.Encoding,
		CMS:            req.CMS,
		WindowState:    req.WindowState,
		Mobile:         boolParam(req.Mobile),
		MerchantNumber: req.MerchantNumber,
		WindowID:       req.WindowID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		OrderID:        req.OrderID,
		AcceptURL:      req.AcceptURL,
		CancelURL:      req.CancelURL,
		CallbackURL:    req.CallbackURL,
		InstantCapture: boolParam(req.InstantCapture),
		Language:       req.Language,
		OwnReceipt:     boolParam(req.OwnReceipt),
		Timeout:        req.Timeout,
		Invoice:        req.Invoice,
		Hash:           req.Hash,
	}

	var resp actionResponse
	if err := a.makeRequest(ctx, "/ewindow/getpaymentwindowurl", apiReq, &resp); err != nil {
		return "", err
	}

	if !resp.Result || resp.URL == "" {
		return "", domain.NewDomainError(domain.ErrorCodeGatewayError,
			responseMessage(resp.EpayResponse, resp.PBSResponse))
	}

	return resp.URL, nil
}

// Capture implements ports.Gateway.Capture
func (a *ActionAdapter) Capture(ctx context.Context, amountMinor int64, reference string, auth ports.Auth) (*ports.ActionResponse, error) {
	return a.action(ctx, "/remote/capture", actionRequest{
		MerchantNumber: auth.MerchantNumber,
		Password:       auth.Password,
		TransactionID:  reference,
		Amount:         amountMinor,
	})
}

// Credit implements ports.Gateway.Credit
func (a *ActionAdapter) Credit(ctx context.Context, amountMinor int64, reference string, auth ports.Auth) (*ports.ActionResponse, error) {
	return a.action(ctx, "/remote/credit", actionRequest{
		MerchantNumber: auth.MerchantNumber,
		Password:       auth.Password,
		TransactionID:  reference,
		Amount:         amountMinor,
	})
}

// Delete implements ports.Gateway.Delete
func (a *ActionAdapter) Delete(ctx context.Context, reference string, auth ports.Auth) (*ports.ActionResponse, error) {
	return a.action(ctx, "/remote/delete", actionRequest{
		MerchantNumber: auth.MerchantNumber,
		Password:       auth.Password,
		TransactionID:  reference,
	})
}

// GetTransaction implements ports.Gateway.GetTransaction
func (a *ActionAdapter) GetTransaction(ctx context.Context, reference string, auth ports.Auth) (*ports.ActionResponse, error) {
	return a.action(ctx, "/remote/gettransaction", actionRequest{
		MerchantNumber: auth.MerchantNumber,
		Password:       auth.Password,
		TransactionID:  reference,
	})
}

// ValidateResult implements ports.Gateway.ValidateResult
func (a *ActionAdapter) ValidateResult(resp *ports.ActionResponse, reference string, auth ports.Auth, action domain.ActionType) (bool, string) {
	if resp == nil {
		return false, "no response received from the gateway"
	}
	if !resp.Result {
		return false, responseMessage(resp.EpayResponse, resp.PBSResponse)
	}
	if resp.MerchantNumber != "" && resp.MerchantNumber != auth.MerchantNumber {
		return false, "the response does not belong to this merchant"
	}
	if action == domain.ActionGetTransaction {
		if resp.TransactionInformation == nil {
			return false, "the response carries no transaction information"
		}
		if resp.TransactionInformation.TransactionID != reference {
			return false, fmt.Sprintf("the response does not match transaction %s", reference)
		}
	}
	return true, ""
}

// PaymentLogoURL returns the hosted logo sheet for the merchant's enabled
// payment types.
func (a *ActionAdapter) PaymentLogoURL(merchantNumber string) string {
	return fmt.Sprintf("%s/paymentlogos/%s", a.baseURL, merchantNumber)
}

// LogoURL returns the gateway's own logo.
func (a *ActionAdapter) LogoURL() string {
	return a.baseURL + "/paymentlogos/epay.png"
}

func (a *ActionAdapter) action(ctx context.Context, endpoint string, apiReq actionRequest) (*ports.ActionResponse, error) {
	var resp actionResponse
	if err := a.makeRequest(ctx, endpoint, apiReq, &resp); err != nil {
		return nil, err
	}

	result := &ports.ActionResponse{
		Result:         resp.Result,
		EpayResponse:   resp.EpayResponse,
		PBSResponse:    resp.PBSResponse,
		MerchantNumber: resp.MerchantNumber,
	}
	if resp.TransactionInformation != nil {
		result.TransactionInformation = &ports.TransactionInformation{
			TransactionID:  resp.TransactionInformation.TransactionID,
			OrderID:        resp.TransactionInformation.OrderID,
			Currency:       resp.TransactionInformation.Currency,
			AuthAmount:     resp.TransactionInformation.AuthAmount,
			CapturedAmount: resp.TransactionInformation.CapturedAmount,
			CreditedAmount: resp.TransactionInformation.CreditedAmount,
			Status:         resp.TransactionInformation.Status,
			AuthDate:       resp.TransactionInformation.AuthDate,
			CaptureDate:    resp.TransactionInformation.CaptureDate,
		}
	}

	return result, nil
}

// makeRequest makes an HTTP request to the ePay remote API
func (a *ActionAdapter) makeRequest(ctx context.Context, endpoint string, request interface{}, response interface{}) error {
	payloadBytes, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := a.baseURL + endpoint
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	if a.logger != nil {
		a.logger.Info("making request to ePay remote API",
			ports.String("endpoint", endpoint),
		)
	}

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return domain.WrapError(domain.ErrorCodeGatewayError, "failed to connect to the payment gateway", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if httpResp.StatusCode >= 500 {
		return domain.NewDomainError(domain.ErrorCodeGatewayError, "the payment gateway reported an internal error")
	}
	if httpResp.StatusCode >= 400 {
		return domain.NewDomainError(domain.ErrorCodeGatewayError, "the payment gateway rejected the request")
	}

	if err := json.Unmarshal(body, response); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

package epay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/epay-gateway/internal/domain"
	"github.com/commercekit/epay-gateway/internal/domain/ports"
	"github.com/commercekit/epay-gateway/test/mocks"
)

var testAuth = ports.Auth{
	MerchantNumber: "12345678",
	Password:       "remote-password",
	MD5Key:         "md5-secret",
}

// TestCreatePaymentWindowURL tests the window call: endpoint, payload form,
// and that the hash is computed over the finalized request
func TestCreatePaymentWindowURL(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ewindow/getpaymentwindowurl", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"result": true,
			"url":    "https://ssl.ditonlinebetalingssystem.dk/integration/ewindow?id=42",
		})
	}))
	defer server.Close()

	adapter := NewActionAdapter(server.URL, server.Client(), mocks.NewMockLogger())

	req := windowRequestFixture()
	url, err := adapter.CreatePaymentWindowURL(context.Background(), req, testAuth)
	require.NoError(t, err)
	assert.Equal(t, "https://ssl.ditonlinebetalingssystem.dk/integration/ewindow?id=42", url)

	// the adapter injects the merchant number before hashing
	assert.Equal(t, "12345678", received["merchantnumber"])
	assert.Equal(t, "0", received["instantcapture"])
	assert.Equal(t, "1", received["mobile"])
	assert.Equal(t, float64(1999), received["amount"])

	expectedHash := CalculateWindowHash(req, testAuth.MD5Key)
	assert.Equal(t, expectedHash, received["hash"], "hash must cover the finalized request")
	assert.NotEmpty(t, received["hash"])
}

// TestCreatePaymentWindowURL_Rejected tests that a negative result maps to a
// gateway error with the translated detail
func TestCreatePaymentWindowURL_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"result":       false,
			"epayresponse": -1001,
		})
	}))
	defer server.Close()

	adapter := NewActionAdapter(server.URL, server.Client(), mocks.NewMockLogger())

	_, err := adapter.CreatePaymentWindowURL(context.Background(), windowRequestFixture(), testAuth)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeGatewayError))
	assert.Contains(t, err.Error(), "merchant number is not valid")
}

// TestRemoteActions tests endpoint routing and payload shape for the four
// remote actions
func TestRemoteActions(t *testing.T) {
	tests := []struct {
		name         string
		endpoint     string
		call         func(a *ActionAdapter) (*ports.ActionResponse, error)
		expectAmount bool
	}{
		{
			name:     "capture",
			endpoint: "/remote/capture",
			call: func(a *ActionAdapter) (*ports.ActionResponse, error) {
				return a.Capture(context.Background(), 1999, "987654", testAuth)
			},
			expectAmount: true,
		},
		{
			name:     "credit",
			endpoint: "/remote/credit",
			call: func(a *ActionAdapter) (*ports.ActionResponse, error) {
				return a.Credit(context.Background(), 1999, "987654", testAuth)
			},
			expectAmount: true,
		},
		{
			name:     "delete",
			endpoint: "/remote/delete",
			call: func(a *ActionAdapter) (*ports.ActionResponse, error) {
				return a.Delete(context.Background(), "987654", testAuth)
			},
		},
		{
			name:     "gettransaction",
			endpoint: "/remote/gettransaction",
			call: func(a *ActionAdapter) (*ports.ActionResponse, error) {
				return a.GetTransaction(context.Background(), "987654", testAuth)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var received map[string]interface{}
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.endpoint, r.URL.Path)
				require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
				json.NewEncoder(w).Encode(map[string]interface{}{
					"result":         true,
					"merchantnumber": "12345678",
				})
			}))
			defer server.Close()

			adapter := NewActionAdapter(server.URL, server.Client(), mocks.NewMockLogger())

			resp, err := tt.call(adapter)
			require.NoError(t, err)
			assert.True(t, resp.Result)

			assert.Equal(t, "12345678", received["merchantnumber"])
			assert.Equal(t, "remote-password", received["pwd"])
			assert.Equal(t, "987654", received["transactionid"])
			if tt.expectAmount {
				assert.Equal(t, float64(1999), received["amount"])
			} else {
				assert.NotContains(t, received, "amount")
			}
		})
	}
}

// TestGetTransaction_MapsTransactionInformation tests DTO mapping of the
// nested transaction block
func TestGetTransaction_MapsTransactionInformation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"result":         true,
			"merchantnumber": "12345678",
			"transactionInformation": map[string]interface{}{
				"transactionid":  "987654",
				"orderid":        "100000123",
				"currency":       "208",
				"authamount":     1999,
				"capturedamount": 1999,
				"creditedamount": 0,
				"status":         "PAYMENT_CAPTURED",
			},
		})
	}))
	defer server.Close()

	adapter := NewActionAdapter(server.URL, server.Client(), mocks.NewMockLogger())

	resp, err := adapter.GetTransaction(context.Background(), "987654", testAuth)
	require.NoError(t, err)
	require.NotNil(t, resp.TransactionInformation)
	assert.Equal(t, "987654", resp.TransactionInformation.TransactionID)
	assert.Equal(t, int64(1999), resp.TransactionInformation.CapturedAmount)
	assert.Equal(t, "PAYMENT_CAPTURED", resp.TransactionInformation.Status)
}

// TestMakeRequest_Failures tests transport and HTTP status failure mapping
func TestMakeRequest_Failures(t *testing.T) {
	t.Run("transport_error", func(t *testing.T) {
		client := mocks.NewMockHTTPClient(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})
		adapter := NewActionAdapter("http://gateway.invalid", client, mocks.NewMockLogger())

		_, err := adapter.Capture(context.Background(), 1999, "987654", testAuth)
		require.Error(t, err)
		assert.True(t, domain.IsDomainError(err, domain.ErrorCodeGatewayError))
		assert.Contains(t, err.Error(), "failed to connect to the payment gateway")
	})

	t.Run("server_error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		adapter := NewActionAdapter(server.URL, server.Client(), mocks.NewMockLogger())
		_, err := adapter.Capture(context.Background(), 1999, "987654", testAuth)
		require.Error(t, err)
		assert.True(t, domain.IsDomainError(err, domain.ErrorCodeGatewayError))
	})

	t.Run("client_error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		adapter := NewActionAdapter(server.URL, server.Client(), mocks.NewMockLogger())
		_, err := adapter.Delete(context.Background(), "987654", testAuth)
		require.Error(t, err)
		assert.True(t, domain.IsDomainError(err, domain.ErrorCodeGatewayError))
	})

	t.Run("malformed_body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		adapter := NewActionAdapter(server.URL, server.Client(), mocks.NewMockLogger())
		_, err := adapter.Capture(context.Background(), 1999, "987654", testAuth)
		require.Error(t, err)
	})
}

// TestValidateResult tests response validation cases
func TestValidateResult(t *testing.T) {
	adapter := NewActionAdapter("http://gateway.invalid", nil, nil)

	tests := []struct {
		name       string
		resp       *ports.ActionResponse
		action     domain.ActionType
		expectOK   bool
		msgContain string
	}{
		{
			name:       "nil_response",
			resp:       nil,
			action:     domain.ActionCapture,
			msgContain: "no response",
		},
		{
			name:       "gateway_rejection",
			resp:       &ports.ActionResponse{Result: false, EpayResponse: -1017},
			action:     domain.ActionCapture,
			msgContain: "already been captured",
		},
		{
			name:       "acquirer_rejection",
			resp:       &ports.ActionResponse{Result: false, PBSResponse: 7},
			action:     domain.ActionCapture,
			msgContain: "insufficient funds",
		},
		{
			name:       "merchant_mismatch",
			resp:       &ports.ActionResponse{Result: true, MerchantNumber: "999"},
			action:     domain.ActionVoid,
			msgContain: "does not belong to this merchant",
		},
		{
			name:     "success_without_merchant_echo",
			resp:     &ports.ActionResponse{Result: true},
			action:   domain.ActionCapture,
			expectOK: true,
		},
		{
			name:     "success_with_matching_merchant",
			resp:     &ports.ActionResponse{Result: true, MerchantNumber: "12345678"},
			action:   domain.ActionRefund,
			expectOK: true,
		},
		{
			name:       "query_without_transaction_information",
			resp:       &ports.ActionResponse{Result: true, MerchantNumber: "12345678"},
			action:     domain.ActionGetTransaction,
			msgContain: "no transaction information",
		},
		{
			name: "query_with_wrong_transaction",
			resp: &ports.ActionResponse{
				Result:                 true,
				MerchantNumber:         "12345678",
				TransactionInformation: &ports.TransactionInformation{TransactionID: "111111"},
			},
			action:     domain.ActionGetTransaction,
			msgContain: "does not match transaction 987654",
		},
		{
			name: "query_with_matching_transaction",
			resp: &ports.ActionResponse{
				Result:                 true,
				MerchantNumber:         "12345678",
				TransactionInformation: &ports.TransactionInformation{TransactionID: "987654"},
			},
			action:   domain.ActionGetTransaction,
			expectOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, message := adapter.ValidateResult(tt.resp, "987654", testAuth, tt.action)
			assert.Equal(t, tt.expectOK, ok)
			if tt.msgContain != "" {
				assert.Contains(t, message, tt.msgContain)
			} else {
				assert.Empty(t, message)
			}
		})
	}
}

// TestLogoURLs tests the hosted logo helpers
func TestLogoURLs(t *testing.T) {
	adapter := NewActionAdapter("https://ssl.ditonlinebetalingssystem.dk", nil, nil)
	assert.Equal(t, "https://ssl.ditonlinebetalingssystem.dk/paymentlogos/12345678",
		adapter.PaymentLogoURL("12345678"))
	assert.Equal(t, "https://ssl.ditonlinebetalingssystem.dk/paymentlogos/epay.png",
		adapter.LogoURL())
}

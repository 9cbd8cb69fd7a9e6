package checkout

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/commercekit/epay-gateway/internal/domain"
	paymentService "github.com/commercekit/epay-gateway/internal/services/payment"
	"github.com/commercekit/epay-gateway/test/mocks"
)

type handlerFixture struct {
	handler   *Handler
	mux       *http.ServeMux
	gateway   *mocks.MockGateway
	records   *mocks.MockPaymentRecordRepository
	config    *mocks.MockConfigStore
	messenger *mocks.MockMessenger
}

func newHandlerFixture() *handlerFixture {
	f := &handlerFixture{
		gateway:   mocks.NewMockGateway(),
		records:   mocks.NewMockPaymentRecordRepository(),
		config:    mocks.NewMockConfigStore(),
		messenger: mocks.NewMockMessenger(),
	}
	service := paymentService.NewService(f.gateway, f.records, f.config, f.messenger,
		mocks.NewMockLogger(), paymentService.CheckoutURLs{
			AcceptURL:   "https://shop.example/epay/checkout/accept",
			CancelURL:   "https://shop.example/epay/checkout/cancel",
			CallbackURL: "https://shop.example/epay/checkout/callback",
		})
	f.handler = NewHandler(service, f.records, f.config, zap.NewNop())
	f.mux = http.NewServeMux()
	f.handler.Register(f.mux)
	return f
}

// signedCallback builds a callback URL whose hash matches the fixture MD5 key
func signedCallback(params [][2]string, md5Key string) string {
	var concatenated strings.Builder
	var pairs []string
	for _, p := range params {
		concatenated.WriteString(p[1])
		pairs = append(pairs, p[0]+"="+url.QueryEscape(p[1]))
	}
	sum := md5.Sum([]byte(concatenated.String() + md5Key))
	pairs = append(pairs, "hash="+hex.EncodeToString(sum[:]))
	return "/epay/checkout/callback?" + strings.Join(pairs, "&")
}

func callbackParams() [][2]string {
	return [][2]string{
		{"txnid", "987654"},
		{"orderid", "100000123"},
		{"amount", "23900"},
		{"currency", "208"},
	}
}

func TestPaymentWindow(t *testing.T) {
	t.Run("returns the redirect url", func(t *testing.T) {
		f := newHandlerFixture()
		f.gateway.SetWindowResponse("https://window.example/?id=42", nil)

		body := `{
			"order_id": "100000123",
			"store_id": "1",
			"currency": "DKK",
			"total_due": "239.00",
			"billing_address": {"firstname": "Jens", "lastname": "Jensen", "email": "jens@example.dk", "street": ["Hovedgaden 1"], "postcode": "8000", "city": "Aarhus", "country": "DK"},
			"shipping_address": {"firstname": "Jens", "lastname": "Jensen", "street": ["Hovedgaden 1"], "postcode": "8000", "city": "Aarhus", "country": "DK"},
			"items": [{"sku": "widget-1", "name": "Widget", "qty": 2, "base_price": "100.00", "discount": "10.00", "tax": "19.00"}],
			"shipping": {"amount": "49.00", "incl_tax": "61.25", "tax": "12.25", "description": "Standard levering"}
		}`
		req := httptest.NewRequest(http.MethodPost, "/epay/checkout/window", strings.NewReader(body))
		rec := httptest.NewRecorder()
		f.mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "https://window.example/?id=42", resp["url"])

		windowReq := f.gateway.LastWindowReq
		require.NotNil(t, windowReq)
		assert.Equal(t, int64(23900), windowReq.Amount)
		assert.Equal(t, "100000123", windowReq.OrderID)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		f := newHandlerFixture()
		req := httptest.NewRequest(http.MethodPost, "/epay/checkout/window", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		f.mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps gateway failure to 502", func(t *testing.T) {
		f := newHandlerFixture()
		f.gateway.SetWindowResponse("", domain.NewDomainError(domain.ErrorCodeGatewayError, "unavailable"))

		req := httptest.NewRequest(http.MethodPost, "/epay/checkout/window",
			strings.NewReader(`{"order_id": "100000123", "currency": "DKK", "total_due": "239.00"}`))
		rec := httptest.NewRecorder()
		f.mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestCallback(t *testing.T) {
	t.Run("creates the payment record", func(t *testing.T) {
		f := newHandlerFixture()
		f.config.InstantCaptureValue = true

		req := httptest.NewRequest(http.MethodGet, signedCallback(callbackParams(), "md5-secret"), nil)
		rec := httptest.NewRecorder()
		f.mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())

		record, err := f.records.GetByOrderID(context.Background(), "100000123")
		require.NoError(t, err)
		assert.Equal(t, "987654", record.Reference)
		assert.True(t, record.InstantCapture)
		assert.False(t, record.Closed)
	})

	t.Run("rejects an invalid hash", func(t *testing.T) {
		f := newHandlerFixture()

		target := signedCallback(callbackParams(), "wrong-secret")
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		f.mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Zero(t, f.records.CreateCalls)
	})

	t.Run("rejects a tampered amount", func(t *testing.T) {
		f := newHandlerFixture()

		target := strings.Replace(signedCallback(callbackParams(), "md5-secret"), "amount=23900", "amount=1", 1)
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		f.mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("acknowledges a repeated notification", func(t *testing.T) {
		f := newHandlerFixture()
		f.records.Seed(domain.NewPaymentRecord("100000123", "987654", false))

		req := httptest.NewRequest(http.MethodGet, signedCallback(callbackParams(), "md5-secret"), nil)
		rec := httptest.NewRecorder()
		f.mux.ServeHTTP(rec, req)

		// the gateway retries until it sees 200
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	})

	t.Run("rejects a callback without identifiers", func(t *testing.T) {
		f := newHandlerFixture()

		req := httptest.NewRequest(http.MethodGet, "/epay/checkout/callback?hash=abc", nil)
		rec := httptest.NewRecorder()
		f.mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAcceptAndCancel(t *testing.T) {
	f := newHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/epay/checkout/accept?orderid=100000123", nil)
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "100000123")

	req = httptest.NewRequest(http.MethodGet, "/epay/checkout/cancel?orderid=100000123", nil)
	rec = httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cancelled")
}

package epay

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"

	"github.com/commercekit/epay-gateway/internal/domain/ports"
)

// CalculateWindowHash computes the MD5 hash covering a payment window
// request: the concatenation of every parameter value, in the order the
// window consumes them, followed by the shared MD5 key. The request must be
// final before hashing since every field is covered.
func CalculateWindowHash(req *ports.PaymentWindowRequest, md5Key string) string {
	values := []string{
		req.Encoding,
		req.CMS,
		req.WindowState,
		boolParam(req.Mobile),
		req.MerchantNumber,
		req.WindowID,
		strconv.FormatInt(req.Amount, 10),
		req.Currency,
		req.OrderID,
		req.AcceptURL,
		req.CancelURL,
		req.CallbackURL,
		boolParam(req.InstantCapture),
		req.Language,
		boolParam(req.OwnReceipt),
		strconv.Itoa(req.Timeout),
		req.Invoice,
	}

	sum := md5.Sum([]byte(strings.Join(values, "") + md5Key))
	return hex.EncodeToString(sum[:])
}

// CalculateCallbackHash computes the MD5 hash over a callback query string:
// every parameter value except "hash", in the order received, followed by
// the MD5 key.
func CalculateCallbackHash(rawQuery, md5Key string) string {
	var b strings.Builder
	for _, pair := range strings.Split(rawQuery, "&") {
		key, value, _ := strings.Cut(pair, "=")
		if key == "hash" || key == "" {
			continue
		}
		decoded, err := url.QueryUnescape(value)
		if err != nil {
			decoded = value
		}
		b.WriteString(decoded)
	}
	b.WriteString(md5Key)

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// ValidateCallbackHash checks the "hash" parameter of a callback query
// string against the shared MD5 key.
func ValidateCallbackHash(rawQuery, md5Key string) bool {
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return false
	}
	received := query.Get("hash")
	if received == "" {
		return false
	}
	expected := CalculateCallbackHash(rawQuery, md5Key)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(received)) == 1
}

// boolParam renders a boolean the way the payment window expects it.
func boolParam(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

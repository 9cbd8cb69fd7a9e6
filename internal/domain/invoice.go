package domain

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// InvoiceCustomer is the invoice customer block. Field names are a wire
// contract with the gateway and must match its schema exactly.
type InvoiceCustomer struct {
	EmailAddress string `json:"emailaddress"`
	FirstName    string `json:"firstname"`
	LastName     string `json:"lastname"`
	Address      string `json:"address"`
	Zip          string `json:"zip"`
	City         string `json:"city"`
	Country      string `json:"country"`
}

// InvoiceShippingAddress is the invoice shipping address block.
type InvoiceShippingAddress struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Address   string `json:"address"`
	Zip       string `json:"zip"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

// InvoiceLine is one invoice line. Price is in minor units. VAT is a raw
// fraction on item lines but an integer percentage on the shipping line; the
// gateway has historically accepted both, so the split is preserved as-is.
type InvoiceLine struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    int64   `json:"quantity"`
	Price       int64   `json:"price"`
	VAT         float64 `json:"vat"`
}

// Invoice is the optional structured invoice attached to a payment window
// request when invoice data is enabled.
type Invoice struct {
	Customer        InvoiceCustomer        `json:"customer"`
	ShippingAddress InvoiceShippingAddress `json:"shippingaddress"`
	Lines           []InvoiceLine          `json:"lines"`
}

var specialCharacters = regexp.MustCompile(`[^\p{Latin}\d ]`)

// RemoveSpecialCharacters strips every rune outside Latin letters, digits and
// spaces. The gateway rejects invoice descriptions containing anything else.
func RemoveSpecialCharacters(value string) string {
	return specialCharacters.ReplaceAllString(value, "")
}

// BuildInvoice assembles the invoice for an order, or returns nil when
// invoice data is disabled. Callers serialize nil as the empty string so the
// invoice parameter is omitted from the request entirely.
func BuildInvoice(order *Order, minorUnitExponent int, enabled bool) *Invoice {
	if !enabled {
		return nil
	}

	billing := order.BillingAddress
	shipping := order.ShippingAddress

	invoice := &Invoice{
		Customer: InvoiceCustomer{
			EmailAddress: billing.Email,
			FirstName:    billing.FirstName,
			LastName:     billing.LastName,
			Address:      billing.FirstStreetLine(),
			Zip:          billing.Postcode,
			City:         billing.City,
			Country:      billing.CountryID,
		},
		ShippingAddress: InvoiceShippingAddress{
			FirstName: shipping.FirstName,
			LastName:  shipping.LastName,
			Address:   shipping.FirstStreetLine(),
			Zip:       shipping.Postcode,
			City:      shipping.City,
			Country:   shipping.CountryID,
		},
		Lines: make([]InvoiceLine, 0, len(order.Items)+1),
	}

	for _, item := range order.Items {
		description := item.Description
		if description == "" {
			description = item.Name
		}

		qty := item.QtyOrdered
		if qty < 1 {
			qty = 1
		}
		unitPrice := item.BasePrice.Sub(item.BaseDiscountAmount.Div(decimal.NewFromInt(qty)))

		vat := 0.0
		if item.BaseTaxAmount.IsPositive() && !unitPrice.IsZero() {
			vat, _ = item.BaseTaxAmount.Div(unitPrice).Float64()
		}

		invoice.Lines = append(invoice.Lines, InvoiceLine{
			ID:          item.SKU,
			Description: RemoveSpecialCharacters(description),
			Quantity:    qty,
			Price:       ToMinorUnits(unitPrice, minorUnitExponent),
			VAT:         vat,
		})
	}

	// The shipping line carries its VAT as a rounded integer percentage.
	shippingVAT := 0.0
	if order.BaseShippingTaxAmount.IsPositive() {
		base := order.BaseShippingInclTax.Sub(order.BaseShippingDiscountAmount)
		if !base.IsZero() {
			shippingVAT = float64(order.BaseShippingTaxAmount.
				Div(base).
				Mul(decimal.NewFromInt(100)).
				Round(0).
				IntPart())
		}
	}

	shippingDescription := order.ShippingDescription
	if shippingDescription == "" {
		shippingDescription = "Shipping"
	}

	invoice.Lines = append(invoice.Lines, InvoiceLine{
		ID:          "Shipping",
		Description: shippingDescription,
		Quantity:    1,
		Price:       ToMinorUnits(order.BaseShippingAmount.Sub(order.BaseShippingDiscountAmount), minorUnitExponent),
		VAT:         shippingVAT,
	})

	return invoice
}

// SerializeInvoice renders the invoice as the gateway's JSON form, with
// non-ASCII characters left unescaped. A nil invoice serializes to the empty
// string, not an empty object.
func SerializeInvoice(invoice *Invoice) (string, error) {
	if invoice == nil {
		return "", nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(invoice); err != nil {
		return "", err
	}

	return strings.TrimRight(buf.String(), "\n"), nil
}

package domain

import (
	"github.com/shopspring/decimal"
)

// SurchargeSKU is the reserved SKU used to tag the surcharge fee line that
// the checkout flow may attach to an order. Void removes it again.
const SurchargeSKU = "epay_surcharge_fee"

// Address holds the billing or shipping address fields the gateway invoice
// schema consumes.
type Address struct {
	FirstName string
	LastName  string
	Email     string
	Street    []string
	Postcode  string
	City      string
	CountryID string
}

// FirstStreetLine returns the first street line or the empty string.
func (a Address) FirstStreetLine() string {
	if len(a.Street) == 0 {
		return ""
	}
	return a.Street[0]
}

// OrderItem is a single visible order line. All monetary fields are in the
// store's base currency.
type OrderItem struct {
	SKU                string
	Name               string
	Description        string
	QtyOrdered         int64
	BasePrice          decimal.Decimal
	BaseDiscountAmount decimal.Decimal
	BaseTaxAmount      decimal.Decimal
}

// Order is the read-mostly order context supplied by the store. Monetary
// fields are decimal-precision base-currency values and must be converted to
// minor units before transmission to the gateway.
type Order struct {
	IncrementID                string
	StoreID                    string
	BaseCurrencyCode           string
	BaseTotalDue               decimal.Decimal
	BillingAddress             Address
	ShippingAddress            Address
	Items                      []OrderItem
	BaseShippingAmount         decimal.Decimal
	BaseShippingDiscountAmount decimal.Decimal
	BaseShippingInclTax        decimal.Decimal
	BaseShippingTaxAmount      decimal.Decimal
	ShippingDescription        string
}

// RemoveSurchargeItem deletes the surcharge fee line from the order if one is
// present. It reports whether a line was removed.
func (o *Order) RemoveSurchargeItem() bool {
	for i, item := range o.Items {
		if item.SKU == SurchargeSKU {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			return true
		}
	}
	return false
}

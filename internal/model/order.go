// Package model defines the canonical order snapshot and shared error types
// used across the export pipeline.
package model

import "time"

// === Order Snapshot ===

// Order is the canonical snapshot of a WooCommerce order after platform
// extraction. Money fields hold decimal strings exactly as the store API
// reports them (e.g. "99.00"); display formatting happens at field
// resolution time so the raw values stay lossless.
type Order struct {
	ID               int
	Status           string // raw slug, e.g. "processing" (no "wc-" prefix)
	Currency         string // ISO 4217 code
	CurrencySymbol   string // decoded symbol, e.g. "$" or "€"
	CurrencyDecimals int    // price decimals configured on the store
	DateCreated      time.Time

	Total         string
	ShippingTotal string
	TotalTax      string
	DiscountTotal string

	CustomerID        int // zero for guest checkout
	CustomerNote      string
	CustomerIP        string
	CustomerUserAgent string
	TransactionID     string

	PaymentMethod      string // gateway ID, e.g. "stripe"
	PaymentMethodTitle string // display title; may be empty on legacy orders

	Billing        Address
	ShippingMethod string // order-level fallback when no shipping lines exist

	Items         []OrderItem
	ShippingLines []ShippingLine
	CouponCodes   []string
}

// OrderItem is one purchased line on an order.
type OrderItem struct {
	Name        string
	SKU         string
	Quantity    int
	Total       string // line total after discounts, decimal string
	ProductID   int
	VariationID int // nonzero when the item is a variation

	// Populated from product lookups. Variations resolve to the parent
	// product before category/type extraction.
	Categories  []string // names, for the product_categories column
	CategoryIDs []int    // term IDs, for category eligibility filtering
	ProductType string   // "simple", "variable", ...; empty when product is gone
}

// ShippingLine is one shipping method applied to an order.
type ShippingLine struct {
	Name        string // line name as stored on the order
	MethodTitle string
	MethodID    string
	Total       string // decimal string; "" or "0.00" when free
}

// Address holds billing or shipping address fields.
type Address struct {
	FirstName string
	LastName  string
	Company   string
	Address1  string
	Address2  string
	City      string
	State     string
	Postcode  string
	Country   string
	Email     string
	Phone     string
}

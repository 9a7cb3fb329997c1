package woocommerce

import (
	"testing"
	"time"
)

func TestTransformOrder(t *testing.T) {
	wo := &WooOrder{
		ID:                 1234,
		Status:             "processing",
		Currency:           "USD",
		CurrencySymbol:     "&#36;",
		DateCreated:        "2024-03-05T10:00:00",
		Total:              "25.00",
		ShippingTotal:      "10.00",
		TotalTax:           "0.00",
		DiscountTotal:      "5.00",
		CustomerID:         42,
		CustomerNote:       "leave at door",
		TransactionID:      "txn_99",
		PaymentMethod:      "stripe",
		PaymentMethodTitle: "Credit Card",
		Billing: WooAddress{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Address1:  "12 St",
			City:      "Town",
			Postcode:  "00100",
			Country:   "US",
			Email:     "ada@example.com",
			Phone:     "555-0100",
		},
		LineItems: []WooLineItem{
			{Name: "Blue Widget", ProductID: 10, VariationID: 11, Quantity: 2, Total: "10.00"},
			{Name: "Red Widget", ProductID: 20, Quantity: 1, SKU: "RW-1", Total: "5.00"},
		},
		ShippingLines: []WooShippingLine{
			{MethodTitle: "Flat Rate", MethodID: "flat_rate", Total: "10.00"},
		},
		CouponLines: []WooCouponLine{{Code: "SAVE10"}, {Code: ""}},
	}
	products := map[int]*WooProduct{
		10: {ID: 10, Type: "variable", SKU: "BW-1", Categories: []WooProductCategory{{ID: 7, Name: "Widgets"}}},
		20: {ID: 20, Type: "simple", Categories: []WooProductCategory{{ID: 7, Name: "Widgets"}, {ID: 9, Name: "Sale"}}},
	}

	o := transformOrder(wo, products, 2)

	if o.ID != 1234 {
		t.Errorf("ID = %d, want 1234", o.ID)
	}
	if o.CurrencySymbol != "$" {
		t.Errorf("CurrencySymbol = %q, want %q", o.CurrencySymbol, "$")
	}
	if o.CurrencyDecimals != 2 {
		t.Errorf("CurrencyDecimals = %d, want 2", o.CurrencyDecimals)
	}
	want := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	if !o.DateCreated.Equal(want) {
		t.Errorf("DateCreated = %v, want %v", o.DateCreated, want)
	}
	if o.Billing.Email != "ada@example.com" {
		t.Errorf("Billing.Email = %q, want %q", o.Billing.Email, "ada@example.com")
	}
	if len(o.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(o.Items))
	}
	if o.Items[0].SKU != "BW-1" {
		t.Errorf("Items[0].SKU = %q, want %q (product fallback)", o.Items[0].SKU, "BW-1")
	}
	if o.Items[1].SKU != "RW-1" {
		t.Errorf("Items[1].SKU = %q, want %q (line item wins)", o.Items[1].SKU, "RW-1")
	}
	if o.Items[0].ProductType != "variable" {
		t.Errorf("Items[0].ProductType = %q, want %q", o.Items[0].ProductType, "variable")
	}
	if len(o.Items[1].CategoryIDs) != 2 || o.Items[1].CategoryIDs[1] != 9 {
		t.Errorf("Items[1].CategoryIDs = %v, want [7 9]", o.Items[1].CategoryIDs)
	}
	if len(o.ShippingLines) != 1 || o.ShippingLines[0].MethodTitle != "Flat Rate" {
		t.Errorf("ShippingLines = %v, want one Flat Rate line", o.ShippingLines)
	}
	if len(o.CouponCodes) != 1 || o.CouponCodes[0] != "SAVE10" {
		t.Errorf("CouponCodes = %v, want [SAVE10]", o.CouponCodes)
	}
}

func TestTransformOrderMissingProduct(t *testing.T) {
	wo := &WooOrder{
		ID:        1,
		LineItems: []WooLineItem{{Name: "Ghost", ProductID: 99, Quantity: 1}},
	}

	o := transformOrder(wo, map[int]*WooProduct{}, 2)

	if len(o.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1", len(o.Items))
	}
	if o.Items[0].ProductType != "" || len(o.Items[0].Categories) != 0 {
		t.Errorf("item without product lookup should have no type or categories, got %+v", o.Items[0])
	}
}

func TestResolveSymbol(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
		code   string
		want   string
	}{
		{"decodes entity", "&euro;", "EUR", "€"},
		{"plain symbol", "$", "USD", "$"},
		{"fallback table", "", "GBP", "£"},
		{"unknown code", "", "XTS", "XTS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveSymbol(&WooOrder{Currency: tt.code, CurrencySymbol: tt.symbol})
			if got != tt.want {
				t.Errorf("resolveSymbol() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolvePaymentTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		code  string
		want  string
	}{
		{"title set", "Credit Card", "stripe", "Credit Card"},
		{"falls back to code", "", "cod", "cod"},
		{"both empty", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolvePaymentTitle(&WooOrder{PaymentMethod: tt.code, PaymentMethodTitle: tt.title})
			if got != tt.want {
				t.Errorf("resolvePaymentTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseWooDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"site local", "2024-03-05T10:00:00", time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)},
		{"rfc3339", "2024-03-05T10:00:00Z", time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)},
		{"empty", "", time.Time{}},
		{"garbage", "yesterday", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseWooDate(tt.input)
			if !got.Equal(tt.want) {
				t.Errorf("parseWooDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

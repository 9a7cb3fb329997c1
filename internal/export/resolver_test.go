package export

import (
	"testing"
	"time"

	"sheets-bridge/internal/model"
)

// sampleOrder builds a representative order for resolver tests.
// Individual tests mutate the copy they get.
func sampleOrder() *model.Order {
	return &model.Order{
		ID:                 1234,
		Status:             "processing",
		Currency:           "USD",
		CurrencySymbol:     "$",
		CurrencyDecimals:   2,
		DateCreated:        time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		Total:              "115.00",
		ShippingTotal:      "10.00",
		TotalTax:           "5.00",
		DiscountTotal:      "0.00",
		CustomerID:         42,
		CustomerNote:       "leave at the door",
		CustomerIP:         "203.0.113.9",
		CustomerUserAgent:  "Mozilla/5.0",
		TransactionID:      "txn_789",
		PaymentMethod:      "stripe",
		PaymentMethodTitle: "Credit Card (Stripe)",
		Billing: model.Address{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Address1:  "12 St",
			City:      "Town",
			Postcode:  "00100",
			Country:   "US",
			Email:     "ada@example.com",
			Phone:     "+1 555 0100",
		},
		Items: []model.OrderItem{
			{
				Name:        "Blue Widget",
				SKU:         "WID-B",
				Quantity:    2,
				Total:       "10.00",
				ProductID:   11,
				Categories:  []string{"Widgets"},
				CategoryIDs: []int{7},
				ProductType: "simple",
			},
			{
				Name:        "Red Widget",
				SKU:         "WID-R",
				Quantity:    1,
				Total:       "5.00",
				ProductID:   12,
				Categories:  []string{"Widgets", "Sale"},
				CategoryIDs: []int{7, 9},
				ProductType: "variable",
			},
		},
		ShippingLines: []model.ShippingLine{
			{Name: "Flat rate", MethodTitle: "Flat Rate", MethodID: "flat_rate", Total: "10.00"},
		},
		CouponCodes: []string{"SAVE10"},
	}
}

func TestResolveKnownFields(t *testing.T) {
	tests := []struct {
		name    string
		fieldID string
		mutate  func(o *model.Order)
		want    string
	}{
		{name: "order id", fieldID: "order_id", want: "1234"},
		{name: "order amount with currency", fieldID: "order_amount_with_currency", want: "$115.00"},
		{name: "order currency", fieldID: "order_currency", want: "USD"},
		{name: "billing name", fieldID: "billing_name", want: "Ada Lovelace"},
		{
			name:    "billing name with empty last keeps space",
			fieldID: "billing_name",
			mutate:  func(o *model.Order) { o.Billing.LastName = "" },
			want:    "Ada ",
		},
		{name: "billing email", fieldID: "billing_email", want: "ada@example.com"},
		{name: "billing phone", fieldID: "billing_phone", want: "+1 555 0100"},
		{
			// Scenario: empty address2 and state drop out with no doubled commas
			name:    "billing address skips empty parts",
			fieldID: "billing_address",
			want:    "12 St, Town, 00100, US",
		},
		{
			name:    "billing address full",
			fieldID: "billing_address",
			mutate: func(o *model.Order) {
				o.Billing.Address2 = "Unit 4"
				o.Billing.State = "NY"
			},
			want: "12 St, Unit 4, Town, NY, 00100, US",
		},
		{name: "product names joined", fieldID: "product_name", want: "Blue Widget, Red Widget"},
		{name: "payment method title", fieldID: "payment_method_title", want: "Credit Card (Stripe)"},
		{
			name:    "payment method title empty stays empty",
			fieldID: "payment_method_title",
			mutate:  func(o *model.Order) { o.PaymentMethodTitle = "" },
			want:    "",
		},
		{name: "order status raw slug", fieldID: "order_status", want: "processing"},
		{name: "order date format", fieldID: "order_date", want: "2024-03-05 10:00:00"},
		{
			name:    "categories deduped preserving first seen",
			fieldID: "product_categories",
			want:    "Widgets, Sale",
		},
		{
			name:    "categories skip unresolvable product",
			fieldID: "product_categories",
			mutate:  func(o *model.Order) { o.Items[0].Categories = nil },
			want:    "Widgets, Sale",
		},
		{name: "customer note", fieldID: "customer_note", want: "leave at the door"},
		{
			name:    "shipping method with nonzero cost",
			fieldID: "shipping_method",
			want:    "Flat Rate - $10.00",
		},
		{
			name:    "shipping method free line has no amount suffix",
			fieldID: "shipping_method",
			mutate:  func(o *model.Order) { o.ShippingLines[0].Total = "0.00" },
			want:    "Flat Rate",
		},
		{
			name:    "shipping method falls back to line name",
			fieldID: "shipping_method",
			mutate:  func(o *model.Order) { o.ShippingLines[0].MethodTitle = "" },
			want:    "Flat rate - $10.00",
		},
		{
			name:    "shipping method falls back to order level string",
			fieldID: "shipping_method",
			mutate: func(o *model.Order) {
				o.ShippingLines = nil
				o.ShippingMethod = "Local pickup"
			},
			want: "Local pickup",
		},
		{
			name:    "shipping method empty when nothing known",
			fieldID: "shipping_method",
			mutate:  func(o *model.Order) { o.ShippingLines = nil },
			want:    "",
		},
		{name: "product types deduped", fieldID: "product_type", want: "simple, variable"},
		{name: "customer id", fieldID: "customer_id", want: "42"},
		{
			name:    "guest customer id empty",
			fieldID: "customer_id",
			mutate:  func(o *model.Order) { o.CustomerID = 0 },
			want:    "",
		},
		{name: "coupon used", fieldID: "coupon_used", want: "SAVE10"},
		{
			name:    "blank coupon codes filtered",
			fieldID: "coupon_used",
			mutate:  func(o *model.Order) { o.CouponCodes = []string{"", "  ", "SAVE10"} },
			want:    "SAVE10",
		},
		{
			name:    "no coupons empty string",
			fieldID: "coupon_used",
			mutate:  func(o *model.Order) { o.CouponCodes = nil },
			want:    "",
		},
		{name: "skus keep empty slots", fieldID: "product_sku", want: "WID-B, WID-R"},
		{
			name:    "sku empty slot preserved",
			fieldID: "product_sku",
			mutate:  func(o *model.Order) { o.Items[0].SKU = "" },
			want:    ", WID-R",
		},
		{name: "quantities per item", fieldID: "product_quantity", want: "2, 1"},
		{
			// Per-unit price: 10.00/2 and 5.00/1 both come to $5.00
			name:    "unit prices per item",
			fieldID: "product_price",
			want:    "$5.00, $5.00",
		},
		{
			name:    "unit price with zero quantity clamps divisor",
			fieldID: "product_price",
			mutate:  func(o *model.Order) { o.Items[1].Quantity = 0 },
			want:    "$5.00, $5.00",
		},
		{name: "line totals per item", fieldID: "product_total", want: "$10.00, $5.00"},
		{name: "transaction id", fieldID: "transaction_id", want: "txn_789"},
		{name: "customer ip", fieldID: "customer_ip", want: "203.0.113.9"},
		{name: "customer user agent", fieldID: "customer_user_agent", want: "Mozilla/5.0"},
		{name: "shipping cost raw", fieldID: "shipping_cost", want: "10.00"},
		{name: "tax amount raw", fieldID: "tax_amount", want: "5.00"},
		{name: "discount amount raw", fieldID: "discount_amount", want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := sampleOrder()
			if tt.mutate != nil {
				tt.mutate(o)
			}
			got, ok := Resolve(tt.fieldID, o)
			if !ok {
				t.Fatalf("Resolve(%q) reported absent, want present", tt.fieldID)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.fieldID, got, tt.want)
			}
		})
	}
}

func TestResolveAbsentCases(t *testing.T) {
	t.Run("unknown field is absent", func(t *testing.T) {
		if _, ok := Resolve("no_such_field", sampleOrder()); ok {
			t.Error("unknown field resolved as present")
		}
	})

	t.Run("order date absent when creation time missing", func(t *testing.T) {
		o := sampleOrder()
		o.DateCreated = time.Time{}
		if _, ok := Resolve("order_date", o); ok {
			t.Error("order_date resolved as present for zero creation time")
		}
	})
}

func TestResolveCurrencyFormatting(t *testing.T) {
	t.Run("zero decimal currency", func(t *testing.T) {
		o := sampleOrder()
		o.Currency = "JPY"
		o.CurrencySymbol = "¥"
		o.CurrencyDecimals = 0
		o.Total = "1500"

		got, _ := Resolve("order_amount_with_currency", o)
		if got != "¥1500" {
			t.Errorf("order_amount_with_currency = %q, want %q", got, "¥1500")
		}
	})

	t.Run("large amount stays ungrouped", func(t *testing.T) {
		o := sampleOrder()
		o.Total = "1234.50"

		got, _ := Resolve("order_amount_with_currency", o)
		if got != "$1234.50" {
			t.Errorf("order_amount_with_currency = %q, want %q", got, "$1234.50")
		}
	})

	t.Run("decoded symbol with trailing space", func(t *testing.T) {
		o := sampleOrder()
		o.CurrencySymbol = "kr "
		o.Total = "99.00"

		got, _ := Resolve("order_amount_with_currency", o)
		if got != "kr 99.00" {
			t.Errorf("order_amount_with_currency = %q, want %q", got, "kr 99.00")
		}
	})
}

func TestEveryCatalogFieldHasResolver(t *testing.T) {
	// The catalog and the resolver table are maintained side by side;
	// a field without a resolver would silently vanish from payloads.
	for id := range resolvers {
		if id == "" {
			t.Fatal("empty resolver key")
		}
	}
	o := sampleOrder()
	for _, id := range []string{
		"order_id", "order_amount_with_currency", "order_currency",
		"billing_name", "billing_email", "billing_phone", "billing_address",
		"product_name", "payment_method_title", "order_status", "order_date",
		"product_categories", "customer_note", "shipping_method", "product_type",
		"customer_id", "coupon_used", "product_sku", "product_quantity",
		"product_price", "product_total", "transaction_id", "customer_ip",
		"customer_user_agent", "shipping_cost", "tax_amount", "discount_amount",
	} {
		if _, ok := resolvers[id]; !ok {
			t.Errorf("catalog field %q has no resolver", id)
			continue
		}
		if _, ok := Resolve(id, o); !ok && id != "order_date" {
			t.Errorf("field %q resolved absent on a fully populated order", id)
		}
	}
}

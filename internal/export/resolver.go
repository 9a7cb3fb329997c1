// Package export implements the order export pipeline: field resolution,
// payload assembly and dispatch to the Apps Script endpoint.
package export

import (
	"strconv"
	"strings"

	"sheets-bridge/internal/model"
)

// resolverFunc produces the value of one field for an order.
// ok=false means the field is absent for this order and must be omitted
// from the payload entirely.
type resolverFunc func(o *model.Order) (string, bool)

// resolvers maps field ID to its resolver. Registered once at init; the
// assembler treats any ID without an entry as absent, so an unknown ID can
// never fail an export.
var resolvers = map[string]resolverFunc{
	"order_id": func(o *model.Order) (string, bool) {
		return strconv.Itoa(o.ID), true
	},
	"order_amount_with_currency": func(o *model.Order) (string, bool) {
		return formatMoney(o, model.ParseAmount(o.Total)), true
	},
	"order_currency": func(o *model.Order) (string, bool) {
		return o.Currency, true
	},
	"billing_name": func(o *model.Order) (string, bool) {
		// Space-joined even when one part is empty, matching the column
		// format merchants already have in their sheets.
		return o.Billing.FirstName + " " + o.Billing.LastName, true
	},
	"billing_email": func(o *model.Order) (string, bool) {
		return o.Billing.Email, true
	},
	"billing_phone": func(o *model.Order) (string, bool) {
		return o.Billing.Phone, true
	},
	"billing_address": func(o *model.Order) (string, bool) {
		return joinNonEmpty([]string{
			o.Billing.Address1,
			o.Billing.Address2,
			o.Billing.City,
			o.Billing.State,
			o.Billing.Postcode,
			o.Billing.Country,
		}), true
	},
	"product_name": func(o *model.Order) (string, bool) {
		parts := make([]string, len(o.Items))
		for i, item := range o.Items {
			parts[i] = item.Name
		}
		return strings.Join(parts, ", "), true
	},
	"payment_method_title": func(o *model.Order) (string, bool) {
		// Transform already falls back to the gateway title when the order
		// predates stored titles; anything still empty stays empty.
		return o.PaymentMethodTitle, true
	},
	"order_status": func(o *model.Order) (string, bool) {
		return o.Status, true
	},
	"order_date": func(o *model.Order) (string, bool) {
		if o.DateCreated.IsZero() {
			return "", false
		}
		return o.DateCreated.Format("2006-01-02 15:04:05"), true
	},
	"product_categories": func(o *model.Order) (string, bool) {
		var names []string
		seen := make(map[string]bool)
		for _, item := range o.Items {
			for _, name := range item.Categories {
				if name == "" || seen[name] {
					continue
				}
				seen[name] = true
				names = append(names, name)
			}
		}
		return strings.Join(names, ", "), true
	},
	"customer_note": func(o *model.Order) (string, bool) {
		return o.CustomerNote, true
	},
	"shipping_method": func(o *model.Order) (string, bool) {
		return resolveShippingMethod(o), true
	},
	"product_type": func(o *model.Order) (string, bool) {
		var types []string
		seen := make(map[string]bool)
		for _, item := range o.Items {
			if item.ProductType == "" || seen[item.ProductType] {
				continue
			}
			seen[item.ProductType] = true
			types = append(types, item.ProductType)
		}
		return strings.Join(types, ", "), true
	},

	// Pro fields
	"customer_id": func(o *model.Order) (string, bool) {
		if o.CustomerID == 0 {
			return "", true // guest checkout
		}
		return strconv.Itoa(o.CustomerID), true
	},
	"coupon_used": func(o *model.Order) (string, bool) {
		var codes []string
		for _, code := range o.CouponCodes {
			if strings.TrimSpace(code) != "" {
				codes = append(codes, code)
			}
		}
		return strings.Join(codes, ", "), true
	},
	"product_sku": func(o *model.Order) (string, bool) {
		parts := make([]string, len(o.Items))
		for i, item := range o.Items {
			parts[i] = item.SKU
		}
		return strings.Join(parts, ", "), true
	},
	"product_quantity": func(o *model.Order) (string, bool) {
		parts := make([]string, len(o.Items))
		for i, item := range o.Items {
			parts[i] = strconv.Itoa(item.Quantity)
		}
		return strings.Join(parts, ", "), true
	},
	"product_price": func(o *model.Order) (string, bool) {
		parts := make([]string, len(o.Items))
		for i, item := range o.Items {
			parts[i] = formatMoney(o, model.UnitPrice(item.Total, item.Quantity))
		}
		return strings.Join(parts, ", "), true
	},
	"product_total": func(o *model.Order) (string, bool) {
		parts := make([]string, len(o.Items))
		for i, item := range o.Items {
			parts[i] = formatMoney(o, model.ParseAmount(item.Total))
		}
		return strings.Join(parts, ", "), true
	},

	// Legacy extras
	"transaction_id": func(o *model.Order) (string, bool) {
		return o.TransactionID, true
	},
	"customer_ip": func(o *model.Order) (string, bool) {
		return o.CustomerIP, true
	},
	"customer_user_agent": func(o *model.Order) (string, bool) {
		return o.CustomerUserAgent, true
	},
	"shipping_cost": func(o *model.Order) (string, bool) {
		return o.ShippingTotal, true
	},
	"tax_amount": func(o *model.Order) (string, bool) {
		return o.TotalTax, true
	},
	"discount_amount": func(o *model.Order) (string, bool) {
		return o.DiscountTotal, true
	},
}

// Resolve returns the value of one field for an order. Unknown IDs resolve
// to absent rather than an error.
func Resolve(id string, o *model.Order) (string, bool) {
	fn, ok := resolvers[id]
	if !ok {
		return "", false
	}
	return fn(o)
}

// resolveShippingMethod prefers each shipping line's method title, falling
// back to the line name, and appends the formatted line cost when nonzero.
// Orders without shipping lines fall back to the order-level method string.
func resolveShippingMethod(o *model.Order) string {
	var parts []string
	for _, line := range o.ShippingLines {
		label := line.MethodTitle
		if label == "" {
			label = line.Name
		}
		if label == "" {
			continue
		}
		if total := model.ParseAmount(line.Total); total != 0 {
			label += " - " + formatMoney(o, total)
		}
		parts = append(parts, label)
	}
	if len(parts) == 0 && o.ShippingMethod != "" {
		parts = append(parts, o.ShippingMethod)
	}
	return strings.Join(parts, ", ")
}

// formatMoney renders an amount with the order's currency symbol and the
// store's decimal precision.
func formatMoney(o *model.Order, v float64) string {
	return o.CurrencySymbol + model.FormatAmount(v, o.CurrencyDecimals)
}

// joinNonEmpty joins the non-empty parts with ", ", producing no dangling
// or doubled separators.
func joinNonEmpty(parts []string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

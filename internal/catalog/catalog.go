// Package catalog defines the registry of exportable order fields.
// The registry is static: constructed once, read-only afterwards.
// Insertion order is part of the contract: payload keys, sheet headers
// and generated-script field maps all follow it.
package catalog

// Field describes one exportable order field.
type Field struct {
	ID            string `json:"id"`    // stable snake_case key, used on the wire
	Label         string `json:"label"` // column header shown in the sheet
	Required      bool   `json:"required"`
	AlwaysInclude bool   `json:"always_include"` // forced into every selection
	Pro           bool   `json:"pro"`            // needs an active pro license
	Default       bool   `json:"default"`        // selected out of the box
}

// fields is the full registry in export column order.
var fields = []Field{
	{ID: "order_id", Label: "Order ID", Required: true, AlwaysInclude: true, Default: true},
	{ID: "order_amount_with_currency", Label: "Order Amount", Required: true, AlwaysInclude: true, Default: true},
	{ID: "order_currency", Label: "Order Currency", Default: true},
	{ID: "billing_name", Label: "Billing Name", Required: true, AlwaysInclude: true, Default: true},
	{ID: "billing_email", Label: "Email Address", Default: true},
	{ID: "billing_phone", Label: "Phone", Default: true},
	{ID: "billing_address", Label: "Billing Address", Default: true},
	{ID: "product_name", Label: "Product Name", Required: true, AlwaysInclude: true, Default: true},
	{ID: "payment_method_title", Label: "Payment Method", Default: true},
	{ID: "order_status", Label: "Order Status", Required: true, AlwaysInclude: true, Default: true},
	{ID: "order_date", Label: "Order Date", Required: true, AlwaysInclude: true, Default: true},
	{ID: "product_categories", Label: "Product Categories", Default: true},
	{ID: "customer_note", Label: "Customer Note", Default: true},
	{ID: "shipping_method", Label: "Shipping Method", Default: true},
	{ID: "product_type", Label: "Product Type", Default: true},

	// Pro fields
	{ID: "customer_id", Label: "Customer ID", Pro: true},
	{ID: "coupon_used", Label: "Coupon Used", Pro: true},
	{ID: "product_sku", Label: "Product SKU", Pro: true},
	{ID: "product_quantity", Label: "Product Quantity", Pro: true},
	{ID: "product_price", Label: "Product Price", Pro: true},
	{ID: "product_total", Label: "Product Total", Pro: true},

	// Optional extras carried over from the first-generation catalog.
	// Not selected by default, not pro-gated.
	{ID: "transaction_id", Label: "Transaction ID"},
	{ID: "customer_ip", Label: "Customer IP"},
	{ID: "customer_user_agent", Label: "Customer User Agent"},
	{ID: "shipping_cost", Label: "Shipping Cost"},
	{ID: "tax_amount", Label: "Tax Amount"},
	{ID: "discount_amount", Label: "Discount Amount"},
}

// byID supports O(1) lookup. Built once at init from the ordered slice.
var byID = func() map[string]Field {
	m := make(map[string]Field, len(fields))
	for _, f := range fields {
		m[f.ID] = f
	}
	return m
}()

// Fields returns the full catalog in column order.
// The returned slice is a copy; callers may reorder it freely.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Lookup returns the field for the given ID.
func Lookup(id string) (Field, bool) {
	f, ok := byID[id]
	return f, ok
}

// Defaults returns the IDs selected out of the box, in catalog order.
func Defaults() []string {
	var ids []string
	for _, f := range fields {
		if f.Default {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// AlwaysInclude returns the IDs that must be present in every selection,
// in catalog order.
func AlwaysInclude() []string {
	var ids []string
	for _, f := range fields {
		if f.AlwaysInclude {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// IsPro reports whether the field requires an active pro license.
// Unknown IDs are not pro (they resolve to nothing anyway).
func IsPro(id string) bool {
	return byID[id].Pro
}

// Labels maps the given IDs to their labels, preserving order.
// Unknown IDs are skipped.
func Labels(ids []string) []string {
	var labels []string
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			labels = append(labels, f.Label)
		}
	}
	return labels
}

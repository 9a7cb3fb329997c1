package woocommerce

// =============================================================================
// WooCommerce REST API v3 Types
// =============================================================================

// WooOrder is an order resource as returned by /wp-json/wc/v3/orders.
// Only the fields the export pipeline reads are mapped.
type WooOrder struct {
	ID                 int               `json:"id"`
	Status             string            `json:"status"`
	Currency           string            `json:"currency"`
	CurrencySymbol     string            `json:"currency_symbol"`
	DateCreated        string            `json:"date_created"`
	Total              string            `json:"total"`
	ShippingTotal      string            `json:"shipping_total"`
	TotalTax           string            `json:"total_tax"`
	DiscountTotal      string            `json:"discount_total"`
	CustomerID         int               `json:"customer_id"`
	CustomerNote       string            `json:"customer_note"`
	CustomerIP         string            `json:"customer_ip_address"`
	CustomerUserAgent  string            `json:"customer_user_agent"`
	TransactionID      string            `json:"transaction_id"`
	PaymentMethod      string            `json:"payment_method"`
	PaymentMethodTitle string            `json:"payment_method_title"`
	Billing            WooAddress        `json:"billing"`
	LineItems          []WooLineItem     `json:"line_items"`
	ShippingLines      []WooShippingLine `json:"shipping_lines"`
	CouponLines        []WooCouponLine   `json:"coupon_lines"`
}

// WooAddress is the billing (or shipping) block on an order.
type WooAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// WooLineItem is a purchased product line on an order.
type WooLineItem struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ProductID   int    `json:"product_id"`
	VariationID int    `json:"variation_id"`
	Quantity    int    `json:"quantity"`
	SKU         string `json:"sku"`
	Total       string `json:"total"`
}

// WooShippingLine is one shipping charge on an order.
type WooShippingLine struct {
	ID          int    `json:"id"`
	MethodTitle string `json:"method_title"`
	MethodID    string `json:"method_id"`
	Total       string `json:"total"`
}

// WooCouponLine records a coupon applied to an order.
type WooCouponLine struct {
	Code     string `json:"code"`
	Discount string `json:"discount"`
}

// WooProduct is a product resource from /wp-json/wc/v3/products.
// For variations ParentID points at the parent product that carries
// the category assignments.
type WooProduct struct {
	ID         int                  `json:"id"`
	Name       string               `json:"name"`
	Type       string               `json:"type"`
	ParentID   int                  `json:"parent_id"`
	SKU        string               `json:"sku"`
	Categories []WooProductCategory `json:"categories"`
}

// WooProductCategory is a category assignment on a product.
type WooProductCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// WooErrorResponse is the REST API error envelope.
type WooErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Status int `json:"status"`
	} `json:"data"`
}

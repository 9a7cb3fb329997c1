package woocommerce

import (
	"time"

	"sheets-bridge/internal/model"
)

// wooDateLayout is how the REST API renders date_created: site-local
// time with no zone designator.
const wooDateLayout = "2006-01-02T15:04:05"

// currencySymbols covers stores old enough to predate the
// currency_symbol field on order responses.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"AUD": "$",
	"CAD": "$",
	"INR": "₹",
	"BRL": "R$",
}

// transformOrder converts a REST order and its resolved products into
// the canonical order snapshot.
func transformOrder(wo *WooOrder, products map[int]*WooProduct, priceDecimals int) *model.Order {
	o := &model.Order{
		ID:                 wo.ID,
		Status:             wo.Status,
		Currency:           wo.Currency,
		CurrencySymbol:     resolveSymbol(wo),
		CurrencyDecimals:   priceDecimals,
		DateCreated:        parseWooDate(wo.DateCreated),
		Total:              wo.Total,
		ShippingTotal:      wo.ShippingTotal,
		TotalTax:           wo.TotalTax,
		DiscountTotal:      wo.DiscountTotal,
		CustomerID:         wo.CustomerID,
		CustomerNote:       wo.CustomerNote,
		CustomerIP:         wo.CustomerIP,
		CustomerUserAgent:  wo.CustomerUserAgent,
		TransactionID:      wo.TransactionID,
		PaymentMethod:      wo.PaymentMethod,
		PaymentMethodTitle: resolvePaymentTitle(wo),
		Billing:            transformAddress(wo.Billing),
	}

	for _, li := range wo.LineItems {
		item := model.OrderItem{
			Name:        li.Name,
			SKU:         li.SKU,
			Quantity:    li.Quantity,
			Total:       li.Total,
			ProductID:   li.ProductID,
			VariationID: li.VariationID,
		}
		if p, ok := products[li.ProductID]; ok {
			item.ProductType = p.Type
			if item.SKU == "" {
				item.SKU = p.SKU
			}
			for _, cat := range p.Categories {
				item.Categories = append(item.Categories, cat.Name)
				item.CategoryIDs = append(item.CategoryIDs, cat.ID)
			}
		}
		o.Items = append(o.Items, item)
	}

	for _, sl := range wo.ShippingLines {
		o.ShippingLines = append(o.ShippingLines, model.ShippingLine{
			MethodTitle: sl.MethodTitle,
			MethodID:    sl.MethodID,
			Total:       sl.Total,
		})
	}

	for _, cl := range wo.CouponLines {
		if cl.Code != "" {
			o.CouponCodes = append(o.CouponCodes, cl.Code)
		}
	}

	return o
}

func transformAddress(a WooAddress) model.Address {
	return model.Address{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Company:   a.Company,
		Address1:  a.Address1,
		Address2:  a.Address2,
		City:      a.City,
		State:     a.State,
		Postcode:  a.Postcode,
		Country:   a.Country,
		Email:     a.Email,
		Phone:     a.Phone,
	}
}

// resolveSymbol prefers the order's own currency_symbol, decoding any
// HTML entities the store emits, and falls back to a static table.
func resolveSymbol(wo *WooOrder) string {
	if wo.CurrencySymbol != "" {
		return model.DecodeCurrencySymbol(wo.CurrencySymbol)
	}
	if sym, ok := currencySymbols[wo.Currency]; ok {
		return sym
	}
	return wo.Currency
}

// resolvePaymentTitle falls back to the gateway code when the store
// never set a display title.
func resolvePaymentTitle(wo *WooOrder) string {
	if wo.PaymentMethodTitle != "" {
		return wo.PaymentMethodTitle
	}
	return wo.PaymentMethod
}

// parseWooDate accepts both the bare site-local layout and RFC 3339
// (some plugins rewrite date fields with a zone suffix).
func parseWooDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(wooDateLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

package pricing

import (
	"sort"

	pkgerrors "github.com/chanderbhanswami/vardhman-mills-sub005/pkg/errors"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/money"
)

// ShippingMethod is one delivery option. Its price here is the single
// source of truth: the shipping step and every quote read the same row.
type ShippingMethod struct {
	ID            string      `json:"id"`
	Label         string      `json:"label"`
	Price         money.Money `json:"price"`
	EstimatedDays int         `json:"estimated_days"`
}

var shippingMethods = map[string]ShippingMethod{
	"standard": {ID: "standard", Label: "Standard Delivery", Price: money.INR(0), EstimatedDays: 5},
	"express":  {ID: "express", Label: "Express Delivery", Price: money.INR(9900), EstimatedDays: 2},
	"priority": {ID: "priority", Label: "Priority Overnight", Price: money.INR(19900), EstimatedDays: 1},
}

// ShippingMethods lists the available options in a stable order.
func ShippingMethods() []ShippingMethod {
	out := make([]ShippingMethod, 0, len(shippingMethods))
	for _, method := range shippingMethods {
		out = append(out, method)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Price.Amount < out[j].Price.Amount
	})
	return out
}

// ShippingPrice resolves a method's price by ID.
func ShippingPrice(methodID string) (money.Money, error) {
	method, found := shippingMethods[methodID]
	if !found {
		return money.Money{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown shipping method").WithDetails(map[string]any{
			"shipping_method_id": methodID,
		})
	}
	return method.Price, nil
}

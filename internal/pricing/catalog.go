package pricing

import (
	"strings"

	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/enums"
	pkgerrors "github.com/chanderbhanswami/vardhman-mills-sub005/pkg/errors"
)

var couponCatalog = map[string]Coupon{
	"WELCOME100": {Code: "WELCOME100", Type: enums.DiscountTypeFixed, Value: 100},
	"FREESHIP":   {Code: "FREESHIP", Type: enums.DiscountTypeShipping},
	"SAVE20": {
		Code:            "SAVE20",
		Type:            enums.DiscountTypePercentage,
		Value:           20,
		MinimumAmount:   ptr(int64(99900)),
		MaximumDiscount: ptr(int64(50000)),
	},
	"B2G1": {Code: "B2G1", Type: enums.DiscountTypeBuyXGetY, BuyQty: 2, GetQty: 1},
}

func ptr[T any](v T) *T { return &v }

// LookupCoupon resolves a coupon code case-insensitively.
func LookupCoupon(code string) (Coupon, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	coupon, found := couponCatalog[normalized]
	if !found {
		return Coupon{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown coupon code").WithDetails(map[string]any{
			"code": normalized,
		})
	}
	return coupon, nil
}

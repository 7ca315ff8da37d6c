package pricing

import (
	"sort"
	"time"

	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/enums"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/money"
)

// Rejection reasons returned verbatim to the caller.
const (
	ReasonBelowMinimum    = "order total is below the coupon minimum"
	ReasonNotYetActive    = "coupon is not active yet"
	ReasonExpired         = "coupon has expired"
	ReasonUsageLimit      = "coupon usage limit reached"
	ReasonUnknownType     = "unknown coupon type"
)

// evaluateCoupon computes a single coupon's discount against the
// subtotal. An ineligible coupon is reported, never silently dropped.
func evaluateCoupon(coupon Coupon, subtotal, shipping money.Money, items []LineItem, now time.Time) CouponResult {
	result := CouponResult{Code: coupon.Code, Amount: money.INR(0)}

	if coupon.MinimumAmount != nil && subtotal.Amount < *coupon.MinimumAmount {
		result.Reason = ReasonBelowMinimum
		return result
	}
	if coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom) {
		result.Reason = ReasonNotYetActive
		return result
	}
	if coupon.ValidTo != nil && now.After(*coupon.ValidTo) {
		result.Reason = ReasonExpired
		return result
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		result.Reason = ReasonUsageLimit
		return result
	}

	var amount int64
	switch coupon.Type {
	case enums.DiscountTypePercentage:
		amount = subtotal.Percent(coupon.Value * 100).Amount
		amount = capDiscount(amount, coupon.MaximumDiscount)
	case enums.DiscountTypeFixed:
		amount = coupon.Value
	case enums.DiscountTypeShipping:
		amount = shipping.Amount
	case enums.DiscountTypeBuyXGetY:
		amount = buyXGetYAmount(coupon, items)
		amount = capDiscount(amount, coupon.MaximumDiscount)
	default:
		result.Reason = ReasonUnknownType
		return result
	}

	// A merchandise coupon can never exceed the merchandise value; a
	// shipping coupon is already bounded by the shipping price.
	if coupon.Type != enums.DiscountTypeShipping && amount > subtotal.Amount {
		amount = subtotal.Amount
	}

	result.Applied = true
	result.Amount = money.INR(amount)
	return result
}

func capDiscount(amount int64, maximum *int64) int64 {
	if maximum != nil && amount > *maximum {
		return *maximum
	}
	return amount
}

// buyXGetYAmount grants the cheapest eligible units free: for every
// full group of (buy+get) units in the cart, get units are discounted
// at the lowest unit prices present.
func buyXGetYAmount(coupon Coupon, items []LineItem) int64 {
	if coupon.BuyQty <= 0 || coupon.GetQty <= 0 {
		return 0
	}

	var unitPrices []int64
	totalQty := 0
	for _, item := range items {
		totalQty += item.Quantity
		for i := 0; i < item.Quantity; i++ {
			unitPrices = append(unitPrices, item.UnitPrice.Amount)
		}
	}

	group := coupon.BuyQty + coupon.GetQty
	freeUnits := (totalQty / group) * coupon.GetQty
	if freeUnits == 0 {
		return 0
	}

	sort.Slice(unitPrices, func(i, j int) bool { return unitPrices[i] < unitPrices[j] })

	var amount int64
	for i := 0; i < freeUnits && i < len(unitPrices); i++ {
		amount += unitPrices[i]
	}
	return amount
}

// evaluateAutomaticDiscount applies a codeless discount when its floor
// is met; below the floor it simply contributes nothing.
func evaluateAutomaticDiscount(disc AutomaticDiscount, subtotal money.Money) int64 {
	if disc.MinimumAmount != nil && subtotal.Amount < *disc.MinimumAmount {
		return 0
	}
	switch disc.Type {
	case enums.DiscountTypePercentage:
		return subtotal.Percent(disc.Value * 100).Amount
	case enums.DiscountTypeFixed:
		return disc.Value
	}
	return 0
}

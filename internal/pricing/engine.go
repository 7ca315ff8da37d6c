package pricing

import (
	"fmt"
	"time"

	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/config"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/enums"
	pkgerrors "github.com/chanderbhanswami/vardhman-mills-sub005/pkg/errors"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/money"
)

// Engine computes order totals. All arithmetic stays in integer minor
// units; display strings are derived downstream and never read back.
type Engine struct {
	gstRateBPS  int
	giftWrapFee int64
	codFee      int64
}

// NewEngine builds a pricing engine from configuration.
func NewEngine(cfg config.PricingConfig) (*Engine, error) {
	if cfg.GSTRateBasisPoints <= 0 {
		return nil, fmt.Errorf("gst rate must be positive")
	}
	if cfg.GSTRateBasisPoints%2 != 0 {
		return nil, fmt.Errorf("gst rate must split into two equal components")
	}
	return &Engine{
		gstRateBPS:  cfg.GSTRateBasisPoints,
		giftWrapFee: cfg.GiftWrapFeePaise,
		codFee:      cfg.CODHandlingFeePaise,
	}, nil
}

// Quote computes the full monetary breakdown:
// total = subtotal - discount + shipping + tax + charges.
func (e *Engine) Quote(input QuoteInput) (*Quote, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote requires at least one line item")
	}
	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}

	var subtotal, savings int64
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item quantity must be positive").WithDetails(map[string]any{
				"product_id": item.ProductID,
			})
		}
		if item.UnitPrice.Amount < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item price cannot be negative").WithDetails(map[string]any{
				"product_id": item.ProductID,
			})
		}
		subtotal += item.UnitPrice.Amount * int64(item.Quantity)
		if item.CompareAtPrice != nil && item.CompareAtPrice.Amount > item.UnitPrice.Amount {
			savings += (item.CompareAtPrice.Amount - item.UnitPrice.Amount) * int64(item.Quantity)
		}
	}
	subtotalM := money.INR(subtotal)

	shipping, err := ShippingPrice(input.ShippingMethodID)
	if err != nil {
		return nil, err
	}

	// Shipping coupons waive the shipping charge; they never touch the
	// merchandise discount or the tax base.
	var discount, shippingWaived int64
	couponResults := make([]CouponResult, 0, len(input.Coupons))
	for _, coupon := range input.Coupons {
		result := evaluateCoupon(coupon, subtotalM, shipping, input.Items, now)
		couponResults = append(couponResults, result)
		if !result.Applied {
			continue
		}
		if coupon.Type == enums.DiscountTypeShipping {
			shippingWaived = shipping.Amount
			continue
		}
		discount += result.Amount.Amount
	}
	for _, auto := range input.AutomaticDiscounts {
		discount += evaluateAutomaticDiscount(auto, subtotalM)
	}
	if discount > subtotal {
		discount = subtotal
	}
	shippingDue := shipping.Amount - shippingWaived

	taxBase := money.INR(subtotal - discount)
	components := e.taxComponents(taxBase)
	tax := components[0].Amount.Amount + components[1].Amount.Amount

	charges := e.charges(input)
	var chargesTotal int64
	for _, charge := range charges {
		chargesTotal += charge.Amount.Amount
	}

	total := subtotal - discount + shippingDue + tax + chargesTotal

	return &Quote{
		Subtotal:         subtotalM,
		Discount:         money.INR(discount),
		CouponResults:    couponResults,
		ShippingMethodID: input.ShippingMethodID,
		Shipping:         money.INR(shippingDue),
		Tax:              money.INR(tax),
		TaxComponents:    components,
		Charges:          charges,
		ChargesTotal:     money.INR(chargesTotal),
		Total:            money.INR(total),
		Savings:          money.INR(savings),
	}, nil
}

// taxComponents splits the combined GST into two equal-rate components
// on the discounted base. When the combined amount is odd the extra
// paisa lands on CGST so the components always sum exactly.
func (e *Engine) taxComponents(base money.Money) []TaxComponent {
	combined := base.Percent(int64(e.gstRateBPS)).Amount
	half := combined / 2
	cgst := half + combined%2
	sgst := half
	componentRate := e.gstRateBPS / 2

	return []TaxComponent{
		{Name: "CGST", RateBasisPoints: componentRate, TaxableBase: base, Amount: money.INR(cgst)},
		{Name: "SGST", RateBasisPoints: componentRate, TaxableBase: base, Amount: money.INR(sgst)},
	}
}

func (e *Engine) charges(input QuoteInput) []Charge {
	var charges []Charge
	if input.GiftWrap {
		charges = append(charges, Charge{
			Type:   enums.ChargeTypeGiftWrap,
			Label:  "Gift Wrap",
			Amount: money.INR(e.giftWrapFee),
		})
	}
	if input.CODSelected {
		charges = append(charges, Charge{
			Type:   enums.ChargeTypeCODHandling,
			Label:  "Cash Handling Fee",
			Amount: money.INR(e.codFee),
		})
	}
	return charges
}

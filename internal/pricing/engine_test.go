package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/config"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/enums"
	pkgerrors "github.com/chanderbhanswami/vardhman-mills-sub005/pkg/errors"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/money"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(config.PricingConfig{
		GSTRateBasisPoints:  1800,
		GiftWrapFeePaise:    5000,
		CODHandlingFeePaise: 4000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return engine
}

func twoItemCart() []LineItem {
	return []LineItem{
		{ProductID: uuid.New(), Name: "Cotton Bedsheet", UnitPrice: money.INR(500), Quantity: 2},
		{ProductID: uuid.New(), Name: "Pillow Cover", UnitPrice: money.INR(300), Quantity: 1},
	}
}

func TestQuoteSubtotalAndDualTax(t *testing.T) {
	t.Parallel()

	quote, err := testEngine(t).Quote(QuoteInput{
		Items:            twoItemCart(),
		ShippingMethodID: "standard",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.Subtotal.Amount != 1300 {
		t.Fatalf("expected subtotal 1300, got %d", quote.Subtotal.Amount)
	}
	if len(quote.TaxComponents) != 2 {
		t.Fatalf("expected 2 tax components, got %d", len(quote.TaxComponents))
	}
	for _, comp := range quote.TaxComponents {
		if comp.Amount.Amount != 117 {
			t.Fatalf("expected component amount 117, got %d (%s)", comp.Amount.Amount, comp.Name)
		}
		if comp.TaxableBase.Amount != 1300 {
			t.Fatalf("expected taxable base 1300, got %d", comp.TaxableBase.Amount)
		}
		if comp.RateBasisPoints != 900 {
			t.Fatalf("expected component rate 900 bps, got %d", comp.RateBasisPoints)
		}
	}
	if quote.Tax.Amount != 234 {
		t.Fatalf("expected tax 234, got %d", quote.Tax.Amount)
	}
	if quote.Total.Amount != 1534 {
		t.Fatalf("expected total 1534, got %d", quote.Total.Amount)
	}
}

func TestQuoteFixedCouponReducesTaxBase(t *testing.T) {
	t.Parallel()

	quote, err := testEngine(t).Quote(QuoteInput{
		Items:            twoItemCart(),
		ShippingMethodID: "standard",
		Coupons: []Coupon{
			{Code: "FLAT100", Type: enums.DiscountTypeFixed, Value: 100},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.Discount.Amount != 100 {
		t.Fatalf("expected discount 100, got %d", quote.Discount.Amount)
	}
	// Tax applies to (subtotal - discount): 18% of 1200.
	if quote.Tax.Amount != 216 {
		t.Fatalf("expected tax 216, got %d", quote.Tax.Amount)
	}
	if quote.Total.Amount != 1300-100+216 {
		t.Fatalf("expected total %d, got %d", 1300-100+216, quote.Total.Amount)
	}
	if !quote.CouponResults[0].Applied {
		t.Fatalf("expected coupon applied, got %+v", quote.CouponResults[0])
	}
}

func TestQuoteOddTaxSplitsExtraPaisaOnCGST(t *testing.T) {
	t.Parallel()

	quote, err := testEngine(t).Quote(QuoteInput{
		Items: []LineItem{
			{ProductID: uuid.New(), UnitPrice: money.INR(1117), Quantity: 1},
		},
		ShippingMethodID: "standard",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 18% of 1117 = 201.06 -> 201, odd: CGST 101, SGST 100.
	if quote.Tax.Amount != 201 {
		t.Fatalf("expected tax 201, got %d", quote.Tax.Amount)
	}
	if quote.TaxComponents[0].Amount.Amount != 101 || quote.TaxComponents[1].Amount.Amount != 100 {
		t.Fatalf("unexpected split: %d/%d",
			quote.TaxComponents[0].Amount.Amount, quote.TaxComponents[1].Amount.Amount)
	}
	if quote.TaxComponents[0].Amount.Amount+quote.TaxComponents[1].Amount.Amount != quote.Tax.Amount {
		t.Fatal("components must sum to the combined tax")
	}
}

func TestQuotePercentageCouponCappedAtMaximum(t *testing.T) {
	t.Parallel()

	maximum := int64(150)
	quote, err := testEngine(t).Quote(QuoteInput{
		Items:            twoItemCart(),
		ShippingMethodID: "standard",
		Coupons: []Coupon{
			{Code: "SALE20", Type: enums.DiscountTypePercentage, Value: 20, MaximumDiscount: &maximum},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 20% of 1300 = 260, capped to 150.
	if quote.Discount.Amount != 150 {
		t.Fatalf("expected capped discount 150, got %d", quote.Discount.Amount)
	}
}

func TestQuoteCouponRejectedBelowMinimum(t *testing.T) {
	t.Parallel()

	minimum := int64(5000)
	quote, err := testEngine(t).Quote(QuoteInput{
		Items:            twoItemCart(),
		ShippingMethodID: "standard",
		Coupons: []Coupon{
			{Code: "BIG500", Type: enums.DiscountTypeFixed, Value: 500, MinimumAmount: &minimum},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := quote.CouponResults[0]
	if result.Applied {
		t.Fatal("coupon should be rejected below minimum")
	}
	if result.Reason != ReasonBelowMinimum {
		t.Fatalf("expected reason %q, got %q", ReasonBelowMinimum, result.Reason)
	}
	if quote.Discount.Amount != 0 {
		t.Fatalf("rejected coupon must not discount, got %d", quote.Discount.Amount)
	}
}

func TestQuoteCouponWindowAndUsage(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	quote, err := testEngine(t).Quote(QuoteInput{
		Items:            twoItemCart(),
		ShippingMethodID: "standard",
		Now:              now,
		Coupons: []Coupon{
			{Code: "SOON", Type: enums.DiscountTypeFixed, Value: 50, ValidFrom: &future},
			{Code: "GONE", Type: enums.DiscountTypeFixed, Value: 50, ValidTo: &past},
			{Code: "WORN", Type: enums.DiscountTypeFixed, Value: 50, UsageLimit: 3, UsedCount: 3},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantReasons := []string{ReasonNotYetActive, ReasonExpired, ReasonUsageLimit}
	for i, result := range quote.CouponResults {
		if result.Applied {
			t.Fatalf("coupon %s should be rejected", result.Code)
		}
		if result.Reason != wantReasons[i] {
			t.Fatalf("coupon %s expected reason %q, got %q", result.Code, wantReasons[i], result.Reason)
		}
	}
}

func TestQuoteShippingCouponCancelsShipping(t *testing.T) {
	t.Parallel()

	quote, err := testEngine(t).Quote(QuoteInput{
		Items:            twoItemCart(),
		ShippingMethodID: "express",
		Coupons: []Coupon{
			{Code: "FREESHIP", Type: enums.DiscountTypeShipping},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.CouponResults[0].Amount.Amount != 9900 {
		t.Fatalf("expected shipping coupon amount 9900, got %d", quote.CouponResults[0].Amount.Amount)
	}
	if quote.Shipping.Amount != 0 {
		t.Fatalf("expected shipping charged 0, got %d", quote.Shipping.Amount)
	}
	// The waiver never bleeds into the merchandise discount or tax base.
	if quote.Discount.Amount != 0 {
		t.Fatalf("expected merchandise discount 0, got %d", quote.Discount.Amount)
	}
	if quote.Tax.Amount != 234 {
		t.Fatalf("expected tax 234 on the full subtotal, got %d", quote.Tax.Amount)
	}
	if quote.Total.Amount != 1534 {
		t.Fatalf("expected total 1534, got %d", quote.Total.Amount)
	}
}

func TestQuoteBuyXGetYPicksCheapestUnits(t *testing.T) {
	t.Parallel()

	quote, err := testEngine(t).Quote(QuoteInput{
		Items: []LineItem{
			{ProductID: uuid.New(), UnitPrice: money.INR(500), Quantity: 2},
			{ProductID: uuid.New(), UnitPrice: money.INR(200), Quantity: 1},
		},
		ShippingMethodID: "standard",
		Coupons: []Coupon{
			{Code: "B2G1", Type: enums.DiscountTypeBuyXGetY, BuyQty: 2, GetQty: 1},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 3 units, one group of (2+1): the cheapest unit (200) goes free.
	if quote.Discount.Amount != 200 {
		t.Fatalf("expected discount 200, got %d", quote.Discount.Amount)
	}
}

func TestQuoteChargesItemized(t *testing.T) {
	t.Parallel()

	quote, err := testEngine(t).Quote(QuoteInput{
		Items:            twoItemCart(),
		ShippingMethodID: "standard",
		GiftWrap:         true,
		CODSelected:      true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(quote.Charges) != 2 {
		t.Fatalf("expected 2 charges, got %d", len(quote.Charges))
	}
	if quote.ChargesTotal.Amount != 9000 {
		t.Fatalf("expected charges total 9000, got %d", quote.ChargesTotal.Amount)
	}
	if quote.Total.Amount != 1300+234+9000 {
		t.Fatalf("expected total %d, got %d", 1300+234+9000, quote.Total.Amount)
	}
}

func TestQuoteRejectsBadInput(t *testing.T) {
	t.Parallel()

	engine := testEngine(t)

	if _, err := engine.Quote(QuoteInput{ShippingMethodID: "standard"}); err == nil {
		t.Fatal("expected error for empty cart")
	}

	_, err := engine.Quote(QuoteInput{
		Items:            []LineItem{{ProductID: uuid.New(), UnitPrice: money.INR(100), Quantity: 0}},
		ShippingMethodID: "standard",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for zero quantity, got %v", err)
	}

	_, err = engine.Quote(QuoteInput{
		Items:            twoItemCart(),
		ShippingMethodID: "teleport",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown shipping method, got %v", err)
	}
}

func TestShippingMethodsSingleSourceOfTruth(t *testing.T) {
	t.Parallel()

	methods := ShippingMethods()
	if len(methods) != 3 {
		t.Fatalf("expected 3 methods, got %d", len(methods))
	}
	for _, method := range methods {
		price, err := ShippingPrice(method.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if price.Amount != method.Price.Amount {
			t.Fatalf("method %s price mismatch", method.ID)
		}
	}
}

package pricing

import (
	"time"

	"github.com/google/uuid"

	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/enums"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/money"
)

// LineItem is one cart entry priced in minor units.
type LineItem struct {
	ProductID uuid.UUID    `json:"product_id"`
	Name      string       `json:"name"`
	UnitPrice money.Money  `json:"unit_price"`
	Quantity  int          `json:"quantity"`
	// CompareAtPrice, when present, feeds the savings figure only.
	CompareAtPrice *money.Money `json:"compare_at_price,omitempty"`
}

// Coupon is a user-entered code subject to eligibility rules.
type Coupon struct {
	Code            string             `json:"code"`
	Type            enums.DiscountType `json:"type"`
	// Value is a percent for percentage coupons, paise for fixed ones,
	// and unused for shipping coupons.
	Value           int64      `json:"value"`
	MinimumAmount   *int64     `json:"minimum_amount,omitempty"`
	MaximumDiscount *int64     `json:"maximum_discount,omitempty"`
	ValidFrom       *time.Time `json:"valid_from,omitempty"`
	ValidTo         *time.Time `json:"valid_to,omitempty"`
	UsageLimit      int        `json:"usage_limit,omitempty"`
	UsedCount       int        `json:"used_count,omitempty"`
	// BuyQty/GetQty configure buy_x_get_y coupons.
	BuyQty int `json:"buy_qty,omitempty"`
	GetQty int `json:"get_qty,omitempty"`
}

// AutomaticDiscount applies without a code once its floor is met.
type AutomaticDiscount struct {
	Title         string             `json:"title"`
	Type          enums.DiscountType `json:"type"`
	Value         int64              `json:"value"`
	MinimumAmount *int64             `json:"minimum_amount,omitempty"`
}

// Charge is one itemized additional fee.
type Charge struct {
	Type   enums.ChargeType `json:"type"`
	Label  string           `json:"label"`
	Amount money.Money      `json:"amount"`
}

// TaxComponent is one half of the dual-rate domestic tax.
type TaxComponent struct {
	Name            string      `json:"name"`
	RateBasisPoints int         `json:"rate_basis_points"`
	TaxableBase     money.Money `json:"taxable_base"`
	Amount          money.Money `json:"amount"`
}

// CouponResult reports whether a coupon applied and why not otherwise.
type CouponResult struct {
	Code    string      `json:"code"`
	Applied bool        `json:"applied"`
	Amount  money.Money `json:"amount"`
	Reason  string      `json:"reason,omitempty"`
}

// QuoteInput gathers everything a total depends on.
type QuoteInput struct {
	Items              []LineItem
	ShippingMethodID   string
	Coupons            []Coupon
	AutomaticDiscounts []AutomaticDiscount
	GiftWrap           bool
	CODSelected        bool
	Now                time.Time
}

// Quote is the full monetary breakdown for an order.
type Quote struct {
	Subtotal         money.Money    `json:"subtotal"`
	Discount         money.Money    `json:"discount"`
	CouponResults    []CouponResult `json:"coupon_results,omitempty"`
	ShippingMethodID string         `json:"shipping_method_id"`
	Shipping         money.Money    `json:"shipping"`
	Tax              money.Money    `json:"tax"`
	TaxComponents    []TaxComponent `json:"tax_components"`
	Charges          []Charge       `json:"charges,omitempty"`
	ChargesTotal     money.Money    `json:"charges_total"`
	Total            money.Money    `json:"total"`
	Savings          money.Money    `json:"savings"`
}

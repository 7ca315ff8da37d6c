package payment

import (
	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/validation"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/enums"
	pkgerrors "github.com/chanderbhanswami/vardhman-mills-sub005/pkg/errors"
)

// FieldSpec describes one input a payment method collects. Name matches
// a registered validation rule so submitted values share one pipeline.
type FieldSpec struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
	// Secret fields never appear in persisted snapshots.
	Secret bool `json:"secret"`
}

// MethodSchema is the display and input contract for one payment method.
type MethodSchema struct {
	Method      enums.PaymentMethodKind `json:"method"`
	Label       string              `json:"label"`
	Description string              `json:"description"`
	Async       bool                `json:"async"`
	Fields      []FieldSpec         `json:"fields"`
}

var methodSchemas = []MethodSchema{
	{
		Method:      enums.PaymentMethodCard,
		Label:       "Credit / Debit Card",
		Description: "Visa, Mastercard, American Express and RuPay accepted",
		Fields: []FieldSpec{
			{Name: validation.FieldCardNumber, Label: "Card Number", Required: true, Secret: true},
			{Name: validation.FieldCardHolder, Label: "Name on Card", Required: true},
			{Name: validation.FieldExpiryMonth, Label: "Expiry Month", Required: true},
			{Name: validation.FieldExpiryYear, Label: "Expiry Year", Required: true},
			{Name: validation.FieldCVV, Label: "CVV", Required: true, Secret: true},
		},
	},
	{
		Method:      enums.PaymentMethodUPI,
		Label:       "UPI",
		Description: "Pay with any UPI app",
		Async:       true,
		Fields: []FieldSpec{
			{Name: validation.FieldUPIVPA, Label: "UPI ID", Required: true},
		},
	},
	{
		Method:      enums.PaymentMethodNetbanking,
		Label:       "Net Banking",
		Description: "All major banks supported",
		Async:       true,
		Fields: []FieldSpec{
			{Name: validation.FieldBankCode, Label: "Bank", Required: true},
		},
	},
	{
		Method:      enums.PaymentMethodWallet,
		Label:       "Wallet",
		Description: "Paytm, PhonePe, Amazon Pay and more",
		Async:       true,
		Fields: []FieldSpec{
			{Name: validation.FieldWallet, Label: "Wallet Provider", Required: true},
		},
	},
	{
		Method:      enums.PaymentMethodEMI,
		Label:       "EMI",
		Description: "Convert your order into easy installments",
		Fields: []FieldSpec{
			{Name: validation.FieldCardNumber, Label: "Card Number", Required: true, Secret: true},
			{Name: validation.FieldCardHolder, Label: "Name on Card", Required: true},
			{Name: validation.FieldExpiryMonth, Label: "Expiry Month", Required: true},
			{Name: validation.FieldExpiryYear, Label: "Expiry Year", Required: true},
			{Name: validation.FieldCVV, Label: "CVV", Required: true, Secret: true},
			{Name: validation.FieldEMITenure, Label: "Tenure (months)", Required: true},
		},
	},
	{
		Method:      enums.PaymentMethodCOD,
		Label:       "Cash on Delivery",
		Description: "Pay in cash when your order arrives",
		Fields:      nil,
	},
}

// Methods lists every supported payment method in display order.
func Methods() []MethodSchema {
	out := make([]MethodSchema, len(methodSchemas))
	copy(out, methodSchemas)
	return out
}

// SchemaFor resolves a single method's schema.
func SchemaFor(method enums.PaymentMethodKind) (MethodSchema, error) {
	for _, schema := range methodSchemas {
		if schema.Method == method {
			return schema, nil
		}
	}
	return MethodSchema{}, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method").WithDetails(map[string]any{
		"method": string(method),
	})
}

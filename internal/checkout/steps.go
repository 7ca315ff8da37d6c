package checkout

import (
	"fmt"
	"strings"

	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/payment"
	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/pricing"
	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/session"
	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/validation"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/enums"
	pkgerrors "github.com/chanderbhanswami/vardhman-mills-sub005/pkg/errors"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/types"
)

// ContactInput is the contact step payload.
type ContactInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// ShippingInput is the shipping step payload.
type ShippingInput struct {
	Address              types.Address `json:"address"`
	MethodID             string        `json:"method_id"`
	DeliveryInstructions string        `json:"delivery_instructions"`
	GiftWrap             bool          `json:"gift_wrap"`
}

// BillingInput is the billing step payload. Address may be nil only
// when SameAsShipping is set.
type BillingInput struct {
	SameAsShipping bool           `json:"same_as_shipping"`
	Address        *types.Address `json:"address,omitempty"`
	GSTIN          string         `json:"gstin"`
}

// PaymentInput is the payment step payload. Only the fields the chosen
// method's schema lists are consulted.
type PaymentInput struct {
	Method         enums.PaymentMethodKind `json:"method"`
	CardNumber     string                  `json:"card_number,omitempty"`
	CardHolder     string                  `json:"card_holder,omitempty"`
	ExpiryMonth    string                  `json:"expiry_month,omitempty"`
	ExpiryYear     string                  `json:"expiry_year,omitempty"`
	CVV            string                  `json:"cvv,omitempty"`
	UPIVPA         string                  `json:"upi_vpa,omitempty"`
	BankCode       string                  `json:"bank_code,omitempty"`
	WalletProvider string                  `json:"wallet_provider,omitempty"`
	EMITenure      int                     `json:"emi_tenure,omitempty"`
}

// StepInput wraps the payload for whichever step is being submitted.
type StepInput struct {
	Contact  *ContactInput  `json:"contact,omitempty"`
	Shipping *ShippingInput `json:"shipping,omitempty"`
	Billing  *BillingInput  `json:"billing,omitempty"`
	Payment  *PaymentInput  `json:"payment,omitempty"`
}

// Each prepare function validates fully before returning a commit
// closure, so the session is only touched once validation has passed.

func (s *service) prepareContact(input *ContactInput) (func(*session.Session) error, error) {
	if input == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact payload required")
	}
	fields := map[string]string{
		validation.FieldFirstName: input.FirstName,
		validation.FieldLastName:  input.LastName,
		validation.FieldEmail:     input.Email,
		validation.FieldPhone:     input.Phone,
	}
	if err := validation.ValidateAll(fields, validation.Context{Now: s.now()}); err != nil {
		return nil, err
	}
	details := session.ContactDetails{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
	}
	return func(sess *session.Session) error {
		sess.Contact = &details
		return nil
	}, nil
}

func (s *service) prepareShipping(input *ShippingInput) (func(*session.Session) error, error) {
	if input == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping payload required")
	}
	address := input.Address.Normalize()
	fields := map[string]string{
		validation.FieldRecipientName: address.RecipientName,
		validation.FieldAddressLine1:  address.Line1,
		validation.FieldCity:          address.City,
		validation.FieldState:         address.State,
		validation.FieldPostalCode:    address.PostalCode,
		validation.FieldPhone:         address.Phone,
	}
	if address.Line2 != nil {
		fields[validation.FieldAddressLine2] = *address.Line2
	}
	if err := validation.ValidateAll(fields, validation.Context{Now: s.now()}); err != nil {
		return nil, err
	}
	if _, err := pricing.ShippingPrice(input.MethodID); err != nil {
		return nil, err
	}
	details := session.ShippingDetails{
		Address:              address,
		MethodID:             input.MethodID,
		DeliveryInstructions: strings.TrimSpace(input.DeliveryInstructions),
		GiftWrap:             input.GiftWrap,
	}
	return func(sess *session.Session) error {
		sess.Shipping = &details
		return nil
	}, nil
}

func (s *service) prepareBilling(input *BillingInput) (func(*session.Session) error, error) {
	if input == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "billing payload required")
	}
	fields := map[string]string{
		validation.FieldGSTIN: input.GSTIN,
	}
	var address *types.Address
	if !input.SameAsShipping {
		if input.Address == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "billing address required unless same as shipping")
		}
		normalized := input.Address.Normalize()
		address = &normalized
		fields[validation.FieldRecipientName] = normalized.RecipientName
		fields[validation.FieldAddressLine1] = normalized.Line1
		fields[validation.FieldCity] = normalized.City
		fields[validation.FieldState] = normalized.State
		fields[validation.FieldPostalCode] = normalized.PostalCode
		fields[validation.FieldPhone] = normalized.Phone
		if normalized.Line2 != nil {
			fields[validation.FieldAddressLine2] = *normalized.Line2
		}
	}
	if err := validation.ValidateAll(fields, validation.Context{Now: s.now()}); err != nil {
		return nil, err
	}
	details := session.BillingDetails{
		SameAsShipping: input.SameAsShipping,
		Address:        address,
		GSTIN:          strings.ToUpper(strings.TrimSpace(input.GSTIN)),
	}
	return func(sess *session.Session) error {
		sess.Billing = &details
		return nil
	}, nil
}

func (s *service) preparePayment(input *PaymentInput) (func(*session.Session) error, error) {
	if input == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment payload required")
	}
	schema, err := payment.SchemaFor(input.Method)
	if err != nil {
		return nil, err
	}

	values := map[string]string{
		validation.FieldCardNumber:  input.CardNumber,
		validation.FieldCardHolder:  input.CardHolder,
		validation.FieldExpiryMonth: input.ExpiryMonth,
		validation.FieldExpiryYear:  input.ExpiryYear,
		validation.FieldCVV:         input.CVV,
		validation.FieldUPIVPA:      input.UPIVPA,
		validation.FieldBankCode:    input.BankCode,
		validation.FieldWallet:      input.WalletProvider,
		validation.FieldEMITenure:   fmt.Sprintf("%d", input.EMITenure),
	}

	fields := map[string]string{}
	for _, spec := range schema.Fields {
		if spec.Required {
			fields[spec.Name] = values[spec.Name]
		}
	}
	ctx := validation.Context{
		Now:         s.now(),
		CardBrand:   validation.CardBrandOf(input.CardNumber),
		ExpiryMonth: parseInt(input.ExpiryMonth),
	}
	if err := validation.ValidateAll(fields, ctx); err != nil {
		return nil, err
	}

	// The card number and CVV stop here: only the displayable remainder
	// is committed to the session.
	details := session.PaymentDetails{Method: input.Method}
	switch input.Method {
	case enums.PaymentMethodCard, enums.PaymentMethodEMI:
		details.CardHolder = strings.TrimSpace(input.CardHolder)
		details.CardLast4 = lastFour(input.CardNumber)
		details.CardBrand = ctx.CardBrand
		details.CardExpiry = fmt.Sprintf("%02d/%s", parseInt(input.ExpiryMonth), lastTwo(input.ExpiryYear))
		if input.Method == enums.PaymentMethodEMI {
			details.EMITenure = input.EMITenure
		}
	case enums.PaymentMethodUPI:
		details.UPIVPA = strings.TrimSpace(input.UPIVPA)
	case enums.PaymentMethodNetbanking:
		details.BankCode = strings.ToUpper(strings.TrimSpace(input.BankCode))
	case enums.PaymentMethodWallet:
		details.WalletProvider = strings.TrimSpace(input.WalletProvider)
	}

	return func(sess *session.Session) error {
		sess.Payment = &details
		return nil
	}, nil
}

func lastTwo(value string) string {
	value = strings.TrimSpace(value)
	if len(value) <= 2 {
		return value
	}
	return value[len(value)-2:]
}

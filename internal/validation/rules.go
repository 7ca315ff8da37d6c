package validation

import (
	"regexp"
	"strconv"
	"strings"
)

// Field names shared with the payment method registry and the step
// controller. Every required field of every step resolves to one of
// these rules.
const (
	FieldFirstName     = "first_name"
	FieldLastName      = "last_name"
	FieldEmail         = "email"
	FieldPhone         = "phone"
	FieldRecipientName = "recipient_name"
	FieldAddressLine1  = "address_line1"
	FieldAddressLine2  = "address_line2"
	FieldCity          = "city"
	FieldState         = "state"
	FieldPostalCode    = "postal_code"
	FieldGSTIN         = "gstin"
	FieldPassword      = "password"

	FieldCardHolder  = "card_holder"
	FieldCardNumber  = "card_number"
	FieldExpiryMonth = "expiry_month"
	FieldExpiryYear  = "expiry_year"
	FieldCVV         = "cvv"
	FieldUPIVPA      = "upi_vpa"
	FieldBankCode    = "bank_code"
	FieldWallet      = "wallet_provider"
	FieldEMITenure   = "emi_tenure"
)

var (
	personNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z '\-]*$`)
	emailRe      = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	phoneRe      = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	postalRe     = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	cityRe       = regexp.MustCompile(`^[A-Za-z][A-Za-z .\-]*$`)
	gstinRe      = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][A-Z0-9]Z[A-Z0-9]$`)
	vpaRe        = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,}@[a-zA-Z]{2,}$`)
	bankCodeRe   = regexp.MustCompile(`^[A-Z]{4,11}$`)
	walletRe     = regexp.MustCompile(`^[a-z][a-z0-9_]{1,29}$`)
)

var emiTenures = map[int]struct{}{3: {}, 6: {}, 9: {}, 12: {}, 18: {}, 24: {}}

var rules = map[string]RuleFunc{
	FieldFirstName:     personName,
	FieldLastName:      personName,
	FieldRecipientName: personName,
	FieldCardHolder:    personName,
	FieldEmail:         email,
	FieldPhone:         indianMobile,
	FieldAddressLine1:  addressLine,
	FieldAddressLine2:  optionalAddressLine,
	FieldCity:          cityName,
	FieldState:         stateName,
	FieldPostalCode:    pinCode,
	FieldGSTIN:         gstin,
	FieldPassword:      password,
	FieldCardNumber:    cardNumber,
	FieldExpiryMonth:   expiryMonth,
	FieldExpiryYear:    expiryYear,
	FieldCVV:           securityCode,
	FieldUPIVPA:        upiVPA,
	FieldBankCode:      bankCode,
	FieldWallet:        walletProvider,
	FieldEMITenure:     emiTenure,
}

func personName(value string, _ Context) Result {
	value = strings.TrimSpace(value)
	if len(value) < 2 || len(value) > 50 {
		return fail("name must be 2-50 characters")
	}
	if !personNameRe.MatchString(value) {
		return fail("name may contain only letters, spaces, hyphens and apostrophes")
	}
	return ok()
}

func email(value string, _ Context) Result {
	value = strings.TrimSpace(value)
	if value == "" {
		return fail("email is required")
	}
	if len(value) > 254 || !emailRe.MatchString(value) {
		return fail("enter a valid email address")
	}
	return ok()
}

func indianMobile(value string, _ Context) Result {
	value = strings.TrimSpace(value)
	if !phoneRe.MatchString(value) {
		return fail("enter a valid 10-digit mobile number starting with 6-9")
	}
	return ok()
}

func addressLine(value string, _ Context) Result {
	value = strings.TrimSpace(value)
	if len(value) < 3 || len(value) > 100 {
		return fail("address line must be 3-100 characters")
	}
	return ok()
}

func optionalAddressLine(value string, ctx Context) Result {
	if strings.TrimSpace(value) == "" {
		return ok()
	}
	return addressLine(value, ctx)
}

func cityName(value string, _ Context) Result {
	value = strings.TrimSpace(value)
	if len(value) < 2 || len(value) > 50 {
		return fail("city must be 2-50 characters")
	}
	if !cityRe.MatchString(value) {
		return fail("city may contain only letters, spaces, periods and hyphens")
	}
	return ok()
}

func stateName(value string, _ Context) Result {
	value = strings.TrimSpace(value)
	if len(value) < 2 || len(value) > 50 {
		return fail("state must be 2-50 characters")
	}
	if !cityRe.MatchString(value) {
		return fail("state may contain only letters, spaces, periods and hyphens")
	}
	return ok()
}

func pinCode(value string, _ Context) Result {
	value = strings.TrimSpace(value)
	if !postalRe.MatchString(value) {
		return fail("enter a valid 6-digit PIN code")
	}
	return ok()
}

// gstin checks the 15-character GSTIN layout: state code, PAN, entity
// number, the literal check letter Z and a checksum character.
func gstin(value string, _ Context) Result {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == "" {
		return ok() // optional field; businesses only
	}
	if !gstinRe.MatchString(value) {
		return fail("enter a valid 15-character GSTIN")
	}
	return ok()
}

func upiVPA(value string, _ Context) Result {
	value = strings.TrimSpace(value)
	if !vpaRe.MatchString(value) {
		return fail("enter a valid UPI ID like name@bank")
	}
	return ok()
}

func bankCode(value string, _ Context) Result {
	value = strings.ToUpper(strings.TrimSpace(value))
	if !bankCodeRe.MatchString(value) {
		return fail("select a valid bank")
	}
	return ok()
}

func walletProvider(value string, _ Context) Result {
	value = strings.TrimSpace(value)
	if !walletRe.MatchString(value) {
		return fail("select a valid wallet provider")
	}
	return ok()
}

func emiTenure(value string, _ Context) Result {
	months, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fail("select an EMI tenure")
	}
	if _, found := emiTenures[months]; !found {
		return fail("EMI tenure must be one of 3, 6, 9, 12, 18 or 24 months")
	}
	return ok()
}

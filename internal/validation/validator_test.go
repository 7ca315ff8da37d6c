package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/enums"
	pkgerrors "github.com/chanderbhanswami/vardhman-mills-sub005/pkg/errors"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func testCtx() Context {
	return Context{Now: testNow}
}

func TestPersonNameRule(t *testing.T) {
	t.Parallel()

	valid := []string{"Asha", "Jean-Luc", "O'Brien", "Mary Jane"}
	for _, v := range valid {
		if res := Validate(FieldFirstName, v, testCtx()); !res.Valid {
			t.Fatalf("expected %q to be valid: %s", v, res.Message)
		}
	}

	invalid := []string{"A", "R2D2", "", strings.Repeat("a", 51)}
	for _, v := range invalid {
		if res := Validate(FieldFirstName, v, testCtx()); res.Valid {
			t.Fatalf("expected %q to be invalid", v)
		}
	}
}

func TestIndianMobileRule(t *testing.T) {
	t.Parallel()

	if res := Validate(FieldPhone, "9876543210", testCtx()); !res.Valid {
		t.Fatalf("expected valid mobile: %s", res.Message)
	}
	for _, v := range []string{"12345", "5876543210", "98765432101", "98765abc10"} {
		if res := Validate(FieldPhone, v, testCtx()); res.Valid {
			t.Fatalf("expected %q to be invalid", v)
		}
	}
}

func TestPINCodeRule(t *testing.T) {
	t.Parallel()

	if res := Validate(FieldPostalCode, "141001", testCtx()); !res.Valid {
		t.Fatalf("expected valid PIN: %s", res.Message)
	}
	for _, v := range []string{"000000", "14100", "1410011", "14100a"} {
		if res := Validate(FieldPostalCode, v, testCtx()); res.Valid {
			t.Fatalf("expected %q to be invalid", v)
		}
	}
}

func TestGSTINRule(t *testing.T) {
	t.Parallel()

	if res := Validate(FieldGSTIN, "03AABCV1234F1Z5", testCtx()); !res.Valid {
		t.Fatalf("expected valid GSTIN: %s", res.Message)
	}
	// Optional: empty passes.
	if res := Validate(FieldGSTIN, "", testCtx()); !res.Valid {
		t.Fatalf("empty GSTIN should pass: %s", res.Message)
	}
	for _, v := range []string{"03AABCV1234F1X5", "3AABCV1234F1Z5", "03AABCV1234F1Z"} {
		if res := Validate(FieldGSTIN, v, testCtx()); res.Valid {
			t.Fatalf("expected %q to be invalid", v)
		}
	}
}

func TestLuhnChecksum(t *testing.T) {
	t.Parallel()

	if !Luhn("4111111111111111") {
		t.Fatal("4111111111111111 should pass Luhn")
	}
	if !Luhn("4000000000000002") {
		t.Fatal("4000000000000002 should pass Luhn")
	}
	if Luhn("4111111111111112") {
		t.Fatal("4111111111111112 should fail Luhn")
	}
}

func TestCardNumberRule(t *testing.T) {
	t.Parallel()

	if res := Validate(FieldCardNumber, "4111 1111 1111 1111", testCtx()); !res.Valid {
		t.Fatalf("spaced card number should validate: %s", res.Message)
	}
	for _, v := range []string{"4111111111111112", "411111111111", "4111-1111-1111-1111"} {
		if res := Validate(FieldCardNumber, v, testCtx()); res.Valid {
			t.Fatalf("expected %q to be invalid", v)
		}
	}
}

func TestCardBrandDetection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		number string
		brand  enums.CardBrand
	}{
		{"4111111111111111", enums.CardBrandVisa},
		{"5200828282828210", enums.CardBrandMastercard},
		{"2221000000000009", enums.CardBrandMastercard},
		{"378282246310005", enums.CardBrandAmex},
		{"6076210000000008", enums.CardBrandRupay},
		{"9999999999999999", enums.CardBrandUnknown},
	}
	for _, tt := range tests {
		if got := CardBrandOf(tt.number); got != tt.brand {
			t.Fatalf("CardBrandOf(%s) = %s, want %s", tt.number, got, tt.brand)
		}
	}
}

func TestExpiryRules(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"0", "13", "x"} {
		if res := Validate(FieldExpiryMonth, v, testCtx()); res.Valid {
			t.Fatalf("expected month %q to be invalid", v)
		}
	}

	ctx := testCtx()
	ctx.ExpiryMonth = 3
	if res := Validate(FieldExpiryYear, "2026", ctx); !res.Valid {
		t.Fatalf("card expiring this month should be accepted: %s", res.Message)
	}

	ctx.ExpiryMonth = 2
	if res := Validate(FieldExpiryYear, "2026", ctx); res.Valid {
		t.Fatal("card expired last month should be rejected")
	}

	ctx.ExpiryMonth = 6
	if res := Validate(FieldExpiryYear, "2025", ctx); res.Valid {
		t.Fatal("past year should be rejected")
	}
	if res := Validate(FieldExpiryYear, "2047", ctx); res.Valid {
		t.Fatal("year more than 20 ahead should be rejected")
	}
	if res := Validate(FieldExpiryYear, "2046", ctx); !res.Valid {
		t.Fatalf("year exactly 20 ahead should be accepted: %s", res.Message)
	}
}

func TestCVVRule(t *testing.T) {
	t.Parallel()

	if res := Validate(FieldCVV, "123", testCtx()); !res.Valid {
		t.Fatalf("3-digit CVV should pass: %s", res.Message)
	}
	if res := Validate(FieldCVV, "1234", testCtx()); res.Valid {
		t.Fatal("4-digit CVV should fail for non-amex")
	}

	ctx := testCtx()
	ctx.CardBrand = enums.CardBrandAmex
	if res := Validate(FieldCVV, "1234", ctx); !res.Valid {
		t.Fatalf("4-digit CVV should pass for amex: %s", res.Message)
	}
	if res := Validate(FieldCVV, "123", ctx); res.Valid {
		t.Fatal("3-digit CVV should fail for amex")
	}
	if res := Validate(FieldCVV, "12a", testCtx()); res.Valid {
		t.Fatal("non-digit CVV should fail")
	}
}

func TestUPIVPARule(t *testing.T) {
	t.Parallel()

	if res := Validate(FieldUPIVPA, "asha.verma@okhdfc", testCtx()); !res.Valid {
		t.Fatalf("expected valid VPA: %s", res.Message)
	}
	for _, v := range []string{"noatsign", "@bank", "a@", "a@1"} {
		if res := Validate(FieldUPIVPA, v, testCtx()); res.Valid {
			t.Fatalf("expected %q to be invalid", v)
		}
	}
}

func TestPasswordRuleAndStrength(t *testing.T) {
	t.Parallel()

	if res := Validate(FieldPassword, "Str0ng!Pass", testCtx()); !res.Valid {
		t.Fatalf("expected valid password: %s", res.Message)
	}
	for _, v := range []string{"short1!", "alllowercase1!", "ALLUPPERCASE1!", "NoDigits!!", "NoSymbols11"} {
		if res := Validate(FieldPassword, v, testCtx()); res.Valid {
			t.Fatalf("expected %q to be invalid", v)
		}
	}

	if got := PasswordStrength(""); got != 0 {
		t.Fatalf("empty password strength should be 0, got %d", got)
	}
	weak := PasswordStrength("abc")
	strong := PasswordStrength("Str0ng!Passphrase")
	if weak >= strong {
		t.Fatalf("expected strength ordering, weak=%d strong=%d", weak, strong)
	}
	if strong != 100 {
		t.Fatalf("long four-class password should score 100, got %d", strong)
	}
	// Strength never gates validity: a long single-class password scores
	// points but still fails the rule.
	if res := Validate(FieldPassword, "aaaaaaaaaaaaaaaa", testCtx()); res.Valid {
		t.Fatal("single-class password must be invalid regardless of score")
	}
}

func TestValidateUnknownField(t *testing.T) {
	t.Parallel()

	if res := Validate("no_such_field", "x", testCtx()); res.Valid {
		t.Fatal("unknown field should be rejected")
	}
}

func TestValidateAllAggregatesEveryFailure(t *testing.T) {
	t.Parallel()

	err := ValidateAll(map[string]string{
		FieldFirstName:  "A",
		FieldPhone:      "12345",
		FieldPostalCode: "141001",
	}, testCtx())
	if err == nil {
		t.Fatal("expected aggregated validation error")
	}

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error type: %v", err)
	}

	fields := ErrorsOf(err)
	if len(fields) != 2 {
		t.Fatalf("expected 2 field errors, got %d: %v", len(fields), fields)
	}
	if _, found := fields[FieldPostalCode]; found {
		t.Fatal("valid field must not carry an error")
	}
	if _, found := fields[FieldPhone]; !found {
		t.Fatal("phone error missing")
	}
}

func TestValidateAllPassesCleanInput(t *testing.T) {
	t.Parallel()

	err := ValidateAll(map[string]string{
		FieldFirstName: "Asha",
		FieldLastName:  "Verma",
		FieldEmail:     "asha@example.com",
		FieldPhone:     "9876543210",
	}, testCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

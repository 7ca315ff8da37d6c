package validation

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/multierr"

	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/enums"
	pkgerrors "github.com/chanderbhanswami/vardhman-mills-sub005/pkg/errors"
)

// Context carries the ambient data some rules need. Rules never reach
// outside it, which keeps every rule a pure function.
type Context struct {
	Now       time.Time
	CardBrand enums.CardBrand
	// ExpiryMonth is consulted by the expiry-year rule so the combined
	// month+year check lives in one place.
	ExpiryMonth int
}

// Result is the outcome of validating a single field.
type Result struct {
	Valid   bool
	Message string
}

// RuleFunc validates one field value against its locale rule.
type RuleFunc func(value string, ctx Context) Result

func ok() Result {
	return Result{Valid: true}
}

func fail(message string) Result {
	return Result{Valid: false, Message: message}
}

// Validate runs the named rule against the value. Unknown fields are
// rejected rather than silently passed.
func Validate(field, value string, ctx Context) Result {
	rule, found := rules[field]
	if !found {
		return fail(fmt.Sprintf("no validation rule for field %q", field))
	}
	if ctx.Now.IsZero() {
		ctx.Now = time.Now()
	}
	return rule(value, ctx)
}

// HasRule reports whether a rule is registered for the field.
func HasRule(field string) bool {
	_, found := rules[field]
	return found
}

// FieldErrors maps field name to its validation message.
type FieldErrors map[string]string

// ValidateAll runs every field through its rule and aggregates failures,
// so a step submit surfaces every latent error at once. Returns nil when
// all fields are valid.
func ValidateAll(fields map[string]string, ctx Context) error {
	if ctx.Now.IsZero() {
		ctx.Now = time.Now()
	}

	fieldErrs := FieldErrors{}
	var agg error
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		res := Validate(name, fields[name], ctx)
		if !res.Valid {
			fieldErrs[name] = res.Message
			agg = multierr.Append(agg, fmt.Errorf("%s: %s", name, res.Message))
		}
	}

	if agg == nil {
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, agg, "field validation failed").WithDetails(fieldErrs)
}

// ErrorsOf extracts the per-field messages from a ValidateAll error.
func ErrorsOf(err error) FieldErrors {
	typed := pkgerrors.As(err)
	if typed == nil {
		return nil
	}
	if fields, ok := typed.Details().(FieldErrors); ok {
		return fields
	}
	return nil
}

package chi

import (
	"errors"
	"html"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/simglobe/simglobe/internal/domain"
	"github.com/simglobe/simglobe/internal/domain/hedge"
)

// maxTextLen caps free text fields after sanitising.
const maxTextLen = 1000

// requestValidator checks decoded request bodies and cleans free text.
type requestValidator struct {
	validate *validator.Validate
	policy   *bluemonday.Policy
	markup   *strings.Replacer
}

func newRequestValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report JSON names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("marketid", func(fl validator.FieldLevel) bool {
		return hedge.IsMarketID(fl.Field().String())
	})
	_ = v.RegisterValidation("wallet", func(fl validator.FieldLevel) bool {
		return hedge.IsWallet(fl.Field().String())
	})

	return &requestValidator{
		validate: v,
		policy:   bluemonday.StrictPolicy(),
		markup:   strings.NewReplacer("<", "", ">", ""),
	}
}

// Struct validates s by its struct tags. The first failing field is returned as
// a domain validation error.
func (rv *requestValidator) Struct(s any) error {
	err := rv.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewValidationError("body", "is malformed")
	}
	fe := verrs[0]
	return domain.NewValidationError(fieldPath(fe.Namespace()), reasonFor(fe))
}

// Var validates a single value against tag, reporting failures under field.
func (rv *requestValidator) Var(field string, value any, tag string) error {
	err := rv.validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return domain.NewValidationError(field, reasonFor(verrs[0]))
	}
	return domain.NewValidationError(field, "is invalid")
}

// Sanitize strips markup, trims and truncates free text.
func (rv *requestValidator) Sanitize(s string) string {
	s = html.UnescapeString(rv.policy.Sanitize(strings.TrimSpace(s)))
	s = strings.TrimSpace(rv.markup.Replace(s))
	if r := []rune(s); len(r) > maxTextLen {
		s = string(r[:maxTextLen])
	}
	return s
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " long"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "marketid":
		return "must be 1-64 letters, digits, '-' or '_'"
	case "wallet":
		return "must be a base58 Solana address"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

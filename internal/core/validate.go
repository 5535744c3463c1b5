package core

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// decimal.Decimal fields compare as float64 so gt/gte tags work on money and quantities.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("scale", validateScale); err != nil {
		panic(err)
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateScale checks that a decimal has at most param fractional digits,
// so it is stored in its NUMERIC column without rounding. It reads the
// decimal from the parent struct because the custom type func hands tag
// checks a float64.
func validateScale(fl validator.FieldLevel) bool {
	places, err := strconv.ParseInt(fl.Param(), 10, 32)
	if err != nil {
		panic(fmt.Sprintf("scale: bad param %q", fl.Param()))
	}

	parent := fl.Parent()
	for parent.Kind() == reflect.Ptr {
		if parent.IsNil() {
			return true
		}
		parent = parent.Elem()
	}
	field := parent.FieldByName(fl.StructFieldName())
	for field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return true
		}
		field = field.Elem()
	}

	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return d.Equal(d.Truncate(int32(places)))
}

// validateInput runs struct-tag validation and reports the first failure as
// a ValidationError.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	fe := fieldErrs[0]
	return &ValidationError{Field: fieldPath(fe.Namespace()), Message: describeTag(fe)}
}

// fieldPath drops the leading struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "min":
		return fmt.Sprintf("must contain at least %s entries", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "scale":
		return fmt.Sprintf("must have at most %s decimal places", fe.Param())
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

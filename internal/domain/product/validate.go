package product

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const MaxNameLength = 255

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.ToLower(f.Name)
	})
	_ = v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
		_, ok := parseDecimal(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("nonnegative", func(fl validator.FieldLevel) bool {
		n, ok := parseDecimal(fl.Field().String())
		return ok && n >= 0
	})
	return v
}

// parseDecimal accepts plain decimal notation with an optional sign,
// fraction and exponent (".5", "5.", "1e2"). Hex floats, underscores,
// NaN, Inf and values outside float64 range are rejected.
func parseDecimal(s string) (float64, bool) {
	if s == "" || strings.TrimLeft(s, "+-0123456789.eE") != "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

// Validate trims the input and checks it. On success it returns a product
// carrying the validated name and price; the id is left for the store.
func (in Input) Validate() (*Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Price = strings.TrimSpace(in.Price)

	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			if _, seen := fields[fe.Field()]; seen {
				continue
			}
			fields[fe.Field()] = message(fe)
		}
		return nil, &ValidationError{Fields: fields}
	}

	price, ok := parseDecimal(in.Price)
	if !ok {
		return nil, &ValidationError{Fields: map[string]string{"price": "The price field must be a number."}}
	}
	return &Product{Name: in.Name, Price: price}, nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", fe.Field(), fe.Param())
	case "decimal":
		return fmt.Sprintf("The %s field must be a number.", fe.Field())
	case "nonnegative":
		return fmt.Sprintf("The %s field must be at least 0.", fe.Field())
	default:
		return fmt.Sprintf("The %s field is invalid.", fe.Field())
	}
}

// FormatPrice renders a price without trailing zeros, so 324 prints as "324"
// and an edit form round-trips what was typed.
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

package web

import (
	"reflect"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

// NewValidator returns a validator that understands the notblank tag and the
// exact decimal.Decimal rules decimal_gt, decimal_lt and decimal_max_places.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	rules := map[string]validator.Func{
		"notblank":           validators.NotBlank,
		"decimal_gt":         decimalCompare(func(d, bound decimal.Decimal) bool { return d.GreaterThan(bound) }),
		"decimal_lt":         decimalCompare(func(d, bound decimal.Decimal) bool { return d.LessThan(bound) }),
		"decimal_max_places": decimalMaxPlaces,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	return v
}

// decimalValue hands decimals to the rules as their exact string form.
func decimalValue(field reflect.Value) any {
	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	return d.String()
}

func fieldDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	if fl.Field().Kind() != reflect.String {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(fl.Field().String())
	return d, err == nil
}

func decimalCompare(cmp func(d, bound decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, ok := fieldDecimal(fl)
		if !ok {
			return false
		}
		bound, err := decimal.NewFromString(fl.Param())
		if err != nil {
			panic("invalid decimal bound " + fl.Param())
		}
		return cmp(d, bound)
	}
}

func decimalMaxPlaces(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	if !ok {
		return false
	}
	places, err := strconv.ParseInt(fl.Param(), 10, 32)
	if err != nil {
		panic("invalid decimal_max_places " + fl.Param())
	}
	return d.Equal(d.Truncate(int32(places)))
}

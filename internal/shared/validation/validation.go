package validation

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var currencyPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// Currencies supported for event pricing. ISO 4217 codes.
var supportedCurrencies = map[string]struct{}{
	"INR": {},
	"USD": {},
	"EUR": {},
	"GBP": {},
	"AED": {},
	"SGD": {},
	"JPY": {},
	"AUD": {},
	"CAD": {},
}

// RegisterCustomValidators hooks domain validators into gin's binding
// engine. Call once at startup.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("currencycode", validCurrencyCode)
	}
}

func validCurrencyCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if !currencyPattern.MatchString(code) {
		return false
	}

	_, ok := supportedCurrencies[strings.ToUpper(code)]
	return ok
}

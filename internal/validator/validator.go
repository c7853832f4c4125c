// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// tickerRegex accepts exchange symbols as Yahoo Finance understands them:
// letters and digits with optional dot/dash class suffixes (BRK.B, BF-B)
// and caret-prefixed indices (^TNX).
var tickerRegex = regexp.MustCompile(`^\^?[A-Za-z0-9][A-Za-z0-9.\-]{0,11}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("ticker", validateTicker)
	}
}

func validateTicker(fl validator.FieldLevel) bool {
	return tickerRegex.MatchString(fl.Field().String())
}

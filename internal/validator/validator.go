// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("clock_time", validateClockTime)
		_ = v.RegisterValidation("frequency", validateFrequency)
		_ = v.RegisterValidation("category_type", validateCategoryType)
		_ = v.RegisterValidation("calendar_provider", validateCalendarProvider)
		_ = v.RegisterValidation("mood", validateMood)
	}
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateClockTime(fl validator.FieldLevel) bool {
	return clockRegex.MatchString(fl.Field().String())
}

func validateFrequency(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "none", "daily", "weekly", "biweekly", "monthly", "yearly":
		return true
	}
	return false
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "needs", "wants", "savings":
		return true
	}
	return false
}

func validateCalendarProvider(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "ics", "google":
		return true
	}
	return false
}

func validateMood(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "great", "good", "okay", "bad", "awful":
		return true
	}
	return false
}

package handler

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// rwandaPhone matches Rwandan mobile numbers with or without the country
// prefix: +2507XXXXXXXX, 2507XXXXXXXX or 07XXXXXXXX.
var rwandaPhone = regexp.MustCompile(`^(?:\+?250|0)7[2389]\d{7}$`)

// validate is the shared validator instance for request DTOs.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("rwandaphone", func(fl validator.FieldLevel) bool {
		return rwandaPhone.MatchString(fl.Field().String())
	})
	return v
}

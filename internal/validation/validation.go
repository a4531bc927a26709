// Package validation содержит функции валидации входных данных.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	zipCodeRe   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	telephoneRe = regexp.MustCompile(`^\+?1?\d{10,15}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("zipcode", func(fl validator.FieldLevel) bool {
		return IsValidZipCode(fl.Field().String())
	})
	_ = v.RegisterValidation("telephone", func(fl validator.FieldLevel) bool {
		return IsValidTelephone(fl.Field().String())
	})

	return v
}

// IsValidZipCode проверяет почтовый индекс в формате 12345 или 12345-6789.
func IsValidZipCode(zip string) bool {
	return zipCodeRe.MatchString(zip)
}

// IsValidTelephone проверяет номер телефона: 10–15 цифр, допускается префикс +1.
func IsValidTelephone(phone string) bool {
	return telephoneRe.MatchString(phone)
}

// Struct проверяет структуру по тегам validate и возвращает ошибку
// с перечислением всех нарушенных правил.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "zipcode":
		return fmt.Sprintf("%s must match 12345 or 12345-6789", fe.Field())
	case "telephone":
		return fmt.Sprintf("%s must contain 10 to 15 digits", fe.Field())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
}

package api

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// validateMaxBytes в отличии от тэга max который проверяет длину рун, - проверят длину байт в поле.
func validateMaxBytes(fl validator.FieldLevel) bool {
	param := fl.Param() // получаем значение из тега
	maxBytes, err := strconv.Atoi(param)
	if err != nil {
		return false
	}

	if fl.Field().Kind() != reflect.String {
		return false
	}

	return len(fl.Field().String()) <= maxBytes
}

func validateListingType(fl validator.FieldLevel) bool {
	return domain.ListingType(fl.Field().String()).IsValid()
}

func validateCondition(fl validator.FieldLevel) bool {
	return domain.DocumentCondition(fl.Field().String()).IsValid()
}

func validateRole(fl validator.FieldLevel) bool {
	return domain.Role(fl.Field().String()).IsValid()
}

// jsonFieldName имя поля в ошибках валидации берется из json (или form) тэга.
func jsonFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0] //nolint:mnd
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("validator registration: unexpected validator engine")
	}
	v.RegisterTagNameFunc(jsonFieldName)

	custom := map[string]validator.Func{
		"max_bytes":    validateMaxBytes,
		"listing_type": validateListingType,
		"condition":    validateCondition,
		"role":         validateRole,
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("validator registration: %s", err.Error())
		}
	}
	return nil
}

// validationMessage человекочитаемое описание нарушенного правила.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of " + fe.Param()
	case "max_bytes":
		return fmt.Sprintf("must be at most %s bytes", fe.Param())
	case "listing_type":
		return "must be one of Sell, Exchange"
	case "condition":
		return "must be one of new, like_new, good, fair, poor"
	case "role":
		return "must be one of user, admin"
	default:
		return "is invalid"
	}
}

// toValidationError переводит ошибки validator в доменную ошибку валидации.
func toValidationError(errs validator.ValidationErrors) *domain.ValidationError {
	verr := &domain.ValidationError{}
	for _, fe := range errs {
		verr.Add(fe.Field(), validationMessage(fe))
	}
	return verr
}

package service

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gitlab.com/nmadb/contacts/internal/model"
)

var registerValidatorsOnce sync.Once

// createValidator checks the create:"required" tags of a new record.
var createValidator = newCreateValidator()

// registerValidators adds the custom binding rules to gin's validator and makes it report JSON
// field names.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		if err := v.RegisterValidation("phone", validatePhone); err != nil {
			panic(err)
		}
		if err := v.RegisterValidation("identity_code", validateIdentityCode); err != nil {
			panic(err)
		}
	})
}

func newCreateValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("create")
	v.RegisterTagNameFunc(jsonFieldName)
	return v
}

// jsonFieldName names a struct field like its JSON key.
func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

func validatePhone(fl validator.FieldLevel) bool {
	return model.ValidPhoneNumber(fl.Field().String())
}

func validateIdentityCode(fl validator.FieldLevel) bool {
	return model.ValidIdentityCode(fl.Field().String())
}

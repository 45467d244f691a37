package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/mydfacylita/backend/internal/domain/shipping"
)

// SetupValidator configures gin's validator: binding errors report JSON
// (or form) field names instead of Go struct field names, and the `cep`
// tag validates Brazilian postal codes.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	v.RegisterValidation("cep", func(fl validator.FieldLevel) bool { //nolint:errcheck
		_, err := shipping.ParseCEP(fl.Field().String())
		return err == nil
	})
}

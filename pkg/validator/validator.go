package validator

import (
	"log"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterGinValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		err := v.RegisterValidation("subdomain", subdomainValidator)
		if err != nil {
			log.Fatal("register subdomain validator failed")
		}
	}
}

var subdomainValidator validator.Func = func(fl validator.FieldLevel) bool {
	subdomain := fl.Field().String()
	pattern := `^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`
	matched, err := regexp.MatchString(pattern, subdomain)
	if err != nil {
		return false
	}
	return matched
}

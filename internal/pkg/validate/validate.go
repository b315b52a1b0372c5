package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// regNoPattern covers corporate and business registration numbers as they
// arrive from the signup and find-id forms: digit groups, optionally
// hyphen-separated (e.g. 110111-0000111 or 1208812345).
var regNoPattern = regexp.MustCompile(`^[0-9]+(-[0-9]+)*$`)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	// error messages name the json field the client sent, not the Go one
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := val.RegisterValidation("regno", func(fl validator.FieldLevel) bool {
		return regNoPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic("register regno validation: " + err.Error())
	}
	return val
}

// Struct validates the given struct using its validate tags. Failures come
// back as one human-readable error listing each offending field.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

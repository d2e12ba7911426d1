package controllers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"shorter/internal/service"
)

var registerOnce sync.Once

// RegisterValidators adds the linkurl and shortcode tags to gin's validator.
// It is safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}

		// Report fields by their form name
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})

		if err = v.RegisterValidation("linkurl", func(fl validator.FieldLevel) bool {
			_, err := service.ValidateURL(fl.Field().String())
			return err == nil
		}); err != nil {
			return
		}
		// A blank code asks for an auto-derived one
		err = v.RegisterValidation("shortcode", func(fl validator.FieldLevel) bool {
			code := fl.Field().String()
			if code == "" {
				return true
			}
			_, err := service.ValidateCustomCode(code)
			return err == nil
		})
	})
	return err
}

// fieldErrors turns a binding error into a field to message map.
// ok is false when err is not a validation error.
func fieldErrors(err error) (map[string]string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out, true
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The required form value argument '%s' was not provided.", fe.Field())
	case "linkurl":
		return fmt.Sprintf("This URL is malformed: %v", fe.Value())
	case "shortcode":
		return invalidCodeMessage
	default:
		return fmt.Sprintf("Invalid value for '%s'.", fe.Field())
	}
}

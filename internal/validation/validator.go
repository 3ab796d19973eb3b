// Package validation wires go-playground/validator into gin binding and turns its errors into
// field-level messages.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// PasswordComplexityMessage is reported when a password lacks an upper, lower or digit character.
const PasswordComplexityMessage = "Password must contain at least one uppercase letter, one lowercase letter, and one number"

// Validator implements binding.StructValidator with lazy initialization.
type Validator struct {
	once     sync.Once
	validate *validator.Validate
}

var _ binding.StructValidator = (*Validator)(nil)

var std = &Validator{}

// Default returns the process-wide Validator. Install it with binding.Validator = validation.Default().
func Default() *Validator { return std }

// ValidateStruct validates structs (or pointers to structs) against their binding tags.
func (v *Validator) ValidateStruct(obj any) error {
	if kindOfData(obj) != reflect.Struct {
		return nil
	}
	v.lazyinit()
	return v.validate.Struct(obj)
}

// Engine returns the underlying *validator.Validate.
func (v *Validator) Engine() any {
	v.lazyinit()
	return v.validate
}

func (v *Validator) lazyinit() {
	v.once.Do(func() {
		v.validate = validator.New(validator.WithRequiredStructEnabled())
		v.validate.SetTagName("binding")
		v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.validate.RegisterValidation("password", passwordComplexity)
		_ = v.validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
}

// passwordComplexity requires an ASCII upper, an ASCII lower and an ASCII digit.
func passwordComplexity(fl validator.FieldLevel) bool {
	var upper, lower, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return upper && lower && digit
}

// Struct validates obj and returns a *Error, or nil when obj is valid.
func Struct(obj any) error {
	return Translate(std.ValidateStruct(obj))
}

// Translate converts binding and validator errors into a *Error. Other errors pass through unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := NewError()
		for _, fe := range verrs {
			out.Add(fe.Field(), message(fe))
		}
		return out
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		out := NewError()
		out.Add(typeErr.Field, fmt.Sprintf("Expected %s", typeErr.Type.String()))
		return out
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		out := NewError()
		out.Add("body", "Request body must be valid JSON")
		return out
	}
	return err
}

func message(fe validator.FieldError) string {
	label := labelFor(fe.Field())
	switch fe.Tag() {
	case "required", "notblank":
		return label + " is required"
	case "email":
		return "Invalid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "password":
		return PasswordComplexityMessage
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return "Invalid " + strings.ToLower(label)
	}
}

func labelFor(field string) string {
	if field == "" {
		return "Value"
	}
	return strings.ToUpper(field[:1]) + field[1:]
}

func kindOfData(data any) reflect.Kind {
	value := reflect.ValueOf(data)
	kind := value.Kind()
	if kind == reflect.Ptr {
		kind = value.Elem().Kind()
	}
	return kind
}

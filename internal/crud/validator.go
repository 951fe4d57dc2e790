package crud

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
)

// StructValidator checks records against their `validate` struct tags and
// reports failures per JSON field name.
type StructValidator struct {
	validator *validator.Validate
}

// NewValidator creates a validator with the document's custom rules
// registered.
func NewValidator() *StructValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return core.IsSlug(fl.Field().String())
	})
	return &StructValidator{validator: v}
}

// Validate returns nil or a *ValidationError.
func (sv *StructValidator) Validate(i any) error {
	err := sv.validator.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = message(fe)
	}
	return &ValidationError{Fields: fields}
}

// fieldPath drops the leading struct name: "Guest.familyMembers[0].name"
// becomes "familyMembers[0].name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "datetime":
		return fmt.Sprintf("must match %s", fe.Param())
	case "slug":
		return "must be lower-case words joined by '-'"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

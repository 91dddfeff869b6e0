// Package validation checks request and config structs with go-playground/validator.
//
// Request types declare their rules as `validate` tags; Struct turns the
// first failure into a readable message keyed by the field's JSON name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	instance *validator.Validate
	once     sync.Once
)

// get returns the shared validator. It caches struct metadata, so one
// instance is reused for the process lifetime.
func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("notblank", notBlank)
		instance = v
	})
	return instance
}

// fieldName reports fields by their json name, or koanf name for config structs.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "koanf"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// notBlank rejects strings that are empty after trimming whitespace.
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Error is a single failed rule.
type Error struct {
	Field string
	Tag   string
	Param string
}

func (e *Error) Error() string {
	switch e.Tag {
	case "required", "notblank", "required_if", "required_with":
		return fmt.Sprintf("%s is required", e.Field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", e.Field, e.Param)
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", e.Field, e.Param)
	case "len":
		return fmt.Sprintf("%s must have length %s", e.Field, e.Param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field, e.Param)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", e.Field)
	case "url", "http_url":
		return fmt.Sprintf("%s must be a valid URL", e.Field)
	case "iso3166_1_alpha2":
		return fmt.Sprintf("%s must be a two-letter country code", e.Field)
	case "datetime":
		return fmt.Sprintf("%s must match %s", e.Field, e.Param)
	default:
		return fmt.Sprintf("%s failed %s validation", e.Field, e.Tag)
	}
}

// Struct validates s and returns the first failure as *Error, nil when valid.
func Struct(s any) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &Error{Field: fieldPath(fe), Tag: fe.Tag(), Param: fe.Param()}
	}
	return err
}

// fieldPath drops the top-level struct name from the namespace
// ("Config.server.port" -> "server.port").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/xyz-asif/classifieds/pkg/errors"
)

var (
	hexDigitRegex = regexp.MustCompile(`^[0-9a-fA-F]{3,10}$`)
	objectIDRegex = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
)

// FieldError describes one failing field of a payload
type FieldError struct {
	Field   string `json:"field" example:"title"`
	Rule    string `json:"rule" example:"min"`
	Message string `json:"message" example:"title must be at least 10 characters"`
}

// Errors collects every failing field. It matches pkg/errors.ErrValidation.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e Errors) Unwrap() error { return apperrors.ErrValidation }

// Add appends a field error
func (e *Errors) Add(field, rule, message string) {
	*e = append(*e, FieldError{Field: field, Rule: rule, Message: message})
}

// Err returns nil when no field failed
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// AsErrors extracts field errors from err, if any
func AsErrors(err error) (Errors, bool) {
	var fe Errors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

var (
	once     sync.Once
	validate *validator.Validate
	enums    = map[string]map[string]bool{}
	enumsMu  sync.Mutex
)

func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
		_ = validate.RegisterValidation("hexdigits", func(fl validator.FieldLevel) bool {
			return hexDigitRegex.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return objectIDRegex.MatchString(fl.Field().String())
		})
	})
	return validate
}

// RegisterEnum adds a closed-set rule usable as a struct tag
func RegisterEnum(tag string, values []string) {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}

	enumsMu.Lock()
	defer enumsMu.Unlock()
	enums[tag] = set
	_ = engine().RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		enumsMu.Lock()
		defer enumsMu.Unlock()
		return enums[tag][fl.Field().String()]
	})
}

// Struct validates v against its `validate` tags and returns Errors listing
// every failing field, or nil.
func Struct(v interface{}) error {
	err := engine().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		out = append(out, FieldError{
			Field:   field,
			Rule:    fe.Tag(),
			Message: describe(field, fe),
		})
	}
	return out
}

// fieldPath drops the struct name from a namespace like "DonationPost.tags[0]"
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(field string, fe validator.FieldError) string {
	unit := "characters"
	switch fe.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		unit = "items"
	case reflect.Int, reflect.Int64, reflect.Float32, reflect.Float64:
		unit = ""
	}

	switch fe.Tag() {
	case "required", "required_with":
		return fmt.Sprintf("%s is required", field)
	case "required_without":
		return fmt.Sprintf("%s is required when %s is missing", field, lowerFirst(fe.Param()))
	case "min":
		if unit == "" {
			return fmt.Sprintf("%s must be at least %s", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s %s", field, fe.Param(), unit)
	case "max":
		if unit == "" {
			return fmt.Sprintf("%s must be at most %s", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s %s", field, fe.Param(), unit)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "hexdigits":
		return fmt.Sprintf("%s must be 3 to 10 hexadecimal digits", field)
	case "objectid":
		return fmt.Sprintf("%s must be a 24 character hexadecimal id", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	}
	return fmt.Sprintf("%s is invalid", field)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// IsObjectID reports whether s looks like a 24-hex document id
func IsObjectID(s string) bool {
	return objectIDRegex.MatchString(s)
}

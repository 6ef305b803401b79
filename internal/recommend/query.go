package recommend

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// MaxPageSize is the largest page a caller may request.
const MaxPageSize = 50

// ErrInvalidQuery is matched by every ValidationError.
var ErrInvalidQuery = errors.New("invalid query")

// Page selects a window of a ranked result.
type Page struct {
	Number int `json:"page" validate:"min=1"`
	Size   int `json:"page_size" validate:"min=1,max=50"`
}

// Offset returns the index of the first item on the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

type query struct {
	Tags []string `validate:"min=1,dive,required"`
	Page Page
}

// FieldError describes one rejected field.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

func (e FieldError) String() string {
	if e.Param != "" {
		return fmt.Sprintf("%s failed %s=%s", e.Field, e.Tag, e.Param)
	}
	return fmt.Sprintf("%s failed %s", e.Field, e.Tag)
}

// ValidationError is returned for malformed requests, before any corpus
// access.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}
	return "invalid query: " + strings.Join(msgs, "; ")
}

// Is makes errors.Is(err, ErrInvalidQuery) succeed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidQuery
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

func validateQuery(q query) error {
	err := getValidator().Struct(q)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating query: %w", err)
	}

	ve := &ValidationError{Fields: make([]FieldError, len(fieldErrs))}
	for i, fe := range fieldErrs {
		ve.Fields[i] = FieldError{
			Field: fieldName(fe.Namespace()),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		}
	}
	return ve
}

// fieldName turns "query.Page.Size" into "page.size".
func fieldName(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		rest = namespace
	}
	return strings.ToLower(rest)
}

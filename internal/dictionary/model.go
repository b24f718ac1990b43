package dictionary

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidEntry is returned when an entry violates the dictionary's field rules.
	ErrInvalidEntry = errors.New("invalid entry")
	// ErrDuplicateKey is returned when an insert collides with an existing keyword or abbreviation.
	ErrDuplicateKey = errors.New("duplicate key")
)

// Entry is a standardized keyword with its unique abbreviation.
type Entry struct {
	Keyword      string `db:"keyword" json:"keyword" yaml:"keyword" validate:"required,casing"`
	Abbreviation string `db:"abbreviation" json:"abbreviation" yaml:"abbreviation" validate:"required,casing"`
	Description  string `db:"description" json:"description,omitempty" yaml:"description,omitempty"`
}

// EmbedText is the text indexed for similarity search.
func (e Entry) EmbedText() string {
	return fmt.Sprintf("Keyword: %s | Abbreviation: %s | Description: %s", e.Keyword, e.Abbreviation, e.Description)
}

// Validate checks that both keyword and abbreviation are present and follow the casing rule.
func (e Entry) Validate() error {
	if err := entryValidator.Struct(e); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
		}
		var msgs []string
		for _, fe := range validationErrors {
			switch fe.Tag() {
			case "required":
				msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
			case "casing":
				msgs = append(msgs, fmt.Sprintf("%s %q must start with an uppercase letter followed by no other uppercase letters", fe.Field(), fe.Value()))
			default:
				msgs = append(msgs, fe.Error())
			}
		}
		return fmt.Errorf("%w: %s", ErrInvalidEntry, strings.Join(msgs, ", "))
	}
	return nil
}

// IsConventionalCase reports whether s starts with an uppercase letter and
// contains no other uppercase letters, e.g. "Esc" but not "ESC" or "esc".
func IsConventionalCase(s string) bool {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError || !unicode.IsUpper(first) {
		return false
	}
	for _, r := range s[size:] {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

var entryValidator = mustNewEntryValidator()

func mustNewEntryValidator() *validator.Validate {
	validate, err := newEntryValidator()
	if err != nil {
		panic(err)
	}
	return validate
}

func newEntryValidator() (*validator.Validate, error) {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	if err := validate.RegisterValidation("casing", func(fl validator.FieldLevel) bool {
		return IsConventionalCase(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("failed to register casing validation: %w", err)
	}
	return validate, nil
}

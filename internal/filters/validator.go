package filters

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "twitter-search-builder/internal/common/errors"
)

const (
	MaxTextLength     = 500
	MaxUsernameLength = 15

	// MaxSafeInteger is the largest integer a JSON number carries exactly.
	MaxSafeInteger int64 = 9007199254740991
	MaxLikesMin          = MaxSafeInteger
	MaxRetweetsMin int64 = 1000000
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,15}$`)

// UsernamePolicy decides how '@' in from/to values is treated.
type UsernamePolicy int

const (
	// UsernameStrict rejects any '@' with INVALID_USERNAME_AT.
	UsernameStrict UsernamePolicy = iota
	// UsernameLenient tolerates a single leading '@'; any other '@' is still rejected.
	UsernameLenient
)

func (p UsernamePolicy) String() string {
	if p == UsernameLenient {
		return "lenient"
	}
	return "strict"
}

// Clock supplies "now" for the future-date bound.
type Clock func() time.Time

// Validator runs the per-field rules. The zero value is not usable; call NewValidator.
type Validator struct {
	now            Clock
	usernamePolicy UsernamePolicy
}

type Option func(*Validator)

func WithClock(now Clock) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

func WithUsernamePolicy(p UsernamePolicy) Option {
	return func(v *Validator) {
		v.usernamePolicy = p
	}
}

func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		now:            time.Now,
		usernamePolicy: UsernameStrict,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// UsernamePolicy returns the policy this validator enforces.
func (v *Validator) UsernamePolicy() UsernamePolicy {
	return v.usernamePolicy
}

var defaultValidator = NewValidator()

// ValidateFilters validates input with the strict username policy and the wall clock.
func ValidateFilters(input interface{}) ValidationResult {
	return defaultValidator.ValidateFilters(input)
}

// ValidateField validates a single field with the default validator.
func ValidateField(fieldName string, value interface{}) ValidationResult {
	return defaultValidator.ValidateField(fieldName, value)
}

// ValidateFilters runs every rule and collects all failures. Input may be a FilterInput or any map
// keyed by strings (map[string]string included). Anything else (nil, nil maps, strings, numbers)
// is treated as an empty form and is valid.
func (v *Validator) ValidateFilters(input interface{}) ValidationResult {
	raw, ok := asFilterInput(input)
	if !ok {
		return ValidationResult{
			IsValid:          true,
			Errors:           []ValidationError{},
			SanitizedFilters: &SanitizedFilters{},
		}
	}

	f := resolveAliases(raw)
	errors := []ValidationError{}
	add := func(e *ValidationError) {
		if e != nil {
			errors = append(errors, *e)
		}
	}

	add(v.validateTextSearch(f[FieldTextSearch]))
	add(v.validateLikesMin(f[FieldLikesMin]))
	add(v.validateRetweetsMin(f[FieldRetweetsMin]))
	errors = append(errors, v.validateDateRange(f[FieldSince], f[FieldUntil])...)
	add(v.validateLanguage(f[FieldLanguage]))
	add(v.validateUsername(FieldFrom, f[FieldFrom]))
	add(v.validateUsername(FieldTo, f[FieldTo]))

	if len(errors) > 0 {
		return ValidationResult{
			IsValid: false,
			Errors:  errors,
		}
	}

	sanitized := SanitizeFilters(raw)
	return ValidationResult{
		IsValid:          true,
		Errors:           errors,
		SanitizedFilters: &sanitized,
	}
}

// fieldRule validates one canonical field's raw value.
type fieldRule func(v *Validator, value interface{}) *ValidationError

var fieldRules = map[string]fieldRule{
	FieldTextSearch:  (*Validator).validateTextSearch,
	FieldLikesMin:    (*Validator).validateLikesMin,
	FieldRetweetsMin: (*Validator).validateRetweetsMin,
	FieldSince: func(v *Validator, value interface{}) *ValidationError {
		return validateDateFormat(FieldSince, value)
	},
	FieldUntil: func(v *Validator, value interface{}) *ValidationError {
		return validateDateFormat(FieldUntil, value)
	},
	FieldLanguage: (*Validator).validateLanguage,
	FieldFrom: func(v *Validator, value interface{}) *ValidationError {
		return v.validateUsername(FieldFrom, value)
	},
	FieldTo: func(v *Validator, value interface{}) *ValidationError {
		return v.validateUsername(FieldTo, value)
	},
}

// ValidateField validates one field for live feedback. Aliases are accepted; unknown names and
// fields without rules (booleans, sequences) are always valid.
func (v *Validator) ValidateField(fieldName string, value interface{}) ValidationResult {
	canonical, known := CanonicalField(fieldName)
	rule, hasRule := fieldRules[canonical]
	if !known || !hasRule {
		return ValidationResult{IsValid: true, Errors: []ValidationError{}}
	}

	if err := rule(v, value); err != nil {
		return ValidationResult{IsValid: false, Errors: []ValidationError{*err}}
	}
	return ValidationResult{IsValid: true, Errors: []ValidationError{}}
}

// asFilterInput accepts any non-nil map with string keys, e.g. map[string]string from flag parsing.
func asFilterInput(input interface{}) (FilterInput, bool) {
	switch m := input.(type) {
	case FilterInput:
		return m, m != nil
	case map[string]interface{}:
		return FilterInput(m), m != nil
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(input)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
		return nil, false
	}
	converted := make(FilterInput, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		converted[iter.Key().String()] = iter.Value().Interface()
	}
	return converted, true
}

func newError(field string, code apperrors.ErrorCode, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message, Code: code}
}

func (v *Validator) validateTextSearch(raw interface{}) *ValidationError {
	if raw == nil {
		return nil
	}
	text, ok := raw.(string)
	if !ok {
		return newError(FieldTextSearch, apperrors.ErrCodeInvalidType, "Search text must be a string")
	}
	if text == "" {
		return nil
	}

	if utf8.RuneCountInString(text) > MaxTextLength {
		return newError(FieldTextSearch, apperrors.ErrCodeTextTooLong,
			fmt.Sprintf("Search text is too long (maximum %d characters)", MaxTextLength))
	}

	if strings.Count(text, `"`)%2 != 0 {
		return newError(FieldTextSearch, apperrors.ErrCodeUnbalancedQuotes, "Quotation marks are not balanced")
	}

	return nil
}

func (v *Validator) validateLikesMin(raw interface{}) *ValidationError {
	return validateCount(FieldLikesMin, "Minimum likes", raw, MaxLikesMin)
}

func (v *Validator) validateRetweetsMin(raw interface{}) *ValidationError {
	return validateCount(FieldRetweetsMin, "Minimum retweets", raw, MaxRetweetsMin)
}

func validateCount(field, label string, raw interface{}, ceiling int64) *ValidationError {
	value, status := coerceNumber(raw)

	switch status {
	case numberEmpty:
		return nil
	case numberWrongType:
		return newError(field, apperrors.ErrCodeInvalidType, label+" must be a number")
	case numberNotNumeric:
		return newError(field, apperrors.ErrCodeInvalidNumber, label+" must be a number")
	case numberFractional:
		return newError(field, apperrors.ErrCodeInvalidNumber, label+" must be a whole number")
	}

	if value < 0 {
		return newError(field, apperrors.ErrCodeNegativeValue, label+" cannot be negative")
	}
	if value > float64(ceiling) {
		return newError(field, apperrors.ErrCodeValueTooHigh,
			fmt.Sprintf("%s is too high (maximum %d)", label, ceiling))
	}
	return nil
}

// dateString extracts a date field; ok is false for non-strings.
func dateString(raw interface{}) (s string, ok bool) {
	if raw == nil {
		return "", true
	}
	s, ok = raw.(string)
	return strings.TrimSpace(s), ok
}

func validateDateFormat(field string, raw interface{}) *ValidationError {
	s, ok := dateString(raw)
	if ok && s == "" {
		return nil
	}
	if !ok || !IsValidDate(s) {
		label := "start"
		if field == FieldUntil {
			label = "end"
		}
		return newError(field, apperrors.ErrCodeInvalidDateFormat,
			fmt.Sprintf("Invalid %s date format (must be YYYY-MM-DD)", label))
	}
	return nil
}

// validateDateRange checks both formats, then ordering and the one-year future bound when both dates are valid.
func (v *Validator) validateDateRange(sinceRaw, untilRaw interface{}) []ValidationError {
	var errors []ValidationError

	sinceErr := validateDateFormat(FieldSince, sinceRaw)
	if sinceErr != nil {
		errors = append(errors, *sinceErr)
	}
	untilErr := validateDateFormat(FieldUntil, untilRaw)
	if untilErr != nil {
		errors = append(errors, *untilErr)
	}

	since, _ := dateString(sinceRaw)
	until, _ := dateString(untilRaw)
	if sinceErr != nil || untilErr != nil || since == "" || until == "" {
		return errors
	}

	sinceDate, _ := parseDate(since)
	untilDate, _ := parseDate(until)

	if sinceDate.After(untilDate) {
		errors = append(errors, *newError(FieldDateRange, apperrors.ErrCodeInvalidDateRange,
			"Start date cannot be after end date"))
	}

	maxFuture := v.now().UTC().AddDate(1, 0, 0)
	if untilDate.After(maxFuture) {
		errors = append(errors, *newError(FieldUntil, apperrors.ErrCodeDateTooFarFuture,
			"End date can be at most one year in the future"))
	}

	return errors
}

func (v *Validator) validateLanguage(raw interface{}) *ValidationError {
	if raw == nil {
		return nil
	}
	lang, ok := raw.(string)
	if !ok {
		return newError(FieldLanguage, apperrors.ErrCodeInvalidFormat, "Language code must be a 2-letter string")
	}
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return nil
	}

	if utf8.RuneCountInString(lang) != 2 {
		return newError(FieldLanguage, apperrors.ErrCodeInvalidFormat, "Language code must be exactly 2 letters")
	}
	if !IsSupportedLanguage(lang) {
		return newError(FieldLanguage, apperrors.ErrCodeInvalidLanguage, "Unsupported language code")
	}
	return nil
}

func (v *Validator) validateUsername(field string, raw interface{}) *ValidationError {
	if raw == nil {
		return nil
	}
	username, ok := raw.(string)
	if !ok {
		return newError(field, apperrors.ErrCodeInvalidType, "Username must be a string")
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil
	}

	name := username
	if v.usernamePolicy == UsernameLenient {
		name = strings.TrimPrefix(name, "@")
	}
	if strings.Contains(name, "@") {
		return newError(field, apperrors.ErrCodeInvalidUsernameAt, "Enter the username without '@'")
	}

	if utf8.RuneCountInString(name) > MaxUsernameLength {
		return newError(field, apperrors.ErrCodeUsernameTooLong,
			fmt.Sprintf("Username is too long (maximum %d characters)", MaxUsernameLength))
	}
	if !usernamePattern.MatchString(name) {
		return newError(field, apperrors.ErrCodeInvalidUsername,
			"Invalid username (1-15 characters: letters, digits and underscore)")
	}
	return nil
}

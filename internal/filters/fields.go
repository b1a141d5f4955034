// Package filters validates and canonicalizes the raw filter mapping behind an advanced X/Twitter search.
//
// Raw input is an open map (form state, JSON document, template preset). Validation collects every
// violation; only a fully valid mapping is sanitized into SanitizedFilters, the sole input the URL
// builder accepts.
package filters

// FilterInput is the raw field name → value mapping supplied by a form or a template.
type FilterInput map[string]interface{}

// Canonical field names.
const (
	FieldTextSearch   = "textSearch"
	FieldFrom         = "from"
	FieldTo           = "to"
	FieldSince        = "since"
	FieldUntil        = "until"
	FieldLikesMin     = "likesMin"
	FieldRetweetsMin  = "retweetsMin"
	FieldLanguage     = "language"
	FieldHasMedia     = "hasMedia"
	FieldHasImages    = "hasImages"
	FieldHasVideos    = "hasVideos"
	FieldIsQuestion   = "isQuestion"
	FieldIsReply      = "isReply"
	FieldHashtags     = "hashtags"
	FieldExcludeWords = "excludeWords"

	// FieldDateRange only ever appears in ValidationError.Field.
	FieldDateRange = "dateRange"
)

// DefaultLanguage is the form's implicit language; it is never emitted as a lang: operator.
const DefaultLanguage = "tr"

// aliases maps accepted alternative names to their canonical field.
var aliases = map[string]string{
	"fromUser":    FieldFrom,
	"toUser":      FieldTo,
	"minRetweets": FieldRetweetsMin,
	"lang":        FieldLanguage,
	"media":       FieldHasMedia,
}

var canonicalFields = map[string]bool{
	FieldTextSearch:   true,
	FieldFrom:         true,
	FieldTo:           true,
	FieldSince:        true,
	FieldUntil:        true,
	FieldLikesMin:     true,
	FieldRetweetsMin:  true,
	FieldLanguage:     true,
	FieldHasMedia:     true,
	FieldHasImages:    true,
	FieldHasVideos:    true,
	FieldIsQuestion:   true,
	FieldIsReply:      true,
	FieldHashtags:     true,
	FieldExcludeWords: true,
}

// deniedKeys are never copied out of caller-supplied mappings.
var deniedKeys = map[string]bool{
	"__proto__":   true,
	"constructor": true,
}

func isDeniedKey(key string) bool {
	return deniedKeys[key]
}

// CanonicalField returns the canonical name for a field or alias, and whether it is known at all.
func CanonicalField(name string) (string, bool) {
	if canonicalFields[name] {
		return name, true
	}
	if canonical, ok := aliases[name]; ok {
		return canonical, true
	}
	return "", false
}

// present reports whether a raw value counts as supplied for alias precedence.
func present(v interface{}) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok && s == "" {
		return false
	}
	return true
}

// resolveAliases keeps only known fields under their canonical names.
// A supplied canonical value always beats its alias.
func resolveAliases(input FilterInput) FilterInput {
	resolved := make(FilterInput, len(input))

	for key, value := range input {
		if isDeniedKey(key) || !canonicalFields[key] {
			continue
		}
		resolved[key] = value
	}

	for key, value := range input {
		canonical, ok := aliases[key]
		if !ok || isDeniedKey(key) {
			continue
		}
		if !present(resolved[canonical]) && present(value) {
			resolved[canonical] = value
		}
	}

	return resolved
}

// Merge applies updates on top of base and returns a new mapping; neither argument is modified.
// A nil update value clears the field. This is the single filter-update path used by forms and templates.
// Updating a field under any spelling replaces every spelling of it carried over from base, so an
// alias in updates is never shadowed by a canonical key seeded in base.
func Merge(base, updates FilterInput) FilterInput {
	merged := make(FilterInput, len(base)+len(updates))
	for k, v := range base {
		if isDeniedKey(k) {
			continue
		}
		merged[k] = v
	}

	updated := make(map[string]bool, len(updates))
	for k := range updates {
		if canonical, ok := CanonicalField(k); ok && !isDeniedKey(k) {
			updated[canonical] = true
		}
	}
	for k := range merged {
		if _, own := updates[k]; own {
			continue
		}
		if canonical, ok := CanonicalField(k); ok && updated[canonical] {
			delete(merged, k)
		}
	}

	for k, v := range updates {
		if isDeniedKey(k) {
			continue
		}
		if v == nil {
			delete(merged, k)
			continue
		}
		merged[k] = v
	}
	return merged
}

// DefaultFilters returns the empty form state.
func DefaultFilters() FilterInput {
	return FilterInput{
		FieldTextSearch:   "",
		FieldLikesMin:     0,
		FieldLanguage:     DefaultLanguage,
		FieldHasMedia:     false,
		FieldFrom:         "",
		FieldTo:           "",
		FieldSince:        "",
		FieldUntil:        "",
		FieldRetweetsMin:  0,
		FieldHasImages:    false,
		FieldHasVideos:    false,
		FieldIsQuestion:   false,
		FieldIsReply:      false,
		FieldExcludeWords: []string{},
		FieldHashtags:     []string{},
	}
}

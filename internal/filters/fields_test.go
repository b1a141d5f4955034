package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalField(t *testing.T) {
	tests := []struct {
		name      string
		canonical string
		known     bool
	}{
		{"textSearch", FieldTextSearch, true},
		{"fromUser", FieldFrom, true},
		{"toUser", FieldTo, true},
		{"minRetweets", FieldRetweetsMin, true},
		{"lang", FieldLanguage, true},
		{"media", FieldHasMedia, true},
		{"hashtags", FieldHashtags, true},
		{"dateRange", "", false},
		{"constructor", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canonical, known := CanonicalField(tt.name)
			assert.Equal(t, tt.canonical, canonical)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestMerge(t *testing.T) {
	base := FilterInput{
		"textSearch": "old",
		"likesMin":   10,
		"language":   "tr",
	}
	updates := FilterInput{
		"textSearch":  "new",
		"likesMin":    nil,
		"hasMedia":    true,
		"__proto__":   FilterInput{"polluted": true},
		"constructor": "x",
	}

	merged := Merge(base, updates)

	assert.Equal(t, FilterInput{
		"textSearch": "new",
		"language":   "tr",
		"hasMedia":   true,
	}, merged)

	// inputs are untouched
	assert.Equal(t, "old", base["textSearch"])
	assert.Equal(t, 10, base["likesMin"])
	assert.Len(t, updates, 5)
}

func TestMerge_AliasReplacesSeededCanonical(t *testing.T) {
	merged := Merge(DefaultFilters(), FilterInput{
		"minRetweets": 50,
		"lang":        "en",
		"media":       true,
		"textSearch":  "x",
	})

	assert.NotContains(t, merged, FieldRetweetsMin)
	assert.NotContains(t, merged, FieldLanguage)
	assert.NotContains(t, merged, FieldHasMedia)

	resolved := resolveAliases(merged)
	assert.Equal(t, 50, resolved[FieldRetweetsMin])
	assert.Equal(t, "en", resolved[FieldLanguage])
	assert.Equal(t, true, resolved[FieldHasMedia])
	assert.Equal(t, "x", resolved[FieldTextSearch])
}

func TestMerge_SpellingPrecedence(t *testing.T) {
	// canonical in base, alias in updates
	assert.Equal(t, FilterInput{"lang": "en"}, Merge(FilterInput{"language": "tr"}, FilterInput{"lang": "en"}))
	// alias in base, canonical in updates
	assert.Equal(t, FilterInput{"retweetsMin": 5}, Merge(FilterInput{"minRetweets": 50}, FilterInput{"retweetsMin": 5}))
	// both spellings inside one update are kept for alias resolution
	assert.Equal(t, FilterInput{"language": "de", "lang": "en"},
		Merge(FilterInput{"language": "tr"}, FilterInput{"language": "de", "lang": "en"}))
	// clearing any spelling clears the field
	assert.Equal(t, FilterInput{}, Merge(FilterInput{"language": "tr", "lang": "en"}, FilterInput{"lang": nil}))
}

func TestMerge_NilArguments(t *testing.T) {
	assert.Equal(t, FilterInput{}, Merge(nil, nil))
	assert.Equal(t, FilterInput{"to": "nasa"}, Merge(nil, FilterInput{"to": "nasa"}))
	assert.Equal(t, FilterInput{"to": "nasa"}, Merge(FilterInput{"to": "nasa"}, nil))
}

func TestDefaultFilters(t *testing.T) {
	d := DefaultFilters()

	assert.Equal(t, DefaultLanguage, d[FieldLanguage])
	assert.Len(t, d, len(canonicalFields))

	// each call returns a fresh mapping
	d[FieldTextSearch] = "changed"
	assert.Equal(t, "", DefaultFilters()[FieldTextSearch])
}

func TestLanguages(t *testing.T) {
	assert.True(t, IsSupportedLanguage("EN"))
	assert.True(t, IsSupportedLanguage(DefaultLanguage))
	assert.False(t, IsSupportedLanguage("xx"))

	name, ok := LanguageName("de")
	assert.True(t, ok)
	assert.Equal(t, "German", name)

	codes := SupportedLanguages()
	assert.Len(t, codes, 40)
	assert.Equal(t, "ar", codes[0])
	assert.Equal(t, "zh", codes[len(codes)-1])
}

func TestIsValidDate(t *testing.T) {
	assert.True(t, IsValidDate("2024-02-29"))
	assert.False(t, IsValidDate("2023-02-29"))
	assert.False(t, IsValidDate("2024-1-01"))
	assert.False(t, IsValidDate("24-01-01"))
	assert.False(t, IsValidDate(""))
}

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilters(t *testing.T) {
	tests := []struct {
		name     string
		input    FilterInput
		expected SanitizedFilters
	}{
		{
			name:     "nil input",
			input:    nil,
			expected: SanitizedFilters{},
		},
		{
			name: "trims text and drops blank text",
			input: FilterInput{
				"textSearch": "   ",
				"from":       "  ",
			},
			expected: SanitizedFilters{},
		},
		{
			name: "strips a single leading at from usernames",
			input: FilterInput{
				"from":   " @SpaceX ",
				"toUser": "@nasa",
			},
			expected: SanitizedFilters{From: "SpaceX", To: "nasa"},
		},
		{
			name: "coerces counts and drops non positive ones",
			input: FilterInput{
				"likesMin":    "42",
				"minRetweets": 0,
			},
			expected: SanitizedFilters{LikesMin: 42},
		},
		{
			name: "drops invalid counts",
			input: FilterInput{
				"likesMin":    "abc",
				"retweetsMin": 2.5,
			},
			expected: SanitizedFilters{},
		},
		{
			name: "keeps only calendar dates",
			input: FilterInput{
				"since": " 2024-01-01 ",
				"until": "2024-02-30",
			},
			expected: SanitizedFilters{Since: "2024-01-01"},
		},
		{
			name:     "lowercases language",
			input:    FilterInput{"lang": "EN"},
			expected: SanitizedFilters{Language: "en"},
		},
		{
			name:     "suppresses the default language in any case",
			input:    FilterInput{"language": "TR"},
			expected: SanitizedFilters{},
		},
		{
			name: "booleans only when strictly true",
			input: FilterInput{
				"media":      true,
				"hasImages":  "true",
				"hasVideos":  1,
				"isQuestion": true,
				"isReply":    false,
			},
			expected: SanitizedFilters{HasMedia: true, IsQuestion: true},
		},
		{
			name: "sequences pass through",
			input: FilterInput{
				"hashtags":     []interface{}{"#bitcoin", "ethereum", ""},
				"excludeWords": "spam, ads",
			},
			expected: SanitizedFilters{
				Hashtags:     []string{"#bitcoin", "ethereum"},
				ExcludeWords: []string{"spam", "ads"},
			},
		},
		{
			name: "unknown and denied keys are dropped",
			input: FilterInput{
				"__proto__":     FilterInput{"isAdmin": true},
				"constructor":   "x",
				"somethingElse": "y",
				"textSearch":    "ok",
			},
			expected: SanitizedFilters{TextSearch: "ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilters(tt.input))
		})
	}
}

func TestSanitizeFilters_CanonicalWinsOverAlias(t *testing.T) {
	got := SanitizeFilters(FilterInput{
		"from":        "canonical",
		"fromUser":    "alias",
		"retweetsMin": 10,
		"minRetweets": 99,
		"language":    "de",
		"lang":        "fr",
		"hasMedia":    false,
		"media":       true,
	})

	assert.Equal(t, "canonical", got.From)
	assert.Equal(t, int64(10), got.RetweetsMin)
	assert.Equal(t, "de", got.Language)
	// false is a supplied value, so the alias does not apply
	assert.False(t, got.HasMedia)
}

func TestSanitizeFilters_Idempotent(t *testing.T) {
	inputs := []FilterInput{
		{
			"textSearch":   "  space launch ",
			"fromUser":     "@SpaceX",
			"to":           "nasa",
			"since":        "2024-01-01",
			"until":        "2024-03-01",
			"likesMin":     "1000",
			"minRetweets":  50.0,
			"lang":         "EN",
			"media":        true,
			"hasVideos":    true,
			"isReply":      true,
			"hashtags":     []string{"#space", "rockets"},
			"excludeWords": []string{"spam"},
		},
		DefaultFilters(),
		{"language": "tr", "hasImages": true},
	}

	for _, input := range inputs {
		once := SanitizeFilters(input)
		twice := SanitizeFilters(once.ToMap())
		assert.Equal(t, once, twice)
	}
}

func TestSanitizedFilters_ToMap(t *testing.T) {
	s := SanitizedFilters{
		TextSearch: "go",
		LikesMin:   5,
		HasMedia:   true,
		Hashtags:   []string{"golang"},
	}

	m := s.ToMap()
	assert.Equal(t, FilterInput{
		"textSearch": "go",
		"likesMin":   int64(5),
		"hasMedia":   true,
		"hashtags":   []string{"golang"},
	}, m)

	// the map owns its slices
	m["hashtags"].([]string)[0] = "changed"
	assert.Equal(t, "golang", s.Hashtags[0])
}

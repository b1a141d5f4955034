package searchurl

import (
	"testing"

	"twitter-search-builder/internal/filters"

	"github.com/stretchr/testify/assert"
)

func TestBuilder_Query_FragmentOrder(t *testing.T) {
	b := NewBuilder("")

	got := b.Query(filters.SanitizedFilters{
		TextSearch:   "launch",
		From:         "SpaceX",
		To:           "nasa",
		Since:        "2024-01-01",
		Until:        "2024-02-01",
		LikesMin:     10,
		RetweetsMin:  5,
		Language:     "en",
		HasMedia:     true,
		HasImages:    true,
		HasVideos:    true,
		IsQuestion:   true,
		IsReply:      true,
		Hashtags:     []string{"#space", "rockets"},
		ExcludeWords: []string{"spam", "ads"},
	})

	assert.Equal(t,
		"launch from:SpaceX to:nasa since:2024-01-01 until:2024-02-01 min_faves:10 min_retweets:5 "+
			"lang:en filter:media filter:images filter:videos ? filter:replies #space #rockets -spam -ads",
		got)
}

func TestBuilder_Build(t *testing.T) {
	tests := []struct {
		name     string
		filters  filters.SanitizedFilters
		expected string
	}{
		{
			name:     "empty filters",
			filters:  filters.SanitizedFilters{},
			expected: "https://twitter.com/search?q=",
		},
		{
			name:     "text, from and to",
			filters:  filters.SanitizedFilters{TextSearch: "space", From: "SpaceX", To: "nasa"},
			expected: "https://twitter.com/search?q=space%20from%3ASpaceX%20to%3Anasa",
		},
		{
			name:     "hashtags never double the symbol",
			filters:  filters.SanitizedFilters{Hashtags: []string{"#bitcoin", "ethereum"}},
			expected: "https://twitter.com/search?q=%23bitcoin%20%23ethereum",
		},
		{
			name:     "repeated leading symbols collapse to one",
			filters:  filters.SanitizedFilters{Hashtags: []string{"##btc", "###eth"}},
			expected: "https://twitter.com/search?q=%23btc%20%23eth",
		},
		{
			name:     "question token is encoded",
			filters:  filters.SanitizedFilters{TextSearch: "why", IsQuestion: true},
			expected: "https://twitter.com/search?q=why%20%3F",
		},
		{
			name:     "blank sequence entries are skipped",
			filters:  filters.SanitizedFilters{Hashtags: []string{"#", " "}, ExcludeWords: []string{""}},
			expected: "https://twitter.com/search?q=",
		},
	}

	b := NewBuilder(DefaultBaseURL)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, b.Build(tt.filters))
		})
	}
}

func TestBuilder_CustomBaseURL(t *testing.T) {
	b := &Builder{BaseURL: "https://x.com/search"}
	assert.Equal(t, "https://x.com/search?q=go", b.Build(filters.SanitizedFilters{TextSearch: "go"}))

	var zero Builder
	assert.Equal(t, DefaultBaseURL+"?q=", zero.Build(filters.SanitizedFilters{}))
}

func TestEncodeURIComponent(t *testing.T) {
	tests := []struct {
		in  string
		out string
	}{
		{"a b", "a%20b"},
		{"#:@?/&", "%23%3A%40%3F%2F%26"},
		{"a+b=c", "a%2Bb%3Dc"},
		{"it's (ok)!*", "it's%20(ok)!*"},
		{"-_.~", "-_.~"},
		{`"exact"`, "%22exact%22"},
		{"şehir", "%C5%9Fehir"},
		{"%21", "%2521"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.out, encodeURIComponent(tt.in))
		})
	}
}

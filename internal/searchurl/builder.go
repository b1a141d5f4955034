// Package searchurl assembles X/Twitter advanced-search URLs from sanitized filters.
package searchurl

import (
	"net/url"
	"strconv"
	"strings"

	"twitter-search-builder/internal/filters"
)

const DefaultBaseURL = "https://twitter.com/search"

// Builder turns sanitized filters into a query string and search URL. It never validates.
type Builder struct {
	BaseURL string
}

func NewBuilder(baseURL string) *Builder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Builder{BaseURL: baseURL}
}

// Query joins the operator fragments in their fixed order with single spaces.
func (b *Builder) Query(f filters.SanitizedFilters) string {
	return strings.Join(fragments(f), " ")
}

// Build returns "<base>?q=" for an empty query and "<base>?q=<encoded>" otherwise.
func (b *Builder) Build(f filters.SanitizedFilters) string {
	base := b.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	query := b.Query(f)
	if query == "" {
		return base + "?q="
	}
	return base + "?q=" + encodeURIComponent(query)
}

func fragments(f filters.SanitizedFilters) []string {
	var parts []string

	if f.TextSearch != "" {
		parts = append(parts, f.TextSearch)
	}
	if f.From != "" {
		parts = append(parts, "from:"+f.From)
	}
	if f.To != "" {
		parts = append(parts, "to:"+f.To)
	}
	if f.Since != "" {
		parts = append(parts, "since:"+f.Since)
	}
	if f.Until != "" {
		parts = append(parts, "until:"+f.Until)
	}
	if f.LikesMin > 0 {
		parts = append(parts, "min_faves:"+strconv.FormatInt(f.LikesMin, 10))
	}
	if f.RetweetsMin > 0 {
		parts = append(parts, "min_retweets:"+strconv.FormatInt(f.RetweetsMin, 10))
	}
	if f.Language != "" {
		parts = append(parts, "lang:"+f.Language)
	}
	if f.HasMedia {
		parts = append(parts, "filter:media")
	}
	if f.HasImages {
		parts = append(parts, "filter:images")
	}
	if f.HasVideos {
		parts = append(parts, "filter:videos")
	}
	if f.IsQuestion {
		parts = append(parts, "?")
	}
	if f.IsReply {
		parts = append(parts, "filter:replies")
	}
	for _, tag := range f.Hashtags {
		tag = strings.TrimLeft(strings.TrimSpace(tag), "#")
		if tag != "" {
			parts = append(parts, "#"+tag)
		}
	}
	for _, word := range f.ExcludeWords {
		word = strings.TrimSpace(word)
		if word != "" {
			parts = append(parts, "-"+word)
		}
	}

	return parts
}

// componentUnescapes undoes QueryEscape for the characters a URI component leaves as-is.
var componentUnescapes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent percent-encodes everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ).
func encodeURIComponent(s string) string {
	return componentUnescapes.Replace(url.QueryEscape(s))
}

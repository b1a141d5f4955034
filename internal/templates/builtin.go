package templates

import (
	"time"

	"twitter-search-builder/internal/filters"
)

// excludeRetweets hides plain retweets through the exclusion list ("-filter:retweets").
var excludeRetweets = []string{"filter:retweets"}

// BuiltIn returns the shipped presets. Date-based presets are computed from now.
func BuiltIn(now func() time.Time) []Template {
	if now == nil {
		now = time.Now
	}
	daysAgo := func(d time.Duration) string {
		return now().UTC().Add(-d).Format("2006-01-02")
	}

	return []Template{
		{
			ID:          "viral-content",
			Name:        "Viral content",
			Description: "Popular posts with high engagement",
			Icon:        "🚀",
			Filters: filters.FilterInput{
				filters.FieldLikesMin:    "1000",
				filters.FieldRetweetsMin: "500",
				filters.FieldLanguage:    filters.DefaultLanguage,
			},
		},
		{
			ID:          "questions",
			Name:        "Questions",
			Description: "Posts asking a question",
			Icon:        "❓",
			Filters: filters.FilterInput{
				filters.FieldIsQuestion:   true,
				filters.FieldLanguage:     filters.DefaultLanguage,
				filters.FieldExcludeWords: excludeRetweets,
			},
		},
		{
			ID:          "media-content",
			Name:        "Media",
			Description: "Posts with an image or a video",
			Icon:        "📸",
			Filters: filters.FilterInput{
				filters.FieldHasMedia: true,
				filters.FieldLikesMin: "100",
			},
		},
		{
			ID:          "user-engagement",
			Name:        "User engagement",
			Description: "Replies and mentions sent to one account",
			Icon:        "💬",
			Filters: filters.FilterInput{
				// filled in by the user
				filters.FieldTo:           "",
				filters.FieldExcludeWords: excludeRetweets,
			},
		},
		{
			ID:          "recent-popular",
			Name:        "Popular in the last 24 hours",
			Description: "Content that took off during the last day",
			Icon:        "📈",
			Filters: filters.FilterInput{
				filters.FieldSince:    daysAgo(24 * time.Hour),
				filters.FieldLikesMin: "500",
				filters.FieldLanguage: filters.DefaultLanguage,
			},
		},
		{
			ID:          "tech-news",
			Name:        "Tech news",
			Description: "Technology news with links",
			Icon:        "💻",
			Filters: filters.FilterInput{
				filters.FieldTextSearch:   "teknoloji OR yapay zeka OR AI OR blockchain filter:links",
				filters.FieldExcludeWords: excludeRetweets,
				filters.FieldLanguage:     filters.DefaultLanguage,
			},
		},
		{
			ID:          "breaking-news",
			Name:        "Breaking news",
			Description: "Breaking news from the last hours",
			Icon:        "🔴",
			Filters: filters.FilterInput{
				filters.FieldTextSearch:   `"son dakika" OR "breaking" OR "acil"`,
				filters.FieldSince:        daysAgo(6 * time.Hour),
				filters.FieldExcludeWords: excludeRetweets,
			},
		},
		{
			ID:          "with-images",
			Name:        "Images",
			Description: "Only posts containing images",
			Icon:        "🖼️",
			Filters: filters.FilterInput{
				filters.FieldHasImages:    true,
				filters.FieldExcludeWords: excludeRetweets,
			},
		},
		{
			ID:          "with-videos",
			Name:        "Videos",
			Description: "Only posts containing videos",
			Icon:        "🎥",
			Filters: filters.FilterInput{
				filters.FieldHasVideos:    true,
				filters.FieldExcludeWords: excludeRetweets,
			},
		},
		{
			ID:          "from-verified",
			Name:        "Verified accounts",
			Description: "Only posts from verified accounts",
			Icon:        "✓",
			Filters: filters.FilterInput{
				filters.FieldTextSearch:   "filter:verified",
				filters.FieldExcludeWords: excludeRetweets,
			},
		},
	}
}

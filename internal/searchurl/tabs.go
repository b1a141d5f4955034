package searchurl

import (
	"strings"

	apperrors "twitter-search-builder/internal/common/errors"
)

// SortTab selects the results tab of the search page.
type SortTab string

const (
	TabTop    SortTab = "top"
	TabLatest SortTab = "live"
	TabPeople SortTab = "user"
	TabPhotos SortTab = "image"
	TabVideos SortTab = "video"
)

var sortTabs = []SortTab{TabTop, TabLatest, TabPeople, TabPhotos, TabVideos}

// SortTabs returns the tab vocabulary in display order.
func SortTabs() []SortTab {
	return append([]SortTab(nil), sortTabs...)
}

func ParseSortTab(s string) (SortTab, error) {
	tab := SortTab(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range sortTabs {
		if tab == known {
			return tab, nil
		}
	}
	return "", apperrors.NewInvalidSortTabError(s)
}

// WithTab appends f=<tab> to a search URL. URLs without a query are returned unchanged.
func WithTab(searchURL string, tab SortTab) (string, error) {
	parsed, err := ParseSortTab(string(tab))
	if err != nil {
		return "", err
	}
	if !HasQuery(searchURL) {
		return searchURL, nil
	}
	return searchURL + "&f=" + string(parsed), nil
}

// HasQuery reports whether a generated URL carries a non-empty q parameter.
func HasQuery(searchURL string) bool {
	i := strings.Index(searchURL, "?q=")
	if i < 0 {
		return false
	}
	rest := searchURL[i+len("?q="):]
	return rest != "" && !strings.HasPrefix(rest, "&")
}

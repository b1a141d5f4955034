package searchurl

import (
	"testing"

	apperrors "twitter-search-builder/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortTab(t *testing.T) {
	tab, err := ParseSortTab(" LIVE ")
	require.NoError(t, err)
	assert.Equal(t, TabLatest, tab)

	_, err = ParseSortTab("latest")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidSortTab))
}

func TestWithTab(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		tab      SortTab
		expected string
		wantErr  bool
	}{
		{name: "appends to a query", url: DefaultBaseURL + "?q=go", tab: TabLatest, expected: DefaultBaseURL + "?q=go&f=live"},
		{name: "normalizes case", url: DefaultBaseURL + "?q=go", tab: SortTab("Image"), expected: DefaultBaseURL + "?q=go&f=image"},
		{name: "empty query unchanged", url: DefaultBaseURL + "?q=", tab: TabVideos, expected: DefaultBaseURL + "?q="},
		{name: "unknown tab", url: DefaultBaseURL + "?q=go", tab: SortTab("photos"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithTab(tt.url, tt.tab)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSortTabs(t *testing.T) {
	tabs := SortTabs()
	assert.Equal(t, []SortTab{"top", "live", "user", "image", "video"}, tabs)

	tabs[0] = "changed"
	assert.Equal(t, TabTop, SortTabs()[0])
}

func TestHasQuery(t *testing.T) {
	assert.False(t, HasQuery(DefaultBaseURL+"?q="))
	assert.False(t, HasQuery(DefaultBaseURL))
	assert.True(t, HasQuery(DefaultBaseURL+"?q=a"))
}

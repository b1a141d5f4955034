package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"twitter-search-builder/internal/filters"
	"twitter-search-builder/internal/history"
	"twitter-search-builder/internal/templates"

	"github.com/fatih/color"
)

// CLI output formatters
var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
)

const timestampLayout = "2006-01-02 15:04"

func outputAsJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func printField(w io.Writer, key, value string) {
	if value == "" {
		value = "(not set)"
	}
	fmt.Fprintf(w, "  %-14s %s\n", key+":", value)
}

func printValidationErrors(w io.Writer, errs []filters.ValidationError) {
	errorColor.Fprintf(w, "Invalid filters (%d):\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(w, "  %s %s: %s\n", errorColor.Sprint("✗"), e.Field, e.Message)
		fmt.Fprintf(w, "    code: %s\n", e.Code)
	}
}

// formatFilters renders a filter mapping as sorted key=value pairs.
func formatFilters(f filters.FilterInput) string {
	if len(f) == 0 {
		return ""
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, f[k]))
	}
	return strings.Join(parts, " ")
}

func formatFavorite(isFavorite bool) string {
	if isFavorite {
		return warningColor.Sprint("★")
	}
	return " "
}

func printHistoryList(w io.Writer, items []history.Item) {
	if len(items) == 0 {
		infoColor.Fprintln(w, "No saved searches")
		return
	}

	headerColor.Fprintf(w, "%-2s %-36s %-16s %s\n", "", "ID", "SAVED", "TITLE")
	for _, item := range items {
		fmt.Fprintf(w, "%-2s %-36s %-16s %s\n",
			formatFavorite(item.IsFavorite),
			item.ID,
			item.Timestamp.Local().Format(timestampLayout),
			item.Title,
		)
	}
}

func printHistoryItem(w io.Writer, item *history.Item) {
	headerColor.Fprintln(w, item.Title)
	printField(w, "ID", item.ID)
	printField(w, "URL", item.URL)
	printField(w, "Saved", item.Timestamp.Local().Format(time.RFC3339))
	printField(w, "Favorite", fmt.Sprintf("%t", item.IsFavorite))
	printField(w, "Filters", formatFilters(item.Filters))
}

func printTemplateList(w io.Writer, list []templates.Template) {
	headerColor.Fprintf(w, "%-18s %-22s %s\n", "ID", "NAME", "DESCRIPTION")
	for _, t := range list {
		fmt.Fprintf(w, "%-18s %-22s %s\n", t.ID, t.Icon+" "+t.Name, t.Description)
	}
}

func printTemplate(w io.Writer, t templates.Template) {
	headerColor.Fprintf(w, "%s %s\n", t.Icon, t.Name)
	printField(w, "ID", t.ID)
	printField(w, "Description", t.Description)
	printField(w, "Filters", formatFilters(t.Filters))
}

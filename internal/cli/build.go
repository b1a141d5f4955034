package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	apperrors "twitter-search-builder/internal/common/errors"
	"twitter-search-builder/internal/filters"
	"twitter-search-builder/internal/history"
	"twitter-search-builder/internal/searchurl"

	"github.com/spf13/cobra"
)

type buildOptions struct {
	text        string
	from        string
	to          string
	since       string
	until       string
	likesMin    string
	retweetsMin string
	language    string
	media       bool
	images      bool
	videos      bool
	question    bool
	reply       bool
	hashtags    []string
	exclude     []string

	filtersFile string
	template    string
	tab         string
	save        bool
	title       string
	lenient     bool
}

// buildOutput is the JSON shape of a build; Saved is set only with --save.
type buildOutput struct {
	searchurl.Result
	Saved *history.Item `json:"saved,omitempty"`
}

// flagFields maps form flags to the filter field they set.
var flagFields = []struct {
	flag  string
	field string
}{
	{"text", filters.FieldTextSearch},
	{"from", filters.FieldFrom},
	{"to", filters.FieldTo},
	{"since", filters.FieldSince},
	{"until", filters.FieldUntil},
	{"likes-min", filters.FieldLikesMin},
	{"retweets-min", filters.FieldRetweetsMin},
	{"lang", filters.FieldLanguage},
	{"media", filters.FieldHasMedia},
	{"images", filters.FieldHasImages},
	{"videos", filters.FieldHasVideos},
	{"question", filters.FieldIsQuestion},
	{"reply", filters.FieldIsReply},
	{"hashtag", filters.FieldHashtags},
	{"exclude", filters.FieldExcludeWords},
}

func (a *App) newBuildCmd() *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Validate filters and print the search URL",
		Long: `Validate filters and print the search URL.

Filters are layered in this order: the empty form, --template, --filters and
finally any form flag given on the command line.`,
		Example: `  xsearch build --text deprem --lang en --likes-min 100
  xsearch build --template viral-content --from nasa --tab live
  xsearch build --filters search.json --save --title "Launch coverage"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBuild(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.text, "text", "", "Free text, may contain quoted phrases")
	f.StringVar(&opts.from, "from", "", "Only posts from this username")
	f.StringVar(&opts.to, "to", "", "Only replies to this username")
	f.StringVar(&opts.since, "since", "", "Start date (YYYY-MM-DD)")
	f.StringVar(&opts.until, "until", "", "End date (YYYY-MM-DD)")
	f.StringVar(&opts.likesMin, "likes-min", "", "Minimum number of likes")
	f.StringVar(&opts.retweetsMin, "retweets-min", "", "Minimum number of retweets")
	f.StringVar(&opts.language, "lang", "", "Two-letter language code")
	f.BoolVar(&opts.media, "media", false, "Only posts with media")
	f.BoolVar(&opts.images, "images", false, "Only posts with images")
	f.BoolVar(&opts.videos, "videos", false, "Only posts with videos")
	f.BoolVar(&opts.question, "question", false, "Only posts containing a question mark")
	f.BoolVar(&opts.reply, "reply", false, "Only replies")
	f.StringArrayVar(&opts.hashtags, "hashtag", nil, "Hashtag to include (repeatable)")
	f.StringArrayVar(&opts.exclude, "exclude", nil, "Word to exclude (repeatable)")

	f.StringVarP(&opts.filtersFile, "filters", "f", "", "JSON file with a filter mapping")
	f.StringVarP(&opts.template, "template", "t", "", "Template to start from")
	f.StringVar(&opts.tab, "tab", "", "Results tab: top, live, user, image or video (default from config)")
	f.BoolVar(&opts.save, "save", false, "Save the search to history")
	f.StringVar(&opts.title, "title", "", "Title for the saved search")
	f.BoolVar(&opts.lenient, "lenient-usernames", false, "Accept a leading '@' in usernames")

	return cmd
}

func (a *App) runBuild(cmd *cobra.Command, opts *buildOptions) error {
	form, err := a.assembleForm(cmd, opts)
	if err != nil {
		return a.fail("build", err)
	}

	result := a.generator(opts.lenient).Create(form)
	if !result.OK() {
		if a.outputJSON {
			if err := outputAsJSON(a.out, buildOutput{Result: result}); err != nil {
				return err
			}
		} else {
			printValidationErrors(a.errOut, result.Errors)
		}
		return &exitError{code: 1, reason: apperrors.NewFilterValidationFailedError(codesOf(result.Errors)).Error()}
	}

	tab := opts.tab
	if !cmd.Flags().Changed("tab") {
		tab = a.cfg.Search.DefaultTab
	}
	if tab != "" {
		tabbed, err := searchurl.WithTab(result.URL, searchurl.SortTab(tab))
		if err != nil {
			return a.fail("build", err)
		}
		result.URL = tabbed
	}

	out := buildOutput{Result: result}
	if opts.save {
		saved, err := a.saveSearch(result, opts.title)
		if err != nil {
			return a.fail("build", err)
		}
		out.Saved = saved
	}

	if a.outputJSON {
		return outputAsJSON(a.out, out)
	}

	fmt.Fprintln(a.out, result.URL)
	if !searchurl.HasQuery(result.URL) {
		warningColor.Fprintln(a.errOut, "No filters set; the URL opens an empty search")
	}
	if out.Saved != nil {
		successColor.Fprintf(a.errOut, "✓ Saved as %s\n", out.Saved.ID)
	}
	return nil
}

// assembleForm layers the empty form, the template, the filters file and the changed flags.
func (a *App) assembleForm(cmd *cobra.Command, opts *buildOptions) (filters.FilterInput, error) {
	form := filters.DefaultFilters()

	if opts.template != "" {
		catalog, err := a.templateCatalog()
		if err != nil {
			return nil, err
		}
		form, err = catalog.Apply(opts.template, form)
		if err != nil {
			return nil, err
		}
	}

	if opts.filtersFile != "" {
		fromFile, err := readFiltersFile(opts.filtersFile)
		if err != nil {
			return nil, err
		}
		form = filters.Merge(form, fromFile)
	}

	values := map[string]interface{}{
		"text":         opts.text,
		"from":         opts.from,
		"to":           opts.to,
		"since":        opts.since,
		"until":        opts.until,
		"likes-min":    opts.likesMin,
		"retweets-min": opts.retweetsMin,
		"lang":         opts.language,
		"media":        opts.media,
		"images":       opts.images,
		"videos":       opts.videos,
		"question":     opts.question,
		"reply":        opts.reply,
		"hashtag":      opts.hashtags,
		"exclude":      opts.exclude,
	}

	updates := filters.FilterInput{}
	for _, ff := range flagFields {
		if cmd.Flags().Changed(ff.flag) {
			updates[ff.field] = values[ff.flag]
		}
	}
	return filters.Merge(form, updates), nil
}

// readFiltersFile decodes a JSON object, keeping numbers as json.Number.
func readFiltersFile(path string) (filters.FilterInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read filters file: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var raw map[string]interface{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse filters file %s: %w", path, err)
	}
	return filters.FilterInput(raw), nil
}

func (a *App) saveSearch(result searchurl.Result, title string) (*history.Item, error) {
	if !searchurl.HasQuery(result.URL) {
		warningColor.Fprintln(a.errOut, "Empty search not saved")
		return nil, nil
	}

	ctx, cancel := a.commandContext()
	defer cancel()

	store, err := a.historyStore(ctx)
	if err != nil {
		return nil, err
	}
	return store.Add(ctx, result.Filters, result.URL, title)
}

func codesOf(errs []filters.ValidationError) []string {
	codes := make([]string, len(errs))
	for i, e := range errs {
		codes[i] = string(e.Code)
	}
	return codes
}

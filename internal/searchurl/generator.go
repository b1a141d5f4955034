package searchurl

import (
	"twitter-search-builder/internal/common/logger"
	"twitter-search-builder/internal/common/metrics"
	"twitter-search-builder/internal/filters"
)

// Result is the outcome of CreateSearchURL. On validation failure URL is empty and Errors holds
// every violation; on success Errors is nil and Filters is the canonical mapping behind URL.
type Result struct {
	URL     string                    `json:"url"`
	Errors  []filters.ValidationError `json:"errors,omitempty"`
	Filters filters.FilterInput       `json:"filters,omitempty"`
}

func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Generator runs validate then build. An invalid mapping never reaches the builder.
type Generator struct {
	validator *filters.Validator
	builder   *Builder
	logger    logger.Logger
}

func NewGenerator(validator *filters.Validator, builder *Builder, log logger.Logger) *Generator {
	if validator == nil {
		validator = filters.NewValidator()
	}
	if builder == nil {
		builder = NewBuilder(DefaultBaseURL)
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Generator{
		validator: validator,
		builder:   builder,
		logger:    log,
	}
}

var defaultGenerator = NewGenerator(nil, nil, nil)

// CreateSearchURL validates input with the strict username policy and assembles the search URL.
func CreateSearchURL(input interface{}) Result {
	return defaultGenerator.Create(input)
}

func (g *Generator) Create(input interface{}) Result {
	validation := g.validator.ValidateFilters(input)
	if !validation.IsValid {
		for _, e := range validation.Errors {
			metrics.FilterValidationFailures.WithLabelValues(e.Field, string(e.Code)).Inc()
		}
		g.logger.Debug("Search filters rejected", map[string]interface{}{
			"errorCount": len(validation.Errors),
			"codes":      validation.Codes(),
		})
		return Result{URL: "", Errors: validation.Errors}
	}

	var sanitized filters.SanitizedFilters
	if validation.SanitizedFilters != nil {
		sanitized = *validation.SanitizedFilters
	}

	url := g.builder.Build(sanitized)
	metrics.SearchURLsGenerated.Inc()
	if !HasQuery(url) {
		metrics.SearchURLsEmpty.Inc()
	}

	g.logger.Debug("Search URL generated", map[string]interface{}{
		"url": url,
	})

	return Result{URL: url, Filters: sanitized.ToMap()}
}

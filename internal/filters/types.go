package filters

import (
	apperrors "twitter-search-builder/internal/common/errors"
)

// ValidationError describes one rejected field.
type ValidationError struct {
	Field   string              `json:"field"`
	Message string              `json:"message"`
	Code    apperrors.ErrorCode `json:"code"`
}

// ValidationResult is the outcome of a validation pass. SanitizedFilters is set only when IsValid.
type ValidationResult struct {
	IsValid          bool              `json:"isValid"`
	Errors           []ValidationError `json:"errors"`
	SanitizedFilters *SanitizedFilters `json:"sanitizedFilters,omitempty"`
}

// Codes returns the error codes in order, mostly for logging and metrics.
func (r ValidationResult) Codes() []string {
	codes := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		codes[i] = string(e.Code)
	}
	return codes
}

// Messages returns the user-facing messages in order.
func (r ValidationResult) Messages() []string {
	messages := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		messages[i] = e.Message
	}
	return messages
}

// SanitizedFilters is a validated, canonical filter set. Zero values mean "not set".
type SanitizedFilters struct {
	TextSearch   string   `json:"textSearch,omitempty"`
	From         string   `json:"from,omitempty"`
	To           string   `json:"to,omitempty"`
	Since        string   `json:"since,omitempty"`
	Until        string   `json:"until,omitempty"`
	LikesMin     int64    `json:"likesMin,omitempty"`
	RetweetsMin  int64    `json:"retweetsMin,omitempty"`
	Language     string   `json:"language,omitempty"`
	HasMedia     bool     `json:"hasMedia,omitempty"`
	HasImages    bool     `json:"hasImages,omitempty"`
	HasVideos    bool     `json:"hasVideos,omitempty"`
	IsQuestion   bool     `json:"isQuestion,omitempty"`
	IsReply      bool     `json:"isReply,omitempty"`
	Hashtags     []string `json:"hashtags,omitempty"`
	ExcludeWords []string `json:"excludeWords,omitempty"`
}

// ToMap returns the canonical mapping with unset fields omitted.
func (s SanitizedFilters) ToMap() FilterInput {
	m := FilterInput{}
	setString := func(key, v string) {
		if v != "" {
			m[key] = v
		}
	}
	setBool := func(key string, v bool) {
		if v {
			m[key] = true
		}
	}

	setString(FieldTextSearch, s.TextSearch)
	setString(FieldFrom, s.From)
	setString(FieldTo, s.To)
	setString(FieldSince, s.Since)
	setString(FieldUntil, s.Until)
	if s.LikesMin > 0 {
		m[FieldLikesMin] = s.LikesMin
	}
	if s.RetweetsMin > 0 {
		m[FieldRetweetsMin] = s.RetweetsMin
	}
	setString(FieldLanguage, s.Language)
	setBool(FieldHasMedia, s.HasMedia)
	setBool(FieldHasImages, s.HasImages)
	setBool(FieldHasVideos, s.HasVideos)
	setBool(FieldIsQuestion, s.IsQuestion)
	setBool(FieldIsReply, s.IsReply)
	if len(s.Hashtags) > 0 {
		m[FieldHashtags] = append([]string(nil), s.Hashtags...)
	}
	if len(s.ExcludeWords) > 0 {
		m[FieldExcludeWords] = append([]string(nil), s.ExcludeWords...)
	}
	return m
}

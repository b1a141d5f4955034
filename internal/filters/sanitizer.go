package filters

import "strings"

// SanitizeFilters canonicalizes a mapping that has already passed validation. Aliases are resolved
// (canonical wins), strings trimmed, one leading '@' stripped from usernames, counts kept only when
// above zero, the default language dropped, booleans kept only when strictly true and unknown or
// deny-listed keys dropped. It never fails; values it cannot interpret are omitted.
func SanitizeFilters(input FilterInput) SanitizedFilters {
	var out SanitizedFilters
	if input == nil {
		return out
	}

	f := resolveAliases(input)

	if text, ok := f[FieldTextSearch].(string); ok {
		out.TextSearch = strings.TrimSpace(text)
	}

	out.From = sanitizeUsername(f[FieldFrom])
	out.To = sanitizeUsername(f[FieldTo])

	if n, ok := positiveInteger(f[FieldLikesMin]); ok {
		out.LikesMin = n
	}
	if n, ok := positiveInteger(f[FieldRetweetsMin]); ok {
		out.RetweetsMin = n
	}

	out.Since = sanitizeDate(f[FieldSince])
	out.Until = sanitizeDate(f[FieldUntil])

	if lang, ok := f[FieldLanguage].(string); ok {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang != DefaultLanguage {
			out.Language = lang
		}
	}

	out.HasMedia = isTrue(f[FieldHasMedia])
	out.HasImages = isTrue(f[FieldHasImages])
	out.HasVideos = isTrue(f[FieldHasVideos])
	out.IsQuestion = isTrue(f[FieldIsQuestion])
	out.IsReply = isTrue(f[FieldIsReply])

	out.Hashtags = toStringSlice(f[FieldHashtags])
	out.ExcludeWords = toStringSlice(f[FieldExcludeWords])

	return out
}

func sanitizeUsername(raw interface{}) string {
	s, ok := raw.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "@")
	return strings.TrimSpace(s)
}

func sanitizeDate(raw interface{}) string {
	s, ok := raw.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if !IsValidDate(s) {
		return ""
	}
	return s
}

func isTrue(raw interface{}) bool {
	b, ok := raw.(bool)
	return ok && b
}

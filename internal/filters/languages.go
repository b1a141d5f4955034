package filters

import (
	"sort"
	"strings"
)

// supportedLanguages is the language allow-list offered by the search form.
var supportedLanguages = map[string]string{
	"ar": "Arabic",
	"bg": "Bulgarian",
	"ca": "Catalan",
	"cs": "Czech",
	"da": "Danish",
	"de": "German",
	"el": "Greek",
	"en": "English",
	"es": "Spanish",
	"et": "Estonian",
	"fa": "Persian",
	"fi": "Finnish",
	"fr": "French",
	"he": "Hebrew",
	"hi": "Hindi",
	"hr": "Croatian",
	"hu": "Hungarian",
	"id": "Indonesian",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"lt": "Lithuanian",
	"lv": "Latvian",
	"ms": "Malay",
	"nl": "Dutch",
	"no": "Norwegian",
	"pl": "Polish",
	"pt": "Portuguese",
	"ro": "Romanian",
	"ru": "Russian",
	"sk": "Slovak",
	"sl": "Slovenian",
	"sr": "Serbian",
	"sv": "Swedish",
	"th": "Thai",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"ur": "Urdu",
	"vi": "Vietnamese",
	"zh": "Chinese",
}

// IsSupportedLanguage reports whether code is on the allow-list, ignoring case.
func IsSupportedLanguage(code string) bool {
	_, ok := supportedLanguages[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// LanguageName returns the English display name for a supported code.
func LanguageName(code string) (string, bool) {
	name, ok := supportedLanguages[strings.ToLower(strings.TrimSpace(code))]
	return name, ok
}

// SupportedLanguages returns the allow-list codes in sorted order.
func SupportedLanguages() []string {
	codes := make([]string, 0, len(supportedLanguages))
	for code := range supportedLanguages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

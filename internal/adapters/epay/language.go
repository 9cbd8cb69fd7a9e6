package epay

import "strings"

// Payment window language codes by locale. The window takes a numeric code,
// not a locale tag.
var languageCodes = map[string]string{
	"da": "1",
	"en": "2",
	"sv": "3",
	"no": "4",
	"nb": "4",
	"nn": "4",
	"kl": "5",
	"is": "6",
	"de": "7",
	"fi": "8",
	"es": "9",
	"fr": "10",
	"pl": "11",
	"it": "12",
	"nl": "13",
}

// LanguageCode maps a store locale (e.g. "da_DK") to the payment window's
// language code. Unknown locales fall back to English.
func LanguageCode(locale string) string {
	lang, _, _ := strings.Cut(strings.ToLower(locale), "_")
	if code, ok := languageCodes[lang]; ok {
		return code
	}
	return "2"
}

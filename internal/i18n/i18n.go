// Package i18n holds the fixed set of interface languages, their UI strings, and
// the directive appended to the model's system instruction for each of them.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is one of the supported interface languages, identified by its
// BCP 47 base code.
type Language string

const (
	English    Language = "en"
	Spanish    Language = "es"
	French     Language = "fr"
	Chinese    Language = "zh"
	Vietnamese Language = "vi"
)

// Default is the language a conversation starts in when nothing else is configured.
const Default = English

var supported = []Language{English, Spanish, French, Chinese, Vietnamese}

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Spanish,
	language.French,
	language.Chinese,
	language.Vietnamese,
})

// All returns the supported languages in display order.
func All() []Language {
	out := make([]Language, len(supported))
	copy(out, supported)
	return out
}

// Valid reports whether l is in the supported set.
func (l Language) Valid() bool {
	for _, s := range supported {
		if l == s {
			return true
		}
	}
	return false
}

// Tag returns the language tag for l.
func (l Language) Tag() language.Tag {
	return language.Make(string(l))
}

// NativeName is the language's name written in itself, e.g. "español".
func (l Language) NativeName() string {
	return display.Self.Name(l.Tag())
}

// EnglishName is the language's name in English, e.g. "Spanish".
func (l Language) EnglishName() string {
	return display.Languages(language.English).Name(l.Tag())
}

// Next returns the language after l in display order, wrapping around.
func (l Language) Next() Language {
	for i, s := range supported {
		if s == l {
			return supported[(i+1)%len(supported)]
		}
	}
	return Default
}

// Parse accepts a language code in any common form ("es", "es-MX", "es_MX.UTF-8")
// and returns the supported language it belongs to.
func Parse(s string) (Language, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "_", "-")
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("unknown language %q: %w", s, err)
	}
	base, _ := tag.Base()
	l := Language(base.String())
	if !l.Valid() {
		return "", fmt.Errorf("unsupported language %q", s)
	}
	return l, nil
}

// Negotiate picks the best supported language for an Accept-Language header
// value. It falls back to Default.
func Negotiate(acceptLanguage string) Language {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return supported[idx]
}

// ResponseDirective is appended to the model's system instruction so that the
// answer comes back in the user's language.
func ResponseDirective(l Language) string {
	if !l.Valid() {
		l = Default
	}
	return fmt.Sprintf("Please respond in %s.", l.EnglishName())
}

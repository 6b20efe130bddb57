package naming

import (
	"strings"

	"github.com/gertd/go-pluralize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Pluralizer turns a singular noun into its plural form
type Pluralizer interface {
	Plural(word string) string
}

func NewPluralizer() Pluralizer {
	return pluralize.NewClient()
}

// ResourceName returns the resource noun used in endpoints for a type, e.g. User -> users
func ResourceName(typeName string, pluralizer Pluralizer) string {
	noun := cases.Lower(language.Und).String(strings.TrimSpace(typeName))
	if noun == "" {
		return ""
	}

	if pluralizer == nil {
		pluralizer = NewPluralizer()
	}

	return pluralizer.Plural(noun)
}

package naming

import (
	"testing"

	"github.com/matryer/is"
)

func TestResourceNameIsLowercasedAndPluralized(t *testing.T) {
	is := is.New(t)

	is.Equal(ResourceName("User", nil), "users")
	is.Equal(ResourceName("Category", nil), "categories")
	is.Equal(ResourceName("Person", NewPluralizer()), "people")
}

func TestResourceNameOfEmptyTypeIsEmpty(t *testing.T) {
	is := is.New(t)
	is.Equal(ResourceName("  ", nil), "")
}

func TestResourceNameUsesSuppliedPluralizer(t *testing.T) {
	is := is.New(t)

	p := pluralizerFunc(func(word string) string { return word + "_list" })

	is.Equal(ResourceName("Device", p), "device_list")
}

type pluralizerFunc func(string) string

func (f pluralizerFunc) Plural(word string) string { return f(word) }

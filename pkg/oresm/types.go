package oresm

import (
	"strings"

	"github.com/diwise/oresm/pkg/oresm/client"
	"github.com/diwise/oresm/pkg/oresm/naming"
)

// Attributes maps attribute names to values of a single resource record
type Attributes map[string]any

type State int

const (
	New State = iota
	Clean
	Dirty
	Destroyed
)

func (s State) String() string {
	switch s {
	case New:
		return "new"
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	case Destroyed:
		return "destroyed"
	}
	return "unknown"
}

const DefaultKey string = "id"

type TypeOption func(*Type)

// Host sets the scheme and authority that endpoints are built on, e.g. http://127.0.0.1:8080
func Host(host string) TypeOption {
	return func(t *Type) {
		t.host = strings.TrimRight(host, "/")
	}
}

// Prefix sets the path in front of the resource noun, e.g. api/v1
func Prefix(prefix string) TypeOption {
	return func(t *Type) {
		t.prefix = strings.Trim(prefix, "/")
	}
}

// Resource overrides the resource noun derived from the type name
func Resource(resource string) TypeOption {
	return func(t *Type) {
		t.resource = strings.Trim(resource, "/")
	}
}

// Key names the attribute that identifies a record. The default is "id".
func Key(key string) TypeOption {
	return func(t *Type) {
		if key != "" {
			t.key = key
		}
	}
}

// WithPluralizer replaces the pluralizer used to derive the resource noun
func WithPluralizer(pluralizer naming.Pluralizer) TypeOption {
	return func(t *Type) {
		t.pluralizer = pluralizer
	}
}

// Type holds everything models of one kind share: where their resources live,
// which attribute identifies a record and the transport used to reach them.
type Type struct {
	name     string
	host     string
	prefix   string
	resource string
	key      string

	pluralizer naming.Pluralizer
	transport  client.Transport
}

func NewType(name string, transport client.Transport, options ...TypeOption) *Type {
	t := &Type{
		name:      name,
		key:       DefaultKey,
		transport: transport,
	}

	for _, option := range options {
		option(t)
	}

	if t.resource == "" {
		t.resource = naming.ResourceName(name, t.pluralizer)
	}

	return t
}

func (t *Type) Name() string     { return t.name }
func (t *Type) Host() string     { return t.host }
func (t *Type) Prefix() string   { return t.prefix }
func (t *Type) Resource() string { return t.resource }
func (t *Type) Key() string      { return t.key }

// New creates a model from a record. A nil record gives a model without attributes.
func (t *Type) New(record Attributes) *Model {
	m := &Model{typ: t}
	m.setEntity(record)
	return m
}

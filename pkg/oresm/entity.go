package oresm

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"sort"

	"github.com/diwise/oresm/pkg/oresm/errors"
)

type Model struct {
	typ    *Type
	entity Attributes
	dirty  []string
	state  State
}

func (m *Model) Type() *Type {
	return m.typ
}

func (m *Model) State() State {
	return m.state
}

// setEntity replaces the entity wholesale. Every loaded attribute is marked
// dirty so that a following patch exports the complete record.
func (m *Model) setEntity(record Attributes) {
	m.entity = copyAttributes(record)
	m.dirty = sortedNames(m.entity)

	if m.IsNew() {
		m.state = New
	} else {
		m.state = Clean
	}
}

// Update merges data into the entity. A key that already holds a value is left
// untouched, every other attribute is written as if it was set with Set.
func (m *Model) Update(data Attributes) error {
	if err := m.checkAction(); err != nil {
		return err
	}

	for _, name := range sortedNames(data) {
		if name == m.typ.key && !isEmpty(m.entity[name]) {
			continue
		}

		if err := m.write(name, data[name]); err != nil {
			return err
		}
	}

	return nil
}

// Get returns the current value of an attribute
func (m *Model) Get(name string) (any, bool) {
	v, ok := m.entity[name]
	return v, ok
}

// Set writes an existing attribute and marks it as dirty. New attributes can
// only be introduced with Update.
func (m *Model) Set(name string, value any) error {
	if err := m.checkAction(); err != nil {
		return err
	}

	if !m.Has(name) {
		return errors.NewUnknownAttributeError(fmt.Sprintf("%s has no attribute %q", m.typ.name, name))
	}

	return m.write(name, value)
}

func (m *Model) write(name string, value any) error {
	if name == m.typ.key && !isEmpty(m.entity[name]) {
		return errors.NewKeyImmutableError(fmt.Sprintf("cannot update key %q of %s", name, m.typ.name))
	}

	m.entity[name] = copyValue(value)

	if !slices.Contains(m.dirty, name) {
		m.dirty = append(m.dirty, name)
	}

	if m.IsNew() {
		m.state = New
	} else {
		m.state = Dirty
	}

	return nil
}

func (m *Model) Has(name string) bool {
	_, ok := m.entity[name]
	return ok
}

// Fields returns the names of all attributes, sorted
func (m *Model) Fields() []string {
	return sortedNames(m.entity)
}

// Entity returns a copy of the current attributes
func (m *Model) Entity() Attributes {
	return copyAttributes(m.entity)
}

// Dirty returns the attributes written since the last sync, in the order they were first written
func (m *Model) Dirty() []string {
	return slices.Clone(m.dirty)
}

func (m *Model) ClearDirty() {
	m.dirty = []string{}

	if m.state == Dirty {
		m.state = Clean
	}
}

func (m *Model) KeyValue() any {
	return m.entity[m.typ.key]
}

func (m *Model) IsNew() bool {
	return isEmpty(m.KeyValue())
}

func (m *Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.entity)
}

// isEmpty reports whether v should be treated as an absent value: nil, empty
// strings, false and numeric zero all count as absent.
func isEmpty(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return value == ""
	case bool:
		return !value
	case int:
		return value == 0
	case int8:
		return value == 0
	case int16:
		return value == 0
	case int32:
		return value == 0
	case int64:
		return value == 0
	case uint:
		return value == 0
	case uint8:
		return value == 0
	case uint16:
		return value == 0
	case uint32:
		return value == 0
	case uint64:
		return value == 0
	case float32:
		return value == 0 || math.IsNaN(float64(value))
	case float64:
		return value == 0 || math.IsNaN(value)
	case json.Number:
		if value == "" {
			return true
		}
		f, err := value.Float64()
		return err == nil && f == 0
	}
	return false
}

func sortedNames(attrs Attributes) []string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func copyAttributes(attrs Attributes) Attributes {
	c := make(Attributes, len(attrs))
	for name, value := range attrs {
		c[name] = copyValue(value)
	}
	return c
}

func copyValue(v any) any {
	switch value := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return map[string]any(copyAttributes(value))
	case Attributes:
		return copyAttributes(value)
	case []any:
		c := make([]any, len(value))
		for idx := range value {
			c[idx] = copyValue(value[idx])
		}
		return c
	}
	return copyReflected(reflect.ValueOf(v)).Interface()
}

// copyReflected copies slices and maps of any element type. Other values,
// pointers included, are returned as they are.
func copyReflected(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		c := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for idx := 0; idx < v.Len(); idx++ {
			c.Index(idx).Set(copyElement(v.Index(idx)))
		}
		return c
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		c := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			c.SetMapIndex(iter.Key(), copyElement(iter.Value()))
		}
		return c
	}
	return v
}

func copyElement(e reflect.Value) reflect.Value {
	if e.Kind() != reflect.Interface {
		return copyReflected(e)
	}

	if e.IsNil() {
		return e
	}

	c := reflect.New(e.Type()).Elem()
	c.Set(reflect.ValueOf(copyValue(e.Interface())))
	return c
}

package oresm

import (
	"fmt"

	"github.com/diwise/oresm/pkg/oresm/errors"
)

type Collection []*Model

func (c Collection) Len() int {
	return len(c)
}

// At returns the model at idx, or false when idx is out of range
func (c Collection) At(idx int) (*Model, bool) {
	if idx < 0 || idx >= len(c) {
		return nil, false
	}
	return c[idx], true
}

func (c Collection) Entities() []Attributes {
	entities := make([]Attributes, 0, len(c))
	for _, m := range c {
		entities = append(entities, m.Entity())
	}
	return entities
}

// Collect creates one model of type t per record, keeping the order of records
func Collect(t *Type, records any) (Collection, error) {
	var recs []Attributes

	switch r := records.(type) {
	case []Attributes:
		recs = r
	case []map[string]any:
		recs = make([]Attributes, 0, len(r))
		for _, record := range r {
			recs = append(recs, record)
		}
	case []any:
		recs = make([]Attributes, 0, len(r))
		for idx, record := range r {
			attrs, ok := asAttributes(record)
			if !ok {
				return nil, errors.NewInvalidInputError(fmt.Sprintf("record %d is not an attribute mapping", idx))
			}
			recs = append(recs, attrs)
		}
	default:
		return nil, errors.NewInvalidInputError(fmt.Sprintf("records is not a sequence (%T)", records))
	}

	c := make(Collection, 0, len(recs))
	for _, record := range recs {
		c = append(c, t.New(record))
	}

	return c, nil
}

func asAttributes(v any) (Attributes, bool) {
	switch value := v.(type) {
	case Attributes:
		return value, true
	case map[string]any:
		return value, true
	}
	return nil, false
}

package oresm

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Endpoint returns host/prefix/resource followed by any extra segments. Empty
// parts are left out, so an unset prefix never yields an empty path component.
func (t *Type) Endpoint(segments ...any) string {
	parts := make([]string, 0, 2+len(segments))

	for _, p := range []string{t.prefix, t.resource} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	for _, s := range segments {
		if isEmpty(s) {
			continue
		}
		parts = append(parts, url.PathEscape(formatSegment(s)))
	}

	return t.host + "/" + strings.Join(parts, "/")
}

func (m *Model) Endpoint(segments ...any) string {
	return m.typ.Endpoint(segments...)
}

func (m *Model) EndpointWithKey() string {
	return m.typ.Endpoint(m.KeyValue())
}

func formatSegment(s any) string {
	switch v := s.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case json.Number:
		return v.String()
	}
	return fmt.Sprint(s)
}

package client

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

func Param(name, value string) RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, fmt.Sprintf("%s=%s", url.QueryEscape(name), url.QueryEscape(value)))
	}
}

// Params adds every name/value pair, ordered by name so that the resulting
// query string is stable
func Params(values map[string]string) RequestDecoratorFunc {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(params []string) []string {
		for _, name := range names {
			params = Param(name, values[name])(params)
		}
		return params
	}
}

func Attributes(attrs []string) RequestDecoratorFunc {
	return func(params []string) []string {
		escaped := make([]string, len(attrs))
		for idx, attr := range attrs {
			escaped[idx] = url.QueryEscape(attr)
		}
		return append(params, fmt.Sprintf("attrs=%s", strings.Join(escaped, ",")))
	}
}

func Limit(count uint64) RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, fmt.Sprintf("limit=%d", count))
	}
}

func Offset(offset uint64) RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, fmt.Sprintf("offset=%d", offset))
	}
}

package dump

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// fields renders the exported fields of a payload struct as name=value
// pairs. Byte slices print as their size; other slices print at most
// maxEntries elements (all of them when maxEntries is negative).
func fields(payload any, maxEntries int) string {
	v := reflect.ValueOf(payload)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return ""
	}

	t := v.Type()
	parts := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		parts = append(parts, f.Name+"="+value(v.Field(i), maxEntries))
	}
	return strings.Join(parts, " ")
}

func value(v reflect.Value, maxEntries int) string {
	if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
		return "nil"
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return value(v.Elem(), maxEntries)
	case reflect.String:
		return strconv.Quote(v.String())
	case reflect.Struct:
		return "{" + fields(v.Interface(), maxEntries) + "}"
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return humanize.IBytes(uint64(v.Len()))
		}
		return list(v, maxEntries)
	case reflect.Array:
		return list(v, maxEntries)
	default:
		return fmt.Sprint(v.Interface())
	}
}

func list(v reflect.Value, maxEntries int) string {
	n := v.Len()
	shown := n
	if maxEntries >= 0 {
		shown = min(n, maxEntries)
	}

	items := make([]string, 0, shown+1)
	for i := range shown {
		items = append(items, value(v.Index(i), maxEntries))
	}
	if shown < n {
		items = append(items, fmt.Sprintf("... %s total", humanize.Comma(int64(n))))
	}
	return "[" + strings.Join(items, " ") + "]"
}

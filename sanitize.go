package adminmenu

import (
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// Field sanitizers are total and idempotent: any input shape yields a usable
// value, malformed pieces collapse to empty defaults, and running a sanitizer
// over its own output is a no-op. They are applied on every write boundary
// (save, import) so reads can trust stored documents.

var strictMarkup = bluemonday.StrictPolicy()

// SanitizeText strips markup and control characters, collapses whitespace,
// and trims the result. Entities are decoded to a fixpoint before markup
// stripping so entity-encoded tags cannot survive a pass as live markup.
func SanitizeText(input string) string {
	clean := input
	for {
		decoded := html.UnescapeString(clean)
		if decoded == clean {
			break
		}
		clean = decoded
	}
	clean = strictMarkup.Sanitize(clean)
	clean = html.UnescapeString(clean)
	clean = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, clean)
	return strings.Join(strings.Fields(clean), " ")
}

// SanitizeURL normalizes a logo or icon URL. Anything that does not parse as
// an http(s) or scheme-less URL collapses to the empty string.
func SanitizeURL(input string) string {
	clean := SanitizeText(input)
	if clean == "" {
		return ""
	}
	parsed, err := url.Parse(clean)
	if err != nil {
		return ""
	}
	switch parsed.Scheme {
	case "", "http", "https":
		return clean
	default:
		return ""
	}
}

// SanitizeIDList coerces input into an ordered list of sanitized id strings.
// Non-list input yields an empty list; each element is stringified, stripped,
// and trimmed.
func SanitizeIDList(input any) []string {
	elements, ok := listElements(input)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(elements))
	for _, element := range elements {
		out = append(out, SanitizeText(stringify(element)))
	}
	return out
}

// SanitizeSeparators coerces input into a list of separator descriptors.
// Non-list input yields an empty list. Within each descriptor the position is
// coerced to a non-negative integer (non-numeric values become 0), kind and
// text are string-sanitized, and unknown keys are dropped.
func SanitizeSeparators(input any) []Separator {
	elements, ok := listElements(input)
	if !ok {
		return []Separator{}
	}
	out := make([]Separator, 0, len(elements))
	for _, element := range elements {
		out = append(out, sanitizeSeparator(element))
	}
	return out
}

func sanitizeSeparator(element any) Separator {
	switch v := element.(type) {
	case Separator:
		return Separator{
			Position: clampPosition(v.Position),
			Kind:     SanitizeText(v.Kind),
			Text:     SanitizeText(v.Text),
		}
	case map[string]any:
		return Separator{
			Position: clampPosition(toInt(v["position"])),
			Kind:     SanitizeText(stringify(v["type"])),
			Text:     SanitizeText(stringify(v["text"])),
		}
	default:
		return Separator{}
	}
}

// SanitizeStringMap coerces input into a string-to-string mapping with both
// keys and values sanitized. Non-map input yields an empty map.
func SanitizeStringMap(input any) map[string]string {
	out := map[string]string{}
	switch v := input.(type) {
	case map[string]string:
		for key, value := range v {
			out[SanitizeText(key)] = SanitizeText(value)
		}
	case map[string]any:
		for key, value := range v {
			out[SanitizeText(key)] = SanitizeText(stringify(value))
		}
	}
	return out
}

// SanitizeNestedIDListMap coerces input into a mapping of parent id to
// ordered child id lists. Non-map input yields an empty map; entries whose
// value is not a list are dropped.
func SanitizeNestedIDListMap(input any) map[string][]string {
	out := map[string][]string{}
	switch v := input.(type) {
	case map[string][]string:
		for key, value := range v {
			out[SanitizeText(key)] = SanitizeIDList(value)
		}
	case map[string]any:
		for key, value := range v {
			if _, ok := listElements(value); !ok {
				continue
			}
			out[SanitizeText(key)] = SanitizeIDList(value)
		}
	}
	return out
}

// listElements flattens any slice or array into []any. The bool result
// distinguishes "not a list" from an empty list.
func listElements(input any) ([]any, bool) {
	switch v := input.(type) {
	case nil:
		return nil, false
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case []Separator:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	}
	rv := reflect.ValueOf(input)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// stringify renders scalar values as strings; composite values collapse to
// the empty string.
func stringify(input any) string {
	switch v := input.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v)
	default:
		return ""
	}
}

// toInt coerces scalars to an integer, truncating fractions. Anything
// non-numeric becomes 0.
func toInt(input any) int {
	switch v := input.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
		if f, err := v.Float64(); err == nil {
			return int(f)
		}
		return 0
	case string:
		trimmed := strings.TrimSpace(v)
		if i, err := strconv.Atoi(trimmed); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return int(f)
		}
		return 0
	default:
		return 0
	}
}

// clampPosition keeps separator positions within the documented range.
func clampPosition(position int) int {
	if position < 0 {
		return 0
	}
	return position
}

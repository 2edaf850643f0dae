package models

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
)

// Placeholder is substituted for any absent alert field.
const Placeholder = "N/A"

// Alert is a loosely structured SIEM alert. Every field is optional; lookups
// into missing parents behave as lookups into an empty mapping.
type Alert struct {
	root gjson.Result
}

// ParseAlert parses a JSON alert document. The document must be a JSON object.
func ParseAlert(data []byte) (*Alert, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("alert is not valid JSON")
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.Newf("alert must be a JSON object, got %s", root.Type)
	}

	return &Alert{root: root}, nil
}

// Get returns the field at the dotted path, e.g. "rule.description".
func (a *Alert) Get(path string) Field {
	return Field{res: a.root.Get(path)}
}

func (a *Alert) Has(path string) bool {
	return a.root.Get(path).Exists()
}

// Lookup returns the string form of the field at path, or Placeholder when
// the field (or any of its parents) is absent.
func (a *Alert) Lookup(path string) string {
	return a.Get(path).OrDefault(Placeholder)
}

func (a *Alert) Description() string {
	return a.Lookup("rule.description")
}

func (a *Alert) RuleID() string {
	return a.Lookup("rule.id")
}

func (a *Alert) AgentName() string {
	return a.Lookup("agent.name")
}

func (a *Alert) Timestamp() string {
	return a.Lookup("timestamp")
}

// Raw returns the original JSON text of the alert.
func (a *Alert) Raw() string {
	return a.root.Raw
}

// Field is a single value inside an alert.
type Field struct {
	res gjson.Result
}

func (f Field) Present() bool {
	return f.res.Exists()
}

// Truthy reports whether the value is present and non-empty: false, null,
// zero, "", [] and {} are all falsy.
func (f Field) Truthy() bool {
	if !f.res.Exists() {
		return false
	}

	switch f.res.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return f.res.Num != 0
	case gjson.String:
		return f.res.Str != ""
	default:
		empty := true
		f.res.ForEach(func(_, _ gjson.Result) bool {
			empty = false
			return false
		})
		return !empty
	}
}

// Text returns the string form of the value. Strings are unquoted, numbers
// keep their literal form, arrays and objects are returned as raw JSON.
func (f Field) Text() string {
	switch f.res.Type {
	case gjson.Null:
		return ""
	case gjson.JSON:
		return f.res.Raw
	default:
		return f.res.String()
	}
}

func (f Field) OrDefault(def string) string {
	if !f.res.Exists() {
		return def
	}
	return f.Text()
}

// Join returns the elements of a sequence joined by sep. A scalar is
// returned as its own string form.
func (f Field) Join(sep string) string {
	if !f.res.IsArray() {
		return f.Text()
	}

	items := f.res.Array()
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, Field{res: item}.Text())
	}
	return strings.Join(parts, sep)
}

// Each calls fn for every key of a mapping in document order. Iteration
// stops when fn returns false. Non-mapping values are skipped.
func (f Field) Each(fn func(key string, value Field) bool) {
	if !f.res.IsObject() {
		return
	}

	f.res.ForEach(func(key, value gjson.Result) bool {
		return fn(key.String(), Field{res: value})
	})
}

// Package schema validates untyped JSON trees (as produced by encoding/json
// with UseNumber) against small declarative descriptors.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Violation is the first (or every) place a tree breaks its schema.
type Violation struct {
	Field  string
	Reason string
}

func (v *Violation) Error() string {
	if v.Field == "" {
		return v.Reason
	}
	return v.Field + ": " + v.Reason
}

// Schema is a node descriptor.
type Schema interface {
	check(path string, v any, w *walker)
}

type walker struct {
	all        bool
	violations []*Violation
}

// report records a violation and says whether the walk should continue.
func (w *walker) report(path, format string, args ...any) bool {
	w.violations = append(w.violations, &Violation{Field: path, Reason: fmt.Sprintf(format, args...)})
	return w.all
}

func (w *walker) stopped() bool { return !w.all && len(w.violations) > 0 }

// Validate returns the first violation, or nil.
func Validate(tree any, s Schema) error {
	w := &walker{}
	s.check("", tree, w)
	if len(w.violations) > 0 {
		return w.violations[0]
	}
	return nil
}

// ValidateAll walks the whole tree and returns every violation.
func ValidateAll(tree any, s Schema) []*Violation {
	w := &walker{all: true}
	s.check("", tree, w)
	return w.violations
}

func join(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

func index(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, int, int64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// ---- object ----

type Field struct {
	Name     string
	Schema   Schema
	Optional bool
}

func Required(name string, s Schema) Field { return Field{Name: name, Schema: s} }
func Optional(name string, s Schema) Field { return Field{Name: name, Schema: s, Optional: true} }

type objectSchema struct{ fields []Field }

// Object accepts extra keys; only listed fields are checked.
func Object(fields ...Field) Schema { return objectSchema{fields: fields} }

func (o objectSchema) check(path string, v any, w *walker) {
	m, ok := v.(map[string]any)
	if !ok {
		w.report(path, "expected object, got %s", typeName(v))
		return
	}
	for _, f := range o.fields {
		fp := join(path, f.Name)
		val, present := m[f.Name]
		if !present {
			if f.Optional {
				continue
			}
			if !w.report(fp, "is required") {
				return
			}
			continue
		}
		f.Schema.check(fp, val, w)
		if w.stopped() {
			return
		}
	}
}

// ---- array ----

type arrayBounds struct {
	min, max   int
	exact      int
	allowEmpty bool
}

type ArrayOption func(*arrayBounds)

func MinItems(n int) ArrayOption   { return func(b *arrayBounds) { b.min = n } }
func MaxItems(n int) ArrayOption   { return func(b *arrayBounds) { b.max = n } }
func ExactItems(n int) ArrayOption { return func(b *arrayBounds) { b.exact = n } }

// AllowEmpty lets a zero-length array through even when MinItems is set.
func AllowEmpty() ArrayOption { return func(b *arrayBounds) { b.allowEmpty = true } }

// NonEmpty is MinItems(1).
func NonEmpty() ArrayOption { return MinItems(1) }

type arraySchema struct {
	item   Schema
	bounds arrayBounds
}

func Array(item Schema, opts ...ArrayOption) Schema {
	a := arraySchema{item: item, bounds: arrayBounds{exact: -1, max: -1}}
	for _, o := range opts {
		o(&a.bounds)
	}
	return a
}

func (a arraySchema) check(path string, v any, w *walker) {
	arr, ok := v.([]any)
	if !ok {
		w.report(path, "expected array, got %s", typeName(v))
		return
	}
	n := len(arr)
	b := a.bounds
	switch {
	case b.exact >= 0 && n != b.exact:
		if !w.report(path, "expected %d, got %d", b.exact, n) {
			return
		}
	case n == 0 && b.allowEmpty:
	case n < b.min:
		if n == 0 {
			if !w.report(path, "must not be empty") {
				return
			}
		} else if !w.report(path, "expected at least %d items, got %d", b.min, n) {
			return
		}
	case b.max >= 0 && n > b.max:
		if !w.report(path, "expected at most %d items, got %d", b.max, n) {
			return
		}
	}
	for i, item := range arr {
		a.item.check(index(path, i), item, w)
		if w.stopped() {
			return
		}
	}
}

// ---- scalars ----

type stringSchema struct{ nonEmpty bool }

// String accepts any string, including "".
func String() Schema { return stringSchema{} }

// NonEmptyString rejects strings that are empty after trimming.
func NonEmptyString() Schema { return stringSchema{nonEmpty: true} }

func (s stringSchema) check(path string, v any, w *walker) {
	str, ok := v.(string)
	if !ok {
		w.report(path, "expected string, got %s", typeName(v))
		return
	}
	if s.nonEmpty && strings.TrimSpace(str) == "" {
		w.report(path, "must not be empty")
	}
}

type enumSchema struct{ values []string }

func Enum(values ...string) Schema { return enumSchema{values: values} }

func (e enumSchema) check(path string, v any, w *walker) {
	str, ok := v.(string)
	if !ok {
		w.report(path, "expected string, got %s", typeName(v))
		return
	}
	for _, allowed := range e.values {
		if str == allowed {
			return
		}
	}
	w.report(path, "must be one of %s, got %q", strings.Join(e.values, "|"), str)
}

type integerSchema struct{ min, max int64 }

// Integer accepts integral numbers in [min, max].
func Integer(min, max int64) Schema { return integerSchema{min: min, max: max} }

func (s integerSchema) check(path string, v any, w *walker) {
	n, ok := asInt(v)
	if !ok {
		w.report(path, "expected integer, got %s", typeName(v))
		return
	}
	if n < s.min || n > s.max {
		w.report(path, "must be between %d and %d, got %d", s.min, s.max, n)
	}
}

func asInt(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int64(t), true
	case int:
		return int64(t), true
	case int64:
		return t, true
	default:
		return 0, false
	}
}

type nullableSchema struct{ inner Schema }

// Nullable accepts JSON null or whatever inner accepts.
func Nullable(inner Schema) Schema { return nullableSchema{inner: inner} }

func (n nullableSchema) check(path string, v any, w *walker) {
	if v == nil {
		return
	}
	n.inner.check(path, v, w)
}

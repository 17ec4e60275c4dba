package mongolog

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// Maximum recursion depth to prevent stack overflow on deeply nested values
const maxSanitizeDepth = 10

// Sanitize converts an arbitrary value into a form that is guaranteed to
// be storable as a BSON document field: string, bool, int64, float64,
// nil, time.Time, []any, or map[string]any (recursively). Values with no
// storable representation (channels, functions, open handles, arbitrary
// objects) are replaced by their best-effort string form. Sanitize never
// panics; it is the last line of defense before a write.
func Sanitize(v any) any {
	visited := make(map[uintptr]bool)
	return sanitizeValue(v, visited, 0)
}

func sanitizeValue(v any, visited map[uintptr]bool, depth int) (out any) {
	// A misbehaving String/Error method must not take the record down
	// with it.
	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("<unserializable: %v>", r)
		}
	}()

	if v == nil {
		return nil
	}
	if depth > maxSanitizeDepth {
		return stringify(v)
	}

	// Common concrete types first; the reflection path below is the
	// fallback for everything else.
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return t
	case int:
		return int64(t)
	case int64:
		return t
	case float64:
		return t
	case time.Time:
		return t
	case time.Duration:
		return t.String()
	case []byte:
		return string(t)
	case error:
		return t.Error()
	}

	val := reflect.ValueOf(v)

	// Unwrap interfaces and pointers with cycle detection.
	for {
		switch val.Kind() {
		case reflect.Interface:
			if val.IsNil() {
				return nil
			}
			val = val.Elem()
			continue
		case reflect.Ptr:
			if val.IsNil() {
				return nil
			}
			ptr := val.Pointer()
			if visited[ptr] {
				return "<circular reference>"
			}
			visited[ptr] = true
			val = val.Elem()
			continue
		default:
		}
		break
	}

	switch val.Kind() {
	case reflect.String:
		return val.String()
	case reflect.Bool:
		return val.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return val.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := val.Uint()
		// BSON has no unsigned 64-bit type
		if u > math.MaxInt64 {
			return strconv.FormatUint(u, 10)
		}
		return int64(u)
	case reflect.Float32, reflect.Float64:
		return val.Float()
	case reflect.Slice, reflect.Array:
		seq := make([]any, 0, val.Len())
		for i := 0; i < val.Len(); i++ {
			elem := val.Index(i)
			if !elem.CanInterface() {
				seq = append(seq, stringify(elem))
				continue
			}
			seq = append(seq, sanitizeValue(elem.Interface(), visited, depth+1))
		}
		return seq
	case reflect.Map:
		m := make(map[string]any, val.Len())
		iter := val.MapRange()
		for iter.Next() {
			k := iter.Key()
			vv := iter.Value()
			key := stringifyKey(k)
			if !vv.CanInterface() {
				m[key] = stringify(vv)
				continue
			}
			m[key] = sanitizeValue(vv.Interface(), visited, depth+1)
		}
		return m
	case reflect.Struct:
		if t, ok := val.Interface().(time.Time); ok {
			return t
		}
		typ := val.Type()
		m := make(map[string]any, val.NumField())
		for i := 0; i < val.NumField(); i++ {
			fieldVal := val.Field(i)
			// Skip unexported fields
			if !fieldVal.CanInterface() {
				continue
			}
			m[typ.Field(i).Name] = sanitizeValue(fieldVal.Interface(), visited, depth+1)
		}
		return m
	default:
		// Chan, Func, UnsafePointer and anything else with no document form
		return stringify(v)
	}
}

// stringify produces the best-effort string form of a value, guarding
// against String methods that panic.
func stringify(v any) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("<unserializable %T>", v)
		}
	}()
	return fmt.Sprintf("%v", v)
}

func stringifyKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	if !k.CanInterface() {
		return fmt.Sprintf("%v", k)
	}
	return stringify(k.Interface())
}

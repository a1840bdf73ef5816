package core

import (
	"fmt"
	"math"
	"sort"
)

// VariantMap is an immutable bag of named parameters handed to every plugin factory.
// Plugins read only the keys they recognize and apply a documented default for missing keys.
// A key that is present but has the wrong type is a configuration error.
//
// Accepted value types: float64 (and other Go numeric types), bool, string, Vec3,
// Spectrum, []float64 and []int. Lists decoded from JSON ([]any of numbers) are also accepted,
// and a 3-element number list converts to Vec3 or Spectrum.
type VariantMap struct {
	values map[string]any
}

// NewVariantMap copies the given values into a new VariantMap
func NewVariantMap(values map[string]any) VariantMap {
	copied := make(map[string]any, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return VariantMap{values: copied}
}

// Has reports whether a key is present
func (m VariantMap) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the parameter names in sorted order
func (m VariantMap) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Float returns a numeric parameter or def when missing
func (m VariantMap) Float(key string, def float64) (float64, error) {
	v, ok := m.values[key]
	if !ok {
		return def, nil
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, wrongType(key, "number", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalidParameter("", key, "must be a finite number")
	}
	return f, nil
}

// Int returns an integer parameter or def when missing. Whole floats are accepted.
func (m VariantMap) Int(key string, def int) (int, error) {
	v, ok := m.values[key]
	if !ok {
		return def, nil
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, wrongType(key, "integer", v)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, invalidParameter("", key, fmt.Sprintf("must be an integer, got %v", v))
	}
	return int(f), nil
}

// Bool returns a boolean parameter or def when missing
func (m VariantMap) Bool(key string, def bool) (bool, error) {
	v, ok := m.values[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, wrongType(key, "bool", v)
	}
	return b, nil
}

// String returns a string parameter or def when missing
func (m VariantMap) String(key string, def string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(key, "string", v)
	}
	return s, nil
}

// Vec3 returns a vector parameter or def when missing
func (m VariantMap) Vec3(key string, def Vec3) (Vec3, error) {
	v, ok := m.values[key]
	if !ok {
		return def, nil
	}
	switch t := v.(type) {
	case Vec3:
		return t, nil
	case Spectrum:
		return NewVec3(t.R, t.G, t.B), nil
	}
	list, ok := toFloats(v)
	if !ok || len(list) != 3 {
		return Vec3{}, wrongType(key, "3-vector", v)
	}
	return NewVec3(list[0], list[1], list[2]), nil
}

// Spectrum returns a color parameter or def when missing. A single number is a gray spectrum.
func (m VariantMap) Spectrum(key string, def Spectrum) (Spectrum, error) {
	v, ok := m.values[key]
	if !ok {
		return def, nil
	}
	if s, ok := v.(Spectrum); ok {
		return s, nil
	}
	if f, ok := toFloat(v); ok {
		return Gray(f), nil
	}
	vec, err := m.Vec3(key, Vec3{})
	if err != nil {
		return Spectrum{}, wrongType(key, "spectrum", v)
	}
	return NewSpectrum(vec.X, vec.Y, vec.Z), nil
}

// Floats returns a number list parameter or def when missing
func (m VariantMap) Floats(key string, def []float64) ([]float64, error) {
	v, ok := m.values[key]
	if !ok {
		return def, nil
	}
	list, ok := toFloats(v)
	if !ok {
		return nil, wrongType(key, "number list", v)
	}
	return list, nil
}

// Ints returns an integer list parameter or def when missing
func (m VariantMap) Ints(key string, def []int) ([]int, error) {
	v, ok := m.values[key]
	if !ok {
		return def, nil
	}
	if ints, ok := v.([]int); ok {
		out := make([]int, len(ints))
		copy(out, ints)
		return out, nil
	}
	list, ok := toFloats(v)
	if !ok {
		return nil, wrongType(key, "integer list", v)
	}
	out := make([]int, len(list))
	for i, f := range list {
		if f != math.Trunc(f) {
			return nil, invalidParameter("", key, fmt.Sprintf("element %d is not an integer", i))
		}
		out[i] = int(f)
	}
	return out, nil
}

// Map returns a nested parameter block, such as the components of a mixture
func (m VariantMap) Map(key string) (VariantMap, error) {
	v, ok := m.values[key]
	if !ok {
		return VariantMap{}, missingParameter(key)
	}
	switch t := v.(type) {
	case VariantMap:
		return t, nil
	case map[string]any:
		return NewVariantMap(t), nil
	}
	return VariantMap{}, wrongType(key, "parameter block", v)
}

// RequireFloat returns a numeric parameter that must be present
func (m VariantMap) RequireFloat(key string) (float64, error) {
	if !m.Has(key) {
		return 0, missingParameter(key)
	}
	return m.Float(key, 0)
}

// RequireVec3 returns a vector parameter that must be present
func (m VariantMap) RequireVec3(key string) (Vec3, error) {
	if !m.Has(key) {
		return Vec3{}, missingParameter(key)
	}
	return m.Vec3(key, Vec3{})
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	}
	return 0, false
}

func toFloats(v any) ([]float64, bool) {
	switch list := v.(type) {
	case []float64:
		out := make([]float64, len(list))
		copy(out, list)
		return out, true
	case []int:
		out := make([]float64, len(list))
		for i, n := range list {
			out[i] = float64(n)
		}
		return out, true
	case []any:
		out := make([]float64, len(list))
		for i, e := range list {
			f, ok := toFloat(e)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	}
	return nil, false
}

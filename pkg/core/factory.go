package core

import (
	"errors"
	"fmt"
	"sort"
)

// Builder constructs one plugin variant from its parameters
type Builder[T any] func(params VariantMap) (T, error)

// Factory maps type names to builders for one plugin kind.
// Unknown type names are not errors: the factory reports a warning and
// builds its documented default variant instead.
type Factory[T any] struct {
	component   string
	defaultType string
	builders    map[string]Builder[T]
}

// NewFactory creates an empty factory for a plugin kind
func NewFactory[T any](component, defaultType string) *Factory[T] {
	return &Factory[T]{
		component:   component,
		defaultType: defaultType,
		builders:    make(map[string]Builder[T]),
	}
}

// Register adds a builder under a type name
func (f *Factory[T]) Register(typeName string, builder Builder[T]) {
	f.builders[typeName] = builder
}

// DefaultType returns the variant built for unknown type names
func (f *Factory[T]) DefaultType() string {
	return f.defaultType
}

// Has reports whether a builder is registered under typeName
func (f *Factory[T]) Has(typeName string) bool {
	_, ok := f.builders[typeName]
	return ok
}

// Types returns the registered type names in sorted order
func (f *Factory[T]) Types() []string {
	names := make([]string, 0, len(f.builders))
	for name := range f.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create builds the named variant. Configuration errors from the builder are returned
// with the component and type attached.
func (f *Factory[T]) Create(typeName string, params VariantMap, diag Diagnostics) (T, error) {
	builder, ok := f.builders[typeName]
	if !ok {
		if diag == nil {
			diag = NopDiagnostics{}
		}
		diag.Report(Diagnostic{
			Severity:  SeverityWarning,
			Component: f.component,
			Message:   "unknown type, using default",
			Fields:    map[string]any{"type": typeName, "default": f.defaultType},
		})
		typeName = f.defaultType
		builder = f.builders[typeName]
	}

	instance, err := builder(params)
	if err != nil {
		var paramErr *ParameterError
		if errors.As(err, &paramErr) && paramErr.Component == "" {
			paramErr.Component = f.component + " " + typeName
		}
		var zero T
		return zero, fmt.Errorf("create %s %q: %w", f.component, typeName, err)
	}
	return instance, nil
}

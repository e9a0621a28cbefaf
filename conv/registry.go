package conv

import (
	"fmt"
	"reflect"
	"time"
)

type (
	// Func converts a raw value into a registered primitive type
	Func func(value interface{}, opts *Options) (interface{}, error)

	// BulkFunc converts a whole raw slice into a typed slice, it returns false when
	// the supplied slice shape is not handled and the caller should convert per element
	BulkFunc func(values interface{}, opts *Options) (interface{}, bool, error)

	// TimeParser parses date/time text, it is an optional accelerator consulted
	// before the general purpose layout parser
	TimeParser interface {
		ParseDateTime(value string) (time.Time, error)
	}

	// Options contains converter configuration
	Options struct {
		// TimeParser is consulted first for date/time text, may be nil
		TimeParser TimeParser
		// DateLayouts extends the fallback layouts (Go layouts or ISO style YYYY-MM-DD formats)
		DateLayouts []string
		// Location is used for layouts without zone information
		Location *time.Location
	}

	// Converter represents registered primitive conversion
	Converter struct {
		Kind Kind
		Type reflect.Type
		Func Func
	}

	// Registry maps scalar types to conversion functions.
	//
	// A registry is configuration: populate it before sharing it with concurrent
	// coercions. Registering converters while coercions are in flight is not
	// supported and is the caller's responsibility to avoid.
	Registry struct {
		options    Options
		converters map[reflect.Type]*Converter
		bulk       map[reflect.Type]BulkFunc
		byKind     map[reflect.Kind]*Converter
	}

	// Option represents registry option
	Option func(r *Registry)
)

// WithTimeParser sets fast date/time parser
func WithTimeParser(parser TimeParser) Option {
	return func(r *Registry) {
		r.options.TimeParser = parser
	}
}

// WithDateLayouts adds fallback date layouts
func WithDateLayouts(layouts ...string) Option {
	return func(r *Registry) {
		r.options.DateLayouts = append(r.options.DateLayouts, layouts...)
	}
}

// WithLocation sets location for zone-less layouts
func WithLocation(loc *time.Location) Option {
	return func(r *Registry) {
		r.options.Location = loc
	}
}

// WithExtended registers extended kinds: uuid, decimal, date, datetime, time and duration
func WithExtended() Option {
	return func(r *Registry) {
		registerExtended(r)
	}
}

// NewRegistry creates a registry with the minimal builtin set: string, integers, floats, bool and bytes
func NewRegistry(opts ...Option) *Registry {
	ret := &Registry{
		converters: map[reflect.Type]*Converter{},
		bulk:       map[reflect.Type]BulkFunc{},
		byKind:     map[reflect.Kind]*Converter{},
		options:    Options{Location: time.UTC},
	}
	registerBuiltin(ret)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// DefaultRegistry creates a registry with builtin and extended kinds
func DefaultRegistry(opts ...Option) *Registry {
	return NewRegistry(append([]Option{WithExtended()}, opts...)...)
}

// Options returns registry converter options
func (r *Registry) Options() *Options {
	return &r.options
}

// SetTimeParser replaces fast date/time parser
func (r *Registry) SetTimeParser(parser TimeParser) {
	r.options.TimeParser = parser
}

// Register registers conversion function for supplied type
func (r *Registry) Register(rType reflect.Type, kind Kind, fn Func) {
	converter := &Converter{Kind: kind, Type: rType, Func: fn}
	r.converters[rType] = converter
	if rType.PkgPath() == "" && rType.Name() != "" {
		r.byKind[rType.Kind()] = converter
	}
}

// RegisterBulk registers slice conversion function for supplied element type
func (r *Registry) RegisterBulk(elemType reflect.Type, fn BulkFunc) {
	r.bulk[elemType] = fn
}

// Lookup returns converter for supplied type, named types fall back to their predeclared base kind
func (r *Registry) Lookup(rType reflect.Type) (*Converter, bool) {
	if rType == nil {
		return nil, false
	}
	if converter, ok := r.converters[rType]; ok {
		return converter, true
	}
	if rType.PkgPath() == "" {
		return nil, false
	}
	base, ok := r.byKind[rType.Kind()]
	if !ok {
		return nil, false
	}
	return &Converter{Kind: base.Kind, Type: rType, Func: namedFunc(rType, base.Func)}, true
}

// Bulk returns bulk converter for supplied element type
func (r *Registry) Bulk(elemType reflect.Type) (BulkFunc, bool) {
	fn, ok := r.bulk[elemType]
	return fn, ok
}

// Convert converts value into supplied type
func (r *Registry) Convert(rType reflect.Type, value interface{}) (interface{}, error) {
	converter, ok := r.Lookup(rType)
	if !ok {
		return nil, fmt.Errorf("no converter registered for %v", rType)
	}
	ret, err := converter.Func(value, &r.options)
	if err != nil {
		if convErr, ok := err.(*Error); ok && convErr.Target == nil {
			convErr.Target = rType
		}
		return nil, err
	}
	return ret, nil
}

func namedFunc(rType reflect.Type, fn Func) Func {
	return func(value interface{}, opts *Options) (interface{}, error) {
		if value != nil && reflect.TypeOf(value) == rType {
			return value, nil
		}
		ret, err := fn(value, opts)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(ret).Convert(rType).Interface(), nil
	}
}

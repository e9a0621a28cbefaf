package datamodel

import (
	"io"
	"log/slog"

	"github.com/viant/datamodel/conv"
	ftime "github.com/viant/datamodel/format/time"
)

var (
	defaultRegistry = conv.DefaultRegistry(conv.WithTimeParser(ftime.ISOParser{}))
	discardLogger   = slog.New(slog.NewTextHandler(io.Discard, nil))
)

type optionFn func(*Options)

func (o optionFn) apply(opts *Options) { o(opts) }

func WithMode(mode Mode) Option {
	return optionFn(func(o *Options) {
		o.Mode = mode
	})
}

func WithUnknownFieldPolicy(policy UnknownFieldPolicy) Option {
	return optionFn(func(o *Options) {
		o.UnknownFieldPolicy = policy
		o.setUnknownFieldPolicy = true
	})
}

func WithNullPolicy(policy NullPolicy) Option {
	return optionFn(func(o *Options) {
		o.NullPolicy = policy
		o.setNullPolicy = true
	})
}

// WithRegistry sets primitive converter registry, the registry has to be fully populated before use
func WithRegistry(registry *conv.Registry) Option {
	return optionFn(func(o *Options) { o.Registry = registry })
}

// WithTimeParser sets fast date/time parser, nil disables fast parsing
func WithTimeParser(parser conv.TimeParser) Option {
	return optionFn(func(o *Options) {
		o.TimeParser = parser
		o.setTimeParser = true
	})
}

// WithDateLayout adds fallback date layouts (Go layouts or ISO style formats like DD/MM/YYYY)
func WithDateLayout(layouts ...string) Option {
	return optionFn(func(o *Options) { o.DateLayouts = append(o.DateLayouts, layouts...) })
}

// WithDelimitedLists enables splitting coma delimited text into list elements
func WithDelimitedLists(enabled bool) Option {
	return optionFn(func(o *Options) { o.DelimitedLists = enabled })
}

func WithLogger(logger *slog.Logger) Option {
	return optionFn(func(o *Options) { o.Logger = logger })
}

func defaultOptions() Options {
	return Options{
		Mode:               ModeLenient,
		UnknownFieldPolicy: IgnoreUnknown,
		NullPolicy:         CompatNulls,
		Registry:           defaultRegistry,
		Logger:             discardLogger,
	}
}

func resolveOptions(opts []Option) Options {
	result := defaultOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(&result)
	}
	if result.Registry == nil {
		result.Registry = defaultRegistry
	}
	if result.Logger == nil {
		result.Logger = discardLogger
	}
	if result.Mode == ModeStrict {
		if !result.setUnknownFieldPolicy {
			result.UnknownFieldPolicy = ErrorOnUnknown
		}
		if !result.setNullPolicy {
			result.NullPolicy = StrictNulls
		}
	}
	return result
}

// converterOptions returns registry options adjusted by runtime options
func (o *Options) converterOptions() *conv.Options {
	ret := *o.Registry.Options()
	if o.setTimeParser {
		ret.TimeParser = o.TimeParser
	}
	if len(o.DateLayouts) > 0 {
		ret.DateLayouts = append(append([]string{}, o.DateLayouts...), ret.DateLayouts...)
	}
	return &ret
}

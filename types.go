package datamodel

import (
	"log/slog"

	"github.com/viant/datamodel/conv"
)

// Mode controls error aggregation behavior.
type Mode int

const (
	// ModeLenient processes every field and collects one error per failing field.
	ModeLenient Mode = iota
	// ModeStrict aborts on the first failing field.
	ModeStrict
)

// UnknownFieldPolicy controls handling of input keys not declared by a schema.
type UnknownFieldPolicy int

const (
	IgnoreUnknown UnknownFieldPolicy = iota
	ErrorOnUnknown
	// AllowUnknown keeps undeclared keys as record extras.
	AllowUnknown
)

// NullPolicy controls required and nullable enforcement.
type NullPolicy int

const (
	CompatNulls NullPolicy = iota
	StrictNulls
)

// Option mutates runtime options.
type Option interface{ apply(*Options) }

// Options defines runtime behavior.
type Options struct {
	Mode               Mode
	UnknownFieldPolicy UnknownFieldPolicy
	NullPolicy         NullPolicy
	Registry           *conv.Registry
	TimeParser         conv.TimeParser
	DateLayouts        []string
	DelimitedLists     bool
	Logger             *slog.Logger

	setUnknownFieldPolicy bool
	setNullPolicy         bool
	setTimeParser         bool
}

func (m Mode) String() string {
	if m == ModeStrict {
		return "strict"
	}
	return "lenient"
}

func (p UnknownFieldPolicy) String() string {
	switch p {
	case ErrorOnUnknown:
		return "error"
	case AllowUnknown:
		return "allow"
	}
	return "ignore"
}

func (p NullPolicy) String() string {
	if p == StrictNulls {
		return "strict"
	}
	return "compat"
}

// Package json reads raw JSON input for the coercion engine and writes coerced instances back as JSON
package json

import (
	"fmt"

	"github.com/viant/datamodel"
)

// FromJSON decodes JSON document into raw values: objects become map[string]interface{},
// arrays []interface{}, integers int64 or uint64 and other numbers float64,
// numbers none of them holds exactly are kept as Number text
func FromJSON(data []byte) (interface{}, error) {
	ret, err := decodeValue(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode json: %w", err)
	}
	return ret, nil
}

// Unmarshal decodes JSON document and builds schema instance from it
func Unmarshal(engine *datamodel.Engine, schema *datamodel.Schema, data []byte, opts ...datamodel.Option) (interface{}, *datamodel.ErrorMap, error) {
	raw, err := FromJSON(data)
	if err != nil {
		return nil, datamodel.NewErrorMap(), err
	}
	if engine == nil {
		engine = datamodel.New()
	}
	return engine.CoerceAndValidate(schema, raw, opts...)
}

// Decode decodes JSON document into *T
func Decode[T any](engine *datamodel.Engine, data []byte, opts ...datamodel.Option) (*T, *datamodel.ErrorMap, error) {
	raw, err := FromJSON(data)
	if err != nil {
		return nil, datamodel.NewErrorMap(), err
	}
	return datamodel.Decode[T](engine, raw, opts...)
}

// Package dynamodb reads DynamoDB items as raw coercion input and writes coerced instances back as items
package dynamodb

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/viant/datamodel"
	"github.com/viant/datamodel/encoding/json"
)

// Raw converts item into raw map, numbers keep their exact text form
func Raw(item map[string]types.AttributeValue) (map[string]interface{}, error) {
	var ret map[string]interface{}
	err := attributevalue.UnmarshalMapWithOptions(item, &ret, func(options *attributevalue.DecoderOptions) {
		options.UseNumber = true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return normalize(ret).(map[string]interface{}), nil
}

func normalize(value interface{}) interface{} {
	switch actual := value.(type) {
	case map[string]interface{}:
		for key, item := range actual {
			actual[key] = normalize(item)
		}
		return actual
	case []interface{}:
		for i, item := range actual {
			actual[i] = normalize(item)
		}
		return actual
	case []attributevalue.Number:
		ret := make([]interface{}, len(actual))
		for i, item := range actual {
			ret[i] = item.String()
		}
		return ret
	case attributevalue.Number:
		return actual.String()
	}
	return value
}

// Unmarshal builds schema instance from item
func Unmarshal(engine *datamodel.Engine, schema *datamodel.Schema, item map[string]types.AttributeValue, opts ...datamodel.Option) (interface{}, *datamodel.ErrorMap, error) {
	raw, err := Raw(item)
	if err != nil {
		return nil, datamodel.NewErrorMap(), err
	}
	if engine == nil {
		engine = datamodel.New()
	}
	return engine.CoerceAndValidate(schema, raw, opts...)
}

// Decode builds *T from item
func Decode[T any](engine *datamodel.Engine, item map[string]types.AttributeValue, opts ...datamodel.Option) (*T, *datamodel.ErrorMap, error) {
	raw, err := Raw(item)
	if err != nil {
		return nil, datamodel.NewErrorMap(), err
	}
	return datamodel.Decode[T](engine, raw, opts...)
}

// DecodeItems builds *T for each query or scan item, errors are reported per item
func DecodeItems[T any](engine *datamodel.Engine, items []map[string]types.AttributeValue, opts ...datamodel.Option) ([]*T, []*datamodel.ErrorMap, error) {
	result := make([]*T, 0, len(items))
	errs := make([]*datamodel.ErrorMap, 0, len(items))
	for i, item := range items {
		value, itemErrs, err := Decode[T](engine, item, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("item %d: %w", i, err)
		}
		result = append(result, value)
		errs = append(errs, itemErrs)
	}
	return result, errs, nil
}

// ToItem converts coerced record or struct into item, values use their JSON natural form
func ToItem(value interface{}) (map[string]types.AttributeValue, error) {
	natural, err := json.Natural(value)
	if err != nil {
		return nil, err
	}
	aMap, ok := natural.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("expected record, but had %T", value)
	}
	return attributevalue.MarshalMap(aMap)
}

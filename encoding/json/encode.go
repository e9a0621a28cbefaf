package json

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"time"

	"github.com/francoispqt/gojay"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/viant/datamodel"
	"github.com/viant/datamodel/conv"
	"github.com/viant/datamodel/visitor"
)

type (
	object struct {
		keys   []string
		values map[string]interface{}
	}

	array []interface{}
)

// ToJSON encodes coerced value: records and structs become objects, sets sorted arrays,
// date, time, uuid, decimal and duration values their text form
func ToJSON(value interface{}) ([]byte, error) {
	node, err := natural(value)
	if err != nil {
		return nil, err
	}
	switch actual := node.(type) {
	case nil:
		return []byte("null"), nil
	case Number:
		return []byte(actual), nil
	case *object:
		return gojay.MarshalJSONObject(actual)
	case array:
		return gojay.MarshalJSONArray(actual)
	}
	return gojay.Marshal(node)
}

// Natural converts coerced value into JSON natural tree of map[string]interface{}, []interface{},
// string, Number, int64, uint64, float64 and bool values
func Natural(value interface{}) (interface{}, error) {
	node, err := natural(value)
	if err != nil {
		return nil, err
	}
	return plain(node), nil
}

func natural(value interface{}) (interface{}, error) {
	switch actual := value.(type) {
	case nil:
		return nil, nil
	case Number:
		return actual, nil
	case *datamodel.Record:
		if actual == nil {
			return nil, nil
		}
		aMap, err := actual.ToMap(false)
		if err != nil {
			return nil, err
		}
		return naturalObject(actual.Keys(), aMap)
	case time.Time:
		return actual.Format(time.RFC3339Nano), nil
	case time.Duration:
		return actual.String(), nil
	case conv.Date:
		return actual.String(), nil
	case conv.TimeOfDay:
		return actual.String(), nil
	case uuid.UUID:
		return actual.String(), nil
	case decimal.Decimal:
		return actual.String(), nil
	case []byte:
		return base64.StdEncoding.EncodeToString(actual), nil
	case reflect.Type:
		return actual.String(), nil
	}
	rValue := reflect.ValueOf(value)
	switch rValue.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rValue.IsNil() {
			return nil, nil
		}
		return natural(rValue.Elem().Interface())
	case reflect.String:
		return rValue.String(), nil
	case reflect.Bool:
		return rValue.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rValue.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rValue.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rValue.Float(), nil
	case reflect.Slice, reflect.Array:
		if rValue.Kind() == reflect.Slice && rValue.IsNil() {
			return nil, nil
		}
		return naturalArray(value)
	case reflect.Map:
		if rValue.IsNil() {
			return nil, nil
		}
		if rValue.Type().Elem() == reflect.TypeOf(struct{}{}) {
			return naturalSet(rValue)
		}
		return naturalMap(value)
	case reflect.Struct:
		return naturalStruct(value)
	}
	return nil, fmt.Errorf("unsupported json value: %T", value)
}

func naturalObject(keys []string, aMap map[string]interface{}) (*object, error) {
	ret := &object{keys: keys, values: make(map[string]interface{}, len(keys))}
	for _, key := range keys {
		item, err := natural(aMap[key])
		if err != nil {
			return nil, fmt.Errorf("%v: %w", key, err)
		}
		ret.values[key] = item
	}
	return ret, nil
}

func naturalArray(value interface{}) (array, error) {
	visit, err := visitor.AnySliceVisitorOf(value)
	if err != nil {
		return nil, err
	}
	var ret = array{}
	err = visit(func(index int, item interface{}) (bool, error) {
		node, err := natural(item)
		if err != nil {
			return false, fmt.Errorf("[%d]: %w", index, err)
		}
		ret = append(ret, node)
		return true, nil
	})
	return ret, err
}

func naturalSet(rValue reflect.Value) (array, error) {
	keys := visitor.SortedKeys(rValue)
	ret := make(array, 0, len(keys))
	for _, key := range keys {
		node, err := natural(key.Interface())
		if err != nil {
			return nil, err
		}
		ret = append(ret, node)
	}
	return ret, nil
}

func naturalMap(value interface{}) (*object, error) {
	visit, err := visitor.AnyMapVisitorOf(value)
	if err != nil {
		return nil, err
	}
	ret := &object{values: map[string]interface{}{}}
	err = visit(func(key, item interface{}) (bool, error) {
		text, err := natural(key)
		if err != nil {
			return false, err
		}
		name := fmt.Sprint(text)
		node, err := natural(item)
		if err != nil {
			return false, fmt.Errorf("%v: %w", name, err)
		}
		ret.keys = append(ret.keys, name)
		ret.values[name] = node
		return true, nil
	})
	return ret, err
}

func naturalStruct(value interface{}) (*object, error) {
	visit, err := visitor.StructVisitorOf(value)
	if err != nil {
		return nil, err
	}
	ret := &object{values: map[string]interface{}{}}
	err = visit(func(key string, item interface{}) (bool, error) {
		node, err := natural(item)
		if err != nil {
			return false, fmt.Errorf("%v: %w", key, err)
		}
		ret.keys = append(ret.keys, key)
		ret.values[key] = node
		return true, nil
	})
	return ret, err
}

// plain replaces encoder nodes with maps and slices
func plain(node interface{}) interface{} {
	switch actual := node.(type) {
	case *object:
		ret := make(map[string]interface{}, len(actual.keys))
		for _, key := range actual.keys {
			ret[key] = plain(actual.values[key])
		}
		return ret
	case array:
		ret := make([]interface{}, len(actual))
		for i, item := range actual {
			ret[i] = plain(item)
		}
		return ret
	}
	return node
}

func (o *object) MarshalJSONObject(enc *gojay.Encoder) {
	for _, key := range o.keys {
		switch actual := o.values[key].(type) {
		case nil:
			enc.NullKey(key)
		case string:
			enc.StringKey(key, actual)
		case int64:
			enc.Int64Key(key, actual)
		case uint64:
			enc.Uint64Key(key, actual)
		case float64:
			enc.Float64Key(key, actual)
		case bool:
			enc.BoolKey(key, actual)
		case Number:
			raw := gojay.EmbeddedJSON(actual)
			enc.AddEmbeddedJSONKey(key, &raw)
		case *object:
			enc.ObjectKey(key, actual)
		case array:
			enc.ArrayKey(key, actual)
		}
	}
}

func (o *object) IsNil() bool { return o == nil }

func (a array) MarshalJSONArray(enc *gojay.Encoder) {
	for _, item := range a {
		switch actual := item.(type) {
		case nil:
			enc.Null()
		case string:
			enc.String(actual)
		case int64:
			enc.Int64(actual)
		case uint64:
			enc.Uint64(actual)
		case float64:
			enc.Float64(actual)
		case bool:
			enc.Bool(actual)
		case Number:
			raw := gojay.EmbeddedJSON(actual)
			enc.AddEmbeddedJSON(&raw)
		case *object:
			enc.Object(actual)
		case array:
			enc.Array(actual)
		}
	}
}

func (a array) IsNil() bool { return a == nil }

package json

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/francoispqt/gojay"
	"github.com/shopspring/decimal"
)

// Number is JSON number text that neither int64, uint64 nor float64 holds exactly
type Number string

func (n Number) String() string { return string(n) }

type (
	objectNode map[string]interface{}
	arrayNode  []interface{}
)

func (o objectNode) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	value, err := decodeEmbedded(dec)
	if err != nil {
		return fmt.Errorf("%v: %w", key, err)
	}
	o[key] = value
	return nil
}

func (o objectNode) NKeys() int { return 0 }

func (a *arrayNode) UnmarshalJSONArray(dec *gojay.Decoder) error {
	value, err := decodeEmbedded(dec)
	if err != nil {
		return fmt.Errorf("[%d]: %w", len(*a), err)
	}
	*a = append(*a, value)
	return nil
}

func decodeEmbedded(dec *gojay.Decoder) (interface{}, error) {
	var raw gojay.EmbeddedJSON
	if err := dec.AddEmbeddedJSON(&raw); err != nil {
		return nil, err
	}
	return decodeValue(raw)
}

func decodeValue(data []byte) (interface{}, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty json value")
	}
	switch data[0] {
	case '{':
		ret := objectNode{}
		if err := gojay.UnmarshalJSONObject(data, ret); err != nil {
			return nil, err
		}
		return map[string]interface{}(ret), nil
	case '[':
		ret := arrayNode{}
		if err := gojay.UnmarshalJSONArray(data, &ret); err != nil {
			return nil, err
		}
		return []interface{}(ret), nil
	case '"':
		var text string
		if err := gojay.Unmarshal(data, &text); err != nil {
			return nil, err
		}
		return text, nil
	}
	switch text := string(data); text {
	case "null":
		return nil, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return decodeNumber(text)
	}
}

// decodeNumber returns int64, uint64 or float64 when the value is held exactly, Number otherwise
func decodeNumber(text string) (interface{}, error) {
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		return v, nil
	}
	if v, err := strconv.ParseUint(text, 10, 64); err == nil {
		return v, nil
	}
	exact, err := decimal.NewFromString(text)
	if err != nil {
		return nil, fmt.Errorf("invalid json value: %s", text)
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && decimal.NewFromFloat(f).Equal(exact) {
		return f, nil
	}
	return Number(text), nil
}

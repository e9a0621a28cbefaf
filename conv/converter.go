package conv

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	stringType  = reflect.TypeOf("")
	boolType    = reflect.TypeOf(true)
	bytesType   = reflect.TypeOf([]byte{})
	intType     = reflect.TypeOf(0)
	int8Type    = reflect.TypeOf(int8(0))
	int16Type   = reflect.TypeOf(int16(0))
	int32Type   = reflect.TypeOf(int32(0))
	int64Type   = reflect.TypeOf(int64(0))
	uintType    = reflect.TypeOf(uint(0))
	uint8Type   = reflect.TypeOf(uint8(0))
	uint16Type  = reflect.TypeOf(uint16(0))
	uint32Type  = reflect.TypeOf(uint32(0))
	uint64Type  = reflect.TypeOf(uint64(0))
	float32Type = reflect.TypeOf(float32(0))
	float64Type = reflect.TypeOf(float64(0))
)

func registerBuiltin(r *Registry) {
	r.Register(stringType, KindString, ToString)
	r.Register(boolType, KindBool, ToBool)
	r.Register(bytesType, KindBytes, ToBytes)
	r.Register(intType, KindInt, intFunc(strconv.IntSize, func(v int64) interface{} { return int(v) }))
	r.Register(int8Type, KindInt, intFunc(8, func(v int64) interface{} { return int8(v) }))
	r.Register(int16Type, KindInt, intFunc(16, func(v int64) interface{} { return int16(v) }))
	r.Register(int32Type, KindInt, intFunc(32, func(v int64) interface{} { return int32(v) }))
	r.Register(int64Type, KindInt, intFunc(64, func(v int64) interface{} { return v }))
	r.Register(uintType, KindUint, uintFunc(strconv.IntSize, func(v uint64) interface{} { return uint(v) }))
	r.Register(uint8Type, KindUint, uintFunc(8, func(v uint64) interface{} { return uint8(v) }))
	r.Register(uint16Type, KindUint, uintFunc(16, func(v uint64) interface{} { return uint16(v) }))
	r.Register(uint32Type, KindUint, uintFunc(32, func(v uint64) interface{} { return uint32(v) }))
	r.Register(uint64Type, KindUint, uintFunc(64, func(v uint64) interface{} { return v }))
	r.Register(float32Type, KindFloat, ToFloat32)
	r.Register(float64Type, KindFloat, ToFloat64)

	r.RegisterBulk(intType, bulkInts)
	r.RegisterBulk(int64Type, bulkInt64s)
	r.RegisterBulk(float64Type, bulkFloat64s)
	r.RegisterBulk(float32Type, bulkFloat32s)
	r.RegisterBulk(stringType, bulkStrings)
}

// ToString converts value to string
func ToString(value interface{}, _ *Options) (interface{}, error) {
	switch actual := value.(type) {
	case string:
		return actual, nil
	case []byte:
		return string(actual), nil
	case bool:
		return strconv.FormatBool(actual), nil
	case float32:
		return strconv.FormatFloat(float64(actual), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(actual, 'f', -1, 64), nil
	case time.Time:
		return actual.Format(time.RFC3339Nano), nil
	case uuid.UUID:
		return actual.String(), nil
	case decimal.Decimal:
		return actual.String(), nil
	case fmt.Stringer:
		return actual.String(), nil
	}
	srcValue := reflect.ValueOf(value)
	switch srcValue.Kind() {
	case reflect.String:
		return srcValue.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(srcValue.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(srcValue.Uint(), 10), nil
	}
	return nil, newError(value, KindString, "", nil)
}

// ToBool converts value to bool, text accepts y/yes/t/true/on/1 and n/no/f/false/off/0/none/null
func ToBool(value interface{}, _ *Options) (interface{}, error) {
	switch actual := value.(type) {
	case bool:
		return actual, nil
	case string:
		return parseBool(actual)
	case []byte:
		return parseBool(string(actual))
	}
	srcValue := reflect.ValueOf(value)
	switch srcValue.Kind() {
	case reflect.Bool:
		return srcValue.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return srcValue.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return srcValue.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return srcValue.Float() != 0, nil
	case reflect.String:
		return parseBool(srcValue.String())
	}
	return nil, newError(value, KindBool, "", nil)
}

func parseBool(text string) (interface{}, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "y", "yes", "t", "true", "on", "1":
		return true, nil
	case "n", "no", "f", "false", "off", "0", "none", "null":
		return false, nil
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
		return f != 0, nil
	}
	return nil, newError(text, KindBool, "invalid boolean text", nil)
}

// ToBytes converts value to byte slice
func ToBytes(value interface{}, _ *Options) (interface{}, error) {
	switch actual := value.(type) {
	case []byte:
		return actual, nil
	case string:
		return []byte(actual), nil
	case uuid.UUID:
		return actual[:], nil
	}
	srcValue := reflect.ValueOf(value)
	if srcValue.Kind() == reflect.String {
		return []byte(srcValue.String()), nil
	}
	if srcValue.Kind() == reflect.Slice && srcValue.Type().Elem().Kind() == reflect.Uint8 {
		return srcValue.Bytes(), nil
	}
	return nil, newError(value, KindBytes, "", nil)
}

func intFunc(bitSize int, cast func(v int64) interface{}) Func {
	return func(value interface{}, opts *Options) (interface{}, error) {
		v, err := toInt64(value, bitSize)
		if err != nil {
			return nil, err
		}
		return cast(v), nil
	}
}

func uintFunc(bitSize int, cast func(v uint64) interface{}) Func {
	return func(value interface{}, opts *Options) (interface{}, error) {
		v, err := toUint64(value, bitSize)
		if err != nil {
			return nil, err
		}
		return cast(v), nil
	}
}

func toInt64(value interface{}, bitSize int) (int64, error) {
	var result int64
	switch actual := value.(type) {
	case string:
		return parseInt(actual, bitSize)
	case []byte:
		return parseInt(string(actual), bitSize)
	case decimal.Decimal:
		if !actual.Equal(actual.Truncate(0)) {
			return 0, newError(value, KindInt, "fractional value", nil)
		}
		if actual.LessThan(minInt64Decimal) || actual.GreaterThan(maxInt64Decimal) {
			return 0, newError(value, KindInt, "value out of range", nil)
		}
		result = actual.IntPart()
		return result, checkIntRange(value, result, bitSize)
	}
	srcValue := reflect.ValueOf(value)
	switch srcValue.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		result = srcValue.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := srcValue.Uint()
		if v > math.MaxInt64 {
			return 0, newError(value, KindInt, "value out of range", nil)
		}
		result = int64(v)
	case reflect.Float32, reflect.Float64:
		v, err := floatToInt64(value, srcValue.Float())
		if err != nil {
			return 0, err
		}
		result = v
	case reflect.Bool:
		if srcValue.Bool() {
			result = 1
		}
	case reflect.String:
		return parseInt(srcValue.String(), bitSize)
	default:
		return 0, newError(value, KindInt, "", nil)
	}
	return result, checkIntRange(value, result, bitSize)
}

func parseInt(text string, bitSize int) (int64, error) {
	text = strings.TrimSpace(text)
	if strings.ContainsAny(text, ".eE") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, newError(text, KindInt, "", err)
		}
		result, err := floatToInt64(text, f)
		if err != nil {
			return 0, err
		}
		return result, checkIntRange(text, result, bitSize)
	}
	result, err := strconv.ParseInt(text, 10, bitSize)
	if err != nil {
		return 0, newError(text, KindInt, "", err)
	}
	return result, nil
}

// float64 bounds of 64-bit integers, 2^63 and 2^64 are the first values out of range
const (
	maxInt64Float  = 9.223372036854775807e18
	minInt64Float  = -9.223372036854775808e18
	maxUint64Float = 1.8446744073709552e19
)

var (
	maxInt64Decimal = decimal.NewFromInt(math.MaxInt64)
	minInt64Decimal = decimal.NewFromInt(math.MinInt64)
)

func floatToInt64(value interface{}, f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= maxInt64Float || f < minInt64Float {
		return 0, newError(value, KindInt, "value out of range", nil)
	}
	if f != math.Trunc(f) {
		return 0, newError(value, KindInt, "fractional value", nil)
	}
	return int64(f), nil
}

func floatToUint64(value interface{}, f float64) (uint64, error) {
	if f < 0 {
		return 0, newError(value, KindUint, "negative value", nil)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= maxUint64Float {
		return 0, newError(value, KindUint, "value out of range", nil)
	}
	if f != math.Trunc(f) {
		return 0, newError(value, KindUint, "fractional value", nil)
	}
	return uint64(f), nil
}

func checkIntRange(value interface{}, v int64, bitSize int) error {
	if bitSize >= 64 {
		return nil
	}
	limit := int64(1) << (bitSize - 1)
	if v >= limit || v < -limit {
		return newError(value, KindInt, fmt.Sprintf("value out of %d-bit range", bitSize), nil)
	}
	return nil
}

func toUint64(value interface{}, bitSize int) (uint64, error) {
	var result uint64
	switch actual := value.(type) {
	case string:
		return parseUint(actual, bitSize)
	case []byte:
		return parseUint(string(actual), bitSize)
	}
	srcValue := reflect.ValueOf(value)
	switch srcValue.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := srcValue.Int()
		if v < 0 {
			return 0, newError(value, KindUint, "negative value", nil)
		}
		result = uint64(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		result = srcValue.Uint()
	case reflect.Float32, reflect.Float64:
		v, err := floatToUint64(value, srcValue.Float())
		if err != nil {
			return 0, err
		}
		result = v
	case reflect.Bool:
		if srcValue.Bool() {
			result = 1
		}
	case reflect.String:
		return parseUint(srcValue.String(), bitSize)
	default:
		return 0, newError(value, KindUint, "", nil)
	}
	if bitSize < 64 && result >= uint64(1)<<bitSize {
		return 0, newError(value, KindUint, fmt.Sprintf("value out of %d-bit range", bitSize), nil)
	}
	return result, nil
}

func parseUint(text string, bitSize int) (uint64, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "-") {
		return 0, newError(text, KindUint, "negative value", nil)
	}
	if strings.ContainsAny(text, ".eE") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, newError(text, KindUint, "", err)
		}
		result, err := floatToUint64(text, f)
		if err != nil {
			return 0, err
		}
		if bitSize < 64 && result >= uint64(1)<<bitSize {
			return 0, newError(text, KindUint, fmt.Sprintf("value out of %d-bit range", bitSize), nil)
		}
		return result, nil
	}
	result, err := strconv.ParseUint(text, 10, bitSize)
	if err != nil {
		return 0, newError(text, KindUint, "", err)
	}
	return result, nil
}

// ToFloat64 converts value to float64
func ToFloat64(value interface{}, _ *Options) (interface{}, error) {
	return toFloat(value, 64)
}

// ToFloat32 converts value to float32
func ToFloat32(value interface{}, _ *Options) (interface{}, error) {
	f, err := toFloat(value, 32)
	if err != nil {
		return nil, err
	}
	return float32(f), nil
}

func toFloat(value interface{}, bitSize int) (float64, error) {
	switch actual := value.(type) {
	case string:
		return parseFloat(actual, bitSize)
	case []byte:
		return parseFloat(string(actual), bitSize)
	case decimal.Decimal:
		f, _ := actual.Float64()
		return f, nil
	}
	srcValue := reflect.ValueOf(value)
	switch srcValue.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(srcValue.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(srcValue.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return srcValue.Float(), nil
	case reflect.Bool:
		if srcValue.Bool() {
			return 1, nil
		}
		return 0, nil
	case reflect.String:
		return parseFloat(srcValue.String(), bitSize)
	}
	return 0, newError(value, KindFloat, "", nil)
}

func parseFloat(text string, bitSize int) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), bitSize)
	if err != nil {
		return 0, newError(text, KindFloat, "", err)
	}
	return f, nil
}

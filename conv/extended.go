package conv

import (
	"math/big"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	uuidType    = reflect.TypeOf(uuid.UUID{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

func registerExtended(r *Registry) {
	r.Register(uuidType, KindUUID, ToUUID)
	r.Register(decimalType, KindDecimal, ToDecimal)
	r.Register(timeType, KindDateTime, ToTime)
	r.Register(dateType, KindDate, ToDate)
	r.Register(timeOfDayType, KindTime, ToTimeOfDay)
	r.Register(durationType, KindDuration, ToDuration)
}

// ToUUID converts canonical, braced, urn or raw 16 byte value to uuid.UUID
func ToUUID(value interface{}, _ *Options) (interface{}, error) {
	switch actual := value.(type) {
	case uuid.UUID:
		return actual, nil
	case [16]byte:
		return uuid.UUID(actual), nil
	case []byte:
		if len(actual) == 16 {
			return uuid.FromBytes(actual)
		}
		return parseUUID(value, string(actual))
	case string:
		return parseUUID(value, actual)
	}
	return nil, newError(value, KindUUID, "", nil)
}

func parseUUID(value interface{}, text string) (interface{}, error) {
	ret, err := uuid.Parse(strings.TrimSpace(text))
	if err != nil {
		return nil, newError(value, KindUUID, "", err)
	}
	return ret, nil
}

// ToDecimal converts value to exact decimal.Decimal, floats use their shortest text form
func ToDecimal(value interface{}, _ *Options) (interface{}, error) {
	switch actual := value.(type) {
	case decimal.Decimal:
		return actual, nil
	case string:
		return parseDecimal(value, actual)
	case []byte:
		return parseDecimal(value, string(actual))
	case float64:
		return decimal.NewFromFloat(actual), nil
	case float32:
		return decimal.NewFromFloat32(actual), nil
	}
	srcValue := reflect.ValueOf(value)
	switch srcValue.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(srcValue.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(srcValue.Uint()), 0), nil
	case reflect.Float32, reflect.Float64:
		return decimal.NewFromFloat(srcValue.Float()), nil
	case reflect.String:
		return parseDecimal(value, srcValue.String())
	}
	return nil, newError(value, KindDecimal, "", nil)
}

func parseDecimal(value interface{}, text string) (interface{}, error) {
	ret, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return nil, newError(value, KindDecimal, "", err)
	}
	return ret, nil
}

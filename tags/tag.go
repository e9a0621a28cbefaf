package tags

import (
	"fmt"
	"strconv"
	"strings"
)

// TagName is the struct tag key carrying field declarations
const TagName = "datamodel"

// Tag represents parsed datamodel struct tag, i.e.
//
//	`datamodel:"name=id,alias=ID,required,nullable=false,min=1,max=10,pattern={^[a-z]+$}"`
type Tag struct {
	Name       string
	Alias      string
	Ignore     bool
	Required   bool
	Nullable   *bool
	PrimaryKey bool
	DBDefault  bool
	Default    *string
	Min        *float64
	Max        *float64
	Gt         *float64
	Lt         *float64
	Ge         *float64
	Le         *float64
	Eq         *float64
	Ne         *float64
	Length     *int
	MinLength  *int
	MaxLength  *int
	Pattern    string
}

// Parse parses datamodel tag value
func Parse(tagValue string) (*Tag, error) {
	ret := &Tag{}
	if tagValue == "-" {
		ret.Ignore = true
		return ret, nil
	}
	return ret, eachPair(tagValue, ret.update)
}

func (t *Tag) update(key, value string) error {
	value = trimEnclosure(value)
	var err error
	switch key {
	case "name":
		t.Name = value
	case "alias":
		t.Alias = value
	case "-", "ignore":
		t.Ignore = true
	case "required":
		t.Required, err = parseFlag(key, value)
	case "nullable":
		var flag bool
		if flag, err = parseFlag(key, value); err == nil {
			t.Nullable = &flag
		}
	case "primarykey", "pk":
		t.PrimaryKey, err = parseFlag(key, value)
	case "dbdefault":
		t.DBDefault, err = parseFlag(key, value)
	case "default":
		t.Default = &value
	case "min":
		t.Min, err = parseNumber(key, value)
	case "max":
		t.Max, err = parseNumber(key, value)
	case "gt":
		t.Gt, err = parseNumber(key, value)
	case "lt":
		t.Lt, err = parseNumber(key, value)
	case "ge":
		t.Ge, err = parseNumber(key, value)
	case "le":
		t.Le, err = parseNumber(key, value)
	case "eq":
		t.Eq, err = parseNumber(key, value)
	case "ne":
		t.Ne, err = parseNumber(key, value)
	case "length", "len":
		t.Length, err = parseLength(key, value)
	case "minlength":
		t.MinLength, err = parseLength(key, value)
	case "maxlength":
		t.MaxLength, err = parseLength(key, value)
	case "pattern":
		t.Pattern = value
	default:
		return fmt.Errorf("unsupported %v tag option: %v", TagName, key)
	}
	return err
}

// String returns tag literal
func (t *Tag) String() string {
	if t.Ignore {
		return "-"
	}
	var pairs []string
	appendText := func(key, value string) {
		if value != "" {
			pairs = append(pairs, key+"="+wrapValueIfNeeded(value))
		}
	}
	appendFlag := func(key string, flag bool) {
		if flag {
			pairs = append(pairs, key)
		}
	}
	appendNumber := func(key string, value *float64) {
		if value != nil {
			pairs = append(pairs, key+"="+strconv.FormatFloat(*value, 'f', -1, 64))
		}
	}
	appendLength := func(key string, value *int) {
		if value != nil {
			pairs = append(pairs, key+"="+strconv.Itoa(*value))
		}
	}
	appendText("name", t.Name)
	appendText("alias", t.Alias)
	appendFlag("required", t.Required)
	if t.Nullable != nil {
		pairs = append(pairs, "nullable="+strconv.FormatBool(*t.Nullable))
	}
	appendFlag("primaryKey", t.PrimaryKey)
	appendFlag("dbDefault", t.DBDefault)
	if t.Default != nil {
		pairs = append(pairs, "default="+wrapValueIfNeeded(*t.Default))
	}
	appendNumber("min", t.Min)
	appendNumber("max", t.Max)
	appendNumber("gt", t.Gt)
	appendNumber("lt", t.Lt)
	appendNumber("ge", t.Ge)
	appendNumber("le", t.Le)
	appendNumber("eq", t.Eq)
	appendNumber("ne", t.Ne)
	appendLength("length", t.Length)
	appendLength("minLength", t.MinLength)
	appendLength("maxLength", t.MaxLength)
	if t.Pattern != "" {
		pairs = append(pairs, "pattern={"+t.Pattern+"}")
	}
	return strings.Join(pairs, ",")
}

func parseFlag(key, value string) (bool, error) {
	if value == "" {
		return true, nil
	}
	ret, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %v tag option %v: %w", TagName, key, err)
	}
	return ret, nil
}

func parseNumber(key, value string) (*float64, error) {
	ret, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %v tag option %v: %w", TagName, key, err)
	}
	return &ret, nil
}

func parseLength(key, value string) (*int, error) {
	ret, err := strconv.Atoi(value)
	if err != nil || ret < 0 {
		return nil, fmt.Errorf("invalid %v tag option %v: %q", TagName, key, value)
	}
	return &ret, nil
}

func trimEnclosure(value string) string {
	if len(value) < 2 {
		return value
	}
	switch {
	case value[0] == '{' && value[len(value)-1] == '}',
		value[0] == '\'' && value[len(value)-1] == '\'':
		return value[1 : len(value)-1]
	}
	return value
}

func wrapValueIfNeeded(actual string) string {
	if strings.Contains(actual, ",") && !strings.HasPrefix(actual, "{") {
		actual = "{" + actual + "}"
	}
	return actual
}

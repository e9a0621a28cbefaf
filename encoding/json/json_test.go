package json

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/datamodel"
	"github.com/viant/datamodel/conv"
)

type Item struct {
	SKU   string          `json:"sku" datamodel:"required"`
	Price decimal.Decimal `json:"price" datamodel:"min=0"`
}

type Order struct {
	ID       uuid.UUID      `json:"id" datamodel:"pk"`
	Placed   time.Time      `json:"placed"`
	Due      conv.Date      `json:"due"`
	Items    []Item         `json:"items"`
	Labels   map[string]int `json:"labels"`
	Priority *int           `json:"priority"`
	Internal string         `json:"-"`
}

func TestFromJSON(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expect      interface{}
		expectErr   bool
	}{
		{
			description: "object",
			input:       `{"a":1,"b":[true,null,"x"]}`,
			expect:      map[string]interface{}{"a": int64(1), "b": []interface{}{true, nil, "x"}},
		},
		{
			description: "nested with whitespace",
			input:       ` { "a" : { "b" : [ ] } } `,
			expect:      map[string]interface{}{"a": map[string]interface{}{"b": []interface{}{}}},
		},
		{
			description: "integer above 2^53",
			input:       `[9007199254740993, 18446744073709551615, -9223372036854775808]`,
			expect:      []interface{}{int64(9007199254740993), uint64(18446744073709551615), int64(-9223372036854775808)},
		},
		{
			description: "numbers float64 cannot hold",
			input:       `[1.00000000000000000001, 123456789012345678901234567890, 1e400]`,
			expect:      []interface{}{Number("1.00000000000000000001"), Number("123456789012345678901234567890"), Number("1e400")},
		},
		{
			description: "exponent",
			input:       `[1e3, 0.1]`,
			expect:      []interface{}{float64(1000), 0.1},
		},
		{
			description: "array",
			input:       `[1.5,"2"]`,
			expect:      []interface{}{1.5, "2"},
		},
		{
			description: "scalar",
			input:       `"abc"`,
			expect:      "abc",
		},
		{
			description: "null",
			input:       `null`,
			expect:      nil,
		},
		{
			description: "invalid",
			input:       `{"a":`,
			expectErr:   true,
		},
		{
			description: "invalid literal",
			input:       `tru`,
			expectErr:   true,
		},
	}
	for _, testCase := range testCases {
		actual, err := FromJSON([]byte(testCase.input))
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	priority := 2
	order := &Order{
		ID:       uuid.MustParse("4f0b3c6e-9f5d-4a43-8a8c-0d3c1c6b7e21"),
		Placed:   time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		Due:      conv.Date{Year: 2024, Month: time.March, Day: 15},
		Items:    []Item{{SKU: "A-1", Price: decimal.RequireFromString("19.99")}},
		Labels:   map[string]int{"gift": 1},
		Priority: &priority,
	}
	data, err := ToJSON(order)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id":"4f0b3c6e-9f5d-4a43-8a8c-0d3c1c6b7e21",
		"placed":"2024-03-01T10:30:00Z",
		"due":"2024-03-15",
		"items":[{"sku":"A-1","price":"19.99"}],
		"labels":{"gift":1},
		"priority":2
	}`, string(data))

	decoded, errs, err := Decode[Order](datamodel.New(), data)
	require.NoError(t, err)
	assert.Equal(t, 0, errs.Len())
	if diff := cmp.Diff(order, decoded, cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	_, errs, err = Decode[Order](datamodel.New(), []byte(`{"items":[{"price":"-1"}]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "items"}, errs.Keys())
}

func TestUnmarshal_Record(t *testing.T) {
	schema := datamodel.MustSchema("Tagged",
		datamodel.MustField("name", datamodel.String()),
		datamodel.MustField("tags", datamodel.Set(datamodel.String())),
		datamodel.MustField("at", datamodel.Optional(datamodel.TimeOfDay())),
	)
	instance, errs, err := Unmarshal(nil, schema, []byte(`{"name":"n","tags":["b","a","b"],"extra":1}`), datamodel.WithUnknownFieldPolicy(datamodel.AllowUnknown))
	require.NoError(t, err)
	assert.Equal(t, 0, errs.Len())
	data, err := ToJSON(instance)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"n","tags":["a","b"],"at":null,"extra":1}`, string(data))

	_, _, err = Unmarshal(nil, schema, []byte(`[`))
	assert.Error(t, err)
}

func TestUnmarshal_LargeInteger(t *testing.T) {
	schema := datamodel.MustSchema("Counter",
		datamodel.MustField("id", datamodel.Int64()),
		datamodel.MustField("total", datamodel.Decimal()),
		datamodel.MustField("any", datamodel.Any()),
	)
	instance, errs, err := Unmarshal(nil, schema, []byte(`{"id":9007199254740993,"total":0.10000000000000000001,"any":123456789012345678901234567890}`))
	require.NoError(t, err)
	require.Equal(t, 0, errs.Len())
	record := instance.(*datamodel.Record)
	id, _ := record.Get("id")
	assert.Equal(t, int64(9007199254740993), id)
	total, _ := record.Get("total")
	assert.Equal(t, "0.10000000000000000001", total.(decimal.Decimal).String())

	data, err := ToJSON(record)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":9007199254740993,"total":"0.10000000000000000001","any":123456789012345678901234567890}`, string(data))
}

func TestToJSON(t *testing.T) {
	var testCases = []struct {
		description string
		input       interface{}
		expect      string
	}{
		{description: "nil", input: nil, expect: `null`},
		{description: "map", input: map[string]interface{}{"b": 1, "a": []int{1, 2}}, expect: `{"a":[1,2],"b":1}`},
		{description: "slice", input: []int{1, 2}, expect: `[1,2]`},
		{description: "set", input: map[string]struct{}{"y": {}, "x": {}}, expect: `["x","y"]`},
		{description: "scalar", input: "abc", expect: `"abc"`},
		{description: "number text", input: Number("1e400"), expect: `1e400`},
		{description: "nested nulls", input: []interface{}{nil, map[string]interface{}{"a": nil}}, expect: `[null,{"a":null}]`},
	}
	for _, testCase := range testCases {
		actual, err := ToJSON(testCase.input)
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, string(actual), testCase.description)
	}
}

func TestNatural(t *testing.T) {
	var testCases = []struct {
		description string
		input       interface{}
		expect      interface{}
	}{
		{description: "nil", input: nil, expect: nil},
		{description: "duration", input: 90 * time.Second, expect: "1m30s"},
		{description: "time of day", input: conv.TimeOfDay{Hour: 9, Minute: 5}, expect: "09:05:00"},
		{description: "bytes", input: []byte("hi"), expect: "aGk="},
		{description: "int", input: int8(3), expect: int64(3)},
		{description: "set", input: map[int]struct{}{3: {}, 1: {}}, expect: []interface{}{int64(1), int64(3)}},
		{description: "nil pointer", input: (*int)(nil), expect: nil},
		{description: "map", input: map[int]bool{1: true}, expect: map[string]interface{}{"1": true}},
	}
	for _, testCase := range testCases {
		actual, err := Natural(testCase.input)
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
	_, err := Natural(make(chan int))
	assert.Error(t, err)
}

package dynamodb

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/datamodel"
)

type Reading struct {
	ID     uuid.UUID         `json:"id" datamodel:"pk"`
	Value  decimal.Decimal   `json:"value"`
	Count  int64             `json:"count" datamodel:"min=0"`
	Tags   []string          `json:"tags"`
	At     time.Time         `json:"at"`
	Meta   map[string]string `json:"meta"`
	Note   *string           `json:"note"`
	Active bool              `json:"active"`
}

func readingItem() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id":     &types.AttributeValueMemberS{Value: "4f0b3c6e-9f5d-4a43-8a8c-0d3c1c6b7e21"},
		"value":  &types.AttributeValueMemberN{Value: "12345678901234567890.123"},
		"count":  &types.AttributeValueMemberN{Value: "9007199254740993"},
		"tags":   &types.AttributeValueMemberSS{Value: []string{"a", "b"}},
		"at":     &types.AttributeValueMemberS{Value: "2024-03-01T10:30:00Z"},
		"meta":   &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{"k": &types.AttributeValueMemberS{Value: "v"}}},
		"note":   &types.AttributeValueMemberNULL{Value: true},
		"active": &types.AttributeValueMemberBOOL{Value: true},
	}
}

func TestRaw(t *testing.T) {
	actual, err := Raw(map[string]types.AttributeValue{
		"n":    &types.AttributeValueMemberN{Value: "1.50"},
		"list": &types.AttributeValueMemberL{Value: []types.AttributeValue{&types.AttributeValueMemberN{Value: "2"}, &types.AttributeValueMemberS{Value: "x"}}},
		"ns":   &types.AttributeValueMemberNS{Value: []string{"3", "4"}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"n":    "1.50",
		"list": []interface{}{"2", "x"},
		"ns":   []interface{}{"3", "4"},
	}, actual)
}

func TestDecode(t *testing.T) {
	reading, errs, err := Decode[Reading](datamodel.New(), readingItem())
	require.NoError(t, err)
	assert.Equal(t, 0, errs.Len())
	assert.Equal(t, uuid.MustParse("4f0b3c6e-9f5d-4a43-8a8c-0d3c1c6b7e21"), reading.ID)
	assert.Equal(t, "12345678901234567890.123", reading.Value.String())
	assert.Equal(t, int64(9007199254740993), reading.Count)
	assert.Equal(t, []string{"a", "b"}, reading.Tags)
	assert.True(t, reading.At.Equal(time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, map[string]string{"k": "v"}, reading.Meta)
	assert.Nil(t, reading.Note)
	assert.True(t, reading.Active)

	item := readingItem()
	item["count"] = &types.AttributeValueMemberN{Value: "-1"}
	_, errs, err = Decode[Reading](datamodel.New(), item)
	require.NoError(t, err)
	assert.Equal(t, datamodel.KindConstraint, errs.Get("count").Kind)
}

func TestDecodeItems(t *testing.T) {
	second := readingItem()
	delete(second, "id")
	values, errs, err := DecodeItems[Reading](nil, []map[string]types.AttributeValue{readingItem(), second})
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, 0, errs[0].Len())
	assert.Equal(t, datamodel.KindRequired, errs[1].Get("id").Kind)

	_, _, err = DecodeItems[Reading](nil, []map[string]types.AttributeValue{{"id": &types.AttributeValueMemberS{Value: "x"}}}, datamodel.WithMode(datamodel.ModeStrict))
	assert.Error(t, err)
}

func TestToItem(t *testing.T) {
	reading, _, err := Decode[Reading](nil, readingItem())
	require.NoError(t, err)
	item, err := ToItem(reading)
	require.NoError(t, err)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "12345678901234567890.123"}, item["value"])
	assert.Equal(t, &types.AttributeValueMemberNULL{Value: true}, item["note"])

	again, errs, err := Decode[Reading](nil, item)
	require.NoError(t, err)
	assert.Equal(t, 0, errs.Len())
	assert.Equal(t, reading.Count, again.Count)
	assert.True(t, reading.Value.Equal(again.Value))

	schema := datamodel.MustSchema("Counter", datamodel.MustField("n", datamodel.Int()))
	record, _, err := Unmarshal(nil, schema, map[string]types.AttributeValue{"n": &types.AttributeValueMemberN{Value: "3"}})
	require.NoError(t, err)
	item, err = ToItem(record)
	require.NoError(t, err)
	assert.Equal(t, &types.AttributeValueMemberN{Value: "3"}, item["n"])

	_, err = ToItem("x")
	assert.Error(t, err)
}

package tags

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEachPair(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expect      map[string]string
	}{
		{
			description: "mixed",
			input:       ",required, alias=@exclude-ids",
			expect: map[string]string{
				"required": "",
				"alias":    "@exclude-ids",
			},
		},
		{
			description: "block value",
			input:       "pattern={a,b},min=1",
			expect: map[string]string{
				"pattern": "{a,b}",
				"min":     "1",
			},
		},
		{
			description: "keys are case insensitive",
			input:       "maxLength=3,PK",
			expect: map[string]string{
				"maxlength": "3",
				"pk":        "",
			},
		},
	}
	for _, testCase := range testCases {
		actual := map[string]string{}
		err := eachPair(testCase.input, func(key, value string) error {
			actual[key] = value
			return nil
		})
		assert.Nil(t, err)
		assert.EqualValues(t, testCase.expect, actual, testCase.description)
	}
}

func TestEachPair_Error(t *testing.T) {
	err := eachPair("a,b", func(key, value string) error {
		if key == "b" {
			return fmt.Errorf("stop at %v", key)
		}
		return nil
	})
	assert.EqualError(t, err, "stop at b")
}

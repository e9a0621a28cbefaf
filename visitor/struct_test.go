package visitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_StructVisitor_Visit(t *testing.T) {

	type Audit struct {
		Created string `json:"created"`
	}
	type Employee struct {
		ID      int
		Name    string `json:"name,omitempty"`
		Company string
		Secret  string `json:"-"`
		salary  int
		Audit
	}

	emp := &Employee{ID: 1, Name: "John Doe", Company: "Acme", Secret: "x", salary: 10, Audit: Audit{Created: "today"}}

	var testCases = []struct {
		description string
		input       interface{}
	}{
		{description: "pointer", input: emp},
		{description: "value", input: *emp},
	}
	for _, testCase := range testCases {
		visit, err := StructVisitorOf(testCase.input)
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		var keys []string
		var clone = &Employee{}
		err = visit(func(key string, value interface{}) (bool, error) {
			keys = append(keys, key)
			switch key {
			case "ID":
				clone.ID = value.(int)
			case "name":
				clone.Name = value.(string)
			case "Company":
				clone.Company = value.(string)
			case "created":
				clone.Created = value.(string)
			}
			return true, nil
		})
		assert.Nil(t, err, testCase.description)
		assert.Equal(t, []string{"ID", "name", "Company", "created"}, keys, testCase.description)
		assert.EqualValues(t, &Employee{ID: 1, Name: "John Doe", Company: "Acme", Audit: Audit{Created: "today"}}, clone, testCase.description)
	}

	_, err := StructVisitorOf(3)
	assert.NotNil(t, err)
	var nilEmp *Employee
	_, err = StructVisitorOf(nilEmp)
	assert.NotNil(t, err)
}

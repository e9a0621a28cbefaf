package datamodel

import "github.com/viant/datamodel/conv"

type Address struct {
	Street string `json:"street"`
	City   string `json:"city" datamodel:"required,minLength=2"`
}

type Color string

const (
	Red   Color = "red"
	Green Color = "green"
)

func (c Color) EnumValues() []interface{} {
	return []interface{}{Red, Green}
}

type Level int

func (l Level) EnumValues() []interface{} {
	return []interface{}{Level(1), Level(2), Level(3)}
}

type Score int

type Person struct {
	ID      int                `json:"id" datamodel:"pk"`
	Name    string             `json:"name" datamodel:"required,maxLength=8"`
	Email   *string            `json:"email" datamodel:"alias=EMAIL"`
	Age     int                `json:"age" datamodel:"min=0,max=150"`
	Born    conv.Date          `json:"born"`
	Tags    []string           `json:"tags"`
	Address *Address           `json:"address"`
	Color   Color              `json:"color" datamodel:"default=red"`
	Scores  map[string]float64 `json:"scores"`
	Secret  string             `json:"-"`
}

type Audit struct {
	CreatedBy string `json:"createdBy"`
}

type Document struct {
	Audit
	ID    int    `json:"id" datamodel:"pk,dbDefault"`
	Title string `json:"title"`
	Skip  string `datamodel:"-"`
}

func stringPtr(v string) *string { return &v }

// Package jsonschema exports record schemas as OpenAPI 3 schema objects
package jsonschema

import (
	"fmt"
	"reflect"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/viant/datamodel"
	"github.com/viant/datamodel/conv"
	"github.com/viant/datamodel/encoding/json"
)

// AliasExtension holds field alias of described property
const AliasExtension = "x-alias"

// describer tracks records being described, struct schemas are keyed by their Go type
type describer struct {
	visiting map[interface{}]bool
}

func newDescriber() *describer {
	return &describer{visiting: map[interface{}]bool{}}
}

// Describe returns object schema of supplied record schema, primary keys without database default
// and required fields are listed as required
func Describe(schema *datamodel.Schema) (*openapi3.Schema, error) {
	if schema == nil {
		return nil, fmt.Errorf("schema was nil")
	}
	return newDescriber().record(schema)
}

// DescribeType returns schema of a single type annotation
func DescribeType(aType *datamodel.Type) (*openapi3.Schema, error) {
	return newDescriber().describe(aType)
}

func (d *describer) record(schema *datamodel.Schema) (*openapi3.Schema, error) {
	ret := &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeObject}, Title: schema.Name, Properties: openapi3.Schemas{}}
	var key interface{} = schema
	if schema.IsStruct() {
		key = schema.Type()
	}
	if d.visiting[key] {
		return ret, nil
	}
	d.visiting[key] = true
	defer delete(d.visiting, key)
	for _, field := range schema.Fields() {
		property, err := d.field(field)
		if err != nil {
			return nil, fmt.Errorf("%v.%v: %w", schema.Name, field.Name, err)
		}
		ret.Properties[field.Name] = &openapi3.SchemaRef{Value: property}
		if field.Required || (field.PrimaryKey && !field.DBDefault) {
			ret.Required = append(ret.Required, field.Name)
		}
	}
	return ret, nil
}

func (d *describer) field(field *datamodel.Field) (*openapi3.Schema, error) {
	ret, err := d.describe(field.Type)
	if err != nil {
		return nil, err
	}
	if field.Alias != "" {
		ret.Extensions = map[string]any{AliasExtension: field.Alias}
	}
	if field.Default != nil {
		if ret.Default, err = json.Natural(field.Default); err != nil {
			return nil, err
		}
	}
	constraints := &field.Constraints
	if !constraints.IsEmpty() {
		if len(ret.OneOf) == 0 {
			applyConstraints(ret, constraints)
		} else {
			for _, arm := range ret.OneOf {
				applyConstraints(arm.Value, constraints)
			}
		}
	}
	return ret, nil
}

func applyConstraints(schema *openapi3.Schema, constraints *datamodel.Constraints) {
	if schema.Type == nil {
		return
	}
	switch {
	case schema.Type.Is(openapi3.TypeInteger), schema.Type.Is(openapi3.TypeNumber):
		applyBounds(schema, constraints)
	case schema.Type.Is(openapi3.TypeString):
		if constraints.Length != nil {
			schema.MinLength = uint64(*constraints.Length)
			schema.MaxLength = openapi3.Uint64Ptr(uint64(*constraints.Length))
		}
		if constraints.MinLength != nil {
			schema.MinLength = uint64(*constraints.MinLength)
		}
		if constraints.MaxLength != nil {
			schema.MaxLength = openapi3.Uint64Ptr(uint64(*constraints.MaxLength))
		}
		if constraints.Pattern != nil {
			schema.Pattern = constraints.Pattern.String()
		}
	}
}

func applyBounds(schema *openapi3.Schema, constraints *datamodel.Constraints) {
	for _, limit := range []*float64{constraints.Min, constraints.Ge} {
		if limit != nil {
			schema.Min = openapi3.Float64Ptr(*limit)
		}
	}
	for _, limit := range []*float64{constraints.Max, constraints.Le} {
		if limit != nil {
			schema.Max = openapi3.Float64Ptr(*limit)
		}
	}
	if constraints.Gt != nil {
		schema.Min, schema.ExclusiveMin = openapi3.Float64Ptr(*constraints.Gt), true
	}
	if constraints.Lt != nil {
		schema.Max, schema.ExclusiveMax = openapi3.Float64Ptr(*constraints.Lt), true
	}
	if constraints.Eq != nil {
		schema.Min, schema.Max = openapi3.Float64Ptr(*constraints.Eq), openapi3.Float64Ptr(*constraints.Eq)
	}
}

func (d *describer) describe(aType *datamodel.Type) (*openapi3.Schema, error) {
	category := aType.Category()
	switch category.Kind {
	case datamodel.CategoryPrimitive:
		return primitive(category.Primitive, aType.GoType()), nil
	case datamodel.CategoryOptional:
		ret, err := d.describe(category.Inner())
		if err != nil {
			return nil, err
		}
		ret.Nullable = true
		return ret, nil
	case datamodel.CategoryUnion:
		ret := &openapi3.Schema{}
		for _, arm := range category.Args {
			armSchema, err := d.describe(arm)
			if err != nil {
				return nil, err
			}
			ret.OneOf = append(ret.OneOf, &openapi3.SchemaRef{Value: armSchema})
		}
		return ret, nil
	case datamodel.CategoryList, datamodel.CategorySet, datamodel.CategoryFrozenSet:
		items, err := d.describe(category.Inner())
		if err != nil {
			return nil, err
		}
		ret := &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeArray}, Items: &openapi3.SchemaRef{Value: items}}
		ret.UniqueItems = category.Kind != datamodel.CategoryList
		return ret, nil
	case datamodel.CategoryTuple:
		return d.tuple(category)
	case datamodel.CategoryDict:
		value, err := d.describe(category.Args[1])
		if err != nil {
			return nil, err
		}
		return &openapi3.Schema{
			Type:                 &openapi3.Types{openapi3.TypeObject},
			AdditionalProperties: openapi3.AdditionalProperties{Schema: &openapi3.SchemaRef{Value: value}},
		}, nil
	case datamodel.CategoryLiteral:
		return enumeration(aType.Literals())
	case datamodel.CategoryEnum:
		return enumeration(aType.EnumMembers())
	case datamodel.CategoryRecord:
		schema := aType.Schema()
		if schema == nil {
			var err error
			if schema, err = datamodel.SchemaOf(aType.Type()); err != nil {
				return nil, err
			}
		}
		return d.record(schema)
	}
	return &openapi3.Schema{}, nil
}

func (d *describer) tuple(category *datamodel.Category) (*openapi3.Schema, error) {
	ret := &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeArray}}
	if category.Homogeneous {
		items, err := d.describe(category.Inner())
		if err != nil {
			return nil, err
		}
		ret.Items = &openapi3.SchemaRef{Value: items}
		return ret, nil
	}
	ret.MinItems = uint64(len(category.Args))
	ret.MaxItems = openapi3.Uint64Ptr(uint64(len(category.Args)))
	items := &openapi3.Schema{}
	for _, arg := range category.Args {
		item, err := d.describe(arg)
		if err != nil {
			return nil, err
		}
		items.OneOf = append(items.OneOf, &openapi3.SchemaRef{Value: item})
	}
	ret.Items = &openapi3.SchemaRef{Value: items}
	return ret, nil
}

func enumeration(values []interface{}) (*openapi3.Schema, error) {
	ret := &openapi3.Schema{}
	for _, value := range values {
		if value == nil {
			ret.Nullable = true
			continue
		}
		natural, err := json.Natural(value)
		if err != nil {
			return nil, err
		}
		ret.Enum = append(ret.Enum, natural)
		if ret.Type == nil {
			ret.Type = &openapi3.Types{jsonType(natural)}
		}
	}
	return ret, nil
}

func jsonType(value interface{}) string {
	switch value.(type) {
	case string:
		return openapi3.TypeString
	case bool:
		return openapi3.TypeBoolean
	case int64, uint64:
		return openapi3.TypeInteger
	case float64:
		return openapi3.TypeNumber
	}
	return openapi3.TypeObject
}

func primitive(kind conv.Kind, goType reflect.Type) *openapi3.Schema {
	switch kind {
	case conv.KindBool:
		return &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeBoolean}}
	case conv.KindInt:
		ret := &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeInteger}}
		if goType != nil && goType.Kind() == reflect.Int64 {
			ret.Format = "int64"
		}
		return ret
	case conv.KindUint:
		return &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeInteger}, Min: openapi3.Float64Ptr(0)}
	case conv.KindFloat:
		return &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeNumber}}
	case conv.KindBytes:
		return &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}, Format: "byte"}
	case conv.KindUUID:
		return &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}, Format: "uuid"}
	case conv.KindDecimal:
		return &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}, Format: "decimal"}
	case conv.KindDate:
		return &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}, Format: "date"}
	case conv.KindDateTime:
		return &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}, Format: "date-time"}
	case conv.KindTime:
		return &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}, Format: "time"}
	case conv.KindDuration:
		return &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}, Format: "duration"}
	}
	return &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}}
}

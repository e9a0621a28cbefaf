package datamodel

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/viant/xunsafe"
)

const (
	//SetMarkerTag defines set marker tag
	SetMarkerTag = "setMarker"

	presenceMarkerTag = "presenceMarker"
)

// IsSetMarker returns true if struct field holds field presence flags
func IsSetMarker(tag reflect.StructTag) bool {
	if tag.Get(SetMarkerTag) == "true" {
		return true
	}
	_, ok := tag.Lookup(presenceMarkerTag)
	return ok
}

// marker flags struct record fields present in raw input, flags are bool fields of the holder
// struct named after record Go fields
type marker struct {
	holder *xunsafe.Field
	flags  []*xunsafe.Field
}

func newMarker(holder reflect.StructField, fields []*Field) (*marker, error) {
	holderType := holder.Type
	if holderType.Kind() == reflect.Ptr {
		holderType = holderType.Elem()
	}
	if holderType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("set marker %v: expected struct, but had %v", holder.Name, holder.Type)
	}
	index := make(map[string]int, len(fields))
	for _, field := range fields {
		if field.xField != nil {
			index[field.xField.Name] = field.index
		}
	}
	ret := &marker{holder: xunsafe.NewField(holder), flags: make([]*xunsafe.Field, len(fields))}
	for i := 0; i < holderType.NumField(); i++ {
		flag := holderType.Field(i)
		pos, ok := index[flag.Name]
		if !ok {
			return nil, fmt.Errorf("set marker %v: '%v' does not have corresponding struct field", holder.Name, flag.Name)
		}
		if flag.Type.Kind() != reflect.Bool {
			return nil, fmt.Errorf("set marker %v: expected bool %v, but had %v", holder.Name, flag.Name, flag.Type)
		}
		ret.flags[pos] = xunsafe.NewField(flag)
	}
	return ret, nil
}

// flagsPointer returns holder address, nil pointer holder is allocated when alloc is set
func (m *marker) flagsPointer(ptr unsafe.Pointer, alloc bool) unsafe.Pointer {
	holderPtr := m.holder.Pointer(ptr)
	if m.holder.Type.Kind() != reflect.Ptr {
		return holderPtr
	}
	if value := *(*unsafe.Pointer)(holderPtr); value != nil || !alloc {
		return value
	}
	allocated := reflect.New(m.holder.Type.Elem())
	reflect.NewAt(m.holder.Type, holderPtr).Elem().Set(allocated)
	return unsafe.Pointer(allocated.Pointer())
}

func (m *marker) set(ptr unsafe.Pointer, index int) {
	if index >= len(m.flags) || m.flags[index] == nil {
		return
	}
	m.flags[index].SetBool(m.flagsPointer(ptr, true), true)
}

// isSet returns true when the flag is set, fields without holder or flag are assumed set
func (m *marker) isSet(ptr unsafe.Pointer, index int) bool {
	if index >= len(m.flags) || m.flags[index] == nil {
		return true
	}
	flagsPtr := m.flagsPointer(ptr, false)
	if flagsPtr == nil {
		return true
	}
	return m.flags[index].Bool(flagsPtr)
}

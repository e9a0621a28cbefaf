package conv

// Kind identifies a primitive conversion target.
type Kind int

const (
	KindUnknown Kind = iota
	KindString
	KindBool
	KindInt
	KindUint
	KindFloat
	KindBytes
	KindUUID
	KindDecimal
	KindDate
	KindDateTime
	KindTime
	KindDuration
)

var kindNames = map[Kind]string{
	KindUnknown:  "unknown",
	KindString:   "string",
	KindBool:     "boolean",
	KindInt:      "integer",
	KindUint:     "unsigned integer",
	KindFloat:    "float",
	KindBytes:    "bytes",
	KindUUID:     "uuid",
	KindDecimal:  "decimal",
	KindDate:     "date",
	KindDateTime: "datetime",
	KindTime:     "time",
	KindDuration: "duration",
}

// String returns kind name
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// IsNumeric returns true for kinds supporting numeric constraints
func (k Kind) IsNumeric() bool {
	switch k {
	case KindInt, KindUint, KindFloat, KindDecimal, KindDuration:
		return true
	}
	return false
}

// IsText returns true for kinds supporting length constraints
func (k Kind) IsText() bool {
	return k == KindString || k == KindBytes
}

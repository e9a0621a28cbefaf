package datamodel

// FieldOption represents field descriptor option
type FieldOption func(f *Field)

// Required marks field as required
func Required() FieldOption {
	return func(f *Field) { f.Required = true }
}

// Nullable sets nullable flag, fields are nullable by default
func Nullable(nullable bool) FieldOption {
	return func(f *Field) { f.Nullable = nullable }
}

// PrimaryKey marks field as primary key
func PrimaryKey() FieldOption {
	return func(f *Field) { f.PrimaryKey = true }
}

// DBDefault marks field value as database generated
func DBDefault() FieldOption {
	return func(f *Field) { f.DBDefault = true }
}

func Alias(alias string) FieldOption {
	return func(f *Field) { f.Alias = alias }
}

// Default sets default value, it is coerced like raw input
func Default(value interface{}) FieldOption {
	return func(f *Field) {
		f.Default = value
		f.hasDefault = true
	}
}

// DefaultFactory sets default value factory, it is called for each absent value
func DefaultFactory(factory Factory) FieldOption {
	return func(f *Field) { f.DefaultFactory = factory }
}

func Min(value float64) FieldOption {
	return func(f *Field) { f.Constraints.Min = &value }
}

func Max(value float64) FieldOption {
	return func(f *Field) { f.Constraints.Max = &value }
}

func Gt(value float64) FieldOption {
	return func(f *Field) { f.Constraints.Gt = &value }
}

func Lt(value float64) FieldOption {
	return func(f *Field) { f.Constraints.Lt = &value }
}

func Ge(value float64) FieldOption {
	return func(f *Field) { f.Constraints.Ge = &value }
}

func Le(value float64) FieldOption {
	return func(f *Field) { f.Constraints.Le = &value }
}

func Eq(value float64) FieldOption {
	return func(f *Field) { f.Constraints.Eq = &value }
}

func Ne(value float64) FieldOption {
	return func(f *Field) { f.Constraints.Ne = &value }
}

func Length(value int) FieldOption {
	return func(f *Field) { f.Constraints.Length = &value }
}

func MinLength(value int) FieldOption {
	return func(f *Field) { f.Constraints.MinLength = &value }
}

func MaxLength(value int) FieldOption {
	return func(f *Field) { f.Constraints.MaxLength = &value }
}

// Pattern sets regular expression text has to match, it is compiled by NewField
func Pattern(expr string) FieldOption {
	return func(f *Field) { f.pattern = expr }
}

func WithValidator(validator Validator) FieldOption {
	return func(f *Field) { f.Validator = validator }
}

func WithParser(parser Parser) FieldOption {
	return func(f *Field) { f.Parser = parser }
}

func WithEncoder(encoder Encoder) FieldOption {
	return func(f *Field) { f.Encoder = encoder }
}

func WithDecoder(decoder Decoder) FieldOption {
	return func(f *Field) { f.Decoder = decoder }
}

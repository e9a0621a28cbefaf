// Package conv provides the primitive converter registry used by the datamodel engine.
// Each registered scalar type owns one conversion function that reshapes a raw value
// (string, byte slice, number, bool, time, ...) into that type. A registry starts with a
// minimal builtin set and accepts extended kinds such as UUID, date/time and decimal.
package conv

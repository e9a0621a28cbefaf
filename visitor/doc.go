// Package visitor offers visitors over raw container values.
// It provides iteration over structs, maps, slices and arrays with simple
// callback-based traversal. Map entries are visited in sorted key order so that
// anything derived from a traversal (coerced values, error order) is reproducible.
package visitor

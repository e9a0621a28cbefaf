package datamodel

import "strings"

// ErrorMap maps field names to their errors, keys keep processing order
type ErrorMap struct {
	keys    []string
	records map[string]*ErrorRecord
}

// NewErrorMap creates an error map
func NewErrorMap() *ErrorMap {
	return &ErrorMap{records: map[string]*ErrorRecord{}}
}

// Add adds a record, the first record reported for a field wins
func (m *ErrorMap) Add(record *ErrorRecord) {
	if record == nil {
		return
	}
	if _, ok := m.records[record.Field]; ok {
		return
	}
	m.keys = append(m.keys, record.Field)
	m.records[record.Field] = record
}

// Get returns field error
func (m *ErrorMap) Get(field string) *ErrorRecord {
	if m == nil {
		return nil
	}
	return m.records[field]
}

// Len returns number of failed fields
func (m *ErrorMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns failed fields in processing order
func (m *ErrorMap) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string{}, m.keys...)
}

// Each iterates records in processing order until fn returns false
func (m *ErrorMap) Each(fn func(field string, record *ErrorRecord) bool) {
	if m == nil {
		return
	}
	for _, key := range m.keys {
		if !fn(key, m.records[key]) {
			return
		}
	}
}

// Err returns aggregated *ValidationError or nil when empty
func (m *ErrorMap) Err() error {
	if m.Len() == 0 {
		return nil
	}
	return &ValidationError{Errors: m}
}

// Error implements error so that nested record failures can be used as a cause
func (m *ErrorMap) Error() string {
	messages := make([]string, 0, m.Len())
	m.Each(func(_ string, record *ErrorRecord) bool {
		messages = append(messages, record.Error())
		return true
	})
	return strings.Join(messages, "; ")
}

func (m *ErrorMap) errors() []error {
	ret := make([]error, 0, m.Len())
	m.Each(func(_ string, record *ErrorRecord) bool {
		ret = append(ret, record)
		return true
	})
	return ret
}

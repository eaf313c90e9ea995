// Package mapper turns raw provider payloads into normalized records. Every
// mapper is pure and deterministic: a payload either maps to a record, fails
// with a MappingError naming the missing field, or (for the daily mappers)
// reports insufficient data by returning nil.
package mapper

import "fmt"

// MappingError reports a required field missing from a raw payload. The
// fetchers catch it to skip the single item without aborting the batch.
type MappingError struct {
	Record string // natural key of the item, "" when unknown
	Field  string
}

func (e *MappingError) Error() string {
	if e.Record == "" {
		return fmt.Sprintf("missing required field %q", e.Field)
	}
	return fmt.Sprintf("record %s: missing required field %q", e.Record, e.Field)
}

func missingField(record, field string) error {
	return &MappingError{Record: record, Field: field}
}

// round2 rounds to two decimal places, the precision used for distances,
// speeds and training scores.
func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

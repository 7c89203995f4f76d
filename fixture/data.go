// Package fixture builds the Arrow record batches used as cross-language test fixtures
// and reads them back into plain Go values.
package fixture

import (
	"math"
	"sort"

	log "github.com/sirupsen/logrus"
)

var logger = log.New()

// SetLogLevel sets level of the package logger
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// Data maps a field name to a homogeneous sequence of values, nil is the null marker.
type Data map[string][]any

// Category is a string value that is written as an entry of a dictionary encoded column.
type Category string

// Column is a named column read back from a stream, in schema order.
type Column struct {
	Name   string
	Values []any
}

// Keys returns field names in lexicographic order, which is also the on-disk column order.
func (d Data) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Normalize returns a copy of d with integers converted to int64 and float32 widened to
// float64, which is how values come back from a stream.
func Normalize(d Data) Data {
	result := make(Data, len(d))
	for k, values := range d {
		normalized := make([]any, len(values))
		for i, v := range values {
			normalized[i] = normalizeValue(v)
		}
		result[k] = normalized
	}
	return result
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint:
		if uint64(val) <= math.MaxInt64 {
			return int64(val)
		}
		return v
	case uint64:
		if val <= math.MaxInt64 {
			return int64(val)
		}
		return v
	case float32:
		return float64(val)
	default:
		return v
	}
}

// ToData drops column order from cols.
func ToData(cols []Column) Data {
	result := make(Data, len(cols))
	for _, col := range cols {
		result[col.Name] = col.Values
	}
	return result
}

package fixture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// FormatPyDict renders cols the way Python prints a dict of lists, e.g.
// {'f0': [1, 2, 3], 'f1': [1.5, None, 2.0]}
func FormatPyDict(cols []Column) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, col := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(pyString(col.Name))
		sb.WriteString(": [")
		for j, v := range col.Values {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(pyRepr(v))
		}
		sb.WriteByte(']')
	}
	sb.WriteByte('}')
	return sb.String()
}

func pyRepr(v any) string {
	switch val := v.(type) {
	case nil:
		return "None"
	case bool:
		if val {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return pyFloat(val)
	case string:
		return pyString(val)
	case Category:
		return pyString(string(val))
	}
	return fmt.Sprint(v)
}

func pyFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func pyString(s string) string {
	quote := byte('\'')
	if strings.Contains(s, "'") && !strings.Contains(s, "\"") {
		quote = '"'
	}

	var sb strings.Builder
	sb.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			sb.WriteString(`\\`)
		case r == rune(quote):
			sb.WriteByte('\\')
			sb.WriteByte(quote)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r <= 0xff && !unicode.IsPrint(r):
			fmt.Fprintf(&sb, `\x%02x`, r)
		case r <= 0xffff && !unicode.IsPrint(r):
			fmt.Fprintf(&sb, `\u%04x`, r)
		case !unicode.IsPrint(r):
			fmt.Fprintf(&sb, `\U%08x`, r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte(quote)
	return sb.String()
}

// FormatJSON renders cols as a JSON object of arrays, keeping column order.
func FormatJSON(cols []Column) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, _ := json.Marshal(col.Name)
		buf.Write(name)
		buf.WriteByte(':')

		values := make([]any, len(col.Values))
		for j, v := range col.Values {
			values[j] = JSONValue(v)
		}
		data, err := json.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("failed to encode column [%s]: %w", col.Name, err)
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// jsonFloat keeps a fraction or exponent on whole numbers so 2.0 reads back as a float.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("unsupported value [%s]", pyFloat(v))
	}
	return []byte(pyFloat(v)), nil
}

// JSONValue wraps v for encoding/json, float64 values always encode with a fraction or exponent.
func JSONValue(v any) any {
	if f, ok := v.(float64); ok {
		return jsonFloat(f)
	}
	return v
}

// JSONRow applies JSONValue to every field of row.
func JSONRow(row map[string]any) map[string]any {
	result := make(map[string]any, len(row))
	for k, v := range row {
		result[k] = JSONValue(v)
	}
	return result
}

// TextValue renders v as a CSV/TSV field, nil becomes an empty field.
func TextValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return pyFloat(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// Rows transposes cols into one map per row.
func Rows(cols []Column) []map[string]any {
	if len(cols) == 0 {
		return nil
	}
	rows := make([]map[string]any, len(cols[0].Values))
	for i := range rows {
		row := make(map[string]any, len(cols))
		for _, col := range cols {
			row[col.Name] = col.Values[i]
		}
		rows[i] = row
	}
	return rows
}

package fixture

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// DecodeJSON reads a JSON object of arrays, the same shape FormatJSON prints.
func DecodeJSON(r io.Reader) (Data, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var raw map[string][]any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("not a JSON object of arrays: %w", err)
	}

	result := make(Data, len(raw))
	for name, values := range raw {
		column := make([]any, len(values))
		for i, v := range values {
			value, err := jsonValue(v)
			if err != nil {
				return nil, fmt.Errorf("column [%s] row %d: %w", name, i, err)
			}
			column[i] = value
		}
		result[name] = column
	}
	return result, nil
}

// DecodeJSONL reads one JSON object per line, a field missing from a row is null.
func DecodeJSONL(r io.Reader) (Data, error) {
	var rows []map[string]any
	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		decoder := json.NewDecoder(bytes.NewReader(line))
		decoder.UseNumber()
		var row map[string]any
		if err := decoder.Decode(&row); err != nil {
			return nil, fmt.Errorf("invalid JSON string at line %d: %w", lineNo, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	result := Data{}
	for i, row := range rows {
		for name, v := range row {
			if _, found := result[name]; !found {
				result[name] = make([]any, len(rows))
			}
			value, err := jsonValue(v)
			if err != nil {
				return nil, fmt.Errorf("column [%s] row %d: %w", name, i, err)
			}
			result[name][i] = value
		}
	}
	return result, nil
}

func jsonValue(v any) (any, error) {
	switch val := v.(type) {
	case nil, bool, string:
		return val, nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, nil
		}
		return val.Float64()
	}
	return nil, fmt.Errorf("unsupported JSON value [%v]", v)
}

// DecodeCSV reads CSV with a header line. Empty cells are null, other cells become bool,
// int64, float64 or string, whichever parses first.
func DecodeCSV(r io.Reader, comma rune) (Data, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = comma

	header, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return Data{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	result := make(Data, len(header))
	for _, name := range header {
		if _, found := result[name]; found {
			return nil, fmt.Errorf("duplicate field [%s] in CSV header", name)
		}
		result[name] = []any{}
	}
	for {
		fields, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		for i, field := range fields {
			result[header[i]] = append(result[header[i]], csvValue(field))
		}
	}
	return result, nil
}

func csvValue(field string) any {
	if field == "" {
		return nil
	}
	if b, err := strconv.ParseBool(field); err == nil && (field == "true" || field == "false") {
		return b
	}
	if i, err := strconv.ParseInt(field, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(field, 64); err == nil {
		return f
	}
	return field
}

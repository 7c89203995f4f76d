package fixture

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

var categoryType = &arrow.DictionaryType{
	IndexType: arrow.PrimitiveTypes.Int32,
	ValueType: arrow.BinaryTypes.String,
}

type valueKind int

const (
	kindNone valueKind = iota
	kindBool
	kindInt
	kindFloat
	kindString
	kindCategory
)

func kindOf(v any) (valueKind, error) {
	switch normalizeValue(v).(type) {
	case bool:
		return kindBool, nil
	case int64:
		return kindInt, nil
	case float64:
		return kindFloat, nil
	case string:
		return kindString, nil
	case Category:
		return kindCategory, nil
	case uint, uint64:
		return kindNone, fmt.Errorf("value [%v] of type %T overflows int64", v, v)
	}
	return kindNone, fmt.Errorf("unsupported value [%v] of type %T", v, v)
}

// InferType infers the Arrow type of a value sequence from its non-null values. Integers
// mixed with floats become float64, a sequence without non-null values becomes null.
func InferType(values []any) (arrow.DataType, error) {
	kind := kindNone
	for _, v := range values {
		if v == nil {
			continue
		}
		k, err := kindOf(v)
		if err != nil {
			return nil, err
		}
		switch {
		case kind == kindNone || kind == k:
			kind = k
		case kind == kindInt && k == kindFloat, kind == kindFloat && k == kindInt:
			kind = kindFloat
		default:
			return nil, fmt.Errorf("cannot mix value [%v] of type %T with %s values", v, v, kindName(kind))
		}
	}

	switch kind {
	case kindBool:
		return arrow.FixedWidthTypes.Boolean, nil
	case kindInt:
		return arrow.PrimitiveTypes.Int64, nil
	case kindFloat:
		return arrow.PrimitiveTypes.Float64, nil
	case kindString:
		return arrow.BinaryTypes.String, nil
	case kindCategory:
		return categoryType, nil
	}
	return arrow.Null, nil
}

func kindName(k valueKind) string {
	switch k {
	case kindBool:
		return "bool"
	case kindInt:
		return "int"
	case kindFloat:
		return "float"
	case kindString:
		return "string"
	case kindCategory:
		return "category"
	}
	return "null"
}

// NewArray converts values to an Arrow array of the inferred type.
func NewArray(mem memory.Allocator, values []any) (arrow.Array, error) {
	dataType, err := InferType(values)
	if err != nil {
		return nil, err
	}

	switch dataType.ID() {
	case arrow.BOOL:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		for _, v := range values {
			if v == nil {
				b.AppendNull()
				continue
			}
			b.Append(v.(bool))
		}
		return b.NewArray(), nil
	case arrow.INT64:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		for _, v := range values {
			if v == nil {
				b.AppendNull()
				continue
			}
			b.Append(normalizeValue(v).(int64))
		}
		return b.NewArray(), nil
	case arrow.FLOAT64:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for _, v := range values {
			switch val := normalizeValue(v).(type) {
			case nil:
				b.AppendNull()
			case int64:
				b.Append(float64(val))
			case float64:
				b.Append(val)
			}
		}
		return b.NewArray(), nil
	case arrow.STRING:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		for _, v := range values {
			if v == nil {
				b.AppendNull()
				continue
			}
			b.Append(v.(string))
		}
		return b.NewArray(), nil
	case arrow.DICTIONARY:
		b := array.NewDictionaryBuilder(mem, categoryType).(*array.BinaryDictionaryBuilder)
		defer b.Release()
		for _, v := range values {
			if v == nil {
				b.AppendNull()
				continue
			}
			if err := b.AppendString(string(v.(Category))); err != nil {
				return nil, fmt.Errorf("failed to append category [%v]: %w", v, err)
			}
		}
		return b.NewArray(), nil
	}

	b := array.NewNullBuilder(mem)
	defer b.Release()
	for range values {
		b.AppendNull()
	}
	return b.NewArray(), nil
}

// NewRecord builds one record batch from d, with one nullable column per key in sorted
// order. All value sequences must have the same length.
func NewRecord(mem memory.Allocator, d Data) (arrow.Record, error) {
	keys := d.Keys()
	fields := make([]arrow.Field, 0, len(keys))
	columns := make([]arrow.Array, 0, len(keys))
	defer func() {
		for _, col := range columns {
			col.Release()
		}
	}()

	numRows := -1
	for _, key := range keys {
		values := d[key]
		if numRows == -1 {
			numRows = len(values)
		} else if len(values) != numRows {
			return nil, fmt.Errorf("column [%s] has %d values, expected %d", key, len(values), numRows)
		}

		arr, err := NewArray(mem, values)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column [%s]: %w", key, err)
		}
		columns = append(columns, arr)
		fields = append(fields, arrow.Field{Name: key, Type: arr.DataType(), Nullable: true})
	}
	if numRows == -1 {
		numRows = 0
	}

	return array.NewRecord(arrow.NewSchema(fields, nil), columns, int64(numRows)), nil
}

package fixture

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// WriteData writes d as a single record batch in Arrow IPC stream format. The writer is
// closed, which emits the end-of-stream marker, but w itself is left open.
func WriteData(w io.Writer, mem memory.Allocator, d Data, opts ...ipc.Option) error {
	record, err := NewRecord(mem, d)
	if err != nil {
		return err
	}
	defer record.Release()

	opts = append([]ipc.Option{ipc.WithAllocator(mem)}, opts...)
	opts = append(opts, ipc.WithSchema(record.Schema()))
	writer := ipc.NewWriter(w, opts...)
	if err := writer.Write(record); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	logger.Debugf("wrote record with %d rows and %d columns", record.NumRows(), record.NumCols())
	return nil
}

// NewTable combines every record batch left in reader into one table.
func NewTable(reader *ipc.Reader) (arrow.Table, error) {
	var records []arrow.Record
	defer func() {
		for _, r := range records {
			r.Release()
		}
	}()

	for reader.Next() {
		record := reader.Record()
		record.Retain()
		records = append(records, record)
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("failed to read record %d: %w", len(records), err)
	}

	return array.NewTableFromRecords(reader.Schema(), records), nil
}

// ReadTable reads a whole Arrow IPC stream from r into one table.
func ReadTable(r io.Reader, mem memory.Allocator) (arrow.Table, error) {
	reader, err := ipc.NewReader(r, ipc.WithAllocator(mem))
	if err != nil {
		return nil, fmt.Errorf("failed to create reader: %w", err)
	}
	defer reader.Release()

	return NewTable(reader)
}

// ReadData reads a whole Arrow IPC stream from r and returns its columns in schema order.
func ReadData(r io.Reader, mem memory.Allocator) ([]Column, error) {
	table, err := ReadTable(r, mem)
	if err != nil {
		return nil, err
	}
	defer table.Release()

	return Columns(table)
}

// Columns converts every column of table into plain Go values, nulls become nil.
func Columns(table arrow.Table) ([]Column, error) {
	cols := make([]Column, table.NumCols())
	for i := range cols {
		col := table.Column(i)
		values := make([]any, 0, col.Len())
		for _, chunk := range col.Data().Chunks() {
			for j := 0; j < chunk.Len(); j++ {
				v, err := Value(chunk, j)
				if err != nil {
					return nil, fmt.Errorf("column [%s]: %w", col.Name(), err)
				}
				values = append(values, v)
			}
		}
		cols[i] = Column{Name: col.Name(), Values: values}
	}
	return cols, nil
}

// Value returns the i-th entry of arr as a Go value.
func Value(arr arrow.Array, i int) (any, error) {
	if arr.IsNull(i) {
		return nil, nil
	}

	switch a := arr.(type) {
	case *array.Null:
		return nil, nil
	case *array.Boolean:
		return a.Value(i), nil
	case *array.Int64:
		return a.Value(i), nil
	case *array.Float64:
		return a.Value(i), nil
	case *array.String:
		return a.Value(i), nil
	case *array.Dictionary:
		dict, ok := a.Dictionary().(*array.String)
		if !ok {
			return nil, fmt.Errorf("unsupported dictionary value type %s", a.Dictionary().DataType())
		}
		return Category(dict.Value(a.GetValueIndex(i))), nil
	}
	return nil, fmt.Errorf("unsupported data type %s", arr.DataType())
}

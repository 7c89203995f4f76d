package fixture

import (
	"bytes"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	for _, f := range append(Catalog(), Extra()...) {
		t.Run(f.Name, func(t *testing.T) {
			mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
			defer mem.AssertSize(t, 0)

			var buf bytes.Buffer
			require.NoError(t, WriteData(&buf, mem, f.Data))

			cols, err := ReadData(&buf, mem)
			require.NoError(t, err)
			require.Equal(t, Normalize(f.Data), ToData(cols))

			names := make([]string, len(cols))
			for i, col := range cols {
				names[i] = col.Name
			}
			require.Equal(t, f.Data.Keys(), names)
		})
	}
}

func TestRoundTripCompressed(t *testing.T) {
	testCases := map[string]ipc.Option{
		"lz4":  ipc.WithLZ4(),
		"zstd": ipc.WithZstd(),
	}
	f, err := Lookup("mixed")
	require.NoError(t, err)

	for name, opt := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			mem := memory.NewGoAllocator()

			var buf bytes.Buffer
			require.NoError(t, WriteData(&buf, mem, f.Data, opt))

			cols, err := ReadData(&buf, mem)
			require.NoError(t, err)
			require.Equal(t, Normalize(f.Data), ToData(cols))
		})
	}
}

func TestWriteDataDeterministic(t *testing.T) {
	f, err := Lookup("mixed")
	require.NoError(t, err)
	mem := memory.NewGoAllocator()

	var first, second bytes.Buffer
	require.NoError(t, WriteData(&first, mem, f.Data))
	require.NoError(t, WriteData(&second, mem, f.Data))
	require.Equal(t, first.Bytes(), second.Bytes())
}

func TestWriteDataInsertionOrder(t *testing.T) {
	mem := memory.NewGoAllocator()
	var buf bytes.Buffer
	require.NoError(t, WriteData(&buf, mem, Data{"f3": {"foo"}, "f1": {1.5}, "f2": {true}, "f0": {1}}))

	table, err := ReadTable(&buf, mem)
	require.NoError(t, err)
	defer table.Release()

	names := make([]string, table.NumCols())
	for i := range names {
		names[i] = table.Schema().Field(i).Name
	}
	require.Equal(t, []string{"f0", "f1", "f2", "f3"}, names)
}

func TestWriteDataError(t *testing.T) {
	var buf bytes.Buffer
	err := WriteData(&buf, memory.NewGoAllocator(), Data{"f0": {1, 2}, "f1": {1}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "has 1 values, expected 2")
	require.Zero(t, buf.Len())
}

func TestReadDataMultipleBatches(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	first, err := NewRecord(mem, Data{"f0": {1, 2}, "f1": {"a", nil}})
	require.NoError(t, err)
	defer first.Release()
	second, err := NewRecord(mem, Data{"f0": {3}, "f1": {"c"}})
	require.NoError(t, err)
	defer second.Release()

	var buf bytes.Buffer
	writer := ipc.NewWriter(&buf, ipc.WithSchema(first.Schema()), ipc.WithAllocator(mem))
	require.NoError(t, writer.Write(first))
	require.NoError(t, writer.Write(second))
	require.NoError(t, writer.Close())

	cols, err := ReadData(&buf, mem)
	require.NoError(t, err)
	require.Equal(t, []Column{
		{Name: "f0", Values: []any{int64(1), int64(2), int64(3)}},
		{Name: "f1", Values: []any{"a", nil, "c"}},
	}, cols)
}

func TestReadDataError(t *testing.T) {
	testCases := map[string]struct {
		input  []byte
		errMsg string
	}{
		"empty":   {nil, "failed to create reader"},
		"garbage": {[]byte(strings.Repeat("not an arrow stream", 4)), "failed to create reader"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := ReadData(bytes.NewReader(tc.input), memory.NewGoAllocator())
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestValueUnsupported(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	b := array.NewInt32Builder(mem)
	defer b.Release()
	b.AppendValues([]int32{1}, nil)
	b.AppendNull()
	arr := b.NewArray()
	defer arr.Release()

	_, err := Value(arr, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported data type int32")

	v, err := Value(arr, 1)
	require.NoError(t, err)
	require.Nil(t, v)
}

package fixture

import (
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	d := Data{"f3": nil, "f0": nil, "b": nil, "a1": nil, "a0": nil}
	require.Equal(t, []string{"a0", "a1", "b", "f0", "f3"}, d.Keys())
	require.Empty(t, Data{}.Keys())
}

func TestNormalize(t *testing.T) {
	d := Data{"f0": {1, int8(2), int16(3), int32(4), uint8(5), uint16(6), uint32(7), int64(8)}, "f1": {float32(1.5), 2.5, nil}}
	require.Equal(t, Data{
		"f0": {int64(1), int64(2), int64(3), int64(4), int64(5), int64(6), int64(7), int64(8)},
		"f1": {1.5, 2.5, nil},
	}, Normalize(d))

	d = Data{"f0": {uint(1), uint64(math.MaxInt64), uint64(math.MaxUint64)}}
	require.Equal(t, Data{"f0": {int64(1), int64(math.MaxInt64), uint64(math.MaxUint64)}}, Normalize(d))
}

func TestInferType(t *testing.T) {
	testCases := map[string]struct {
		values   []any
		expected arrow.DataType
		errMsg   string
	}{
		"bool":          {[]any{true, false, nil}, arrow.FixedWidthTypes.Boolean, ""},
		"int":           {[]any{1, int64(2), int32(3)}, arrow.PrimitiveTypes.Int64, ""},
		"float":         {[]any{1.5, 2.5, nil}, arrow.PrimitiveTypes.Float64, ""},
		"float32":       {[]any{float32(1.5)}, arrow.PrimitiveTypes.Float64, ""},
		"int-to-float":  {[]any{1, 2.5}, arrow.PrimitiveTypes.Float64, ""},
		"float-to-int":  {[]any{2.5, 1}, arrow.PrimitiveTypes.Float64, ""},
		"string":        {[]any{"foo", nil, "bar"}, arrow.BinaryTypes.String, ""},
		"category":      {[]any{Category("a"), nil}, categoryType, ""},
		"empty":         {[]any{}, arrow.Null, ""},
		"all-null":      {[]any{nil, nil}, arrow.Null, ""},
		"bool-and-int":  {[]any{true, 1}, nil, "cannot mix value [1] of type int with bool values"},
		"string-number": {[]any{"foo", 1.5}, nil, "cannot mix value [1.5] of type float64 with string values"},
		"category-str":  {[]any{Category("a"), "b"}, nil, "with category values"},
		"unsupported":   {[]any{[]byte("foo")}, nil, "unsupported value"},
		"uint64":        {[]any{uint64(1), uint(2)}, arrow.PrimitiveTypes.Int64, ""},
		"uint64-max":    {[]any{uint64(math.MaxUint64)}, nil, "value [18446744073709551615] of type uint64 overflows int64"},
		"uint-max":      {[]any{1, uint(math.MaxUint64)}, nil, "of type uint overflows int64"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			dataType, err := InferType(tc.values)
			if tc.errMsg != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.errMsg)
				return
			}
			require.NoError(t, err)
			require.True(t, arrow.TypeEqual(tc.expected, dataType), "expected %s, got %s", tc.expected, dataType)
		})
	}
}

func TestNewRecord(t *testing.T) {
	t.Run("mixed", func(t *testing.T) {
		mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
		defer mem.AssertSize(t, 0)

		f, err := Lookup("mixed")
		require.NoError(t, err)
		record, err := NewRecord(mem, f.Data)
		require.NoError(t, err)
		defer record.Release()

		require.Equal(t, int64(3), record.NumRows())
		require.Equal(t, int64(4), record.NumCols())
		expectedTypes := []arrow.DataType{
			arrow.PrimitiveTypes.Int64,
			arrow.PrimitiveTypes.Float64,
			arrow.FixedWidthTypes.Boolean,
			arrow.BinaryTypes.String,
		}
		for i, field := range record.Schema().Fields() {
			require.Equal(t, []string{"f0", "f1", "f2", "f3"}[i], field.Name)
			require.True(t, field.Nullable)
			require.True(t, arrow.TypeEqual(expectedTypes[i], field.Type))
		}

		floats := record.Column(1).(*array.Float64)
		require.Equal(t, 1, floats.NullN())
		require.True(t, floats.IsNull(2))
		require.Equal(t, 2.5, floats.Value(1))

		strs := record.Column(3).(*array.String)
		require.True(t, strs.IsNull(2))
		require.Equal(t, "foo", strs.Value(0))
	})

	t.Run("sorted-columns", func(t *testing.T) {
		mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
		defer mem.AssertSize(t, 0)

		record, err := NewRecord(mem, Data{"zeta": {1}, "alpha": {"a"}, "mid": {true}})
		require.NoError(t, err)
		defer record.Release()
		require.Equal(t, "alpha", record.ColumnName(0))
		require.Equal(t, "mid", record.ColumnName(1))
		require.Equal(t, "zeta", record.ColumnName(2))
	})

	t.Run("category", func(t *testing.T) {
		mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
		defer mem.AssertSize(t, 0)

		record, err := NewRecord(mem, Data{"f0": {Category("a"), Category("b"), nil, Category("a")}})
		require.NoError(t, err)
		defer record.Release()

		dict := record.Column(0).(*array.Dictionary)
		require.Equal(t, 2, dict.Dictionary().Len())
		require.Equal(t, dict.GetValueIndex(0), dict.GetValueIndex(3))
		require.True(t, dict.IsNull(2))
	})

	t.Run("unsigned", func(t *testing.T) {
		mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
		defer mem.AssertSize(t, 0)

		record, err := NewRecord(mem, Data{"f0": {uint(1), nil, uint64(math.MaxInt64)}})
		require.NoError(t, err)
		defer record.Release()

		ints := record.Column(0).(*array.Int64)
		require.Equal(t, int64(1), ints.Value(0))
		require.True(t, ints.IsNull(1))
		require.Equal(t, int64(math.MaxInt64), ints.Value(2))

		_, err = NewRecord(mem, Data{"f0": {uint64(math.MaxInt64) + 1}})
		require.Error(t, err)
		require.Contains(t, err.Error(), "overflows int64")
	})

	t.Run("empty", func(t *testing.T) {
		mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
		defer mem.AssertSize(t, 0)

		record, err := NewRecord(mem, Data{"f0": {}})
		require.NoError(t, err)
		defer record.Release()
		require.Equal(t, int64(0), record.NumRows())
		require.Equal(t, arrow.NULL, record.Column(0).DataType().ID())
	})

	t.Run("no-columns", func(t *testing.T) {
		record, err := NewRecord(memory.NewGoAllocator(), Data{})
		require.NoError(t, err)
		defer record.Release()
		require.Equal(t, int64(0), record.NumRows())
		require.Equal(t, int64(0), record.NumCols())
	})

	t.Run("length-mismatch", func(t *testing.T) {
		mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
		defer mem.AssertSize(t, 0)

		_, err := NewRecord(mem, Data{"f0": {1, 2, 3}, "f1": {1.5}})
		require.Error(t, err)
		require.Contains(t, err.Error(), "column [f1] has 1 values, expected 3")
	})

	t.Run("bad-type", func(t *testing.T) {
		mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
		defer mem.AssertSize(t, 0)

		_, err := NewRecord(mem, Data{"f0": {1, 2}, "f1": {"a", false}})
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to convert column [f1]")
	})
}

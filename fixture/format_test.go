package fixture

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/require"
)

func mixedColumns() []Column {
	return []Column{
		{Name: "f0", Values: []any{int64(1), int64(2), int64(3)}},
		{Name: "f1", Values: []any{1.5, 2.5, nil}},
		{Name: "f2", Values: []any{true, false, true}},
		{Name: "f3", Values: []any{"foo", "bar", nil}},
	}
}

func TestFormatPyDict(t *testing.T) {
	testCases := map[string]struct {
		cols     []Column
		expected string
	}{
		"mixed":    {mixedColumns(), "{'f0': [1, 2, 3], 'f1': [1.5, 2.5, None], 'f2': [True, False, True], 'f3': ['foo', 'bar', None]}"},
		"none":     {nil, "{}"},
		"empty":    {[]Column{{Name: "f0"}}, "{'f0': []}"},
		"category": {[]Column{{Name: "f0", Values: []any{Category("a"), nil}}}, "{'f0': ['a', None]}"},
		"latin1":   {[]Column{{Name: "f0", Values: []any{"a\u0080b\u00a0c\u00e9"}}}, `{'f0': ['a\x80b\xa0cé']}`},
		"format":   {[]Column{{Name: "f0", Values: []any{"zero\u200bwidth", "\U000e0001"}}}, `{'f0': ['zero\u200bwidth', '\U000e0001']}`},
		"control":  {[]Column{{Name: "f0", Values: []any{"\x00\x1f\x7f"}}}, `{'f0': ['\x00\x1f\x7f']}`},
		"quotes":   {[]Column{{Name: "it's", Values: []any{`a"b'c`, "tab\there", "back\\slash"}}}, `{"it's": ['a"b\'c', 'tab\there', 'back\\slash']}`},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.expected, FormatPyDict(tc.cols))
		})
	}
}

func TestPyFloat(t *testing.T) {
	testCases := map[float64]string{
		1.5:          "1.5",
		2:            "2.0",
		-0.25:        "-0.25",
		0:            "0.0",
		1000000:      "1000000.0",
		1e16:         "1e+16",
		1.5e-5:       "1.5e-05",
		0.0001:       "0.0001",
		math.Inf(1):  "inf",
		math.Inf(-1): "-inf",
	}
	for input, expected := range testCases {
		require.Equal(t, expected, pyFloat(input), "input %v", input)
	}
	require.Equal(t, "nan", pyFloat(math.NaN()))
}

func TestFormatJSON(t *testing.T) {
	buf, err := FormatJSON(mixedColumns())
	require.NoError(t, err)
	require.Equal(t, `{"f0":[1,2,3],"f1":[1.5,2.5,null],"f2":[true,false,true],"f3":["foo","bar",null]}`, string(buf))

	buf, err = FormatJSON([]Column{{Name: "f0"}})
	require.NoError(t, err)
	require.Equal(t, `{"f0":[]}`, string(buf))

	_, err = FormatJSON([]Column{{Name: "f0", Values: []any{math.NaN()}}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to encode column [f0]")

	buf, err = FormatJSON([]Column{{Name: "f0", Values: []any{2.0, math.Copysign(0, -1), 1e16, nil}}})
	require.NoError(t, err)
	require.Equal(t, `{"f0":[2.0,-0.0,1e+16,null]}`, string(buf))
}

func TestFormatJSONRoundTrip(t *testing.T) {
	cols := []Column{
		{Name: "f0", Values: []any{1.0, 2.0, nil}},
		{Name: "f1", Values: []any{int64(1), int64(2), int64(3)}},
	}
	buf, err := FormatJSON(cols)
	require.NoError(t, err)

	data, err := DecodeJSON(bytes.NewReader(buf))
	require.NoError(t, err)
	require.Equal(t, Data{"f0": {1.0, 2.0, nil}, "f1": {int64(1), int64(2), int64(3)}}, data)

	dataType, err := InferType(data["f0"])
	require.NoError(t, err)
	require.Equal(t, arrow.PrimitiveTypes.Float64, dataType)
}

func TestJSONRow(t *testing.T) {
	buf, err := json.Marshal(JSONRow(map[string]any{"f0": 3.0, "f1": int64(3), "f2": nil}))
	require.NoError(t, err)
	require.Equal(t, `{"f0":3.0,"f1":3,"f2":null}`, string(buf))

	_, err = json.Marshal(JSONRow(map[string]any{"f0": math.Inf(1)}))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported value [inf]")
}

func TestTextValue(t *testing.T) {
	testCases := map[string]struct {
		value    any
		expected string
	}{
		"nil":      {nil, ""},
		"int":      {int64(-3), "-3"},
		"float":    {1.5, "1.5"},
		"whole":    {2.0, "2.0"},
		"nan":      {math.NaN(), "nan"},
		"bool":     {false, "false"},
		"string":   {"foo", "foo"},
		"category": {Category("a"), "a"},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.expected, TextValue(tc.value))
		})
	}
}

func TestRows(t *testing.T) {
	require.Nil(t, Rows(nil))
	require.Equal(t, []map[string]any{
		{"f0": int64(1), "f1": 1.5, "f2": true, "f3": "foo"},
		{"f0": int64(2), "f1": 2.5, "f2": false, "f3": "bar"},
		{"f0": int64(3), "f1": nil, "f2": true, "f3": nil},
	}, Rows(mixedColumns()))
}

package meta

import (
	"encoding/json"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	pio "github.com/tobgu/arrow-fixtures/io"
	pschema "github.com/tobgu/arrow-fixtures/schema"
)

// Cmd is a kong command for meta
type Cmd struct {
	URI string `arg:"" predictor:"file" help:"URI of Arrow stream file."`
	pio.ReadOption
}

type columnMeta struct {
	Name           string
	Length         int
	NullCount      int
	DictionarySize *int `json:",omitempty"`
}

type batchMeta struct {
	NumRows int64
	Columns []columnMeta
}

type streamMeta struct {
	Fields     []pschema.Field
	NumBatches int
	NumRows    int64
	Batches    []batchMeta
}

// Run does actual meta job
func (c Cmd) Run() error {
	reader, err := pio.NewStreamReader(c.URI, c.ReadOption, memory.DefaultAllocator)
	if err != nil {
		return err
	}
	defer func() {
		_ = reader.Close()
	}()

	meta := streamMeta{
		Fields:  pschema.Describe(reader.Schema()),
		Batches: []batchMeta{},
	}
	for reader.Next() {
		batch := buildBatch(reader.Record())
		meta.Batches = append(meta.Batches, batch)
		meta.NumRows += batch.NumRows
	}
	if err := reader.Err(); err != nil {
		return fmt.Errorf("failed to read [%s]: %w", c.URI, err)
	}
	meta.NumBatches = len(meta.Batches)

	buf, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	fmt.Println(string(buf))

	return nil
}

func buildBatch(rec arrow.Record) batchMeta {
	columns := make([]columnMeta, rec.NumCols())
	for i, col := range rec.Columns() {
		columns[i] = columnMeta{
			Name:      rec.ColumnName(i),
			Length:    col.Len(),
			NullCount: col.NullN(),
		}
		if dict, ok := col.(*array.Dictionary); ok {
			size := dict.Dictionary().Len()
			columns[i].DictionarySize = &size
		}
	}
	return batchMeta{
		NumRows: rec.NumRows(),
		Columns: columns,
	}
}

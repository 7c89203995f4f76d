package transcode

import (
	"encoding/json"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/tobgu/arrow-fixtures/fixture"
	pio "github.com/tobgu/arrow-fixtures/io"
	pschema "github.com/tobgu/arrow-fixtures/schema"
)

// Cmd is a kong command for transcode
type Cmd struct {
	Source string `short:"s" help:"Source Arrow stream file to transcode." required:"true"`
	URI    string `arg:"" predictor:"file" help:"URI of output Parquet file."`
	pio.ReadOption
	pio.ParquetOption
}

// recordToJSON converts every row of rec to a JSON object keyed by field name
func recordToJSON(rec arrow.Record) ([]string, error) {
	rows := make([]string, rec.NumRows())
	row := make(map[string]any, rec.NumCols())
	for i := range rows {
		for j, col := range rec.Columns() {
			value, err := fixture.Value(col, i)
			if err != nil {
				return nil, fmt.Errorf("column [%s]: %w", rec.ColumnName(j), err)
			}
			row[rec.ColumnName(j)] = value
		}
		buf, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("failed to encode row %d: %w", i, err)
		}
		rows[i] = string(buf)
	}
	return rows, nil
}

// Run does actual transcode job
func (c Cmd) Run() (retErr error) {
	reader, err := pio.NewStreamReader(c.Source, c.ReadOption, memory.DefaultAllocator)
	if err != nil {
		return fmt.Errorf("failed to read from [%s]: %w", c.Source, err)
	}
	defer func() {
		_ = reader.Close()
	}()

	schemaJSON, err := pschema.ParquetSchema(reader.Schema())
	if err != nil {
		return err
	}

	fileWriter, err := pio.NewParquetJSONWriter(c.URI, c.ParquetOption, schemaJSON)
	if err != nil {
		return fmt.Errorf("failed to write to [%s]: %w", c.URI, err)
	}
	defer func() {
		if err := fileWriter.WriteStop(); err != nil && retErr == nil {
			retErr = fmt.Errorf("failed to end write [%s]: %w", c.URI, err)
		}
		if err := fileWriter.PFile.Close(); err != nil && retErr == nil {
			retErr = fmt.Errorf("failed to close [%s]: %w", c.URI, err)
		}
	}()

	return pio.RunPipeline(reader, fileWriter, c.Source, c.URI, recordToJSON)
}

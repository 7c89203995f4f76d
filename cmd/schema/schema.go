package schema

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/memory"

	pio "github.com/tobgu/arrow-fixtures/io"
	pschema "github.com/tobgu/arrow-fixtures/schema"
)

var (
	formatRaw     = "raw"
	formatJSON    = "json"
	formatParquet = "parquet"
)

// Cmd is a kong command for schema
type Cmd struct {
	Format string `short:"f" help:"Schema format (raw/json/parquet)." enum:"raw,json,parquet" default:"json"`
	URI    string `arg:"" predictor:"file" help:"URI of Arrow stream file."`
	pio.ReadOption
}

// Run does actual schema job
func (c Cmd) Run() error {
	reader, err := pio.NewStreamReader(c.URI, c.ReadOption, memory.DefaultAllocator)
	if err != nil {
		return err
	}
	defer func() {
		_ = reader.Close()
	}()

	switch c.Format {
	case formatRaw:
		fmt.Println(reader.Schema().String())
	case formatJSON:
		schema, err := pschema.JSONSchema(reader.Schema())
		if err != nil {
			return err
		}
		fmt.Println(schema)
	case formatParquet:
		schema, err := pschema.ParquetSchema(reader.Schema())
		if err != nil {
			return err
		}
		fmt.Println(schema)
	default:
		return fmt.Errorf("unknown schema format [%s]", c.Format)
	}

	return nil
}

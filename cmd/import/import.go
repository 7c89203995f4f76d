package importcmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	parquetSource "github.com/hangxie/parquet-go/v2/source"

	"github.com/tobgu/arrow-fixtures/fixture"
	pio "github.com/tobgu/arrow-fixtures/io"
)

// Cmd is a kong command for import
type Cmd struct {
	Format string `help:"Source file formats (csv/tsv/json/jsonl)." short:"f" enum:"csv,tsv,json,jsonl" default:"json"`
	Source string `required:"" short:"s" predictor:"file" help:"Source file name."`
	URI    string `arg:"" predictor:"file" help:"URI of Arrow stream file."`
	pio.WriteOption
}

// Run does actual import job
func (c Cmd) Run() error {
	ipcOptions, err := pio.IPCOptions(c.WriteOption)
	if err != nil {
		return err
	}

	data, err := c.load()
	if err != nil {
		return err
	}

	fileWriter, err := pio.NewFileWriter(c.URI)
	if err != nil {
		return err
	}
	if err := fixture.WriteData(fileWriter, memory.DefaultAllocator, data, ipcOptions...); err != nil {
		_ = fileWriter.Close()
		return fmt.Errorf("failed to write [%s]: %w", c.URI, err)
	}
	if err := c.closeWriter(fileWriter); err != nil {
		return fmt.Errorf("failed to close [%s]: %w", c.URI, err)
	}
	return nil
}

func (c Cmd) load() (fixture.Data, error) {
	sourceFile, err := os.Open(c.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file [%s]: %w", c.Source, err)
	}
	defer func() {
		_ = sourceFile.Close()
	}()

	var data fixture.Data
	switch c.Format {
	case "csv":
		data, err = fixture.DecodeCSV(sourceFile, ',')
	case "tsv":
		data, err = fixture.DecodeCSV(sourceFile, '\t')
	case "json":
		data, err = fixture.DecodeJSON(sourceFile)
	case "jsonl":
		data, err = fixture.DecodeJSONL(sourceFile)
	default:
		return nil, fmt.Errorf("[%s] is not a recognized source format", c.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load [%s]: %w", c.Source, err)
	}
	return data, nil
}

func (c Cmd) closeWriter(pf parquetSource.ParquetFileWriter) error {
	// retry on particular errors according to https://github.com/colinmarc/hdfs/blob/v2.4.0/file_writer.go#L220-L226
	var err error
	for range 10 {
		err = pf.Close()
		if err != nil && strings.Contains(err.Error(), "replication in progress") {
			time.Sleep(1 * time.Second)
			continue
		}
		break
	}
	return err
}

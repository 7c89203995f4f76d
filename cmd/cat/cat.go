package cat

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"
	log "github.com/sirupsen/logrus"

	"github.com/tobgu/arrow-fixtures/fixture"
	pio "github.com/tobgu/arrow-fixtures/io"
)

var logger = log.New()

// SetLogLevel sets the log level of the cat command
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// Cmd is a kong command for cat
type Cmd struct {
	Format   string `short:"f" help:"Output format (pydict/json/jsonl/csv/tsv)." enum:"pydict,json,jsonl,csv,tsv" default:"pydict"`
	Limit    uint64 `short:"l" help:"Max number of rows to output, 0 means no limit." default:"0"`
	NoHeader bool   `help:"(CSV/TSV only) do not output field name as header." default:"false"`
	Skip     int64  `short:"k" help:"Skip rows before apply other logics." default:"0"`
	URI      string `arg:"" predictor:"file" help:"URI of Arrow stream file."`
	pio.ReadOption
}

var fieldDelimiter = map[string]rune{
	"csv": ',',
	"tsv": '\t',
}

// Run does actual cat job
func (c Cmd) Run() error {
	if c.Skip < 0 {
		return fmt.Errorf("invalid skip %d, needs to be greater than or equal to 0", c.Skip)
	}
	switch c.Format {
	case "pydict", "json", "jsonl", "csv", "tsv":
	default:
		return fmt.Errorf("unknown format: [%s]", c.Format)
	}

	reader, err := pio.NewStreamReader(c.URI, c.ReadOption, memory.DefaultAllocator)
	if err != nil {
		return err
	}
	defer func() {
		_ = reader.Close()
	}()

	table, err := fixture.NewTable(reader.Reader)
	if err != nil {
		return fmt.Errorf("failed to cat [%s]: %w", c.URI, err)
	}
	defer table.Release()
	logger.Debugf("read [%s]: %d rows, %d columns", c.URI, table.NumRows(), table.NumCols())

	cols, err := fixture.Columns(table)
	if err != nil {
		return fmt.Errorf("failed to cat [%s]: %w", c.URI, err)
	}
	cols = c.window(cols)

	switch c.Format {
	case "pydict":
		fmt.Println(fixture.FormatPyDict(cols))
	case "json":
		buf, err := fixture.FormatJSON(cols)
		if err != nil {
			return err
		}
		fmt.Println(string(buf))
	case "jsonl":
		for _, row := range fixture.Rows(cols) {
			buf, err := json.Marshal(fixture.JSONRow(row))
			if err != nil {
				return fmt.Errorf("failed to encode row: %w", err)
			}
			fmt.Println(string(buf))
		}
	case "csv", "tsv":
		return c.outputCSV(cols)
	}
	return nil
}

// window applies skip and limit to every column
func (c Cmd) window(cols []fixture.Column) []fixture.Column {
	result := make([]fixture.Column, len(cols))
	for i, col := range cols {
		begin := min(uint64(c.Skip), uint64(len(col.Values)))
		end := uint64(len(col.Values))
		if c.Limit != 0 && c.Limit < end-begin {
			end = begin + c.Limit
		}
		result[i] = fixture.Column{Name: col.Name, Values: col.Values[begin:end]}
	}
	return result
}

func (c Cmd) outputCSV(cols []fixture.Column) error {
	// there is no standard for CSV, use go's CSV module to maintain minimum compatibility
	strBuilder := new(strings.Builder)
	csvWriter := csv.NewWriter(strBuilder)
	csvWriter.Comma = fieldDelimiter[c.Format]

	if !c.NoHeader {
		header := make([]string, len(cols))
		for i, col := range cols {
			header[i] = col.Name
		}
		if err := csvWriter.Write(header); err != nil {
			return err
		}
	}
	for _, row := range fixture.Rows(cols) {
		values := make([]string, len(cols))
		for i, col := range cols {
			values[i] = fixture.TextValue(row[col.Name])
		}
		if err := csvWriter.Write(values); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return err
	}
	fmt.Print(strBuilder.String())
	return nil
}

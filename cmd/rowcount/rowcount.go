package rowcount

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/memory"

	pio "github.com/tobgu/arrow-fixtures/io"
)

// Cmd is a kong command for rowcount
type Cmd struct {
	URI string `arg:"" predictor:"file" help:"URI of Arrow stream file."`
	pio.ReadOption
}

// Run does actual rowcount job
func (c Cmd) Run() error {
	reader, err := pio.NewStreamReader(c.URI, c.ReadOption, memory.DefaultAllocator)
	if err != nil {
		return err
	}
	defer func() {
		_ = reader.Close()
	}()

	var rows int64
	for reader.Next() {
		rows += reader.Record().NumRows()
	}
	if err := reader.Err(); err != nil {
		return fmt.Errorf("failed to read [%s]: %w", c.URI, err)
	}

	fmt.Println(rows)
	return nil
}

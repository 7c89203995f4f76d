package merge

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	pio "github.com/tobgu/arrow-fixtures/io"
)

// Cmd is a kong command for merge
type Cmd struct {
	Source []string `short:"s" help:"Files to be merged."`
	URI    string   `arg:"" predictor:"file" help:"URI of Arrow stream file."`
	pio.ReadOption
	pio.WriteOption
}

// Run does actual merge job, every record batch of every source is copied in order
func (c Cmd) Run() (retErr error) {
	if len(c.Source) <= 1 {
		return fmt.Errorf("needs at least 2 source files")
	}
	readers, err := c.openSources()
	if err != nil {
		return err
	}
	defer func() {
		for _, reader := range readers {
			_ = reader.Close()
		}
	}()

	writer, err := pio.NewStreamWriter(c.URI, c.WriteOption, readers[0].Schema(), memory.DefaultAllocator)
	if err != nil {
		return err
	}
	defer func() {
		if err := writer.Close(); err != nil && retErr == nil {
			retErr = fmt.Errorf("failed to close [%s]: %w", c.URI, err)
		}
	}()

	for i, reader := range readers {
		for reader.Next() {
			if err := writer.Write(reader.Record()); err != nil {
				return fmt.Errorf("failed to write to [%s]: %w", c.URI, err)
			}
		}
		if err := reader.Err(); err != nil {
			return fmt.Errorf("failed to read from [%s]: %w", c.Source[i], err)
		}
	}
	return nil
}

func (c Cmd) openSources() ([]*pio.StreamReader, error) {
	var schema *arrow.Schema
	readers := make([]*pio.StreamReader, 0, len(c.Source))
	for _, source := range c.Source {
		reader, err := pio.NewStreamReader(source, c.ReadOption, memory.DefaultAllocator)
		if err != nil {
			for _, r := range readers {
				_ = r.Close()
			}
			return nil, fmt.Errorf("failed to read from [%s]: %w", source, err)
		}
		readers = append(readers, reader)

		if schema == nil {
			schema = reader.Schema()
			continue
		}
		if !schema.Equal(reader.Schema()) {
			for _, r := range readers {
				_ = r.Close()
			}
			return nil, fmt.Errorf("[%s] does not have same schema as previous files", source)
		}
	}

	return readers, nil
}

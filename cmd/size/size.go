package size

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	pio "github.com/tobgu/arrow-fixtures/io"
)

const (
	queryRaw          = "raw"
	queryUncompressed = "uncompressed"
	queryAll          = "all"
)

// Cmd is a kong command for size
type Cmd struct {
	Query string `short:"q" help:"Size to query (raw/uncompressed/all)." enum:"raw,uncompressed,all" default:"raw"`
	JSON  bool   `short:"j" help:"Output in JSON format." default:"false"`
	URI   string `arg:"" predictor:"file" help:"URI of Arrow stream file."`
	pio.ReadOption
}

// Run does actual size job
func (c Cmd) Run() error {
	switch c.Query {
	case queryRaw, queryUncompressed, queryAll:
	default:
		return fmt.Errorf("unknown query type: [%s]", c.Query)
	}

	rawSize, err := c.rawSize()
	if err != nil {
		return err
	}

	uncompressedSize := int64(0)
	if c.Query != queryRaw {
		if uncompressedSize, err = c.uncompressedSize(); err != nil {
			return err
		}
	}

	var size struct {
		Raw          *int64 `json:",omitempty"`
		Uncompressed *int64 `json:",omitempty"`
	}

	switch c.Query {
	case queryRaw:
		if !c.JSON {
			fmt.Println(rawSize)
			return nil
		}
		size.Raw = &rawSize
	case queryUncompressed:
		if !c.JSON {
			fmt.Println(uncompressedSize)
			return nil
		}
		size.Uncompressed = &uncompressedSize
	case queryAll:
		if !c.JSON {
			fmt.Println(rawSize, uncompressedSize)
			return nil
		}
		size.Raw = &rawSize
		size.Uncompressed = &uncompressedSize
	}

	buf, _ := json.Marshal(size)
	fmt.Println(string(buf))

	return nil
}

func (c Cmd) rawSize() (int64, error) {
	fileReader, err := pio.NewFileReader(c.URI, c.ReadOption)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = fileReader.Close()
	}()

	size, err := fileReader.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("failed to get size of [%s]: %w", c.URI, err)
	}
	return size, nil
}

// uncompressedSize sums buffer lengths of every batch, buffers come back decompressed
func (c Cmd) uncompressedSize() (int64, error) {
	reader, err := pio.NewStreamReader(c.URI, c.ReadOption, memory.DefaultAllocator)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = reader.Close()
	}()

	total := int64(0)
	for reader.Next() {
		for _, col := range reader.Record().Columns() {
			total += bufferSize(col.Data())
		}
	}
	if err := reader.Err(); err != nil {
		return 0, fmt.Errorf("failed to read [%s]: %w", c.URI, err)
	}
	return total, nil
}

func bufferSize(data arrow.ArrayData) int64 {
	total := int64(0)
	for _, buf := range data.Buffers() {
		if buf != nil {
			total += int64(buf.Len())
		}
	}
	for _, child := range data.Children() {
		total += bufferSize(child)
	}
	if dict := data.Dictionary(); dict != nil {
		total += bufferSize(dict)
	}
	return total
}

package io

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/hangxie/parquet-go/v2/source"
)

// StreamReader is an Arrow IPC stream reader together with the file it reads from
type StreamReader struct {
	*ipc.Reader
	PFile source.ParquetFileReader
}

// Close releases the IPC reader and closes the underlying file
func (r *StreamReader) Close() error {
	r.Release()
	return r.PFile.Close()
}

// NewStreamReader opens uri as an Arrow IPC stream, schema is read eagerly
func NewStreamReader(uri string, option ReadOption, mem memory.Allocator) (*StreamReader, error) {
	fileReader, err := NewFileReader(uri, option)
	if err != nil {
		return nil, err
	}

	ipcReader, err := ipc.NewReader(fileReader, ipc.WithAllocator(mem))
	if err != nil {
		_ = fileReader.Close()
		return nil, fmt.Errorf("failed to read Arrow stream [%s]: %w", uri, err)
	}
	return &StreamReader{Reader: ipcReader, PFile: fileReader}, nil
}

// StreamWriter is an Arrow IPC stream writer together with the file it writes to
type StreamWriter struct {
	*ipc.Writer
	PFile source.ParquetFileWriter
}

// Close writes the end-of-stream marker and closes the underlying file, the file is closed
// even when the marker cannot be written
func (w *StreamWriter) Close() error {
	return errors.Join(w.Writer.Close(), w.PFile.Close())
}

// NewStreamWriter creates uri as an Arrow IPC stream of schema, compressed as option says
func NewStreamWriter(uri string, option WriteOption, schema *arrow.Schema, mem memory.Allocator) (*StreamWriter, error) {
	ipcOptions, err := IPCOptions(option)
	if err != nil {
		return nil, err
	}

	fileWriter, err := NewFileWriter(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to write to [%s]: %w", uri, err)
	}

	ipcOptions = append([]ipc.Option{ipc.WithSchema(schema), ipc.WithAllocator(mem)}, ipcOptions...)
	return &StreamWriter{Writer: ipc.NewWriter(fileWriter, ipcOptions...), PFile: fileWriter}, nil
}

package io

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/hangxie/parquet-go/v2/writer"
	"golang.org/x/sync/errgroup"
)

// RowWriter takes one JSON encoded row at a time, *writer.JSONWriter satisfies it.
type RowWriter interface {
	Write(src any) error
}

var _ RowWriter = (*writer.JSONWriter)(nil)

// RecordReader yields record batches, *ipc.Reader satisfies it.
type RecordReader interface {
	Next() bool
	Record() arrow.Record
	Err() error
}

// PipelineWriter reads rows from writerChan and writes them to fileWriter.
func PipelineWriter(ctx context.Context, fileWriter RowWriter, writerChan chan string, target string) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case row, more := <-writerChan:
			if !more {
				return nil
			}
			if err := fileWriter.Write(row); err != nil {
				return fmt.Errorf("failed to write data to [%s]: %w", target, err)
			}
		}
	}
}

// PipelineReader reads record batches from recordReader, converts each batch to rows and
// sends them to writerChan.
func PipelineReader(ctx context.Context, recordReader RecordReader, writerChan chan string, source string, convert func(arrow.Record) ([]string, error)) error {
	for recordReader.Next() {
		rows, err := convert(recordReader.Record())
		if err != nil {
			return fmt.Errorf("failed to convert record from [%s]: %w", source, err)
		}
		for _, row := range rows {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case writerChan <- row:
			}
		}
	}
	if err := recordReader.Err(); err != nil {
		return fmt.Errorf("failed to read from [%s]: %w", source, err)
	}
	return nil
}

// RunPipeline runs a reader and writer in parallel using errgroup. The reader sends rows
// through an internal channel to the writer. If either side fails, the shared context is
// cancelled so the other side exits promptly.
func RunPipeline(recordReader RecordReader, fileWriter RowWriter, source, target string, convert func(arrow.Record) ([]string, error)) error {
	g, gctx := errgroup.WithContext(context.Background())
	writerChan := make(chan string)

	g.Go(func() error {
		return PipelineWriter(gctx, fileWriter, writerChan, target)
	})

	g.Go(func() error {
		defer close(writerChan)
		return PipelineReader(gctx, recordReader, writerChan, source, convert)
	})

	return g.Wait()
}

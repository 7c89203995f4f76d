package io

import (
	"context"
	"fmt"
	"net/url"
	"runtime"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
	"github.com/hangxie/parquet-go/v2/source"
	"github.com/hangxie/parquet-go/v2/source/azblob"
	"github.com/hangxie/parquet-go/v2/source/gcs"
	"github.com/hangxie/parquet-go/v2/source/hdfs"
	"github.com/hangxie/parquet-go/v2/source/local"
	"github.com/hangxie/parquet-go/v2/source/s3v2"
	"github.com/hangxie/parquet-go/v2/writer"
)

// WriteOption includes options for writing Arrow streams
type WriteOption struct {
	Compression string `short:"z" help:"IPC body compression codec (NONE/LZ4_FRAME/ZSTD)" enum:"NONE,LZ4_FRAME,ZSTD" default:"NONE"`
}

// ParquetOption includes options for writing Parquet files
type ParquetOption struct {
	Compression string `short:"z" help:"compression codec (UNCOMPRESSED/SNAPPY/GZIP/LZ4/LZ4_RAW/ZSTD/BROTLI)" enum:"UNCOMPRESSED,SNAPPY,GZIP,LZ4,LZ4_RAW,ZSTD,BROTLI" default:"SNAPPY"`
}

// NewFileWriter opens the location of uri for writing, an existing local file is truncated
func NewFileWriter(uri string) (source.ParquetFileWriter, error) {
	loc, err := locate(uri)
	if err != nil {
		return nil, err
	}
	return loc.create(loc.URL)
}

// NewParquetJSONWriter returns a Parquet writer that takes rows as JSON strings
func NewParquetJSONWriter(uri string, option ParquetOption, schema string) (*writer.JSONWriter, error) {
	codec, err := compressionCodec(option.Compression)
	if err != nil {
		return nil, err
	}

	fileWriter, err := NewFileWriter(uri)
	if err != nil {
		return nil, err
	}

	pw, err := writer.NewJSONWriter(schema, fileWriter, int64(runtime.NumCPU()))
	if err != nil {
		_ = fileWriter.Close()
		return nil, err
	}
	pw.CompressionType = codec
	return pw, nil
}

func createLocal(u *url.URL) (source.ParquetFileWriter, error) {
	fileWriter, err := local.NewLocalFileWriter(u.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local file [%s]: %w", u.Path, err)
	}
	return fileWriter, nil
}

func createAWSS3(u *url.URL) (source.ParquetFileWriter, error) {
	client, err := getS3Client(u.Host, false, false)
	if err != nil {
		return nil, err
	}
	fileWriter, err := s3v2.NewS3FileWriterWithClient(context.Background(), client, u.Host, strings.TrimLeft(u.Path, "/"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open S3 object [%s]: %w", u.String(), err)
	}
	return fileWriter, nil
}

func createGoogleCloudStorage(u *url.URL) (source.ParquetFileWriter, error) {
	fileWriter, err := gcs.NewGcsFileWriter(context.Background(), "", u.Host, strings.TrimLeft(u.Path, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to open GCS object [%s]: %w", u.String(), err)
	}
	return fileWriter, nil
}

// createAzureStorageBlob always authenticates, anonymous writes are not possible
func createAzureStorageBlob(u *url.URL) (source.ParquetFileWriter, error) {
	blobURL, credential, err := azureAccessDetail(*u, false, "")
	if err != nil {
		return nil, err
	}
	fileWriter, err := azblob.NewAzBlobFileWriter(context.Background(), blobURL, credential, blockblob.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open Azure blob object [%s]: %w", u.String(), err)
	}
	return fileWriter, nil
}

func createHTTP(u *url.URL) (source.ParquetFileWriter, error) {
	return nil, fmt.Errorf("writing to [%s] endpoint is not currently supported", u.Scheme)
}

func createHDFS(u *url.URL) (source.ParquetFileWriter, error) {
	fileWriter, err := hdfs.NewHdfsFileWriter([]string{u.Host}, hdfsUser(u), u.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open HDFS source [%s]: %w", u.String(), err)
	}
	return fileWriter, nil
}

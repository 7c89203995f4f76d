package io

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
	"github.com/hangxie/parquet-go/v2/source"
	pqazblob "github.com/hangxie/parquet-go/v2/source/azblob"
	"github.com/hangxie/parquet-go/v2/source/gcs"
	"github.com/hangxie/parquet-go/v2/source/hdfs"
	pqhttp "github.com/hangxie/parquet-go/v2/source/http"
	"github.com/hangxie/parquet-go/v2/source/local"
	"github.com/hangxie/parquet-go/v2/source/s3v2"
	googleoption "google.golang.org/api/option"
)

// ReadOption includes options for read operation
type ReadOption struct {
	Anonymous              bool              `help:"(S3, GCS, and Azure only) object is publicly accessible." default:"false"`
	HTTPExtraHeaders       map[string]string `mapsep:"," help:"(HTTP URI only) extra HTTP headers." default:""`
	HTTPIgnoreTLSError     bool              `help:"(HTTP URI only) ignore TLS error." default:"false"`
	HTTPMultipleConnection bool              `help:"(HTTP URI only) use multiple HTTP connection." default:"false"`
	ObjectVersion          string            `help:"(S3, GCS, and Azure only) object version." default:""`
}

// NewFileReader opens the location of uri for reading
func NewFileReader(uri string, option ReadOption) (source.ParquetFileReader, error) {
	loc, err := locate(uri)
	if err != nil {
		return nil, err
	}

	fileReader, err := loc.open(loc.URL, option)
	if err != nil {
		return nil, fmt.Errorf("unable to open file [%s]: %w", loc.String(), err)
	}
	return fileReader, nil
}

func openLocal(u *url.URL, _ ReadOption) (source.ParquetFileReader, error) {
	return local.NewLocalFileReader(u.Path)
}

func openAWSS3(u *url.URL, option ReadOption) (source.ParquetFileReader, error) {
	client, err := getS3Client(u.Host, option.Anonymous, option.HTTPIgnoreTLSError)
	if err != nil {
		return nil, err
	}

	var version *string
	if option.ObjectVersion != "" {
		version = &option.ObjectVersion
	}
	return s3v2.NewS3FileReaderWithClient(context.Background(), client, u.Host, strings.TrimLeft(u.Path, "/"), version)
}

func openAzureStorageBlob(u *url.URL, option ReadOption) (source.ParquetFileReader, error) {
	blobURL, credential, err := azureAccessDetail(*u, option.Anonymous, option.ObjectVersion)
	if err != nil {
		return nil, err
	}
	return pqazblob.NewAzBlobFileReader(context.Background(), blobURL, credential, blockblob.ClientOptions{})
}

// openGoogleCloudStorage reads the latest generation unless ObjectVersion names one
func openGoogleCloudStorage(u *url.URL, option ReadOption) (source.ParquetFileReader, error) {
	generation := int64(-1)
	if option.ObjectVersion != "" {
		var err error
		if generation, err = strconv.ParseInt(option.ObjectVersion, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid GCS generation [%s]: %w", option.ObjectVersion, err)
		}
	}

	var clientOptions []googleoption.ClientOption
	if option.Anonymous {
		clientOptions = append(clientOptions, googleoption.WithoutAuthentication())
	}
	ctx := context.Background()
	client, err := storage.NewClient(ctx, clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return gcs.NewGcsFileReaderWithClient(ctx, client, "", u.Host, strings.TrimLeft(u.Path, "/"), generation)
}

func openHTTP(u *url.URL, option ReadOption) (source.ParquetFileReader, error) {
	return pqhttp.NewHttpReader(u.String(), option.HTTPMultipleConnection, option.HTTPIgnoreTLSError, option.HTTPExtraHeaders)
}

func openHDFS(u *url.URL, _ ReadOption) (source.ParquetFileReader, error) {
	return hdfs.NewHdfsFileReader([]string{u.Host}, hdfsUser(u), u.Path)
}

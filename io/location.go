package io

import (
	"fmt"
	"net/url"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/hangxie/parquet-go/v2/source"
)

const (
	schemeLocal              string = "file"
	schemeGoogleCloudStorage string = "gs"
	schemeHDFS               string = "hdfs"
	schemeHTTP               string = "http"
	schemeHTTPS              string = "https"
	schemeAWSS3              string = "s3"
	schemeAzureStorageBlob   string = "wasbs"
)

// backend knows how to open and create objects of one URI scheme
type backend struct {
	open   func(*url.URL, ReadOption) (source.ParquetFileReader, error)
	create func(*url.URL) (source.ParquetFileWriter, error)
}

var backends = map[string]backend{
	schemeLocal:              {open: openLocal, create: createLocal},
	schemeAWSS3:              {open: openAWSS3, create: createAWSS3},
	schemeGoogleCloudStorage: {open: openGoogleCloudStorage, create: createGoogleCloudStorage},
	schemeAzureStorageBlob:   {open: openAzureStorageBlob, create: createAzureStorageBlob},
	schemeHTTP:               {open: openHTTP, create: createHTTP},
	schemeHTTPS:              {open: openHTTP, create: createHTTP},
	schemeHDFS:               {open: openHDFS, create: createHDFS},
}

// location is a parsed URI together with the backend of its scheme
type location struct {
	*url.URL
	backend
}

func locate(uri string) (location, error) {
	u, err := parseURI(uri)
	if err != nil {
		return location{}, err
	}
	b, found := backends[u.Scheme]
	if !found {
		return location{}, fmt.Errorf("unknown location scheme [%s]", u.Scheme)
	}
	return location{URL: u, backend: b}, nil
}

// parseURI treats a URI without scheme as a local path, host and path of file:// URIs are
// joined back into one path
func parseURI(uri string) (*url.URL, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("unable to parse file location [%s]: %w", uri, err)
	}

	if u.Scheme == "" {
		u.Scheme = schemeLocal
	}
	if u.Scheme == schemeLocal {
		u.Path = filepath.Join(u.Host, u.Path)
		u.Host = ""
	}
	return u, nil
}

// JoinURI resolves name under dir, which is either a local directory or a URI prefix
func JoinURI(dir, name string) (string, error) {
	u, err := parseURI(dir)
	if err != nil {
		return "", err
	}
	if u.Scheme == schemeLocal {
		return filepath.Join(u.Path, name), nil
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/" + name
	return u.String(), nil
}

// hdfsUser is the user in the URI, or the current OS user
func hdfsUser(u *url.URL) string {
	if name := u.User.Username(); name != "" {
		return name
	}
	if osUser, err := user.Current(); err == nil && osUser != nil {
		return osUser.Username
	}
	return ""
}

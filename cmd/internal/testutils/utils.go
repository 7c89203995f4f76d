package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/tobgu/arrow-fixtures/fixture"
	pio "github.com/tobgu/arrow-fixtures/io"
)

var stdCaptureMutex sync.Mutex

// CaptureStdoutStderr - thread-safe version using mutex
func CaptureStdoutStderr(f func()) (string, string) {
	stdCaptureMutex.Lock()
	defer stdCaptureMutex.Unlock()

	savedStdout := os.Stdout
	savedStderr := os.Stderr

	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	// drain both pipes while f runs so large outputs do not block
	var stdout, stderr []byte
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		stdout, _ = io.ReadAll(rOut)
	}()
	go func() {
		defer wg.Done()
		stderr, _ = io.ReadAll(rErr)
	}()

	f()
	_ = wOut.Close()
	_ = wErr.Close()
	wg.Wait()
	_ = rOut.Close()
	_ = rErr.Close()

	os.Stdout = savedStdout
	os.Stderr = savedStderr

	return string(stdout), string(stderr)
}

// WriteFixture writes the named fixture into a temporary directory and returns its path
func WriteFixture(t testing.TB, name string) string {
	t.Helper()
	f, err := fixture.Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	return WriteData(t, f.File, f.Data)
}

// WriteData writes data as an Arrow stream file named fileName in a temporary directory
func WriteData(t testing.TB, fileName string, data fixture.Data) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), fileName)
	fw, err := pio.NewFileWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := fixture.WriteData(fw, memory.DefaultAllocator, data); err != nil {
		t.Fatal(err)
	}
	if err := fw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

// LoadExpected reads a golden file, JSON and JSONL golden files are compacted one object per line
func LoadExpected(t *testing.T, fileName string) string {
	buf, err := os.ReadFile(fileName)
	if err != nil {
		t.Fatal("cannot load golden file:", fileName, "because of:", err.Error())
	}
	if !strings.HasSuffix(fileName, ".json") && !strings.HasSuffix(fileName, ".jsonl") {
		return string(buf)
	}

	// JSON and JSONL golden files are formatted by jq
	var result string
	var currentBuf []byte
	for _, line := range bytes.Split(buf, []byte("\n")) {
		// in jq format, if the first character is not space than it's
		// start (when currentBuf is empty) or end of an object (when
		// currentBuf is not empty)
		endOfObject := len(line) > 0 && line[0] != ' ' && len(currentBuf) != 0
		currentBuf = append(currentBuf, line...)
		if endOfObject {
			dst := new(bytes.Buffer)
			if err := json.Compact(dst, currentBuf); err != nil {
				t.Fatal("cannot parse golden file:", fileName, "because of:", err.Error())
			}
			result += dst.String() + "\n"
			currentBuf = []byte{}
		}
	}
	return result
}

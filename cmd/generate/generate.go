package generate

import (
	"fmt"
	"runtime"
	"slices"

	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tobgu/arrow-fixtures/fixture"
	pio "github.com/tobgu/arrow-fixtures/io"
)

var logger = log.New()

// SetLogLevel sets the log level of the generate command
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// Cmd is a kong command for generate
type Cmd struct {
	Concurrent bool     `help:"Write fixtures concurrently." default:"false"`
	Extra      bool     `help:"Also write the enum and empty fixtures." default:"false"`
	Only       []string `help:"Only write fixtures with these names."`
	Print      string   `short:"p" help:"Read the named fixture back after writing and print it." default:""`
	Dir        string   `arg:"" optional:"" predictor:"file" help:"Directory or URI prefix to write fixtures to." default:"."`
	pio.WriteOption
}

func (c Cmd) fixtures() ([]fixture.Fixture, error) {
	all := fixture.Catalog()
	if c.Extra {
		all = append(all, fixture.Extra()...)
	}
	if len(c.Only) == 0 {
		return all, nil
	}

	names := fixture.Names(all)
	for _, name := range c.Only {
		if !slices.Contains(names, name) {
			if _, err := fixture.Lookup(name); err == nil {
				return nil, fmt.Errorf("fixture [%s] needs --extra", name)
			}
			return nil, fmt.Errorf("unknown fixture [%s], valid fixtures: %v", name, names)
		}
	}

	selected := make([]fixture.Fixture, 0, len(c.Only))
	for _, f := range all {
		if slices.Contains(c.Only, f.Name) {
			selected = append(selected, f)
		}
	}
	return selected, nil
}

// printTarget returns the fixture named by --print, which has to be one of the fixtures being written
func (c Cmd) printTarget(fixtures []fixture.Fixture) (fixture.Fixture, error) {
	f, err := fixture.Lookup(c.Print)
	if err != nil {
		return fixture.Fixture{}, err
	}
	if slices.Contains(fixture.Names(fixtures), f.Name) {
		return f, nil
	}
	if !c.Extra && slices.Contains(fixture.Names(fixture.Extra()), f.Name) {
		return fixture.Fixture{}, fmt.Errorf("fixture [%s] needs --extra", f.Name)
	}
	return fixture.Fixture{}, fmt.Errorf("fixture [%s] is not selected by --only %v", f.Name, c.Only)
}

// Run does actual generate job
func (c Cmd) Run() error {
	if c.Dir == "" {
		c.Dir = "."
	}
	ipcOptions, err := pio.IPCOptions(c.WriteOption)
	if err != nil {
		return err
	}

	fixtures, err := c.fixtures()
	if err != nil {
		return err
	}

	printURI := ""
	if c.Print != "" {
		f, err := c.printTarget(fixtures)
		if err != nil {
			return err
		}
		if printURI, err = pio.JoinURI(c.Dir, f.File); err != nil {
			return err
		}
	}

	var g errgroup.Group
	g.SetLimit(1)
	if c.Concurrent {
		g.SetLimit(runtime.NumCPU())
	}
	for _, f := range fixtures {
		uri, err := pio.JoinURI(c.Dir, f.File)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return writeFixture(uri, f, ipcOptions)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if printURI == "" {
		return nil
	}
	return printFixture(printURI)
}

func writeFixture(uri string, f fixture.Fixture, ipcOptions []ipc.Option) error {
	fileWriter, err := pio.NewFileWriter(uri)
	if err != nil {
		return err
	}

	if err := fixture.WriteData(fileWriter, memory.DefaultAllocator, f.Data, ipcOptions...); err != nil {
		_ = fileWriter.Close()
		return fmt.Errorf("failed to write fixture [%s] to [%s]: %w", f.Name, uri, err)
	}
	if err := fileWriter.Close(); err != nil {
		return fmt.Errorf("failed to close [%s]: %w", uri, err)
	}
	logger.Debugf("wrote fixture [%s] to [%s]", f.Name, uri)
	return nil
}

func printFixture(uri string) error {
	reader, err := pio.NewStreamReader(uri, pio.ReadOption{}, memory.DefaultAllocator)
	if err != nil {
		return err
	}
	defer func() {
		_ = reader.Close()
	}()

	table, err := fixture.NewTable(reader.Reader)
	if err != nil {
		return fmt.Errorf("failed to read [%s]: %w", uri, err)
	}
	defer table.Release()

	cols, err := fixture.Columns(table)
	if err != nil {
		return err
	}
	fmt.Println(fixture.FormatPyDict(cols))
	return nil
}

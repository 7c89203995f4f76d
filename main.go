package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/posener/complete"
	log "github.com/sirupsen/logrus"
	"github.com/willabides/kongplete"

	"github.com/tobgu/arrow-fixtures/cmd/cat"
	"github.com/tobgu/arrow-fixtures/cmd/generate"
	importcmd "github.com/tobgu/arrow-fixtures/cmd/import"
	"github.com/tobgu/arrow-fixtures/cmd/merge"
	"github.com/tobgu/arrow-fixtures/cmd/meta"
	"github.com/tobgu/arrow-fixtures/cmd/rowcount"
	"github.com/tobgu/arrow-fixtures/cmd/schema"
	"github.com/tobgu/arrow-fixtures/cmd/size"
	"github.com/tobgu/arrow-fixtures/cmd/transcode"
	"github.com/tobgu/arrow-fixtures/cmd/version"
	"github.com/tobgu/arrow-fixtures/fixture"
)

var cli struct {
	LogLevel         string                       `help:"Log level (trace/debug/info/warn/error)." enum:"trace,debug,info,warn,error" default:"warn"`
	Cat              cat.Cmd                      `cmd:"" help:"Prints the content of an Arrow stream file."`
	Generate         generate.Cmd                 `cmd:"" default:"withargs" help:"Writes the fixture files, this is the default command."`
	Import           importcmd.Cmd                `cmd:"" help:"Create Arrow stream file from other source data."`
	Merge            merge.Cmd                    `cmd:"" help:"Merge multiple Arrow stream files into one."`
	Meta             meta.Cmd                     `cmd:"" help:"Prints the record batch metadata."`
	RowCount         rowcount.Cmd                 `cmd:"" help:"Prints the count of rows."`
	Schema           schema.Cmd                   `cmd:"" help:"Prints the schema."`
	ShellCompletions kongplete.InstallCompletions `cmd:"" help:"Install/uninstall shell completions"`
	Size             size.Cmd                     `cmd:"" help:"Prints the size."`
	Transcode        transcode.Cmd                `cmd:"" help:"Convert an Arrow stream file to Parquet."`
	Version          version.Cmd                  `cmd:"" help:"Show build version."`
}

func setLogLevel(name string) error {
	level, err := log.ParseLevel(name)
	if err != nil {
		return err
	}
	fixture.SetLogLevel(level)
	generate.SetLogLevel(level)
	cat.SetLogLevel(level)
	return nil
}

func main() {
	parser := kong.Must(
		&cli,
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Description("A utility to write and inspect Arrow IPC stream fixtures, without arguments it writes the standard fixtures to the current directory"),
	)
	kongplete.Complete(parser, kongplete.WithPredictor("file", complete.PredictFiles("*")))

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	parser.FatalIfErrorf(setLogLevel(cli.LogLevel))
	ctx.FatalIfErrorf(ctx.Run())
}

package version

import (
	"encoding/json"
	"fmt"
	"runtime/debug"
)

const arrowModule = "github.com/apache/arrow-go/v18"

var (
	// semantic version
	version string
	// build time in ISO-8601 format
	build string
	// where the executable came from, can be:
	// - "source" or "" for build from source
	// - "github" for from github release
	source string

	readBuildInfo = debug.ReadBuildInfo
)

// Cmd is a kong command for version
type Cmd struct {
	JSON      bool `short:"j" help:"Output in JSON format." default:"false"`
	All       bool `short:"a" help:"Output all version details." default:"false"`
	Arrow     bool `short:"r" help:"Output version of the Arrow library." default:"false"`
	BuildTime bool `short:"b" help:"Output build time." default:"false"`
	Source    bool `short:"s" help:"Source of the executable." default:"false"`
}

func arrowVersion() string {
	info, ok := readBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range info.Deps {
		if dep.Path != arrowModule {
			continue
		}
		if dep.Replace != nil {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return "unknown"
}

// Run does actual version job
func (c Cmd) Run() error {
	if c.All {
		c.Arrow = true
		c.BuildTime = true
		c.Source = true
	}

	arrow := ""
	if c.Arrow {
		arrow = arrowVersion()
	}

	if !c.JSON {
		fmt.Println(version)
		if c.BuildTime {
			fmt.Println(build)
		}
		if c.Source {
			fmt.Println(source)
		}
		if c.Arrow {
			fmt.Println(arrow)
		}
		return nil
	}

	v := struct {
		Version   string
		BuildTime *string `json:",omitempty"`
		Source    *string `json:",omitempty"`
		Arrow     *string `json:",omitempty"`
	}{
		Version: version,
	}
	if c.BuildTime {
		v.BuildTime = &build
	}
	if c.Source {
		v.Source = &source
	}
	if c.Arrow {
		v.Arrow = &arrow
	}
	buf, _ := json.Marshal(v)
	fmt.Println(string(buf))

	return nil
}

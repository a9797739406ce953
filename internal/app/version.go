// Package app wires the configuration, the multiply strategies and the
// four run modes (multiply, train, calibrate, server) of the matnn CLI.
package app

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"slices"
)

// Build information, overridden at link time:
//
//	go build -ldflags="-X github.com/agbru/matnn/internal/app.Version=v0.3.0 -X github.com/agbru/matnn/internal/app.Commit=$(git rev-parse --short HEAD)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var (
	versionFlags = []string{"--version", "-version", "-V"}
	jsonFlags    = []string{"--json", "-json"}
)

// HasVersionFlag reports whether a version flag appears anywhere in args,
// so that "matnn -server -V" prints the version instead of serving.
func HasVersionFlag(args []string) bool {
	return slices.ContainsFunc(args, func(arg string) bool { return slices.Contains(versionFlags, arg) })
}

// HasJSONFlag reports whether the arguments request JSON output.
func HasJSONFlag(args []string) bool {
	return slices.ContainsFunc(args, func(arg string) bool { return slices.Contains(jsonFlags, arg) })
}

// VersionData is the JSON form of the build information.
type VersionData struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetVersionInfo collects the link-time variables and the runtime details.
func GetVersionInfo() VersionData {
	return VersionData{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// PrintVersion writes the build information to out, as an indented
// VersionData object when asJSON is set.
func PrintVersion(out io.Writer, asJSON bool) {
	info := GetVersionInfo()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		_ = enc.Encode(info)
		return
	}
	fmt.Fprintf(out, "matnn %s\n", info.Version)
	for _, line := range [][2]string{
		{"Commit", info.Commit},
		{"Built", info.BuildDate},
		{"Go version", info.GoVersion},
		{"OS/Arch", info.OS + "/" + info.Arch},
	} {
		fmt.Fprintf(out, "  %-11s %s\n", line[0]+":", line[1])
	}
}

package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

// Build information, injected by main from ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	versionShort bool
	versionJSON  bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of sysdash.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionJSON {
			return WriteJSONSuccess(cmd.OutOrStdout(), currentBuild())
		}
		writeVersion(cmd.OutOrStdout(), versionShort)
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version number")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(versionCmd)
}

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version  string `json:"version"`
	Commit   string `json:"commit"`
	Date     string `json:"date"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
}

func currentBuild() BuildInfo {
	return BuildInfo{
		Version:  version,
		Commit:   commit,
		Date:     date,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// writeVersion prints build information to w.
func writeVersion(w io.Writer, short bool) {
	if short {
		fmt.Fprintln(w, version)
		return
	}

	b := currentBuild()
	fmt.Fprintf(w, "sysdash %s\n", formatVersion(b.Version))
	fmt.Fprintf(w, "commit: %s\n", b.Commit)
	fmt.Fprintf(w, "built: %s\n", b.Date)
	fmt.Fprintf(w, "go: %s\n", b.Go)
	fmt.Fprintf(w, "os/arch: %s\n", b.Platform)
}

// formatVersion adds a v prefix to release versions.
func formatVersion(v string) string {
	if v == "" || v == "dev" || strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

// SetVersionInfo sets the build information. Called from main.
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

// GetVersion returns the version string reported by the agent.
func GetVersion() string {
	return version
}

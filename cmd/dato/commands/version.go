package commands

import (
	"fmt"
	"os"
	"runtime"

	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/spf13/cobra"
)

// VersionInfo describes the CLI build.
type VersionInfo struct {
	Version   string `json:"version"    yaml:"version"`
	Commit    string `json:"commit"     yaml:"commit"`
	Date      string `json:"date"       yaml:"date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform"   yaml:"platform"`
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := VersionInfo{
				Version:   version,
				Commit:    commit,
				Date:      date,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
				UserAgent: constants.DefaultUserAgent,
			}

			return outputResult(info, func(info VersionInfo) error {
				_, _ = fmt.Fprintf(os.Stdout, "dato version %s\n", info.Version)
				_, _ = fmt.Fprintf(os.Stdout, "  commit:   %s\n", info.Commit)
				_, _ = fmt.Fprintf(os.Stdout, "  built:    %s\n", info.Date)
				_, _ = fmt.Fprintf(os.Stdout, "  go:       %s\n", info.GoVersion)
				_, _ = fmt.Fprintf(os.Stdout, "  platform: %s\n", info.Platform)

				return nil
			})
		},
	}
}

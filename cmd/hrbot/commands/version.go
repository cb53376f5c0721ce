package commands

import (
	"fmt"
	goruntime "runtime"

	"github.com/spf13/cobra"

	"github.com/acmecorp/hrbot/internal/version"
)

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of hrbot",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("hrbot %s %s/%s\n", version.String(), goruntime.GOOS, goruntime.GOARCH)
		},
	}
}

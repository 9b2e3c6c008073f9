package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/inovacc/gistvault/internal/application"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the gistvault version",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		_, _ = fmt.Fprintf(os.Stdout, "%s %s (%s/%s, %s)\n",
			application.AppName, application.Version, runtime.GOOS, runtime.GOARCH, runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

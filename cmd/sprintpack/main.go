// Command sprintpack packs dependent tasks into parallel lanes and sprints.
package main

import (
	"fmt"
	"os"

	"github.com/Iron-Ham/sprintpack/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cmd.FormatError(err))
		os.Exit(cmd.ExitCode(err))
	}
}

// Version command for the taskdesk CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskdesk-io/taskdesk/pkg/taskdesk"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("taskdesk v" + taskdesk.Version)
	},
}

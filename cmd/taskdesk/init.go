// Init command creates the data directory and database schema.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the taskdesk storage",
	Long: `Init creates the data directory and the SQLite database with the
taskdesk schema. Running init on an existing database is a no-op.

Example:
  taskdesk init
  taskdesk init --data-dir /var/lib/taskdesk`,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		fmt.Printf("Initialized taskdesk storage in %s\n", backend.DataDir())
		return nil
	},
}

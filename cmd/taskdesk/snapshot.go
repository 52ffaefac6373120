// Export and import commands for JSONL snapshots of the store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Export the store as a JSONL snapshot",
	Long: `Export writes every user, task, and comment to JSONL files in the
given directory, plus a manifest with record counts and a snapshot id.

Example:
  taskdesk export ./backup-2026-08-28`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "export:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		manifest, err := backend.Export(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "export:", err)
			os.Exit(exitSysError)
		}

		printResult(manifest, fmt.Sprintf("Exported snapshot %s: %d users, %d tasks, %d comments",
			manifest.SnapshotID, manifest.Users, manifest.Tasks, manifest.Comments))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Replace the store with a JSONL snapshot",
	Long: `Import restores the store from a snapshot directory written by
export. The current contents are replaced; the restore runs in one
transaction, so a malformed snapshot leaves the store untouched.

Example:
  taskdesk import ./backup-2026-08-28`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "import:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		manifest, err := backend.Import(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "import:", err)
			os.Exit(exitSysError)
		}

		printResult(manifest, fmt.Sprintf("Imported snapshot %s: %d users, %d tasks, %d comments",
			manifest.SnapshotID, manifest.Users, manifest.Tasks, manifest.Comments))
		return nil
	},
}

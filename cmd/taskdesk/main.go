// Package main provides the taskdesk CLI, a task-tracking backend with
// per-user authored and executed task indexes.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}

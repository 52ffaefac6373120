// Comment commands: add, update, list, and delete comments.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskdesk-io/taskdesk/internal/service"
	"github.com/taskdesk-io/taskdesk/pkg/types"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Manage comments on tasks",
}

var (
	commentTask    int64
	commentContent string
)

var commentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a comment to a task",
	Long: `Add attaches a comment, written by the acting user, to a task.

Example:
  taskdesk comment add --task 3 --content "Blocked on review" --as bob@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "comment add:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		actor, err := actingUser(backend)
		if err != nil {
			failOp("comment add", err)
		}

		comment, err := service.NewComments(backend).Create(&types.Comment{
			TaskID:   commentTask,
			AuthorID: actor.ID,
			Content:  commentContent,
		}, actor.ID)
		if err != nil {
			failOp("comment add", err)
		}

		printResult(comment, fmt.Sprintf("Added comment %d to task %d", comment.ID, comment.TaskID))
		return nil
	},
}

var commentUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit a comment",
	Long: `Update replaces a comment's content. Only the comment's author may
edit it.

Example:
  taskdesk comment update 12 --content "Unblocked" --as bob@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "comment update:", err)
			os.Exit(exitUserError)
		}

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "comment update:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		actor, err := actingUser(backend)
		if err != nil {
			failOp("comment update", err)
		}

		updated, err := service.NewComments(backend).Update(id, commentContent, actor.ID)
		if err != nil {
			failOp("comment update", err)
		}

		printResult(updated, "Updated "+commentSummary(updated))
		return nil
	},
}

var (
	commentListTask   int64
	commentListAuthor int64
	commentListLimit  int
	commentListOffset int
)

var commentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List comments",
	Long: `List returns comments oldest first, scoped to a task or an author
when the matching flag is set.

Example:
  taskdesk comment list --task 3
  taskdesk comment list --author 2 --limit 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "comment list:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		comments := service.NewComments(backend)

		var listed []*types.Comment
		switch {
		case cmd.Flags().Changed("task"):
			listed, err = comments.ListByTask(commentListTask, commentListLimit, commentListOffset)
		case cmd.Flags().Changed("author"):
			listed, err = comments.ListByAuthor(commentListAuthor, commentListLimit, commentListOffset)
		default:
			listed, err = comments.List(commentListLimit, commentListOffset)
		}
		if err != nil {
			failOp("comment list", err)
		}

		if flagJSON {
			printResult(listed, "")
			return nil
		}
		for _, comment := range listed {
			fmt.Println(commentSummary(comment))
		}
		return nil
	},
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a comment",
	Long: `Delete removes a comment. Only the comment's author may delete it.

Example:
  taskdesk comment delete 12 --as bob@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "comment delete:", err)
			os.Exit(exitUserError)
		}

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "comment delete:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		actor, err := actingUser(backend)
		if err != nil {
			failOp("comment delete", err)
		}

		if err := service.NewComments(backend).Delete(id, actor.ID); err != nil {
			failOp("comment delete", err)
		}

		fmt.Printf("Deleted comment %d\n", id)
		return nil
	},
}

func init() {
	commentAddCmd.Flags().Int64Var(&commentTask, "task", 0, "task id (required)")
	commentAddCmd.Flags().StringVar(&commentContent, "content", "", "comment content (required)")
	_ = commentAddCmd.MarkFlagRequired("task")
	_ = commentAddCmd.MarkFlagRequired("content")

	commentUpdateCmd.Flags().StringVar(&commentContent, "content", "", "new comment content (required)")
	_ = commentUpdateCmd.MarkFlagRequired("content")

	commentListCmd.Flags().Int64Var(&commentListTask, "task", 0, "list comments on this task")
	commentListCmd.Flags().Int64Var(&commentListAuthor, "author", 0, "list comments by this user")
	commentListCmd.Flags().IntVar(&commentListLimit, "limit", 0, "maximum number of comments to return")
	commentListCmd.Flags().IntVar(&commentListOffset, "offset", 0, "number of comments to skip")

	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentUpdateCmd)
	commentCmd.AddCommand(commentListCmd)
	commentCmd.AddCommand(commentDeleteCmd)
}

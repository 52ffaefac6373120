// Task commands: create, update, inspect, list, and delete tasks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskdesk-io/taskdesk/internal/service"
	"github.com/taskdesk-io/taskdesk/pkg/types"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var (
	taskTitle       string
	taskDescription string
	taskStatus      string
	taskPriority    string
	taskExecutor    int64
)

var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new task",
	Long: `Create stores a new task authored by the acting user. The executor
is optional; when set, the task id is recorded in that user's executed set.

Example:
  taskdesk task create --title "Ship the release" --as alice@example.com
  taskdesk task create --title "Fix login" --priority HIGH --executor 4 --as 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "task create:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		actor, err := actingUser(backend)
		if err != nil {
			failOp("task create", err)
		}

		task := &types.Task{
			Title:       taskTitle,
			Description: taskDescription,
			Status:      taskStatus,
			Priority:    taskPriority,
			AuthorID:    actor.ID,
		}
		if taskExecutor != 0 {
			task.ExecutorID = types.ExecutorRef(taskExecutor)
		}

		created, err := service.NewTasks(backend).Create(task, actor.ID)
		if err != nil {
			failOp("task create", err)
		}

		printResult(created, fmt.Sprintf("Created task %d: %s", created.ID, created.Title))
		return nil
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update task fields",
	Long: `Update changes the given fields of a task. The task's author may
change any field; its executor may change only the status, and only the
status. --clear-executor unassigns the task.

Example:
  taskdesk task update 3 --status IN_PROGRESS --as bob@example.com
  taskdesk task update 3 --title "New title" --executor 5 --as alice@example.com
  taskdesk task update 3 --clear-executor --as alice@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "task update:", err)
			os.Exit(exitUserError)
		}

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "task update:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		actor, err := actingUser(backend)
		if err != nil {
			failOp("task update", err)
		}

		tasks := service.NewTasks(backend)

		// Start from the stored task so unset flags leave fields unchanged.
		incoming, err := tasks.Get(id)
		if err != nil {
			failOp("task update", err)
		}

		if cmd.Flags().Changed("title") {
			incoming.Title = taskTitle
		}
		if cmd.Flags().Changed("description") {
			incoming.Description = taskDescription
		}
		if cmd.Flags().Changed("status") {
			incoming.Status = taskUpdateStatus
		}
		if cmd.Flags().Changed("priority") {
			incoming.Priority = taskUpdatePriority
		}
		if cmd.Flags().Changed("executor") {
			incoming.ExecutorID = types.ExecutorRef(taskExecutor)
		}
		if taskClearExecutor {
			incoming.ExecutorID = nil
		}

		updated, err := tasks.Update(incoming, actor.ID)
		if err != nil {
			failOp("task update", err)
		}

		printResult(updated, "Updated "+taskSummary(updated))
		return nil
	},
}

var (
	taskClearExecutor  bool
	taskUpdateStatus   string
	taskUpdatePriority string
)

var taskGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "task get:", err)
			os.Exit(exitUserError)
		}

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "task get:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		task, err := service.NewTasks(backend).Get(id)
		if err != nil {
			failOp("task get", err)
		}

		printResult(task, taskSummary(task))
		return nil
	},
}

var (
	taskListAuthor   int64
	taskListExecutor int64
	taskListStatus   string
	taskListPriority string
	taskListLimit    int
	taskListOffset   int
)

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks with optional filters",
	Long: `List returns tasks newest first. Filters are ANDed together.

Example:
  taskdesk task list
  taskdesk task list --author 1 --status IN_PROGRESS
  taskdesk task list --executor 4 --limit 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "task list:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		filter := types.TaskFilter{Limit: taskListLimit, Offset: taskListOffset}
		if cmd.Flags().Changed("author") {
			filter.AuthorID = &taskListAuthor
		}
		if cmd.Flags().Changed("executor") {
			filter.ExecutorID = &taskListExecutor
		}
		if cmd.Flags().Changed("status") {
			filter.Status = &taskListStatus
		}
		if cmd.Flags().Changed("priority") {
			filter.Priority = &taskListPriority
		}

		tasks, err := service.NewTasks(backend).List(filter)
		if err != nil {
			failOp("task list", err)
		}

		if flagJSON {
			printResult(tasks, "")
			return nil
		}
		for _, task := range tasks {
			fmt.Println(taskSummary(task))
		}
		return nil
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task and its comments",
	Long: `Delete removes a task, its comments, and its entries in the author's
and executor's task indexes. Only the task's author may delete it.

Example:
  taskdesk task delete 3 --as alice@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "task delete:", err)
			os.Exit(exitUserError)
		}

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "task delete:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		actor, err := actingUser(backend)
		if err != nil {
			failOp("task delete", err)
		}

		if err := service.NewTasks(backend).Delete(id, actor.ID); err != nil {
			failOp("task delete", err)
		}

		fmt.Printf("Deleted task %d\n", id)
		return nil
	},
}

func init() {
	taskCreateCmd.Flags().StringVar(&taskTitle, "title", "", "task title (required)")
	taskCreateCmd.Flags().StringVar(&taskDescription, "description", "", "task description")
	taskCreateCmd.Flags().StringVar(&taskStatus, "status", types.StatusOnHold, "status (ON_HOLD, IN_PROGRESS, COMPLETED)")
	taskCreateCmd.Flags().StringVar(&taskPriority, "priority", types.PriorityRegular, "priority (HIGH, REGULAR, LOW)")
	taskCreateCmd.Flags().Int64Var(&taskExecutor, "executor", 0, "executor user id")
	_ = taskCreateCmd.MarkFlagRequired("title")

	taskUpdateCmd.Flags().StringVar(&taskTitle, "title", "", "set task title")
	taskUpdateCmd.Flags().StringVar(&taskDescription, "description", "", "set task description")
	taskUpdateCmd.Flags().StringVar(&taskUpdateStatus, "status", "", "set status (ON_HOLD, IN_PROGRESS, COMPLETED)")
	taskUpdateCmd.Flags().StringVar(&taskUpdatePriority, "priority", "", "set priority (HIGH, REGULAR, LOW)")
	taskUpdateCmd.Flags().Int64Var(&taskExecutor, "executor", 0, "set executor user id")
	taskUpdateCmd.Flags().BoolVar(&taskClearExecutor, "clear-executor", false, "unassign the executor")

	taskListCmd.Flags().Int64Var(&taskListAuthor, "author", 0, "filter by author user id")
	taskListCmd.Flags().Int64Var(&taskListExecutor, "executor", 0, "filter by executor user id")
	taskListCmd.Flags().StringVar(&taskListStatus, "status", "", "filter by status")
	taskListCmd.Flags().StringVar(&taskListPriority, "priority", "", "filter by priority")
	taskListCmd.Flags().IntVar(&taskListLimit, "limit", 0, "maximum number of tasks to return")
	taskListCmd.Flags().IntVar(&taskListOffset, "offset", 0, "number of tasks to skip")

	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskGetCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskDeleteCmd)
}

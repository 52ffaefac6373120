// User commands: register, inspect, list, and delete accounts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskdesk-io/taskdesk/internal/service"
	"github.com/taskdesk-io/taskdesk/pkg/types"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var (
	userFirstName string
	userLastName  string
	userEmail     string
	userRole      string
)

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new user",
	Long: `Add registers a new user account. The email must not be registered
already. The role defaults to USER.

Example:
  taskdesk user add --email alice@example.com --first-name Alice --last-name Reyes
  taskdesk user add --email ops@example.com --first-name Ops --last-name Admin --role ADMIN`,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "user add:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		users := service.NewUsers(backend)
		user, err := users.Register(&types.User{
			FirstName: userFirstName,
			LastName:  userLastName,
			Email:     userEmail,
			Role:      userRole,
		})
		if err != nil {
			failOp("user add", err)
		}

		printResult(user, fmt.Sprintf("Registered user %d <%s>", user.ID, user.Email))
		return nil
	},
}

var userGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "user get:", err)
			os.Exit(exitUserError)
		}

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "user get:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		user, err := service.NewUsers(backend).Get(id)
		if err != nil {
			failOp("user get", err)
		}

		printResult(user, userSummary(user))
		return nil
	},
}

var (
	userListLimit  int
	userListOffset int
)

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "user list:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		users, err := service.NewUsers(backend).List(userListLimit, userListOffset)
		if err != nil {
			failOp("user list", err)
		}

		if flagJSON {
			printResult(users, "")
			return nil
		}
		for _, user := range users {
			fmt.Println(userSummary(user))
		}
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user and everything they authored",
	Long: `Delete removes a user account. Tasks the user authored are deleted
along with their comments; tasks the user merely executed are kept and
unassigned. Only an ADMIN may delete users.

Example:
  taskdesk user delete 7 --as ops@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "user delete:", err)
			os.Exit(exitUserError)
		}

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "user delete:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		actor, err := actingUser(backend)
		if err != nil {
			failOp("user delete", err)
		}
		if actor.Role != types.RoleAdmin {
			fmt.Fprintf(os.Stderr, "user delete: only an ADMIN may delete users\n")
			os.Exit(exitUserError)
		}

		if err := service.NewUsers(backend).Delete(id); err != nil {
			failOp("user delete", err)
		}

		fmt.Printf("Deleted user %d\n", id)
		return nil
	},
}

func init() {
	userAddCmd.Flags().StringVar(&userFirstName, "first-name", "", "first name")
	userAddCmd.Flags().StringVar(&userLastName, "last-name", "", "last name")
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "email address (required)")
	userAddCmd.Flags().StringVar(&userRole, "role", "", "role (USER or ADMIN, default USER)")
	_ = userAddCmd.MarkFlagRequired("email")

	userListCmd.Flags().IntVar(&userListLimit, "limit", 0, "maximum number of users to return")
	userListCmd.Flags().IntVar(&userListOffset, "offset", 0, "number of users to skip")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userGetCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userDeleteCmd)
}

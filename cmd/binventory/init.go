package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erazemk/binventory/internal/auth"
	"github.com/erazemk/binventory/internal/store"
)

var initUser string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and an admin account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		existing, err := store.GetUserByUsername(cmd.Context(), a.db, initUser)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("user %q already exists", initUser)
		}

		password, err := createUser(cmd, a, initUser, "")
		if err != nil {
			return err
		}

		printAdminCreated(a.cfg.Database.Path, initUser, password)
		return nil
	},
}

// printAdminCreated prints the credentials of a freshly created account.
func printAdminCreated(dbPath, username, password string) {
	fmt.Printf("Database ready: %s\n", dbPath)
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("It can be changed after logging in.")
}

func init() {
	initCmd.Flags().StringVarP(&initUser, "user", "u", "admin", "admin username")
}

// generatedPasswordLength is the length of passwords created for new accounts.
const generatedPasswordLength = 16

// createUser adds an account. An empty password is replaced by a generated
// one, which is returned.
func createUser(cmd *cobra.Command, a *app, username, password string) (string, error) {
	if password == "" {
		generated, err := auth.GeneratePassword(generatedPasswordLength)
		if err != nil {
			return "", err
		}
		password = generated
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	if _, err := store.CreateUser(cmd.Context(), a.db, username, hash); err != nil {
		return "", err
	}
	return password, nil
}

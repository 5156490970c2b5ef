package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erazemk/binventory/internal/auth"
	"github.com/erazemk/binventory/internal/store"
)

var userPassword string

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add [username]",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		password, err := createUser(cmd, a, args[0], userPassword)
		if err != nil {
			return err
		}
		fmt.Printf("User %s created.\n", args[0])
		if userPassword == "" {
			fmt.Printf("  Password: %s\n", password)
		}
		return nil
	},
}

var userPasswdCmd = &cobra.Command{
	Use:   "passwd [username]",
	Short: "Reset an account's password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		password := userPassword
		if password == "" {
			if password, err = auth.GeneratePassword(generatedPasswordLength); err != nil {
				return err
			}
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		if err := store.UpdateUserPassword(cmd.Context(), a.db, args[0], hash); err != nil {
			return err
		}

		fmt.Printf("Password for %s updated.\n", args[0])
		if userPassword == "" {
			fmt.Printf("  Password: %s\n", password)
		}
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		users, err := store.ListUsers(cmd.Context(), a.db)
		if err != nil {
			return err
		}
		for _, u := range users {
			fmt.Printf("%-20s created %s\n", u.Username, u.CreatedAt.Format("2006-01-02"))
		}
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete [username]",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := store.DeleteUser(cmd.Context(), a.db, args[0]); err != nil {
			return err
		}
		fmt.Printf("User %s deleted.\n", args[0])
		return nil
	},
}

func init() {
	userAddCmd.Flags().StringVarP(&userPassword, "password", "p", "", "password (generated when empty)")
	userPasswdCmd.Flags().StringVarP(&userPassword, "password", "p", "", "new password (generated when empty)")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userPasswdCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userDeleteCmd)
}

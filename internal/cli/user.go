package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/screfinery/screfinery/internal/domain"
	"github.com/screfinery/screfinery/internal/service"
	"github.com/screfinery/screfinery/internal/store"
)

func newUserCmd(openStore func() (store.Store, error)) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	userCmd.AddCommand(
		newUserCreateCmd(openStore),
		newUserListCmd(openStore),
		newUserSetPasswordCmd(openStore),
		newUserSetScopesCmd(openStore),
		newUserDeleteCmd(openStore),
	)
	return userCmd
}

func newUserCreateCmd(openStore func() (store.Store, error)) *cobra.Command {
	var (
		name     string
		mail     string
		password string
		scopes   []string
		inactive bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			svc := &service.UserService{Store: st}
			user, err := svc.Create(cmd.Context(), service.CreateUserParams{
				Name:            name,
				Mail:            mail,
				Password:        password,
				PasswordConfirm: password,
				Scopes:          scopes,
				IsActive:        !inactive,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Name, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "unique user name (required)")
	cmd.Flags().StringVar(&mail, "mail", "", "mail address (required)")
	cmd.Flags().StringVar(&password, "password", "", "initial password (required)")
	cmd.Flags().StringSliceVar(&scopes, "scopes", nil, `granted scopes, e.g. "user.read,mining_session.*"`)
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create the account deactivated")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("mail")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newUserListCmd(openStore func() (store.Store, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List user accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			users, total, err := st.Users().ListUsers(cmd.Context(), domain.UserFilter{}, 0, 1000)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, u := range users {
				state := "active"
				if !u.IsActive {
					state = "inactive"
				}
				fmt.Fprintf(out, "%s  %-20s %-30s %-8s %s\n",
					u.ID, u.Name, u.Mail, state, strings.Join(u.Scopes, " "))
			}
			fmt.Fprintf(out, "%d users\n", total)
			return nil
		},
	}
}

func newUserSetPasswordCmd(openStore func() (store.Store, error)) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "set-password <user-id>",
		Short: "Reset a user's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			svc := &service.UserService{Store: st}
			_, err = svc.Update(cmd.Context(), args[0], service.UpdateUserParams{
				Password:        &password,
				PasswordConfirm: &password,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "password updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "new password (required)")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newUserSetScopesCmd(openStore func() (store.Store, error)) *cobra.Command {
	var scopes []string

	cmd := &cobra.Command{
		Use:   "set-scopes <user-id>",
		Short: "Replace a user's scope set wholesale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			svc := &service.UserService{Store: st}
			user, err := svc.Update(cmd.Context(), args[0], service.UpdateUserParams{
				Scopes: scopes,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "scopes for %s: %s\n", user.Name, strings.Join(user.Scopes, " "))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&scopes, "scopes", []string{}, `new scope set, e.g. "user.*,ore.read" (empty clears all)`)

	return cmd
}

func newUserDeleteCmd(openStore func() (store.Store, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Users().DeleteUser(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "user deleted")
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darhlilove/streambase"
)

func newLoginCmd() *cobra.Command {
	var email, password string
	var remember bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with your Streambase account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			err = a.auther.Login(cmd.Context(), streambase.LoginPayload{
				Email:      email,
				Password:   password,
				RememberMe: remember,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Signed in as %s\n", a.auther.Sessions().Principal().Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().BoolVar(&remember, "remember", true, "persist the session token")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newAdminLoginCmd() *cobra.Command {
	var email, password, pin string
	var remember bool

	cmd := &cobra.Command{
		Use:   "admin-login",
		Short: "Sign in with an admin account (requires PIN)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			err = a.auther.LoginAdmin(cmd.Context(), streambase.AdminLoginPayload{
				Email:      email,
				Password:   password,
				PIN:        pin,
				RememberMe: remember,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Signed in as admin %s\n", a.auther.Sessions().Principal().Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "admin email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password")
	cmd.Flags().StringVar(&pin, "pin", "", "admin PIN")
	cmd.Flags().BoolVar(&remember, "remember", true, "persist the session token")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("pin")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var reg streambase.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account (you still sign in afterwards)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			reg.Confirm = reg.Password
			if err := a.auther.Register(cmd.Context(), reg); err != nil {
				return err
			}

			fmt.Println("Account created. Run 'streambase login' to sign in.")
			return nil
		},
	}

	cmd.Flags().StringVar(&reg.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&reg.LastName, "last-name", "", "last name")
	cmd.Flags().StringVarP(&reg.Email, "email", "e", "", "account email")
	cmd.Flags().StringVar(&reg.Phone, "phone", "", "phone number (optional)")
	cmd.Flags().StringVarP(&reg.Password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			a.auther.Logout(cmd.Context())

			// The next account must never see this account's mirror.
			if a.cache != nil {
				if err := a.cache.Purge(cmd.Context()); err != nil {
					a.logger.Error("purge cache: %v", err)
				}
			}

			fmt.Println("Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			principal := a.auther.Sessions().Principal()
			if principal.IsNone() {
				fmt.Println("Not signed in.")
				return nil
			}
			fmt.Println(principal.String())
			return nil
		},
	}
}

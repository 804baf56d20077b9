package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/talkboard/internal/auth"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the board",
	Long: `Log in with email and password, or with an emailed code.

Password login prompts for the password. For code login, request a code
with 'talkboard login send-code --email you@example.com' and pass it
with --code.`,
	RunE: runLogin,
}

var loginSendCodeCmd = &cobra.Command{
	Use:   "send-code",
	Short: "Email a one-time login code",
	RunE:  runLoginSendCode,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current login state",
	RunE:  runStatus,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the local session",
	RunE:  runLogout,
}

func init() {
	loginCmd.PersistentFlags().String("email", "", "account email")
	loginCmd.Flags().String("code", "", "one-time login code (skips the password prompt)")
	loginCmd.AddCommand(loginSendCodeCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logoutCmd)
}

func promptEmail(cmd *cobra.Command) (string, error) {
	email, _ := cmd.Flags().GetString("email")
	if email != "" {
		return email, nil
	}
	prompt := promptui.Prompt{
		Label: "Email",
		Validate: func(s string) error {
			if !strings.Contains(s, "@") {
				return errors.New("enter a valid email address")
			}
			return nil
		},
	}
	email, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("email prompt: %w", err)
	}
	return email, nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	email, err := promptEmail(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var status auth.Status
	if code, _ := cmd.Flags().GetString("code"); code != "" {
		status, err = a.auth.LoginWithCode(ctx, email, code)
	} else {
		prompt := promptui.Prompt{
			Label: "Password",
			Mask:  '*',
		}
		password, perr := prompt.Run()
		if perr != nil {
			return fmt.Errorf("password prompt: %w", perr)
		}
		status, err = a.auth.LoginWithPassword(ctx, email, password)
	}
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Printf("Logged in as %s\n", displayName(status))
	return nil
}

func runLoginSendCode(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	email, err := promptEmail(cmd)
	if err != nil {
		return err
	}
	if err := a.auth.SendLoginCode(context.Background(), email); err != nil {
		return fmt.Errorf("sending login code: %w", err)
	}
	fmt.Printf("Login code sent to %s\n", email)
	fmt.Println("Run `talkboard login --email <email> --code <code>` to finish.")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	status := a.auth.CheckLoginStatus(context.Background())
	if !status.IsLogin {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("Logged in as %s\n", displayName(status))
	if status.User.Email != "" {
		fmt.Printf("  Email: %s\n", status.User.Email)
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.auth.Logout(context.Background())
	fmt.Println(result.Message)
	return nil
}

func displayName(s auth.Status) string {
	if s.User.Username != "" {
		return s.User.Username
	}
	if s.User.Email != "" {
		return s.User.Email
	}
	return "(unknown user)"
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a board account",
	Long: `Create an account with an emailed registration code.

Without --code a code is mailed to --email first and then prompted for.
Username and password are always prompted. Registering does not log in;
run 'talkboard login' afterwards.`,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().String("email", "", "account email")
	registerCmd.Flags().String("code", "", "registration code already received")
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
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
	code, _ := cmd.Flags().GetString("code")
	if code == "" {
		if err := a.auth.SendRegisterCode(ctx, email); err != nil {
			return fmt.Errorf("sending registration code: %w", err)
		}
		fmt.Printf("Registration code sent to %s\n", email)

		codePrompt := promptui.Prompt{Label: "Code"}
		if code, err = codePrompt.Run(); err != nil {
			return fmt.Errorf("code prompt: %w", err)
		}
	}

	userPrompt := promptui.Prompt{
		Label: "Username",
		Validate: func(s string) error {
			if n := utf8.RuneCountInString(s); n < 2 || n > 20 {
				return errors.New("username must be 2-20 characters")
			}
			return nil
		},
	}
	username, err := userPrompt.Run()
	if err != nil {
		return fmt.Errorf("username prompt: %w", err)
	}

	passPrompt := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
		Validate: func(s string) error {
			if len(s) < 6 {
				return errors.New("password must be at least 6 characters")
			}
			return nil
		},
	}
	password, err := passPrompt.Run()
	if err != nil {
		return fmt.Errorf("password prompt: %w", err)
	}

	if err := a.auth.Register(ctx, email, username, password, code); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	fmt.Printf("Registered %s. Run `talkboard login --email %s` to log in.\n", username, email)
	return nil
}

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktimer/internal/app"
	"github.com/Tiliavir/worktimer/internal/auth"
)

var (
	authEmail    string
	authPassword string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in to the remote backend",
}

var authSignInCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in with email and password",
	Args:  cobra.NoArgs,
	RunE:  runAuthSignIn,
}

var authSignUpCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE:  runAuthSignUp,
}

var authSignOutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Sign out and forget the stored session",
	Args:  cobra.NoArgs,
	RunE:  runAuthSignOut,
}

var authResetCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Send a password reset email",
	Args:  cobra.NoArgs,
	RunE:  runAuthReset,
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runAuthWhoami,
}

func init() {
	for _, c := range []*cobra.Command{authSignInCmd, authSignUpCmd, authResetCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email")
	}
	for _, c := range []*cobra.Command{authSignInCmd, authSignUpCmd} {
		c.Flags().StringVar(&authPassword, "password", "", "Password (default: $WT_PASSWORD, else read from stdin)")
	}
	authCmd.AddCommand(authSignInCmd, authSignUpCmd, authSignOutCmd, authResetCmd, authWhoamiCmd)
}

func authClient() (*auth.Client, error) {
	a, err := openApp(os.Stderr, app.Options{})
	if err != nil {
		return nil, err
	}
	return a.Auth()
}

// readPassword returns the password from the flag, the environment or the
// first line of r. Surrounding spaces are kept.
func readPassword(flag string, r io.Reader, w io.Writer) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv("WT_PASSWORD"); env != "" {
		return env, nil
	}
	fmt.Fprint(w, "Password: ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runAuthSignIn(cmd *cobra.Command, args []string) error {
	client, err := authClient()
	if err != nil {
		return err
	}
	password, err := readPassword(authPassword, os.Stdin, os.Stderr)
	if err != nil {
		return err
	}
	user, err := client.SignIn(cmd.Context(), authEmail, password)
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s\n", user.Email)
	return nil
}

func runAuthSignUp(cmd *cobra.Command, args []string) error {
	client, err := authClient()
	if err != nil {
		return err
	}
	password, err := readPassword(authPassword, os.Stdin, os.Stderr)
	if err != nil {
		return err
	}
	if err := client.SignUp(cmd.Context(), authEmail, password); err != nil {
		return err
	}
	fmt.Println("Account created. Check your inbox to confirm it, then run wt auth signin.")
	return nil
}

func runAuthSignOut(cmd *cobra.Command, args []string) error {
	client, err := authClient()
	if err != nil {
		return err
	}
	if err := client.SignOut(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

func runAuthReset(cmd *cobra.Command, args []string) error {
	client, err := authClient()
	if err != nil {
		return err
	}
	if err := client.ResetPassword(cmd.Context(), authEmail); err != nil {
		return err
	}
	fmt.Println("Password reset email sent.")
	return nil
}

func runAuthWhoami(cmd *cobra.Command, args []string) error {
	client, err := authClient()
	if err != nil {
		return err
	}
	user, err := client.CurrentUser()
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n", user.Email, user.ID)
	return nil
}

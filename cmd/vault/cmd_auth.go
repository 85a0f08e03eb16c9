package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// loginCmd authenticates against the backend and stores the session
var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Log in to the prompt backend",
	Long: `Authenticate with the backend and store the session token under
~/.promptvault/session.json. The password is read from the terminal,
or from PROMPTVAULT_PASSWORD for non-interactive use.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// registerCmd creates a new account
var registerCmd = &cobra.Command{
	Use:   "register <username> <email>",
	Short: "Create a new account",
	Args:  cobra.ExactArgs(2),
	RunE:  runRegister,
}

// logoutCmd clears the stored session
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE:  runLogout,
}

// whoamiCmd shows the authenticated user
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated user",
	RunE:  runWhoami,
}

func runLogin(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}

	email := ""
	if len(args) > 0 {
		email = args[0]
	} else {
		email, err = promptLine("Email: ")
		if err != nil {
			return err
		}
	}

	password, err := readPassword()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	res, err := env.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := env.sess.Establish(res.Token); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	if err := env.sess.SetUser(res.Username, res.Email); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	fmt.Printf("Logged in as %s <%s>\n", res.Username, res.Email)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}

	password, err := readPassword()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	res, err := env.client.Register(ctx, args[0], args[1], password)
	if err != nil {
		return err
	}
	if res.Token != "" {
		if err := env.sess.Establish(res.Token); err != nil {
			return fmt.Errorf("failed to store session: %w", err)
		}
		if err := env.sess.SetUser(res.Username, res.Email); err != nil {
			return fmt.Errorf("failed to store session: %w", err)
		}
		fmt.Printf("Registered and logged in as %s <%s>\n", res.Username, res.Email)
		return nil
	}

	fmt.Println("Registered. Run 'vault login' to sign in.")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	if err := env.sess.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	fmt.Println("Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	user, err := env.client.CurrentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s>\n", user.Username, user.Email)
	return nil
}

// readPassword reads a password without echo, falling back to
// PROMPTVAULT_PASSWORD when stdin is not a terminal.
func readPassword() (string, error) {
	if pw := os.Getenv("PROMPTVAULT_PASSWORD"); pw != "" {
		return pw, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("stdin is not a terminal: set PROMPTVAULT_PASSWORD")
	}
	fmt.Fprint(os.Stderr, "Password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func promptLine(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

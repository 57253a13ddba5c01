package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/existflow/calendarly/internal/sync"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the sync account",
	Long: `Create or sign in to the account used for snapshot sync.

Examples:
  calendarly auth register
  calendarly auth login
  calendarly auth logout`,
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE:  runAuthRegister,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to an existing account",
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the session",
	RunE:  runAuthLogout,
}

func init() {
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
}

func readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func promptCredentials() (string, string, error) {
	username, err := readLine("Username: ")
	if err != nil {
		return "", "", err
	}
	password, err := readPassword("Password: ")
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

func runAuthRegister(cmd *cobra.Command, args []string) error {
	username, password, err := promptCredentials()
	if err != nil {
		return err
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	client, err := sync.NewClient()
	if err != nil {
		return err
	}
	if err := client.Register(username, password); err != nil {
		return err
	}

	fmt.Printf("✓ Registered and logged in as %s\n", username)
	return nil
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	username, password, err := promptCredentials()
	if err != nil {
		return err
	}

	client, err := sync.NewClient()
	if err != nil {
		return err
	}
	if err := client.Login(username, password); err != nil {
		return err
	}

	fmt.Printf("✓ Logged in as %s\n", username)
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	client, err := sync.NewClient()
	if err != nil {
		return err
	}
	if !client.IsLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}
	if err := client.Logout(); err != nil {
		return err
	}

	fmt.Println("✓ Logged out")
	return nil
}

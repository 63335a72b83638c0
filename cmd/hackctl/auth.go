package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hackhub-web/internal/domain"
)

var (
	loginPassword string

	registerEmail    string
	registerPassword string
	registerFullName string
	registerRole     string
)

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in and persist the session",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the persisted session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current user",
	RunE:  runWhoami,
}

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create a new account",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegister,
}

func init() {
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted when empty)")

	registerCmd.Flags().StringVar(&registerEmail, "email", "", "email address")
	registerCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "password (prompted when empty)")
	registerCmd.Flags().StringVar(&registerFullName, "full-name", "", "full name")
	registerCmd.Flags().StringVar(&registerRole, "role", string(domain.RoleParticipant), "participant or organizer")
	_ = registerCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, registerCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	password, err := passwordOrPrompt(cmd, loginPassword)
	if err != nil {
		return err
	}
	sess, err := a.store.Login(cmd.Context(), args[0], password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", sess.Username, sess.Role)
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	a.store.Logout(cmd.Context())
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	snap := a.store.Snapshot()
	if !snap.LoggedIn() {
		fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d, %s)\n", snap.Session.Username, snap.Session.UserID, snap.Session.Role)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	role := domain.Role(registerRole)
	if !role.Valid() || role == domain.RoleAdmin {
		return fmt.Errorf("invalid role %q", registerRole)
	}
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	password, err := passwordOrPrompt(cmd, registerPassword)
	if err != nil {
		return err
	}
	user, err := a.api.Register(cmd.Context(), domain.UserCreate{
		Username: args[0],
		Email:    registerEmail,
		Password: password,
		FullName: registerFullName,
		Role:     role,
	})
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s (id %d)\n", user.Username, user.ID)
	return nil
}

func passwordOrPrompt(cmd *cobra.Command, given string) (string, error) {
	if given != "" {
		return given, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("empty password")
	}
	return password, nil
}


package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/room-watch/internal/credentials"
)

// promptPassword asks for the password on a terminal without echoing it
var promptPassword = func(user string) (string, error) {
	var password string
	err := huh.NewInput().
		Title(fmt.Sprintf("Password for %s", user)).
		EchoMode(huh.EchoModePassword).
		Value(&password).
		Run()
	return password, err
}

func newCredentialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage the mailbox password in the OS keyring",
	}
	cmd.AddCommand(newCredentialsSetCmd())
	return cmd
}

func newCredentialsSetCmd() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the mailbox password in the OS keyring",
		Long: `Prompts for the mailbox password or app token and stores it in the OS keyring.
On a terminal the input is hidden; piped input is read from the first line of stdin.
EMAIL_PASS is then optional: when only EMAIL_USER is set the password is looked up in
the keyring.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" {
				user = os.Getenv(credentials.UserEnv)
			}
			if user == "" {
				return fmt.Errorf("--user is required (or set %s)", credentials.UserEnv)
			}

			password, err := readPassword(cmd.InOrStdin(), user)
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}

			if err := credentials.Store(user, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored password for %s in the OS keyring.\n", user)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "Mailbox user (default: $EMAIL_USER)")
	return cmd
}

// readPassword prompts without echo on a terminal and reads one line otherwise
func readPassword(in io.Reader, user string) (string, error) {
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return promptPassword(user)
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if line == "" {
		return "", errors.New("no password on stdin")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

package handlers

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/imamik/genesis/internal/config"
	"github.com/imamik/genesis/internal/provisioning/bootstrap"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22c55e"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3b82f6"))
)

func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// loginHint is the ssh command printed after a successful run, plus a note
// when that command cannot authenticate on its own.
type loginHint struct {
	Command string
	Note    string
}

// newLoginHint builds the ssh command for cfg. A generated key only lives
// for the run, so the hint then says how to log in with a key of your own.
func newLoginHint(cfg *config.Config, injectedKey bool, address string) loginHint {
	cmd := "ssh"
	if cfg.SSH.PrivateKeyPath != "" {
		cmd += " -i " + cfg.SSH.PrivateKeyPath
	}
	if cfg.SSH.Port != 0 && cfg.SSH.Port != config.DefaultSSHPort {
		cmd += " -p " + strconv.Itoa(cfg.SSH.Port)
	}
	if injectedKey {
		cmd += " " + cfg.SSH.User + "@" + address
	} else {
		cmd += " " + address
	}

	hint := loginHint{Command: cmd}
	if injectedKey && cfg.SSH.PrivateKeyPath == "" {
		hint.Note = "The key used for the check was generated for this run and discarded. " +
			"Re-run with --ssh-key <private key> to install a key you can log in with."
	}
	return hint
}

// printDeploySuccess prints the address and the SSH hint.
func printDeploySuccess(w io.Writer, res *bootstrap.Result, hint loginHint, styled bool) {
	if !styled {
		fmt.Fprintf(w, "Instance external IP: %s\n", res.Address)
		fmt.Fprintln(w, "Setup complete! Your VM is ready.")
		fmt.Fprintf(w, "You can SSH into it using: %s\n", hint.Command)
		if hint.Note != "" {
			fmt.Fprintln(w, hint.Note)
		}
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Instance external IP:"), valueStyle.Render(res.Address))
	fmt.Fprintln(w, titleStyle.Render("Setup complete! Your VM is ready."))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("You can SSH into it using:"), valueStyle.Render(hint.Command))
	if hint.Note != "" {
		fmt.Fprintln(w, labelStyle.Render(hint.Note))
	}
	if res.Attempts > 1 {
		fmt.Fprintln(w, labelStyle.Render(fmt.Sprintf("(SSH answered after %d attempts)", res.Attempts)))
	}
}

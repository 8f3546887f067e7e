package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tayloree/appliance-compare/internal/prefs"
	"github.com/tayloree/appliance-compare/internal/toast"
)

var themeCmd = &cobra.Command{
	Use:       "theme [system|light|dark]",
	Short:     "Show or set the color theme preference",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(prefs.ThemeSystem), string(prefs.ThemeLight), string(prefs.ThemeDark)},
	RunE:      runTheme,
}

var consentCmd = &cobra.Command{
	Use:       "consent [accept|decline]",
	Short:     "Show or record the cookie consent decision",
	Long:      "The decision is kept for one year; after that it is treated as undecided.",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"accept", "decline"},
	RunE:      runConsent,
}

func init() {
	rootCmd.AddCommand(themeCmd, consentCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	var theme prefs.Theme
	if len(args) == 1 {
		t, err := prefs.ParseTheme(args[0])
		if err != nil {
			return invalidArgsError(err.Error(), "appcmp theme dark")
		}
		theme = t
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if theme != "" {
		if !a.prefs.SetTheme(cmd.Context(), theme) {
			a.notify(toast.Error, "Could not save the theme")
		} else {
			a.notify(toast.Success, "Theme set to %s", theme)
		}
	}

	current := a.prefs.Theme(cmd.Context())
	if flagJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]prefs.Theme{"theme": current})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "theme: %s\n", current)
	return nil
}

type consentJSON struct {
	Decided   bool       `json:"decided"`
	Accepted  bool       `json:"accepted"`
	DecidedAt *time.Time `json:"decidedAt,omitempty"`
}

func runConsent(cmd *cobra.Command, args []string) error {
	decision := ""
	if len(args) == 1 {
		decision = strings.ToLower(strings.TrimSpace(args[0]))
		if decision != "accept" && decision != "decline" {
			return invalidArgsError(
				fmt.Sprintf("invalid consent decision %q (use accept or decline)", args[0]),
				"appcmp consent accept",
			)
		}
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if decision != "" && !a.prefs.SetConsent(cmd.Context(), decision == "accept") {
		a.notify(toast.Error, "Could not save the consent decision")
	}

	c, decided := a.prefs.Consent(cmd.Context())
	out := consentJSON{Decided: decided, Accepted: c.Accepted}
	if decided {
		out.DecidedAt = &c.DecidedAt
	}
	if flagJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
	}

	switch {
	case !decided:
		fmt.Fprintln(cmd.OutOrStdout(), "consent: undecided")
	case c.Accepted:
		fmt.Fprintf(cmd.OutOrStdout(), "consent: accepted on %s\n", c.DecidedAt.Format("2006-01-02"))
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "consent: declined on %s\n", c.DecidedAt.Format("2006-01-02"))
	}
	return nil
}

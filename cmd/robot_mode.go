package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/tayloree/appliance-compare/internal/api"
	"github.com/tayloree/appliance-compare/internal/catalog"
	"github.com/tayloree/appliance-compare/internal/compare"
	"github.com/tayloree/appliance-compare/internal/storage"
	"golang.org/x/term"
)

const (
	// ExitSuccess is returned when the command succeeds.
	ExitSuccess = 0
	// ExitNotFound is returned when the requested products are not available.
	ExitNotFound = 1
	// ExitInvalidArgs is returned when the command input is invalid.
	ExitInvalidArgs = 2
	// ExitUpstream is returned when an external dependency fails.
	ExitUpstream = 3
	// ExitInternal is returned for unexpected internal failures.
	ExitInternal = 4
)

type cliError struct {
	Code        string
	Message     string
	Suggestions []string
	ExitCode    int
}

func (e *cliError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidArgsError(message string, suggestions ...string) error {
	return &cliError{
		Code:        "INVALID_ARGS",
		Message:     message,
		Suggestions: suggestions,
		ExitCode:    ExitInvalidArgs,
	}
}

var upstreamSuggestions = []string{
	"Retry in a moment.",
	"Use --offline to browse the bundled catalog.",
}

var (
	errProductNotFound = errors.New("product not found")
	errNoMatches       = errors.New("no products match your filters")
)

// hintedError attaches follow-up commands to err without changing what
// errors.Is sees.
type hintedError struct {
	err   error
	hints []string
}

func (h *hintedError) Error() string { return h.err.Error() }
func (h *hintedError) Unwrap() error { return h.err }

func withHints(err error, hints ...string) error {
	return &hintedError{err: err, hints: hints}
}

// errorClass maps a family of sentinel errors to one CLI error code.
type errorClass struct {
	code    string
	exit    int
	hints   []string
	members []error
}

var errorClasses = []errorClass{
	{
		code:    "NOT_FOUND",
		exit:    ExitNotFound,
		members: []error{errProductNotFound, errNoMatches},
	},
	{
		code:  "INVALID_ARGS",
		exit:  ExitInvalidArgs,
		hints: []string{"appcmp compare dh-001 dh-003"},
		members: []error{
			compare.ErrTooFew,
			compare.ErrTooMany,
			compare.ErrMixedCategories,
			compare.ErrDuplicate,
			compare.ErrSelectionFull,
		},
	},
	{
		code:  "UPSTREAM_ERROR",
		exit:  ExitUpstream,
		hints: upstreamSuggestions,
		members: []error{
			api.ErrTimeout,
			api.ErrUnavailable,
			api.ErrBadResponse,
			catalog.ErrEmptyCatalog,
			catalog.ErrInvalidRecord,
			storage.ErrUnavailable,
			context.DeadlineExceeded,
		},
	},
	{
		code:    "INTERNAL_ERROR",
		exit:    ExitInternal,
		hints:   []string{"appcmp storage cleanup", "appcmp history clear"},
		members: []error{storage.ErrQuotaExceeded},
	},
}

func (c errorClass) matches(err error) bool {
	for _, target := range c.members {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type jsonErrorPayload struct {
	Error jsonErrorBody `json:"error"`
}

type jsonErrorBody struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
	ExitCode    int      `json:"exitCode"`
}

func printCLIErrorJSON(w io.Writer, err *cliError) error {
	if err == nil {
		return nil
	}
	payload := jsonErrorPayload{
		Error: jsonErrorBody{
			Code:        err.Code,
			Message:     err.Message,
			Suggestions: err.Suggestions,
			ExitCode:    err.ExitCode,
		},
	}
	return json.NewEncoder(w).Encode(payload)
}

func formatCLIErrorText(err *cliError) string {
	if err == nil {
		return ""
	}

	lines := []string{
		fmt.Sprintf("error[%s]: %s", strings.ToLower(err.Code), err.Message),
	}
	if len(err.Suggestions) > 0 {
		lines = append(lines, "suggestions:")
		for _, suggestion := range err.Suggestions {
			lines = append(lines, "  "+suggestion)
		}
	}
	return strings.Join(lines, "\n")
}

func classifyCLIError(err error) *cliError {
	if err == nil {
		return nil
	}

	var typed *cliError
	if errors.As(err, &typed) {
		return typed
	}

	msg := strings.TrimSpace(err.Error())

	for _, class := range errorClasses {
		if !class.matches(err) {
			continue
		}
		hints := class.hints
		var hinted *hintedError
		if errors.As(err, &hinted) {
			hints = hinted.hints
		}
		return &cliError{Code: class.code, Message: msg, Suggestions: hints, ExitCode: class.exit}
	}

	return classifyUsageError(msg)
}

// classifyUsageError reads cobra and pflag parse failures, which only
// surface as formatted messages.
func classifyUsageError(msg string) *cliError {
	switch {
	case strings.Contains(msg, "unknown command"):
		suggestions := []string{
			"appcmp categories",
			"appcmp show sharp-cv-r71",
		}
		if bad := extractUnknownValue(msg, "unknown command"); bad != "" {
			if suggestion, ok := closestMatch(strings.ToLower(bad), knownCommands, 2); ok {
				suggestions = append([]string{fmt.Sprintf("Did you mean `%s`?", suggestion)}, suggestions...)
			}
		}
		return &cliError{Code: "INVALID_ARGS", Message: msg, Suggestions: suggestions, ExitCode: ExitInvalidArgs}
	case strings.Contains(msg, "unknown flag"), strings.Contains(msg, "unknown shorthand flag"):
		suggestions := []string{
			"appcmp --category dehumidifier",
			"appcmp -c fan --sort price_asc",
		}
		if bad := extractUnknownValue(msg, "unknown flag"); bad != "" {
			if suggestion, ok := resolveFlagName(strings.TrimLeft(bad, "-")); ok {
				suggestions = append([]string{fmt.Sprintf("Try `--%s`.", suggestion)}, suggestions...)
			}
		}
		return &cliError{Code: "INVALID_ARGS", Message: msg, Suggestions: suggestions, ExitCode: ExitInvalidArgs}
	case strings.Contains(msg, "flag needs an argument"),
		strings.Contains(msg, "invalid argument"),
		strings.Contains(msg, "accepts "), strings.Contains(msg, "requires at least"):
		return &cliError{
			Code:        "INVALID_ARGS",
			Message:     msg,
			Suggestions: []string{"appcmp --category dehumidifier", "appcmp compare dh-001 dh-003"},
			ExitCode:    ExitInvalidArgs,
		}
	default:
		return &cliError{
			Code:        "INTERNAL_ERROR",
			Message:     msg,
			Suggestions: []string{"Run `appcmp --help` for usage details."},
			ExitCode:    ExitInternal,
		}
	}
}

func isTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// hasAnyArg reports whether args carries one of the given flags, either bare
// or in --flag=value form.
func hasAnyArg(args []string, flags ...string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		name, _, _ := strings.Cut(arg, "=")
		if slices.Contains(flags, name) {
			return true
		}
	}
	return false
}

func hasJSONPreference(args []string) bool { return hasAnyArg(args, "--json") }

// shouldAutoJSON switches to JSON when stdout is piped, unless the run only
// prints help or completion scripts.
func shouldAutoJSON(args []string, stdoutIsTTY bool) bool {
	switch {
	case stdoutIsTTY, len(args) == 0:
		return false
	case hasAnyArg(args, "--json", "--help", "-h"):
		return false
	}
	cmd := firstCommand(args)
	return cmd != "completion" && cmd != "help"
}

// knownShorthands maps single-character shorthands to whether they take a value.
var knownShorthands = map[byte]bool{
	'c': true, // --category
	'b': true, // --brand
	'r': true, // --range
	'q': true, // --query
	'p': true, // --page
}

// flagTakesValue reports whether a flag token consumes the next argument.
func flagTakesValue(arg string) bool {
	if len(arg) == 2 && arg[0] == '-' {
		return knownShorthands[arg[1]]
	}
	name, _, inline := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
	return !inline && knownFlags[name].requiresValue
}

func firstCommand(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return ""
		case !strings.HasPrefix(arg, "-"):
			return arg
		case flagTakesValue(arg):
			i++
		}
	}
	return ""
}

type quickStartJSON struct {
	Name     string   `json:"name"`
	Usage    string   `json:"usage"`
	Examples []string `json:"examples"`
	Flags    []string `json:"flags"`
}

var quickStart = quickStartJSON{
	Name:  "appcmp",
	Usage: "appcmp --category SLUG [flags] | [categories|show|compare|favorites|history|serve|tui] [flags]",
	Examples: []string{
		"appcmp --category dehumidifier --sort price_asc",
		"appcmp compare dh-001 dh-003",
		"appcmp categories dehumidifier",
	},
	Flags: []string{
		"--category", "--brand", "--range", "--price-min", "--price-max", "--query",
		"--sort", "--page", "--in-stock", "--link", "--json", "--offline",
	},
}

func printQuickStart(w io.Writer, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(quickStart)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\nusage: %s\nexamples:\n", quickStart.Name, quickStart.Usage)
	for _, ex := range quickStart.Examples {
		fmt.Fprintf(&b, "  %s\n", ex)
	}
	fmt.Fprintf(&b, "flags: %s\n", strings.Join(quickStart.Flags, " "))
	_, err := io.WriteString(w, b.String())
	return err
}

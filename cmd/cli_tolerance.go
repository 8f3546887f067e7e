package cmd

import (
	"fmt"
	"strings"

	"github.com/tayloree/appliance-compare/internal/catalog"
)

type flagSpec struct {
	name          string
	requiresValue bool
}

func valueFlags(names ...string) []flagSpec {
	specs := make([]flagSpec, 0, len(names))
	for _, name := range names {
		specs = append(specs, flagSpec{name: name, requiresValue: true})
	}
	return specs
}

func switchFlags(names ...string) []flagSpec {
	specs := make([]flagSpec, 0, len(names))
	for _, name := range names {
		specs = append(specs, flagSpec{name: name})
	}
	return specs
}

var knownFlags = func() map[string]flagSpec {
	all := append(
		valueFlags("category", "brand", "range", "price-min", "price-max", "query", "sort", "page", "link",
			"api-url", "storage", "log-level", "addr", "reload", "w-price", "w-capacity", "w-noise", "w-efficiency"),
		switchFlags("in-stock", "json", "offline", "diff", "save", "help")...,
	)
	out := make(map[string]flagSpec, len(all))
	for _, spec := range all {
		out[spec.name] = spec
	}
	return out
}()

var knownCommands = []string{
	"categories",
	"show",
	"compare",
	"favorites",
	"history",
	"status",
	"serve",
	"tui",
	"theme",
	"consent",
	"storage",
	"completion",
	"help",
}

var flagAliases = map[string]string{
	"cat":       "category",
	"brands":    "brand",
	"maker":     "brand",
	"bucket":    "range",
	"min-price": "price-min",
	"max-price": "price-max",
	"min":       "price-min",
	"max":       "price-max",
	"search":    "query",
	"q":         "query",
	"order":     "sort",
	"stock":     "in-stock",
	"instock":   "in-stock",
	"url":       "link",
	"share":     "link",
	"port":      "addr",
	"listen":    "addr",
}

// tokenRewrite describes how one argv token was read.
type tokenRewrite struct {
	token      string
	note       string
	flag       bool
	needsValue bool
	command    bool
}

func rewroteAs(from, to string) string {
	return fmt.Sprintf("interpreted `%s` as `%s`; use `%s` next time.", from, to, to)
}

func flagRewrite(from, canonical, rest string) tokenRewrite {
	to := "--" + canonical + rest
	r := tokenRewrite{token: to, flag: true, needsValue: knownFlags[canonical].requiresValue}
	if to != from {
		r.note = rewroteAs(from, to)
	}
	return r
}

// argNormalizer walks argv once, tracking which positions may still hold a
// command name and whether the next token is a flag value.
type argNormalizer struct {
	out   []string
	notes []string

	command        string
	nestedAllowed  bool
	nestedChosen   bool
	bareFlagsOK    bool
	expectingValue bool
	passthrough    bool
}

func normalizeCLIArgs(args []string) ([]string, []string) {
	n := &argNormalizer{
		out:         make([]string, 0, len(args)),
		notes:       make([]string, 0, 2),
		bareFlagsOK: true,
	}
	for i, tok := range args {
		n.step(tok, i == len(args)-1)
	}
	return n.out, n.notes
}

func (n *argNormalizer) step(tok string, last bool) {
	switch {
	case n.passthrough:
		n.out = append(n.out, tok)
		return
	case n.expectingValue:
		n.out = append(n.out, tok)
		n.expectingValue = false
		return
	case tok == "--":
		n.out = append(n.out, tok)
		n.passthrough = true
		return
	}

	canBeCommand := n.command == "" || (n.nestedAllowed && !n.nestedChosen)
	r := n.rewrite(tok, canBeCommand)
	if r.note != "" {
		n.notes = append(n.notes, r.note)
	}
	n.out = append(n.out, r.token)

	if r.command {
		if n.command == "" {
			n.command = r.token
			n.bareFlagsOK = bareFlagRewriteAllowed(n.command)
			n.nestedAllowed = allowsNestedCommandArg(n.command)
			return
		}
		n.nestedChosen = true
	}
	if r.flag && r.needsValue && !strings.Contains(r.token, "=") && !last {
		n.expectingValue = true
	}
}

func (n *argNormalizer) rewrite(tok string, canBeCommand bool) tokenRewrite {
	dashed := strings.HasPrefix(tok, "-")

	switch {
	case strings.HasPrefix(tok, "--"):
		name, rest := splitFlag(strings.TrimPrefix(tok, "--"))
		if canonical, ok := resolveFlagName(name); ok {
			return flagRewrite(tok, canonical, rest)
		}
		return tokenRewrite{token: tok, flag: true}

	case len(tok) == 2 && dashed:
		return tokenRewrite{token: tok, flag: true, needsValue: knownShorthands[tok[1]]}

	case dashed && len(tok) > 2:
		name, rest := splitFlag(strings.TrimPrefix(tok, "-"))
		if canonical, ok := resolveFlagName(name); ok {
			r := flagRewrite(tok, canonical, rest)
			r.note = rewroteAs(tok, r.token)
			return r
		}
		return tokenRewrite{token: tok, flag: true}

	case dashed:
		return tokenRewrite{token: tok}
	}

	if strings.Contains(tok, "=") {
		name, rest := splitFlag(tok)
		if canonical, ok := resolveFlagName(name); ok {
			r := flagRewrite(tok, canonical, rest)
			r.note = rewroteAs(tok, r.token)
			return r
		}
	}

	if canBeCommand {
		if isCommandName(tok) {
			return tokenRewrite{token: strings.ToLower(tok), command: true}
		}
		// `appcmp fan` reads as `appcmp --category fan`.
		if n.command == "" {
			if cat, err := catalog.ParseCategory(tok); err == nil {
				to := "--category=" + string(cat)
				return tokenRewrite{token: to, note: rewroteAs(tok, to), flag: true}
			}
		}
		if corrected, ok := resolveCommand(tok); ok {
			return tokenRewrite{
				token:   corrected,
				note:    fmt.Sprintf("interpreted command `%s` as `%s`; use `%s` next time.", tok, corrected, corrected),
				command: true,
			}
		}
	}

	if n.bareFlagsOK {
		if canonical, ok := resolveFlagName(tok); ok {
			r := flagRewrite(tok, canonical, "")
			r.note = rewroteAs(tok, r.token)
			return r
		}
	}

	return tokenRewrite{token: tok}
}

func bareFlagRewriteAllowed(command string) bool {
	// Flag-only commands, where `json` -> `--json` cannot eat a positional.
	switch command {
	case "status", "history":
		return true
	default:
		return false
	}
}

func allowsNestedCommandArg(command string) bool {
	switch command {
	case "help", "completion":
		return true
	default:
		return false
	}
}

func resolveFlagName(raw string) (string, bool) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-")

	if canonical, ok := flagAliases[name]; ok {
		return canonical, true
	}
	if _, ok := knownFlags[name]; ok {
		return name, true
	}
	return closestMatch(name, mapKeys(knownFlags), 2)
}

func isCommandName(raw string) bool {
	name := strings.ToLower(strings.TrimSpace(raw))
	for _, cmd := range knownCommands {
		if name == cmd {
			return true
		}
	}
	return false
}

func resolveCommand(raw string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if isCommandName(name) {
		return name, true
	}
	return closestMatch(name, knownCommands, 2)
}

func explainCLIError(err error) string {
	return formatCLIErrorText(classifyCLIError(err))
}

func splitFlag(value string) (string, string) {
	name, val, ok := strings.Cut(value, "=")
	if !ok {
		return value, ""
	}
	return name, "=" + val
}

// extractUnknownValue pulls the offending token out of a cobra/pflag error
// message such as `unknown flag: --categry` or `unknown command "x" for "y"`.
func extractUnknownValue(msg, marker string) string {
	_, after, ok := strings.Cut(msg, marker)
	if !ok {
		return ""
	}
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(after), ":"))

	for _, quote := range []string{`"`, "`"} {
		if inner, ok := strings.CutPrefix(rest, quote); ok {
			if value, _, closed := strings.Cut(inner, quote); closed {
				return value
			}
		}
	}

	if fields := strings.Fields(rest); len(fields) > 0 {
		return strings.Trim(fields[0], "\"`")
	}
	return ""
}

func mapKeys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}

func closestMatch(target string, candidates []string, maxDistance int) (string, bool) {
	best, bestDist := "", maxDistance+1
	for _, candidate := range candidates {
		if d := levenshtein(target, candidate); d < bestDist || (d == bestDist && candidate < best) {
			best, bestDist = candidate, d
		}
	}
	if bestDist > maxDistance {
		return "", false
	}
	return best, true
}

func levenshtein(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return len(b)
	case b == "":
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCLIArgs_RewritesCommonFlagSyntax(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"-category", "fan", "json"})

	assert.Equal(t, []string{"--category", "fan", "--json"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_RewritesKeyValueAndAlias(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"cat=heater", "--max-price", "20000"})

	assert.Equal(t, []string{"--category=heater", "--price-max", "20000"}, args)
	assert.Len(t, notes, 2)
}

func TestNormalizeCLIArgs_RewritesTypoFlag(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"--categroy", "fan"})

	assert.Equal(t, []string{"--category", "fan"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_RewritesCommandTypo(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"categoriess", "dehumidifier"})

	assert.Equal(t, []string{"categories", "dehumidifier"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_BareCategoryBecomesFlag(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"aircon", "--sort", "price_asc"})

	assert.Equal(t, []string{"--category=air-conditioner", "--sort", "price_asc"}, args)
	assert.Len(t, notes, 1)

	args, notes = normalizeCLIArgs([]string{"show", "fan"})
	assert.Equal(t, []string{"show", "fan"}, args)
	assert.Empty(t, notes)
}

func TestExtractUnknownValue(t *testing.T) {
	assert.Equal(t, "--categry", extractUnknownValue("unknown flag: --categry", "unknown flag"))
	assert.Equal(t, "compair", extractUnknownValue(`unknown command "compair" for "appcmp"`, "unknown command"))
	assert.Empty(t, extractUnknownValue("something else", "unknown flag"))
}

func TestNormalizeCLIArgs_DoesNotRewritePositionalProductRefs(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"compare", "dh-001", "dh-003", "--w-noise", "0"})

	assert.Equal(t, []string{"compare", "dh-001", "dh-003", "--w-noise", "0"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_DoesNotRewriteCompletionPositionalArgs(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"completion", "zsh"})

	assert.Equal(t, []string{"completion", "zsh"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_DoesNotRewriteHelpCommandArgAsFlag(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"help", "compare"})

	assert.Equal(t, []string{"help", "compare"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_RespectsDoubleDashBoundary(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"show", "--", "json"})

	assert.Equal(t, []string{"show", "--", "json"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_LeavesKnownShorthandUntouched(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"-c", "fan", "-p", "2"})

	assert.Equal(t, []string{"-c", "fan", "-p", "2"}, args)
	assert.Empty(t, notes)
}

func TestExplainCLIError_UnknownFlagIncludesSuggestionAndExamples(t *testing.T) {
	msg := explainCLIError(errors.New("unknown flag: --categry"))

	assert.Contains(t, msg, "Try `--category`.")
	assert.Contains(t, msg, "appcmp --category dehumidifier")
	assert.Contains(t, msg, "appcmp -c fan --sort price_asc")
}

func TestExplainCLIError_UnknownCommandIncludesSuggestionAndExamples(t *testing.T) {
	msg := explainCLIError(errors.New("unknown command \"compair\" for \"appcmp\""))

	assert.Contains(t, msg, "Did you mean `compare`?")
	assert.Contains(t, msg, "appcmp categories")
	assert.Contains(t, msg, "appcmp show sharp-cv-r71")
}

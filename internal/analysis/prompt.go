package analysis

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed prompts/rank_check.tmpl
var rankCheckPromptRaw string

// rankCheckTemplate is parsed once and reused for every prompt.
var rankCheckTemplate = template.Must(template.New("rank_check").Parse(rankCheckPromptRaw))

// PromptInput is the data embedded into the rank-check instruction.
type PromptInput struct {
	Keywords    []string
	Websites    []string
	SearchDepth int

	// Instructions is optional operator text appended before the output format rules.
	Instructions string
}

// BuildPrompt renders the rank-check instruction for the provider.
func BuildPrompt(in PromptInput) (string, error) {
	var b strings.Builder
	if err := rankCheckTemplate.Execute(&b, in); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return b.String(), nil
}

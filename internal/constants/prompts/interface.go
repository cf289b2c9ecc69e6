package prompts

import (
	"fmt"
	"strings"
	"text/template"
)

type PromptDefinition struct {
	Content string
	Version float32
}

type SYS_PROMPT struct {
	Intent         string
	CurrentVersion float32
	Items          map[float32]PromptDefinition // version-content
}

func (sp *SYS_PROMPT) GetVersion(version float32) (PromptDefinition, bool) {
	i, ok := sp.Items[version]
	return i, ok
}

func (sp *SYS_PROMPT) GetCurrentPrompt() PromptDefinition {
	return sp.Items[sp.CurrentVersion]
}

// Render executes the prompt content as a text/template against data.
func (pd PromptDefinition) Render(data any) (string, error) {
	tmpl, err := template.New(fmt.Sprintf("prompt-%.1f", pd.Version)).
		Funcs(template.FuncMap{"join": strings.Join}).
		Parse(pd.Content)
	if err != nil {
		return "", fmt.Errorf("failed to parse prompt v%.1f: %w", pd.Version, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render prompt v%.1f: %w", pd.Version, err)
	}
	return strings.TrimSpace(b.String()), nil
}

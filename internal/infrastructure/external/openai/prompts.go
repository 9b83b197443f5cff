package openai

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

// PromptConfig holds the prompts and model parameters used by the summarizer
type PromptConfig struct {
	WeekSummary struct {
		Temperature  float32 `yaml:"temperature"`
		MaxTokens    int     `yaml:"max_tokens"`
		System       string  `yaml:"system"`
		UserTemplate string  `yaml:"user_template"`
	} `yaml:"week_summary"`
}

const defaultSystemPrompt = "You help engineering students write their practical training logbook. " +
	"Summarize the week's work in one short paragraph of plain prose, first person, past tense. " +
	"Do not invent tasks that are not listed."

const defaultUserTemplate = `Week {{.Week}} of practical training.
Daily activities:
{{range .Days}}- {{.Day}}: {{.Activity}}
{{end}}{{if .Operations}}Main jobs: {{join .Operations ", "}}
{{end}}Write the week summary.`

// DefaultPrompts returns the built-in prompt configuration
func DefaultPrompts() *PromptConfig {
	var p PromptConfig
	p.WeekSummary.Temperature = 0.3
	p.WeekSummary.MaxTokens = 300
	p.WeekSummary.System = defaultSystemPrompt
	p.WeekSummary.UserTemplate = defaultUserTemplate
	return &p
}

// LoadPrompts loads prompt configuration from a YAML file. Fields missing
// from the file keep their built-in values.
func LoadPrompts(promptsPath string) (*PromptConfig, error) {
	data, err := os.ReadFile(promptsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	prompts := DefaultPrompts()
	if err := yaml.Unmarshal(data, prompts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prompts: %w", err)
	}
	return prompts, nil
}

var templateFuncs = template.FuncMap{
	"join": func(items []string, sep string) string {
		var buf bytes.Buffer
		for i, s := range items {
			if i > 0 {
				buf.WriteString(sep)
			}
			buf.WriteString(s)
		}
		return buf.String()
	},
}

func renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("prompt").Funcs(templateFuncs).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

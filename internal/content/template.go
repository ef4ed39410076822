// Package content defines round templates, authored bank items, and resolved rounds.
package content

import (
	"fmt"
	"strings"
)

// Template identifies one of the five round kinds.
type Template string

const (
	TemplateChoice    Template = "choice"
	TemplateOddOneOut Template = "odd_one_out"
	TemplatePairs     Template = "pairs"
	TemplateSequence  Template = "sequence"
	TemplateReaction  Template = "reaction"
)

// Templates returns every template in canonical order.
func Templates() []Template {
	return []Template{
		TemplateChoice,
		TemplateOddOneOut,
		TemplatePairs,
		TemplateSequence,
		TemplateReaction,
	}
}

// Valid reports whether t is a known template.
func (t Template) Valid() bool {
	switch t {
	case TemplateChoice, TemplateOddOneOut, TemplatePairs, TemplateSequence, TemplateReaction:
		return true
	default:
		return false
	}
}

// ParseTemplate accepts the canonical name plus a few authoring spellings.
func ParseTemplate(s string) (Template, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	switch norm {
	case "choice", "multiple_choice", "quiz":
		return TemplateChoice, nil
	case "odd_one_out", "oddoneout", "odd":
		return TemplateOddOneOut, nil
	case "pairs", "matching":
		return TemplatePairs, nil
	case "sequence", "ordering":
		return TemplateSequence, nil
	case "reaction", "go_no_go", "gonogo":
		return TemplateReaction, nil
	default:
		return "", fmt.Errorf("unknown template %q", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so TOML and flags can decode templates.
func (t *Template) UnmarshalText(text []byte) error {
	parsed, err := ParseTemplate(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

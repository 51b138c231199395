// Package prompt implements the interactive console adapters the CLI wires
// into orchestrator.Config: collecting template answers and resolving merge
// conflicts via pterm's interactive widgets.
package prompt

import (
	"context"
	"strings"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/overlayforge/pkg/cli/render"
	"github.com/arthur-debert/overlayforge/pkg/mergeblock"
	"github.com/arthur-debert/overlayforge/pkg/resolver"
	"github.com/arthur-debert/overlayforge/pkg/tplconfig"
)

// GetTemplateProps asks the user, one at a time, every question a template
// (or extend template) declares and returns the raw name->answer map
// orchestrator.Run expects.
func GetTemplateProps(label string, questions []tplconfig.Question) (map[string]string, error) {
	if len(questions) == 0 {
		return nil, nil
	}

	pterm.DefaultSection.Println(label)

	answers := make(map[string]string, len(questions))
	for _, q := range questions {
		prompt := q.Prompt
		if prompt == "" {
			prompt = q.Name
		}

		input := pterm.DefaultInteractiveTextInput.WithDefaultText(prompt)
		if q.Default != "" {
			input = input.WithDefaultValue(q.Default)
		}

		answer, err := input.Show()
		if err != nil {
			return nil, err
		}
		answers[q.Name] = answer
	}
	return answers, nil
}

const (
	optionKeep    = "keep current"
	optionIgnore  = "ignore (keep as unresolved, render current side)"
	optionRewrite = "rewrite manually"
)

// Solver is a resolver.ConflictSolver that prompts interactively for every
// conflict block, showing the fenced conflict text and letting the user
// pick an alternative or type a replacement.
func Solver(format render.Format) resolver.ConflictSolver {
	return func(ctx context.Context, item resolver.Item) (resolver.Verdict, mergeblock.Block, error) {
		pterm.DefaultSection.Printfln("conflict %d/%d in %s", item.CurrentIndex, item.Total, item.Pathname)
		pterm.Println(render.Conflict(item.Pathname, mergeblock.ToText(mergeblock.Blocks{item.Block}), format))

		choice, err := pterm.DefaultInteractiveSelect.
			WithOptions([]string{optionKeep, optionIgnore, optionRewrite}).
			Show()
		if err != nil {
			return resolver.Defer, mergeblock.Block{}, err
		}

		switch choice {
		case optionIgnore:
			return resolver.Ignored, mergeblock.Block{}, nil
		case optionRewrite:
			text, err := pterm.DefaultInteractiveTextInput.
				WithMultiLine().
				WithDefaultText("replacement content").
				Show()
			if err != nil {
				return resolver.Defer, mergeblock.Block{}, err
			}
			return resolver.Resolved, mergeblock.Block{Lines: splitKeepNewlines(text)}, nil
		default:
			return resolver.Resolved, mergeblock.Block{Lines: item.Block.Current}, nil
		}
	}
}

func splitKeepNewlines(text string) []string {
	if text == "" {
		return nil
	}
	var lines []string
	for _, raw := range strings.SplitAfter(text, "\n") {
		if raw == "" {
			continue
		}
		lines = append(lines, raw)
	}
	if !strings.HasSuffix(text, "\n") {
		lines[len(lines)-1] += "\n"
	}
	return lines
}

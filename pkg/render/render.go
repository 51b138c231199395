// Package render wraps the text templating engine used to expand
// `__template.` marked files against a template's merged props.
//
// This is deliberately stdlib text/template rather than an ecosystem
// engine — see DESIGN.md: no example repo in the retrieved pack pulls in a
// third-party template engine (pongo2, raymond, etc.), and text/template's
// {{ }} syntax is exactly what a scaffolding tool's template authors expect.
package render

import (
	"bytes"
	"text/template"
)

// TemplateMarker prefixes a filename that should be rendered. The prefix is
// stripped from the output path.
const TemplateMarker = "__template."

// IsTemplateFile reports whether name carries the template marker.
func IsTemplateFile(name string) bool {
	return len(name) >= len(TemplateMarker) && name[:len(TemplateMarker)] == TemplateMarker
}

// StripMarker removes the template marker prefix from name.
func StripMarker(name string) string {
	if !IsTemplateFile(name) {
		return name
	}
	return name[len(TemplateMarker):]
}

// Render expands text as a text/template body against props.
func Render(text string, props map[string]string) (string, error) {
	tmpl, err := template.New("entity").Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, props); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MergeProps combines base and overlay, overlay winning on key collision —
// the right-biased merge the orchestrator uses for main+extend props.
func MergeProps(base, overlay map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}

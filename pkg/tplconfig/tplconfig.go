// Package tplconfig parses a template's root configuration file into a
// TemplateConfig. Script-based config (the original ecosystem's `.js`
// variant) is not supported; only declarative JSON, TOML and YAML are.
package tplconfig

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/overlayforge/pkg/vtree"
)

// ConfigFileNames is the fixed, ordered search list consulted at a
// template's root. The first existing name wins.
var ConfigFileNames = []string{
	".forge.toml",
	".forge.yaml",
	".forge.yml",
	".forge.json",
}

// Question describes one prompt a template wants answered. Names beginning
// with "$EXTEND$" are routed by the answers package to pending extend
// template labels rather than to props.
type Question struct {
	Name    string `json:"name" toml:"name" yaml:"name"`
	Prompt  string `json:"prompt" toml:"prompt" yaml:"prompt"`
	Default string `json:"default" toml:"default" yaml:"default"`
}

// FilePolicy is the merge/delete glob declaration for one template (or
// extend template) scope.
type FilePolicy struct {
	Merge  []string `json:"merge" toml:"merge" yaml:"merge"`
	Delete []string `json:"delete" toml:"delete" yaml:"delete"`
}

// ExtendConfig is the per-extend-id scope of a TemplateConfig.
type ExtendConfig struct {
	Questions []Question `json:"questions" toml:"questions" yaml:"questions"`
	Cleanups  []string   `json:"cleanups" toml:"cleanups" yaml:"cleanups"`
	Files     FilePolicy `json:"files" toml:"files" yaml:"files"`
}

// Config is the parsed TemplateConfig.
type Config struct {
	Questions       []Question              `json:"questions" toml:"questions" yaml:"questions"`
	ExtendTemplates map[string]ExtendConfig `json:"extendTemplates" toml:"extendTemplates" yaml:"extendTemplates"`
	Cleanups        []string                `json:"cleanups" toml:"cleanups" yaml:"cleanups"`
	Files           FilePolicy              `json:"files" toml:"files" yaml:"files"`
}

// Load searches root (a VirtualTree prefix such as vtree.MainPrefix) for the
// first file named in ConfigFileNames and parses it. A parse failure
// degrades to an empty Config rather than failing the run, matching the
// non-fatal TemplateFailure behavior of a config that can't be understood.
// No matching file at all also returns an empty Config.
func Load(tree *vtree.Tree, root string) (Config, error) {
	for _, name := range ConfigFileNames {
		path := root + "/" + name
		exists, err := tree.Exists(path)
		if err != nil {
			return Config{}, err
		}
		if !exists {
			continue
		}

		data, err := tree.ReadFile(path)
		if err != nil {
			return Config{}, err
		}

		cfg, err := parse(name, data)
		if err != nil {
			return Config{}, nil
		}
		return cfg, nil
	}
	return Config{}, nil
}

func parse(name string, data []byte) (Config, error) {
	var cfg Config
	var err error

	switch {
	case hasSuffix(name, ".toml"):
		err = toml.Unmarshal(data, &cfg)
	case hasSuffix(name, ".yaml"), hasSuffix(name, ".yml"):
		err = yaml.Unmarshal(data, &cfg)
	case hasSuffix(name, ".json"):
		err = json.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("tplconfig: unsupported config file %q", name)
	}

	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

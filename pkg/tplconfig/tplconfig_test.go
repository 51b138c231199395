package tplconfig_test

import (
	"testing"

	"github.com/arthur-debert/overlayforge/pkg/tplconfig"
	"github.com/arthur-debert/overlayforge/pkg/vtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesToml(t *testing.T) {
	tree := vtree.New()
	content := `
[files]
merge = ["*.md"]
delete = ["*.tmp"]

[[questions]]
name = "projectName"
prompt = "Project name?"
`
	require.NoError(t, tree.WriteFile(vtree.MainPrefix+"/.forge.toml", []byte(content)))

	cfg, err := tplconfig.Load(tree, vtree.MainPrefix)
	require.NoError(t, err)
	assert.Equal(t, []string{"*.md"}, cfg.Files.Merge)
	assert.Equal(t, []string{"*.tmp"}, cfg.Files.Delete)
	require.Len(t, cfg.Questions, 1)
	assert.Equal(t, "projectName", cfg.Questions[0].Name)
}

func TestLoadParsesYaml(t *testing.T) {
	tree := vtree.New()
	content := "files:\n  merge:\n    - \"*.go\"\n"
	require.NoError(t, tree.WriteFile(vtree.MainPrefix+"/.forge.yaml", []byte(content)))

	cfg, err := tplconfig.Load(tree, vtree.MainPrefix)
	require.NoError(t, err)
	assert.Equal(t, []string{"*.go"}, cfg.Files.Merge)
}

func TestLoadPrefersFirstNameInSearchOrder(t *testing.T) {
	tree := vtree.New()
	require.NoError(t, tree.WriteFile(vtree.MainPrefix+"/.forge.toml", []byte(`files.merge = ["*.toml-won"]`)))
	require.NoError(t, tree.WriteFile(vtree.MainPrefix+"/.forge.yaml", []byte("files:\n  merge: [\"*.yaml-lost\"]\n")))

	cfg, err := tplconfig.Load(tree, vtree.MainPrefix)
	require.NoError(t, err)
	assert.Equal(t, []string{"*.toml-won"}, cfg.Files.Merge)
}

func TestLoadNoConfigFileReturnsEmptyConfig(t *testing.T) {
	tree := vtree.New()
	cfg, err := tplconfig.Load(tree, vtree.MainPrefix)
	require.NoError(t, err)
	assert.Equal(t, tplconfig.Config{}, cfg)
}

func TestLoadMalformedConfigDegradesToEmpty(t *testing.T) {
	tree := vtree.New()
	require.NoError(t, tree.WriteFile(vtree.MainPrefix+"/.forge.json", []byte("{not json")))

	cfg, err := tplconfig.Load(tree, vtree.MainPrefix)
	require.NoError(t, err)
	assert.Equal(t, tplconfig.Config{}, cfg)
}

func TestLoadParsesExtendTemplates(t *testing.T) {
	tree := vtree.New()
	content := `{
		"extendTemplates": {
			"logging": {
				"questions": [{"name": "$EXTEND$level", "prompt": "level?"}],
				"files": {"merge": ["*.log.conf"]}
			}
		}
	}`
	require.NoError(t, tree.WriteFile(vtree.MainPrefix+"/.forge.json", []byte(content)))

	cfg, err := tplconfig.Load(tree, vtree.MainPrefix)
	require.NoError(t, err)
	require.Contains(t, cfg.ExtendTemplates, "logging")
	assert.Equal(t, []string{"*.log.conf"}, cfg.ExtendTemplates["logging"].Files.Merge)
}

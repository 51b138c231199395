package answers_test

import (
	"testing"

	"github.com/arthur-debert/overlayforge/pkg/answers"
	"github.com/stretchr/testify/assert"
)

func TestParseRoutesExtendMarkedAnswersToPendingLabels(t *testing.T) {
	answers.Reset()
	result := answers.Parse(map[string]string{
		"projectName":            "demo",
		answers.ExtendMarker + "logging": "logging",
	})

	assert.Equal(t, "demo", result.Props["projectName"])
	assert.Equal(t, []string{"logging"}, result.PendingExtendTemplateLabels)
	assert.NotContains(t, result.Props, answers.ExtendMarker+"logging")
}

func TestParseEmptyExtendAnswerActivatesNothing(t *testing.T) {
	answers.Reset()
	result := answers.Parse(map[string]string{
		answers.ExtendMarker + "logging": "",
	})
	assert.Empty(t, result.PendingExtendTemplateLabels)
}

func TestParseDeduplicatesRepeatedNamesAcrossCalls(t *testing.T) {
	answers.Reset()

	first := answers.Parse(map[string]string{"author": "main-answer"})
	second := answers.Parse(map[string]string{"author": "extend-answer"})

	assert.Equal(t, "main-answer", first.Props["author"])
	assert.NotEqual(t, "author", onlyKey(second.Props))
	assert.Contains(t, onlyKey(second.Props), "author")
}

func onlyKey(m map[string]string) string {
	for k := range m {
		return k
	}
	return ""
}

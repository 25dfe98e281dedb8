package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfateev/codeagent/internal/actions"
	"github.com/mfateev/codeagent/internal/models"
)

func TestUserTurn(t *testing.T) {
	tests := []struct {
		req  Request
		want string
	}{
		{Request{IntentProvideInfo, "x"}, "FYI, reply OK if you understand, ask me if you want to clarify: x"},
		{Request{IntentAsk, "why?"}, "I want to ask: why?"},
		{Request{IntentGenerateCode, ""}, "I want to generate code. "},
		{Request{IntentGenerateCode, "tests"}, "I want to generate code. Here is additional requirements: tests \n"},
	}
	for _, tt := range tests {
		t.Run(tt.req.Intent.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, UserTurn(tt.req))
		})
	}
}

func TestCodeExemplar_IsParseable(t *testing.T) {
	list, err := actions.NewFenceParser().Parse(CodeExemplar())
	require.NoError(t, err)
	assert.Equal(t, exemplarActions, list)
	assert.Equal(t, 1, strings.Count(CodeExemplar(), actions.OpenFence))
}

func TestBuildPrompt(t *testing.T) {
	hist := []models.Message{models.UserMessage("hi")}

	ask := BuildPrompt(hist, IntentAsk)
	assert.Equal(t, []models.Message{models.SystemMessage(AgentRole), models.UserMessage("hi")}, ask)

	gen := BuildPrompt(hist, IntentGenerateCode)
	require.Len(t, gen, 3)
	assert.Equal(t, models.AssistantMessage(CodeExemplar()), gen[2])
	assert.Len(t, hist, 1)
}

func TestIntents(t *testing.T) {
	labels := make([]string, 0, 3)
	for _, i := range Intents() {
		assert.True(t, i.Valid())
		labels = append(labels, i.String())
	}
	assert.Equal(t, []string{"Provide Info", "Ask", "Generate Code"}, labels)
	assert.False(t, Intent(-1).Valid())
}

package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfateev/codeagent/internal/models"
)

func TestParse_EncodedListRoundTrips(t *testing.T) {
	list := []models.Action{
		models.AddFile{FileName: "src/logger.js", Content: "module.exports = {}\n"},
		models.EditFile{FileName: "src/app.js", RemoveLines: []int{2, 4}, InsertLine: 2, Content: "X"},
		models.RunCommand{Command: "npm test"},
	}
	encoded, err := Encode(list)
	require.NoError(t, err)

	parsed, err := NewFenceParser().Parse("Here you go:\n" + encoded + "\nDone.")
	require.NoError(t, err)
	assert.Equal(t, list, parsed)
}

func TestParse_NoFence(t *testing.T) {
	_, err := NewFenceParser().Parse("I would add a logger module.")
	require.Error(t, err)
	assert.True(t, models.IsMalformedResponse(err))
}

func TestParse_UnterminatedFence(t *testing.T) {
	_, err := NewFenceParser().Parse("text ```json")
	require.Error(t, err)
	assert.True(t, models.IsMalformedResponse(err))
}

func TestParse_NotAnArray(t *testing.T) {
	for _, payload := range []string{
		`{"action":"runCommand","command":"ls"}`,
		`null`,
		`"ls"`,
	} {
		t.Run(payload, func(t *testing.T) {
			list, err := NewFenceParser().Parse("```json\n" + payload + "\n```")
			require.Error(t, err)
			assert.True(t, models.IsMalformedResponse(err))
			assert.Nil(t, list)
		})
	}
}

func TestParse_EmptyList(t *testing.T) {
	parsed, err := NewFenceParser().Parse("```json\n[]\n```")
	require.NoError(t, err)
	assert.Empty(t, parsed)
}

func TestParse_EntryErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"missing action", `[{"command":"ls"}]`},
		{"non-string action", `[{"action":5}]`},
		{"null action", `[{"action":null}]`},
		{"entry not an object", `["ls"]`},
		{"wrong field type", `[{"action":"editFile","fileName":"a","removeLines":"2"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFenceParser().Parse("```json\n" + tt.payload + "\n```")
			require.Error(t, err)
			assert.True(t, models.IsMalformedResponse(err))
		})
	}
}

func TestParse_UnknownActionKept(t *testing.T) {
	raw := "```json\n[{\"action\":\"deleteFile\",\"fileName\":\"a\"},{\"action\":\"runCommand\",\"command\":\"ls\"}]\n```"
	parsed, err := NewFenceParser().Parse(raw)
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	unknown, ok := parsed[0].(models.UnknownAction)
	require.True(t, ok)
	assert.Equal(t, "deleteFile", unknown.Name)
	assert.JSONEq(t, `{"action":"deleteFile","fileName":"a"}`, string(unknown.Raw))
	assert.Equal(t, models.RunCommand{Command: "ls"}, parsed[1])
}

func TestParse_GreedyFenceSpan(t *testing.T) {
	// Everything from the first ```json to the last ``` is the payload, so a
	// second fenced block invalidates the list.
	raw := "```json\n[]\n```\nand also\n```\necho hi\n```"
	_, err := NewFenceParser().Parse(raw)
	require.Error(t, err)
	assert.True(t, models.IsMalformedResponse(err))
}

func TestEncode_InjectsDiscriminator(t *testing.T) {
	out, err := Encode([]models.Action{models.RunCommand{Command: "echo hello"}})
	require.NoError(t, err)
	assert.Contains(t, out, `"action": "runCommand"`)
	assert.Contains(t, out, `"command": "echo hello"`)
	assert.True(t, len(out) > len(OpenFence)+len(CloseFence))
}

func TestEncode_Nil(t *testing.T) {
	out, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "```json\n[]\n```", out)
}

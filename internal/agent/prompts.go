package agent

import (
	"fmt"

	"github.com/mfateev/codeagent/internal/actions"
	"github.com/mfateev/codeagent/internal/models"
)

// AgentRole is the system message sent ahead of the history on every turn.
const AgentRole = "You are a Code AI expert who analyzes project requirements, suggests solutions, and provides code changes for implementation."

// exemplarActions shows the model one action of each kind.
var exemplarActions = []models.Action{
	models.AddFile{
		FileName: "src/service/example.service.js",
		Content:  "export const example = () => {}",
	},
	models.EditFile{
		FileName:    "src/main.js",
		RemoveLines: []int{1, 2, 3, 4},
		InsertLine:  3,
		Content:     "const a = 5;",
	},
	models.RunCommand{Command: "npm install axios"},
}

// UserTurn renders req as the user message stored in history.
func UserTurn(req Request) string {
	switch req.Intent {
	case IntentProvideInfo:
		return "FYI, reply OK if you understand, ask me if you want to clarify: " + req.Text
	case IntentAsk:
		return "I want to ask: " + req.Text
	case IntentGenerateCode:
		ext := ""
		if req.Text != "" {
			ext = fmt.Sprintf("Here is additional requirements: %s \n", req.Text)
		}
		return "I want to generate code. " + ext
	default:
		return req.Text
	}
}

// CodeExemplar is the assistant message appended to code generation prompts.
// It is never stored in history.
func CodeExemplar() string {
	block, err := actions.Encode(exemplarActions)
	if err != nil {
		panic(fmt.Sprintf("encode exemplar actions: %v", err))
	}
	return "Generate code and run command-line based on the provided requirements as a JSON-formatted " +
		"list of actions inside a single fenced code block tagged json. Line numbers are 1-based. " +
		"For example:\n" + block
}

// BuildPrompt returns the messages sent for a turn: the agent role, the
// full history, and for code generation the exemplar.
func BuildPrompt(history []models.Message, intent Intent) []models.Message {
	msgs := make([]models.Message, 0, len(history)+2)
	msgs = append(msgs, models.SystemMessage(AgentRole))
	msgs = append(msgs, history...)
	if intent == IntentGenerateCode {
		msgs = append(msgs, models.AssistantMessage(CodeExemplar()))
	}
	return msgs
}

package history

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfateev/codeagent/internal/models"
)

type stubSummarizer struct {
	summary string
	err     error
	calls   int
	seen    []models.Message
}

func (s *stubSummarizer) Summarize(ctx context.Context, msgs []models.Message) (string, error) {
	s.calls++
	s.seen = msgs
	return s.summary, s.err
}

// buildHistory creates a manager with the given number of user/assistant turns.
func buildHistory(turns int, summarizer Summarizer) *Manager {
	m := NewManager(nil, summarizer, nil)
	for i := 0; i < turns; i++ {
		_ = m.Append(models.RoleUser, "I want to ask: what does this function do?")
		_ = m.Append(models.RoleAssistant, "It parses the configuration file and returns defaults.")
	}
	return m
}

func TestAppend_PreservesOrder(t *testing.T) {
	m := NewManager(nil, nil, nil)
	require.NoError(t, m.Append(models.RoleUser, "first"))
	require.NoError(t, m.Append(models.RoleAssistant, "second"))
	require.NoError(t, m.Append(models.RoleSystem, "third"))

	msgs := m.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "third", msgs[2].Content)
}

func TestAppend_RejectsUnknownRole(t *testing.T) {
	m := NewManager(nil, nil, nil)
	err := m.Append("tool", "output")
	require.Error(t, err)
	assert.Equal(t, 0, m.Len())
}

func TestMessages_ReturnsCopy(t *testing.T) {
	m := buildHistory(1, nil)
	msgs := m.Messages()
	msgs[0].Content = "mutated"
	assert.NotEqual(t, "mutated", m.Messages()[0].Content)
}

func TestNewManager_DoesNotAliasInitial(t *testing.T) {
	initial := []models.Message{models.UserMessage("hi")}
	m := NewManager(initial, nil, nil)
	initial[0].Content = "changed"
	assert.Equal(t, "hi", m.Messages()[0].Content)
}

func TestSizeMetric_EmptyAndMonotonic(t *testing.T) {
	m := NewManager(nil, nil, nil)
	assert.Equal(t, len("[]"), m.SizeMetric())

	prev := m.SizeMetric()
	for i := 0; i < 10; i++ {
		require.NoError(t, m.Append(models.RoleUser, strings.Repeat("x", i)))
		size := m.SizeMetric()
		assert.GreaterOrEqual(t, size, prev)
		prev = size
	}
}

func TestSizeMetric_MatchesSerializedLength(t *testing.T) {
	m := NewManager(nil, nil, nil)
	require.NoError(t, m.Append(models.RoleUser, "hi"))
	assert.Equal(t, len(`[{"role":"user","content":"hi"}]`), m.SizeMetric())
}

func TestCheckAndSummarize_UnderThresholdIsNoop(t *testing.T) {
	s := &stubSummarizer{summary: "unused"}
	m := buildHistory(2, s)
	before := m.Messages()

	done, err := m.CheckAndSummarize(context.Background(), m.SizeMetric())
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, before, m.Messages())
	assert.Equal(t, 0, s.calls)
}

func TestCheckAndSummarize_OverThresholdReplacesHistory(t *testing.T) {
	s := &stubSummarizer{summary: "User asked about config parsing."}
	m := buildHistory(50, s)
	before := m.Messages()
	require.Greater(t, m.SizeMetric(), 4096)

	done, err := m.CheckAndSummarize(context.Background(), 4096)
	require.NoError(t, err)
	assert.True(t, done)

	msgs := m.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, models.RoleSystem, msgs[0].Role)
	assert.Equal(t, "User asked about config parsing.", msgs[0].Content)
	assert.Less(t, m.SizeMetric(), 4096)

	assert.Equal(t, 1, s.calls)
	assert.Equal(t, before, s.seen, "summarizer sees the full history")
}

func TestCheckAndSummarize_FailureKeepsHistory(t *testing.T) {
	s := &stubSummarizer{err: errors.New("provider down")}
	m := buildHistory(50, s)
	before := m.Messages()

	done, err := m.CheckAndSummarize(context.Background(), 100)
	require.Error(t, err)
	assert.False(t, done)
	assert.True(t, models.IsSummarizationError(err))
	assert.Equal(t, before, m.Messages())
}

func TestSummarize_WithoutSummarizer(t *testing.T) {
	m := buildHistory(1, nil)
	_, err := m.Summarize(context.Background())
	require.Error(t, err)
	assert.True(t, models.IsSummarizationError(err))
}

func TestReplaceAll(t *testing.T) {
	m := buildHistory(3, nil)
	input := []models.Message{models.SystemMessage("compacted")}

	require.NoError(t, m.ReplaceAll(input))
	input[0].Content = "mutated"

	msgs := m.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "compacted", msgs[0].Content)

	assert.Error(t, m.ReplaceAll([]models.Message{{Role: "tool"}}))
	assert.Equal(t, 1, m.Len(), "invalid replacement leaves history untouched")
}

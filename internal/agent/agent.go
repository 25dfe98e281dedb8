// Package agent runs the interactive turn loop: user request, model
// response, optional action execution, history upkeep and persistence.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mfateev/codeagent/internal/actions"
	"github.com/mfateev/codeagent/internal/config"
	"github.com/mfateev/codeagent/internal/history"
	"github.com/mfateev/codeagent/internal/llm"
	"github.com/mfateev/codeagent/internal/logging"
	"github.com/mfateev/codeagent/internal/models"
)

// Options wires an Agent. Client, History, Store and Executor are required.
type Options struct {
	Client   llm.ChatClient
	History  *history.Manager
	Store    history.Store
	Executor *actions.Executor
	Parser   actions.Parser // defaults to actions.NewFenceParser()
	Reporter Reporter       // defaults to a TextReporter on io.Discard
	Logger   *zap.Logger

	Model     string
	MaxTokens int
	// RequestTimeout bounds each completion call. Zero means no limit.
	RequestTimeout time.Duration
	// SummaryThreshold is the history size above which it is summarized.
	SummaryThreshold int
}

// Agent drives turns against a single conversation. It is not safe for
// concurrent use; turns run one after another.
type Agent struct {
	opts      Options
	sessionID string
	logger    *zap.Logger
}

// TurnResult describes what happened in one turn.
type TurnResult struct {
	Response string
	Actions  []models.Action
	Outcomes []actions.Outcome
	// ResponseErr is the transport or parse failure of this turn, if any.
	ResponseErr error
	Summarized  bool
}

// New validates opts and creates an agent with a fresh session id.
func New(opts Options) (*Agent, error) {
	switch {
	case opts.Client == nil:
		return nil, errors.New("agent: chat client is required")
	case opts.History == nil:
		return nil, errors.New("agent: history manager is required")
	case opts.Store == nil:
		return nil, errors.New("agent: conversation store is required")
	case opts.Executor == nil:
		return nil, errors.New("agent: action executor is required")
	}
	if opts.Parser == nil {
		opts.Parser = actions.NewFenceParser()
	}
	if opts.Reporter == nil {
		opts.Reporter = NewTextReporter(io.Discard)
	}
	if opts.SummaryThreshold <= 0 {
		opts.SummaryThreshold = config.DefaultSummaryThreshold
	}

	id := uuid.NewString()
	return &Agent{
		opts:      opts,
		sessionID: id,
		logger:    logging.OrNop(opts.Logger).With(zap.String("session_id", id)),
	}, nil
}

// SessionID identifies this agent run in logs.
func (a *Agent) SessionID() string {
	return a.sessionID
}

// Run loops over requests from p until it returns io.EOF or ErrQuit, or
// ctx is cancelled. Cancellation returns ctx.Err(); the turn in flight is
// not persisted.
func (a *Agent) Run(ctx context.Context, p Prompter) error {
	a.opts.Reporter.Phase(PhaseIdle)
	a.logger.Info("Session started", zap.Int("history_messages", a.opts.History.Len()))

	for {
		a.opts.Reporter.Phase(PhaseAwaitingUserIntent)
		req, err := p.Next(ctx)
		if errors.Is(err, io.EOF) || errors.Is(err, ErrQuit) {
			a.logger.Info("Session ended")
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read user request: %w", err)
		}

		if _, err := a.RunTurn(ctx, req); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.opts.Reporter.Error(err)
		}
	}
}

// RunTurn performs one full turn for req. Model and action failures are
// reported and recorded in the result; the returned error is non-nil only
// when the turn could not complete (invalid request, cancellation, or a
// failed save).
func (a *Agent) RunTurn(ctx context.Context, req Request) (*TurnResult, error) {
	if !req.Intent.Valid() {
		return nil, fmt.Errorf("unknown intent %d", int(req.Intent))
	}
	start := time.Now()
	logger := a.logger.With(zap.Stringer("intent", req.Intent))
	result := &TurnResult{}

	a.opts.Reporter.Phase(PhaseBuildingPrompt)
	if err := a.opts.History.Append(models.RoleUser, UserTurn(req)); err != nil {
		return nil, err
	}
	prompt := BuildPrompt(a.opts.History.Messages(), req.Intent)

	a.opts.Reporter.Phase(PhaseStreamingResponse)
	response, err := a.stream(ctx, prompt)
	if ctx.Err() != nil {
		logger.Info("Turn cancelled while streaming", zap.Int("partial_bytes", len(response)))
		return result, ctx.Err()
	}

	if err != nil {
		logger.Warn("Completion failed", zap.Error(err))
		result.ResponseErr = err
		a.opts.Reporter.Error(err)
	} else {
		result.Response = response
		if err := a.opts.History.Append(models.RoleAssistant, response); err != nil {
			return result, err
		}
		if req.Intent == IntentGenerateCode {
			a.opts.Reporter.Phase(PhasePostProcessing)
			a.applyActions(ctx, logger, result)
		} else {
			a.opts.Reporter.Phase(PhaseDone)
		}
	}

	a.opts.Reporter.Phase(PhaseCheckingSummary)
	a.checkSummary(ctx, result)

	a.opts.Reporter.Phase(PhasePersisting)
	if err := a.opts.Store.Save(a.opts.History.Messages()); err != nil {
		logger.Error("Failed to save conversation", zap.Error(err))
		return result, fmt.Errorf("save conversation: %w", err)
	}

	logger.Info("Turn complete",
		zap.Duration("duration", time.Since(start)),
		zap.Int("response_bytes", len(result.Response)),
		zap.Int("actions", len(result.Actions)),
		zap.Bool("summarized", result.Summarized))
	return result, nil
}

// stream sends prompt and echoes deltas to the reporter. The returned text
// is complete only when err is nil.
func (a *Agent) stream(ctx context.Context, prompt []models.Message) (string, error) {
	if a.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.RequestTimeout)
		defer cancel()
	}

	req := llm.CompletionRequest{
		Model:     a.opts.Model,
		Messages:  prompt,
		MaxTokens: a.opts.MaxTokens,
	}
	text, err := llm.Collect(a.opts.Client.StreamCompletion(ctx, req), deltaWriter{a.opts.Reporter})
	a.opts.Reporter.EndResponse()

	if err != nil {
		var agentErr *models.AgentError
		if !errors.As(err, &agentErr) {
			err = models.NewTransportError("completion stream failed", err)
		}
		return text, err
	}
	return text, nil
}

func (a *Agent) applyActions(ctx context.Context, logger *zap.Logger, result *TurnResult) {
	list, err := a.opts.Parser.Parse(result.Response)
	if err != nil {
		logger.Warn("Response has no usable action list", zap.Error(err))
		result.ResponseErr = err
		a.opts.Reporter.Error(err)
		return
	}
	result.Actions = list
	result.Outcomes = a.opts.Executor.Execute(ctx, list)
	a.opts.Reporter.Outcomes(result.Outcomes)

	counts := actions.Summary(result.Outcomes)
	logger.Info("Actions applied",
		zap.Int("succeeded", counts[actions.StatusSucceeded]),
		zap.Int("failed", counts[actions.StatusFailed]),
		zap.Int("skipped", counts[actions.StatusSkipped]))
}

func (a *Agent) checkSummary(ctx context.Context, result *TurnResult) {
	if a.opts.History.SizeMetric() <= a.opts.SummaryThreshold {
		return
	}
	a.opts.Reporter.Notice("Summary required")

	summarized, err := a.opts.History.CheckAndSummarize(ctx, a.opts.SummaryThreshold)
	if err != nil {
		a.opts.Reporter.Error(err)
		return
	}
	if summarized {
		result.Summarized = true
		a.opts.Reporter.Summary(a.opts.History.Messages()[0].Content)
	}
}

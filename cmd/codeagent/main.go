// Interactive coding agent backed by a chat completion API.
//
// Each turn picks an intent from a menu (provide info, ask, generate code),
// streams the model reply, applies any generated file and command actions
// to the working directory, and saves the conversation.
//
// Usage:
//
//	API_KEY=... API_URL=https://api.deepseek.com codeagent
//	SRC=./myproject codeagent      Apply actions inside ./myproject
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/mfateev/codeagent/internal/actions"
	"github.com/mfateev/codeagent/internal/agent"
	"github.com/mfateev/codeagent/internal/cli"
	"github.com/mfateev/codeagent/internal/config"
	"github.com/mfateev/codeagent/internal/exec"
	"github.com/mfateev/codeagent/internal/history"
	"github.com/mfateev/codeagent/internal/llm"
	"github.com/mfateev/codeagent/internal/logging"
	"github.com/mfateev/codeagent/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "codeagent",
	Short: "Interactive coding agent",
	Long: `codeagent keeps a running conversation with an LLM about your project.

Choose an intent each turn:
  Provide Info   tell the model about the project
  Ask            ask a question
  Generate Code  let the model write files and run commands

Configuration comes from API_KEY, API_URL and SRC, optionally from
.codeagent.yaml (or the file named by CODEAGENT_CONFIG).`,
	Args:          cobra.NoArgs,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return err
	}

	mc := cfg.ModelConfig()
	client, err := llm.NewChatClient(cfg.LLM)
	if err != nil {
		return err
	}

	store := history.NewFileStore(cfg.Session.ConversationFile)
	initial, err := store.Load()
	if err != nil {
		return fmt.Errorf("failed to load conversation: %w", err)
	}
	summarizer := history.NewLLMSummarizer(client, mc.SummaryModel, mc.MaxTokens)
	mgr := history.NewManager(initial, summarizer, logger)

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	renderer := cli.NewRenderer(os.Stdout, cli.RendererOptions{
		NoColor:    !interactive,
		NoMarkdown: !interactive,
		NoSpinner:  !interactive,
	})

	executor := actions.NewExecutor(cfg.Session.WorkDir, logger,
		actions.WithEnvPolicy(exec.EnvPolicy{Exclude: cfg.Session.CommandEnvExclude}))

	a, err := agent.New(agent.Options{
		Client:           client,
		History:          mgr,
		Store:            store,
		Executor:         executor,
		Reporter:         renderer,
		Logger:           logger,
		Model:            mc.Model,
		MaxTokens:        mc.MaxTokens,
		RequestTimeout:   timeout,
		SummaryThreshold: cfg.Session.SummaryThreshold,
	})
	if err != nil {
		return err
	}

	logger.Info("Configuration loaded",
		zap.String("session_id", a.SessionID()),
		zap.String("provider", mc.Provider),
		zap.String("model", mc.Model),
		zap.String("summary_model", mc.SummaryModel),
		zap.String("work_dir", cfg.Session.WorkDir),
		zap.String("conversation_file", store.Path()),
		zap.Int("history_messages", len(initial)))

	fmt.Println("CodeAgent started")
	err = a.Run(ctx, cli.NewPrompter(os.Stdin, os.Stdout, !interactive))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

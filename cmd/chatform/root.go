package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/chatform/internal/client"
	"github.com/GriffinCanCode/chatform/internal/domain/wizard"
	"github.com/GriffinCanCode/chatform/internal/infrastructure/logging"
	"github.com/GriffinCanCode/chatform/internal/tui"
)

type rootOptions struct {
	cfg      client.Config
	logLevel string
	plain    bool
}

func newRootCmd() *cobra.Command {
	cfg, err := client.LoadConfig()
	if err != nil {
		cfg = client.DefaultConfig()
	}
	opts := &rootOptions{cfg: cfg, logLevel: "info"}

	cmd := &cobra.Command{
		Use:           "chatform",
		Short:         "Compose guided chat requests from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.cfg.APIURL, "api-url", opts.cfg.APIURL, "chatform server base URL")
	flags.StringVar(&opts.cfg.Conversation, "conversation", opts.cfg.Conversation, "conversation to post into (created when empty)")
	flags.StringVar(&opts.cfg.Lang, "lang", opts.cfg.Lang, "message language (en, fr)")
	flags.StringVar(&opts.cfg.LogFile, "log-file", opts.cfg.LogFile, "log file path")
	flags.DurationVar(&opts.cfg.Timeout, "timeout", opts.cfg.Timeout, "per-request timeout")
	flags.StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.plain, "plain", false, "disable colors")

	return cmd
}

func run(ctx context.Context, opts *rootOptions) error {
	logger, err := logging.New(logging.FileConfig(opts.cfg.LogFile, opts.logLevel))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	labels := wizard.LabelsFor(opts.cfg.Lang)
	api := client.New(opts.cfg, logger.Component("client"))
	emitter := client.NewMessageEmitter(api, opts.cfg.Conversation, labels, logger.Component("emitter"))
	ctrl := wizard.NewController(api, emitter,
		wizard.WithLabels(labels),
		wizard.WithLogger(logger.Component("wizard")),
	)

	theme := tui.DefaultTheme()
	if opts.plain {
		theme = tui.PlainTheme()
	}

	logger.Info("starting wizard",
		zap.String("api_url", opts.cfg.APIURL),
		zap.String("conversation", opts.cfg.Conversation),
	)
	if err := tui.Run(ctx, ctrl, emitter, theme); err != nil {
		logger.Error("wizard failed", zap.Error(err))
		return err
	}
	logger.Info("wizard closed", zap.String("conversation", emitter.ConversationID()))
	return nil
}

func execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "chatform:", err)
		os.Exit(1)
	}
}

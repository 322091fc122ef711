package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/aguxez/nutrilog/agent"
	"github.com/aguxez/nutrilog/api"
	"github.com/aguxez/nutrilog/config"
	"github.com/aguxez/nutrilog/filewatch"
	"github.com/aguxez/nutrilog/logging"
	"github.com/aguxez/nutrilog/router"
	"github.com/aguxez/nutrilog/storage"
	"github.com/aguxez/nutrilog/store"
	"github.com/aguxez/nutrilog/ui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	st, err := storage.Open(cfg.StorageDriver, cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("opening session storage: %w", err)
	}
	defer st.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := api.New(api.Config{BaseURL: cfg.APIURL, Timeout: cfg.APITimeout, Logger: logger})
	users := store.NewUserStore(client, st, logger, store.WithProfileDelay(cfg.ProfileDelay))
	foods := store.NewFoodLogStore(client, users, logger)

	if err := users.Init(ctx); err != nil {
		logger.WithError(err).Warn("loading profile")
	}

	var advisor ui.Advisor
	if cfg.Advisor.Enabled() {
		llm, err := openai.New(
			openai.WithBaseURL(cfg.Advisor.BaseURL),
			openai.WithToken(cfg.Advisor.Token),
			openai.WithModel(cfg.Advisor.Model),
		)
		if err != nil {
			return fmt.Errorf("creating advisor model: %w", err)
		}
		advisor = agent.NewAdvisor(llm, foods, users, agent.WithLogger(logger))
	}

	model := ui.New(ctx, ui.Options{
		Router:  router.New(router.DefaultRoutes(), users),
		Users:   users,
		Foods:   foods,
		Advisor: advisor,
		Log:     logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	fw, err := startWatcher(ctx, cfg, logger, users, foods, p)
	if err != nil {
		return err
	}
	if fw != nil {
		defer fw.Close()
	}

	logger.WithFields(logrus.Fields{
		"api_url": client.BaseURL(),
		"storage": cfg.StorageDriver,
	}).Info("starting")

	if _, err := p.Run(); err != nil && !(errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil) {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// startWatcher sets up session reloads and inbox imports when configured. It
// returns nil when there is nothing to watch.
func startWatcher(ctx context.Context, cfg config.Config, log logrus.FieldLogger, users *store.UserStore, foods *store.FoodLogStore, p *tea.Program) (*filewatch.FileWatcher, error) {
	watchSession := cfg.WatchSession && cfg.StorageDriver != storage.DriverMemory
	if !watchSession && cfg.InboxDir == "" {
		return nil, nil
	}

	fw, err := filewatch.New(log)
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	if watchSession {
		err := fw.WatchSession(cfg.StoragePath, users, func() { p.Send(ui.SessionChangedMsg{}) })
		if err != nil {
			fw.Close()
			return nil, err
		}
	}
	if cfg.InboxDir != "" {
		err := fw.WatchInbox(cfg.InboxDir, foods, func(added int, err error) {
			p.Send(ui.ImportedMsg{Added: added, Err: err})
		})
		if err != nil {
			fw.Close()
			return nil, err
		}
	}

	go fw.Watch(ctx)
	go func() {
		if err := fw.ScanInbox(ctx); err != nil {
			log.WithError(err).Warn("scanning inbox")
		}
	}()
	return fw, nil
}

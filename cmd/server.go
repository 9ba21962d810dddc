package cmd

import (
	"context"
	"log"
	httpNet "net/http"
	"os"
	"os/signal"
	"syscall"

	"harsi-trading-bot/internal/conversation"
	"harsi-trading-bot/internal/delivery/http"
	"harsi-trading-bot/internal/delivery/telegram"
	"harsi-trading-bot/internal/repository"
	"harsi-trading-bot/internal/scheduler"
	"harsi-trading-bot/internal/service"
	"harsi-trading-bot/internal/wizard"

	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run harsi-trading-bot",
	Run:   Start,
}

func Start(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}

	repo, err := repository.NewRepository(appDep.cfg, appDep.db.DB, appDep.log)
	if err != nil {
		log.Fatalf("Failed to create repository: %v", err)
	}

	services := service.NewService(appDep.cfg, appDep.log, repo, appDep.cache)

	convStore := conversation.NewStore(appDep.cache)
	wiz := wizard.New(appDep.log, convStore, repo.OrderRepo, repo.TrendSurveyRepo)

	httpHandler := http.NewHttpAPIHandler(ctx, appDep.echo, appDep.validator, services)

	telegramHandler := telegram.NewTelegramBotHandler(
		ctx,
		appDep.cfg,
		appDep.log,
		appDep.telegramBot,
		appDep.telegram,
		appDep.echo,
		services,
		wiz,
	)

	notifier := scheduler.New(appDep.cfg, appDep.log, services, appDep.telegram)

	apiServer := NewHTTPServer(ctx, appDep, httpHandler)
	go func() {
		if err := apiServer.Start(); err != nil && err != httpNet.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	go func() {
		telegramHandler.Start()
	}()

	appDep.telegram.StartCleanupExpired(ctx)

	if err := notifier.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	<-ctx.Done()
	log.Println("Shutting down gracefully...")

	notifier.Stop()
	telegramHandler.Stop()
	appDep.telegram.StopCleanupExpired()

	if err := apiServer.Stop(); err != nil {
		log.Fatalf("Failed to stop HTTP server: %v", err)
	}

	if err := appDep.Close(); err != nil {
		log.Fatalf("Failed to close app dependency: %v", err)
	}
}

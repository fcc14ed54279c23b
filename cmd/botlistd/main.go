package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/botlistbot/botlistd/internal/biz/repo"
	"github.com/botlistbot/botlistd/internal/biz/usecase"
	"github.com/botlistbot/botlistd/internal/conf"
	"github.com/botlistbot/botlistd/internal/data"
	"github.com/botlistbot/botlistd/internal/infra/userbot"
	"github.com/botlistbot/botlistd/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := conf.LoadFromEnv()
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	lists, err := conf.LoadCheckerLists(config.Checker.ListsPath)
	if err != nil {
		log.Fatalf("Failed to load checker config: %v", err)
	}

	repos, err := data.NewRepositories(config.Checker.DBPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer repos.Close()

	notifier, err := data.NewTelegramNotifier(config.Telegram.BotToken)
	if err != nil {
		log.Fatalf("Failed to create notifier: %v", err)
	}

	if err := os.MkdirAll(config.Checker.PhotoDir, 0755); err != nil {
		log.Fatalf("Failed to create photo directory: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	probe, wait := buildProbeClient(ctx, config, lists)

	classifier, err := usecase.NewClassifier(lists.OfflinePatterns)
	if err != nil {
		log.Fatalf("Failed to build classifier: %v", err)
	}
	extractor, err := usecase.NewKeywordExtractor(
		repos.Keywords,
		notifier,
		config.Telegram.NotificationsChatID,
		lists.BotBuilderPatterns,
		lists.ForbiddenKeywords,
	)
	if err != nil {
		log.Fatalf("Failed to build keyword extractor: %v", err)
	}
	reconciler := usecase.NewReconciler(
		repos.Bots,
		notifier,
		config.Telegram.NotificationsChatID,
		config.Checker.OfflineGrace,
		config.Checker.DisableAfter,
	)
	checker := usecase.NewChecker(repos.Bots, probe, notifier, classifier, reconciler, extractor, usecase.CheckerConfig{
		Concurrency:                 config.Checker.Concurrency,
		ProbeTimeout:                config.Checker.ProbeTimeout,
		DownloadProfilePhotos:       config.Checker.DownloadProfilePhotos,
		NotifyNewProfilePhoto:       config.Checker.NotifyNewProfilePhoto,
		DeleteConversationAfterPing: config.Checker.DeleteConversationAfterPing,
		CleanupDelay:                10 * time.Second,
		PhotoDir:                    config.Checker.PhotoDir,
		NotifyChatID:                config.Telegram.NotificationsChatID,
		ModerationChatID:            config.Telegram.ModerationChatID,
	})

	svc := service.NewCheckerService(repos.Bots, checker, notifier, config.Telegram.NotificationsChatID)
	scheduler := service.NewScheduler(svc, config.Checker.SweepInterval, config.Checker.StartupDelay)

	if wait != nil {
		select {
		case <-wait:
		case <-time.After(2 * time.Minute):
			log.Fatal("Userbot client did not become ready in time")
		}
	}

	if err := scheduler.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("\nShutting down...")
	scheduler.Stop()
	cancel()
}

// buildProbeClient wires the MTProto userbot when credentials are
// present, or the limited-mode fallback when they are not. The returned
// channel (if any) closes once the client can serve probes.
func buildProbeClient(ctx context.Context, config *conf.Config, lists *conf.CheckerLists) (repo.ProbeClient, <-chan struct{}) {
	if !config.UserBotConfigured() {
		fmt.Println("[UserBot] API credentials not set, checker running in limited mode")
		return userbot.Disabled{}, nil
	}

	client := userbot.New(userbot.Config{
		APIID:         config.UserBot.APIID,
		APIHash:       config.UserBot.APIHash,
		PhoneNumber:   config.UserBot.PhoneNumber,
		SessionFile:   config.UserBot.SessionFile,
		PingMessages:  lists.PingMessages,
		InlineQueries: lists.InlineQueries,
	}, userbot.NewFloodGate(), userbot.NewPhotoStore())

	ready := make(chan struct{})
	go func() {
		if err := client.Run(ctx, func() { close(ready) }); err != nil && ctx.Err() == nil {
			log.Fatalf("Userbot client error: %v", err)
		}
	}()
	return client, ready
}

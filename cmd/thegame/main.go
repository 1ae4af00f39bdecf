package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fadedpez/thegame/internal/config"
	"github.com/fadedpez/thegame/internal/logging"
	"github.com/fadedpez/thegame/pkg/games/thegame"
	"github.com/fadedpez/thegame/pkg/history"
	"github.com/fadedpez/thegame/pkg/repositories/game"
	"github.com/fadedpez/thegame/pkg/scheduler"
	"github.com/fadedpez/thegame/pkg/services/statistics"
	"github.com/fadedpez/thegame/pkg/textui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Level())
	logger.SetOutput(os.Stderr)

	boardCmd := flag.NewFlagSet("leaderboard", flag.ExitOnError)
	page := boardCmd.Int("page", 1, "Page to show")
	perPage := boardCmd.Int("per-page", 10, "Players per page")

	recentCmd := flag.NewFlagSet("recent", flag.ExitOnError)
	limit := recentCmd.Int("limit", 10, "Number of games to show")

	ctx := context.Background()

	repo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize result storage: %v", err)
		os.Exit(1)
	}
	defer repo.Close()

	stats := statistics.NewService(repo)

	command := "play"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "play":
		err = play(ctx, cfg, logger, repo, stats)

	case "leaderboard":
		boardCmd.Parse(os.Args[2:])
		var board *statistics.Leaderboard
		if board, err = stats.GetLeaderboard(ctx, *page, *perPage); err == nil {
			err = textui.RenderLeaderboard(os.Stdout, board)
		}

	case "recent":
		recentCmd.Parse(os.Args[2:])
		if results, rerr := stats.GetRecent(ctx, *limit); rerr != nil {
			err = rerr
		} else {
			err = textui.RenderResults(os.Stdout, results)
		}

	case "help":
		printUsage()

	default:
		fmt.Printf("Error: Unknown command '%s'\n\n", command)
		printUsage()
		repo.Close()
		os.Exit(1)
	}

	if err != nil {
		logger.LogError(err)
		repo.Close()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  thegame [play]                          - Play a game in the terminal")
	fmt.Println("  thegame leaderboard [-page N] [-per-page N]  - Show the leaderboard")
	fmt.Println("  thegame recent [-limit N]               - Show the latest finished games")
	fmt.Println("  thegame help                            - Show this help")
}

func play(ctx context.Context, cfg *config.Config, logger *logging.Logger, repo game.Repository, stats *statistics.Service) error {
	publisher, err := openPublisher(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	manager := thegame.NewManager(repo, publisher, logger)

	maintenance := scheduler.NewScheduler(logger)
	if cfg.IdleTimeout > 0 {
		maintenance.AddIdleGamesTask(manager, cfg.IdleTimeout, cfg.SweepInterval)
	}
	if pruner, ok := repo.(scheduler.IndexPruner); ok && cfg.ESRetentionMonths > 0 {
		maintenance.AddIndexRetentionTask(pruner, cfg.ESRetentionMonths)
	}
	maintenance.Start(ctx)
	defer maintenance.Stop()

	// An interrupted game still counts as played
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		logger.Info("Shutting down...")
		maintenance.Stop()
		for _, id := range manager.ActiveGames() {
			if _, err := manager.Abandon(ctx, id); err != nil {
				logger.Warn("Failed to abandon game %s: %v", id, err)
			}
		}
		publisher.Close()
		repo.Close()
		os.Exit(130)
	}()

	session := textui.NewSession(manager, stats, logger, cfg.PlayerID, cfg.Rules(), os.Stdin, os.Stdout)
	_, err = session.Run(ctx)
	return err
}

func openRepository(ctx context.Context, cfg *config.Config, logger *logging.Logger) (game.Repository, error) {
	switch cfg.StorageType {
	case config.StorageSQLite:
		path := cfg.SQLitePath()
		logger.Info("Initializing SQLite repository at %s", path)
		return game.NewSQLiteRepository(path)

	case config.StoragePostgres:
		logger.Info("Initializing PostgreSQL repository")
		return game.NewPostgresRepository(ctx, cfg.DatabaseURL)

	case config.StorageElasticsearch:
		logger.Info("Initializing Elasticsearch repository at %s", cfg.ESURL)
		return game.NewElasticsearchRepository(nil, &game.ElasticsearchConfig{
			URL:         cfg.ESURL,
			Username:    cfg.ESUsername,
			Password:    cfg.ESPassword,
			IndexPrefix: cfg.ESIndexPrefix,
		})

	default:
		logger.Info("Using in-memory repository for game results (data will be lost on exit)")
		return game.NewMemoryRepository(), nil
	}
}

func openPublisher(ctx context.Context, cfg *config.Config, logger *logging.Logger) (history.Publisher, error) {
	if cfg.HistoryType == config.HistoryRedis {
		logger.Info("Publishing action history to redis %s, queue %s", cfg.RedisAddr, cfg.HistoryQueue)
		return history.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.HistoryQueue)
	}
	return history.NewMemoryPublisher(), nil
}

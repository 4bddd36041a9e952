package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	aibot "github.com/domino14/slide2048/ai/bot"
	"github.com/domino14/slide2048/analyzer"
	"github.com/domino14/slide2048/config"
	"github.com/domino14/slide2048/stats"
)

func main() {
	// Determine the directory of the executable. We will use this
	// directory to find the data files if an absolute path is not
	// provided for these!
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("could-not-load-config")
	}
	cfg.AdjustRelativePaths(exPath)

	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	path := filepath.Join(cfg.GetString(config.ConfigDataPath), "positions.yaml")
	if len(cfg.Args()) > 0 {
		path = cfg.Args()[0]
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	player, err := aibot.NewBotPlayer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-create-bot")
	}
	an := analyzer.NewAnalyzer(player, cfg.GetInt(config.ConfigAnalyzeThreads))
	br, err := an.AnalyzeFile(ctx, path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("analysis-failed")
	}
	fmt.Print(br.Summary())

	var times []float64
	for _, r := range br.Results {
		if r.Decision != nil {
			times = append(times, float64(r.Decision.ElapsedMS))
		}
	}
	if len(times) > 1 {
		fmt.Println("\nSearch time (ms):")
		if err := stats.Histogram(os.Stdout, times, 10); err != nil {
			log.Err(err).Msg("histogram-failed")
		}
	}
	if br.Failed > 0 {
		os.Exit(1)
	}
}

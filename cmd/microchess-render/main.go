// microchess-render writes one PNG frame per ply of a stored game.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/hailam/microchess/internal/config"
	"github.com/hailam/microchess/internal/render"
	"github.com/hailam/microchess/internal/storage"
)

var (
	configPath = flag.String("config", "", "path to a YAML config file")
	gameID     = flag.String("game", "", "id of the stored game to render")
	outDir     = flag.String("out", "", "output directory (default: the data dir frames folder)")
	squareSize = flag.Int("size", 64, "square size in pixels")
	list       = flag.String("list", "", "list stored game ids with this prefix and exit")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()

	store, err := storage.Open(cfg.Storage.Dir)
	if err != nil {
		logger.Fatal("open storage", zap.Error(err))
	}
	defer store.Close()

	if *list != "" || *gameID == "" {
		ids, err := store.ListGames(*list)
		if err != nil {
			logger.Fatal("list games", zap.Error(err))
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return
	}

	game, err := store.LoadGame(*gameID)
	if err != nil {
		logger.Fatal("load game", zap.String("id", *gameID), zap.Error(err))
	}

	r, err := render.NewRenderer(*squareSize)
	if err != nil {
		logger.Fatal("create renderer", zap.Error(err))
	}
	paths, err := r.WriteGame(game, *outDir)
	if err != nil {
		logger.Fatal("render game", zap.Error(err))
	}
	logger.Info("frames written", zap.String("id", game.ID), zap.Int("frames", len(paths)))
}

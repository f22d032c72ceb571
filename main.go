// MicroChess - plays matches between 5x4 microchess agents
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/hailam/microchess/internal/config"
	"github.com/hailam/microchess/internal/match"
	"github.com/hailam/microchess/internal/storage"
)

var (
	configPath = flag.String("config", "", "path to a YAML config file")
	agentA     = flag.String("a", "", "agent A kind (overrides agent.kind)")
	agentB     = flag.String("b", "", "agent B kind (overrides match.opponent.kind)")
	games      = flag.Int("games", 0, "number of games (overrides match.games)")
	parallel   = flag.Int("parallel", 0, "games played concurrently (overrides match.parallel)")
	save       = flag.Bool("save", false, "store game logs and cumulative stats")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	applyFlags(cfg)

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("match failed", zap.Error(err))
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config) {
	if *agentA != "" {
		cfg.Agent = config.AgentConfig{Kind: *agentA}
	}
	if *agentB != "" {
		cfg.Match.Opponent = config.AgentConfig{Kind: *agentB}
	}
	if *games > 0 {
		cfg.Match.Games = *games
	}
	if *parallel > 0 {
		cfg.Match.Parallel = *parallel
	}
	if *save {
		cfg.Match.Save = true
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	opts := []match.Option{
		match.WithParallel(cfg.Match.Parallel),
		match.WithMaxPlies(cfg.Match.MaxPlies),
		match.WithLogger(logger),
	}

	if cfg.Match.Save {
		var store *storage.Store
		var err error
		if cfg.Storage.InMemory {
			store, err = storage.OpenInMemory()
		} else {
			store, err = storage.Open(cfg.Storage.Dir)
		}
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, match.WithStore(store))
	}

	runner := match.NewRunner(opts...)
	report, err := runner.Play(ctx,
		match.ConfigFactory(cfg.Agent, logger),
		match.ConfigFactory(cfg.Match.Opponent, logger),
		cfg.Match.Games,
	)
	if err != nil {
		return err
	}

	printReport(report, cfg.Match)
	return nil
}

func printReport(report *match.Report, mc config.MatchConfig) {
	st := report.Stats
	fmt.Printf("Run %s: %d games, %d draws, average length %.1f moves\n",
		report.RunID, st.Games, st.Draws, st.AverageMoves())

	for _, rec := range []*storage.AgentRecord{&st.A, &st.B} {
		fmt.Printf("  %-10s wins %3d (white %3d, black %3d)  forfeits %d  moves %5d  avg %v\n",
			rec.Name, rec.Wins(), rec.WinsAsWhite, rec.WinsAsBlack, rec.Forfeits, rec.Moves, rec.AverageTime())
	}

	verdict := "FAIL"
	if st.Pass(mc.PassScore) {
		verdict = "PASS"
	}
	fmt.Printf("Score %d (threshold %d): %s\n", st.Score(), mc.PassScore, verdict)

	if report.OverBudget(mc.TimeBudget) {
		fmt.Printf("Warning: %s averaged %v per move, over the %v budget\n",
			st.A.Name, st.A.AverageTime(), mc.TimeBudget)
	}
}

package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/hailam/microchess/internal/config"
	"github.com/hailam/microchess/internal/uci"
)

var (
	configPath = flag.String("config", "", "path to a YAML config file")
	agentKind  = flag.String("agent", "", "agent kind (overrides agent.kind)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *agentKind != "" {
		cfg.Agent = config.AgentConfig{Kind: *agentKind}
	}

	// Stdout carries the protocol, so logs go to stderr only.
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()

	protocol, err := uci.New(cfg.Agent, logger, os.Stdout)
	if err != nil {
		logger.Fatal("create agent", zap.Error(err))
	}
	if err := protocol.Run(os.Stdin); err != nil {
		logger.Fatal("read input", zap.Error(err))
	}
}

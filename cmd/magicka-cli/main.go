package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/peterkuimelis/magicka/internal/config"
	magickanet "github.com/peterkuimelis/magicka/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "play":
		err = runPlay(ctx, os.Args[2:])
	case "host":
		err = runHost(ctx, os.Args[2:])
	case "join":
		err = runJoin(ctx, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  magicka play [--balance FILE] [--seed N] [--events FILE]")
	fmt.Println("  magicka host [--balance FILE] [--seed N] [--addr ADDR] [--max-runs N]")
	fmt.Println("  magicka join [--addr ADDR] [--name NAME]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  play    Play a run in this terminal")
	fmt.Println("  host    Serve runs to players who join over TCP")
	fmt.Println("  join    Connect to a host and play a run")
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func runPlay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	balanceFile := fs.String("balance", "balance.yaml", "path to balance file (defaults when missing)")
	seed := fs.Uint64("seed", 0, "RNG seed (0 for random)")
	events := fs.String("events", "", "append the event log to this file")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)
	setupLogging(*verbose)

	b, err := config.Load(*balanceFile)
	if err != nil {
		return err
	}
	srv := &magickanet.Server{Balance: b, Seed: *seed}
	if *events != "" {
		f, err := os.OpenFile(*events, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
		defer f.Close()
		srv.EventLog = f
	}
	return srv.Play(ctx)
}

func runHost(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("host", flag.ExitOnError)
	balanceFile := fs.String("balance", "balance.yaml", "path to balance file (defaults when missing)")
	seed := fs.Uint64("seed", 0, "RNG seed for every run (0 for random)")
	addr := fs.String("addr", ":9000", "TCP address to listen on")
	maxRuns := fs.Int("max-runs", magickanet.DefaultMaxRuns, "runs played at once")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)
	setupLogging(*verbose)

	b, err := config.Load(*balanceFile)
	if err != nil {
		return err
	}
	srv := &magickanet.Server{
		Addr:    *addr,
		Balance: b,
		Seed:    *seed,
		MaxRuns: *maxRuns,
	}
	return srv.Host(ctx)
}

func runJoin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	addr := fs.String("addr", "localhost:9000", "server address to connect to")
	name := fs.String("name", os.Getenv("USER"), "player name shown in the host's log")
	fs.Parse(args)
	setupLogging(false)

	return magickanet.Connect(ctx, *addr, *name)
}

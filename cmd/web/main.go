package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/time/rate"

	"github.com/peterkuimelis/magicka/internal/config"
	"github.com/peterkuimelis/magicka/internal/web"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port to listen on")
	gameAddr := flag.String("game", "localhost:9000", "address of the magicka host server runs are played on")
	artDir := flag.String("art", "", "directory of card and enemy art served under /art/")
	balanceFile := flag.String("balance", "balance.yaml", "balance file described by /api/balance")
	keyRate := flag.Float64("key-rate", float64(web.DefaultKeyRate), "browser keys accepted per second")
	flag.Parse()

	b, err := config.Load(*balanceFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	srv := web.NewServer(web.Options{
		Balance:  b,
		GameAddr: *gameAddr,
		ArtDir:   *artDir,
		KeyRate:  rate.Limit(*keyRate),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	addr := fmt.Sprintf(":%d", *port)
	slog.Info("magicka web UI listening", "url", fmt.Sprintf("http://localhost:%d", *port), "game", *gameAddr)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

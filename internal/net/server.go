package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/peterkuimelis/magicka/internal/config"
	"github.com/peterkuimelis/magicka/internal/game"
	"github.com/peterkuimelis/magicka/internal/log"
)

// DefaultMaxRuns caps how many runs a host plays at once.
const DefaultMaxRuns = 16

// Server plays runs for TCP clients, one independent run per connection.
type Server struct {
	Addr     string
	Balance  config.Balance
	Seed     uint64    // 0 for a random seed per run
	EventLog io.Writer // human-readable event log, nil to keep events in memory only
	MaxRuns  int       // concurrent runs when hosting (0 = DefaultMaxRuns)
}

// Host listens on Addr and plays a run for every client that joins, until
// ctx is cancelled.
func (s *Server) Host(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	slog.Info("hosting runs", "addr", ln.Addr().String())

	limit := s.MaxRuns
	if limit <= 0 {
		limit = DefaultMaxRuns
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit + 1) // the accept loop holds one slot

	g.Go(func() error {
		<-gctx.Done()
		return ln.Close()
	})

	for {
		conn, err := ln.Accept()
		if err != nil {
			if gctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			slog.Warn("accept failed", "error", err)
			continue
		}
		g.Go(func() error {
			defer conn.Close()
			if err := s.serve(gctx, conn); err != nil {
				slog.Warn("run ended with error", "remote", conn.RemoteAddr().String(), "error", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// serve reads the join handshake and plays one run on conn.
func (s *Server) serve(ctx context.Context, conn net.Conn) error {
	var join ClientMessage
	if err := json.NewDecoder(conn).Decode(&join); err != nil {
		return fmt.Errorf("read join message: %w", err)
	}
	if join.Type != "join" {
		return fmt.Errorf("expected join message, got %q", join.Type)
	}
	slog.Info("player joined", "remote", conn.RemoteAddr().String(), "name", join.Name)
	return s.runGame(ctx, NewNetworkController(conn))
}

// Play runs a local game with a terminal REPL on stdin/stdout.
func (s *Server) Play(ctx context.Context) error {
	return s.PlayWith(ctx, os.Stdin, os.Stdout)
}

// PlayWith runs a local game whose REPL reads keys from in and draws on out.
// The game and the REPL talk over an in-memory pipe.
func (s *Server) PlayWith(ctx context.Context, in io.Reader, out io.Writer) error {
	clientConn, serverConn := net.Pipe()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer serverConn.Close()
		return s.runGame(gctx, NewNetworkController(serverConn))
	})
	g.Go(func() error {
		defer clientConn.Close()
		client := NewClient(clientConn, in, out)
		return client.RunREPL(gctx)
	})
	return g.Wait()
}

// runGame plays one run to completion and tells the client it is over.
func (s *Server) runGame(ctx context.Context, ctrl *NetworkController) error {
	var logger log.EventLogger = log.NewMemoryLogger()
	if s.EventLog != nil {
		logger = log.NewTextLogger(s.EventLog)
	}
	balance := s.Balance
	g, err := game.NewGame(game.Config{
		Balance: &balance,
		Logger:  logger,
		Seed:    s.Seed,
	}, ctrl)
	if err != nil {
		return err
	}

	runErr := g.Run(ctx)
	result := fmt.Sprintf("Run closed on the %s screen", g.Mode)
	if runErr != nil {
		result = fmt.Sprintf("Run aborted: %v", runErr)
	}
	if err := ctrl.SendGameOver(g.Session().RunID, result); err != nil && runErr == nil {
		return fmt.Errorf("send game_over: %w", err)
	}
	return runErr
}

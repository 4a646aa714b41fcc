// Command faceinspect prints recorded learning sessions from a journal
// database: without arguments it lists sessions, with a session ID it
// prints the run's locks and score trajectory.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"

	"github.com/morholt/facelearner/internal/session"
)

type config struct {
	DBPath string `env:"FACELEARN_DB" envDefault:"data/facelearn.db"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("parse env", "error", err)
		os.Exit(1)
	}

	db, err := session.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open journal", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}
	defer db.Close()

	if len(os.Args) > 1 {
		inspectSession(db, os.Args[1])
		return
	}
	listSessions(db)
}

func listSessions(db *session.DB) {
	sessions, err := db.Sessions()
	if err != nil {
		slog.Error("failed to list sessions", "error", err)
		os.Exit(1)
	}
	if len(sessions) == 0 {
		fmt.Println("no sessions recorded")
		return
	}
	for _, s := range sessions {
		fmt.Printf("%s  seed=%-6d  %-16s  best=%.4f  %s\n",
			s.ID, s.Seed, s.Status, s.BestScore, s.CreatedAt)
	}
}

func inspectSession(db *session.DB, id string) {
	s, err := db.Session(id)
	if err != nil {
		slog.Error("failed to load session", "error", err)
		os.Exit(1)
	}

	fmt.Printf("session %s\n", s.ID)
	fmt.Printf("  seed:       %d\n", s.Seed)
	fmt.Printf("  created:    %s\n", s.CreatedAt)
	fmt.Printf("  status:     %s\n", s.Status)
	fmt.Printf("  best score: %.4f\n", s.BestScore)

	locks, err := db.Locks(id)
	if err != nil {
		slog.Error("failed to load locks", "error", err)
		os.Exit(1)
	}
	fmt.Printf("\nlocks (%d):\n", len(locks))
	for _, l := range locks {
		fmt.Printf("  iter %-6d %-14s best=%.4f variation=%.2f\n",
			l.Iter, l.SubPhase, l.BestScore, l.Variation)
	}

	iters, err := db.Iterations(id)
	if err != nil {
		slog.Error("failed to load iterations", "error", err)
		os.Exit(1)
	}
	fmt.Printf("\niterations: %d\n", len(iters))

	// Print the trajectory at phase-transition granularity: the first
	// iteration of every (sub-phase, strategy) stretch.
	lastKey := ""
	for _, it := range iters {
		key := it.SubPhase + "/" + it.OptPhase
		if key == lastKey {
			continue
		}
		lastKey = key
		fmt.Printf("  iter %-6d %-14s %-14s %-15s sub=%.4f total=%.4f\n",
			it.Iter, it.MainPhase, it.SubPhase, it.OptPhase, it.SubScore, it.Total)
	}
}

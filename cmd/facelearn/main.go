// Command facelearn runs a face-learning session against the synthetic
// rig: it draws a random target face, then iterates the hierarchical
// optimizer until the phase controller completes, journaling every step.
package main

import (
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/morholt/facelearner/internal/morph"
	"github.com/morholt/facelearner/internal/optimizer"
	"github.com/morholt/facelearner/internal/phase"
	"github.com/morholt/facelearner/internal/session"
	"github.com/morholt/facelearner/internal/synth"
)

type config struct {
	Seed     int64  `env:"FACELEARN_SEED" envDefault:"42"`
	DBPath   string `env:"FACELEARN_DB" envDefault:"data/facelearn.db"`
	MaxIters int    `env:"FACELEARN_MAX_ITERS" envDefault:"5000"`
	LogLevel string `env:"FACELEARN_LOG_LEVEL" envDefault:"info"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("parse env", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("facelearn session", "seed", cfg.Seed, "db", cfg.DBPath)

	os.MkdirAll(filepath.Dir(cfg.DBPath), 0755)
	db, err := session.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open journal", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// The rig stands in for the engine's apply → render → detect round
	// trip. Targets are drawn from the same rig so they are reachable.
	rig := synth.NewRig(cfg.Seed)
	targetRNG := rand.New(rand.NewSource(cfg.Seed + 1))
	targetMorphs := synth.RandomMorphs(targetRNG)
	targetLandmarks := rig.Render(targetMorphs)

	sessionID, err := db.CreateSession(cfg.Seed, targetMorphs)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		os.Exit(1)
	}
	slog.Info("session created", "id", sessionID)

	optCfg := optimizer.DefaultConfig(cfg.Seed)
	opt := optimizer.New(optCfg)
	opt.Initialize(morph.MidpointVector(optCfg.Ranges))
	opt.SetTarget(targetLandmarks)

	iter := 0
	opt.OnSubPhaseComplete = func(res phase.SubPhaseResult) {
		slog.Info("sub-phase locked",
			"main", res.Main, "sub", res.Sub,
			"best", res.BestScore, "variation", res.Variation)
		if err := db.RecordLock(sessionID, iter, res.Sub.String(), res.BestScore, res.Variation, res.BestMorphs); err != nil {
			slog.Warn("failed to record lock", "error", err)
		}
	}

	vec := morph.MidpointVector(optCfg.Ranges)
	status := "budget_exhausted"

	for iter = 1; iter <= cfg.MaxIters; iter++ {
		landmarks := rig.Render(morph.ClampToRanges(vec, optCfg.Ranges))
		res := opt.Iterate(landmarks)

		main, sub, strat := opt.Current()
		rec := session.Iteration{
			SessionID: sessionID,
			Iter:      iter,
			MainPhase: main.String(),
			SubPhase:  sub.String(),
			OptPhase:  strat.String(),
			SubScore:  res.SubPhaseScore,
			Total:     res.Score.Total,
			Action:    res.Action.String(),
		}
		if err := db.RecordIteration(rec); err != nil {
			slog.Warn("failed to record iteration", "error", err)
		}

		if res.Action == phase.ActionComplete {
			status = "complete"
			break
		}
		if res.Next == nil {
			break
		}
		vec = res.Next
	}

	best := opt.BestMorphs()
	if err := db.FinishSession(sessionID, status, opt.BestScore(), best); err != nil {
		slog.Warn("failed to finish session", "error", err)
	}

	slog.Info("session finished",
		"id", sessionID,
		"status", status,
		"iterations", iter,
		"best_score", opt.BestScore())
}

// Package main - Entry point for the premium quoting server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"wc-rating/adapters/planfile"
	"wc-rating/api"
	"wc-rating/core/rating"
	"wc-rating/internal/config"
	"wc-rating/internal/logging"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", config.DefaultPath(), "config file")
	addr := flag.String("addr", "", "server address (default from config)")
	planName := flag.String("plan", "", "built-in rating plan")
	planFile := flag.String("plan-file", "", "rating plan file")
	flag.Parse()

	if err := run(*cfgPath, *addr, *planName, *planFile); err != nil {
		fmt.Fprintf(os.Stderr, "wc-rating server: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath, addr, planName, planFile string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()
	cfg.Rating = cfg.Rating.WithFlags(planName, planFile)
	if err := logging.Initialize(logging.ForServer(cfg.Logging)); err != nil {
		return err
	}
	defer logging.Sync()
	logging.Sugar.Debugf("config %s, plan %q, plan file %q", cfgPath, cfg.Rating.Plan, cfg.Rating.PlanFile)

	if addr == "" {
		addr = cfg.Server.Addr
	}

	var plan *rating.Plan
	if cfg.Rating.PlanFile != "" {
		plan, err = planfile.Load(cfg.Rating.PlanFile)
	} else {
		plan, err = rating.Preset(cfg.Rating.Plan)
	}
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Workers' Compensation Rating Server v%s\n", version)
	fmt.Printf("   API: http://localhost%s\n", addr)
	fmt.Printf("   Plan: %s\n\n", plan.Name())

	return api.NewServer(version, plan, logging.Named("api")).ListenAndServe(ctx, addr)
}

// Command score prints the credit report for one wallet as JSON.
//
//	score [-config path] [-mock] <address>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"WalletScore/internal/assessment"
	"WalletScore/internal/collector"
	"WalletScore/internal/config"
	"WalletScore/internal/pipeline"
	"WalletScore/internal/scoring"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stderr)

	cfgPath := flag.String("config", "configs/config.yaml", "path to the YAML config")
	mock := flag.Bool("mock", false, "use built-in demo data instead of upstream APIs")
	scoreOnly := flag.Bool("score-only", false, "print only the canonical score result")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: score [-config path] [-mock] [-score-only] <address>")
		os.Exit(2)
	}
	wallet := flag.Arg(0)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if *mock {
		cfg.DataSource = config.SourceMock
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	oracle := cfg.Oracle()
	pipe := pipeline.New(
		collector.NewFromConfig(cfg, nil),
		assessment.New(oracle, cfg.Scoring.RepaymentMatch),
		scoring.New(oracle),
		nil, nil,
	)

	report, err := pipe.Run(ctx, wallet)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	var out any = report
	if *scoreOnly {
		out = report.Score
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("[FATAL] encode report: %v", err)
	}
}

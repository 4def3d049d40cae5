// File: cmd/watch/main.go
//
// watch triggers the ingestion workflow for a company and polls the backend
// until parsing completes, expires, or times out:
//
//	watch -server http://localhost:3000 -url https://acme.io -category "CRM software"
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketing-automation/internal/config"
	"marketing-automation/internal/infra/adapters/statusapi"
	"marketing-automation/internal/infra/logging"
	"marketing-automation/internal/infra/sched"
)

func main() {
	serverURL := flag.String("server", "http://localhost:3000", "backend base URL")
	companyURL := flag.String("url", "", "company URL to ingest")
	category := flag.String("category", "", "product category")
	kbPath := flag.String("kb", "", "optional knowledge-base text file")
	configPath := flag.String("config", "", "server config file; polling cadence is read from its polling section")
	timeout := flag.Duration("timeout", 0, "override the polling timeout")
	flag.Parse()

	if *companyURL == "" || *category == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := logging.New(config.LogConfig{Level: "info", Format: "console"}, true)

	polling := config.DefaultPollingConfig()
	if *configPath != "" {
		cfg, err := config.LoadConfig(*configPath, true)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		polling = cfg.Polling
	}
	if *timeout > 0 {
		polling.Timeout = *timeout
	}

	var knowledgebase string
	if *kbPath != "" {
		b, err := os.ReadFile(*kbPath)
		if err != nil {
			log.Fatalf("read knowledge base: %v", err)
		}
		knowledgebase = string(b)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		cancel()
	}()

	client, err := statusapi.NewClient(*serverURL, 30*time.Second)
	if err != nil {
		log.Fatalf("client: %v", err)
	}

	triggered, err := client.Trigger(ctx, *companyURL, *category, knowledgebase)
	if err != nil {
		log.Fatalf("trigger workflow: %v", err)
	}
	logger.Info().
		Str("session_id", triggered.SessionID).
		Str("fallback_id", triggered.FallbackID).
		Msg("workflow triggered, polling for completion")

	done := make(chan int, 1)
	poller := sched.NewStatusPoller(client, sched.Config{
		PollInterval:    polling.Interval,
		RotateInterval:  polling.RotateInterval,
		Timeout:         polling.Timeout,
		CompletionDelay: polling.CompletionDelay,
	}, sched.Handlers{
		Message: func(msg string) {
			fmt.Println(msg)
		},
		Ready: func() {
			fmt.Println("Parsing completed! Chat is ready.")
			done <- 0
		},
		Expired: func() {
			fmt.Println("Parsing status expired. Please try again.")
			done <- 1
		},
		TimedOut: func() {
			fmt.Println("Parsing is taking longer than expected. You can proceed to chat anyway.")
			done <- 0
		},
	}, logger)

	poller.Start(ctx, triggered.SessionID, triggered.FallbackID)

	var code int
	select {
	case code = <-done:
	case <-ctx.Done():
		fmt.Println("Interrupted.")
		code = 1
	}
	poller.Stop()
	os.Exit(code)
}

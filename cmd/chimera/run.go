package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/chimera-labs/chimera/pkg/agents/analysis"
	"github.com/chimera-labs/chimera/pkg/agents/factcheck"
	"github.com/chimera-labs/chimera/pkg/agents/followup"
	"github.com/chimera-labs/chimera/pkg/agents/monitoring"
	"github.com/chimera-labs/chimera/pkg/agents/narrative"
	"github.com/chimera-labs/chimera/pkg/agents/query"
	"github.com/chimera-labs/chimera/pkg/agents/retrieval"
	"github.com/chimera-labs/chimera/pkg/alert"
	"github.com/chimera-labs/chimera/pkg/broker"
	"github.com/chimera-labs/chimera/pkg/log"
	"github.com/chimera-labs/chimera/pkg/metrics"
	"github.com/chimera-labs/chimera/pkg/notify"
	"github.com/chimera-labs/chimera/pkg/resilience"
	"github.com/chimera-labs/chimera/pkg/scheduler"
	"github.com/chimera-labs/chimera/pkg/session"
	"github.com/chimera-labs/chimera/pkg/state"
	"github.com/chimera-labs/chimera/pkg/types"
)

// runnable is the subset of pkg/agents/* every collaborator satisfies.
type runnable interface {
	Run(ctx context.Context) error
}

var runCmd = &cobra.Command{
	Use:   "run <agent>",
	Short: "Run one collaborator agent (query, data_retrieval, analysis, narrative, fact_check, followup, monitoring)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpAddr, _ := cmd.Flags().GetString("http-addr")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		return runAgent(args[0], httpAddr, dataDir)
	},
}

func init() {
	runCmd.Flags().String("http-addr", ":8080", "address to serve /health, /ready, /live, /metrics on")
	runCmd.Flags().String("data-dir", "./data", "directory for the bbolt alert-rule store")
}

func runAgent(name, httpAddr, dataDir string) error {
	cfg, err := types.LoadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	conn := broker.NewConnectionManager(*cfg)
	if err := conn.Connect(ctx); err != nil {
		return err
	}
	channels := broker.NewChannelManager(conn)

	sched := scheduler.New()
	defer sched.StopAll()

	agent, err := buildAgent(name, channels, cfg, dataDir, sched)
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: httpAddr, Handler: httpMux()}
	go func() {
		log.WithComponent(name).Info().Str("addr", httpAddr).Msg("serving health/metrics")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithComponent(name).Error().Err(err).Msg("http server failed")
		}
	}()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithComponent(name).Info().Msg("starting agent")
	return agent.Run(ctx)
}

func httpMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", metrics.HealthHandler())
	mux.HandleFunc("/ready", metrics.ReadyHandler())
	mux.HandleFunc("/live", metrics.LivenessHandler())
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

const (
	correlationStaleAfter = 10 * time.Minute
	correlationReapEvery  = time.Minute
	upstreamCheckEvery    = 30 * time.Second
)

func buildAgent(name string, channels *broker.ChannelManager, cfg *types.Config, dataDir string, sched *scheduler.Scheduler) (runnable, error) {
	switch name {
	case "query":
		sessions, err := newSessionStore(cfg)
		if err != nil {
			return nil, err
		}
		a := query.New(channels, sessions)
		sched.AddJob("correlation-reaper", func(any) {
			a.CleanupOldCorrelations(correlationStaleAfter)
		}, correlationReapEvery, nil)
		return a, nil

	case "data_retrieval":
		b := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{Name: "data_retrieval.upstream"})
		a := retrieval.New(channels, b, os.Getenv("DATA_SOURCE_HEALTH_URL"))
		sched.AddJob("upstream-health-check", func(any) {
			a.CheckUpstream(context.Background())
		}, upstreamCheckEvery, nil)
		return a, nil

	case "analysis":
		return analysis.New(channels), nil

	case "narrative":
		return narrative.New(channels), nil

	case "fact_check":
		return factcheck.New(channels), nil

	case "followup":
		sessions, err := newSessionStore(cfg)
		if err != nil {
			return nil, err
		}
		return followup.New(channels, sessions), nil

	case "monitoring":
		store, err := state.NewStore(dataDir)
		if err != nil {
			return nil, err
		}
		engine, err := alert.NewEngine(store)
		if err != nil {
			return nil, err
		}
		notifier := notify.NewDispatcher()
		metrics.RegisterComponent("rule_store", true, "")
		sched.AddJob("rule-store-heartbeat", func(any) {
			metrics.UpdateComponent("rule_store", true, "")
		}, time.Minute, nil)
		return monitoring.New(channels, engine, notifier), nil

	default:
		return nil, fmt.Errorf("unknown agent %q", name)
	}
}

func newSessionStore(cfg *types.Config) (*session.Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.KVHost, cfg.KVPort),
		Password: cfg.KVPassword,
		DB:       cfg.KVDB,
	})
	metrics.RegisterComponent("session_store", true, "")
	return session.NewStore(client), nil
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"Cantilever/internal/auth"
	"Cantilever/internal/calc/cantilever"
	"Cantilever/internal/calc/premium/batch"
	"Cantilever/internal/calc/premium/importer"
	"Cantilever/internal/calc/premium/sweep"
	"Cantilever/internal/calc/report"
	"Cantilever/internal/history"
	"Cantilever/internal/metrics"
	"Cantilever/internal/repo"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HandleList registers every route. db may be nil, in which case the account
// and history routes are left out.
func HandleList(router *mux.Router, cfg config, db *sql.DB, logger *log.Logger) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	router.Use(m.Middleware)
	router.Handle("/metrics", m.Handler()).Methods("GET")
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods("GET")

	limiter := auth.NewIPRateLimiter(5, 20)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	cantileverH := &cantilever.Handler{}
	batchH := &batch.Handler{}
	sweepH := &sweep.Handler{}
	importH := &importer.Handler{}
	reportH := &report.Handler{}

	api.HandleFunc("/tools/cantilever/calc", cantileverH.Calc).Methods("POST")
	api.HandleFunc("/tools/cantilever/batch", batchH.Calc).Methods("POST")
	api.HandleFunc("/tools/cantilever/sweep", sweepH.Calc).Methods("POST")
	api.HandleFunc("/tools/cantilever/import", importH.Calc).Methods("POST")
	api.HandleFunc("/tools/report/pdf", reportH.Generate).Methods("POST")

	if db == nil {
		logger.Warn("DATABASE_URL not set, accounts disabled")
		return
	}
	store := repo.NewPostgres(db)
	authEnv := &auth.Env{Key: []byte(cfg.TokenKey), Repo: store, Insecure: cfg.InsecureCookies, Logger: logger}
	historyH := &history.Handler{Repo: store, Logger: logger}

	api.HandleFunc("/login", authEnv.LoginHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")
	api.HandleFunc("/logout", authEnv.LogoutHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.Middleware)
	secureApi.HandleFunc("/designs", historyH.Save).Methods("POST")
	secureApi.HandleFunc("/designs", historyH.List).Methods("GET")
	secureApi.HandleFunc("/designs/{id:[0-9]+}", historyH.Get).Methods("GET")
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "cantilever"})

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("config", "err", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var db *sql.DB
	if cfg.accounts() {
		openCtx, cancelOpen := context.WithTimeout(ctx, 10*time.Second)
		db, err = repo.Open(openCtx, cfg.DatabaseURL)
		cancelOpen()
		if err != nil {
			logger.Fatal("database", "err", err)
		}
		defer db.Close()
	}

	router := mux.NewRouter()
	HandleList(router, cfg, db, logger)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           CORS(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.Addr, "tls", cfg.TLSCert != "", "accounts", db != nil)
		if cfg.TLSCert != "" {
			errc <- server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
			return
		}
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", "err", err)
		}
		return
	case <-ctx.Done():
	}
	logger.Info("shutdown signal received, closing active connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
		return
	}
	logger.Info("server stopped")
}

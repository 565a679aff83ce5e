package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/gridline/gridline/pkg/config"
	"github.com/gridline/gridline/pkg/datasource"
	"github.com/gridline/gridline/pkg/export"
	"github.com/gridline/gridline/pkg/health"
	"github.com/gridline/gridline/pkg/httpbind"
	"github.com/gridline/gridline/pkg/observability/logger"
)

// shutdownTimeout bounds graceful server shutdown.
const shutdownTimeout = 10 * time.Second

func newServeCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the table HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewProvider(flags.configFile, flags.envPrefix).Load()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

// Row is one dynamically scanned table row, keyed by column name.
type Row map[string]any

func runServer(ctx context.Context, cfg *config.Config) error {
	log, err := logger.NewZapLogger(logger.Config{
		Level:  logger.LogLevel(cfg.Log.Level),
		Format: logger.LogFormat(cfg.Log.Format),
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	checks := health.NewRegistry(0)
	checks.Register(health.NewDatabaseChecker("database", db))

	handler := buildHandler(cfg, db, log)
	routes := httpbind.NewRoutes(handler,
		[]httpbind.Middleware{
			httpbind.RequestID(),
			httpbind.Logging(log),
			httpbind.Metrics(),
		},
		httpbind.RateLimit(httpbind.NewTokenBucketLimiter(
			cfg.Export.RequestsPerSecond,
			cfg.Export.Burst,
		)),
	)

	root, err := mountRoutes(cfg, routes, health.Handler(checks))
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      root,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			"port", cfg.HTTP.Port,
			"router", cfg.HTTP.RouterType,
			"table", cfg.Table.Name,
			"environment", cfg.Service.Environment,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// buildHandler wires the configured table into an HTTP handler.
func buildHandler(cfg *config.Config, db *sql.DB, log logger.Logger) *httpbind.Handler[Row] {
	fields := cfg.Table.Fields()
	columns := make([]string, 0, len(cfg.Table.Columns))
	for _, column := range cfg.Table.Columns {
		columns = append(columns, column.Name)
	}

	table := datasource.NewTable(
		db,
		datasource.Dialect(cfg.Database.Driver),
		cfg.Table.Name,
		fields,
		scanRow,
		cfg.Table.Engine(),
	)

	return httpbind.NewHandler(httpbind.Options[Row]{
		Name:         cfg.Table.Name,
		Source:       table,
		Fields:       fields,
		Config:       cfg.Table.Engine(),
		Logger:       log,
		Exports:      export.NewRegistry(),
		ExportHeader: columns,
		EncodeRow:    rowEncoder(columns),
	})
}

// scanRow scans one result row into a map keyed by column name,
// whatever the column set of the backing table is.
func scanRow(rows *sql.Rows) (Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	dest := make([]any, len(columns))
	for i := range dest {
		dest[i] = new(any)
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	row := make(Row, len(columns))
	for i, column := range columns {
		value := *(dest[i].(*any))
		if b, ok := value.([]byte); ok {
			value = string(b)
		}
		row[column] = value
	}
	return row, nil
}

// rowEncoder renders export cells in the configured column order.
func rowEncoder(columns []string) func(Row) []string {
	return func(row Row) []string {
		cells := make([]string, 0, len(columns))
		for _, column := range columns {
			cells = append(cells, formatCell(row[column]))
		}
		return cells
	}
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

// mountRoutes places the table routes plus the operational endpoints on
// the configured router flavor.
func mountRoutes(cfg *config.Config, routes httpbind.Routes, healthz http.Handler) (http.Handler, error) {
	path := "/" + cfg.Table.Name

	switch cfg.HTTP.RouterType {
	case config.RouterTypeGin:
		gin.SetMode(gin.ReleaseMode)
		engine := gin.New()
		engine.Use(gin.Recovery())
		httpbind.MountGin(engine, path, routes)
		engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
		engine.GET("/healthz", gin.WrapH(healthz))
		return engine, nil

	case config.RouterTypeGorilla:
		router := mux.NewRouter()
		httpbind.MountGorilla(router, path, routes)
		router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
		router.Handle("/healthz", healthz).Methods(http.MethodGet)
		return router, nil

	default:
		return nil, fmt.Errorf("unsupported router type %q", cfg.HTTP.RouterType)
	}
}

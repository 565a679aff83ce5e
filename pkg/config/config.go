// Package config loads and validates gridline configuration from
// defaults, an optional YAML file, and environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/gridline/gridline/pkg/datasource"
	"github.com/gridline/gridline/pkg/schema"
	"github.com/gridline/gridline/pkg/viewstate"
)

// Router type constants
const (
	// RouterTypeGin mounts handlers on a gin engine
	RouterTypeGin = "gin"
	// RouterTypeGorilla mounts handlers on a gorilla/mux router
	RouterTypeGorilla = "gorilla"
)

// Config is the root configuration structure.
type Config struct {
	Service  ServiceConfig  `mapstructure:"service"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Table    TableConfig    `mapstructure:"table"`
	Export   ExportConfig   `mapstructure:"export"`
}

// ServiceConfig configures service identity metadata.
type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	RouterType   string        `mapstructure:"router_type"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig configures the SQL data source.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// TableConfig configures the table view-state engine and its column
// whitelist.
type TableConfig struct {
	Distance         int            `mapstructure:"distance"`
	DefaultSortField string         `mapstructure:"default_sort_field"`
	DefaultPageSize  int            `mapstructure:"default_page_size"`
	Name             string         `mapstructure:"name"`
	Columns          []ColumnConfig `mapstructure:"columns"`
}

// ColumnConfig whitelists one column.
type ColumnConfig struct {
	Name       string `mapstructure:"name"`
	Sortable   bool   `mapstructure:"sortable"`
	Searchable bool   `mapstructure:"searchable"`
}

// ExportConfig configures the export endpoint rate limit.
type ExportConfig struct {
	RequestsPerSecond int `mapstructure:"requests_per_second"`
	Burst             int `mapstructure:"burst"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        "gridline",
			Environment: "development",
		},
		HTTP: HTTPConfig{
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
			RouterType:   RouterTypeGin,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Database: DatabaseConfig{
			Driver: string(datasource.DialectPostgres),
		},
		Table: TableConfig{
			Distance:         viewstate.DefaultDistance,
			DefaultSortField: "id",
			DefaultPageSize:  25,
			Name:             "users",
			Columns: []ColumnConfig{
				{Name: "id", Sortable: true},
				{Name: "name", Sortable: true, Searchable: true},
				{Name: "email", Sortable: true, Searchable: true},
			},
		},
		Export: ExportConfig{
			RequestsPerSecond: 1,
			Burst:             3,
		},
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.HTTP.Port)
	}
	if c.HTTP.RouterType != RouterTypeGin && c.HTTP.RouterType != RouterTypeGorilla {
		return fmt.Errorf("http.router_type %q must be %q or %q",
			c.HTTP.RouterType, RouterTypeGin, RouterTypeGorilla)
	}

	switch datasource.Dialect(c.Database.Driver) {
	case datasource.DialectPostgres, datasource.DialectMySQL:
	default:
		return fmt.Errorf("database.driver %q must be %q or %q",
			c.Database.Driver, datasource.DialectPostgres, datasource.DialectMySQL)
	}

	if c.Table.Distance < 1 {
		return fmt.Errorf("table.distance must be at least 1, got %d", c.Table.Distance)
	}
	if c.Table.DefaultPageSize < 1 {
		return fmt.Errorf("table.default_page_size must be at least 1, got %d", c.Table.DefaultPageSize)
	}
	if c.Table.Name == "" {
		return fmt.Errorf("table.name must not be empty")
	}
	if len(c.Table.Columns) == 0 {
		return fmt.Errorf("table.columns must not be empty")
	}

	fields := c.Table.Fields()
	if err := fields.ValidateSort(c.Table.DefaultSortField); err != nil {
		return fmt.Errorf("table.default_sort_field: %w", err)
	}

	if c.Export.RequestsPerSecond < 1 {
		return fmt.Errorf("export.requests_per_second must be at least 1, got %d", c.Export.RequestsPerSecond)
	}
	if c.Export.Burst < 1 {
		return fmt.Errorf("export.burst must be at least 1, got %d", c.Export.Burst)
	}

	return nil
}

// Fields builds the schema whitelist from the configured columns.
func (t TableConfig) Fields() *schema.Fields {
	fields := make([]schema.Field, 0, len(t.Columns))
	for _, column := range t.Columns {
		fields = append(fields, schema.Field{
			Name:       column.Name,
			Sortable:   column.Sortable,
			Searchable: column.Searchable,
		})
	}
	return schema.New(fields...)
}

// Engine projects the table settings into an engine configuration.
func (t TableConfig) Engine() viewstate.Config {
	return viewstate.Config{
		Distance:         t.Distance,
		DefaultSortField: t.DefaultSortField,
		DefaultPageSize:  t.DefaultPageSize,
	}
}

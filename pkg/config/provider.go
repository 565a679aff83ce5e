package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Provider loads configuration with the precedence defaults < config
// file < environment variables. Environment keys use the prefix plus
// underscored paths, e.g. GRIDLINE_TABLE_DEFAULT_PAGE_SIZE.
type Provider struct {
	configFile string
	envPrefix  string
	v          *viper.Viper
}

// NewProvider creates a configuration provider. configFile may be
// empty, in which case only defaults and environment apply.
func NewProvider(configFile, envPrefix string) *Provider {
	return &Provider{
		configFile: configFile,
		envPrefix:  envPrefix,
		v:          viper.New(),
	}
}

// Load reads, merges, and validates the configuration.
func (p *Provider) Load() (*Config, error) {
	p.v = viper.New()
	p.setDefaults(DefaultConfig())

	if p.envPrefix != "" {
		p.v.SetEnvPrefix(p.envPrefix)
		p.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		p.v.AutomaticEnv()
	}

	if p.configFile != "" {
		p.v.SetConfigFile(p.configFile)
		if err := p.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", p.configFile, err)
		}
	}

	cfg := &Config{}
	if err := p.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every default so AutomaticEnv can see the keys.
func (p *Provider) setDefaults(defaults *Config) {
	p.v.SetDefault("service.name", defaults.Service.Name)
	p.v.SetDefault("service.environment", defaults.Service.Environment)

	p.v.SetDefault("http.port", defaults.HTTP.Port)
	p.v.SetDefault("http.read_timeout", defaults.HTTP.ReadTimeout)
	p.v.SetDefault("http.write_timeout", defaults.HTTP.WriteTimeout)
	p.v.SetDefault("http.idle_timeout", defaults.HTTP.IdleTimeout)
	p.v.SetDefault("http.router_type", defaults.HTTP.RouterType)

	p.v.SetDefault("log.level", defaults.Log.Level)
	p.v.SetDefault("log.format", defaults.Log.Format)

	p.v.SetDefault("database.driver", defaults.Database.Driver)
	p.v.SetDefault("database.dsn", defaults.Database.DSN)

	p.v.SetDefault("table.distance", defaults.Table.Distance)
	p.v.SetDefault("table.default_sort_field", defaults.Table.DefaultSortField)
	p.v.SetDefault("table.default_page_size", defaults.Table.DefaultPageSize)
	p.v.SetDefault("table.name", defaults.Table.Name)
	p.v.SetDefault("table.columns", columnMaps(defaults.Table.Columns))

	p.v.SetDefault("export.requests_per_second", defaults.Export.RequestsPerSecond)
	p.v.SetDefault("export.burst", defaults.Export.Burst)
}

// columnMaps converts column defaults into the generic shape viper
// merges with file values.
func columnMaps(columns []ColumnConfig) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(columns))
	for _, column := range columns {
		out = append(out, map[string]interface{}{
			"name":       column.Name,
			"sortable":   column.Sortable,
			"searchable": column.Searchable,
		})
	}
	return out
}

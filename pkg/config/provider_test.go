package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gridline/gridline/pkg/viewstate"
)

func TestProviderLoad_Defaults(t *testing.T) {
	cfg, err := NewProvider("", "").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HTTP.Port != 8080 {
		t.Errorf("http.port = %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.HTTP.RouterType != RouterTypeGin {
		t.Errorf("http.router_type = %q, want gin", cfg.HTTP.RouterType)
	}
	if cfg.Table.Distance != viewstate.DefaultDistance {
		t.Errorf("table.distance = %d, want %d", cfg.Table.Distance, viewstate.DefaultDistance)
	}
	if cfg.Table.DefaultSortField != "id" {
		t.Errorf("table.default_sort_field = %q, want id", cfg.Table.DefaultSortField)
	}
}

func TestProviderLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gridline.yaml")
	content := `
http:
  port: 9090
  router_type: gorilla
  read_timeout: 5s
table:
  distance: 3
  default_sort_field: name
  default_page_size: 10
  name: members
  columns:
    - name: id
      sortable: true
    - name: name
      sortable: true
      searchable: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewProvider(path, "").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HTTP.Port != 9090 {
		t.Errorf("http.port = %d, want 9090", cfg.HTTP.Port)
	}
	if cfg.HTTP.RouterType != RouterTypeGorilla {
		t.Errorf("http.router_type = %q, want gorilla", cfg.HTTP.RouterType)
	}
	if cfg.HTTP.ReadTimeout != 5*time.Second {
		t.Errorf("http.read_timeout = %v, want 5s", cfg.HTTP.ReadTimeout)
	}
	if cfg.Table.Name != "members" {
		t.Errorf("table.name = %q, want members", cfg.Table.Name)
	}
	if cfg.Table.DefaultPageSize != 10 {
		t.Errorf("table.default_page_size = %d, want 10", cfg.Table.DefaultPageSize)
	}
	if !cfg.Table.Fields().Contains("name") {
		t.Error("configured column name missing from whitelist")
	}
}

func TestProviderLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("GRIDLINE_HTTP_PORT", "7070")
	t.Setenv("GRIDLINE_TABLE_DEFAULT_PAGE_SIZE", "50")

	cfg, err := NewProvider("", "GRIDLINE").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HTTP.Port != 7070 {
		t.Errorf("http.port = %d, want 7070", cfg.HTTP.Port)
	}
	if cfg.Table.DefaultPageSize != 50 {
		t.Errorf("table.default_page_size = %d, want 50", cfg.Table.DefaultPageSize)
	}
}

func TestProviderLoad_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "bad router type",
			content: "http:\n  router_type: echo\n",
		},
		{
			name:    "bad driver",
			content: "database:\n  driver: sqlite\n",
		},
		{
			name:    "zero distance",
			content: "table:\n  distance: 0\n",
		},
		{
			name:    "default sort field outside whitelist",
			content: "table:\n  default_sort_field: password_hash\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "gridline.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := NewProvider(path, "").Load(); err == nil {
				t.Error("Load() error = nil, want validation error")
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	cfg.Export.Burst = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() error = nil, want burst error")
	}
}

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		HTTP:   HTTPConfig{Port: 8080},
		Portal: PortalConfig{URL: "https://gis.example.com/portal", Username: "gisadmin"},
		Cache:  CacheConfig{Driver: CacheNone},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"invalid port", func(c *Config) { c.HTTP.Port = 0 }, "http.port must be between 1 and 65535, got 0"},
		{"missing portal url", func(c *Config) { c.Portal.URL = "" }, "portal.url is required"},
		{"missing username", func(c *Config) { c.Portal.Username = "" }, "portal.username is required"},
		{"cache without addrs", func(c *Config) { c.Cache.Driver = CacheValkey }, `cache.addrs is required for driver "valkey"`},
		{"unknown driver", func(c *Config) { c.Cache.Driver = "memcached" },
			`cache.driver must be one of valkey, redis, memory, none; got "memcached"`},
		{"negative rate limit", func(c *Config) { c.Portal.RateLimit = -1 }, "portal.rate_limit must not be negative, got -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), tt.want)
			}
		})
	}
}

func TestValidate_MemoryNeedsNoAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache = CacheConfig{Driver: CacheMemory}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Cache.Enabled() {
		t.Error("memory driver must enable the cache")
	}
}

func TestValidate_RedisWithAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache = CacheConfig{Driver: CacheRedis, Addrs: []string{"localhost:6379"}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 120 {
		t.Errorf("expected WriteTimeoutSec=120, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Portal.Timeout() != 30*time.Second {
		t.Errorf("expected portal timeout 30s, got %v", cfg.Portal.Timeout())
	}
	if cfg.Cache.Driver != CacheNone || cfg.Cache.Enabled() {
		t.Errorf("expected cache disabled by default, got %q", cfg.Cache.Driver)
	}
	if cfg.Cache.TTL() != 5*time.Minute {
		t.Errorf("expected cache TTL 5m, got %v", cfg.Cache.TTL())
	}
	if cfg.Cache.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Cache.ReadinessTimeout)
	}
	if cfg.Popup.ItemType != "Feature Layer" {
		t.Errorf("expected item type 'Feature Layer', got %q", cfg.Popup.ItemType)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:   HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Portal: PortalConfig{TimeoutSec: 90},
		Cache:  CacheConfig{Driver: CacheValkey, TTLSec: 60},
		Popup:  PopupConfig{ItemType: "Map Service"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Portal.TimeoutSec != 90 {
		t.Errorf("expected TimeoutSec=90, got %d", cfg.Portal.TimeoutSec)
	}
	if cfg.Cache.Driver != CacheValkey || cfg.Cache.TTLSec != 60 {
		t.Errorf("cache settings overridden: %+v", cfg.Cache)
	}
	if cfg.Popup.ItemType != "Map Service" {
		t.Errorf("expected item type 'Map Service', got %q", cfg.Popup.ItemType)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("WEBMAPPER_TEST_TOKEN", "s3cret")

	in := []byte("token: ${WEBMAPPER_TEST_TOKEN}\nurl: ${WEBMAPPER_TEST_UNSET:-https://gis.example.com/portal}\nempty: ${WEBMAPPER_TEST_UNSET}")
	want := "token: s3cret\nurl: https://gis.example.com/portal\nempty: "

	if got := string(expandEnvVars(in)); got != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o750); err != nil {
		t.Fatal(err)
	}
	yaml := `
http:
  port: 9090
portal:
  url: https://gis.example.com/portal
  username: ${WEBMAPPER_TEST_USER:-gisadmin}
cache:
  driver: redis
  addrs: ["localhost:6379"]
popup:
  excluded_fields: [OBJECTID, GlobalID]
auth:
  api_keys: [k1]
`
	if err := os.WriteFile(filepath.Join(dir, "config", "unittest.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("unittest")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9090 || cfg.Portal.Username != "gisadmin" || cfg.Cache.Driver != CacheRedis {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Popup.ExcludedFields, []string{"OBJECTID", "GlobalID"}) {
		t.Errorf("excluded fields = %v", cfg.Popup.ExcludedFields)
	}
	if cfg.Cache.TTLSec != 300 {
		t.Errorf("defaults not applied: %+v", cfg.Cache)
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := Load("does-not-exist"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

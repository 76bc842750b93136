package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{DSN: "postgres://localhost:5432/tplsearch"},
		Search:   SearchConfig{Ranker: "standard"},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Database.DSN = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing dsn")
	}
}

func TestValidate_InvalidRanker(t *testing.T) {
	cfg := validConfig()
	cfg.Search.Ranker = "learning_to_rank"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid ranker")
	}

	expected := `search.ranker must be "standard" or "weighted", got "learning_to_rank"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_DistanceTooLarge(t *testing.T) {
	cfg := validConfig()
	cfg.Search.MaxCosineDistance = 2.5

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for distance above 2")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Search.RecallLimit != 200 {
		t.Errorf("RecallLimit = %d, want 200", cfg.Search.RecallLimit)
	}
	if cfg.Search.MaxCosineDistance != 0.6 {
		t.Errorf("MaxCosineDistance = %v, want 0.6", cfg.Search.MaxCosineDistance)
	}
	if cfg.Search.DefaultPageSize != 20 {
		t.Errorf("DefaultPageSize = %d, want 20", cfg.Search.DefaultPageSize)
	}
	if cfg.Search.Ranker != "standard" {
		t.Errorf("Ranker = %q, want standard", cfg.Search.Ranker)
	}
	if cfg.Database.TextSearchConfig != "simple" {
		t.Errorf("TextSearchConfig = %q, want simple", cfg.Database.TextSearchConfig)
	}
	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("ReadTimeoutSec = %d, want 10", cfg.HTTP.ReadTimeoutSec)
	}
}

func TestApplyDefaults_WeightedRanker(t *testing.T) {
	cfg := Config{Search: SearchConfig{Ranker: "weighted"}}
	cfg.ApplyDefaults()

	w := cfg.Search.Weights
	if w.Similarity != 0.6 || w.Sales != 0.2 || w.Creations != 0.1 || w.PinWeight != 0.1 {
		t.Errorf("unexpected default weights: %+v", w)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TPLSEARCH_TEST_VAR", "secret")

	got := string(expandEnvVars([]byte("key: ${TPLSEARCH_TEST_VAR}")))
	if got != "key: secret" {
		t.Errorf("expandEnvVars = %q", got)
	}

	got = string(expandEnvVars([]byte("key: ${TPLSEARCH_UNSET_VAR:-fallback}")))
	if got != "key: fallback" {
		t.Errorf("expandEnvVars with default = %q", got)
	}
}

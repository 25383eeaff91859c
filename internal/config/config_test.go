package config

import (
	"testing"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		validate    func(*testing.T, *Config)
	}{
		{
			name: "all required env vars set",
			envVars: map[string]string{
				"MONGODB_URI":          "mongodb://localhost:27017",
				"MONGODB_DB":           "imaginify_test",
				"SERVER_PORT":          "9090",
				"CLERK_WEBHOOK_SECRET": "whsec_test",
			},
			expectError: false,
			validate: func(t *testing.T, cfg *Config) {
				if cfg.MongoURI != "mongodb://localhost:27017" {
					t.Errorf("Expected MongoURI to be 'mongodb://localhost:27017', got '%s'", cfg.MongoURI)
				}
				if cfg.MongoDatabase != "imaginify_test" {
					t.Errorf("Expected MongoDatabase to be 'imaginify_test', got '%s'", cfg.MongoDatabase)
				}
				if cfg.ServerPort != "9090" {
					t.Errorf("Expected ServerPort to be '9090', got '%s'", cfg.ServerPort)
				}
				if cfg.WebhookSecret != "whsec_test" {
					t.Errorf("Expected WebhookSecret to be 'whsec_test', got '%s'", cfg.WebhookSecret)
				}
			},
		},
		{
			name: "missing MONGODB_URI",
			envVars: map[string]string{
				"MONGODB_URI": "",
				"SERVER_PORT": "9090",
			},
			expectError: true,
		},
		{
			name: "default values",
			envVars: map[string]string{
				"MONGODB_URI": "mongodb://localhost:27017",
			},
			expectError: false,
			validate: func(t *testing.T, cfg *Config) {
				if cfg.MongoDatabase != "imaginify" {
					t.Errorf("Expected default MongoDatabase to be 'imaginify', got '%s'", cfg.MongoDatabase)
				}
				if cfg.ServerPort != "8080" {
					t.Errorf("Expected default ServerPort to be '8080', got '%s'", cfg.ServerPort)
				}
				if cfg.FrontendURL != "http://localhost:3000" {
					t.Errorf("Expected default FrontendURL to be 'http://localhost:3000', got '%s'", cfg.FrontendURL)
				}
				if cfg.RateLimit != "100-M" {
					t.Errorf("Expected default RateLimit to be '100-M', got '%s'", cfg.RateLimit)
				}
			},
		},
		{
			name: "webhook secret optional at load",
			envVars: map[string]string{
				"MONGODB_URI":          "mongodb://localhost:27017",
				"CLERK_WEBHOOK_SECRET": "",
			},
			expectError: false,
			validate: func(t *testing.T, cfg *Config) {
				if cfg.WebhookSecret != "" {
					t.Errorf("Expected empty WebhookSecret, got '%s'", cfg.WebhookSecret)
				}
			},
		},
		{
			name: "boolean flags",
			envVars: map[string]string{
				"MONGODB_URI":  "mongodb://localhost:27017",
				"ENABLE_HSTS":  "true",
				"OTEL_ENABLED": "1",
			},
			expectError: false,
			validate: func(t *testing.T, cfg *Config) {
				if !cfg.EnableHSTS {
					t.Error("Expected EnableHSTS to be true")
				}
				if !cfg.OTELEnabled {
					t.Error("Expected OTELEnabled to be true")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}
			// Clear vars not set by this case so earlier cases don't leak
			for _, key := range []string{"MONGODB_URI", "MONGODB_DB", "SERVER_PORT", "CLERK_WEBHOOK_SECRET", "ENABLE_HSTS", "OTEL_ENABLED"} {
				if _, ok := tt.envVars[key]; !ok {
					t.Setenv(key, "")
				}
			}

			cfg, err := Load()
			if tt.expectError {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

package config

import (
	"os"
	"testing"
)

var configEnvKeys = []string{
	"DATABASE_DRIVER",
	"DATABASE_URL",
	"KAFKA_BROKERS",
	"KAFKA_TOPIC",
	"API_PORT",
	"ENVIRONMENT",
	"LOG_LEVEL",
	"LOG_ENCODING",
	"CORS_ORIGINS",
}

// clearConfigEnv unsets every variable FromEnv reads and restores them after the test.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		original, had := os.LookupEnv(key)
		os.Unsetenv(key)
		t.Cleanup(func() {
			if had {
				os.Setenv(key, original)
			} else {
				os.Unsetenv(key)
			}
		})
	}
}

func TestFromEnv_WhenAllVariablesSet_ThenReturnsConfigWithSetValues(t *testing.T) {
	// Arrange
	clearConfigEnv(t)
	t.Setenv("DATABASE_DRIVER", "MySQL")
	t.Setenv("DATABASE_URL", "user:pass@tcp(localhost:3306)/books")
	t.Setenv("KAFKA_BROKERS", "kafka1:9092,kafka2:9092")
	t.Setenv("KAFKA_TOPIC", "library")
	t.Setenv("API_PORT", "9000")
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_ENCODING", "console")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000,https://example.com")

	// Act
	config, err := FromEnv()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if config.DatabaseDriver != "mysql" {
		t.Errorf("expected DatabaseDriver to be 'mysql', got '%s'", config.DatabaseDriver)
	}
	if config.DatabaseURL != "user:pass@tcp(localhost:3306)/books" {
		t.Errorf("expected DatabaseURL to be 'user:pass@tcp(localhost:3306)/books', got '%s'", config.DatabaseURL)
	}
	if len(config.KafkaBrokers) != 2 || config.KafkaBrokers[1] != "kafka2:9092" {
		t.Errorf("expected two kafka brokers, got %v", config.KafkaBrokers)
	}
	if config.KafkaTopic != "library" {
		t.Errorf("expected KafkaTopic to be 'library', got '%s'", config.KafkaTopic)
	}
	if config.APIPort != "9000" {
		t.Errorf("expected APIPort to be '9000', got '%s'", config.APIPort)
	}
	if config.Environment != "development" {
		t.Errorf("expected Environment to be 'development', got '%s'", config.Environment)
	}
	if config.LogLevel != "debug" {
		t.Errorf("expected LogLevel to be 'debug', got '%s'", config.LogLevel)
	}
	if config.LogEncoding != "console" {
		t.Errorf("expected LogEncoding to be 'console', got '%s'", config.LogEncoding)
	}
	if len(config.CORSOrigins) != 2 {
		t.Fatalf("expected 2 CORS origins, got %d", len(config.CORSOrigins))
	}
	if config.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("expected first CORS origin to be 'http://localhost:3000', got '%s'", config.CORSOrigins[0])
	}
	if !config.EventsEnabled() {
		t.Error("expected events to be enabled when brokers are configured")
	}
}

func TestFromEnv_WhenNoVariablesSet_ThenReturnsDefaults(t *testing.T) {
	// Arrange
	clearConfigEnv(t)

	// Act
	config, err := FromEnv()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if config.DatabaseDriver != "sqlite" {
		t.Errorf("expected DatabaseDriver to be 'sqlite', got '%s'", config.DatabaseDriver)
	}
	if config.DatabaseURL != "books.db" {
		t.Errorf("expected DatabaseURL to be 'books.db', got '%s'", config.DatabaseURL)
	}
	if len(config.KafkaBrokers) != 0 {
		t.Errorf("expected no kafka brokers, got %v", config.KafkaBrokers)
	}
	if config.KafkaTopic != "book-events" {
		t.Errorf("expected KafkaTopic to be 'book-events', got '%s'", config.KafkaTopic)
	}
	if config.APIPort != "8080" {
		t.Errorf("expected APIPort to be '8080', got '%s'", config.APIPort)
	}
	if config.Environment != "production" {
		t.Errorf("expected Environment to be 'production', got '%s'", config.Environment)
	}
	if config.LogLevel != "info" {
		t.Errorf("expected LogLevel to be 'info', got '%s'", config.LogLevel)
	}
	if config.LogEncoding != "" {
		t.Errorf("expected LogEncoding to be empty, got '%s'", config.LogEncoding)
	}
	if len(config.CORSOrigins) != 1 || config.CORSOrigins[0] != "*" {
		t.Errorf("expected CORS origins to be ['*'], got %v", config.CORSOrigins)
	}
	if config.EventsEnabled() {
		t.Error("expected events to be disabled without brokers")
	}
}

func TestFromEnv_WhenOriginsHaveWhitespace_ThenTrimsCorrectly(t *testing.T) {
	// Arrange
	clearConfigEnv(t)
	t.Setenv("CORS_ORIGINS", " http://localhost:3000 , https://example.com ,  ")

	// Act
	config, err := FromEnv()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(config.CORSOrigins) != 2 {
		t.Fatalf("expected 2 origins after trimming, got %d", len(config.CORSOrigins))
	}
	if config.CORSOrigins[1] != "https://example.com" {
		t.Errorf("expected second origin to be 'https://example.com', got '%s'", config.CORSOrigins[1])
	}
}

func TestFromEnv_WhenOriginsOnlySeparators_ThenReturnsWildcard(t *testing.T) {
	// Arrange
	clearConfigEnv(t)
	t.Setenv("CORS_ORIGINS", "   ,  ,  ")

	// Act
	config, err := FromEnv()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(config.CORSOrigins) != 1 || config.CORSOrigins[0] != "*" {
		t.Errorf("expected ['*'], got %v", config.CORSOrigins)
	}
}

func TestFromEnv_WhenBrokersOnlyWhitespace_ThenEventsDisabled(t *testing.T) {
	// Arrange
	clearConfigEnv(t)
	t.Setenv("KAFKA_BROKERS", " , ")

	// Act
	config, err := FromEnv()

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if config.EventsEnabled() {
		t.Errorf("expected events disabled, got brokers %v", config.KafkaBrokers)
	}
}

package main

import (
	"bytes"
	"flag"
	"os"
	"testing"
	"time"
)

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

// resetEnv clears env vars used by parseConfig
func resetEnv() {
	os.Clearenv()
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}
	configPath := parseFlags()
	expected := "config.env"

	if configPath != expected {
		t.Errorf("expected %s, got %s", expected, configPath)
	}
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-c", "myconfig.env"}
	configPath := parseFlags()
	expected := "myconfig.env"

	if configPath != expected {
		t.Errorf("expected %s, got %s", expected, configPath)
	}
}

func TestPrintBuildInfo_Output(t *testing.T) {
	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	buildVersion = "v1.0.0"
	buildCommit = "abcd1234"
	buildDate = "2026-08-30"

	printBuildInfo()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	output := buf.String()
	os.Stdout = oldStdout

	if !contains(output, "version v1.0.0") ||
		!contains(output, "commit abcd1234") ||
		!contains(output, "build 2026-08-30") {
		t.Errorf("printBuildInfo output unexpected:\n%s", output)
	}
}

// Helper function to check substring
func contains(s, substr string) bool {
	return bytes.Contains([]byte(s), []byte(substr))
}

func TestParseConfig_Defaults(t *testing.T) {
	resetEnv()

	cfg, err := parseConfig("nonexistent.env")
	if err != nil {
		t.Fatalf("parseConfig returned error: %v", err)
	}

	// Application
	if cfg.appHost != "localhost" || cfg.appPort != "8080" || cfg.logLevel != "info" || cfg.env != "development" {
		t.Errorf("unexpected app config: %v/%v/%v/%v", cfg.appHost, cfg.appPort, cfg.logLevel, cfg.env)
	}
	if len(cfg.corsOrigins) != 1 || cfg.corsOrigins[0] != "*" {
		t.Errorf("unexpected CORS origins: %v", cfg.corsOrigins)
	}
	if cfg.uploadTimeout != 120*time.Second {
		t.Errorf("unexpected upload timeout: %v", cfg.uploadTimeout)
	}

	// PostgreSQL
	if cfg.pgHost != "localhost" || cfg.pgPort != 5432 || cfg.pgUser != "user" || cfg.pgPassword != "password" || cfg.pgDB != "vidtube" ||
		cfg.pgMaxOpenConns != 16 || cfg.pgMaxIdleConns != 8 {
		t.Errorf("unexpected postgres config")
	}

	// Redis
	if cfg.redisHost != "localhost" || cfg.redisPort != 6379 || cfg.redisDB != 0 || cfg.redisPassword != "" ||
		cfg.redisPoolSize != 10 || cfg.redisMinIdleConns != 2 || cfg.statsCacheTTL != 300*time.Second {
		t.Errorf("unexpected redis config")
	}

	// Kafka
	if len(cfg.kafkaBrokers) != 1 || cfg.kafkaBrokers[0] != "localhost:9092" || cfg.kafkaTopic != "engagement-events" {
		t.Errorf("unexpected kafka config: %v/%v", cfg.kafkaBrokers, cfg.kafkaTopic)
	}

	// Media storage
	if cfg.s3Region != "us-east-1" || cfg.s3Bucket != "vidtube-media" || cfg.s3Endpoint != "" || cfg.mediaBaseURL != "" {
		t.Errorf("unexpected media config")
	}

	// JWT
	if cfg.jwtAccessSecret != "my_super_secret_key" || cfg.jwtRefreshSecret != "my_other_secret_key" ||
		cfg.jwtAccessExp != 900*time.Second || cfg.jwtRefreshExp != 864000*time.Second {
		t.Errorf("unexpected jwt config")
	}
}

func TestParseConfig_CustomEnv(t *testing.T) {
	resetEnv()
	os.Setenv("APP_HOST", "127.0.0.1")
	os.Setenv("APP_PORT", "9090")
	os.Setenv("APP_LOG_LEVEL", "debug")
	os.Setenv("APP_ENV", "production")
	os.Setenv("APP_CORS_ORIGINS", "https://vidtube.example.com,https://studio.example.com")
	os.Setenv("APP_UPLOAD_TIMEOUT_SECOND", "300")

	os.Setenv("POSTGRES_HOST", "pg.example.com")
	os.Setenv("POSTGRES_PORT", "5433")
	os.Setenv("POSTGRES_USER", "admin")
	os.Setenv("POSTGRES_PASSWORD", "secret")
	os.Setenv("POSTGRES_DB", "mydb")
	os.Setenv("POSTGRES_MAX_OPEN_CONNS", "20")
	os.Setenv("POSTGRES_MAX_IDLE_CONNS", "10")

	os.Setenv("REDIS_HOST", "redis.example.com")
	os.Setenv("REDIS_PORT", "6380")
	os.Setenv("REDIS_DB", "2")
	os.Setenv("REDIS_PASSWORD", "redispass")
	os.Setenv("REDIS_POOL_SIZE", "15")
	os.Setenv("REDIS_MIN_IDLE_CONNS", "5")
	os.Setenv("CHANNEL_STATS_TTL_SECOND", "60")

	os.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	os.Setenv("KAFKA_ENGAGEMENT_TOPIC", "engagement")

	os.Setenv("S3_REGION", "eu-west-1")
	os.Setenv("S3_ENDPOINT", "http://minio:9000")
	os.Setenv("S3_BUCKET", "media")
	os.Setenv("MEDIA_BASE_URL", "https://cdn.example.com")

	os.Setenv("JWT_ACCESS_SECRET", "supersecret")
	os.Setenv("JWT_REFRESH_SECRET", "otherthing")
	os.Setenv("JWT_ACCESS_EXP_SECOND", "300")
	os.Setenv("JWT_REFRESH_EXP_SECOND", "3600")

	cfg, err := parseConfig("nonexistent.env")
	if err != nil {
		t.Fatalf("parseConfig returned error: %v", err)
	}

	if cfg.appHost != "127.0.0.1" || cfg.appPort != "9090" || cfg.logLevel != "debug" || cfg.env != "production" {
		t.Errorf("unexpected app config")
	}
	if len(cfg.corsOrigins) != 2 || cfg.corsOrigins[1] != "https://studio.example.com" {
		t.Errorf("unexpected CORS origins: %v", cfg.corsOrigins)
	}
	if cfg.uploadTimeout != 300*time.Second {
		t.Errorf("unexpected upload timeout: %v", cfg.uploadTimeout)
	}
	if cfg.pgHost != "pg.example.com" || cfg.pgPort != 5433 || cfg.pgUser != "admin" || cfg.pgPassword != "secret" || cfg.pgDB != "mydb" ||
		cfg.pgMaxOpenConns != 20 || cfg.pgMaxIdleConns != 10 {
		t.Errorf("unexpected postgres config")
	}
	if cfg.redisHost != "redis.example.com" || cfg.redisPort != 6380 || cfg.redisDB != 2 || cfg.redisPassword != "redispass" ||
		cfg.redisPoolSize != 15 || cfg.redisMinIdleConns != 5 || cfg.statsCacheTTL != 60*time.Second {
		t.Errorf("unexpected redis config")
	}
	if len(cfg.kafkaBrokers) != 2 || cfg.kafkaBrokers[0] != "kafka-1:9092" || cfg.kafkaTopic != "engagement" {
		t.Errorf("unexpected kafka config: %v/%v", cfg.kafkaBrokers, cfg.kafkaTopic)
	}
	if cfg.s3Region != "eu-west-1" || cfg.s3Endpoint != "http://minio:9000" || cfg.s3Bucket != "media" || cfg.mediaBaseURL != "https://cdn.example.com" {
		t.Errorf("unexpected media config")
	}
	if cfg.jwtAccessSecret != "supersecret" || cfg.jwtRefreshSecret != "otherthing" ||
		cfg.jwtAccessExp != 300*time.Second || cfg.jwtRefreshExp != 3600*time.Second {
		t.Errorf("unexpected jwt config")
	}
}

func TestParseConfig_InvalidInt(t *testing.T) {
	resetEnv()
	os.Setenv("POSTGRES_PORT", "not-a-number")

	if _, err := parseConfig("nonexistent.env"); err == nil {
		t.Error("expected error for invalid POSTGRES_PORT, got nil")
	}
}

func TestConfig_SecureCookies(t *testing.T) {
	prod := &config{env: "production"}
	dev := &config{env: "development"}

	if !prod.secureCookies() {
		t.Error("expected secure cookies in production")
	}
	if dev.secureCookies() {
		t.Error("expected plain cookies in development")
	}
}

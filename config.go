package strand

import (
	"log/slog"
	"os"
	"strconv"
)

// Env selects the rendering mode.
type Env string

const (
	// EnvDevelopment re-reads and re-transforms the shell on every
	// request so edits show up without a restart.
	EnvDevelopment Env = "development"

	// EnvProduction loads the shell and assets once from the artifact
	// store and reuses them for every request.
	EnvProduction Env = "production"
)

// Config is the application configuration.
type Config struct {
	// Env selects development or production rendering.
	// Default: EnvProduction.
	Env Env

	// Port is the listen port. Default: 3000.
	Port int

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Static configures asset serving.
	Static StaticConfig

	// Shell configures where the HTML document shell comes from.
	Shell ShellConfig
}

// StaticConfig configures static asset serving.
type StaticConfig struct {
	// Dir is the directory containing public assets ("app/public").
	Dir string

	// Prefix is the URL path prefix assets are served under.
	// Default: "/public/".
	Prefix string
}

// ShellConfig configures the HTML document shell source.
type ShellConfig struct {
	// Path is the shell file on disk, used in development and in
	// production when no bucket is configured ("app/shell/index.html").
	Path string

	// ArtifactDir is the local artifact root for production when no
	// bucket is configured. Default: "app".
	ArtifactDir string

	// S3Bucket, when set, makes production load the shell and assets
	// from S3 instead of local disk.
	S3Bucket string

	// S3Prefix is the key prefix inside the bucket ("builds/current/").
	S3Prefix string
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() Config {
	return Config{
		Env:  EnvProduction,
		Port: 3000,
		Static: StaticConfig{
			Dir:    "app/public",
			Prefix: "/public/",
		},
		Shell: ShellConfig{
			Path:        "app/shell/index.html",
			ArtifactDir: "app",
		},
	}
}

// FromEnv builds a Config from the process environment on top of the
// defaults. STRAND_ENV selects the mode, PORT the listen port, and
// STRAND_S3_BUCKET/STRAND_S3_PREFIX the production artifact source.
func FromEnv() Config {
	cfg := DefaultConfig()

	switch os.Getenv("STRAND_ENV") {
	case "development", "dev":
		cfg.Env = EnvDevelopment
	default:
		cfg.Env = EnvProduction
	}

	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Port = n
		}
	}

	if dir := os.Getenv("STRAND_PUBLIC_DIR"); dir != "" {
		cfg.Static.Dir = dir
	}
	if path := os.Getenv("STRAND_SHELL"); path != "" {
		cfg.Shell.Path = path
	}
	if dir := os.Getenv("STRAND_ARTIFACT_DIR"); dir != "" {
		cfg.Shell.ArtifactDir = dir
	}
	cfg.Shell.S3Bucket = os.Getenv("STRAND_S3_BUCKET")
	cfg.Shell.S3Prefix = os.Getenv("STRAND_S3_PREFIX")

	return cfg
}

// DevMode reports whether the config selects development rendering.
func (c Config) DevMode() bool {
	return c.Env == EnvDevelopment
}

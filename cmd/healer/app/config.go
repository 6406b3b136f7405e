package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from flags,
// environment variables, .env files, and an optional config file.
type Config struct {
	// Pipeline
	ContentDir string
	BuildDir   string
	Format     string
	Strict     bool

	// Global flags
	Verbose bool
	Quiet   bool

	// Logging
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of
// precedence: command-line flags (applied by cobra afterwards),
// environment variables, .env files, config file, defaults.
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("HEALER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	viper.SetDefault("content_dir", "content")
	viper.SetDefault("build_dir", "build")
	viper.SetDefault("format", "json")

	// Search for an optional .healer.yaml in the working directory
	// and home directory.
	viper.SetConfigType("yaml")
	viper.SetConfigName(".healer")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	_ = viper.ReadInConfig()

	config := &Config{
		ContentDir: viper.GetString("content_dir"),
		BuildDir:   viper.GetString("build_dir"),
		Format:     viper.GetString("format"),
		Strict:     viper.GetBool("strict"),
		Verbose:    viper.GetBool("verbose"),
		Quiet:      viper.GetBool("quiet"),
		LogLevel:   getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat:  getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput:  getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// loadEnvFiles loads .env files without overriding real environment
// variables. Missing files are fine.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}

// getEnvOrDefault returns an environment variable value or default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

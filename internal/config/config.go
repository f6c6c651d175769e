// internal/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var (
	currentConfig *AppConfig
	configMutex   sync.RWMutex
	configFile    string
)

// AppConfig holds the full application configuration, including the pieces an
// operator may change at runtime (streaming pace) that are persisted back to
// config.json.
type AppConfig struct {
	Port      string `json:"port"`
	DataDir   string `json:"data_dir"`
	LogDir    string `json:"log_dir"`
	DebugMode bool   `json:"debug_mode"`

	// Streaming simulation pace, milliseconds.
	StreamInitialDelayMs int `json:"stream_initial_delay_ms"`
	StreamChunkDelayMs   int `json:"stream_chunk_delay_ms"`
}

// Config holds the environment-derived base configuration.
type Config struct {
	Port      string
	DataDir   string
	LogDir    string
	DebugMode bool

	StreamInitialDelay time.Duration
	StreamChunkDelay   time.Duration
}

// Load reads configuration from the environment (.env supported).
func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		Port:               getEnv("PORT", "8080"),
		DataDir:            getEnvPath("DATA_DIR", "data"),
		LogDir:             getEnvPath("LOG_DIR", "logs"),
		DebugMode:          getEnvBool("DEBUG_MODE", true),
		StreamInitialDelay: time.Duration(getEnvInt("STREAM_INITIAL_DELAY_MS", 400)) * time.Millisecond,
		StreamChunkDelay:   time.Duration(getEnvInt("STREAM_CHUNK_DELAY_MS", 80)) * time.Millisecond,
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvPath(key, defaultValue string) string {
	path := getEnv(key, defaultValue)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			fmt.Printf("warning: failed to create directory %s: %v\n", path, err)
		}
	}

	return path
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return defaultValue
}

// InitConfig initializes the config manager, merging any previously persisted
// config.json from the data directory over the environment defaults.
func InitConfig(dataDir string) error {
	configFile = filepath.Join(dataDir, "config.json")

	baseConfig, err := Load()
	if err != nil {
		return err
	}

	configMutex.Lock()
	defer configMutex.Unlock()

	currentConfig = &AppConfig{
		Port:                 baseConfig.Port,
		DataDir:              baseConfig.DataDir,
		LogDir:               baseConfig.LogDir,
		DebugMode:            baseConfig.DebugMode,
		StreamInitialDelayMs: int(baseConfig.StreamInitialDelay / time.Millisecond),
		StreamChunkDelayMs:   int(baseConfig.StreamChunkDelay / time.Millisecond),
	}

	if _, err := os.Stat(configFile); !os.IsNotExist(err) {
		data, err := os.ReadFile(configFile)
		if err == nil {
			var savedConfig AppConfig
			if json.Unmarshal(data, &savedConfig) == nil {
				// Environment wins for the base fields; the file keeps
				// only operator-tuned settings.
				savedConfig.Port = baseConfig.Port
				savedConfig.DataDir = baseConfig.DataDir
				savedConfig.LogDir = baseConfig.LogDir
				savedConfig.DebugMode = baseConfig.DebugMode

				if savedConfig.StreamInitialDelayMs <= 0 {
					savedConfig.StreamInitialDelayMs = currentConfig.StreamInitialDelayMs
				}
				if savedConfig.StreamChunkDelayMs <= 0 {
					savedConfig.StreamChunkDelayMs = currentConfig.StreamChunkDelayMs
				}

				currentConfig = &savedConfig
			}
		}
	}

	return SaveConfig()
}

// GetCurrentConfig returns a copy of the current configuration.
func GetCurrentConfig() *AppConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if currentConfig == nil {
		baseConfig, _ := Load()
		return &AppConfig{
			Port:                 baseConfig.Port,
			DataDir:              baseConfig.DataDir,
			LogDir:               baseConfig.LogDir,
			DebugMode:            baseConfig.DebugMode,
			StreamInitialDelayMs: int(baseConfig.StreamInitialDelay / time.Millisecond),
			StreamChunkDelayMs:   int(baseConfig.StreamChunkDelay / time.Millisecond),
		}
	}

	configCopy := *currentConfig
	return &configCopy
}

// UpdateStreamingConfig changes the simulated streaming pace and persists it.
func UpdateStreamingConfig(initialDelayMs, chunkDelayMs int) error {
	configMutex.Lock()
	defer configMutex.Unlock()

	if currentConfig == nil {
		return fmt.Errorf("config system not initialized")
	}

	if initialDelayMs >= 0 {
		currentConfig.StreamInitialDelayMs = initialDelayMs
	}
	if chunkDelayMs >= 0 {
		currentConfig.StreamChunkDelayMs = chunkDelayMs
	}

	return SaveConfig()
}

// SaveConfig persists the current configuration to config.json.
func SaveConfig() error {
	if currentConfig == nil {
		return fmt.Errorf("no config to save")
	}

	dir := filepath.Dir(configFile)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(currentConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	return os.WriteFile(configFile, data, 0644)
}

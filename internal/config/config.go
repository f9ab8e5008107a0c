package config

import (
	"os"
	"strconv"
)

type Config struct {
	ListenAddr          string
	DBPath              string
	LogLevel            string
	LogFile             string
	BusinessTimezone    string
	TelegramBotToken    string
	TelegramPollTimeout int
	ExtractorBackend    string
	ExtractorTimeout    int
	OllamaHost          string
	OllamaModel         string
	ClaudeAPIKey        string
	ClaudeModel         string
	ArchiveBackend      string
	ArchivePath         string
}

func Load() *Config {
	return &Config{
		ListenAddr:          getEnv("LISTEN_ADDR", ":8000"),
		DBPath:              getEnv("DB_PATH", "/data/marmitas.db"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFile:             getEnv("LOG_FILE", ""),
		BusinessTimezone:    getEnv("BUSINESS_TIMEZONE", "America/Sao_Paulo"),
		TelegramBotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramPollTimeout: getEnvInt("TELEGRAM_POLL_TIMEOUT", 60),
		ExtractorBackend:    getEnv("EXTRACTOR_BACKEND", "none"),
		ExtractorTimeout:    getEnvInt("EXTRACTOR_TIMEOUT", 30),
		OllamaHost:          getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:         getEnv("OLLAMA_MODEL", "llama3.2"),
		ClaudeAPIKey:        getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:         getEnv("CLAUDE_MODEL", "claude-3-5-haiku-latest"),
		ArchiveBackend:      getEnv("ARCHIVE_BACKEND", "none"),
		ArchivePath:         getEnv("ARCHIVE_LOCAL_PATH", "/data/notifications"),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

// getEnvInt falls back to defaultVal when the variable is unset or not a
// positive integer.
func getEnvInt(key string, defaultVal int) int {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}

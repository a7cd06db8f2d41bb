package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config содержит конфигурацию приложения
type Config struct {
	BotToken   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Пресеты и расписания пакетных операций
	PresetsDir    string // каталог *.yaml пресетов
	SchedulesFile string // YAML со списком регулярных запусков

	// Google Sheets
	GoogleCredentialsPath string
	GoogleDriveFolderID   string

	MetricsAddr string // адрес /metrics, пусто - не поднимать
	LogLevel    string // debug, info, warn, error

	// Лимиты безопасности по умолчанию для новой сессии
	DefaultMaxSets int
	DefaultMaxReps int

	// Редакторы, которые добавляются при старте бота
	EditorIDs []int64
}

// Load загружает конфигурацию из переменных окружения или .env файла
func Load() (*Config, error) {
	cfg, err := load(".env")
	if err != nil {
		return nil, err
	}
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN не задан")
	}
	return cfg, nil
}

// LoadOptional загружает конфигурацию без обязательного токена бота (для CLI)
func LoadOptional() (*Config, error) {
	return load(".env")
}

func load(envPath string) (*Config, error) {
	env, err := loadEnvFile(envPath)
	if err != nil {
		env = make(map[string]string)
	}

	getEnv := func(key, defaultValue string) string {
		if value := os.Getenv(key); value != "" {
			return value
		}
		if value, ok := env[key]; ok && value != "" {
			return value
		}
		return defaultValue
	}

	maxSets, err := strconv.Atoi(getEnv("DEFAULT_MAX_SETS", "8"))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_MAX_SETS: %w", err)
	}
	maxReps, err := strconv.Atoi(getEnv("DEFAULT_MAX_REPS", "15"))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_MAX_REPS: %w", err)
	}

	editorIDs, err := parseIDs(getEnv("EDITOR_IDS", ""))
	if err != nil {
		return nil, fmt.Errorf("EDITOR_IDS: %w", err)
	}

	cfg := &Config{
		BotToken:   getEnv("BOT_TOKEN", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "postgres"),

		PresetsDir:    getEnv("PRESETS_DIR", "presets"),
		SchedulesFile: getEnv("SCHEDULES_FILE", ""),

		GoogleCredentialsPath: getEnv("GOOGLE_CREDENTIALS_PATH", "google-credentials.json"),
		GoogleDriveFolderID:   getEnv("GOOGLE_DRIVE_FOLDER_ID", ""),

		MetricsAddr: getEnv("METRICS_ADDR", ":9090"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DefaultMaxSets: maxSets,
		DefaultMaxReps: maxReps,

		EditorIDs: editorIDs,
	}

	return cfg, nil
}

// DSN возвращает строку подключения к базе данных
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

// parseIDs разбирает список Telegram ID через запятую
func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// loadEnvFile читает .env файл
func loadEnvFile(filename string) (map[string]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	env := make(map[string]string)
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		env[key] = value
	}

	return env, scanner.Err()
}

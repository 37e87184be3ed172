package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del analizador.
type Config struct {
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	API      APIConfig      `yaml:"api"`
	Cache    CacheConfig    `yaml:"cache"`
	Insight  InsightConfig  `yaml:"insight"`
	Log      LogConfig      `yaml:"log"`
}

// AnalyzerConfig controla el comportamiento del analyzer.
type AnalyzerConfig struct {
	WatchIntervalSeconds int `yaml:"watch_interval_seconds"`
}

// APIConfig contiene los base URLs y credenciales de los sources externos.
type APIConfig struct {
	HeliusBase    string `yaml:"helius_base"`
	HeliusAPIKey  string `yaml:"helius_api_key"` // normalmente via HELIUS_API_KEY
	SolanaRPCURL  string `yaml:"solana_rpc_url"`
	CoinGeckoBase string `yaml:"coingecko_base"`
}

// CacheConfig controla dónde se persiste la cache de precios.
type CacheConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// InsightConfig controla el generador de narrativa.
type InsightConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Model        string `yaml:"model"`
	OpenAIAPIKey string `yaml:"openai_api_key"` // normalmente via OPENAI_API_KEY
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el .env si existe.
// Si el archivo YAML no existe se usan los defaults — los secretos llegan
// por entorno de todas formas.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// sin archivo: defaults + env
	case err != nil:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// WatchInterval devuelve el intervalo entre ciclos como time.Duration.
func (c *Config) WatchInterval() time.Duration {
	return time.Duration(c.Analyzer.WatchIntervalSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están
// presentes. Los secretos solo deberían venir por aquí.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HELIUS_API_KEY"); v != "" {
		cfg.API.HeliusAPIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Insight.OpenAIAPIKey = v
	}
	if v := os.Getenv("SOLANA_RPC_URL"); v != "" {
		cfg.API.SolanaRPCURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Analyzer.WatchIntervalSeconds <= 0 {
		cfg.Analyzer.WatchIntervalSeconds = 300
	}
	if cfg.API.HeliusBase == "" {
		cfg.API.HeliusBase = "https://api.helius.xyz"
	}
	if cfg.API.SolanaRPCURL == "" {
		cfg.API.SolanaRPCURL = "https://api.mainnet-beta.solana.com"
	}
	if cfg.API.CoinGeckoBase == "" {
		cfg.API.CoinGeckoBase = "https://api.coingecko.com"
	}
	if cfg.Cache.DSN == "" {
		cfg.Cache.DSN = "soltrack.db"
	}
	if cfg.Insight.Model == "" {
		cfg.Insight.Model = "gpt-4o-mini"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

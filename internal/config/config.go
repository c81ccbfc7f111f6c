package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/givingwi/chicken-settlement/internal/models"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Sheets   SheetsConfig   `mapstructure:"sheets"`
	Database DatabaseConfig `mapstructure:"database"`
	Report   ReportConfig   `mapstructure:"report"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// SheetsConfig holds the public Google Sheet export settings
type SheetsConfig struct {
	SheetID string        `mapstructure:"sheet_id"`
	GID     string        `mapstructure:"gid"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig holds price store configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// ReportConfig holds report output configuration
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// ProductPrice is one default catalog entry in the config file
type ProductPrice struct {
	Cost  float64 `mapstructure:"cost"`
	Price float64 `mapstructure:"price"`
}

// CatalogConfig holds the default price table used to seed an empty store
type CatalogConfig struct {
	Defaults map[string]ProductPrice `mapstructure:"defaults"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables. An empty
// path runs on defaults and environment overrides alone.
func Load(configPath string) (*Config, error) {
	viper.Reset()
	viper.AutomaticEnv()

	setDefaults()
	bindEnvVars()

	if configPath != "" {
		viper.SetConfigFile(configPath)
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 60*time.Second)

	// Sheets defaults
	viper.SetDefault("sheets.gid", "0")
	viper.SetDefault("sheets.timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/settlement.db")
	viper.SetDefault("database.max_open_conns", 5)
	viper.SetDefault("database.max_idle_conns", 2)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// Report defaults
	viper.SetDefault("report.output_dir", "chicken_reports")

	// Default price table, overridden by the persisted store once seeded
	viper.SetDefault("catalog.defaults", map[string]map[string]float64{
		"雞排":  {"cost": 80, "price": 170},
		"地瓜":  {"cost": 35, "price": 75},
		"棒腿":  {"cost": 80, "price": 170},
		"雞翅":  {"cost": 105, "price": 180},
		"雞腿":  {"cost": 80, "price": 170},
		"雞塊":  {"cost": 60, "price": 120},
		"雞米花": {"cost": 50, "price": 100},
		"雞柳條": {"cost": 70, "price": 140},
		"雞胸肉": {"cost": 75, "price": 150},
		"雞胗":  {"cost": 40, "price": 80},
		"雞心":  {"cost": 45, "price": 90},
		"雞脖子": {"cost": 30, "price": 60},
	})

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	viper.BindEnv("sheets.sheet_id", "SHEET_ID")
	viper.BindEnv("sheets.gid", "SHEET_GID")
	viper.BindEnv("database.path", "DATABASE_PATH")
	viper.BindEnv("report.output_dir", "REPORT_OUTPUT_DIR")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	for name, entry := range c.Catalog.Defaults {
		if entry.Cost < 0 || entry.Price < 0 {
			return fmt.Errorf("catalog.defaults[%s] has negative cost or price", name)
		}
	}
	return nil
}

// DefaultCatalog converts the configured default price table into a catalog
// snapshot, used to seed an empty price store.
func (c *Config) DefaultCatalog() models.Catalog {
	catalog := make(models.Catalog, len(c.Catalog.Defaults))
	for name, entry := range c.Catalog.Defaults {
		catalog[name] = models.ProductEntry{
			Name:  name,
			Cost:  entry.Cost,
			Price: entry.Price,
		}
	}
	return catalog
}

package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds run configuration. Values come from the environment (with an
// optional .env file) and may be overridden by CLI flags.
type Config struct {
	// DataDir holds the four source tables.
	DataDir string
	// RulesPath optionally points at a JSON rule table; empty means the
	// built-in default rules.
	RulesPath string
	// DBPath is the SQLite database the output tables are written to.
	DBPath string
	// OutDir receives the CSV artifacts.
	OutDir string

	CustomersFile string
	ProductsFile  string
	SalesFile     string
	LinesFile     string
}

// Load reads configuration from the environment, loading .env first when
// present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:       getenv("AURELION_DATA_DIR", "data"),
		RulesPath:     os.Getenv("AURELION_RULES_PATH"),
		DBPath:        getenv("AURELION_DB_PATH", "data/aurelion.db"),
		OutDir:        getenv("AURELION_OUT_DIR", "data"),
		CustomersFile: getenv("AURELION_CUSTOMERS_FILE", "clientes.xlsx"),
		ProductsFile:  getenv("AURELION_PRODUCTS_FILE", "productos.xlsx"),
		SalesFile:     getenv("AURELION_SALES_FILE", "ventas.xlsx"),
		LinesFile:     getenv("AURELION_LINES_FILE", "detalle_ventas.xlsx"),
	}
	return cfg
}

// SourcePath resolves a source file name against the data directory.
func (c *Config) SourcePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

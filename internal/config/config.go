package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/aqasim81/migration-healer/internal/analyzer"
	"github.com/aqasim81/migration-healer/internal/report"
)

// Default values for configuration fields.
const (
	DefaultMinDistinctTables    = analyzer.DefaultMinDistinctTables
	DefaultMinRepeats           = analyzer.DefaultMinRepeats
	DefaultCoreTableDigitPrefix = true
	DefaultVerifyLimit          = analyzer.DefaultVerifyLimit
	DefaultReportVerifyLimit    = report.DefaultReportVerifyLimit
	DefaultMaxInputBytes        = 16 << 20
	DefaultMySQLHost            = "mysql-service"
	DefaultMySQLUser            = "root"
)

// Config holds the application configuration loaded from file, environment, and flags.
type Config struct {
	MinDistinctTables    int
	MinRepeats           int
	CoreTableDigitPrefix bool
	VerifyLimit          int
	ReportVerifyLimit    int
	MaxInputBytes        int64
	MySQLHost            string
	MySQLUser            string
}

// yamlConfig is the raw YAML file representation. Pointers distinguish
// "unset" from an explicit zero or false.
type yamlConfig struct {
	MinDistinctTables    *int   `yaml:"min_distinct_tables"`
	MinRepeats           *int   `yaml:"min_repeats"`
	CoreTableDigitPrefix *bool  `yaml:"core_table_digit_prefix"`
	VerifyLimit          *int   `yaml:"verify_limit"`
	ReportVerifyLimit    *int   `yaml:"report_verify_limit"`
	MaxInputBytes        *int64 `yaml:"max_input_bytes"`
	MySQLHost            string `yaml:"mysql_host"`
	MySQLUser            string `yaml:"mysql_user"`
}

// New returns a Config populated with default values.
func New() *Config {
	return &Config{
		MinDistinctTables:    DefaultMinDistinctTables,
		MinRepeats:           DefaultMinRepeats,
		CoreTableDigitPrefix: DefaultCoreTableDigitPrefix,
		VerifyLimit:          DefaultVerifyLimit,
		ReportVerifyLimit:    DefaultReportVerifyLimit,
		MaxInputBytes:        DefaultMaxInputBytes,
		MySQLHost:            DefaultMySQLHost,
		MySQLUser:            DefaultMySQLUser,
	}
}

// Load reads a YAML configuration file and returns a Config.
// If allowMissing is true and the file does not exist, defaults are returned.
func Load(path string, allowMissing bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && allowMissing {
			return New(), nil
		}

		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return fromYAML(&raw), nil
}

// fromYAML converts the raw YAML representation to a Config with defaults applied.
func fromYAML(raw *yamlConfig) *Config {
	cfg := New()

	if raw.MinDistinctTables != nil {
		cfg.MinDistinctTables = *raw.MinDistinctTables
	}

	if raw.MinRepeats != nil {
		cfg.MinRepeats = *raw.MinRepeats
	}

	if raw.CoreTableDigitPrefix != nil {
		cfg.CoreTableDigitPrefix = *raw.CoreTableDigitPrefix
	}

	if raw.VerifyLimit != nil {
		cfg.VerifyLimit = *raw.VerifyLimit
	}

	if raw.ReportVerifyLimit != nil {
		cfg.ReportVerifyLimit = *raw.ReportVerifyLimit
	}

	if raw.MaxInputBytes != nil {
		cfg.MaxInputBytes = *raw.MaxInputBytes
	}

	if raw.MySQLHost != "" {
		cfg.MySQLHost = raw.MySQLHost
	}

	if raw.MySQLUser != "" {
		cfg.MySQLUser = raw.MySQLUser
	}

	return cfg
}

// MergeEnv overrides config fields from HEALER_* environment variables.
// Values that do not parse as integers are ignored.
func MergeEnv(cfg *Config) {
	if n, ok := envInt("HEALER_MIN_DISTINCT_TABLES"); ok {
		cfg.MinDistinctTables = int(n)
	}

	if n, ok := envInt("HEALER_MIN_REPEATS"); ok {
		cfg.MinRepeats = int(n)
	}

	if n, ok := envInt("HEALER_MAX_INPUT_BYTES"); ok {
		cfg.MaxInputBytes = n
	}

	if v := os.Getenv("HEALER_MYSQL_HOST"); v != "" {
		cfg.MySQLHost = v
	}

	if v := os.Getenv("HEALER_MYSQL_USER"); v != "" {
		cfg.MySQLUser = v
	}
}

// Policy returns the corruption policy described by cfg.
func (c *Config) Policy() analyzer.Policy {
	p := analyzer.Policy{
		MinDistinctTables: c.MinDistinctTables,
		MinRepeats:        c.MinRepeats,
		IsCoreTable:       analyzer.IsDigitPrefixed,
	}

	if !c.CoreTableDigitPrefix {
		p.IsCoreTable = analyzer.AnyTable
	}

	return p
}

// MySQLTarget returns the MySQL service used in generated check commands.
func (c *Config) MySQLTarget() analyzer.MySQLTarget {
	return analyzer.MySQLTarget{Host: c.MySQLHost, User: c.MySQLUser}
}

func envInt(key string) (int64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}

	return n, true
}

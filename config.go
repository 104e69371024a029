package bankxledger

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"gopkg.in/yaml.v3"
)

const envPrefix = "BANKX"

// Each binary sharing a store stamps ids with its own snowflake node.
const (
	ProcessServer = "server"
	ProcessWorker = "worker"
	ProcessCLI    = "cli"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMemory   = "memory"
)

type Config struct {
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	Database struct {
		Driver  string      `yaml:"driver" envconfig:"DRIVER"`
		ConnStr string      `yaml:"conn_str" envconfig:"CONN_STR"`
		NodeID  int64       `yaml:"node_id" envconfig:"NODE_ID"`
		MySQL   MySQLConfig `yaml:"mysql" envconfig:"MYSQL"`
	} `yaml:"database" envconfig:"DATABASE"`

	Engine struct {
		AccountPrefix  string         `yaml:"account_prefix" envconfig:"ACCOUNT_PREFIX"`
		NumberAttempts int            `yaml:"number_attempts" envconfig:"NUMBER_ATTEMPTS"`
		Transfer       TransferPolicy `yaml:"transfer" envconfig:"TRANSFER"`
	} `yaml:"engine" envconfig:"ENGINE"`

	Limits struct {
		Mutations int64         `yaml:"mutations" envconfig:"MUTATIONS"`
		Queries   int64         `yaml:"queries" envconfig:"QUERIES"`
		Timeout   time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	} `yaml:"limits" envconfig:"LIMITS"`

	Breaker struct {
		MaxRequests         uint32        `yaml:"max_requests" envconfig:"MAX_REQUESTS"`
		Interval            time.Duration `yaml:"interval" envconfig:"INTERVAL"`
		Timeout             time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
		ConsecutiveFailures uint32        `yaml:"consecutive_failures" envconfig:"CONSECUTIVE_FAILURES"`
	} `yaml:"breaker" envconfig:"BREAKER"`

	HTTP struct {
		Addr          string        `yaml:"addr" envconfig:"ADDR"`
		RatePerMinute int           `yaml:"rate_per_minute" envconfig:"RATE_PER_MINUTE"`
		ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
		WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
		IsDevelopment bool          `yaml:"is_development" envconfig:"IS_DEVELOPMENT"`
	} `yaml:"http" envconfig:"HTTP"`

	Redis struct {
		Addr        string        `yaml:"addr" envconfig:"ADDR"`
		LockPrefix  string        `yaml:"lock_prefix" envconfig:"LOCK_PREFIX"`
		LockTTL     time.Duration `yaml:"lock_ttl" envconfig:"LOCK_TTL"`
		LockTimeout time.Duration `yaml:"lock_timeout" envconfig:"LOCK_TIMEOUT"`
	} `yaml:"redis" envconfig:"REDIS"`

	Worker struct {
		InterestCron string `yaml:"interest_cron" envconfig:"INTEREST_CRON"`
		Concurrency  int    `yaml:"concurrency" envconfig:"CONCURRENCY"`
		NodeID       int64  `yaml:"node_id" envconfig:"NODE_ID"`
	} `yaml:"worker" envconfig:"WORKER"`

	CLI struct {
		NodeID int64 `yaml:"node_id" envconfig:"NODE_ID"`
	} `yaml:"cli" envconfig:"CLI"`
}

// DefaultConfig is the configuration LoadConfig starts from before the file
// and the environment are applied.
func DefaultConfig() Config {
	var cfg Config
	cfg.LogLevel = "info"
	cfg.Database.Driver = DriverPostgres
	cfg.Database.NodeID = 1
	cfg.Engine.AccountPrefix = DefaultAccountPrefix
	cfg.Engine.NumberAttempts = DefaultNumberAttempts
	cfg.Limits.Mutations = 64
	cfg.Limits.Queries = 128
	cfg.Limits.Timeout = 2 * time.Second
	cfg.Breaker.MaxRequests = 1
	cfg.Breaker.Interval = time.Minute
	cfg.Breaker.Timeout = 30 * time.Second
	cfg.Breaker.ConsecutiveFailures = 5
	cfg.HTTP.Addr = ":3000"
	cfg.HTTP.RatePerMinute = 600
	cfg.HTTP.ReadTimeout = 15 * time.Second
	cfg.HTTP.WriteTimeout = 15 * time.Second
	cfg.Redis.LockPrefix = "bankx:lock"
	cfg.Redis.LockTTL = 10 * time.Second
	cfg.Redis.LockTimeout = 5 * time.Second
	cfg.Worker.InterestCron = "0 1 * * *"
	cfg.Worker.Concurrency = 2
	cfg.Worker.NodeID = 2
	cfg.CLI.NodeID = 3
	return cfg
}

// LoadConfig reads the yaml file at path, if any, over the defaults and then
// applies BANKX_* environment overrides, e.g. BANKX_DATABASE_CONN_STR.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		fl, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer fl.Close()
		if err = yaml.NewDecoder(fl).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decoding config file: %w", err)
		}
	}
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.ConnStr == "" {
			return errors.New("database.conn_str is required for the postgres driver")
		}
	case DriverMySQL:
		if c.Database.MySQL.DSN == "" {
			return errors.New("database.mysql.dsn is required for the mysql driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Limits.Mutations <= 0 || c.Limits.Queries <= 0 {
		return errors.New("limits must be positive")
	}
	maxNode := int64(-1 ^ (-1 << snowflake.NodeBits))
	nodes := map[int64]string{}
	for _, n := range []struct {
		name string
		id   int64
	}{
		{"database.node_id", c.Database.NodeID},
		{"worker.node_id", c.Worker.NodeID},
		{"cli.node_id", c.CLI.NodeID},
	} {
		if n.id < 0 || n.id > maxNode {
			return fmt.Errorf("%s must be between 0 and %d", n.name, maxNode)
		}
		if other, ok := nodes[n.id]; ok {
			return fmt.Errorf("%s and %s must differ", other, n.name)
		}
		nodes[n.id] = n.name
	}
	return nil
}

// ForProcess returns a copy of c whose database.node_id is the node
// configured for process.
func (c *Config) ForProcess(process string) *Config {
	cp := *c
	switch process {
	case ProcessWorker:
		cp.Database.NodeID = c.Worker.NodeID
	case ProcessCLI:
		cp.Database.NodeID = c.CLI.NodeID
	}
	return &cp
}

func (c *Config) ServiceOptions() []Option {
	return []Option{
		WithAccountPrefix(c.Engine.AccountPrefix),
		WithNumberAttempts(c.Engine.NumberAttempts),
		WithTransferPolicy(c.Engine.Transfer),
	}
}

func (c *Config) BreakerSettings() gobreaker.Settings {
	failures := c.Breaker.ConsecutiveFailures
	return gobreaker.Settings{
		MaxRequests: c.Breaker.MaxRequests,
		Interval:    c.Breaker.Interval,
		Timeout:     c.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
	}
}

func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// OpenRepository connects the store selected by database.driver. The returned
// func releases it.
func OpenRepository(cfg *Config, log *zerolog.Logger) (Repository, func(), error) {
	switch cfg.Database.Driver {
	case DriverPostgres:
		pg, err := NewPostgresEndpoint(cfg.Database.ConnStr, cfg.Database.NodeID, log)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	case DriverMySQL:
		my, err := NewMySQLEndpoint(cfg.Database.MySQL, cfg.Database.NodeID, log)
		if err != nil {
			return nil, nil, err
		}
		if err = my.Migrate(); err != nil {
			my.Close()
			return nil, nil, err
		}
		return my, func() { my.Close() }, nil
	case DriverMemory:
		mem, err := NewMemoryStore(cfg.Database.NodeID)
		if err != nil {
			return nil, nil, err
		}
		return mem, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
}

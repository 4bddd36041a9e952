package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug              = "debug"
	ConfigMinSearchTime      = "min-search-time"
	ConfigMaxDepth           = "max-depth"
	ConfigSolver             = "solver"
	ConfigLookaheadLevels    = "lookahead-levels"
	ConfigWeightSmoothness   = "weights.smoothness"
	ConfigWeightMonotonicity = "weights.monotonicity"
	ConfigWeightEmpty        = "weights.empty"
	ConfigWeightDuplication  = "weights.duplication"
	ConfigWeightMaxTile      = "weights.max-tile"
	ConfigNatsURL            = "nats-url"
	ConfigBotChannel         = "bot-channel"
	ConfigListenAddr         = "listen-addr"
	ConfigAnalyzeThreads     = "analyze-threads"
	ConfigDecisionMemoSize   = "decision-memo-size"
	ConfigCPUProfile         = "cpu-profile"
	ConfigMemProfile         = "mem-profile"
	ConfigDataPath           = "data-path"
)

const (
	SolverNegamax   = "negamax"
	SolverLookahead = "lookahead"
)

// Config wraps a viper instance. Values come, in increasing order of
// precedence, from defaults, a config.yaml file, SLIDE2048_* environment
// variables and command-line flags.
type Config struct {
	*viper.Viper
	args []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigMinSearchTime, 150)
	v.SetDefault(ConfigMaxDepth, 20)
	v.SetDefault(ConfigSolver, SolverNegamax)
	v.SetDefault(ConfigLookaheadLevels, 6)
	v.SetDefault(ConfigWeightSmoothness, 0.2)
	v.SetDefault(ConfigWeightMonotonicity, 1.2)
	v.SetDefault(ConfigWeightEmpty, 2.8)
	v.SetDefault(ConfigWeightDuplication, 0.2)
	v.SetDefault(ConfigWeightMaxTile, 1.1)
	v.SetDefault(ConfigNatsURL, "nats://localhost:4222")
	v.SetDefault(ConfigBotChannel, "slide2048.bot")
	v.SetDefault(ConfigListenAddr, ":8089")
	v.SetDefault(ConfigAnalyzeThreads, 4)
	v.SetDefault(ConfigDecisionMemoSize, 4096)
	v.SetDefault(ConfigCPUProfile, "")
	v.SetDefault(ConfigMemProfile, "")
	v.SetDefault(ConfigDataPath, "./data")
}

// DefaultConfig returns a config with only the defaults set. It is mostly
// useful for tests.
func DefaultConfig() Config {
	v := viper.New()
	setDefaults(v)
	return Config{Viper: v}
}

func flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("slide2048", pflag.ContinueOnError)
	// everything after the first positional argument is a shell command
	fs.SetInterspersed(false)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigMinSearchTime, 150, "minimum search time per decision, in milliseconds")
	fs.Int(ConfigMaxDepth, 20, "hard cap on the iterative deepening depth")
	fs.String(ConfigSolver, SolverNegamax, "solver to use: negamax or lookahead")
	fs.Int(ConfigLookaheadLevels, 6, "levels for the lookahead solver")
	fs.String(ConfigNatsURL, "nats://localhost:4222", "the NATS server URL")
	fs.String(ConfigBotChannel, "slide2048.bot", "the NATS subject the bot listens on")
	fs.String(ConfigListenAddr, ":8089", "listen address for the websocket server")
	fs.Int(ConfigAnalyzeThreads, 4, "number of positions analyzed concurrently")
	fs.Int(ConfigDecisionMemoSize, 4096, "number of decisions the bot remembers")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigMemProfile, "", "write a memory profile to this file")
	fs.String(ConfigDataPath, "./data", "directory holding positions and scripts")
	return fs
}

// Load reads the config file, the environment and the given arguments.
// Arguments that are not flags are left for the caller in Args().
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	setDefaults(c.Viper)

	c.SetConfigName("config")
	c.SetConfigType("yaml")
	c.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		c.AddConfigPath(filepath.Join(home, ".slide2048"))
	}
	c.SetEnvPrefix("slide2048")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	c.AutomaticEnv()

	if err := c.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
		log.Debug().Msg("no config file found, using defaults")
	}

	fs := flagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.args = fs.Args()
	return nil
}

// Args returns the positional (non-flag) arguments given to Load.
func (c *Config) Args() []string {
	return c.args
}

// AdjustRelativePaths makes the data path absolute relative to the
// executable's directory, if it was given as a relative path.
func (c *Config) AdjustRelativePaths(basepath string) {
	p := c.GetString(ConfigDataPath)
	if strings.HasPrefix(p, "./") {
		c.Set(ConfigDataPath, filepath.Join(basepath, p))
	}
}

// SanitizedSettings returns the settings without anything that looks like a
// credential, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	settings := c.AllSettings()
	for k := range settings {
		lk := strings.ToLower(k)
		if strings.Contains(lk, "secret") || strings.Contains(lk, "token") ||
			strings.Contains(lk, "password") {
			settings[k] = "<redacted>"
		}
	}
	return settings
}

// Write persists the current settings to the config file in use, or to
// ./config.yaml if none was read.
func (c *Config) Write() error {
	if c.ConfigFileUsed() == "" {
		return c.WriteConfigAs("config.yaml")
	}
	return c.WriteConfig()
}

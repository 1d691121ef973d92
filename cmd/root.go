package cmd

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mrbane10/AI-CV-MatchMaker/internal/jobpage"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/logger"
	"github.com/mrbane10/AI-CV-MatchMaker/internal/web"
)

const (
	app = "cv-matchmaker"

	defaultMaxLogLength = 200
)

type Config struct {
	LLM       *LLMConfig       `mapstructure:"llm"`
	Server    *ServerConfig    `mapstructure:"server"`
	Fetch     *FetchConfig     `mapstructure:"fetch"`
	Telemetry *TelemetryConfig `mapstructure:"telemetry"`
	Log       *LogConfig       `mapstructure:"log"`
}

type LLMConfig struct {
	Provider   string `mapstructure:"provider"`
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

type ServerConfig struct {
	Listen      string `mapstructure:"listen"`
	MaxUploadMB int    `mapstructure:"max-upload-mb"`
}

type FetchConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user-agent"`
}

type TelemetryConfig struct {
	CollectorURL string `mapstructure:"collector-url"`
}

type LogConfig struct {
	MaxLength int `mapstructure:"max-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cv-matchmaker matches a resume against job postings with an LLM",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	bindEnv(map[string]string{
		"llm.provider":            "LLM_PROVIDER",
		"llm.api-key":             "API_KEY",
		"llm.api-key-file":        "API_KEY_FILE",
		"telemetry.collector-url": "OTEL_COLLECTOR_URL",
	})
	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cv-matchmaker.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func bindEnv(keys map[string]string) {
	for key, env := range keys {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}
}

func setDefaults() {
	viper.SetDefault("llm.provider", "groq")
	viper.SetDefault("server.listen", web.DefaultListen)
	viper.SetDefault("server.max-upload-mb", web.DefaultMaxUploadMB)
	viper.SetDefault("fetch.timeout", jobpage.DefaultTimeout)
	viper.SetDefault("fetch.user-agent", jobpage.DefaultUserAgent)
	viper.SetDefault("log.max-length", defaultMaxLogLength)
}

func initConfig() {
	if versionCmd.CalledAs() != "" {
		return
	}

	// .env is optional, variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless given explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return config, err
	}
	if config == nil {
		return nil, errors.New("config is empty")
	}

	if config.LLM == nil {
		config.LLM = &LLMConfig{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	if config.Fetch == nil {
		config.Fetch = &FetchConfig{}
	}
	if config.Telemetry == nil {
		config.Telemetry = &TelemetryConfig{}
	}
	if config.Log == nil {
		config.Log = &LogConfig{MaxLength: defaultMaxLogLength}
	}

	return config, nil
}

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

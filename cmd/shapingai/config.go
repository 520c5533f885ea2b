package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/shapingai/shaping-ai-dashboard/internal/backup"
	"github.com/shapingai/shaping-ai-dashboard/internal/corpus"
	"github.com/shapingai/shaping-ai-dashboard/internal/dashboard"
	"github.com/shapingai/shaping-ai-dashboard/internal/model"
	"github.com/shapingai/shaping-ai-dashboard/internal/network"
	"github.com/shapingai/shaping-ai-dashboard/internal/socketrpc"
)

const (
	defaultBindHost         = "127.0.0.1"
	defaultAPIPort          = 3000
	defaultQueryTimeout     = 30 * time.Second
	defaultMaxResultLimit   = model.DefaultMaxLimit
	defaultSnapshotKeepLast = 5
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	DataDir         string `mapstructure:"data-dir"`
	ArticlesPath    string `mapstructure:"articles-path"`
	BigramsPath     string `mapstructure:"bigrams-path"`
	JournalsPath    string `mapstructure:"journals-path"`
	TopicSeriesPath string `mapstructure:"topic-series-path"`
	TopicModelPath  string `mapstructure:"topic-model-path"`
	VocabularyPath  string `mapstructure:"vocabulary-path"`

	MirrorEnabled bool          `mapstructure:"mirror-enabled"`
	DBPath        string        `mapstructure:"db-path"`
	QueryTimeout  time.Duration `mapstructure:"query-timeout"`

	APIEnabled bool   `mapstructure:"api-enabled"`
	APIPort    int    `mapstructure:"api-port"`
	APIAddr    string `mapstructure:"api-addr"`
	SocketPath string `mapstructure:"socket-path"`

	MaxResultLimit int    `mapstructure:"max-result-limit"`
	BundlePath     string `mapstructure:"bundle-path"`
	BundleURL      string `mapstructure:"bundle-url"`
	ViewerURL      string `mapstructure:"viewer-url"`

	SnapshotEnabled   bool   `mapstructure:"snapshot-enabled"`
	SnapshotDir       string `mapstructure:"snapshot-dir"`
	SnapshotKeepLast  int    `mapstructure:"snapshot-keep-last"`
	SnapshotBucketURL string `mapstructure:"snapshot-bucket-url"`
	S3Endpoint        string `mapstructure:"s3-endpoint"`
	S3Region          string `mapstructure:"s3-region"`
	S3AccessKey       string `mapstructure:"s3-access-key"`
	S3SecretKey       string `mapstructure:"s3-secret-key"`
	S3SessionToken    string `mapstructure:"s3-session-token"`
	S3UseSSL          bool   `mapstructure:"s3-use-ssl"`

	ConfigPath string `mapstructure:"-"` // not from config file
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("SHAPINGAI")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("data-dir", ".")
	for _, k := range []string{"articles-path", "bigrams-path", "journals-path", "topic-series-path", "topic-model-path", "vocabulary-path"} {
		v.SetDefault(k, "")
	}
	v.SetDefault("mirror-enabled", true)
	v.SetDefault("db-path", filepath.Join(home, ".local", "share", "shapingai", "shapingai.duckdb"))
	v.SetDefault("query-timeout", defaultQueryTimeout)
	v.SetDefault("api-enabled", true)
	v.SetDefault("api-port", defaultAPIPort)
	v.SetDefault("api-addr", "")
	v.SetDefault("socket-path", socketrpc.DefaultSocketPath())
	v.SetDefault("max-result-limit", defaultMaxResultLimit)
	v.SetDefault("bundle-path", "")
	v.SetDefault("bundle-url", network.DefaultBundleURL)
	v.SetDefault("viewer-url", network.DefaultViewerURL)
	v.SetDefault("snapshot-enabled", false)
	v.SetDefault("snapshot-dir", filepath.Join(home, ".local", "share", "shapingai", "snapshots"))
	v.SetDefault("snapshot-keep-last", defaultSnapshotKeepLast)
	v.SetDefault("snapshot-bucket-url", "")
	v.SetDefault("s3-endpoint", "")
	v.SetDefault("s3-region", "")
	v.SetDefault("s3-access-key", "")
	v.SetDefault("s3-secret-key", "")
	v.SetDefault("s3-session-token", "")
	v.SetDefault("s3-use-ssl", true)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "shapingai", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ConfigPath = v.ConfigFileUsed()
	if _, err := os.Stat(cfg.ConfigPath); err != nil {
		cfg.ConfigPath = ""
	}

	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return cfg, fmt.Errorf("invalid api-port: %d", cfg.APIPort)
	}
	if cfg.MaxResultLimit < 1 {
		return cfg, fmt.Errorf("invalid max-result-limit: %d", cfg.MaxResultLimit)
	}
	if cfg.QueryTimeout <= 0 {
		return cfg, fmt.Errorf("invalid query-timeout: %s", cfg.QueryTimeout)
	}

	cfg.DataDir = expandHome(cfg.DataDir, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)
	cfg.BundlePath = expandHome(cfg.BundlePath, home)
	cfg.SnapshotDir = expandHome(cfg.SnapshotDir, home)

	if cfg.APIAddr == "" {
		cfg.APIAddr = net.JoinHostPort(defaultBindHost, strconv.Itoa(cfg.APIPort))
	}

	return cfg, nil
}

func expandHome(path, home string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// corpusPaths resolves the input files: the conventional layout under
// data-dir, with any explicit path taking precedence.
func (c appConfig) corpusPaths() corpus.Paths {
	p := corpus.DefaultPaths(c.DataDir)
	for _, o := range []struct {
		dst *string
		src string
	}{
		{&p.Articles, c.ArticlesPath},
		{&p.Bigrams, c.BigramsPath},
		{&p.Journals, c.JournalsPath},
		{&p.TopicSeries, c.TopicSeriesPath},
		{&p.TopicModel, c.TopicModelPath},
		{&p.Vocabulary, c.VocabularyPath},
	} {
		if o.src != "" {
			*o.dst = o.src
		}
	}
	return p
}

func (c appConfig) dashboardConfig() dashboard.Config {
	return dashboard.Config{
		MaxLimit:  c.MaxResultLimit,
		ViewerURL: c.ViewerURL,
		BundleURL: c.BundleURL,
	}
}

func (c appConfig) backupConfig() backup.Config {
	return backup.Config{
		Enabled:        c.SnapshotEnabled && c.MirrorEnabled,
		LocalDir:       c.SnapshotDir,
		KeepLast:       c.SnapshotKeepLast,
		BucketURL:      c.SnapshotBucketURL,
		S3Endpoint:     c.S3Endpoint,
		S3Region:       c.S3Region,
		S3AccessKey:    c.S3AccessKey,
		S3SecretKey:    c.S3SecretKey,
		S3SessionToken: c.S3SessionToken,
		S3UseSSL:       c.S3UseSSL,
	}
}

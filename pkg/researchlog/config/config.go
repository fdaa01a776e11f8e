package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/tendant/researchlog/pkg/researchlog"
	repofs "github.com/tendant/researchlog/pkg/researchlog/repo/fs"
	"github.com/tendant/researchlog/pkg/researchlog/repo/memory"
	fsstorage "github.com/tendant/researchlog/pkg/researchlog/storage/fs"
	memorystorage "github.com/tendant/researchlog/pkg/researchlog/storage/memory"
	s3storage "github.com/tendant/researchlog/pkg/researchlog/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	cfg.resolve()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:           "8080",
		Environment:    "development",
		DataDir:        "./data",
		ArticleStorage: "fs",
		AssetStorage:   "fs",
		MaxUploadBytes: 32 << 20,
		LogLevel:       "info",
		S3: S3Config{
			Region: "us-east-1",
		},
	}
}

// ServerConfig represents server configuration for the research log
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Storage roots. Empty article and asset directories are derived from
	// DataDir.
	DataDir     string
	ArticlesDir string
	AssetsDir   string

	ArticleStorage string // "fs", "memory"
	AssetStorage   string // "fs", "memory", "s3"
	S3             S3Config

	MaxUploadBytes int64

	LogLevel  string
	LogFormat string // "text", "json"; empty picks by environment
}

// S3Config configures the S3 asset store
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	Prefix          string
	CreateBucket    bool
}

func (c *ServerConfig) resolve() {
	if c.ArticlesDir == "" {
		c.ArticlesDir = filepath.Join(c.DataDir, "article")
	}
	if c.AssetsDir == "" {
		c.AssetsDir = filepath.Join(c.DataDir, "assets", "pictures")
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
		if c.Environment == "development" {
			c.LogFormat = "text"
		}
	}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.ArticleStorage {
	case "memory":
	case "fs":
		if c.ArticlesDir == "" {
			return errors.New("articles directory is required for fs article storage")
		}
	default:
		return fmt.Errorf("article_storage must be 'fs' or 'memory', got: %s", c.ArticleStorage)
	}

	switch c.AssetStorage {
	case "memory":
	case "fs":
		if c.AssetsDir == "" {
			return errors.New("assets directory is required for fs asset storage")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("s3 bucket is required when asset_storage is 's3'")
		}
	default:
		return fmt.Errorf("asset_storage must be 'fs', 'memory' or 's3', got: %s", c.AssetStorage)
	}

	if c.MaxUploadBytes <= 0 {
		return errors.New("max_upload_bytes must be positive")
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be 'text' or 'json', got: %s", c.LogFormat)
	}

	return nil
}

// BuildArticleRepository creates the configured article repository
func (c *ServerConfig) BuildArticleRepository() (researchlog.ArticleRepository, error) {
	switch c.ArticleStorage {
	case "memory":
		return memory.New(), nil
	case "fs":
		return repofs.New(repofs.Config{BaseDir: c.ArticlesDir})
	default:
		return nil, fmt.Errorf("unsupported article storage: %s", c.ArticleStorage)
	}
}

// BuildBlobStore creates the configured asset store
func (c *ServerConfig) BuildBlobStore() (researchlog.BlobStore, error) {
	switch c.AssetStorage {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(fsstorage.Config{BaseDir: c.AssetsDir})
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 c.S3.Region,
			Bucket:                 c.S3.Bucket,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			Prefix:                 c.S3.Prefix,
			CreateBucketIfNotExist: c.S3.CreateBucket,
		})
	default:
		return nil, fmt.Errorf("unsupported asset storage: %s", c.AssetStorage)
	}
}

// BuildService creates a Service from the configuration. Extra options,
// such as a logger or event sink, are applied after the storage options.
func (c *ServerConfig) BuildService(extra ...researchlog.Option) (researchlog.Service, error) {
	repo, err := c.BuildArticleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to build article repository: %w", err)
	}

	store, err := c.BuildBlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build asset store: %w", err)
	}

	options := []researchlog.Option{
		researchlog.WithArticleRepository(repo),
		researchlog.WithBlobStore(store),
	}
	options = append(options, extra...)

	return researchlog.New(options...)
}

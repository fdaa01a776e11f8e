package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig is the environment variable view of ServerConfig.
type envConfig struct {
	Port        string `env:"PORT" env-default:"8080" env-description:"HTTP listen port"`
	Environment string `env:"ENVIRONMENT" env-default:"development" env-description:"development, production or testing"`

	DataDir     string `env:"DATA_DIR" env-default:"./data" env-description:"Root of the default storage layout"`
	ArticlesDir string `env:"ARTICLES_DIR" env-description:"Article documents directory (default $DATA_DIR/article)"`
	AssetsDir   string `env:"ASSETS_DIR" env-description:"Asset directory (default $DATA_DIR/assets/pictures)"`

	ArticleStorage string `env:"ARTICLE_STORAGE" env-default:"fs" env-description:"Article storage: fs or memory"`
	AssetStorage   string `env:"ASSET_STORAGE" env-default:"fs" env-description:"Asset storage: fs, memory or s3"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" env-default:"33554432" env-description:"Largest accepted upload body in bytes"`

	S3Bucket          string `env:"S3_BUCKET" env-description:"S3 bucket for assets"`
	S3Region          string `env:"S3_REGION" env-default:"us-east-1" env-description:"S3 region"`
	S3Endpoint        string `env:"S3_ENDPOINT" env-description:"Custom endpoint for S3-compatible services"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID" env-description:"S3 access key (default credential chain when empty)"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY" env-description:"S3 secret key"`
	S3UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" env-default:"false" env-description:"Use path-style S3 addressing"`
	S3Prefix          string `env:"S3_PREFIX" env-description:"Key prefix for stored assets"`
	S3CreateBucket    bool   `env:"S3_CREATE_BUCKET" env-default:"false" env-description:"Create the bucket if it does not exist"`

	LogLevel  string `env:"LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
	LogFormat string `env:"LOG_FORMAT" env-description:"text or json (default text in development)"`
}

// WithEnv reads the configuration from environment variables. Variables
// that are unset take the documented defaults, so options applied after
// WithEnv override the environment.
func WithEnv() Option {
	return func(c *ServerConfig) error {
		var env envConfig
		if err := cleanenv.ReadEnv(&env); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}

		c.Port = env.Port
		c.Environment = env.Environment
		c.DataDir = env.DataDir
		c.ArticlesDir = env.ArticlesDir
		c.AssetsDir = env.AssetsDir
		c.ArticleStorage = env.ArticleStorage
		c.AssetStorage = env.AssetStorage
		c.MaxUploadBytes = env.MaxUploadBytes
		c.S3 = S3Config{
			Bucket:          env.S3Bucket,
			Region:          env.S3Region,
			Endpoint:        env.S3Endpoint,
			AccessKeyID:     env.S3AccessKeyID,
			SecretAccessKey: env.S3SecretAccessKey,
			UsePathStyle:    env.S3UsePathStyle,
			Prefix:          env.S3Prefix,
			CreateBucket:    env.S3CreateBucket,
		}
		c.LogLevel = env.LogLevel
		c.LogFormat = env.LogFormat
		return nil
	}
}

// EnvUsage describes every environment variable WithEnv reads.
func EnvUsage() (string, error) {
	header := "Environment variables:"
	return cleanenv.GetDescription(&envConfig{}, &header)
}

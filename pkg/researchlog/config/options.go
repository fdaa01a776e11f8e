package config

import (
	"fmt"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithDataDir sets the root the default article and asset directories are
// derived from
func WithDataDir(dir string) Option {
	return func(c *ServerConfig) error {
		if dir == "" {
			return fmt.Errorf("data directory cannot be empty")
		}
		c.DataDir = dir
		return nil
	}
}

// WithArticlesDir stores articles in dir using the filesystem repository
func WithArticlesDir(dir string) Option {
	return func(c *ServerConfig) error {
		if dir == "" {
			return fmt.Errorf("articles directory cannot be empty")
		}
		c.ArticleStorage = "fs"
		c.ArticlesDir = dir
		return nil
	}
}

// WithAssetsDir stores assets in dir using the filesystem backend
func WithAssetsDir(dir string) Option {
	return func(c *ServerConfig) error {
		if dir == "" {
			return fmt.Errorf("assets directory cannot be empty")
		}
		c.AssetStorage = "fs"
		c.AssetsDir = dir
		return nil
	}
}

// WithMemoryStorage keeps articles and assets in memory
func WithMemoryStorage() Option {
	return func(c *ServerConfig) error {
		c.ArticleStorage = "memory"
		c.AssetStorage = "memory"
		return nil
	}
}

// WithS3Assets stores assets in S3
func WithS3Assets(s3 S3Config) Option {
	return func(c *ServerConfig) error {
		if s3.Bucket == "" {
			return fmt.Errorf("s3 bucket cannot be empty")
		}
		if s3.Region == "" {
			s3.Region = "us-east-1"
		}
		c.AssetStorage = "s3"
		c.S3 = s3
		return nil
	}
}

// WithMaxUploadBytes bounds the size of an upload request body
func WithMaxUploadBytes(n int64) Option {
	return func(c *ServerConfig) error {
		if n <= 0 {
			return fmt.Errorf("max upload bytes must be positive, got: %d", n)
		}
		c.MaxUploadBytes = n
		return nil
	}
}

// WithLogging sets the log level and format
func WithLogging(level, format string) Option {
	return func(c *ServerConfig) error {
		c.LogLevel = level
		c.LogFormat = format
		return nil
	}
}

package config

import "fmt"

// Storage drivers.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// StorageConfig selects where uploaded resume assets live.
type StorageConfig struct {
	Driver     string
	UploadsDir string
	S3         S3Config
}

// S3Config addresses an S3 compatible bucket (AWS S3, Cloudflare R2, MinIO).
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewStorageConfig reads STORAGE_DRIVER (local|s3, default local), UPLOADS_DIR
// (default uploads) and the S3_* variables.
func NewStorageConfig() (*StorageConfig, error) {
	config := &StorageConfig{
		Driver:     envOr("STORAGE_DRIVER", StorageLocal),
		UploadsDir: envOr("UPLOADS_DIR", "uploads"),
		S3: S3Config{
			Bucket:    envOr("S3_BUCKET", ""),
			Region:    envOr("S3_REGION", "auto"),
			Endpoint:  envOr("S3_ENDPOINT", ""),
			AccessKey: envOr("S3_ACCESS_KEY", ""),
			SecretKey: envOr("S3_SECRET_KEY", ""),
		},
	}
	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *StorageConfig) normalize() error {
	switch c.Driver {
	case StorageLocal:
		if c.UploadsDir == "" {
			return fmt.Errorf("UPLOADS_DIR cannot be empty")
		}
	case StorageS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
		if (c.S3.AccessKey == "") != (c.S3.SecretKey == "") {
			return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY must be set together")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (want %s or %s)", c.Driver, StorageLocal, StorageS3)
	}
	return nil
}

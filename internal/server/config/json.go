package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/filevault/internal/flagx"
	"github.com/dmitrijs2005/filevault/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "30s" and integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP        string         `json:"endpoint_addr_http"`
	StorageBackend          string         `json:"storage_backend"`
	DatabaseDSN             string         `json:"database_dsn"`
	SecretKey               string         `json:"secret_key"`
	MaxFileSizeBytes        int64          `json:"max_file_size_bytes"`
	ClassifierEndpoint      string         `json:"classifier_endpoint"`
	ClassifierModel         string         `json:"classifier_model"`
	ClassifierTimeout       timex.Duration `json:"classifier_timeout"`
	S3RootUser              string         `json:"s3_root_user"`
	S3RootPassword          string         `json:"s3_root_password"`
	S3Bucket                string         `json:"s3_bucket"`
	S3Region                string         `json:"s3_region"`
	S3BaseEndpoint          string         `json:"s3_base_endpoint"`
	PresignValidityDuration timex.Duration `json:"presign_validity_duration"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The JSON file path comes from the -c or -config command-line flags; if
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics: a requested-but-broken config
// file should stop startup.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.StorageBackend != "" {
		config.StorageBackend = c.StorageBackend
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.MaxFileSizeBytes > 0 {
		config.MaxFileSizeBytes = c.MaxFileSizeBytes
	}
	if c.ClassifierEndpoint != "" {
		config.ClassifierEndpoint = c.ClassifierEndpoint
	}
	if c.ClassifierModel != "" {
		config.ClassifierModel = c.ClassifierModel
	}
	if c.ClassifierTimeout.Duration > 0 {
		config.ClassifierTimeout = time.Duration(c.ClassifierTimeout.Duration)
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
	if c.PresignValidityDuration.Duration > 0 {
		config.PresignValidityDuration = time.Duration(c.PresignValidityDuration.Duration)
	}
}

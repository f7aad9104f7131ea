package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays configuration from environment variables. A .env file,
// if present, is loaded by main via godotenv before this runs.
//
// Recognized variables:
//
//	FILEVAULT_HTTP_ADDR, FILEVAULT_STORAGE_BACKEND, FILEVAULT_DATABASE_DSN,
//	FILEVAULT_SECRET_KEY, FILEVAULT_MAX_FILE_SIZE,
//	FILEVAULT_CLASSIFIER_ENDPOINT, FILEVAULT_CLASSIFIER_MODEL,
//	FILEVAULT_CLASSIFIER_TIMEOUT,
//	FILEVAULT_S3_USER, FILEVAULT_S3_PASSWORD, FILEVAULT_S3_BUCKET,
//	FILEVAULT_S3_REGION, FILEVAULT_S3_ENDPOINT, FILEVAULT_PRESIGN_VALIDITY
func parseEnv(config *Config) {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	setString("FILEVAULT_HTTP_ADDR", &config.EndpointAddrHTTP)
	setString("FILEVAULT_STORAGE_BACKEND", &config.StorageBackend)
	setString("FILEVAULT_DATABASE_DSN", &config.DatabaseDSN)
	setString("FILEVAULT_SECRET_KEY", &config.SecretKey)
	setString("FILEVAULT_CLASSIFIER_ENDPOINT", &config.ClassifierEndpoint)
	setString("FILEVAULT_CLASSIFIER_MODEL", &config.ClassifierModel)
	setString("FILEVAULT_S3_USER", &config.S3RootUser)
	setString("FILEVAULT_S3_PASSWORD", &config.S3RootPassword)
	setString("FILEVAULT_S3_BUCKET", &config.S3Bucket)
	setString("FILEVAULT_S3_REGION", &config.S3Region)
	setString("FILEVAULT_S3_ENDPOINT", &config.S3BaseEndpoint)

	if v, ok := os.LookupEnv("FILEVAULT_MAX_FILE_SIZE"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			config.MaxFileSizeBytes = n
		}
	}
	if v, ok := os.LookupEnv("FILEVAULT_CLASSIFIER_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			config.ClassifierTimeout = d
		}
	}
	if v, ok := os.LookupEnv("FILEVAULT_PRESIGN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			config.PresignValidityDuration = d
		}
	}
}

package config

import "os"

// Environment variable names. A .env file loaded by the entry point (via
// godotenv) feeds these without overriding the real environment.
const (
	EnvHTTPAddr    = "RENTADOOR_HTTP_ADDR"
	EnvDatabaseDSN = "RENTADOOR_DATABASE_DSN"
	EnvJWTSecret   = "RENTADOOR_JWT_SECRET"
	EnvLogLevel    = "RENTADOOR_LOG_LEVEL"

	EnvMasterKey        = "RENTADOOR_MASTER_KEY"
	EnvMasterPassphrase = "RENTADOOR_MASTER_PASSPHRASE"
	EnvKeySalt          = "RENTADOOR_KEY_SALT"
	EnvKeyID            = "RENTADOOR_KEY_ID"

	EnvS3AccessKey = "RENTADOOR_S3_ACCESS_KEY"
	EnvS3SecretKey = "RENTADOOR_S3_SECRET_KEY"
	EnvS3Bucket    = "RENTADOOR_S3_BUCKET"
	EnvS3Region    = "RENTADOOR_S3_REGION"
	EnvS3Endpoint  = "RENTADOOR_S3_ENDPOINT"
)

func overlay(dst *string, name string) {
	if v, ok := os.LookupEnv(name); ok {
		*dst = v
	}
}

func parseEnv(c *Config) {
	overlay(&c.HTTPAddr, EnvHTTPAddr)
	overlay(&c.DatabaseDSN, EnvDatabaseDSN)
	overlay(&c.JWTSecret, EnvJWTSecret)
	overlay(&c.LogLevel, EnvLogLevel)

	overlay(&c.MasterKeyHex, EnvMasterKey)
	overlay(&c.MasterPassphrase, EnvMasterPassphrase)
	overlay(&c.KeySaltHex, EnvKeySalt)
	overlay(&c.KeyID, EnvKeyID)

	overlay(&c.S3AccessKey, EnvS3AccessKey)
	overlay(&c.S3SecretKey, EnvS3SecretKey)
	overlay(&c.S3Bucket, EnvS3Bucket)
	overlay(&c.S3Region, EnvS3Region)
	overlay(&c.S3BaseEndpoint, EnvS3Endpoint)
}

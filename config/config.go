package config

import (
	"os"
	"strings"
)

var (
	TLS_DOMAINS        = ""               // e.g. "example.com,example2.com"
	MYSQL_DSN          = ""               // MySQL will be used if this is set
	SQLITE_FILE        = "photoframer.db" // SQLite will be used if MYSQL_DSN is not configured
	BIND_ADDRESS       = "0.0.0.0:8080"
	DATA_DIR           = "./uploads" // Root for originals/, thumbnails/ and temp/
	SESSION_KEY        = ""          // Required; cookie store signing key
	IMAGE_TOKEN_SECRET = ""          // Required; signs full-resolution grant tokens
	DEBUG_MODE         = true

	// S3 off-loading of originals and thumbnails. Temp files always stay on disk.
	S3_BUCKET   = ""
	S3_REGION   = "us-east-1"
	S3_ENDPOINT = "" // Optional, for S3-compatible storage
	S3_KEY      = ""
	S3_SECRET   = ""

	ALLOWED_HOSTS = "" // Comma-separated referer hosts allowed to embed thumbnails
)

func init() {
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("DATA_DIR", &DATA_DIR)
	readEnvString("SESSION_KEY", &SESSION_KEY)
	readEnvString("IMAGE_TOKEN_SECRET", &IMAGE_TOKEN_SECRET)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("S3_BUCKET", &S3_BUCKET)
	readEnvString("S3_REGION", &S3_REGION)
	readEnvString("S3_ENDPOINT", &S3_ENDPOINT)
	readEnvString("S3_KEY", &S3_KEY)
	readEnvString("S3_SECRET", &S3_SECRET)
	readEnvString("ALLOWED_HOSTS", &ALLOWED_HOSTS)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

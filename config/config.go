package config

import (
	"os"
	"strconv"
	"strings"
)

var (
	TLS_DOMAINS  = ""     // e.g. "example.com,example2.com"
	BIND_ADDRESS = "0.0.0.0:8080"
	MYSQL_DSN    = ""     // MySQL will be used if this is set
	SQLITE_FILE  = ""     // SQLite will be used if MYSQL_DSN is not configured and this is set
	TMP_DIR      = "/tmp" // Scratch space when serving from an S3 bucket

	// Public URL of the frontend, used to build join links in invite emails
	FRONTEND_URL = "http://localhost:5173"
	// External collaborators
	PUSH_SERVER  = ""
	MAIL_API_URL = ""
	MAIL_API_KEY = ""
	MAIL_FROM    = "no-reply@legacykeeper.local"

	DEFAULT_BUCKET_DIR = "" // Used for creating the initial disk bucket

	MAX_UPLOAD_MB   = 100
	INVITE_TTL_DAYS = 7 // default expiry for email invites
	DEBUG_MODE      = true
	SESSION_KEY     = "change me in production"
)

func init() {
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("TMP_DIR", &TMP_DIR)
	readEnvString("FRONTEND_URL", &FRONTEND_URL)
	readEnvString("PUSH_SERVER", &PUSH_SERVER)
	readEnvString("MAIL_API_URL", &MAIL_API_URL)
	readEnvString("MAIL_API_KEY", &MAIL_API_KEY)
	readEnvString("MAIL_FROM", &MAIL_FROM)
	readEnvString("DEFAULT_BUCKET_DIR", &DEFAULT_BUCKET_DIR)
	readEnvString("SESSION_KEY", &SESSION_KEY)
	readEnvInt("MAX_UPLOAD_MB", &MAX_UPLOAD_MB)
	readEnvInt("INVITE_TTL_DAYS", &INVITE_TTL_DAYS)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
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

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}

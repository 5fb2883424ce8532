// Package config handles configuration loading, parsing, and validation
// from environment variables, an optional .env file and an optional
// config.yaml. Environment variables use the LMS_ prefix, with nested keys
// joined by underscores (LMS_DATABASE_URL, LMS_AUTH_JWT_SECRET).
package config

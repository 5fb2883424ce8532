// Package cache holds the Redis-backed refresh token allowlist.
package cache

// Package auth issues and validates the JWTs used by the API and hashes
// user passwords.
package auth

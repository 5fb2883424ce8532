// Package service provides the application services for users, sessions,
// the course catalog and flashcards. Review scheduling and progress live in
// the review and progress subpackages.
package service

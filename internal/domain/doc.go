// Package domain defines the core entities of the learning platform: users,
// the course catalog, flashcards with their per-learner review state, and
// progress records. Entities validate themselves; persistence lives elsewhere.
package domain

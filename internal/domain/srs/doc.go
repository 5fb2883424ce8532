// Package srs implements the spaced-repetition scheduler: given a learner's
// ReviewState for an item and whether the latest answer was correct, it
// computes the next state, including the mastery status, ease factor,
// interval and next review time.
//
// Correct answers raise the ease factor and multiply the interval by it;
// status is promoted by the number of correct answers and never lowered.
// Incorrect answers lower the ease factor (never below 1.3), reset the
// interval to one day and demote mastered pairs to reviewing.
//
// The package is pure. Persistence and get-or-create live in the review
// service.
package srs

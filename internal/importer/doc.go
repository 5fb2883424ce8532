// Package importer reads flashcards from spreadsheets and stores them in a
// single transaction.
package importer

// Package postgres implements the internal/store interfaces on PostgreSQL
// through database/sql and the pgx driver. It also embeds the goose
// migrations that create the schema.
//
// Every store accepts a store.DBTX, so the same code runs against the pool
// or inside a transaction obtained from store.RunInTransaction.
package postgres

// Package mocks provides testify mock implementations of the store and
// service interfaces, shared by the service and API tests.
//
// Store mocks return themselves from WithTx so that expectations set on the
// mock apply inside transactions too. Pair them with NewTxDB, which gives a
// sqlmock-backed *sql.DB that accepts the begin/commit or rollback.
package mocks

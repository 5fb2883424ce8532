// Package store defines the persistence interfaces of the learning platform
// and the helpers shared by their implementations: the DBTX abstraction,
// store error sentinels and RunInTransaction.
//
// Every store offers WithTx so that services can run several operations
// inside one transaction.
package store

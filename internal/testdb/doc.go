// Package testdb provides helpers for database integration tests.
//
// Tests obtain a migrated connection with GetTestDBWithT and run their work
// inside WithTx, whose transaction is always rolled back. Each test sees a
// clean schema, and tests can run in parallel.
//
//	func TestSomething(t *testing.T) {
//	    if testdb.ShouldSkipDatabaseTest() {
//	        t.Skip("DATABASE_URL not set - skipping integration test")
//	    }
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        courses := postgres.NewPostgresCourseStore(tx, nil)
//	        ...
//	    })
//	}
//
// The connection string comes from DATABASE_URL, or LMS_DATABASE_URL as a
// fallback.
package testdb

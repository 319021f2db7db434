// Package testdb opens migrated record store databases for tests.
//
// Tests run against a private in-memory SQLite database. Setting
// ARC_TEST_DATABASE_URL runs GetTestDBWithT against that PostgreSQL
// database instead; such tests should wrap their work in WithTx so their
// changes are rolled back and they can share the database.
//
//	func TestRecordStore(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        s := database.NewRecordStore(tx, logger)
//	        ...
//	    })
//	}
package testdb

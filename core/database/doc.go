// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL or SQLite connections based
// on the application's configuration. The sql store backend is its only consumer.
//
// # Connect
//
// Connect opens the configured driver, applies pool settings and pings the database
// within the configured timeout.
//
// # Schema Inspection
//
// GetTableColumns lists a table's columns (SHOW COLUMNS on MySQL, PRAGMA table_info on
// SQLite). MissingColumns compares them with an expected set, which the sql store uses
// to verify its table after migration.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	missing, err := database.MissingColumns(db, "entities", []string{"id", "slots"})
package database

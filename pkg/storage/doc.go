// Package storage writes scraped tables to CSV files.
//
// The Manager owns an output directory. Save renders a models.Table as a
// header row followed by one row per record, comma separated with RFC 4180
// quoting, and replaces any existing file of the same name atomically
// through a temporary file and rename.
//
// Usage:
//
//	manager, err := storage.NewManager("out", log)
//	if err != nil {
//	    return err
//	}
//	if err := manager.Save("users.csv", models.UserTable(users)); err != nil {
//	    return err
//	}
package storage

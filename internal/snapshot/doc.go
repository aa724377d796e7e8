// Package snapshot locates and loads the observatory snapshot file.
//
// The data directory holds latest.json, written by the daily collection job,
// and a committed dated snapshot used when latest.json has not been generated
// yet (first checkouts, pull-request builds). History snapshots written by the
// same job live under history/YYYY-MM-DD.json.
//
// Files are read through a billy.Filesystem rooted at the data directory so
// callers and tests can swap the OS filesystem for an in-memory one.
package snapshot

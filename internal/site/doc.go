// Package site renders the static observatory pages from a loaded snapshot.
//
// A build writes:
//
//	index.html
//	organizations/<slug>/index.html
//	datasets/<slug>/index.html
//	data/summary.json
//	data/top.json
//	manifest.json
//
// All content comes from the query package; the snapshot is never modified.
package site

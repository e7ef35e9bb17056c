// Package report assembles the end-of-run repository summary.
//
// Collector queries each field independently so that one failing git query
// degrades a single field to "unavailable" instead of losing the whole report.
// Renderers turn a Report into text (a tablewriter table plus file listings)
// or YAML, and Archive optionally keeps a timestamped copy on disk.
package report

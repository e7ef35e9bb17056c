// Package cli builds the gitpush command: a single Cobra root command that
// loads layered configuration (embedded defaults, optional file, GITPUSH_*
// environment variables, flags), creates the zap logger and runs the publish
// sequence, printing step progress followed by the report.
package cli

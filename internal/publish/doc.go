// Package publish sequences the guarded git steps that take a working directory
// from "maybe not a repository" to "committed and pushed".
//
// Service.Run executes initialize, remote, branch, stage, commit and push in
// order. Every mutating step first reads repository state and becomes a no-op
// when the state is already satisfied, so re-running on a configured repository
// changes nothing. The first failing step aborts the rest; the report is
// collected regardless.
package publish

// Package execshell runs external tools on behalf of gitpush.
//
// CommandRunner is the narrow capability the rest of the module depends on:
// it receives an explicit argument vector and reports standard output,
// standard error and the exit status. OSCommandRunner implements it with
// os/exec. ShellExecutor layers zap logging, lifecycle observers and a bounded
// per-invocation timeout on top of any runner, and converts non-zero exit
// statuses into typed errors.
package execshell

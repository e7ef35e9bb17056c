// Package gitrepo exposes typed git queries and mutations for a single working copy.
//
// RepositoryManager translates each operation into one git invocation run
// through a GitExecutor and interprets exit statuses that encode state (a
// missing remote, an unborn HEAD, an absent branch) as values rather than
// errors. Remote URL validation relies on go-git's endpoint parser.
package gitrepo

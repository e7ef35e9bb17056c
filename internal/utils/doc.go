// Package utils holds the ambient plumbing shared by the gitpush command:
// the Viper-backed ConfigurationLoader, the zap LoggerFactory (with an optional
// rotating log file) and small output helpers.
package utils

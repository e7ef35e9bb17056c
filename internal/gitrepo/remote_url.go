package gitrepo

import (
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

const (
	remoteURLParseErrorTemplateConstant  = "%q: %s"
	requiredValueMessageConstant         = "value required"
	whitespaceMessageConstant            = "remote url must not contain whitespace"
	missingRepositoryPathMessageConstant = "remote url does not name a repository"
	gitSuffixConstant                    = ".git"
	pathSeparatorConstant                = "/"
)

// RemoteURLParseError indicates a remote URL git would not accept.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// ValidateRemoteURL checks that the URL parses as a git endpoint (URL, scp-like or local path)
// and names a repository.
func ValidateRemoteURL(remoteURL string) error {
	_, parseError := parseEndpoint(remoteURL)
	return parseError
}

// RepositoryName derives a short repository name from the last path segment of a remote URL.
// It returns an empty string when the URL cannot be parsed.
func RepositoryName(remoteURL string) string {
	endpoint, parseError := parseEndpoint(remoteURL)
	if parseError != nil {
		return ""
	}
	trimmedPath := strings.TrimRight(endpoint.Path, pathSeparatorConstant)
	return strings.TrimSuffix(path.Base(trimmedPath), gitSuffixConstant)
}

func parseEndpoint(remoteURL string) (*transport.Endpoint, error) {
	trimmedURL := strings.TrimSpace(remoteURL)
	if len(trimmedURL) == 0 {
		return nil, RemoteURLParseError{Input: remoteURL, Message: requiredValueMessageConstant}
	}
	if strings.IndexFunc(trimmedURL, unicode.IsSpace) >= 0 {
		return nil, RemoteURLParseError{Input: remoteURL, Message: whitespaceMessageConstant}
	}

	endpoint, endpointError := transport.NewEndpoint(trimmedURL)
	if endpointError != nil {
		return nil, RemoteURLParseError{Input: remoteURL, Message: endpointError.Error()}
	}

	trimmedPath := strings.Trim(endpoint.Path, pathSeparatorConstant)
	if len(strings.TrimSuffix(trimmedPath, gitSuffixConstant)) == 0 {
		return nil, RemoteURLParseError{Input: remoteURL, Message: missingRepositoryPathMessageConstant}
	}
	return endpoint, nil
}

package pathutils

import (
	"path/filepath"
	"strings"
)

const currentDirectoryConstant = "."

// AbsolutePathProvider converts a path into an absolute one.
type AbsolutePathProvider func(path string) (string, error)

// Resolver trims, expands and absolutizes user-supplied paths.
type Resolver struct {
	homeExpander *HomeExpander
	absolutePath AbsolutePathProvider
}

// NewResolver constructs a Resolver. Nil collaborators fall back to the operating system.
func NewResolver(homeExpander *HomeExpander, absolutePath AbsolutePathProvider) *Resolver {
	if homeExpander == nil {
		homeExpander = NewHomeExpander()
	}
	if absolutePath == nil {
		absolutePath = filepath.Abs
	}
	return &Resolver{homeExpander: homeExpander, absolutePath: absolutePath}
}

// Resolve returns the cleaned absolute form of candidatePath. An empty path means the current directory.
func (resolver *Resolver) Resolve(candidatePath string) (string, error) {
	trimmedPath := strings.TrimSpace(candidatePath)
	if len(trimmedPath) == 0 {
		trimmedPath = currentDirectoryConstant
	}
	return resolver.absolutePath(filepath.Clean(resolver.homeExpander.Expand(trimmedPath)))
}

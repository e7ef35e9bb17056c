package report

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/temirov/gitpush/internal/filesystem"
)

const (
	archiveFileNameTemplateConstant = "git_report_%s.%s"
	archiveTimestampLayoutConstant  = "2006-01-02_15-04-05"
	archiveDirectoryPermissions     = 0o755
	archiveFilePermissions          = 0o644
	archiveDirectoryErrorTemplate   = "failed to create report directory %s: %w"
	archiveWriteErrorTemplate       = "failed to write report %s: %w"
)

// Archive renders report and stores it as <directory>/git_report_<timestamp>.<extension>.
// It returns the written path.
func Archive(fileSystem filesystem.FileSystem, directory string, renderer Renderer, report Report) (string, error) {
	var rendered bytes.Buffer
	if renderError := renderer.Render(&rendered, report); renderError != nil {
		return "", renderError
	}

	if directoryError := fileSystem.MkdirAll(directory, archiveDirectoryPermissions); directoryError != nil {
		return "", fmt.Errorf(archiveDirectoryErrorTemplate, directory, directoryError)
	}

	fileName := fmt.Sprintf(archiveFileNameTemplateConstant, report.GeneratedAt.Format(archiveTimestampLayoutConstant), renderer.FileExtension())
	archivePath := filepath.Join(directory, fileName)
	if writeError := fileSystem.WriteFile(archivePath, rendered.Bytes(), archiveFilePermissions); writeError != nil {
		return "", fmt.Errorf(archiveWriteErrorTemplate, archivePath, writeError)
	}
	return archivePath, nil
}

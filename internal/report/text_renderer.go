package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/temirov/gitpush/internal/gitrepo"
)

const (
	textFileExtensionConstant      = "txt"
	bannerWidthConstant            = 40
	sectionRuleWidthConstant       = 50
	bannerTitleConstant            = "Git Report"
	generatedOnTemplateConstant    = "Generated on: %s"
	displayTimeLayoutConstant      = "2006-01-02 15:04:05"
	unavailableValueConstant       = "unavailable"
	notApplicableValueConstant     = "n/a"
	noCommitsYetValueConstant      = "no commits yet"
	noUpstreamValueConstant        = "no upstream"
	detachedHeadValueConstant      = "(detached HEAD)"
	remoteNotConfiguredTemplate    = "%s (not configured)"
	remoteConfiguredTemplate       = "%s %s"
	emptyListValueConstant         = "none"
	listItemTemplateConstant       = "  %s\n"
	queryErrorItemTemplateConstant = "  - %s: %v\n"
	statusItemTemplateConstant     = "  %s%s %s\n"
	renamedPathTemplateConstant    = "%s -> %s"
	diffFileHeaderTemplateConstant = "File: %s\n"
	noContentChangesConstant       = "  no content changes detected\n"
	tableHeaderFieldConstant       = "Field"
	tableHeaderValueConstant       = "Value"
	tableAppendErrorTemplate       = "failed to append report row: %w"
	tableRenderErrorTemplate       = "failed to render report table: %w"
	commitFilesHeadingConstant     = "Files in last commit:"
	uncommittedHeadingConstant     = "Uncommitted changes:"
	unavailableFieldsHeading       = "Unavailable fields:"
	diffsHeadingConstant           = "Modified files and changes"
	tableColumnCountConstant       = 2
)

// TextRenderer writes the report as a banner, a metadata table and file listings.
type TextRenderer struct{}

// FileExtension implements Renderer.
func (TextRenderer) FileExtension() string {
	return textFileExtensionConstant
}

// Render implements Renderer.
func (renderer TextRenderer) Render(output io.Writer, report Report) error {
	var builder strings.Builder

	banner := strings.Repeat("=", bannerWidthConstant)
	builder.WriteString(banner + "\n")
	builder.WriteString(centered(bannerTitleConstant, bannerWidthConstant) + "\n")
	builder.WriteString(centered(fmt.Sprintf(generatedOnTemplateConstant, report.GeneratedAt.Format(displayTimeLayoutConstant)), bannerWidthConstant) + "\n")
	builder.WriteString(banner + "\n\n")

	if tableError := renderer.renderMetadata(&builder, report); tableError != nil {
		return tableError
	}

	builder.WriteString("\n" + commitFilesHeadingConstant + "\n")
	renderer.writeList(&builder, report.CommitFiles)

	builder.WriteString(uncommittedHeadingConstant + "\n")
	renderer.writeStatus(&builder, report.UncommittedChanges)

	if len(report.Diffs) > 0 {
		renderer.writeDiffs(&builder, report.Diffs)
	}

	if len(report.Errors) > 0 {
		builder.WriteString("\n" + unavailableFieldsHeading + "\n")
		for _, queryError := range report.Errors {
			fmt.Fprintf(&builder, queryErrorItemTemplateConstant, queryError.Field, queryError.Err)
		}
	}

	_, writeError := io.WriteString(output, builder.String())
	return writeError
}

func (renderer TextRenderer) renderMetadata(output io.Writer, report Report) error {
	table := tablewriter.NewWriter(output)
	table.Options(
		tablewriter.WithHeader([]string{tableHeaderFieldConstant, tableHeaderValueConstant}),
		tablewriter.WithRendition(
			tw.Rendition{
				Borders: tw.Border{
					Left:   tw.State(1),
					Top:    tw.State(1),
					Right:  tw.State(1),
					Bottom: tw.State(1),
				},
			},
		),
		tablewriter.WithAlignment(tw.MakeAlign(tableColumnCountConstant, tw.AlignLeft)),
	)

	commitHash, commitAuthor, commitDate, commitMessage := describeCommit(report.LastCommit)
	rows := [][]string{
		{"Repository", describe(report.RepositoryName, identity)},
		{"Path", report.RepositoryPath},
		{"Branch", describe(report.Branch, describeBranch)},
		{"Remote", describe(report.RemoteURL, func(remoteURL string) string { return describeRemote(report.RemoteName, remoteURL) })},
		{"Last commit", commitHash},
		{"Author", commitAuthor},
		{"Date", commitDate},
		{"Message", commitMessage},
		{"Unpushed commits", describe(report.UnpushedCommits, func(count int) string { return describeUnpushed(count, report.UpstreamConfigured) })},
	}
	for _, row := range rows {
		if appendError := table.Append(row); appendError != nil {
			return fmt.Errorf(tableAppendErrorTemplate, appendError)
		}
	}
	if renderError := table.Render(); renderError != nil {
		return fmt.Errorf(tableRenderErrorTemplate, renderError)
	}
	return nil
}

func (renderer TextRenderer) writeList(builder *strings.Builder, field Field[[]string]) {
	switch {
	case !field.Available():
		fmt.Fprintf(builder, listItemTemplateConstant, unavailableValueConstant)
	case len(field.Value) == 0:
		fmt.Fprintf(builder, listItemTemplateConstant, emptyListValueConstant)
	default:
		for _, item := range field.Value {
			fmt.Fprintf(builder, listItemTemplateConstant, item)
		}
	}
}

func (renderer TextRenderer) writeStatus(builder *strings.Builder, field Field[[]gitrepo.StatusEntry]) {
	switch {
	case !field.Available():
		fmt.Fprintf(builder, listItemTemplateConstant, unavailableValueConstant)
	case len(field.Value) == 0:
		fmt.Fprintf(builder, listItemTemplateConstant, emptyListValueConstant)
	default:
		for _, entry := range field.Value {
			path := entry.Path
			if len(entry.OriginalPath) > 0 {
				path = fmt.Sprintf(renamedPathTemplateConstant, entry.OriginalPath, entry.Path)
			}
			fmt.Fprintf(builder, statusItemTemplateConstant, entry.IndexStatus, entry.WorktreeStatus, path)
		}
	}
}

func (renderer TextRenderer) writeDiffs(builder *strings.Builder, diffs []FileDiff) {
	rule := strings.Repeat("=", sectionRuleWidthConstant)
	builder.WriteString("\n" + rule + "\n" + diffsHeadingConstant + "\n" + rule + "\n")
	for _, fileDiff := range diffs {
		fmt.Fprintf(builder, diffFileHeaderTemplateConstant, fileDiff.Path)
		switch {
		case fileDiff.Err != nil:
			fmt.Fprintf(builder, listItemTemplateConstant, unavailableValueConstant)
		case len(fileDiff.Lines) == 0:
			builder.WriteString(noContentChangesConstant)
		default:
			for _, line := range fileDiff.Lines {
				builder.WriteString(line + "\n")
			}
		}
		builder.WriteString(strings.Repeat("-", sectionRuleWidthConstant) + "\n")
	}
}

func describe[T any](field Field[T], format func(T) string) string {
	if !field.Available() {
		return unavailableValueConstant
	}
	return format(field.Value)
}

func describeCommit(field Field[*gitrepo.CommitInfo]) (string, string, string, string) {
	switch {
	case !field.Available():
		return unavailableValueConstant, unavailableValueConstant, unavailableValueConstant, unavailableValueConstant
	case field.Value == nil:
		return noCommitsYetValueConstant, notApplicableValueConstant, notApplicableValueConstant, notApplicableValueConstant
	default:
		return field.Value.Hash, field.Value.Author(), field.Value.Date, field.Value.Subject
	}
}

func describeUnpushed(count int, upstreamConfigured bool) string {
	if !upstreamConfigured {
		return noUpstreamValueConstant
	}
	return strconv.Itoa(count)
}

func describeBranch(branchName string) string {
	if len(branchName) == 0 {
		return detachedHeadValueConstant
	}
	return branchName
}

func describeRemote(remoteName string, remoteURL string) string {
	if len(remoteURL) == 0 {
		return fmt.Sprintf(remoteNotConfiguredTemplate, remoteName)
	}
	return fmt.Sprintf(remoteConfiguredTemplate, remoteName, remoteURL)
}

func identity(value string) string {
	return value
}

func centered(text string, width int) string {
	padding := (width - len(text)) / 2
	if padding <= 0 {
		return text
	}
	return strings.Repeat(" ", padding) + text
}

package diagfmt

import (
	"fmt"
	"strings"

	"pyl/internal/diag"
	"pyl/internal/source"
)

// fixEditPreview holds the lines touched by an edit before and after it is
// applied.
type fixEditPreview struct {
	before []string
	after  []string
}

func buildFixEditPreview(fs *source.FileSet, edit diag.FixEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, fmt.Errorf("nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	content := file.Content
	if edit.Span.Start > edit.Span.End || int(edit.Span.End) > len(content) {
		return fixEditPreview{}, fmt.Errorf("edit span %s out of range", edit.Span)
	}

	// расширяем до целых строк
	start := int(edit.Span.Start)
	for start > 0 && content[start-1] != '\n' {
		start--
	}
	end := int(edit.Span.End)
	for end < len(content) && content[end] != '\n' {
		end++
	}

	before := string(content[start:end])
	after := string(content[start:edit.Span.Start]) + edit.NewText + string(content[edit.Span.End:end])
	return fixEditPreview{
		before: splitPreviewLines(before),
		after:  splitPreviewLines(after),
	}, nil
}

func splitPreviewLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}

package pipeline

import (
	"fmt"
	"os"
	"strings"
)

// sectionSeparator divides pages in the combined document.
var sectionSeparator = strings.Repeat("=", 60)

// WriteCombined merges per-page outputs into one document at path,
// iterating unit identities 1..total in ascending order regardless of
// the order results arrived in. A page is included only if its result
// succeeded and its output artifact still exists on disk; anything else
// is omitted without a placeholder. Returns the number of pages included.
func WriteCombined(path, title string, set ResultSet, total int) (int, error) {
	type section struct {
		number  int
		content []byte
	}

	var sections []section
	for n := 1; n <= total; n++ {
		res, ok := set[n]
		if !ok || !res.Success {
			continue
		}
		content, err := os.ReadFile(res.OutputPath)
		if err != nil {
			// Output artifact missing at aggregation time: treated the
			// same as a failed unit.
			continue
		}
		sections = append(sections, section{number: n, content: content})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# OCR Results: %s\n\n", title)
	fmt.Fprintf(&b, "Total Pages: %d\n\n", len(sections))
	b.WriteString(sectionSeparator + "\n\n")

	for _, s := range sections {
		fmt.Fprintf(&b, "## Page %d\n\n", s.number)
		b.Write(s.content)
		b.WriteString("\n\n" + sectionSeparator + "\n\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return 0, fmt.Errorf("failed to write combined document: %w", err)
	}
	return len(sections), nil
}

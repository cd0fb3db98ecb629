package summarize

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// WriteMarkdown writes a summary report for one video as a markdown file.
func WriteMarkdown(title string, res Result, transcript, outputPath string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "_%s_\n\n", time.Now().Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "## Summary (%s, %d words)\n\n", res.Strategy, res.WordCount)
	b.WriteString(strings.TrimSpace(res.Summary))
	b.WriteString("\n")

	if transcript != "" {
		fmt.Fprintf(&b, "\n## Transcript\n\n%s\n", strings.TrimSpace(transcript))
	}

	return os.WriteFile(outputPath, []byte(b.String()), 0644)
}

package summarize

import (
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

// WriteDocx renders the bullet summary and optional transcript into a styled
// docx file.
func WriteDocx(title string, res Result, transcript, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addHeading(doc.AddParagraph(""), title, 16)

	addHeading(doc.AddParagraph(""), "Summary", 15)
	for _, line := range strings.Split(res.Summary, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		// Bullet lines arrive as "- sentence"; render with a bullet glyph.
		if rest, ok := strings.CutPrefix(trimmed, "- "); ok {
			addBody(doc.AddParagraph(""), "• "+rest)
			continue
		}
		addBody(doc.AddParagraph(""), trimmed)
	}

	if transcript != "" {
		addHeading(doc.AddParagraph(""), "Transcript", 15)
		for _, para := range transcriptParagraphs(transcript) {
			addBody(doc.AddParagraph(""), para)
		}
	}

	return doc.SaveTo(outputPath)
}

var sentenceRunPattern = regexp.MustCompile(`[^.!?]+[.!?]*`)

// sentenceRuns splits on sentence boundaries keeping each sentence's own
// terminator, so the exported transcript reads exactly as spoken.
func sentenceRuns(text string) []string {
	var runs []string
	for _, m := range sentenceRunPattern.FindAllString(text, -1) {
		if s := strings.TrimSpace(m); s != "" {
			runs = append(runs, s)
		}
	}
	return runs
}

// transcriptParagraphs rebreaks a flat transcript on sentence boundaries so
// the document stays readable for long recordings.
func transcriptParagraphs(transcript string) []string {
	const sentencesPerParagraph = 5

	sentences := sentenceRuns(transcript)
	var paragraphs []string
	for i := 0; i < len(sentences); i += sentencesPerParagraph {
		end := i + sentencesPerParagraph
		if end > len(sentences) {
			end = len(sentences)
		}
		paragraphs = append(paragraphs, strings.Join(sentences[i:end], " "))
	}
	return paragraphs
}

func addHeading(p *docx.Paragraph, text string, size uint64) {
	p.AddText(text).Font(fontName).Size(size).Color("000000").Bold(true)
}

func addBody(p *docx.Paragraph, text string) {
	p.AddText(text).Font(fontName).Size(fontSize).Color("000000")
}

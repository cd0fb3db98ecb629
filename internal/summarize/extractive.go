package summarize

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"
)

var (
	sentenceTerminator = regexp.MustCompile(`[.!?]+`)
	wordPattern        = regexp.MustCompile(`\b\w+\b`)
)

// minScoredWordLen filters short words out of frequency scoring.
const minScoredWordLen = 3

// Extractive selects existing sentences by frequency score instead of
// generating new text. It is the fallback when no generative model is
// configured or generation fails, and it cannot itself fail.
type Extractive struct{}

func (Extractive) Summarize(ctx context.Context, text, style string, maxWords int) Result {
	start := time.Now()

	if strings.TrimSpace(text) == "" {
		return failure("no text provided for summarization", start)
	}

	summary := BulletSummary(text, maxWords)
	return Result{
		Success:        true,
		Summary:        summary,
		WordCount:      wordCount(summary),
		ProcessingTime: time.Since(start),
		Strategy:       StrategyExtractive,
		MaxWords:       maxWords,
	}
}

// BulletSummary scores sentences by the frequency of their significant words
// and returns the top sentences, in original order, as bullet lines. The
// result is non-empty for any input containing at least one sentence.
func BulletSummary(text string, maxWords int) string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return ""
	}

	// Short inputs are returned verbatim; scoring three or fewer sentences
	// degenerates into ranking noise.
	if len(sentences) <= 3 {
		return renderBullets(sentences)
	}

	freq := wordFrequencies(sentences)

	type scored struct {
		index int
		score int
	}
	ranked := make([]scored, len(sentences))
	for i, sentence := range sentences {
		ranked[i] = scored{index: i, score: scoreSentence(sentence, freq)}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	// Greedy selection by score: stop at the first sentence that would push
	// the accumulated word count past the budget.
	var selected []int
	total := 0
	for _, s := range ranked {
		n := wordCount(sentences[s.index])
		if total+n > maxWords {
			break
		}
		selected = append(selected, s.index)
		total += n
	}

	// The top-scored sentence alone can overflow the budget; fall back to
	// the first three sentences rather than returning nothing.
	if len(selected) == 0 {
		return renderBullets(sentences[:3])
	}

	sort.Ints(selected)
	picked := make([]string, len(selected))
	for i, idx := range selected {
		picked[i] = sentences[idx]
	}
	return renderBullets(picked)
}

func splitSentences(text string) []string {
	parts := sentenceTerminator.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

func wordFrequencies(sentences []string) map[string]int {
	freq := make(map[string]int)
	for _, sentence := range sentences {
		for _, word := range wordPattern.FindAllString(strings.ToLower(sentence), -1) {
			if len(word) > minScoredWordLen {
				freq[word]++
			}
		}
	}
	return freq
}

func scoreSentence(sentence string, freq map[string]int) int {
	score := 0
	for _, word := range wordPattern.FindAllString(strings.ToLower(sentence), -1) {
		if len(word) > minScoredWordLen {
			score += freq[word]
		}
	}
	return score
}

func renderBullets(sentences []string) string {
	lines := make([]string, len(sentences))
	for i, s := range sentences {
		lines[i] = "- " + s
	}
	return strings.Join(lines, "\n")
}

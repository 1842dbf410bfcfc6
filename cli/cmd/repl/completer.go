package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// isWordBoundary reports whether r delimits a symbol for completion
// purposes. Every other printable rune, including punctuation such as - and
// *, may appear in a symbol.
func isWordBoundary(r rune) bool {
	return r == '(' || r == ')' || r == '"' || unicode.IsSpace(r)
}

// wordBounds returns the symbol at the cursor position and its byte
// boundaries within input. The word is empty when the cursor sits on a
// boundary, such as directly after an opening parenthesis or a space.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inString reports whether offset falls inside a string literal of input.
func inString(input string, offset int) bool {
	var open, escaped bool

	for _, r := range input[:min(offset, len(input))] {
		switch {
		case escaped:
			escaped = false
		case open && r == '\\':
			escaped = true
		case r == '"':
			open = !open
		}
	}

	return open
}

// completions returns the fuzzy matches of word among candidates, best
// first. An empty word matches nothing.
func completions(word string, candidates []string) fuzzy.Matches {
	if word == "" || len(candidates) == 0 {
		return nil
	}

	return fuzzy.Find(word, candidates)
}

// prefixCompletions returns the lines formed by replacing the word ending
// at the end of line with each candidate it is a prefix of.
func prefixCompletions(line string, candidates []string) []string {
	word, start, _ := wordBounds(line, len(line))
	if word == "" || inString(line, start) {
		return nil
	}

	var out []string

	for _, c := range candidates {
		if strings.HasPrefix(c, word) {
			out = append(out, line[:start]+c)
		}
	}

	return out
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor, along with the word's boundaries.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, ws, we := wordBounds(input, m.input.Position())
	if m.mode == modeEval && inString(input, ws) {
		return nil, ws, we
	}

	candidates := commandNames()
	if m.mode == modeEval {
		candidates = m.sess.candidates()
	}

	return completions(word, candidates), ws, we
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		last := i == len(matches)-1
		if i > 0 && used+entryWidth+ellipsisWidth > width && !(last && used+entryWidth <= width) {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}

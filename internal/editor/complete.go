package editor

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/abdullathedruid/editline/internal/engine"
)

// Completer returns the candidates for the word before the cursor. Every
// candidate must start with word.
type Completer func(word string) []string

// complete runs the Completer on the word before the cursor. A single
// candidate is inserted followed by a space; otherwise the longest common
// prefix is inserted, or the candidates are listed below the input.
func complete(a *accumulator, s *engine.Session) engine.Status {
	if a.ed.completer == nil {
		return engine.StatusError
	}

	buf := s.Buffer()
	before := []rune(buf.BeforeCursor())
	start := len(before)
	for start > 0 && !isWordBreak(before[start-1]) {
		start--
	}
	word := string(before[start:])

	var candidates []string
	for _, c := range a.ed.completer(word) {
		if strings.HasPrefix(c, word) {
			candidates = append(candidates, c)
		}
	}

	switch len(candidates) {
	case 0:
		return engine.StatusError
	case 1:
		buf.SaveState()
		buf.InsertString(candidates[0][len(word):] + " ")
		return engine.StatusRefresh
	}

	if prefix := commonPrefix(candidates); len(prefix) > len(word) {
		buf.SaveState()
		buf.InsertString(prefix[len(word):])
		return engine.StatusRefresh
	}

	a.save()
	a.finish()
	s.WriteString(formatCandidates(candidates, 80) + "\r\n")
	a.row = 0
	a.reprint()
	return engine.StatusRefresh
}

func isWordBreak(r rune) bool {
	return r == ' ' || r == '\t' || strings.ContainsRune("(){}[];,\"'", r)
}

// commonPrefix returns the longest prefix shared by words. It never
// splits a multi-byte rune.
func commonPrefix(words []string) string {
	prefix := words[0]
	for _, w := range words[1:] {
		for !strings.HasPrefix(w, prefix) {
			_, size := utf8.DecodeLastRuneInString(prefix)
			prefix = prefix[:len(prefix)-size]
		}
	}
	return prefix
}

// formatCandidates lays candidates out in columns no wider than width.
func formatCandidates(candidates []string, width int) string {
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	colWidth := 0
	for _, c := range sorted {
		colWidth = max(colWidth, runewidth.StringWidth(c))
	}
	colWidth += 2
	perRow := max(1, width/colWidth)

	var b strings.Builder
	for i, c := range sorted {
		if i > 0 && i%perRow == 0 {
			b.WriteString("\r\n")
		}
		b.WriteString(runewidth.FillRight(c, colWidth))
	}
	return b.String()
}

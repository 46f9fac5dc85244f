// Package chunker splits extracted document text into overlapping,
// size-bounded, sentence-aligned fragments and recovers page/section
// metadata from in-text markers.
package chunker

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Default chunking parameters, in characters of cleaned text.
const (
	DefaultTargetSize = 800
	DefaultOverlap    = 100
	DefaultMinSize    = 200
)

// boundaryLookahead extends the sentence-boundary search window past the
// target cut point.
const boundaryLookahead = 50

// charsPerPage estimates a page when the source carries no page markers.
const charsPerPage = 1800

// maxSectionLen truncates recovered section titles.
const maxSectionLen = 100

// Options configures how text is split.
type Options struct {
	// TargetSize is the preferred fragment length.
	TargetSize int

	// Overlap is how many characters consecutive fragments share.
	Overlap int

	// MinSize is the smallest fragment worth emitting.
	MinSize int
}

// DefaultOptions returns the standard chunking parameters.
func DefaultOptions() Options {
	return Options{
		TargetSize: DefaultTargetSize,
		Overlap:    DefaultOverlap,
		MinSize:    DefaultMinSize,
	}
}

func (o Options) normalised() Options {
	if o.TargetSize <= 0 {
		o.TargetSize = DefaultTargetSize
	}
	if o.Overlap < 0 {
		o.Overlap = DefaultOverlap
	}
	if o.MinSize <= 0 {
		o.MinSize = DefaultMinSize
	}
	if o.Overlap >= o.TargetSize {
		o.Overlap = o.TargetSize / 4
	}
	if o.MinSize > o.TargetSize {
		o.MinSize = o.TargetSize
	}
	return o
}

// Piece is one fragment of the cleaned input text.
type Piece struct {
	// Text is the fragment content.
	Text string

	// Index is the zero-based position within the sequence.
	Index int

	// Page is the page number, from the last [PAGE n] marker at or
	// before StartChar, or estimated from the offset.
	Page int

	// Section is a recovered heading, empty unless the fragment starts
	// with a recognisable heading pattern.
	Section string

	// StartChar and EndChar are the [start, end) span in the cleaned text.
	StartChar int
	EndChar   int
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	pageMarkerRe = regexp.MustCompile(`\[PAGE (\d+)\]`)

	// Heading shapes recognised in English and Spanish sources:
	// chapter/section keywords, roman numerals, numbered lists.
	headingRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(chapter|section|part|appendix|cap[ií]tulo|secci[oó]n|parte|ap[eé]ndice)\b`),
		regexp.MustCompile(`^[IVXLCDM]+[.)]\s`),
		regexp.MustCompile(`^\d+[.)]\s`),
	}
)

// Split cleans the text and walks it start to end, snapping cut points to
// sentence boundaries where one falls inside the search window. It never
// fails; pathological inputs yield zero or more fragments.
func Split(text string, opts Options) []Piece {
	opts = opts.normalised()

	clean := strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if clean == "" {
		return nil
	}

	markers := pageMarkers(clean)

	if len(clean) < opts.MinSize {
		return []Piece{{
			Text:      clean,
			Index:     0,
			Page:      pageAt(markers, 0),
			Section:   sectionOf(clean),
			StartChar: 0,
			EndChar:   len(clean),
		}}
	}

	var pieces []Piece
	start := 0
	for start < len(clean) {
		end := start + opts.TargetSize
		if end >= len(clean) {
			end = len(clean)
		} else {
			if b := sentenceBoundary(clean, start+opts.MinSize, end+boundaryLookahead, end); b > 0 {
				end = b
			}
		}

		if end-start >= opts.MinSize {
			slice := clean[start:end]
			pieces = append(pieces, Piece{
				Text:      slice,
				Index:     len(pieces),
				Page:      pageAt(markers, start),
				Section:   sectionOf(slice),
				StartChar: start,
				EndChar:   end,
			})
		}

		if end >= len(clean) {
			break
		}

		next := end - opts.Overlap
		if next <= start {
			// Guard against regressing behind the previous start on
			// pathological overlap/size combinations.
			next = end
		}
		start = next
	}

	return pieces
}

// sentenceBoundary returns the cut offset just past the sentence
// terminator nearest to target within [lo, hi), or 0 if none is found.
// A terminator counts when followed by an uppercase letter, or when it
// sits at the very end of the window.
func sentenceBoundary(text string, lo, hi, target int) int {
	if lo < 0 {
		lo = 0
	}
	if hi > len(text) {
		hi = len(text)
	}
	if lo >= hi {
		return 0
	}

	best := -1
	for i := lo; i < hi; i++ {
		if !isTerminator(text[i]) {
			continue
		}
		if !followedByUpper(text, i) && i != hi-1 {
			continue
		}
		if best < 0 || abs(i-target) < abs(best-target) {
			best = i
		}
	}
	if best < 0 {
		return 0
	}
	return best + 1
}

func isTerminator(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

// followedByUpper checks whether the next non-space character after the
// terminator at i is an uppercase letter.
func followedByUpper(text string, i int) bool {
	j := i + 1
	for j < len(text) && text[j] == ' ' {
		j++
	}
	if j >= len(text) {
		return false
	}
	return unicode.IsUpper(rune(text[j]))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

type pageMarker struct {
	offset int
	page   int
}

func pageMarkers(text string) []pageMarker {
	matches := pageMarkerRe.FindAllStringSubmatchIndex(text, -1)
	markers := make([]pageMarker, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			continue
		}
		markers = append(markers, pageMarker{offset: m[0], page: n})
	}
	return markers
}

// pageAt returns the page of the last marker at or before the offset,
// falling back to a character-count estimate.
func pageAt(markers []pageMarker, offset int) int {
	page := 0
	for _, m := range markers {
		if m.offset > offset {
			break
		}
		page = m.page
	}
	if page > 0 {
		return page
	}
	return offset/charsPerPage + 1
}

// sectionOf recovers a heading from the fragment's opening text. The
// fragment's first line is returned, truncated, when it starts with a
// recognisable heading pattern.
func sectionOf(text string) string {
	for _, re := range headingRes {
		if re.MatchString(text) {
			line := text
			if nl := strings.IndexByte(line, '\n'); nl >= 0 {
				line = line[:nl]
			}
			if len(line) > maxSectionLen {
				line = line[:maxSectionLen]
			}
			return strings.TrimSpace(line)
		}
	}
	return ""
}

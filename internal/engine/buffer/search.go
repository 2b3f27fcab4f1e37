package buffer

import "unicode"

// Match is one search hit: columns [Start, End) on Row.
type Match struct {
	Row   int
	Start int
	End   int
}

type searchState struct {
	query         string
	caseSensitive bool
	matches       []Match
	current       int // -1 when there is no current match
}

// Search finds every occurrence of query, in document order. Occurrences
// may overlap: scanning resumes one rune after each hit's start. Without
// caseSensitive both sides are folded to lower case rune by rune. The
// first match becomes current and the cursor moves to it. An empty query
// clears the search. It returns the number of matches.
func (b *Buffer) Search(query string, caseSensitive bool) int {
	b.setSearch(query, caseSensitive)
	if len(b.search.matches) > 0 {
		b.selectMatch(0)
	}
	return len(b.search.matches)
}

// SearchBackward is Search with the current match chosen as the last one
// starting before the cursor, or the last match in the document when none
// does.
func (b *Buffer) SearchBackward(query string, caseSensitive bool) int {
	b.setSearch(query, caseSensitive)
	n := len(b.search.matches)
	if n == 0 {
		return 0
	}
	idx := n - 1
	for i := n - 1; i >= 0; i-- {
		m := b.search.matches[i]
		if (Position{Row: m.Row, Col: m.Start}).Less(b.cursor) {
			idx = i
			break
		}
	}
	b.selectMatch(idx)
	return n
}

func (b *Buffer) setSearch(query string, caseSensitive bool) {
	b.search = searchState{current: -1}
	if query == "" {
		return
	}
	b.search.query = query
	b.search.caseSensitive = caseSensitive
	b.search.matches = b.findAll(query, caseSensitive)
}

// NextMatch advances to the next match without wrapping. It returns false
// at the last match.
func (b *Buffer) NextMatch() bool {
	if b.search.current < 0 || b.search.current+1 >= len(b.search.matches) {
		return false
	}
	b.selectMatch(b.search.current + 1)
	return true
}

// PreviousMatch moves to the previous match without wrapping. It returns
// false at the first match.
func (b *Buffer) PreviousMatch() bool {
	if b.search.current <= 0 {
		return false
	}
	b.selectMatch(b.search.current - 1)
	return true
}

// ClearSearch discards the search. Content and cursor are unchanged.
func (b *Buffer) ClearSearch() {
	b.search = searchState{current: -1}
}

// Matches returns a copy of the current match list.
func (b *Buffer) Matches() []Match {
	return append([]Match(nil), b.search.matches...)
}

// CurrentMatch returns the current match and its index.
func (b *Buffer) CurrentMatch() (Match, int, bool) {
	if b.search.current < 0 || b.search.current >= len(b.search.matches) {
		return Match{}, -1, false
	}
	return b.search.matches[b.search.current], b.search.current, true
}

// SearchQuery returns the active query, or "".
func (b *Buffer) SearchQuery() string {
	return b.search.query
}

func (b *Buffer) selectMatch(i int) {
	b.search.current = i
	m := b.search.matches[i]
	b.cursor = b.clamp(Position{Row: m.Row, Col: m.Start})
}

// refreshSearch recomputes matches after an edit without moving the cursor.
func (b *Buffer) refreshSearch() {
	if b.search.query == "" {
		return
	}
	b.search.matches = b.findAll(b.search.query, b.search.caseSensitive)
	switch {
	case len(b.search.matches) == 0:
		b.search.current = -1
	case b.search.current >= len(b.search.matches):
		b.search.current = len(b.search.matches) - 1
	case b.search.current < 0:
		b.search.current = 0
	}
}

func (b *Buffer) findAll(query string, caseSensitive bool) []Match {
	q := []rune(query)
	if !caseSensitive {
		q = foldRunes(q)
	}
	var matches []Match
	for row, line := range b.lines {
		hay := line
		if !caseSensitive {
			hay = foldRunes(line)
		}
		for start := 0; start+len(q) <= len(hay); start++ {
			if runesEqual(hay[start:start+len(q)], q) {
				matches = append(matches, Match{Row: row, Start: start, End: start + len(q)})
			}
		}
	}
	return matches
}

func foldRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

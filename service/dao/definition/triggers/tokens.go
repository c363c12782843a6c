package triggers

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	whitespaceCode = iota
	identifierCode
	orKeywordCode
	commaCode
	pipeCode
)

// Token definitions
var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	identifierToken = parsly.NewToken(identifierCode, "Identifier", newIdentifierMatcher())
	orKeywordToken  = parsly.NewToken(orKeywordCode, "OR", newKeywordMatcher("or"))
	commaToken      = parsly.NewToken(commaCode, ",", matcher.NewByte(','))
	pipeToken       = parsly.NewToken(pipeCode, "|", matcher.NewByte('|'))
)

func newIdentifierMatcher() parsly.Matcher {
	return &identifierMatcher{}
}

func newKeywordMatcher(keyword string) parsly.Matcher {
	return &keywordMatcher{keyword: keyword}
}

// identifierMatcher matches step identifiers: a letter or underscore
// followed by letters, digits, underscores, dashes or dots.
type identifierMatcher struct{}

func (m *identifierMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}
	if !isLetter(input[pos]) && input[pos] != '_' {
		return 0
	}
	matched := 1
	for i := pos + 1; i < size; i++ {
		c := input[i]
		if isLetter(c) || isDigit(c) || c == '_' || c == '-' || c == '.' {
			matched++
			continue
		}
		break
	}
	return matched
}

// keywordMatcher matches a case-insensitive keyword followed by a
// non-identifier boundary.
type keywordMatcher struct {
	keyword string
}

func (m *keywordMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos+len(m.keyword) > size {
		return 0
	}
	for i := 0; i < len(m.keyword); i++ {
		if toLower(input[pos+i]) != m.keyword[i] {
			return 0
		}
	}
	end := pos + len(m.keyword)
	if end < size {
		c := input[end]
		if isLetter(c) || isDigit(c) || c == '_' {
			return 0
		}
	}
	return len(m.keyword)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

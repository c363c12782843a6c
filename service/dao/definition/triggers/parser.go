// Package triggers parses listener trigger expressions.
//
// A trigger expression names one or more upstream steps with any-of
// semantics, separated by the "or" keyword, a comma or a pipe:
//
//	fetch
//	fetch or reload
//	fetch, reload | refresh
package triggers

import (
	"github.com/viant/parsly"
)

// Parse parses a trigger expression into the list of trigger step IDs,
// in expression order. An empty expression yields an empty list.
func Parse(input []byte) ([]string, error) {
	cursor := parsly.NewCursor("", input, 0)
	var result []string

	matched := cursor.MatchAfterOptional(whitespaceToken, identifierToken)
	if matched.Code != identifierToken.Code {
		if cursor.Pos >= cursor.InputSize {
			return result, nil
		}
		return nil, cursor.NewError(identifierToken)
	}
	result = append(result, matched.Text(cursor))

	for {
		matched = cursor.MatchAfterOptional(whitespaceToken, orKeywordToken, commaToken, pipeToken)
		switch matched.Code {
		case orKeywordToken.Code, commaToken.Code, pipeToken.Code:
		default:
			if cursor.Pos >= cursor.InputSize {
				return result, nil
			}
			return nil, cursor.NewError(orKeywordToken)
		}
		matched = cursor.MatchAfterOptional(whitespaceToken, identifierToken)
		if matched.Code != identifierToken.Code {
			return nil, cursor.NewError(identifierToken)
		}
		result = append(result, matched.Text(cursor))
	}
}

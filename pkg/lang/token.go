/*
 * Copyright (c) 2022, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package lang

import "strings"

type TokenType int

const (
	TOK_INVALID TokenType = iota
	TOK_EOF

	TOK_WORD
	TOK_KEYWORD
	TOK_INTEGER
	TOK_FLOAT
	TOK_STRING
	TOK_COMMA
	TOK_EQ
)

func (t TokenType) ToString() string {
	switch t {
	case TOK_INVALID:
		return "TOK_INVALID"
	case TOK_EOF:
		return "TOK_EOF"
	case TOK_WORD:
		return "TOK_WORD"
	case TOK_KEYWORD:
		return "TOK_KEYWORD"
	case TOK_INTEGER:
		return "TOK_INTEGER"
	case TOK_FLOAT:
		return "TOK_FLOAT"
	case TOK_STRING:
		return "TOK_STRING"
	case TOK_COMMA:
		return "TOK_COMMA"
	case TOK_EQ:
		return "TOK_EQ"
	}
	return "TOK_UNKNOWN"
}

var keywords = map[string]struct{}{
	"in":      {},
	"between": {},
	"from":    {},
	"to":      {},
	"using":   {},
	"color":   {},
	"colour":  {},
	"row":     {},
	"col":     {},
}

// IsKeyword reports whether word is reserved in shell commands.
func IsKeyword(word string) bool {
	_, ok := keywords[strings.ToLower(word)]
	return ok
}

/*
 * Copyright (c) 2022-2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

// Package lang tokenizes shell command lines.
package lang

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dburkart/wizard/pkg/common/parse"
)

type Scanner struct {
	Input     string
	Start     int
	Pos       int
	LastWidth int
}

func isDelimiter(r rune) bool {
	return unicode.IsSpace(r) || r == ',' || r == '=' || r == '\'' || r == '"'
}

// MatchWord returns the length of the next token, assuming it is a bare
// word: a column, a file name, a date or a number.
//
// Grammar:
//
//	word            = 1*(VCHAR except "," / "=" / DQUOTE / SQUOTE)
func (s *Scanner) MatchWord() int {
	size := 0
	for s.Pos+size < len(s.Input) {
		r, width := utf8.DecodeRuneInString(s.Input[s.Pos+size:])
		if isDelimiter(r) {
			break
		}
		size += width
	}
	return size
}

// MatchInteger returns the length of the next token, assuming it is an
// integer with an optional sign.
//
// Grammar:
//
//	integer         = [ "-" / "+" ] 1*DIGIT
func (s *Scanner) MatchInteger() int {
	i := s.Pos
	if i < len(s.Input) && (s.Input[i] == '-' || s.Input[i] == '+') {
		i++
	}
	digits := 0
	for i < len(s.Input) && s.Input[i] >= '0' && s.Input[i] <= '9' {
		i++
		digits++
	}
	if digits == 0 {
		return 0
	}
	return i - s.Pos
}

// MatchFloat returns the length of the next token, assuming it is a
// floating point number.
//
// Grammar:
//
//	float           = [ "-" / "+" ] *DIGIT "." 1*DIGIT
func (s *Scanner) MatchFloat() int {
	i := s.Pos
	if i < len(s.Input) && (s.Input[i] == '-' || s.Input[i] == '+') {
		i++
	}
	for i < len(s.Input) && s.Input[i] >= '0' && s.Input[i] <= '9' {
		i++
	}
	if i >= len(s.Input) || s.Input[i] != '.' {
		return 0
	}
	i++

	digits := 0
	for i < len(s.Input) && s.Input[i] >= '0' && s.Input[i] <= '9' {
		i++
		digits++
	}
	if digits == 0 {
		return 0
	}
	return i - s.Pos
}

// MatchString returns the length of the next token, assuming it is a
// quoted string, or 0 when the closing quote is missing.
//
// Grammar:
//
//	string          = DQUOTE *CHAR DQUOTE / SQUOTE *CHAR SQUOTE
func (s *Scanner) MatchString() int {
	quote := s.Input[s.Pos]
	end := strings.IndexByte(s.Input[s.Pos+1:], quote)
	if end < 0 {
		return 0
	}
	return end + 2
}

// Emit the next Token found on Scanner.Input
func (s *Scanner) Emit() parse.Token {
	var t parse.Token

	oldStart := s.Start

	for {
		s.Start = s.Pos
		if s.Pos >= len(s.Input) {
			t.Type = TOK_EOF
			break
		}

		r, width := utf8.DecodeRuneInString(s.Input[s.Pos:])
		found := true
		skip := 0

		switch {
		case unicode.IsSpace(r):
			skip = width
			found = false
		case r == ',':
			t.Type = TOK_COMMA
			skip = width
		case r == '=':
			t.Type = TOK_EQ
			skip = width
		case r == '\'' || r == '"':
			skip = s.MatchString()
			if skip > 0 {
				t.Type = TOK_STRING
			} else {
				t.Type = TOK_INVALID
				skip = len(s.Input) - s.Pos
			}
		default:
			skip = s.MatchWord()
			switch word := s.Input[s.Pos : s.Pos+skip]; {
			case s.MatchFloat() == skip:
				t.Type = TOK_FLOAT
			case s.MatchInteger() == skip:
				t.Type = TOK_INTEGER
			case IsKeyword(word):
				t.Type = TOK_KEYWORD
			default:
				t.Type = TOK_WORD
			}
		}

		s.Pos = s.Start + skip
		if found {
			break
		}
	}

	t.Lexeme = s.Input[s.Start:s.Pos]
	t.Location = parse.Location{Start: s.Start, End: s.Pos}
	s.Start = s.Pos

	s.LastWidth = s.Start - oldStart

	return t
}

// Rewind the last read token
func (s *Scanner) Rewind() {
	s.Start -= s.LastWidth
	s.Pos = s.Start
	s.LastWidth = 0
}

// Value returns the text a token stands for, without quotes.
func Value(t parse.Token) string {
	if t.Type == TOK_STRING {
		return t.Lexeme[1 : len(t.Lexeme)-1]
	}
	return t.Lexeme
}

/*
 * Copyright (c) 2022-2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parse

import (
	"fmt"
	"strings"
)

// SyntaxError marks the span of a command that could not be parsed.
type SyntaxError struct {
	Location Location
	Message  string
}

func NewSyntaxError(t Token, m string) SyntaxError {
	return SyntaxError{Location: t.Location, Message: m}
}

// FormatError prints input with a caret under the offending span. Spans
// reaching past the end of input are clipped to one column after it.
func (s *SyntaxError) FormatError(input string) string {
	start := min(max(s.Location.Start, 0), len(input))
	end := min(s.Location.End, len(input))

	repeat := max(end-start-1, 0)

	// Keep tabs in the padding so the caret lines up under them.
	pad := strings.Map(func(r rune) rune {
		if r == '\t' {
			return r
		}
		return ' '
	}, input[:start])

	errorString := "Syntax error found in command:\n"
	errorString += input
	errorString += fmt.Sprintf("\n%s^%s ", pad, strings.Repeat("~", repeat))
	errorString += fmt.Sprintf("%s\n", s.Message)
	return errorString
}

func (s SyntaxError) Error() string {
	return s.Message
}

// In binds the error to the input it was found in.
func (s SyntaxError) In(input string) *CommandError {
	return &CommandError{SyntaxError: s, Input: input}
}

// CommandError is a SyntaxError together with the command line it points
// into. Its message is the formatted, caret-annotated command.
type CommandError struct {
	SyntaxError
	Input string
}

func (c *CommandError) Error() string {
	return c.FormatError(c.Input)
}

func (c *CommandError) Unwrap() error {
	return c.SyntaxError
}

/*
 * Copyright (c) 2022, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package dataset

import (
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

var ErrUnknownTimeFormat = errors.New("time did not match a known timestamp")

var numberFormats = [...]string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC822,
	time.RFC822Z,
	time.Layout,
	"2006/01/02",
	"02/01/2006",
	"2006-01",
}

var letterFormats = [...]string{
	"Jan 02, 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC850,
	time.UnixDate,
	time.RFC1123,
	time.RFC1123Z,
	time.Stamp,
}

// ParseVagueDateTime parses some against a list of common layouts, picking
// the list by whether the string starts with a digit or a letter.
func ParseVagueDateTime(some string) (time.Time, error) {
	first, _ := utf8.DecodeRuneInString(some)

	formats := letterFormats[:]
	if unicode.IsDigit(first) {
		formats = numberFormats[:]
	}

	for _, theFmt := range formats {
		tm, err := time.Parse(theFmt, some)
		if err == nil {
			return tm, nil
		}
	}

	return time.Time{}, errors.Wrap(ErrUnknownTimeFormat, fmt.Sprintf("'%s'", some))
}

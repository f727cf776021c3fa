/*
 * Copyright (c) 2022, Gideon Williams gideon@gideonw.com
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dburkart/wizard/pkg/chart"
	"github.com/dburkart/wizard/pkg/common/parse"
	"github.com/dburkart/wizard/pkg/dataset"
	"github.com/dburkart/wizard/pkg/filter"
	"github.com/dburkart/wizard/pkg/group"
	"github.com/dburkart/wizard/pkg/lang"
)

type Verb string

const (
	VerbFiles   Verb = "files"
	VerbOpen    Verb = "open"
	VerbShow    Verb = "show"
	VerbColumns Verb = "columns"
	VerbWidget  Verb = "widget"
	VerbFilter  Verb = "filter"
	VerbClear   Verb = "clear"
	VerbGroup   Verb = "group"
	VerbPlot    Verb = "plot"
	VerbSave    Verb = "save"
	VerbHelp    Verb = "help"
	VerbExit    Verb = "exit"
)

// Verbs lists every shell command, in the order help prints them.
func Verbs() []Verb {
	return []Verb{
		VerbFiles, VerbOpen, VerbShow, VerbColumns, VerbWidget, VerbFilter,
		VerbClear, VerbGroup, VerbPlot, VerbSave, VerbHelp, VerbExit,
	}
}

// Command is one parsed shell line. Only the fields belonging to Verb are
// set.
type Command struct {
	Verb Verb

	// open: the file; widget, clear: the column.
	Name string

	// show
	Page int

	// widget
	Widget filter.WidgetType

	// filter
	Filter filter.Spec

	// group
	GroupBy []string
	Func    group.Func

	// plot
	Chart chart.Request
}

type Parser struct {
	Scanner lang.Scanner
}

// ParseCommand parses one line of shell input.
func ParseCommand(line string) (Command, error) {
	p := Parser{Scanner: lang.Scanner{Input: line}}
	return p.Parse()
}

func (p *Parser) Parse() (cmd Command, err error) {
	defer func() {
		if e := recover(); e != nil {
			syntaxError, ok := e.(parse.SyntaxError)
			if !ok {
				panic(e)
			}
			err = syntaxError.In(p.Scanner.Input)
		}
	}()

	p.Scanner.Input = strings.TrimRight(p.Scanner.Input, " \t\r\n")

	cmd = p.command()

	if tok := p.Scanner.Emit(); !tok.Is(lang.TOK_EOF) {
		panic(parse.NewSyntaxError(parse.Token{
			Type:     lang.TOK_INVALID,
			Location: parse.Location{Start: tok.Location.Start, End: len(p.Scanner.Input)},
		}, "Error: unexpected input, starting here"))
	}

	return cmd, nil
}

func (p *Parser) expect(tok parse.Token, what string) {
	found := tok.Lexeme
	if tok.Type == lang.TOK_EOF {
		found = "end of input"
	}
	panic(parse.NewSyntaxError(tok, fmt.Sprintf("Error: unexpected '%s', expected %s", found, what)))
}

// name reads a column or file name; keywords must be quoted.
func (p *Parser) name(what string) string {
	tok := p.Scanner.Emit()
	switch tok.Type {
	case lang.TOK_WORD, lang.TOK_STRING, lang.TOK_INTEGER, lang.TOK_FLOAT:
		return lang.Value(tok)
	}
	p.expect(tok, what)
	return ""
}

// optionalName reads a name if one follows.
func (p *Parser) optionalName() (string, bool) {
	tok := p.Scanner.Emit()
	switch tok.Type {
	case lang.TOK_WORD, lang.TOK_STRING, lang.TOK_INTEGER, lang.TOK_FLOAT:
		return lang.Value(tok), true
	}
	p.Scanner.Rewind()
	return "", false
}

// value reads a literal. Unquoted literals are typed the way data cells
// are; quoted ones are always strings.
func (p *Parser) value() any {
	tok := p.Scanner.Emit()
	switch tok.Type {
	case lang.TOK_STRING:
		return lang.Value(tok)
	case lang.TOK_WORD, lang.TOK_INTEGER, lang.TOK_FLOAT:
		return dataset.Interface(dataset.ParseCell(tok.Lexeme))
	}
	p.expect(tok, "a value")
	return nil
}

func (p *Parser) number() float64 {
	tok := p.Scanner.Emit()
	if !tok.Is(lang.TOK_INTEGER, lang.TOK_FLOAT) {
		p.expect(tok, "a number")
	}
	f, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil {
		p.expect(tok, "a number")
	}
	return f
}

func (p *Parser) keyword(word string) bool {
	tok := p.Scanner.Emit()
	if tok.Type == lang.TOK_KEYWORD && strings.EqualFold(tok.Lexeme, word) {
		return true
	}
	p.Scanner.Rewind()
	return false
}

func (p *Parser) comma() bool {
	if tok := p.Scanner.Emit(); tok.Is(lang.TOK_COMMA) {
		return true
	}
	p.Scanner.Rewind()
	return false
}

// command returns a Command
//
// Grammar:
//
//	command         = files / open / show / columns / widget / filter / clear / group / plot / "save" / "help" / "exit"
func (p *Parser) command() Command {
	tok := p.Scanner.Emit()
	if tok.Type != lang.TOK_WORD {
		p.expect(tok, "a command")
	}

	cmd := Command{Verb: Verb(strings.ToLower(tok.Lexeme))}

	switch cmd.Verb {
	case VerbFiles, VerbColumns, VerbSave, VerbHelp, VerbExit:
	case VerbOpen:
		cmd.Name = p.name("a file name")
	case VerbShow:
		p.show(&cmd)
	case VerbWidget:
		p.widget(&cmd)
	case VerbFilter:
		p.filter(&cmd)
	case VerbClear:
		cmd.Name, _ = p.optionalName()
	case VerbGroup:
		p.group(&cmd)
	case VerbPlot:
		p.plot(&cmd)
	default:
		panic(parse.NewSyntaxError(tok, fmt.Sprintf("Error: unknown command '%s', try 'help'", tok.Lexeme)))
	}

	return cmd
}

// show
//
// Grammar:
//
//	show            = "show" [ integer ]
func (p *Parser) show(cmd *Command) {
	tok := p.Scanner.Emit()
	switch tok.Type {
	case lang.TOK_EOF:
		p.Scanner.Rewind()
	case lang.TOK_INTEGER:
		page, err := strconv.Atoi(tok.Lexeme)
		if err != nil || page < 1 {
			p.expect(tok, "a page number starting at 1")
		}
		cmd.Page = page - 1
	default:
		p.expect(tok, "a page number")
	}
}

// widget
//
// Grammar:
//
//	widget          = "widget" column ( "dropdown" / "rangeslider" / "datepickerrange" )
func (p *Parser) widget(cmd *Command) {
	cmd.Name = p.name("a column")

	tok := p.Scanner.Emit()
	t, err := filter.ParseWidgetType(lang.Value(tok))
	if err != nil {
		p.expect(tok, "dropdown, rangeslider or datepickerrange")
	}
	cmd.Widget = t
}

// filter
//
// Grammar:
//
//	filter          = "filter" column ( set / range / dates / equals )
//	set             = "in" value *( "," value )
//	range           = "between" number "," number
//	dates           = "from" date [ "to" date ] / "to" date
//	equals          = "=" value
func (p *Parser) filter(cmd *Command) {
	column := p.name("a column")

	tok := p.Scanner.Emit()
	switch {
	case tok.Type == lang.TOK_EQ:
		cmd.Filter = filter.Equals(column, p.value())
	case tok.Type == lang.TOK_KEYWORD && strings.EqualFold(tok.Lexeme, "in"):
		values := []any{p.value()}
		for p.comma() {
			values = append(values, p.value())
		}
		cmd.Filter = filter.Set(column, values...)
	case tok.Type == lang.TOK_KEYWORD && strings.EqualFold(tok.Lexeme, "between"):
		lo := p.number()
		if !p.comma() && !p.keyword("to") {
			p.expect(p.Scanner.Emit(), "',' between the bounds")
		}
		hi := p.number()
		cmd.Filter = filter.Range(column, lo, hi)
	case tok.Type == lang.TOK_KEYWORD && strings.EqualFold(tok.Lexeme, "from"):
		start := p.name("a start date")
		end := ""
		if p.keyword("to") {
			end = p.name("an end date")
		}
		cmd.Filter = filter.DateRange(column, start, end)
	case tok.Type == lang.TOK_KEYWORD && strings.EqualFold(tok.Lexeme, "to"):
		cmd.Filter = filter.DateRange(column, "", p.name("an end date"))
	default:
		p.expect(tok, "'in', 'between', 'from', 'to' or '='")
	}
}

// group
//
// Grammar:
//
//	group           = "group" [ column *( "," column ) "using" func ]
func (p *Parser) group(cmd *Command) {
	first, ok := p.optionalName()
	if !ok {
		return
	}

	cmd.GroupBy = []string{first}
	for p.comma() {
		cmd.GroupBy = append(cmd.GroupBy, p.name("a column"))
	}

	if !p.keyword("using") {
		p.expect(p.Scanner.Emit(), "'using' and an aggregation")
	}

	tok := p.Scanner.Emit()
	fn, err := group.ParseFunc(lang.Value(tok))
	if err != nil {
		p.expect(tok, "one of mean, min, max, count, sum")
	}
	cmd.Func = fn
}

// plot
//
// Grammar:
//
//	plot            = "plot" kind x y *( ( "color" / "row" / "col" ) column )
func (p *Parser) plot(cmd *Command) {
	tok := p.Scanner.Emit()
	kind, err := chart.ParseKind(lang.Value(tok))
	if err != nil {
		p.expect(tok, "a chart kind")
	}

	cmd.Chart = chart.Request{
		Kind: kind,
		X:    p.name("an x column"),
		Y:    p.name("a y column"),
	}

	for {
		tok := p.Scanner.Emit()
		if tok.Type != lang.TOK_KEYWORD {
			p.Scanner.Rewind()
			return
		}
		switch strings.ToLower(tok.Lexeme) {
		case "color", "colour":
			cmd.Chart.Color = p.name("a colour column")
		case "row":
			cmd.Chart.FacetRow = p.name("a facet row column")
		case "col":
			cmd.Chart.FacetCol = p.name("a facet column")
		default:
			p.expect(tok, "'color', 'row' or 'col'")
		}
	}
}

/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dburkart/wizard/pkg/chart"
	"github.com/dburkart/wizard/pkg/dataset"
	"github.com/dburkart/wizard/pkg/filter"
	"github.com/dburkart/wizard/pkg/group"
	"github.com/dburkart/wizard/pkg/query"
	"github.com/dburkart/wizard/pkg/store"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	ErrExit   = errors.New("exit")
	ErrNoFile = errors.New("no file is open, use 'open <file>'")
)

var usage = [][]string{
	{"files", "list uploaded files"},
	{"open <file>", "select a file"},
	{"show [page]", "print a page of the filtered data"},
	{"columns", "list columns and their types"},
	{"widget <column> dropdown|rangeslider|datepickerrange", "describe a filter control"},
	{"filter <column> in v1, v2 ...", "keep rows whose value is listed"},
	{"filter <column> between lo, hi", "keep rows within a numeric range"},
	{"filter <column> from <date> [to <date>]", "keep rows within a date range"},
	{"filter <column> to <date>", "keep rows up to a date"},
	{"filter <column> = v", "keep rows equal to a value"},
	{"clear [column]", "drop one or all filters"},
	{"group [c1, c2 ... using mean|min|max|count|sum]", "set or clear grouping"},
	{"plot <kind> <x> <y> [color c] [row r] [col c]", "render a chart"},
	{"save", "save the last chart as HTML"},
	{"help", "print this help"},
	{"exit", "leave the shell"},
}

type Options struct {
	PlotsDir string
	PageSize int
}

// Session is the state of one shell: the open file and the filters,
// grouping and chart picked for it.
type Session struct {
	log zerolog.Logger
	out OutputWriter

	store    store.Store
	plotsDir string
	pageSize int

	file    string
	data    *dataset.Dataset
	filters []filter.Spec
	groupBy []string
	fn      group.Func
	figure  *chart.Figure
}

func NewSession(log zerolog.Logger, st store.Store, out OutputWriter, opts Options) *Session {
	if opts.PageSize <= 0 {
		opts.PageSize = query.DefaultPageSize
	}
	return &Session{
		log:      log,
		out:      out,
		store:    st,
		plotsDir: opts.PlotsDir,
		pageSize: opts.PageSize,
	}
}

// File is the name of the open file, if any.
func (s *Session) File() string {
	return s.file
}

// Columns lists the columns of the open file.
func (s *Session) Columns() []string {
	if s.data == nil {
		return nil
	}
	return s.data.Names()
}

// Run parses and executes one line of input.
func (s *Session) Run(ctx context.Context, line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	cmd, err := ParseCommand(line)
	if err != nil {
		return err
	}
	return s.Execute(ctx, cmd)
}

// Execute runs cmd. It returns ErrExit when the shell should stop.
func (s *Session) Execute(ctx context.Context, cmd Command) error {
	switch cmd.Verb {
	case VerbFiles:
		return s.files(ctx)
	case VerbOpen:
		return s.open(ctx, cmd.Name)
	case VerbHelp:
		return s.out.Write(Result{Columns: []string{"command", "description"}, Rows: usage})
	case VerbExit:
		return ErrExit
	}

	if s.data == nil {
		return ErrNoFile
	}

	switch cmd.Verb {
	case VerbShow:
		return s.show(cmd.Page)
	case VerbColumns:
		return s.columns()
	case VerbWidget:
		return s.widget(cmd.Name, cmd.Widget)
	case VerbFilter:
		return s.filter(cmd.Filter)
	case VerbClear:
		return s.clear(cmd.Name)
	case VerbGroup:
		return s.group(cmd.GroupBy, cmd.Func)
	case VerbPlot:
		return s.plot(cmd.Chart)
	case VerbSave:
		return s.save()
	}

	return errors.Errorf("unknown command %q", cmd.Verb)
}

func (s *Session) files(ctx context.Context) error {
	infos, err := s.store.List(ctx)
	if err != nil {
		return err
	}

	res := Result{Columns: []string{"name", "size", "modified"}, Rows: [][]string{}}
	for _, i := range infos {
		res.Rows = append(res.Rows, []string{i.Name, i.HumanSize(), i.ModTime.Format("2006-01-02 15:04:05")})
	}
	return s.out.Write(res)
}

func (s *Session) open(ctx context.Context, name string) error {
	ds, err := store.Load(ctx, s.store, name)
	if err != nil {
		return err
	}

	s.file = name
	s.data = ds
	s.filters = nil
	s.groupBy = nil
	s.fn = ""
	s.figure = nil

	s.log.Debug().Str("file", name).Int("rows", ds.NumRows()).Msg("opened file")

	if ds.IsEmpty() {
		return s.out.Write(Message(fmt.Sprintf("%s is not a csv or feather file, nothing to show", name)))
	}
	return s.out.Write(Message(fmt.Sprintf("opened %s: %d rows, %d columns", name, ds.NumRows(), ds.NumColumns())))
}

func (s *Session) show(page int) error {
	table, err := query.Filtered(s.data, s.filters, page, s.pageSize)
	if err != nil {
		return err
	}
	if !table.Visible {
		return s.out.Write(Message("nothing to show"))
	}

	res := Result{Columns: table.Columns, Rows: make([][]string, len(table.Data))}
	for i, rec := range table.Data {
		row := make([]string, len(table.Columns))
		for j, c := range table.Columns {
			if v := rec[c]; v != nil {
				row[j] = fmt.Sprint(v)
			}
		}
		res.Rows[i] = row
	}
	return s.out.Write(res)
}

func (s *Session) columns() error {
	candidates := make(map[string]bool)
	for _, c := range s.data.GroupCandidates() {
		candidates[c] = true
	}

	res := Result{Columns: []string{"column", "type", "groupable"}, Rows: [][]string{}}
	for _, c := range s.data.Columns() {
		res.Rows = append(res.Rows, []string{c.Name, c.Kind.String(), strconv.FormatBool(candidates[c.Name])})
	}
	return s.out.Write(res)
}

func (s *Session) widget(column string, t filter.WidgetType) error {
	w, err := filter.Describe(s.data, column, t)
	if err != nil {
		return err
	}
	if w.Warning != "" {
		s.log.Warn().Str("column", column).Msg(w.Warning)
	}

	switch t {
	case filter.Dropdown:
		res := Result{Columns: []string{column}, Rows: [][]string{}}
		for _, o := range w.Options {
			res.Rows = append(res.Rows, []string{o.Label})
		}
		return s.out.Write(res)
	case filter.RangeSlider:
		row := []string{"", ""}
		if w.Min != nil {
			row = []string{strconv.FormatFloat(*w.Min, 'g', -1, 64), strconv.FormatFloat(*w.Max, 'g', -1, 64)}
		}
		return s.out.Write(Result{Columns: []string{"min", "max"}, Rows: [][]string{row}})
	}
	return s.out.Write(Result{Columns: []string{"min_date", "max_date"}, Rows: [][]string{{w.MinDate, w.MaxDate}}})
}

// filter replaces any filter already set on the same column.
func (s *Session) filter(spec filter.Spec) error {
	if _, err := s.data.Column(spec.Column); err != nil {
		return err
	}

	filters := []filter.Spec{}
	for _, f := range s.filters {
		if f.Column != spec.Column {
			filters = append(filters, f)
		}
	}
	filters = append(filters, spec)

	out, err := filter.Apply(s.data, filters)
	if err != nil {
		return err
	}
	s.filters = filters
	s.figure = nil

	return s.out.Write(Message(fmt.Sprintf("%d of %d rows match", out.NumRows(), s.data.NumRows())))
}

func (s *Session) clear(column string) error {
	if column == "" {
		s.filters = nil
		s.figure = nil
		return s.out.Write(Message("cleared all filters"))
	}

	filters := []filter.Spec{}
	found := false
	for _, f := range s.filters {
		if f.Column == column {
			found = true
			continue
		}
		filters = append(filters, f)
	}
	if !found {
		return errors.Errorf("no filter on %q", column)
	}
	s.filters = filters
	s.figure = nil
	return s.out.Write(Message("cleared filter on " + column))
}

func (s *Session) group(keys []string, fn group.Func) error {
	for _, k := range keys {
		if _, err := s.data.Column(k); err != nil {
			return err
		}
	}

	s.groupBy = keys
	s.fn = fn
	s.figure = nil

	if len(keys) == 0 {
		return s.out.Write(Message("grouping cleared"))
	}
	return s.out.Write(Message(fmt.Sprintf("grouping by %s using %s", strings.Join(keys, ", "), fn)))
}

func (s *Session) plot(req chart.Request) error {
	req.GroupBy = s.groupBy
	req.Func = s.fn

	fig, err := query.Execute(s.data, query.Request{Filters: s.filters, Chart: req})
	if err != nil {
		return err
	}
	s.figure = fig

	s.log.Debug().Str("kind", string(req.Kind)).Int("bytes", len(fig.SVG)).Msg("rendered figure")
	return s.out.Write(Message(fmt.Sprintf("rendered %s, use 'save' to keep it", fig.Title())))
}

func (s *Session) save() error {
	if s.figure == nil {
		return chart.ErrEmptyFigure
	}

	path, err := chart.Save(s.plotsDir, s.figure)
	if err != nil {
		return err
	}
	return s.out.Write(Message("Plot is saved in " + path + " successfully!"))
}

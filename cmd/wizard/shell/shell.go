/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 * Copyright (c) 2022-2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package shell

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dburkart/wizard/cmd/wizard/common"
	"github.com/dburkart/wizard/pkg/chart"
	"github.com/dburkart/wizard/pkg/filter"
	"github.com/dburkart/wizard/pkg/group"
	"github.com/dburkart/wizard/pkg/repl"
	"github.com/dburkart/wizard/pkg/store"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = &cobra.Command{
	Use:   "shell",
	Short: "Interactive terminal for filtering and charting uploaded files",

	Run: func(cmd *cobra.Command, args []string) {
		log := common.Logger()
		output := viper.GetString("wizard.output")
		if len(filterStringSlice(repl.OutputFormats(), output)) != 1 {
			log.Fatal().Msg("unsupported output format")
		}

		ctx := context.Background()
		st := common.OpenStore(ctx)

		session := repl.NewSession(log, st, repl.NewOutputWriter(os.Stdout, output), repl.Options{
			PlotsDir: common.PlotsDir(),
			PageSize: common.PageSize(),
		})

		readlinePrompt(ctx, log, st, session)
	},
}

func init() {
	// Flags for this command
	Command.Flags().StringP("output", "o", "text", "Output format of results [csv, json, text]")

	// Bind flags to viper
	viper.BindPFlag("wizard.output", Command.Flags().Lookup("output"))
}

func filterStringSlice(s []string, prefix string) []string {
	retList := []string{}
	for i := range s {
		if strings.HasPrefix(s[i], prefix) {
			retList = append(retList, s[i])
		}
	}
	return retList
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func listFiles(ctx context.Context, st store.Store) func(string) []string {
	return func(string) []string {
		infos, err := st.List(ctx)
		if err != nil {
			return []string{}
		}
		names := make([]string, len(infos))
		for i, info := range infos {
			names[i] = info.Name
		}
		return names
	}
}

func listColumns(s *repl.Session) func(string) []string {
	return func(string) []string {
		return s.Columns()
	}
}

func items[T ~string](values []T) []readline.PrefixCompleterInterface {
	ret := []readline.PrefixCompleterInterface{}
	for _, v := range values {
		ret = append(ret, readline.PcItem(string(v)))
	}
	return ret
}

func newCompleter(ctx context.Context, st store.Store, s *repl.Session) *readline.PrefixCompleter {
	columns := listColumns(s)

	return readline.NewPrefixCompleter(
		readline.PcItem("files"),
		readline.PcItem("open", readline.PcItemDynamic(listFiles(ctx, st))),
		readline.PcItem("show"),
		readline.PcItem("columns"),
		readline.PcItem("widget", readline.PcItemDynamic(columns, items(filter.WidgetTypes())...)),
		readline.PcItem("filter", readline.PcItemDynamic(columns,
			readline.PcItem("in"), readline.PcItem("between"), readline.PcItem("from"),
			readline.PcItem("to"), readline.PcItem("="),
		)),
		readline.PcItem("clear", readline.PcItemDynamic(columns)),
		readline.PcItem("group", readline.PcItemDynamic(columns,
			readline.PcItem("using", items(group.Funcs())...),
		)),
		readline.PcItem("plot", items(chart.Kinds())...),
		readline.PcItem("save"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

func readlinePrompt(ctx context.Context, log zerolog.Logger, st store.Store, s *repl.Session) {
	// Setup the readline executor
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31m>\033[0m ",
		AutoComplete:    newCompleter(ctx, st, s),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	// Handle input
	for {
		ln := rl.Line()
		if ln.CanContinue() {
			continue
		} else if ln.CanBreak() {
			break
		}

		err := s.Run(ctx, ln.Line)
		if errors.Is(err, repl.ErrExit) {
			break
		}
		if err != nil {
			log.Error().Err(err).Send()
			continue
		}

		if s.File() != "" {
			rl.SetPrompt(fmt.Sprintf("\033[31m%s>\033[0m ", s.File()))
		}
		fmt.Println()
	}
	rl.Clean()
}

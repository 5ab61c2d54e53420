package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/lambdaed/parinfer/utils"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch [PATH...]",
	Short:   "Process Lisp sources whenever they change",
	Long:    paragraph(fmt.Sprintf("\n%s files and directories and rewrite Lisp sources in place as they are saved. Files that cannot be processed are left untouched.", keyword("Watch"))),
	Example: paragraph("parinfer watch src/\nparinfer watch --mode paren core.clj"),
	Args:    cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := env.ParseAs[Config]()
		if err != nil {
			return fmt.Errorf("error parsing config: %v", err)
		}
		if len(args) == 0 {
			args = []string{"."}
		}

		w, err := newWatcher(mode, extensions, cfg.WatchDebounce)
		if err != nil {
			return err
		}
		defer w.Close() //nolint:errcheck

		for _, arg := range args {
			if err := w.Add(utils.ExpandPath(arg)); err != nil {
				return err
			}
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()

		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s in %s mode. Press Ctrl+C to stop.\n", strings.Join(args, ", "), mode) //nolint:errcheck
		return w.Run(ctx)
	},
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/lambdaed/parinfer/parinfer"
	"github.com/lambdaed/parinfer/utils"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile         string
	modeName           string
	output             string
	write              bool
	check              bool
	copyResult         bool
	previewCursorScope bool
	pressedEnter       bool
	cursorLine         int
	cursorX            int
	cursorDx           int

	mode       parinfer.Mode
	extensions []string

	rootCmd = &cobra.Command{
		Use:   "parinfer [SOURCE...]",
		Short: "Keep Lisp parens and indentation in agreement",
		Long: paragraph(
			fmt.Sprintf("\nInfer %s from indentation, or indentation from parens.", keyword("parens")),
		),
		Example:          paragraph("parinfer src/core.clj\nparinfer --mode paren --write src/\ncat core.clj | parinfer --output json"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.ArbitraryArgs,
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveDefault
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

var outputFormats = []string{"text", "json", "yaml"}

func validateOptions(cmd *cobra.Command) error {
	// config creates the file it is pointed at, so there may be nothing to read yet
	if cmd.Flags().Changed("config") && cmd != configCmd {
		viper.SetConfigFile(utils.ExpandPath(configFile))
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("could not read config file: %w", err)
		}
	}

	// grab config values from Viper
	m, err := parinfer.ParseMode(viper.GetString("mode"))
	if err != nil {
		return err
	}
	mode = m
	previewCursorScope = viper.GetBool("previewCursorScope")

	output = strings.ToLower(viper.GetString("output"))
	if !slices.Contains(outputFormats, output) {
		return fmt.Errorf("unsupported output format %q: use %s", output, strings.Join(outputFormats, ", "))
	}

	extensions = utils.NormalizeExtensions(viper.GetStringSlice("extensions"))
	if len(extensions) == 0 {
		extensions = utils.DefaultLispExtensions
	}

	if write && check {
		return errors.New("--write and --check cannot be used together")
	}
	if pressedEnter && (!cmd.Flags().Changed("cursor-line") || !cmd.Flags().Changed("cursor-x")) {
		return errors.New("--pressed-enter needs --cursor-line and --cursor-x")
	}
	return nil
}

// cursorOptions builds the engine options from the cursor flags. Flags that
// were not given stay unset.
func cursorOptions(cmd *cobra.Command) parinfer.Options {
	opts := parinfer.Options{
		PreviewCursorScope: previewCursorScope,
		PressedEnter:       pressedEnter,
	}
	if cmd.Flags().Changed("cursor-line") {
		opts.CursorLine = parinfer.Int(cursorLine)
	}
	if cmd.Flags().Changed("cursor-x") {
		opts.CursorX = parinfer.Int(cursorX)
	}
	if cmd.Flags().Changed("cursor-dx") {
		opts.CursorDx = parinfer.Int(cursorDx)
	}
	return opts
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, err
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func execute(cmd *cobra.Command, args []string) error {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	// if stdin is a pipe then use stdin for input. note that you can also
	// explicitly use a - to read from stdin.
	if len(args) == 0 {
		if yes, err := stdinIsPipe(); err != nil {
			return err
		} else if yes {
			args = []string{"-"}
		} else {
			args = []string{"."}
		}
	}

	paths, err := expandArgs(args, extensions)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.New("missing lisp source")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	recs, err := processSources(ctx, paths, mode, cursorOptions(cmd), cfg.workers())
	if err != nil {
		return err
	}
	return finish(cmd, recs)
}

// finish reports on the processed records according to the output flags.
func finish(cmd *cobra.Command, recs []record) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	var failed, changed int
	var pending []record
	for _, rec := range recs {
		switch {
		case !rec.Result.Success:
			failed++
			if output == "text" {
				fmt.Fprint(stderr, errorReport(rec.Path, rec.input, rec.Result.Error, isTerminal(stderr))) //nolint:errcheck
			}
			continue
		case rec.Changed:
			changed++
		}

		switch {
		case check:
			if rec.Changed && output == "text" {
				fmt.Fprintln(stdout, rec.Path) //nolint:errcheck
			}
		case write && rec.local:
			if rec.Changed {
				if err := writeBack(rec.Path, rec.Result.Text); err != nil {
					return err
				}
			}
		default:
			pending = append(pending, rec)
		}
	}

	if output != "text" {
		pending = recs
	}
	if err := writeRecords(stdout, output, pending); err != nil {
		return err
	}

	if copyResult {
		if len(recs) != 1 {
			return fmt.Errorf("--copy needs exactly one source, got %d", len(recs))
		}
		if recs[0].Result.Success {
			if err := clipboard.WriteAll(recs[0].Result.Text); err != nil {
				return fmt.Errorf("could not copy to clipboard: %w", err)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d sources could not be processed", failed, len(recs))
	}
	if check && changed > 0 {
		return fmt.Errorf("%d of %d sources are not in %s mode form", changed, len(recs), mode)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().StringVarP(&modeName, "mode", "m", "indent", "processing mode: indent or paren")
	rootCmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	rootCmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the source files")
	rootCmd.Flags().BoolVarP(&check, "check", "c", false, "list sources that would change and exit non-zero")
	rootCmd.Flags().BoolVar(&copyResult, "copy", false, "copy the result to the clipboard")
	rootCmd.Flags().IntVar(&cursorLine, "cursor-line", 0, "zero-based line of the cursor")
	rootCmd.Flags().IntVar(&cursorX, "cursor-x", 0, "zero-based column of the cursor")
	rootCmd.Flags().IntVar(&cursorDx, "cursor-dx", 0, "how far the cursor moved in the last edit")
	rootCmd.Flags().BoolVar(&previewCursorScope, "preview-cursor-scope", false, "let the cursor line's closers follow the cursor (indent mode)")
	rootCmd.Flags().BoolVar(&pressedEnter, "pressed-enter", false, "the last edit was a newline at the cursor")

	// Config bindings
	_ = viper.BindPFlag("mode", rootCmd.PersistentFlags().Lookup("mode"))
	_ = viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("previewCursorScope", rootCmd.Flags().Lookup("preview-cursor-scope"))

	viper.SetDefault("mode", "indent")
	viper.SetDefault("output", "text")
	viper.SetDefault("extensions", utils.DefaultLispExtensions)

	rootCmd.AddCommand(configCmd, manCmd, watchCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "parinfer")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "parinfer")}, dirs...)
	}

	if c := os.Getenv("PARINFER_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("parinfer")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("parinfer")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
	}
}

// Command toolcall runs tools from the project catalogue.
//
//	toolcall [flags] <tool> [args...] [+ <tool> [args...]]...
//	toolcall list
//	toolcall search <query>
//	toolcall serve
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/toolcall/exec"
	"github.com/jonwraymond/toolcall/internal/config"
	"github.com/jonwraymond/toolcall/internal/logging"
	"github.com/jonwraymond/toolcall/run"
)

// version is set at link time.
var version = "dev"

// cli holds the flag values and streams of one invocation.
type cli struct {
	root      string
	verbose   bool
	dryRun    bool
	delimiter string
	logLevel  string
	limit     int

	stdout io.Writer
	stderr io.Writer

	// code is the exit code of the last root invocation.
	code int
}

func newRootCmd(c *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "toolcall [flags] <tool> [args...] [+ <tool> [args...]]...",
		Short:         "toolcall - run tools from the project catalogue",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.runMain,
	}
	rootCmd.SetOut(c.stdout)
	rootCmd.SetErr(c.stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&c.root, "root", ".", "Project root holding toolcall.toml")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "Print the tool listing and a summary")
	pf.BoolVar(&c.dryRun, "dry-run", false, "Parse the command line without running tools")
	pf.StringVar(&c.delimiter, "delimiter", "", "Token separating tool calls (default \"+\")")
	pf.StringVar(&c.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, off")
	// Everything after the first tool name belongs to the tools.
	rootCmd.Flags().SetInterspersed(false)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the catalogued tools",
		Args:  cobra.NoArgs,
		RunE:  c.runList,
	}
	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalogue",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.runSearch,
	}
	searchCmd.Flags().IntVar(&c.limit, "limit", 0, "Maximum number of results")
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalogue as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE:  c.runServe,
	}
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(c.stdout, "toolcall %s\n", version)
		},
	}
	rootCmd.AddCommand(listCmd, searchCmd, serveCmd, versionCmd)
	return rootCmd
}

func main() {
	logging.ConfigureRuntime()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	c := &cli{stdout: os.Stdout, stderr: os.Stderr}
	err := newRootCmd(c).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "toolcall: %v\n", err)
		os.Exit(exec.ExitCode(err))
	}
	os.Exit(c.code)
}

// settings loads toolcall.toml below the root flag and applies the
// command line overrides on top.
func (c *cli) settings(cmd *cobra.Command) (config.Settings, error) {
	s, err := config.Load(c.root)
	if err != nil {
		return config.Settings{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("verbose") {
		s.Verbose = c.verbose
	}
	if flags.Changed("dry-run") {
		s.DryRun = c.dryRun
	}
	if flags.Changed("delimiter") {
		s.Delimiter = c.delimiter
	}
	if flags.Changed("log-level") {
		s.LogLevel = c.logLevel
	}
	return s, nil
}

func (c *cli) newExec(cmd *cobra.Command) (*exec.Exec, error) {
	s, err := c.settings(cmd)
	if err != nil {
		return nil, err
	}
	if s.LogLevel != "" && !logging.SetLevel(s.LogLevel) {
		return nil, fmt.Errorf("unknown log level %q", s.LogLevel)
	}
	logger := logging.New(c.stderr, "toolcall")
	logger.Debug().Str("root", s.Folders.Root).Str("delimiter", s.Delimiter).Msg("settings loaded")
	return exec.New(exec.Options{
		Settings: &s,
		Printer:  run.Printer{Out: c.stdout, Err: c.stderr},
		Logger:   &logger,
	})
}

func (c *cli) runMain(cmd *cobra.Command, args []string) error {
	x, err := c.newExec(cmd)
	if err != nil {
		return err
	}
	c.code = x.Main(cmd.Context(), args)
	return nil
}

func (c *cli) runList(cmd *cobra.Command, _ []string) error {
	x, err := c.newExec(cmd)
	if err != nil {
		return err
	}
	f, err := x.Finder(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, exec.ToolsMessage(f.Tools()))
	return nil
}

func (c *cli) runSearch(cmd *cobra.Command, args []string) error {
	x, err := c.newExec(cmd)
	if err != nil {
		return err
	}
	results, err := x.Search(cmd.Context(), strings.Join(args, " "), c.limit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(c.stdout, "No tools found")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(c.stdout, "%s - %s\n", r.Tool.NamespaceAndName(), r.Summary)
	}
	return nil
}

func (c *cli) runServe(cmd *cobra.Command, _ []string) error {
	x, err := c.newExec(cmd)
	if err != nil {
		return err
	}
	gw, err := x.Gateway(cmd.Context(), version)
	if err != nil {
		return err
	}
	err = gw.Serve(cmd.Context(), &mcp.StdioTransport{})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ngrash/go-nepcal/bsdist"
	"github.com/ngrash/go-nepcal/nepcal"
)

// app carries the state shared by all subcommands once the root command has
// loaded the configuration.
type app struct {
	stdout io.Writer
	stderr io.Writer
	// httpClient is used by fetch. Nil means http.DefaultClient.
	httpClient *http.Client

	configFile string
	cfg        Config
	log        *zap.Logger
}

// newRootCmd returns the bsconv command tree writing results to stdout and
// log output to stderr. Downloads use httpClient, or http.DefaultClient if nil.
func newRootCmd(stdout, stderr io.Writer, httpClient *http.Client) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, httpClient: httpClient}

	root := &cobra.Command{
		Use:           "bsconv",
		Short:         "Convert dates between Bikram Sambat and Gregorian calendars",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return a.usageError(cmd, err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (yaml, json, toml, ...)")
	pf.String("data", "", "calendar data file replacing the embedded table")
	pf.String("data-url", "", "URL to fetch calendar data from")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	pf.String("log-format", "console", "log format (console, json)")

	root.AddCommand(
		a.newToNepaliCommand(),
		a.newToGregorianCommand(),
		a.newValidCommand(),
		a.newLeapCommand(),
		a.newMonthLengthCommand(),
		a.newFetchCommand(),
	)

	return root
}

// init loads the configuration and builds the logger.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd.Flags(), a.configFile)
	if err != nil {
		fmt.Fprintln(a.stderr, "bsconv:", err)
		return err
	}
	log, err := newLogger(cfg.Logger, a.stderr)
	if err != nil {
		fmt.Fprintln(a.stderr, "bsconv:", err)
		return err
	}
	a.cfg = cfg
	a.log = log.With(zap.String("command", cmd.Name()))
	return nil
}

// usageError reports errors raised before the logger exists.
func (a *app) usageError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(a.stderr, "bsconv: %v\nUsage: %s\n", err, cmd.UseLine())
	return err
}

// args wraps a positional argument check so that a failure is reported.
func (a *app) args(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return a.usageError(cmd, err)
		}
		return nil
	}
}

// runE wraps fn so that a returned error is logged before cobra sees it.
func (a *app) runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err != nil {
			a.log.Error("command failed", zap.Strings("args", args), zap.Error(err))
		}
		_ = a.log.Sync()
		return err
	}
}

func (a *app) converter() (*nepcal.Converter, error) {
	return newConverter(a.cfg, a.log)
}

func (a *app) newToNepaliCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "to-nepali YYYY-MM-DD",
		Short: "Convert a Gregorian date to a Bikram Sambat date",
		Args:  a.args(cobra.ExactArgs(1)),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			g, err := nepcal.ParseGregorianDate(args[0])
			if err != nil {
				return err
			}
			c, err := a.converter()
			if err != nil {
				return err
			}
			d, err := c.ToNepali(g)
			if err != nil {
				return err
			}
			a.log.Debug("converted", zap.Stringer("gregorian", g), zap.Stringer("nepali", d))
			fmt.Fprintln(a.stdout, d)
			return nil
		}),
	}
}

func (a *app) newToGregorianCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "to-gregorian YYYY-MM-DD",
		Short: "Convert a Bikram Sambat date to a Gregorian date",
		Args:  a.args(cobra.ExactArgs(1)),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			d, err := nepcal.ParseDate(args[0])
			if err != nil {
				return err
			}
			c, err := a.converter()
			if err != nil {
				return err
			}
			g, err := c.ToGregorian(d.Year, d.Month, d.Day)
			if err != nil {
				return err
			}
			a.log.Debug("converted", zap.Stringer("nepali", d), zap.Stringer("gregorian", g))
			fmt.Fprintln(a.stdout, g)
			return nil
		}),
	}
}

func (a *app) newValidCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "valid YYYY-MM-DD",
		Short: "Report whether a Bikram Sambat date exists",
		Args:  a.args(cobra.ExactArgs(1)),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			c, err := a.converter()
			if err != nil {
				return err
			}
			d, err := nepcal.ParseDate(args[0])
			if err != nil {
				// Syntactically broken input is simply not a valid date.
				a.log.Debug("unparsable date", zap.String("input", args[0]), zap.Error(err))
				fmt.Fprintln(a.stdout, false)
				return nil
			}
			fmt.Fprintln(a.stdout, c.IsValidNepaliDate(d.Year, d.Month, d.Day))
			return nil
		}),
	}
}

func (a *app) newLeapCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "leap YEAR",
		Short: "Report whether a Bikram Sambat year has 366 days",
		Args:  a.args(cobra.ExactArgs(1)),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			year, err := parseInt("year", args[0])
			if err != nil {
				return err
			}
			c, err := a.converter()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, c.IsLeapNepaliYear(year))
			return nil
		}),
	}
}

func (a *app) newMonthLengthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "month-length YEAR MONTH",
		Short: "Print the number of days in a Bikram Sambat month",
		Args:  a.args(cobra.ExactArgs(2)),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			year, err := parseInt("year", args[0])
			if err != nil {
				return err
			}
			month, err := parseInt("month", args[1])
			if err != nil {
				return err
			}
			c, err := a.converter()
			if err != nil {
				return err
			}
			n, err := c.MonthLength(year, month)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, n)
			return nil
		}),
	}
}

// errNoDataURL is returned by fetch when no data URL is configured.
var errNoDataURL = errors.New("no data URL configured (use --data-url or BSCONV_DATA_URL)")

func (a *app) newFetchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download and validate calendar data",
		Args:  a.args(cobra.NoArgs),
	}
	cmd.Flags().String("etag", "", "ETag of a previous download; nothing is fetched if unchanged")
	cmd.Flags().String("out", "", "file to write the validated calendar data to")

	cmd.RunE = a.runE(func(cmd *cobra.Command, args []string) error {
		if a.cfg.DataURL == "" {
			return errNoDataURL
		}
		etag, _ := cmd.Flags().GetString("etag")
		out, _ := cmd.Flags().GetString("out")

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		client := &bsdist.Client{HTTPClient: a.httpClient, Logger: a.log}
		table, newEtag, err := client.Fetch(ctx, a.cfg.DataURL, etag)
		if err != nil {
			return err
		}
		if table == nil {
			fmt.Fprintln(a.stdout, "not modified", newEtag)
			return nil
		}
		a.log.Info("fetched calendar data",
			zap.String("url", a.cfg.DataURL),
			zap.String("etag", newEtag),
			zap.Int("start_year", table.StartYear()),
			zap.Int("end_year", table.EndYear()),
		)

		if out != "" {
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := table.File().Encode(f); err != nil {
				_ = f.Close()
				return fmt.Errorf("write %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
		}
		fmt.Fprintf(a.stdout, "%d-%d %s\n", table.StartYear(), table.EndYear(), newEtag)
		return nil
	})
	return cmd
}

func parseInt(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, nepcal.ErrMalformedInput)
	}
	return n, nil
}

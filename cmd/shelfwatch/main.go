package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/five82/shelfwatch/internal/app"
)

const usage = `usage:
  shelfwatch check [-config path] [-env path] [-prefs path] [-v] [-every duration] <catalog-number>...
  shelfwatch stock [-config path] [-env path] [-prefs path] [-available-only] <bac-no>
  shelfwatch theme [-prefs path] [name]
`

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := dispatch(ctx, args, stdout, stderr)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprint(stderr, usage)
		return 2
	default:
		fmt.Fprintf(stderr, "shelfwatch: %v\n", err)
		return 1
	}
}

func dispatch(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	fs := flag.NewFlagSet("shelfwatch "+cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config path (default ~/.config/shelfwatch/config.toml)")
	envFile := fs.String("env", "", "dotenv file with secrets (default ./.env)")
	prefsPath := fs.String("prefs", "", "prefs path (default ~/.config/shelfwatch/prefs.toml)")

	opts := func() app.Options {
		return app.Options{
			ConfigPath: *configPath,
			EnvFile:    *envFile,
			PrefsPath:  *prefsPath,
			Stdout:     stdout,
			Stderr:     stderr,
		}
	}

	switch cmd {
	case "check":
		verbose := fs.Bool("v", false, "debug logging")
		every := fs.Duration("every", 0, "repeat the check at this interval (minimum 1m)")
		if err := parse(fs, rest); err != nil {
			return err
		}
		if fs.NArg() == 0 {
			return errUsage
		}
		o := opts()
		o.Verbose = *verbose
		if *every > 0 {
			return app.RunWatch(ctx, o, fs.Args(), *every)
		}
		return app.RunCheck(ctx, o, fs.Args())

	case "stock":
		availableOnly := fs.Bool("available-only", false, "list only shelves with an available copy")
		if err := parse(fs, rest); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return errUsage
		}
		var stock app.StockOptions
		fs.Visit(func(f *flag.Flag) {
			if f.Name == "available-only" {
				stock.AvailableOnly = availableOnly
			}
		})
		return app.RunStock(ctx, opts(), fs.Arg(0), stock)

	case "theme":
		if err := parse(fs, rest); err != nil {
			return err
		}
		if fs.NArg() > 1 {
			return errUsage
		}
		return app.RunTheme(opts(), strings.TrimSpace(fs.Arg(0)))

	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return nil

	default:
		return errUsage
	}
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/bodgit/acep"
	acepimage "github.com/bodgit/acep/image"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

var conversionFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		EnvVars: []string{"ACEP_OUTPUT"},
		Usage:   "destination directory for framebuffers",
	},
	&cli.BoolFlag{
		Name:    "png",
		Aliases: []string{"p"},
		EnvVars: []string{"ACEP_PNG"},
		Usage:   "also save PNG previews of the dithered images",
	},
	&cli.BoolFlag{
		Name:    "random",
		Aliases: []string{"r"},
		EnvVars: []string{"ACEP_RANDOM"},
		Usage:   "randomize order of images that don't already exist in the output directory",
	},
	&cli.Int64Flag{
		Name:    "seed",
		EnvVars: []string{"ACEP_SEED"},
		Usage:   "seed for --random, 0 uses the current time",
	},
	&cli.IntFlag{
		Name:    "workers",
		Aliases: []string{"w"},
		EnvVars: []string{"ACEP_WORKERS"},
		Usage:   "number of images to convert in parallel (default: number of CPUs)",
	},
}

// Shells on some platforms leave wildcards alone
func expandArgs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[") {
			files = append(files, arg)
			continue
		}
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

func loadConfig(c *cli.Context) (acep.Config, error) {
	cfg := acep.DefaultConfig()

	path := c.String("config")
	if path == "" {
		path = acep.DefaultConfigPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil || c.IsSet("config") {
			fc, err := acep.LoadFileConfig(path)
			if err != nil {
				return cfg, err
			}
			acep.ApplyFileConfig(&cfg, fc)
		}
	}

	// Flags and environment variables win over the file
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("png") {
		cfg.Preview = c.Bool("png")
	}
	if c.IsSet("random") {
		cfg.Random = c.Bool("random")
	}
	if c.IsSet("seed") {
		cfg.Seed = c.Int64("seed")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("db") {
		cfg.DB = c.String("db")
	}

	return cfg, nil
}

func newConverter(c *cli.Context, cfg acep.Config) (*acep.Converter, func(), error) {
	logger := acep.NewLogger(os.Stderr, c.Bool("verbose"))

	if cfg.DB == "" {
		return acep.New(nil, logger), func() {}, nil
	}

	catalog, err := acep.NewCatalog(cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	return acep.New(catalog, logger), func() { catalog.Close() }, nil
}

func main() {
	app := cli.NewApp()

	app.Name = "acep"
	app.Usage = "Convert images for a 600x448 7-color e-paper photo frame"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			EnvVars: []string{"ACEP_CONFIG"},
			Usage:   "path to TOML config file (default: ~/.acep/config.toml)",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"ACEP_DB"},
			Usage:   "path to catalog database, recording is disabled if unset",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Dither images into the output directory",
			Description: "Input images must be exactly 600x448 pixels, any others are skipped.",
			ArgsUsage:   "IMAGE...",
			Flags:       conversionFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cfg, err := loadConfig(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if err := cfg.Validate(); err != nil {
					return cli.NewExitError(err, 1)
				}

				sources, err := expandArgs(c.Args().Slice())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				m, closeFunc, err := newConverter(c, cfg)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer closeFunc()

				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				if _, err := m.Convert(ctx, sources, cfg.Options); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "watch",
			Usage:       "Convert images from directories as they appear",
			Description: "Every image in the directories is converted at start and again whenever images are added or changed.",
			ArgsUsage:   "DIRECTORY...",
			Flags: append([]cli.Flag{
				&cli.DurationFlag{
					Name:  "delay",
					Value: acep.DefaultWatchDelay,
					Usage: "time to wait for changes to settle",
				},
			}, conversionFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cfg, err := loadConfig(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if err := cfg.Validate(); err != nil {
					return cli.NewExitError(err, 1)
				}

				m, closeFunc, err := newConverter(c, cfg)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer closeFunc()

				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				if err := m.Watch(ctx, c.Args().Slice(), cfg.Options, c.Duration("delay")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "history",
			Usage:       "List framebuffers recorded in the catalog",
			Description: "Without a directory the history of every output directory is listed.",
			ArgsUsage:   "[DIRECTORY]",
			Action: func(c *cli.Context) error {
				cfg, err := loadConfig(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if cfg.DB == "" {
					return cli.NewExitError("no catalog database configured", 1)
				}

				catalog, err := acep.NewCatalog(cfg.DB)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer catalog.Close()

				var dir string
				if c.NArg() > 0 {
					if dir, err = filepath.Abs(c.Args().First()); err != nil {
						return cli.NewExitError(err, 1)
					}
				}

				records, err := catalog.History(dir)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
				fmt.Fprintln(w, "TIME\tDIRECTORY\tINDEX\tBASENAME\tSOURCE\tSHA1")
				for _, r := range records {
					fmt.Fprintf(w, "%s\t%s\t%04d\t%s\t%s\t%s\n", r.Time.Local().Format("2006-01-02 15:04:05"), r.Directory, r.Index, r.Basename, r.Source, r.SHA1)
				}
				return w.Flush()
			},
		},
		{
			Name:        "inspect",
			Usage:       "Show the palette usage of a framebuffer",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "png",
					Usage: "render the framebuffer to this PNG file",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := acep.ReadFramebuffer(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				palette := acepimage.Palette()
				usage := acepimage.Usage(m)
				w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', tabwriter.AlignRight)
				fmt.Fprintln(w, "INDEX\tCOLOR\tPIXELS\tPERCENT\t")
				for i, n := range usage {
					fmt.Fprintf(w, "%d\t%s\t%d\t%.1f\t\n", i, palette[i].Hex(), n, 100*float64(n)/float64(len(m.Pix)))
				}
				if err := w.Flush(); err != nil {
					return err
				}

				if out := c.String("png"); out != "" {
					if err := acep.WritePNG(out, m); err != nil {
						return cli.NewExitError(err, 1)
					}
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger := acep.NewLogger(os.Stderr, false)
		logger.Fatal().Err(err).Msg("")
	}
}

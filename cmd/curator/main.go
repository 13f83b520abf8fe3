// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/poiesic/curator"
	"github.com/poiesic/curator/config"
	"github.com/poiesic/curator/ingestion"
	"github.com/poiesic/curator/migrate"
	"github.com/poiesic/curator/progress"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "curator",
		Usage: "Ingest and reconcile portfolio content from code hosts, feeds and archives",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Fetch the selected sources and upsert them into the store",
				Action: ingestCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:  "github-user",
						Usage: "GitHub account whose public repositories become projects",
					},
					&cli.StringFlag{
						Name:  "feed-user",
						Usage: "Medium account whose RSS feed is read",
					},
					&cli.StringFlag{
						Name:  "archive",
						Usage: "Path to a Medium export zip file",
					},
					&cli.StringFlag{
						Name:  "devto-user",
						Usage: "Dev.to account whose articles are read",
					},
					&cli.StringFlag{
						Name:  "manual",
						Usage: "Path to a YAML file of hand-declared projects, applications and blogs",
					},
					&cli.StringFlag{
						Name:  "ai-host",
						Usage: "Enrichment service host URL",
					},
					&cli.StringFlag{
						Name:  "ai-model",
						Usage: "Enrichment model name",
					},
					&cli.BoolFlag{
						Name:  "no-ai",
						Usage: "Disable enrichment",
					},
					&cli.BoolFlag{
						Name:  "skip-migration",
						Usage: "Do not collapse duplicates or rename legacy ids before ingesting",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report archive progress every N posts",
						Value: 10,
					},
				),
			},
			{
				Name:   "migrate",
				Usage:  "Collapse duplicate records and rename legacy ids",
				Action: migrateCommand,
				Flags: append(storeFlags(),
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Print the plan without writing",
					},
				),
			},
		},
	}
}

// storeFlags are shared by every command that opens the store.
func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML config file (default: " + config.DefaultConfigPath() + ")",
		},
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory",
		},
		&cli.StringFlag{
			Name:  "store",
			Usage: "Store backend (badger, redis)",
		},
		&cli.StringFlag{
			Name:  "redis-addr",
			Usage: "Redis address when --store=redis",
		},
	}
}

// loadConfig reads the config file and environment, then applies any flags
// given on the command line.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	setString := func(flag string, dst *string) {
		if c.IsSet(flag) {
			*dst = c.String(flag)
		}
	}
	setString("db", &cfg.Store.Path)
	setString("store", &cfg.Store.Backend)
	setString("redis-addr", &cfg.Store.Redis.Addr)
	setString("github-user", &cfg.Sources.GitHub.User)
	setString("feed-user", &cfg.Sources.Feed.User)
	setString("archive", &cfg.Sources.Archive.Path)
	setString("devto-user", &cfg.Sources.DevTo.User)
	setString("manual", &cfg.Sources.Manual.Path)
	setString("ai-host", &cfg.AI.Host)
	setString("ai-model", &cfg.AI.Model)
	setString("log-level", &cfg.LogLevel)
	if c.IsSet("no-ai") {
		cfg.AI.Disabled = c.Bool("no-ai")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// A level from the file or environment applies unless the flag was given.
	if !c.IsSet("log-level") {
		if err := configureLogger(cfg.LogLevel); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func ingestCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	cur, err := curator.OpenConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer cur.Close()

	tracker := progress.NewTracker(os.Stderr, "archive", c.Int("report-interval"))
	sources, err := cur.Sources(cfg.Sources, tracker.Observe)
	if err != nil {
		return err
	}

	var opts []ingestion.Option
	if c.Bool("skip-migration") {
		opts = append(opts, ingestion.WithMigrator(nil))
	}
	pipeline, err := cur.NewIngestionPipeline(opts...)
	if err != nil {
		return err
	}

	report := pipeline.Run(ctx, sources...)
	tracker.Finish()

	_, err = report.WriteTo(c.App.Writer)
	return err
}

func migrateCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	cur, err := curator.OpenConfig(ctx, cfg, curator.WithoutAI())
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer cur.Close()

	dryRun := c.Bool("dry-run")
	reports, runErr := cur.NewMigrator(migrate.WithDryRun(dryRun)).Run(ctx)
	if err := printMigration(c.App.Writer, reports, dryRun); err != nil {
		return err
	}
	if runErr != nil {
		slog.Warn("migration incomplete", "err", runErr)
	}
	return nil
}

// printMigration writes one row per collection and, for a dry run, every
// planned action.
func printMigration(w io.Writer, reports []migrate.Report, dryRun bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tGROUPS\tRENAMED\tDELETED")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", r.Kind, r.Groups, r.Renamed, r.Deleted)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !dryRun {
		return nil
	}
	fmt.Fprintln(w, "\ndry run, nothing written:")
	for _, r := range reports {
		for _, plan := range r.Plans {
			fmt.Fprintf(w, "  %s: keep %s as %s", r.Kind, plan.Winner, plan.Target)
			if len(plan.Losers) > 0 {
				fmt.Fprintf(w, ", delete %s", strings.Join(plan.Losers, ", "))
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	return configureLogger(c.String("log-level"))
}

func configureLogger(name string) error {
	level, err := config.ParseLevel(strings.ToLower(name))
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}

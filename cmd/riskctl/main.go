// Command riskctl scores assessments and manages offence reference data
// against the service database without going through the HTTP API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/adapters"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/database"
	apperrors "github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/errors"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/monitoring"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/offence"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/resilience"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/risk"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/types"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		slog.Error("riskctl failed", "error", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "riskctl",
		Usage:  "score assessments and manage offence reference data",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db-driver",
				Value:   database.DriverSQLite,
				Usage:   "database/sql driver: sqlite3 or pgx",
				EnvVars: []string{"DB_DRIVER"},
			},
			&cli.StringFlag{
				Name:    "database-url",
				Value:   "file:./data/offences.db?_foreign_keys=on",
				Usage:   "database connection string",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger := monitoring.NewLoggerTo(os.Stderr, monitoring.ParseLevel(c.String("log-level")))
			slog.SetDefault(logger.Logger)
			return nil
		},
		Commands: []*cli.Command{
			scoreCommand(),
			offencesCommand(),
		},
	}
}

func scoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "score",
		Usage:     "run every predictor over an assessment request file",
		ArgsUsage: "REQUEST.json",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("score needs exactly one request file")
			}
			var req types.RiskScoreRequest
			if err := readJSON(c.Args().First(), &req); err != nil {
				return err
			}

			return withStore(c, func(store *offence.Store) error {
				resp := risk.NewService(store).Score(c.Context, &req)
				return writeJSON(c.App.Writer, resp)
			})
		},
	}
}

func offencesCommand() *cli.Command {
	return &cli.Command{
		Name:  "offences",
		Usage: "manage offence reference data",
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "print the reference record for one offence code",
				ArgsUsage: "CODE",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("get needs exactly one offence code")
					}
					return withStore(c, func(store *offence.Store) error {
						rec, err := store.Lookup(c.Args().First())
						if err != nil {
							return err
						}
						return writeJSON(c.App.Writer, rec)
					})
				},
			},
			{
				Name:      "import",
				Usage:     "replace the reference set with the mappings in a file",
				ArgsUsage: "MAPPINGS.json",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("import needs exactly one mappings file")
					}
					var mappings []adapters.OffenceMapping
					if err := readJSON(c.Args().First(), &mappings); err != nil {
						return err
					}
					records := make([]offence.Record, 0, len(mappings))
					for _, m := range mappings {
						records = append(records, m.Record())
					}
					return withStore(c, func(store *offence.Store) error {
						return syncAndReport(c, store, records)
					})
				},
			},
			{
				Name:  "sync",
				Usage: "replace the reference set from the upstream offence API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Required: true, EnvVars: []string{"OFFENCE_API_URL"}},
					&cli.StringFlag{Name: "token", EnvVars: []string{"OFFENCE_API_TOKEN"}},
				},
				Action: func(c *cli.Context) error {
					client := adapters.NewOffenceClient(adapters.OffenceClientConfig{
						BaseURL: c.String("url"),
						Token:   c.String("token"),
						Retry:   resilience.DefaultRetryConfig(),
					})
					records, err := client.FetchAll(c.Context)
					if err != nil {
						return err
					}
					return withStore(c, func(store *offence.Store) error {
						return syncAndReport(c, store, records)
					})
				},
			},
		},
	}
}

func syncAndReport(c *cli.Context, store *offence.Store, records []offence.Record) error {
	result, err := store.Sync(c.Context, records)
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, result)
}

// withStore opens the database, loads the persisted reference set and hands
// the store to fn. The database is closed when fn returns.
func withStore(c *cli.Context, fn func(*offence.Store) error) error {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := database.Open(ctx, database.DefaultConfig(c.String("db-driver"), c.String("database-url")))
	if err != nil {
		return err
	}
	defer apperrors.SafeClose(db, "database")

	store := offence.NewStore(offence.NewSQLRepository(db), slog.Default())
	if err := store.Load(ctx); err != nil {
		return fmt.Errorf("failed to load offence codes: %w", err)
	}
	return fn(store)
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

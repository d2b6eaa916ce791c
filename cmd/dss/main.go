// cmd/dss/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/pharmaretail/dss-go/internal/config"
	"github.com/pharmaretail/dss-go/internal/repository"
	"github.com/pharmaretail/dss-go/internal/service"
	"github.com/pharmaretail/dss-go/pkg/logger"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

// jobRunner adapts a service Run method so every job can share one action.
type jobRunner func(c *cli.Context, deps *jobDeps) (int, error)

type jobDeps struct {
	sales     repository.SalesRepository
	snapshots repository.SnapshotRepository
	tx        service.TxRunner
	since     time.Time
}

// sqlxTxRunner wraps a bare sqlx.DB with the transaction semantics the
// services expect.
type sqlxTxRunner struct {
	db *sqlx.DB
}

func (r *sqlxTxRunner) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("error rolling back transaction: %v (original: %w)", rbErr, err)
		}
		return err
	}
	return tx.Commit()
}

var jobs = map[string]jobRunner{
	"kpi": func(c *cli.Context, deps *jobDeps) (int, error) {
		results, err := service.NewMetricsService(deps.sales, deps.snapshots, deps.tx, deps.since).Run(c.Context)
		return len(results), err
	},
	"restocks": func(c *cli.Context, deps *jobDeps) (int, error) {
		results, err := service.NewRestockService(deps.sales, deps.snapshots, deps.tx, deps.since, nil).Run(c.Context)
		return len(results), err
	},
	"seasonal": func(c *cli.Context, deps *jobDeps) (int, error) {
		results, err := service.NewSeasonalService(deps.sales, deps.snapshots, deps.tx).Run(c.Context)
		return len(results), err
	},
	"recommendations": func(c *cli.Context, deps *jobDeps) (int, error) {
		results, err := service.NewRecommendationService(deps.sales, deps.snapshots, deps.tx).Run(c.Context)
		return len(results), err
	},
	"customer-patterns": func(c *cli.Context, deps *jobDeps) (int, error) {
		results, err := service.NewCustomerService(deps.sales, deps.snapshots, deps.tx).Run(c.Context)
		return len(results), err
	},
}

var jobOrder = []string{"kpi", "restocks", "seasonal", "recommendations", "customer-patterns"}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "dss",
		Usage: "Run the pharmacy DSS analytics jobs from the command line",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run one analytics job, or all of them",
				ArgsUsage: "[kpi|restocks|seasonal|recommendations|customer-patterns|all]",
				Flags: []cli.Flag{
					newDBURLFlag(),
				},
				Action: runJob,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runJob(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		name = "all"
	}
	if name != "all" {
		if _, ok := jobs[name]; !ok {
			return fmt.Errorf("unknown job %q", name)
		}
	}

	db, err := sqlx.Connect("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	deps := &jobDeps{
		sales:     repository.NewSalesRepository(db),
		snapshots: repository.NewSnapshotRepository(db),
		tx:        &sqlxTxRunner{db: db},
		since:     config.Load().DSS.AnalysisStartDate,
	}

	names := []string{name}
	if name == "all" {
		names = jobOrder
	}

	for _, jobName := range names {
		started := time.Now()
		count, err := jobs[jobName](c, deps)
		if err != nil {
			return fmt.Errorf("job %s failed: %w", jobName, err)
		}
		logger.Log.Info().
			Str("job", jobName).
			Int("rows", count).
			Dur("elapsed", time.Since(started)).
			Msg("job finished")
	}
	return nil
}

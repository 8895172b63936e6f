package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"shoppingcart/internal/config"
	"shoppingcart/internal/db"
	"shoppingcart/internal/importer"
	"shoppingcart/internal/logging"
	productrepo "shoppingcart/internal/repository/product"
)

func main() {
	app := &cli.App{
		Name:  "importer",
		Usage: "load products from a CSV file (id,name,price) into the catalogue",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "path to the product CSV",
				Required: true,
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if !cfg.UseDatabase() {
		return errors.New("DB_DSN is required")
	}
	logger := logging.New("importer", cfg.LogLevel)

	pool, err := db.Connect(c.Context, cfg.DBConnString)
	if err != nil {
		return errors.Wrap(err, "connect db")
	}
	defer pool.Close()

	f, err := os.Open(c.String("file"))
	if err != nil {
		return errors.Wrap(err, "open file")
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, productrepo.NewPostgres(pool, logger))

	start := time.Now()
	count, err := imp.Run(c.Context)
	if err != nil {
		return errors.Wrapf(err, "import failed after %d products", count)
	}

	logger.WithField("took", time.Since(start).Truncate(time.Millisecond)).Infof("imported %d products", count)
	return nil
}

package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/golang-migrate/migrate/v4"
	migratep "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jessevdk/go-flags"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/crowdhive/crowdhive/internal/storage"
	"github.com/crowdhive/crowdhive/internal/storage/postgres"
)

// nolint:lll,gochecknoglobals
var opts = struct {
	Dump               string `long:"dump" env:"DUMP" default:"localstorage.json" description:"path to JSON.stringify(localStorage) output"`
	Postgres           string `long:"postgres" env:"POSTGRES" default:"host=localhost port=5432 user=postgres password=root sslmode=disable" description:"postgres dsn"`
	PostgresMigrations string `long:"postgres.migrations" env:"POSTGRES_MIGRATIONS" default:"scripts/migrations/postgres" description:"postgres migrations directory"`
}{}

// raw keys hold plain strings, other keys hold JSON documents.
// hiveAccount is skipped: it is a cache and is refetched on login.
var keys = map[string]bool{
	"hiveUsername":       true,
	"bookmarkedProjects": false,
	"projectDrafts":      false,
}

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "localstorage2db"
	parser.LongDescription = "Browser local storage to database importer"

	_, err := parser.Parse()

	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		logrus.WithError(err).Fatal("error occurred while parsing flags")
	}

	logrus.Info("localstorage2db started")

	b, err := ioutil.ReadFile(opts.Dump)
	if err != nil {
		logrus.WithError(err).Fatal("failed to read dump")
	}

	var dump map[string]string
	if err := json.Unmarshal(b, &dump); err != nil {
		logrus.WithError(err).Fatal("failed to unmarshal dump")
	}

	values, err := convert(dump)
	if err != nil {
		logrus.WithError(err).Fatal("failed to convert dump")
	}

	s := postgres.New(mustGetDB())

	err = s.InTx(context.Background(), func(s storage.Storage) error {
		for k, v := range values {
			if err := s.Set(context.Background(), k, v); err != nil {
				return fmt.Errorf("failed to set %s: %w", k, err)
			}
			logrus.Infof("%s imported", k)
		}
		return nil
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to import")
	}

	logrus.Info("done")
}

func convert(dump map[string]string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))

	for k, raw := range keys {
		v, ok := dump[k]
		if !ok {
			continue
		}

		if raw {
			b, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal %s: %w", k, err)
			}
			out[k] = b
			continue
		}

		if !json.Valid([]byte(v)) {
			return nil, fmt.Errorf("%s is not a valid json", k)
		}
		out[k] = []byte(v)
	}

	return out, nil
}

func mustGetDB() *sql.DB {
	db, err := sql.Open("postgres", opts.Postgres)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create postgres connection")
	}

	if err := db.PingContext(context.Background()); err != nil {
		logrus.WithError(err).Fatal("failed to ping postgres")
	}

	driver, err := migratep.WithInstance(db, &migratep.Config{})
	if err != nil {
		logrus.WithError(err).Fatal("failed to create database migrate driver")
	}

	migrator, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", opts.PostgresMigrations), "postgres", driver)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create migrator")
	}

	switch err := migrator.Up(); err {
	case nil:
		logrus.Info("database was migrated")
	case migrate.ErrNoChange:
		logrus.Info("database is up-to-date")
	default:
		logrus.WithError(err).Fatal("failed to migrate db")
	}

	return db
}

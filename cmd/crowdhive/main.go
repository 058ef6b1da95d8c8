package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-chi/chi"
	"github.com/golang-migrate/migrate/v4"
	migratep "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jessevdk/go-flags"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Decentr-net/logrus/sentry"

	"github.com/crowdhive/crowdhive/internal/health"
	"github.com/crowdhive/crowdhive/internal/hive"
	"github.com/crowdhive/crowdhive/internal/hive/jsonrpc"
	"github.com/crowdhive/crowdhive/internal/metrics"
	"github.com/crowdhive/crowdhive/internal/price"
	"github.com/crowdhive/crowdhive/internal/price/coingecko"
	"github.com/crowdhive/crowdhive/internal/server"
	"github.com/crowdhive/crowdhive/internal/service/impl"
	"github.com/crowdhive/crowdhive/internal/session"
	"github.com/crowdhive/crowdhive/internal/storage"
	"github.com/crowdhive/crowdhive/internal/storage/memory"
	"github.com/crowdhive/crowdhive/internal/storage/postgres"
	"github.com/crowdhive/crowdhive/internal/wallet"
	"github.com/crowdhive/crowdhive/internal/wallet/remote"
)

// nolint:lll,gochecknoglobals
var opts = struct {
	Host           string        `long:"http.host" env:"HTTP_HOST" default:"127.0.0.1" description:"IP to listen on"`
	Port           int           `long:"http.port" env:"HTTP_PORT" default:"8080" description:"port to listen on for insecure connections"`
	RequestTimeout time.Duration `long:"http.request_timeout" env:"HTTP_REQUEST_TIMEOUT" default:"45s" description:"request processing timeout, should cover user's confirmation in the signer"`

	HiveNode    string        `long:"hive.node" env:"HIVE_NODE" default:"https://api.hive.blog/" description:"hive JSON-RPC node"`
	HiveTimeout time.Duration `long:"hive.timeout" env:"HIVE_TIMEOUT" default:"10s" description:"timeout for requests to hive node"`

	PriceURL      string        `long:"price.url" env:"PRICE_URL" default:"https://api.coingecko.com/api/v3/simple/price?ids=hive&vs_currencies=usd" description:"HIVE price quote url, empty means fallback rate is always used"`
	PriceTimeout  time.Duration `long:"price.timeout" env:"PRICE_TIMEOUT" default:"5s" description:"timeout for price requests"`
	PriceCacheTTL time.Duration `long:"price.cache_ttl" env:"PRICE_CACHE_TTL" default:"1m" description:"price quote cache ttl, 0 disables cache"`

	SignerURL     string        `long:"signer.url" env:"SIGNER_URL" description:"signing bridge url, empty means the extension is missing"`
	SignerTimeout time.Duration `long:"signer.timeout" env:"SIGNER_TIMEOUT" default:"40s" description:"timeout for signing requests"`

	Storage                    string `long:"storage" env:"STORAGE" default:"memory" choice:"memory" choice:"postgres" description:"key-value storage"`
	Postgres                   string `long:"postgres" env:"POSTGRES" default:"host=localhost port=5432 user=postgres password=root sslmode=disable" description:"postgres dsn"`
	PostgresMaxOpenConnections int    `long:"postgres.max_open_connections" env:"POSTGRES_MAX_OPEN_CONNECTIONS" default:"0" description:"postgres maximal open connections count, 0 means unlimited"`
	PostgresMaxIdleConnections int    `long:"postgres.max_idle_connections" env:"POSTGRES_MAX_IDLE_CONNECTIONS" default:"5" description:"postgres maximal idle connections count"`
	PostgresMigrations         string `long:"postgres.migrations" env:"POSTGRES_MIGRATIONS" default:"scripts/migrations/postgres" description:"postgres migrations directory"`

	LogLevel  string `long:"log.level" env:"LOG_LEVEL" default:"info" description:"Log level" choice:"debug" choice:"info" choice:"warning" choice:"error"`
	SentryDSN string `long:"sentry.dsn" env:"SENTRY_DSN" description:"sentry dsn"`
}{}

var errTerminated = errors.New("terminated")

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "CrowdHive"
	parser.LongDescription = "CrowdHive Hive wallet and projects gateway"

	_, err := parser.Parse()

	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		logrus.WithError(err).Fatal("error occurred while parsing flags")
	}

	lvl, _ := logrus.ParseLevel(opts.LogLevel) // err will always be nil
	logrus.SetLevel(lvl)

	logrus.Debug(spew.Sdump(opts))

	if opts.SentryDSN != "" {
		hook, err := sentry.NewHook(sentry.Options{
			Dsn:              opts.SentryDSN,
			AttachStacktrace: true,
			Release:          health.GetVersion(),
			ServerName:       "crowdhive",
		}, logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel)

		if err != nil {
			logrus.WithError(err).Fatal("failed to init sentry")
		}

		logrus.AddHook(hook)
	} else {
		logrus.Info("empty sentry dsn")
		logrus.Warn("skip sentry initialization")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	st := mustGetStorage()
	sess := session.New(st)

	hc := jsonrpc.New(opts.HiveNode, &http.Client{Timeout: opts.HiveTimeout}, m)
	accounts := impl.NewAccounts(hc, sess)
	bridge := wallet.New(mustGetSigner(), sess, accounts, m)
	projects := impl.NewProjects(hc, bridge)

	r := chi.NewMux()
	r.Get("/health", health.Handler(
		5*time.Second,
		health.SubjectPinger("storage", st.Ping),
		health.SubjectPinger("hive", pingHive(hc)),
	))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		server.SetupRouter(server.Services{
			Session:      sess,
			Wallet:       bridge,
			Accounts:     accounts,
			Projects:     projects,
			Transactions: impl.NewTransactions(hc, bridge, mustGetQuoter(m)),
			Bookmarks:    impl.NewBookmarks(st),
			Drafts:       impl.NewDrafts(st, projects),
		}, r, opts.RequestTimeout, m)
	})

	srv := http.Server{
		Addr:    fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Handler: r,
	}

	gr, _ := errgroup.WithContext(context.Background())
	gr.Go(srv.ListenAndServe)
	gr.Go(func() error {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

		s := <-sigs

		logrus.Infof("terminating by %s signal", s)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logrus.WithError(err).Error("failed to gracefully shutdown server")
		}

		return errTerminated
	})

	logrus.Infof("service started at %s", srv.Addr)

	if err := gr.Wait(); err != nil && !errors.Is(err, errTerminated) && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Fatal("service unexpectedly closed")
	}
}

func pingHive(c hive.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := c.GetAccounts(ctx)
		return err
	}
}

func mustGetSigner() wallet.Signer {
	if opts.SignerURL == "" {
		logrus.Warn("empty signer url, signing is unavailable")
		return nil
	}

	return remote.New(opts.SignerURL, &http.Client{Timeout: opts.SignerTimeout})
}

func mustGetQuoter(m metrics.Metrics) price.Quoter {
	if opts.PriceURL == "" {
		logrus.Warn("empty price url, fallback rate will be used")
		return nil
	}

	return coingecko.New(opts.PriceURL, &http.Client{Timeout: opts.PriceTimeout}, opts.PriceCacheTTL, m)
}

func mustGetStorage() storage.Storage {
	switch opts.Storage {
	case "postgres":
		return postgres.New(mustGetDB())
	default:
		logrus.Warn("memory storage is used, session will be lost on restart")
		return memory.New()
	}
}

func mustGetDB() *sql.DB {
	db, err := sql.Open("postgres", opts.Postgres)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create postgres connection")
	}
	db.SetMaxOpenConns(opts.PostgresMaxOpenConnections)
	db.SetMaxIdleConns(opts.PostgresMaxIdleConnections)

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

	switch v, d, err := migrator.Version(); err {
	case nil:
		logrus.Infof("database version %d with dirty state %t", v, d)
	case migrate.ErrNilVersion:
		logrus.Info("database version: nil")
	default:
		logrus.WithError(err).Fatal("failed to get version")
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

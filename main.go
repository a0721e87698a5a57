//
// microblog
// =========
// A small blogging service: a paginated global feed, per-group feeds,
// author profiles, and authenticated post creation and editing.
//
// Boot the server:
// ----------------
// $ go run .
//
// Generate route docs:
// --------------------
// $ go run . -routes
//
package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/docgen"
	"go.uber.org/zap"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"

	"microblog/internal/api"
	"microblog/internal/auth"
	"microblog/internal/authoring"
	"microblog/internal/feed"
	"microblog/internal/pagination"
	"microblog/internal/store"
	"microblog/internal/web"
)

const ServiceName = "microblog"

func main() {
	var (
		routes      = flag.Bool("routes", getEnvBool(ServiceName+"_routes", false), "Generate router documentation")
		addr        = flag.String("addr", getEnv(ServiceName+"_ADDR", ":3333"), "application port")
		diagAddr    = flag.String("diag_addr", getEnv(ServiceName+"_DIAG_ADDR", ":9999"), "diag port")
		dbPath      = flag.String("db", getEnv(ServiceName+"_DB", "microblog.db"), "sqlite database path")
		templateDir = flag.String("templates", getEnv(ServiceName+"_TEMPLATES", "web/templates"), "template directory")
		staticDir   = flag.String("static", getEnv(ServiceName+"_STATIC", "web/static"), "static files directory")
		pageSize    = flag.Int("page_size", getEnvInt(ServiceName+"_PAGE_SIZE", 10), "posts per feed page")
		sessionTTL  = flag.Int("session_ttl", getEnvInt(ServiceName+"_SESSION_TTL", 24), "session lifetime, hours")
	)

	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync() // flushes buffer, if any
	sugar := logger.Sugar()

	config := prometheus.Config{}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(config.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)
	exporter, err := prometheus.New(config, c)
	if err != nil {
		sugar.Panicf("failed to initialize prometheus exporter %v", err)
	}
	global.SetMeterProvider(exporter.MeterProvider())

	meter := global.Meter(ServiceName)
	completedCount := metric.Must(meter).NewInt64Counter(
		"http/server/completed_count",
		metric.WithDescription("Count of completed requests"),
	).Bind(attribute.String("service", ServiceName))
	defer completedCount.Unbind()

	st, err := store.Open(*dbPath)
	if err != nil {
		sugar.Fatalw("open store", "path", *dbPath, "err", err)
	}
	defer st.Close()

	pager := pagination.New(*pageSize)
	feedSvc := feed.New(st, pager)
	authoringSvc := authoring.New(st)
	authSvc := auth.New(st, time.Duration(*sessionTTL)*time.Hour)

	srv, err := web.New(sugar, feedSvc, authoringSvc, authSvc, *templateDir, *staticDir)
	if err != nil {
		sugar.Fatalw("build server", "err", err)
	}

	r := srv.Router()
	r.Mount("/api/v1", api.New(feedSvc).Router())

	diagRouter := chi.NewRouter()
	diagRouter.Get("/metrics", exporter.ServeHTTP)

	if *routes {
		// nolint
		fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
			ProjectPath: "microblog",
			Intro:       "microblog generated route docs.",
		}))

		return
	}

	counted := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.ServeHTTP(w, req)
		completedCount.Add(req.Context(), 1)
	})

	go func() {
		sugar.Infow("listening", "addr", *addr)
		if err := http.ListenAndServe(*addr, counted); err != nil {
			sugar.Errorw(err.Error())
		}
	}()

	if err := http.ListenAndServe(*diagAddr, diagRouter); err != nil {
		sugar.Errorw(err.Error())
	}
}

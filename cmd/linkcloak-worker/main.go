package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bgentry/que-go"
	_ "github.com/heroku/x/hmetrics/onload"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"github.com/zirius/linkcloak/modules/enrich"
	"github.com/zirius/linkcloak/modules/geo"
	"github.com/zirius/linkcloak/modules/queue"
	"github.com/zirius/linkcloak/pg"
)

var worker *enrich.Worker

func init() {
	// Output to stdout instead of the default stderr
	log.SetOutput(os.Stdout)
}

// RunEnrichVisitJob is the que handler for one visit. It always returns
// nil: enrichment is best-effort and a failed record is dropped rather
// than retried, the visitor was answered long ago.
func RunEnrichVisitJob(j *que.Job) error {
	var request queue.EnrichVisitRequest
	if err := json.Unmarshal(j.Args, &request); err != nil {
		log.WithError(err).Error("Unable to unmarshal job arguments into EnrichVisitRequest: " + string(j.Args))
		return nil
	}

	log.WithField("EnrichVisitRequest", request).Info("Processing EnrichVisitRequest!")
	worker.Process(request)
	return nil
}

func main() {
	godotenv.Load()

	database := os.Getenv("DATABASE_URL")
	if database == "" {
		log.Fatal("$DATABASE_URL must be set")
	}

	pgxpool, qc, err := queue.Setup(database)
	if err != nil {
		log.Fatal("error initializing que-go")
	}
	defer pgxpool.Close()

	db, err := sqlx.Open("postgres", database)
	if err != nil {
		log.Fatalf("Error opening database: %q", err)
	}

	geoTimeout := geo.DefaultTimeout
	if seconds, err := strconv.Atoi(os.Getenv("GEO_TIMEOUT_SECONDS")); err == nil && seconds > 0 {
		geoTimeout = time.Duration(seconds) * time.Second
	}

	worker = enrich.NewWorker(pg.NewStore(db), geo.NewClient(geoTimeout))

	wm := que.WorkMap{
		queue.EnrichVisitJob: RunEnrichVisitJob,
	}

	workerCount := 2
	if n, err := strconv.Atoi(os.Getenv("QUE_WORKERS")); err == nil && n > 0 {
		workerCount = n
	}
	workers := que.NewWorkerPool(qc, wm, workerCount)

	// Catch signal so we can shutdown gracefully
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go workers.Start()

	// Wait for a signal
	sig := <-sigCh
	log.WithField("signal", sig).Info("Signal received. Shutting down.")

	workers.Shutdown()
}

package queue

import (
	"encoding/json"

	"github.com/bgentry/que-go"
	"github.com/jackc/pgx"
	"github.com/pkg/errors"

	"github.com/zirius/linkcloak/models"
)

const (
	EnrichVisitJob = "EnrichVisitJob"
)

// EnrichVisitRequest is the immutable snapshot handed to the enrichment
// worker at dispatch time: the resolved link, the raw forwarded-for value
// and whatever the interstitial collected in the browser.
type EnrichVisitRequest struct {
	LinkID  int64                `json:"link_id"`
	IP      string               `json:"ip"`
	Signals models.ClientSignals `json:"signals"`
}

// Dispatcher is the narrow dispatch capability the resolution handler
// needs; *que.Client satisfies it and tests substitute a recorder.
type Dispatcher interface {
	Enqueue(j *que.Job) error
}

func DispatchEnrichVisitJob(qc Dispatcher, request EnrichVisitRequest) error {
	enc, err := json.Marshal(request)
	if err != nil {
		return errors.Wrap(err, "Marshalling the EnrichVisitRequest")
	}

	j := que.Job{
		Type: EnrichVisitJob,
		Args: enc,
	}

	return errors.Wrap(qc.Enqueue(&j), "Enqueueing Job")
}

// GetPgxPool based on the provided database URL
func GetPgxPool(dbURL string) (*pgx.ConnPool, error) {
	pgxcfg, err := pgx.ParseURI(dbURL)
	if err != nil {
		return nil, err
	}

	pgxpool, err := pgx.NewConnPool(pgx.ConnPoolConfig{
		ConnConfig:   pgxcfg,
		AfterConnect: que.PrepareStatements,
	})

	if err != nil {
		return nil, err
	}

	return pgxpool, nil
}

// Setup a *pgx.ConnPool and *que.Client
// This is here so that setup routines can easily be shared between web and
// workers
func Setup(dbURL string) (*pgx.ConnPool, *que.Client, error) {
	pgxpool, err := GetPgxPool(dbURL)
	if err != nil {
		return nil, nil, err
	}

	qc := que.NewClient(pgxpool)

	return pgxpool, qc, err
}

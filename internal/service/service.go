package service

import (
	"context"
	"errors"
	"math"

	"github.com/jmoiron/sqlx"
)

// ErrNoData is returned by a job when its input set is empty. Handlers map it
// to a 404 envelope; anything else is a 500.
var ErrNoData = errors.New("no data available")

// TxRunner runs a function inside a database transaction. Satisfied by
// postgres.DB; tests substitute a fake that passes a nil tx straight through.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

package store

import (
	"errors"

	"github.com/mirror12k/catwalk-apigen/pkg/types"
)

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = errors.New("run not found")

// RunFilter narrows ListRuns. Zero values match everything.
type RunFilter struct {
	Target string
	Limit  int
}

type Store interface {
	CreateRun(run *types.GenerationRun) error
	GetRun(id string) (*types.GenerationRun, error)
	ListRuns(filter RunFilter) ([]types.GenerationRun, error)
	DeleteRun(id string) error

	Close() error
}

package storage

import "internalSwapPool/internal/model"

// Journal is a sink for swap outcomes.
type Journal interface {
	PutOutcomeBatch(records []model.OutcomeRecord) error
}

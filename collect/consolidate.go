package collect

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/paddock/logger"
	"github.com/teranos/paddock/recordset"
	"github.com/teranos/paddock/sink"
)

// Outcome is the consolidation result of one category.
type Outcome struct {
	Category Category
	Name     string
	Target   string
	Sets     int
	Rows     int
	Empty    bool  // nothing accumulated, nothing written
	Err      error // sink failure
}

// Written reports whether the table was persisted.
func (o Outcome) Written() bool {
	return !o.Empty && o.Err == nil
}

// Consolidator merges a category's record sets and writes them to the sink
// under "{stem}_{start}_to_{end}".
type Consolidator struct {
	sink   sink.Sink
	start  int
	end    int
	logger *zap.SugaredLogger
}

// NewConsolidator creates a consolidator for a run over seasons start..end.
func NewConsolidator(s sink.Sink, start, end int, log *zap.SugaredLogger) *Consolidator {
	return &Consolidator{sink: s, start: start, end: end, logger: log}
}

// Consolidate concatenates sets in accumulation order (column union, missing
// cells empty) and writes the table. No sets means no write; that is not an error.
func (c *Consolidator) Consolidate(ctx context.Context, category Category, sets []*recordset.Set) Outcome {
	name := category.OutputName(c.start, c.end)
	out := Outcome{Category: category, Name: name, Sets: len(sets)}

	if len(sets) == 0 {
		out.Empty = true
		c.logger.Infow("No data to save", logger.FieldCategory, category.Stem())
		return out
	}

	table := recordset.Concat(sets...)
	out.Rows = table.Len()
	out.Target = c.sink.Target(name)

	if err := c.sink.Write(ctx, name, table); err != nil {
		out.Err = err
		c.logger.Errorw("Failed to save table",
			logger.FieldCategory, category.Stem(),
			logger.FieldPath, out.Target,
			logger.FieldError, err,
		)
		return out
	}

	c.logger.Infow("Saved table",
		logger.FieldCategory, category.Stem(),
		logger.FieldRows, out.Rows,
		logger.FieldSets, out.Sets,
		logger.FieldPath, out.Target,
	)
	return out
}

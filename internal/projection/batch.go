package projection

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"hondaapi/internal/logging"
	"hondaapi/internal/model"
)

// Metrics counts skipped records. A nil *Metrics records nothing.
type Metrics struct {
	skipped *prometheus.CounterVec
}

// NewMetrics registers the projection counters on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		skipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "projection_skipped_total",
				Help: "Stored records left out of a listing because they could not be projected.",
			},
			[]string{"collection", "reason"},
		),
	}
	if err := reg.Register(m.skipped); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) skip(collection, reason string) {
	if m == nil {
		return
	}
	m.skipped.WithLabelValues(collection, reason).Inc()
}

// ProjectAll projects every record in order. Records that fail are logged at
// WARN with their id and reason, counted, and left out.
func ProjectAll[T model.Entity](ctx context.Context, p *Projector, log logging.Logger, collection string, recs []model.Record, project func(context.Context, model.Record) (T, error)) []T {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		e, err := project(ctx, rec)
		if err != nil {
			reason := "error"
			var se *SkipError
			if errors.As(err, &se) {
				reason = se.Reason
			}
			log.Warn(ctx, "record skipped", "collection", collection, "doc_id", rec.ID, "reason", err.Error())
			p.Metrics.skip(collection, reason)
			continue
		}
		out = append(out, e)
	}
	return out
}

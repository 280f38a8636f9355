package diagnostics

import (
	"context"

	"github.com/Adda-Baaj/tour-of-heroes/internal/logger"
	"github.com/Adda-Baaj/tour-of-heroes/pkg/publishers"
)

// Reporter records failed hero requests in the structured log and forwards
// them to every configured publisher.
type Reporter struct {
	source string
	fanout *publishers.Fanout
	log    logger.Logger
}

// NewReporter builds a reporter. A nil fanout only logs.
func NewReporter(source string, fanout *publishers.Fanout, log logger.Logger) *Reporter {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Reporter{source: source, fanout: fanout, log: log}
}

// ReportError satisfies heroes.Reporter. Publish failures are logged and dropped.
func (r *Reporter) ReportError(ctx context.Context, operation string, err error) {
	if err == nil {
		return
	}
	evt := publishers.NewEvent(r.source, operation, err)
	r.log.ErrorObj("hero request failed", "hero_error", evt)

	if r.fanout.Size() == 0 {
		return
	}
	delivered, pubErr := r.fanout.Publish(ctx, evt)
	if pubErr != nil {
		r.log.WarnObj("failure event publish incomplete", "publish_result", map[string]any{
			"event_id":  evt.ID,
			"delivered": delivered,
			"error":     pubErr.Error(),
		})
	}
}

package logger

import (
	"context"

	"github.com/rs/zerolog"
)

// Reporter implements usecase.ErrorReporter on top of zerolog. Rule
// application is best-effort, so reported errors surface in logs rather
// than failing the calling operation.
type Reporter struct {
	logger zerolog.Logger
}

// NewReporter creates a new Reporter.
func NewReporter(l zerolog.Logger) *Reporter {
	return &Reporter{logger: l}
}

// Report logs the error with its tags. It never panics and never blocks.
func (r *Reporter) Report(_ context.Context, err error, tags map[string]string) {
	event := r.logger.Error().Err(err)
	for k, v := range tags {
		event = event.Str(k, v)
	}
	event.Msg("reported error")
}

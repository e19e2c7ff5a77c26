package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sakif/code-editor/internal/advisor"
	"github.com/sakif/code-editor/internal/metrics"
)

// DefaultAdvisoryDelay stands in for the round trip to a model backend.
const DefaultAdvisoryDelay = time.Second

// Advice is the outcome of one advisory action.
type Advice struct {
	Action advisor.Action `json:"action"`
	Title  string         `json:"title"`
	Text   string         `json:"text"`
	HTML   string         `json:"html,omitempty"`
}

// AdvisoryService answers the editor's AI action buttons.
//
// THE NOMINAL DELAY:
// The canned responder answers instantly. We still wait a fixed delay before
// answering so the frontend exercises its loading states exactly like it will
// against a real model. The wait honours ctx: if the browser goes away we stop.
type AdvisoryService struct {
	responder advisor.Responder
	delay     time.Duration
	observer  metrics.Observer
	logger    *slog.Logger
}

// NewAdvisoryService creates a new AdvisoryService.
// A negative delay is treated as zero.
func NewAdvisoryService(responder advisor.Responder, delay time.Duration, observer metrics.Observer, logger *slog.Logger) *AdvisoryService {
	if delay < 0 {
		delay = 0
	}
	if observer == nil {
		observer = metrics.Nop{}
	}
	return &AdvisoryService{
		responder: responder,
		delay:     delay,
		observer:  observer,
		logger:    logger,
	}
}

// Respond waits the nominal delay, then asks the responder.
//
// Unknown actions are not an error: the responder answers them with its
// fallback text. The only error is ctx.Err() when the wait is cut short,
// or whatever a non-canned responder returns.
func (s *AdvisoryService) Respond(ctx context.Context, source string, action advisor.Action, language string) (*Advice, error) {
	start := time.Now()

	s.logger.Debug("advisory requested",
		slog.String("action", string(action)),
		slog.String("language", language),
		slog.Int("sourceBytes", len(source)),
	)

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	text, err := s.responder.Respond(ctx, advisor.Request{
		Source:   source,
		Action:   action,
		Language: language,
	})
	if err != nil {
		s.logger.Error("advisory responder failed",
			slog.String("action", string(action)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	label := string(action)
	if !action.Valid() {
		label = "unknown" // keep label cardinality bounded
	}
	s.observer.RecordAdvice(label, time.Since(start))
	s.logger.Info("advisory served",
		slog.String("action", string(action)),
		slog.Duration("duration", time.Since(start)),
	)

	return &Advice{
		Action: action,
		Title:  action.Title(),
		Text:   text,
	}, nil
}

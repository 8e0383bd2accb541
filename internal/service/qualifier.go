package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/efreitasn/qualifier/internal/answer"
	"github.com/efreitasn/qualifier/internal/domain"
	"github.com/efreitasn/qualifier/internal/store"
	"github.com/efreitasn/qualifier/internal/transport"
	"github.com/google/uuid"
)

// QualifierService runs the three-step qualifier flow: issue a webhook,
// select the answer, submit it.
type QualifierService struct {
	identity   domain.Identity
	webhookURL string
	answers    answer.Table
	client     *transport.Client
	runs       *store.RunStore
	logger     *slog.Logger
	now        func() time.Time
}

// NewQualifierService creates a new QualifierService. webhookURL is the
// absolute webhook-issue URL.
func NewQualifierService(
	identity domain.Identity,
	webhookURL string,
	answers answer.Table,
	client *transport.Client,
	runs *store.RunStore,
	logger *slog.Logger,
) *QualifierService {
	return &QualifierService{
		identity:   identity,
		webhookURL: webhookURL,
		answers:    answers,
		client:     client,
		runs:       runs,
		logger:     logger,
		now:        time.Now,
	}
}

// GenerateWebhook requests a one-time webhook URL and access token for the
// configured identity.
func (s *QualifierService) GenerateWebhook(ctx context.Context) (*domain.WebhookIssueResponse, error) {
	return s.generateWebhook(ctx, s.logger)
}

func (s *QualifierService) generateWebhook(ctx context.Context, logger *slog.Logger) (*domain.WebhookIssueResponse, error) {
	logger.Info("generating webhook",
		slog.String("name", s.identity.Name),
		slog.String("url", s.webhookURL),
	)

	body, err := s.client.PostJSON(ctx, s.webhookURL, nil, domain.NewWebhookIssueRequest(s.identity))
	if err != nil {
		return nil, fmt.Errorf("generate webhook: %w", err)
	}

	var resp domain.WebhookIssueResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("generate webhook: %w: %w", domain.ErrMalformedResponse, err)
	}

	logger.Info("webhook generated", slog.String("webhook", resp.Webhook))
	logger.Debug("access token received", slog.Bool("present", resp.AccessToken != ""))
	return &resp, nil
}

// SelectAnswer returns the answer for regNo's parity. It has no side
// effects besides logging.
func (s *QualifierService) SelectAnswer(regNo string) (string, error) {
	text, _, err := s.selectAnswer(regNo, s.logger)
	return text, err
}

func (s *QualifierService) selectAnswer(regNo string, logger *slog.Logger) (string, answer.Parity, error) {
	text, parity, err := s.answers.Select(regNo)
	if err != nil {
		return "", "", fmt.Errorf("select answer: %w", err)
	}

	logger.Info("answer selected",
		slog.String("reg_no", regNo),
		slog.String("parity", string(parity)),
	)
	if text == answer.Unspecified {
		logger.Warn("selected branch has no authored answer, submitting placeholder",
			slog.String("parity", string(parity)),
		)
	}
	logger.Debug("answer text", slog.String("answer", text))
	return text, parity, nil
}

// Submit posts the answer to webhookURL, passing accessToken verbatim as the
// Authorization header. It returns the raw response body.
func (s *QualifierService) Submit(ctx context.Context, webhookURL, accessToken, answerText string) (string, error) {
	return s.submit(ctx, webhookURL, accessToken, answerText, s.logger)
}

func (s *QualifierService) submit(ctx context.Context, webhookURL, accessToken, answerText string, logger *slog.Logger) (string, error) {
	logger.Info("submitting answer", slog.String("webhook", webhookURL))

	header := http.Header{}
	header.Set("Authorization", accessToken)

	body, err := s.client.PostJSON(ctx, webhookURL, header, domain.AnswerSubmission{FinalQuery: answerText})
	if err != nil {
		return "", fmt.Errorf("submit answer: %w", err)
	}

	resp := string(body)
	logger.Info("answer submitted", slog.String("response", resp))
	return resp, nil
}

// Run executes generate → select → submit once. The first failing step
// aborts the run; the outcome is recorded in the run store and returned.
func (s *QualifierService) Run(ctx context.Context) (*domain.Run, error) {
	run := &domain.Run{
		RunID:     uuid.New().String(),
		Status:    domain.RunStatusRunning,
		Step:      domain.StepGenerateWebhook,
		StartedAt: s.now().UTC(),
	}
	s.runs.Create(run)

	logger := s.logger.With(slog.String("run_id", run.RunID))
	logger.Info("qualifier flow started")

	issued, err := s.generateWebhook(ctx, logger)
	if err != nil {
		return s.fail(run.RunID, logger, err)
	}
	if issued.Webhook == "" {
		return s.fail(run.RunID, logger, fmt.Errorf("generate webhook: %w", domain.ErrWebhookMissing))
	}
	if issued.AccessToken == "" {
		logger.Warn("access token is empty, submitting with an empty Authorization header")
	}

	s.advance(run.RunID, domain.StepSelectAnswer)
	answerText, parity, err := s.selectAnswer(s.identity.RegNo, logger)
	if err != nil {
		return s.fail(run.RunID, logger, err)
	}
	_ = s.runs.Update(run.RunID, func(r *domain.Run) { r.Parity = string(parity) })

	s.advance(run.RunID, domain.StepSubmitAnswer)
	resp, err := s.submit(ctx, issued.Webhook, issued.AccessToken, answerText, logger)
	if err != nil {
		return s.fail(run.RunID, logger, err)
	}

	_ = s.runs.Update(run.RunID, func(r *domain.Run) {
		r.Status = domain.RunStatusSucceeded
		r.Response = resp
		r.FinishedAt = s.now().UTC()
	})
	logger.Info("qualifier flow completed")

	return s.runs.Get(run.RunID)
}

func (s *QualifierService) advance(runID string, step domain.RunStep) {
	_ = s.runs.Update(runID, func(r *domain.Run) { r.Step = step })
}

// fail records err on the run and returns it alongside the final run state.
func (s *QualifierService) fail(runID string, logger *slog.Logger, err error) (*domain.Run, error) {
	_ = s.runs.Update(runID, func(r *domain.Run) {
		r.Status = domain.RunStatusFailed
		r.Error = err.Error()
		r.FinishedAt = s.now().UTC()
	})
	logger.Error("qualifier flow failed",
		slog.String("kind", domain.ErrorKind(err)),
		slog.String("error", err.Error()),
	)

	run, getErr := s.runs.Get(runID)
	if getErr != nil {
		return nil, err
	}
	return run, err
}

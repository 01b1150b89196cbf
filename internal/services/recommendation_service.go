package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"coursepick/internal/models/db_models"
	"coursepick/internal/models/request_models"
	"coursepick/internal/models/response_models"
	"coursepick/internal/models/session_models"
	"coursepick/internal/repositories"
	mem "coursepick/pkg/memcache"
	"coursepick/pkg/metrics"
	"coursepick/pkg/utils"
)

const (
	NetworkErrorMessage = "网络错误或服务器未启动"
	InvalidFormMessage  = "输入信息无效，请检查后重试！"
	BusyMessage         = "正在生成推荐课表，请稍候"
)

// RecommenderClient is the outbound call to the scheduling service.
type RecommenderClient interface {
	Recommend(ctx context.Context, payload request_models.RecommendPayload) (*response_models.RecommendResponse, error)
}

type RecommendationServiceInterface interface {
	// Submit sends the session's form and stores the outcome on the session.
	Submit(ctx context.Context, sessionID string) (response_models.Outcome, error)
	// SubmitState sends a form that is not tied to a session.
	SubmitState(ctx context.Context, state request_models.FormState) (response_models.Outcome, error)
	LastOutcome(ctx context.Context, sessionID string) (*response_models.Outcome, error)
}

type RecommendationServiceConfig struct {
	SplitMode  string
	SessionTTL time.Duration
	LockTTL    time.Duration
}

type RecommendationService struct {
	client  RecommenderClient
	store   mem.FormSessionStore
	repo    repositories.SubmissionRepositoryInterface
	cfg     RecommendationServiceConfig
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewRecommendationService(
	client RecommenderClient,
	store mem.FormSessionStore,
	repo repositories.SubmissionRepositoryInterface,
	cfg RecommendationServiceConfig,
	m *metrics.Metrics,
	log *zap.Logger,
) RecommendationServiceInterface {
	if log == nil {
		log = zap.NewNop()
	}
	if repo == nil {
		repo = repositories.NoopSubmissionRepository{}
	}
	return &RecommendationService{
		client:  client,
		store:   store,
		repo:    repo,
		cfg:     cfg,
		metrics: m,
		log:     log.Named("recommend"),
	}
}

func (r *RecommendationService) Submit(ctx context.Context, sessionID string) (response_models.Outcome, error) {
	stored, err := r.store.Get(ctx, sessionID)
	if err != nil {
		return response_models.Outcome{}, fmt.Errorf("%w: %v", utils.ErrSessionStore, err)
	}
	sess := stored
	if sess == nil {
		sess = session_models.New(sessionID)
	}

	if err := sess.State.Validate(); err != nil {
		r.metrics.ObserveSubmission("invalid")
		return response_models.Outcome{Error: InvalidFormMessage}, err
	}

	ok, err := r.store.AcquireSubmit(ctx, sessionID, r.cfg.LockTTL)
	if err != nil {
		return response_models.Outcome{}, fmt.Errorf("%w: %v", utils.ErrSessionStore, err)
	}
	if !ok {
		r.metrics.ObserveSubmission("busy")
		return response_models.Outcome{Error: BusyMessage}, utils.ErrSubmissionInFlight
	}

	// The browser may go away mid-request; the reply is still stored for its next load.
	detached := context.WithoutCancel(ctx)
	defer func() {
		if err := r.store.ReleaseSubmit(detached, sessionID); err != nil {
			r.log.Warn("release submit flag", zap.String("session_id", sessionID), zap.Error(err))
		}
	}()

	// A default form is stored up front so a reset during the request can be told apart.
	if stored == nil {
		if err := r.store.Set(detached, sess, r.cfg.SessionTTL); err != nil {
			return response_models.Outcome{}, fmt.Errorf("%w: %v", utils.ErrSessionStore, err)
		}
	}

	outcome := r.send(detached, sessionID, sess.State)

	// Re-read so field edits made while the request was pending are kept. A session
	// reset in the meantime stays reset.
	latest, err := r.store.Get(detached, sessionID)
	if err != nil {
		return outcome, fmt.Errorf("%w: %v", utils.ErrSessionStore, err)
	}
	if latest == nil {
		r.log.Info("session reset during submission, outcome not stored", zap.String("session_id", sessionID))
		return outcome, nil
	}
	latest.Outcome = &outcome
	latest.UpdatedAt = time.Now().Unix()
	if err := r.store.Set(detached, latest, r.cfg.SessionTTL); err != nil {
		return outcome, fmt.Errorf("%w: %v", utils.ErrSessionStore, err)
	}
	return outcome, nil
}

func (r *RecommendationService) SubmitState(ctx context.Context, state request_models.FormState) (response_models.Outcome, error) {
	if err := state.Validate(); err != nil {
		r.metrics.ObserveSubmission("invalid")
		return response_models.Outcome{Error: InvalidFormMessage}, err
	}
	return r.send(ctx, "", state), nil
}

func (r *RecommendationService) LastOutcome(ctx context.Context, sessionID string) (*response_models.Outcome, error) {
	sess, err := r.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrSessionStore, err)
	}
	if sess == nil || sess.Outcome == nil {
		return nil, nil
	}
	return sess.Outcome, nil
}

// send issues one recommendation and always yields something to show. Failures of the
// call itself collapse into the generic network message.
func (r *RecommendationService) send(ctx context.Context, sessionID string, state request_models.FormState) response_models.Outcome {
	payload := BuildPayload(state, r.cfg.SplitMode)

	start := time.Now()
	resp, err := r.client.Recommend(ctx, payload)
	elapsed := time.Since(start)
	r.metrics.ObserveRecommender(elapsed)

	var outcome response_models.Outcome
	status := db_models.SubmissionStatusSuccess
	switch {
	case err != nil:
		r.log.Warn("recommendation request failed",
			zap.String("session_id", sessionID),
			zap.Bool("undecodable", errors.Is(err, utils.ErrUndecodableResponse)),
			zap.Error(err))
		outcome = response_models.Outcome{Error: NetworkErrorMessage}
		status = db_models.SubmissionStatusNetworkError
	default:
		outcome = response_models.NewOutcome(*resp)
		if outcome.Failed() {
			status = db_models.SubmissionStatusAppError
		}
	}
	r.metrics.ObserveSubmission(status)

	r.record(ctx, sessionID, payload, status, outcome, elapsed)
	return outcome
}

func (r *RecommendationService) record(ctx context.Context, sessionID string, payload request_models.RecommendPayload, status string, outcome response_models.Outcome, elapsed time.Duration) {
	raw, err := json.Marshal(payload)
	if err != nil {
		r.log.Error("encode submission payload", zap.Error(err))
		return
	}

	sub := &db_models.Submission{
		SessionID:         sessionID,
		Payload:           datatypes.JSON(raw),
		PlanningType:      string(payload.PlanningType),
		PreferredSubjects: db_models.TextArray(payload.PreferredSubjects),
		Status:            status,
		ErrorMessage:      outcome.Error,
		SemesterCount:     len(outcome.Semesters),
		TotalCredits:      outcome.TotalCredits,
		DurationMs:        elapsed.Milliseconds(),
	}
	if err := r.repo.CreateSubmission(ctx, sub); err != nil {
		r.log.Error("record submission", zap.String("session_id", sessionID), zap.Error(err))
	}
}

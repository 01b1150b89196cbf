package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"coursepick/internal/models/request_models"
	"coursepick/internal/models/response_models"
	"coursepick/internal/models/session_models"
	mem "coursepick/pkg/memcache"
	"coursepick/pkg/metrics"
	"coursepick/pkg/utils"
)

type FormServiceInterface interface {
	GetForm(ctx context.Context, sessionID string) (response_models.FormResponse, error)
	UpdateField(ctx context.Context, sessionID, name, value string) (request_models.FormState, error)
	ToggleSubject(ctx context.Context, sessionID, subject string) (response_models.ToggleSubjectResponse, error)
	ApplyForm(ctx context.Context, sessionID string, values url.Values) (request_models.FormState, error)
	Reset(ctx context.Context, sessionID string) error
	Options() response_models.OptionsResponse
}

type FormService struct {
	store   mem.FormSessionStore
	ttl     time.Duration
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewFormService(store mem.FormSessionStore, ttl time.Duration, m *metrics.Metrics, log *zap.Logger) FormServiceInterface {
	if log == nil {
		log = zap.NewNop()
	}
	return &FormService{
		store:   store,
		ttl:     ttl,
		metrics: m,
		log:     log.Named("form"),
	}
}

func (f *FormService) GetForm(ctx context.Context, sessionID string) (response_models.FormResponse, error) {
	sess, err := loadSession(ctx, f.store, sessionID)
	if err != nil {
		return response_models.FormResponse{}, err
	}
	loading, err := f.store.Submitting(ctx, sessionID)
	if err != nil {
		return response_models.FormResponse{}, fmt.Errorf("%w: %v", utils.ErrSessionStore, err)
	}
	return response_models.FormResponse{
		SessionID: sessionID,
		State:     sess.State,
		Loading:   loading,
		Outcome:   sess.Outcome,
	}, nil
}

func (f *FormService) UpdateField(ctx context.Context, sessionID, name, value string) (request_models.FormState, error) {
	sess, err := loadSession(ctx, f.store, sessionID)
	if err != nil {
		return request_models.FormState{}, err
	}
	if err := sess.State.SetField(name, value); err != nil {
		return sess.State, err
	}
	if err := f.save(ctx, sess); err != nil {
		return request_models.FormState{}, err
	}
	return sess.State, nil
}

func (f *FormService) ToggleSubject(ctx context.Context, sessionID, subject string) (response_models.ToggleSubjectResponse, error) {
	sess, err := loadSession(ctx, f.store, sessionID)
	if err != nil {
		return response_models.ToggleSubjectResponse{}, err
	}

	before := len(sess.State.PreferredSubjects)
	changed, err := sess.State.ToggleSubject(subject)
	if err != nil {
		return response_models.ToggleSubjectResponse{}, err
	}
	f.observeToggle(changed, before, len(sess.State.PreferredSubjects))

	if changed {
		if err := f.save(ctx, sess); err != nil {
			return response_models.ToggleSubjectResponse{}, err
		}
	}
	return response_models.ToggleSubjectResponse{Changed: changed, State: sess.State}, nil
}

// ApplyForm merges a full browser post. Unchecked checkboxes are absent from the post
// and read as false; subjects are re-toggled in posted order so extras past the cap
// are dropped. Nothing is saved if any field fails to coerce.
func (f *FormService) ApplyForm(ctx context.Context, sessionID string, values url.Values) (request_models.FormState, error) {
	sess, err := loadSession(ctx, f.store, sessionID)
	if err != nil {
		return request_models.FormState{}, err
	}

	state := sess.State.Clone()
	for _, name := range request_models.CheckboxFields {
		if err := state.SetField(name, values.Get(name)); err != nil {
			return sess.State, err
		}
	}
	for _, name := range []string{
		request_models.FieldCurrentGrade,
		request_models.FieldCurrentSemester,
		request_models.FieldCompletedCourses,
		request_models.FieldInternshipSemester,
		request_models.FieldPlanningType,
		request_models.FieldTargetCredits,
		request_models.FieldUpperboundCredits,
	} {
		if _, ok := values[name]; !ok {
			continue
		}
		if err := state.SetField(name, values.Get(name)); err != nil {
			return sess.State, err
		}
	}

	state.PreferredSubjects = []string{}
	for _, tag := range values[request_models.FieldPreferredSubjects] {
		changed, err := state.ToggleSubject(tag)
		if err != nil {
			return sess.State, err
		}
		if !changed {
			f.metrics.ObserveToggle("rejected")
		}
	}

	sess.State = state
	if err := f.save(ctx, sess); err != nil {
		return request_models.FormState{}, err
	}
	return state, nil
}

func (f *FormService) Reset(ctx context.Context, sessionID string) error {
	if err := f.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrSessionStore, err)
	}
	return nil
}

func (f *FormService) Options() response_models.OptionsResponse {
	opts := response_models.OptionsResponse{
		PlanningTypes:        make([]response_models.PlanningOption, 0, len(request_models.PlanningTypes)),
		Subjects:             append([]string{}, request_models.Subjects...),
		MaxPreferredSubjects: request_models.MaxPreferredSubjects,
	}
	for _, p := range request_models.PlanningTypes {
		opts.PlanningTypes = append(opts.PlanningTypes, response_models.PlanningOption{Value: string(p), Label: p.Label()})
	}
	return opts
}

func (f *FormService) save(ctx context.Context, sess *session_models.FormSession) error {
	sess.UpdatedAt = time.Now().Unix()
	if err := f.store.Set(ctx, sess, f.ttl); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrSessionStore, err)
	}
	return nil
}

func (f *FormService) observeToggle(changed bool, before, after int) {
	switch {
	case !changed:
		f.metrics.ObserveToggle("rejected")
	case after > before:
		f.metrics.ObserveToggle("added")
	default:
		f.metrics.ObserveToggle("removed")
	}
}

// loadSession returns the stored session or a fresh one with default state.
func loadSession(ctx context.Context, store mem.FormSessionStore, sessionID string) (*session_models.FormSession, error) {
	sess, err := store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrSessionStore, err)
	}
	if sess == nil {
		sess = session_models.New(sessionID)
	}
	return sess, nil
}

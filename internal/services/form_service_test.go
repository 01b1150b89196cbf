package services

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursepick/internal/models/request_models"
	mem "coursepick/pkg/memcache"
	"coursepick/pkg/metrics"
	"coursepick/pkg/utils"
)

const testSession = "6a4c1a9e-3a4e-4a61-9d59-7d0f3b2f5a10"

func newFormService(t *testing.T) (FormServiceInterface, *mem.FormSessions, *metrics.Metrics) {
	t.Helper()
	store := mem.NewFormSessions()
	m := metrics.New(prometheus.NewRegistry())
	return NewFormService(store, time.Hour, m, nil), store, m
}

func TestGetFormDefaults(t *testing.T) {
	svc, _, _ := newFormService(t)

	form, err := svc.GetForm(context.Background(), testSession)
	require.NoError(t, err)
	assert.Equal(t, testSession, form.SessionID)
	assert.Equal(t, request_models.DefaultFormState(), form.State)
	assert.False(t, form.Loading)
	assert.Nil(t, form.Outcome)
}

func TestUpdateFieldPersists(t *testing.T) {
	svc, _, _ := newFormService(t)
	ctx := context.Background()

	_, err := svc.UpdateField(ctx, testSession, request_models.FieldCurrentGrade, "3")
	require.NoError(t, err)
	_, err = svc.UpdateField(ctx, testSession, request_models.FieldInternship, "on")
	require.NoError(t, err)

	form, err := svc.GetForm(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, 3, form.State.CurrentGrade)
	assert.True(t, form.State.Internship)
}

func TestUpdateFieldUnknown(t *testing.T) {
	svc, _, _ := newFormService(t)
	_, err := svc.UpdateField(context.Background(), testSession, "gpa", "4.0")
	assert.ErrorIs(t, err, utils.ErrUnknownField)
}

func TestToggleSubjectCap(t *testing.T) {
	svc, _, m := newFormService(t)
	ctx := context.Background()

	for _, tag := range request_models.Subjects[:3] {
		res, err := svc.ToggleSubject(ctx, testSession, tag)
		require.NoError(t, err)
		assert.True(t, res.Changed)
	}

	res, err := svc.ToggleSubject(ctx, testSession, request_models.Subjects[3])
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, request_models.Subjects[:3], res.State.PreferredSubjects)

	res, err = svc.ToggleSubject(ctx, testSession, request_models.Subjects[1])
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, []string{request_models.Subjects[0], request_models.Subjects[2]}, res.State.PreferredSubjects)

	assert.Equal(t, float64(3), testutil.ToFloat64(m.SubjectToggles.WithLabelValues("added")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SubjectToggles.WithLabelValues("rejected")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SubjectToggles.WithLabelValues("removed")))
}

func TestToggleSubjectUnknown(t *testing.T) {
	svc, _, _ := newFormService(t)
	_, err := svc.ToggleSubject(context.Background(), testSession, "天文学")
	assert.ErrorIs(t, err, utils.ErrUnknownSubject)
}

func TestApplyForm(t *testing.T) {
	svc, _, _ := newFormService(t)
	ctx := context.Background()

	_, err := svc.UpdateField(ctx, testSession, request_models.FieldStudyAbroad, "true")
	require.NoError(t, err)

	values := url.Values{
		request_models.FieldCurrentGrade:       {"2"},
		request_models.FieldCurrentSemester:    {"2"},
		request_models.FieldCompletedCourses:   {"会计学，统计学"},
		request_models.FieldInternship:         {"on"},
		request_models.FieldInternshipSemester: {"6"},
		request_models.FieldPlanningType:       {string(request_models.PlanningBalancedWorkload)},
		request_models.FieldTargetCredits:      {"14"},
		request_models.FieldUpperboundCredits:  {"18"},
		request_models.FieldPreferredSubjects:  request_models.Subjects[:4],
	}
	state, err := svc.ApplyForm(ctx, testSession, values)
	require.NoError(t, err)

	assert.False(t, state.StudyAbroad, "unchecked box is absent from the post")
	assert.True(t, state.Internship)
	assert.Equal(t, 2, state.CurrentGrade)
	assert.Equal(t, 6, *state.InternshipSemester)
	assert.Equal(t, 14, *state.TargetCreditsPerSemester)
	assert.Equal(t, 18, state.UpperboundCredits)
	assert.Equal(t, request_models.CourseText("会计学，统计学"), state.CompletedCourses)
	assert.Equal(t, request_models.Subjects[:3], state.PreferredSubjects)

	form, err := svc.GetForm(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, state, form.State)
}

func TestApplyFormIsAtomic(t *testing.T) {
	svc, _, _ := newFormService(t)
	ctx := context.Background()

	_, err := svc.ApplyForm(ctx, testSession, url.Values{
		request_models.FieldCurrentGrade:      {"4"},
		request_models.FieldUpperboundCredits: {"lots"},
	})
	assert.ErrorIs(t, err, utils.ErrInvalidFieldValue)

	form, err := svc.GetForm(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, 1, form.State.CurrentGrade)
}

func TestResetForm(t *testing.T) {
	svc, _, _ := newFormService(t)
	ctx := context.Background()

	_, err := svc.UpdateField(ctx, testSession, request_models.FieldCurrentGrade, "4")
	require.NoError(t, err)
	require.NoError(t, svc.Reset(ctx, testSession))

	form, err := svc.GetForm(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, 1, form.State.CurrentGrade)
}

func TestGetFormReportsLoading(t *testing.T) {
	svc, store, _ := newFormService(t)
	ctx := context.Background()

	ok, err := store.AcquireSubmit(ctx, testSession, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	form, err := svc.GetForm(ctx, testSession)
	require.NoError(t, err)
	assert.True(t, form.Loading)
}

func TestOptions(t *testing.T) {
	svc, _, _ := newFormService(t)
	opts := svc.Options()
	assert.Len(t, opts.PlanningTypes, 4)
	assert.Equal(t, string(request_models.PlanningMinimalEffort), opts.PlanningTypes[0].Value)
	assert.Len(t, opts.Subjects, 9)
	assert.Equal(t, 3, opts.MaxPreferredSubjects)
}

package registration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/konekt-network/konekt/internal/domain"
)

type memDraftStore struct {
	mu     sync.Mutex
	drafts map[string]domain.Draft
	saves  int
}

func newMemDraftStore() *memDraftStore {
	return &memDraftStore{drafts: make(map[string]domain.Draft)}
}

func (m *memDraftStore) LoadDraft(_ context.Context, id string) (domain.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[id]
	if !ok {
		return domain.Draft{}, domain.ErrDraftNotFound
	}
	return d, nil
}

func (m *memDraftStore) SaveDraft(_ context.Context, d domain.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[d.ID] = d
	m.saves++
	return nil
}

type fakeProfiles struct {
	completed []string
}

func (f *fakeProfiles) MarkProfileComplete(_ context.Context, userID string) error {
	f.completed = append(f.completed, userID)
	return nil
}

var (
	validAccount   = domain.AccountStep{DisplayName: "Ada Lovelace", Email: "ada@example.com"}
	validProfile   = domain.ProfileStep{Headline: "Founder at Analytical", Website: "https://ada.dev"}
	validInterests = domain.InterestsStep{Interests: []string{"ai", "hardware"}, LookingFor: "cofounder"}
)

func newTestWizard(t *testing.T) (*Wizard, *memDraftStore, *fakeProfiles) {
	t.Helper()
	store := newMemDraftStore()
	profiles := &fakeProfiles{}
	now := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	return NewWizard(store, profiles, clock), store, profiles
}

func TestWizard_HappyPath(t *testing.T) {
	w, store, profiles := newTestWizard(t)
	ctx := context.Background()

	draft, err := w.Start(ctx, "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, draft.ID)
	assert.Equal(t, domain.StageAccount, draft.Stage)

	draft, err = w.Submit(ctx, draft.ID, validAccount)
	require.NoError(t, err)
	assert.Equal(t, domain.StageProfile, draft.Stage)

	draft, err = w.Submit(ctx, draft.ID, validProfile)
	require.NoError(t, err)
	assert.Equal(t, domain.StageInterests, draft.Stage)

	draft, err = w.Submit(ctx, draft.ID, &validInterests)
	require.NoError(t, err)
	assert.Equal(t, domain.StageReview, draft.Stage)

	reg, err := w.Complete(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", reg.UserID)
	assert.Equal(t, validAccount, reg.Account)
	assert.Equal(t, validInterests.Interests, reg.Interests.Interests)
	assert.Equal(t, []string{"u1"}, profiles.completed)

	stored, err := w.Load(ctx, draft.ID)
	require.NoError(t, err)
	assert.True(t, stored.Done())
	assert.True(t, stored.UpdatedAt.After(stored.CreatedAt))
	assert.Equal(t, 5, store.saves)
}

func TestWizard_StartRequiresUser(t *testing.T) {
	w, _, _ := newTestWizard(t)
	_, err := w.Start(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidUserID)
}

func TestWizard_StepOutOfOrder(t *testing.T) {
	w, _, _ := newTestWizard(t)
	ctx := context.Background()

	draft, err := w.Start(ctx, "u1")
	require.NoError(t, err)

	_, err = w.Submit(ctx, draft.ID, validProfile)
	assert.ErrorIs(t, err, domain.ErrStepOutOfOrder)

	_, err = w.Submit(ctx, draft.ID, validInterests)
	assert.ErrorIs(t, err, domain.ErrStepOutOfOrder)
}

func TestWizard_ResubmitEarlierStep(t *testing.T) {
	w, _, _ := newTestWizard(t)
	ctx := context.Background()

	draft, _ := w.Start(ctx, "u1")
	_, err := w.Submit(ctx, draft.ID, validAccount)
	require.NoError(t, err)
	_, err = w.Submit(ctx, draft.ID, validProfile)
	require.NoError(t, err)

	edited := validAccount
	edited.DisplayName = "Countess Ada"
	draft, err = w.Submit(ctx, draft.ID, edited)
	require.NoError(t, err)

	assert.Equal(t, domain.StageInterests, draft.Stage, "resubmitting must not move the draft backwards")
	assert.Equal(t, "Countess Ada", draft.Account.DisplayName)
}

func TestWizard_InvalidSteps(t *testing.T) {
	w, _, _ := newTestWizard(t)
	ctx := context.Background()

	draft, _ := w.Start(ctx, "u1")

	tests := []struct {
		name string
		step domain.Step
	}{
		{"missing email", domain.AccountStep{DisplayName: "Ada"}},
		{"bad email", domain.AccountStep{DisplayName: "Ada", Email: "not-an-email"}},
		{"short name", domain.AccountStep{DisplayName: "A", Email: "a@example.com"}},
		{"nil step", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.Submit(ctx, draft.ID, tt.step)
			assert.ErrorIs(t, err, domain.ErrInvalidStep)
		})
	}

	stored, err := w.Load(ctx, draft.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Account, "rejected steps must not be stored")
	assert.Equal(t, domain.StageAccount, stored.Stage)
}

func TestWizard_InvalidInterests(t *testing.T) {
	w, _, _ := newTestWizard(t)
	ctx := context.Background()

	draft, _ := w.Start(ctx, "u1")
	_, _ = w.Submit(ctx, draft.ID, validAccount)
	_, _ = w.Submit(ctx, draft.ID, validProfile)

	_, err := w.Submit(ctx, draft.ID, domain.InterestsStep{})
	assert.ErrorIs(t, err, domain.ErrInvalidStep)

	_, err = w.Submit(ctx, draft.ID, domain.InterestsStep{Interests: []string{"ai"}, LookingFor: "dates"})
	assert.ErrorIs(t, err, domain.ErrInvalidStep)
}

func TestWizard_CompleteIncomplete(t *testing.T) {
	w, _, profiles := newTestWizard(t)
	ctx := context.Background()

	draft, _ := w.Start(ctx, "u1")
	_, _ = w.Submit(ctx, draft.ID, validAccount)

	_, err := w.Complete(ctx, draft.ID)
	assert.ErrorIs(t, err, domain.ErrDraftIncomplete)
	assert.Empty(t, profiles.completed)
}

func TestWizard_FinishedDraftIsClosed(t *testing.T) {
	w, _, _ := newTestWizard(t)
	ctx := context.Background()

	draft, _ := w.Start(ctx, "u1")
	_, _ = w.Submit(ctx, draft.ID, validAccount)
	_, _ = w.Submit(ctx, draft.ID, validProfile)
	_, _ = w.Submit(ctx, draft.ID, validInterests)
	_, err := w.Complete(ctx, draft.ID)
	require.NoError(t, err)

	_, err = w.Complete(ctx, draft.ID)
	assert.ErrorIs(t, err, domain.ErrDraftFinished)
	_, err = w.Submit(ctx, draft.ID, validAccount)
	assert.ErrorIs(t, err, domain.ErrDraftFinished)
}

func TestWizard_UnknownDraft(t *testing.T) {
	w, _, _ := newTestWizard(t)
	ctx := context.Background()

	_, err := w.Submit(ctx, "missing", validAccount)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
	_, err = w.Complete(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func TestDecodeStep(t *testing.T) {
	step, err := DecodeStep(domain.StageAccount, []byte(`{"display_name":"Ada","email":"ada@example.com"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.AccountStep{DisplayName: "Ada", Email: "ada@example.com"}, step)

	step, err = DecodeStep(domain.StageInterests, []byte(`{"interests":["ai"],"looking_for":"mentor"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.StageInterests, step.Stage())

	_, err = DecodeStep(domain.StageProfile, []byte(`{"headline":"x","nickname":"y"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidStep)

	_, err = DecodeStep(domain.StageDone, []byte(`{}`))
	assert.ErrorIs(t, err, domain.ErrUnknownStage)
}

func TestStageNext(t *testing.T) {
	assert.Equal(t, domain.StageProfile, domain.StageAccount.Next())
	assert.Equal(t, domain.StageInterests, domain.StageProfile.Next())
	assert.Equal(t, domain.StageReview, domain.StageInterests.Next())
	assert.Equal(t, domain.StageDone, domain.StageReview.Next())
	assert.Equal(t, domain.StageDone, domain.StageDone.Next())
}

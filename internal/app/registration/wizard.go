// Package registration implements the multi-step sign-up wizard. Drafts are
// persisted through a domain.DraftStore after every accepted step.
package registration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/konekt-network/konekt/internal/domain"
	"github.com/konekt-network/konekt/internal/infra/metrics"
	"github.com/konekt-network/konekt/internal/logger"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ProfileCompleter is notified when a registration finishes.
type ProfileCompleter interface {
	MarkProfileComplete(ctx context.Context, userID string) error
}

// Wizard drives drafts through the registration stages.
type Wizard struct {
	store    domain.DraftStore
	profiles ProfileCompleter
	now      func() time.Time
}

// NewWizard creates a wizard. profiles may be nil; clock defaults to time.Now.
func NewWizard(store domain.DraftStore, profiles ProfileCompleter, clock func() time.Time) *Wizard {
	if clock == nil {
		clock = time.Now
	}
	return &Wizard{store: store, profiles: profiles, now: clock}
}

// Start creates an empty draft for userID.
func (w *Wizard) Start(ctx context.Context, userID string) (domain.Draft, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.Draft{}, domain.ErrInvalidUserID
	}
	now := w.now()
	draft := domain.Draft{
		ID:        uuid.NewString(),
		UserID:    userID,
		Stage:     domain.StageAccount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := w.store.SaveDraft(ctx, draft); err != nil {
		return domain.Draft{}, fmt.Errorf("save draft: %w", err)
	}
	logger.FromContext(ctx).Info("registration started", "user_id", userID, "draft_id", draft.ID)
	return draft, nil
}

// Load returns a draft by ID.
func (w *Wizard) Load(ctx context.Context, draftID string) (domain.Draft, error) {
	return w.store.LoadDraft(ctx, draftID)
}

// Submit validates step and stores it on the draft. The step must belong to
// the draft's current stage or to one already completed; earlier steps may be
// resubmitted without moving the draft backwards.
func (w *Wizard) Submit(ctx context.Context, draftID string, step domain.Step) (domain.Draft, error) {
	if step == nil {
		return domain.Draft{}, fmt.Errorf("%w: empty step", domain.ErrInvalidStep)
	}
	draft, err := w.store.LoadDraft(ctx, draftID)
	if err != nil {
		return domain.Draft{}, err
	}
	if draft.Done() {
		return domain.Draft{}, domain.ErrDraftFinished
	}

	stage := step.Stage()
	if stage.Index() > draft.Stage.Index() {
		return domain.Draft{}, fmt.Errorf("%w: got %s, expected %s", domain.ErrStepOutOfOrder, stage, draft.Stage)
	}
	if err := validate.Struct(step); err != nil {
		return domain.Draft{}, fmt.Errorf("%w: %v", domain.ErrInvalidStep, err)
	}

	switch s := step.(type) {
	case domain.AccountStep:
		draft.Account = &s
	case *domain.AccountStep:
		draft.Account = s
	case domain.ProfileStep:
		draft.Profile = &s
	case *domain.ProfileStep:
		draft.Profile = s
	case domain.InterestsStep:
		draft.Interests = &s
	case *domain.InterestsStep:
		draft.Interests = s
	}
	if stage == draft.Stage {
		draft.Stage = stage.Next()
	}
	draft.UpdatedAt = w.now()

	if err := w.store.SaveDraft(ctx, draft); err != nil {
		return domain.Draft{}, fmt.Errorf("save draft: %w", err)
	}
	metrics.RegistrationSteps.WithLabelValues(string(stage)).Inc()
	logger.FromContext(ctx).Debug("registration step saved",
		"draft_id", draft.ID, "stage", stage, "next", draft.Stage)
	return draft, nil
}

// Complete finishes a draft whose steps are all filled in and marks the
// user's profile as complete.
func (w *Wizard) Complete(ctx context.Context, draftID string) (domain.Registration, error) {
	draft, err := w.store.LoadDraft(ctx, draftID)
	if err != nil {
		return domain.Registration{}, err
	}
	if draft.Done() {
		return domain.Registration{}, domain.ErrDraftFinished
	}
	if draft.Stage != domain.StageReview || draft.Account == nil || draft.Profile == nil || draft.Interests == nil {
		return domain.Registration{}, fmt.Errorf("%w: next stage is %s", domain.ErrDraftIncomplete, draft.Stage)
	}

	if w.profiles != nil {
		if err := w.profiles.MarkProfileComplete(ctx, draft.UserID); err != nil {
			return domain.Registration{}, fmt.Errorf("mark profile complete: %w", err)
		}
	}

	now := w.now()
	draft.Stage = domain.StageDone
	draft.UpdatedAt = now
	if err := w.store.SaveDraft(ctx, draft); err != nil {
		return domain.Registration{}, fmt.Errorf("save draft: %w", err)
	}

	metrics.RegistrationsCompleted.Inc()
	logger.FromContext(ctx).Info("registration completed", "user_id", draft.UserID, "draft_id", draft.ID)
	return domain.Registration{
		UserID:      draft.UserID,
		Account:     *draft.Account,
		Profile:     *draft.Profile,
		Interests:   *draft.Interests,
		CompletedAt: now,
	}, nil
}

// DecodeStep parses a JSON payload for stage. Unknown fields are rejected.
func DecodeStep(stage domain.Stage, data []byte) (domain.Step, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var (
		step domain.Step
		err  error
	)
	switch stage {
	case domain.StageAccount:
		var s domain.AccountStep
		err = dec.Decode(&s)
		step = s
	case domain.StageProfile:
		var s domain.ProfileStep
		err = dec.Decode(&s)
		step = s
	case domain.StageInterests:
		var s domain.InterestsStep
		err = dec.Decode(&s)
		step = s
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStage, stage)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidStep, err)
	}
	return step, nil
}

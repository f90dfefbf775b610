package domain

import "time"

// ─── Registration Wizard ────────────────────────────────────────────────────
// A draft moves through typed stages. Each completed stage stores its own
// validated sub-struct, so partial drafts are explicit rather than a bag of
// optional fields.

// Stage identifies a wizard step.
type Stage string

const (
	StageAccount   Stage = "account"
	StageProfile   Stage = "profile"
	StageInterests Stage = "interests"
	StageReview    Stage = "review"
	StageDone      Stage = "done"
)

// StageOrder lists the data-collecting stages in submission order.
func StageOrder() []Stage {
	return []Stage{StageAccount, StageProfile, StageInterests}
}

// Index returns the position of s in StageOrder. StageReview and StageDone
// follow the data stages; unknown stages return -1.
func (s Stage) Index() int {
	order := StageOrder()
	for i, st := range order {
		if st == s {
			return i
		}
	}
	switch s {
	case StageReview:
		return len(order)
	case StageDone:
		return len(order) + 1
	}
	return -1
}

// Next returns the stage that follows s.
func (s Stage) Next() Stage {
	order := StageOrder()
	i := s.Index()
	switch {
	case i < 0:
		return s
	case i+1 < len(order):
		return order[i+1]
	case i+1 == len(order):
		return StageReview
	default:
		return StageDone
	}
}

// Step is a validated payload for one stage. Implemented only by the step
// structs in this package.
type Step interface {
	Stage() Stage
	isStep()
}

// AccountStep collects identity fields.
type AccountStep struct {
	DisplayName string `json:"display_name" validate:"required,min=2,max=64"`
	Email       string `json:"email" validate:"required,email"`
}

// ProfileStep collects public profile fields.
type ProfileStep struct {
	Headline string `json:"headline" validate:"required,max=120"`
	Bio      string `json:"bio" validate:"max=1000"`
	Location string `json:"location" validate:"max=80"`
	Website  string `json:"website" validate:"omitempty,url"`
}

// InterestsStep collects networking interests.
type InterestsStep struct {
	Interests  []string `json:"interests" validate:"required,min=1,max=10,dive,required,max=40"`
	LookingFor string   `json:"looking_for" validate:"omitempty,oneof=cofounder mentor hire job collaborators"`
}

func (AccountStep) Stage() Stage   { return StageAccount }
func (ProfileStep) Stage() Stage   { return StageProfile }
func (InterestsStep) Stage() Stage { return StageInterests }

func (AccountStep) isStep()   {}
func (ProfileStep) isStep()   {}
func (InterestsStep) isStep() {}

// Draft is an in-progress registration. Stage is the next stage to submit;
// StageReview means every step is filled in and the draft can be completed.
type Draft struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Stage     Stage          `json:"stage"`
	Account   *AccountStep   `json:"account,omitempty"`
	Profile   *ProfileStep   `json:"profile,omitempty"`
	Interests *InterestsStep `json:"interests,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Done reports whether the draft has been completed.
func (d Draft) Done() bool {
	return d.Stage == StageDone
}

// Registration is the result of a completed draft.
type Registration struct {
	UserID      string        `json:"user_id"`
	Account     AccountStep   `json:"account"`
	Profile     ProfileStep   `json:"profile"`
	Interests   InterestsStep `json:"interests"`
	CompletedAt time.Time     `json:"completed_at"`
}

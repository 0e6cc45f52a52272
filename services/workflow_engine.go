package services

import (
	"context"
	"errors"
	"time"

	"editorial-platform-api/models"
)

// TransitionRequest carries everything needed to move one submission to a
// new status.
type TransitionRequest struct {
	TargetStatus string
	Actor        Actor
	// Notes is free text; it is only semantically meaningful for
	// revision-family targets, where it becomes the revision notes handed
	// back to the author.
	Notes string
}

// TransitionOutcome is returned after a successful commit. It carries enough
// for the caller to dispatch notifications; the engine itself performs no
// side effects beyond the aggregate write.
type TransitionOutcome struct {
	Submission *models.Submission
	Action     string
	FromStatus string
	ToStatus   string
	ActorRole  string
	Notes      string
}

// WorkflowEngine orchestrates submission status changes: role resolution,
// transition validation, history append, assignment and purge bookkeeping,
// and the single atomic commit. It is the only component other subsystems
// call to mutate a submission's workflow state.
type WorkflowEngine struct {
	store      SubmissionStore
	registry   *StatusRegistry
	roles      *RoleResolver
	ledger     *HistoryLedger
	assignment *AssignmentManager
	purge      *PurgeEligibilityTracker
	now        func() time.Time
}

func NewWorkflowEngine(store SubmissionStore, registry *StatusRegistry, identities IdentityStore) *WorkflowEngine {
	return &WorkflowEngine{
		store:      store,
		registry:   registry,
		roles:      NewRoleResolver(identities, registry),
		assignment: NewAssignmentManager(),
		ledger:     NewHistoryLedger(registry),
		purge:      NewPurgeEligibilityTracker(),
		now:        time.Now,
	}
}

// DefaultWorkflowEngine builds an engine on the global database connection
// and the registry loaded from configuration tables.
func DefaultWorkflowEngine() (*WorkflowEngine, error) {
	registry, err := LoadStatusRegistry(false)
	if err != nil {
		return nil, err
	}
	return NewWorkflowEngine(DefaultSubmissionStore(), registry, DefaultIdentityStore()), nil
}

// RequestTransition applies one status transition to a previously loaded
// submission and commits it atomically. All validation happens before any
// mutation; on any failure the submission the caller holds is unchanged.
func (e *WorkflowEngine) RequestTransition(ctx context.Context, sub *models.Submission, req TransitionRequest) (*TransitionOutcome, error) {
	// Resolve-then-commit: role resolution is the only pre-commit I/O and
	// a failure here aborts before anything is touched.
	role, err := e.roles.Resolve(ctx, req.Actor, e.actionHint(req.TargetStatus))
	if err != nil {
		return nil, err
	}

	if !e.registry.IsKnown(req.TargetStatus) {
		return nil, invalidTransition(sub.Status, req.TargetStatus)
	}
	if !e.registry.IsLegalTransition(sub.Status, req.TargetStatus) {
		return nil, invalidTransition(sub.Status, req.TargetStatus)
	}

	action, ok := e.registry.ActionFor(req.TargetStatus)
	if !ok {
		return nil, unmappedAction(req.TargetStatus)
	}

	// Work on a copy so a failed step never leaves the caller's aggregate
	// half mutated.
	working := *sub
	working.History = make([]models.SubmissionHistoryEntry, len(sub.History))
	copy(working.History, sub.History)

	now := e.now()
	fromStatus := working.Status

	entry := models.SubmissionHistoryEntry{
		Action:         action,
		Status:         req.TargetStatus,
		ActingUserID:   req.Actor.UserID,
		ActingUserRole: role,
		Notes:          req.Notes,
		CreatedAt:      now,
	}
	if err := e.ledger.Append(&working, entry); err != nil {
		return nil, err
	}

	working.Status = req.TargetStatus

	if e.registry.IsReviewerDecision(action) {
		working.ReviewedAt = &now
		reviewer := req.Actor.UserID
		working.ReviewedBy = &reviewer
	}

	if req.TargetStatus == e.registry.AssignedStatus() {
		if err := e.assignment.Claim(&working, req.Actor.UserID, now); err != nil {
			return nil, err
		}
	} else {
		e.assignment.Release(&working)
	}

	if e.registry.IsRevisionFamily(req.TargetStatus) {
		notes := req.Notes
		working.RevisionNotes = &notes
	}

	// First publication stamps the public timestamp; republishing after
	// that keeps the original date.
	if req.TargetStatus == e.registry.PublishedStatus() && working.PublishedAt == nil {
		working.PublishedAt = &now
	}

	if e.registry.IsTerminalNegative(req.TargetStatus) {
		e.purge.Mark(&working, now)
	}

	if err := e.store.CommitIfUnchanged(ctx, &working, sub.Version); err != nil {
		if errors.Is(err, ErrConcurrentModification) {
			return nil, ErrConcurrentModification
		}
		return nil, err
	}

	*sub = working
	return &TransitionOutcome{
		Submission: sub,
		Action:     action,
		FromStatus: fromStatus,
		ToStatus:   req.TargetStatus,
		ActorRole:  role,
		Notes:      req.Notes,
	}, nil
}

// transitionRetries bounds the reload-and-reapply loop on commit races.
const transitionRetries = 3

// RequestTransitionByID loads the submission and applies the transition,
// reloading and retrying a bounded number of times when the commit loses a
// race. Only ErrConcurrentModification is retried; every other failure needs
// a new decision from the caller.
func (e *WorkflowEngine) RequestTransitionByID(ctx context.Context, submissionID int, req TransitionRequest) (*TransitionOutcome, error) {
	var lastErr error
	for attempt := 0; attempt < transitionRetries; attempt++ {
		sub, err := e.store.Load(ctx, submissionID)
		if err != nil {
			return nil, err
		}

		outcome, err := e.RequestTransition(ctx, sub, req)
		if err == nil {
			return outcome, nil
		}
		if !errors.Is(err, ErrConcurrentModification) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// ReassignSubmission hands a submission to editorID. A submission held in
// the assigned status is first released to releaseTo under the admin's
// identity; anything else is claimed directly, so an unclaimable submission
// (a draft, published work) fails with an invalid transition instead of
// being quietly moved through the queue.
func (e *WorkflowEngine) ReassignSubmission(ctx context.Context, submissionID int, admin Actor, editorID int, releaseTo string) (*TransitionOutcome, error) {
	sub, err := e.store.Load(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	if sub.Status == e.registry.AssignedStatus() {
		if _, err := e.RequestTransitionByID(ctx, submissionID, TransitionRequest{
			TargetStatus: releaseTo,
			Actor:        admin,
			Notes:        "reassignment",
		}); err != nil {
			return nil, err
		}
	}

	return e.RequestTransitionByID(ctx, submissionID, TransitionRequest{
		TargetStatus: e.registry.AssignedStatus(),
		Actor:        Actor{UserID: editorID},
	})
}

// actionHint returns the registry action for the target status when one is
// mapped. Role resolution needs the action before full validation to pick
// the right fallback role; an unmapped action is reported later in the
// proper order.
func (e *WorkflowEngine) actionHint(target string) string {
	action, _ := e.registry.ActionFor(target)
	return action
}

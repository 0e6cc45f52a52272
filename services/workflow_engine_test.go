package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"editorial-platform-api/models"
)

// memoryStore is an in-memory SubmissionStore with the same
// compare-and-swap commit semantics as the database-backed store.
type memoryStore struct {
	mu         sync.Mutex
	subs       map[int]*models.Submission
	nextHistID int
}

func newMemoryStore(subs ...*models.Submission) *memoryStore {
	s := &memoryStore{subs: make(map[int]*models.Submission), nextHistID: 1}
	for _, sub := range subs {
		s.subs[sub.SubmissionID] = copySubmission(sub)
	}
	return s
}

func copySubmission(sub *models.Submission) *models.Submission {
	cp := *sub
	cp.History = make([]models.SubmissionHistoryEntry, len(sub.History))
	copy(cp.History, sub.History)
	return &cp
}

func (s *memoryStore) Load(ctx context.Context, id int) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return nil, ErrSubmissionNotFound
	}
	return copySubmission(sub), nil
}

func (s *memoryStore) CommitIfUnchanged(ctx context.Context, sub *models.Submission, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.subs[sub.SubmissionID]
	if !ok {
		return ErrSubmissionNotFound
	}
	if stored.Version != expectedVersion {
		return ErrConcurrentModification
	}

	committed := copySubmission(sub)
	for i := range committed.History {
		if committed.History[i].HistoryID == 0 {
			committed.History[i].HistoryID = s.nextHistID
			s.nextHistID++
		}
	}
	committed.Version = expectedVersion + 1
	s.subs[sub.SubmissionID] = committed

	sub.Version = committed.Version
	sub.History = committed.History
	return nil
}

// stored returns the committed state for assertions.
func (s *memoryStore) stored(id int) *models.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySubmission(s.subs[id])
}

// fakeIdentityStore resolves roles from a map. Unknown users report
// ErrRoleNotFound; a non-nil failure makes every lookup error out.
type fakeIdentityStore struct {
	roles   map[int]string
	failure error
}

func (s *fakeIdentityStore) GetRole(ctx context.Context, userID int) (string, error) {
	if s.failure != nil {
		return "", s.failure
	}
	role, ok := s.roles[userID]
	if !ok {
		return "", ErrRoleNotFound
	}
	return role, nil
}

func mustRegistry(t *testing.T, cfg RegistryConfig) *StatusRegistry {
	t.Helper()
	registry, err := NewStatusRegistry(cfg)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	return registry
}

func testSubmission(id int, status string) *models.Submission {
	return &models.Submission{
		SubmissionID: id,
		UserID:       100,
		Title:        "The Quiet Orchard",
		Status:       status,
		Version:      1,
	}
}

type engineFixture struct {
	engine   *WorkflowEngine
	store    *memoryStore
	registry *StatusRegistry
	ids      *fakeIdentityStore
	clock    *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newEngineFixture(t *testing.T, cfg RegistryConfig, subs ...*models.Submission) *engineFixture {
	t.Helper()
	registry := mustRegistry(t, cfg)
	store := newMemoryStore(subs...)
	ids := &fakeIdentityStore{roles: map[int]string{
		1:   RoleEditor,
		2:   RoleEditor,
		3:   RoleAdmin,
		100: RoleUser,
	}}
	engine := NewWorkflowEngine(store, registry, ids)
	clock := &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	engine.now = clock.Now
	return &engineFixture{engine: engine, store: store, registry: registry, ids: ids, clock: clock}
}

func TestRequestTransitionClaimsSubmission(t *testing.T) {
	// Scenario: submitted work, empty assignment, editor claims it.
	fx := newEngineFixture(t, DefaultRegistryConfig(), testSubmission(1, StatusSubmitted))

	sub, _ := fx.store.Load(context.Background(), 1)
	outcome, err := fx.engine.RequestTransition(context.Background(), sub, TransitionRequest{
		TargetStatus: StatusInReview,
		Actor:        Actor{UserID: 1},
	})
	if err != nil {
		t.Fatalf("claim transition failed: %v", err)
	}

	stored := fx.store.stored(1)
	if stored.Status != StatusInReview {
		t.Errorf("status = %q, want %q", stored.Status, StatusInReview)
	}
	if stored.AssignedTo == nil || *stored.AssignedTo != 1 {
		t.Errorf("assignedTo = %v, want editor 1", stored.AssignedTo)
	}
	if stored.AssignedAt == nil {
		t.Error("assignedAt not set")
	}
	if len(stored.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(stored.History))
	}

	wantAction, _ := fx.registry.ActionFor(StatusInReview)
	if stored.History[0].Action != wantAction {
		t.Errorf("history action = %q, want %q", stored.History[0].Action, wantAction)
	}
	if outcome.Action != wantAction {
		t.Errorf("outcome action = %q, want %q", outcome.Action, wantAction)
	}
}

func TestSecondClaimFailsAlreadyAssigned(t *testing.T) {
	fx := newEngineFixture(t, DefaultRegistryConfig(), testSubmission(1, StatusSubmitted))

	if _, err := fx.engine.RequestTransitionByID(context.Background(), 1, TransitionRequest{
		TargetStatus: StatusInReview,
		Actor:        Actor{UserID: 1},
	}); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}

	before := fx.store.stored(1)
	_, err := fx.engine.RequestTransitionByID(context.Background(), 1, TransitionRequest{
		TargetStatus: StatusInReview,
		Actor:        Actor{UserID: 2},
	})
	if !errors.Is(err, ErrAlreadyAssigned) {
		t.Fatalf("second claim error = %v, want AlreadyAssigned", err)
	}

	after := fx.store.stored(1)
	if *after.AssignedTo != *before.AssignedTo || after.Version != before.Version {
		t.Error("second claim mutated the submission")
	}
}

func TestConcurrentClaimsExactlyOneWinner(t *testing.T) {
	fx := newEngineFixture(t, DefaultRegistryConfig(), testSubmission(1, StatusSubmitted))

	// Both editors load the same snapshot and race their commits.
	subA, _ := fx.store.Load(context.Background(), 1)
	subB, _ := fx.store.Load(context.Background(), 1)

	_, errA := fx.engine.RequestTransition(context.Background(), subA, TransitionRequest{
		TargetStatus: StatusInReview,
		Actor:        Actor{UserID: 1},
	})
	_, errB := fx.engine.RequestTransition(context.Background(), subB, TransitionRequest{
		TargetStatus: StatusInReview,
		Actor:        Actor{UserID: 2},
	})

	if errA != nil {
		t.Fatalf("first commit failed: %v", errA)
	}
	if !errors.Is(errB, ErrConcurrentModification) {
		t.Fatalf("stale commit error = %v, want ConcurrentModification", errB)
	}

	stored := fx.store.stored(1)
	if stored.AssignedTo == nil || *stored.AssignedTo != 1 {
		t.Errorf("assignedTo = %v, want winner 1", stored.AssignedTo)
	}
}

func TestParallelClaimsThroughRetryPath(t *testing.T) {
	fx := newEngineFixture(t, DefaultRegistryConfig(), testSubmission(1, StatusSubmitted))

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := fx.engine.RequestTransitionByID(context.Background(), 1, TransitionRequest{
				TargetStatus: StatusInReview,
				Actor:        Actor{UserID: i + 1},
			})
			results[i] = err
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
			continue
		}
		// The loser either reloads after the winner's commit or loses
		// the version race and reloads on retry; both paths end at the
		// assignment conflict.
		if !errors.Is(err, ErrAlreadyAssigned) {
			t.Errorf("loser error = %v, want AlreadyAssigned", err)
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}

	stored := fx.store.stored(1)
	if stored.AssignedTo == nil {
		t.Fatal("no editor holds the submission after the race")
	}
}

func TestRejectClearsAssignmentAndMarksPurge(t *testing.T) {
	// Scenario: in-review work rejected by the assigned editor.
	fx := newEngineFixture(t, DefaultRegistryConfig(), testSubmission(1, StatusSubmitted))

	if _, err := fx.engine.RequestTransitionByID(context.Background(), 1, TransitionRequest{
		TargetStatus: StatusInReview,
		Actor:        Actor{UserID: 1},
	}); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	fx.clock.Advance(time.Hour)
	decisionTime := fx.clock.Now()

	outcome, err := fx.engine.RequestTransitionByID(context.Background(), 1, TransitionRequest{
		TargetStatus: StatusRejected,
		Actor:        Actor{UserID: 1},
		Notes:        "weak imagery",
	})
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	stored := fx.store.stored(1)
	if stored.AssignedTo != nil || stored.AssignedAt != nil {
		t.Error("assignment not cleared on exit from in_review")
	}
	if stored.ReviewedBy == nil || *stored.ReviewedBy != 1 {
		t.Errorf("reviewedBy = %v, want 1", stored.ReviewedBy)
	}
	if stored.ReviewedAt == nil || !stored.ReviewedAt.Equal(decisionTime) {
		t.Errorf("reviewedAt = %v, want %v", stored.ReviewedAt, decisionTime)
	}
	if !stored.EligibleForPurge {
		t.Error("rejected submission not marked purge eligible")
	}
	if stored.PurgeEligibleSince == nil || !stored.PurgeEligibleSince.Equal(decisionTime) {
		t.Errorf("purgeEligibleSince = %v, want %v", stored.PurgeEligibleSince, decisionTime)
	}
	if outcome.Notes != "weak imagery" {
		t.Errorf("outcome notes = %q", outcome.Notes)
	}
}

func TestStatusMatchesLastHistoryEntry(t *testing.T) {
	fx := newEngineFixture(t, DefaultRegistryConfig(), testSubmission(1, StatusDraft))

	path := []string{StatusSubmitted, StatusInReview, StatusShortlisted, StatusApproved, StatusPublished}
	for _, target := range path {
		fx.clock.Advance(time.Minute)
		if _, err := fx.engine.RequestTransitionByID(context.Background(), 1, TransitionRequest{
			TargetStatus: target,
			Actor:        Actor{UserID: 1},
		}); err != nil {
			t.Fatalf("transition to %s failed: %v", target, err)
		}

		stored := fx.store.stored(1)
		if got := stored.History[len(stored.History)-1].Status; stored.Status != got {
			t.Fatalf("status %q does not match last history status %q", stored.Status, got)
		}
	}

	stored := fx.store.stored(1)
	if len(stored.History) != len(path) {
		t.Errorf("history length = %d, want %d", len(stored.History), len(path))
	}
	for i := 1; i < len(stored.History); i++ {
		if stored.History[i].CreatedAt.Before(stored.History[i-1].CreatedAt) {
			t.Errorf("history entry %d timestamp precedes entry %d", i, i-1)
		}
	}
}

func TestPublishStampsPublishedAt(t *testing.T) {
	fx := newEngineFixture(t, DefaultRegistryConfig(), testSubmission(1, StatusApproved))

	fx.clock.Advance(time.Hour)
	publishTime := fx.clock.Now()

	if _, err := fx.engine.RequestTransitionByID(context.Background(), 1, TransitionRequest{
		TargetStatus: StatusPublished,
		Actor:        Actor{UserID: 3},
	}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	stored := fx.store.stored(1)
	if stored.PublishedAt == nil || !stored.PublishedAt.Equal(publishTime) {
		t.Fatalf("publishedAt = %v, want %v", stored.PublishedAt, publishTime)
	}

	// Archiving keeps the publication date.
	fx.clock.Advance(time.Hour)
	if _, err := fx.engine.RequestTransitionByID(context.Background(), 1, TransitionRequest{
		TargetStatus: StatusArchived,
		Actor:        Actor{UserID: 3},
	}); err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	stored = fx.store.stored(1)
	if !stored.PublishedAt.Equal(publishTime) {
		t.Errorf("publishedAt moved to %v after archiving", stored.PublishedAt)
	}
}

func TestRepublishKeepsOriginalPublishedAt(t *testing.T) {
	// A registry that allows unpublishing back to approved. The original
	// publication date survives the round trip.
	cfg := DefaultRegistryConfig()
	cfg.Transitions[StatusPublished] = append(cfg.Transitions[StatusPublished], StatusApproved)

	fx := newEngineFixture(t, cfg, testSubmission(1, StatusApproved))

	run := func(target string) {
		t.Helper()
		fx.clock.Advance(time.Hour)
		if _, err := fx.engine.RequestTransitionByID(context.Background(), 1, TransitionRequest{
			TargetStatus: target,
			Actor:        Actor{UserID: 3},
		}); err != nil {
			t.Fatalf("transition to %s failed: %v", target, err)
		}
	}

	run(StatusPublished)
	first := fx.store.stored(1).PublishedAt

	run(StatusApproved)
	run(StatusPublished)

	if got := fx.store.stored(1).PublishedAt; !got.Equal(*first) {
		t.Errorf("publishedAt moved from %v to %v on republish", first, got)
	}
}

func TestRevisionNotesSetOnlyForRevisionFamily(t *testing.T) {
	fx := newEngineFixture(t, DefaultRegistryConfig(), testSubmission(1, StatusSubmitted))

	steps := []TransitionRequest{
		{TargetStatus: StatusInReview, Actor: Actor{UserID: 1}, Notes: "claiming this one"},
		{TargetStatus: StatusNeedsRevision, Actor: Actor{UserID: 1}, Notes: "tighten the second stanza"},
	}
	for _, req := range steps {
		if _, err := fx.engine.RequestTransitionByID(context.Background(), 1, req); err != nil {
			t.Fatalf("transition to %s failed: %v", req.TargetStatus, err)
		}
	}

	stored := fx.store.stored(1)
	if stored.RevisionNotes == nil || *stored.RevisionNotes != "tighten the second stanza" {
		t.Errorf("revisionNotes = %v, want the reviewer's notes", stored.RevisionNotes)
	}

	// Resubmission leaves the recorded notes alone.
	if _, err := fx.engine.RequestTransitionByID(context.Background(), 1, TransitionRequest{
		TargetStatus: StatusSubmitted,
		Actor:        Actor{UserID: 100},
	}); err != nil {
		t.Fatalf("resubmission failed: %v", err)
	}
	stored = fx.store.stored(1)
	if stored.RevisionNotes == nil || *stored.RevisionNotes != "tighten the second stanza" {
		t.Errorf("revisionNotes changed on resubmission: %v", stored.RevisionNotes)
	}
}

func TestPurgeMarkingIsMonotonic(t *testing.T) {
	// Scenario: rejected, resurrected, rejected again. The purge clock
	// keeps the first marking.
	cfg := DefaultRegistryConfig()
	cfg.Transitions[StatusRejected] = []string{StatusSubmitted}

	fx := newEngineFixture(t, cfg, testSubmission(1, StatusSubmitted))

	runPath := func(path ...string) {
		t.Helper()
		for _, target := range path {
			fx.clock.Advance(time.Hour)
			if _, err := fx.engine.RequestTransitionByID(context.Background(), 1, TransitionRequest{
				TargetStatus: target,
				Actor:        Actor{UserID: 1},
			}); err != nil {
				t.Fatalf("transition to %s failed: %v", target, err)
			}
		}
	}

	runPath(StatusInReview, StatusRejected)
	firstMark := fx.store.stored(1).PurgeEligibleSince
	if firstMark == nil {
		t.Fatal("first rejection did not set purgeEligibleSince")
	}

	runPath(StatusSubmitted, StatusInReview, StatusRejected)

	stored := fx.store.stored(1)
	if !stored.EligibleForPurge {
		t.Error("eligibleForPurge flipped back to false")
	}
	if !stored.PurgeEligibleSince.Equal(*firstMark) {
		t.Errorf("purgeEligibleSince moved from %v to %v on re-marking", firstMark, stored.PurgeEligibleSince)
	}
}

func TestUnmappedActionNeverMutates(t *testing.T) {
	cfg := DefaultRegistryConfig()
	cfg.Statuses = append(cfg.Statuses, StatusDefinition{Code: "limbo"})
	cfg.Transitions[StatusSubmitted] = append(cfg.Transitions[StatusSubmitted], "limbo")

	fx := newEngineFixture(t, cfg, testSubmission(1, StatusSubmitted))

	before := fx.store.stored(1)
	_, err := fx.engine.RequestTransitionByID(context.Background(), 1, TransitionRequest{
		TargetStatus: "limbo",
		Actor:        Actor{UserID: 1},
	})
	if !errors.Is(err, ErrUnmappedAction) {
		t.Fatalf("error = %v, want UnmappedAction", err)
	}

	var wfErr *WorkflowError
	if !errors.As(err, &wfErr) || !wfErr.ConfigDefect {
		t.Error("unmapped action not flagged as a configuration defect")
	}

	after := fx.store.stored(1)
	if after.Version != before.Version || after.Status != before.Status || len(after.History) != 0 {
		t.Error("failed transition mutated the submission")
	}
}

func TestIllegalTransitionRejected(t *testing.T) {
	fx := newEngineFixture(t, DefaultRegistryConfig(), testSubmission(1, StatusDraft))

	_, err := fx.engine.RequestTransitionByID(context.Background(), 1, TransitionRequest{
		TargetStatus: StatusPublished,
		Actor:        Actor{UserID: 3},
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("error = %v, want InvalidTransition", err)
	}

	if stored := fx.store.stored(1); stored.Status != StatusDraft || len(stored.History) != 0 {
		t.Error("illegal transition mutated the submission")
	}
}

func TestRoleFallbackRecordedAgainstRegistryClassification(t *testing.T) {
	// Scenario: the acting user is missing from the identity store during
	// a transition to needs_revision. The recorded role must follow the
	// registry's own classification of the action, not a hardcoded guess.
	fx := newEngineFixture(t, DefaultRegistryConfig(), testSubmission(1, StatusInReview))
	fx.ids.roles = map[int]string{} // nobody resolves

	outcome, err := fx.engine.RequestTransitionByID(context.Background(), 1, TransitionRequest{
		TargetStatus: StatusNeedsRevision,
		Actor:        Actor{UserID: 42},
	})
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	action, _ := fx.registry.ActionFor(StatusNeedsRevision)
	want := RoleUser
	if fx.registry.IsReviewerDecision(action) {
		want = RoleReviewer
	}
	if outcome.ActorRole != want {
		t.Errorf("fallback role = %q, want %q", outcome.ActorRole, want)
	}

	stored := fx.store.stored(1)
	if got := stored.History[len(stored.History)-1].ActingUserRole; got != want {
		t.Errorf("recorded role = %q, want %q", got, want)
	}
}

func TestIdentityStoreFailureAbortsTransition(t *testing.T) {
	fx := newEngineFixture(t, DefaultRegistryConfig(), testSubmission(1, StatusSubmitted))
	fx.ids.failure = errors.New("connection refused")

	_, err := fx.engine.RequestTransitionByID(context.Background(), 1, TransitionRequest{
		TargetStatus: StatusInReview,
		Actor:        Actor{UserID: 1},
	})
	if !errors.Is(err, ErrRoleResolution) {
		t.Fatalf("error = %v, want RoleResolution", err)
	}

	var wfErr *WorkflowError
	if !errors.As(err, &wfErr) || !wfErr.Retryable {
		t.Error("infrastructure failure not flagged retryable")
	}

	if stored := fx.store.stored(1); stored.Version != 1 || len(stored.History) != 0 {
		t.Error("aborted transition left a partial write")
	}
}

func TestVoluntaryReleaseGoesThroughHistory(t *testing.T) {
	fx := newEngineFixture(t, DefaultRegistryConfig(), testSubmission(1, StatusSubmitted))

	if _, err := fx.engine.RequestTransitionByID(context.Background(), 1, TransitionRequest{
		TargetStatus: StatusInReview,
		Actor:        Actor{UserID: 1},
	}); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	if _, err := fx.engine.RequestTransitionByID(context.Background(), 1, TransitionRequest{
		TargetStatus: StatusSubmitted,
		Actor:        Actor{UserID: 1},
		Notes:        "out of my depth on this genre",
	}); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	stored := fx.store.stored(1)
	if stored.AssignedTo != nil || stored.AssignedAt != nil {
		t.Error("release did not clear assignment")
	}
	if len(stored.History) != 2 {
		t.Fatalf("history length = %d, want the release recorded", len(stored.History))
	}
	if stored.History[1].Status != StatusSubmitted {
		t.Errorf("release history status = %q", stored.History[1].Status)
	}
}

func TestReassignHeldSubmission(t *testing.T) {
	fx := newEngineFixture(t, DefaultRegistryConfig(), testSubmission(1, StatusSubmitted))

	if _, err := fx.engine.RequestTransitionByID(context.Background(), 1, TransitionRequest{
		TargetStatus: StatusInReview,
		Actor:        Actor{UserID: 1},
	}); err != nil {
		t.Fatalf("initial claim failed: %v", err)
	}

	admin := Actor{UserID: 3, Role: RoleAdmin}
	if _, err := fx.engine.ReassignSubmission(context.Background(), 1, admin, 2, StatusSubmitted); err != nil {
		t.Fatalf("reassign failed: %v", err)
	}

	stored := fx.store.stored(1)
	if stored.AssignedTo == nil || *stored.AssignedTo != 2 {
		t.Errorf("assignedTo = %v, want editor 2", stored.AssignedTo)
	}
	if stored.Status != StatusInReview {
		t.Errorf("status = %q, want %q", stored.Status, StatusInReview)
	}
	// claim + release + claim recorded, every step in history.
	if len(stored.History) != 3 {
		t.Errorf("history length = %d, want 3", len(stored.History))
	}
}

func TestReassignUnclaimedSubmission(t *testing.T) {
	fx := newEngineFixture(t, DefaultRegistryConfig(), testSubmission(1, StatusSubmitted))

	admin := Actor{UserID: 3, Role: RoleAdmin}
	if _, err := fx.engine.ReassignSubmission(context.Background(), 1, admin, 2, StatusSubmitted); err != nil {
		t.Fatalf("reassign failed: %v", err)
	}

	stored := fx.store.stored(1)
	if stored.AssignedTo == nil || *stored.AssignedTo != 2 {
		t.Errorf("assignedTo = %v, want editor 2", stored.AssignedTo)
	}
	// No held editor, so no release step: the claim is the only entry.
	if len(stored.History) != 1 {
		t.Errorf("history length = %d, want 1", len(stored.History))
	}
}

func TestReassignRefusesDraft(t *testing.T) {
	fx := newEngineFixture(t, DefaultRegistryConfig(), testSubmission(1, StatusDraft))

	admin := Actor{UserID: 3, Role: RoleAdmin}
	_, err := fx.engine.ReassignSubmission(context.Background(), 1, admin, 2, StatusSubmitted)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("error = %v, want InvalidTransition", err)
	}

	// The draft must not be pushed into the queue as a side effect.
	stored := fx.store.stored(1)
	if stored.Status != StatusDraft {
		t.Errorf("status = %q, draft was moved", stored.Status)
	}
	if len(stored.History) != 0 || stored.AssignedTo != nil {
		t.Error("failed reassign mutated the draft")
	}
}

func TestRetryExhaustionReturnsConcurrentModification(t *testing.T) {
	fx := newEngineFixture(t, DefaultRegistryConfig(), testSubmission(1, StatusSubmitted))

	// A rival bumps the version between every load and commit.
	store := &contentiousStore{inner: fx.store}
	engine := NewWorkflowEngine(store, fx.registry, fx.ids)
	engine.now = fx.clock.Now

	_, err := engine.RequestTransitionByID(context.Background(), 1, TransitionRequest{
		TargetStatus: StatusInReview,
		Actor:        Actor{UserID: 1},
	})
	if !errors.Is(err, ErrConcurrentModification) {
		t.Fatalf("error = %v, want ConcurrentModification after retries", err)
	}
}

// contentiousStore makes every commit lose its race.
type contentiousStore struct {
	inner *memoryStore
}

func (s *contentiousStore) Load(ctx context.Context, id int) (*models.Submission, error) {
	return s.inner.Load(ctx, id)
}

func (s *contentiousStore) CommitIfUnchanged(ctx context.Context, sub *models.Submission, expectedVersion int) error {
	return ErrConcurrentModification
}

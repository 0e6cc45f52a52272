package services

import (
	"errors"
	"testing"
	"time"
)

func TestClaimAndRelease(t *testing.T) {
	m := NewAssignmentManager()
	sub := testSubmission(1, StatusSubmitted)
	now := time.Now()

	if err := m.Claim(sub, 7, now); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if sub.AssignedTo == nil || *sub.AssignedTo != 7 {
		t.Errorf("assignedTo = %v", sub.AssignedTo)
	}
	if sub.AssignedAt == nil || !sub.AssignedAt.Equal(now) {
		t.Errorf("assignedAt = %v", sub.AssignedAt)
	}

	// A second claim fails, even by the holder.
	if err := m.Claim(sub, 8, now); !errors.Is(err, ErrAlreadyAssigned) {
		t.Errorf("rival claim error = %v, want AlreadyAssigned", err)
	}
	if err := m.Claim(sub, 7, now); !errors.Is(err, ErrAlreadyAssigned) {
		t.Errorf("re-claim error = %v, want AlreadyAssigned", err)
	}
	if *sub.AssignedTo != 7 {
		t.Errorf("failed claim changed the holder to %d", *sub.AssignedTo)
	}

	m.Release(sub)
	if sub.AssignedTo != nil || sub.AssignedAt != nil {
		t.Error("release left assignment fields set")
	}

	// Release of an unassigned submission is a no-op.
	m.Release(sub)
	if sub.AssignedTo != nil {
		t.Error("double release set assignment fields")
	}
}

func TestPurgeMarkKeepsFirstTimestamp(t *testing.T) {
	tracker := NewPurgeEligibilityTracker()
	sub := testSubmission(1, StatusRejected)

	first := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	tracker.Mark(sub, first)

	if !sub.EligibleForPurge {
		t.Fatal("submission not marked eligible")
	}
	if sub.PurgeEligibleSince == nil || !sub.PurgeEligibleSince.Equal(first) {
		t.Fatalf("purgeEligibleSince = %v", sub.PurgeEligibleSince)
	}

	tracker.Mark(sub, first.Add(48*time.Hour))
	if !sub.PurgeEligibleSince.Equal(first) {
		t.Errorf("re-marking moved purgeEligibleSince to %v", sub.PurgeEligibleSince)
	}
}

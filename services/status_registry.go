package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"editorial-platform-api/config"
	"editorial-platform-api/models"
)

// StatusDefinition describes one status the registry knows about.
type StatusDefinition struct {
	Code string
	// Action is the canonical history label recorded when a submission
	// enters this status. Empty means no action is mapped, which the
	// engine treats as a configuration defect.
	Action string
	// ReviewerDecision marks the action as a reviewer decision
	// (approve/reject/request changes/shortlist family).
	ReviewerDecision bool
	RevisionFamily   bool
	TerminalNegative bool
}

// RegistryConfig is the raw material a StatusRegistry is built from. It is
// injected rather than compiled in so the transition table can be swapped or
// faked in tests.
type RegistryConfig struct {
	Statuses       []StatusDefinition
	Transitions    map[string][]string
	InitialStatus  string
	AssignedStatus string
	// PublishedStatus is the status whose entry stamps the public
	// publication timestamp. Optional; empty means no status publishes.
	PublishedStatus string
	PermittedRoles  []string
}

// StatusRegistry answers every status question the workflow engine asks:
// which statuses exist, which transitions are legal, which action a target
// status maps to, and which status groups a status belongs to. It is
// immutable after construction.
type StatusRegistry struct {
	statuses        map[string]StatusDefinition
	transitions     map[string]map[string]bool
	reviewerActions map[string]bool
	initial         string
	assigned        string
	published       string
	roles           map[string]bool
}

// NewStatusRegistry builds an immutable registry from the given config.
func NewStatusRegistry(cfg RegistryConfig) (*StatusRegistry, error) {
	if cfg.InitialStatus == "" {
		return nil, fmt.Errorf("registry config: initial status is required")
	}
	if cfg.AssignedStatus == "" {
		return nil, fmt.Errorf("registry config: assigned status is required")
	}

	statuses := make(map[string]StatusDefinition, len(cfg.Statuses))
	for _, def := range cfg.Statuses {
		code := strings.TrimSpace(def.Code)
		if code == "" {
			return nil, fmt.Errorf("registry config: status with empty code")
		}
		if _, dup := statuses[code]; dup {
			return nil, fmt.Errorf("registry config: duplicate status %q", code)
		}
		def.Code = code
		statuses[code] = def
	}

	if _, ok := statuses[cfg.InitialStatus]; !ok {
		return nil, fmt.Errorf("registry config: initial status %q is not declared", cfg.InitialStatus)
	}
	if _, ok := statuses[cfg.AssignedStatus]; !ok {
		return nil, fmt.Errorf("registry config: assigned status %q is not declared", cfg.AssignedStatus)
	}
	if cfg.PublishedStatus != "" {
		if _, ok := statuses[cfg.PublishedStatus]; !ok {
			return nil, fmt.Errorf("registry config: published status %q is not declared", cfg.PublishedStatus)
		}
	}

	transitions := make(map[string]map[string]bool, len(cfg.Transitions))
	for from, targets := range cfg.Transitions {
		if _, ok := statuses[from]; !ok {
			return nil, fmt.Errorf("registry config: transition from unknown status %q", from)
		}
		set := make(map[string]bool, len(targets))
		for _, to := range targets {
			if _, ok := statuses[to]; !ok {
				return nil, fmt.Errorf("registry config: transition to unknown status %q", to)
			}
			set[to] = true
		}
		transitions[from] = set
	}

	roles := make(map[string]bool, len(cfg.PermittedRoles))
	for _, role := range cfg.PermittedRoles {
		role = strings.TrimSpace(role)
		if role != "" {
			roles[role] = true
		}
	}
	if len(roles) == 0 {
		return nil, fmt.Errorf("registry config: no permitted roles")
	}

	reviewerActions := make(map[string]bool)
	for _, def := range statuses {
		if def.ReviewerDecision && def.Action != "" {
			reviewerActions[def.Action] = true
		}
	}

	return &StatusRegistry{
		statuses:        statuses,
		transitions:     transitions,
		reviewerActions: reviewerActions,
		initial:         cfg.InitialStatus,
		assigned:        cfg.AssignedStatus,
		published:       cfg.PublishedStatus,
		roles:           roles,
	}, nil
}

// IsKnown reports whether the status code is declared in the registry.
func (r *StatusRegistry) IsKnown(status string) bool {
	_, ok := r.statuses[status]
	return ok
}

// IsLegalTransition reports whether from → to is a declared edge.
func (r *StatusRegistry) IsLegalTransition(from, to string) bool {
	targets, ok := r.transitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// AllowedTransitions returns the declared targets for a status.
func (r *StatusRegistry) AllowedTransitions(from string) []string {
	targets := r.transitions[from]
	out := make([]string, 0, len(targets))
	for to := range targets {
		out = append(out, to)
	}
	return out
}

// ActionFor returns the canonical action mapped to the status, if any.
func (r *StatusRegistry) ActionFor(status string) (string, bool) {
	def, ok := r.statuses[status]
	if !ok || def.Action == "" {
		return "", false
	}
	return def.Action, true
}

// IsReviewerDecision reports whether the action is one of the reviewer
// decision actions designated by the configuration.
func (r *StatusRegistry) IsReviewerDecision(action string) bool {
	return r.reviewerActions[action]
}

// IsRevisionFamily reports whether the status belongs to the needs-revision
// family.
func (r *StatusRegistry) IsRevisionFamily(status string) bool {
	return r.statuses[status].RevisionFamily
}

// IsTerminalNegative reports whether the status is a configured
// terminal-negative (purge-eligible) status.
func (r *StatusRegistry) IsTerminalNegative(status string) bool {
	return r.statuses[status].TerminalNegative
}

// InitialStatus returns the well-known initial status.
func (r *StatusRegistry) InitialStatus() string {
	return r.initial
}

// AssignedStatus returns the single assigned-in-progress status.
func (r *StatusRegistry) AssignedStatus() string {
	return r.assigned
}

// PublishedStatus returns the status that stamps the publication timestamp,
// or the empty string when none is configured.
func (r *StatusRegistry) PublishedStatus() string {
	return r.published
}

// IsPermittedRole reports whether the role is in the permitted set.
func (r *StatusRegistry) IsPermittedRole(role string) bool {
	return r.roles[role]
}

// Editorial status codes as seeded in submission_statuses. The engine never
// branches on these directly; they exist for seeding, controllers and tests.
const (
	StatusDraft         = "draft"
	StatusSubmitted     = "submitted"
	StatusInReview      = "in_review"
	StatusShortlisted   = "shortlisted"
	StatusNeedsRevision = "needs_revision"
	StatusApproved      = "approved"
	StatusRejected      = "rejected"
	StatusPublished     = "published"
	StatusArchived      = "archived"
)

// Role labels. RoleUser and RoleReviewer double as the deterministic
// fallbacks applied when identity data is missing.
const (
	RoleUser     = "user"
	RoleReviewer = "reviewer"
	RoleEditor   = "editor"
	RoleAdmin    = "admin"
)

// DefaultRegistryConfig returns the editorial platform's shipped status
// table. Production loads the same shape from the database; tests and the
// seed migration start from this.
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		Statuses: []StatusDefinition{
			{Code: StatusDraft, Action: "create"},
			{Code: StatusSubmitted, Action: "submit"},
			{Code: StatusInReview, Action: "assign"},
			{Code: StatusShortlisted, Action: "shortlist", ReviewerDecision: true},
			{Code: StatusNeedsRevision, Action: "request_changes", ReviewerDecision: true, RevisionFamily: true},
			{Code: StatusApproved, Action: "approve", ReviewerDecision: true},
			{Code: StatusRejected, Action: "reject", ReviewerDecision: true, TerminalNegative: true},
			{Code: StatusPublished, Action: "publish"},
			{Code: StatusArchived, Action: "archive"},
		},
		Transitions: map[string][]string{
			StatusDraft:     {StatusSubmitted},
			StatusSubmitted: {StatusInReview},
			// The in_review self-edge lets a rival claim pass legality
			// validation and fail on the assignment conflict instead.
			StatusInReview:      {StatusSubmitted, StatusShortlisted, StatusNeedsRevision, StatusApproved, StatusRejected, StatusInReview},
			StatusShortlisted:   {StatusApproved, StatusRejected},
			StatusNeedsRevision: {StatusSubmitted},
			StatusApproved:      {StatusPublished},
			StatusPublished:     {StatusArchived},
		},
		InitialStatus:   StatusDraft,
		AssignedStatus:  StatusInReview,
		PublishedStatus: StatusPublished,
		PermittedRoles:  []string{RoleUser, RoleReviewer, RoleEditor, RoleAdmin},
	}
}

var (
	registryCacheMu sync.RWMutex
	registryCache   *registryCacheEntry
	registryTTL     = 5 * time.Minute
)

type registryCacheEntry struct {
	registry  *StatusRegistry
	fetchedAt time.Time
}

// LoadStatusRegistry builds a registry from the submission_statuses,
// submission_transitions and roles tables, with a short-lived cache so every
// transition does not hit the database.
func LoadStatusRegistry(force bool) (*StatusRegistry, error) {
	registryCacheMu.RLock()
	cached := registryCache
	registryCacheMu.RUnlock()

	if cached != nil && !force && time.Since(cached.fetchedAt) < registryTTL {
		return cached.registry, nil
	}

	registryCacheMu.Lock()
	defer registryCacheMu.Unlock()

	if registryCache != nil && !force && time.Since(registryCache.fetchedAt) < registryTTL {
		return registryCache.registry, nil
	}

	var statusRows []models.SubmissionStatus
	if err := config.DB.Where("delete_at IS NULL").Find(&statusRows).Error; err != nil {
		return nil, fmt.Errorf("failed to load submission statuses: %w", err)
	}

	var transitionRows []models.SubmissionTransition
	if err := config.DB.Where("delete_at IS NULL").Find(&transitionRows).Error; err != nil {
		return nil, fmt.Errorf("failed to load submission transitions: %w", err)
	}

	var roleRows []models.Role
	if err := config.DB.Where("delete_at IS NULL").Find(&roleRows).Error; err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}

	cfg := RegistryConfig{Transitions: make(map[string][]string)}
	for _, row := range statusRows {
		def := StatusDefinition{
			Code:             row.StatusCode,
			ReviewerDecision: row.IsReviewerAction,
			RevisionFamily:   row.IsRevisionFamily,
			TerminalNegative: row.IsTerminalNeg,
		}
		if row.Action != nil {
			def.Action = *row.Action
		}
		cfg.Statuses = append(cfg.Statuses, def)
		if row.IsInitial {
			cfg.InitialStatus = row.StatusCode
		}
		if row.IsAssigned {
			cfg.AssignedStatus = row.StatusCode
		}
		if row.IsPublished {
			cfg.PublishedStatus = row.StatusCode
		}
	}
	for _, row := range transitionRows {
		cfg.Transitions[row.FromStatus] = append(cfg.Transitions[row.FromStatus], row.ToStatus)
	}
	for _, row := range roleRows {
		cfg.PermittedRoles = append(cfg.PermittedRoles, row.Role)
	}

	registry, err := NewStatusRegistry(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid status configuration: %w", err)
	}

	registryCache = &registryCacheEntry{registry: registry, fetchedAt: time.Now()}
	return registry, nil
}

// ClearStatusRegistryCache invalidates the cached registry.
func ClearStatusRegistryCache() {
	registryCacheMu.Lock()
	defer registryCacheMu.Unlock()
	registryCache = nil
}

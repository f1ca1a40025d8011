package repositories

import (
	"context"
	"time"

	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
)

// PolicyReader defines read operations for split policies.
type PolicyReader interface {
	// FindPolicyByID retrieves a policy with its ratio groups.
	FindPolicyByID(ctx context.Context, policyID string) (*domain.PolicyConfig, error)

	// FindActivePolicy retrieves the single active policy.
	FindActivePolicy(ctx context.Context) (*domain.PolicyConfig, error)

	// ListPolicies retrieves all policy versions, newest first.
	ListPolicies(ctx context.Context, limit int, offset int) ([]domain.PolicyConfig, error)
}

// PolicyWriter defines write operations for split policies.
type PolicyWriter interface {
	// SavePolicy persists a policy and its ratio groups. Policies are
	// immutable once saved; changes are new versions.
	SavePolicy(ctx context.Context, policy domain.PolicyConfig) error

	// ActivatePolicy atomically deactivates the currently active policy and
	// activates the given one.
	ActivatePolicy(ctx context.Context, policyID string, userID string, now time.Time) error
}

// PolicyRepositoryFacade combines policy repository interfaces.
type PolicyRepositoryFacade interface {
	PolicyReader
	PolicyWriter
}

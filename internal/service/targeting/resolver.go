package targeting

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/miutaku/nugget/internal/model"
	"github.com/miutaku/nugget/pkg/logger"
)

// Directory is the slice of the user store the resolver reads.
type Directory interface {
	GetActiveUsers(ctx context.Context) ([]*model.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error)
	GetByAttribute(ctx context.Context, key, value string) ([]*model.User, error)
}

// Groups resolves group membership.
type Groups interface {
	GetMembers(ctx context.Context, groupID uuid.UUID) ([]*model.User, error)
}

// Resolver turns a target spec into the concrete set of active recipients.
// Resolution is a pure read over directory state: it creates nothing and is
// safe to run concurrently with the reminder scheduler.
type Resolver struct {
	directory Directory
	groups    Groups
	logger    *logger.Logger
}

func NewResolver(directory Directory, groups Groups, logger *logger.Logger) *Resolver {
	return &Resolver{
		directory: directory,
		groups:    groups,
		logger:    logger,
	}
}

// Resolve returns the deduplicated, id-ordered set of active users matching
// spec. Unknown user ids, unknown groups, unrecognized attribute keys and
// malformed specs all resolve to an empty set, never an error: a todo with
// zero recipients is valid. Only store failures surface as errors.
func (r *Resolver) Resolve(ctx context.Context, spec model.TargetSpec) ([]*model.User, error) {
	var (
		users []*model.User
		err   error
	)

	switch spec.Kind {
	case model.TargetAll:
		users, err = r.directory.GetActiveUsers(ctx)

	case model.TargetIndividual:
		if len(spec.UserIDs) == 0 {
			break
		}
		users, err = r.directory.GetByIDs(ctx, spec.UserIDs)

	case model.TargetGroup:
		if spec.GroupID == nil {
			break
		}
		users, err = r.groups.GetMembers(ctx, *spec.GroupID)

	case model.TargetAttribute:
		if spec.AttributeKey == "" || spec.AttributeValue == "" {
			break
		}
		if _, ok := model.AttributeColumn(spec.AttributeKey); !ok {
			r.logger.Warn("unrecognized target attribute key", "key", spec.AttributeKey)
			break
		}
		users, err = r.directory.GetByAttribute(ctx, spec.AttributeKey, spec.AttributeValue)

	default:
		r.logger.Warn("unknown target kind", "kind", string(spec.Kind))
	}

	if err != nil {
		return nil, fmt.Errorf("failed to resolve target %s: %w", spec.Kind, err)
	}

	resolved := dedupeActive(users)
	if len(resolved) == 0 {
		r.logger.Info("target spec resolved to zero recipients", "kind", string(spec.Kind))
	}
	return resolved, nil
}

// dedupeActive drops inactive users and duplicates, then orders by user id
// so resolution is deterministic for a fixed directory snapshot.
func dedupeActive(users []*model.User) []*model.User {
	seen := make(map[uuid.UUID]struct{}, len(users))
	out := make([]*model.User, 0, len(users))
	for _, u := range users {
		if u == nil || !u.IsActive {
			continue
		}
		if _, ok := seen[u.ID]; ok {
			continue
		}
		seen[u.ID] = struct{}{}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(out[i].ID.String(), out[j].ID.String()) < 0
	})
	return out
}

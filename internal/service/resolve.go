package service

import (
	"context"
	"fmt"

	"github.com/geocoder89/recipehub/internal/domain/user"
)

func lookupUsers(ctx context.Context, users UserStore, ids []string) (map[string]user.User, error) {
	if len(ids) == 0 {
		return map[string]user.User{}, nil
	}

	seen := make(map[string]struct{}, len(ids))
	uniq := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}

	people, err := users.GetMany(ctx, uniq)
	if err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}
	return people, nil
}

// summaryOf falls back to the bare id when the user is gone.
func summaryOf(people map[string]user.User, id string) user.Summary {
	if u, ok := people[id]; ok {
		return u.Summary()
	}
	return user.Summary{ID: id}
}

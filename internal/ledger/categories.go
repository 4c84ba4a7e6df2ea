package ledger

import (
	"context"
	"sort"
	"strings"

	"github.com/mmynk/budgetwise/internal/auth"
	"github.com/mmynk/budgetwise/internal/guest"
)

type categoryInput struct {
	Name string `json:"name" validate:"required,max=64"`
}

// Categories returns the caller's vocabulary: global categories plus their
// own, deduplicated and sorted by name.
func (l *Ledger) Categories(ctx context.Context, id auth.Identity) ([]string, error) {
	if err := authorize(id); err != nil {
		return nil, err
	}
	if id.IsGuest() {
		return guest.CategoryNames(), nil
	}

	cats, err := l.store.ListCategories(ctx, id.UserID())
	if err != nil {
		return nil, l.persistenceError(ctx, "list_categories", id, err)
	}

	seen := make(map[string]bool, len(cats))
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names, nil
}

// AddCategory adds a category to the caller's vocabulary. Adding an existing
// name is a no-op; created reports whether a row was written.
func (l *Ledger) AddCategory(ctx context.Context, id auth.Identity, name string) (created bool, err error) {
	if err := l.authorizeMutation(id, OpAddCategory); err != nil {
		return false, err
	}

	in := categoryInput{Name: strings.TrimSpace(name)}
	if err := check(l.validate, in, 0); err != nil {
		return false, err
	}

	created, err = l.store.EnsureCategory(ctx, in.Name, id.UserID())
	if err != nil {
		return false, l.persistenceError(ctx, OpAddCategory, id, err)
	}
	if created {
		l.metrics.LedgerMutation(OpAddCategory)
	}
	return created, nil
}

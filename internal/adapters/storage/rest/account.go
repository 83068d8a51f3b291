package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sprintpulse/sprintpulse/internal/domain"
)

// accountRow matches the accounts table schema.
type accountRow struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	IsTestTenant bool   `json:"is_test_tenant"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

func (r *accountRow) toDomain() domain.Account {
	return domain.Account{
		ID:           r.ID,
		Slug:         r.Slug,
		Name:         r.Name,
		IsTestTenant: r.IsTestTenant,
		CreatedAt:    parseTime(r.CreatedAt),
		UpdatedAt:    parseTime(r.UpdatedAt),
	}
}

// accountMembershipRow matches the account_memberships table schema.
type accountMembershipRow struct {
	AccountID string `json:"account_id"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

func (r *accountMembershipRow) toDomain() domain.AccountMembership {
	return domain.AccountMembership{
		AccountID: r.AccountID,
		UserID:    r.UserID,
		Role:      domain.AccountRole(r.Role),
		CreatedAt: parseTime(r.CreatedAt),
	}
}

func (s *Store) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	var rows []accountRow
	if err := s.req.Do(ctx, http.MethodGet, "/accounts?id="+eq(id), http.StatusOK, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	account := rows[0].toDomain()
	return &account, nil
}

func (s *Store) GetAccountBySlug(ctx context.Context, slug string) (*domain.Account, error) {
	var rows []accountRow
	if err := s.req.Do(ctx, http.MethodGet, "/accounts?slug="+eq(slug), http.StatusOK, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("account slug %s: %w", slug, domain.ErrNotFound)
	}
	account := rows[0].toDomain()
	return &account, nil
}

func (s *Store) UpdateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	patch := map[string]any{
		"name":           account.Name,
		"is_test_tenant": account.IsTestTenant,
		"updated_at":     formatTime(account.UpdatedAt),
	}

	var rows []accountRow
	path := "/accounts?id=" + eq(account.ID)
	if err := s.req.Do(ctx, http.MethodPatch, path, http.StatusOK, patch, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("account %s: %w", account.ID, domain.ErrNotFound)
	}
	updated := rows[0].toDomain()
	return &updated, nil
}

// DeleteAccount removes the account row. The referencing teams, sprints,
// work items, surveys, and kudos are declared ON DELETE CASCADE in the
// row-store schema, so one call removes the whole tenant.
func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	return s.req.Do(ctx, http.MethodDelete, "/accounts?id="+eq(id), http.StatusNoContent, nil, nil)
}

func (s *Store) CreateAccountMembership(ctx context.Context, m *domain.AccountMembership) (*domain.AccountMembership, error) {
	row := accountMembershipRow{
		AccountID: m.AccountID,
		UserID:    m.UserID,
		Role:      string(m.Role),
		CreatedAt: formatTime(m.CreatedAt),
	}

	var rows []accountMembershipRow
	if err := s.req.Do(ctx, http.MethodPost, "/account_memberships", http.StatusCreated, row, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("account membership insert returned no rows: %w", domain.ErrUnavailable)
	}
	created := rows[0].toDomain()
	return &created, nil
}

func (s *Store) ListAccountMembershipsByUser(ctx context.Context, userID string) ([]domain.AccountMembership, error) {
	path := "/account_memberships?user_id=" + eq(userID) + "&order=account_id.asc"

	var rows []accountMembershipRow
	if err := s.req.Do(ctx, http.MethodGet, path, http.StatusOK, nil, &rows); err != nil {
		return nil, err
	}
	return membershipList(rows), nil
}

func (s *Store) ListAccountMembershipsByAccount(ctx context.Context, accountID string) ([]domain.AccountMembership, error) {
	path := "/account_memberships?account_id=" + eq(accountID) + "&order=user_id.asc"

	var rows []accountMembershipRow
	if err := s.req.Do(ctx, http.MethodGet, path, http.StatusOK, nil, &rows); err != nil {
		return nil, err
	}
	return membershipList(rows), nil
}

func membershipList(rows []accountMembershipRow) []domain.AccountMembership {
	out := make([]domain.AccountMembership, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out
}

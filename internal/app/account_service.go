package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/sprintpulse/sprintpulse/internal/domain"
	"github.com/sprintpulse/sprintpulse/internal/policy"
	"github.com/sprintpulse/sprintpulse/internal/ports"
)

// Compile-time check that AccountService implements ports.AccountService.
var _ ports.AccountService = (*AccountService)(nil)

// AccountService implements ports.AccountService. Account reads and
// metadata updates are open to any member; the is_test_tenant flag is
// monotonic and deletion cascades to every owned entity.
type AccountService struct {
	store  ports.Store
	logger *slog.Logger
	now    nowFunc
}

// NewAccountService creates an AccountService backed by the given store.
func NewAccountService(store ports.Store, logger *slog.Logger) *AccountService {
	return &AccountService{store: store, logger: logger, now: time.Now}
}

// GetAccount returns the account if the actor is a member of it.
func (s *AccountService) GetAccount(ctx context.Context, actorID, accountID string) (*domain.Account, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbRead, policy.Target{
		Kind:      policy.KindAccount,
		AccountID: account.ID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	return account, nil
}

// UpdateAccount applies a partial metadata update. Clearing is_test_tenant
// once set is rejected.
func (s *AccountService) UpdateAccount(ctx context.Context, actorID, accountID string, change ports.AccountChange) (*domain.Account, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbUpdate, policy.Target{
		Kind:      policy.KindAccount,
		AccountID: account.ID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	if change.IsTestTenant != nil {
		if verr := policy.TestTenantTransition(account.IsTestTenant, *change.IsTestTenant); verr != nil {
			return nil, verr
		}
		account.IsTestTenant = *change.IsTestTenant
	}
	if change.Name != nil {
		fields := make(map[string]string)
		requireNonEmpty(fields, "name", *change.Name)
		if err := validationErr(fields); err != nil {
			return nil, err
		}
		account.Name = *change.Name
	}

	updated, err := s.store.UpdateAccount(ctx, account)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update account",
			slog.String("operation", "UpdateAccount"),
			slog.String("account_id", accountID),
			slog.Any("error", err),
		)
		return nil, err
	}

	return updated, nil
}

// DeleteAccount removes the account. Every owned relationship cascades, so
// the resolution never blocks; the store carries out the transitive delete.
func (s *AccountService) DeleteAccount(ctx context.Context, actorID, accountID string) error {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return err
	}

	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}

	decision := policy.Evaluate(actor, policy.VerbDelete, policy.Target{
		Kind:      policy.KindAccount,
		AccountID: account.ID,
	})
	if err := decision.Err(); err != nil {
		return err
	}

	resolution := policy.ResolveDeletion(policy.KindAccount, nil)
	if err := resolution.Err(); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "deleting account",
		slog.String("operation", "DeleteAccount"),
		slog.String("account_id", accountID),
		slog.Any("cascade_to", resolution.CascadeTo),
	)

	return s.store.DeleteAccount(ctx, accountID)
}

// JoinAccount inserts an account membership for the actor themself. This is
// the one write permitted without prior membership in the target account.
func (s *AccountService) JoinAccount(ctx context.Context, actorID string, membership *domain.AccountMembership) (*domain.AccountMembership, error) {
	fields := make(map[string]string)
	requireNonEmpty(fields, "account_id", membership.AccountID)
	requireNonEmpty(fields, "user_id", membership.UserID)
	if !membership.Role.IsValid() {
		fields["role"] = "must be one of owner, admin, member"
	}
	if err := validationErr(fields); err != nil {
		return nil, err
	}

	if verr := policy.MembershipSelfInsert(actorID, *membership); verr != nil {
		return nil, verr
	}

	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(actor, policy.VerbCreate, policy.Target{
		Kind:        policy.KindAccountMembership,
		AccountID:   membership.AccountID,
		OwnerUserID: membership.UserID,
	})
	if err := decision.Err(); err != nil {
		return nil, err
	}

	// The account must exist; a join against an unknown account is 404,
	// not a silent insert.
	if _, err := s.store.GetAccount(ctx, membership.AccountID); err != nil {
		return nil, err
	}

	membership.CreatedAt = s.now().UTC()

	created, err := s.store.CreateAccountMembership(ctx, membership)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create account membership",
			slog.String("operation", "JoinAccount"),
			slog.String("account_id", membership.AccountID),
			slog.Any("error", err),
		)
		return nil, err
	}

	return created, nil
}

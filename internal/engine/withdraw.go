package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vlasovdm/referral-gift-bot/internal/domain/models"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUnknownGift         = errors.New("unknown gift")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// CreateWithdraw debits the gift price from the user's balance and opens a
// pending request snapshotting the gift name and cost. The debit is a single
// conditional statement, so an insufficient balance leaves no partial state.
func (e *Engine) CreateWithdraw(ctx context.Context, userID int64, giftKey string) (int64, error) {
	const op = "engine.CreateWithdraw"

	gift, ok := e.catalog.Get(giftKey)
	if !ok {
		return 0, ErrUnknownGift
	}

	user, err := e.storage.GetUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if user == nil {
		return 0, ErrUserNotFound
	}

	debited, err := e.storage.DebitBalance(ctx, userID, gift.Price)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if !debited {
		return 0, ErrInsufficientBalance
	}

	id, err := e.storage.CreateWithdraw(ctx, userID, gift.Key, gift.Name, gift.Price)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	e.logger.Info("Withdraw request created",
		slog.Int64("withdraw_id", id),
		slog.Int64("user_id", userID),
		slog.String("gift", gift.Key),
		slog.Int64("cost", gift.Price),
	)

	return id, nil
}

// DecideWithdraw moves a pending request to approved or declined. It reports
// false when the request is missing or already decided, which callers treat
// as "already handled". The balance was debited at creation time; a decline
// does not refund it.
func (e *Engine) DecideWithdraw(ctx context.Context, withdrawID int64, approve bool) (*models.WithdrawRequest, bool, error) {
	const op = "engine.DecideWithdraw"

	w, err := e.storage.GetWithdraw(ctx, withdrawID)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if w == nil {
		return nil, false, nil
	}

	status := models.WithdrawDeclined
	if approve {
		status = models.WithdrawApproved
	}

	changed, err := e.storage.SetWithdrawStatus(ctx, withdrawID, status)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if !changed {
		return w, false, nil
	}

	w.Status = status

	e.logger.Info("Withdraw request decided",
		slog.Int64("withdraw_id", withdrawID),
		slog.String("status", string(status)),
	)

	return w, true, nil
}

// ListWithdraws returns the user's requests, most recent first.
func (e *Engine) ListWithdraws(ctx context.Context, userID int64, limit int) ([]models.WithdrawRequest, error) {
	const op = "engine.ListWithdraws"

	withdraws, err := e.storage.ListWithdraws(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return withdraws, nil
}

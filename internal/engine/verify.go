package engine

import (
	"context"
	"fmt"
	"log/slog"
)

// EnsureVerifiedAndReward checks the user's membership in every configured
// channel and, when all checks pass, marks the user verified and pays the
// one-time referral reward to their referrer.
//
// The reward is gated by an atomic conditional flag update in the store, so
// concurrent calls for the same user credit the referrer at most once. When
// the referrer has no record yet, a placeholder is created for them.
func (e *Engine) EnsureVerifiedAndReward(ctx context.Context, userID int64) (bool, error) {
	const op = "engine.EnsureVerifiedAndReward"

	user, err := e.storage.GetUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if user == nil {
		return false, nil
	}

	if !e.subscribedToAll(ctx, userID) {
		return false, nil
	}

	if !user.Verified {
		if err := e.storage.SetVerified(ctx, userID); err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
	}

	if user.ReferrerID.Valid && !user.ReferralRewarded {
		won, err := e.storage.MarkReferralRewarded(ctx, userID)
		if err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		if won {
			if err := e.storage.CreditReferrer(ctx, user.ReferrerID.Int64, e.reward); err != nil {
				return false, fmt.Errorf("%s: %w", op, err)
			}
			e.logger.Info("Referral rewarded",
				slog.Int64("user_id", userID),
				slog.Int64("referrer_id", user.ReferrerID.Int64),
				slog.Int64("reward", e.reward),
			)
		}
	}

	return true, nil
}

func (e *Engine) subscribedToAll(ctx context.Context, userID int64) bool {
	for _, channel := range e.channels {
		status, err := e.membership.CheckMembership(ctx, userID, channel)
		if err != nil {
			e.logger.Debug("Membership check failed",
				slog.Int64("user_id", userID),
				slog.String("channel", channel),
				"error", err,
			)
			return false
		}
		switch status {
		case MemberStatusMember, MemberStatusAdministrator, MemberStatusCreator:
		default:
			return false
		}
	}
	return true
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vlasovdm/referral-gift-bot/internal/domain/models"

	_ "github.com/lib/pq"
)

type Storage struct {
	db *sql.DB
}

func New(dbUrl string) (*Storage, error) {
	db, err := sql.Open("postgres", dbUrl)
	if err != nil {
		return nil, fmt.Errorf("database connection error %s", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect database error %s", err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Stop() error {
	return s.db.Close()
}

func (s *Storage) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	const op = "storage.postgres.GetUser"

	var user models.User

	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, username, balance, referrer_id, verified, referral_rewarded, referrals_count, created_at
		 FROM users WHERE user_id = $1`, userID).
		Scan(&user.UserID, &user.Username, &user.Balance, &user.ReferrerID,
			&user.Verified, &user.ReferralRewarded, &user.ReferralsCount, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

// UpsertUser creates the user on first contact and only refreshes the
// username afterwards. The referrer is fixed at creation and never changed.
func (s *Storage) UpsertUser(ctx context.Context, userID int64, username string, referrerID int64) error {
	const op = "storage.postgres.UpsertUser"

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users(user_id, username, referrer_id)
		 VALUES($1, NULLIF($2, ''), NULLIF($3, 0))
		 ON CONFLICT (user_id) DO UPDATE SET username = EXCLUDED.username`,
		userID, username, referrerID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) SetVerified(ctx context.Context, userID int64) error {
	const op = "storage.postgres.SetVerified"

	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET verified = TRUE WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// MarkReferralRewarded flips the one-shot reward guard. It reports whether
// this call won the flag, so concurrent invocations cannot credit twice.
func (s *Storage) MarkReferralRewarded(ctx context.Context, userID int64) (bool, error) {
	const op = "storage.postgres.MarkReferralRewarded"

	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET referral_rewarded = TRUE WHERE user_id = $1 AND referral_rewarded = FALSE",
		userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return affected == 1, nil
}

// CreditReferrer credits the referrer and bumps their referral counter,
// creating a placeholder record when the referrer has not started the bot yet.
func (s *Storage) CreditReferrer(ctx context.Context, referrerID, amount int64) error {
	const op = "storage.postgres.CreditReferrer"

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users(user_id, balance, referrals_count)
		 VALUES($1, $2, 1)
		 ON CONFLICT (user_id) DO UPDATE
		 SET balance = users.balance + EXCLUDED.balance,
		     referrals_count = users.referrals_count + 1`,
		referrerID, amount)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DebitBalance subtracts amount only when the balance covers it, in a single
// statement. Reports false on insufficient funds with no partial mutation.
func (s *Storage) DebitBalance(ctx context.Context, userID, amount int64) (bool, error) {
	const op = "storage.postgres.DebitBalance"

	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET balance = balance - $1 WHERE user_id = $2 AND balance >= $1",
		amount, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return affected == 1, nil
}

func (s *Storage) CreateWithdraw(ctx context.Context, userID int64, giftKey, giftName string, cost int64) (int64, error) {
	const op = "storage.postgres.CreateWithdraw"

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO withdraws(user_id, gift_key, gift_name, cost)
		 VALUES($1, $2, $3, $4) RETURNING id`,
		userID, giftKey, giftName, cost).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetWithdraw(ctx context.Context, id int64) (*models.WithdrawRequest, error) {
	const op = "storage.postgres.GetWithdraw"

	var w models.WithdrawRequest

	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, gift_key, gift_name, cost, status, created_at
		 FROM withdraws WHERE id = $1`, id).
		Scan(&w.ID, &w.UserID, &w.GiftKey, &w.GiftName, &w.Cost, &w.Status, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &w, nil
}

// SetWithdrawStatus moves a pending request to a terminal status. Reports
// false when the request is missing or already decided.
func (s *Storage) SetWithdrawStatus(ctx context.Context, id int64, status models.WithdrawStatus) (bool, error) {
	const op = "storage.postgres.SetWithdrawStatus"

	res, err := s.db.ExecContext(ctx,
		"UPDATE withdraws SET status = $1 WHERE id = $2 AND status = 'pending'",
		string(status), id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return affected == 1, nil
}

func (s *Storage) ListWithdraws(ctx context.Context, userID int64, limit int) ([]models.WithdrawRequest, error) {
	const op = "storage.postgres.ListWithdraws"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, gift_key, gift_name, cost, status, created_at
		 FROM withdraws WHERE user_id = $1 ORDER BY id DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var withdraws []models.WithdrawRequest
	for rows.Next() {
		var w models.WithdrawRequest
		if err := rows.Scan(&w.ID, &w.UserID, &w.GiftKey, &w.GiftName, &w.Cost, &w.Status, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		withdraws = append(withdraws, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return withdraws, nil
}

func (s *Storage) Stats(ctx context.Context) (*models.Stats, error) {
	const op = "storage.postgres.Stats"

	var stats models.Stats

	err := s.db.QueryRowContext(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM users),
		   (SELECT COUNT(*) FROM users WHERE verified),
		   (SELECT COALESCE(SUM(cost), 0) FROM withdraws WHERE status = 'approved'),
		   (SELECT COUNT(*) FROM withdraws),
		   (SELECT COUNT(*) FROM withdraws WHERE status = 'pending'),
		   (SELECT COUNT(*) FROM withdraws WHERE status = 'approved'),
		   (SELECT COUNT(*) FROM withdraws WHERE status = 'declined')`).
		Scan(&stats.Users, &stats.Verified, &stats.CoinsPaidOut, &stats.Withdraws,
			&stats.Pending, &stats.Approved, &stats.Declined)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &stats, nil
}

package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vlasovdm/referral-gift-bot/internal/domain/models"
)

// Chat member statuses that count as subscribed, as Telegram reports them.
const (
	MemberStatusMember        = "member"
	MemberStatusAdministrator = "administrator"
	MemberStatusCreator       = "creator"
)

// Membership reports whether a user belongs to a channel. Implementations may
// fail per channel; any failure degrades to "not subscribed".
type Membership interface {
	CheckMembership(ctx context.Context, userID int64, channel string) (string, error)
}

// Storage is the persistence contract the engine runs against. Every method
// maps to a single atomic statement in the store.
type Storage interface {
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	UpsertUser(ctx context.Context, userID int64, username string, referrerID int64) error
	SetVerified(ctx context.Context, userID int64) error
	MarkReferralRewarded(ctx context.Context, userID int64) (bool, error)
	CreditReferrer(ctx context.Context, referrerID, amount int64) error
	DebitBalance(ctx context.Context, userID, amount int64) (bool, error)
	CreateWithdraw(ctx context.Context, userID int64, giftKey, giftName string, cost int64) (int64, error)
	GetWithdraw(ctx context.Context, id int64) (*models.WithdrawRequest, error)
	SetWithdrawStatus(ctx context.Context, id int64, status models.WithdrawStatus) (bool, error)
	ListWithdraws(ctx context.Context, userID int64, limit int) ([]models.WithdrawRequest, error)
	Stats(ctx context.Context) (*models.Stats, error)
}

type Engine struct {
	logger     *slog.Logger
	storage    Storage
	membership Membership
	channels   []string
	reward     int64
	catalog    *Catalog
}

func New(logger *slog.Logger, storage Storage, membership Membership, channels []string, reward int64, catalog *Catalog) *Engine {
	return &Engine{
		logger:     logger,
		storage:    storage,
		membership: membership,
		channels:   channels,
		reward:     reward,
		catalog:    catalog,
	}
}

func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// RegisterUser records the user on first contact; the referrer is bound once
// at creation, repeat calls only refresh the username. referrerID 0 means no
// referrer.
func (e *Engine) RegisterUser(ctx context.Context, userID int64, username string, referrerID int64) error {
	const op = "engine.RegisterUser"

	if err := e.storage.UpsertUser(ctx, userID, username, referrerID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (e *Engine) User(ctx context.Context, userID int64) (*models.User, error) {
	const op = "engine.User"

	user, err := e.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (e *Engine) Stats(ctx context.Context) (*models.Stats, error) {
	const op = "engine.Stats"

	stats, err := e.storage.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return stats, nil
}

package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"faucet/contexts/treasury-core/faucet-engine/domain/entities"
	domainerrors "faucet/contexts/treasury-core/faucet-engine/domain/errors"
	"faucet/contexts/treasury-core/faucet-engine/domain/services"
	"faucet/contexts/treasury-core/faucet-engine/domain/valueobjects"
	"faucet/contexts/treasury-core/faucet-engine/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"

	cooldownRowID = 1
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) UpsertClaimAmount(ctx context.Context, config entities.AssetConfig) error {
	if config.AssetID == "" || config.ClaimAmount == 0 {
		return domainerrors.ErrInvalidInput
	}
	row := assetConfigModel{
		AssetID:     config.AssetID.String(),
		ClaimAmount: config.ClaimAmount,
		UpdatedAt:   config.UpdatedAt.UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "asset_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"claim_amount", "updated_at"}),
		}).
		Create(&row).
		Error
	if err != nil {
		return r.logError("faucet_repo_upsert_claim_amount_failed", err,
			"asset_id", row.AssetID,
		)
	}
	return nil
}

func (r *Repository) GetClaimAmount(ctx context.Context, asset valueobjects.AssetID) (uint64, bool, error) {
	var row assetConfigModel
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", asset.String()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, r.logError("faucet_repo_get_claim_amount_failed", err,
			"asset_id", asset.String(),
		)
	}
	return row.ClaimAmount, true, nil
}

func (r *Repository) UpsertQuota(ctx context.Context, config entities.QuotaConfig) error {
	if config.AssetID == "" {
		return domainerrors.ErrInvalidInput
	}
	row := quotaConfigModel{
		AssetID:   config.AssetID.String(),
		MaxClaims: config.MaxClaims,
		UpdatedAt: config.UpdatedAt.UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "asset_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"max_claims", "updated_at"}),
		}).
		Create(&row).
		Error
	if err != nil {
		return r.logError("faucet_repo_upsert_quota_failed", err,
			"asset_id", row.AssetID,
		)
	}
	return nil
}

func (r *Repository) GetQuota(ctx context.Context, asset valueobjects.AssetID) (uint64, bool, error) {
	var row quotaConfigModel
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", asset.String()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, r.logError("faucet_repo_get_quota_failed", err,
			"asset_id", asset.String(),
		)
	}
	return row.MaxClaims, true, nil
}

func (r *Repository) GetCooldown(ctx context.Context) (entities.CooldownState, error) {
	var row cooldownStateModel
	err := r.db.WithContext(ctx).
		Where("id = ?", cooldownRowID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.CooldownState{}, domainerrors.ErrNotInitialized
		}
		return entities.CooldownState{}, r.logError("faucet_repo_get_cooldown_failed", err)
	}
	return entities.CooldownState{
		LastClaimAt: row.LastClaimAt,
		Delay:       row.Delay,
	}, nil
}

// InitCooldown seeds the single cooldown row if it does not exist yet.
func (r *Repository) InitCooldown(ctx context.Context, delay uint64) error {
	if delay < entities.MinClaimDelay {
		return domainerrors.ErrInvalidDelay
	}
	row := cooldownStateModel{
		ID:    cooldownRowID,
		Delay: delay,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).
		Error
	if err != nil {
		return r.logError("faucet_repo_init_cooldown_failed", err)
	}
	return nil
}

func (r *Repository) SetDelay(ctx context.Context, delay uint64) error {
	if delay < entities.MinClaimDelay {
		return domainerrors.ErrInvalidDelay
	}
	result := r.db.WithContext(ctx).
		Model(&cooldownStateModel{}).
		Where("id = ?", cooldownRowID).
		Update("delay", delay)
	if result.Error != nil {
		return r.logError("faucet_repo_set_delay_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotInitialized
	}
	return nil
}

func (r *Repository) TryPassCooldown(ctx context.Context, now uint64) (entities.CooldownState, error) {
	var state entities.CooldownState
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row cooldownStateModel
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", cooldownRowID).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrNotInitialized
			}
			return err
		}

		state = entities.CooldownState{LastClaimAt: row.LastClaimAt, Delay: row.Delay}
		if !services.CooldownElapsed(state, now) {
			return domainerrors.ErrRateLimited
		}
		if err := tx.
			Model(&cooldownStateModel{}).
			Where("id = ?", cooldownRowID).
			Update("last_claim_at", now).
			Error; err != nil {
			return err
		}
		state.LastClaimAt = now
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrRateLimited) || errors.Is(err, domainerrors.ErrNotInitialized) {
			return entities.CooldownState{}, err
		}
		return entities.CooldownState{}, r.logError("faucet_repo_try_pass_cooldown_failed", err)
	}
	return state, nil
}

func (r *Repository) ClaimsConsumed(ctx context.Context, wallet string, asset valueobjects.AssetID) (uint64, error) {
	var row walletClaimModel
	err := r.db.WithContext(ctx).
		Where("wallet = ?", strings.TrimSpace(wallet)).
		Where("asset_id = ?", asset.String()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, r.logError("faucet_repo_claims_consumed_failed", err,
			"wallet", strings.TrimSpace(wallet),
			"asset_id", asset.String(),
		)
	}
	return row.ClaimsConsumed, nil
}

func (r *Repository) RecordClaim(ctx context.Context, wallet string, asset valueobjects.AssetID, quota uint64, now time.Time) error {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" || asset == "" {
		return domainerrors.ErrInvalidInput
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row walletClaimModel
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("wallet = ?", wallet).
			Where("asset_id = ?", asset.String()).
			First(&row).
			Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = walletClaimModel{Wallet: wallet, AssetID: asset.String()}
		case err != nil:
			return err
		}

		if row.ClaimsConsumed >= quota {
			return domainerrors.ErrMaxClaimsReached
		}
		row.ClaimsConsumed++
		row.UpdatedAt = now.UTC()
		return tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "wallet"}, {Name: "asset_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"claims_consumed", "updated_at"}),
			}).
			Create(&row).
			Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrMaxClaimsReached) {
			return err
		}
		return r.logError("faucet_repo_record_claim_failed", err,
			"wallet", wallet,
			"asset_id", asset.String(),
		)
	}
	return nil
}

func (r *Repository) Balance(ctx context.Context, account string, asset valueobjects.AssetID) (uint64, error) {
	var row ledgerBalanceModel
	err := r.db.WithContext(ctx).
		Where("account = ?", strings.TrimSpace(account)).
		Where("asset_id = ?", asset.String()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, r.logError("faucet_repo_balance_failed", err,
			"account", strings.TrimSpace(account),
			"asset_id", asset.String(),
		)
	}
	return row.Balance, nil
}

func (r *Repository) Transfer(ctx context.Context, from string, to string, asset valueobjects.AssetID, amount uint64) error {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" || asset == "" {
		return domainerrors.ErrInvalidInput
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var source ledgerBalanceModel
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("account = ?", from).
			Where("asset_id = ?", asset.String()).
			First(&source).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrInsufficientFunds
			}
			return err
		}
		if source.Balance < amount {
			return domainerrors.ErrInsufficientFunds
		}

		if err := tx.
			Model(&ledgerBalanceModel{}).
			Where("account = ?", from).
			Where("asset_id = ?", asset.String()).
			Update("balance", gorm.Expr("balance - ?", amount)).
			Error; err != nil {
			return err
		}

		destination := ledgerBalanceModel{
			Account: to,
			AssetID: asset.String(),
			Balance: amount,
		}
		return tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "account"}, {Name: "asset_id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"balance": gorm.Expr("faucet_ledger_balances.balance + ?", amount),
				}),
			}).
			Create(&destination).
			Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrInsufficientFunds) {
			return err
		}
		return r.logError("faucet_repo_transfer_failed", err,
			"from", from,
			"to", to,
			"asset_id", asset.String(),
		)
	}
	return nil
}

// Credit mints amount into account. Bootstrap-only helper for environments
// where depositor accounts are not funded by an external ledger.
func (r *Repository) Credit(ctx context.Context, account string, asset valueobjects.AssetID, amount uint64) error {
	row := ledgerBalanceModel{
		Account: strings.TrimSpace(account),
		AssetID: asset.String(),
		Balance: amount,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account"}, {Name: "asset_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"balance": gorm.Expr("faucet_ledger_balances.balance + ?", amount),
			}),
		}).
		Create(&row).
		Error
	if err != nil {
		return r.logError("faucet_repo_credit_failed", err,
			"account", row.Account,
			"asset_id", row.AssetID,
		)
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := marshalEnvelope(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		return domainerrors.ErrInvalidInput
	}
	row := auditOutboxModel{
		OutboxID:     outboxID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return r.logError("faucet_repo_append_outbox_failed", err,
			"outbox_id", outboxID,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []auditOutboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at asc").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("faucet_repo_list_pending_outbox_failed", err)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	ts := publishedAt.UTC()
	result := r.db.WithContext(ctx).
		Model(&auditOutboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": &ts,
		})
	if result.Error != nil {
		return r.logError("faucet_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidInput
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+6)
	fields = append(fields,
		"event", event,
		"module", "treasury-core/faucet-engine",
		"layer", "adapter",
	)
	fields = append(fields, attrs...)
	fields = append(fields, "error", err.Error())
	r.logger.Error("faucet repository failure", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"faucet/contexts/identity-access/admin-authority/domain/entities"
	domainerrors "faucet/contexts/identity-access/admin-authority/domain/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
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

func (r *Repository) IssueToken(ctx context.Context, token entities.AdminToken) error {
	if strings.TrimSpace(token.TokenID) == "" || strings.TrimSpace(token.Holder) == "" {
		return domainerrors.ErrInvalidHolder
	}

	var existing int64
	if err := r.db.WithContext(ctx).
		Model(&adminTokenModel{}).
		Count(&existing).
		Error; err != nil {
		return r.logError("admin_token_repo_issue_count_failed", err)
	}
	if existing > 0 {
		return domainerrors.ErrAlreadyIssued
	}

	row := adminTokenModel{
		TokenID:  strings.TrimSpace(token.TokenID),
		Holder:   strings.TrimSpace(token.Holder),
		IssuedAt: token.IssuedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyIssued
		}
		return r.logError("admin_token_repo_issue_failed", err, "token_id", row.TokenID)
	}
	return nil
}

func (r *Repository) GetToken(ctx context.Context) (entities.AdminToken, error) {
	var row adminTokenModel
	err := r.db.WithContext(ctx).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.AdminToken{}, domainerrors.ErrNotInitialized
		}
		return entities.AdminToken{}, r.logError("admin_token_repo_get_failed", err)
	}
	return entities.AdminToken{
		TokenID:  row.TokenID,
		Holder:   row.Holder,
		IssuedAt: row.IssuedAt.UTC(),
	}, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+6)
	fields = append(fields,
		"event", event,
		"module", "identity-access/admin-authority",
		"layer", "adapter",
	)
	fields = append(fields, attrs...)
	fields = append(fields, "error", err.Error())
	r.logger.Error("admin token repository failure", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type adminTokenModel struct {
	TokenID  string    `gorm:"column:token_id;primaryKey"`
	Holder   string    `gorm:"column:holder"`
	IssuedAt time.Time `gorm:"column:issued_at"`
}

func (adminTokenModel) TableName() string {
	return "faucet_admin_token"
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

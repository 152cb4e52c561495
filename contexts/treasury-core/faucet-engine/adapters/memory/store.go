package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"faucet/contexts/treasury-core/faucet-engine/domain/entities"
	domainerrors "faucet/contexts/treasury-core/faucet-engine/domain/errors"
	"faucet/contexts/treasury-core/faucet-engine/domain/services"
	"faucet/contexts/treasury-core/faucet-engine/domain/valueobjects"
	"faucet/contexts/treasury-core/faucet-engine/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	claimAmounts map[valueobjects.AssetID]entities.AssetConfig
	quotas       map[valueobjects.AssetID]entities.QuotaConfig
	cooldown     entities.CooldownState
	claims       map[claimKey]entities.WalletClaimRecord
	balances     map[balanceKey]uint64
	outbox       map[string]outboxRecord
}

type claimKey struct {
	Wallet  string
	AssetID valueobjects.AssetID
}

type balanceKey struct {
	Account string
	AssetID valueobjects.AssetID
}

type outboxRecord struct {
	Message     ports.OutboxMessage
	Status      string
	PublishedAt *time.Time
}

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

func NewStore() *Store {
	return &Store{
		claimAmounts: make(map[valueobjects.AssetID]entities.AssetConfig),
		quotas:       make(map[valueobjects.AssetID]entities.QuotaConfig),
		cooldown:     entities.CooldownState{Delay: entities.MinClaimDelay},
		claims:       make(map[claimKey]entities.WalletClaimRecord),
		balances:     make(map[balanceKey]uint64),
		outbox:       make(map[string]outboxRecord),
	}
}

func (s *Store) UpsertClaimAmount(_ context.Context, config entities.AssetConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if config.AssetID == "" || config.ClaimAmount == 0 {
		return domainerrors.ErrInvalidInput
	}
	s.claimAmounts[config.AssetID] = config
	return nil
}

func (s *Store) GetClaimAmount(_ context.Context, asset valueobjects.AssetID) (uint64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	config, ok := s.claimAmounts[asset]
	if !ok {
		return 0, false, nil
	}
	return config.ClaimAmount, true, nil
}

func (s *Store) UpsertQuota(_ context.Context, config entities.QuotaConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if config.AssetID == "" {
		return domainerrors.ErrInvalidInput
	}
	s.quotas[config.AssetID] = config
	return nil
}

func (s *Store) GetQuota(_ context.Context, asset valueobjects.AssetID) (uint64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	config, ok := s.quotas[asset]
	if !ok {
		return 0, false, nil
	}
	return config.MaxClaims, true, nil
}

func (s *Store) GetCooldown(_ context.Context) (entities.CooldownState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cooldown, nil
}

func (s *Store) SetDelay(_ context.Context, delay uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if delay < entities.MinClaimDelay {
		return domainerrors.ErrInvalidDelay
	}
	s.cooldown.Delay = delay
	return nil
}

func (s *Store) TryPassCooldown(_ context.Context, now uint64) (entities.CooldownState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !services.CooldownElapsed(s.cooldown, now) {
		return entities.CooldownState{}, domainerrors.ErrRateLimited
	}
	s.cooldown.LastClaimAt = now
	return s.cooldown, nil
}

func (s *Store) ClaimsConsumed(_ context.Context, wallet string, asset valueobjects.AssetID) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.claims[claimKey{Wallet: strings.TrimSpace(wallet), AssetID: asset}]
	if !ok {
		return 0, nil
	}
	return record.ClaimsConsumed, nil
}

func (s *Store) RecordClaim(_ context.Context, wallet string, asset valueobjects.AssetID, quota uint64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallet = strings.TrimSpace(wallet)
	if wallet == "" || asset == "" {
		return domainerrors.ErrInvalidInput
	}

	key := claimKey{Wallet: wallet, AssetID: asset}
	record, ok := s.claims[key]
	if !ok {
		record = entities.WalletClaimRecord{Wallet: wallet, AssetID: asset}
	}
	if record.ClaimsConsumed >= quota {
		return domainerrors.ErrMaxClaimsReached
	}
	record.ClaimsConsumed++
	record.UpdatedAt = now.UTC()
	s.claims[key] = record
	return nil
}

func (s *Store) Balance(_ context.Context, account string, asset valueobjects.AssetID) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.balances[balanceKey{Account: strings.TrimSpace(account), AssetID: asset}], nil
}

func (s *Store) Transfer(_ context.Context, from string, to string, asset valueobjects.AssetID, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fromKey := balanceKey{Account: strings.TrimSpace(from), AssetID: asset}
	toKey := balanceKey{Account: strings.TrimSpace(to), AssetID: asset}
	if fromKey.Account == "" || toKey.Account == "" || asset == "" {
		return domainerrors.ErrInvalidInput
	}
	if s.balances[fromKey] < amount {
		return domainerrors.ErrInsufficientFunds
	}
	s.balances[fromKey] -= amount
	s.balances[toKey] += amount
	return nil
}

// Credit mints amount into account. The faucet never mints; this exists so
// bootstrap and tests can fund depositor accounts on the in-memory ledger.
func (s *Store) Credit(account string, asset valueobjects.AssetID, amount uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balances[balanceKey{Account: strings.TrimSpace(account), AssetID: asset}] += amount
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		return domainerrors.ErrInvalidInput
	}

	if existing, ok := s.outbox[outboxID]; ok {
		if !bytes.Equal(existing.Message.Payload, payload) {
			return domainerrors.ErrInvalidInput
		}
		return nil
	}

	s.outbox[outboxID] = outboxRecord{
		Message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt.UTC(),
		},
		Status: outboxStatusPending,
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.Status == outboxStatusPending {
			items = append(items, row.Message)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrInvalidInput
	}
	ts := publishedAt.UTC()
	row.Status = outboxStatusPublished
	row.PublishedAt = &ts
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

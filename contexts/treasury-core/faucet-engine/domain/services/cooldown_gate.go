package services

import "faucet/contexts/treasury-core/faucet-engine/domain/entities"

// CooldownElapsed reports whether now has reached the next allowed claim slot.
// The gate is global: it spans all wallets and all assets.
func CooldownElapsed(state entities.CooldownState, now uint64) bool {
	return now >= state.LastClaimAt+state.Delay
}

// EffectiveQuota resolves the quota for an asset: the explicit entry when one
// exists (zero included), otherwise the system default of one claim.
func EffectiveQuota(maxClaims uint64, configured bool) uint64 {
	if configured {
		return maxClaims
	}
	return entities.DefaultMaxClaims
}

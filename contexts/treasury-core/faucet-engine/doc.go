// Package faucetengine implements the treasury faucet: admin-configured claim
// amounts and per-wallet quotas, a single global claim cooldown, and bounded
// withdrawals from a system-owned treasury.
//
// The module owns the faucet configuration, cooldown, and claim ledger tables
// and exposes HTTP command/query handlers plus the audit outbox relay worker.
package faucetengine

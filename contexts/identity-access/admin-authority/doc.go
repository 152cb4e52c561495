// Package adminauthority resolves the faucet's single administrative principal.
//
// Authorization is capability-based: exactly one admin token is issued when the
// system is initialized and every configuration write is checked against the
// token's current holder. There is no secondary admin list.
package adminauthority

package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type SetClaimDelayRequest struct {
	ActorID string `json:"actor_id"`
	DelayUS uint64 `json:"delay_us"`
}

type SetClaimAmountRequest struct {
	ActorID string `json:"actor_id"`
	Amount  uint64 `json:"amount"`
}

type SetMaxClaimsRequest struct {
	ActorID   string `json:"actor_id"`
	MaxClaims uint64 `json:"max_claims"`
}

type DepositRequest struct {
	Depositor string `json:"depositor"`
	AssetID   string `json:"asset_id"`
	Amount    uint64 `json:"amount"`
}

type DepositDTO struct {
	DepositID   string `json:"deposit_id"`
	Depositor   string `json:"depositor"`
	AssetID     string `json:"asset_id"`
	Amount      uint64 `json:"amount"`
	DepositedAt string `json:"deposited_at"`
}

type DepositResponse struct {
	Status string     `json:"status"`
	Data   DepositDTO `json:"data"`
}

type ClaimRequest struct {
	Wallet  string `json:"wallet"`
	AssetID string `json:"asset_id"`
}

type ReceiptDTO struct {
	ReceiptID string `json:"receipt_id"`
	Wallet    string `json:"wallet"`
	AssetID   string `json:"asset_id"`
	Amount    uint64 `json:"amount"`
	ClaimedAt string `json:"claimed_at"`
}

type ClaimResponse struct {
	Status string     `json:"status"`
	Data   ReceiptDTO `json:"data"`
}

type ClaimDelayResponse struct {
	Status string `json:"status"`
	Data   struct {
		DelayUS uint64 `json:"delay_us"`
	} `json:"data"`
}

type AssetViewDTO struct {
	AssetID         string `json:"asset_id"`
	ClaimAmount     uint64 `json:"claim_amount"`
	MaxClaims       uint64 `json:"max_claims"`
	TreasuryBalance uint64 `json:"treasury_balance"`
}

type AssetViewResponse struct {
	Status string       `json:"status"`
	Data   AssetViewDTO `json:"data"`
}

type ClaimCountResponse struct {
	Status string `json:"status"`
	Data   struct {
		Wallet         string `json:"wallet"`
		AssetID        string `json:"asset_id"`
		ClaimsConsumed uint64 `json:"claims_consumed"`
	} `json:"data"`
}

type TreasuryBalanceResponse struct {
	Status string `json:"status"`
	Data   struct {
		AssetID string `json:"asset_id"`
		Balance uint64 `json:"balance"`
	} `json:"data"`
}

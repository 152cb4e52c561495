package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"faucet/contexts/treasury-core/faucet-engine/application"
	"faucet/contexts/treasury-core/faucet-engine/domain/valueobjects"
	httptransport "faucet/contexts/treasury-core/faucet-engine/transport/http"
)

type Handler struct {
	Service *application.Service
	Logger  *slog.Logger
}

func (h Handler) SetClaimDelayHandler(ctx context.Context, req httptransport.SetClaimDelayRequest) (httptransport.StatusResponse, error) {
	if err := h.Service.SetClaimDelay(ctx, req.ActorID, req.DelayUS); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

func (h Handler) SetClaimAmountHandler(ctx context.Context, assetID string, req httptransport.SetClaimAmountRequest) (httptransport.StatusResponse, error) {
	asset, err := valueobjects.ParseAssetID(assetID)
	if err != nil {
		return httptransport.StatusResponse{}, err
	}
	if err := h.Service.SetClaimAmount(ctx, req.ActorID, asset, req.Amount); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

func (h Handler) SetMaxClaimsHandler(ctx context.Context, assetID string, req httptransport.SetMaxClaimsRequest) (httptransport.StatusResponse, error) {
	asset, err := valueobjects.ParseAssetID(assetID)
	if err != nil {
		return httptransport.StatusResponse{}, err
	}
	if err := h.Service.SetMaxClaims(ctx, req.ActorID, asset, req.MaxClaims); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

func (h Handler) DepositHandler(ctx context.Context, req httptransport.DepositRequest) (httptransport.DepositResponse, error) {
	asset, err := valueobjects.ParseAssetID(req.AssetID)
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	deposit, err := h.Service.Deposit(ctx, req.Depositor, asset, req.Amount)
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	return httptransport.DepositResponse{
		Status: "success",
		Data: httptransport.DepositDTO{
			DepositID:   deposit.DepositID,
			Depositor:   deposit.Depositor,
			AssetID:     deposit.AssetID.String(),
			Amount:      deposit.Amount,
			DepositedAt: deposit.DepositedAt.UTC().Format(time.RFC3339),
		},
	}, nil
}

func (h Handler) ClaimHandler(ctx context.Context, req httptransport.ClaimRequest) (httptransport.ClaimResponse, error) {
	asset, err := valueobjects.ParseAssetID(req.AssetID)
	if err != nil {
		return httptransport.ClaimResponse{}, err
	}
	receipt, err := h.Service.Claim(ctx, req.Wallet, asset)
	if err != nil {
		return httptransport.ClaimResponse{}, err
	}
	return httptransport.ClaimResponse{
		Status: "success",
		Data: httptransport.ReceiptDTO{
			ReceiptID: receipt.ReceiptID,
			Wallet:    receipt.Wallet,
			AssetID:   receipt.AssetID.String(),
			Amount:    receipt.Amount,
			ClaimedAt: receipt.ClaimedAt.UTC().Format(time.RFC3339),
		},
	}, nil
}

func (h Handler) GetClaimDelayHandler(ctx context.Context) (httptransport.ClaimDelayResponse, error) {
	delay, err := h.Service.GetClaimDelay(ctx)
	if err != nil {
		return httptransport.ClaimDelayResponse{}, err
	}
	resp := httptransport.ClaimDelayResponse{Status: "success"}
	resp.Data.DelayUS = delay
	return resp, nil
}

func (h Handler) GetAssetViewHandler(ctx context.Context, assetID string) (httptransport.AssetViewResponse, error) {
	asset, err := valueobjects.ParseAssetID(assetID)
	if err != nil {
		return httptransport.AssetViewResponse{}, err
	}
	amount, err := h.Service.GetClaimAmount(ctx, asset)
	if err != nil {
		return httptransport.AssetViewResponse{}, err
	}
	maxClaims, err := h.Service.GetMaxClaims(ctx, asset)
	if err != nil {
		return httptransport.AssetViewResponse{}, err
	}
	balance, err := h.Service.GetTreasuryBalance(ctx, asset)
	if err != nil {
		return httptransport.AssetViewResponse{}, err
	}
	return httptransport.AssetViewResponse{
		Status: "success",
		Data: httptransport.AssetViewDTO{
			AssetID:         asset.String(),
			ClaimAmount:     amount,
			MaxClaims:       maxClaims,
			TreasuryBalance: balance,
		},
	}, nil
}

func (h Handler) GetUserClaimCountHandler(ctx context.Context, wallet string, assetID string) (httptransport.ClaimCountResponse, error) {
	asset, err := valueobjects.ParseAssetID(assetID)
	if err != nil {
		return httptransport.ClaimCountResponse{}, err
	}
	consumed, err := h.Service.GetUserClaimCount(ctx, wallet, asset)
	if err != nil {
		return httptransport.ClaimCountResponse{}, err
	}
	resp := httptransport.ClaimCountResponse{Status: "success"}
	resp.Data.Wallet = wallet
	resp.Data.AssetID = asset.String()
	resp.Data.ClaimsConsumed = consumed
	return resp, nil
}

func (h Handler) GetTreasuryBalanceHandler(ctx context.Context, assetID string) (httptransport.TreasuryBalanceResponse, error) {
	asset, err := valueobjects.ParseAssetID(assetID)
	if err != nil {
		return httptransport.TreasuryBalanceResponse{}, err
	}
	balance, err := h.Service.GetTreasuryBalance(ctx, asset)
	if err != nil {
		return httptransport.TreasuryBalanceResponse{}, err
	}
	resp := httptransport.TreasuryBalanceResponse{Status: "success"}
	resp.Data.AssetID = asset.String()
	resp.Data.Balance = balance
	return resp, nil
}

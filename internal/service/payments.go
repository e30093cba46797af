package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/carebridge/server/internal/domain"
	"github.com/carebridge/server/internal/metrics"
	"github.com/carebridge/server/internal/providers/card"
	"github.com/carebridge/server/internal/providers/wallet"
)

// CardDonationInput is a card payment attempt tied to a campaign.
type CardDonationInput struct {
	CampaignID   string
	UserID       string
	Amount       decimal.Decimal
	Currency     string
	MethodToken  string
	Anonymous    bool
	Message      string
	DonorCountry string
}

// WalletDonationInput is a blockchain wallet payment attempt.
type WalletDonationInput struct {
	CampaignID   string
	UserID       string
	Amount       decimal.Decimal
	WalletHandle string
	Recipient    string
	Anonymous    bool
	Message      string
	DonorCountry string
}

// PaymentFlow drives a donation through one of the payment bridges and, on
// a confirmed payment, hands it to the recorder. A bridge failure leaves no
// donation behind; retries belong to the bridges, not here.
type PaymentFlow struct {
	cards    card.PaymentAuthority
	wallets  wallet.TransferAuthority
	recorder *DonationRecorder
	logger   zerolog.Logger
}

// NewPaymentFlow constructs the flow.
func NewPaymentFlow(cards card.PaymentAuthority, wallets wallet.TransferAuthority, recorder *DonationRecorder, logger zerolog.Logger) *PaymentFlow {
	return &PaymentFlow{cards: cards, wallets: wallets, recorder: recorder, logger: logger}
}

// DonateByCard creates and confirms a payment intent, then records the
// completed donation.
func (f *PaymentFlow) DonateByCard(ctx context.Context, in CardDonationInput) (*domain.Donation, error) {
	if f.cards == nil {
		return nil, fmt.Errorf("%w: card processor not configured", domain.ErrBridgeFailure)
	}

	intent, err := f.cards.CreateIntent(ctx, in.Amount, in.Currency, map[string]string{
		"campaign_id": in.CampaignID,
	})
	if err != nil {
		metrics.BridgeCalls.WithLabelValues("card", "error").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrBridgeFailure, err)
	}

	confirmed, err := f.cards.ConfirmIntent(ctx, intent.ID, in.MethodToken)
	if err != nil {
		metrics.BridgeCalls.WithLabelValues("card", "error").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrBridgeFailure, err)
	}
	if confirmed.Status != card.StatusSucceeded {
		metrics.BridgeCalls.WithLabelValues("card", "declined").Inc()
		f.logger.Warn().Str("intent_id", confirmed.ID).Str("status", confirmed.Status).Msg("card payment not captured")
		return nil, domain.ErrPaymentDeclined
	}
	metrics.BridgeCalls.WithLabelValues("card", "succeeded").Inc()

	return f.recorder.Record(ctx, RecordInput{
		CampaignID:    in.CampaignID,
		UserID:        in.UserID,
		Amount:        in.Amount,
		Status:        domain.DonationStatusCompleted,
		Anonymous:     in.Anonymous,
		Message:       in.Message,
		TransactionID: confirmed.ID,
		PaymentMethod: domain.PaymentMethodCard,
		DonorCountry:  in.DonorCountry,
	})
}

// DonateByWallet submits an on-chain transfer and records the completed
// donation once the gateway returns a transaction hash.
func (f *PaymentFlow) DonateByWallet(ctx context.Context, in WalletDonationInput) (*domain.Donation, error) {
	if f.wallets == nil {
		return nil, fmt.Errorf("%w: wallet gateway not configured", domain.ErrBridgeFailure)
	}

	txHash, err := f.wallets.SubmitTransfer(ctx, in.WalletHandle, in.Recipient, in.Amount)
	if err != nil {
		metrics.BridgeCalls.WithLabelValues("wallet", "error").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrBridgeFailure, err)
	}
	metrics.BridgeCalls.WithLabelValues("wallet", "succeeded").Inc()

	return f.recorder.Record(ctx, RecordInput{
		CampaignID:    in.CampaignID,
		UserID:        in.UserID,
		Amount:        in.Amount,
		Status:        domain.DonationStatusCompleted,
		Anonymous:     in.Anonymous,
		Message:       in.Message,
		TransactionID: txHash,
		PaymentMethod: domain.PaymentMethodCardano,
		DonorCountry:  in.DonorCountry,
	})
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/carebridge/server/internal/domain"
)

func newTestRecorder(store *fakeStore) *DonationRecorder {
	identity := NewIdentityResolver(&fakeUserRepo{s: store}, zerolog.Nop())
	return NewDonationRecorder(&fakeDonationRepo{s: store}, identity, zerolog.Nop())
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRecordCompletedDonationMovesAggregates(t *testing.T) {
	store := newFakeStore()
	store.addCampaign("camp-1", "100.00", 2)
	store.addUser("user-3")
	recorder := newTestRecorder(store)

	donation, err := recorder.Record(context.Background(), RecordInput{
		CampaignID: "camp-1",
		UserID:     "user-3",
		Amount:     amount("50.00"),
		Status:     domain.DonationStatusCompleted,
	})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if donation.Status != domain.DonationStatusCompleted {
		t.Fatalf("status = %q, want completed", donation.Status)
	}
	if !donation.Amount.Equal(amount("50.00")) {
		t.Fatalf("amount = %s, want 50.00", donation.Amount)
	}

	raised, donors := store.campaignState("camp-1")
	if raised != "150.00" {
		t.Fatalf("raised = %s, want 150.00", raised)
	}
	if donors != 3 {
		t.Fatalf("donor count = %d, want 3", donors)
	}
}

func TestRecordRepeatDonorDoesNotIncrementCount(t *testing.T) {
	store := newFakeStore()
	store.addCampaign("camp-1", "100.00", 2)
	store.addUser("user-3")
	recorder := newTestRecorder(store)

	for _, amt := range []string{"50.00", "25.00"} {
		if _, err := recorder.Record(context.Background(), RecordInput{
			CampaignID: "camp-1",
			UserID:     "user-3",
			Amount:     amount(amt),
		}); err != nil {
			t.Fatalf("Record(%s) returned error: %v", amt, err)
		}
	}

	raised, donors := store.campaignState("camp-1")
	if raised != "175.00" {
		t.Fatalf("raised = %s, want 175.00", raised)
	}
	if donors != 3 {
		t.Fatalf("donor count = %d, want 3 (unchanged on repeat donation)", donors)
	}
}

func TestRecordPendingDonationLeavesAggregatesAlone(t *testing.T) {
	store := newFakeStore()
	store.addCampaign("camp-1", "100.00", 2)
	store.addUser("user-3")
	recorder := newTestRecorder(store)

	if _, err := recorder.Record(context.Background(), RecordInput{
		CampaignID: "camp-1",
		UserID:     "user-3",
		Amount:     amount("50.00"),
		Status:     domain.DonationStatusPending,
	}); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	raised, donors := store.campaignState("camp-1")
	if raised != "100.00" || donors != 2 {
		t.Fatalf("aggregates moved for pending donation: raised=%s donors=%d", raised, donors)
	}
	if store.donationCount() != 1 {
		t.Fatalf("expected the pending donation row to exist")
	}
}

func TestRecordStatusDefaultsToCompleted(t *testing.T) {
	store := newFakeStore()
	store.addCampaign("camp-1", "0.00", 0)
	recorder := newTestRecorder(store)

	donation, err := recorder.Record(context.Background(), RecordInput{
		CampaignID: "camp-1",
		Amount:     amount("10.00"),
	})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if donation.Status != domain.DonationStatusCompleted {
		t.Fatalf("default status = %q, want completed", donation.Status)
	}
	if donation.UserID != domain.AnonymousUserID {
		t.Fatalf("empty user id resolved to %q, want anonymous", donation.UserID)
	}
}

func TestRecordValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   RecordInput
		wantErr error
	}{
		{
			name:    "missing campaign id",
			input:   RecordInput{Amount: amount("10.00")},
			wantErr: domain.ErrMissingField,
		},
		{
			name:    "missing amount",
			input:   RecordInput{CampaignID: "camp-1"},
			wantErr: domain.ErrMissingField,
		},
		{
			name:    "negative amount",
			input:   RecordInput{CampaignID: "camp-1", Amount: amount("-5.00")},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "unknown status",
			input:   RecordInput{CampaignID: "camp-1", Amount: amount("5.00"), Status: "charged"},
			wantErr: domain.ErrMissingField,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			store.addCampaign("camp-1", "100.00", 2)
			recorder := newTestRecorder(store)

			_, err := recorder.Record(context.Background(), tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Record error = %v, want %v", err, tc.wantErr)
			}
			if store.donationCount() != 0 {
				t.Fatalf("store mutated on validation failure")
			}
			raised, donors := store.campaignState("camp-1")
			if raised != "100.00" || donors != 2 {
				t.Fatalf("aggregates mutated on validation failure: raised=%s donors=%d", raised, donors)
			}
		})
	}
}

func TestRecordUnknownCampaign(t *testing.T) {
	store := newFakeStore()
	recorder := newTestRecorder(store)

	_, err := recorder.Record(context.Background(), RecordInput{
		CampaignID: "camp-missing",
		Amount:     amount("10.00"),
	})
	if !errors.Is(err, domain.ErrCampaignNotFound) {
		t.Fatalf("Record error = %v, want ErrCampaignNotFound", err)
	}
	if store.donationCount() != 0 {
		t.Fatalf("donation persisted against unknown campaign")
	}
}

func TestRecordKeepsDecimalExactness(t *testing.T) {
	store := newFakeStore()
	store.addCampaign("camp-1", "0.00", 0)
	recorder := newTestRecorder(store)

	// Ten donations of 0.10 must sum to exactly 1.00; binary floating
	// point would drift here.
	for i := 0; i < 10; i++ {
		if _, err := recorder.Record(context.Background(), RecordInput{
			CampaignID: "camp-1",
			UserID:     fmt.Sprintf("user-%d", i),
			Amount:     amount("0.10"),
		}); err != nil {
			t.Fatalf("Record #%d returned error: %v", i, err)
		}
	}

	raised, _ := store.campaignState("camp-1")
	if raised != "1.00" {
		t.Fatalf("raised = %s, want exactly 1.00", raised)
	}
}

func TestRecordConcurrentDonationsDoNotLoseUpdates(t *testing.T) {
	store := newFakeStore()
	store.addCampaign("camp-1", "0.00", 0)
	store.addUser("user-a")
	store.addUser("user-b")
	recorder := newTestRecorder(store)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, userID := range []string{"user-a", "user-b"} {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			_, errs[i] = recorder.Record(context.Background(), RecordInput{
				CampaignID: "camp-1",
				UserID:     userID,
				Amount:     amount("10.00"),
			})
		}(i, userID)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent Record #%d returned error: %v", i, err)
		}
	}

	raised, donors := store.campaignState("camp-1")
	if raised != "20.00" {
		t.Fatalf("raised = %s, want 20.00 (lost update)", raised)
	}
	if donors != 2 {
		t.Fatalf("donor count = %d, want 2", donors)
	}
}

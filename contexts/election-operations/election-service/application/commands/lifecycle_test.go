package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"voteguard/contexts/election-operations/election-service/adapters/memory"
	"voteguard/contexts/election-operations/election-service/application/commands"
	"voteguard/contexts/election-operations/election-service/domain/entities"
	domainerrors "voteguard/contexts/election-operations/election-service/domain/errors"
)

func newLifecycleFixture(t *testing.T) (*memory.Store, commands.LifecycleUseCase) {
	t.Helper()
	store := memory.NewStore(nil)
	uc := commands.LifecycleUseCase{
		Elections:  store,
		Candidates: store,
		Clock:      store,
		IDGen:      store,
		Codes:      store,
		OTPTTL:     2 * time.Minute,
	}
	return store, uc
}

func seedOpenElection(store *memory.Store, now time.Time) entities.Election {
	election := entities.Election{
		ElectionID:   "election-1",
		Name:         "General Election",
		ElectionCode: "ABC123",
		StartAt:      now.Add(-time.Hour),
		EndAt:        now.Add(24 * time.Hour),
		Status:       entities.StatusActive,
		Active:       true,
		CreatedAt:    now.Add(-48 * time.Hour),
		UpdatedAt:    now.Add(-48 * time.Hour),
	}
	store.SetElection(election)
	return election
}

func TestActivateCenterRedeemsOTPOnce(t *testing.T) {
	store, uc := newLifecycleFixture(t)
	base := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	store.SetNow(base)
	seedOpenElection(store, base)
	store.SetNextOTP("482913")

	issued, err := uc.GenerateCenterOTP(context.Background(), "election-1")
	if err != nil {
		t.Fatalf("generate otp failed: %v", err)
	}
	if issued.OTP != "482913" {
		t.Fatalf("unexpected otp %q", issued.OTP)
	}
	if want := base.Add(2 * time.Minute); !issued.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, issued.ExpiresAt)
	}

	store.SetNow(base.Add(10 * time.Second))
	result, err := uc.ActivateCenter(context.Background(), commands.ActivateCenterCommand{
		ElectionCode:   "ABC123",
		OTP:            "482913",
		CenterLocation: "Hall A",
	})
	if err != nil {
		t.Fatalf("activate center failed: %v", err)
	}
	if result.CenterLocation != "Hall A" {
		t.Fatalf("expected center location Hall A, got %q", result.CenterLocation)
	}

	election, err := store.GetElection(context.Background(), "election-1")
	if err != nil {
		t.Fatalf("get election failed: %v", err)
	}
	if election.ActiveCenterLocation != "Hall A" {
		t.Fatalf("expected bound center, got %q", election.ActiveCenterLocation)
	}
	if election.CenterOTP != "" || election.OTPExpiresAt != nil {
		t.Fatalf("expected otp cleared after redemption")
	}

	// A repeat with the same still-in-window OTP must fail: redemption is
	// single use.
	store.SetNow(base.Add(15 * time.Second))
	_, err = uc.ActivateCenter(context.Background(), commands.ActivateCenterCommand{
		ElectionCode:   "ABC123",
		OTP:            "482913",
		CenterLocation: "Hall B",
	})
	if !errors.Is(err, domainerrors.ErrOTPMismatch) {
		t.Fatalf("expected ErrOTPMismatch on reuse, got %v", err)
	}
}

func TestActivateCenterRejectsExpiredOTP(t *testing.T) {
	store, uc := newLifecycleFixture(t)
	base := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	store.SetNow(base)
	seedOpenElection(store, base)
	store.SetNextOTP("482913")

	if _, err := uc.GenerateCenterOTP(context.Background(), "election-1"); err != nil {
		t.Fatalf("generate otp failed: %v", err)
	}

	store.SetNow(base.Add(2*time.Minute + time.Second))
	_, err := uc.ActivateCenter(context.Background(), commands.ActivateCenterCommand{
		ElectionCode:   "ABC123",
		OTP:            "482913",
		CenterLocation: "Hall A",
	})
	if !errors.Is(err, domainerrors.ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired, got %v", err)
	}
}

func TestActivateCenterConcurrentRedemptionsHaveOneWinner(t *testing.T) {
	store, uc := newLifecycleFixture(t)
	base := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	store.SetNow(base)
	seedOpenElection(store, base)
	store.SetNextOTP("654321")

	if _, err := uc.GenerateCenterOTP(context.Background(), "election-1"); err != nil {
		t.Fatalf("generate otp failed: %v", err)
	}

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.ActivateCenter(context.Background(), commands.ActivateCenterCommand{
				ElectionCode:   "ABC123",
				OTP:            "654321",
				CenterLocation: "Hall A",
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, domainerrors.ErrOTPMismatch):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winning redemption, got %d", winners)
	}
}

func TestActivateCenterValidatesCode(t *testing.T) {
	store, uc := newLifecycleFixture(t)
	base := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	store.SetNow(base)
	seedOpenElection(store, base)

	_, err := uc.ActivateCenter(context.Background(), commands.ActivateCenterCommand{
		ElectionCode:   "AB12",
		OTP:            "482913",
		CenterLocation: "Hall A",
	})
	if !errors.Is(err, domainerrors.ErrInvalidElectionCode) {
		t.Fatalf("expected ErrInvalidElectionCode for short code, got %v", err)
	}

	_, err = uc.ActivateCenter(context.Background(), commands.ActivateCenterCommand{
		ElectionCode:   "ZZZZZZ",
		OTP:            "482913",
		CenterLocation: "Hall A",
	})
	if !errors.Is(err, domainerrors.ErrInvalidElectionCode) {
		t.Fatalf("expected ErrInvalidElectionCode for unknown code, got %v", err)
	}
}

func TestGenerateOTPOverwritesPrior(t *testing.T) {
	store, uc := newLifecycleFixture(t)
	base := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	store.SetNow(base)
	seedOpenElection(store, base)

	store.SetNextOTP("111111")
	if _, err := uc.GenerateCenterOTP(context.Background(), "election-1"); err != nil {
		t.Fatalf("first otp failed: %v", err)
	}
	store.SetNextOTP("222222")
	if _, err := uc.GenerateCenterOTP(context.Background(), "election-1"); err != nil {
		t.Fatalf("second otp failed: %v", err)
	}

	_, err := uc.ActivateCenter(context.Background(), commands.ActivateCenterCommand{
		ElectionCode:   "ABC123",
		OTP:            "111111",
		CenterLocation: "Hall A",
	})
	if !errors.Is(err, domainerrors.ErrOTPMismatch) {
		t.Fatalf("expected stale otp to be rejected, got %v", err)
	}
	if _, err := uc.ActivateCenter(context.Background(), commands.ActivateCenterCommand{
		ElectionCode:   "ABC123",
		OTP:            "222222",
		CenterLocation: "Hall A",
	}); err != nil {
		t.Fatalf("fresh otp should redeem, got %v", err)
	}
}

func TestGenerateOTPRefusedForCompletedElection(t *testing.T) {
	store, uc := newLifecycleFixture(t)
	base := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	store.SetNow(base)
	election := seedOpenElection(store, base)
	election.EndAt = base.Add(-time.Minute)
	store.SetElection(election)

	_, err := uc.GenerateCenterOTP(context.Background(), "election-1")
	if !errors.Is(err, domainerrors.ErrElectionNotOpen) {
		t.Fatalf("expected ErrElectionNotOpen, got %v", err)
	}
}

func TestUpdateStatusIsForwardOnly(t *testing.T) {
	store, uc := newLifecycleFixture(t)
	base := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	store.SetNow(base)
	seedOpenElection(store, base)

	if _, err := uc.UpdateStatus(context.Background(), "election-1", entities.StatusCompleted); err != nil {
		t.Fatalf("active -> completed should be allowed: %v", err)
	}
	_, err := uc.UpdateStatus(context.Background(), "election-1", entities.StatusActive)
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCreateElectionRetriesOnCodeCollision(t *testing.T) {
	store, uc := newLifecycleFixture(t)
	base := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	store.SetNow(base)
	seedOpenElection(store, base)
	store.SetNextElectionCodes("ABC123", "XYZ789")

	election, err := uc.CreateElection(context.Background(), commands.CreateElectionCommand{
		Name:    "Runoff",
		StartAt: base.Add(time.Hour),
		EndAt:   base.Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create election failed: %v", err)
	}
	if election.ElectionCode != "XYZ789" {
		t.Fatalf("expected collision retry to pick next code, got %q", election.ElectionCode)
	}
}

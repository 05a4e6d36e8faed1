package core

import "testing"

var apples = addr(0xA1)
var bananas = addr(0xB2)

func TestCreatePoolSeedsReservesAndLiquidity(t *testing.T) {
	s := NewStore()
	alice := addr(1)
	s.Mint(alice, 1, apples)
	s.Mint(alice, 1, USD)

	if err := s.CreatePool(alice, 1, apples, BaseFactor); err != nil {
		t.Fatalf("create pool: %v", err)
	}

	if got := s.AMMBalanceOf(alice, apples); got != 1 {
		t.Errorf("amm balance = %d, want 1", got)
	}
	providers := s.LiquidityProviders(apples)
	if len(providers) != 1 || providers[0] != alice {
		t.Errorf("liquidity providers = %v, want [alice]", providers)
	}
	if got := s.BalanceOf(alice, apples); got != 0 {
		t.Errorf("alice apples balance = %d, want 0", got)
	}
	if got := s.BalanceOf(alice, USD); got != 0 {
		t.Errorf("alice usd balance = %d, want 0", got)
	}
}

func TestCreatePoolRejectsDuplicate(t *testing.T) {
	s := NewStore()
	alice := addr(1)
	s.Mint(alice, 2, apples)
	s.Mint(alice, 2, USD)

	if err := s.CreatePool(alice, 1, apples, BaseFactor); err != nil {
		t.Fatalf("create pool: %v", err)
	}
	err := s.CreatePool(alice, 1, apples, BaseFactor)
	if _, ok := err.(*PoolAlreadyExistsError); !ok {
		t.Fatalf("expected PoolAlreadyExistsError, got %v", err)
	}
}

func TestAddLiquidity(t *testing.T) {
	s := NewStore()
	alice := addr(1)
	s.Mint(alice, 2, apples)
	s.Mint(alice, 2, USD)

	if err := s.CreatePool(alice, 1, apples, BaseFactor); err != nil {
		t.Fatalf("create pool: %v", err)
	}
	if err := s.AddLiquidity(alice, 1, apples); err != nil {
		t.Fatalf("add liquidity: %v", err)
	}
	if got := s.AMMBalanceOf(alice, apples); got != 2 {
		t.Errorf("amm balance = %d, want 2", got)
	}
}

func TestSwapScenario(t *testing.T) {
	s := NewStore()
	alice, bob := addr(1), addr(2)

	seed := uint64(100 * BaseFactor)
	s.Mint(alice, seed, apples)
	s.Mint(alice, seed, USD)
	if err := s.CreatePool(alice, seed, apples, BaseFactor); err != nil {
		t.Fatalf("create apples pool: %v", err)
	}

	s.Mint(alice, seed, bananas)
	s.Mint(alice, seed, USD)
	if err := s.CreatePool(alice, seed, bananas, BaseFactor); err != nil {
		t.Fatalf("create bananas pool: %v", err)
	}

	s.Mint(bob, seed, bananas)
	if err := s.Sell(bob, seed, bananas, 0); err != nil {
		t.Fatalf("sell: %v", err)
	}
	usdOut := s.BalanceOf(bob, USD)
	if usdOut != 49_924_888 {
		t.Fatalf("usd out = %d, want 49924888", usdOut)
	}

	if err := s.Buy(bob, usdOut, apples, 0); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if got := s.BalanceOf(bob, apples); got != 33_233_234 {
		t.Errorf("bob apples balance = %d, want 33233234", got)
	}
}

func TestOneUnitSwapRejected(t *testing.T) {
	s := NewStore()
	alice, bob := addr(1), addr(2)
	seed := uint64(100 * BaseFactor)
	s.Mint(alice, seed, apples)
	s.Mint(alice, seed, USD)
	if err := s.CreatePool(alice, seed, apples, BaseFactor); err != nil {
		t.Fatalf("create pool: %v", err)
	}

	s.Mint(bob, 1, USD)
	err := s.Dispatch(func() error { return s.Buy(bob, 1, apples, 0) })
	if err != ErrFeeExceedsAmount {
		t.Fatalf("expected ErrFeeExceedsAmount, got %v", err)
	}
	if got := s.BalanceOf(bob, apples); got != 0 {
		t.Errorf("bob apples balance = %d, want 0", got)
	}
	if got := s.BalanceOf(bob, USD); got != 1 {
		t.Errorf("bob usd balance = %d, want 1 (revert must restore it)", got)
	}
}

func TestSlippageExceeded(t *testing.T) {
	s := NewStore()
	alice, bob := addr(1), addr(2)
	seed := uint64(100 * BaseFactor)
	s.Mint(alice, seed, apples)
	s.Mint(alice, seed, USD)
	if err := s.CreatePool(alice, seed, apples, BaseFactor); err != nil {
		t.Fatalf("create pool: %v", err)
	}

	s.Mint(bob, seed, apples)
	// Atomicity is the dispatcher's contract (Store.Dispatch), not any one
	// subsystem method's; wrap the call the way Run does to exercise revert.
	err := s.Dispatch(func() error { return s.Sell(bob, seed, apples, seed) })
	if err == nil {
		t.Fatal("expected slippage failure")
	} else if _, ok := err.(*SlippageExceededError); !ok {
		t.Fatalf("expected *SlippageExceededError, got %v", err)
	}
	// the failed sell must leave the pool exactly as it was
	if got := s.poolSupplyOfToken(apples); got != seed {
		t.Errorf("pool token reserve = %d, want %d (revert must restore it)", got, seed)
	}
	if got := s.BalanceOf(bob, apples); got != seed {
		t.Errorf("bob apples balance = %d, want %d (revert must restore it)", got, seed)
	}
}

func TestRemoveLiquidityFullRoundTrip(t *testing.T) {
	s := NewStore()
	alice := addr(1)
	s.Mint(alice, 3*BaseFactor, apples)
	s.Mint(alice, 3*BaseFactor, USD)

	if err := s.CreatePool(alice, BaseFactor, apples, BaseFactor); err != nil {
		t.Fatalf("create pool: %v", err)
	}
	if err := s.AddLiquidity(alice, BaseFactor, apples); err != nil {
		t.Fatalf("add liquidity: %v", err)
	}
	if err := s.RemoveLiquidity(alice, BaseFactor, apples); err != nil {
		t.Fatalf("remove liquidity: %v", err)
	}

	if got := s.BalanceOf(alice, apples); got != 3*BaseFactor {
		t.Errorf("alice apples = %d, want %d", got, 3*BaseFactor)
	}
	if got := s.BalanceOf(alice, USD); got != 3*BaseFactor {
		t.Errorf("alice usd = %d, want %d", got, 3*BaseFactor)
	}
}

package core

import "testing"

func TestDepositThenWithdrawal(t *testing.T) {
	s := NewStore()
	alice := addr(1)

	err := s.ProcessPolygonMessages([]PolygonMessage{
		Deposit{Amount: 1 * BaseFactor, Token: apples, Address: alice},
	}, 1)
	if err != nil {
		t.Fatalf("process polygon messages: %v", err)
	}
	if got := s.BalanceOf(alice, apples); got != 1*BaseFactor {
		t.Fatalf("alice apples balance = %d, want %d", got, 1*BaseFactor)
	}

	if err := s.CreateWithdrawalRequest(alice, 1*BaseFactor, apples); err != nil {
		t.Fatalf("create withdrawal request: %v", err)
	}
	if got := s.BalanceOf(alice, apples); got != 0 {
		t.Fatalf("alice apples balance after escrow = %d, want 0", got)
	}

	var zeroHash Hash
	err = s.ProcessPolygonMessages([]PolygonMessage{
		ProcessWithdrawalMessage{WithdrawalID: 0, TxHash: zeroHash},
	}, 1)
	if err != nil {
		t.Fatalf("process polygon messages: %v", err)
	}

	if got := s.BalanceOf(alice, apples); got != 0 {
		t.Fatalf("alice apples balance = %d, want 0", got)
	}
	completed, ok := s.CompletedWithdrawalByID(0)
	if !ok {
		t.Fatal("expected completed withdrawal 0")
	}
	if completed.Amount != 1*BaseFactor {
		t.Errorf("completed amount = %d, want %d", completed.Amount, 1*BaseFactor)
	}
}

func TestProcessWithdrawalUnknownID(t *testing.T) {
	s := NewStore()
	var zeroHash Hash
	err := s.ProcessPolygonMessages([]PolygonMessage{
		ProcessWithdrawalMessage{WithdrawalID: 7, TxHash: zeroHash},
	}, 1)
	unknown, ok := err.(*UnknownWithdrawalError)
	if !ok {
		t.Fatalf("expected *UnknownWithdrawalError, got %v", err)
	}
	if unknown.ID != 7 {
		t.Errorf("id = %d, want 7", unknown.ID)
	}
}

func TestWithdrawalIDsAreDenseAndUnique(t *testing.T) {
	s := NewStore()
	alice := addr(1)
	s.Mint(alice, 10, apples)

	seen := map[uint64]bool{}
	for i := 0; i < 5; i++ {
		if err := s.CreateWithdrawalRequest(alice, 1, apples); err != nil {
			t.Fatalf("create withdrawal request %d: %v", i, err)
		}
	}
	for _, w := range s.PendingWithdrawals() {
		if seen[w.ID] {
			t.Fatalf("duplicate withdrawal id %d", w.ID)
		}
		seen[w.ID] = true
	}
	for i := uint64(0); i < 5; i++ {
		if !seen[i] {
			t.Fatalf("missing withdrawal id %d", i)
		}
	}
	if got := s.WithdrawalIDCounter(); got != 5 {
		t.Errorf("withdrawal id counter = %d, want 5", got)
	}
}

func TestBridgeCursorsTolerateSkipAndNeverRegress(t *testing.T) {
	s := NewStore()
	if err := s.ProcessPolygonMessages(nil, 10); err != nil {
		t.Fatalf("process polygon messages: %v", err)
	}
	if err := s.ProcessPolygonMessages(nil, 200); err != nil {
		t.Fatalf("process polygon messages: %v", err)
	}
	if got := s.PolygonBlockNumber(); got != 200 {
		t.Fatalf("polygon block = %d, want 200", got)
	}
	// a stale/out-of-order batch must not move the cursor backward
	if err := s.ProcessPolygonMessages(nil, 50); err != nil {
		t.Fatalf("process polygon messages: %v", err)
	}
	if got := s.PolygonBlockNumber(); got != 200 {
		t.Fatalf("polygon block regressed to %d, want 200", got)
	}
}

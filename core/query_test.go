package core

import "testing"

func TestQueryListedPoolsEnumeratesCreatedPools(t *testing.T) {
	s := NewStore()
	alice := addr(1)

	s.Mint(alice, 2, apples)
	s.Mint(alice, 2, USD)
	s.Mint(alice, 2, bananas)
	s.Mint(alice, 2, USD)

	if got := s.QueryListedPools(); len(got) != 0 {
		t.Fatalf("listed pools before create = %v, want none", got)
	}

	if err := s.CreatePool(alice, 1, apples, BaseFactor); err != nil {
		t.Fatalf("create apples pool: %v", err)
	}
	if err := s.CreatePool(alice, 1, bananas, BaseFactor); err != nil {
		t.Fatalf("create bananas pool: %v", err)
	}

	got := s.QueryListedPools()
	if len(got) != 2 {
		t.Fatalf("listed pools = %v, want 2 entries", got)
	}
	seen := map[TokenID]bool{got[0]: true, got[1]: true}
	if !seen[apples] || !seen[bananas] {
		t.Errorf("listed pools = %v, want {apples, bananas}", got)
	}
}

func TestQueryListedPoolsViaDispatch(t *testing.T) {
	// CreatePool is usually nested inside Store.Run's Dispatch closure;
	// confirm the pool is visible to a standalone Iterator-based query
	// once Dispatch commits.
	s := NewStore()
	alice := addr(1)
	s.Mint(alice, 1, apples)
	s.Mint(alice, 1, USD)

	err := s.Dispatch(func() error {
		return s.CreatePool(alice, 1, apples, BaseFactor)
	})
	if err != nil {
		t.Fatalf("dispatch create pool: %v", err)
	}
	got := s.QueryListedPools()
	if len(got) != 1 || got[0] != apples {
		t.Fatalf("listed pools = %v, want [apples]", got)
	}
}

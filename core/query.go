package core

// query.go is the read-only accessor layer (§4.6: "Read-only accessors for
// a separate query layer onto every public field in §3"), kept apart from
// the mutating operations in token.go/amm.go/bridge.go/system.go so a
// future RPC/explorer surface can depend on this file alone without
// pulling in dispatch logic.

import "encoding/hex"

// TokenView snapshots one token's total supply. Per-address balances and
// the USD exchange rate are read through BalanceOf and USDExchangeRate.
type TokenView struct {
	Token       TokenID
	TotalSupply uint64
}

// AMMPoolView snapshots a single pool's reserves and liquidity accounting.
type AMMPoolView struct {
	Token              TokenID
	PoolSupplyOfToken  uint64
	PoolSupplyOfUSD    uint64
	TotalSupply        uint64
	LiquidityProviders []Address
}

// BridgeView snapshots the bridge's cursors and withdrawal counter.
type BridgeView struct {
	WithdrawalIDCounter uint64
	EthereumBlockNumber uint64
	PolygonBlockNumber  uint64
	PendingWithdrawals  []PendingWithdrawal
}

// QueryTokenTotalSupply exposes Token.total_supply.
func (s *Store) QueryTokenTotalSupply(token TokenID) TokenView {
	return TokenView{Token: token, TotalSupply: s.TotalSupply(token)}
}

// QueryAMMPool exposes one token's pool reserves, liquidity-token supply and
// liquidity providers. Per-address liquidity balances are read through
// AMMBalanceOf.
func (s *Store) QueryAMMPool(token TokenID) AMMPoolView {
	return AMMPoolView{
		Token:              token,
		PoolSupplyOfToken:  s.poolSupplyOfToken(token),
		PoolSupplyOfUSD:    s.poolSupplyOfUSD(token),
		TotalSupply:        s.AMMTotalSupply(token),
		LiquidityProviders: s.LiquidityProviders(token),
	}
}

// QueryBridge exposes the bridge's withdrawal counter, cursors and pending
// withdrawals. Completed withdrawals are read through
// CompletedWithdrawalByID.
func (s *Store) QueryBridge() BridgeView {
	return BridgeView{
		WithdrawalIDCounter: s.WithdrawalIDCounter(),
		EthereumBlockNumber: s.EthereumBlockNumber(),
		PolygonBlockNumber:  s.PolygonBlockNumber(),
		PendingWithdrawals:  s.PendingWithdrawals(),
	}
}

// QuerySystemNonce exposes System.transaction_number for one sender.
func (s *Store) QuerySystemNonce(sender Address) uint64 { return s.TransactionNumber(sender) }

// QuerySystemTransactionIDCounter exposes System.transaction_id_counter.
func (s *Store) QuerySystemTransactionIDCounter() uint64 { return s.TransactionIDCounter() }

// QueryListedPools enumerates every token with a pool ever created, by
// scanning the pool-token key range. This is the one read in the module
// wide enough to need Store.Iterator rather than a single Get.
func (s *Store) QueryListedPools() []TokenID {
	prefix := s.poolTokenPrefix()
	it := s.Iterator(prefix)
	var tokens []TokenID
	for it.Next() {
		if token, ok := tokenFromPoolTokenKey(it.Key(), len(prefix)); ok {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// tokenFromPoolTokenKey recovers the token address suffix appended after
// prefixLen bytes of an "A:pool-token:<hex>" key. Unlike tokens_meta.go's
// mustAddr (for compile-time literals), this never panics: a malformed
// suffix just drops that entry instead of crashing the query layer.
func tokenFromPoolTokenKey(key []byte, prefixLen int) (TokenID, bool) {
	if len(key) < prefixLen {
		return TokenID{}, false
	}
	raw, err := hex.DecodeString(string(key[prefixLen:]))
	if err != nil || len(raw) != len(TokenID{}) {
		return TokenID{}, false
	}
	var addr Address
	copy(addr[:], raw)
	return addr, true
}

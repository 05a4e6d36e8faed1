package core

// amm.go is the constant-product automated market-maker (§4.3), adapted
// from the teacher's core/liquidity_pools.go pool-lifecycle shape
// (CreatePool/AddLiquidity/Swap/RemoveLiquidity guarded by a Snapshot-style
// atomic section) but re-derived to match the two-reserve (token, USD)
// single-numeraire model of the original amm/mod.rs, rather than the
// teacher's generic two-arbitrary-token pool.

import (
	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"
)

func (s *Store) poolSupplyOfTokenKey(token TokenID) []byte { return ammKey("pool-token", token.String()) }
func (s *Store) poolSupplyOfUSDKey(token TokenID) []byte   { return ammKey("pool-usd", token.String()) }
func (s *Store) ammTotalSupplyKey(token TokenID) []byte    { return ammKey("lp-ts", token.String()) }
func (s *Store) ammBalanceKey(addr Address, token TokenID) []byte {
	return ammKey("lp-bal", addrStr(addr), token.String())
}
func (s *Store) liquidityProvidersKey(token TokenID) []byte { return ammKey("lps", token.String()) }

// poolTokenPrefix is the key range every pool-token entry falls under,
// scanned by QueryListedPools to enumerate tokens with a live pool.
func (s *Store) poolTokenPrefix() []byte { return ammKey("pool-token", "") }

func (s *Store) poolSupplyOfToken(token TokenID) uint64 { return s.getUint64(s.poolSupplyOfTokenKey(token)) }
func (s *Store) poolSupplyOfUSD(token TokenID) uint64   { return s.getUint64(s.poolSupplyOfUSDKey(token)) }

// AMMTotalSupply returns the outstanding liquidity-token supply for a pool.
func (s *Store) AMMTotalSupply(token TokenID) uint64 { return s.getUint64(s.ammTotalSupplyKey(token)) }

// AMMBalanceOf returns addr's liquidity-token balance for a pool.
func (s *Store) AMMBalanceOf(addr Address, token TokenID) uint64 {
	return s.getUint64(s.ammBalanceKey(addr, token))
}

// LiquidityProviders returns the insertion-ordered set of addresses
// currently holding a nonzero liquidity-token balance for token.
func (s *Store) LiquidityProviders(token TokenID) []Address {
	var set orderedAddressSet
	s.getJSON(s.liquidityProvidersKey(token), &set)
	return append([]Address(nil), set.Order...)
}

func (s *Store) loadLiquidityProviders(token TokenID) orderedAddressSet {
	var set orderedAddressSet
	s.getJSON(s.liquidityProvidersKey(token), &set)
	return set
}

func (s *Store) saveLiquidityProviders(token TokenID, set orderedAddressSet) {
	s.setJSON(s.liquidityProvidersKey(token), set)
}

func (s *Store) mintLiquidity(provider Address, token TokenID, amount uint64) {
	key := s.ammBalanceKey(provider, token)
	s.setUint64(key, s.getUint64(key)+amount)
	s.setUint64(s.ammTotalSupplyKey(token), s.AMMTotalSupply(token)+amount)
	set := s.loadLiquidityProviders(token)
	set.add(provider)
	s.saveLiquidityProviders(token, set)
}

func (s *Store) burnLiquidity(provider Address, token TokenID, amount uint64) error {
	key := s.ammBalanceKey(provider, token)
	have := s.getUint64(key)
	if have < amount {
		return &InsufficientBalanceError{Who: provider, Token: token, Have: have, Need: amount}
	}
	remaining := have - amount
	s.setUint64(key, remaining)
	s.setUint64(s.ammTotalSupplyKey(token), s.AMMTotalSupply(token)-amount)
	if remaining == 0 {
		set := s.loadLiquidityProviders(token)
		set.remove(provider)
		s.saveLiquidityProviders(token, set)
	}
	return nil
}

// CreatePool seeds a new (token, USD) pool from sender's own token and USD
// balances, pricing the initial USD side off startingPrice (expressed as
// USD per token, scaled by BaseFactor). Fails if a pool for token already
// exists.
func (s *Store) CreatePool(sender Address, amount uint64, token TokenID, startingPrice uint64) error {
	if s.poolSupplyOfToken(token) > 0 {
		return &PoolAlreadyExistsError{Token: token}
	}
	usdAmount := proportionOf(amount, startingPrice, BaseFactor)
	if err := s.debit(sender, token, amount); err != nil {
		return err
	}
	if err := s.debit(sender, USD, usdAmount); err != nil {
		return err
	}
	s.setUint64(s.poolSupplyOfTokenKey(token), amount)
	s.setUint64(s.poolSupplyOfUSDKey(token), usdAmount)
	s.mintLiquidity(sender, token, amount)
	s.Logger.WithFields(logrus.Fields{"token": token.String(), "amount": amount, "usd": usdAmount}).Info("amm pool created")
	return nil
}

// AddLiquidity mints liquidity tokens to sender proportional to the
// reserves they contribute, and charges the matching amounts of token and
// USD.
func (s *Store) AddLiquidity(sender Address, amount uint64, token TokenID) error {
	pt := s.poolSupplyOfToken(token)
	if pt == 0 {
		return &PoolDoesNotExistError{Token: token}
	}
	pu := s.poolSupplyOfUSD(token)
	total := s.AMMTotalSupply(token)

	minted := proportionOf(amount, total, pt)
	usdAmount := proportionOf(amount, pu, pt)

	if err := s.debit(sender, token, amount); err != nil {
		return err
	}
	if err := s.debit(sender, USD, usdAmount); err != nil {
		return err
	}
	s.setUint64(s.poolSupplyOfTokenKey(token), pt+amount)
	s.setUint64(s.poolSupplyOfUSDKey(token), pu+usdAmount)
	s.mintLiquidity(sender, token, minted)
	return nil
}

// RemoveLiquidity burns percentage (out of BaseFactor) of sender's
// liquidity-token balance for token, paying out the proportional share of
// both reserves.
func (s *Store) RemoveLiquidity(sender Address, percentage uint64, token TokenID) error {
	balance := s.AMMBalanceOf(sender, token)
	total := s.AMMTotalSupply(token)
	pt := s.poolSupplyOfToken(token)
	pu := s.poolSupplyOfUSD(token)

	burnAmount := proportionOf(balance, percentage, BaseFactor)
	if err := s.burnLiquidity(sender, token, burnAmount); err != nil {
		return err
	}

	usdOut := proportionOf(burnAmount, pu, total)
	tokenOut := proportionOf(burnAmount, pt, total)

	if usdOut > pu || tokenOut > pt {
		return &InsufficientPoolBalanceError{Token: token}
	}
	s.setUint64(s.poolSupplyOfUSDKey(token), pu-usdOut)
	s.setUint64(s.poolSupplyOfTokenKey(token), pt-tokenOut)
	s.credit(sender, USD, usdOut)
	s.credit(sender, token, tokenOut)
	return nil
}

// calcOut computes the constant-product output for a swap of netInput
// (already fee-deducted) against (inputSupply, outputSupply). The
// intermediate product inputSupply*outputSupply routinely exceeds 64 bits,
// so it stays widened through the division by newInputSupply rather than
// round-tripping through proportionOf, which would truncate it first.
func calcOut(inputSupply, outputSupply, netInput uint64) uint64 {
	newInputSupply := inputSupply + netInput
	k := new(uint256.Int).Mul(uint256.NewInt(inputSupply), uint256.NewInt(outputSupply))
	newOutputSupply := new(uint256.Int).Div(k, uint256.NewInt(newInputSupply))
	if !newOutputSupply.IsUint64() {
		panic("calcOut: result overflows uint64")
	}
	return outputSupply - newOutputSupply.Uint64()
}

// swapFee returns max(floor(amount*FEE/BaseFactor), 1), failing if the fee
// would consume the entire input (the "1-unit attack" guard).
func swapFee(amount uint64) (uint64, error) {
	fee := proportionOf(amount, feeBps, BaseFactor)
	if fee < 1 {
		fee = 1
	}
	if fee >= amount {
		return 0, ErrFeeExceedsAmount
	}
	return fee, nil
}

// Sell swaps amount of token for USD, crediting sender at least minOut USD.
// Per the design notes, the pool's USD reserve is debited BEFORE the
// slippage check so that a slippage failure's revert restores it exactly
// as the original implementation's ordering requires.
func (s *Store) Sell(sender Address, amount uint64, token TokenID, minOut uint64) error {
	if token == USD {
		return ErrTokenIsUSD
	}
	if s.poolSupplyOfToken(token) == 0 {
		return &PoolDoesNotExistError{Token: token}
	}
	if err := s.debit(sender, token, amount); err != nil {
		return err
	}
	fee, err := swapFee(amount)
	if err != nil {
		return err
	}
	pt := s.poolSupplyOfToken(token)
	pu := s.poolSupplyOfUSD(token)
	out := calcOut(pt, pu, amount-fee)

	if out > pu {
		return &InsufficientPoolBalanceError{Token: token}
	}
	s.setUint64(s.poolSupplyOfUSDKey(token), pu-out)
	s.setUint64(s.poolSupplyOfTokenKey(token), pt+amount)

	if out < minOut {
		return &SlippageExceededError{MinOut: minOut, Actual: out}
	}
	s.credit(sender, USD, out)
	return nil
}

// Buy swaps amount of USD for token, crediting sender at least minOut
// token. Symmetric with Sell, USD as the input leg.
func (s *Store) Buy(sender Address, amount uint64, token TokenID, minOut uint64) error {
	if token == USD {
		return ErrTokenIsUSD
	}
	if s.poolSupplyOfToken(token) == 0 {
		return &PoolDoesNotExistError{Token: token}
	}
	if err := s.debit(sender, USD, amount); err != nil {
		return err
	}
	fee, err := swapFee(amount)
	if err != nil {
		return err
	}
	pu := s.poolSupplyOfUSD(token)
	pt := s.poolSupplyOfToken(token)
	out := calcOut(pu, pt, amount-fee)

	if out > pt {
		return &InsufficientPoolBalanceError{Token: token}
	}
	s.setUint64(s.poolSupplyOfTokenKey(token), pt-out)
	s.setUint64(s.poolSupplyOfUSDKey(token), pu+amount)

	if out < minOut {
		return &SlippageExceededError{MinOut: minOut, Actual: out}
	}
	s.credit(sender, token, out)
	return nil
}

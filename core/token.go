package core

// token.go implements the per-(address, token) balance book (§4.2),
// adapted from the teacher's core/ledger.go MintToken/Transfer/BalanceOf
// trio -- generalized from a single implicit "Code" token to an explicit
// TokenID parameter, and given the USD unit-conversion the original
// lacked.

import (
	"math/big"

	"github.com/sirupsen/logrus"
)

func (s *Store) balanceKey(addr Address, token TokenID) []byte {
	return tokenKey("bal", addrStr(addr), token.String())
}

func (s *Store) totalSupplyKey(token TokenID) []byte {
	return tokenKey("ts", token.String())
}

var usdExchangeRateKey = tokenKey("usd-rate")

// BalanceOf returns the raw internal balance of addr in token.
func (s *Store) BalanceOf(addr Address, token TokenID) uint64 {
	return s.getUint64(s.balanceKey(addr, token))
}

// TotalSupply returns the internal total supply of token.
func (s *Store) TotalSupply(token TokenID) uint64 {
	return s.getUint64(s.totalSupplyKey(token))
}

// USDExchangeRate returns the current arbitrary-precision exchange rate,
// 0 until the bridge's SetUSDExchangeRate message sets it.
func (s *Store) USDExchangeRate() *big.Int {
	return s.getBigInt(usdExchangeRateKey)
}

func (s *Store) setUSDExchangeRate(rate *big.Int) {
	s.setBigInt(usdExchangeRateKey, rate)
}

// credit never fails: balance += delta.
func (s *Store) credit(addr Address, token TokenID, delta uint64) {
	key := s.balanceKey(addr, token)
	s.setUint64(key, s.getUint64(key)+delta)
}

// debit fails with InsufficientBalanceError if balance < delta.
func (s *Store) debit(addr Address, token TokenID, delta uint64) error {
	key := s.balanceKey(addr, token)
	have := s.getUint64(key)
	if have < delta {
		return &InsufficientBalanceError{Who: addr, Token: token, Have: have, Need: delta}
	}
	s.setUint64(key, have-delta)
	return nil
}

// Transfer debits sender then credits recipient; atomic w.r.t. Dispatch's
// revert, since debit's error leaves nothing mutated on this path and the
// caller's surrounding Dispatch discards any earlier writes in the batch.
func (s *Store) Transfer(sender, recipient Address, amount uint64, token TokenID) error {
	if err := s.debit(sender, token, amount); err != nil {
		return err
	}
	s.credit(recipient, token, amount)
	return nil
}

// Mint credits addr and grows total supply; never fails.
func (s *Store) Mint(addr Address, amount uint64, token TokenID) {
	s.credit(addr, token, amount)
	s.setUint64(s.totalSupplyKey(token), s.TotalSupply(token)+amount)
	s.Logger.WithFields(logrus.Fields{
		"address": addr.String(), "token": token.String(), "amount": amount,
	}).Info("token minted")
}

// Burn debits addr and shrinks total supply; fails if the debit fails.
func (s *Store) Burn(addr Address, amount uint64, token TokenID) error {
	if err := s.debit(addr, token, amount); err != nil {
		return err
	}
	s.setUint64(s.totalSupplyKey(token), s.TotalSupply(token)-amount)
	return nil
}

// AmountToUnderlying converts an internal amount into its externally
// quoted value. Identity for every token but USD.
func (s *Store) AmountToUnderlying(amount uint64, token TokenID) uint64 {
	if token != USD {
		return amount
	}
	return amountToUnderlying(s.USDExchangeRate(), amount)
}

// UnderlyingToAmount converts an externally quoted amount into its
// internal representation. Identity for every token but USD; fails with
// ErrUSDExchangeRateUnset if the rate has never been set.
func (s *Store) UnderlyingToAmount(underlying uint64, token TokenID) (uint64, error) {
	if token != USD {
		return underlying, nil
	}
	return underlyingToAmount(s.USDExchangeRate(), underlying)
}

// UnderlyingBalanceOf and UnderlyingTotalSupply expose the balance book in
// externally-quoted units, for the read-only query layer.
func (s *Store) UnderlyingBalanceOf(addr Address, token TokenID) uint64 {
	return s.AmountToUnderlying(s.BalanceOf(addr, token), token)
}

func (s *Store) UnderlyingTotalSupply(token TokenID) uint64 {
	return s.AmountToUnderlying(s.TotalSupply(token), token)
}

// GetPrice quotes token in underlying USD. USD itself is priced at
// BaseFactor (1.0 in 6-decimal fixed point); any other token is priced off
// its AMM pool reserves, or 0 if no pool exists yet.
func (s *Store) GetPrice(token TokenID) uint64 {
	if token == USD {
		return BaseFactor
	}
	tokenSupply := s.poolSupplyOfToken(token)
	if tokenSupply == 0 {
		return 0
	}
	usdSupply := s.poolSupplyOfUSD(token)
	price := proportionOf(usdSupply, BaseFactor, tokenSupply)
	return s.AmountToUnderlying(price, USD)
}

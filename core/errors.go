package core

import "fmt"

// Error kinds are exported structs/sentinels rather than raw fmt.Errorf
// strings, so that callers (and tests) can use errors.As/errors.Is instead
// of matching message text. Every dispatch failure bubbles one of these up
// unchanged alongside a full store revert (§7).

type InsufficientBalanceError struct {
	Who        Address
	Token      TokenID
	Have, Need uint64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s has insufficient balance of %s have %d need %d", e.Who, e.Token, e.Have, e.Need)
}

type InsufficientPoolBalanceError struct{ Token TokenID }

func (e *InsufficientPoolBalanceError) Error() string {
	return fmt.Sprintf("insufficient pool balance for %s", e.Token)
}

type PoolAlreadyExistsError struct{ Token TokenID }

func (e *PoolAlreadyExistsError) Error() string {
	return fmt.Sprintf("pool for %s already exists", e.Token)
}

type PoolDoesNotExistError struct{ Token TokenID }

func (e *PoolDoesNotExistError) Error() string {
	return fmt.Sprintf("pool for %s does not exist", e.Token)
}

var ErrTokenIsUSD = fmt.Errorf("token must not be USD")

var ErrFeeExceedsAmount = fmt.Errorf("fee was greater than or equal to amount")

type SlippageExceededError struct{ MinOut, Actual uint64 }

func (e *SlippageExceededError) Error() string {
	return fmt.Sprintf("maximum slippage exceeded: wanted at least %d, got %d", e.MinOut, e.Actual)
}

type BadNonceError struct{ Expected, Got uint64 }

func (e *BadNonceError) Error() string {
	return fmt.Sprintf("expected transaction number %d but got %d", e.Expected, e.Got)
}

var ErrInvalidSender = fmt.Errorf("invalid sender: signature recovery failed")

var ErrDecode = fmt.Errorf("malformed action")

type UnknownWithdrawalError struct{ ID uint64 }

func (e *UnknownWithdrawalError) Error() string {
	return fmt.Sprintf("withdrawal request %d not found", e.ID)
}

var ErrUSDExchangeRateUnset = fmt.Errorf("usd exchange rate is unset")

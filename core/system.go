package core

// system.go is the dispatcher (§4.5): nonce gating, underlying-to-internal
// conversion, subsystem routing, and the commit/revert contract, grounded
// on the teacher's ledger.go accept-a-transaction shape but rebuilt around
// an Action sum type and Store.Dispatch instead of a WAL-backed Ledger.

import (
	"github.com/sirupsen/logrus"
)

// SignedTransaction pairs a transaction number and action with the sender
// address; the caller (internal/wire) has already performed signature
// recovery and supplies the recovered sender here, since recover_address is
// pure and belongs at the wire edge (§4.6), not inside the dispatcher
// itself. The signed bytes themselves are not carried.
type SignedTransaction struct {
	Sender            Address
	TransactionNumber uint64
	Action            Action
}

func (s *Store) transactionNumberKey(sender Address) []byte {
	return systemKey("txn", addrStr(sender))
}

var systemTransactionIDCounterKey = systemKey("txid-counter")

// TransactionNumber returns the last accepted nonce for sender, 0 if none.
func (s *Store) TransactionNumber(sender Address) uint64 {
	return s.getUint64(s.transactionNumberKey(sender))
}

// TransactionIDCounter is the global monotonic commit counter.
func (s *Store) TransactionIDCounter() uint64 {
	return s.getUint64(systemTransactionIDCounterKey)
}

// Run is the dispatcher entry point: validate the sender's nonce, convert
// every underlying amount in the action to internal units, route to the
// owning subsystem, and commit or revert the whole batch atomically.
//
// The nonce and transaction-id counters are each incremented exactly once
// per accepted transaction. The source this was distilled from incremented
// both inside the generic dispatch wrapper and again inside the per-action
// runner, a duplication the design notes call out as a bug to remove.
func (s *Store) Run(tx SignedTransaction) (uint64, error) {
	var txID uint64
	err := s.Dispatch(func() error {
		expected := s.TransactionNumber(tx.Sender) + 1
		if tx.TransactionNumber != expected {
			return &BadNonceError{Expected: expected, Got: tx.TransactionNumber}
		}

		if err := s.routeAction(tx.Sender, tx.Action); err != nil {
			return err
		}

		s.setUint64(s.transactionNumberKey(tx.Sender), tx.TransactionNumber)
		txID = s.TransactionIDCounter() + 1
		s.setUint64(systemTransactionIDCounterKey, txID)
		return nil
	})
	if err != nil {
		s.Logger.WithFields(logrus.Fields{
			"sender": tx.Sender.String(), "transaction_number": tx.TransactionNumber, "error": err,
		}).Warn("transaction reverted")
		return 0, err
	}
	return txID, nil
}

// routeAction converts underlying amounts to internal units at the current
// exchange rate and dispatches to the owning subsystem (§4.2-4.4). Privileged
// actions (the two ProcessXMessages variants) do not carry a Uint amount of
// their own to convert; their payload messages are applied verbatim.
func (s *Store) routeAction(sender Address, action Action) error {
	switch a := action.(type) {
	case AddLiquidityAction:
		amount, err := s.UnderlyingToAmount(a.Amount.Uint64(), a.Token)
		if err != nil {
			return err
		}
		return s.AddLiquidity(sender, amount, a.Token)

	case BuyAction:
		amount, err := s.UnderlyingToAmount(a.UsdInUnderlying.Uint64(), USD)
		if err != nil {
			return err
		}
		minOut, err := s.UnderlyingToAmount(a.MinOutUnderlying.Uint64(), a.Token)
		if err != nil {
			return err
		}
		return s.Buy(sender, amount, a.Token, minOut)

	case CreatePoolAction:
		amount, err := s.UnderlyingToAmount(a.Amount.Uint64(), a.Token)
		if err != nil {
			return err
		}
		price, err := s.UnderlyingToAmount(a.StartingPriceUnderlying.Uint64(), USD)
		if err != nil {
			return err
		}
		return s.CreatePool(sender, amount, a.Token, price)

	case CreateWithdrawalRequestAction:
		amount, err := s.UnderlyingToAmount(a.AmountUnderlying.Uint64(), a.Token)
		if err != nil {
			return err
		}
		return s.CreateWithdrawalRequest(sender, amount, a.Token)

	case ProcessEthereumMessagesAction:
		return s.ProcessEthereumMessages(a.Messages, a.BlockNumber)

	case ProcessPolygonMessagesAction:
		return s.ProcessPolygonMessages(a.Messages, a.BlockNumber)

	case NullAction:
		return nil

	case PayAction:
		amount, err := s.UnderlyingToAmount(a.AmountUnderlying.Uint64(), a.Token)
		if err != nil {
			return err
		}
		return s.Transfer(sender, a.Recipient, amount, a.Token)

	case SellAction:
		amount, err := s.UnderlyingToAmount(a.TokenInUnderlying.Uint64(), a.Token)
		if err != nil {
			return err
		}
		minOut, err := s.UnderlyingToAmount(a.MinUsdOutUnderlying.Uint64(), USD)
		if err != nil {
			return err
		}
		return s.Sell(sender, amount, a.Token, minOut)

	case RemoveLiquidityAction:
		return s.RemoveLiquidity(sender, a.Percentage.Uint64(), a.Token)

	case SealAction, StartMiningAction:
		// Accepted by the wire decode surface (§6) but have no ledger-state
		// effect in this core; consensus/mining lives outside this module.
		return nil

	default:
		return ErrDecode
	}
}

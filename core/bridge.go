package core

// bridge.go implements the two-way peer-chain bridge (§4.4), adapted from
// the teacher's core/cross_chain_bridge.go escrow-and-transfer shape
// (StartBridgeTransfer/CompleteBridgeTransfer) but restructured around the
// original's batched peer-chain message model: a relayer submits a whole
// batch of Polygon or Ethereum messages alongside the new block number, and
// every message in the batch is applied before the cursor advances.

import (
	"math/big"

	"go.uber.org/zap"
)

// BridgeEscrow is the pseudo-address withdrawal requests are staged behind
// until the peer-chain side reports them complete.
var BridgeEscrow = AddressZero

// PendingWithdrawal is one entry of Bridge.pending_withdrawals (§3).
type PendingWithdrawal struct {
	ID     uint64  `json:"id"`
	To     Address `json:"to"`
	Token  TokenID `json:"token"`
	Amount uint64  `json:"amount"`
}

// CompletedWithdrawal is the record left behind once a peer-chain
// ProcessWithdrawal message reports a withdrawal's transaction hash.
type CompletedWithdrawal struct {
	To              Address `json:"to"`
	Token           TokenID `json:"token"`
	Amount          uint64  `json:"amount"`
	TransactionHash Hash    `json:"transaction_hash"`
}

// PolygonMessage is a tagged union of the messages a Polygon-side relayer
// batch may contain.
type PolygonMessage interface{ isPolygonMessage() }

// Deposit credits address unconditionally; the peer chain has already
// enforced custody of the locked funds.
type Deposit struct {
	Amount  uint64
	Token   TokenID
	Address Address
}

func (Deposit) isPolygonMessage() {}

// ProcessWithdrawalMessage reports that a previously requested withdrawal
// has settled on the peer chain at TxHash.
type ProcessWithdrawalMessage struct {
	WithdrawalID uint64
	TxHash       Hash
}

func (ProcessWithdrawalMessage) isPolygonMessage() {}

// EthereumMessage is a tagged union of the messages an Ethereum-side
// relayer batch may contain.
type EthereumMessage interface{ isEthereumMessage() }

// SetUSDExchangeRateMessage overwrites the USD conversion rate (§4.2).
type SetUSDExchangeRateMessage struct {
	Rate *big.Int
}

func (SetUSDExchangeRateMessage) isEthereumMessage() {}

func (s *Store) pendingWithdrawalsKey() []byte      { return bridgeKey("pending") }
func (s *Store) completedWithdrawalKey(id uint64) []byte {
	return bridgeKey("completed", uintToStr(id))
}
func (s *Store) withdrawalIDCounterKey() []byte     { return bridgeKey("withdrawal-id-counter") }
func (s *Store) ethereumBlockNumberKey() []byte      { return bridgeKey("eth-block") }
func (s *Store) polygonBlockNumberKey() []byte       { return bridgeKey("polygon-block") }

func uintToStr(v uint64) string {
	const digits = "0123456789"
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = digits[v%10]
		v /= 10
	}
	return string(buf[i:])
}

// WithdrawalIDCounter is the next id that will be assigned to a withdrawal
// request.
func (s *Store) WithdrawalIDCounter() uint64 { return s.getUint64(s.withdrawalIDCounterKey()) }

// EthereumBlockNumber and PolygonBlockNumber are the peer-chain cursors
// (§3), advanced only after every message in a relayed batch has applied.
func (s *Store) EthereumBlockNumber() uint64 { return s.getUint64(s.ethereumBlockNumberKey()) }
func (s *Store) PolygonBlockNumber() uint64  { return s.getUint64(s.polygonBlockNumberKey()) }

func (s *Store) loadPendingWithdrawals() []PendingWithdrawal {
	var out []PendingWithdrawal
	s.getJSON(s.pendingWithdrawalsKey(), &out)
	return out
}

func (s *Store) savePendingWithdrawals(list []PendingWithdrawal) {
	s.setJSON(s.pendingWithdrawalsKey(), list)
}

// PendingWithdrawals returns the ordered sequence of not-yet-completed
// withdrawal requests.
func (s *Store) PendingWithdrawals() []PendingWithdrawal {
	return append([]PendingWithdrawal(nil), s.loadPendingWithdrawals()...)
}

// CompletedWithdrawalByID looks up a settled withdrawal record.
func (s *Store) CompletedWithdrawalByID(id uint64) (CompletedWithdrawal, bool) {
	var out CompletedWithdrawal
	ok := s.getJSON(s.completedWithdrawalKey(id), &out)
	return out, ok
}

// CreateWithdrawalRequest escrows amount of token taken from `to` and
// queues a pending withdrawal for the peer-chain relayer to observe.
func (s *Store) CreateWithdrawalRequest(to Address, amount uint64, token TokenID) error {
	if err := s.Transfer(to, BridgeEscrow, amount, token); err != nil {
		return err
	}
	id := s.WithdrawalIDCounter()
	list := s.loadPendingWithdrawals()
	list = append(list, PendingWithdrawal{ID: id, To: to, Token: token, Amount: amount})
	s.savePendingWithdrawals(list)
	s.setUint64(s.withdrawalIDCounterKey(), id+1)
	return nil
}

// ProcessPolygonMessages applies every message in a relayed Polygon batch,
// then advances the Polygon cursor. The whole batch is atomic at the
// dispatcher's outer Store.Dispatch layer: a later message's failure
// reverts earlier messages in the same batch too.
func (s *Store) ProcessPolygonMessages(messages []PolygonMessage, blockNumber uint64) error {
	for _, m := range messages {
		switch msg := m.(type) {
		case Deposit:
			s.Mint(msg.Address, msg.Amount, msg.Token)
		case ProcessWithdrawalMessage:
			if err := s.completeWithdrawal(msg.WithdrawalID, msg.TxHash); err != nil {
				return err
			}
		}
	}
	s.advanceCursor(s.polygonBlockNumberKey(), blockNumber)
	zap.L().Info("applied polygon message batch",
		zap.Int("messages", len(messages)), zap.Uint64("block", blockNumber))
	return nil
}

// advanceCursor sets a peer-chain cursor to blockNumber, tolerating a skip
// of any size (up to and beyond the 128-block re-anchor threshold a
// relayer restart can produce) by re-anchoring to the reported tip rather
// than attempting to back-fill the gap. It never moves the cursor backward.
func (s *Store) advanceCursor(key []byte, blockNumber uint64) {
	if blockNumber > s.getUint64(key) {
		s.setUint64(key, blockNumber)
	}
}

func (s *Store) completeWithdrawal(id uint64, txHash Hash) error {
	list := s.loadPendingWithdrawals()
	for i, w := range list {
		if w.ID == id {
			s.setJSON(s.completedWithdrawalKey(id), CompletedWithdrawal{
				To: w.To, Token: w.Token, Amount: w.Amount, TransactionHash: txHash,
			})
			list = append(list[:i], list[i+1:]...)
			s.savePendingWithdrawals(list)
			return nil
		}
	}
	return &UnknownWithdrawalError{ID: id}
}

// ProcessEthereumMessages applies every message in a relayed Ethereum
// batch, then advances the Ethereum cursor.
func (s *Store) ProcessEthereumMessages(messages []EthereumMessage, blockNumber uint64) error {
	for _, m := range messages {
		switch msg := m.(type) {
		case SetUSDExchangeRateMessage:
			s.setUSDExchangeRate(msg.Rate)
		}
	}
	s.advanceCursor(s.ethereumBlockNumberKey(), blockNumber)
	zap.L().Info("applied ethereum message batch",
		zap.Int("messages", len(messages)), zap.Uint64("block", blockNumber))
	return nil
}

package core

// action.go defines the Action sum type (§4.5) as a closed tagged union:
// an interface with an unexported marker method, implemented by one struct
// per variant, and routed with a type switch in system.go. This replaces
// the source's dynamic-dispatch match, per the design notes' explicit
// steer away from an "unknown action" runtime panic path.
//
// Every amount field is a Uint (§4.1): the wire boundary (internal/wire)
// is responsible for validating it fits [0, 2^63-1] before an Action value
// ever reaches the dispatcher.

// Action is implemented by every transaction variant in §4.5.
type Action interface{ isAction() }

type AddLiquidityAction struct {
	Amount Uint
	Token  TokenID
}

func (AddLiquidityAction) isAction() {}

type BuyAction struct {
	UsdInUnderlying Uint
	Token           TokenID
	MinOutUnderlying Uint
}

func (BuyAction) isAction() {}

type CreatePoolAction struct {
	Amount              Uint
	Token               TokenID
	StartingPriceUnderlying Uint
}

func (CreatePoolAction) isAction() {}

type CreateWithdrawalRequestAction struct {
	AmountUnderlying Uint
	Token            TokenID
}

func (CreateWithdrawalRequestAction) isAction() {}

type ProcessEthereumMessagesAction struct {
	Messages    []EthereumMessage
	BlockNumber uint64
}

func (ProcessEthereumMessagesAction) isAction() {}

type ProcessPolygonMessagesAction struct {
	Messages    []PolygonMessage
	BlockNumber uint64
}

func (ProcessPolygonMessagesAction) isAction() {}

// NullAction is a deliberate no-op, accepted solely to consume a nonce.
type NullAction struct{}

func (NullAction) isAction() {}

type PayAction struct {
	Recipient        Address
	AmountUnderlying Uint
	Token            TokenID
}

func (PayAction) isAction() {}

type SellAction struct {
	TokenInUnderlying  Uint
	Token              TokenID
	MinUsdOutUnderlying Uint
}

func (SellAction) isAction() {}

type RemoveLiquidityAction struct {
	Percentage Uint
	Token      TokenID
}

func (RemoveLiquidityAction) isAction() {}

// SealAction and StartMiningAction are accepted by the dispatcher's action
// decode surface (§6) but have no ledger-state effect in this core; mining
// and block sealing belong to a consensus layer outside this module's
// scope.
type SealAction struct{ OnionSkin [32]byte }

func (SealAction) isAction() {}

type StartMiningAction struct {
	Host       string
	OnionSkin  [32]byte
	LayerCount Uint
}

func (StartMiningAction) isAction() {}

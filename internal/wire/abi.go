package wire

// abi.go implements the Action codec (§6): a 4-byte Solidity function
// selector followed by ABI-encoded arguments, using go-ethereum's
// accounts/abi package the way the pack's own ABI wrappers do (see
// ExtendedABI.UnpackInput in the warp example this was grounded on) --
// parse a JSON ABI once, then Unpack/Pack against the named method.

import (
	"bytes"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"ledgerd/core"
)

const actionABIJSON = `[
  {"type":"function","name":"addLiquidity","inputs":[{"name":"amount","type":"int64"},{"name":"token","type":"address"}]},
  {"type":"function","name":"buy","inputs":[{"name":"usdIn","type":"int64"},{"name":"token","type":"address"},{"name":"minOut","type":"int64"}]},
  {"type":"function","name":"createPool","inputs":[{"name":"amount","type":"int64"},{"name":"token","type":"address"},{"name":"startingPrice","type":"int64"}]},
  {"type":"function","name":"createWithdrawlRequest","inputs":[{"name":"amount","type":"int64"},{"name":"token","type":"address"}]},
  {"type":"function","name":"processPolygonMessages","inputs":[{"name":"messages","type":"tuple[]","components":[{"name":"kind","type":"uint8"},{"name":"amount","type":"int64"},{"name":"token","type":"address"},{"name":"recipient","type":"address"},{"name":"withdrawalId","type":"int64"},{"name":"txHash","type":"bytes32"}]},{"name":"blockNumber","type":"uint256"}]},
  {"type":"function","name":"processEthereumMessages","inputs":[{"name":"messages","type":"tuple[]","components":[{"name":"rate","type":"uint256"}]},{"name":"blockNumber","type":"uint256"}]},
  {"type":"function","name":"removeLiquidity","inputs":[{"name":"percentage","type":"int64"},{"name":"token","type":"address"}]},
  {"type":"function","name":"seal","inputs":[{"name":"onionSkin","type":"bytes32"}]},
  {"type":"function","name":"sell","inputs":[{"name":"tokenIn","type":"int64"},{"name":"token","type":"address"},{"name":"minUsdOut","type":"int64"}]},
  {"type":"function","name":"startMining","inputs":[{"name":"host","type":"string"},{"name":"onionSkin","type":"bytes32"},{"name":"layerCount","type":"int64"}]},
  {"type":"function","name":"transfer","inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}]}
]`

var actionABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(actionABIJSON))
	if err != nil {
		panic("wire: invalid embedded action ABI: " + err.Error())
	}
	actionABI = parsed
}

// DecodeAction implements decode_action (§4.6): `to`, `value` and `data`
// come straight off a RawTransaction. A plain transfer -- empty data with
// nonzero value -- decodes to Pay(to, value scaled down, USD); empty data
// with a nil or zero value decodes to Null; anything else dispatches on the
// leading 4-byte selector.
func DecodeAction(to core.Address, value *big.Int, data []byte) (core.Action, error) {
	if len(data) == 0 {
		if value == nil || value.Sign() == 0 {
			return core.NullAction{}, nil
		}
		scaled := ScaleDownToLedgerDecimals(value, core.USD)
		amount, err := core.UintFromWireInt64(scaled.Int64())
		if err != nil {
			return nil, core.ErrDecode
		}
		return core.PayAction{Recipient: to, AmountUnderlying: amount, Token: core.USD}, nil
	}
	if len(data) < 4 {
		return nil, core.ErrDecode
	}
	selector := data[:4]
	args := data[4:]

	method, err := methodBySelector(selector)
	if err != nil {
		return nil, err
	}

	values, err := method.Inputs.Unpack(args)
	if err != nil {
		return nil, core.ErrDecode
	}

	return actionFromUnpacked(to, method.Name, values)
}

func methodBySelector(selector []byte) (abi.Method, error) {
	for _, m := range actionABI.Methods {
		if bytes.Equal(m.ID, selector) {
			return m, nil
		}
	}
	return abi.Method{}, core.ErrDecode
}

func toUint(v interface{}) (core.Uint, error) {
	i, ok := v.(int64)
	if !ok {
		return core.Uint{}, core.ErrDecode
	}
	return core.UintFromWireInt64(i)
}

func actionFromUnpacked(txTo core.Address, name string, values []interface{}) (core.Action, error) {
	switch name {
	case "addLiquidity":
		amount, err := toUint(values[0])
		if err != nil {
			return nil, err
		}
		return core.AddLiquidityAction{Amount: amount, Token: core.FromCommon(values[1].(common.Address))}, nil

	case "buy":
		usdIn, err := toUint(values[0])
		if err != nil {
			return nil, err
		}
		minOut, err := toUint(values[2])
		if err != nil {
			return nil, err
		}
		return core.BuyAction{
			UsdInUnderlying: usdIn,
			Token:           core.FromCommon(values[1].(common.Address)),
			MinOutUnderlying: minOut,
		}, nil

	case "createPool":
		amount, err := toUint(values[0])
		if err != nil {
			return nil, err
		}
		price, err := toUint(values[2])
		if err != nil {
			return nil, err
		}
		return core.CreatePoolAction{
			Amount:                  amount,
			Token:                   core.FromCommon(values[1].(common.Address)),
			StartingPriceUnderlying: price,
		}, nil

	case "createWithdrawlRequest":
		amount, err := toUint(values[0])
		if err != nil {
			return nil, err
		}
		return core.CreateWithdrawalRequestAction{
			AmountUnderlying: amount,
			Token:            core.FromCommon(values[1].(common.Address)),
		}, nil

	case "removeLiquidity":
		pct, err := toUint(values[0])
		if err != nil {
			return nil, err
		}
		return core.RemoveLiquidityAction{Percentage: pct, Token: core.FromCommon(values[1].(common.Address))}, nil

	case "sell":
		amount, err := toUint(values[0])
		if err != nil {
			return nil, err
		}
		minOut, err := toUint(values[2])
		if err != nil {
			return nil, err
		}
		return core.SellAction{
			TokenInUnderlying:   amount,
			Token:               core.FromCommon(values[1].(common.Address)),
			MinUsdOutUnderlying: minOut,
		}, nil

	case "seal":
		var onion [32]byte
		copy(onion[:], values[0].([32]byte)[:])
		return core.SealAction{OnionSkin: onion}, nil

	case "startMining":
		layerCount, err := toUint(values[2])
		if err != nil {
			return nil, err
		}
		var onion [32]byte
		copy(onion[:], values[1].([32]byte)[:])
		return core.StartMiningAction{
			Host:       values[0].(string),
			OnionSkin:  onion,
			LayerCount: layerCount,
		}, nil

	case "transfer":
		// A bare ERC-20 transfer call: the contract address the transaction
		// was sent TO is the token being moved; the ABI argument named "to"
		// is the transfer's recipient.
		wireValue, ok := values[1].(*big.Int)
		if !ok {
			return nil, core.ErrDecode
		}
		scaled := ScaleDownToLedgerDecimals(wireValue, txTo)
		amount, err := core.UintFromWireInt64(scaled.Int64())
		if err != nil {
			return nil, core.ErrDecode
		}
		recipient := core.FromCommon(values[0].(common.Address))
		return core.PayAction{Recipient: recipient, AmountUnderlying: amount, Token: txTo}, nil

	case "processPolygonMessages":
		return decodeProcessPolygonMessages(values)

	case "processEthereumMessages":
		return decodeProcessEthereumMessages(values)

	default:
		return nil, core.ErrDecode
	}
}

const (
	polygonMsgKindDeposit           = 0
	polygonMsgKindProcessWithdrawal = 1
)

// tupleField reads a named field out of one of go-ethereum's dynamically
// generated tuple structs by reflection, rather than asserting an exact
// anonymous struct type -- the generated type's field order and naming are
// an implementation detail of the abi package, so matching by name is the
// robust way to read it back.
func tupleField(v reflect.Value, name string) reflect.Value {
	return v.FieldByName(name)
}

func decodeProcessPolygonMessages(values []interface{}) (core.Action, error) {
	blockNumber, ok := values[1].(*big.Int)
	if !ok {
		return nil, core.ErrDecode
	}
	slice := reflect.ValueOf(values[0])
	if slice.Kind() != reflect.Slice {
		return nil, core.ErrDecode
	}
	messages := make([]core.PolygonMessage, 0, slice.Len())
	for i := 0; i < slice.Len(); i++ {
		m := slice.Index(i)
		kind := tupleField(m, "Kind").Interface().(uint8)
		switch kind {
		case polygonMsgKindDeposit:
			messages = append(messages, core.Deposit{
				Amount:  uint64(tupleField(m, "Amount").Interface().(int64)),
				Token:   core.FromCommon(tupleField(m, "Token").Interface().(common.Address)),
				Address: core.FromCommon(tupleField(m, "Recipient").Interface().(common.Address)),
			})
		case polygonMsgKindProcessWithdrawal:
			messages = append(messages, core.ProcessWithdrawalMessage{
				WithdrawalID: uint64(tupleField(m, "WithdrawalId").Interface().(int64)),
				TxHash:       core.Hash(tupleField(m, "TxHash").Interface().([32]byte)),
			})
		default:
			return nil, core.ErrDecode
		}
	}
	return core.ProcessPolygonMessagesAction{Messages: messages, BlockNumber: blockNumber.Uint64()}, nil
}

func decodeProcessEthereumMessages(values []interface{}) (core.Action, error) {
	blockNumber, ok := values[1].(*big.Int)
	if !ok {
		return nil, core.ErrDecode
	}
	slice := reflect.ValueOf(values[0])
	if slice.Kind() != reflect.Slice {
		return nil, core.ErrDecode
	}
	messages := make([]core.EthereumMessage, 0, slice.Len())
	for i := 0; i < slice.Len(); i++ {
		rate := tupleField(slice.Index(i), "Rate").Interface().(*big.Int)
		messages = append(messages, core.SetUSDExchangeRateMessage{Rate: rate})
	}
	return core.ProcessEthereumMessagesAction{Messages: messages, BlockNumber: blockNumber.Uint64()}, nil
}

// EncodeAction is decode_action's inverse: it packs an Action back onto the
// wire as a 4-byte selector plus ABI-encoded arguments, for callers (a CLI,
// a test harness) that need to build a RawTransaction's data field. The two
// privileged batch variants and the implicit plain-transfer/Null encodings
// are intentionally unsupported here -- nothing in this module ever needs
// to originate them, only the relayer and the peer chain do.
func EncodeAction(action core.Action) ([]byte, error) {
	pack := func(name string, args ...interface{}) ([]byte, error) {
		method, ok := actionABI.Methods[name]
		if !ok {
			return nil, core.ErrDecode
		}
		packed, err := method.Inputs.Pack(args...)
		if err != nil {
			return nil, core.ErrDecode
		}
		return append(append([]byte{}, method.ID...), packed...), nil
	}

	switch a := action.(type) {
	case core.AddLiquidityAction:
		return pack("addLiquidity", a.Amount.AsInt64(), a.Token.Common())
	case core.BuyAction:
		return pack("buy", a.UsdInUnderlying.AsInt64(), a.Token.Common(), a.MinOutUnderlying.AsInt64())
	case core.CreatePoolAction:
		return pack("createPool", a.Amount.AsInt64(), a.Token.Common(), a.StartingPriceUnderlying.AsInt64())
	case core.CreateWithdrawalRequestAction:
		return pack("createWithdrawlRequest", a.AmountUnderlying.AsInt64(), a.Token.Common())
	case core.RemoveLiquidityAction:
		return pack("removeLiquidity", a.Percentage.AsInt64(), a.Token.Common())
	case core.SellAction:
		return pack("sell", a.TokenInUnderlying.AsInt64(), a.Token.Common(), a.MinUsdOutUnderlying.AsInt64())
	case core.SealAction:
		return pack("seal", a.OnionSkin)
	case core.StartMiningAction:
		return pack("startMining", a.Host, a.OnionSkin, a.LayerCount.AsInt64())
	case core.PayAction:
		scaled := ScaleUpFromLedgerDecimals(big.NewInt(a.AmountUnderlying.AsInt64()), a.Token)
		return pack("transfer", a.Recipient.Common(), scaled)
	default:
		return nil, core.ErrDecode
	}
}

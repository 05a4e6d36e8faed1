package wire

import (
	"math/big"
	"testing"

	"ledgerd/core"
)

func testAddr(b byte) core.Address {
	var a core.Address
	a[19] = b
	return a
}

func TestEncodeDecodeActionRoundTrip(t *testing.T) {
	token := testAddr(0xA1)
	cases := []core.Action{
		core.AddLiquidityAction{Amount: mustUint(t, 100), Token: token},
		core.BuyAction{UsdInUnderlying: mustUint(t, 50), Token: token, MinOutUnderlying: mustUint(t, 1)},
		core.CreatePoolAction{Amount: mustUint(t, 10), Token: token, StartingPriceUnderlying: mustUint(t, 1_000_000)},
		core.CreateWithdrawalRequestAction{AmountUnderlying: mustUint(t, 5), Token: token},
		core.RemoveLiquidityAction{Percentage: mustUint(t, 50), Token: token},
		core.SellAction{TokenInUnderlying: mustUint(t, 20), Token: token, MinUsdOutUnderlying: mustUint(t, 1)},
		core.SealAction{OnionSkin: [32]byte{1, 2, 3}},
		core.StartMiningAction{Host: "relay.example", OnionSkin: [32]byte{4, 5, 6}, LayerCount: mustUint(t, 3)},
	}

	for _, want := range cases {
		data, err := EncodeAction(want)
		if err != nil {
			t.Fatalf("encode %T: %v", want, err)
		}
		got, err := DecodeAction(token, big.NewInt(0), data)
		if err != nil {
			t.Fatalf("decode %T: %v", want, err)
		}
		if got != want {
			t.Errorf("round trip mismatch for %T: got %#v, want %#v", want, got, want)
		}
	}
}

func TestDecodeActionEmptyDataNoValueIsNull(t *testing.T) {
	got, err := DecodeAction(testAddr(1), nil, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := got.(core.NullAction); !ok {
		t.Fatalf("expected NullAction, got %#v", got)
	}
}

func TestDecodeActionEmptyDataWithValueIsUSDPay(t *testing.T) {
	to := testAddr(2)
	// USD is CUSDC, declared at 8 decimals; 1 ledger unit (1e6 at the
	// ledger's 6-decimal scale) is 1e8 at CUSDC's wire scale.
	value := big.NewInt(100_000_000)
	got, err := DecodeAction(to, value, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	pay, ok := got.(core.PayAction)
	if !ok {
		t.Fatalf("expected PayAction, got %#v", got)
	}
	if pay.Recipient != to || pay.Token != core.USD {
		t.Errorf("pay action = %+v, want recipient=%v token=USD", pay, to)
	}
	if pay.AmountUnderlying.Uint64() != 1_000_000 {
		t.Errorf("amount = %d, want 1000000", pay.AmountUnderlying.Uint64())
	}
}

func TestDecodeActionRejectsShortData(t *testing.T) {
	_, err := DecodeAction(testAddr(1), big.NewInt(0), []byte{1, 2, 3})
	if err != core.ErrDecode {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestDecodeActionRejectsUnknownSelector(t *testing.T) {
	_, err := DecodeAction(testAddr(1), big.NewInt(0), []byte{0xde, 0xad, 0xbe, 0xef})
	if err != core.ErrDecode {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func mustUint(t *testing.T, v uint64) core.Uint {
	t.Helper()
	u, err := core.NewUint(v)
	if err != nil {
		t.Fatalf("NewUint(%d): %v", v, err)
	}
	return u
}

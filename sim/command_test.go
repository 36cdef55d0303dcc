package sim

import (
	"context"
	"testing"
)

func TestDispatchPlaceDefenseAppliesLikeDirectCall(t *testing.T) {
	e := newTestEngine(t)
	cmd := Command{Type: CommandPlaceDefense, OriginTick: e.Tick, GX: 3, GY: 0, Kind: DefenseFirewall}
	if cmdErr := e.Dispatch(context.Background(), cmd); cmdErr != nil {
		t.Fatalf("unexpected reject: %v", cmdErr)
	}
	if e.Store.DefenseAt(3, 0) == nil {
		t.Fatalf("expected a defense placed at (3,0) via Dispatch")
	}
}

func TestDispatchUnknownCommandTypeIsRejected(t *testing.T) {
	e := newTestEngine(t)
	cmdErr := e.Dispatch(context.Background(), Command{Type: CommandType("not_a_real_command")})
	if cmdErr == nil || cmdErr.Code != RejectNotFound {
		t.Fatalf("expected NOT_FOUND for an unrecognized command type, got %v", cmdErr)
	}
}

func TestDispatchPropagatesUnderlyingRejection(t *testing.T) {
	e := newTestEngine(t)
	e.Ledger.Resources = Resources{}
	cmdErr := e.Dispatch(context.Background(), Command{Type: CommandPlaceDefense, GX: 3, GY: 0, Kind: DefenseFirewall})
	if cmdErr == nil || cmdErr.Code != RejectInsufficientFunds {
		t.Fatalf("expected INSUFFICIENT_RESOURCES to pass through Dispatch, got %v", cmdErr)
	}
}

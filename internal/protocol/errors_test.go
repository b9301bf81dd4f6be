package protocol

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsKnownCode(t *testing.T) {
	cases := []string{
		"",
		ErrLinkFailure,
		ErrNeedsConsole,
		ErrNotImplemented,
		ErrFailure,
		ErrWrongUsage,
		ErrNotFound,
	}
	for _, c := range cases {
		if !IsKnownCode(c) {
			t.Fatalf("expected known code: %q", c)
		}
	}
	if IsKnownCode("CR_NOT_DEFINED") {
		t.Fatalf("expected unknown code rejected")
	}
}

func TestBridgeErrorUnwrapsThroughWrapping(t *testing.T) {
	base := &BridgeError{Method: MethodGetBlockList, Code: ErrNotFound}
	wrapped := fmt.Errorf("reading blocks: %w", base)

	var be *BridgeError
	if !errors.As(wrapped, &be) {
		t.Fatalf("BridgeError lost through wrapping")
	}
	if !be.NotFound() {
		t.Errorf("NotFound() = false for %s", be.Code)
	}
	if got := base.Error(); got != "GetBlockList: bridge: CR_NOT_FOUND" {
		t.Errorf("Error() = %q", got)
	}
}

func TestBridgeErrorUnknownCodeMessage(t *testing.T) {
	e := &BridgeError{Method: MethodGetMapInfo, Code: "CR_SOMETHING_NEW"}
	want := `GetMapInfo: bridge: unrecognized "CR_SOMETHING_NEW"`
	if got := e.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

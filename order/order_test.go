package order

import "testing"

func TestCurrencyOf(t *testing.T) {
	cases := []struct {
		security string
		want     string
	}{
		{"AL30-0002-C-CT-USD", "USD"},
		{"AL30-0002-C-CT-ARS", "ARS"},
		{"AL30D-0002-C-CT-USD", "USD"},
		{"SOME-SEC-USD-EXTRA", "USD"}, // 含 "D-" 片段
		{"unknown-secu", "ARS"},
		{"GD30-0002-C-CT-ARS", "ARS"},
	}
	for _, tc := range cases {
		if got := CurrencyOf(tc.security); got != tc.want {
			t.Fatalf("CurrencyOf(%q) = %q, want %q", tc.security, got, tc.want)
		}
	}
}

func TestFIXGatewayAlwaysFills(t *testing.T) {
	g := &FIXGateway{}
	res := g.Place(Order{Security: "AL30-0002-C-CT-ARS", Side: SideBuy, Price: 1000, Quantity: 10})
	if !res.Ok() {
		t.Fatalf("expected filled result, got %+v", res)
	}
	if res.OrderID == "" {
		t.Fatalf("expected generated order id")
	}
}

func TestFIXGatewayKeepsProvidedID(t *testing.T) {
	g := &FIXGateway{}
	res := g.Place(Order{ID: "abc-123", Security: "GD30-0002-C-CT-ARS", Side: SideSell, Price: 1195, Quantity: 5})
	if res.OrderID != "abc-123" {
		t.Fatalf("expected provided id kept, got %q", res.OrderID)
	}
}

func TestResultOk(t *testing.T) {
	if (Result{Status: StatusFailed}).Ok() {
		t.Fatalf("failed result must not be ok")
	}
	if !(Result{Status: StatusFilled}).Ok() {
		t.Fatalf("filled result must be ok")
	}
}

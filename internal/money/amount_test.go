package money_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/samadhanbodkhe/gudworld-admin/internal/money"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"whole rupees", "1000", "1000.00", false},
		{"two decimals", "399.50", "399.50", false},
		{"surrounding spaces", "  12.3 ", "12.30", false},
		{"negative", "-2.5", "-2.50", false},
		{"empty", "", "", true},
		{"garbage", "12abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := money.Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, money.ErrInvalidAmount) {
					t.Errorf("expected ErrInvalidAmount, got %v", err)
				}
				return
			}
			if got.String() != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestArithmeticHasNoFloatDrift(t *testing.T) {
	// 0.1 + 0.2 is the classic float64 trap.
	sum := money.MustParse("0.1").Add(money.MustParse("0.2"))
	if !sum.Equal(money.MustParse("0.3")) {
		t.Errorf("0.1 + 0.2 = %s, want 0.30", sum)
	}

	remaining := money.MustParse("1000").Sub(money.MustParse("999.99"))
	if !remaining.Equal(money.FromMinor(1)) {
		t.Errorf("1000 - 999.99 = %s, want 0.01", remaining)
	}
	if !money.MustParse("0.011").GreaterThan(money.MustParse("0.01")) {
		t.Error("expected 0.011 > 0.01")
	}
}

func TestClampZeroAndMax(t *testing.T) {
	if got := money.MustParse("-5").ClampZero(); !got.IsZero() {
		t.Errorf("ClampZero(-5) = %s, want 0", got)
	}
	if got := money.MustParse("5").ClampZero(); !got.Equal(money.New(5)) {
		t.Errorf("ClampZero(5) = %s, want 5", got)
	}
	if got := money.Max(money.New(3), money.New(7)); !got.Equal(money.New(7)) {
		t.Errorf("Max = %s, want 7", got)
	}
	if got := money.Min(money.New(3), money.New(7)); !got.Equal(money.New(3)) {
		t.Errorf("Min = %s, want 3", got)
	}
	if got := money.Sum(money.New(1), money.MustParse("2.25"), money.MustParse("0.75")); !got.Equal(money.New(4)) {
		t.Errorf("Sum = %s, want 4", got)
	}
}

func TestCheckScale(t *testing.T) {
	if err := money.MustParse("10.25").CheckScale(); err != nil {
		t.Errorf("10.25: unexpected error %v", err)
	}
	if err := money.MustParse("10.255").CheckScale(); !errors.Is(err, money.ErrTooPrecise) {
		t.Errorf("10.255: expected ErrTooPrecise, got %v", err)
	}
}

func TestMinor(t *testing.T) {
	if got := money.MustParse("12.34").Minor(); got != 1234 {
		t.Errorf("Minor() = %d, want 1234", got)
	}
}

func TestJSON(t *testing.T) {
	var payload struct {
		Amount money.Amount `json:"amount"`
		Quoted money.Amount `json:"quoted"`
		Null   money.Amount `json:"null"`
	}
	if err := json.Unmarshal([]byte(`{"amount": 1000.10, "quoted": "25.5", "null": null}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Amount.String() != "1000.10" {
		t.Errorf("amount = %s, want 1000.10", payload.Amount)
	}
	if payload.Quoted.String() != "25.50" {
		t.Errorf("quoted = %s, want 25.50", payload.Quoted)
	}
	if !payload.Null.IsZero() {
		t.Errorf("null = %s, want 0", payload.Null)
	}

	out, err := json.Marshal(map[string]money.Amount{"refundAmount": money.MustParse("400")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"refundAmount":400}` {
		t.Errorf("marshal = %s", out)
	}

	var bad money.Amount
	if err := json.Unmarshal([]byte(`"abc"`), &bad); !errors.Is(err, money.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0", "₹0.00"},
		{"999", "₹999.00"},
		{"1000", "₹1,000.00"},
		{"123456.7", "₹1,23,456.70"},
		{"12345678.9", "₹1,23,45,678.90"},
		{"-1500", "-₹1,500.00"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := money.Format(money.MustParse(tt.input)); got != tt.want {
				t.Errorf("Format(%s) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

package upi

import (
	"bytes"
	"net/url"
	"testing"
)

func TestPaymentURL(t *testing.T) {
	raw := PaymentURL(PaymentParams{
		PayeeVPA:        "asha@upi",
		PayeeName:       "Asha's Chai Stand",
		AmountPaise:     5050,
		TransactionNote: "BMC-12345678-abcdef0123456789",
		TransactionRef:  "intent-1",
	})

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("PaymentURL() produced unparseable URL: %v", err)
	}
	if u.Scheme != "upi" || u.Host != "pay" {
		t.Errorf("PaymentURL() scheme/host = %s://%s, want upi://pay", u.Scheme, u.Host)
	}

	q := u.Query()
	tests := []struct {
		param string
		want  string
	}{
		{"pa", "asha@upi"},
		{"pn", "Asha's Chai Stand"},
		{"am", "50.50"},
		{"tn", "BMC-12345678-abcdef0123456789"},
		{"tr", "intent-1"},
		{"cu", "INR"},
	}
	for _, tt := range tests {
		if got := q.Get(tt.param); got != tt.want {
			t.Errorf("PaymentURL() %s = %q, want %q", tt.param, got, tt.want)
		}
	}
}

func TestPaymentURL_OmitsEmptyOptionalParams(t *testing.T) {
	raw := PaymentURL(PaymentParams{PayeeVPA: "asha@upi", PayeeName: "Asha", AmountPaise: 5000})

	u, _ := url.Parse(raw)
	q := u.Query()
	if q.Has("tn") {
		t.Error("PaymentURL() should omit tn when note is empty")
	}
	if q.Has("tr") {
		t.Error("PaymentURL() should omit tr when ref is empty")
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		paise int64
		want  string
	}{
		{5000, "50"},
		{5050, "50.50"},
		{5005, "50.05"},
		{100, "1"},
		{1, "0.01"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.paise); got != tt.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", tt.paise, got, tt.want)
		}
	}
}

func TestRupeesToPaise(t *testing.T) {
	tests := []struct {
		rupees float64
		want   int64
	}{
		{50, 5000},
		{50.5, 5050},
		{0.01, 1},
		{19.99, 1999},
	}
	for _, tt := range tests {
		if got := RupeesToPaise(tt.rupees); got != tt.want {
			t.Errorf("RupeesToPaise(%v) = %d, want %d", tt.rupees, got, tt.want)
		}
	}
}

func TestIsMobileUserAgent(t *testing.T) {
	tests := []struct {
		ua   string
		want bool
	}{
		{"Mozilla/5.0 (Linux; Android 14; Pixel 8)", true},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)", true},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64)", false},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsMobileUserAgent(tt.ua); got != tt.want {
			t.Errorf("IsMobileUserAgent(%q) = %v, want %v", tt.ua, got, tt.want)
		}
	}
}

func TestQRCodePNG(t *testing.T) {
	png, err := QRCodePNG(PaymentParams{PayeeVPA: "asha@upi", PayeeName: "Asha", AmountPaise: 5000}, 256)
	if err != nil {
		t.Fatalf("QRCodePNG() error = %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("QRCodePNG() output is not a PNG")
	}
}

// Package upi formats the standard UPI deep links and QR payloads the
// supporter-facing flow hands off to external payment apps. The correlation
// token rides in the transaction note (tn) field.
package upi

import (
	"fmt"
	"net/url"
	"regexp"

	qrcode "github.com/skip2/go-qrcode"
)

const currency = "INR"

type PaymentParams struct {
	PayeeVPA        string
	PayeeName       string
	AmountPaise     int64
	TransactionNote string
	TransactionRef  string
}

// PaymentURL builds a upi://pay deep link. Mobile clients open it directly
// and the OS dispatches to an installed UPI app; other clients render it as
// a QR code instead.
func PaymentURL(p PaymentParams) string {
	v := url.Values{}
	v.Set("pa", p.PayeeVPA)
	v.Set("pn", p.PayeeName)
	v.Set("am", FormatAmount(p.AmountPaise))
	if p.TransactionNote != "" {
		v.Set("tn", p.TransactionNote)
	}
	if p.TransactionRef != "" {
		v.Set("tr", p.TransactionRef)
	}
	v.Set("cu", currency)

	return "upi://pay?" + v.Encode()
}

// QRCodePNG renders the deep link as a scannable PNG of size x size pixels.
func QRCodePNG(p PaymentParams, size int) ([]byte, error) {
	png, err := qrcode.Encode(PaymentURL(p), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment QR: %w", err)
	}
	return png, nil
}

var mobileUA = regexp.MustCompile(`(?i)Android|webOS|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)

// IsMobileUserAgent is a UX heuristic for choosing redirect vs QR rendering.
// It is not security relevant.
func IsMobileUserAgent(ua string) bool {
	return mobileUA.MatchString(ua)
}

// FormatAmount converts paise to the major-unit decimal string the am
// parameter expects. Whole rupee amounts drop the fraction.
func FormatAmount(paise int64) string {
	if paise%100 == 0 {
		return fmt.Sprintf("%d", paise/100)
	}
	return fmt.Sprintf("%d.%02d", paise/100, paise%100)
}

// RupeesToPaise rounds a major-unit amount to the nearest paisa.
func RupeesToPaise(rupees float64) int64 {
	return int64(rupees*100 + 0.5)
}

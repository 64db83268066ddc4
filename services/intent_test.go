package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Aditya-Vasipalli/buymechai/models"
	"github.com/Aditya-Vasipalli/buymechai/token"
)

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type testEnv struct {
	clock    *testClock
	intents  *fakeIntentStore
	ledger   *fakeLedger
	goals    *fakeGoalStore
	creators *fakeCreatorStore
	intent   *IntentService
	verify   *VerificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	intents := newFakeIntentStore()
	ledger := newFakeLedger()
	goals := newFakeGoalStore()
	creators := newFakeCreatorStore()

	creators.creators["c1"] = &models.Creator{ID: "c1", Username: "asha", DisplayName: "Asha's Chai Stand", UpiVPA: "asha@upi"}
	creators.creators["c2"] = &models.Creator{ID: "c2", Username: "ravi", DisplayName: "Ravi", UpiVPA: "ravi@upi"}
	creators.members["tm1"] = &models.TeamMember{ID: "tm1", CreatorID: "c1", Name: "Meera", UpiVPA: "meera@upi"}

	intentSvc := NewIntentService(intents, creators, token.NewGenerator(token.ShortForm), 30*time.Minute)
	intentSvc.now = clock.Now

	verifySvc := NewVerificationService(intents, ledger, NewLedgerProjector(goals))
	verifySvc.now = clock.Now

	return &testEnv{
		clock:    clock,
		intents:  intents,
		ledger:   ledger,
		goals:    goals,
		creators: creators,
		intent:   intentSvc,
		verify:   verifySvc,
	}
}

func (e *testEnv) mustCreateIntent(t *testing.T, req *models.CreateIntentRequest) *models.CreateIntentResponse {
	t.Helper()
	resp, err := e.intent.CreateIntent(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateIntent() error = %v", err)
	}
	return resp
}

func TestCreateIntent_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		req  *models.CreateIntentRequest
	}{
		{"missing creator", &models.CreateIntentRequest{AmountPaise: 5000, SupporterName: "Asha"}},
		{"missing amount", &models.CreateIntentRequest{CreatorID: "c1", SupporterName: "Asha"}},
		{"negative amount", &models.CreateIntentRequest{CreatorID: "c1", AmountPaise: -100, SupporterName: "Asha"}},
		{"missing supporter name", &models.CreateIntentRequest{CreatorID: "c1", AmountPaise: 5000}},
		{"oversized supporter name", &models.CreateIntentRequest{CreatorID: "c1", AmountPaise: 5000, SupporterName: strings.Repeat("a", 101)}},
		{"oversized message", &models.CreateIntentRequest{CreatorID: "c1", AmountPaise: 5000, SupporterName: "Asha", SupporterMessage: strings.Repeat("m", 501)}},
		{"unknown creator", &models.CreateIntentRequest{CreatorID: "nope", AmountPaise: 5000, SupporterName: "Asha"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.intent.CreateIntent(context.Background(), tt.req)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("CreateIntent() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreateIntent_ReturnsTokenExpiryAndDeepLink(t *testing.T) {
	env := newTestEnv(t)

	resp := env.mustCreateIntent(t, &models.CreateIntentRequest{
		CreatorID:     "c1",
		AmountPaise:   5000,
		SupporterName: "Asha",
	})

	if !strings.HasPrefix(resp.Token, token.Prefix+"-") {
		t.Errorf("CreateIntent() token = %q, want %q prefix", resp.Token, token.Prefix)
	}

	wantExpiry := env.clock.Now().Add(30 * time.Minute)
	if !resp.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("CreateIntent() expires_at = %v, want %v", resp.ExpiresAt, wantExpiry)
	}

	u, err := url.Parse(resp.UpiURL)
	if err != nil {
		t.Fatalf("CreateIntent() upi_url unparseable: %v", err)
	}
	q := u.Query()
	if got := q.Get("tn"); got != resp.Token {
		t.Errorf("CreateIntent() note = %q, want token %q", got, resp.Token)
	}
	if got := q.Get("pa"); got != "asha@upi" {
		t.Errorf("CreateIntent() payee = %q, want creator VPA", got)
	}
	if got := q.Get("am"); got != "50" {
		t.Errorf("CreateIntent() amount = %q, want %q", got, "50")
	}
}

func TestCreateIntent_TeamMemberPayee(t *testing.T) {
	env := newTestEnv(t)

	memberID := "tm1"
	resp := env.mustCreateIntent(t, &models.CreateIntentRequest{
		CreatorID:     "c1",
		AmountPaise:   5000,
		SupporterName: "Asha",
		TeamMemberID:  &memberID,
	})

	u, _ := url.Parse(resp.UpiURL)
	if got := u.Query().Get("pa"); got != "meera@upi" {
		t.Errorf("CreateIntent() payee = %q, want team member VPA", got)
	}
}

func TestCreateIntent_TokensUnique(t *testing.T) {
	env := newTestEnv(t)

	seen := make(map[string]bool, 200)
	for i := 0; i < 200; i++ {
		resp := env.mustCreateIntent(t, &models.CreateIntentRequest{
			CreatorID:     "c1",
			AmountPaise:   5000,
			SupporterName: "Asha",
		})
		if seen[resp.Token] {
			t.Fatalf("CreateIntent() returned duplicate token %q", resp.Token)
		}
		seen[resp.Token] = true
	}
}

func TestListActiveIntents_ExcludesExpiredAndUsed(t *testing.T) {
	env := newTestEnv(t)

	fresh := env.mustCreateIntent(t, &models.CreateIntentRequest{CreatorID: "c1", AmountPaise: 1000, SupporterName: "A"})
	stale := env.mustCreateIntent(t, &models.CreateIntentRequest{CreatorID: "c1", AmountPaise: 2000, SupporterName: "B"})

	if _, err := env.verify.Verify(context.Background(), &models.VerifyRequest{Token: stale.Token, CreatorID: "c1"}); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	active, err := env.intent.ListActiveIntents(context.Background(), "c1")
	if err != nil {
		t.Fatalf("ListActiveIntents() error = %v", err)
	}
	if len(active) != 1 || active[0].PaymentUID != fresh.Token {
		t.Fatalf("ListActiveIntents() = %d intents, want only the unused fresh one", len(active))
	}

	env.clock.Advance(31 * time.Minute)
	active, err = env.intent.ListActiveIntents(context.Background(), "c1")
	if err != nil {
		t.Fatalf("ListActiveIntents() error = %v", err)
	}
	if len(active) != 0 {
		t.Errorf("ListActiveIntents() after expiry = %d intents, want 0", len(active))
	}
}

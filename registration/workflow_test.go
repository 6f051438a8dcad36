package registration

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"esports-registration/models"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n")

func pngOf(size int) []byte {
	data := make([]byte, size)
	copy(data, pngHeader)
	return data
}

func testCatalog() ([]models.Game, []models.Tournament) {
	games := []models.Game{
		{ID: "bgmi", Name: "BGMI"},
		{ID: "pubg", Name: "PUBG Mobile"},
		{ID: "valorant", Name: "Valorant"},
	}
	tournaments := []models.Tournament{
		{ID: "bgmi-championship", Title: "BGMI Championship 2025", Game: "BGMI", Date: "2025-02-15",
			Prize: "₹5,00,000", EntryFee: "₹500", MaxPlayers: 100, RegisteredPlayers: 67, Status: models.TournamentUpcoming},
		{ID: "pubg-pro-league", Title: "PUBG Mobile Pro League", Game: "PUBG Mobile", Date: "2025-02-20",
			Prize: "₹3,00,000", EntryFee: "₹300", MaxPlayers: 80, RegisteredPlayers: 45, Status: models.TournamentUpcoming},
		{ID: "bgmi-weekly", Title: "BGMI Weekly Challenge", Game: "BGMI", Date: "2025-02-08",
			Prize: "₹50,000", EntryFee: "₹100", MaxPlayers: 64, RegisteredPlayers: 32, Status: models.TournamentUpcoming},
	}
	return games, tournaments
}

func newTestWorkflow() Workflow {
	games, tournaments := testCatalog()
	return New(games, tournaments, DefaultPolicy())
}

func strp(s string) *string { return &s }

func filledWorkflow(t *testing.T) Workflow {
	t.Helper()
	w, err := newTestWorkflow().Apply(Patch{
		Name:       strp("Arjun"),
		Email:      strp("arjun@example.com"),
		Phone:      strp("+91 98765 43210"),
		Tournament: strp("bgmi-championship"),
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return w
}

func paymentWorkflow(t *testing.T) Workflow {
	t.Helper()
	w, err := filledWorkflow(t).Continue()
	if err != nil {
		t.Fatalf("Continue: %v", err)
	}
	return w
}

func ids(ts []models.Tournament) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func TestNewStartsCollectingInfo(t *testing.T) {
	w := newTestWorkflow()
	if w.Step != CollectingInfo {
		t.Fatalf("step = %s", w.Step)
	}
	if w.Form.PlayerLevel != Beginner {
		t.Fatalf("player level = %q, want beginner", w.Form.PlayerLevel)
	}
}

type stubCatalog struct {
	games       []models.Game
	tournaments []models.Tournament
	block       bool
}

func (c stubCatalog) ListGames(ctx context.Context) ([]models.Game, error) {
	if c.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return c.games, nil
}

func (c stubCatalog) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	return c.tournaments, nil
}

func TestStart(t *testing.T) {
	games, tournaments := testCatalog()
	w, err := Start(context.Background(), stubCatalog{games: games, tournaments: tournaments}, DefaultPolicy())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(w.Games) != 3 || len(w.Tournaments) != 3 {
		t.Fatalf("catalog not loaded: %d games, %d tournaments", len(w.Games), len(w.Tournaments))
	}

	p := DefaultPolicy()
	p.CallTimeout = 10 * time.Millisecond
	if _, err := Start(context.Background(), stubCatalog{block: true}, p); !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestAvailableTournamentsFilterByGame(t *testing.T) {
	w := newTestWorkflow()

	tests := []struct {
		game string
		want []string
	}{
		{"", []string{"bgmi-championship", "pubg-pro-league", "bgmi-weekly"}},
		{"BGMI", []string{"bgmi-championship", "bgmi-weekly"}},
		{"PUBG Mobile", []string{"pubg-pro-league"}},
		{"Valorant", []string{}},
		{"bgmi", []string{}},
	}
	for _, tt := range tests {
		got := ids(w.SelectGame(tt.game).AvailableTournaments())
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("game %q: got %v, want %v", tt.game, got, tt.want)
		}
	}
}

func TestSelectTournamentOverridesGame(t *testing.T) {
	w := newTestWorkflow().SelectGame("Valorant").SelectTournament("pubg-pro-league")
	if w.Form.Game != "PUBG Mobile" {
		t.Fatalf("game = %q, want PUBG Mobile", w.Form.Game)
	}

	// Unknown ids leave the game alone and fail validation later.
	w = newTestWorkflow().SelectGame("BGMI").SelectTournament("nope")
	if w.Form.Game != "BGMI" || w.Form.Tournament != "nope" {
		t.Fatalf("unexpected form %+v", w.Form)
	}
}

func TestSelectGameClearsForeignTournament(t *testing.T) {
	w := newTestWorkflow().SelectTournament("bgmi-weekly")

	if got := w.SelectGame("BGMI").Form.Tournament; got != "bgmi-weekly" {
		t.Fatalf("same game should keep tournament, got %q", got)
	}
	if got := w.SelectGame("PUBG Mobile").Form.Tournament; got != "" {
		t.Fatalf("other game should clear tournament, got %q", got)
	}
}

func TestApplyTournamentWinsOverGame(t *testing.T) {
	w, err := newTestWorkflow().Apply(Patch{Game: strp("Valorant"), Tournament: strp("bgmi-weekly")})
	if err != nil {
		t.Fatal(err)
	}
	if w.Form.Game != "BGMI" || w.Form.Tournament != "bgmi-weekly" {
		t.Fatalf("unexpected form %+v", w.Form)
	}
}

func TestTransitionsDoNotMutateReceiver(t *testing.T) {
	w := filledWorkflow(t)
	before := w.Form

	_ = w.SelectGame("PUBG Mobile")
	_, _ = w.Apply(Patch{Name: strp("Someone Else")})
	_, _ = w.Continue()

	if w.Form != before || w.Step != CollectingInfo || w.Selected != nil {
		t.Fatalf("receiver mutated: %+v", w)
	}
}

func TestContinueCachesTournamentUnchanged(t *testing.T) {
	_, tournaments := testCatalog()
	w := paymentWorkflow(t)

	if w.Step != ConfirmingPayment {
		t.Fatalf("step = %s", w.Step)
	}
	if w.Selected == nil || !reflect.DeepEqual(*w.Selected, tournaments[0]) {
		t.Fatalf("selected = %+v, want %+v", w.Selected, tournaments[0])
	}
}

func TestContinueValidation(t *testing.T) {
	tests := []struct {
		name  string
		patch Patch
		field string
	}{
		{"missing name", Patch{Name: strp("")}, "name"},
		{"missing email", Patch{Email: strp(" ")}, "email"},
		{"bad email", Patch{Email: strp("not-an-email")}, "email"},
		{"missing tournament", Patch{Tournament: strp("")}, "tournament"},
		{"unknown tournament", Patch{Tournament: strp("ghost-cup")}, "tournament"},
		{"bad level", Patch{PlayerLevel: strp("godlike")}, "player_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := filledWorkflow(t).Apply(tt.patch)
			if err != nil {
				t.Fatal(err)
			}
			next, err := w.Continue()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Fatalf("field = %q, want %q", verr.Field, tt.field)
			}
			if next.Step != CollectingInfo {
				t.Fatalf("step = %s, want collecting_info", next.Step)
			}
		})
	}
}

func TestContinueRejectsMismatchedGame(t *testing.T) {
	w := filledWorkflow(t)
	w.Form.Game = "PUBG Mobile" // bypasses SelectGame
	if _, err := w.Continue(); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestPhoneRequiredPolicy(t *testing.T) {
	w, _ := filledWorkflow(t).Apply(Patch{Phone: strp("")})
	if _, err := w.Continue(); err != nil {
		t.Fatalf("phone optional by default: %v", err)
	}

	p := DefaultPolicy()
	p.PhoneRequired = true
	_, err := w.WithPolicy(p).Continue()
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "phone" {
		t.Fatalf("expected phone ValidationError, got %v", err)
	}
}

func TestBackPreservesValues(t *testing.T) {
	w := paymentWorkflow(t)
	w, err := w.AttachScreenshot(Screenshot{Filename: "pay.png", Data: pngOf(64)})
	if err != nil {
		t.Fatal(err)
	}
	back, err := w.Back()
	if err != nil {
		t.Fatal(err)
	}
	if back.Step != CollectingInfo || back.Form != w.Form || back.Screenshot == nil {
		t.Fatalf("back lost state: %+v", back)
	}
	if _, err := back.Back(); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("Back from collecting_info: %v", err)
	}
}

func TestWrongStep(t *testing.T) {
	w := newTestWorkflow()
	if _, err := w.AttachScreenshot(Screenshot{Data: pngOf(10)}); !errors.Is(err, ErrWrongStep) {
		t.Errorf("AttachScreenshot: %v", err)
	}
	if _, err := w.Submit(context.Background(), &fakeDirectory{}); !errors.Is(err, ErrWrongStep) {
		t.Errorf("Submit: %v", err)
	}
	if _, err := paymentWorkflow(t).Apply(Patch{Name: strp("x")}); !errors.Is(err, ErrWrongStep) {
		t.Errorf("Apply: %v", err)
	}
	if _, err := paymentWorkflow(t).Continue(); !errors.Is(err, ErrWrongStep) {
		t.Errorf("Continue: %v", err)
	}
}

func TestAttachScreenshot(t *testing.T) {
	w := paymentWorkflow(t)

	if _, err := w.AttachScreenshot(Screenshot{Filename: "notes.txt", Data: []byte("hello world")}); err == nil {
		t.Error("expected non-image to be rejected")
	}
	if _, err := w.AttachScreenshot(Screenshot{Filename: "empty.png"}); err == nil {
		t.Error("expected empty file to be rejected")
	}

	big := pngOf(int(DefaultMaxScreenshotBytes) + 1)
	next, err := w.AttachScreenshot(Screenshot{Filename: "big.png", Data: big})
	var tooLarge *FileTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("expected FileTooLargeError, got %v", err)
	}
	if next.Screenshot != nil {
		t.Fatal("rejected file must not be attached")
	}

	next, err = w.AttachScreenshot(Screenshot{Filename: "pay.png", Data: pngOf(128)})
	if err != nil {
		t.Fatal(err)
	}
	if next.Screenshot.ContentType != "image/png" {
		t.Fatalf("content type = %q", next.Screenshot.ContentType)
	}

	// Replacing the file forgets a cached upload.
	next.UploadedURL = "https://cdn.example/payments/old.png"
	next, err = next.AttachScreenshot(Screenshot{Filename: "new.png", Data: pngOf(256)})
	if err != nil {
		t.Fatal(err)
	}
	if next.UploadedURL != "" || next.Screenshot.Filename != "new.png" {
		t.Fatalf("unexpected state after replace: %+v", next)
	}
}

func TestResetKeepsCatalog(t *testing.T) {
	w := paymentWorkflow(t)
	w, _ = w.AttachScreenshot(Screenshot{Filename: "pay.png", Data: pngOf(32)})

	r := w.Reset()
	if r.Step != CollectingInfo || r.Form != (Form{PlayerLevel: Beginner}) {
		t.Fatalf("reset left form: %+v", r.Form)
	}
	if r.Screenshot != nil || r.Selected != nil || r.Receipt != nil {
		t.Fatal("reset left workflow data")
	}
	if len(r.Tournaments) != len(w.Tournaments) {
		t.Fatal("reset dropped the catalog")
	}
}

func TestViewHidesScreenshotBytes(t *testing.T) {
	w := paymentWorkflow(t)
	w, _ = w.AttachScreenshot(Screenshot{Filename: "pay.png", Data: pngOf(300)})

	v := w.View()
	if v.Screenshot == nil || v.Screenshot.Size != 300 || v.Screenshot.Uploaded {
		t.Fatalf("unexpected screenshot info %+v", v.Screenshot)
	}
	if !bytes.HasPrefix(w.Screenshot.Data, pngHeader) {
		t.Fatal("workflow lost screenshot data")
	}
	if got := ids(v.AvailableTournaments); !reflect.DeepEqual(got, []string{"bgmi-championship", "bgmi-weekly"}) {
		t.Fatalf("available = %v", got)
	}
}

func TestValidEmail(t *testing.T) {
	for _, s := range []string{"a@b.co", "player.one+cup@mail.example.in"} {
		if !ValidEmail(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []string{"", "not-an-email", "a@b", "a b@c.d", "@b.co"} {
		if ValidEmail(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}

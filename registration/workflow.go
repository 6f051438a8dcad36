// Package registration implements the tournament registration wizard:
// player info, payment confirmation, success.
//
// A Workflow is a value. Every transition returns a new Workflow and leaves
// the receiver untouched, so callers own the state and can keep, persist or
// discard any version of it.
package registration

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strings"
	"time"

	"esports-registration/models"
)

// Step is a wizard state.
type Step string

const (
	CollectingInfo    Step = "collecting_info"
	ConfirmingPayment Step = "confirming_payment"
	Submitted         Step = "submitted"
)

// PlayerLevel is the self-declared skill bracket.
type PlayerLevel string

const (
	Beginner     PlayerLevel = "beginner"
	Intermediate PlayerLevel = "intermediate"
	Advanced     PlayerLevel = "advanced"
	Pro          PlayerLevel = "pro"
)

func (l PlayerLevel) Valid() bool {
	switch l {
	case Beginner, Intermediate, Advanced, Pro:
		return true
	}
	return false
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool { return emailPattern.MatchString(s) }

// Form is the player-entered data.
type Form struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Team        string      `json:"team"`
	Game        string      `json:"game"`       // game name
	Tournament  string      `json:"tournament"` // tournament id
	PlayerLevel PlayerLevel `json:"player_level"`
}

// Screenshot is the payment confirmation image.
type Screenshot struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

func (s *Screenshot) Size() int64 { return int64(len(s.Data)) }

// Patch carries a partial edit of the form; nil fields are left alone.
type Patch struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Team        *string `json:"team"`
	Game        *string `json:"game"`
	Tournament  *string `json:"tournament"`
	PlayerLevel *string `json:"player_level"`
}

// Workflow is one player's registration attempt.
type Workflow struct {
	Step Step `json:"step"`
	Form Form `json:"form"`

	// Catalog as fetched at Start, in directory order. Never mutated.
	Games       []models.Game       `json:"games"`
	Tournaments []models.Tournament `json:"tournaments"`

	// Selected is cached by Continue for the payment step.
	Selected   *models.Tournament `json:"selected,omitempty"`
	Screenshot *Screenshot        `json:"screenshot,omitempty"`

	// UploadedURL is set when the current screenshot reached storage but the
	// record was not created; a retry reuses it instead of uploading again.
	UploadedURL string    `json:"uploaded_url,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`

	// Receipt is the record created by a successful Submit.
	Receipt *models.Registration `json:"receipt,omitempty"`

	Policy Policy `json:"-"`
}

// New returns a workflow over an already fetched catalog.
func New(games []models.Game, tournaments []models.Tournament, policy Policy) Workflow {
	return Workflow{
		Step:        CollectingInfo,
		Form:        Form{PlayerLevel: Beginner},
		Games:       games,
		Tournaments: tournaments,
		Policy:      policy,
	}
}

// Start fetches the catalog and returns a fresh workflow.
func Start(ctx context.Context, catalog Catalog, policy Policy) (Workflow, error) {
	p := policy.withDefaults()

	games, err := bounded(ctx, p.CallTimeout, catalog.ListGames)
	if err != nil {
		return Workflow{}, fmt.Errorf("failed to load games: %w", err)
	}
	tournaments, err := bounded(ctx, p.CallTimeout, catalog.ListTournaments)
	if err != nil {
		return Workflow{}, fmt.Errorf("failed to load tournaments: %w", err)
	}
	return New(games, tournaments, policy), nil
}

func (w Workflow) policy() Policy { return w.Policy.withDefaults() }

// WithPolicy returns w governed by p.
func (w Workflow) WithPolicy(p Policy) Workflow {
	w.Policy = p
	return w
}

// AvailableTournaments lists the tournaments selectable for the current game:
// those whose Game equals it, or all of them when no game is chosen.
func (w Workflow) AvailableTournaments() []models.Tournament {
	return FilterTournaments(w.Tournaments, w.Form.Game)
}

// FilterTournaments keeps the tournaments of game, preserving order.
func FilterTournaments(tournaments []models.Tournament, game string) []models.Tournament {
	if game == "" {
		return slices.Clone(tournaments)
	}
	out := make([]models.Tournament, 0, len(tournaments))
	for _, t := range tournaments {
		if t.Game == game {
			out = append(out, t)
		}
	}
	return out
}

func (w Workflow) tournament(id string) (models.Tournament, bool) {
	for _, t := range w.Tournaments {
		if t.ID == id {
			return t, true
		}
	}
	return models.Tournament{}, false
}

// SelectGame sets the game. A selected tournament of another game is cleared.
func (w Workflow) SelectGame(game string) Workflow {
	w.Form.Game = game
	if w.Form.Tournament != "" {
		if t, ok := w.tournament(w.Form.Tournament); !ok || (game != "" && t.Game != game) {
			w.Form.Tournament = ""
		}
	}
	return w
}

// SelectTournament sets the tournament and derives the game from it.
func (w Workflow) SelectTournament(id string) Workflow {
	w.Form.Tournament = id
	if t, ok := w.tournament(id); ok {
		w.Form.Game = t.Game
	}
	return w
}

// Apply edits the form. Game is applied before tournament so that the
// tournament's game wins when both are given.
func (w Workflow) Apply(p Patch) (Workflow, error) {
	if w.Step != CollectingInfo {
		return w, ErrWrongStep
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&w.Form.Name, p.Name)
	set(&w.Form.Email, p.Email)
	set(&w.Form.Phone, p.Phone)
	set(&w.Form.Team, p.Team)
	if p.PlayerLevel != nil {
		w.Form.PlayerLevel = PlayerLevel(strings.ToLower(strings.TrimSpace(*p.PlayerLevel)))
	}
	if p.Game != nil {
		w = w.SelectGame(strings.TrimSpace(*p.Game))
	}
	if p.Tournament != nil {
		w = w.SelectTournament(strings.TrimSpace(*p.Tournament))
	}
	return w, nil
}

// Validate checks the player-info step.
func (w Workflow) Validate() error {
	f := w.Form
	switch {
	case f.Name == "":
		return &ValidationError{Field: "name", Message: "name is required"}
	case f.Email == "":
		return &ValidationError{Field: "email", Message: "email is required"}
	case !ValidEmail(f.Email):
		return &ValidationError{Field: "email", Message: "email address is invalid"}
	case w.policy().PhoneRequired && f.Phone == "":
		return &ValidationError{Field: "phone", Message: "phone is required"}
	case f.Game == "":
		return &ValidationError{Field: "game", Message: "game is required"}
	case f.Tournament == "":
		return &ValidationError{Field: "tournament", Message: "tournament is required"}
	}
	if f.PlayerLevel != "" && !f.PlayerLevel.Valid() {
		return &ValidationError{Field: "player_level", Message: fmt.Sprintf("unknown player level %q", f.PlayerLevel)}
	}
	t, ok := w.tournament(f.Tournament)
	if !ok {
		return &ValidationError{Field: "tournament", Message: "tournament not found"}
	}
	if t.Game != f.Game {
		return &ValidationError{Field: "tournament", Message: fmt.Sprintf("tournament %q is not a %s tournament", t.Title, f.Game)}
	}
	return nil
}

// Continue moves to the payment step and caches the selected tournament.
func (w Workflow) Continue() (Workflow, error) {
	if w.Step != CollectingInfo {
		return w, ErrWrongStep
	}
	if err := w.Validate(); err != nil {
		return w, err
	}
	t, _ := w.tournament(w.Form.Tournament)
	if w.Form.PlayerLevel == "" {
		w.Form.PlayerLevel = Beginner
	}
	w.Selected = &t
	w.Step = ConfirmingPayment
	return w, nil
}

// Back returns to the player-info step keeping everything entered.
func (w Workflow) Back() (Workflow, error) {
	if w.Step != ConfirmingPayment {
		return w, ErrWrongStep
	}
	w.Step = CollectingInfo
	return w, nil
}

// AttachScreenshot sets the payment screenshot. Non-images and files over the
// limit are rejected and w is returned unchanged.
func (w Workflow) AttachScreenshot(s Screenshot) (Workflow, error) {
	if w.Step != ConfirmingPayment {
		return w, ErrWrongStep
	}
	if limit := w.policy().MaxScreenshotBytes; s.Size() > limit {
		return w, &FileTooLargeError{Size: s.Size(), Limit: limit}
	}
	if s.Size() == 0 {
		return w, &ValidationError{Field: "payment_screenshot", Message: "payment screenshot is empty"}
	}
	detected := http.DetectContentType(s.Data)
	if !strings.HasPrefix(detected, "image/") {
		return w, &ValidationError{Field: "payment_screenshot", Message: "payment screenshot must be an image"}
	}
	if !strings.HasPrefix(s.ContentType, "image/") {
		s.ContentType = detected
	}
	w.Screenshot = &s
	w.UploadedURL = ""
	w.UploadedAt = time.Time{}
	return w, nil
}

// Reset starts over for another player. The catalog is kept.
func (w Workflow) Reset() Workflow {
	return New(w.Games, w.Tournaments, w.Policy)
}

package services

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"esports-registration/registration"
	"esports-registration/sessions"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	saveAttempts = 3
	saveBackoff  = 100 * time.Millisecond
)

// RegistrationService hosts one registration workflow per session.
type RegistrationService struct {
	Directory registration.Directory
	Sessions  sessions.Store
	Policy    registration.Policy

	// Concurrent submits for the same session in this process share one
	// upload+create; Sessions.Lock covers other replicas.
	inflight singleflight.Group
}

func NewRegistrationService(dir registration.Directory, store sessions.Store, policy registration.Policy) *RegistrationService {
	return &RegistrationService{Directory: dir, Sessions: store, Policy: policy}
}

type sessionResponse struct {
	SessionID string            `json:"session_id"`
	Session   registration.View `json:"session"`
}

func (s *RegistrationService) load(ctx context.Context, id string) (registration.Workflow, error) {
	w, err := s.Sessions.Load(ctx, id)
	if err != nil {
		return w, err
	}
	return w.WithPolicy(s.Policy), nil
}

func (s *RegistrationService) respond(c *fiber.Ctx, status int, id string, w registration.Workflow) error {
	return c.Status(status).JSON(sessionResponse{SessionID: id, Session: w.View()})
}

func (s *RegistrationService) lockTTL() time.Duration {
	timeout := s.Policy.CallTimeout
	if timeout <= 0 {
		timeout = registration.DefaultCallTimeout
	}
	// Upload and create are each bounded by the call timeout; the rest covers load and save.
	return 2*timeout + 10*time.Second
}

// saveWithRetry retries a failed save a few times before giving up.
func (s *RegistrationService) saveWithRetry(ctx context.Context, id string, w registration.Workflow) error {
	var err error
	for attempt := 1; attempt <= saveAttempts; attempt++ {
		if err = s.Sessions.Save(ctx, id, w); err == nil {
			return nil
		}
		log.Printf("⚠️ [REGISTRATION] Save of session %s failed (attempt %d/%d): %v", id, attempt, saveAttempts, err)
		if attempt < saveAttempts {
			time.Sleep(time.Duration(attempt) * saveBackoff)
		}
	}
	return err
}

// transition loads the session under its lock, applies fn and saves the
// result. Failed transitions leave the stored session untouched.
func (s *RegistrationService) transition(c *fiber.Ctx, fn func(registration.Workflow) (registration.Workflow, error)) error {
	ctx := c.UserContext()
	id := c.Params("id")

	unlock, err := s.Sessions.Lock(ctx, id, s.lockTTL())
	if err != nil {
		return respondError(c, err, nil)
	}
	defer unlock()

	w, err := s.load(ctx, id)
	if err != nil {
		return respondError(c, err, nil)
	}
	next, err := fn(w)
	if err != nil {
		view := w.View()
		return respondError(c, err, &view)
	}
	if err := s.Sessions.Save(ctx, id, next); err != nil {
		log.Printf("❌ [REGISTRATION] Failed to save session %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save registration session"})
	}
	return s.respond(c, fiber.StatusOK, id, next)
}

// CreateSession starts a workflow with a freshly fetched catalog.
func (s *RegistrationService) CreateSession(c *fiber.Ctx) error {
	ctx := c.UserContext()
	w, err := registration.Start(ctx, s.Directory, s.Policy)
	if err != nil {
		log.Printf("❌ [REGISTRATION] %v", err)
		if errors.Is(err, registration.ErrTimeout) {
			return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"error": "timed out loading games and tournaments"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load games and tournaments"})
	}

	// Optional preselection, e.g. /register/:game links from the games page.
	if game := c.Query("game"); game != "" {
		w = w.SelectGame(game)
	}
	if tournament := c.Query("tournament"); tournament != "" {
		w = w.SelectTournament(tournament)
	}

	id := uuid.NewString()
	if err := s.Sessions.Save(ctx, id, w); err != nil {
		log.Printf("❌ [REGISTRATION] Failed to save session %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save registration session"})
	}
	return s.respond(c, fiber.StatusCreated, id, w)
}

func (s *RegistrationService) GetSession(c *fiber.Ctx) error {
	id := c.Params("id")
	w, err := s.load(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, nil)
	}
	return s.respond(c, fiber.StatusOK, id, w)
}

// UpdateInfo applies a partial edit of the player-info form.
func (s *RegistrationService) UpdateInfo(c *fiber.Ctx) error {
	var patch registration.Patch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	return s.transition(c, func(w registration.Workflow) (registration.Workflow, error) {
		return w.Apply(patch)
	})
}

func (s *RegistrationService) Continue(c *fiber.Ctx) error {
	return s.transition(c, registration.Workflow.Continue)
}

func (s *RegistrationService) Back(c *fiber.Ctx) error {
	return s.transition(c, registration.Workflow.Back)
}

func (s *RegistrationService) Reset(c *fiber.Ctx) error {
	return s.transition(c, func(w registration.Workflow) (registration.Workflow, error) {
		return w.Reset(), nil
	})
}

// AttachScreenshot reads the multipart field "payment_screenshot".
func (s *RegistrationService) AttachScreenshot(c *fiber.Ctx) error {
	fh, err := c.FormFile("payment_screenshot")
	if err != nil {
		return respondError(c, &registration.ValidationError{
			Field:   "payment_screenshot",
			Message: "payment screenshot required",
		}, nil)
	}

	limit := s.Policy.MaxScreenshotBytes
	if limit <= 0 {
		limit = registration.DefaultMaxScreenshotBytes
	}
	if fh.Size > limit {
		return respondError(c, &registration.FileTooLargeError{Size: fh.Size, Limit: limit}, nil)
	}

	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to read file"})
	}

	shot := registration.Screenshot{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}
	return s.transition(c, func(w registration.Workflow) (registration.Workflow, error) {
		return w.AttachScreenshot(shot)
	})
}

type submitOutcome struct {
	workflow registration.Workflow
	saveErr  error
}

// Submit performs the upload and record creation while holding the session
// lock, so only one submit per session runs across all replicas. A duplicate
// submit in this process waits for the running one and shares its outcome;
// one on another replica gets ErrLocked; one that arrives afterwards sees the
// submitted session and is rejected.
func (s *RegistrationService) Submit(c *fiber.Ctx) error {
	id := c.Params("id")
	ctx := context.WithoutCancel(c.UserContext())

	v, err, shared := s.inflight.Do(id, func() (interface{}, error) {
		unlock, err := s.Sessions.Lock(ctx, id, s.lockTTL())
		if err != nil {
			return nil, err
		}
		defer unlock()

		w, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		next, submitErr := w.Submit(ctx, s.Directory)
		out := submitOutcome{workflow: next}
		if submitErr == nil || next.UploadedURL != w.UploadedURL {
			out.saveErr = s.saveWithRetry(ctx, id, next)
		}
		return out, submitErr
	})
	if shared {
		log.Printf("[REGISTRATION] Coalesced duplicate submit for session %s", id)
	}

	out, ok := v.(submitOutcome)
	if err != nil {
		if !ok {
			return respondError(c, err, nil)
		}
		view := out.workflow.View()
		return respondError(c, err, &view)
	}

	next := out.workflow
	if out.saveErr != nil {
		// The record exists; the client must not submit again.
		log.Printf("❌ [REGISTRATION] Registration %s created but session %s was not saved: %v", next.Receipt.ID, id, out.saveErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":      "registration submitted but the session could not be saved; do not submit again",
			"session_id": id,
			"session":    next.View(),
		})
	}

	log.Printf("✅ [REGISTRATION] Registration %s created for tournament %s (payment pending)",
		next.Receipt.ID, next.Receipt.TournamentID)
	return s.respond(c, fiber.StatusCreated, id, next)
}

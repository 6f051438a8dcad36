package registration

import (
	"context"
	"log"
	"time"

	"esports-registration/models"
)

// Submit uploads the screenshot and creates the registration record.
//
// On any failure the returned workflow stays in ConfirmingPayment with the form
// and screenshot intact. When the upload succeeded but the record did not, the
// returned workflow remembers the upload URL so a retry only creates the record.
func (w Workflow) Submit(ctx context.Context, dir Directory) (Workflow, error) {
	if w.Step != ConfirmingPayment {
		return w, ErrWrongStep
	}
	if w.Screenshot == nil {
		return w, &ValidationError{Field: "payment_screenshot", Message: "payment screenshot required"}
	}
	p := w.policy()
	if size := w.Screenshot.Size(); size > p.MaxScreenshotBytes {
		return w, &FileTooLargeError{Size: size, Limit: p.MaxScreenshotBytes}
	}

	now := p.Now()
	url := w.UploadedURL
	if url != "" && p.UploadReuseWindow > 0 && now.Sub(w.UploadedAt) >= p.UploadReuseWindow {
		log.Printf("[REGISTRATION] Cached upload %s is older than %s, uploading again", url, p.UploadReuseWindow)
		url = ""
	}
	if url == "" {
		key := p.NewKey(now, w.Screenshot.Filename)
		uploaded, err := bounded(ctx, p.CallTimeout, func(ctx context.Context) (string, error) {
			return dir.UploadFile(ctx, w.Screenshot.Data, key, w.Screenshot.ContentType)
		})
		if err != nil {
			return w, &UploadError{Key: key, Err: err}
		}
		log.Printf("[REGISTRATION] 📤 Uploaded payment screenshot to %s", key)
		url = uploaded
		w.UploadedURL = url
		w.UploadedAt = now
	}

	rec := &models.Registration{
		Name:                 w.Form.Name,
		Email:                w.Form.Email,
		Phone:                w.Form.Phone,
		Team:                 w.Form.Team,
		Game:                 w.Form.Game,
		TournamentID:         w.Form.Tournament,
		PlayerLevel:          string(w.Form.PlayerLevel),
		PaymentScreenshotURL: url,
		PaymentStatus:        models.PaymentPending,
		RegistrationDate:     now.UTC(),
		CreatedAt:            now.UTC(),
	}
	if rec.PlayerLevel == "" {
		rec.PlayerLevel = string(Beginner)
	}
	id, err := bounded(ctx, p.CallTimeout, func(ctx context.Context) (string, error) {
		return dir.CreateRecord(ctx, models.CollectionRegistrations, rec)
	})
	if err != nil {
		return w, &PersistenceError{UploadURL: url, Err: err}
	}
	rec.ID = id

	w.Step = Submitted
	w.Receipt = rec
	w.Screenshot = nil
	w.UploadedURL = ""
	w.UploadedAt = time.Time{}
	return w, nil
}

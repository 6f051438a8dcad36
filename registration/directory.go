package registration

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"esports-registration/models"
	"esports-registration/utils"

	"github.com/google/uuid"
)

// DefaultMaxScreenshotBytes is the 5 MiB screenshot limit.
const DefaultMaxScreenshotBytes int64 = 5 * 1024 * 1024

// DefaultCallTimeout bounds every call into the directory.
const DefaultCallTimeout = 30 * time.Second

// Catalog is the read side of the directory.
type Catalog interface {
	ListGames(ctx context.Context) ([]models.Game, error)
	ListTournaments(ctx context.Context) ([]models.Tournament, error)
}

// Record is anything the directory can persist into a collection.
type Record interface {
	RecordID() string
}

// Directory is the external backend the workflow talks to.
type Directory interface {
	Catalog
	UploadFile(ctx context.Context, data []byte, key, contentType string) (string, error)
	CreateRecord(ctx context.Context, collection string, rec Record) (string, error)
}

// Policy holds the knobs of a workflow instance.
type Policy struct {
	PhoneRequired      bool          `json:"phone_required"`
	MaxScreenshotBytes int64         `json:"max_screenshot_bytes"`
	CallTimeout        time.Duration `json:"call_timeout"`
	// UploadReuseWindow bounds how long a cached upload URL may be reused by a
	// retry. Older uploads may have been swept, so they are uploaded again.
	// Zero reuses regardless of age.
	UploadReuseWindow time.Duration `json:"upload_reuse_window"`

	// Now and NewKey are replaced in tests.
	Now    func() time.Time                          `json:"-"`
	NewKey func(now time.Time, filename string) string `json:"-"`
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		MaxScreenshotBytes: DefaultMaxScreenshotBytes,
		CallTimeout:        DefaultCallTimeout,
	}
}

func (p Policy) withDefaults() Policy {
	if p.MaxScreenshotBytes <= 0 {
		p.MaxScreenshotBytes = DefaultMaxScreenshotBytes
	}
	if p.CallTimeout <= 0 {
		p.CallTimeout = DefaultCallTimeout
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	if p.NewKey == nil {
		p.NewKey = ScreenshotKey
	}
	return p
}

// ScreenshotKey builds "payments/<unix-ms>_<random>_<ascii filename>".
// Every call returns a fresh key, so retries never overwrite an earlier attempt.
func ScreenshotKey(now time.Time, filename string) string {
	name := utils.SafeFilename(filepath.Base(filename))
	return fmt.Sprintf("payments/%d_%s_%s", now.UnixMilli(), uuid.NewString()[:8], name)
}

// bounded runs fn with the policy timeout and tags deadline expiry with ErrTimeout.
func bounded[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	v, err := fn(ctx)
	if err != nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)) {
		return v, fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return v, err
}

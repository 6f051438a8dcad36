// workers/orphan_sweeper.go
package workers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"esports-registration/utils"
)

// ScreenshotPrefix is where payment screenshots are uploaded.
const ScreenshotPrefix = "payments/"

var ErrSweepRunning = errors.New("orphan sweep already running")

// ScreenshotIndex lists the screenshot URLs referenced by registrations.
type ScreenshotIndex interface {
	ReferencedScreenshotURLs(ctx context.Context) (map[string]struct{}, error)
}

// OrphanSweeper finds uploaded payment screenshots that no registration
// references, which happens when record creation fails after the upload.
type OrphanSweeper struct {
	Storage utils.ObjectStorage
	Index   ScreenshotIndex
	Prefix  string
	// Objects younger than Grace are skipped; their registration may still be in flight.
	Grace time.Duration
	// Delete removes orphans; otherwise they are only reported.
	Delete bool
	Now    func() time.Time

	running sync.Mutex
}

// SweepReport summarises one sweep.
type SweepReport struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Scanned    int       `json:"scanned"`
	Referenced int       `json:"referenced"`
	TooRecent  int       `json:"too_recent"`
	Orphans    []string  `json:"orphans"`
	Deleted    int       `json:"deleted"`
	Errors     []string  `json:"errors,omitempty"`
}

func NewOrphanSweeper(storage utils.ObjectStorage, index ScreenshotIndex, grace time.Duration, deleteOrphans bool) *OrphanSweeper {
	return &OrphanSweeper{
		Storage: storage,
		Index:   index,
		Prefix:  ScreenshotPrefix,
		Grace:   grace,
		Delete:  deleteOrphans,
		Now:     time.Now,
	}
}

// Sweep runs one reconciliation pass. Only one pass runs at a time.
func (w *OrphanSweeper) Sweep(ctx context.Context) (SweepReport, error) {
	if !w.running.TryLock() {
		return SweepReport{}, ErrSweepRunning
	}
	defer w.running.Unlock()

	now := w.Now()
	report := SweepReport{StartedAt: now, Orphans: []string{}}

	// Objects are listed before references are read, so a registration created
	// in between is seen as referencing its object.
	objects, err := w.Storage.List(ctx, w.Prefix)
	if err != nil {
		return report, fmt.Errorf("list screenshots: %w", err)
	}
	referenced, err := w.Index.ReferencedScreenshotURLs(ctx)
	if err != nil {
		return report, fmt.Errorf("load referenced screenshots: %w", err)
	}

	for _, obj := range objects {
		report.Scanned++
		if _, ok := referenced[w.Storage.URL(obj.Key)]; ok {
			report.Referenced++
			continue
		}
		if now.Sub(obj.LastModified) < w.Grace {
			report.TooRecent++
			continue
		}
		report.Orphans = append(report.Orphans, obj.Key)
		if !w.Delete {
			continue
		}
		if err := w.Storage.Delete(ctx, obj.Key); err != nil {
			report.Errors = append(report.Errors, err.Error())
			log.Printf("[SWEEP] ⚠️ Failed to delete orphan %s: %v", obj.Key, err)
			continue
		}
		report.Deleted++
	}

	report.FinishedAt = w.Now()
	log.Printf("[SWEEP] ✅ Scanned %d screenshot(s): %d referenced, %d too recent, %d orphan(s), %d deleted",
		report.Scanned, report.Referenced, report.TooRecent, len(report.Orphans), report.Deleted)
	return report, nil
}

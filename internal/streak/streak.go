package streak

import (
	"context"
	"time"

	"github.com/tmarques/flashdeck/internal/errors"
	"github.com/tmarques/flashdeck/internal/logger"
	"github.com/tmarques/flashdeck/internal/models"
	"github.com/tmarques/flashdeck/internal/store"
)

const dateLayout = "2006-01-02"

// Tracker maintains the consecutive-days-active counter. Touch runs once per
// app load; nothing watches for day boundaries crossing mid-session.
type Tracker struct {
	records *store.Records
}

// NewTracker creates a streak tracker over the given record store.
func NewTracker(records *store.Records) *Tracker {
	return &Tracker{records: records}
}

// Current returns the stored streak without modifying it.
func (t *Tracker) Current(ctx context.Context) (models.Streak, error) {
	st, err := t.records.Streak(ctx)
	if err != nil {
		return models.Streak{}, errors.NewInternalError(err)
	}
	return st, nil
}

// Touch updates the streak for an app load happening at now. A visit the
// calendar day after the last one extends the streak; any larger gap resets
// it to 1; a repeat visit on the same day changes nothing. The comparison is
// on calendar dates only, never time of day.
func (t *Tracker) Touch(ctx context.Context, now time.Time) (models.Streak, error) {
	log := logger.FromContext(ctx)

	st, err := t.records.Streak(ctx)
	if err != nil {
		return models.Streak{}, errors.NewInternalError(err)
	}

	today := now.Format(dateLayout)
	switch {
	case st.LastActiveDate == "":
		// First run: record the day, leave the count alone.
	case st.LastActiveDate == today:
		return st, nil
	default:
		last, err := time.ParseInLocation(dateLayout, st.LastActiveDate, now.Location())
		if err != nil {
			log.Warn("unreadable last active date %q, resetting streak", st.LastActiveDate)
			st.Count = 1
			break
		}
		if last.AddDate(0, 0, 1).Format(dateLayout) == today {
			st.Count++
		} else {
			st.Count = 1
		}
	}

	st.LastActiveDate = today
	if err := t.records.SaveStreak(ctx, st); err != nil {
		return models.Streak{}, errors.NewInternalError(err)
	}
	log.Debug("streak updated: count=%d, last_active=%s", st.Count, st.LastActiveDate)
	return st, nil
}

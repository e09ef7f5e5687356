package calendar

import (
	"context"
	"fmt"
	"time"

	"carematch/models"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// lookaheadDays is the matching availability window. It starts at local
// midnight tomorrow so clients are never offered same-day sessions.
const lookaheadDays = 14

// GoogleChecker implements AvailabilityChecker on the Google Calendar
// FreeBusy API.
type GoogleChecker struct {
	svc *gcal.Service
}

// NewGoogleChecker builds a checker from a service-account credentials file.
func NewGoogleChecker(ctx context.Context, credentialsFile string) (*GoogleChecker, error) {
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gcal.CalendarReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar service: %w", err)
	}
	return &GoogleChecker{svc: svc}, nil
}

// FreeBusy queries busy blocks for every calendar in a single call.
// Calendars the upstream could not read are logged and omitted.
func (g *GoogleChecker) FreeBusy(ctx context.Context, emails []string, from, to string) (map[string][]models.TimeSlot, error) {
	busy, calErrs, err := g.freeBusy(ctx, emails, from, to)
	if err != nil {
		return nil, err
	}
	for email, cerr := range calErrs {
		zap.L().Warn("calendar lookup failed",
			zap.String("email", email), zap.Error(cerr))
	}
	return busy, nil
}

func (g *GoogleChecker) freeBusy(ctx context.Context, emails []string, from, to string) (map[string][]models.TimeSlot, map[string]error, error) {
	items := make([]*gcal.FreeBusyRequestItem, 0, len(emails))
	for _, email := range emails {
		items = append(items, &gcal.FreeBusyRequestItem{Id: email})
	}

	req := &gcal.FreeBusyRequest{
		TimeMin: from,
		TimeMax: to,
		Items:   items,
	}
	resp, err := g.svc.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("freebusy query failed: %w", err)
	}

	busy, calErrs := mapFreeBusyResponse(resp)
	return busy, calErrs, nil
}

// mapFreeBusyResponse splits an upstream response into busy blocks per
// calendar and per-calendar lookup errors.
func mapFreeBusyResponse(resp *gcal.FreeBusyResponse) (map[string][]models.TimeSlot, map[string]error) {
	out := make(map[string][]models.TimeSlot, len(resp.Calendars))
	calErrs := make(map[string]error)
	for email, cal := range resp.Calendars {
		if len(cal.Errors) > 0 {
			calErrs[email] = fmt.Errorf("calendar %s unreadable: %s", email, cal.Errors[0].Reason)
			continue
		}
		var busy []models.TimeSlot
		for _, b := range cal.Busy {
			start, err := time.Parse(time.RFC3339, b.Start)
			if err != nil {
				continue
			}
			end, err := time.Parse(time.RFC3339, b.End)
			if err != nil {
				continue
			}
			busy = append(busy, models.TimeSlot{Start: start, End: end})
		}
		out[email] = busy
	}
	return out, calErrs
}

// BatchAvailability computes the 14-day availability summary per therapist
// from one FreeBusy call.
func (g *GoogleChecker) BatchAvailability(ctx context.Context, emails []string, paymentType, timezoneName string) (map[string]Availability, error) {
	if len(emails) == 0 {
		return map[string]Availability{}, nil
	}

	loc, err := time.LoadLocation(timezoneName)
	if err != nil {
		loc = time.UTC
	}

	now := time.Now().In(loc)
	windowStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	windowEnd := windowStart.AddDate(0, 0, lookaheadDays)

	busyByEmail, calErrs, err := g.freeBusy(ctx, emails,
		windowStart.Format(time.RFC3339), windowEnd.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}

	session := SessionDuration(paymentType)
	results := make(map[string]Availability, len(emails))
	for _, email := range emails {
		if cerr, ok := calErrs[email]; ok {
			results[email] = Availability{Err: cerr}
			continue
		}
		busy := busyByEmail[email]
		results[email] = summarizeWindow(busy, windowStart, windowEnd, session, loc)
	}

	zap.L().Debug("batch availability computed",
		zap.Int("therapists", len(emails)),
		zap.String("window_start", windowStart.Format("2006-01-02")),
		zap.String("window_end", windowEnd.Format("2006-01-02")))
	return results, nil
}

func summarizeWindow(busy []models.TimeSlot, windowStart, windowEnd time.Time, session time.Duration, loc *time.Location) Availability {
	localBusy := make([]models.TimeSlot, 0, len(busy))
	for _, b := range busy {
		localBusy = append(localBusy, models.TimeSlot{Start: b.Start.In(loc), End: b.End.In(loc)})
	}

	var totalSessions, availableDays int
	for day := windowStart; day.Before(windowEnd); day = day.AddDate(0, 0, 1) {
		if sessions := DaySessions(localBusy, day, session); len(sessions) > 0 {
			totalSessions += len(sessions)
			availableDays++
		}
	}

	return Availability{
		HasAvailability: totalSessions > 0,
		TotalSessions:   totalSessions,
		AvailableDays:   availableDays,
	}
}

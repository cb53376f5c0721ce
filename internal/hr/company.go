package hr

import (
	"context"
	"fmt"
	"time"
)

const (
	defaultAnnouncementLimit = 10
	defaultEventWindowDays   = 30
)

// CompanyHolidays lists company-observed holidays for a year.
func (s *Store) CompanyHolidays(ctx context.Context, year int) ([]CompanyHoliday, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT holiday_date, name, is_paid FROM company_holiday
		WHERE substr(holiday_date, 1, 4) = ? ORDER BY holiday_date`,
		fmt.Sprintf("%04d", year))
	if err != nil {
		return nil, fmt.Errorf("company holidays: %w", err)
	}
	defer rows.Close()

	var holidays []CompanyHoliday
	for rows.Next() {
		var h CompanyHoliday
		if err := rows.Scan(&h.Date, &h.Name, &h.IsPaid); err != nil {
			return nil, fmt.Errorf("company holidays: %w", err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// Announcements lists current announcements, newest first. Expired ones are
// excluded.
func (s *Store) Announcements(ctx context.Context, limit int) ([]Announcement, error) {
	if limit <= 0 || limit > 25 {
		limit = defaultAnnouncementLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT announcement_id, title, COALESCE(summary,''), COALESCE(category,''),
		       COALESCE(posted_by,''), posted_at
		FROM announcement
		WHERE expires_at IS NULL OR expires_at > ?
		ORDER BY posted_at DESC LIMIT ?`,
		time.Now().UTC().Format(time.RFC3339), limit)
	if err != nil {
		return nil, fmt.Errorf("announcements: %w", err)
	}
	defer rows.Close()

	var announcements []Announcement
	for rows.Next() {
		var a Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Summary, &a.Category, &a.PostedBy, &a.PostedAt); err != nil {
			return nil, fmt.Errorf("announcements: %w", err)
		}
		announcements = append(announcements, a)
	}
	return announcements, rows.Err()
}

// UpcomingEvents lists company events from today through daysAhead days out.
func (s *Store) UpcomingEvents(ctx context.Context, daysAhead int) ([]CompanyEvent, error) {
	if daysAhead <= 0 {
		daysAhead = defaultEventWindowDays
	}
	today := time.Now().UTC()
	from := today.Format("2006-01-02")
	until := today.AddDate(0, 0, daysAhead).Format("2006-01-02")

	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, title, event_date, COALESCE(event_time,''),
		       COALESCE(location,''), COALESCE(description,'')
		FROM company_event
		WHERE event_date >= ? AND event_date <= ?
		ORDER BY event_date, event_time`, from, until)
	if err != nil {
		return nil, fmt.Errorf("upcoming events: %w", err)
	}
	defer rows.Close()

	var events []CompanyEvent
	for rows.Next() {
		var e CompanyEvent
		if err := rows.Scan(&e.ID, &e.Title, &e.Date, &e.Time, &e.Location, &e.Description); err != nil {
			return nil, fmt.Errorf("upcoming events: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

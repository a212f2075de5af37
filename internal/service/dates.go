package service

import "time"

const dateLayout = "2006-01-02"

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, &ValidationError{
			Msg:    "invalid " + field,
			Fields: map[string]string{field: "must be a date in YYYY-MM-DD format"},
		}
	}
	return t, nil
}

func formatDate(t time.Time) string { return t.Format(dateLayout) }

func formatTimestamp(t time.Time) string { return t.Format(time.RFC3339) }

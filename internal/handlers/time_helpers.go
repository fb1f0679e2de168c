package handlers

import "time"

// parseDate interpreta "2006-01-02" no fuso local da clínica
func parseDate(dateStr string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", dateStr, time.Local)
}

// parseDateTime interpreta data e hora separadas, como vêm do formulário
func parseDateTime(dateStr, timeStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02 15:04",
		dateStr+" "+timeStr,
		time.Local,
	)
}

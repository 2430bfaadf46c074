package ntp

import (
	"fmt"
	"time"
)

var weekdays = [...]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

var months = [...]string{
	"Jan", "Fev", "Mar", "Abr", "Mai", "Jun",
	"Jul", "Ago", "Set", "Out", "Nov", "Dez",
}

// Format renders t in UTC as "Seg Jan 01 00:00:00 2024". Names come from
// fixed tables, never from the process locale.
func Format(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s %s %02d %02d:%02d:%02d %d",
		weekdays[t.Weekday()],
		months[t.Month()-1],
		t.Day(),
		t.Hour(),
		t.Minute(),
		t.Second(),
		t.Year(),
	)
}

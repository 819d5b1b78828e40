package clock

import "time"

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

type Clock interface {
	Now() time.Time
}

type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// DayKey возвращает канонический ключ дня в локальном времени.
func DayKey(t time.Time) string {
	return t.Format(dayLayout)
}

// MonthKey возвращает канонический ключ месяца в локальном времени.
func MonthKey(t time.Time) string {
	return t.Format(monthLayout)
}

package update

import "time"

const timeLayout = "2006-01-02 15:04"

func (m Model) localTime(t time.Time) string {
	if m.loc == nil {
		return t.Local().Format(timeLayout)
	}
	return t.In(m.loc).Format(timeLayout)
}

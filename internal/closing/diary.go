package closing

import (
	"github.com/alexanderramin/claquete/internal/domain"
)

// AddDiaryEntry appends a regular day to a labor line. The implicit default
// day is materialized first, so the first call leaves two entries.
func AddDiaryEntry(l *domain.ClosingLine) bool {
	if !l.IsLabor {
		return false
	}
	l.Diary = append(Entries(*l), domain.DefaultDiaryEntry())
	return true
}

// RemoveDiaryEntry deletes the diary day at idx. One day is always retained.
func RemoveDiaryEntry(l *domain.ClosingLine, idx int) bool {
	if !l.IsLabor || len(l.Diary) <= 1 || idx < 0 || idx >= len(l.Diary) {
		return false
	}
	l.Diary = append(l.Diary[:idx:idx], l.Diary[idx+1:]...)
	return true
}

// SetDiaryEntry replaces the diary day at idx. Negative values are clamped.
func SetDiaryEntry(l *domain.ClosingLine, idx int, e domain.DiaryEntry) bool {
	if !l.IsLabor {
		return false
	}
	entries := Entries(*l)
	if idx < 0 || idx >= len(entries) {
		return false
	}
	if len(l.Diary) == 0 {
		l.Diary = entries
	}
	l.Diary[idx] = domain.DiaryEntry{
		DailyHours:        domain.NonNegative(e.DailyHours),
		AdditionalPercent: domain.NonNegative(e.AdditionalPercent),
		OvertimeHours:     domain.NonNegative(e.OvertimeHours),
	}
	return true
}

// ExpandWeekly opens the overtime detail of a weekly labor line. The first
// expansion seeds one regular day per phase day, at least one.
func ExpandWeekly(l *domain.ClosingLine, days int) bool {
	if !l.IsLabor || l.PayBasis != domain.PayWeekly {
		return false
	}
	if l.DiaryExpanded {
		return true
	}
	l.DiaryExpanded = true
	if len(l.Diary) == 0 {
		n := domain.MaxInt(days, 1)
		l.Diary = make([]domain.DiaryEntry, n)
		for i := range l.Diary {
			l.Diary[i] = domain.DefaultDiaryEntry()
		}
	}
	return true
}

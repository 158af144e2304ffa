package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Skarath13/bloom-sub003/models"
	"github.com/Skarath13/bloom-sub003/utils"
)

// maxRecurrenceSteps bounds expansion so a malformed or pathological rule can
// never loop forever.
const maxRecurrenceSteps = 1000

// Rule is a parsed recurrence rule: frequency, an interval multiplier, and an
// optional COUNT or UNTIL termination.
type Rule struct {
	Freq     string // "DAILY", "WEEKLY", "MONTHLY"
	Interval int
	Count    int // 0 = unbounded
	Until    time.Time
	HasUntil bool
}

// ParseRecurrenceRule parses rules of the form
// "FREQ=WEEKLY;INTERVAL=2;COUNT=10" or "FREQ=DAILY;UNTIL=20250131".
// UNTIL accepts both 20060102 and 2006-01-02 date forms.
func ParseRecurrenceRule(s string) (Rule, error) {
	rule := Rule{Interval: 1}
	if strings.TrimSpace(s) == "" {
		return rule, fmt.Errorf("empty recurrence rule")
	}

	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return rule, fmt.Errorf("malformed rule component %q", part)
		}
		key := strings.ToUpper(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "FREQ":
			freq := strings.ToUpper(val)
			switch freq {
			case "DAILY", "WEEKLY", "MONTHLY":
				rule.Freq = freq
			default:
				return rule, fmt.Errorf("unsupported frequency %q", val)
			}
		case "INTERVAL":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				return rule, fmt.Errorf("invalid interval %q", val)
			}
			rule.Interval = n
		case "COUNT":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				return rule, fmt.Errorf("invalid count %q", val)
			}
			rule.Count = n
		case "UNTIL":
			t, err := time.Parse("20060102", val)
			if err != nil {
				t, err = time.Parse("2006-01-02", val)
			}
			if err != nil {
				return rule, fmt.Errorf("invalid until date %q", val)
			}
			rule.Until = t
			rule.HasUntil = true
		default:
			return rule, fmt.Errorf("unknown rule component %q", key)
		}
	}

	if rule.Freq == "" {
		return rule, fmt.Errorf("rule has no FREQ")
	}
	return rule, nil
}

// step advances a cursor date by one rule interval.
func (r Rule) step(cursor time.Time) time.Time {
	switch r.Freq {
	case "DAILY":
		return cursor.AddDate(0, 0, r.Interval)
	case "WEEKLY":
		return cursor.AddDate(0, 0, 7*r.Interval)
	default: // MONTHLY
		return cursor.AddDate(0, r.Interval, 0)
	}
}

// BlockOccurrence is one expanded instance of a time block.
type BlockOccurrence struct {
	Date  string
	Start int // minutes from midnight
	End   int
}

// ExpandBlock derives the concrete occurrences of a block within
// [rangeStart, rangeEnd). One-off blocks produce at most their own single
// instance. Recurring blocks step from the canonical (stored) occurrence;
// exception dates suppress an occurrence without affecting later stepping,
// and an unparseable rule expands to nothing — the block simply does not
// recur, which is not an error.
func ExpandBlock(block models.TimeBlock, rangeStart, rangeEnd time.Time, loc *time.Location, logger *zap.Logger) []BlockOccurrence {
	canonical, err := utils.ParseDate(block.Date, loc)
	if err != nil {
		logger.Warn("time block has invalid canonical date",
			zap.String("blockId", block.ID), zap.String("date", block.Date))
		return nil
	}

	inWindow := func(day time.Time) bool {
		at := utils.AtMinutes(day, block.Start)
		return !at.Before(rangeStart) && at.Before(rangeEnd)
	}

	if block.Recurrence == "" {
		if inWindow(canonical) && !block.IsException(block.Date) {
			return []BlockOccurrence{{Date: block.Date, Start: block.Start, End: block.End}}
		}
		return nil
	}

	rule, err := ParseRecurrenceRule(block.Recurrence)
	if err != nil {
		logger.Warn("unparseable recurrence rule, treating block as non-recurring",
			zap.String("blockId", block.ID), zap.String("rule", block.Recurrence), zap.Error(err))
		return nil
	}

	var out []BlockOccurrence
	cursor := canonical
	for i := 0; i < maxRecurrenceSteps; i++ {
		if rule.Count > 0 && i >= rule.Count {
			break
		}
		if rule.HasUntil {
			// UNTIL is inclusive of its own date.
			untilDay := time.Date(rule.Until.Year(), rule.Until.Month(), rule.Until.Day(), 0, 0, 0, 0, loc)
			if cursor.After(untilDay) {
				break
			}
		}
		if !utils.AtMinutes(cursor, block.Start).Before(rangeEnd) {
			break
		}

		date := cursor.Format(utils.DateLayout)
		if inWindow(cursor) && !block.IsException(date) {
			out = append(out, BlockOccurrence{Date: date, Start: block.Start, End: block.End})
		}
		cursor = rule.step(cursor)
	}
	return out
}

package expense

import (
	"time"

	"github.com/egresosapp/egresos-api/internal"
)

// Frequency is the recurrence cadence of a periodic expense.
type Frequency string

const (
	FrequencyDiario     Frequency = "diario"
	FrequencySemanal    Frequency = "semanal"
	FrequencyQuincenal  Frequency = "quincenal"
	FrequencyMensual    Frequency = "mensual"
	FrequencyBimestral  Frequency = "bimestral"
	FrequencyTrimestral Frequency = "trimestral"
	FrequencySemestral  Frequency = "semestral"
	FrequencyAnual      Frequency = "anual"
)

// ValidFrequencies lists the accepted cadences, in ascending period order.
var ValidFrequencies = []string{
	string(FrequencyDiario),
	string(FrequencySemanal),
	string(FrequencyQuincenal),
	string(FrequencyMensual),
	string(FrequencyBimestral),
	string(FrequencyTrimestral),
	string(FrequencySemestral),
	string(FrequencyAnual),
}

func (f Frequency) IsValid() bool {
	for _, v := range ValidFrequencies {
		if string(f) == v {
			return true
		}
	}
	return false
}

// Next returns the occurrence following t. Month based cadences overflow
// forward when the target month is shorter, so Jan 31 + mensual lands on
// Mar 2 or 3. Callers must check IsValid first.
func (f Frequency) Next(t time.Time) time.Time {
	switch f {
	case FrequencyDiario:
		return t.AddDate(0, 0, 1)
	case FrequencySemanal:
		return t.AddDate(0, 0, 7)
	case FrequencyQuincenal:
		return t.AddDate(0, 0, 15)
	case FrequencyMensual:
		return t.AddDate(0, 1, 0)
	case FrequencyBimestral:
		return t.AddDate(0, 2, 0)
	case FrequencyTrimestral:
		return t.AddDate(0, 3, 0)
	case FrequencySemestral:
		return t.AddDate(0, 6, 0)
	case FrequencyAnual:
		return t.AddDate(1, 0, 0)
	default:
		return t
	}
}

// ScheduleDates expands a recurrence into the occurrence dates between
// start and end, both inclusive. An unknown frequency is an error rather
// than a silent single occurrence. A start after end yields no dates.
func ScheduleDates(start, end internal.Date, freq Frequency) ([]internal.Date, error) {
	if !freq.IsValid() {
		return nil, internal.ErrInvalidFrequency
	}

	var dates []internal.Date
	for cur := start.Time; !cur.After(end.Time); cur = freq.Next(cur) {
		dates = append(dates, internal.DateOf(cur))
	}
	return dates, nil
}

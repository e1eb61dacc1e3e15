package earnedvalue

// Totals are the summed numeric fields of the events for one work unit.
type Totals struct {
	Hours      float64
	Qty        float64
	EquipHours float64
}

// Aggregate sums hours, quantity and equipment hours over the events for the
// given work unit code. Event order does not matter.
func Aggregate(events []ProductionEvent, code string) Totals {
	var totals Totals
	for _, event := range events {
		if event.Code != code {
			continue
		}
		totals.Hours += event.Hours
		totals.Qty += event.Qty
		totals.EquipHours += event.EquipHours
	}
	return totals
}

// EventsFor returns the events for the given code, preserving their order.
func EventsFor(events []ProductionEvent, code string) []ProductionEvent {
	var filtered []ProductionEvent
	for _, event := range events {
		if event.Code == code {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

package schedule

import "time"

// Рабочие часы консультанта. Начало последнего слота — за полчаса до
// закрытия, это следует из шага в 30 минут.
const (
	WeekdayStartHour  = 10 // будни: 10:00–18:00
	WeekdayEndHour    = 18
	SaturdayStartHour = 11 // суббота: 11:00–15:00
	SaturdayEndHour   = 15

	// Шаг сетки слотов в минутах.
	SlotStepMinutes = 30
)

// OnSlotBoundary сообщает, лежит ли время на границе получаса.
func OnSlotBoundary(t time.Time) bool {
	return t.Minute()%SlotStepMinutes == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

// WithinBusinessHours сообщает, попадает ли начало слота в рабочие часы
// своего дня недели. Воскресенье — всегда false.
func WithinBusinessHours(t time.Time) bool {
	switch t.Weekday() {
	case time.Sunday:
		return false
	case time.Saturday:
		return t.Hour() >= SaturdayStartHour && t.Hour() < SaturdayEndHour
	default:
		return t.Hour() >= WeekdayStartHour && t.Hour() < WeekdayEndHour
	}
}

// ValidateSlotTimes прогоняет все проверки времени слота в порядке: наличие,
// порядок границ, сетка получаса, выходной день, рабочие часы. Часы и день
// недели проверяются в зоне loc (если она задана). Возвращает первую
// нарушенную проверку или nil.
func ValidateSlotTimes(start, end time.Time, loc *time.Location) *ValidationError {
	if start.IsZero() {
		return &ValidationError{Field: "start_time", Message: MsgMissingStartTime}
	}
	if end.IsZero() {
		return &ValidationError{Field: "end_time", Message: MsgMissingEndTime}
	}
	if !end.After(start) {
		return &ValidationError{Field: "end_time", Message: MsgEndBeforeStart}
	}

	if loc != nil {
		start = start.In(loc)
		end = end.In(loc)
	}

	if !OnSlotBoundary(start) {
		return &ValidationError{Field: "start_time", Message: MsgNotOnHalfHour}
	}
	if !OnSlotBoundary(end) {
		return &ValidationError{Field: "end_time", Message: MsgNotOnHalfHour}
	}

	if start.Weekday() == time.Sunday {
		return &ValidationError{Field: "start_time", Message: MsgSundayClosed}
	}
	if !WithinBusinessHours(start) {
		msg := MsgWeekdayHours
		if start.Weekday() == time.Saturday {
			msg = MsgSaturdayHours
		}
		return &ValidationError{Field: "start_time", Message: msg}
	}

	return nil
}

package schedule

// Типизированные ошибки ядра. Вызывающий слой различает их через errors.As
// и сам решает, как показать пользователю (HTTP-статусы, флеш-сообщения).

// ValidationError — входные данные нарушают бизнес-правило.
type ValidationError struct {
	Field   string // поле формы, к которому относится ошибка; может быть пустым
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// AuthorizationError — действие недоступно этому пользователю.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// StateError — переход невозможен из текущего статуса.
type StateError struct {
	Message string
}

func (e *StateError) Error() string {
	return e.Message
}

// ConflictError — конкурентное изменение сделало операцию невозможной.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Сообщения пользователю. На каждое нарушенное правило — ровно одно сообщение.
const (
	MsgMissingStartTime = "укажите время начала"
	MsgMissingEndTime   = "укажите время окончания"
	MsgEndBeforeStart   = "время окончания должно быть позже времени начала"
	MsgNotOnHalfHour    = "время должно начинаться в :00 или :30"
	MsgSundayClosed     = "воскресенье — выходной день"
	MsgSaturdayHours    = "в субботу можно указать время с 11:00 до 15:00"
	MsgWeekdayHours     = "в будни можно указать время с 10:00 до 18:00"
	MsgDuplicateSlot    = "это время уже занято другим слотом"

	MsgSlotNotFound    = "слот не найден"
	MsgSlotInPast      = "нельзя бронировать прошедший слот"
	MsgSlotTaken       = "этот слот уже забронирован"
	MsgSlotHasBookings = "нельзя удалить слот: по нему есть брони"

	MsgUserNotFound        = "пользователь не найден"
	MsgBookingNotFound     = "бронь не найдена"
	MsgNotBookingOwner     = "бронь принадлежит другому пользователю"
	MsgDescriptionRequired = "укажите описание"
	MsgOnlyPendingConfirm  = "подтвердить можно только бронь в статусе ожидания"
	MsgOnlyPendingReject   = "отклонить можно только бронь в статусе ожидания"
	MsgNotCancellable      = "эту бронь нельзя отменить"

	MsgFPOnly   = "действие доступно только консультанту"
	MsgNotOwner = "слот принадлежит другому консультанту"
)

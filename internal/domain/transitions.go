package domain

// Action действие над бронированием
type Action string

const (
	ActionView       Action = "view"
	ActionConfirm    Action = "confirm"
	ActionStart      Action = "start"
	ActionComplete   Action = "complete"
	ActionCancel     Action = "cancel"
	ActionReschedule Action = "reschedule"
	ActionReview     Action = "review"
)

// ParseAction валидирует действие смены статуса из URL
func ParseAction(s string) (Action, bool) {
	a := Action(s)
	switch a {
	case ActionConfirm, ActionStart, ActionComplete, ActionCancel, ActionReschedule, ActionReview:
		return a, true
	default:
		return "", false
	}
}

type transition struct {
	from []BookingStatus
	to   BookingStatus
}

// transitions таблица переходов. Из completed/cancelled ведет только review,
// и он не меняет статус.
var transitions = map[Action]transition{
	ActionConfirm:    {from: []BookingStatus{StatusPending}, to: StatusConfirmed},
	ActionStart:      {from: []BookingStatus{StatusConfirmed}, to: StatusInProgress},
	ActionComplete:   {from: []BookingStatus{StatusInProgress}, to: StatusCompleted},
	ActionCancel:     {from: []BookingStatus{StatusPending, StatusConfirmed}, to: StatusCancelled},
	ActionReschedule: {from: []BookingStatus{StatusPending, StatusConfirmed}, to: StatusPending},
	ActionReview:     {from: []BookingStatus{StatusCompleted}, to: StatusCompleted},
}

// NextStatus возвращает статус после действия или ErrInvalidTransition
func NextStatus(current BookingStatus, action Action) (BookingStatus, error) {
	t, ok := transitions[action]
	if !ok {
		return "", ErrInvalidTransition
	}
	for _, from := range t.from {
		if from == current {
			return t.to, nil
		}
	}
	return "", ErrInvalidTransition
}

// CanPerform проверяет только права: providerUserID - пользователь,
// которому принадлежит провайдер бронирования.
//
//	confirm/start/complete        - назначенный провайдер или админ
//	view/cancel/reschedule        - заказчик, назначенный провайдер или админ
//	review                        - только заказчик
func CanPerform(actor Actor, b *Booking, providerUserID int64, action Action) bool {
	isRequester := actor.UserID == b.RequesterID
	isProvider := actor.UserID == providerUserID

	switch action {
	case ActionConfirm, ActionStart, ActionComplete:
		return isProvider || actor.IsAdmin()
	case ActionView, ActionCancel, ActionReschedule:
		return isRequester || isProvider || actor.IsAdmin()
	case ActionReview:
		return isRequester
	default:
		return false
	}
}

// CanTransition проверяет права, затем допустимость перехода.
// Возвращает новый статус, ErrAccessDenied или ErrInvalidTransition.
func CanTransition(actor Actor, b *Booking, providerUserID int64, action Action) (BookingStatus, error) {
	if !CanPerform(actor, b, providerUserID, action) {
		return "", ErrAccessDenied
	}
	return NextStatus(b.Status, action)
}

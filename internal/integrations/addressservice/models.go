package addressservice

// Address адрес пользователя из сервиса профилей
type Address struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"user_id"`
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
}

// ErrorResponse модель ошибки сервиса профилей
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

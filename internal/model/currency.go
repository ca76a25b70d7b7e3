package model

// ConvertQuery - параметры запроса на конвертацию
type ConvertQuery struct {
	From   string  `form:"from" binding:"required,len=3"`
	To     string  `form:"to" binding:"required,len=3"`
	Amount float64 `form:"amount" binding:"required,gt=0"`
}

// ConvertResponse - ответ на конвертацию
type ConvertResponse struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Amount    float64 `json:"amount"`
	Result    float64 `json:"result"`
	Formatted string  `json:"formatted"`
	Message   string  `json:"message"`
}

// CurrencyInfo is one row of the currency table as served to front-ends.
type CurrencyInfo struct {
	Code    string `json:"code"`
	Region  string `json:"region"`
	FlagURL string `json:"flag_url"`
}

// ErrorResponse - структура для ошибок
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

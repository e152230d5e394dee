package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type NewAccountMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ExceptionDecidedMailData struct {
	FullName      string `json:"fullName"`
	Date          string `json:"date"`
	ExceptionType string `json:"exceptionType"`
	Decision      string `json:"decision"`
	Note          string `json:"note"`
}

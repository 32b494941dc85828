package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

// InvitationMailData alimenta o e-mail com o link público enviado ao médico
// quando um macro período é criado.
type InvitationMailData struct {
	DoctorName string `json:"doctorName"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Deadline   string `json:"deadline"`
	Link       string `json:"link"`
}

type UnlockedMailData struct {
	DoctorName string `json:"doctorName"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Link       string `json:"link"`
}

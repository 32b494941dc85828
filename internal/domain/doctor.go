package domain

import "time"

type Doctor struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CRM       string    `json:"crm"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	WorkshopActive   = "active"
	WorkshopInactive = "inactive"

	RegistrationPending  = "pending"
	RegistrationVerified = "verified"
	RegistrationRejected = "rejected"
)

type ContactSubmission struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Service   string    `db:"service,omitempty" json:"service,omitempty"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Workshop keeps date and times as the strings they are rendered with
// ("2006-01-02" and "15:04:05"); the repo layer converts at the SQL edge.
type Workshop struct {
	ID            int64           `db:"id" json:"id"`
	Title         string          `db:"title" json:"title"`
	Description   string          `db:"description,omitempty" json:"description,omitempty"`
	Date          string          `db:"date" json:"date"`
	StartTime     string          `db:"start_time" json:"start_time"`
	EndTime       string          `db:"end_time" json:"end_time"`
	Venue         string          `db:"venue" json:"venue"`
	Perks         string          `db:"perks,omitempty" json:"perks,omitempty"`
	Capacity      int             `db:"capacity" json:"capacity"`
	ImagePath     string          `db:"image_path" json:"image_path"`
	Status        string          `db:"status" json:"status"`
	PaymentQRPath string          `db:"payment_qr_path" json:"payment_qr_path"`
	UPIID         string          `db:"upi_id" json:"upi_id"`
	BankName      string          `db:"bank_name" json:"bank_name"`
	AccountNo     string          `db:"account_no" json:"account_no"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`

	RegistrationsCount int `db:"registrations_count" json:"registrations_count"`
}

func (w *Workshop) IsSoldOut() bool {
	return w.RegistrationsCount >= w.Capacity
}

type WorkshopRegistration struct {
	ID               int64     `db:"id" json:"id"`
	WorkshopID       int64     `db:"workshop_id" json:"workshop_id"`
	WorkshopTitle    string    `db:"workshop_title" json:"workshop_title"`
	Name             string    `db:"name" json:"name"`
	Email            string    `db:"email" json:"email"`
	WhatsApp         string    `db:"whatsapp,omitempty" json:"whatsapp,omitempty"`
	Organization     string    `db:"organization,omitempty" json:"organization,omitempty"`
	PaymentProofPath string    `db:"payment_proof_path" json:"payment_proof_path"`
	Status           string    `db:"status" json:"status"`
	AdminNotes       string    `db:"admin_notes,omitempty" json:"admin_notes,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

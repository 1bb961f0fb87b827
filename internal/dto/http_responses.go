package dto

import (
	"time"

	"github.com/wb-go/wbf/ginext"
)

const (
	ValidationError        = "VALIDATION_ERROR"
	MalformedRequest       = "MALFORMED_REQUEST"
	NotFound               = "NOT_FOUND"
	SoldOut                = "SOLD_OUT"
	IntegrationUnavailable = "INTEGRATION_UNAVAILABLE"
	ServiceUnavailable     = "SERVICE_UNAVAILABLE"
	InternalError          = "Service is currently unavailable. Please try again later."
)

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Service string `json:"service"`
	Message string `json:"message"`
}

type ContactResponse struct {
	ID        int64  `json:"id"`
	CreatedAt string `json:"created_at"`
}

type RegisterRequest struct {
	Name         string `json:"name" form:"name"`
	Email        string `json:"email" form:"email"`
	WhatsApp     string `json:"whatsapp" form:"whatsapp"`
	Organization string `json:"organization" form:"organization"`
}

type RegisterResponse struct {
	ID                 int64 `json:"id"`
	Created            bool  `json:"created"`
	RegistrationsCount int   `json:"registrations_count"`
}

// WorkshopResponse is the public projection of a workshop record, image
// references resolved to absolute URLs and the amount rendered as a
// fixed two-decimal string.
type WorkshopResponse struct {
	ID                 int64  `json:"id"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	Date               string `json:"date"`
	StartTime          string `json:"start_time"`
	EndTime            string `json:"end_time"`
	Venue              string `json:"venue"`
	Perks              string `json:"perks"`
	Capacity           int    `json:"capacity"`
	ImageURL           string `json:"image_url"`
	Status             string `json:"status"`
	UPIID              string `json:"upi_id"`
	BankName           string `json:"bank_name"`
	AccountNo          string `json:"account_no"`
	Amount             string `json:"amount"`
	PaymentQR          string `json:"payment_qr"`
	RegistrationsCount int    `json:"registrations_count"`
	IsSoldOut          bool   `json:"is_sold_out"`
}

type WorkshopListResponse struct {
	Items []WorkshopResponse `json:"items"`
}

type WorkshopRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Date        string `json:"date" validate:"required,dateonly"`
	StartTime   string `json:"start_time" validate:"required,clocktime"`
	EndTime     string `json:"end_time" validate:"required,clocktime"`
	Venue       string `json:"venue" validate:"required,max=200"`
	Perks       string `json:"perks"`
	Capacity    int    `json:"capacity" validate:"gte=0"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive"`
	UPIID       string `json:"upi_id" validate:"max=128"`
	BankName    string `json:"bank_name" validate:"max=128"`
	AccountNo   string `json:"account_no" validate:"max=64"`
	Amount      string `json:"amount" validate:"omitempty,amount"`
}

type RegistrationResponse struct {
	ID              int64     `json:"id"`
	WorkshopID      int64     `json:"workshop_id"`
	WorkshopTitle   string    `json:"workshop_title"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	WhatsApp        string    `json:"whatsapp"`
	Organization    string    `json:"organization"`
	PaymentProofURL string    `json:"payment_proof_url"`
	Status          string    `json:"status"`
	AdminNotes      string    `json:"admin_notes"`
	CreatedAt       time.Time `json:"created_at"`
}

// ExportSelection names the registrations an admin bulk action operates
// on: explicit ids, every registration of the given workshops, or all
// registrations when both lists are empty.
type ExportSelection struct {
	RegistrationIDs []int64 `json:"registration_ids"`
	WorkshopIDs     []int64 `json:"workshop_ids"`
}

type BulkStatusRequest struct {
	IDs    []int64 `json:"ids" validate:"required,min=1"`
	Status string  `json:"status" validate:"required,oneof=verified rejected"`
}

type BulkStatusResponse struct {
	Updated int64 `json:"updated"`
}

type NotesRequest struct {
	AdminNotes string `json:"admin_notes"`
}

type SheetsExportResponse struct {
	Exported int `json:"exported"`
}

type DashboardResponse struct {
	WorkshopsTotal        int64              `json:"workshops_total"`
	RegistrationsTotal    int64              `json:"registrations_total"`
	RegistrationsVerified int64              `json:"registrations_verified"`
	RegistrationsPending  int64              `json:"registrations_pending"`
	ByWorkshop            []WorkshopRegStats `json:"by_workshop"`
}

type WorkshopRegStats struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Date     string `json:"date"`
	RegCount int    `json:"reg_count"`
}

type Response struct {
	Status string `json:"status"`
	Error  *Error `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Error struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

func BadResponseError(c *ginext.Context, code, desc string) {
	c.JSON(400, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func NotFoundError(c *ginext.Context, desc string) {
	c.JSON(404, Response{
		Status: "error",
		Error: &Error{
			Code: NotFound,
			Desc: desc,
		},
	})
}

func InternalServerError(c *ginext.Context) {
	c.JSON(500, Response{
		Status: "error",
		Error: &Error{
			Code: ServiceUnavailable,
			Desc: InternalError,
		},
	})
}

// IntegrationUnavailableError reports a missing optional integration to
// the operator. The action itself succeeded in deciding not to run, so
// this is a 200 with an error payload rather than a 5xx.
func IntegrationUnavailableError(c *ginext.Context, desc string) {
	c.JSON(200, Response{
		Status: "error",
		Error: &Error{
			Code: IntegrationUnavailable,
			Desc: desc,
		},
	})
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(200, Response{
		Status: "ok",
		Data:   data,
	})
}

func SuccessCreatedResponse(c *ginext.Context, data any) {
	c.JSON(201, Response{
		Status: "ok",
		Data:   data,
	})
}

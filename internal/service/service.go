package service

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"github.com/SangulugariMadhuGoud/Superbloom/internal/dto"
	"github.com/SangulugariMadhuGoud/Superbloom/internal/export"
	"github.com/SangulugariMadhuGoud/Superbloom/internal/mailer"
	"github.com/SangulugariMadhuGoud/Superbloom/internal/media"
	"github.com/SangulugariMadhuGoud/Superbloom/internal/model"
	"github.com/SangulugariMadhuGoud/Superbloom/internal/repo"
)

type Service interface {
	Health(ctx *ginext.Context)
	SubmitContact(ctx *ginext.Context)
	ListWorkshops(ctx *ginext.Context)
	GetWorkshop(ctx *ginext.Context)
	Register(ctx *ginext.Context)

	CreateWorkshop(ctx *ginext.Context)
	UpdateWorkshop(ctx *ginext.Context)
	UploadWorkshopImages(ctx *ginext.Context)
	DeleteWorkshop(ctx *ginext.Context)
	ListRegistrations(ctx *ginext.Context)
	BulkStatus(ctx *ginext.Context)
	SetNotes(ctx *ginext.Context)
	ExportCSV(ctx *ginext.Context)
	ExportXLSX(ctx *ginext.Context)
	ExportSheets(ctx *ginext.Context)
	Dashboard(ctx *ginext.Context)
}

type service struct {
	repo   repo.Repository
	log    *zerolog.Logger
	media  *media.Store
	sheets export.SheetsSink // nil when the integration is not configured
	mail   *mailer.Mailer    // nil when SMTP is not configured
}

func NewService(repo repo.Repository, log *zerolog.Logger, media *media.Store, sheets export.SheetsSink, mail *mailer.Mailer) Service {
	return &service{
		repo:   repo,
		log:    log,
		media:  media,
		sheets: sheets,
		mail:   mail,
	}
}

func (s *service) Health(ctx *ginext.Context) {
	ctx.JSON(200, map[string]string{"status": "ok"})
}

func (s *service) SubmitContact(ctx *ginext.Context) {
	var req dto.ContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.MalformedRequest, "Invalid JSON")
		return
	}

	sub := &model.ContactSubmission{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Service: strings.TrimSpace(req.Service),
		Message: strings.TrimSpace(req.Message),
	}
	if sub.Name == "" || sub.Email == "" || sub.Message == "" {
		dto.BadResponseError(ctx, dto.ValidationError, "Missing required fields")
		return
	}

	id, createdAt, err := s.repo.CreateContact(ctx, sub)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create contact submission")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("contact_id", id).Msg("contact submission stored")
	ctx.JSON(200, dto.ContactResponse{
		ID:        id,
		CreatedAt: createdAt.Format(time.RFC3339),
	})
}

func (s *service) toWorkshopResponse(w *model.Workshop) dto.WorkshopResponse {
	return dto.WorkshopResponse{
		ID:                 w.ID,
		Title:              w.Title,
		Description:        w.Description,
		Date:               w.Date,
		StartTime:          w.StartTime,
		EndTime:            w.EndTime,
		Venue:              w.Venue,
		Perks:              w.Perks,
		Capacity:           w.Capacity,
		ImageURL:           s.media.URL(w.ImagePath),
		Status:             w.Status,
		UPIID:              w.UPIID,
		BankName:           w.BankName,
		AccountNo:          w.AccountNo,
		Amount:             w.Amount.StringFixed(2),
		PaymentQR:          s.media.URL(w.PaymentQRPath),
		RegistrationsCount: w.RegistrationsCount,
		IsSoldOut:          w.IsSoldOut(),
	}
}

func (s *service) ListWorkshops(ctx *ginext.Context) {
	workshops, err := s.repo.GetAllWorkshops(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list workshops")
		dto.InternalServerError(ctx)
		return
	}

	items := make([]dto.WorkshopResponse, 0, len(workshops))
	for i := range workshops {
		items = append(items, s.toWorkshopResponse(&workshops[i]))
	}
	ctx.JSON(200, dto.WorkshopListResponse{Items: items})
}

func (s *service) GetWorkshop(ctx *ginext.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.NotFoundError(ctx, "Not found")
		return
	}

	w, err := s.repo.GetWorkshopByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrWorkshopNotFound) {
			dto.NotFoundError(ctx, "Not found")
			return
		}
		s.log.Error().Err(err).Msg("failed to get workshop")
		dto.InternalServerError(ctx)
		return
	}

	ctx.JSON(200, s.toWorkshopResponse(w))
}

// registerInput extracts the registration fields from either a JSON
// body or form/multipart fields, per the request content type.
func registerInput(ctx *ginext.Context) (dto.RegisterRequest, bool) {
	var req dto.RegisterRequest
	if strings.HasPrefix(ctx.ContentType(), "application/json") {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return req, false
		}
		return req, true
	}
	req.Name = ctx.PostForm("name")
	req.Email = ctx.PostForm("email")
	req.WhatsApp = ctx.PostForm("whatsapp")
	req.Organization = ctx.PostForm("organization")
	return req, true
}

func (s *service) Register(ctx *ginext.Context) {
	workshopID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.NotFoundError(ctx, "Not found")
		return
	}

	if _, err := s.repo.GetWorkshopByID(ctx, workshopID); err != nil {
		if errors.Is(err, repo.ErrWorkshopNotFound) {
			dto.NotFoundError(ctx, "Not found")
			return
		}
		s.log.Error().Err(err).Msg("failed to get workshop for registration")
		dto.InternalServerError(ctx)
		return
	}

	req, ok := registerInput(ctx)
	if !ok {
		dto.BadResponseError(ctx, dto.MalformedRequest, "Invalid JSON")
		return
	}

	reg := &model.WorkshopRegistration{
		WorkshopID:   workshopID,
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		WhatsApp:     strings.TrimSpace(req.WhatsApp),
		Organization: strings.TrimSpace(req.Organization),
	}
	if reg.Name == "" || reg.Email == "" {
		dto.BadResponseError(ctx, dto.ValidationError, "Missing required fields")
		return
	}

	id, created, err := s.repo.RegisterTx(ctx.Request.Context(), reg)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrWorkshopNotFound):
			dto.NotFoundError(ctx, "Not found")
		case errors.Is(err, repo.ErrWorkshopSoldOut):
			dto.BadResponseError(ctx, dto.SoldOut, "Sold out")
		default:
			s.log.Error().Err(err).Msg("failed to register")
			dto.InternalServerError(ctx)
		}
		return
	}

	// A proof supplied on a repeat registration replaces the earlier one.
	if file, err := ctx.FormFile("payment_proof"); err == nil && file != nil {
		relPath, err := s.media.SavePaymentProof(file, id)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to store payment proof")
			dto.InternalServerError(ctx)
			return
		}
		if err := s.repo.AttachPaymentProof(ctx, id, relPath); err != nil {
			s.log.Error().Err(err).Msg("failed to attach payment proof")
			dto.InternalServerError(ctx)
			return
		}
	}

	count, err := s.repo.CountRegistrations(ctx, workshopID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to count registrations")
		dto.InternalServerError(ctx)
		return
	}

	if created {
		s.log.Info().Int64("registration_id", id).Int64("workshop_id", workshopID).Msg("registration created")
		if w, err := s.repo.GetWorkshopByID(ctx, workshopID); err == nil {
			if err := s.mail.SendRegistrationReceived(w.Title, reg.Email); err != nil {
				s.log.Warn().Err(err).Msg("failed to send registration email")
			}
		}
	}

	ctx.JSON(200, dto.RegisterResponse{
		ID:                 id,
		Created:            created,
		RegistrationsCount: count,
	})
}

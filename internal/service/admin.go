package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wb-go/wbf/ginext"

	"github.com/SangulugariMadhuGoud/Superbloom/internal/dto"
	"github.com/SangulugariMadhuGoud/Superbloom/internal/export"
	"github.com/SangulugariMadhuGoud/Superbloom/internal/model"
	"github.com/SangulugariMadhuGoud/Superbloom/internal/repo"
	"github.com/SangulugariMadhuGoud/Superbloom/pkg/validator"
)

func workshopFromRequest(req *dto.WorkshopRequest) (*model.Workshop, error) {
	amount := decimal.Zero
	if req.Amount != "" {
		var err error
		amount, err = decimal.NewFromString(req.Amount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount: %w", err)
		}
	}
	status := req.Status
	if status == "" {
		status = model.WorkshopActive
	}
	capacity := req.Capacity
	if capacity == 0 {
		capacity = 30
	}
	return &model.Workshop{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Venue:       strings.TrimSpace(req.Venue),
		Perks:       req.Perks,
		Capacity:    capacity,
		Status:      status,
		UPIID:       req.UPIID,
		BankName:    req.BankName,
		AccountNo:   req.AccountNo,
		Amount:      amount,
	}, nil
}

func (s *service) CreateWorkshop(ctx *ginext.Context) {
	var req dto.WorkshopRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.MalformedRequest, "Invalid JSON")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.ValidationError, fmt.Sprintf("%v", verr))
		return
	}

	w, err := workshopFromRequest(&req)
	if err != nil {
		dto.BadResponseError(ctx, dto.ValidationError, err.Error())
		return
	}

	id, err := s.repo.CreateWorkshop(ctx, w)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create workshop")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("workshop_id", id).Msg("workshop created")
	created, err := s.repo.GetWorkshopByID(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load created workshop")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessCreatedResponse(ctx, s.toWorkshopResponse(created))
}

func (s *service) UpdateWorkshop(ctx *ginext.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.NotFoundError(ctx, "Not found")
		return
	}

	var req dto.WorkshopRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.MalformedRequest, "Invalid JSON")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.ValidationError, fmt.Sprintf("%v", verr))
		return
	}

	w, err := workshopFromRequest(&req)
	if err != nil {
		dto.BadResponseError(ctx, dto.ValidationError, err.Error())
		return
	}
	w.ID = id

	if err := s.repo.UpdateWorkshop(ctx, w); err != nil {
		if errors.Is(err, repo.ErrWorkshopNotFound) {
			dto.NotFoundError(ctx, "Not found")
			return
		}
		s.log.Error().Err(err).Msg("failed to update workshop")
		dto.InternalServerError(ctx)
		return
	}

	updated, err := s.repo.GetWorkshopByID(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load updated workshop")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, s.toWorkshopResponse(updated))
}

// UploadWorkshopImages accepts a multipart body with an "image" and/or
// "payment_qr" file and replaces the stored references.
func (s *service) UploadWorkshopImages(ctx *ginext.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.NotFoundError(ctx, "Not found")
		return
	}
	if _, err := s.repo.GetWorkshopByID(ctx, id); err != nil {
		if errors.Is(err, repo.ErrWorkshopNotFound) {
			dto.NotFoundError(ctx, "Not found")
			return
		}
		s.log.Error().Err(err).Msg("failed to get workshop for image upload")
		dto.InternalServerError(ctx)
		return
	}

	var imagePath, qrPath *string
	if file, err := ctx.FormFile("image"); err == nil && file != nil {
		rel, err := s.media.SaveWorkshopImage(file, id)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to store workshop image")
			dto.InternalServerError(ctx)
			return
		}
		imagePath = &rel
	}
	if file, err := ctx.FormFile("payment_qr"); err == nil && file != nil {
		rel, err := s.media.SaveWorkshopQR(file, id)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to store workshop payment QR")
			dto.InternalServerError(ctx)
			return
		}
		qrPath = &rel
	}
	if imagePath == nil && qrPath == nil {
		dto.BadResponseError(ctx, dto.ValidationError, "No image or payment_qr file supplied")
		return
	}

	if err := s.repo.UpdateWorkshopImages(ctx, id, imagePath, qrPath); err != nil {
		s.log.Error().Err(err).Msg("failed to update workshop images")
		dto.InternalServerError(ctx)
		return
	}

	updated, err := s.repo.GetWorkshopByID(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load workshop after image upload")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, s.toWorkshopResponse(updated))
}

func (s *service) DeleteWorkshop(ctx *ginext.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.NotFoundError(ctx, "Not found")
		return
	}

	// Registrations go with the workshop (ON DELETE CASCADE).
	if err := s.repo.DeleteWorkshop(ctx, id); err != nil {
		if errors.Is(err, repo.ErrWorkshopNotFound) {
			dto.NotFoundError(ctx, "Not found")
			return
		}
		s.log.Error().Err(err).Msg("failed to delete workshop")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("workshop_id", id).Msg("workshop deleted")
	dto.SuccessResponse(ctx, nil)
}

func (s *service) toRegistrationResponse(reg *model.WorkshopRegistration) dto.RegistrationResponse {
	return dto.RegistrationResponse{
		ID:              reg.ID,
		WorkshopID:      reg.WorkshopID,
		WorkshopTitle:   reg.WorkshopTitle,
		Name:            reg.Name,
		Email:           reg.Email,
		WhatsApp:        reg.WhatsApp,
		Organization:    reg.Organization,
		PaymentProofURL: s.media.URL(reg.PaymentProofPath),
		Status:          reg.Status,
		AdminNotes:      reg.AdminNotes,
		CreatedAt:       reg.CreatedAt,
	}
}

func (s *service) ListRegistrations(ctx *ginext.Context) {
	var sel repo.Selection
	if raw := ctx.Query("workshop_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			dto.BadResponseError(ctx, dto.ValidationError, "Invalid workshop_id")
			return
		}
		sel.WorkshopIDs = []int64{id}
	}

	regs, err := s.repo.GetRegistrations(ctx, sel)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list registrations")
		dto.InternalServerError(ctx)
		return
	}

	items := make([]dto.RegistrationResponse, 0, len(regs))
	for i := range regs {
		items = append(items, s.toRegistrationResponse(&regs[i]))
	}
	dto.SuccessResponse(ctx, items)
}

func (s *service) BulkStatus(ctx *ginext.Context) {
	var req dto.BulkStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.MalformedRequest, "Invalid JSON")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.ValidationError, fmt.Sprintf("%v", verr))
		return
	}

	updated, err := s.repo.UpdateRegistrationsStatus(ctx, req.IDs, req.Status)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to bulk update registration status")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("updated", updated).Str("status", req.Status).Msg("registrations updated")
	dto.SuccessResponse(ctx, dto.BulkStatusResponse{Updated: updated})
}

func (s *service) SetNotes(ctx *ginext.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.NotFoundError(ctx, "Not found")
		return
	}

	var req dto.NotesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.MalformedRequest, "Invalid JSON")
		return
	}

	if err := s.repo.SetAdminNotes(ctx, id, req.AdminNotes); err != nil {
		if errors.Is(err, repo.ErrRegistrationNotFound) {
			dto.NotFoundError(ctx, "Not found")
			return
		}
		s.log.Error().Err(err).Msg("failed to set admin notes")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, nil)
}

// selectedRows reads the export selection (absent body means all
// registrations) and resolves it to projected rows.
func (s *service) selectedRows(ctx *ginext.Context) ([]export.Row, bool) {
	var req dto.ExportSelection
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		dto.BadResponseError(ctx, dto.MalformedRequest, "Invalid JSON")
		return nil, false
	}

	regs, err := s.repo.GetRegistrations(ctx, repo.Selection{
		RegistrationIDs: req.RegistrationIDs,
		WorkshopIDs:     req.WorkshopIDs,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load registrations for export")
		dto.InternalServerError(ctx)
		return nil, false
	}
	return export.FromRegistrations(regs), true
}

func (s *service) ExportCSV(ctx *ginext.Context) {
	rows, ok := s.selectedRows(ctx)
	if !ok {
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="registrations.csv"`)
	ctx.Header("Content-Type", export.CSVContentType)
	ctx.Status(200)
	if err := export.WriteCSV(ctx.Writer, rows); err != nil {
		s.log.Error().Err(err).Msg("failed to stream csv export")
	}
}

func (s *service) ExportXLSX(ctx *ginext.Context) {
	rows, ok := s.selectedRows(ctx)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, rows); err != nil {
		s.log.Error().Err(err).Msg("failed to build xlsx export")
		dto.InternalServerError(ctx)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="registrations.xlsx"`)
	ctx.Data(200, export.XLSXContentType, buf.Bytes())
}

func (s *service) ExportSheets(ctx *ginext.Context) {
	if s.sheets == nil {
		dto.IntegrationUnavailableError(ctx, "Google Sheets credentials or Spreadsheet ID not configured.")
		return
	}

	rows, ok := s.selectedRows(ctx)
	if !ok {
		return
	}

	if err := s.sheets.AppendRegistrations(ctx.Request.Context(), rows); err != nil {
		s.log.Error().Err(err).Msg("failed to export to Google Sheets")
		dto.IntegrationUnavailableError(ctx, "Google Sheets export failed: "+err.Error())
		return
	}

	s.log.Info().Int("exported", len(rows)).Msg("registrations exported to Google Sheets")
	dto.SuccessResponse(ctx, dto.SheetsExportResponse{Exported: len(rows)})
}

func (s *service) Dashboard(ctx *ginext.Context) {
	stats, err := s.repo.DashboardStats(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load dashboard stats")
		dto.InternalServerError(ctx)
		return
	}

	resp := dto.DashboardResponse{
		WorkshopsTotal:        stats.WorkshopsTotal,
		RegistrationsTotal:    stats.RegistrationsTotal,
		RegistrationsVerified: stats.RegistrationsVerified,
		RegistrationsPending:  stats.RegistrationsPending,
		ByWorkshop:            make([]dto.WorkshopRegStats, 0, len(stats.ByWorkshop)),
	}
	for _, c := range stats.ByWorkshop {
		resp.ByWorkshop = append(resp.ByWorkshop, dto.WorkshopRegStats{
			ID:       c.ID,
			Title:    c.Title,
			Status:   c.Status,
			Date:     c.Date,
			RegCount: c.RegCount,
		})
	}
	dto.SuccessResponse(ctx, resp)
}

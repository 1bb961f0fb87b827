package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"github.com/SangulugariMadhuGoud/Superbloom/internal/model"
)

var (
	ErrWorkshopNotFound     = errors.New("workshop not found")
	ErrWorkshopSoldOut      = errors.New("workshop is sold out")
	ErrRegistrationNotFound = errors.New("registration not found")
)

// Selection restricts which registrations a bulk read operates on.
// Explicit ids win over workshop ids; both empty means everything.
type Selection struct {
	RegistrationIDs []int64
	WorkshopIDs     []int64
}

type DashboardStats struct {
	WorkshopsTotal        int64
	RegistrationsTotal    int64
	RegistrationsVerified int64
	RegistrationsPending  int64
	ByWorkshop            []WorkshopRegCount
}

type WorkshopRegCount struct {
	ID       int64
	Title    string
	Status   string
	Date     string
	RegCount int
}

type Repository interface {
	CreateContact(ctx context.Context, c *model.ContactSubmission) (int64, time.Time, error)

	GetAllWorkshops(ctx context.Context) ([]model.Workshop, error)
	GetWorkshopByID(ctx context.Context, id int64) (*model.Workshop, error)
	CreateWorkshop(ctx context.Context, w *model.Workshop) (int64, error)
	UpdateWorkshop(ctx context.Context, w *model.Workshop) error
	UpdateWorkshopImages(ctx context.Context, id int64, imagePath, qrPath *string) error
	DeleteWorkshop(ctx context.Context, id int64) error

	RegisterTx(ctx context.Context, reg *model.WorkshopRegistration) (int64, bool, error)
	AttachPaymentProof(ctx context.Context, registrationID int64, path string) error
	CountRegistrations(ctx context.Context, workshopID int64) (int, error)
	GetRegistrations(ctx context.Context, sel Selection) ([]model.WorkshopRegistration, error)
	UpdateRegistrationsStatus(ctx context.Context, ids []int64, status string) (int64, error)
	SetAdminNotes(ctx context.Context, registrationID int64, notes string) error

	DashboardStats(ctx context.Context) (*DashboardStats, error)

	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) MigrateUp(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

func (r *repository) MigrateDown(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("failed to read rollback files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read rollback file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations rolled back successfully from %s", migrationsDir)
	return nil
}

func (r *repository) CreateContact(ctx context.Context, c *model.ContactSubmission) (int64, time.Time, error) {
	query := `
		INSERT INTO contact_submissions (name, email, service, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	var (
		id        int64
		createdAt time.Time
	)
	row := r.db.QueryRowContext(ctx, query, c.Name, c.Email, c.Service, c.Message)
	if err := row.Scan(&id, &createdAt); err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to insert contact submission: %w", err)
	}
	return id, createdAt, nil
}

const workshopColumns = `
	w.id, w.title, w.description,
	to_char(w.date, 'YYYY-MM-DD'),
	to_char(w.start_time, 'HH24:MI:SS'),
	to_char(w.end_time, 'HH24:MI:SS'),
	w.venue, w.perks, w.capacity, w.image_path, w.status,
	w.payment_qr_path, w.upi_id, w.bank_name, w.account_no, w.amount, w.created_at,
	(SELECT COUNT(*) FROM workshop_registrations reg WHERE reg.workshop_id = w.id)
`

func scanWorkshop(row interface{ Scan(...any) error }) (*model.Workshop, error) {
	var w model.Workshop
	err := row.Scan(
		&w.ID, &w.Title, &w.Description,
		&w.Date, &w.StartTime, &w.EndTime,
		&w.Venue, &w.Perks, &w.Capacity, &w.ImagePath, &w.Status,
		&w.PaymentQRPath, &w.UPIID, &w.BankName, &w.AccountNo, &w.Amount, &w.CreatedAt,
		&w.RegistrationsCount,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *repository) GetAllWorkshops(ctx context.Context) ([]model.Workshop, error) {
	query := `SELECT ` + workshopColumns + ` FROM workshops w ORDER BY w.date DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get workshops: %w", err)
	}
	defer rows.Close()

	var workshops []model.Workshop
	for rows.Next() {
		w, err := scanWorkshop(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workshop: %w", err)
		}
		workshops = append(workshops, *w)
	}

	return workshops, rows.Err()
}

func (r *repository) GetWorkshopByID(ctx context.Context, id int64) (*model.Workshop, error) {
	query := `SELECT ` + workshopColumns + ` FROM workshops w WHERE w.id = $1`

	w, err := scanWorkshop(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWorkshopNotFound
		}
		return nil, fmt.Errorf("failed to get workshop: %w", err)
	}
	return w, nil
}

func (r *repository) CreateWorkshop(ctx context.Context, w *model.Workshop) (int64, error) {
	query := `
		INSERT INTO workshops (title, description, date, start_time, end_time, venue, perks,
		                       capacity, image_path, status, payment_qr_path, upi_id,
		                       bank_name, account_no, amount)
		VALUES ($1, $2, $3::date, $4::time, $5::time, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`

	var id int64
	row := r.db.QueryRowContext(ctx, query,
		w.Title, w.Description, w.Date, w.StartTime, w.EndTime, w.Venue, w.Perks,
		w.Capacity, w.ImagePath, w.Status, w.PaymentQRPath, w.UPIID,
		w.BankName, w.AccountNo, w.Amount,
	)
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert workshop: %w", err)
	}
	return id, nil
}

func (r *repository) UpdateWorkshop(ctx context.Context, w *model.Workshop) error {
	query := `
		UPDATE workshops
		SET title = $1, description = $2, date = $3::date, start_time = $4::time,
		    end_time = $5::time, venue = $6, perks = $7, capacity = $8, status = $9,
		    upi_id = $10, bank_name = $11, account_no = $12, amount = $13
		WHERE id = $14
		RETURNING id
	`

	var id int64
	row := r.db.QueryRowContext(ctx, query,
		w.Title, w.Description, w.Date, w.StartTime, w.EndTime, w.Venue, w.Perks,
		w.Capacity, w.Status, w.UPIID, w.BankName, w.AccountNo, w.Amount, w.ID,
	)
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrWorkshopNotFound
		}
		return fmt.Errorf("failed to update workshop: %w", err)
	}
	return nil
}

// UpdateWorkshopImages replaces the stored image references; a nil
// argument leaves the corresponding column untouched.
func (r *repository) UpdateWorkshopImages(ctx context.Context, id int64, imagePath, qrPath *string) error {
	query := `
		UPDATE workshops
		SET image_path = COALESCE($1, image_path),
		    payment_qr_path = COALESCE($2, payment_qr_path)
		WHERE id = $3
		RETURNING id
	`

	var got int64
	if err := r.db.QueryRowContext(ctx, query, imagePath, qrPath, id).Scan(&got); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrWorkshopNotFound
		}
		return fmt.Errorf("failed to update workshop images: %w", err)
	}
	return nil
}

func (r *repository) DeleteWorkshop(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM workshops WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete workshop: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrWorkshopNotFound
	}
	return nil
}

// RegisterTx runs the capacity check and the get-or-create inside one
// transaction with the workshop row locked, so two concurrent requests
// cannot both pass the check. Returns the registration id and whether a
// new row was created; an existing registration for the same
// (workshop, email) is returned unchanged.
func (r *repository) RegisterTx(ctx context.Context, reg *model.WorkshopRegistration) (int64, bool, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var capacity int
	err = tx.QueryRowContext(ctx, `
		SELECT capacity
		FROM workshops
		WHERE id = $1
		FOR UPDATE
	`, reg.WorkshopID).Scan(&capacity)
	if err != nil {
		_ = tx.Rollback()
		return 0, false, ErrWorkshopNotFound
	}

	var count int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM workshop_registrations
		WHERE workshop_id = $1
	`, reg.WorkshopID).Scan(&count)
	if err != nil {
		_ = tx.Rollback()
		return 0, false, fmt.Errorf("failed to count registrations: %w", err)
	}

	if count >= capacity {
		_ = tx.Rollback()
		return 0, false, ErrWorkshopSoldOut
	}

	var existingID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id
		FROM workshop_registrations
		WHERE workshop_id = $1 AND email = $2
	`, reg.WorkshopID, reg.Email).Scan(&existingID)
	if err == nil {
		if err := tx.Commit(); err != nil {
			return 0, false, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return existingID, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		_ = tx.Rollback()
		return 0, false, fmt.Errorf("failed to check existing registration: %w", err)
	}

	var id int64
	reg.Status = model.RegistrationPending
	err = tx.QueryRowContext(ctx, `
		INSERT INTO workshop_registrations (workshop_id, name, email, whatsapp, organization, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, reg.WorkshopID, reg.Name, reg.Email, reg.WhatsApp, reg.Organization, reg.Status).Scan(&id)
	if err != nil {
		_ = tx.Rollback()
		return 0, false, fmt.Errorf("failed to create registration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, true, nil
}

func (r *repository) AttachPaymentProof(ctx context.Context, registrationID int64, path string) error {
	query := `
		UPDATE workshop_registrations
		SET payment_proof_path = $1
		WHERE id = $2
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, path, registrationID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to attach payment proof: %w", err)
	}
	return nil
}

func (r *repository) CountRegistrations(ctx context.Context, workshopID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM workshop_registrations
		WHERE workshop_id = $1
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, workshopID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}

	return count, nil
}

// placeholders builds "$from, $from+1, ..." for an IN clause.
func placeholders(from, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(parts, ", ")
}

func (r *repository) GetRegistrations(ctx context.Context, sel Selection) ([]model.WorkshopRegistration, error) {
	query := `
		SELECT reg.id, reg.workshop_id, w.title, reg.name, reg.email, reg.whatsapp,
		       reg.organization, reg.payment_proof_path, reg.status, reg.admin_notes,
		       reg.created_at
		FROM workshop_registrations reg
		JOIN workshops w ON w.id = reg.workshop_id
	`

	var args []any
	switch {
	case len(sel.RegistrationIDs) > 0:
		query += ` WHERE reg.id IN (` + placeholders(1, len(sel.RegistrationIDs)) + `)`
		for _, id := range sel.RegistrationIDs {
			args = append(args, id)
		}
	case len(sel.WorkshopIDs) > 0:
		query += ` WHERE reg.workshop_id IN (` + placeholders(1, len(sel.WorkshopIDs)) + `)`
		for _, id := range sel.WorkshopIDs {
			args = append(args, id)
		}
	}
	query += ` ORDER BY reg.created_at ASC, reg.id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.WorkshopRegistration
	for rows.Next() {
		var reg model.WorkshopRegistration
		if err := rows.Scan(
			&reg.ID, &reg.WorkshopID, &reg.WorkshopTitle, &reg.Name, &reg.Email,
			&reg.WhatsApp, &reg.Organization, &reg.PaymentProofPath, &reg.Status,
			&reg.AdminNotes, &reg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, reg)
	}

	return regs, rows.Err()
}

func (r *repository) UpdateRegistrationsStatus(ctx context.Context, ids []int64, status string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `
		UPDATE workshop_registrations
		SET status = $1
		WHERE id IN (` + placeholders(2, len(ids)) + `)`

	args := make([]any, 0, len(ids)+1)
	args = append(args, status)
	for _, id := range ids {
		args = append(args, id)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update registration status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read update result: %w", err)
	}
	return affected, nil
}

func (r *repository) SetAdminNotes(ctx context.Context, registrationID int64, notes string) error {
	query := `
		UPDATE workshop_registrations
		SET admin_notes = $1
		WHERE id = $2
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, notes, registrationID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to set admin notes: %w", err)
	}
	return nil
}

func (r *repository) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats

	row := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM workshops),
			(SELECT COUNT(*) FROM workshop_registrations),
			(SELECT COUNT(*) FROM workshop_registrations WHERE status = 'verified'),
			(SELECT COUNT(*) FROM workshop_registrations WHERE status = 'pending')
	`)
	if err := row.Scan(
		&stats.WorkshopsTotal, &stats.RegistrationsTotal,
		&stats.RegistrationsVerified, &stats.RegistrationsPending,
	); err != nil {
		return nil, fmt.Errorf("failed to get dashboard totals: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT w.id, w.title, w.status, to_char(w.date, 'YYYY-MM-DD'),
		       (SELECT COUNT(*) FROM workshop_registrations reg WHERE reg.workshop_id = w.id)
		FROM workshops w
		ORDER BY w.date DESC
		LIMIT 20
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get per-workshop counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c WorkshopRegCount
		if err := rows.Scan(&c.ID, &c.Title, &c.Status, &c.Date, &c.RegCount); err != nil {
			return nil, fmt.Errorf("failed to scan workshop count: %w", err)
		}
		stats.ByWorkshop = append(stats.ByWorkshop, c)
	}

	return &stats, rows.Err()
}

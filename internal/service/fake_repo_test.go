package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SangulugariMadhuGoud/Superbloom/internal/model"
	"github.com/SangulugariMadhuGoud/Superbloom/internal/repo"
)

// fakeRepo is an in-memory repo.Repository with the same observable
// semantics as the Postgres implementation.
type fakeRepo struct {
	mu        sync.Mutex
	nextID    int64
	contacts  []model.ContactSubmission
	workshops map[int64]*model.Workshop
	regs      map[int64]*model.WorkshopRegistration
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		workshops: make(map[int64]*model.Workshop),
		regs:      make(map[int64]*model.WorkshopRegistration),
	}
}

func (f *fakeRepo) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeRepo) addWorkshop(w model.Workshop) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.ID = f.id()
	if w.Status == "" {
		w.Status = model.WorkshopActive
	}
	w.CreatedAt = time.Now()
	f.workshops[w.ID] = &w
	return w.ID
}

func (f *fakeRepo) countLocked(workshopID int64) int {
	n := 0
	for _, reg := range f.regs {
		if reg.WorkshopID == workshopID {
			n++
		}
	}
	return n
}

func (f *fakeRepo) CreateContact(_ context.Context, c *model.ContactSubmission) (int64, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *c
	stored.ID = f.id()
	stored.CreatedAt = time.Now()
	f.contacts = append(f.contacts, stored)
	return stored.ID, stored.CreatedAt, nil
}

func (f *fakeRepo) GetAllWorkshops(_ context.Context) ([]model.Workshop, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Workshop, 0, len(f.workshops))
	for _, w := range f.workshops {
		cp := *w
		cp.RegistrationsCount = f.countLocked(w.ID)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (f *fakeRepo) GetWorkshopByID(_ context.Context, id int64) (*model.Workshop, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.workshops[id]
	if !ok {
		return nil, repo.ErrWorkshopNotFound
	}
	cp := *w
	cp.RegistrationsCount = f.countLocked(id)
	return &cp, nil
}

func (f *fakeRepo) CreateWorkshop(_ context.Context, w *model.Workshop) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *w
	cp.ID = f.id()
	cp.CreatedAt = time.Now()
	f.workshops[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeRepo) UpdateWorkshop(_ context.Context, w *model.Workshop) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.workshops[w.ID]
	if !ok {
		return repo.ErrWorkshopNotFound
	}
	cp := *w
	cp.CreatedAt = existing.CreatedAt
	cp.ImagePath = existing.ImagePath
	cp.PaymentQRPath = existing.PaymentQRPath
	f.workshops[w.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateWorkshopImages(_ context.Context, id int64, imagePath, qrPath *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.workshops[id]
	if !ok {
		return repo.ErrWorkshopNotFound
	}
	if imagePath != nil {
		w.ImagePath = *imagePath
	}
	if qrPath != nil {
		w.PaymentQRPath = *qrPath
	}
	return nil
}

func (f *fakeRepo) DeleteWorkshop(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.workshops[id]; !ok {
		return repo.ErrWorkshopNotFound
	}
	delete(f.workshops, id)
	for regID, reg := range f.regs {
		if reg.WorkshopID == id {
			delete(f.regs, regID)
		}
	}
	return nil
}

func (f *fakeRepo) RegisterTx(_ context.Context, reg *model.WorkshopRegistration) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w, ok := f.workshops[reg.WorkshopID]
	if !ok {
		return 0, false, repo.ErrWorkshopNotFound
	}
	if f.countLocked(reg.WorkshopID) >= w.Capacity {
		return 0, false, repo.ErrWorkshopSoldOut
	}
	for _, existing := range f.regs {
		if existing.WorkshopID == reg.WorkshopID && existing.Email == reg.Email {
			return existing.ID, false, nil
		}
	}

	cp := *reg
	cp.ID = f.id()
	cp.Status = model.RegistrationPending
	cp.CreatedAt = time.Now()
	f.regs[cp.ID] = &cp
	return cp.ID, true, nil
}

func (f *fakeRepo) AttachPaymentProof(_ context.Context, registrationID int64, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.regs[registrationID]
	if !ok {
		return repo.ErrRegistrationNotFound
	}
	reg.PaymentProofPath = path
	return nil
}

func (f *fakeRepo) CountRegistrations(_ context.Context, workshopID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countLocked(workshopID), nil
}

func (f *fakeRepo) GetRegistrations(_ context.Context, sel repo.Selection) ([]model.WorkshopRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	inSelection := func(reg *model.WorkshopRegistration) bool {
		switch {
		case len(sel.RegistrationIDs) > 0:
			for _, id := range sel.RegistrationIDs {
				if reg.ID == id {
					return true
				}
			}
			return false
		case len(sel.WorkshopIDs) > 0:
			for _, id := range sel.WorkshopIDs {
				if reg.WorkshopID == id {
					return true
				}
			}
			return false
		}
		return true
	}

	var out []model.WorkshopRegistration
	for _, reg := range f.regs {
		if !inSelection(reg) {
			continue
		}
		cp := *reg
		if w, ok := f.workshops[reg.WorkshopID]; ok {
			cp.WorkshopTitle = w.Title
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeRepo) UpdateRegistrationsStatus(_ context.Context, ids []int64, status string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var updated int64
	for _, id := range ids {
		if reg, ok := f.regs[id]; ok {
			reg.Status = status
			updated++
		}
	}
	return updated, nil
}

func (f *fakeRepo) SetAdminNotes(_ context.Context, registrationID int64, notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.regs[registrationID]
	if !ok {
		return repo.ErrRegistrationNotFound
	}
	reg.AdminNotes = notes
	return nil
}

func (f *fakeRepo) DashboardStats(_ context.Context) (*repo.DashboardStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := &repo.DashboardStats{
		WorkshopsTotal:     int64(len(f.workshops)),
		RegistrationsTotal: int64(len(f.regs)),
	}
	for _, reg := range f.regs {
		switch reg.Status {
		case model.RegistrationVerified:
			stats.RegistrationsVerified++
		case model.RegistrationPending:
			stats.RegistrationsPending++
		}
	}

	var workshops []*model.Workshop
	for _, w := range f.workshops {
		workshops = append(workshops, w)
	}
	sort.Slice(workshops, func(i, j int) bool { return workshops[i].Date > workshops[j].Date })
	if len(workshops) > 20 {
		workshops = workshops[:20]
	}
	for _, w := range workshops {
		stats.ByWorkshop = append(stats.ByWorkshop, repo.WorkshopRegCount{
			ID:       w.ID,
			Title:    w.Title,
			Status:   w.Status,
			Date:     w.Date,
			RegCount: f.countLocked(w.ID),
		})
	}
	return stats, nil
}

func (f *fakeRepo) MigrateUp(string) error   { return nil }
func (f *fakeRepo) MigrateDown(string) error { return nil }

package services

import (
	"fmt"
	"testing"
	"time"

	"rentease_backend/internal/auth"
	"rentease_backend/internal/models"
	"rentease_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func session(id string, role models.UserRole) auth.Session {
	return auth.NewSession(id, role, id+"@example.com", time.Now().Add(time.Hour))
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// --- notifier ---

type fakeNotifier struct {
	notices []Notice
	emails  []EmailNotice
}

func (n *fakeNotifier) Notify(tx *gorm.DB, notice Notice) (*models.Notification, error) {
	n.notices = append(n.notices, notice)
	return &models.Notification{
		BaseModel: models.BaseModel{ID: fmt.Sprintf("n-%d", len(n.notices))},
		UserID:    notice.UserID,
		Type:      notice.Type,
		Title:     notice.Title,
		Message:   notice.Message,
	}, nil
}

func (n *fakeNotifier) QueueEmail(tx *gorm.DB, e EmailNotice) error {
	n.emails = append(n.emails, e)
	return nil
}

func (n *fakeNotifier) Link(path string) string {
	return "http://localhost:4000" + path
}

// --- profiles ---

type fakeProfileRepo struct {
	profiles    map[string]*models.Profile
	roleUpdates int
	deletes     int
	roleLocks   []models.UserRole
}

func newFakeProfileRepo(profiles ...*models.Profile) *fakeProfileRepo {
	r := &fakeProfileRepo{profiles: map[string]*models.Profile{}}
	for _, p := range profiles {
		r.profiles[p.ID] = p
	}
	return r
}

func (r *fakeProfileRepo) Create(db *gorm.DB, p *models.Profile) error {
	for _, existing := range r.profiles {
		if existing.Email == p.Email {
			return repositories.ErrDuplicate
		}
	}
	if p.ID == "" {
		p.ID = fmt.Sprintf("profile-%d", len(r.profiles)+1)
	}
	r.profiles[p.ID] = p
	return nil
}

func (r *fakeProfileRepo) FindByID(db *gorm.DB, id string) (*models.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) FindByEmail(db *gorm.DB, email string) (*models.Profile, error) {
	for _, p := range r.profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}

func (r *fakeProfileRepo) Update(db *gorm.DB, p *models.Profile) error {
	if _, ok := r.profiles[p.ID]; !ok {
		return repositories.ErrProfileNotFound
	}
	cp := *p
	r.profiles[p.ID] = &cp
	return nil
}

func (r *fakeProfileRepo) UpdateRole(db *gorm.DB, id string, role models.UserRole) error {
	r.roleUpdates++
	p, ok := r.profiles[id]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.Role = role
	return nil
}

func (r *fakeProfileRepo) Delete(db *gorm.DB, id string) error {
	r.deletes++
	if _, ok := r.profiles[id]; !ok {
		return repositories.ErrProfileNotFound
	}
	delete(r.profiles, id)
	return nil
}

func (r *fakeProfileRepo) CountByRoleForUpdate(db *gorm.DB, role models.UserRole) (int64, error) {
	r.roleLocks = append(r.roleLocks, role)
	var n int64
	for _, p := range r.profiles {
		if p.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *fakeProfileRepo) List(db *gorm.DB, c repositories.ProfileCriteria) ([]models.Profile, int64, error) {
	var out []models.Profile
	for _, p := range r.profiles {
		if c.Role == "" || p.Role == c.Role {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

// --- verifications ---

type fakeVerificationRepo struct {
	items map[string]*models.AgentVerification
	saves int
}

func newFakeVerificationRepo(items ...*models.AgentVerification) *fakeVerificationRepo {
	r := &fakeVerificationRepo{items: map[string]*models.AgentVerification{}}
	for _, v := range items {
		r.items[v.ID] = v
	}
	return r
}

func (r *fakeVerificationRepo) FindByProfileID(db *gorm.DB, profileID string) (*models.AgentVerification, error) {
	for _, v := range r.items {
		if v.ProfileID == profileID {
			cp := *v
			return &cp, nil
		}
	}
	return nil, repositories.ErrVerificationNotFound
}

func (r *fakeVerificationRepo) FindByIDForUpdate(db *gorm.DB, id string) (*models.AgentVerification, error) {
	v, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrVerificationNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVerificationRepo) Save(db *gorm.DB, v *models.AgentVerification) error {
	r.saves++
	if v.ID == "" {
		v.ID = fmt.Sprintf("verification-%d", len(r.items)+1)
	}
	cp := *v
	cp.Profile = nil
	r.items[v.ID] = &cp
	return nil
}

func (r *fakeVerificationRepo) List(db *gorm.DB, c repositories.VerificationCriteria) ([]models.AgentVerification, int64, error) {
	var out []models.AgentVerification
	for _, v := range r.items {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *fakeVerificationRepo) FindExpiredSuspensions(db *gorm.DB, now time.Time, limit int) ([]models.AgentVerification, error) {
	var out []models.AgentVerification
	for _, v := range r.items {
		if v.IsSuspended && v.SuspendedUntil != nil && !now.Before(*v.SuspendedUntil) {
			out = append(out, *v)
		}
	}
	return out, nil
}

// --- properties ---

type fakePropertyRepo struct {
	items      map[string]*models.Property
	saved      map[string]bool
	views      int
	contacts   int
	statusSets int
	locked     []string
}

func newFakePropertyRepo(items ...*models.Property) *fakePropertyRepo {
	r := &fakePropertyRepo{items: map[string]*models.Property{}, saved: map[string]bool{}}
	for _, p := range items {
		r.items[p.ID] = p
	}
	return r
}

func (r *fakePropertyRepo) Create(db *gorm.DB, p *models.Property) error {
	if p.ID == "" {
		p.ID = fmt.Sprintf("property-%d", len(r.items)+1)
	}
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *fakePropertyRepo) FindByID(db *gorm.DB, id string) (*models.Property, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrPropertyNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePropertyRepo) FindByIDForUpdate(db *gorm.DB, id string) (*models.Property, error) {
	r.locked = append(r.locked, id)
	return r.FindByID(db, id)
}

func (r *fakePropertyRepo) Update(db *gorm.DB, p *models.Property) error {
	if _, ok := r.items[p.ID]; !ok {
		return repositories.ErrPropertyNotFound
	}
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *fakePropertyRepo) UpdateStatus(db *gorm.DB, id string, status models.PropertyStatus, reason string) error {
	r.statusSets++
	p, ok := r.items[id]
	if !ok {
		return repositories.ErrPropertyNotFound
	}
	p.Status = status
	p.RejectionReason = reason
	return nil
}

func (r *fakePropertyRepo) Delete(db *gorm.DB, id string) error {
	if _, ok := r.items[id]; !ok {
		return repositories.ErrPropertyNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakePropertyRepo) Search(db *gorm.DB, c repositories.PropertyCriteria) ([]models.Property, int64, error) {
	var out []models.Property
	for _, p := range r.items {
		if c.Status != "" && p.Status != c.Status {
			continue
		}
		if c.AgentProfileID != "" && p.AgentProfileID != c.AgentProfileID {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePropertyRepo) IncrementViews(db *gorm.DB, id string) error {
	r.views++
	return nil
}

func (r *fakePropertyRepo) IncrementContactClicks(db *gorm.DB, id string) error {
	r.contacts++
	return nil
}

func (r *fakePropertyRepo) Save(db *gorm.DB, profileID, propertyID string) error {
	r.saved[profileID+"/"+propertyID] = true
	return nil
}

func (r *fakePropertyRepo) Unsave(db *gorm.DB, profileID, propertyID string) error {
	delete(r.saved, profileID+"/"+propertyID)
	return nil
}

func (r *fakePropertyRepo) ListSaved(db *gorm.DB, profileID string, p repositories.Pagination) ([]models.SavedProperty, int64, error) {
	return nil, 0, nil
}

// --- bookings ---

type fakeBookingRepo struct {
	items   map[string]*models.Booking
	deletes int
}

func newFakeBookingRepo(items ...*models.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{items: map[string]*models.Booking{}}
	for _, b := range items {
		r.items[b.ID] = b
	}
	return r
}

func (r *fakeBookingRepo) Create(db *gorm.DB, b *models.Booking) error {
	if b.ID == "" {
		b.ID = fmt.Sprintf("booking-%d", len(r.items)+1)
	}
	cp := *b
	r.items[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) FindByID(db *gorm.DB, id string) (*models.Booking, error) {
	b, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) FindByIDForUpdate(db *gorm.DB, id string) (*models.Booking, error) {
	return r.FindByID(db, id)
}

func (r *fakeBookingRepo) UpdateStatus(db *gorm.DB, id string, status models.BookingStatus) error {
	b, ok := r.items[id]
	if !ok {
		return repositories.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (r *fakeBookingRepo) Reschedule(db *gorm.DB, id, date, timeOfDay string) error {
	b, ok := r.items[id]
	if !ok {
		return repositories.ErrBookingNotFound
	}
	b.BookingDate = date
	b.BookingTime = timeOfDay
	return nil
}

func (r *fakeBookingRepo) Delete(db *gorm.DB, id string) error {
	r.deletes++
	if _, ok := r.items[id]; !ok {
		return repositories.ErrBookingNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeBookingRepo) SlotTaken(db *gorm.DB, propertyID, date, timeOfDay, excludeID string) (bool, error) {
	for _, b := range r.items {
		if b.ID == excludeID || b.PropertyID != propertyID {
			continue
		}
		if b.BookingDate == date && b.BookingTime == timeOfDay && !b.Status.Terminal() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) HasBooking(db *gorm.DB, studentID, propertyID string, statuses ...models.BookingStatus) (bool, error) {
	for _, b := range r.items {
		if b.UserID != studentID || b.PropertyID != propertyID {
			continue
		}
		for _, s := range statuses {
			if b.Status == s {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) List(db *gorm.DB, c repositories.BookingCriteria) ([]models.Booking, int64, error) {
	var out []models.Booking
	for _, b := range r.items {
		if c.UserID != "" && b.UserID != c.UserID {
			continue
		}
		if c.AgentID != "" && b.AgentID != c.AgentID {
			continue
		}
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

// --- reports ---

type fakeReportRepo struct {
	items map[string]*models.Report
}

func newFakeReportRepo(items ...*models.Report) *fakeReportRepo {
	r := &fakeReportRepo{items: map[string]*models.Report{}}
	for _, rep := range items {
		r.items[rep.ID] = rep
	}
	return r
}

func (r *fakeReportRepo) Create(db *gorm.DB, rep *models.Report) error {
	if rep.ID == "" {
		rep.ID = fmt.Sprintf("report-%d", len(r.items)+1)
	}
	cp := *rep
	r.items[rep.ID] = &cp
	return nil
}

func (r *fakeReportRepo) FindByIDForUpdate(db *gorm.DB, id string) (*models.Report, error) {
	rep, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrReportNotFound
	}
	cp := *rep
	return &cp, nil
}

func (r *fakeReportRepo) Resolve(db *gorm.DB, rep *models.Report) error {
	if _, ok := r.items[rep.ID]; !ok {
		return repositories.ErrReportNotFound
	}
	cp := *rep
	r.items[rep.ID] = &cp
	return nil
}

func (r *fakeReportRepo) List(db *gorm.DB, c repositories.ReportCriteria) ([]models.Report, int64, error) {
	var out []models.Report
	for _, rep := range r.items {
		if c.Status != "" && rep.Status != c.Status {
			continue
		}
		out = append(out, *rep)
	}
	return out, int64(len(out)), nil
}

// --- reviews ---

type fakeReviewRepo struct {
	items []models.Review
}

func (r *fakeReviewRepo) Create(db *gorm.DB, review *models.Review) error {
	for _, existing := range r.items {
		if existing.PropertyID == review.PropertyID && existing.StudentID == review.StudentID {
			return repositories.ErrDuplicate
		}
	}
	review.ID = fmt.Sprintf("review-%d", len(r.items)+1)
	r.items = append(r.items, *review)
	return nil
}

func (r *fakeReviewRepo) ListForProperty(db *gorm.DB, propertyID string, p repositories.Pagination) ([]models.Review, int64, error) {
	var out []models.Review
	for _, review := range r.items {
		if review.PropertyID == propertyID {
			out = append(out, review)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeReviewRepo) AverageRating(db *gorm.DB, propertyID string) (float64, error) {
	var sum, n int
	for _, review := range r.items {
		if review.PropertyID == propertyID {
			sum += review.Rating
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}

// --- shared rentals ---

type fakeSharedRentalRepo struct {
	items     map[string]*models.SharedRental
	interests []models.SharedRentalInterest
}

func newFakeSharedRentalRepo(items ...*models.SharedRental) *fakeSharedRentalRepo {
	r := &fakeSharedRentalRepo{items: map[string]*models.SharedRental{}}
	for _, sr := range items {
		r.items[sr.ID] = sr
	}
	return r
}

func (r *fakeSharedRentalRepo) Create(db *gorm.DB, sr *models.SharedRental) error {
	if sr.ID == "" {
		sr.ID = fmt.Sprintf("rental-%d", len(r.items)+1)
	}
	cp := *sr
	r.items[sr.ID] = &cp
	return nil
}

func (r *fakeSharedRentalRepo) FindByID(db *gorm.DB, id string) (*models.SharedRental, error) {
	sr, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrSharedRentalNotFound
	}
	cp := *sr
	return &cp, nil
}

func (r *fakeSharedRentalRepo) UpdateStatus(db *gorm.DB, id string, status models.SharedRentalStatus) error {
	sr, ok := r.items[id]
	if !ok {
		return repositories.ErrSharedRentalNotFound
	}
	sr.Status = status
	return nil
}

func (r *fakeSharedRentalRepo) ListActive(db *gorm.DB, p repositories.Pagination) ([]models.SharedRental, int64, error) {
	var out []models.SharedRental
	for _, sr := range r.items {
		if sr.Status == models.SharedRentalStatusActive {
			out = append(out, *sr)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeSharedRentalRepo) CreateInterest(db *gorm.DB, in *models.SharedRentalInterest) error {
	for _, existing := range r.interests {
		if existing.SharedRentalID == in.SharedRentalID && existing.StudentID == in.StudentID {
			return repositories.ErrDuplicate
		}
	}
	in.ID = fmt.Sprintf("interest-%d", len(r.interests)+1)
	r.interests = append(r.interests, *in)
	return nil
}

func (r *fakeSharedRentalRepo) ListInterests(db *gorm.DB, rentalID string) ([]models.SharedRentalInterest, error) {
	var out []models.SharedRentalInterest
	for _, in := range r.interests {
		if in.SharedRentalID == rentalID {
			out = append(out, in)
		}
	}
	return out, nil
}

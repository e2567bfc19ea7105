package repository

import (
	"context"
	"errors"
	"time"

	"barpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNoOpenSession is returned when no session currently has status OPEN.
var ErrNoOpenSession = errors.New("no open session")

type SessionRepository interface {
	Create(ctx context.Context, s *model.ShiftSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ShiftSession, error)
	// FindOpen returns the single OPEN session or ErrNoOpenSession.
	FindOpen(ctx context.Context) (*model.ShiftSession, error)
	// FindLastClosed returns the most recently closed session — its final
	// inventory is the opening baseline for the next shift.
	FindLastClosed(ctx context.Context) (*model.ShiftSession, error)
	Update(ctx context.Context, s *model.ShiftSession) error
	List(ctx context.Context, page, limit int) ([]model.ShiftSession, error)
	ListClosedInRange(ctx context.Context, from, to time.Time) ([]model.ShiftSession, error)
}

type sessionRepo struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &sessionRepo{db: db} }

func (r *sessionRepo) Create(ctx context.Context, s *model.ShiftSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ShiftSession, error) {
	var s model.ShiftSession
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *sessionRepo) FindOpen(ctx context.Context) (*model.ShiftSession, error) {
	var s model.ShiftSession
	err := r.db.WithContext(ctx).Where("status = ?", model.ShiftOpen).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoOpenSession
	}
	return &s, err
}

func (r *sessionRepo) FindLastClosed(ctx context.Context) (*model.ShiftSession, error) {
	var s model.ShiftSession
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{model.ShiftClosed, model.ShiftPendingApproval}).
		Order("closed_at DESC").
		First(&s).Error
	return &s, err
}

func (r *sessionRepo) Update(ctx context.Context, s *model.ShiftSession) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *sessionRepo) List(ctx context.Context, page, limit int) ([]model.ShiftSession, error) {
	var sessions []model.ShiftSession
	err := r.db.WithContext(ctx).
		Order("opened_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepo) ListClosedInRange(ctx context.Context, from, to time.Time) ([]model.ShiftSession, error) {
	var sessions []model.ShiftSession
	err := r.db.WithContext(ctx).
		Where("status = ? AND closed_at >= ? AND closed_at < ?", model.ShiftClosed, from, to).
		Order("closed_at ASC").
		Find(&sessions).Error
	return sessions, err
}

package store

import (
	"context" // Request-scoped cancellation
	"errors"  // Sentinel matching

	"token_dashboard/internal/dashboard" // Store interface and sentinels
	"token_dashboard/internal/domain"    // Project and row models

	"gorm.io/gorm" // GORM ORM library
)

// GormStore implements the gateway's Store over gorm/MySQL
type GormStore struct {
	db *gorm.DB // Database handle
}

// New creates a GormStore over the given database handle
func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// FindProject looks a project up by primary id
func (s *GormStore) FindProject(ctx context.Context, id int64) (*domain.Project, error) {
	var project domain.Project
	// Query project by primary key
	if err := s.db.WithContext(ctx).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dashboard.ErrProjectNotFound // Absence is a typed result
		}
		return nil, err // Any other failure propagates
	}
	return &project, nil
}

// FindProjectByTokenID looks a project up by its base token id
func (s *GormStore) FindProjectByTokenID(ctx context.Context, tokenID int64) (*domain.Project, error) {
	var project domain.Project
	// Query project by the unique token_id column
	if err := s.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dashboard.ErrProjectNotFound // Absence is a typed result
		}
		return nil, err // Any other failure propagates
	}
	return &project, nil
}

// FindRows returns up to limit rows for (projectID, role), newest first.
// An empty role matches rows of every role.
func (s *GormStore) FindRows(ctx context.Context, projectID int64, role string, limit int) ([]domain.DashboardRow, error) {
	q := s.db.WithContext(ctx).Where("project_id = ?", projectID)
	// Narrow to one role unless the caller wants them all
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var rows []domain.DashboardRow
	// Newest first, capped at limit
	if err := q.Order("created_at desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListProjects returns every project ordered by id, for the public listing
func (s *GormStore) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := s.db.WithContext(ctx).Order("id asc").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

package repository

import (
	"github.com/taskhive/taskhive-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// scopeVisibility applies the caller's visibility to a task query. Every
// task read path goes through here; there is no unscoped read.
func scopeVisibility(query *gorm.DB, vis TaskVisibility) *gorm.DB {
	if vis.Unrestricted {
		return query
	}
	return query.Where("tasks.assigned_user_id = ?", vis.UserID)
}

// FindByID finds a task by ID, scoped by visibility. A task outside the
// caller's visibility reads as not found.
func (r *GormTaskRepository) FindByID(id uint64, vis TaskVisibility) (*models.Task, error) {
	var task models.Task
	query := scopeVisibility(r.db.Preload("AssignedUser"), vis)
	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks matching the filter with a total count
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := scopeVisibility(r.db.Model(&models.Task{}), filter.Visibility)
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	if err := listQuery.Preload("AssignedUser").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	result := r.db.Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

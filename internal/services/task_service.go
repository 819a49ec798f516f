package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/taskhive/taskhive-api/internal/models"
	"github.com/taskhive/taskhive-api/internal/realtime"
	"github.com/taskhive/taskhive-api/internal/repository"
	"gorm.io/gorm"
)

// TasksResource is the resource path task permissions are keyed on.
const TasksResource = "/tasks"

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleEmpty      = errors.New("title cannot be empty")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidAssignee = errors.New("assigned user does not exist")
)

// TaskService handles task business logic: validation, ownership-filtered
// reads and mutation broadcasts.
type TaskService struct {
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
	permissions *PermissionService
	hub         *realtime.Hub
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, permissions *PermissionService, hub *realtime.Hub) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		permissions: permissions,
		hub:         hub,
	}
}

// visibilityFor resolves the caller's task visibility. Roles holding the
// elevated capability on /tasks see every task; everyone else sees only
// tasks assigned to them. Failure to resolve the capability restricts
// rather than widens.
func (s *TaskService) visibilityFor(callerID, roleID uint64) repository.TaskVisibility {
	elevated, err := s.permissions.HasElevatedCapability(roleID, TasksResource)
	if err != nil || !elevated {
		return repository.TaskVisibility{UserID: callerID}
	}
	return repository.TaskVisibility{Unrestricted: true}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	CallerID uint64
	RoleID   uint64
	Status   *models.TaskStatus
	Page     int
	PageSize int
}

// ListTasks returns the tasks the caller may observe.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		Visibility: s.visibilityFor(input.CallerID, input.RoleID),
		Status:     input.Status,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a single task, subject to the same visibility decision as
// listing. An invisible task reads as not found.
func (s *TaskService) GetTask(callerID, roleID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, s.visibilityFor(callerID, roleID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title          string
	Description    string
	Status         models.TaskStatus
	Deadline       *time.Time
	AssignedUserID *uint64
}

// CreateTask validates, persists and broadcasts a new task.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if !models.ValidTaskStatus(input.Status) {
		return nil, ErrInvalidStatus
	}

	if err := s.checkAssignee(input.AssignedUserID); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:          input.Title,
		Description:    input.Description,
		Status:         input.Status,
		Deadline:       input.Deadline,
		AssignedUserID: input.AssignedUserID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.hub.Publish(realtime.Event{Name: realtime.EventTaskCreated, Payload: task})

	return task, nil
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Status         *models.TaskStatus
	Deadline       *time.Time
	ClearDeadline  bool
	AssignedUserID *uint64
	Unassign       bool
}

// UpdateTask merges the provided fields into an existing task, persists it
// and broadcasts the update.
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, repository.TaskVisibility{Unrestricted: true})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !models.ValidTaskStatus(*input.Status) {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.ClearDeadline {
		task.Deadline = nil
	} else if input.Deadline != nil {
		task.Deadline = input.Deadline
	}
	if input.Unassign {
		task.AssignedUserID = nil
	} else if input.AssignedUserID != nil {
		if err := s.checkAssignee(input.AssignedUserID); err != nil {
			return nil, err
		}
		task.AssignedUserID = input.AssignedUserID
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.hub.Publish(realtime.Event{Name: realtime.EventTaskUpdated, Payload: task})

	return task, nil
}

// DeleteTask removes a task and broadcasts the deletion.
func (s *TaskService) DeleteTask(taskID uint64) error {
	if err := s.taskRepo.Delete(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.hub.Publish(realtime.Event{Name: realtime.EventTaskDeleted, Payload: map[string]uint64{"id": taskID}})

	return nil
}

// AttachFile records an uploaded attachment's stored filename on the task
// and broadcasts the change.
func (s *TaskService) AttachFile(taskID uint64, filename string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, repository.TaskVisibility{Unrestricted: true})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	task.Attachment = filename
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to record attachment: %w", err)
	}

	s.hub.Publish(realtime.Event{Name: realtime.EventTaskUpdated, Payload: task})

	return task, nil
}

func (s *TaskService) checkAssignee(userID *uint64) error {
	if userID == nil {
		return nil
	}
	if _, err := s.userRepo.FindByID(*userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidAssignee
		}
		return fmt.Errorf("failed to verify assignee: %w", err)
	}
	return nil
}

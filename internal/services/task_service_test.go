package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/taskhive/taskhive-api/internal/models"
	"github.com/taskhive/taskhive-api/internal/realtime"
	"github.com/taskhive/taskhive-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskServiceTestSuite defines the test suite for TaskService
type TaskServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	hub     *realtime.Hub
	service *TaskService

	adminRole  *models.Role
	viewerRole *models.Role
	admin      *models.User
	alice      *models.User
	bob        *models.User
}

// SetupTest runs before each test
func (suite *TaskServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.PermissionSet{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	userRepo := repository.NewUserRepository(suite.db)
	roleRepo := repository.NewRoleRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)

	suite.hub = realtime.NewHub()
	permissions := NewPermissionService(roleRepo, userRepo)
	suite.service = NewTaskService(taskRepo, userRepo, permissions, suite.hub)

	suite.adminRole = &models.Role{Name: "Admin"}
	suite.viewerRole = &models.Role{Name: "Viewer"}
	suite.Require().NoError(suite.db.Create(suite.adminRole).Error)
	suite.Require().NoError(suite.db.Create(suite.viewerRole).Error)

	suite.Require().NoError(suite.db.Create(&models.PermissionSet{
		RoleID:   suite.adminRole.ID,
		Resource: TasksResource,
		Actions:  models.Actions{"GET", "POST", "PUT", "DELETE"},
		Admin:    true,
	}).Error)
	suite.Require().NoError(suite.db.Create(&models.PermissionSet{
		RoleID:   suite.viewerRole.ID,
		Resource: TasksResource,
		Actions:  models.Actions{"GET"},
	}).Error)

	suite.admin = suite.createUser("admin@example.com", suite.adminRole.ID)
	suite.alice = suite.createUser("alice@example.com", suite.viewerRole.ID)
	suite.bob = suite.createUser("bob@example.com", suite.viewerRole.ID)
}

// TearDownTest runs after each test
func (suite *TaskServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskServiceTestSuite) createUser(email string, roleID uint64) *models.User {
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hashedpassword",
		RoleID:       roleID,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *TaskServiceTestSuite) createTask(title string, assignedTo *uint64) *models.Task {
	task := &models.Task{
		Title:          title,
		Status:         models.TaskStatusPending,
		AssignedUserID: assignedTo,
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

// TestListTasks_ElevatedSeesAll: a role with the elevated capability on
// /tasks observes every task, including ones assigned to other users.
func (suite *TaskServiceTestSuite) TestListTasks_ElevatedSeesAll() {
	suite.createTask("Alice's task", &suite.alice.ID)
	suite.createTask("Bob's task", &suite.bob.ID)
	suite.createTask("Unassigned task", nil)

	tasks, total, err := suite.service.ListTasks(ListTasksInput{
		CallerID: suite.admin.ID,
		RoleID:   suite.adminRole.ID,
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), total)
	assert.Len(suite.T(), tasks, 3)
}

// TestListTasks_OwnershipFiltered: a non-elevated caller receives exactly
// the tasks assigned to them, never another user's task.
func (suite *TaskServiceTestSuite) TestListTasks_OwnershipFiltered() {
	mine := suite.createTask("Alice's task", &suite.alice.ID)
	suite.createTask("Bob's task", &suite.bob.ID)
	suite.createTask("Unassigned task", nil)

	tasks, total, err := suite.service.ListTasks(ListTasksInput{
		CallerID: suite.alice.ID,
		RoleID:   suite.viewerRole.ID,
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), total)
	assert.Len(suite.T(), tasks, 1)
	assert.Equal(suite.T(), mine.ID, tasks[0].ID)
}

func (suite *TaskServiceTestSuite) TestListTasks_StatusFilter() {
	suite.createTask("Pending task", &suite.alice.ID)
	done := &models.Task{Title: "Done task", Status: models.TaskStatusCompleted, AssignedUserID: &suite.alice.ID}
	suite.Require().NoError(suite.db.Create(done).Error)

	status := models.TaskStatusCompleted
	tasks, total, err := suite.service.ListTasks(ListTasksInput{
		CallerID: suite.alice.ID,
		RoleID:   suite.viewerRole.ID,
		Status:   &status,
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), total)
	assert.Equal(suite.T(), done.ID, tasks[0].ID)
}

// TestGetTask_InvisibleReadsAsNotFound: the single-task read funnels through
// the same visibility decision as listing.
func (suite *TaskServiceTestSuite) TestGetTask_InvisibleReadsAsNotFound() {
	other := suite.createTask("Bob's task", &suite.bob.ID)

	_, err := suite.service.GetTask(suite.alice.ID, suite.viewerRole.ID, other.ID)
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)

	task, err := suite.service.GetTask(suite.admin.ID, suite.adminRole.ID, other.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), other.ID, task.ID)
}

func (suite *TaskServiceTestSuite) TestCreateTask_Broadcasts() {
	sub := suite.hub.Subscribe()
	defer suite.hub.Unsubscribe(sub)

	task, err := suite.service.CreateTask(CreateTaskInput{
		Title:          "New task",
		Description:    "Details",
		AssignedUserID: &suite.alice.ID,
	})
	assert.NoError(suite.T(), err)
	assert.NotZero(suite.T(), task.ID)
	assert.Equal(suite.T(), models.TaskStatusPending, task.Status)

	event := <-sub.Events()
	assert.Equal(suite.T(), realtime.EventTaskCreated, event.Name)
	created, ok := event.Payload.(*models.Task)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), task.ID, created.ID)
}

// TestCreateTask_EmptyTitle: validation fails before persistence and no
// broadcast event is emitted.
func (suite *TaskServiceTestSuite) TestCreateTask_EmptyTitle() {
	sub := suite.hub.Subscribe()
	defer suite.hub.Unsubscribe(sub)

	_, err := suite.service.CreateTask(CreateTaskInput{Title: ""})
	assert.ErrorIs(suite.T(), err, ErrTitleRequired)

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Zero(suite.T(), count)

	select {
	case event := <-sub.Events():
		suite.T().Fatalf("unexpected broadcast %s after validation failure", event.Name)
	default:
	}
}

func (suite *TaskServiceTestSuite) TestCreateTask_InvalidStatus() {
	_, err := suite.service.CreateTask(CreateTaskInput{Title: "Task", Status: "Bogus"})
	assert.ErrorIs(suite.T(), err, ErrInvalidStatus)
}

func (suite *TaskServiceTestSuite) TestCreateTask_UnknownAssignee() {
	unknown := uint64(9999)
	_, err := suite.service.CreateTask(CreateTaskInput{Title: "Task", AssignedUserID: &unknown})
	assert.ErrorIs(suite.T(), err, ErrInvalidAssignee)
}

// TestCreateTask_NotDeduplicated: the same request twice produces two
// distinct records.
func (suite *TaskServiceTestSuite) TestCreateTask_NotDeduplicated() {
	input := CreateTaskInput{Title: "Same task"}

	first, err := suite.service.CreateTask(input)
	assert.NoError(suite.T(), err)
	second, err := suite.service.CreateTask(input)
	assert.NoError(suite.T(), err)

	assert.NotEqual(suite.T(), first.ID, second.ID)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_MergesFields() {
	task := suite.createTask("Old title", &suite.alice.ID)

	sub := suite.hub.Subscribe()
	defer suite.hub.Unsubscribe(sub)

	newTitle := "New title"
	status := models.TaskStatusInProgress
	updated, err := suite.service.UpdateTask(task.ID, UpdateTaskInput{
		Title:  &newTitle,
		Status: &status,
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), newTitle, updated.Title)
	assert.Equal(suite.T(), status, updated.Status)
	// Unspecified fields keep their values.
	assert.Equal(suite.T(), suite.alice.ID, *updated.AssignedUserID)

	event := <-sub.Events()
	assert.Equal(suite.T(), realtime.EventTaskUpdated, event.Name)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_NotFound() {
	title := "New title"
	_, err := suite.service.UpdateTask(9999, UpdateTaskInput{Title: &title})
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_EmptyTitleRejected() {
	task := suite.createTask("Title", nil)

	empty := ""
	_, err := suite.service.UpdateTask(task.ID, UpdateTaskInput{Title: &empty})
	assert.ErrorIs(suite.T(), err, ErrTitleEmpty)
}

func (suite *TaskServiceTestSuite) TestDeleteTask_Broadcasts() {
	task := suite.createTask("Doomed task", nil)

	sub := suite.hub.Subscribe()
	defer suite.hub.Unsubscribe(sub)

	err := suite.service.DeleteTask(task.ID)
	assert.NoError(suite.T(), err)

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Zero(suite.T(), count)

	event := <-sub.Events()
	assert.Equal(suite.T(), realtime.EventTaskDeleted, event.Name)
	payload, ok := event.Payload.(map[string]uint64)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), task.ID, payload["id"])
}

func (suite *TaskServiceTestSuite) TestDeleteTask_NotFound() {
	err := suite.service.DeleteTask(9999)
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestAttachFile() {
	task := suite.createTask("Task with file", nil)

	updated, err := suite.service.AttachFile(task.ID, "abc123.pdf")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "abc123.pdf", updated.Attachment)

	_, err = suite.service.AttachFile(9999, "abc123.pdf")
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}

package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/onboarding-portal/api/internal/constants"
	"github.com/onboarding-portal/api/internal/database"
	"github.com/onboarding-portal/api/internal/dto"
	"github.com/onboarding-portal/api/internal/middleware"
	"github.com/onboarding-portal/api/internal/models"
	"github.com/onboarding-portal/api/internal/repository"
	"github.com/onboarding-portal/api/internal/services"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type TaskHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	admin  *models.User
	user   *models.User
}

func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Contact{},
		&models.CompletionRecord{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	suite.admin = &models.User{Login: "A00000001", Role: models.RoleAdmin, CurrentStage: models.StageOne}
	suite.db.Create(suite.admin)
	suite.user = &models.User{Login: "U00000001", Role: models.RoleUser, CurrentStage: models.StageOne}
	suite.db.Create(suite.user)

	taskRepo := repository.NewTaskRepository(suite.db)
	taskService := services.NewTaskService(taskRepo)
	handler := NewTaskHandler(taskService)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	tasks := suite.router.Group("/api/tasks")
	{
		tasks.GET("", handler.ListTasks)
		tasks.GET("/:id", handler.GetTask)
		tasks.POST("", middleware.RequireAuth(true), middleware.RequireAdmin(), handler.CreateTask)
		tasks.PATCH("/:id", middleware.RequireAuth(true), middleware.RequireAdmin(), handler.UpdateTask)
		tasks.DELETE("/:id", middleware.RequireAuth(true), middleware.RequireAdmin(), handler.DeleteTask)
	}
}

func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) request(method, path string, actor *models.User, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		req.Header.Set(constants.HeaderUserID, fmt.Sprintf("%d", actor.ID))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TaskHandlerTestSuite) TestCreateRequiresAdmin() {
	payload := map[string]interface{}{"title": "Badge photo"}

	w := suite.request(http.MethodPost, "/api/tasks", suite.user, payload)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodPost, "/api/tasks", nil, payload)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateAndGet() {
	payload := map[string]interface{}{
		"title":           "Security courses",
		"category":        "security",
		"priority":        "must",
		"stage":           "stage2",
		"assignment_type": "mentor",
		"time_estimate":   120,
	}

	w := suite.request(http.MethodPost, "/api/tasks", suite.admin, payload)
	suite.Require().Equal(http.StatusCreated, w.Code)

	var created dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	suite.Equal("Security courses", created.Title)
	suite.Equal(models.StageTwo, created.Stage)
	suite.Require().NotNil(created.AssignmentLabel)
	suite.Equal("С наставником", *created.AssignmentLabel)

	w = suite.request(http.MethodGet, fmt.Sprintf("/api/tasks/%d", created.ID), nil, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var fetched dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &fetched))
	suite.Equal(created.ID, fetched.ID)
	suite.Require().NotNil(fetched.TimeEstimate)
	suite.Equal(120, *fetched.TimeEstimate)
}

func (suite *TaskHandlerTestSuite) TestCreateDefaults() {
	w := suite.request(http.MethodPost, "/api/tasks", suite.admin, map[string]interface{}{
		"title": "Badge photo",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	var created dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	suite.Equal(models.StageOne, created.Stage)
	suite.Equal(models.AssignmentSelf, created.AssignmentType)
	suite.Nil(created.AssignmentLabel)
	suite.Nil(created.Category)
}

func (suite *TaskHandlerTestSuite) TestCreateRejectsInvalidEnums() {
	w := suite.request(http.MethodPost, "/api/tasks", suite.admin, map[string]interface{}{
		"title":    "Badge photo",
		"category": "gardening",
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPost, "/api/tasks", suite.admin, map[string]interface{}{
		"title": "Badge photo",
		"stage": "stage9",
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPost, "/api/tasks", suite.admin, map[string]interface{}{
		"title": "",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListFilters() {
	for _, seed := range []struct {
		title    string
		stage    models.Stage
		category models.TaskCategory
	}{
		{"Badge photo", models.StageOne, models.CategoryProcesses},
		{"Fire safety", models.StageOne, models.CategorySecurity},
		{"Security courses", models.StageTwo, models.CategorySecurity},
	} {
		category := seed.category
		suite.db.Create(&models.Task{Title: seed.title, Stage: seed.stage, Category: &category})
	}

	w := suite.request(http.MethodGet, "/api/tasks?stage=stage1", nil, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var listed []dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &listed))
	suite.Len(listed, 2)

	w = suite.request(http.MethodGet, "/api/tasks?stage=stage1&category=security", nil, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &listed))
	suite.Require().Len(listed, 1)
	suite.Equal("Fire safety", listed[0].Title)

	w = suite.request(http.MethodGet, "/api/tasks?stage=stage9", nil, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateClearsFields() {
	category := models.CategorySecurity
	estimate := 60
	task := &models.Task{Title: "Fire safety", Stage: models.StageOne, Category: &category, TimeEstimate: &estimate}
	suite.db.Create(task)

	w := suite.request(http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), suite.admin, map[string]interface{}{
		"title":         "Fire safety briefing",
		"category":      nil,
		"time_estimate": nil,
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	var updated dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	suite.Equal("Fire safety briefing", updated.Title)
	suite.Nil(updated.Category)
	suite.Nil(updated.TimeEstimate)

	// Omitted fields keep their stored value.
	w = suite.request(http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), suite.admin, map[string]interface{}{
		"priority": "should",
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	suite.Equal("Fire safety briefing", updated.Title)
	suite.Require().NotNil(updated.Priority)
	suite.Equal(models.PriorityShould, *updated.Priority)
}

func (suite *TaskHandlerTestSuite) TestDeleteCascadesCompletionRecords() {
	task := &models.Task{Title: "Badge photo", Stage: models.StageOne}
	suite.db.Create(task)
	suite.db.Create(&models.CompletionRecord{UserID: suite.user.ID, TaskID: task.ID, Completed: true})

	w := suite.request(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), suite.admin, nil)
	suite.Equal(http.StatusNoContent, w.Code)

	var count int64
	suite.db.Model(&models.CompletionRecord{}).Where("task_id = ?", task.ID).Count(&count)
	suite.Equal(int64(0), count)

	w = suite.request(http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), nil, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}

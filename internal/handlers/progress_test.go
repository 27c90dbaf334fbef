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

// ProgressHandlerTestSuite covers the completion toggle, the progress
// map, aggregation and stage advancement.
type ProgressHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *ProgressHandlerTestSuite) SetupTest() {
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

	userRepo := repository.NewUserRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	progressRepo := repository.NewProgressRepository(suite.db)
	progressService := services.NewProgressService(progressRepo, userRepo, taskRepo)
	handler := NewProgressHandler(progressService)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.GET("/api/progress/:userId", handler.GetProgress)
	suite.router.GET("/api/progress/:userId/stats", handler.GetStats)
	suite.router.POST("/api/progress", middleware.RequireAuth(true), handler.ToggleCompletion)
}

func (suite *ProgressHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ProgressHandlerTestSuite) createUser(login string, stage models.Stage) *models.User {
	user := &models.User{
		Login:        login,
		Role:         models.RoleUser,
		CurrentStage: stage,
	}
	suite.db.Create(user)
	return user
}

func (suite *ProgressHandlerTestSuite) createTask(title string, stage models.Stage, category models.TaskCategory) *models.Task {
	task := &models.Task{
		Title:    title,
		Stage:    stage,
		Category: &category,
	}
	suite.db.Create(task)
	return task
}

// toggle posts a completion toggle as the given actor via the legacy
// identity header.
func (suite *ProgressHandlerTestSuite) toggle(actorID, userID, taskID uint64, completed bool) (*httptest.ResponseRecorder, dto.ToggleResponse) {
	payload := map[string]interface{}{
		"user_id":   userID,
		"task_id":   taskID,
		"completed": completed,
	}
	body, err := json.Marshal(payload)
	suite.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, "/api/progress", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.HeaderUserID, fmt.Sprintf("%d", actorID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response dto.ToggleResponse
	if w.Code == http.StatusOK {
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	}
	return w, response
}

func (suite *ProgressHandlerTestSuite) getStats(userID uint64) dto.StatsResponse {
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/progress/%d/stats", userID), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Require().Equal(http.StatusOK, w.Code)

	var stats dto.StatsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &stats))
	return stats
}

func (suite *ProgressHandlerTestSuite) getProgressMap(userID uint64) map[uint64]dto.ProgressEntry {
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/progress/%d", userID), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Require().Equal(http.StatusOK, w.Code)

	var progress map[uint64]dto.ProgressEntry
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &progress))
	return progress
}

func (suite *ProgressHandlerTestSuite) TestToggleIsIdempotent() {
	user := suite.createUser("U00000001", models.StageOne)
	task := suite.createTask("Badge photo", models.StageOne, models.CategoryProcesses)
	suite.createTask("Fire safety", models.StageOne, models.CategorySecurity)

	w, _ := suite.toggle(user.ID, user.ID, task.ID, true)
	suite.Equal(http.StatusOK, w.Code)
	w, _ = suite.toggle(user.ID, user.ID, task.ID, true)
	suite.Equal(http.StatusOK, w.Code)

	var records []models.CompletionRecord
	suite.db.Where("user_id = ? AND task_id = ?", user.ID, task.ID).Find(&records)
	suite.Require().Len(records, 1, "repeated toggles must keep a single record")
	suite.True(records[0].Completed)
	suite.NotNil(records[0].CompletedAt)

	// Toggling back off clears the timestamp.
	w, _ = suite.toggle(user.ID, user.ID, task.ID, false)
	suite.Equal(http.StatusOK, w.Code)

	suite.db.Where("user_id = ? AND task_id = ?", user.ID, task.ID).Find(&records)
	suite.Require().Len(records, 1)
	suite.False(records[0].Completed)
	suite.Nil(records[0].CompletedAt)
}

func (suite *ProgressHandlerTestSuite) TestMissingRecordReadsAsNotCompleted() {
	user := suite.createUser("U00000001", models.StageOne)
	done := suite.createTask("Badge photo", models.StageOne, models.CategoryProcesses)
	suite.createTask("Fire safety", models.StageOne, models.CategorySecurity)

	suite.toggle(user.ID, user.ID, done.ID, true)

	progress := suite.getProgressMap(user.ID)
	suite.Require().Len(progress, 1, "only toggled tasks appear in the map")
	suite.True(progress[done.ID].Completed)

	stats := suite.getStats(user.ID)
	suite.Equal(int64(2), stats.Total)
	suite.Equal(int64(1), stats.Completed)
	suite.Equal(50, stats.Percentage)
}

func (suite *ProgressHandlerTestSuite) TestStatsInvariants() {
	user := suite.createUser("U00000001", models.StageOne)
	t1 := suite.createTask("Badge photo", models.StageOne, models.CategoryProcesses)
	t2 := suite.createTask("Fire safety", models.StageOne, models.CategorySecurity)
	suite.createTask("Security courses", models.StageTwo, models.CategorySecurity)
	suite.createTask("Shadow a shift", models.StageThree, models.CategoryPractice)

	suite.toggle(user.ID, user.ID, t1.ID, true)
	suite.toggle(user.ID, user.ID, t2.ID, true)

	stats := suite.getStats(user.ID)
	suite.Equal(int64(4), stats.Total)
	suite.Equal(int64(2), stats.Completed)

	var categoryTotal, categoryCompleted int64
	for _, group := range stats.ByCategory {
		categoryTotal += group.Total
		categoryCompleted += group.Completed
	}
	var stageTotal int64
	for _, group := range stats.ByStage {
		stageTotal += group.Total
	}

	suite.Equal(stats.Total, categoryTotal)
	suite.Equal(stats.Total, stageTotal)
	suite.Equal(stats.Completed, categoryCompleted)
}

func (suite *ProgressHandlerTestSuite) TestStatsForGhostUser() {
	suite.createTask("Badge photo", models.StageOne, models.CategoryProcesses)

	stats := suite.getStats(99999)
	suite.Equal(int64(1), stats.Total)
	suite.Equal(int64(0), stats.Completed)
	suite.Equal(0, stats.Percentage)
}

func (suite *ProgressHandlerTestSuite) TestStageAdvancesExactlyOnce() {
	user := suite.createUser("U00000001", models.StageOne)
	t1 := suite.createTask("Badge photo", models.StageOne, models.CategoryProcesses)
	t2 := suite.createTask("Fire safety", models.StageOne, models.CategorySecurity)
	suite.createTask("Security courses", models.StageTwo, models.CategorySecurity)

	_, result := suite.toggle(user.ID, user.ID, t1.ID, true)
	suite.False(result.StageAdvanced)
	suite.Equal(models.StageOne, result.CurrentStage)

	_, result = suite.toggle(user.ID, user.ID, t2.ID, true)
	suite.True(result.StageAdvanced)
	suite.Equal(models.StageTwo, result.CurrentStage)

	var stored models.User
	suite.db.First(&stored, user.ID)
	suite.Equal(models.StageTwo, stored.CurrentStage)

	// Re-running the completion check must not advance again.
	_, result = suite.toggle(user.ID, user.ID, t1.ID, true)
	suite.False(result.StageAdvanced)
	suite.Equal(models.StageTwo, result.CurrentStage)

	suite.db.First(&stored, user.ID)
	suite.Equal(models.StageTwo, stored.CurrentStage)
}

func (suite *ProgressHandlerTestSuite) TestTerminalStageNeverAdvances() {
	user := suite.createUser("U00000001", models.StageThree)
	task := suite.createTask("Shadow a shift", models.StageThree, models.CategoryPractice)

	_, result := suite.toggle(user.ID, user.ID, task.ID, true)
	suite.False(result.StageAdvanced)
	suite.Equal(models.StageThree, result.CurrentStage)
}

func (suite *ProgressHandlerTestSuite) TestToggleForeignProgressForbidden() {
	user := suite.createUser("U00000001", models.StageOne)
	other := suite.createUser("U00000002", models.StageOne)
	task := suite.createTask("Badge photo", models.StageOne, models.CategoryProcesses)

	w, _ := suite.toggle(user.ID, other.ID, task.ID, true)
	suite.Equal(http.StatusForbidden, w.Code)

	// Administrators can toggle on behalf of others.
	admin := &models.User{Login: "A00000001", Role: models.RoleAdmin, CurrentStage: models.StageOne}
	suite.db.Create(admin)

	w, _ = suite.toggle(admin.ID, other.ID, task.ID, true)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *ProgressHandlerTestSuite) TestToggleUnknownTask() {
	user := suite.createUser("U00000001", models.StageOne)

	w, _ := suite.toggle(user.ID, user.ID, 4242, true)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ProgressHandlerTestSuite) TestToggleRequiresIdentity() {
	user := suite.createUser("U00000001", models.StageOne)
	task := suite.createTask("Badge photo", models.StageOne, models.CategoryProcesses)

	payload, _ := json.Marshal(map[string]interface{}{
		"user_id": user.ID, "task_id": task.ID, "completed": true,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/progress", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func TestProgressHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ProgressHandlerTestSuite))
}

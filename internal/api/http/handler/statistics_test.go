package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/tasktracker-server/internal/api/authctx"
	"github.com/dtroode/tasktracker-server/internal/mocks"
	"github.com/dtroode/tasktracker-server/internal/model"
	"github.com/dtroode/tasktracker-server/internal/testutil"
)

func TestStatistics_Get(t *testing.T) {
	t.Parallel()

	principal := model.Principal{ID: uuid.New(), Username: "alice"}

	svc := mocks.NewStatisticsService(t)
	svc.On("ForUser", mock.Anything, principal.ID).
		Return(model.Statistics{ProjectCount: 2, TaskCount: 5, CompletedTaskCount: 1}, nil)

	rec := httptest.NewRecorder()
	NewStatistics(svc, authctx.NewManager(), testutil.MakeNoopLogger()).
		Get(rec, authedRequest(http.MethodGet, "/api/statistics", "", principal))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"projectCount":2,"taskCount":5,"completedTaskCount":1}`, rec.Body.String())
}

func TestStatusOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusBadRequest, statusOf(model.NewErrValidation("x")))
	assert.Equal(t, http.StatusUnauthorized, statusOf(model.NewErrUnauthorized(nil)))
	assert.Equal(t, http.StatusNotFound, statusOf(model.NewErrNotFound("Task")))
	assert.Equal(t, http.StatusConflict, statusOf(model.NewErrConflict("x")))
	assert.Equal(t, http.StatusInternalServerError, statusOf(assert.AnError))
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/firstmoments/first-moments-api/internal/repository"
	"github.com/firstmoments/first-moments-api/internal/services"
	"github.com/firstmoments/first-moments-api/pkg/httputil"
	jwtutil "github.com/firstmoments/first-moments-api/pkg/jwt"
	"github.com/firstmoments/first-moments-api/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestStartAchievementHandlerDuplicateConflict(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate start yields 409", func(mt *mtest.T) {
		tmplID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "first_moments.achievement_templates", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: tmplID},
				{Key: "name", Value: "First Steps"},
				{Key: "condition_type", Value: "moment_count"},
				{Key: "condition_target", Value: int64(1)},
				{Key: "points", Value: 10},
			}),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "E11000 duplicate key error",
			}),
		)

		svc := services.NewAchievementService(
			repository.NewTemplateRepository(mt.DB),
			repository.NewAchievementRepository(mt.DB),
		)
		handler := NewAchievementHandler(svc, nil)

		req := httptest.NewRequest("POST", "/api/achievements/"+tmplID.Hex()+"/start", nil)
		req = mux.SetURLVars(req, map[string]string{"templateID": tmplID.Hex()})
		req = req.WithContext(middleware.WithUser(req.Context(), &jwtutil.Claims{
			UserID: primitive.NewObjectID().Hex(),
			Role:   "user",
		}))

		rec := httptest.NewRecorder()
		handler.StartAchievementHandler(rec, req)

		assert.Equal(mt, http.StatusConflict, rec.Code)

		var resp httputil.Response
		require.NoError(mt, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(mt, resp.Success)
		assert.Contains(mt, resp.Message, "already exists")
	})
}

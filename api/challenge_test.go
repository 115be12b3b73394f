package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"challengobi/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallengeHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `challenges`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	// 创建者自动入会
	mock.ExpectExec("INSERT INTO `challenge_participants`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(10))
	router.POST("/challenges", NewChallengeHandler().Create)

	startDate := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	body := `{"category":1,"title":"一周咖啡费减半","start_date":"` + startDate + `","duration":14,"max_participants":5,"budget":100000}`
	req := httptest.NewRequest("POST", "/challenges", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "创建成功", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChallengeHandler_Create_BadDuration(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.Use(setUserIDMiddleware(10))
	router.POST("/challenges", NewChallengeHandler().Create)

	startDate := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	body := `{"category":1,"title":"太长的挑战","start_date":"` + startDate + `","duration":60,"max_participants":5,"budget":100000}`
	req := httptest.NewRequest("POST", "/challenges", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "持续天数必须在 7 到 28 天之间", resp["message"])
}

func TestChallengeHandler_Create_PastStartDate(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.Use(setUserIDMiddleware(10))
	router.POST("/challenges", NewChallengeHandler().Create)

	body := `{"category":1,"title":"回到过去","start_date":"2020-01-01","duration":14,"max_participants":5,"budget":100000}`
	req := httptest.NewRequest("POST", "/challenges", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

// expectSweepIdle 读路径的状态推进没有到期挑战时只发两条查询
func expectSweepIdle(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT .* FROM `challenges`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT .* FROM `challenges`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
}

func TestChallengeHandler_Get_Detail(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectSweepIdle(mock)
	mock.ExpectQuery("SELECT .* FROM `challenges`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "creator_id", "category", "title", "visibility", "max_participants", "budget", "status"}).
			AddRow(1, 10, models.CategoryCafe, "一周咖啡费减半", false, 5, 100000, models.ChallengeStatusInProgress))
	mock.ExpectQuery("SELECT .* FROM `challenge_participants`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "challenge_id", "user_id", "initial_budget", "balance", "is_failed", "ocr_count"}).
			AddRow(1, 1, 20, 100000, 60000, false, 3))
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nickname"}).AddRow(20, "节约达人"))
	// 加油数 / 想参加数
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `challenge_reactions`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `challenge_reactions`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	router := gin.New()
	router.Use(setUserIDMiddleware(20))
	router.GET("/challenges/:id", NewChallengeHandler().Get)

	req := httptest.NewRequest("GET", "/challenges/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "咖啡/甜品", data["category_name"])
	assert.Equal(t, float64(3), data["encourage_count"])
	assert.Equal(t, float64(1), data["want_to_join_count"])
	assert.Equal(t, float64(1), data["participant_count"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChallengeHandler_Get_PrivateHiddenFromOutsider(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectSweepIdle(mock)
	mock.ExpectQuery("SELECT .* FROM `challenges`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "creator_id", "category", "title", "visibility", "status"}).
			AddRow(1, 10, models.CategoryCafe, "私密挑战", true, models.ChallengeStatusInProgress))
	// 既不是参与者也没有邀请
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `challenge_participants`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `challenge_invites`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	router := gin.New()
	router.Use(setUserIDMiddleware(99))
	router.GET("/challenges/:id", NewChallengeHandler().Get)

	req := httptest.NewRequest("GET", "/challenges/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChallengeHandler_Get_PrivateVisibleToInvitee(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	expectSweepIdle(mock)
	mock.ExpectQuery("SELECT .* FROM `challenges`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "creator_id", "category", "title", "visibility", "status"}).
			AddRow(1, 10, models.CategoryCafe, "私密挑战", true, models.ChallengeStatusRecruit))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `challenge_participants`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `challenge_invites`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT .* FROM `challenge_participants`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "challenge_id", "user_id"}))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `challenge_reactions`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `challenge_reactions`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	router := gin.New()
	router.Use(setUserIDMiddleware(21))
	router.GET("/challenges/:id", NewChallengeHandler().Get)

	req := httptest.NewRequest("GET", "/challenges/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChallengeHandler_Update(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	oldStart := time.Now().AddDate(0, 0, 5)
	mock.ExpectQuery("SELECT .* FROM `challenges`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "creator_id", "category", "title", "start_date", "duration", "end_date", "visibility", "max_participants", "budget", "status"}).
			AddRow(1, 10, models.CategoryCafe, "一周咖啡费减半", oldStart, 14, oldStart.AddDate(0, 0, 14), false, 5, 100000, models.ChallengeStatusRecruit))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `challenges` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(10))
	router.PUT("/challenges/:id", NewChallengeHandler().Update)

	newStart := time.Now().AddDate(0, 0, 10).Format("2006-01-02")
	body := `{"start_date":"` + newStart + `","duration":7}`
	req := httptest.NewRequest("PUT", "/challenges/1", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "更新成功", resp["message"])

	// 结束日期随新的开始日期和持续天数重算
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok)
	wantEnd := time.Now().AddDate(0, 0, 17).Format("2006-01-02")
	assert.True(t, strings.HasPrefix(data["end_date"].(string), wantEnd))
	assert.Equal(t, float64(7), data["duration"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChallengeHandler_Update_NotCreator(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `challenges`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "creator_id", "status"}).
			AddRow(1, 10, models.ChallengeStatusRecruit))

	router := gin.New()
	router.Use(setUserIDMiddleware(99))
	router.PUT("/challenges/:id", NewChallengeHandler().Update)

	req := httptest.NewRequest("PUT", "/challenges/1", bytes.NewBufferString(`{"title":"改个名"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 403, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChallengeHandler_Update_NotRecruiting(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `challenges`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "creator_id", "status"}).
			AddRow(1, 10, models.ChallengeStatusInProgress))

	router := gin.New()
	router.Use(setUserIDMiddleware(10))
	router.PUT("/challenges/:id", NewChallengeHandler().Update)

	req := httptest.NewRequest("PUT", "/challenges/1", bytes.NewBufferString(`{"title":"改个名"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 409, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChallengeHandler_React(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `challenges`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "creator_id", "status"}).
			AddRow(1, 10, models.ChallengeStatusRecruit))
	// 首次表态走插入
	mock.ExpectQuery("SELECT .* FROM `challenge_reactions`").
		WillReturnRows(sqlmock.NewRows([]string{}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `challenge_reactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(21))
	router.POST("/challenges/:id/reactions", NewChallengeHandler().React)

	body := `{"encourage":true,"want_to_join":false}`
	req := httptest.NewRequest("POST", "/challenges/1/reactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "已表态", resp["message"])
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, data["encourage"])
	assert.Equal(t, false, data["want_to_join"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChallengeHandler_Join_NotRecruiting(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 挑战已进入进行中，加入请求冲突
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `challenges` .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "creator_id", "start_date", "budget", "max_participants", "status"}).
			AddRow(1, 10, time.Now(), 100000, 5, models.ChallengeStatusInProgress))
	mock.ExpectRollback()

	router := gin.New()
	router.Use(setUserIDMiddleware(20))
	router.POST("/challenges/:id/join", NewChallengeHandler().Join)

	req := httptest.NewRequest("POST", "/challenges/1/join", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 409, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChallengeHandler_Join_NotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `challenges` .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{}))
	mock.ExpectRollback()

	router := gin.New()
	router.Use(setUserIDMiddleware(20))
	router.POST("/challenges/:id/join", NewChallengeHandler().Join)

	req := httptest.NewRequest("POST", "/challenges/99/join", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChallengeHandler_Cancel_NotCreator(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `challenges`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "creator_id", "status"}).
			AddRow(1, 10, models.ChallengeStatusRecruit))
	mock.ExpectRollback()

	router := gin.New()
	router.Use(setUserIDMiddleware(99))
	router.DELETE("/challenges/:id", NewChallengeHandler().Cancel)

	req := httptest.NewRequest("DELETE", "/challenges/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 403, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChallengeHandler_RespondInvite(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `challenge_invites`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "challenge_id", "from_user_id", "to_user_id", "status"}).
			AddRow(3, 1, 10, 21, models.InviteStatusPending))
	mock.ExpectExec("UPDATE `challenge_invites` SET `status`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(21))
	router.PUT("/challenges/invites/:id", NewChallengeHandler().RespondInvite)

	req := httptest.NewRequest("PUT", "/challenges/invites/3", bytes.NewBufferString(`{"accept":true}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "已接受邀请", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

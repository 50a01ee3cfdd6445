package posts

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/Dafi-web/abunearegawi/testutils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func TestGetAllPosts(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "posts"`).
		WillReturnRows(mock.NewRows([]string{"id", "title", "content", "type", "author_id"}).
			AddRow("post-1", "Sunday service", "Join us this Sunday", "event", "user-uuid").
			AddRow("post-2", "Psalm study", "Notes from the study group", "bible", "user-uuid"))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WithArgs("user-uuid").
		WillReturnRows(mock.NewRows([]string{"id", "name", "email"}).
			AddRow("user-uuid", "Abel", "abel@example.com"))

	r := testutils.SetupTestRouter()
	r.GET("/posts", GetAllPosts)

	req, _ := http.NewRequest(http.MethodGet, "/posts", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var posts []map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &posts)
	assert.Len(t, posts, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllPosts_FilteredByType(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE type = \$1`).
		WithArgs("event").
		WillReturnRows(mock.NewRows([]string{"id", "title", "content", "type", "author_id"}).
			AddRow("post-1", "Sunday service", "Join us this Sunday", "event", "user-uuid"))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WithArgs("user-uuid").
		WillReturnRows(mock.NewRows([]string{"id", "name"}).AddRow("user-uuid", "Abel"))

	r := testutils.SetupTestRouter()
	r.GET("/posts", GetAllPosts)

	req, _ := http.NewRequest(http.MethodGet, "/posts?type=event", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPost_NotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1`).
		WithArgs("unknown", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	r := testutils.SetupTestRouter()
	r.GET("/posts/:id", GetPost)

	req, _ := http.NewRequest(http.MethodGet, "/posts/unknown", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePost_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "posts" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("post-uuid"))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.POST("/posts", asUser("user-uuid"), CreatePost)

	body, _ := json.Marshal(map[string]interface{}{
		"title":   "Sunday service",
		"content": "Join us this Sunday at 10am",
		"type":    "event",
	})
	req, _ := http.NewRequest(http.MethodPost, "/posts", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusCreated, resp.Code)

	var post map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &post)
	assert.Equal(t, "user-uuid", post["authorId"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePost_InvalidInput(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := testutils.SetupTestRouter()
	r.POST("/posts", asUser("user-uuid"), CreatePost)

	body, _ := json.Marshal(map[string]interface{}{
		"title": "Missing content and type",
	})
	req, _ := http.NewRequest(http.MethodPost, "/posts", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePost_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1`).
		WithArgs("post-uuid", 1).
		WillReturnRows(mock.NewRows([]string{"id", "title", "content", "type", "author_id"}).
			AddRow("post-uuid", "Sunday service", "Join us", "event", "user-uuid"))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "posts" WHERE`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.DELETE("/posts/:id", asUser("user-uuid"), DeletePost)

	req, _ := http.NewRequest(http.MethodDelete, "/posts/post-uuid", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

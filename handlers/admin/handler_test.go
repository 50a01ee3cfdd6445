package admin

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/Dafi-web/abunearegawi/testutils"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

func TestGetStats(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE is_member = \$1`).
		WithArgs(true).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(40))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "payments" WHERE type = \$1 AND status = \$2`).
		WithArgs("donation", "completed").
		WillReturnRows(mock.NewRows([]string{"coalesce"}).AddRow(250000))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "payments" WHERE type = \$1 AND status = \$2 AND created_at >= \$3`).
		WillReturnRows(mock.NewRows([]string{"coalesce"}).AddRow(12000))

	r := testutils.SetupTestRouter()
	r.GET("/admin/stats", GetStats)

	req, _ := http.NewRequest(http.MethodGet, "/admin/stats", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var stats map[string]float64
	json.Unmarshal(resp.Body.Bytes(), &stats)
	assert.Equal(t, float64(12), stats["totalMembers"])
	assert.Equal(t, float64(40), stats["totalUsers"])
	assert.Equal(t, float64(250000), stats["totalDonations"])
	assert.Equal(t, float64(12000), stats["monthlyRevenue"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStats_DatabaseError(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE is_member = \$1`).
		WillReturnError(assert.AnError)

	r := testutils.SetupTestRouter()
	r.GET("/admin/stats", GetStats)

	req, _ := http.NewRequest(http.MethodGet, "/admin/stats", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

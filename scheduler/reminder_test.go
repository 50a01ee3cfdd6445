package scheduler

import (
	"errors"
	"io"
	"log"
	"os"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/Dafi-web/abunearegawi/testutils"

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

type fakeSend struct {
	email string
	days  int
}

type fakeMailer struct {
	fail bool
	sent []fakeSend
}

func (m *fakeMailer) SendPaymentReminder(email string, name string, daysUntilDue int) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, fakeSend{email: email, days: daysUntilDue})
	return nil
}

func testJob(now time.Time, mailer Mailer) *ReminderJob {
	return &ReminderJob{
		Now:    func() time.Time { return now },
		Mailer: mailer,
	}
}

func TestDueDate_UsesMembershipStartDay(t *testing.T) {
	since := time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)

	due := DueDate(&since, 3, 2025)

	assert.Equal(t, 15, due.Day())
	assert.Equal(t, time.March, due.Month())
	assert.Equal(t, 2025, due.Year())
}

func TestDueDate_ClampsToLastDayOfMonth(t *testing.T) {
	since := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 28, DueDate(&since, 2, 2025).Day())
	// Leap year.
	assert.Equal(t, 29, DueDate(&since, 2, 2024).Day())
	// 30-day month.
	assert.Equal(t, 30, DueDate(&since, 4, 2025).Day())
}

func TestDueDate_DefaultsToFirstWhenStartUnknown(t *testing.T) {
	due := DueDate(nil, 7, 2025)

	assert.Equal(t, 1, due.Day())
	assert.Equal(t, time.July, due.Month())
}

func TestDaysUntilDue_RoundsUp(t *testing.T) {
	now := time.Date(2025, time.February, 25, 9, 0, 0, 0, time.Local)

	due := time.Date(2025, time.February, 28, 0, 0, 0, 0, time.Local)
	assert.Equal(t, 3, DaysUntilDue(due, now))

	due = time.Date(2025, time.February, 26, 0, 0, 0, 0, time.Local)
	assert.Equal(t, 1, DaysUntilDue(due, now))

	due = time.Date(2025, time.February, 15, 0, 0, 0, 0, time.Local)
	assert.Less(t, DaysUntilDue(due, now), 0)
}

func memberRows(mock sqlmock.Sqlmock, memberSince time.Time) *sqlmock.Rows {
	return mock.NewRows([]string{"id", "name", "email", "is_member", "member_since", "subscription_status"}).
		AddRow("user-uuid", "Abel", "abel@example.com", true, memberSince, "active")
}

func TestCheckAndSendReminders_SendsWithinWindow(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	// Due on Feb 28 (Jan 31 start clamped), three days out from the 25th.
	now := time.Date(2025, time.February, 25, 9, 0, 0, 0, time.Local)
	memberSince := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE is_member = \$1`).
		WillReturnRows(memberRows(mock, memberSince))
	mock.ExpectQuery(`SELECT \* FROM "reminder_markers" WHERE user_id = \$1 AND date = \$2`).
		WithArgs("user-uuid", "2025-02-25", 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE user_id = \$1 AND type = \$2 AND month = \$3 AND year = \$4 AND status = \$5`).
		WithArgs("user-uuid", "subscription", 2, 2025, "completed", 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "reminder_markers" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("marker-uuid"))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "notifications" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("notification-uuid"))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "reminder_markers" WHERE date < \$1`).
		WithArgs("2025-02-18").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mailer := &fakeMailer{}
	sent, err := testJob(now, mailer).CheckAndSendReminders()

	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	if assert.Len(t, mailer.sent, 1) {
		assert.Equal(t, "abel@example.com", mailer.sent[0].email)
		assert.Equal(t, 3, mailer.sent[0].days)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckAndSendReminders_SkipsPaidPeriod(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	// Late-February run targeting March 1st.
	now := time.Date(2025, time.February, 27, 9, 0, 0, 0, time.Local)
	memberSince := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE is_member = \$1`).
		WillReturnRows(memberRows(mock, memberSince))
	mock.ExpectQuery(`SELECT \* FROM "reminder_markers" WHERE user_id = \$1 AND date = \$2`).
		WithArgs("user-uuid", "2025-02-27", 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE user_id = \$1 AND type = \$2 AND month = \$3 AND year = \$4 AND status = \$5`).
		WithArgs("user-uuid", "subscription", 3, 2025, "completed", 1).
		WillReturnRows(mock.NewRows([]string{"id", "user_id", "month", "year", "status"}).
			AddRow("payment-uuid", "user-uuid", 3, 2025, "completed"))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "reminder_markers" WHERE date < \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mailer := &fakeMailer{}
	sent, err := testJob(now, mailer).CheckAndSendReminders()

	assert.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Empty(t, mailer.sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckAndSendReminders_OneReminderPerDay(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Date(2025, time.February, 25, 15, 0, 0, 0, time.Local)
	memberSince := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE is_member = \$1`).
		WillReturnRows(memberRows(mock, memberSince))
	mock.ExpectQuery(`SELECT \* FROM "reminder_markers" WHERE user_id = \$1 AND date = \$2`).
		WithArgs("user-uuid", "2025-02-25", 1).
		WillReturnRows(mock.NewRows([]string{"id", "user_id", "date"}).
			AddRow("marker-uuid", "user-uuid", "2025-02-25"))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "reminder_markers" WHERE date < \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mailer := &fakeMailer{}
	sent, err := testJob(now, mailer).CheckAndSendReminders()

	assert.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Empty(t, mailer.sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckAndSendReminders_SkipsOutsideWindow(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	// Due on the 15th, already past when the job runs on the 25th.
	now := time.Date(2025, time.February, 25, 9, 0, 0, 0, time.Local)
	memberSince := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE is_member = \$1`).
		WillReturnRows(memberRows(mock, memberSince))
	mock.ExpectQuery(`SELECT \* FROM "reminder_markers" WHERE user_id = \$1 AND date = \$2`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE user_id = \$1 AND type = \$2`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "reminder_markers" WHERE date < \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mailer := &fakeMailer{}
	sent, err := testJob(now, mailer).CheckAndSendReminders()

	assert.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Empty(t, mailer.sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A failed send leaves no marker behind, so the next run retries the member.
func TestCheckAndSendReminders_MailFailureLeavesNoMarker(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Date(2025, time.February, 25, 9, 0, 0, 0, time.Local)
	memberSince := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE is_member = \$1`).
		WillReturnRows(memberRows(mock, memberSince))
	mock.ExpectQuery(`SELECT \* FROM "reminder_markers" WHERE user_id = \$1 AND date = \$2`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE user_id = \$1 AND type = \$2`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "reminder_markers" WHERE date < \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mailer := &fakeMailer{fail: true}
	sent, err := testJob(now, mailer).CheckAndSendReminders()

	assert.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// One bad member record never blocks the rest of the batch.
func TestCheckAndSendReminders_FailureIsolatedPerMember(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Date(2025, time.February, 25, 9, 0, 0, 0, time.Local)
	memberSince := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	rows := mock.NewRows([]string{"id", "name", "email", "is_member", "member_since", "subscription_status"}).
		AddRow("user-1", "Abel", "abel@example.com", true, memberSince, "active").
		AddRow("user-2", "Sara", "sara@example.com", true, memberSince, "active")

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE is_member = \$1`).
		WillReturnRows(rows)

	// First member blows up on the marker lookup.
	mock.ExpectQuery(`SELECT \* FROM "reminder_markers" WHERE user_id = \$1 AND date = \$2`).
		WithArgs("user-1", "2025-02-25", 1).
		WillReturnError(errors.New("connection reset"))

	// Second member goes through the full path.
	mock.ExpectQuery(`SELECT \* FROM "reminder_markers" WHERE user_id = \$1 AND date = \$2`).
		WithArgs("user-2", "2025-02-25", 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE user_id = \$1 AND type = \$2`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "reminder_markers" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("marker-uuid"))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "notifications" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("notification-uuid"))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "reminder_markers" WHERE date < \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	mailer := &fakeMailer{}
	sent, err := testJob(now, mailer).CheckAndSendReminders()

	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	if assert.Len(t, mailer.sent, 1) {
		assert.Equal(t, "sara@example.com", mailer.sent[0].email)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

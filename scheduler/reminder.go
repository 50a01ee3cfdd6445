package scheduler

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Dafi-web/abunearegawi/db"
	"github.com/Dafi-web/abunearegawi/models"
	"github.com/Dafi-web/abunearegawi/utils"
	mailsmodels "github.com/Dafi-web/abunearegawi/utils/mails-models"

	"gorm.io/gorm"
)

const (
	// Reminders look two days ahead and fire while the due date is between
	// one and three days away. The window is wider than the lookahead on
	// purpose: a run that lands a little early or late still catches the
	// member, and the per-day marker keeps it to one mail per calendar day.
	reminderLookaheadDays = 2
	reminderWindowMin     = 1
	reminderWindowMax     = 3

	markerRetentionDays = 7
)

// Mailer sends the reminder mail. The job only cares about delivery success:
// a failed send leaves no marker so a later run may retry.
type Mailer interface {
	SendPaymentReminder(email string, name string, daysUntilDue int) error
}

type smtpMailer struct{}

func (smtpMailer) SendPaymentReminder(email string, name string, daysUntilDue int) error {
	return mailsmodels.PaymentReminder(email, name, daysUntilDue)
}

// ReminderJob is the daily payment reminder pass. The clock and the mailer
// are injectable so tests can pin time and observe sends.
type ReminderJob struct {
	Now    func() time.Time
	Mailer Mailer
}

func NewReminderJob() *ReminderJob {
	return &ReminderJob{
		Now:    time.Now,
		Mailer: smtpMailer{},
	}
}

// Run implements cron.Job.
func (j *ReminderJob) Run() {
	sent, err := j.CheckAndSendReminders()
	if err != nil {
		utils.LogError(err, "Payment reminder run failed")
		return
	}
	utils.LogSuccess(fmt.Sprintf("Payment reminder run completed, %d reminder(s) sent", sent))
}

// CheckAndSendReminders scans the active members and mails every member whose
// next membership charge is imminent and still unpaid. Failures are isolated
// per member: one bad record never blocks the rest of the batch.
func (j *ReminderJob) CheckAndSendReminders() (int, error) {
	now := j.Now()
	target := now.AddDate(0, 0, reminderLookaheadDays)
	targetMonth := int(target.Month())
	targetYear := target.Year()

	var members []models.User
	err := db.DB.Where(
		"is_member = ? AND (subscription_status = ? OR subscription_status = '' OR subscription_status IS NULL)",
		true, models.SubscriptionActive,
	).Find(&members).Error
	if err != nil {
		return 0, err
	}

	today := now.Format("2006-01-02")
	sent := 0
	for i := range members {
		if j.processMember(&members[i], now, today, targetMonth, targetYear) {
			sent++
		}
	}

	j.evictOldMarkers(now)

	return sent, nil
}

func (j *ReminderJob) processMember(member *models.User, now time.Time, today string, targetMonth, targetYear int) bool {
	// At most one reminder per member per calendar day.
	var marker models.ReminderMarker
	err := db.DB.First(&marker, "user_id = ? AND date = ?", member.ID, today).Error
	if err == nil {
		return false
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.LogErrorWithUser(member.ID, err, "Error checking the reminder marker")
		return false
	}

	// Nothing to remind when the target period is already paid.
	var payment models.Payment
	err = db.DB.First(&payment,
		"user_id = ? AND type = ? AND month = ? AND year = ? AND status = ?",
		member.ID, models.PaymentSubscription, targetMonth, targetYear, models.PaymentCompleted).Error
	if err == nil {
		return false
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.LogErrorWithUser(member.ID, err, "Error checking the target period payment")
		return false
	}

	dueDate := DueDate(member.MemberSince, targetMonth, targetYear)
	days := DaysUntilDue(dueDate, now)
	if days < reminderWindowMin || days > reminderWindowMax {
		return false
	}

	if err := j.Mailer.SendPaymentReminder(member.Email, member.Name, days); err != nil {
		// No marker on failure so the next run may retry.
		utils.LogErrorWithUser(member.ID, err, "Failed to send the payment reminder email")
		return false
	}

	// The unique (user_id, date) index makes the marker safe even when two
	// instances run the job the same day.
	if err := db.DB.Create(&models.ReminderMarker{UserID: member.ID, Date: today}).Error; err != nil {
		utils.LogErrorWithUser(member.ID, err, "Error creating the reminder marker")
	}

	plural := ""
	if days > 1 {
		plural = "s"
	}
	note := models.Notification{
		UserID:  member.ID,
		Message: fmt.Sprintf("Payment reminder sent via email. Your membership payment of €10 is due in %d day%s.", days, plural),
		Type:    models.NotificationPaymentReminder,
	}
	if err := db.DB.Create(&note).Error; err != nil {
		utils.LogErrorWithUser(member.ID, err, "Error recording the reminder notification")
	}

	utils.LogSuccessWithUser(member.ID, fmt.Sprintf("Payment reminder sent (due in %d day%s)", days, plural))
	return true
}

func (j *ReminderJob) evictOldMarkers(now time.Time) {
	cutoff := now.AddDate(0, 0, -markerRetentionDays).Format("2006-01-02")
	if err := db.DB.Where("date < ?", cutoff).Delete(&models.ReminderMarker{}).Error; err != nil {
		utils.LogError(err, "Error evicting old reminder markers")
	}
}

// DueDate returns the member's due date in the target month: the same day of
// month the membership started on, clamped to the month's last day when that
// day does not exist (the 31st in a 30-day month), or the 1st when the start
// date is unknown.
func DueDate(memberSince *time.Time, targetMonth, targetYear int) time.Time {
	day := 1
	if memberSince != nil {
		day = memberSince.Day()
	}

	if last := lastDayOfMonth(targetYear, targetMonth); day > last {
		day = last
	}

	return time.Date(targetYear, time.Month(targetMonth), day, 0, 0, 0, 0, time.Local)
}

func lastDayOfMonth(year, month int) int {
	// Day zero of the next month.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysUntilDue counts the whole days left until the due date, rounding up.
func DaysUntilDue(dueDate, now time.Time) int {
	return int(math.Ceil(dueDate.Sub(now).Hours() / 24))
}

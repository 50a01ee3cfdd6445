package mailsmodels

import (
	"fmt"
	"time"

	"github.com/Dafi-web/abunearegawi/utils"
)

// PaymentReminder sends the monthly membership payment reminder mail.
func PaymentReminder(email string, name string, daysUntilDue int) error {
	plural := ""
	if daysUntilDue > 1 {
		plural = "s"
	}

	subject := fmt.Sprintf("Subject: Payment Reminder: Your membership payment is due in %d day%s\r\n", daysUntilDue, plural)
	mime := "MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n"
	body := fmt.Sprintf(`
	<div style="background-color: #c8102e; width: 100%%; min-height: 300px; padding: 30px; box-sizing:border-box">
		<table style="background-color: #ffffff; width: 100%%; min-height: 300px;">
			<tbody>
				<tr>
					<td><h1 style="text-align:center">Abune Aregawi Tigrayans Orthodox Church</h1></td>
				</tr>
				<tr>
					<td style="padding: 0 30px;">
						<p>Dear %s,</p>
						<p>This is a friendly reminder that your monthly membership payment of <strong>&euro;10</strong> is due in <strong>%d day%s</strong>.</p>
						<p>To continue enjoying the benefits of membership, please make your payment by logging into your account on our website.</p>
						<p>Thank you for your continued support!</p>
						<p>Blessings,<br>The Abune Aregawi Church Team</p>
					</td>
				</tr>
				<tr>
					<td style="text-align:center; color: #666; font-size: 12px; padding-bottom: 20px;">
						This is an automated email. Please do not reply to this message.<br>
						&copy; %d Abune Aregawi Tigrayans Orthodox Church, Amsterdam
					</td>
				</tr>
			</tbody>
		</table>
	</div>
`, name, daysUntilDue, plural, time.Now().Year())

	message := []byte(subject + mime + body)

	return utils.SendMail(email, message)
}

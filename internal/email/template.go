package email

import (
	"fmt"
	"html"
)

// VerificationMessage renders the account verification email for a new
// local registration.
func VerificationMessage(toEmail, toName, verificationURL string) Message {
	return Message{
		ToEmail:     toEmail,
		ToName:      toName,
		Subject:     "Verify Your Email - CloyAi",
		HTMLContent: verificationHTML(toName, verificationURL),
		TextContent: fmt.Sprintf(
			"Hello %s,\n\nThank you for signing up with CloyAi. Please verify your email address by clicking the link below:\n\n%s\n\nThis link is valid for 24 hours.\n\nIf you didn't create an account, you can safely ignore this email.\n\nBest regards,\nCloyAi Team",
			toName, verificationURL),
	}
}

func verificationHTML(userName, verificationURL string) string {
	name := html.EscapeString(userName)
	link := html.EscapeString(verificationURL)
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"></head>
<body style="font-family:-apple-system,Segoe UI,Roboto,Arial,sans-serif;background:#f7f9fc;padding:40px 20px;">
  <div style="max-width:600px;margin:0 auto;background:#ffffff;border-radius:16px;overflow:hidden;">
    <div style="background:#0d0d0d;padding:50px 40px;text-align:center;">
      <div style="color:#a7f300;font-size:32px;font-weight:800;">CloyAi</div>
      <div style="color:#e7e7e7;font-size:16px;">AI-Powered Product Photography</div>
    </div>
    <div style="padding:50px 40px;color:#333333;">
      <div style="font-size:24px;font-weight:700;color:#0d0d0d;margin-bottom:20px;">Hello %s!</div>
      <p>Welcome to <strong>CloyAi</strong>. To complete your registration and activate your account,
         please verify your email address:</p>
      <div style="text-align:center;margin:40px 0;">
        <a href="%s" style="display:inline-block;background:#a7f300;color:#0d0d0d;text-decoration:none;padding:18px 48px;border-radius:12px;font-size:17px;font-weight:700;">Verify Email Address</a>
      </div>
      <p style="font-size:14px;color:#555555;">This verification link is valid for <strong>24 hours</strong>.
         If the link expires, you can request a new one from the registration page.</p>
      <p style="font-size:14px;color:#888888;">If you didn't create an account with CloyAi, you can safely ignore this email.</p>
      <p style="font-size:13px;color:#888888;word-break:break-all;">Having trouble? Copy and paste this link into your browser:<br>%s</p>
    </div>
    <div style="background:#f8f9fa;padding:30px 40px;text-align:center;font-size:14px;color:#6c757d;">
      <div style="color:#a7f300;font-size:20px;font-weight:800;">CloyAi</div>
      <p>Need help? Contact us at support@cloyai.com</p>
    </div>
  </div>
</body>
</html>`, name, link, link)
}

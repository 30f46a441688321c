package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

// Email is a rendered message with both HTML and text bodies.
type Email struct {
	Subject  string
	TextBody string
	HTMLBody string
}

// OTPEmailData holds data for the account verification mail.
type OTPEmailData struct {
	Code     string
	ValidFor string // e.g., "10 minutes"
}

// BuildOTPEmail renders the verification-code email.
func BuildOTPEmail(data OTPEmailData) Email {
	return Email{
		Subject:  "Verify your account",
		TextBody: buildOTPText(data),
		HTMLBody: renderHTML("otp", otpHTMLTemplate, data),
	}
}

func buildOTPText(data OTPEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Your verification code is: %s\n\n", data.Code))
	buf.WriteString(fmt.Sprintf("This code expires in %s.\n\n", data.ValidFor))
	buf.WriteString("If you did not create an account, you can safely ignore this email.\n")
	return buf.String()
}

// ShareEmailData holds data for the share notification mail.
type ShareEmailData struct {
	DocumentTitle string
	SharedBy      string
	ShareURL      string
}

// BuildShareEmail renders the document-shared notification.
func BuildShareEmail(data ShareEmailData) Email {
	return Email{
		Subject:  fmt.Sprintf("Document shared: %s", data.DocumentTitle),
		TextBody: buildShareText(data),
		HTMLBody: renderHTML("share", shareHTMLTemplate, data),
	}
}

func buildShareText(data ShareEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("%s has shared a document with you: %s\n\n", data.SharedBy, data.DocumentTitle))
	buf.WriteString("Open it here:\n")
	buf.WriteString(data.ShareURL + "\n\n")
	buf.WriteString("The link may carry an expiry set by the sender.\n")
	return buf.String()
}

func renderHTML(name, tmpl string, data any) string {
	t := template.Must(template.New(name).Parse(tmpl))
	var buf bytes.Buffer
	_ = t.Execute(&buf, data)
	return buf.String()
}

const otpHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Verification Code</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151;">
                Your verification code is:
              </p>
              <div style="background-color: #f3f4f6; border: 2px dashed #3b82f6; border-radius: 8px; padding: 24px; text-align: center; margin-bottom: 24px;">
                <span style="font-size: 32px; font-weight: 700; letter-spacing: 8px; color: #1f2937; font-family: 'Courier New', monospace;">{{.Code}}</span>
              </div>
              <p style="margin: 0; font-size: 14px; color: #6b7280;">
                This code expires in {{.ValidFor}}. If you did not create an account, you can safely ignore this email.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

const shareHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Document Shared</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151;">
                <strong>{{.SharedBy}}</strong> has shared a document with you:
              </p>
              <div style="background-color: #ffffff; border-left: 4px solid #3b82f6; padding: 15px; margin: 0 0 24px;">
                <h3 style="color: #1f2937; margin: 0;">{{.DocumentTitle}}</h3>
              </div>
              <div style="text-align: center; margin: 0 0 24px;">
                <a href="{{.ShareURL}}"
                   style="display: inline-block; background: #3b82f6; color: #ffffff; padding: 12px 30px; text-decoration: none; border-radius: 6px; font-weight: bold;">
                  View Document
                </a>
              </div>
              <p style="margin: 0; font-size: 14px; color: #6b7280;">
                If the button does not work, copy and paste this link into your browser:<br>
                <a href="{{.ShareURL}}" style="color: #3b82f6;">{{.ShareURL}}</a>
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

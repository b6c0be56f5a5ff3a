package service

import (
	"bytes"
	htmltemplate "html/template"
	"text/template"
	"time"
)

const magicLinkSubject = "Your login link"

type magicLinkEmailData struct {
	Email    string
	Link     string
	ValidFor int
	SentAt   string
}

var magicLinkHTMLTemplate = htmltemplate.Must(htmltemplate.New("magic_link_html").Parse(`<html>
  <head><meta charset="UTF-8"></head>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1 style="color: #007bff; text-align: center;">Login with Magic Link</h1>
    <p>Hello,</p>
    <p>We received a login request for {{.Email}}.</p>
    <p style="text-align: center; margin: 30px 0;">
      <a href="{{.Link}}" style="display: inline-block; background-color: #007bff; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; font-weight: bold;">Click here to login</a>
    </p>
    <p>If the button does not work, copy this link into your browser:</p>
    <p style="word-break: break-all; background-color: #f8f9fa; padding: 10px; font-family: monospace;">{{.Link}}</p>
    <hr style="margin: 30px 0;">
    <p style="color: #6c757d; font-size: 14px;">
      <strong>Important:</strong><br>
      The link is valid for {{.ValidFor}} minutes only<br>
      The link can be used once only<br>
      If you did not request this link, you can ignore this email
    </p>
    <p style="color: #6c757d; font-size: 12px; text-align: center;">Magic Link Authentication System<br>{{.SentAt}}</p>
  </body>
</html>
`))

var magicLinkTextTemplate = template.Must(template.New("magic_link_text").Parse(`Hello,

We received a login request for {{.Email}}.

To login, open the following link:
{{.Link}}

Important:
- The link is valid for {{.ValidFor}} minutes only
- The link can be used once only
- If you did not request this link, you can ignore this email

Magic Link Authentication System
{{.SentAt}}
`))

func renderMagicLinkEmail(email string, link string, validFor time.Duration, sentAt time.Time) (string, string, error) {
	data := magicLinkEmailData{
		Email:    email,
		Link:     link,
		ValidFor: int(validFor.Minutes()),
		SentAt:   sentAt.UTC().Format(time.RFC1123),
	}

	var html bytes.Buffer
	if err := magicLinkHTMLTemplate.Execute(&html, data); err != nil {
		return "", "", err
	}
	var text bytes.Buffer
	if err := magicLinkTextTemplate.Execute(&text, data); err != nil {
		return "", "", err
	}
	return html.String(), text.String(), nil
}

// Package mail defines the outbound mail capability used by the handlers
// and the plain-text templates for the two mail kinds this service sends.
// Delivery is fire-and-forget: implementations report errors so callers can
// log them, but no operation fails because a mail did not go out.
package mail

import (
	"context"
	"fmt"
	"strings"
	"text/template"
)

// Kind selects the mail template.
type Kind string

const (
	KindVerification  Kind = "verification"
	KindPasswordReset Kind = "password_reset"
)

// Mailer dispatches a one-time code to an address. Implementations must not
// block on actual delivery confirmation.
type Mailer interface {
	Send(ctx context.Context, to string, kind Kind, otp string) error
}

var verificationTmpl = template.Must(template.New("verification").Parse(
	`Hello,

Your account verification code is {{.OTP}}.

Enter this code to activate your account. If you did not register, you can
ignore this message.
`))

var passwordResetTmpl = template.Must(template.New("password_reset").Parse(
	`Hello,

Your password reset code is {{.OTP}}.

Enter this code to continue resetting your password. If you did not request
a reset, you can ignore this message.
`))

// Render produces the subject and body for a mail kind.
func Render(kind Kind, otp string) (subject, body string, err error) {
	var tmpl *template.Template
	switch kind {
	case KindVerification:
		subject = "Your verification code"
		tmpl = verificationTmpl
	case KindPasswordReset:
		subject = "Your password reset code"
		tmpl = passwordResetTmpl
	default:
		return "", "", fmt.Errorf("unknown mail kind %q", kind)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, struct{ OTP string }{OTP: otp}); err != nil {
		return "", "", err
	}
	return subject, sb.String(), nil
}

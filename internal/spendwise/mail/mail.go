// Package mail delivers account notifications. Delivery is synchronous and
// single-shot: callers decide whether a failure is fatal or just logged.
package mail

import (
	"context"
	"fmt"
)

// Sender delivers the three account notification mails.
type Sender interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendVerifyOTP(ctx context.Context, to, code string) error
	SendResetOTP(ctx context.Context, to, code string) error
}

func welcomeBody(name string) (subject, body string) {
	return "Welcome to Spendwise",
		fmt.Sprintf("Hello %s,\r\n\r\nYour Spendwise account has been created. Verify your email address to unlock all features.\r\n\r\nThe Spendwise team\r\n", name)
}

func verifyBody(code string) (subject, body string) {
	return "Verify your Spendwise account",
		fmt.Sprintf("Your verification code is %s.\r\n\r\nIt expires in 24 hours. If you did not request this, you can ignore this email.\r\n", code)
}

func resetBody(code string) (subject, body string) {
	return "Reset your Spendwise password",
		fmt.Sprintf("Your password reset code is %s.\r\n\r\nIt expires in 10 minutes. If you did not request this, you can ignore this email.\r\n", code)
}

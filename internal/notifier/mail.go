package notifier

import "fmt"

// Plain-text bodies for every notification the service sends. The subjects
// match the account lifecycle events they announce.

// WelcomeEmail greets a newly registered admin or customer.
func WelcomeEmail(recipient, fullName string) EmailMessage {
	return EmailMessage{
		Recipient: recipient,
		Subject:   "Welcome to TechCare",
		Body: fmt.Sprintf(
			"Dear %s,\n\nThank you for signing up with TechCare! We are excited to have you on board.\n\nBest regards,\nTechCare Team",
			fullName),
	}
}

// ApplicationReceivedEmail confirms a technician signup and explains the
// pending review.
func ApplicationReceivedEmail(recipient, fullName string) EmailMessage {
	return EmailMessage{
		Recipient: recipient,
		Subject:   "TechCare - Technician Application Received",
		Body: fmt.Sprintf(
			"Dear %s,\n\nThank you for completing your technician application. Your account will be reviewed and approved by an admin within 24 hours.\n\nBest regards,\nTechCare Team",
			fullName),
	}
}

// ApprovalEmail carries the one-time generated credentials. The plaintext
// password is transmitted exactly once over this channel and never stored.
func ApprovalEmail(recipient, fullName, password string) EmailMessage {
	return EmailMessage{
		Recipient: recipient,
		Subject:   "TechCare - Account Approved! Your Login Credentials",
		Body: fmt.Sprintf(
			"Dear %s,\n\nYour technician application has been approved.\n\nYour login credentials:\nEmail: %s\nPassword: %s\n\nPlease change your password after first login.\n\nBest regards,\nTechCare Team",
			fullName, recipient, password),
	}
}

// RejectionEmail announces a rejected application, including the reason
// when one was given.
func RejectionEmail(recipient, fullName, reason string) EmailMessage {
	body := fmt.Sprintf(
		"Dear %s,\n\nThank you for your interest in joining TechCare as a technician. After careful review, we are unable to approve your application at this time.\n",
		fullName)
	if reason != "" {
		body += fmt.Sprintf("\nReason: %s\n", reason)
	}
	body += "\nYou are welcome to reapply when you meet the requirements.\n\nBest regards,\nTechCare Team"
	return EmailMessage{
		Recipient: recipient,
		Subject:   "TechCare - Application Status Update",
		Body:      body,
	}
}

// ResetRequestEmail carries the password reset token and link.
func ResetRequestEmail(recipient, fullName, token, resetURL string) EmailMessage {
	return EmailMessage{
		Recipient: recipient,
		Subject:   "TechCare - Password Reset Request",
		Body: fmt.Sprintf(
			"Dear %s,\n\nWe received a request to reset your TechCare password.\n\nReset link: %s?token=%s\nReset token: %s\n\nThis link expires in 24 hours. If you did not request this reset, please ignore this email.\n\nBest regards,\nTechCare Team",
			fullName, resetURL, token, token),
	}
}

// ResetConfirmationEmail confirms a completed password reset.
func ResetConfirmationEmail(recipient, fullName string) EmailMessage {
	return EmailMessage{
		Recipient: recipient,
		Subject:   "TechCare - Password Reset Successful",
		Body: fmt.Sprintf(
			"Dear %s,\n\nYour password has been successfully reset. You can now log in with your new password.\n\nIf you did not make this change, contact support immediately.\n\nBest regards,\nTechCare Team",
			fullName),
	}
}

package notify

import "fmt"

// TemplateData holds the substitution values templates may reference. Unused
// fields are ignored by templates that do not need them.
type TemplateData struct {
	Name              string
	CourseTitle       string
	Amount            int64 // cents
	Currency          string
	CertificateNumber string
}

func (d *Dispatcher) buildMessage(channel Channel, to Recipient, templateKey string, data TemplateData) (Message, error) {
	msg := Message{Recipient: to}

	switch templateKey {
	case TemplateWelcome:
		msg.Subject = fmt.Sprintf("Welcome to %s!", d.appName)
		msg.TextBody = fmt.Sprintf("Welcome to %s! Hi %s, thank you for joining us.", d.appName, data.Name)
		msg.HTMLBody = d.wrapHTML("Welcome Onboard!", fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>Thank you for joining <strong>%s</strong>. We're excited to have you on board!</p>
			<p>Your account has been created successfully. You can now:</p>
			<ul>
				<li>Browse our course catalog</li>
				<li>Enroll in courses</li>
				<li>Track your progress</li>
				<li>Earn certificates</li>
			</ul>
			<a href="%s/dashboard" class="btn">Go to Dashboard</a>
		`, data.Name, d.appName, d.appURL))

	case TemplateEnrollment:
		msg.Subject = fmt.Sprintf("You're enrolled in %s", data.CourseTitle)
		msg.TextBody = fmt.Sprintf("Hi %s, you have successfully enrolled in %s. Happy learning!", data.Name, data.CourseTitle)
		msg.HTMLBody = d.wrapHTML("Course Enrollment Confirmation", fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>You have successfully enrolled in <strong>%s</strong>!</p>
			<p>You can start learning right away from your dashboard.</p>
			<a href="%s/dashboard/courses" class="btn">Start Learning</a>
		`, data.Name, data.CourseTitle, d.appURL))

	case TemplatePaymentConfirmation:
		msg.Subject = fmt.Sprintf("Payment Confirmation - %s", d.appName)
		msg.TextBody = fmt.Sprintf("Hi %s, your payment of $%.2f for %s has been confirmed.", data.Name, float64(data.Amount)/100, data.CourseTitle)
		msg.HTMLBody = d.wrapHTML("Payment Confirmed", fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>Thank you for your payment of <strong>$%.2f</strong>.</p>
			<p>Course: <strong>%s</strong></p>
			<p>You now have full access to the course content.</p>
			<a href="%s/dashboard/courses" class="btn">Access Course</a>
		`, data.Name, float64(data.Amount)/100, data.CourseTitle, d.appURL))

	case TemplateCertificate:
		msg.Subject = fmt.Sprintf("Your %s Certificate", data.CourseTitle)
		msg.TextBody = fmt.Sprintf("Hi %s, congratulations on completing %s! Your certificate number is %s.", data.Name, data.CourseTitle, data.CertificateNumber)
		msg.HTMLBody = d.wrapHTML("Certificate of Completion", fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>Congratulations on completing <strong>%s</strong>!</p>
			<div class="info-box">
				<p>Your Certificate Number:</p>
				<h2>%s</h2>
			</div>
			<p>Your certificate is attached to this email. You can also download it anytime from your dashboard.</p>
			<a href="%s/dashboard/certificates" class="btn">View All Certificates</a>
		`, data.Name, data.CourseTitle, data.CertificateNumber, d.appURL))

	default:
		return Message{}, fmt.Errorf("unknown notification template %q", templateKey)
	}

	return msg, nil
}

// wrapHTML wraps body content in the shared email layout.
func (d *Dispatcher) wrapHTML(title, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1a1a1a; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; }
			.content { padding: 40px 30px; color: #1a1a1a; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #007bff; color: #FFFFFF; text-decoration: none; border-radius: 4px; margin-top: 20px; }
			.info-box { background: #f8f9fa; padding: 15px; border-radius: 4px; text-align: center; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>%s</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				Best regards,<br>The %s Team
			</div>
		</div>
	</body>
	</html>
	`, d.appName, title, bodyContent, d.appName)
}

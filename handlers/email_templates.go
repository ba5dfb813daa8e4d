package handlers

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"colliss.co.uk/intake/models"
)

// emailContext is the data handed to both email templates.
type emailContext struct {
	Sub        *models.VehicleSubmission
	Condition  string
	ReceivedAt string
}

func newEmailContext(sub *models.VehicleSubmission) emailContext {
	cond := string(sub.Condition)
	if cond != "" {
		cond = strings.ToUpper(cond[:1]) + cond[1:]
	}
	return emailContext{
		Sub:        sub,
		Condition:  cond,
		ReceivedAt: time.Now().Format("Monday, 2 January 2006 at 15:04"),
	}
}

var businessEmailTmpl = template.Must(template.New("business").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #1e293b; border-bottom: 2px solid #1e293b; padding-bottom: 10px;">New Vehicle Submission</h2>

  <h3 style="color: #1e293b; margin-top: 25px;">Contact Information</h3>
  <table style="width: 100%; border-collapse: collapse;">
    <tr><td style="padding: 8px; font-weight: bold; width: 40%;">Name:</td><td style="padding: 8px;">{{.Sub.OwnerName}}</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Email:</td><td style="padding: 8px;">{{.Sub.OwnerEmail}}</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Phone:</td><td style="padding: 8px;">{{.Sub.OwnerPhone}}</td></tr>
  </table>

  <h3 style="color: #1e293b; margin-top: 25px;">Vehicle Details</h3>
  <table style="width: 100%; border-collapse: collapse;">
    <tr><td style="padding: 8px; font-weight: bold; width: 40%;">Year:</td><td style="padding: 8px;">{{.Sub.Year}}</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Make:</td><td style="padding: 8px;">{{.Sub.Make}}</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Model:</td><td style="padding: 8px;">{{.Sub.Model}}</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Trim:</td><td style="padding: 8px;">{{if .Sub.Trim}}{{.Sub.Trim}}{{else}}Not specified{{end}}</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Mileage:</td><td style="padding: 8px;">{{.Sub.Mileage}} miles</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">VIN:</td><td style="padding: 8px;">{{if .Sub.VIN}}{{.Sub.VIN}}{{else}}Not provided{{end}}</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Exterior Colour:</td><td style="padding: 8px;">{{.Sub.ColourExterior}}</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Interior Colour:</td><td style="padding: 8px;">{{.Sub.ColourInterior}}</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Condition:</td><td style="padding: 8px;">{{.Condition}}</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Accident History:</td><td style="padding: 8px;">{{if .Sub.AccidentHistory}}Yes{{else}}No{{end}}</td></tr>
  </table>

  <h3 style="color: #1e293b; margin-top: 25px;">Additional Information</h3>
  <div style="background: #f8fafc; padding: 15px; border-radius: 8px; margin-bottom: 15px;">
    <h4 style="margin-top: 0; color: #1e293b;">Service History:</h4>
    <p style="white-space: pre-wrap; margin: 0;">{{.Sub.ServiceHistory}}</p>
  </div>

  {{if .Sub.Modifications}}
  <div style="background: #f8fafc; padding: 15px; border-radius: 8px; margin-bottom: 15px;">
    <h4 style="margin-top: 0; color: #1e293b;">Modifications:</h4>
    <p style="white-space: pre-wrap; margin: 0;">{{.Sub.Modifications}}</p>
  </div>
  {{end}}

  {{if .Sub.Issues}}
  <div style="background: #fef2f2; padding: 15px; border-radius: 8px; margin-bottom: 15px; border-left: 4px solid #ef4444;">
    <h4 style="margin-top: 0; color: #991b1b;">Known Issues/Damage:</h4>
    <p style="white-space: pre-wrap; margin: 0;">{{.Sub.Issues}}</p>
  </div>
  {{end}}

  {{if .Sub.AdditionalNotes}}
  <div style="background: #f8fafc; padding: 15px; border-radius: 8px; margin-bottom: 15px;">
    <h4 style="margin-top: 0; color: #1e293b;">Additional Notes:</h4>
    <p style="white-space: pre-wrap; margin: 0;">{{.Sub.AdditionalNotes}}</p>
  </div>
  {{end}}

  <div style="margin-top: 30px; padding-top: 20px; border-top: 2px solid #e2e8f0; color: #64748b; font-size: 12px;">
    <p>This submission was received on {{.ReceivedAt}}.</p>
    <p>Photos and videos can be viewed in the admin panel.</p>
  </div>
</div>
`))

var customerEmailTmpl = template.Must(template.New("customer").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: #1e293b; color: white; padding: 30px; text-align: center; border-radius: 8px 8px 0 0;">
    <h1 style="margin: 0; font-size: 28px;">Thank You for Your Submission</h1>
  </div>

  <div style="padding: 30px; background: white;">
    <p style="font-size: 16px; color: #1e293b; margin-top: 0;">Dear {{.Sub.OwnerName}},</p>

    <p style="font-size: 16px; color: #475569; line-height: 1.6;">
      We have successfully received your vehicle submission for your
      <strong>{{.Sub.Year}} {{.Sub.Make}} {{.Sub.Model}}</strong>.
    </p>

    <div style="background: #f1f5f9; padding: 20px; border-radius: 8px; margin: 25px 0;">
      <h3 style="color: #1e293b; margin-top: 0;">What happens next?</h3>
      <ul style="color: #475569; line-height: 1.8; padding-left: 20px;">
        <li>Our team will carefully review your vehicle information and photos</li>
        <li>We'll assess the market value and prepare a competitive offer</li>
        <li>You'll receive a response from us within <strong>48 hours</strong></li>
      </ul>
    </div>

    <p style="font-size: 16px; color: #475569; line-height: 1.6;">
      We understand how important this decision is, and we're committed to
      providing you with a fair and transparent offer for your vehicle.
    </p>

    <p style="font-size: 16px; color: #475569; line-height: 1.6;">
      If you have any questions in the meantime, please don't hesitate to reach out to us.
    </p>

    <div style="margin-top: 30px; padding-top: 20px; border-top: 2px solid #e2e8f0;">
      <p style="font-size: 16px; color: #1e293b; margin-bottom: 5px;">Best regards,</p>
      <p style="font-size: 16px; color: #475569; margin-top: 5px;">The Vehicle Sales Team</p>
    </div>
  </div>

  <div style="background: #f8fafc; padding: 20px; text-align: center; border-radius: 0 0 8px 8px;">
    <p style="color: #64748b; font-size: 12px; margin: 0;">
      This is an automated confirmation email. Please do not reply directly to this message.
    </p>
  </div>
</div>
`))

func renderEmail(tmpl *template.Template, ctx emailContext) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"colliss.co.uk/intake/models"
	"colliss.co.uk/intake/pkg/resend"
)

// Notifier composes and sends the two submission emails: a business notice
// with every field of the submission, and a receipt to the owner. The two
// sends are independent calls with no retry; every attempt is recorded in
// email_logs.
type Notifier struct {
	mail          MailSender
	store         Store
	from          string
	businessEmail string
}

func NewNotifier(mail MailSender, store Store, from, businessEmail string) *Notifier {
	return &Notifier{
		mail:          mail,
		store:         store,
		from:          from,
		businessEmail: businessEmail,
	}
}

// NotifySubmission sends the business notice, then the customer receipt.
// The first failure is returned; a committed submission is never affected.
func (n *Notifier) NotifySubmission(ctx context.Context, sub *models.VehicleSubmission) error {
	tctx := newEmailContext(sub)

	businessHTML, err := renderEmail(businessEmailTmpl, tctx)
	if err != nil {
		return err
	}
	if err := n.send(ctx, sub, resend.Email{
		From:    n.from,
		To:      []string{n.businessEmail},
		Subject: fmt.Sprintf("New Vehicle Submission: %d %s %s", sub.Year, sub.Make, sub.Model),
		HTML:    businessHTML,
	}); err != nil {
		return fmt.Errorf("failed to send admin email: %w", err)
	}

	customerHTML, err := renderEmail(customerEmailTmpl, tctx)
	if err != nil {
		return err
	}
	if err := n.send(ctx, sub, resend.Email{
		From:    n.from,
		To:      []string{sub.OwnerEmail},
		Subject: "We've Received Your Vehicle Submission",
		HTML:    customerHTML,
	}); err != nil {
		return fmt.Errorf("failed to send customer email: %w", err)
	}

	return nil
}

func (n *Notifier) send(ctx context.Context, sub *models.VehicleSubmission, email resend.Email) error {
	err := n.mail.Send(ctx, email)

	entry := &models.EmailLog{
		SubmissionID: sub.ID,
		Recipient:    email.To[0],
		Subject:      email.Subject,
		Success:      err == nil,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if payload, merr := json.Marshal(email); merr == nil {
		entry.Payload = payload
	}
	if lerr := n.store.CreateEmailLog(ctx, entry); lerr != nil {
		log.Println("Failed to record email log:", lerr)
	}

	return err
}

type sendEmailsRequest struct {
	SubmissionData models.VehicleSubmission `json:"submissionData"`
}

// SendSubmissionEmails is the notification function endpoint. The intake
// workflow calls the same Notifier in-process; this route exists for the
// frontend contract.
func (h *Handler) SendSubmissionEmails(w http.ResponseWriter, r *http.Request) {
	var req sendEmailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "Invalid JSON body",
		})
		return
	}

	if err := h.Notifier.NotifySubmission(r.Context(), &req.SubmissionData); err != nil {
		log.Println("Error sending emails:", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Emails sent successfully",
	})
}

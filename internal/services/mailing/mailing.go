// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package mailing fans a document out to a user's contacts, issuing
// one single-use link and one email per contact.
package mailing

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"codeberg.org/oliverandrich/mailsafe/internal/models"
	"codeberg.org/oliverandrich/mailsafe/internal/repository"
	"codeberg.org/oliverandrich/mailsafe/internal/services/email"
	"codeberg.org/oliverandrich/mailsafe/internal/services/links"
)

// Result is the outcome for a single contact.
type Result struct {
	ContactID int64
	Email     string
	LinkID    string
	Err       error
}

// Report is the aggregate outcome of a send operation. Sent counts
// contacts that were both issued a link and notified; any failed entry
// makes the operation a failure as a whole, but successes are still
// listed because their emails have already left the system.
type Report struct {
	Sent    int
	Failed  int
	Results []Result
}

// Orchestrator wires the link service and the mail sender together.
type Orchestrator struct {
	repo    *repository.Repository
	links   *links.Service
	sender  email.Sender
	baseURL string
}

// NewOrchestrator creates a mailing orchestrator. baseURL is the
// externally reachable prefix embedded into redemption URLs.
func NewOrchestrator(repo *repository.Repository, linkService *links.Service, sender email.Sender, baseURL string) *Orchestrator {
	return &Orchestrator{
		repo:    repo,
		links:   linkService,
		sender:  sender,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// SendDocument sends the document to all of the user's contacts, or to
// the subset named by contactIDs. Each contact is handled as an
// independent unit of work; the call joins on all of them before
// returning. Zero matching contacts is an empty success.
func (o *Orchestrator) SendDocument(ctx context.Context, user *models.User, documentID int64, contactIDs []int64) (*Report, error) {
	document, err := o.repo.GetDocument(ctx, user.ID, documentID)
	if err != nil {
		return nil, err
	}

	var contacts []models.Contact
	if len(contactIDs) > 0 {
		contacts, err = o.repo.ListContactsByID(ctx, user.ID, contactIDs)
	} else {
		contacts, err = o.repo.ListContacts(ctx, user.ID)
	}
	if err != nil {
		return nil, err
	}

	report := &Report{Results: make([]Result, len(contacts))}
	var wg sync.WaitGroup
	for i := range contacts {
		wg.Add(1)
		go func(i int, contact models.Contact) {
			defer wg.Done()
			report.Results[i] = o.sendOne(ctx, user, document, &contact)
		}(i, contacts[i])
	}
	wg.Wait()

	for _, res := range report.Results {
		if res.Err != nil {
			report.Failed++
		} else {
			report.Sent++
		}
	}

	if report.Failed == 0 && report.Sent > 0 {
		if err := o.repo.SetDocumentStatus(ctx, user.ID, document.ID, models.DocumentStatusSent); err != nil {
			return report, fmt.Errorf("marking document sent: %w", err)
		}
	}

	return report, nil
}

// sendOne issues a link for one contact and mails them the redemption
// URL together with the OTP.
func (o *Orchestrator) sendOne(ctx context.Context, user *models.User, document *models.Document, contact *models.Contact) Result {
	result := Result{ContactID: contact.ID, Email: contact.Email}

	link, err := o.links.Issue(ctx, user, document.ID, contact.ID)
	if err != nil {
		result.Err = fmt.Errorf("issuing link: %w", err)
		return result
	}
	result.LinkID = link.ID

	msg := o.compose(user, contact, link)
	if err := o.sender.Send(ctx, msg); err != nil {
		result.Err = fmt.Errorf("sending mail: %w", err)
		return result
	}

	return result
}

// RedemptionURL builds the URL a recipient follows to redeem a link.
func (o *Orchestrator) RedemptionURL(linkID string) string {
	return fmt.Sprintf("%s/links/%s", o.baseURL, linkID)
}

func (o *Orchestrator) compose(user *models.User, contact *models.Contact, link *models.Link) *email.Message {
	subject := fmt.Sprintf("A MailSafe Message From %s", user.FirstName)
	body := fmt.Sprintf(`Dear %s,

you have received a message from %s through MailSafe.

Please open the following link to view their message:

%s

Your one-time passcode is %s. It expires at %s.

The MailSafe Team`,
		contact.FirstName, user.FirstName, o.RedemptionURL(link.ID),
		link.OTP, link.OTPExpiresAt.UTC().Format("15:04 MST, Jan 2 2006"))

	return &email.Message{
		To:      contact.Email,
		Subject: subject,
		Body:    body,
	}
}

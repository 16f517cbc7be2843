package notification

import (
	"database/sql"
	"fmt"

	"github.com/skillconnect/marketplace/internal/email"
	"github.com/skillconnect/marketplace/internal/user"
)

// Dispatcher fans a notification out to its channels. The database
// record is created inside the caller's transaction; email delivery
// happens after commit and is best effort.
type Dispatcher struct {
	repo        *Repository
	userRepo    *user.Repository
	emailClient email.Client
	siteHost    string
	urlProtocol string
	logf        func(err error, msg string)
}

func NewDispatcher(repo *Repository, userRepo *user.Repository, emailClient email.Client, urlProtocol, siteHost string, logf func(err error, msg string)) *Dispatcher {
	if logf == nil {
		logf = func(err error, msg string) {}
	}
	return &Dispatcher{
		repo:        repo,
		userRepo:    userRepo,
		emailClient: emailClient,
		siteHost:    siteHost,
		urlProtocol: urlProtocol,
		logf:        logf,
	}
}

// Enqueue records the notification as part of tx. Callers deliver the
// returned value with Deliver once the transaction has committed.
func (d *Dispatcher) Enqueue(tx *sql.Tx, recipientID, notificationType, title, body, link string) (Notification, error) {
	return d.repo.Create(tx, recipientID, notificationType, title, body, link)
}

// Deliver sends the email for an enqueued notification. Failures are
// logged and never surfaced to the request that produced them.
func (d *Dispatcher) Deliver(n Notification) {
	recipient, err := d.userRepo.GetUser(n.RecipientID)
	if err != nil {
		d.logf(err, fmt.Sprintf("unable to find recipient %s for notification %s", n.RecipientID, n.ID))
		return
	}
	text := n.Body
	if n.Link != "" {
		text = fmt.Sprintf("%s\n\n%s%s%s", n.Body, d.urlProtocol, d.siteHost, n.Link)
	}
	err = d.emailClient.SendHTMLEmail(
		email.Address{Name: d.emailClient.DefaultSenderName(), Email: d.emailClient.NoReplySenderAddress()},
		email.Address{Name: recipient.Name, Email: recipient.Email},
		n.Title,
		text,
	)
	if err != nil {
		d.logf(err, fmt.Sprintf("unable to deliver notification %s to %s", n.ID, recipient.Email))
	}
}

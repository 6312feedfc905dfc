package mailer

import (
	"context"
	"strings"
	"time"

	"github.com/oksasatya/go-user-api/internal/domain/entity"
	mailtpl "github.com/oksasatya/go-user-api/pkg/mailer/templates"
)

// Publisher enqueues a JSON job; *helpers.RabbitPublisher satisfies it.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier turns account lifecycle events into queued e-mail jobs.
type QueueNotifier struct {
	Pub     Publisher
	AppName string
	Enabled bool
}

func NewQueueNotifier(pub Publisher, appName string, enabled bool) *QueueNotifier {
	return &QueueNotifier{Pub: pub, AppName: appName, Enabled: enabled}
}

func (n *QueueNotifier) data(u *entity.User) mailtpl.EmailData {
	return mailtpl.EmailData{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		AppName:   n.AppName,
		Time:      time.Now().UTC().Format("02 January 2006, 15:04 MST"),
	}
}

func (n *QueueNotifier) enqueue(ctx context.Context, to, template string, d mailtpl.EmailData) error {
	if !n.Enabled || n.Pub == nil {
		return nil
	}
	job := EmailJob{To: to, Template: template, Data: mailtpl.ToMap(d)}
	return n.Pub.PublishJSON(ctx, job)
}

func (n *QueueNotifier) AccountRegistered(ctx context.Context, u *entity.User) error {
	return n.enqueue(ctx, u.Email, mailtpl.AccountRegistered, n.data(u))
}

func (n *QueueNotifier) AccountUpdated(ctx context.Context, u *entity.User, changed []string) error {
	d := n.data(u)
	d.Changes = strings.Join(changed, ", ")
	return n.enqueue(ctx, u.Email, mailtpl.AccountUpdated, d)
}

func (n *QueueNotifier) AccountDeleted(ctx context.Context, u *entity.User) error {
	return n.enqueue(ctx, u.Email, mailtpl.AccountDeleted, n.data(u))
}

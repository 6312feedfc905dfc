package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mailtpl "github.com/oksasatya/go-user-api/pkg/mailer/templates"
)

// ErrBadJob marks a job that can never be delivered and must not be requeued.
var ErrBadJob = errors.New("mailer: bad job")

// Deliver decodes one queued job, renders it when it names a template and
// hands it to the sender.
func Deliver(ctx context.Context, s Sender, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrBadJob, err)
	}
	if strings.TrimSpace(job.To) == "" {
		return fmt.Errorf("%w: missing recipient", ErrBadJob)
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		var err error
		subject, text, html, err = mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w: render %s: %v", ErrBadJob, job.Template, err)
		}
	}
	if subject == "" {
		return fmt.Errorf("%w: empty subject", ErrBadJob)
	}
	return s.Send(ctx, job.To, subject, text, html)
}

package internal

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
)

type Mailer struct {
	client sesiface.SESAPI
}

// SendEmail sends a UTF-8 plain-text email.
func (m *Mailer) SendEmail(
	ctx context.Context,
	subject string,
	body string,
	from string,
	to []string,
) error {
	_, err := m.client.SendEmailWithContext(ctx, &ses.SendEmailInput{
		Destination: &ses.Destination{
			ToAddresses: aws.StringSlice(to),
		},
		Message: &ses.Message{
			Body: &ses.Body{
				Text: &ses.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(body),
				},
			},
			Subject: &ses.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
		},
		Source: aws.String(from),
	})
	return err
}

func NewMailer(client sesiface.SESAPI) *Mailer {
	return &Mailer{
		client: client,
	}
}

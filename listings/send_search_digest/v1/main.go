package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/sirupsen/logrus"

	"github.com/meetupaws/property_search/internal"
	"github.com/meetupaws/property_search/listings/internal/model"
	"github.com/meetupaws/property_search/listings/internal/panel"
)

type Handler func(ctx context.Context, event events.SQSEvent) error

type Mailer interface {
	SendEmail(ctx context.Context, subject string, body string, from string, to []string) error
}

// Adapter emails a digest for every settled search in the batch that found listings.
// Failed and empty searches are skipped. Delivery is at-least-once: the first mailer error
// stops the batch and SQS redelivers all of it, so digests already sent from that batch
// are sent again.
func Adapter(mailer Mailer, senderEmail string, recipient string, logger logrus.FieldLogger) Handler {
	return func(ctx context.Context, event events.SQSEvent) error {
		for _, record := range event.Records {
			msg := model.QueueMsgSearchSettled{}
			if err := json.Unmarshal([]byte(record.Body), &msg); err != nil {
				return err
			}

			log := logger.WithFields(logrus.Fields{"search_id": msg.SearchID, "message_id": record.MessageId})
			if msg.Error != "" || len(msg.Listings) == 0 {
				log.Debug("skipping digest for search without listings")
				continue
			}

			subject, body := digest(msg)
			if err := mailer.SendEmail(ctx, subject, body, senderEmail, []string{recipient}); err != nil {
				return err
			}
			log.WithField("count", len(msg.Listings)).Info("search digest sent")
		}
		return nil
	}
}

func digest(msg model.QueueMsgSearchSettled) (string, string) {
	subject := fmt.Sprintf("Property search results for %q", msg.Query)

	var b strings.Builder
	fmt.Fprintf(&b, "Your search %q found %d properties:\n\n", msg.Query, len(msg.Listings))
	for _, l := range msg.Listings {
		fmt.Fprintf(&b, "- %s (%s): %s\n", l.Name, l.Location, panel.FormatPrice(l.Price))
	}
	return subject, b.String()
}

func main() {
	senderEmail := internal.MustGetenv("SENDER_EMAIL")
	recipient := internal.MustGetenv("DIGEST_RECIPIENT")
	logger := internal.NewLogger(internal.Getenv("LOG_LEVEL", "info"))

	mailer := internal.NewMailer(ses.New(session.New()))
	lambda.Start(Adapter(mailer, senderEmail, recipient, logger))
}

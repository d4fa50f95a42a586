// Package notify sends application-status e-mails through Amazon SES.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	application "github.com/nova19-exe/eBhutanza/internal/application/models"
	identity "github.com/nova19-exe/eBhutanza/internal/identity/models"
	"github.com/nova19-exe/eBhutanza/internal/platform/config"
	settings "github.com/nova19-exe/eBhutanza/internal/settings/models"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
)

const submittedSubject = "Your eBhutanza e-residency application was submitted"

var submittedBody = template.Must(template.New("submitted").Parse(`Kuzuzangpo {{.Name}},

Your e-residency application has been submitted for review. We will e-mail you when its status changes.

To start a new application, open the Application page and choose "Start new application".

eBhutanza
`))

// SESAPI is the subset of *ses.Client used here.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type Users interface {
	GetUser(ctx context.Context, userID id.UserID) (*identity.User, error)
}

type Preferences interface {
	Get(ctx context.Context, userID id.UserID) (settings.Preferences, error)
}

// Notifier mails applicants who opted into application updates.
type Notifier struct {
	ses    SESAPI
	sender string
	users  Users
	prefs  Preferences
	logger *slog.Logger
}

type Option func(*Notifier)

func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) { n.logger = logger }
}

func New(client SESAPI, sender string, users Users, prefs Preferences, opts ...Option) *Notifier {
	n := &Notifier{
		ses:    client,
		sender: sender,
		users:  users,
		prefs:  prefs,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewSES builds a Notifier backed by a real SES client. It returns nil when
// no sender is configured.
func NewSES(ctx context.Context, cfg config.Email, users Users, prefs Preferences, opts ...Option) (*Notifier, error) {
	if cfg.Sender == "" {
		return nil, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return New(ses.NewFromConfig(awsCfg), cfg.Sender, users, prefs, opts...), nil
}

// NotifySubmitted mails the applicant unless they turned application
// updates off. A nil Notifier does nothing.
func (n *Notifier) NotifySubmitted(ctx context.Context, profile application.ApplicantProfile) error {
	if n == nil {
		return nil
	}
	prefs, err := n.prefs.Get(ctx, profile.UserID)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	if !prefs.ApplicationUpdates {
		n.logger.DebugContext(ctx, "application updates disabled, not mailing", "user_id", profile.UserID)
		return nil
	}

	user, err := n.users.GetUser(ctx, profile.UserID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	to := user.Email
	if to == "" {
		to = profile.Fields.Email
	}
	if to == "" {
		return nil
	}

	var body strings.Builder
	if err := submittedBody.Execute(&body, struct{ Name string }{user.WelcomeName()}); err != nil {
		return fmt.Errorf("render e-mail: %w", err)
	}
	if _, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(submittedSubject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body.String())},
			},
		},
		Source: aws.String(n.sender),
	}); err != nil {
		return fmt.Errorf("send e-mail: %w", err)
	}
	n.logger.InfoContext(ctx, "submission e-mail sent", "user_id", profile.UserID)
	return nil
}

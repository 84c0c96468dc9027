package scheduler

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const followUpSubject = "Your Job Application: CV Under Review"

// EmailSender delivers a follow-up email to one applicant.
type EmailSender interface {
	SendFollowUp(ctx context.Context, to, name string) error
}

// SESAPI is the slice of the SES client the sender needs, kept as an
// interface for mocking.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender sends follow-up emails through Amazon SES.
type SESSender struct {
	client SESAPI
	from   string
}

// NewSESSender builds an SES-backed sender using the default AWS
// credential chain.
func NewSESSender(ctx context.Context, region, from string) (*SESSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &SESSender{client: ses.NewFromConfig(cfg), from: from}, nil
}

// NewSESSenderWithClient is the constructor used by tests.
func NewSESSenderWithClient(client SESAPI, from string) *SESSender {
	return &SESSender{client: client, from: from}
}

// SendFollowUp sends the under-review notice to the applicant.
func (s *SESSender) SendFollowUp(ctx context.Context, to, name string) error {
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(followUpSubject)},
			Body: &sestypes.Body{
				Html: &sestypes.Content{Data: aws.String(followUpBody(name))},
			},
		},
		Source: aws.String(s.from),
	})
	if err != nil {
		return fmt.Errorf("failed to send follow-up email: %w", err)
	}
	return nil
}

func followUpBody(name string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Hello %s,</h2>
  <p>Thank you for applying to our position. We wanted to let you know that your CV is currently under review by our team.</p>
  <p>We appreciate your interest in our company and will get back to you regarding the next steps in the application process.</p>
  <p>If you have any questions in the meantime, please don't hesitate to contact us.</p>
  <p>Best regards,<br>Recruitment Team</p>
</div>`, name)
}

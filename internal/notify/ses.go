package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"
)

// emailAPI is the subset of the SES v2 client used here.
type emailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender delivers messages through Amazon SES.
type SESSender struct {
	client emailAPI
	from   string
	logger *zap.Logger
}

// NewSESSender loads the default AWS credential chain for region.
func NewSESSender(ctx context.Context, region, from string, logger *zap.Logger) (*SESSender, error) {
	if from == "" {
		return nil, fmt.Errorf("email sender address is required")
	}
	cfg, err := awsCfg.LoadDefaultConfig(ctx, awsCfg.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config for SES: %w", err)
	}
	return &SESSender{client: sesv2.NewFromConfig(cfg), from: from, logger: logger}, nil
}

func (s *SESSender) Send(ctx context.Context, msg Message) error {
	out, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send email to %s: %w", msg.To, err)
	}
	s.logger.Info("email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("message_id", aws.ToString(out.MessageId)))
	return nil
}

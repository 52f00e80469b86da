package notify

import (
	"athleteiq/coaching-api/internal/domain"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	sent []Message
}

func (r *recordingSender) Send(_ context.Context, msg Message) error {
	r.sent = append(r.sent, msg)
	return nil
}

func TestMailer_PlanAssigned(t *testing.T) {
	rec := &recordingSender{}
	n := NewMailer(rec)

	athlete := &domain.User{Name: "Ana", Email: "ana@example.com"}
	plan := &domain.TrainingPlan{
		Title:     "Base Building",
		Category:  domain.CategoryEndurance,
		Duration:  domain.PlanDuration{Weeks: 6, SessionsPerWeek: 4},
		StartDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, n.PlanAssigned(context.Background(), athlete, plan))
	require.Len(t, rec.sent, 1)
	msg := rec.sent[0]
	assert.Equal(t, "ana@example.com", msg.To)
	assert.Equal(t, "New Training Plan Assigned - AthleteIQ", msg.Subject)
	assert.Contains(t, msg.Body, "Hi Ana,")
	assert.Contains(t, msg.Body, "Duration: 6 weeks")
	assert.Contains(t, msg.Body, "Start Date: 3/5/2024")
}

func TestMailer_FeedbackResponded(t *testing.T) {
	rec := &recordingSender{}
	n := NewMailer(rec)

	fb := &domain.Feedback{Category: domain.FeedbackTechnique, Message: "squat depth?", Response: "below parallel"}
	require.NoError(t, n.FeedbackResponded(context.Background(), &domain.User{Name: "Ana", Email: "ana@example.com"}, fb))
	require.Len(t, rec.sent, 1)
	assert.Contains(t, rec.sent[0].Body, "Coach response: below parallel")
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESSender_Send(t *testing.T) {
	api := &fakeSES{}
	s := &SESSender{client: api, from: "coach@athleteiq.test", logger: zap.NewNop()}

	err := s.Send(context.Background(), Message{To: "ana@example.com", Subject: "Hi", Body: "Body"})
	require.NoError(t, err)
	assert.Equal(t, "coach@athleteiq.test", aws.ToString(api.input.FromEmailAddress))
	assert.Equal(t, []string{"ana@example.com"}, api.input.Destination.ToAddresses)
	assert.Equal(t, "Hi", aws.ToString(api.input.Content.Simple.Subject.Data))

	api.err = errors.New("throttled")
	assert.Error(t, s.Send(context.Background(), Message{To: "ana@example.com"}))
}

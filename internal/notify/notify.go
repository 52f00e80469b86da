// Package notify sends plain-text email notifications to athletes.
package notify

import (
	"athleteiq/coaching-api/internal/domain"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier is what the services depend on.
type Notifier interface {
	PlanAssigned(ctx context.Context, athlete *domain.User, plan *domain.TrainingPlan) error
	TrainingReminder(ctx context.Context, athlete *domain.User, plan *domain.TrainingPlan, session time.Time) error
	FeedbackResponded(ctx context.Context, athlete *domain.User, fb *domain.Feedback) error
}

type mailer struct {
	sender Sender
}

// NewMailer builds a Notifier that renders messages and hands them to sender.
func NewMailer(sender Sender) Notifier {
	return &mailer{sender: sender}
}

const signature = "\nBest regards,\nAthleteIQ Team\n"

func (m *mailer) PlanAssigned(ctx context.Context, athlete *domain.User, plan *domain.TrainingPlan) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nYour coach has assigned you a new training plan:\n\n", athlete.Name)
	fmt.Fprintf(&b, "%s\n", plan.Title)
	fmt.Fprintf(&b, "Category: %s\n", plan.Category)
	fmt.Fprintf(&b, "Duration: %d weeks\n", plan.Duration.Weeks)
	fmt.Fprintf(&b, "Sessions per week: %d\n", plan.Duration.SessionsPerWeek)
	fmt.Fprintf(&b, "Start Date: %s\n", domain.FormatDate(plan.StartDate))
	if plan.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", plan.Description)
	}
	b.WriteString("\nLog in to your dashboard to view the complete plan and start training.\n")
	b.WriteString(signature)

	return m.sender.Send(ctx, Message{
		To:      athlete.Email,
		Subject: "New Training Plan Assigned - AthleteIQ",
		Body:    b.String(),
	})
}

func (m *mailer) TrainingReminder(ctx context.Context, athlete *domain.User, plan *domain.TrainingPlan, session time.Time) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThis is a reminder about your upcoming training session:\n\n", athlete.Name)
	fmt.Fprintf(&b, "%s\n", plan.Title)
	fmt.Fprintf(&b, "Category: %s\n", plan.Category)
	fmt.Fprintf(&b, "Date: %s\n", domain.FormatDate(session))
	if plan.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", plan.Description)
	}
	b.WriteString("\nStay focused and give your best!\n")
	b.WriteString(signature)

	return m.sender.Send(ctx, Message{
		To:      athlete.Email,
		Subject: "Training Reminder - AthleteIQ",
		Body:    b.String(),
	})
}

func (m *mailer) FeedbackResponded(ctx context.Context, athlete *domain.User, fb *domain.Feedback) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nYour coach has responded to your %s feedback:\n\n", athlete.Name, fb.Category)
	fmt.Fprintf(&b, "You wrote: %s\n\n", fb.Message)
	fmt.Fprintf(&b, "Coach response: %s\n", fb.Response)
	b.WriteString(signature)

	return m.sender.Send(ctx, Message{
		To:      athlete.Email,
		Subject: "Your Coach Responded - AthleteIQ",
		Body:    b.String(),
	})
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	Logger *zap.Logger
}

func (s LogSender) Send(_ context.Context, msg Message) error {
	s.Logger.Info("email notification (delivery disabled)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

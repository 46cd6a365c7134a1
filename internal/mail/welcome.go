package mail

import (
	"context"
	"fmt"
)

// WelcomeSubject is the subject line of the waitlist welcome email.
const WelcomeSubject = "You're in! Let's make tech assessments less mysterious 🔍"

const welcomeHTML = `<div style="max-width: 600px; margin: 0 auto; font-family: Arial, sans-serif;">
  <h2 style="color: #333;">Hey there!</h2>
  <p style="color: #555; line-height: 1.6;">Awesome to have you join the assessments.lol waitlist! 🎉</p>
  <p style="color: #555; line-height: 1.6;">
    Ever wondered what a "good" CodeSignal score really is? Or how many test cases other
    candidates usually pass? Yeah, us too. That's exactly why we're building assessments.lol!
  </p>
  <p style="color: #555; line-height: 1.6;">
    A platform where candidates can anonymously share and compare their technical assessment experiences.
  </p>
  <p style="color: #555; line-height: 1.6;">Soon you'll be able to:</p>
  <ul style="color: #555;">
    <li>Compare your scores with other candidates (anonymously, of course!)</li>
    <li>See real assessment patterns across different companies</li>
    <li>Make data-driven decisions about your tech interview prep</li>
  </ul>
  <p style="color: #555; line-height: 1.6;">
    We'll let you know as soon as we launch. You're going to be one of our first users,
    and we can't wait to have you on board!
  </p>
  <p style="color: #555; margin-top: 30px;">Stay awesome,<br>The assessments.lol crew</p>
</div>`

// WelcomeMessage builds the welcome email for a new lead.
func WelcomeMessage(to string) (Message, error) {
	text, err := PlainText(welcomeHTML)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: WelcomeSubject,
		Text:    text,
		HTML:    welcomeHTML,
	}, nil
}

// Welcomer sends welcome emails to new leads.
type Welcomer struct {
	sender Sender
}

// NewWelcomer creates a Welcomer that delivers through sender.
func NewWelcomer(sender Sender) *Welcomer {
	return &Welcomer{sender: sender}
}

// SendWelcome sends the welcome email to email.
func (w *Welcomer) SendWelcome(ctx context.Context, email string) error {
	msg, err := WelcomeMessage(email)
	if err != nil {
		return fmt.Errorf("failed to build welcome email: %w", err)
	}
	return w.sender.Send(ctx, msg)
}

package communication

import (
	"fmt"
	"log"

	"github.com/slack-go/slack"
)

// Notifier posts operator-facing alerts.
type Notifier interface {
	Info(message string) error
	Error(message string) error
}

type Slack struct {
	client  *slack.Client
	options SlackOption
}

type SlackOption struct {
	InfoChannelID  string
	ErrorChannelID string
}

// ConnectSlack returns a Slack notifier, or a log-only one when no bot
// token is configured.
func ConnectSlack(token string, options SlackOption) Notifier {
	if token == "" {
		return LogNotifier{}
	}
	return NewSlack(token, options)
}

func NewSlack(token string, options SlackOption, opts ...slack.Option) *Slack {
	client := slack.New(token, opts...)
	return &Slack{client: client, options: options}
}

func (s *Slack) postMessage(channelID, message string) error {
	if channelID == "" {
		return nil
	}
	_, _, err := s.client.PostMessage(
		channelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to Slack: %w", err)
	}
	return nil
}

func (s *Slack) Info(message string) error {
	return s.postMessage(s.options.InfoChannelID, message)
}

func (s *Slack) Error(message string) error {
	return s.postMessage(s.options.ErrorChannelID, message)
}

type LogNotifier struct{}

func (LogNotifier) Info(message string) error {
	log.Printf("[INFO] %s", message)
	return nil
}

func (LogNotifier) Error(message string) error {
	log.Printf("[ERROR] %s", message)
	return nil
}

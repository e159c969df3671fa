package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/glory-summit/summit/internal/models"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Footer      *DiscordFooter        `json:"footer,omitempty"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordFooter struct {
	Text string `json:"text"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Footer    string       `json:"footer"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorBlue = 3447003 // #3498DB - new panel question

	Username = "GLORY Summit"
)

// SendQuestionNotification forwards a freshly submitted panel question to
// the moderation channels configured via QUESTION_DISCORD_WEBHOOK and
// QUESTION_SLACK_WEBHOOK. Missing configuration means no-op.
func SendQuestionNotification(question models.Question, author models.User) error {
	if discordURL := os.Getenv("QUESTION_DISCORD_WEBHOOK"); discordURL != "" {
		if err := sendDiscordQuestion(discordURL, question, author); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if slackURL := os.Getenv("QUESTION_SLACK_WEBHOOK"); slackURL != "" {
		if err := sendSlackQuestion(slackURL, question, author); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

func sendDiscordQuestion(webhookURL string, question models.Question, author models.User) error {
	payload := DiscordWebhookRequest{
		Username: Username,
		Embeds: []DiscordEmbed{
			{
				Title:       "❓ **NEW PANEL QUESTION**",
				Description: question.Text,
				Color:       ColorBlue,
				Fields: []DiscordWebhookField{
					{Name: "Panel", Value: question.PanelName, Inline: true},
					{Name: "From", Value: author.Name, Inline: true},
				},
				Footer: &DiscordFooter{
					Text: "GLORY Sports Summit",
				},
				Timestamp: time.Now().Format(time.RFC3339),
			},
		},
	}

	return sendDiscordWebhook(webhookURL, payload)
}

func sendSlackQuestion(webhookURL string, question models.Question, author models.User) error {
	payload := SlackWebhookRequest{
		Username:  Username,
		IconEmoji: ":question:",
		Text:      ":question: *NEW PANEL QUESTION*",
		Attachments: []SlackAttachment{
			{
				Color: "#3498DB",
				Title: fmt.Sprintf("Question for panel '%s'", question.PanelName),
				Text:  question.Text,
				Fields: []SlackField{
					{Title: "Panel", Value: question.PanelName, Short: true},
					{Title: "From", Value: author.Name, Short: true},
				},
				Footer:    "GLORY Sports Summit",
				Timestamp: time.Now().Unix(),
			},
		},
	}

	return sendSlackWebhook(webhookURL, payload)
}

func sendDiscordWebhook(webhookURL string, payload DiscordWebhookRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Discord payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send Discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Discord webhook returned status %d", resp.StatusCode)
	}

	return nil
}

func sendSlackWebhook(webhookURL string, payload SlackWebhookRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send Slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Slack webhook returned status %d", resp.StatusCode)
	}

	return nil
}

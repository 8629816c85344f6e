package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/Key0string/SponsorBlockServer/internal/config"
)

// Event kinds emitted after a committed vote.
const (
	EventVote           = "vote"
	EventCategoryChange = "category_change"
)

// VoteEvent is the finalized outcome handed to the dispatcher post-commit.
type VoteEvent struct {
	ID          string
	Kind        string
	SegmentUUID string
	VideoID     string
	Category    string
	Votes       int
	Locked      bool

	// Title is filled in by the dispatcher worker, not the vote engine.
	Title string
}

// DispatchService fans vote outcomes out to Discord webhooks. It is strictly
// best-effort: enqueueing never blocks the request path, the queue drops when
// full, and every delivery failure is logged and swallowed.
type DispatchService struct {
	queue    chan VoteEvent
	session  *discordgo.Session
	metadata *MetadataService

	voteWebhookID    string
	voteWebhookToken string
	catWebhookID     string
	catWebhookToken  string
}

func NewDispatchService(cfg *config.Config, metadata *MetadataService) *DispatchService {
	// Webhook execution needs no bot token.
	session, err := discordgo.New("")
	if err != nil {
		log.Printf("dispatch: discord session init failed, notifications disabled: %v", err)
		session = nil
	}

	d := &DispatchService{
		queue:    make(chan VoteEvent, 256),
		session:  session,
		metadata: metadata,
	}
	d.voteWebhookID, d.voteWebhookToken = parseWebhookURL(cfg.DiscordVoteWebhook)
	d.catWebhookID, d.catWebhookToken = parseWebhookURL(cfg.DiscordCategoryWebhook)
	return d
}

// Dispatch enqueues an event without blocking. A full queue drops the event;
// notifications are best-effort by contract.
func (d *DispatchService) Dispatch(ev VoteEvent) {
	ev.ID = uuid.NewString()
	select {
	case d.queue <- ev:
	default:
		log.Printf("dispatch: queue full, dropping %s event for %s", ev.Kind, ev.SegmentUUID)
	}
}

// QueueDepth returns the number of events waiting for delivery.
func (d *DispatchService) QueueDepth() int {
	return len(d.queue)
}

// Start consumes the queue until the context is cancelled.
func (d *DispatchService) Start(ctx context.Context) {
	log.Println("dispatch: worker starting")
	for {
		select {
		case ev := <-d.queue:
			d.send(ev)
		case <-ctx.Done():
			log.Println("dispatch: worker stopping (context cancelled)")
			return
		}
	}
}

func (d *DispatchService) send(ev VoteEvent) {
	webhookID, webhookToken := d.voteWebhookID, d.voteWebhookToken
	if ev.Kind == EventCategoryChange {
		webhookID, webhookToken = d.catWebhookID, d.catWebhookToken
	}
	if d.session == nil || webhookID == "" {
		return
	}

	if title, err := d.metadata.VideoTitle(ev.VideoID); err != nil {
		log.Printf("dispatch: metadata lookup failed for %s: %v", ev.VideoID, err)
	} else {
		ev.Title = title
	}

	embed := buildEmbed(ev)
	_, err := d.session.WebhookExecute(webhookID, webhookToken, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		log.Printf("dispatch: webhook delivery failed for %s: %v", ev.SegmentUUID, err)
	}
}

func buildEmbed(ev VoteEvent) *discordgo.MessageEmbed {
	title := ev.Title
	if title == "" {
		title = ev.VideoID
	}

	headline := fmt.Sprintf("Segment voted to %d", ev.Votes)
	if ev.Kind == EventCategoryChange {
		headline = fmt.Sprintf("Segment recategorized to %s", ev.Category)
	}

	return &discordgo.MessageEmbed{
		Title:       headline,
		Description: title,
		URL:         fmt.Sprintf("https://youtu.be/%s", ev.VideoID),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "UUID", Value: ev.SegmentUUID, Inline: true},
			{Name: "Category", Value: ev.Category, Inline: true},
			{Name: "Votes", Value: fmt.Sprintf("%d", ev.Votes), Inline: true},
			{Name: "Locked", Value: fmt.Sprintf("%t", ev.Locked), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: ev.ID},
	}
}

// parseWebhookURL splits a Discord webhook URL of the form
// .../api/webhooks/{id}/{token} into its ID and token. Empty or malformed
// URLs disable that webhook.
func parseWebhookURL(url string) (id, token string) {
	if url == "" {
		return "", ""
	}
	parts := strings.Split(strings.TrimSuffix(url, "/"), "/")
	if len(parts) < 2 {
		return "", ""
	}
	return parts[len(parts)-2], parts[len(parts)-1]
}

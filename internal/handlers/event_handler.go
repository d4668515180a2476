package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/cesarbot/kudos-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// bananaPattern matches a banana award: the trigger emoji co-occurring with
// a user mention. The first captured mention is the recipient.
var bananaPattern = regexp.MustCompile(`:banana:.*<@([UW][A-Z0-9]+)>`)

// EventHandler receives Slack Events API callbacks and feeds award requests
// into the workflow. The HTTP response is always 200 once the payload is
// understood; processing failures are logged, never surfaced to the gateway.
type EventHandler struct {
	awardService  *services.AwardService
	signingSecret string
	log           *logrus.Logger
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(awardService *services.AwardService, signingSecret string, log *logrus.Logger) *EventHandler {
	return &EventHandler{
		awardService:  awardService,
		signingSecret: signingSecret,
		log:           log,
	}
}

// HandleEvent handles POST /slack/events
func (h *EventHandler) HandleEvent(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	if h.signingSecret != "" {
		verifier, err := slack.NewSecretsVerifier(c.Request.Header, h.signingSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "signature verification failed"})
			return
		}
		if _, err := verifier.Write(body); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "signature verification failed"})
			return
		}
		if err := verifier.Ensure(); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse event"})
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse challenge"})
			return
		}
		c.String(http.StatusOK, challenge.Challenge)
	case slackevents.CallbackEvent:
		h.handleCallback(event)
		c.Status(http.StatusOK)
	default:
		c.Status(http.StatusOK)
	}
}

func (h *EventHandler) handleCallback(event slackevents.EventsAPIEvent) {
	msg, ok := event.InnerEvent.Data.(*slackevents.MessageEvent)
	if !ok {
		return
	}
	// Ignore bot chatter and edits/joins; only fresh user messages award.
	if msg.BotID != "" || msg.SubType != "" {
		return
	}
	match := bananaPattern.FindStringSubmatch(msg.Text)
	if match == nil {
		return
	}

	req := services.AwardRequest{
		SenderID:    msg.User,
		RecipientID: match[1],
		Reason:      msg.Text,
		ChannelID:   msg.Channel,
		MessageTS:   msg.TimeStamp,
	}

	// Ack the gateway immediately; the workflow runs off the request
	// goroutine and swallows its own failures.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := h.awardService.ProcessAward(ctx, req); err != nil {
			h.log.WithError(err).WithFields(logrus.Fields{
				"sender":    req.SenderID,
				"recipient": req.RecipientID,
				"channel":   req.ChannelID,
			}).Warn("award processing failed")
		}
	}()
}

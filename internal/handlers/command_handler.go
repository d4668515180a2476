package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cesarbot/kudos-backend/internal/levels"
	"github.com/cesarbot/kudos-backend/internal/services"
	"github.com/cesarbot/kudos-backend/pkg/chatgateway"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
)

var medals = []string{"🥇", "🥈", "🥉"}

var avatarColors = []string{"yellow", "brown", "black", "gray"}

// CommandHandler serves the slash command set: /ranking, /avatar and
// /cesar-help. Responses are always ephemeral.
type CommandHandler struct {
	leaderboard   *services.LeaderboardService
	users         *services.UserService
	gateway       chatgateway.Gateway
	signingSecret string
	unlockLevel   int
	log           *logrus.Logger
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(
	leaderboard *services.LeaderboardService,
	users *services.UserService,
	gateway chatgateway.Gateway,
	signingSecret string,
	unlockLevel int,
	log *logrus.Logger,
) *CommandHandler {
	return &CommandHandler{
		leaderboard:   leaderboard,
		users:         users,
		gateway:       gateway,
		signingSecret: signingSecret,
		unlockLevel:   unlockLevel,
		log:           log,
	}
}

// HandleCommand handles POST /slack/commands
func (h *CommandHandler) HandleCommand(c *gin.Context) {
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

	// SlashCommandParse consumes the form body, so restore it after the
	// signature check.
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	cmd, err := slack.SlashCommandParse(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse command"})
		return
	}

	var text string
	switch cmd.Command {
	case "/ranking", "/top":
		text = h.rankingText(c.Request.Context(), cmd.UserID)
	case "/avatar":
		text = h.avatarText(c.Request.Context(), cmd.UserID, cmd.Text)
	case "/cesar-help":
		text = helpText
	default:
		text = fmt.Sprintf("Unknown command %s — try `/cesar-help`", cmd.Command)
	}

	c.JSON(http.StatusOK, gin.H{
		"response_type": "ephemeral",
		"text":          text,
	})
}

func (h *CommandHandler) rankingText(ctx context.Context, userID string) string {
	top, err := h.leaderboard.Top(ctx, 10)
	if err != nil {
		h.log.WithError(err).Error("ranking command failed")
		return "Error fetching rankings 😓"
	}
	stats, err := h.leaderboard.StatsFor(ctx, userID)
	if err != nil {
		h.log.WithError(err).Error("ranking command failed")
		return "Error fetching rankings 😓"
	}

	var b strings.Builder
	b.WriteString("🏆 *Top 10 Banana Rankings* 🍌\n\n")
	for _, row := range top {
		medal := fmt.Sprintf("%d.", row.Position)
		if row.Position <= len(medals) {
			medal = medals[row.Position-1]
		}
		name := fmt.Sprintf("<@%s>", row.UserID)
		if display, err := h.gateway.UserDisplayName(ctx, row.UserID); err == nil && display != "" {
			name = fmt.Sprintf("*%s*", display)
		}
		fmt.Fprintf(&b, "%s %s %s - Level %d (%d 🍌)\n", medal, row.Avatar, name, row.Level, row.Points)
	}

	fmt.Fprintf(&b, "\n📍 *Your Stats:*\n%s Rank: #%d | Level: %d | Bananas: %d 🍌",
		stats.Avatar, stats.Rank, stats.Level, stats.Points)
	if stats.PointsToNext > 0 {
		fmt.Fprintf(&b, "\n🎯 %d bananas to next level!", stats.PointsToNext)
	}
	return b.String()
}

func (h *CommandHandler) avatarText(ctx context.Context, userID, args string) string {
	profile, err := h.users.GetProfile(ctx, userID)
	if err != nil {
		h.log.WithError(err).Error("avatar command failed")
		return "Error accessing Avatar Studio 😓"
	}

	if profile.Level < h.unlockLevel {
		return fmt.Sprintf("🔒 Avatar Studio unlocks at *Level %d*! Keep earning bananas to customize your pet monkey! 🐒", h.unlockLevel)
	}

	accessories := []string{"🎩"}
	if profile.Level >= 3 {
		accessories = []string{"🎩", "👑", "🕶️", "🎀"}
	}

	fields := strings.Fields(args)
	if len(fields) == 2 {
		cfg := profile.AvatarConfig
		switch fields[0] {
		case "color":
			if !contains(avatarColors, fields[1]) {
				return fmt.Sprintf("Unknown color %q. Available colors: %s", fields[1], strings.Join(avatarColors, ", "))
			}
			cfg.Color = fields[1]
		case "accessory":
			if !contains(accessories, fields[1]) {
				return fmt.Sprintf("That accessory isn't available at your level. Available: %s", strings.Join(accessories, ", "))
			}
			if !contains(cfg.Accessories, fields[1]) {
				cfg.Accessories = append(cfg.Accessories, fields[1])
			}
		default:
			return "Use `/avatar color yellow` or `/avatar accessory 🎩` to customize!"
		}
		if err := h.users.UpdateAvatar(ctx, userID, profile.AvatarImageURL, profile.AvatarPrompt, cfg); err != nil {
			h.log.WithError(err).Error("avatar update failed")
			return "Error accessing Avatar Studio 😓"
		}
		return fmt.Sprintf("✅ Avatar updated! Color: %s, Accessories: %s", cfg.Color, joinOrNone(cfg.Accessories))
	}

	var b strings.Builder
	b.WriteString("🎨 *Avatar Studio* 🐒\n\n")
	fmt.Fprintf(&b, "Current avatar: %s\n\n", levels.AvatarForLevel(profile.Level))
	fmt.Fprintf(&b, "*Available colors:* %s\n", strings.Join(avatarColors, ", "))
	fmt.Fprintf(&b, "*Available accessories:* %s\n", strings.Join(accessories, ", "))
	fmt.Fprintf(&b, "\nCurrent config: Color: %s, Accessories: %s\n\n", profile.AvatarConfig.Color, joinOrNone(profile.AvatarConfig.Accessories))
	b.WriteString("Use `/avatar color yellow` or `/avatar accessory 🎩` to customize!")
	return b.String()
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func joinOrNone(list []string) string {
	if len(list) == 0 {
		return "none"
	}
	return strings.Join(list, ", ")
}

const helpText = `🐒 *César - Slack Kudos Help* 🍌

*How to give bananas:*
In any public channel: ` + "`:banana: <@teammate> for helping me with the deploy!`" + `

*Commands:*
• ` + "`/ranking`" + ` - See top 10 users and your stats
• ` + "`/avatar`" + ` - Customize your pet monkey (Level 2+)
• ` + "`/cesar-help`" + ` - Show this help

*Leveling System:*
• Level 1: 0 bananas 🐒
• Level 2: 1 banana 🍌 (unlocks Avatar Studio)
• Level 3: 3 bananas 🍌🍌🍌
• Level n: triangular progression, capped at Level 10

*Features:*
• 🎁 *Giver Prize*: Bonus banana every 3 you give!
• 🔄 *Monthly Nudge*: -2 bananas if you don't give any in a month
• 🎨 *Avatar Studio*: Customize your monkey at Level 2+

Spread the recognition and help build our team culture! 🚀`

package slack

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"

	"github.com/MassBabyGeek/GeoDaily-bot/internal/logger"
)

// Client encapsule les appels au chat d'équipe : publication du message
// quotidien et modération des anciens messages du bot
type Client struct {
	api *slackapi.Client
}

// New construit un client pour le token de bot donné. Les options slack-go
// (OptionAPIURL notamment) servent aux tests.
func New(botToken string, opts ...slackapi.Option) *Client {
	return &Client{api: slackapi.New(botToken, opts...)}
}

// Post publie un message dans le channel, avec blocs riches optionnels.
// Renvoie le timestamp du message posté.
func (c *Client) Post(ctx context.Context, channelID, text string, blocks []slackapi.Block) (string, error) {
	options := []slackapi.MsgOption{slackapi.MsgOptionText(text, false)}
	if len(blocks) > 0 {
		options = append(options, slackapi.MsgOptionBlocks(blocks...))
	}

	_, timestamp, err := c.api.PostMessageContext(ctx, channelID, options...)
	if err != nil {
		return "", fmt.Errorf("slack post failed: %w", err)
	}
	return timestamp, nil
}

// WhoAmI renvoie l'identité du bot (user id)
func (c *Client) WhoAmI(ctx context.Context) (string, error) {
	resp, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return "", fmt.Errorf("slack auth.test failed: %w", err)
	}
	return resp.UserID, nil
}

// RecentMessages liste les derniers messages du channel, en suivant le
// curseur de pagination jusqu'à la limite demandée
func (c *Client) RecentMessages(ctx context.Context, channelID string, limit int) ([]slackapi.Message, error) {
	var out []slackapi.Message
	cursor := ""
	for {
		pageSize := limit - len(out)
		if pageSize > 200 {
			pageSize = 200
		}
		resp, err := c.api.GetConversationHistoryContext(ctx, &slackapi.GetConversationHistoryParameters{
			ChannelID: channelID,
			Cursor:    cursor,
			Limit:     pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("slack conversations.history failed: %w", err)
		}
		out = append(out, resp.Messages...)

		cursor = resp.ResponseMetaData.NextCursor
		if cursor == "" || len(out) >= limit {
			return out, nil
		}
	}
}

// Delete supprime un message (le bot ne peut supprimer que les siens)
func (c *Client) Delete(ctx context.Context, channelID, timestamp string) error {
	if _, _, err := c.api.DeleteMessageContext(ctx, channelID, timestamp); err != nil {
		return fmt.Errorf("slack chat.delete failed: %w", err)
	}
	return nil
}

// PurgeOwnMessages supprime les messages du channel postés par le bot
// (même user id, ou marqués bot). Un échec individuel n'interrompt pas le
// lot. Renvoie le nombre de messages supprimés.
func (c *Client) PurgeOwnMessages(ctx context.Context, channelID string) (int, error) {
	botUserID, err := c.WhoAmI(ctx)
	if err != nil {
		return 0, err
	}

	messages, err := c.RecentMessages(ctx, channelID, 500)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, msg := range messages {
		if msg.User != botUserID && msg.BotID == "" {
			continue
		}
		if err := c.Delete(ctx, channelID, msg.Timestamp); err != nil {
			logger.Warning("Could not delete message %s: %v", msg.Timestamp, err)
			continue
		}
		deleted++
	}
	return deleted, nil
}

package notifier

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"dealradar/internal/domain/entity"
)

const descriptionSnippetLen = 300

type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Run drains surfaced opportunities from the channel until it closes or
// the context ends. Send failures are logged and never stop the loop.
func (b *TelegramBot) Run(ctx context.Context, opps <-chan entity.Opportunity) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case opp, ok := <-opps:
			if !ok {
				return nil
			}
			if err := b.SendOpportunity(ctx, opp); err != nil {
				logger(ctx).Error("failed to send opportunity", "error", err, "url", opp.Deal.URL)
			}
		}
	}
}

func (b *TelegramBot) SendOpportunity(ctx context.Context, opp entity.Opportunity) error {
	text := fmt.Sprintf(
		"💎 <b>Deal Alert!</b>\n\n"+
			"💰 <b>Price:</b> $%.2f\n"+
			"📊 <b>Estimate:</b> $%.2f\n"+
			"📉 <b>Discount:</b> $%.2f\n\n"+
			"%s\n\n"+
			"🔗 <a href=\"%s\">View Deal</a>",
		opp.Deal.Price,
		opp.Estimate,
		opp.Discount,
		snippet(opp.Deal.ProductDescription),
		opp.Deal.URL,
	)

	msg := tu.Message(
		tu.ID(b.chatID),
		text,
	).WithParseMode(telego.ModeHTML)

	_, err := b.bot.SendMessage(ctx, msg)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// SendText sends a plain text message.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	_, err := b.bot.SendMessage(ctx, msg)
	return err
}

func snippet(s string) string {
	runes := []rune(s)
	if len(runes) <= descriptionSnippetLen {
		return s
	}
	return string(runes[:descriptionSnippetLen]) + "…"
}

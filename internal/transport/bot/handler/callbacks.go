package handler

import (
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"dealradar/internal/transport/bot/view"
)

const opportunitiesPerPage = 5

func (h *Handler) OnLatestCallback(ctx *th.Context, query telego.CallbackQuery) error {
	var page int
	_, err := fmt.Sscanf(query.Data, "opps_page:%d", &page)
	if err != nil || page < 1 {
		page = 1
	}

	err = h.sendOpportunityPage(ctx, query.Message.GetChat().ID, query.Message.GetMessageID(), page)
	if err != nil {
		_ = ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID).
			WithText("❌ Failed to load opportunities").WithShowAlert())
		return err
	}

	// Answer the callback so the client stops showing a spinner.
	_ = ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID))

	return nil
}

// sendOpportunityPage renders one page of recent opportunities. A zero
// messageID sends a fresh message; otherwise the existing one is edited.
func (h *Handler) sendOpportunityPage(ctx *th.Context, chatID int64, messageID, page int) error {
	offset := (page - 1) * opportunitiesPerPage

	// One extra row tells us whether a next page exists.
	opps, err := h.repo.List(ctx, opportunitiesPerPage+1, offset)
	if err != nil {
		return fmt.Errorf("repo.List: %w", err)
	}

	hasNext := len(opps) > opportunitiesPerPage
	if hasNext {
		opps = opps[:opportunitiesPerPage]
	}

	if len(opps) == 0 && page == 1 {
		return h.sendText(ctx, chatID, view.NoOpportunities)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📈 <b>Latest opportunities</b> (page %d)\n\n", page))

	for _, opp := range opps {
		sb.WriteString(fmt.Sprintf(view.OpportunityItemTemplate,
			opp.Deal.Price,
			opp.Estimate,
			opp.Discount,
			opp.Deal.ProductDescription,
			opp.Deal.URL,
		))
	}

	keyboard := paginationKeyboard(page, hasNext)

	if messageID == 0 {
		_, err = ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
			ChatID:      telego.ChatID{ID: chatID},
			Text:        sb.String(),
			ParseMode:   telego.ModeHTML,
			ReplyMarkup: keyboard,
		})
		return err
	}

	_, err = ctx.Bot().EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:      tu.ID(chatID),
		MessageID:   messageID,
		Text:        sb.String(),
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: keyboard,
	})
	return err
}

func paginationKeyboard(page int, hasNext bool) *telego.InlineKeyboardMarkup {
	var row []telego.InlineKeyboardButton

	if page > 1 {
		row = append(row, tu.InlineKeyboardButton("⬅️ Prev").
			WithCallbackData(fmt.Sprintf("opps_page:%d", page-1)))
	}
	if hasNext {
		row = append(row, tu.InlineKeyboardButton("Next ➡️").
			WithCallbackData(fmt.Sprintf("opps_page:%d", page+1)))
	}

	if len(row) == 0 {
		return nil
	}

	return tu.InlineKeyboard(tu.InlineKeyboardRow(row...))
}

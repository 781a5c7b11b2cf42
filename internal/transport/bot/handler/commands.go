package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"dealradar/internal/transport/bot/view"
)

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	scannerStatus := "🔴 stopped"
	if h.scanner.IsRunning() {
		scannerStatus = "🟢 running"
	}

	text := fmt.Sprintf(`📊 <b>Scanner status</b>

🔍 <b>State:</b> %s
⏱ <b>Interval:</b> %s
📉 <b>Discount threshold:</b> $%.2f
`,
		scannerStatus,
		h.scanner.ScanInterval(),
		h.scanner.DiscountThreshold(),
	)

	return h.sendHTML(ctx, msg.Chat.ID, text)
}

func (h *Handler) OnStartScan(ctx *th.Context, msg telego.Message) error {
	if err := h.scanner.Start(h.appCtx); err != nil {
		return h.sendText(ctx, msg.Chat.ID, view.ScanAlreadyRunning)
	}
	return h.sendText(ctx, msg.Chat.ID, view.ScanStarted)
}

func (h *Handler) OnStopScan(ctx *th.Context, msg telego.Message) error {
	h.scanner.Stop()
	return h.sendText(ctx, msg.Chat.ID, view.ScanStopped)
}

func (h *Handler) OnScan(ctx *th.Context, msg telego.Message) error {
	go h.scanner.ScanOnce(h.appCtx)
	return h.sendText(ctx, msg.Chat.ID, view.ScanTriggered)
}

func (h *Handler) OnSetThreshold(ctx *th.Context, msg telego.Message) error {
	parts := strings.Fields(msg.Text)
	if len(parts) < 2 {
		return h.sendText(ctx, msg.Chat.ID, view.SetThresholdMissingArgument)
	}

	threshold, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || threshold < 0 {
		return h.sendText(ctx, msg.Chat.ID, view.SetThresholdInvalidFormat)
	}

	h.scanner.SetDiscountThreshold(threshold)

	return h.sendText(ctx, msg.Chat.ID, fmt.Sprintf(view.SetThresholdSuccess, threshold))
}

func (h *Handler) OnLatest(ctx *th.Context, msg telego.Message) error {
	return h.sendOpportunityPage(ctx, msg.Chat.ID, 0, 1)
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: telego.ModeHTML,
	})
	return err
}

func (h *Handler) sendText(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	})
	return err
}

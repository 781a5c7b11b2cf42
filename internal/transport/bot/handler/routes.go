package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"dealradar/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminID))

	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	adminGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))
	adminGroup.HandleMessage(h.OnStartScan, th.CommandEqual("startscan"))
	adminGroup.HandleMessage(h.OnStopScan, th.CommandEqual("stopscan"))
	adminGroup.HandleMessage(h.OnScan, th.CommandEqual("scan"))
	adminGroup.HandleMessage(h.OnSetThreshold, th.CommandEqual("setthreshold"))
	adminGroup.HandleMessage(h.OnLatest, th.CommandEqual("latest"))

	cbGroup := bh.Group(th.AnyCallbackQuery())
	cbGroup.Use(middleware.AdminOnly(adminID))

	cbGroup.HandleCallbackQuery(h.OnLatestCallback, th.CallbackDataPrefix("opps_page"))
}

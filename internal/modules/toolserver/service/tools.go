package service

import (
	marketws "mudrex_agent/internal/modules/marketws/service"
	mudrex "mudrex_agent/internal/modules/mudrex_client/service"
	"mudrex_agent/internal/notify"
)

// RegisterAll собирает полную поверхность инструментов.
func RegisterAll(r *Registry, c *mudrex.Client, cat *mudrex.Catalog, ws *marketws.Stream, n *notify.Telegram) {
	registerWalletTools(r, c, n)
	registerMarketTools(r, c, cat, ws)
	registerOrderTools(r, c, n)
	registerPositionTools(r, c, n)
}

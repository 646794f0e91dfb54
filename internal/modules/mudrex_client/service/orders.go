package service

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"mudrex_agent/internal/apierr"
	"mudrex_agent/internal/models"
	"mudrex_agent/internal/normalize"
)

// Маркет-ордеру апстрим всё равно требует order_price; шлем заведомо
// непробиваемый плейсхолдер, в сущность Order он не попадает.
const marketPricePlaceholder = 999999999

// OrderParams — параметры создания ордера. Symbol приоритетнее AssetID.
type OrderParams struct {
	Symbol  string
	AssetID string

	Side     models.Side
	Quantity string
	Leverage string
	// Price обязателен для LIMIT, игнорируется для MARKET
	Price string

	StoplossPrice   string
	TakeprofitPrice string
	ReduceOnly      bool
}

func (c *Client) CreateMarketOrder(ctx context.Context, p OrderParams) (models.Order, error) {
	return c.createOrder(ctx, p, models.TriggerMarket)
}

func (c *Client) CreateLimitOrder(ctx context.Context, p OrderParams) (models.Order, error) {
	if p.Price == "" {
		return models.Order{}, apierr.Validation("limit order requires a price")
	}
	return c.createOrder(ctx, p, models.TriggerLimit)
}

// CreateMarketOrderWithAmount выставляет маркет-ордер на сумму в USDT:
// количество считается от текущей цены инструмента.
func (c *Client) CreateMarketOrderWithAmount(ctx context.Context, symbol string, side models.Side, amount, leverage string) (models.Order, error) {
	amt, err := strconv.ParseFloat(amount, 64)
	if err != nil || amt <= 0 {
		return models.Order{}, apierr.Validation("amount must be a positive number, got " + strconv.Quote(amount))
	}

	inst, err := c.instrumentSpec(ctx, symbol, true)
	if err != nil {
		return models.Order{}, err
	}
	price, err := strconv.ParseFloat(inst.Price, 64)
	if err != nil || price <= 0 {
		return models.Order{}, apierr.Validation(fmt.Sprintf("no usable price for %s to size the order from amount", symbol))
	}

	return c.createOrder(ctx, OrderParams{
		Symbol:   symbol,
		Side:     side,
		Quantity: strconv.FormatFloat(amt/price, 'f', -1, 64),
		Leverage: leverage,
	}, models.TriggerMarket)
}

func (c *Client) createOrder(ctx context.Context, p OrderParams, trigger models.TriggerType) (models.Order, error) {
	identifier, bySymbol, err := normalize.Identifier(p.Symbol, p.AssetID)
	if err != nil {
		return models.Order{}, apierr.Validation(err.Error())
	}
	if p.Side != models.SideLong && p.Side != models.SideShort {
		return models.Order{}, apierr.Validation("side must be LONG or SHORT, got " + strconv.Quote(string(p.Side)))
	}
	if p.Quantity == "" {
		return models.Order{}, apierr.Validation("quantity is required")
	}

	quantity := p.Quantity
	price := p.Price

	// спецификация инструмента: округляем количество к quantity_step и цену
	// к price_step, проверяем минимум
	inst, err := c.instrumentSpec(ctx, identifier, bySymbol)
	if err == nil {
		quantity, err = roundQuantity(quantity, inst)
		if err != nil {
			return models.Order{}, err
		}
		if price != "" && inst.PriceStep != "" {
			price = roundToStep(price, inst.PriceStep)
		}
	} else if apierr.Classify(err).Kind == apierr.KindNotFound {
		return models.Order{}, err
	}
	// прочие ошибки спецификации не блокируют ордер: шлем как есть

	qtyNum, err := strconv.ParseFloat(quantity, 64)
	if err != nil {
		return models.Order{}, apierr.Validation("quantity must be a number, got " + strconv.Quote(p.Quantity))
	}

	leverage := p.Leverage
	if leverage == "" {
		leverage = "1"
	}
	levNum, err := strconv.ParseFloat(leverage, 64)
	if err != nil {
		return models.Order{}, apierr.Validation("leverage must be a number, got " + strconv.Quote(leverage))
	}

	body := map[string]any{
		"quantity":     qtyNum,
		"order_type":   string(p.Side),
		"trigger_type": string(trigger),
		"leverage":     levNum,
		"reduce_only":  p.ReduceOnly,
	}

	switch {
	case trigger == models.TriggerMarket:
		body["order_price"] = float64(marketPricePlaceholder)
	case price != "":
		pn, err := strconv.ParseFloat(price, 64)
		if err != nil {
			return models.Order{}, apierr.Validation("price must be a number, got " + strconv.Quote(p.Price))
		}
		body["order_price"] = pn
	}

	if p.StoplossPrice != "" {
		sl, err := strconv.ParseFloat(p.StoplossPrice, 64)
		if err != nil {
			return models.Order{}, apierr.Validation("stoploss_price must be a number")
		}
		body["is_stoploss"] = true
		body["stoploss_price"] = sl
	}
	if p.TakeprofitPrice != "" {
		tp, err := strconv.ParseFloat(p.TakeprofitPrice, 64)
		if err != nil {
			return models.Order{}, apierr.Validation("takeprofit_price must be a number")
		}
		body["is_takeprofit"] = true
		body["takeprofit_price"] = tp
	}

	raw, err := c.post(ctx, "/futures/"+url.PathEscape(identifier)+"/order", body)
	if err != nil {
		return models.Order{}, err
	}
	rec, err := decodeObject(raw)
	if err != nil {
		return models.Order{}, err
	}
	if _, ok := rec["quantity"]; !ok {
		if _, ok := rec["size"]; !ok {
			rec["quantity"] = quantity
		}
	}
	if rec["symbol"] == nil && bySymbol {
		rec["symbol"] = identifier
	}

	order, err := models.OrderFromRaw(rec)
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// instrumentSpec берет спецификацию из каталога, если он подключен и собран,
// иначе напрямую у апстрима.
func (c *Client) instrumentSpec(ctx context.Context, identifier string, bySymbol bool) (models.Instrument, error) {
	if c.catalog != nil && c.catalog.Ready() {
		if bySymbol {
			return c.catalog.Get(ctx, identifier)
		}
		return c.catalog.GetByAssetID(ctx, identifier)
	}
	return c.Asset(ctx, identifier)
}

func roundQuantity(quantity string, inst models.Instrument) (string, error) {
	step, err := strconv.ParseFloat(inst.QuantityStep, 64)
	if err != nil || step <= 0 {
		return quantity, nil
	}

	qty, err := strconv.ParseFloat(quantity, 64)
	if err != nil {
		return "", apierr.Validation("quantity must be a number, got " + strconv.Quote(quantity))
	}

	if min, err := strconv.ParseFloat(inst.MinQuantity, 64); err == nil && qty < min {
		return "", apierr.Validation(fmt.Sprintf(
			"quantity %s is below the minimum %s for %s", quantity, inst.MinQuantity, inst.Symbol))
	}

	return roundToStep(quantity, inst.QuantityStep), nil
}

// roundToStep округляет value к ближайшему кратному step, сохраняя точность
// шага в строковом представлении.
func roundToStep(value, step string) string {
	v, err1 := strconv.ParseFloat(value, 64)
	s, err2 := strconv.ParseFloat(step, 64)
	if err1 != nil || err2 != nil || s <= 0 {
		return value
	}

	rounded := math.Round(v/s) * s
	precision := 0
	if i := strings.IndexByte(step, '.'); i >= 0 {
		precision = len(step) - i - 1
	}
	return strconv.FormatFloat(rounded, 'f', precision, 64)
}

func (c *Client) ListOpenOrders(ctx context.Context) ([]models.Order, error) {
	raw, err := c.get(ctx, "/futures/orders", nil)
	if err != nil {
		return nil, err
	}
	records, err := decodeList(raw)
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(records))
	for _, rec := range records {
		o, err := models.OrderFromRaw(rec)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (c *Client) Order(ctx context.Context, orderID string) (models.Order, error) {
	raw, err := c.get(ctx, "/futures/orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return models.Order{}, err
	}
	rec, err := decodeObject(raw)
	if err != nil {
		return models.Order{}, err
	}
	return models.OrderFromRaw(rec)
}

// OrderHistory выкачивает историю целиком той же offset/limit-разверткой,
// что и каталог; limit>0 обрезает результат на клиенте.
func (c *Client) OrderHistory(ctx context.Context, limit int) ([]models.Order, error) {
	records, err := c.sweepPages(ctx, "/futures/orders/history", nil)
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(records))
	for _, rec := range records {
		o, err := models.OrderFromRaw(rec)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	_, err := c.delete(ctx, "/futures/orders/"+url.PathEscape(orderID))
	return err
}

// CancelAllOrders снимает все открытые ордера (опционально только по
// символу); возвращает число снятых.
func (c *Client) CancelAllOrders(ctx context.Context, symbol string) (int, error) {
	orders, err := c.ListOpenOrders(ctx)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, o := range orders {
		if symbol != "" && o.Symbol != symbol {
			continue
		}
		if err := c.CancelOrder(ctx, o.OrderID); err != nil {
			return cancelled, fmt.Errorf("cancel order %s: %w", o.OrderID, err)
		}
		cancelled++
	}
	return cancelled, nil
}

// AmendOrder правит количество и/или цену открытого ордера.
func (c *Client) AmendOrder(ctx context.Context, orderID, quantity, price string) (models.Order, error) {
	body := map[string]any{}
	if quantity != "" {
		v, err := strconv.ParseFloat(quantity, 64)
		if err != nil {
			return models.Order{}, apierr.Validation("quantity must be a number, got " + strconv.Quote(quantity))
		}
		body["quantity"] = v
	}
	if price != "" {
		v, err := strconv.ParseFloat(price, 64)
		if err != nil {
			return models.Order{}, apierr.Validation("price must be a number, got " + strconv.Quote(price))
		}
		body["order_price"] = v
	}
	if len(body) == 0 {
		return models.Order{}, apierr.Validation("nothing to amend: pass quantity and/or price")
	}

	raw, err := c.patch(ctx, "/futures/orders/"+url.PathEscape(orderID), body)
	if err != nil {
		return models.Order{}, err
	}
	rec, err := decodeObject(raw)
	if err != nil {
		return models.Order{}, err
	}
	return models.OrderFromRaw(rec)
}

// sweepPages — общая offset/limit-развертка для history-эндпоинтов.
func (c *Client) sweepPages(ctx context.Context, path string, extra url.Values) ([]map[string]any, error) {
	limit := 100
	maxPages := 200

	var all []map[string]any
	for page := 0; ; page++ {
		if page >= maxPages {
			return nil, fmt.Errorf("%s sweep exceeded %d pages, refusing to continue", path, maxPages)
		}

		q := url.Values{}
		for k, vs := range extra {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		q.Set("offset", strconv.Itoa(page*limit))
		q.Set("limit", strconv.Itoa(limit))

		raw, err := c.get(ctx, path, q)
		if err != nil {
			return nil, err
		}
		records, err := decodeList(raw)
		if err != nil {
			return nil, err
		}

		all = append(all, records...)
		if len(records) < limit {
			return all, nil
		}
	}
}

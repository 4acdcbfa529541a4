package voice

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/seu-repo/clinic-assistant/internal/domain"
)

const maxListedOrders = 3

var (
	deliveredWords  = wordSet("delivered")
	futureDelivery  = regexp.MustCompile(`\b(?:be|get|being|getting)\s+delivered\b`)
	negatedDelivery = regexp.MustCompile(`\b(?:not|never|hasn't|hasnt|haven't|havent|isn't|isnt|wasn't|wasnt|didn't|didnt|yet to be)(?:\s+\S+){0,3}?\s+delivered\b`)
	recentWords     = wordSet("recent", "latest", "last")
	pendingWords    = wordSet("pending")
	spendWords      = wordSet("spent", "spend", "spending", "total", "how much")
	itemWords       = wordSet("items", "item", "products", "product", "bought")
)

// asksForDelivered is true for "my delivered order" but not for negated or
// future phrasings such as "it hasn't been delivered" or "will it be delivered".
func asksForDelivered(text string) bool {
	return deliveredWords.MatchString(text) &&
		!futureDelivery.MatchString(text) &&
		!negatedDelivery.MatchString(text)
}

func (s *synthesizer) orderStatus(text string, b *domain.ContextBundle) string {
	if len(b.Orders) == 0 {
		return "You haven't placed any orders yet. Once you do, I can track them for you."
	}

	if asksForDelivered(text) {
		if o := lastDelivered(b.Orders); o != nil {
			msg := fmt.Sprintf("Your last delivered order was %s", o.OrderNumber)
			if o.DeliveredAt != nil {
				msg += ", delivered on " + s.date(*o.DeliveredAt)
			}
			return msg + "."
		}
	}

	latest := b.LatestOrder()
	if recentWords.MatchString(text) && latest.IsTerminal() {
		return fmt.Sprintf("Your most recent order, %s, was %s.", latest.OrderNumber, statusWord(latest.Status))
	}

	if len(b.ActiveOrders) == 0 {
		return fmt.Sprintf("I'm sorry, you don't have any active orders right now. Your most recent order, %s, was %s.",
			latest.OrderNumber, statusWord(latest.Status))
	}

	lead := b.ActiveOrders[0]
	var sb strings.Builder
	sb.WriteString(s.activeStatusSentence(&lead))
	if n := lead.ItemCount(); n > 0 {
		fmt.Fprintf(&sb, " It contains %s.", countNoun(n, "item", "items"))
	}
	if n := len(b.ActiveOrders); n > 1 {
		fmt.Fprintf(&sb, " You have %d active orders in total. Would you like me to go through the rest of them?", n)
	} else {
		sb.WriteString(" It's your only active order right now.")
	}
	return sb.String()
}

func (s *synthesizer) activeStatusSentence(o *domain.Order) string {
	switch {
	case o.StatusIs(domain.OrderStatusPending):
		return fmt.Sprintf("Your order %s has been received and is waiting to be processed.", o.OrderNumber)
	case o.StatusIs(domain.OrderStatusProcessing):
		return fmt.Sprintf("Your order %s is being processed.", o.OrderNumber)
	case o.StatusIs(domain.OrderStatusPacked):
		return fmt.Sprintf("Your order %s has been packed and will ship soon.", o.OrderNumber)
	case o.StatusIs(domain.OrderStatusShipped):
		msg := fmt.Sprintf("Your order %s has been shipped and is on its way.", o.OrderNumber)
		if o.ExpectedDelivery != nil {
			msg += fmt.Sprintf(" It should arrive by %s.", s.date(*o.ExpectedDelivery))
		}
		return msg
	case o.StatusIs(domain.OrderStatusOutForDelivery):
		return fmt.Sprintf("Good news, your order %s is out for delivery and should arrive today.", o.OrderNumber)
	default:
		return fmt.Sprintf("Your order %s is currently %s.", o.OrderNumber, statusWord(o.Status))
	}
}

func (s *synthesizer) upcomingOrders(text string, b *domain.ContextBundle) string {
	orders := b.ActiveOrders
	pendingOnly := pendingWords.MatchString(text)
	if pendingOnly {
		orders = notYetShipped(orders)
	}

	if len(orders) == 0 {
		if pendingOnly {
			return "You don't have any orders waiting to ship."
		}
		return "You don't have any active orders at the moment."
	}

	listed := make([]string, 0, maxListedOrders)
	for i := range orders {
		if i == maxListedOrders {
			break
		}
		listed = append(listed, fmt.Sprintf("%s, which is %s", orders[i].OrderNumber, statusWord(orders[i].Status)))
	}

	label := countNoun(len(orders), "active order", "active orders")
	if pendingOnly {
		label = countNoun(len(orders), "order", "orders") + " waiting to ship"
	}
	msg := fmt.Sprintf("You have %s: %s.", label, joinAnd(listed))
	if extra := len(orders) - len(listed); extra > 0 {
		msg += fmt.Sprintf(" There %s %s.", noun(extra, "is", "are"), countNoun(extra, "more", "more"))
	}
	return msg
}

func (s *synthesizer) orderInfo(text string, b *domain.ContextBundle) string {
	if len(b.Orders) == 0 {
		return "You haven't placed any orders yet. When you do, I can tell you all about them."
	}
	latest := b.LatestOrder()

	switch {
	case spendWords.MatchString(text):
		var spent float64
		for i := range b.Orders {
			o := &b.Orders[i]
			if o.StatusIs(domain.OrderStatusCancelled) || o.StatusIs(domain.OrderStatusReturned) {
				continue
			}
			spent += o.Total
		}
		return fmt.Sprintf("Across your %s you've spent %s.",
			countNoun(len(b.Orders), "recent order", "recent orders"), s.money(spent))

	case itemWords.MatchString(text):
		msg := fmt.Sprintf("Your latest order, %s, contains %s", latest.OrderNumber, countNoun(latest.ItemCount(), "item", "items"))
		if names := latest.ProductNames(); len(names) > 0 {
			msg += ": " + joinAnd(names)
		}
		return msg + "."
	}

	var delivered, cancelled int
	for i := range b.Orders {
		switch {
		case b.Orders[i].StatusIs(domain.OrderStatusDelivered):
			delivered++
		case b.Orders[i].StatusIs(domain.OrderStatusCancelled), b.Orders[i].StatusIs(domain.OrderStatusReturned):
			cancelled++
		}
	}
	return fmt.Sprintf("You have %s on record: %d delivered, %d cancelled and %d in progress. Your latest was placed on %s.",
		countNoun(len(b.Orders), "order", "orders"), delivered, cancelled, len(b.ActiveOrders), s.date(latest.PlacedAt))
}

func lastDelivered(orders []domain.Order) *domain.Order {
	for i := range orders {
		if orders[i].StatusIs(domain.OrderStatusDelivered) {
			return &orders[i]
		}
	}
	return nil
}

func notYetShipped(orders []domain.Order) []domain.Order {
	var out []domain.Order
	for _, o := range orders {
		if o.StatusIs(domain.OrderStatusPending) || o.StatusIs(domain.OrderStatusProcessing) || o.StatusIs(domain.OrderStatusPacked) {
			out = append(out, o)
		}
	}
	return out
}

func statusWord(status domain.OrderStatus) string {
	w := strings.ToLower(strings.ReplaceAll(string(status), "_", " "))
	if w == "" {
		return "being processed"
	}
	return w
}

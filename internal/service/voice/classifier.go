package voice

import (
	"regexp"
	"strings"

	"github.com/seu-repo/clinic-assistant/internal/domain"
)

// Predicate reports whether a normalized utterance satisfies a rule.
type Predicate func(text string) bool

// IntentRule pairs an intent with the predicate that claims an utterance for it.
type IntentRule struct {
	Intent domain.Intent
	Match  Predicate
}

// Classifier resolves utterances through an ordered rule list. The first rule
// whose predicate matches wins; GENERAL is returned when none does.
type Classifier struct {
	rules []IntentRule
}

// NewClassifier builds a classifier over the default rule set.
func NewClassifier() *Classifier {
	return &Classifier{rules: DefaultRules()}
}

// NewClassifierWithRules is used by tests that need a reduced rule list.
func NewClassifierWithRules(rules []IntentRule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify never fails; unmatched input yields GENERAL.
func (c *Classifier) Classify(utterance string) domain.Intent {
	text := Normalize(utterance)
	if text == "" {
		return domain.IntentGeneral
	}
	for _, rule := range c.rules {
		if rule.Match(text) {
			return rule.Intent
		}
	}
	return domain.IntentGeneral
}

// Normalize lowercases, trims, folds typographic apostrophes and collapses
// whitespace.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("’", "'", "‘", "'", "`", "'").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

const (
	orderNoun   = `(order|orders|package|packages|parcel|parcels|delivery|deliveries|shipment|shipments)`
	bookingNoun = `(appointment|appointments|booking|bookings|consultation|consultations|session|sessions|visit|visits)`
	serviceNoun = `(service|services|treatment|treatments|therapy|therapies|procedure|procedures|facial|facials|consultation|consultations)`
)

var (
	orderStatusPatterns = compile(
		`\bwhere('s| is| are)\s+(my|the)\s+(\w+\s+){0,2}`+orderNoun+`\b`,
		`\btrack(ing)?\b.*\b`+orderNoun+`\b`,
		`\b`+orderNoun+`\b.*\btrack(ed|ing)?\b`,
		`\btracking\s+(number|info|information|details|link)\b`,
		`\bwhen\s+(is|will|does|do|are)\s+(my|the)\s+(\w+\s+){0,2}`+orderNoun+`\b`,
		`\bwhen\b.*\b`+orderNoun+`\b.*\b(arrive|arriving|come|coming|get here|be here|be delivered|reach|ship|shipped)\b`,
		`\b(delivery|shipping|order|package)\s+(eta|status|update|time|date|estimate)\b`,
		`\beta\b.*\b`+orderNoun+`\b`,
		`\b`+orderNoun+`\b.*\beta\b`,
		`\bstatus\s+(of|on|for)\s+(my|the)\s+(\w+\s+){0,2}`+orderNoun+`\b`,
		`\b(has|did)\s+my\s+(\w+\s+){0,2}`+orderNoun+`\s+(ship|shipped|arrive|arrived|been shipped|been delivered|left)\b`,
		`\bis\s+my\s+(\w+\s+){0,2}`+orderNoun+`\s+(on (its|the) way|shipped|out for delivery|coming|here)\b`,
	)

	upcomingBookingPatterns = compile(
		`\b(next|upcoming|future|scheduled|coming)\b.*\b`+bookingNoun+`\b`,
		`\b`+bookingNoun+`\b.*\b(coming up|scheduled|upcoming|later today|this week|next week|tomorrow|today)\b`,
		`\bwhen\s+(is|are)\s+my\s+(\w+\s+)?`+bookingNoun+`\b`,
		`\bdo\s+i\s+have\s+(an?|any)\s+`+bookingNoun+`\b`,
		`\bam\s+i\s+(booked|scheduled)\b`,
	)

	bookingHistoryPatterns = compile(
		`\b(past|previous|completed|finished|old|earlier|last|prior|recent)\b.*\b`+bookingNoun+`\b`,
		`\b`+bookingNoun+`\s+(history|records?)\b`,
		`\bhistory\s+of\s+(my\s+)?`+bookingNoun+`\b`,
		`\bhow\s+many\s+`+bookingNoun+`\b`,
		`\b`+bookingNoun+`\b.*\b(i've had|i have had|have i had|did i have|i attended|have i attended)\b`,
	)

	bookingTokens = compile(
		`\b(appointment|appointments|booking|bookings|booked|book|consultation|consultations|session|sessions|visit|visits|reschedule|rescheduling)\b`,
	)
	// A generic booking mention must not claim order, product or service talk.
	bookingExclusions = compile(
		`\b(order|orders|ordered|product|products|service|services|treatment|treatments)\b`,
	)

	upcomingOrderPatterns = compile(
		`\b(pending|active|current|open|ongoing|outstanding|undelivered|unfulfilled|in-progress|upcoming|incoming)\s+(\w+\s+)?(order|orders|purchase|purchases|deliveries|packages|shipments)\b`,
		`\b(order|orders|purchase|purchases)\b.*\b(pending|in progress|on the way|not yet delivered|not delivered|not been delivered|still coming|still processing|yet to arrive)\b`,
		`\b(any|what)\s+orders?\s+(are\s+)?(coming|on the way|arriving|pending)\b`,
		`\bdo\s+i\s+have\s+(any\s+)?orders?\b`,
	)

	orderTokens = compile(
		`\b(order|orders|ordered|purchase|purchases|purchased|bought|buy|delivery|deliveries|shipment|shipments|package|packages|parcel|parcels|spent|spend)\b`,
	)
	// A generic order mention must not claim appointment, booking or service talk.
	orderExclusions = compile(
		`\b(appointment|appointments|booking|bookings|service|services)\b`,
	)

	servicesPatterns = compile(
		`\b(what|which)\b.*\b`+serviceNoun+`\b`,
		`\b`+serviceNoun+`\b.*\b(offer|offered|offering|available|provide|do you have|do you do)\b`,
		`\b(popular|best|top|recommended|trending|favourite|favorite)\b.*\b`+serviceNoun+`\b`,
		`\b`+serviceNoun+`\b.*\b(popular|best|recommended)\b`,
		`\b`+serviceNoun+`\b.*\b(category|categories|type|types|kind|kinds|price|prices|pricing|cost|costs|menu|list|range)\b`,
		`\bhow\s+much\b.*\b`+serviceNoun+`\b`,
		`\b(price|pricing)\s+(range|list)\b`,
		`\bwhat\s+do\s+you\s+(offer|provide|do)\b`,
		`\b(list|show)\s+(me\s+)?(all\s+)?(your\s+|the\s+)?`+serviceNoun+`\b`,
		`\b(book|get|try)\s+(a|an)\s+(\w+\s+)?`+serviceNoun+`\b`,
	)

	accountPatterns = compile(
		`\b(account|profile|membership|member|tier|loyalty|subscription)\b`,
		`\bmy\s+(registered\s+)?(email|e-mail|phone|number|contact|details|name)\b`,
		`\bwho\s+am\s+i\b`,
		`\bregistered\b`,
	)

	helpPatterns = compile(
		`^(hi|hello|hey|hiya|howdy|yo|greetings|good\s+(morning|afternoon|evening))(\s+there)?[\s!.,?]*$`,
		`\bhelp\b`,
		`\bwhat\s+can\s+you\s+(do|help)\b`,
		`\bwhat\s+(do|can)\s+you\s+know\b`,
		`\bhow\s+(do|does|can)\s+(this|you|it)\s+work\b`,
		`\bcapabilit(y|ies)\b`,
		`\bwhat\s+are\s+you\b`,
	)
)

// DefaultRules returns the rule list in classification priority order. The
// position of each rule is part of the contract: overlapping vocabulary is
// resolved by order alone.
func DefaultRules() []IntentRule {
	return []IntentRule{
		{Intent: domain.IntentOrderStatus, Match: anyOf(orderStatusPatterns)},
		{Intent: domain.IntentUpcomingBookings, Match: anyOf(upcomingBookingPatterns)},
		{Intent: domain.IntentBookingHistory, Match: anyOf(bookingHistoryPatterns)},
		{Intent: domain.IntentBookingInfo, Match: allOf(anyOf(bookingTokens), not(anyOf(bookingExclusions)))},
		{Intent: domain.IntentUpcomingOrders, Match: anyOf(upcomingOrderPatterns)},
		{Intent: domain.IntentOrderInfo, Match: allOf(anyOf(orderTokens), not(anyOf(orderExclusions)))},
		{Intent: domain.IntentServicesInfo, Match: anyOf(servicesPatterns)},
		{Intent: domain.IntentAccountInfo, Match: anyOf(accountPatterns)},
		{Intent: domain.IntentHelp, Match: anyOf(helpPatterns)},
	}
}

func compile(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		patterns = append(patterns, regexp.MustCompile(expr))
	}
	return patterns
}

func anyOf(patterns []*regexp.Regexp) Predicate {
	return func(text string) bool {
		for _, p := range patterns {
			if p.MatchString(text) {
				return true
			}
		}
		return false
	}
}

func allOf(preds ...Predicate) Predicate {
	return func(text string) bool {
		for _, p := range preds {
			if !p(text) {
				return false
			}
		}
		return true
	}
}

func not(p Predicate) Predicate {
	return func(text string) bool {
		return !p(text)
	}
}

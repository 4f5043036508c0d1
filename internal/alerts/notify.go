package alerts

import (
	"fmt"
	"strings"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"edge-calculator/internal/positions"
	"edge-calculator/internal/stake"
)

// Notifier handles alert notifications
type Notifier struct {
	log      *logrus.Entry
	sent     *cache.Cache  // Dedupe alerts
	cooldown time.Duration // Minimum time between same alerts
}

// NewNotifier creates a new notifier. A cooldown of zero disables dedupe.
func NewNotifier(log *logrus.Logger, cooldown time.Duration) *Notifier {
	return &Notifier{
		log:      log.WithField("component", "alerts"),
		sent:     cache.New(cooldown, 2*cooldown),
		cooldown: cooldown,
	}
}

// checkCooldown reports whether key was alerted within the cooldown,
// recording it if not.
func (n *Notifier) checkCooldown(key string) bool {
	if n.cooldown <= 0 {
		return false
	}
	// Add fails while an unexpired entry exists.
	return n.sent.Add(key, struct{}{}, n.cooldown) != nil
}

// AlertArbitrage logs a guaranteed-profit allocation. It returns false when
// the plan has no opportunity or the same legs were alerted recently.
func (n *Notifier) AlertArbitrage(eventID string, plan stake.ArbitragePlan) bool {
	if !plan.Opportunity {
		return false
	}

	legs := make([]string, 0, len(plan.Legs))
	for _, l := range plan.Legs {
		legs = append(legs, fmt.Sprintf("%s@%s %.3f", l.Label, l.Source, l.Odds.Decimal()))
	}
	key := "arb-" + eventID + "-" + strings.Join(legs, "|")
	if n.checkCooldown(key) {
		return false
	}

	n.log.WithFields(logrus.Fields{
		"event":   eventID,
		"total":   plan.Total,
		"profit":  plan.GuaranteedProfit,
		"roi_pct": plan.ROI,
	}).Infof("ARB: %s | stake $%.2f to return $%.2f", strings.Join(legs, " vs "), plan.Bankroll, plan.Payout)
	return true
}

// AlertPositiveEV logs every staked +EV leg of a plan not alerted recently.
// It returns the number of legs logged.
func (n *Notifier) AlertPositiveEV(eventID string, plan stake.PositiveEVPlan) int {
	if plan.NoPositiveEV {
		return 0
	}

	sent := 0
	for _, leg := range plan.Legs {
		if leg.Stake <= 0 {
			continue
		}
		key := fmt.Sprintf("ev-%s-%s-%s-%.3f", eventID, leg.Label, leg.Source, leg.Odds.Decimal())
		if n.checkCooldown(key) {
			continue
		}

		n.log.WithFields(logrus.Fields{
			"event":  eventID,
			"source": leg.Source,
			"kelly":  leg.Kelly,
		}).Infof("+EV: %s %.3f | prob=%.1f%% ev=%.2f%% stake=$%.2f",
			leg.Label, leg.Odds.Decimal(), leg.FairProbability*100, leg.EV.EVPercent, leg.Stake)
		sent++
	}
	return sent
}

// AlertHedge logs a hedge opportunity on a tracked position
func (n *Notifier) AlertHedge(advice positions.HedgeAdvice) bool {
	if advice.Action != positions.ActionHedge {
		return false
	}
	key := fmt.Sprintf("hedge-%s-%.3f", advice.Position.ID, advice.HedgeDecimal)
	if n.checkCooldown(key) {
		return false
	}

	n.log.WithFields(logrus.Fields{
		"event":    advice.Position.EventID,
		"position": advice.Position.ID,
		"free_bet": advice.Position.FreeBet,
	}).Info(advice.Description)
	return true
}

// AlertFreeBetHedge logs a free bet conversion that locks in a profit. It
// returns false for a losing plan or one alerted recently.
func (n *Notifier) AlertFreeBetHedge(eventID string, plan stake.HedgePlan) bool {
	if plan.Negative {
		return false
	}
	free := plan.Stakes[stake.LabelFree]
	key := fmt.Sprintf("freebet-%s-%.2f-%.2f", eventID, free, plan.HedgeStake)
	if n.checkCooldown(key) {
		return false
	}

	n.log.WithFields(logrus.Fields{
		"event":          eventID,
		"free_stake":     free,
		"conversion_pct": plan.ConversionRate,
	}).Infof("HEDGE: free $%.2f | hedge $%.2f to lock $%.2f (%.1f%% conversion)",
		free, plan.HedgeStake, plan.GuaranteedProfit, plan.ConversionRate)
	return true
}

// LogError logs an error
func (n *Notifier) LogError(context string, err error) {
	n.log.WithError(err).Errorf("ERROR [%s]", context)
}

// CleanupOldAlerts removes expired alert records
func (n *Notifier) CleanupOldAlerts() {
	n.sent.DeleteExpired()
}

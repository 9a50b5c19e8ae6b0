package domain

import "go.uber.org/zap"

// SweepExpired closes every OPEN lot whose countdown has passed,
// announcing the winner when the lot has a highest bidder. All lots
// expiring in the same sweep are closed in one pass so the caller
// broadcasts at most once. Already-closed lots are never re-fired.
// Reports whether any lot was closed.
func SweepExpired(s *State, now int64) bool {
	changed := false
	for i := range s.Sponsorships {
		sp := &s.Sponsorships[i]
		if sp.Status != StatusOpen || sp.EndTime == nil || now < *sp.EndTime {
			continue
		}
		sp.Status = StatusAlloted
		if sp.CurrentHighestBidder != "" {
			s.WinnerModal = &WinnerModal{
				SponsorshipName: sp.Name,
				Winner:          sp.CurrentHighestBidder,
				WinnerCompany:   sp.CurrentHighestBidderCompany,
				Amount:          sp.CurrentHighestBid,
			}
		}
		changed = true
		log.Info("auction auto-allotted on timer expiry",
			zap.String("sponsorshipID", sp.ID),
			zap.String("name", sp.Name),
			zap.String("winner", sp.CurrentHighestBidder),
			zap.Float64("amount", sp.CurrentHighestBid),
		)
	}
	return changed
}

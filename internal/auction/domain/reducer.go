package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sponsorhub/bidengine/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Apply runs one action against the snapshot and reports whether the
// snapshot changed. Callers must hold exclusive access to the state;
// the coordinator serializes all Apply calls on a single goroutine.
// now is the current wall-clock time in unix millis.
func Apply(s *State, a Action, now int64) bool {
	if a == nil {
		return false
	}
	return a.apply(s, now)
}

const millisPerMinute = 60_000

func newID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}

func (a *CreateUser) apply(s *State, _ int64) bool {
	u := a.User
	u.ID = newID("user")
	if u.Role == "" {
		u.Role = RoleUser
	}
	// Username uniqueness is the submitting client's responsibility.
	s.Users = append(s.Users, u)
	return true
}

func (a *DeleteUser) apply(s *State, _ int64) bool {
	// Hard delete, no cascade: bids keep their denormalized name strings.
	for i := range s.Users {
		if s.Users[i].ID == a.UserID {
			s.Users = append(s.Users[:i], s.Users[i+1:]...)
			return true
		}
	}
	return false
}

func (a *UpdateUserRole) apply(s *State, _ int64) bool {
	u := s.findUser(a.UserID)
	if u == nil || u.Role == a.Role {
		return false
	}
	u.Role = a.Role
	return true
}

func (a *CreateSponsorship) apply(s *State, _ int64) bool {
	sp := a.Sponsorship
	sp.ID = newID("sp")
	sp.Status = StatusUpcoming
	sp.StartTime = nil
	sp.EndTime = nil
	sp.CurrentHighestBid = 0
	sp.CurrentHighestBidder = ""
	sp.CurrentHighestBidderCompany = ""
	sp.Bids = []Bid{}
	s.Sponsorships = append(s.Sponsorships, sp)
	return true
}

func (a *StartAuction) apply(s *State, now int64) bool {
	sp := s.findSponsorship(a.SponsorshipID)
	if sp == nil {
		return false
	}
	if sp.Status != StatusUpcoming && sp.Status != StatusRejected {
		return false
	}
	end := now + int64(sp.DurationMinutes)*millisPerMinute
	sp.Status = StatusOpen
	sp.StartTime = &now
	sp.EndTime = &end
	log.Info("auction started",
		zap.String("sponsorshipID", sp.ID),
		zap.String("name", sp.Name),
		zap.Int64("endTime", end),
	)
	return true
}

func (a *RejectAuction) apply(s *State, _ int64) bool {
	sp := s.findSponsorship(a.SponsorshipID)
	if sp == nil || sp.Status == StatusRejected {
		return false
	}
	// An OPEN lot can be halted this way too.
	sp.Status = StatusRejected
	return true
}

func (a *ReopenAuction) apply(s *State, _ int64) bool {
	sp := s.findSponsorship(a.SponsorshipID)
	if sp == nil {
		return false
	}
	changed := sp.Status != StatusUpcoming || sp.StartTime != nil || sp.EndTime != nil
	// Bids and the current highest bid are intentionally preserved: a
	// reopened lot keeps its history and can resume from the prior high.
	sp.Status = StatusUpcoming
	sp.StartTime = nil
	sp.EndTime = nil
	return changed
}

func (a *AllotAuction) apply(s *State, _ int64) bool {
	sp := s.findSponsorship(a.SponsorshipID)
	if sp == nil || sp.Status == StatusAlloted {
		return false
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
	return true
}

func (a *PlaceBid) apply(s *State, now int64) bool {
	sp := s.findSponsorship(a.SponsorshipID)
	if sp == nil {
		return false
	}

	bidder, company := a.Bidder, a.BidderCompany
	if a.ActingAs != nil {
		bidder, company = a.ActingAs.OwnerName, a.ActingAs.CompanyName
	}

	bid := Bid{
		ID:              newID("bid"),
		SponsorshipID:   sp.ID,
		Amount:          a.BidAmount,
		Bidder:          bidder,
		BidderCompany:   company,
		SponsorshipName: sp.Name,
		Timestamp:       now,
	}

	if !a.BypassApproval {
		// Held for moderation; the lot's standing is untouched until an
		// admin approves.
		s.PendingBids = append(s.PendingBids, bid)
		log.Info("bid queued for approval",
			zap.String("bidID", bid.ID),
			zap.String("sponsorshipID", sp.ID),
			zap.Float64("amount", bid.Amount),
		)
		return true
	}

	s.acceptBid(sp, bid, now)
	return true
}

func (a *ApproveBid) apply(s *State, now int64) bool {
	var bid Bid
	found := false
	for i := range s.PendingBids {
		if s.PendingBids[i].ID == a.BidID {
			bid = s.PendingBids[i]
			s.PendingBids = append(s.PendingBids[:i], s.PendingBids[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false
	}

	sp := s.findSponsorship(bid.SponsorshipID)
	if sp == nil {
		// Lot no longer exists; the bid is dequeued and dropped.
		return true
	}

	floor := sp.CurrentHighestBid
	if floor == 0 {
		floor = sp.BasePrice
	}
	if bid.Amount < floor {
		// Stale: a higher bid was applied first. The bid stays dequeued
		// but has no effect; the next broadcast reveals the no-op.
		log.Warn("stale pending bid dropped on approval",
			zap.String("bidID", bid.ID),
			zap.Float64("amount", bid.Amount),
			zap.Float64("floor", floor),
		)
		return true
	}

	s.acceptBid(sp, bid, now)
	return true
}

func (a *RejectBid) apply(s *State, _ int64) bool {
	for i := range s.PendingBids {
		if s.PendingBids[i].ID == a.BidID {
			s.PendingBids = append(s.PendingBids[:i], s.PendingBids[i+1:]...)
			return true
		}
	}
	return false
}

// acceptBid applies an accepted bid to its lot: new highest, full
// countdown restart (every accepted bid re-arms the timer, not just
// late ones), and prepends to both the lot's bid list and the global
// recent-bids feed.
func (s *State) acceptBid(sp *Sponsorship, bid Bid, now int64) {
	sp.CurrentHighestBid = bid.Amount
	sp.CurrentHighestBidder = bid.Bidder
	sp.CurrentHighestBidderCompany = bid.BidderCompany
	end := now + int64(sp.DurationMinutes)*millisPerMinute
	sp.EndTime = &end

	sp.Bids = append([]Bid{bid}, sp.Bids...)
	s.RecentBids = append([]Bid{bid}, s.RecentBids...)
	if len(s.RecentBids) > RecentBidsCap {
		s.RecentBids = s.RecentBids[:RecentBidsCap]
	}

	log.Info("bid accepted",
		zap.String("bidID", bid.ID),
		zap.String("sponsorshipID", sp.ID),
		zap.String("bidder", bid.Bidder),
		zap.Float64("amount", bid.Amount),
		zap.Int64("newEndTime", end),
	)
}

func (a *ShowWinnerModal) apply(s *State, _ int64) bool {
	data := a.Data
	s.WinnerModal = &data
	return true
}

func (a *CloseWinnerModal) apply(s *State, _ int64) bool {
	if s.WinnerModal == nil {
		return false
	}
	s.WinnerModal = nil
	return true
}

func (a *ExtendTimer) apply(s *State, _ int64) bool {
	sp := s.findSponsorship(a.SponsorshipID)
	if sp == nil || sp.EndTime == nil || a.Minutes == 0 {
		return false
	}
	end := *sp.EndTime + int64(a.Minutes)*millisPerMinute
	sp.EndTime = &end
	return true
}

func (a *UpdateDuration) apply(s *State, _ int64) bool {
	sp := s.findSponsorship(a.SponsorshipID)
	if sp == nil || sp.DurationMinutes == a.Minutes {
		return false
	}
	// Affects future countdown resets only, never the armed endTime.
	sp.DurationMinutes = a.Minutes
	return true
}

func (a *TeamSetPrice) apply(s *State, _ int64) bool {
	if s.TeamAuction.CurrentPrice == a.Price {
		return false
	}
	s.TeamAuction.CurrentPrice = a.Price
	return true
}

func (a *TeamStartRound) apply(s *State, _ int64) bool {
	t := &s.TeamAuction
	t.Status = TeamRoundActive
	t.InterestedBidders = []User{}
	if a.NewRound {
		t.RoundNumber++
	}
	if a.Price > 0 {
		t.CurrentPrice = a.Price
	}
	return true
}

func (a *TeamStopRound) apply(s *State, _ int64) bool {
	t := &s.TeamAuction
	if t.Status != TeamRoundActive {
		return false
	}
	t.Status = TeamRoundStopped
	t.History = append(t.History, RoundSummary{
		Round:           t.RoundNumber,
		Price:           t.CurrentPrice,
		InterestedCount: len(t.InterestedBidders),
	})
	return true
}

func (a *TeamToggleInterest) apply(s *State, _ int64) bool {
	target := a.User
	if a.TargetUser != nil {
		// Supporter toggling on behalf of a sponsor.
		target = a.TargetUser
	}
	if target == nil {
		return false
	}

	t := &s.TeamAuction
	for i := range t.InterestedBidders {
		if t.InterestedBidders[i].ID == target.ID {
			t.InterestedBidders = append(t.InterestedBidders[:i], t.InterestedBidders[i+1:]...)
			return true
		}
	}
	t.InterestedBidders = append(t.InterestedBidders, *target)
	return true
}

func (a *TeamFinalizeWinners) apply(s *State, _ int64) bool {
	t := &s.TeamAuction
	t.Status = TeamAssigning
	t.Winners = append([]User{}, t.InterestedBidders...)
	return true
}

func (a *TeamSaveAssignments) apply(s *State, _ int64) bool {
	s.TeamAuction.Assignments = a.Assignments
	return true
}

func (a *TeamAnnounce) apply(s *State, _ int64) bool {
	if s.TeamAuction.Status == TeamInauguration {
		return false
	}
	s.TeamAuction.Status = TeamInauguration
	return true
}

func (a *TeamReset) apply(s *State, _ int64) bool {
	s.TeamAuction = defaultTeamAuction()
	return true
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const baseNow = int64(1_700_000_000_000)

func openLot(t *testing.T, s *State, id string) *Sponsorship {
	t.Helper()
	require.True(t, Apply(s, &StartAuction{SponsorshipID: id}, baseNow))
	sp := s.findSponsorship(id)
	require.NotNil(t, sp)
	require.Equal(t, StatusOpen, sp.Status)
	return sp
}

func TestCreateUser(t *testing.T) {
	s := NewDefaultState()
	before := len(s.Users)

	changed := Apply(s, &CreateUser{User: User{
		Username:    "new_sponsor",
		Password:    "pass123",
		CompanyName: "New Sponsor Ltd",
		OwnerName:   "Anil Deshmukh",
	}}, baseNow)

	require.True(t, changed)
	require.Len(t, s.Users, before+1)
	created := s.Users[len(s.Users)-1]
	require.NotEmpty(t, created.ID)
	require.Equal(t, RoleUser, created.Role, "role defaults to user when unspecified")
}

func TestDeleteUser(t *testing.T) {
	s := NewDefaultState()

	require.True(t, Apply(s, &DeleteUser{UserID: "user3"}, baseNow))
	require.Nil(t, s.findUser("user3"))

	require.False(t, Apply(s, &DeleteUser{UserID: "user3"}, baseNow),
		"deleting a missing user reports no change")
}

func TestDeleteUserKeepsDenormalizedBidNames(t *testing.T) {
	s := NewDefaultState()
	openLot(t, s, "sp1")
	require.True(t, Apply(s, &PlaceBid{
		SponsorshipID:  "sp1",
		BidAmount:      600000,
		Bidder:         "Ramesh Patil",
		BidderCompany:  "Krishna Motors Pvt Ltd",
		BypassApproval: true,
	}, baseNow))

	require.True(t, Apply(s, &DeleteUser{UserID: "user1"}, baseNow))

	sp := s.findSponsorship("sp1")
	require.Equal(t, "Ramesh Patil", sp.Bids[0].Bidder)
	require.Equal(t, "Krishna Motors Pvt Ltd", sp.CurrentHighestBidderCompany)
}

func TestUpdateUserRole(t *testing.T) {
	s := NewDefaultState()

	require.True(t, Apply(s, &UpdateUserRole{UserID: "user2", Role: RoleSupporter}, baseNow))
	require.Equal(t, RoleSupporter, s.findUser("user2").Role)

	require.False(t, Apply(s, &UpdateUserRole{UserID: "user2", Role: RoleSupporter}, baseNow),
		"setting the same role reports no change")
	require.False(t, Apply(s, &UpdateUserRole{UserID: "nope", Role: RoleUser}, baseNow))
}

func TestCreateSponsorshipZeroesBidState(t *testing.T) {
	s := NewDefaultState()

	changed := Apply(s, &CreateSponsorship{Sponsorship: Sponsorship{
		Name:            "Trophy Sponsor",
		Description:     "Branding on the winners trophy",
		BasePrice:       100000,
		DurationMinutes: 5,
		// Hostile/confused clients may send preset bid state; it is zeroed.
		CurrentHighestBid:    999999,
		CurrentHighestBidder: "nobody",
		Status:               StatusOpen,
	}}, baseNow)

	require.True(t, changed)
	sp := s.Sponsorships[len(s.Sponsorships)-1]
	require.Equal(t, StatusUpcoming, sp.Status)
	require.Zero(t, sp.CurrentHighestBid)
	require.Empty(t, sp.CurrentHighestBidder)
	require.Nil(t, sp.StartTime)
	require.Nil(t, sp.EndTime)
	require.Empty(t, sp.Bids)
}

func TestStartAuctionTransitions(t *testing.T) {
	tests := []struct {
		name    string
		prep    func(s *State)
		lotID   string
		changed bool
	}{
		{"upcoming lot opens", func(s *State) {}, "sp1", true},
		{"rejected lot resumes", func(s *State) {
			Apply(s, &RejectAuction{SponsorshipID: "sp1"}, baseNow)
		}, "sp1", true},
		{"open lot is not restarted", func(s *State) {
			Apply(s, &StartAuction{SponsorshipID: "sp1"}, baseNow)
		}, "sp1", false},
		{"alloted lot is not restarted", func(s *State) {
			Apply(s, &AllotAuction{SponsorshipID: "sp1"}, baseNow)
		}, "sp1", false},
		{"missing lot is a no-op", func(s *State) {}, "ghost", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewDefaultState()
			tt.prep(s)
			require.Equal(t, tt.changed, Apply(s, &StartAuction{SponsorshipID: tt.lotID}, baseNow))
		})
	}
}

func TestStartAuctionArmsTimer(t *testing.T) {
	s := NewDefaultState()
	sp := openLot(t, s, "sp1") // durationMinutes 10

	require.NotNil(t, sp.StartTime)
	require.Equal(t, baseNow, *sp.StartTime)
	require.NotNil(t, sp.EndTime)
	require.Equal(t, baseNow+10*60_000, *sp.EndTime)
}

func TestRejectAuctionHaltsOpenLot(t *testing.T) {
	s := NewDefaultState()
	openLot(t, s, "sp1")

	require.True(t, Apply(s, &RejectAuction{SponsorshipID: "sp1"}, baseNow))
	require.Equal(t, StatusRejected, s.findSponsorship("sp1").Status)

	require.False(t, Apply(s, &RejectAuction{SponsorshipID: "sp1"}, baseNow))
}

func TestReopenPreservesBids(t *testing.T) {
	s := NewDefaultState()
	openLot(t, s, "sp1")
	for i := 0; i < 5; i++ {
		require.True(t, Apply(s, &PlaceBid{
			SponsorshipID:  "sp1",
			BidAmount:      float64(210000 + i*10000),
			Bidder:         "Vijay Nikam",
			BidderCompany:  "Shivaji Traders & Co",
			BypassApproval: true,
		}, baseNow+int64(i)))
	}
	require.True(t, Apply(s, &AllotAuction{SponsorshipID: "sp1"}, baseNow))

	require.True(t, Apply(s, &ReopenAuction{SponsorshipID: "sp1"}, baseNow))

	sp := s.findSponsorship("sp1")
	require.Equal(t, StatusUpcoming, sp.Status)
	require.Nil(t, sp.StartTime)
	require.Nil(t, sp.EndTime)
	require.Len(t, sp.Bids, 5)
	require.Equal(t, float64(250000), sp.CurrentHighestBid)
	require.Equal(t, "Vijay Nikam", sp.CurrentHighestBidder)
}

func TestMonotonicHighestBid(t *testing.T) {
	s := NewDefaultState()
	sp := openLot(t, s, "sp3")

	amounts := []float64{260000, 275000, 275000, 310000, 450000}
	prev := float64(0)
	for i, amt := range amounts {
		require.True(t, Apply(s, &PlaceBid{
			SponsorshipID:  "sp3",
			BidAmount:      amt,
			Bidder:         "Santosh More",
			BidderCompany:  "Mauli Enterprises",
			BypassApproval: true,
		}, baseNow+int64(i)*1000))
		require.GreaterOrEqual(t, sp.CurrentHighestBid, prev)
		prev = sp.CurrentHighestBid
	}
	require.Equal(t, float64(450000), sp.CurrentHighestBid)
	require.Len(t, sp.Bids, 5)
	require.Equal(t, float64(450000), sp.Bids[0].Amount, "lot bids are newest-first")
}

func TestAcceptedBidResetsTimerOverridingExtension(t *testing.T) {
	s := NewDefaultState()
	sp := openLot(t, s, "sp3") // durationMinutes 5

	require.True(t, Apply(s, &ExtendTimer{SponsorshipID: "sp3", Minutes: 30}, baseNow))
	require.Equal(t, baseNow+35*60_000, *sp.EndTime)

	bidAt := baseNow + 2*60_000
	require.True(t, Apply(s, &PlaceBid{
		SponsorshipID:  "sp3",
		BidAmount:      260000,
		Bidder:         "Santosh More",
		BidderCompany:  "Mauli Enterprises",
		BypassApproval: true,
	}, bidAt))

	require.Equal(t, bidAt+5*60_000, *sp.EndTime,
		"accepted bid restarts the full countdown, discarding the extension")
}

func TestPlaceBidActingAsCreditsSponsor(t *testing.T) {
	s := NewDefaultState()
	sp := openLot(t, s, "sp1")

	require.True(t, Apply(s, &PlaceBid{
		SponsorshipID: "sp1",
		BidAmount:     550000,
		ActingAs: &ActingAs{
			OwnerName:   "Dinesh Chaudhari",
			CompanyName: "Samarth Group of Companies",
		},
		BypassApproval: true,
	}, baseNow))

	require.Equal(t, "Dinesh Chaudhari", sp.CurrentHighestBidder)
	require.Equal(t, "Samarth Group of Companies", sp.CurrentHighestBidderCompany)
	require.Equal(t, "Dinesh Chaudhari", sp.Bids[0].Bidder)
}

func TestPendingBidIsolation(t *testing.T) {
	s := NewDefaultState()
	sp := openLot(t, s, "sp1")
	endBefore := *sp.EndTime

	require.True(t, Apply(s, &PlaceBid{
		SponsorshipID: "sp1",
		BidAmount:     600000,
		Bidder:        "Ramesh Patil",
		BidderCompany: "Krishna Motors Pvt Ltd",
	}, baseNow+1000))

	require.Len(t, s.PendingBids, 1)
	require.Equal(t, "Opening Ceremony Title Sponsor", s.PendingBids[0].SponsorshipName)
	require.Zero(t, sp.CurrentHighestBid)
	require.Empty(t, sp.Bids)
	require.Empty(t, s.RecentBids)
	require.Equal(t, endBefore, *sp.EndTime, "pending bid must not touch the countdown")
}

func TestPlaceBidMissingLot(t *testing.T) {
	s := NewDefaultState()
	require.False(t, Apply(s, &PlaceBid{SponsorshipID: "ghost", BidAmount: 100, BypassApproval: true}, baseNow))
	require.Empty(t, s.PendingBids)
}

func TestApprovalQueueScenario(t *testing.T) {
	s := NewDefaultState()
	sp := openLot(t, s, "sp1")
	require.True(t, Apply(s, &PlaceBid{
		SponsorshipID:  "sp1",
		BidAmount:      550000,
		Bidder:         "Ramesh Patil",
		BidderCompany:  "Krishna Motors Pvt Ltd",
		BypassApproval: true,
	}, baseNow))

	require.True(t, Apply(s, &PlaceBid{
		SponsorshipID: "sp1",
		BidAmount:     600000,
		Bidder:        "Vijay Nikam",
		BidderCompany: "Shivaji Traders & Co",
	}, baseNow+1000))
	require.Len(t, s.PendingBids, 1)
	require.Equal(t, float64(550000), sp.CurrentHighestBid)

	require.True(t, Apply(s, &ApproveBid{BidID: s.PendingBids[0].ID}, baseNow+2000))
	require.Empty(t, s.PendingBids)
	require.Equal(t, float64(600000), sp.CurrentHighestBid)
	require.Equal(t, float64(600000), s.RecentBids[0].Amount)
}

func TestApprovalRevalidation(t *testing.T) {
	s := NewDefaultState()
	sp := openLot(t, s, "sp1")
	require.True(t, Apply(s, &PlaceBid{
		SponsorshipID:  "sp1",
		BidAmount:      100000,
		Bidder:         "Ramesh Patil",
		BidderCompany:  "Krishna Motors Pvt Ltd",
		BypassApproval: true,
	}, baseNow))

	low := &PlaceBid{SponsorshipID: "sp1", BidAmount: 90000, Bidder: "Santosh More", BidderCompany: "Mauli Enterprises"}
	high := &PlaceBid{SponsorshipID: "sp1", BidAmount: 120000, Bidder: "Vijay Nikam", BidderCompany: "Shivaji Traders & Co"}
	require.True(t, Apply(s, low, baseNow+1000))
	require.True(t, Apply(s, high, baseNow+2000))
	require.Len(t, s.PendingBids, 2)
	lowID, highID := s.PendingBids[0].ID, s.PendingBids[1].ID

	// The stale bid is dequeued but silently has no effect.
	require.True(t, Apply(s, &ApproveBid{BidID: lowID}, baseNow+3000))
	require.Len(t, s.PendingBids, 1)
	require.Equal(t, float64(100000), sp.CurrentHighestBid)
	require.Len(t, s.RecentBids, 1, "stale bid never reaches the feed")

	require.True(t, Apply(s, &ApproveBid{BidID: highID}, baseNow+4000))
	require.Empty(t, s.PendingBids)
	require.Equal(t, float64(120000), sp.CurrentHighestBid)
}

func TestApprovalUsesBasePriceFloorWhenNoBids(t *testing.T) {
	s := NewDefaultState()
	sp := openLot(t, s, "sp4") // basePrice 150000

	require.True(t, Apply(s, &PlaceBid{
		SponsorshipID: "sp4", BidAmount: 140000,
		Bidder: "Pravin Sonawane", BidderCompany: "Jai Hind Industries",
	}, baseNow))
	require.True(t, Apply(s, &ApproveBid{BidID: s.PendingBids[0].ID}, baseNow+1000))
	require.Zero(t, sp.CurrentHighestBid, "below base price is stale against the floor")

	require.True(t, Apply(s, &PlaceBid{
		SponsorshipID: "sp4", BidAmount: 150000,
		Bidder: "Pravin Sonawane", BidderCompany: "Jai Hind Industries",
	}, baseNow+2000))
	require.True(t, Apply(s, &ApproveBid{BidID: s.PendingBids[0].ID}, baseNow+3000))
	require.Equal(t, float64(150000), sp.CurrentHighestBid, "bid equal to base price clears the floor")
}

func TestApproveBidUnknownID(t *testing.T) {
	s := NewDefaultState()
	require.False(t, Apply(s, &ApproveBid{BidID: "ghost"}, baseNow))
}

func TestRejectBid(t *testing.T) {
	s := NewDefaultState()
	sp := openLot(t, s, "sp1")
	require.True(t, Apply(s, &PlaceBid{
		SponsorshipID: "sp1", BidAmount: 600000,
		Bidder: "Ramesh Patil", BidderCompany: "Krishna Motors Pvt Ltd",
	}, baseNow))

	require.True(t, Apply(s, &RejectBid{BidID: s.PendingBids[0].ID}, baseNow))
	require.Empty(t, s.PendingBids)
	require.Zero(t, sp.CurrentHighestBid)

	require.False(t, Apply(s, &RejectBid{BidID: "ghost"}, baseNow))
}

func TestRecentBidsFeedIsCapped(t *testing.T) {
	s := NewDefaultState()
	openLot(t, s, "sp1")

	for i := 0; i < RecentBidsCap+10; i++ {
		require.True(t, Apply(s, &PlaceBid{
			SponsorshipID:  "sp1",
			BidAmount:      float64(500000 + i),
			Bidder:         "Ramesh Patil",
			BidderCompany:  "Krishna Motors Pvt Ltd",
			BypassApproval: true,
		}, baseNow+int64(i)))
	}

	require.Len(t, s.RecentBids, RecentBidsCap)
	require.Equal(t, float64(500000+RecentBidsCap+9), s.RecentBids[0].Amount,
		"feed keeps the newest bids, newest-first")
}

func TestAllotAuctionAnnouncesWinner(t *testing.T) {
	s := NewDefaultState()
	openLot(t, s, "sp1")
	require.True(t, Apply(s, &PlaceBid{
		SponsorshipID:  "sp1",
		BidAmount:      550000,
		Bidder:         "Ramesh Patil",
		BidderCompany:  "Krishna Motors Pvt Ltd",
		BypassApproval: true,
	}, baseNow))

	require.True(t, Apply(s, &AllotAuction{SponsorshipID: "sp1"}, baseNow))
	require.Equal(t, StatusAlloted, s.findSponsorship("sp1").Status)
	require.NotNil(t, s.WinnerModal)
	require.Equal(t, "Ramesh Patil", s.WinnerModal.Winner)
	require.Equal(t, float64(550000), s.WinnerModal.Amount)

	require.False(t, Apply(s, &AllotAuction{SponsorshipID: "sp1"}, baseNow),
		"re-allotting an alloted lot reports no change")
}

func TestAllotAuctionWithoutBidderSkipsModal(t *testing.T) {
	s := NewDefaultState()
	openLot(t, s, "sp2")

	require.True(t, Apply(s, &AllotAuction{SponsorshipID: "sp2"}, baseNow))
	require.Nil(t, s.WinnerModal)
}

func TestWinnerModalShowAndClose(t *testing.T) {
	s := NewDefaultState()

	require.True(t, Apply(s, &ShowWinnerModal{Data: WinnerModal{
		SponsorshipName: "Opening Ceremony Title Sponsor",
		Winner:          "Ramesh Patil",
		WinnerCompany:   "Krishna Motors Pvt Ltd",
		Amount:          550000,
	}}, baseNow))
	require.NotNil(t, s.WinnerModal)

	require.True(t, Apply(s, &CloseWinnerModal{}, baseNow))
	require.Nil(t, s.WinnerModal)
	require.False(t, Apply(s, &CloseWinnerModal{}, baseNow))
}

func TestExtendTimer(t *testing.T) {
	s := NewDefaultState()

	require.False(t, Apply(s, &ExtendTimer{SponsorshipID: "sp1", Minutes: 5}, baseNow),
		"a lot with no armed countdown cannot be extended")

	sp := openLot(t, s, "sp1")
	end := *sp.EndTime
	require.True(t, Apply(s, &ExtendTimer{SponsorshipID: "sp1", Minutes: 5}, baseNow))
	require.Equal(t, end+5*60_000, *sp.EndTime)
}

func TestUpdateDurationAffectsFutureResetsOnly(t *testing.T) {
	s := NewDefaultState()
	sp := openLot(t, s, "sp3") // durationMinutes 5
	end := *sp.EndTime

	require.True(t, Apply(s, &UpdateDuration{SponsorshipID: "sp3", Minutes: 2}, baseNow))
	require.Equal(t, end, *sp.EndTime, "armed countdown is not retroactively changed")

	bidAt := baseNow + 1000
	require.True(t, Apply(s, &PlaceBid{
		SponsorshipID:  "sp3",
		BidAmount:      260000,
		Bidder:         "Santosh More",
		BidderCompany:  "Mauli Enterprises",
		BypassApproval: true,
	}, bidAt))
	require.Equal(t, bidAt+2*60_000, *sp.EndTime, "next reset uses the new duration")
}

func TestHappyPathScenario(t *testing.T) {
	s := NewDefaultState()

	require.True(t, Apply(s, &CreateSponsorship{Sponsorship: Sponsorship{
		Name:            "Title Sponsor",
		BasePrice:       500000,
		DurationMinutes: 5,
	}}, baseNow))
	lotID := s.Sponsorships[len(s.Sponsorships)-1].ID

	require.True(t, Apply(s, &StartAuction{SponsorshipID: lotID}, baseNow))
	require.True(t, Apply(s, &PlaceBid{
		SponsorshipID:  lotID,
		BidAmount:      550000,
		Bidder:         "Ramesh Patil",
		BidderCompany:  "Krishna Motors Pvt Ltd",
		BypassApproval: true,
	}, baseNow))

	sp := s.findSponsorship(lotID)
	require.Equal(t, StatusOpen, sp.Status)
	require.Equal(t, float64(550000), sp.CurrentHighestBid)
	require.Equal(t, baseNow+5*60_000, *sp.EndTime)

	require.True(t, SweepExpired(s, *sp.EndTime))
	require.Equal(t, StatusAlloted, sp.Status)
	require.NotNil(t, s.WinnerModal)
	require.Equal(t, float64(550000), s.WinnerModal.Amount)
}

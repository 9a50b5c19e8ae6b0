package domain

import (
	"encoding/json"
	"fmt"
)

// Action is the closed set of commands the coordinator accepts. Each
// variant carries exactly the fields its handler reads and applies
// itself to the snapshot, reporting whether anything changed. The
// unexported method keeps the union closed to this package.
type Action interface {
	apply(s *State, now int64) bool
}

// ActingAs identifies the sponsor a supporter bids on behalf of. The
// wire value is a full user object; only these fields matter here.
type ActingAs struct {
	OwnerName   string `json:"ownerName"`
	CompanyName string `json:"companyName"`
}

type CreateUser struct {
	User User `json:"user"`
}

type DeleteUser struct {
	UserID string `json:"userId"`
}

type UpdateUserRole struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}

type CreateSponsorship struct {
	Sponsorship Sponsorship `json:"sponsorship"`
}

type StartAuction struct {
	SponsorshipID string `json:"sponsorshipId"`
}

type RejectAuction struct {
	SponsorshipID string `json:"sponsorshipId"`
}

type ReopenAuction struct {
	SponsorshipID string `json:"sponsorshipId"`
}

type AllotAuction struct {
	SponsorshipID string `json:"sponsorshipId"`
}

type PlaceBid struct {
	SponsorshipID  string    `json:"sponsorshipId"`
	BidAmount      float64   `json:"bidAmount"`
	Bidder         string    `json:"bidder"`
	BidderCompany  string    `json:"bidderCompany"`
	ActingAs       *ActingAs `json:"actingAs"`
	BypassApproval bool      `json:"bypassApproval"`
}

type ApproveBid struct {
	BidID string `json:"bidId"`
}

type RejectBid struct {
	BidID string `json:"bidId"`
}

type ShowWinnerModal struct {
	Data WinnerModal `json:"data"`
}

type CloseWinnerModal struct{}

type ExtendTimer struct {
	SponsorshipID string `json:"sponsorshipId"`
	Minutes       int    `json:"minutes"`
}

type UpdateDuration struct {
	SponsorshipID string `json:"sponsorshipId"`
	Minutes       int    `json:"minutes"`
}

type TeamSetPrice struct {
	Price float64 `json:"price"`
}

type TeamStartRound struct {
	Price    float64 `json:"price"`
	NewRound bool    `json:"newRound"`
}

type TeamStopRound struct{}

type TeamToggleInterest struct {
	User       *User `json:"user"`
	TargetUser *User `json:"targetUser"`
}

type TeamFinalizeWinners struct{}

type TeamSaveAssignments struct {
	Assignments []TeamAssignment `json:"assignments"`
}

type TeamAnnounce struct{}

type TeamReset struct{}

// DecodeAction parses an inbound `{type, ...fields}` message into its
// action variant. Unknown types are rejected here rather than silently
// applied as no-ops downstream.
func DecodeAction(data []byte) (Action, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMessage, err)
	}

	var a Action
	switch env.Type {
	case "CREATE_USER":
		a = &CreateUser{}
	case "DELETE_USER":
		a = &DeleteUser{}
	case "UPDATE_USER_ROLE":
		a = &UpdateUserRole{}
	case "CREATE_SPONSORSHIP":
		a = &CreateSponsorship{}
	case "START_AUCTION":
		a = &StartAuction{}
	case "REJECT_AUCTION":
		a = &RejectAuction{}
	case "REOPEN_AUCTION":
		a = &ReopenAuction{}
	case "ALLOT_AUCTION":
		a = &AllotAuction{}
	case "PLACE_BID":
		a = &PlaceBid{}
	case "APPROVE_BID":
		a = &ApproveBid{}
	case "REJECT_BID":
		a = &RejectBid{}
	case "SHOW_WINNER_MODAL":
		a = &ShowWinnerModal{}
	case "CLOSE_WINNER_MODAL":
		a = &CloseWinnerModal{}
	case "EXTEND_TIMER":
		a = &ExtendTimer{}
	case "UPDATE_DURATION":
		a = &UpdateDuration{}
	case "TEAM_SET_PRICE":
		a = &TeamSetPrice{}
	case "TEAM_START_ROUND":
		a = &TeamStartRound{}
	case "TEAM_STOP_ROUND":
		a = &TeamStopRound{}
	case "TEAM_TOGGLE_INTEREST":
		a = &TeamToggleInterest{}
	case "TEAM_FINALIZE_WINNERS":
		a = &TeamFinalizeWinners{}
	case "TEAM_SAVE_ASSIGNMENTS":
		a = &TeamSaveAssignments{}
	case "TEAM_ANNOUNCE":
		a = &TeamAnnounce{}
	case "TEAM_RESET":
		a = &TeamReset{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, env.Type)
	}

	if err := json.Unmarshal(data, a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	return a, nil
}

package domain

// Role is the permission level asserted by a connected client.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleUser      Role = "user" // sponsor / bidder
	RoleSupporter Role = "supporter"
	RoleDashboard Role = "dashboard"
)

// LotStatus represents the lifecycle state of a sponsorship lot.
type LotStatus string

const (
	StatusUpcoming LotStatus = "UPCOMING"
	StatusOpen     LotStatus = "OPEN"
	StatusAlloted  LotStatus = "ALLOTED"
	StatusRejected LotStatus = "REJECTED"
)

// TeamStatus represents the phase of the uniform-price team round.
type TeamStatus string

const (
	TeamNotStarted   TeamStatus = "NOT_STARTED"
	TeamRoundActive  TeamStatus = "ROUND_ACTIVE"
	TeamRoundStopped TeamStatus = "ROUND_STOPPED"
	TeamAssigning    TeamStatus = "ASSIGNING"
	TeamInauguration TeamStatus = "INAUGURATION"
)

// User is an account in the shared snapshot. Credentials are stored and
// compared in plaintext; see DESIGN.md, this is only acceptable for a
// closed trusted deployment.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	Role         Role   `json:"role"`
	CompanyName  string `json:"companyName"`
	VillageName  string `json:"villageName"`
	OwnerName    string `json:"ownerName"`
	MobileNumber string `json:"mobileNumber"`
}

// Bid is immutable once accepted. Bidder, company and sponsorship names
// are denormalized at creation time so that later renames do not rewrite
// bidding history.
type Bid struct {
	ID              string  `json:"id"`
	SponsorshipID   string  `json:"sponsorshipId"`
	Amount          float64 `json:"amount"`
	Bidder          string  `json:"bidder"`
	BidderCompany   string  `json:"bidderCompany"`
	SponsorshipName string  `json:"sponsorshipName"`
	Timestamp       int64   `json:"timestamp"` // unix millis
}

// Sponsorship is one auctionable lot. StartTime/EndTime are unix millis,
// set only while the lot is OPEN. Bids is ordered newest-first.
type Sponsorship struct {
	ID                          string    `json:"id"`
	Name                        string    `json:"name"`
	Description                 string    `json:"description"`
	BasePrice                   float64   `json:"basePrice"`
	DurationMinutes             int       `json:"durationMinutes"`
	Status                      LotStatus `json:"status"`
	StartTime                   *int64    `json:"startTime"`
	EndTime                     *int64    `json:"endTime"`
	CurrentHighestBid           float64   `json:"currentHighestBid"`
	CurrentHighestBidder        string    `json:"currentHighestBidder"`
	CurrentHighestBidderCompany string    `json:"currentHighestBidderCompany"`
	Bids                        []Bid     `json:"bids"`
}

// WinnerModal is the transient winner announcement singleton.
type WinnerModal struct {
	SponsorshipName string  `json:"sponsorshipName"`
	Winner          string  `json:"winner"`
	WinnerCompany   string  `json:"winnerCompany"`
	Amount          float64 `json:"amount"`
}

// TeamAssignment links one winning sponsor to a team slot.
type TeamAssignment struct {
	UserID      string `json:"userId"`
	CompanyName string `json:"companyName"`
	OwnerName   string `json:"ownerName"`
	TeamName    string `json:"teamName"`
}

// RoundSummary records the outcome of one stopped team round.
type RoundSummary struct {
	Round           int     `json:"round"`
	Price           float64 `json:"price"`
	InterestedCount int     `json:"interestedCount"`
}

// TeamAuction is the global singleton for the uniform-price team
// allocation round. InterestedBidders holds no duplicate user ids.
type TeamAuction struct {
	Status            TeamStatus       `json:"status"`
	CurrentPrice      float64          `json:"currentPrice"`
	RoundNumber       int              `json:"roundNumber"`
	InterestedBidders []User           `json:"interestedBidders"`
	Winners           []User           `json:"winners"`
	Assignments       []TeamAssignment `json:"assignments"`
	History           []RoundSummary   `json:"history"`
}

// State is the canonical snapshot tree. It is owned exclusively by the
// coordinator; all mutation goes through Apply.
type State struct {
	Users        []User        `json:"users"`
	Sponsorships []Sponsorship `json:"sponsorships"`
	RecentBids   []Bid         `json:"recentBids"`
	PendingBids  []Bid         `json:"pendingBids"`
	WinnerModal  *WinnerModal  `json:"winnerModal"`
	TeamAuction  TeamAuction   `json:"teamAuction"`
}

// RecentBidsCap bounds the global recent-bids feed (newest-first).
const RecentBidsCap = 50

func (s *State) findSponsorship(id string) *Sponsorship {
	for i := range s.Sponsorships {
		if s.Sponsorships[i].ID == id {
			return &s.Sponsorships[i]
		}
	}
	return nil
}

func (s *State) findUser(id string) *User {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return &s.Users[i]
		}
	}
	return nil
}

// FindUserByCredentials performs the plain stored-credential equality
// lookup used by the login round-trip. Returns nil when no user matches.
func (s *State) FindUserByCredentials(username, password string) *User {
	for i := range s.Users {
		if s.Users[i].Username == username && s.Users[i].Password == password {
			return &s.Users[i]
		}
	}
	return nil
}

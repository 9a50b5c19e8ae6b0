package domain

// DefaultTeamPrice is the opening price for the first team round and the
// value TEAM_RESET restores.
const DefaultTeamPrice = 50000

// System account ids that must survive a snapshot reload.
const (
	AdminUserID     = "admin"
	DashboardUserID = "dashboard"
)

func defaultAdminUser() User {
	return User{
		ID:           AdminUserID,
		Username:     "admin",
		Password:     "admin123",
		Role:         RoleAdmin,
		CompanyName:  "Admin Panel",
		OwnerName:    "Super Admin",
		MobileNumber: "9999999999",
	}
}

func defaultDashboardUser() User {
	return User{
		ID:           DashboardUserID,
		Username:     "dashboard",
		Password:     "dashboard123",
		Role:         RoleDashboard,
		CompanyName:  "Main Dashboard",
		OwnerName:    "Live Display",
		MobileNumber: "0000000000",
	}
}

func defaultSponsorUsers() []User {
	return []User{
		{ID: "user1", Username: "krishna_motors", Password: "pass123", Role: RoleUser, CompanyName: "Krishna Motors Pvt Ltd", VillageName: "Shirpur", OwnerName: "Ramesh Patil", MobileNumber: "9876543210"},
		{ID: "user2", Username: "shivaji_traders", Password: "pass123", Role: RoleUser, CompanyName: "Shivaji Traders & Co", VillageName: "Dhule", OwnerName: "Vijay Nikam", MobileNumber: "9765432109"},
		{ID: "user3", Username: "mauli_enterprises", Password: "pass123", Role: RoleUser, CompanyName: "Mauli Enterprises", VillageName: "Nandurbar", OwnerName: "Santosh More", MobileNumber: "9654321098"},
		{ID: "user4", Username: "samarth_group", Password: "pass123", Role: RoleUser, CompanyName: "Samarth Group of Companies", VillageName: "Sakri", OwnerName: "Dinesh Chaudhari", MobileNumber: "9543210987"},
		{ID: "user5", Username: "jai_hind", Password: "pass123", Role: RoleUser, CompanyName: "Jai Hind Industries", VillageName: "Shahada", OwnerName: "Pravin Sonawane", MobileNumber: "9432109876"},
	}
}

func defaultSponsorships() []Sponsorship {
	lots := []struct {
		id, name, desc string
		base           float64
		minutes        int
	}{
		{"sp1", "Opening Ceremony Title Sponsor", "Premium branding at the grand opening ceremony with full stage coverage", 500000, 10},
		{"sp2", "Main Event Platinum Sponsor", "Exclusive platinum rights with logo on all event materials and media", 1000000, 8},
		{"sp3", "Cultural Night Gold Sponsor", "Gold sponsorship for cultural evening with dedicated stage time", 250000, 5},
		{"sp4", "Sports Day Official Sponsor", "Official sponsorship of the sports competition day events", 150000, 6},
		{"sp5", "Food & Hospitality Partner", "Exclusive hospitality and catering rights across all event days", 200000, 7},
		{"sp6", "Media & Digital Rights Sponsor", "Digital streaming and social media exclusive partnership rights", 300000, 5},
	}

	out := make([]Sponsorship, 0, len(lots))
	for _, l := range lots {
		out = append(out, Sponsorship{
			ID:              l.id,
			Name:            l.name,
			Description:     l.desc,
			BasePrice:       l.base,
			DurationMinutes: l.minutes,
			Status:          StatusUpcoming,
			Bids:            []Bid{},
		})
	}
	return out
}

func defaultTeamAuction() TeamAuction {
	return TeamAuction{
		Status:            TeamNotStarted,
		CurrentPrice:      DefaultTeamPrice,
		RoundNumber:       1,
		InterestedBidders: []User{},
		Winners:           []User{},
		Assignments:       []TeamAssignment{},
		History:           []RoundSummary{},
	}
}

// NewDefaultState builds the hardcoded initial snapshot used when no
// persisted snapshot exists.
func NewDefaultState() *State {
	users := []User{defaultAdminUser()}
	users = append(users, defaultSponsorUsers()...)
	users = append(users, defaultDashboardUser())

	return &State{
		Users:        users,
		Sponsorships: defaultSponsorships(),
		RecentBids:   []Bid{},
		PendingBids:  []Bid{},
		TeamAuction:  defaultTeamAuction(),
	}
}

// EnsureSystemAccounts re-inserts the admin and dashboard accounts into a
// loaded snapshot when they are missing, leaving the rest of the state
// untouched. Reports whether anything was added.
func EnsureSystemAccounts(s *State) bool {
	added := false
	if s.findUser(AdminUserID) == nil {
		s.Users = append([]User{defaultAdminUser()}, s.Users...)
		added = true
	}
	if s.findUser(DashboardUserID) == nil {
		s.Users = append(s.Users, defaultDashboardUser())
		added = true
	}
	return added
}

package domain

import "time"

// DemandCategory classifies what kind of infrastructure is requested.
type DemandCategory string

const (
	DemandCategoryInfrastructure DemandCategory = "infrastructure"
	DemandCategoryPublicService  DemandCategory = "public_service"
	DemandCategoryTransportation DemandCategory = "transportation"
	DemandCategoryUtilities      DemandCategory = "utilities"
	DemandCategoryEducation      DemandCategory = "education"
	DemandCategoryHealthcare     DemandCategory = "healthcare"
	DemandCategoryOther          DemandCategory = "other"
)

// Valid reports whether c is a known category.
func (c DemandCategory) Valid() bool {
	switch c {
	case DemandCategoryInfrastructure, DemandCategoryPublicService, DemandCategoryTransportation,
		DemandCategoryUtilities, DemandCategoryEducation, DemandCategoryHealthcare, DemandCategoryOther:
		return true
	}
	return false
}

// DemandStatus tracks whether a demand has been met.
type DemandStatus string

const (
	DemandStatusFulfilled    DemandStatus = "fulfilled"
	DemandStatusNotFulfilled DemandStatus = "not_fulfilled"
)

// Valid reports whether s is a known status.
func (s DemandStatus) Valid() bool {
	return s == DemandStatusFulfilled || s == DemandStatusNotFulfilled
}

// InitialUpVoteCount seeds every new demand. The creator is credited one vote that
// does not appear in Voters and cannot be withdrawn by toggling.
const InitialUpVoteCount = 1

// Demand is a citizen request for infrastructure at a location.
type Demand struct {
	ID          string
	CreatorID   *string
	Title       string
	Description string
	Location    GeoPoint
	Category    DemandCategory
	Status      DemandStatus
	UpVoteCount int
	Voters      []string
	Comments    []DemandComment
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DemandComment is one entry of a demand's append-only comment log.
type DemandComment struct {
	ID        int64
	DemandID  string
	AuthorID  string
	Text      string
	Timestamp time.Time
}

// HasVoter reports whether userID currently holds an upvote.
func (d *Demand) HasVoter(userID string) bool {
	for _, voter := range d.Voters {
		if voter == userID {
			return true
		}
	}
	return false
}

// ToggleVote flips userID's vote and adjusts UpVoteCount by one. Blank voter
// entries left by bad data are dropped first. It returns true when the user
// now holds a vote.
func (d *Demand) ToggleVote(userID string) bool {
	voters := make([]string, 0, len(d.Voters)+1)
	found := false
	for _, voter := range d.Voters {
		switch voter {
		case "":
			continue
		case userID:
			found = true
			continue
		}
		voters = append(voters, voter)
	}
	if found {
		d.UpVoteCount--
		d.Voters = voters
		return false
	}
	d.Voters = append(voters, userID)
	d.UpVoteCount++
	return true
}

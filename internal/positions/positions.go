// Package positions defines the closed set of officer positions and
// the lookup tables keyed by them. ValidateTables should be called at
// startup so a position added without its table entries fails fast.
package positions

import "fmt"

// Position is an officer position identifier, stored as its wire string.
type Position string

const (
	President                Position = "president"
	VicePresident            Position = "vice-president"
	Treasurer                Position = "treasurer"
	DirectorOfResources      Position = "director-of-resources"
	DirectorOfEvents         Position = "director-of-events"
	DirectorOfEduEvents      Position = "director-of-educational-events"
	AssistantDirectorEvents  Position = "assistant-director-of-events"
	DirectorOfCommunications Position = "director-of-communications"
	DirectorOfMultimedia     Position = "director-of-multimedia"
	DirectorOfArchives       Position = "director-of-archives"
	ExecutiveAtLarge         Position = "executive-at-large"
	FirstYearRep             Position = "first-year-representative"
	CouncilRep               Position = "council-representative"
	FroshWeekChair           Position = "frosh-week-chair"
	SystemAdministrator      Position = "system-administrator"
	Webmaster                Position = "webmaster"
	ElectionsOfficer         Position = "elections-officer"
)

// All lists every position. Order matters for roster display.
var All = []Position{
	President,
	VicePresident,
	Treasurer,
	DirectorOfResources,
	DirectorOfEvents,
	DirectorOfEduEvents,
	AssistantDirectorEvents,
	DirectorOfCommunications,
	DirectorOfMultimedia,
	DirectorOfArchives,
	ExecutiveAtLarge,
	FirstYearRep,
	CouncilRep,
	FroshWeekChair,
	SystemAdministrator,
	Webmaster,
	ElectionsOfficer,
}

var titles = map[Position]string{
	President:                "President",
	VicePresident:            "Vice-President",
	Treasurer:                "Treasurer",
	DirectorOfResources:      "Director of Resources",
	DirectorOfEvents:         "Director of Events",
	DirectorOfEduEvents:      "Director of Educational Events",
	AssistantDirectorEvents:  "Assistant Director of Events",
	DirectorOfCommunications: "Director of Communications",
	DirectorOfMultimedia:     "Director of Multimedia",
	DirectorOfArchives:       "Director of Archives",
	ExecutiveAtLarge:         "Executive at Large",
	FirstYearRep:             "First Year Representative",
	CouncilRep:               "Council Representative",
	FroshWeekChair:           "Frosh Week Chair",
	SystemAdministrator:      "System Administrator",
	Webmaster:                "Webmaster",
	ElectionsOfficer:         "Elections Officer",
}

var emails = map[Position]string{
	President:                "president@society.example.org",
	VicePresident:            "vicepresident@society.example.org",
	Treasurer:                "treasurer@society.example.org",
	DirectorOfResources:      "resources@society.example.org",
	DirectorOfEvents:         "events@society.example.org",
	DirectorOfEduEvents:      "eduevents@society.example.org",
	AssistantDirectorEvents:  "asst-events@society.example.org",
	DirectorOfCommunications: "communications@society.example.org",
	DirectorOfMultimedia:     "multimedia@society.example.org",
	DirectorOfArchives:       "archives@society.example.org",
	ExecutiveAtLarge:         "exec-at-large@society.example.org",
	FirstYearRep:             "firstyearrep@society.example.org",
	CouncilRep:               "councilrep@society.example.org",
	FroshWeekChair:           "froshchair@society.example.org",
	SystemAdministrator:      "sysadmin@society.example.org",
	Webmaster:                "webmaster@society.example.org",
	ElectionsOfficer:         "elections@society.example.org",
}

// maxConcurrent is how many people may hold the position at once.
// Exceeding it is a soft invariant: logged, not rejected.
var maxConcurrent = map[Position]int{
	President:                1,
	VicePresident:            1,
	Treasurer:                1,
	DirectorOfResources:      1,
	DirectorOfEvents:         1,
	DirectorOfEduEvents:      1,
	AssistantDirectorEvents:  1,
	DirectorOfCommunications: 1,
	DirectorOfMultimedia:     1,
	DirectorOfArchives:       1,
	ExecutiveAtLarge:         2,
	FirstYearRep:             2,
	CouncilRep:               1,
	FroshWeekChair:           1,
	SystemAdministrator:      1,
	Webmaster:                1,
	ElectionsOfficer:         1,
}

// SiteAdmin positions get full admin on the whole site.
var SiteAdmin = []Position{
	President,
	VicePresident,
	DirectorOfArchives,
	SystemAdministrator,
	Webmaster,
}

// ElectionAdmin positions may administer elections. Strict superset of
// SiteAdmin, so site-admin always implies election-admin.
var ElectionAdmin = append(append([]Position{}, SiteAdmin...), ElectionsOfficer)

// DefaultGeneralPositions is the default available-position set for
// general elections and by-elections.
var DefaultGeneralPositions = []Position{
	President,
	VicePresident,
	Treasurer,
	DirectorOfResources,
	DirectorOfEvents,
	DirectorOfEduEvents,
	AssistantDirectorEvents,
	DirectorOfCommunications,
	DirectorOfMultimedia,
	DirectorOfArchives,
	ExecutiveAtLarge,
	FirstYearRep,
	FroshWeekChair,
}

// DefaultCouncilRepPositions is the default set for council
// representative elections.
var DefaultCouncilRepPositions = []Position{CouncilRep}

// IsValid reports whether s names a known position.
func IsValid(s string) bool {
	_, ok := titles[Position(s)]
	return ok
}

// Title returns the display title for p, or the raw value if unknown.
func Title(p Position) string {
	if t, ok := titles[p]; ok {
		return t
	}
	return string(p)
}

// Email returns the role contact address for p.
func Email(p Position) string {
	return emails[p]
}

// MaxConcurrent returns how many simultaneous active terms the
// position allows. Unknown positions report 1.
func MaxConcurrent(p Position) int {
	if n, ok := maxConcurrent[p]; ok {
		return n
	}
	return 1
}

// Strings converts a position slice to its wire representation.
func Strings(ps []Position) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}

// ValidateTables checks that every position has an entry in every
// lookup table. Call once at startup.
func ValidateTables() error {
	for _, p := range All {
		if _, ok := titles[p]; !ok {
			return fmt.Errorf("position %q missing title", p)
		}
		if _, ok := emails[p]; !ok {
			return fmt.Errorf("position %q missing email", p)
		}
		if _, ok := maxConcurrent[p]; !ok {
			return fmt.Errorf("position %q missing max concurrency", p)
		}
	}
	if len(titles) != len(All) {
		return fmt.Errorf("title table has %d entries, want %d", len(titles), len(All))
	}
	return nil
}

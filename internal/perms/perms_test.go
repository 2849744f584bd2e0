package perms

import (
	"path/filepath"
	"testing"
	"time"

	"csss-site/internal/models"
	"csss-site/internal/positions"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestEvaluator(t *testing.T) *Evaluator {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.OfficerTerm{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return NewEvaluator(db)
}

func seedTerm(t *testing.T, ev *Evaluator, computingID string, position positions.Position, start time.Time, end *time.Time) {
	t.Helper()
	if err := ev.DB.FirstOrCreate(&models.User{
		ComputingID: computingID,
		FirstSeenAt: time.Now(),
		LastSeenAt:  time.Now(),
	}, "computing_id = ?", computingID).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := ev.DB.Create(&models.OfficerTerm{
		ComputingID: computingID,
		Position:    string(position),
		StartDate:   start,
		EndDate:     end,
	}).Error; err != nil {
		t.Fatalf("seed term: %v", err)
	}
}

func TestTiers_ActiveWebmaster(t *testing.T) {
	ev := newTestEvaluator(t)
	// open-ended term that started ten days ago
	seedTerm(t, ev, "jdo12", positions.Webmaster, time.Now().AddDate(0, 0, -10), nil)

	site, err := ev.IsSiteAdmin("jdo12")
	if err != nil {
		t.Fatalf("IsSiteAdmin() error = %v", err)
	}
	election, err := ev.IsElectionAdmin("jdo12")
	if err != nil {
		t.Fatalf("IsElectionAdmin() error = %v", err)
	}
	if !site || !election {
		t.Errorf("active webmaster tiers = (site %v, election %v), want both true", site, election)
	}
}

func TestTiers_EndedTerm(t *testing.T) {
	ev := newTestEvaluator(t)
	yesterday := time.Now().AddDate(0, 0, -1)
	seedTerm(t, ev, "jdo12", positions.Webmaster, time.Now().AddDate(0, 0, -10), &yesterday)

	site, _ := ev.IsSiteAdmin("jdo12")
	election, _ := ev.IsElectionAdmin("jdo12")
	if site || election {
		t.Errorf("ended term tiers = (site %v, election %v), want both false", site, election)
	}
}

func TestTiers_FutureTerm(t *testing.T) {
	ev := newTestEvaluator(t)
	seedTerm(t, ev, "jdo12", positions.President, time.Now().AddDate(0, 0, 5), nil)

	site, _ := ev.IsSiteAdmin("jdo12")
	if site {
		t.Error("term that has not started yet grants site admin")
	}
}

// TestTiers_ElectionsOfficer: the elections officer administers
// elections but is not a site admin.
func TestTiers_ElectionsOfficer(t *testing.T) {
	ev := newTestEvaluator(t)
	seedTerm(t, ev, "eo1", positions.ElectionsOfficer, time.Now().AddDate(0, 0, -1), nil)

	site, _ := ev.IsSiteAdmin("eo1")
	election, _ := ev.IsElectionAdmin("eo1")
	if site {
		t.Error("elections officer evaluates as site admin")
	}
	if !election {
		t.Error("elections officer does not evaluate as election admin")
	}
}

func TestTiers_NonAdminPosition(t *testing.T) {
	ev := newTestEvaluator(t)
	seedTerm(t, ev, "ev1", positions.DirectorOfEvents, time.Now().AddDate(0, 0, -1), nil)

	site, _ := ev.IsSiteAdmin("ev1")
	election, _ := ev.IsElectionAdmin("ev1")
	if site || election {
		t.Errorf("director of events tiers = (site %v, election %v), want both false", site, election)
	}
}

// TestTiers_FailClosed: unknown and anonymous callers have no tier.
func TestTiers_FailClosed(t *testing.T) {
	ev := newTestEvaluator(t)

	for _, id := range []string{"", "ghost9"} {
		site, err := ev.IsSiteAdmin(id)
		if err != nil {
			t.Fatalf("IsSiteAdmin(%q) error = %v", id, err)
		}
		election, err := ev.IsElectionAdmin(id)
		if err != nil {
			t.Fatalf("IsElectionAdmin(%q) error = %v", id, err)
		}
		if site || election {
			t.Errorf("tiers for %q = (site %v, election %v), want both false", id, site, election)
		}
	}
}

// TestTiers_Monotonic: site admin always implies election admin, for
// every site-admin position.
func TestTiers_Monotonic(t *testing.T) {
	ev := newTestEvaluator(t)
	for i, p := range positions.SiteAdmin {
		id := string(rune('a'+i)) + "dm1"
		seedTerm(t, ev, id, p, time.Now().AddDate(0, 0, -1), nil)

		site, _ := ev.IsSiteAdmin(id)
		election, _ := ev.IsElectionAdmin(id)
		if !site {
			t.Errorf("%s does not evaluate as site admin", p)
		}
		if site && !election {
			t.Errorf("%s is site admin but not election admin", p)
		}
	}
}

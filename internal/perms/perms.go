// Package perms derives a user's authorization tier from the officer
// terms they currently hold. There is no separate roles table and no
// caching: every check queries current term state, so permissions are
// correct immediately after a term starts or ends.
package perms

import (
	"fmt"
	"time"

	"csss-site/internal/models"
	"csss-site/internal/positions"

	"gorm.io/gorm"
)

// Evaluator answers tier queries against the officer term table.
type Evaluator struct {
	DB *gorm.DB
}

func NewEvaluator(db *gorm.DB) *Evaluator {
	return &Evaluator{DB: db}
}

// holdsActive reports whether the user currently holds any of the
// given positions. "Active" means start_date has passed and end_date
// is unset or still in the future. Empty computing ID fails closed.
func (e *Evaluator) holdsActive(computingID string, ps []positions.Position) (bool, error) {
	if computingID == "" {
		return false, nil
	}
	now := time.Now()
	var count int64
	err := e.DB.Model(&models.OfficerTerm{}).
		Where("computing_id = ?", computingID).
		Where("position IN ?", positions.Strings(ps)).
		Where("start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check active terms: %w", err)
	}
	return count > 0, nil
}

// IsSiteAdmin reports whether the user holds a site-admin position.
func (e *Evaluator) IsSiteAdmin(computingID string) (bool, error) {
	return e.holdsActive(computingID, positions.SiteAdmin)
}

// IsElectionAdmin reports whether the user may administer elections.
// The election-admin position set is a superset of the site-admin set,
// so IsSiteAdmin implies IsElectionAdmin.
func (e *Evaluator) IsElectionAdmin(computingID string) (bool, error) {
	return e.holdsActive(computingID, positions.ElectionAdmin)
}

package elections

import (
	"errors"
	"fmt"

	"csss-site/internal/models"
	"csss-site/internal/positions"

	"gorm.io/gorm"
)

// RegistrationUpdate carries the mutable fields of a registration.
// Nil pointers leave the field untouched.
type RegistrationUpdate struct {
	Speech   *string
	Position *string
}

// Register creates a candidacy for (computingID, slug, position).
// Preconditions, each with its own rejection and no partial writes:
// nominee info exists, election exists, position offered, phase is
// nominations, no duplicate registration. Admins get no exemption
// here: registrations are only ever created during nominations.
func (s *Service) Register(computingID, slug, position string) (*models.Registration, error) {
	if !positions.IsValid(position) {
		return nil, fmt.Errorf("position %q: %w", position, ErrUnknownPosition)
	}

	reg := &models.Registration{
		ComputingID:  computingID,
		ElectionSlug: slug,
		Position:     position,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var info models.NomineeInfo
		if err := tx.First(&info, "computing_id = ?", computingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %q: %w", computingID, ErrNoNomineeInfo)
			}
			return err
		}

		var e models.Election
		if err := tx.First(&e, "slug = ?", slug).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("election %q: %w", slug, ErrNotFound)
			}
			return err
		}

		if !contains(e.AvailablePositions, position) {
			return fmt.Errorf("position %q: %w", position, ErrPositionNotAvailable)
		}
		if PhaseAt(&e, s.Now()) != Nominations {
			return ErrNotNominationPeriod
		}

		var count int64
		if err := tx.Model(&models.Registration{}).
			Where("computing_id = ? AND election_slug = ? AND position = ?",
				computingID, slug, position).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("user %q, position %q: %w", computingID, position, ErrAlreadyRegistered)
		}

		// The composite unique index still backstops this under a
		// concurrent duplicate attempt; the check above only exists
		// for the friendlier error message.
		if err := tx.Create(reg).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("user %q, position %q: %w", computingID, position, ErrAlreadyRegistered)
			}
			return err
		}
		return nil
	})
	if err != nil {
		if isSentinel(err) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	return reg, nil
}

// UpdateRegistration mutates an existing registration. Self-service
// updates are legal only during nominations; admin updates at any
// phase. A position change revalidates availability and uniqueness.
func (s *Service) UpdateRegistration(slug, computingID, position string, upd RegistrationUpdate, asAdmin bool) (*models.Registration, error) {
	var reg models.Registration
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var e models.Election
		if err := tx.First(&e, "slug = ?", slug).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("election %q: %w", slug, ErrNotFound)
			}
			return err
		}

		if !asAdmin && PhaseAt(&e, s.Now()) != Nominations {
			return ErrNotNominationPeriod
		}

		if err := tx.First(&reg,
			"computing_id = ? AND election_slug = ? AND position = ?",
			computingID, slug, position).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("registration: %w", ErrNotFound)
			}
			return err
		}

		if upd.Position != nil && *upd.Position != reg.Position {
			newPos := *upd.Position
			if !positions.IsValid(newPos) {
				return fmt.Errorf("position %q: %w", newPos, ErrUnknownPosition)
			}
			if !contains(e.AvailablePositions, newPos) {
				return fmt.Errorf("position %q: %w", newPos, ErrPositionNotAvailable)
			}
			var count int64
			if err := tx.Model(&models.Registration{}).
				Where("computing_id = ? AND election_slug = ? AND position = ?",
					computingID, slug, newPos).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return fmt.Errorf("position %q: %w", newPos, ErrAlreadyRegistered)
			}
			reg.Position = newPos
		}
		if upd.Speech != nil {
			reg.Speech = *upd.Speech
		}
		if err := tx.Save(&reg).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("position %q: %w", reg.Position, ErrAlreadyRegistered)
			}
			return err
		}
		return nil
	})
	if err != nil {
		if isSentinel(err) {
			return nil, err
		}
		return nil, fmt.Errorf("update registration: %w", err)
	}
	return &reg, nil
}

// DeleteRegistration withdraws a candidacy. Same phase restriction as
// creation for self-service; admins may delete at any phase. The
// delete result is verified by rows affected, so callers get an error
// rather than a false confirmation under concurrent removal.
func (s *Service) DeleteRegistration(slug, computingID, position string, asAdmin bool) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var e models.Election
		if err := tx.First(&e, "slug = ?", slug).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("election %q: %w", slug, ErrNotFound)
			}
			return err
		}

		if !asAdmin && PhaseAt(&e, s.Now()) != Nominations {
			return ErrNotNominationPeriod
		}

		res := tx.Where("computing_id = ? AND election_slug = ? AND position = ?",
			computingID, slug, position).
			Delete(&models.Registration{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("registration: %w", ErrNotFound)
		}
		return nil
	})
	if err != nil {
		if isSentinel(err) {
			return err
		}
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

// ListForElection returns every registration in an election, ordered
// by position then by registration time. Pure read, any phase.
func (s *Service) ListForElection(slug string) ([]models.Registration, error) {
	var out []models.Registration
	err := s.DB.Where("election_slug = ?", slug).
		Order("position, created_at").
		Preload("Nominee").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return out, nil
}

// ListForUser returns one person's registrations in an election.
func (s *Service) ListForUser(computingID, slug string) ([]models.Registration, error) {
	var out []models.Registration
	err := s.DB.Where("computing_id = ? AND election_slug = ?", computingID, slug).
		Order("position").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return out, nil
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// isSentinel reports whether err wraps one of this package's
// validation sentinels, which pass through to handlers unwrapped.
func isSentinel(err error) bool {
	for _, s := range []error{
		ErrNotFound, ErrSlugTaken, ErrReservedName, ErrBadDates,
		ErrSlugImmutable, ErrSlugTooLong, ErrEmptySlug,
		ErrUnknownPosition, ErrNoPositions, ErrUnknownType,
		ErrPositionNotAvailable, ErrNoNomineeInfo,
		ErrNotNominationPeriod, ErrAlreadyRegistered,
	} {
		if errors.Is(err, s) {
			return true
		}
	}
	return false
}

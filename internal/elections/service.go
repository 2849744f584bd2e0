package elections

import (
	"errors"
	"fmt"
	"time"

	"csss-site/internal/models"
	"csss-site/internal/positions"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Election types. General elections and by-elections share a default
// position list; council rep elections get their own.
const (
	TypeGeneral    = "general"
	TypeByElection = "by_election"
	TypeCouncilRep = "council_rep"
)

// reservedNames can never be used as election names because their
// slugs collide with fixed routes ("/elections/list").
var reservedNames = map[string]bool{
	"list": true,
}

// Service implements election CRUD and candidacy registration. All
// mutations run inside a single transaction: if any validation step
// fails nothing is persisted.
type Service struct {
	DB  *gorm.DB
	Log zerolog.Logger

	// Now is the clock used for phase decisions; tests override it.
	Now func() time.Time
}

func NewService(db *gorm.DB, log zerolog.Logger) *Service {
	return &Service{DB: db, Log: log, Now: time.Now}
}

// ElectionInput carries the caller-supplied election fields. Positions
// nil means "use the default list for the type"; Positions empty but
// non-nil is rejected by validate.
type ElectionInput struct {
	Name            string
	Type            string
	NominationStart time.Time
	VotingStart     time.Time
	VotingEnd       time.Time
	Positions       []string
	SurveyLink      string
}

// defaultPositions returns the default available-position list for an
// election type.
func defaultPositions(electionType string) []string {
	if electionType == TypeCouncilRep {
		return positions.Strings(positions.DefaultCouncilRepPositions)
	}
	return positions.Strings(positions.DefaultGeneralPositions)
}

// validate checks the structural invariants shared by create and
// update, returning the derived slug and the effective position list.
func validate(in ElectionInput) (slug string, avail []string, err error) {
	if reservedNames[Slugify(in.Name)] {
		return "", nil, fmt.Errorf("name %q: %w", in.Name, ErrReservedName)
	}
	switch in.Type {
	case TypeGeneral, TypeByElection, TypeCouncilRep:
	default:
		return "", nil, fmt.Errorf("type %q: %w", in.Type, ErrUnknownType)
	}
	if in.NominationStart.After(in.VotingStart) || in.VotingStart.After(in.VotingEnd) {
		return "", nil, ErrBadDates
	}

	slug = Slugify(in.Name)
	if slug == "" {
		return "", nil, fmt.Errorf("name %q: %w", in.Name, ErrEmptySlug)
	}
	if len(slug) > MaxSlugLen {
		return "", nil, fmt.Errorf("name %q: %w", in.Name, ErrSlugTooLong)
	}

	avail = in.Positions
	if avail == nil {
		avail = defaultPositions(in.Type)
	}
	if len(avail) == 0 {
		return "", nil, ErrNoPositions
	}
	for _, p := range avail {
		if !positions.IsValid(p) {
			return "", nil, fmt.Errorf("position %q: %w", p, ErrUnknownPosition)
		}
	}
	return slug, avail, nil
}

// Create validates and persists a new election. The derived slug must
// not already exist; there is no silent overwrite.
func (s *Service) Create(in ElectionInput) (*models.Election, error) {
	slug, avail, err := validate(in)
	if err != nil {
		return nil, err
	}

	e := &models.Election{
		Slug:               slug,
		Name:               in.Name,
		Type:               in.Type,
		NominationStart:    in.NominationStart,
		VotingStart:        in.VotingStart,
		VotingEnd:          in.VotingEnd,
		AvailablePositions: avail,
		SurveyLink:         in.SurveyLink,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Election{}).
			Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("slug %q: %w", slug, ErrSlugTaken)
		}
		if err := tx.Create(e).Error; err != nil {
			// primary key backstop: a concurrent create with the same
			// slug can slip past the count check
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("slug %q: %w", slug, ErrSlugTaken)
			}
			return err
		}
		return nil
	})
	if err != nil {
		if isSentinel(err) {
			return nil, err
		}
		return nil, fmt.Errorf("create election: %w", err)
	}
	return e, nil
}

// Update rewrites an existing election's fields. The slug never
// changes: a rename that would alter the slug must be done as
// delete+create, so in.Name must still slugify to slug.
func (s *Service) Update(slug string, in ElectionInput) (*models.Election, error) {
	newSlug, avail, err := validate(in)
	if err != nil {
		return nil, err
	}
	if newSlug != slug {
		return nil, fmt.Errorf("name %q would change slug %q: %w", in.Name, slug, ErrSlugImmutable)
	}

	var e models.Election
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&e, "slug = ?", slug).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("election %q: %w", slug, ErrNotFound)
			}
			return err
		}
		e.Name = in.Name
		e.Type = in.Type
		e.NominationStart = in.NominationStart
		e.VotingStart = in.VotingStart
		e.VotingEnd = in.VotingEnd
		e.AvailablePositions = avail
		e.SurveyLink = in.SurveyLink
		return tx.Save(&e).Error
	})
	if err != nil {
		if isSentinel(err) {
			return nil, err
		}
		return nil, fmt.Errorf("update election: %w", err)
	}
	return &e, nil
}

// Delete removes the election and, via FK cascade, its registrations.
func (s *Service) Delete(slug string) error {
	res := s.DB.Where("slug = ?", slug).Delete(&models.Election{})
	if res.Error != nil {
		return fmt.Errorf("delete election: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("election %q: %w", slug, ErrNotFound)
	}
	return nil
}

// Get fetches one election by slug.
func (s *Service) Get(slug string) (*models.Election, error) {
	var e models.Election
	if err := s.DB.First(&e, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("election %q: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("get election: %w", err)
	}
	return &e, nil
}

// List returns all elections, newest voting period first.
func (s *Service) List() ([]models.Election, error) {
	var out []models.Election
	if err := s.DB.Order("voting_end DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list elections: %w", err)
	}
	return out, nil
}

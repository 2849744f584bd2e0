package elections

import "errors"

// Sentinel errors returned by the election and registration services.
// Services wrap them with context via fmt.Errorf("%w"); handlers match
// with errors.Is and translate to the HTTP error envelope.
var (
	// ErrNotFound: the referenced election or registration does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSlugTaken: an election with the same derived slug already exists.
	ErrSlugTaken = errors.New("an election with this name already exists")

	// ErrReservedName: the election name collides with a reserved
	// routing token and can never be used.
	ErrReservedName = errors.New("election name is reserved")

	// ErrBadDates: nomination_start <= voting_start <= voting_end is violated.
	ErrBadDates = errors.New("election dates must satisfy nomination_start <= voting_start <= voting_end")

	// ErrSlugTooLong: the derived slug exceeds MaxSlugLen.
	ErrSlugTooLong = errors.New("election name produces too long a slug")

	// ErrEmptySlug: the name is all punctuation and slugifies to "".
	ErrEmptySlug = errors.New("election name produces an empty slug")

	// ErrSlugImmutable: an update would change the derived slug.
	// Renames that change the slug must be done as delete+create.
	ErrSlugImmutable = errors.New("election slug cannot change on update")

	// ErrUnknownPosition: a position value is not a recognized position.
	ErrUnknownPosition = errors.New("unrecognized position")

	// ErrNoPositions: an explicit empty available-position list; an
	// election nobody could ever register in.
	ErrNoPositions = errors.New("available_positions must name at least one position")

	// ErrUnknownType: the election type is not a recognized type.
	ErrUnknownType = errors.New("unrecognized election type")

	// ErrPositionNotAvailable: the position is valid but not offered by
	// this election.
	ErrPositionNotAvailable = errors.New("position is not available in this election")

	// ErrNoNomineeInfo: the person has no nominee info record yet.
	ErrNoNomineeInfo = errors.New("nominee info must be filled in before registering")

	// ErrNotNominationPeriod: the operation is only legal while the
	// election is in its nomination phase.
	ErrNotNominationPeriod = errors.New("registrations can only be made during the nomination period")

	// ErrAlreadyRegistered: a registration for the same (person,
	// election, position) already exists.
	ErrAlreadyRegistered = errors.New("already registered for this position")
)

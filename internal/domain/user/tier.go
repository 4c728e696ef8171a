package user

// Tier is the authorization level of a caller.
type Tier int

const (
	TierAnonymous Tier = iota
	TierUser
	TierAdmin
)

func (t Tier) String() string {
	switch t {
	case TierUser:
		return "user"
	case TierAdmin:
		return "admin"
	default:
		return "anonymous"
	}
}

// Actor is the explicit caller context handed to every catalog operation.
type Actor struct {
	UserID int64
	Name   string
	Tier   Tier
}

// Anonymous is the zero Actor.
var Anonymous = Actor{}

func (a Actor) IsAuthenticated() bool {
	return a.Tier != TierAnonymous
}

func (a Actor) IsAdmin() bool {
	return a.Tier == TierAdmin
}

// Require reports whether the actor reaches the given tier: anonymous
// callers get ErrUnauthenticated, authenticated callers below the tier get
// ErrForbidden.
func (a Actor) Require(t Tier) error {
	if t == TierAnonymous {
		return nil
	}
	if !a.IsAuthenticated() {
		return ErrUnauthenticated
	}
	if a.Tier < t {
		return ErrForbidden
	}
	return nil
}

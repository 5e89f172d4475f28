package domain

// AnonymousPrincipal identifies a caller that has not logged in.
const AnonymousPrincipal = "anonymous"

type Identity struct {
	Principal string
	Token     string
}

var Anonymous = Identity{Principal: AnonymousPrincipal}

func (i Identity) IsAnonymous() bool {
	return i.Principal == "" || i.Principal == AnonymousPrincipal
}

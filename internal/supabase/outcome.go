package supabase

// Kind tags the result of an identity provider call.
type Kind int

const (
	// ProviderUnavailable covers transport errors, timeouts, 5xx responses,
	// unusable bodies and an unconfigured adapter. A zero Outcome is
	// unavailable, never a success.
	ProviderUnavailable Kind = iota
	// ProviderSucceeded carries an Identity and, when the account is
	// confirmed, a Session.
	ProviderSucceeded
	// ProviderRejected means the provider answered with a 4xx, such as bad
	// credentials or an already registered e-mail.
	ProviderRejected
)

func (k Kind) String() string {
	switch k {
	case ProviderSucceeded:
		return "succeeded"
	case ProviderUnavailable:
		return "unavailable"
	case ProviderRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of SignUp and SignIn.
type Outcome struct {
	Kind     Kind
	Identity *Identity
	Session  *Session
	Reason   string
}

func unavailable(reason string) Outcome {
	return Outcome{Kind: ProviderUnavailable, Reason: reason}
}

func rejected(reason string) Outcome {
	return Outcome{Kind: ProviderRejected, Reason: reason}
}

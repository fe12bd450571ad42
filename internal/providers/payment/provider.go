package payment

import "context"

// Verification is the provider's view of a charge.
type Verification struct {
	Reference string
	Amount    int64
	Currency  string
	Paid      bool
}

// Verifier checks a payment reference against the gateway.
type Verifier interface {
	// Enabled reports whether the verifier can reach a gateway. A
	// disabled verifier means references are stored unverified as
	// pending rather than rejected.
	Enabled() bool
	Verify(ctx context.Context, reference string) (Verification, error)
}

type NoOpVerifier struct{}

func (v *NoOpVerifier) Enabled() bool {
	return false
}

func (v *NoOpVerifier) Verify(ctx context.Context, reference string) (Verification, error) {
	return Verification{Reference: reference}, nil
}

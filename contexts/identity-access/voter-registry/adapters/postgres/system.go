package postgresadapter

import (
	"time"

	"voteguard/contexts/identity-access/voter-registry/ports"
)

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.Clock = SystemClock{}

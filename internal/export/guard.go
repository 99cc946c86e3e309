package export

import "fmt"

// ReadabilityFlag is the host setting that controls whether a source's raw
// pixels may be read by tooling.
type ReadabilityFlag interface {
	Readable() (bool, error)
	SetReadable(readable bool) error
}

// ReadabilityGuard holds a source readable for the duration of an export and
// remembers the value to restore.
type ReadabilityGuard struct {
	flag     ReadabilityFlag
	prior    bool
	released bool
}

// AcquireReadability records the flag's current value and switches it on.
// A nil flag yields a guard whose Release is a no-op.
func AcquireReadability(flag ReadabilityFlag) (*ReadabilityGuard, error) {
	g := &ReadabilityGuard{flag: flag}
	if flag == nil {
		return g, nil
	}

	prior, err := flag.Readable()
	if err != nil {
		return nil, fmt.Errorf("read readability flag: %w", err)
	}
	if err := flag.SetReadable(true); err != nil {
		return nil, fmt.Errorf("enable readability: %w", err)
	}

	g.prior = prior
	return g, nil
}

// Release restores the flag to its prior value. Only the first call touches
// the host.
func (g *ReadabilityGuard) Release() error {
	if g.flag == nil || g.released {
		return nil
	}
	g.released = true

	if err := g.flag.SetReadable(g.prior); err != nil {
		return fmt.Errorf("restore readability to %t: %w", g.prior, err)
	}
	return nil
}

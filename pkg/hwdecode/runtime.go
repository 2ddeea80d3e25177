package hwdecode

import (
	"sync"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/214zzl995/subtitle-fast/pkg/ports"
)

// runtimeRef reference-counts platform Startup/Shutdown so that every
// probe/decode call runs inside an active runtime and teardown happens on
// every exit path, matching the service's paired init contract. The count
// is only ever touched under mu; the boundary transitions must be atomic
// with the Startup/Shutdown calls themselves.
type runtimeRef struct {
	mu    sync.Mutex
	count int32
}

// acquire starts the platform runtime when the count rises from zero and
// returns a release func that must run exactly once.
func (r *runtimeRef) acquire(p ports.Platform) (func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count == 0 {
		if err := p.Startup(); err != nil {
			return nil, errors.Wrapf(ErrRuntimeInit, "%s startup: %v", p.Name(), err)
		}
	}
	r.count++

	var once sync.Once
	release := func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.count--
			if r.count == 0 {
				p.Shutdown()
			}
		})
	}
	return release, nil
}

// checkPath validates that the input path survives conversion to the
// platform's native representation. Go paths are UTF-8 already; invalid
// sequences and embedded NUL bytes fail explicitly instead of being
// substituted.
func checkPath(path string) error {
	if path == "" {
		return errors.Wrap(ErrPathEncoding, "input path is empty")
	}
	if !utf8.ValidString(path) {
		return errors.Wrap(ErrPathEncoding, "input path is not valid UTF-8")
	}
	for i := 0; i < len(path); i++ {
		if path[i] == 0 {
			return errors.Wrap(ErrPathEncoding, "input path contains a NUL byte")
		}
	}
	return nil
}

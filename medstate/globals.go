// Package medstate holds medc's process-wide global state (spec §4.8): a
// read-mostly cache of expensive-to-build tables plus the mutable
// behavior-mask stack, and the startup alignment self-check (§4.9).
package medstate

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/MEDFormat/MEDC-sub005/layout"
	"github.com/MEDFormat/MEDC-sub005/security"
	"github.com/MEDFormat/MEDC-sub005/timeutil"
)

// DefaultMmapBlockSize is the default memory-map block size FPS uses when
// presence-tracking mapped pages (§4.4).
const DefaultMmapBlockSize = 4 * 1024

// Globals is the process-wide singleton described in §4.8. The CRC and
// AES "table pointers" the source caches are, in medc, the standard
// library's own lazily-built tables (hash/crc32, crypto/aes); Globals
// caches what this library actually computes itself: the timezone table
// view, password data, session time constants, and operating defaults.
type Globals struct {
	mu sync.RWMutex

	TimezoneTable []timeutil.TimezoneInfo
	PasswordData  *security.PasswordData
	TimeConstants timeutil.GlobalTimeConstants

	Verbosity      int
	MmapBlockSize  int
	TempDir        string
	Behavior       *BehaviorStack

	// Warnings/errors not returned to the caller (per an active
	// SuppressWarning/SuppressError Behavior) are still written here,
	// matching §7's "error messages are written to the console prefixed
	// with the failing function name". Defaults to os.Stderr.
	Console io.Writer
}

var (
	once    sync.Once
	globals *Globals
	initErr error
)

// Initialize performs the one-time setup §4.8 describes:
// initialize_medlib sets defaults, triggers the alignment self-check, and
// builds the timezone table view. It is safe to call repeatedly; only the
// first call does any work, matching the once-cell pattern §9
// recommends in place of the source's explicit init/free lifecycle.
func Initialize() error {
	once.Do(func() {
		if err := layout.VerifyLayout(); err != nil {
			initErr = err
			return
		}

		globals = &Globals{
			TimezoneTable: timeutil.Table,
			Verbosity:     0,
			MmapBlockSize: DefaultMmapBlockSize,
			TempDir:       os.TempDir(),
			Behavior:      NewBehaviorStack(DefaultBehavior()),
			Console:       os.Stderr,
		}
	})

	return initErr
}

// Get returns the process-wide Globals, initializing it on first use if
// the caller has not already called Initialize explicitly.
func Get() (*Globals, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}

	return globals, nil
}

// SetPasswordData installs the PasswordData resolved for the session
// currently being opened.
func (g *Globals) SetPasswordData(pd *security.PasswordData) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.PasswordData = pd
}

// Warn writes a suppressible warning to Console, prefixed by the failing
// function name (§7).
func (g *Globals) Warn(behavior Behavior, function, format string, args ...any) {
	if behavior.Has(SuppressWarning) {
		return
	}

	fmt.Fprintf(g.Console, "%s: warning: %s\n", function, fmt.Sprintf(format, args...))
}

// Error writes a suppressible error to Console, prefixed by the failing
// function name (§7).
func (g *Globals) Error(behavior Behavior, function, format string, args ...any) {
	if behavior.Has(SuppressError) {
		return
	}

	fmt.Fprintf(g.Console, "%s: error: %s\n", function, fmt.Sprintf(format, args...))
}

// resetForTest tears down the singleton so tests can re-run Initialize
// under different conditions; it is not part of the public API surface
// used outside _test.go files.
func resetForTest() {
	once = sync.Once{}
	globals = nil
	initErr = nil
}

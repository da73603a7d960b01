package watchconf

import "fmt"

// Reload cycle steps reported in Error.Op.
const (
	OpStat  = "stat"
	OpRead  = "read"
	OpParse = "parse"
)

// Error describes one failed reload cycle. OpStat and OpRead failures are
// I/O problems (missing file, permissions); OpParse failures are malformed
// content. The underlying cause is available through Unwrap.
type Error struct {
	Op   string // one of OpStat, OpRead, OpParse
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("watchconf: %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

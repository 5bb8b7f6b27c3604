package template

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/spirefy/go-hcv/types"
)

// MaxTagLen is the longest accepted tag name.
const MaxTagLen = 64

// Registry holds the expanders keyed by tag name. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	expanders map[string]types.Expander
	logger    *zap.Logger
}

var _ types.Expanders = (*Registry)(nil)

// NewRegistry creates an empty registry. A nil logger discards log output.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Registry{
		expanders: make(map[string]types.Expander),
		logger:    logger.Named("template"),
	}
}

// ValidTag reports whether tag can name an expander: a letter or underscore followed by letters, digits or
// underscores, at most MaxTagLen bytes.
func ValidTag(tag string) bool {
	if tag == "" || len(tag) > MaxTagLen {
		return false
	}

	if !isLetter(tag[0]) && tag[0] != '_' {
		return false
	}

	for i := 1; i < len(tag); i++ {
		if !isTagByte(tag[i]) {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isTagByte(c byte) bool {
	return isLetter(c) || ('0' <= c && c <= '9') || c == '_'
}

// Register
//
// Inserts the expander under tag, replacing whatever was registered there before. A malformed tag or a nil
// expander is refused and leaves the registry untouched.
func (r *Registry) Register(tag string, fn types.Expander) error {
	if !ValidTag(tag) {
		return fmt.Errorf("%w: %q", ErrInvalidTagName, tag)
	}

	if fn == nil {
		return fmt.Errorf("%w: tag %q", ErrNilExpander, tag)
	}

	r.mu.Lock()
	_, replaced := r.expanders[tag]
	r.expanders[tag] = fn
	r.mu.Unlock()

	r.logger.Debug("registered expander", zap.String("tag", tag), zap.Bool("replaced", replaced))
	return nil
}

// MustRegister is Register for expanders compiled into the binary. It panics on error.
func (r *Registry) MustRegister(tag string, fn types.Expander) {
	if err := r.Register(tag, fn); err != nil {
		panic(err)
	}
}

// Forget removes the expander registered under tag. Forgetting an unknown tag only logs a warning.
func (r *Registry) Forget(tag string) {
	r.mu.Lock()
	_, ok := r.expanders[tag]
	delete(r.expanders, tag)
	r.mu.Unlock()

	if !ok {
		r.logger.Warn("forgetting unknown expander", zap.String("tag", tag))
	}
}

// Lookup returns the expander registered under tag.
func (r *Registry) Lookup(tag string) (types.Expander, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.expanders[tag]
	return fn, ok
}

// Names returns the registered tag names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.expanders))
	for name := range r.expanders {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Dispatch
//
// Runs the expander registered under instr.Tag against t. The lock only covers the lookup: the expander itself runs
// unlocked, so a slow expander never holds up other requests and an expander may register or forget tags itself.
// An unknown tag is logged and expands to nothing.
func (r *Registry) Dispatch(t types.Target, instr types.Instruction) error {
	if t == nil || t.Kind() == types.TargetNone {
		return fmt.Errorf("%w: processing instruction %q in %s:%d", ErrNoTarget, instr.Raw, instr.File, instr.Line)
	}

	fn, ok := r.Lookup(instr.Tag)
	if !ok {
		r.logger.Warn("unknown expander tag",
			zap.String("tag", instr.Tag),
			zap.String("file", instr.File),
			zap.Int("line", instr.Line),
			zap.Int64("offset", instr.Offset))
		return nil
	}

	fn(t, instr)
	return nil
}

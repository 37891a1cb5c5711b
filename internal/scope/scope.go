package scope

import (
	"strings"

	nerr "naftah/internal/errors"
	"naftah/internal/value"
)

// frame is one lexical level: function body, block, loop, case arm, try
// arm, or scope-block (spec §4.D).
type frame struct {
	names map[string]Declaration
}

func newFrame() *frame {
	return &frame{names: make(map[string]Declaration)}
}

// Scope is the ordered stack of frames a tree-walking evaluation pushes
// and pops as it enters and leaves lexical constructs. Depth 0 is global.
type Scope struct {
	frames []*frame

	// lastReceiver implements `:::`'s "reuse the previous qualified
	// receiver in a pipeline" rule (spec §4.D): a per-evaluation-frame
	// register holding the most recently resolved `::` receiver path,
	// reset at each statement boundary (ResetChainRegister).
	lastReceiver string
}

// New creates a Scope with a single global frame (depth 0).
func New() *Scope {
	return &Scope{frames: []*frame{newFrame()}}
}

// Push enters a new lexical frame, returning its depth.
func (s *Scope) Push() int {
	s.frames = append(s.frames, newFrame())
	return len(s.frames) - 1
}

// Pop leaves the innermost frame.
func (s *Scope) Pop() {
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Depth returns the current frame depth (0 = global).
func (s *Scope) Depth() int { return len(s.frames) - 1 }

// Snapshot produces an independent copy of the frame stack for a spawned
// task's closure (spec §4.G: "closures capture an immutable snapshot;
// shared Scope between parent and child tasks is not permitted by
// default"). Variable/Parameter bindings are cloned so a write on either
// side after the snapshot point never crosses it; Function and
// Implementation declarations are shared since they are immutable
// program definitions, not mutable bindings.
func (s *Scope) Snapshot() *Scope {
	out := &Scope{frames: make([]*frame, len(s.frames))}
	for i, f := range s.frames {
		nf := newFrame()
		for name, d := range f.names {
			nf.names[name] = cloneDeclaration(d)
		}
		out.frames[i] = nf
	}
	return out
}

func cloneDeclaration(d Declaration) Declaration {
	switch x := d.(type) {
	case *Variable:
		cp := *x
		return &cp
	case *Parameter:
		cp := *x
		return &cp
	default:
		return d
	}
}

// Declare binds name in the current (innermost) frame. A redeclaration of
// the same name in the same frame shadows the previous binding, matching
// the teacher's own `Scope` rebind-in-place permissiveness.
func (s *Scope) Declare(name string, d Declaration) {
	s.frames[len(s.frames)-1].names[name] = d
}

// Lookup walks frames top-down (innermost first) and returns the deepest
// (nearest) binding for name (spec §4.D).
func (s *Scope) Lookup(name string) (Declaration, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if d, ok := s.frames[i].names[name]; ok {
			return d, true
		}
	}
	return nil, false
}

// Assign writes val to name's current-value slot, walking frames top-down
// exactly like Lookup. A write to an undeclared name creates it at the
// innermost frame (spec §4.D: "a write to an undeclared name at the top
// frame creates it"); a write to a constant fails.
func (s *Scope) Assign(name string, val value.Value, pos nerr.Position) error {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if d, ok := s.frames[i].names[name]; ok {
			return assignInto(d, val, pos)
		}
	}
	s.Declare(name, &Variable{Name: name, CurrentValue: val, IsUpdated: true, DeclaredDepth: s.Depth()})
	return nil
}

func assignInto(d Declaration, val value.Value, pos nerr.Position) error {
	switch x := d.(type) {
	case *Variable:
		if x.IsConst && x.IsUpdated {
			return nerr.New(nerr.ConstantReassignment, pos, x.Name)
		}
		x.CurrentValue = val
		x.IsUpdated = true
		return nil
	case *Parameter:
		if x.IsConst && x.IsUpdated {
			return nerr.New(nerr.ConstantReassignment, pos, x.Name)
		}
		x.CurrentValue = val
		x.IsUpdated = true
		return nil
	default:
		return nerr.New(nerr.TypeMismatch, pos, "لا يمكن إسناد قيمة إلى هذا الإعلان")
	}
}

// CurrentValue reads d's current-value slot, independent of declaration
// kind, so callers needn't type-switch every time they just want a value.
func CurrentValue(d Declaration) value.Value {
	switch x := d.(type) {
	case *Variable:
		return x.CurrentValue
	case *Parameter:
		return x.CurrentValue
	default:
		return nil
	}
}

// Globals returns the name->Declaration bindings in the outermost (depth 0)
// frame, the set an `import` statement (spec §4.D) re-exports into the
// importing scope.
func (s *Scope) Globals() map[string]Declaration {
	return s.frames[0].names
}

// SplitQualified splits a qualified name on `:` (spec §4.D: "Qualified
// names use `:` as the path separator"), e.g. "جافا:لغة:سلسلة" ->
// ["جافا","لغة","سلسلة"].
func SplitQualified(name string) []string {
	return strings.Split(name, ":")
}

// SplitReceiverMember splits a `receiver::member` call name into its
// receiver path and member name. ok is false if name contains no `::`.
func SplitReceiverMember(name string) (receiver, member string, ok bool) {
	i := strings.Index(name, "::")
	if i < 0 {
		return "", "", false
	}
	return name[:i], name[i+2:], true
}

// IsChainReuse reports whether name is the `:::` chained-call-reuse
// marker (spec §4.D): a bare `:::member` reuses the last resolved
// receiver instead of naming one.
func IsChainReuse(name string) (member string, ok bool) {
	if strings.HasPrefix(name, ":::") {
		return name[3:], true
	}
	return "", false
}

// SetChainRegister records the most recently resolved `::` receiver path
// so a following `:::member` segment in the same pipeline can reuse it.
func (s *Scope) SetChainRegister(receiver string) { s.lastReceiver = receiver }

// ChainRegister returns the last `::`-resolved receiver path, or "" if
// none is registered in the current statement.
func (s *Scope) ChainRegister() string { return s.lastReceiver }

// ResetChainRegister clears the `:::` register; the evaluator calls this
// at every statement boundary (spec §4.D: reuse applies only within one
// pipeline, not across statements).
func (s *Scope) ResetChainRegister() { s.lastReceiver = "" }

// OverloadIndex parses a call name's trailing `:N` 1-based overload
// disambiguator (spec §4.D), returning the base name and index (0 if
// absent).
func OverloadIndex(name string) (base string, index int) {
	i := strings.LastIndex(name, ":")
	if i < 0 || i == len(name)-1 {
		return name, 0
	}
	rest := name[i+1:]
	n := 0
	for _, r := range rest {
		if r < '0' || r > '9' {
			return name, 0
		}
		n = n*10 + int(r-'0')
	}
	if n == 0 {
		return name, 0
	}
	return name[:i], n
}

package regex

import (
	"encoding/hex"
	"strings"
)

// encodedPrefix marks group names that were encoded, because they are no valid target names.
const encodedPrefix = "_X"

// isTargetName checks if the name is a valid group name of the target engine,
// which is `[A-Za-z_][A-Za-z0-9_]*`.
func isTargetName(name string) bool {
	if name == "" {
		return false
	}

	for i := 0; i < len(name); i++ {
		c := rune(name[i])
		if !(isASCIILetter(c) || c == '_' || (i > 0 && isDigit(c))) {
			return false
		}
	}

	return true
}

// targetName returns the group name used in the target pattern.
// Valid target names are kept, all other names are encoded as the prefix "_X" followed by the
// uppercase hexadecimal representation of their UTF-8 bytes.
func targetName(name string) string {
	if isTargetName(name) {
		return name
	}

	return encodedPrefix + strings.ToUpper(hex.EncodeToString([]byte(name)))
}

// assignTargetNames sets the target name of all named groups.
// All groups with the same name share a single target name. If two different names are mapped to
// the same target name, a conversion error is returned.
func assignTargetNames(groups []CaptureGroup) (map[string]string, error) {
	names := make(map[string]string)  // name -> target name
	owners := make(map[string]string) // target name -> name

	for i := range groups {
		g := &groups[i]
		if g.Name == "" {
			continue
		}

		t, ok := names[g.Name]
		if !ok {
			t = targetName(g.Name)

			if _, exists := owners[t]; exists {
				return nil, newConversionError("group name collision", g.Start)
			}

			names[g.Name] = t
			owners[t] = g.Name
		}

		g.TargetName = t
	}

	return names, nil
}

// scopeStack tracks the group names declared on the current path of alternatives.
// Each open group has one frame; a frame holds one set of names per alternative of the group.
// The bottom frame belongs to the whole pattern.
type scopeStack struct {
	frames [][]map[string]struct{}
}

// init initializes the stack with the frame of the whole pattern.
func (st *scopeStack) init() {
	st.frames = [][]map[string]struct{}{{nil}}
}

// push opens the frame of a new group.
func (st *scopeStack) push() {
	st.frames = append(st.frames, []map[string]struct{}{nil})
}

// alternate starts a new alternative of the innermost group.
func (st *scopeStack) alternate() {
	top := len(st.frames) - 1
	st.frames[top] = append(st.frames[top], nil)
}

// pop closes the innermost group. The names of all of its alternatives are hoisted into the
// current alternative of the enclosing group, because all of them may be bound after the group.
func (st *scopeStack) pop() {
	top := len(st.frames) - 1
	closed := st.frames[top]
	st.frames = st.frames[:top]

	for _, alt := range closed {
		for name := range alt {
			st.add(name)
		}
	}
}

// declare adds the name to the current alternative of the innermost group.
// If the name is already declared on the current path of alternatives, false is returned.
func (st *scopeStack) declare(name string) bool {
	for _, f := range st.frames {
		if _, ok := f[len(f)-1][name]; ok {
			return false
		}
	}

	st.add(name)
	return true
}

// add adds the name to the current alternative of the innermost group.
func (st *scopeStack) add(name string) {
	f := st.frames[len(st.frames)-1]
	cur := &f[len(f)-1]
	if *cur == nil {
		*cur = make(map[string]struct{})
	}
	(*cur)[name] = struct{}{}
}

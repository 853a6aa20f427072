package jsre

import (
	"go.starlark.net/starlark"

	"github.com/magnetde/starlark-jsre/regex"
)

// regexpSplit splits `str` at all matches of pattern `p` like `String.prototype.split`.
// Empty matches at the position of the previous split and matches at the end of the string do not
// split the string. If limit is not negative, at most limit elements are returned.
func regexpSplit(p *Pattern, str string, limit int) (starlark.Value, error) {
	var list []starlark.Value

	if limit == 0 {
		return starlark.NewList(list), nil
	}

	in := regex.NewInput(str)
	size := in.Len()
	unicode := p.has(regex.FlagUnicode)
	sticky := p.has(regex.FlagSticky)

	full := func() bool {
		return limit >= 0 && len(list) >= limit
	}

	if size == 0 {
		a, err := p.re.FindAt(in, 0, nil)
		if err != nil {
			return nil, err
		}
		if a == nil {
			list = append(list, starlark.String(str))
		}

		return starlark.NewList(list), nil
	}

	beg := 0 // start of the next element
	q := 0   // search position

	for q < size {
		a, err := p.re.FindAt(in, q, nil)
		if err != nil {
			return nil, err
		}
		if a == nil {
			if !sticky {
				break
			}

			// a sticky pattern only matches at q
			q = in.AdvanceIndex(q, unicode)
			continue
		}

		s, e := a[0], min(a[1], size)
		if s >= size {
			break
		}
		if e == beg {
			q = in.AdvanceIndex(s, unicode)
			continue
		}

		list = append(list, starlark.String(in.Substring(beg, s)))
		if full() {
			return starlark.NewList(list), nil
		}

		// Add all groups
		for i := 1; 2*i < len(a); i++ {
			if a[2*i] >= 0 {
				list = append(list, starlark.String(in.Substring(a[2*i], a[2*i+1])))
			} else {
				list = append(list, starlark.None)
			}

			if full() {
				return starlark.NewList(list), nil
			}
		}

		beg = e
		q = beg
	}

	// Append even if empty
	list = append(list, starlark.String(in.Substring(beg, size)))

	return starlark.NewList(list), nil
}

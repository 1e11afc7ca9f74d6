package resolve

import "github.com/scanset/ESP-Agent-SDK/internal/model"

// ResolveSets recursively expands each declared set's members (direct
// object refs and nested set refs) and applies its algebra operator,
// per §4.2 step 4. It does not apply filters; call ApplyFilter
// separately once a set's unfiltered membership is known, since
// filtering requires invoking a collector (the one I/O-performing step
// of resolution).
func ResolveSets(sets []SetDecl, objects map[string]model.Object) (map[string][]string, error) {
	byName := make(map[string]*SetDecl, len(sets))
	for i := range sets {
		byName[sets[i].Name] = &sets[i]
	}

	resolved := make(map[string][]string, len(sets))
	inProgress := make(map[string]bool)

	var resolve func(name string) ([]string, error)
	resolve = func(name string) ([]string, error) {
		if ids, ok := resolved[name]; ok {
			return ids, nil
		}
		if inProgress[name] {
			return nil, model.NewError(model.ErrUnknownSet, "cyclic set reference involving \""+name+"\"")
		}
		decl, ok := byName[name]
		if !ok {
			return nil, model.NewError(model.ErrUnknownSet, "unknown set \""+name+"\"")
		}
		inProgress[name] = true

		memberLists := make([][]string, 0, len(decl.Members))
		for _, m := range decl.Members {
			if m.IsSetRef {
				ids, err := resolve(m.Ref)
				if err != nil {
					return nil, err
				}
				memberLists = append(memberLists, ids)
			} else {
				if _, ok := objects[m.Ref]; !ok {
					return nil, model.NewError(model.ErrUnknownObject, "unknown object \""+m.Ref+"\" in set \""+name+"\"")
				}
				memberLists = append(memberLists, []string{m.Ref})
			}
		}

		ids, err := applySetOp(decl.Op, memberLists)
		if err != nil {
			return nil, err
		}

		delete(inProgress, name)
		resolved[name] = ids
		return ids, nil
	}

	for _, s := range sets {
		if _, err := resolve(s.Name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func applySetOp(op model.SetOp, lists [][]string) ([]string, error) {
	switch op {
	case model.SetOpUnion:
		return dedupeOrdered(flatten(lists)), nil
	case model.SetOpIntersection:
		return intersectAll(lists), nil
	case model.SetOpComplement:
		return complement(lists), nil
	default:
		return nil, model.NewError(model.ErrEmptySet, "unknown set operator")
	}
}

func flatten(lists [][]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func dedupeOrdered(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func intersectAll(lists [][]string) []string {
	if len(lists) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, l := range lists {
		seenInThis := make(map[string]bool)
		for _, id := range l {
			if !seenInThis[id] {
				seenInThis[id] = true
				counts[id]++
			}
		}
	}
	var out []string
	for _, id := range lists[0] {
		if counts[id] == len(lists) {
			alreadyAdded := false
			for _, o := range out {
				if o == id {
					alreadyAdded = true
					break
				}
			}
			if !alreadyAdded {
				out = append(out, id)
			}
		}
	}
	return out
}

func complement(lists [][]string) []string {
	if len(lists) == 0 {
		return nil
	}
	exclude := make(map[string]bool)
	for _, l := range lists[1:] {
		for _, id := range l {
			exclude[id] = true
		}
	}
	var out []string
	seen := make(map[string]bool)
	for _, id := range lists[0] {
		if !exclude[id] && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

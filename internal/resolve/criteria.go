package resolve

import "github.com/scanset/ESP-Agent-SDK/internal/model"

// ExecutableCriterion is the output of criterion flattening (§4.2 step
// 6): a criterion's CTN type, test spec, and state refs, together with
// its fully expanded, order-preserving, deduplicated object id list
// (direct refs plus set expansions).
type ExecutableCriterion struct {
	CTNType    string
	Test       model.TestSpec
	StateRefs  []string
	ObjectIDs  []string
}

// FlattenCriteria expands each declared criterion's object and set
// references into a single resolved object id list.
func FlattenCriteria(decls []CriterionDecl, resolvedSets map[string][]string, objects map[string]model.Object) ([]ExecutableCriterion, error) {
	out := make([]ExecutableCriterion, 0, len(decls))
	for _, d := range decls {
		var ids []string
		for _, ref := range d.ObjectRefs {
			if _, ok := objects[ref]; !ok {
				return nil, model.NewError(model.ErrUnknownObject, "criterion references unknown object \""+ref+"\"")
			}
			ids = append(ids, ref)
		}
		for _, ref := range d.SetRefs {
			setIDs, ok := resolvedSets[ref]
			if !ok {
				return nil, model.NewError(model.ErrUnknownSet, "criterion references unknown set \""+ref+"\"")
			}
			ids = append(ids, setIDs...)
		}
		ids = dedupeOrdered(ids)

		out = append(out, ExecutableCriterion{
			CTNType:   d.CTNType,
			Test:      d.Test,
			StateRefs: d.StateRefs,
			ObjectIDs: ids,
		})
	}
	return out, nil
}

// FlattenCRI walks root and checks that every leaf's CriterionIndex is
// in range for criteria (§4.2 step 7). The tree shape and the leaf
// indices are left unchanged.
func FlattenCRI(root *model.CRINode, criteria []ExecutableCriterion) error {
	if root == nil {
		return nil
	}
	if root.Kind == model.CRILeaf {
		if root.CriterionIndex < 0 || root.CriterionIndex >= len(criteria) {
			return model.NewError(model.ErrUnknownObject, "CRI leaf references out-of-range criterion index")
		}
		return nil
	}
	for _, child := range root.Children {
		if err := FlattenCRI(child, criteria); err != nil {
			return err
		}
	}
	return nil
}

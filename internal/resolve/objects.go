package resolve

import "github.com/scanset/ESP-Agent-SDK/internal/model"

// ResolveObjects substitutes variable references in each declared
// object's fields and checks identifier uniqueness (§4.2 step 3).
func ResolveObjects(decls []ObjectDecl, env Environment, declared map[string]bool) (map[string]model.Object, error) {
	out := make(map[string]model.Object, len(decls))
	for _, d := range decls {
		if _, dup := out[d.ID]; dup {
			return nil, model.NewError(model.ErrUnknownObject, "duplicate object identifier \""+d.ID+"\"")
		}
		fields := make(map[string]model.Value, len(d.Fields))
		for name, fv := range d.Fields {
			v, err := resolveFieldValue(fv, env, declared)
			if err != nil {
				return nil, err
			}
			fields[name] = v
		}
		out[d.ID] = model.Object{
			ID:       d.ID,
			Fields:   fields,
			Behavior: d.Behavior,
			Comment:  d.Comment,
		}
	}
	return out, nil
}

// Package fs implements the filesystem collection primitive of §4.7:
// given a path, return metadata, content, or parsed record data as the
// contract's collection mode requests.
package fs

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"unicode/utf8"

	"github.com/scanset/ESP-Agent-SDK/internal/model"
)

// Mode names which shape of data the filesystem primitive returns for
// one object.
type Mode string

const (
	ModeMetadata Mode = "metadata"
	ModeContent  Mode = "content"
	ModeRecord   Mode = "record"
)

// Primitive is the generic filesystem collector. It has no knowledge
// of any particular contract; callers (concrete collectors) parse its
// CollectedData fields per their own field_mappings.
type Primitive struct{}

// New returns a filesystem Primitive.
func New() *Primitive { return &Primitive{} }

// Collect reads path under the given mode and behavior hints, and
// returns a CollectedData with fields named per mode:
//   - metadata: exists, mode, owner, group, size, readable
//   - content: content (UTF-8 string) or binary (bytes) if BinaryMode
//   - record: the parsed JSON as a RecordData value under "record"
func (p *Primitive) Collect(path string, mode Mode, hints model.BehaviorHints) (model.CollectedData, error) {
	info, err := statFollowingHints(path, hints)
	if err != nil {
		if os.IsNotExist(err) {
			return model.CollectedData{Exists: false}, model.NewError(model.ErrObjectNotFound, fmt.Sprintf("path %q does not exist", path))
		}
		if os.IsPermission(err) {
			return model.CollectedData{}, model.NewError(model.ErrAccessDenied, fmt.Sprintf("access denied reading %q", path))
		}
		return model.CollectedData{}, model.Wrap(model.ErrCollectionFailed, fmt.Sprintf("failed to stat %q", path), err)
	}

	fields := make(map[string]model.Value)
	method := model.CollectionMethod{Type: "filesystem", Target: path}

	switch mode {
	case ModeMetadata:
		populateMetadataFields(fields, path, info)
	case ModeContent:
		if err := populateContentFields(fields, path, hints); err != nil {
			return model.CollectedData{}, err
		}
	case ModeRecord:
		if err := populateRecordFields(fields, path); err != nil {
			return model.CollectedData{}, err
		}
	default:
		return model.CollectedData{}, model.NewError(model.ErrUnsupportedCtnType, fmt.Sprintf("unsupported filesystem collection mode %q", mode))
	}

	return model.CollectedData{
		Fields: fields,
		Method: method,
		Exists: true,
	}, nil
}

func statFollowingHints(path string, hints model.BehaviorHints) (os.FileInfo, error) {
	if hints.FollowSymlinks {
		return os.Stat(path)
	}
	return os.Lstat(path)
}

func populateMetadataFields(fields map[string]model.Value, path string, info os.FileInfo) {
	fields["exists"] = model.NewBool(true)
	fields["mode"] = model.NewString(fmt.Sprintf("%04o", info.Mode().Perm()))
	fields["size"] = model.NewInt(info.Size())
	fields["readable"] = model.NewBool(isReadable(info))

	if sys, ok := info.Sys().(*syscall.Stat_t); ok {
		fields["owner"] = model.NewString(strconv.FormatUint(uint64(sys.Uid), 10))
		fields["group"] = model.NewString(strconv.FormatUint(uint64(sys.Gid), 10))
	}
	_ = path
}

func isReadable(info os.FileInfo) bool {
	return info.Mode().Perm()&0o444 != 0
}

func populateContentFields(fields map[string]model.Value, path string, hints model.BehaviorHints) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Wrap(model.ErrCollectionFailed, fmt.Sprintf("failed to read %q", path), err)
	}
	if hints.BinaryMode {
		fields["binary"] = model.NewBinary(data)
		return nil
	}
	if !utf8.Valid(data) {
		return model.NewError(model.ErrCollectionFailed, fmt.Sprintf("%q is not valid UTF-8 content; set binary_mode", path))
	}
	fields["content"] = model.NewString(string(data))
	return nil
}

func populateRecordFields(fields map[string]model.Value, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Wrap(model.ErrCollectionFailed, fmt.Sprintf("failed to read %q", path), err)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Wrap(model.ErrCollectionFailed, fmt.Sprintf("failed to parse JSON in %q", path), err)
	}
	fields["record"] = model.NewRecord(toRecordData(raw))
	return nil
}

func toRecordData(v any) *model.RecordData {
	switch val := v.(type) {
	case map[string]any:
		fields := make([]model.RecordField, 0, len(val))
		for k, fv := range val {
			fields = append(fields, model.RecordField{Name: k, Value: toValue(fv)})
		}
		return model.NewRecordMap(fields...)
	case []any:
		values := make([]model.Value, len(val))
		for i, iv := range val {
			values[i] = toValue(iv)
		}
		return model.NewRecordSeq(values...)
	default:
		return model.NewRecordMap()
	}
}

func toValue(v any) model.Value {
	switch val := v.(type) {
	case string:
		return model.NewString(val)
	case float64:
		return model.NewFloat(val)
	case bool:
		return model.NewBool(val)
	case map[string]any, []any:
		return model.NewRecord(toRecordData(val))
	case nil:
		return model.NewString("")
	default:
		return model.NewString(fmt.Sprintf("%v", val))
	}
}

// Walk recursively lists paths under root, honoring hints.IncludeHidden
// and hints.MaxDepth, for contracts whose collection mode targets a
// directory rather than a single file.
func Walk(root string, hints model.BehaviorHints) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root {
			if !hints.IncludeHidden && isHidden(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if hints.HasMaxDepth {
				depth := relDepth(root, path)
				if depth > hints.MaxDepth {
					if d.IsDir() {
						return filepath.SkipDir
					}
					return nil
				}
			}
		}
		if !d.IsDir() {
			out = append(out, path)
		}
		if d.IsDir() && !hints.Recursive && path != root {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, model.Wrap(model.ErrCollectionFailed, fmt.Sprintf("failed to walk %q", root), err)
	}
	return out, nil
}

func isHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}

func relDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0
	}
	depth := 0
	for _, c := range rel {
		if c == filepath.Separator {
			depth++
		}
	}
	return depth
}

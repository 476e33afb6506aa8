package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/wI2L/jsondiff"
)

// Patch is an ordered list of RFC 6902 operations.
type Patch = jsondiff.Patch

// Operation is a single RFC 6902 operation.
type Operation = jsondiff.Operation

var errNoChanges = errors.New("update carries no changes")

// Diff computes the operations that turn before into after. The patch is
// empty when both objects hold the same keys and values.
func Diff(before, after Content) (Patch, error) {
	patch, err := jsondiff.Compare(orEmpty(before), orEmpty(after))
	if err != nil {
		return nil, fmt.Errorf("failed to compute diff: %w", err)
	}
	return patch, nil
}

// Apply applies ops to a copy of base, in order. ops may be a Patch or the
// generic form read back from storage. Any failing operation aborts the whole
// patch with a *PatchApplyError.
func Apply(base Content, ops any) (Content, error) {
	if ops == nil {
		return nil, &PatchApplyError{Err: errNoChanges}
	}

	raw, err := json.Marshal(ops)
	if err != nil {
		return nil, &PatchApplyError{Err: fmt.Errorf("failed to encode patch: %w", err)}
	}
	patch, err := jsonpatch.DecodePatch(raw)
	if err != nil {
		return nil, &PatchApplyError{Err: fmt.Errorf("failed to decode patch: %w", err)}
	}

	doc, err := json.Marshal(orEmpty(base))
	if err != nil {
		return nil, &PatchApplyError{Err: fmt.Errorf("failed to encode document: %w", err)}
	}
	for i, op := range patch {
		if op.Kind() == "test" {
			if err := requirePath(doc, op); err != nil {
				return nil, &PatchApplyError{Err: fmt.Errorf("operation %d: %w", i, err)}
			}
		}
		doc, err = jsonpatch.Patch{op}.Apply(doc)
		if err != nil {
			return nil, &PatchApplyError{Err: fmt.Errorf("operation %d: %w", i, err)}
		}
	}

	result, err := decodeJSON(doc)
	if err != nil {
		return nil, &PatchApplyError{Err: fmt.Errorf("failed to decode patched document: %w", err)}
	}
	m, ok := result.(map[string]any)
	if !ok {
		return nil, &PatchApplyError{Err: fmt.Errorf("patched document is %T, not an object", result)}
	}
	return Content(m), nil
}

// requirePath fails when the target of op does not exist in doc. A test
// against null would otherwise pass on a missing member.
func requirePath(doc []byte, op jsonpatch.Operation) error {
	path, err := op.Path()
	if err != nil {
		return err
	}
	value, err := decodeJSON(doc)
	if err != nil {
		return err
	}
	if !pointerExists(value, path) {
		return fmt.Errorf("test operation does not apply: doc is missing path: %s", path)
	}
	return nil
}

// pointerExists resolves an RFC 6901 pointer against a decoded document.
func pointerExists(value any, pointer string) bool {
	if pointer == "" {
		return true
	}
	if !strings.HasPrefix(pointer, "/") {
		return false
	}
	for _, token := range strings.Split(pointer[1:], "/") {
		token = strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
		switch node := value.(type) {
		case map[string]any:
			next, ok := node[token]
			if !ok {
				return false
			}
			value = next
		case []any:
			i, err := strconv.Atoi(token)
			if err != nil || i < 0 || i >= len(node) || token != strconv.Itoa(i) {
				return false
			}
			value = node[i]
		default:
			return false
		}
	}
	return true
}

func orEmpty(c Content) Content {
	if c == nil {
		return Content{}
	}
	return c
}

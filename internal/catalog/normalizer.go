package catalog

import (
	"fmt"
	"strconv"
	"time"

	"cinefeed/internal/domain"
)

// Sentinel values filled in when a raw item omits a field. The catalog
// was born Brazilian-Portuguese and the UI copy expects these exact
// strings.
const (
	untitledSentinel      = "Sem Título"
	noDescriptionSentinel = "Sem descrição."
	cloudCategory         = "Nuvem"
)

// fieldFallbacks maps each canonical attribute to the raw field names
// tried left to right. The three origins (local entry, provider result,
// cloud item) spell the same attribute differently; first present wins.
var fieldFallbacks = map[string][]string{
	"title":       {"title", "name"},
	"cover":       {"cover", "poster"},
	"backdrop":    {"backdrop", "cover"},
	"description": {"description", "overview"},
	"videoUrl":    {"videoUrl", "magnet"},
	"year":        {"year"},
	"type":        {"type"},
	"category":    {"category"},
}

// Normalize converts one heterogeneous raw item into a canonical Title.
// Missing optional fields never error; only a nil item does. The id is
// left zero for the store to assign.
func Normalize(raw map[string]any) (domain.Title, error) {
	if raw == nil {
		return domain.Title{}, fmt.Errorf("%w: item is not an object", domain.ErrValidation)
	}

	pick := func(attr string) string {
		for _, field := range fieldFallbacks[attr] {
			if v, ok := stringValue(raw[field]); ok && v != "" {
				return v
			}
		}
		return ""
	}

	t := domain.Title{
		Title:       pick("title"),
		Cover:       pick("cover"),
		Backdrop:    pick("backdrop"),
		Description: pick("description"),
		Year:        pick("year"),
		VideoURL:    pick("videoUrl"),
		Category:    pick("category"),
		Type:        domain.NormalizeContentType(pick("type")),
	}
	if t.Title == "" {
		t.Title = untitledSentinel
	}
	if t.Description == "" {
		t.Description = noDescriptionSentinel
	}
	if t.Year == "" {
		t.Year = strconv.Itoa(time.Now().Year())
	}
	if t.Category == "" {
		t.Category = cloudCategory
	}
	return t, nil
}

// stringValue coerces the scalar JSON types a loose feed may use for a
// text field. Years in particular arrive as both "2022" and 2022.
func stringValue(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10), true
		}
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case nil:
		return "", false
	default:
		return "", false
	}
}

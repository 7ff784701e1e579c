package storage

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"xalqbahosi/internal/domain"
)

// Field names older clients used for the same location attributes.
var (
	locationIDFields    = []string{"id", "locationId", "_id"}
	locationLatFields   = []string{"lat", "latitude"}
	locationLonFields   = []string{"lon", "lng", "longitude"}
	locationCountFields = []string{"reviewCount", "reviews"}
)

type idBackfill struct {
	seq int64
	id  string
}

// normalizeLocations decodes location documents and guarantees every result
// has an id that is unique within the set. The id comes from the document
// id, then from alternate payload fields, then from the row sequence, so an
// id-less document keeps its id across reads even when the backfill fails.
// Documents whose stored id differs from the one handed out are returned
// for backfill.
func normalizeLocations(docs []document) ([]domain.Location, []idBackfill) {
	out := make([]domain.Location, 0, len(docs))
	var backfill []idBackfill
	seen := make(map[string]bool, len(docs))

	for _, d := range docs {
		l := decodeLocation(d.Data)

		id := strings.TrimSpace(d.DocID)
		if id == "" {
			id = firstString(d.Data, locationIDFields...)
		}
		if id == "" || seen[id] {
			id = fmt.Sprintf("loc_%d", d.Seq)
		}
		if seen[id] {
			id = "loc_" + uuid.NewString()
		}
		seen[id] = true
		l.ID = id

		if id != d.DocID {
			backfill = append(backfill, idBackfill{seq: d.Seq, id: id})
		}
		out = append(out, l)
	}
	return out, backfill
}

func decodeLocation(data map[string]any) domain.Location {
	l := domain.Location{
		Name:    firstString(data, "name"),
		Type:    firstString(data, "type", "category"),
		Address: firstString(data, "address"),
	}
	l.Lat, _ = firstFloat(data, locationLatFields...)
	l.Lon, _ = firstFloat(data, locationLonFields...)
	if v, ok := firstFloat(data, "rating"); ok {
		l.Rating = domain.RoundRating(v)
	}
	if v, ok := firstFloat(data, locationCountFields...); ok && v > 0 {
		l.ReviewCount = int(v)
	}
	return l
}

// locationData is the payload written for a location document.
func locationData(l domain.Location) map[string]any {
	return map[string]any{
		"name":        l.Name,
		"type":        l.Type,
		"address":     l.Address,
		"lat":         l.Lat,
		"lon":         l.Lon,
		"rating":      l.Rating.Float64(),
		"reviewCount": l.ReviewCount,
	}
}

func applyPatchData(data map[string]any, patch domain.LocationPatch) map[string]any {
	merged := make(map[string]any, len(data)+2)
	for k, v := range data {
		merged[k] = v
	}
	if patch.Rating != nil {
		merged["rating"] = patch.Rating.Float64()
	}
	if patch.ReviewCount != nil {
		merged["reviewCount"] = *patch.ReviewCount
		delete(merged, "reviews")
	}
	return merged
}

// toData converts a record into a document payload without its id.
func toData(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	data := map[string]any{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	delete(data, "id")
	return data, nil
}

// fromData decodes a payload into out. Numeric ids are turned into strings
// first since early documents stored them as numbers.
func fromData[T any](data map[string]any, out *T, idFields ...string) error {
	fixed := make(map[string]any, len(data))
	for k, v := range data {
		fixed[k] = v
	}
	for _, f := range idFields {
		if v, ok := fixed[f]; ok {
			fixed[f] = asString(v)
		}
	}
	raw, err := json.Marshal(fixed)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

func firstString(data map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := data[k]; ok {
			if s := strings.TrimSpace(asString(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

func firstFloat(data map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := data[k]; ok {
			if f, ok := asFloat(v); ok {
				return f, true
			}
		}
	}
	return 0, false
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

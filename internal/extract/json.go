// internal/extract/json.go
package extract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/valpere/StatHarvester/pkg/types"
)

func (e *Extractor) extractJSON(pageURL string, body []byte, out *Result) error {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}

	switch doc := v.(type) {
	case []interface{}:
		count := 0
		for _, item := range doc {
			if count >= e.limits.MaxJSONItems {
				break
			}
			obj, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			out.Records = append(out.Records, e.jsonRecord(obj, pageURL))
			count++
		}
	case map[string]interface{}:
		out.Records = append(out.Records, e.jsonRecord(doc, pageURL))
	default:
		rec := e.newRecord(pageURL)
		rec["value"] = stringifyScalar(v)
		rec["data_type"] = "json"
		out.Records = append(out.Records, rec)
	}
	return nil
}

func (e *Extractor) jsonRecord(obj map[string]interface{}, pageURL string) types.Record {
	rec := Flatten(obj, e.limits.MaxListElements)
	rec[types.FieldSourceURL] = pageURL
	rec[types.FieldScrapeDate] = time.Now().Format(types.ScrapeDateFormat)
	rec["data_type"] = "json"
	return rec
}

// Flatten converts a nested object into a flat record. Nested keys are joined
// with underscores; lists contribute at most maxList elements per nesting
// level, suffixed with their index; scalars are stringified. Flattening an
// already-flat object is the identity.
func Flatten(obj map[string]interface{}, maxList int) types.Record {
	rec := make(types.Record)
	flattenInto(rec, obj, "", maxList)
	return rec
}

func flattenInto(rec types.Record, obj map[string]interface{}, prefix string, maxList int) {
	for k, v := range obj {
		key := k
		if prefix != "" {
			key = prefix + "_" + k
		}
		switch val := v.(type) {
		case map[string]interface{}:
			flattenInto(rec, val, key, maxList)
		case []interface{}:
			for i, item := range val {
				if maxList > 0 && i >= maxList {
					break
				}
				idxKey := key + "_" + strconv.Itoa(i)
				if sub, ok := item.(map[string]interface{}); ok {
					flattenInto(rec, sub, idxKey, maxList)
				} else {
					rec[idxKey] = stringifyScalar(item)
				}
			}
		default:
			rec[key] = stringifyScalar(v)
		}
	}
}

func stringifyScalar(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

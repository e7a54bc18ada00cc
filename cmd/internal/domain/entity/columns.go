package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// The nested slot structures are persisted as JSON text columns; each type
// below implements sql.Scanner and driver.Valuer so gorm can round-trip it.

// EventCatalog maps a date key (DDMMYY) to the ordered time labels offered
// on that date.
type EventCatalog map[string][]string

// SlotChoice maps a single date key to a sequence holding exactly one
// chosen time label.
type SlotChoice map[string][]string

// IntList is a JSON-encoded list of user ids.
type IntList []int

// TimelineItems is a JSON-encoded ordered list of timeline entries.
type TimelineItems []TimelineItem

// GoogleEventRefs is a JSON-encoded list of external event references.
type GoogleEventRefs []GoogleEventRef

func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonScan(dst any, src any) error {
	switch s := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(s, dst)
	case string:
		return json.Unmarshal([]byte(s), dst)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
}

func (c EventCatalog) Value() (driver.Value, error) { return jsonValue(c) }
func (c *EventCatalog) Scan(src any) error          { return jsonScan(c, src) }

func (s SlotChoice) Value() (driver.Value, error) { return jsonValue(s) }
func (s *SlotChoice) Scan(src any) error          { return jsonScan(s, src) }

func (l IntList) Value() (driver.Value, error) { return jsonValue(l) }
func (l *IntList) Scan(src any) error          { return jsonScan(l, src) }

func (t TimelineItems) Value() (driver.Value, error) { return jsonValue(t) }
func (t *TimelineItems) Scan(src any) error          { return jsonScan(t, src) }

func (g GoogleEventRefs) Value() (driver.Value, error) { return jsonValue(g) }
func (g *GoogleEventRefs) Scan(src any) error          { return jsonScan(g, src) }

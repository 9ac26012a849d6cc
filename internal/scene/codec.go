package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

const FormatVersion = "1.0"

var ErrMalformedScene = errors.New("malformed scene document")

// Document is the on-disk scene layout.
type Document struct {
	Version      string   `json:"version"`
	NextEntityID int      `json:"next_entity_id"`
	Entities     []Record `json:"entities"`
}

// Record is one entity in a Document. Size and color fields are optional when
// reading; an entity keeps its defaults for whatever is missing.
type Record struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  *int   `json:"width,omitempty"`
	Height *int   `json:"height,omitempty"`
	ColorR *int   `json:"color_r,omitempty"`
	ColorG *int   `json:"color_g,omitempty"`
	ColorB *int   `json:"color_b,omitempty"`
}

func NewRecord(e Entity) Record {
	c := e.Color()
	return Record{
		ID:     e.ID(),
		Name:   e.Name(),
		X:      e.Position().X,
		Y:      e.Position().Y,
		Width:  intPtr(e.Width()),
		Height: intPtr(e.Height()),
		ColorR: intPtr(int(c.R)),
		ColorG: intPtr(int(c.G)),
		ColorB: intPtr(int(c.B)),
	}
}

func (r Record) Entity() Entity {
	e := NewEntity(r.ID, r.Name, image.Pt(r.X, r.Y))
	if r.Width != nil && r.Height != nil {
		e.SetSize(*r.Width, *r.Height)
	}
	if r.ColorR != nil && r.ColorG != nil && r.ColorB != nil {
		e.SetColor(color.RGBA{R: channel(*r.ColorR), G: channel(*r.ColorG), B: channel(*r.ColorB)})
	}
	return e
}

// Encode snapshots the store into a Document.
func (s *Store) Encode() Document {
	doc := Document{
		Version:      FormatVersion,
		NextEntityID: s.nextID,
		Entities:     make([]Record, 0, len(s.entities)),
	}
	for _, e := range s.entities {
		doc.Entities = append(doc.Entities, NewRecord(e))
	}
	return doc
}

func (s *Store) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(s.Encode(), "", "    ")
}

// ParseDocument validates data and returns the entities and next id it
// describes, without touching any store.
func ParseDocument(data []byte) ([]Entity, int, error) {
	doc, err := parseObject(data)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedScene, err)
	}

	nextID, ok, err := doc.number("next_entity_id")
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedScene, err)
	}
	if !ok {
		nextID = 1
	}

	entities := make([]Entity, 0)
	var items []json.RawMessage
	if raw, ok := doc["entities"]; !ok || json.Unmarshal(raw, &items) != nil {
		// A missing or non-array "entities" member loads as an empty scene.
		return entities, nextID, nil
	}
	for i, item := range items {
		if !isObject(item) {
			continue
		}
		rec, err := readRecord(item)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: entity %d: %v", ErrMalformedScene, i, err)
		}
		entities = append(entities, rec.Entity())
	}
	return entities, nextID, nil
}

// Decode replaces the store contents with the scene in data. On error the
// store is left untouched. A load is not a command: history is neither
// recorded nor cleared.
func (s *Store) Decode(data []byte) error {
	entities, nextID, err := ParseDocument(data)
	if err != nil {
		return err
	}

	s.drag = gesture{}
	s.entities = entities
	s.selected = NoSelection
	s.nextID = nextID

	for i := range s.entities {
		s.emit(EntityAdded, i)
	}
	return nil
}

// MarshalEntity encodes a single entity as a scene record, the format used
// for clipboard transfer.
func MarshalEntity(e Entity) ([]byte, error) {
	return json.Marshal(NewRecord(e))
}

func UnmarshalEntity(data []byte) (Entity, error) {
	data = bytes.TrimSpace(data)
	if !isObject(data) {
		return Entity{}, fmt.Errorf("%w: entity record must be an object", ErrMalformedScene)
	}
	rec, err := readRecord(data)
	if err != nil {
		return Entity{}, fmt.Errorf("%w: %v", ErrMalformedScene, err)
	}
	return rec.Entity(), nil
}

// object holds the members of a JSON object. Keys match exactly, unlike
// struct decoding in encoding/json.
type object map[string]json.RawMessage

func parseObject(data []byte) (object, error) {
	if !isObject(data) {
		return nil, errors.New("document must be an object")
	}
	var obj object
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// number reads key as an int. Any JSON number is accepted and truncated
// toward zero; absent and null members report ok == false.
func (o object) number(key string) (int, bool, error) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return 0, false, nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false, fmt.Errorf("field %q: not a number", key)
	}
	v = math.Trunc(min(max(v, math.MinInt32), math.MaxInt32))
	return int(v), true, nil
}

func (o object) optional(key string) (*int, error) {
	v, ok, err := o.number(key)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

func (o object) text(key string) (string, error) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return "", nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("field %q: not a string", key)
	}
	return v, nil
}

func readRecord(data []byte) (Record, error) {
	obj, err := parseObject(data)
	if err != nil {
		return Record{}, err
	}

	var rec Record
	if rec.Name, err = obj.text("name"); err != nil {
		return Record{}, err
	}
	for key, dst := range map[string]*int{"id": &rec.ID, "x": &rec.X, "y": &rec.Y} {
		if *dst, _, err = obj.number(key); err != nil {
			return Record{}, err
		}
	}
	for key, dst := range map[string]**int{
		"width": &rec.Width, "height": &rec.Height,
		"color_r": &rec.ColorR, "color_g": &rec.ColorG, "color_b": &rec.ColorB,
	} {
		if *dst, err = obj.optional(key); err != nil {
			return Record{}, err
		}
	}
	return rec, nil
}

func isNull(data json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

func isObject(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func channel(v int) uint8 {
	return uint8(min(max(v, 0), 255))
}

func intPtr(v int) *int {
	return &v
}

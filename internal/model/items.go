package model

import (
	"encoding/json"
	"time"
)

// Item is a single entry of an items document.
type Item struct {
	// ID is the creation time in unix milliseconds
	ID   int64  `json:"id"`
	Text string `json:"text"`

	Extra Extra `json:"-"`
}

func (it Item) MarshalJSON() ([]byte, error) {
	type plain Item
	return mergeExtra(plain(it), it.Extra)
}

func (it *Item) UnmarshalJSON(data []byte) error {
	type plain Item

	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	extra, err := collectExtra(data, "id", "text")
	if err != nil {
		return err
	}

	*it = Item(p)
	it.Extra = extra

	return nil
}

// ItemList is the example document schema: {"items": [...]}.
type ItemList struct {
	Items []Item `json:"items"`

	// Extra keeps the rest of the document; only items is edited here
	Extra Extra `json:"-"`
}

func (l ItemList) MarshalJSON() ([]byte, error) {
	type plain ItemList
	return mergeExtra(plain(l), l.Extra)
}

func (l *ItemList) UnmarshalJSON(data []byte) error {
	type plain ItemList

	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	extra, err := collectExtra(data, "items")
	if err != nil {
		return err
	}

	*l = ItemList(p)
	l.Extra = extra

	return nil
}

// NewItemList returns {"items": []}.
func NewItemList() ItemList {
	return ItemList{Items: []Item{}}
}

// Add appends an item with an id derived from now. Ids are bumped past the
// last item's id so two adds in the same millisecond stay distinct.
func (l *ItemList) Add(text string, now time.Time) Item {
	id := now.UnixMilli()
	if n := len(l.Items); n > 0 && l.Items[n-1].ID >= id {
		id = l.Items[n-1].ID + 1
	}

	item := Item{ID: id, Text: text}
	l.Items = append(l.Items, item)

	return item
}

// Remove drops every item with id and reports whether anything was removed.
func (l *ItemList) Remove(id int64) bool {
	kept := l.Items[:0]

	for _, it := range l.Items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}

	removed := len(kept) != len(l.Items)
	l.Items = kept

	return removed
}

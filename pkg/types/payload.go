package types

import "encoding/json"

// DisplayRow is one display-ready selection. Invalid rows carry only the
// original identifier as both id and title.
type DisplayRow struct {
	ID        string
	Title     string
	EditURL   string
	Published *bool // nil unless status icons are enabled
	Invalid   bool
}

// InvalidRow builds the row shown for an identifier with no live record.
func InvalidRow(id Identifier) DisplayRow {
	return DisplayRow{ID: id, Title: id, Invalid: true}
}

// MarshalJSON emits {id, title, invalid: true} for invalid rows and
// {id, title, editUrl, published} otherwise, with published null when unset.
func (r DisplayRow) MarshalJSON() ([]byte, error) {
	if r.Invalid {
		return json.Marshal(struct {
			ID      string `json:"id"`
			Title   string `json:"title"`
			Invalid bool   `json:"invalid"`
		}{r.ID, r.Title, true})
	}
	return json.Marshal(struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		EditURL   string `json:"editUrl"`
		Published *bool  `json:"published"`
	}{r.ID, r.Title, r.EditURL, r.Published})
}

// UnmarshalJSON accepts both row shapes.
func (r *DisplayRow) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		EditURL   string `json:"editUrl"`
		Published *bool  `json:"published"`
		Invalid   bool   `json:"invalid"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = DisplayRow{
		ID:        raw.ID,
		Title:     raw.Title,
		EditURL:   raw.EditURL,
		Published: raw.Published,
		Invalid:   raw.Invalid,
	}
	return nil
}

// IndexRow is one selection rendered for a listing column. Unlike
// DisplayRow it uses the edit_url key and always carries all four keys;
// invalid references additionally set invalid.
type IndexRow struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	EditURL   string `json:"edit_url"`
	Published *bool  `json:"published"`
	Invalid   bool   `json:"invalid,omitempty"`
}

// Column describes one listing column in the selection widget.
type Column struct {
	Field    string `json:"field"`
	Label    string `json:"label"`
	Sortable bool   `json:"sortable"`
	Visible  bool   `json:"visible"`
}

// NewColumn returns a visible, sortable column labelled with its field name.
func NewColumn(field string) Column {
	return Column{Field: field, Label: field, Sortable: true, Visible: true}
}

// FormProps holds extra properties for the inline create/edit form component.
// It always serializes as a JSON object, including when empty or nil, so the
// widget never receives an array or null in its place.
type FormProps map[string]any

// MarshalJSON implements json.Marshaler.
func (p FormProps) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(p))
}

// PreloadPayload is the bootstrap configuration handed to the selection
// widget in one piece.
type PreloadPayload struct {
	Data                           []DisplayRow      `json:"data"`
	Columns                        []Column          `json:"columns"`
	ItemDataURL                    string            `json:"itemDataUrl"`
	BaseSelectionsURL              string            `json:"baseSelectionsUrl"`
	GetBaseSelectionsURLParameters map[string]string `json:"getBaseSelectionsUrlParameters"`
	ItemComponent                  string            `json:"itemComponent"`
	CanEdit                        bool              `json:"canEdit"`
	CanCreate                      bool              `json:"canCreate"`
	CanSearch                      bool              `json:"canSearch"`
	StatusIcons                    bool              `json:"statusIcons"`
	Creatables                     []string          `json:"creatables"`
	FormComponent                  *string           `json:"formComponent"`
	FormComponentProps             FormProps         `json:"formComponentProps"`
	Taggable                       bool              `json:"taggable"`
}

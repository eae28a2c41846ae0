package media

import "strings"

// Binding associates an entity media slot with its wire field names and
// ingestion policy.
type Binding struct {
	// Slot is the logical name of the attachment point (image, video, gallery).
	Slot string `json:"slot"`
	// FileField carries uploaded binaries (image, videoFile).
	FileField string `json:"file_field"`
	// URLField carries remote URLs (imageUrl, videoUrl).
	URLField string `json:"url_field"`
	// Gallery marks ordered multi-item slots.
	Gallery bool   `json:"gallery,omitempty"`
	Policy  Policy `json:"policy"`
	// Publishable slots count towards the asset required to publish.
	Publishable bool `json:"publishable,omitempty"`
}

// Fields returns the file and URL wire names, defaulting to slot and slot+"Url".
func (b Binding) Fields() (file string, url string) {
	file = strings.TrimSpace(b.FileField)
	if file == "" {
		file = b.Slot
	}
	url = strings.TrimSpace(b.URLField)
	if url == "" {
		url = b.Slot + "Url"
	}
	return file, url
}

// BindingSet groups bindings by slot name in declaration order.
type BindingSet []Binding

// Lookup finds a binding by slot name.
func (s BindingSet) Lookup(slot string) (Binding, bool) {
	for _, binding := range s {
		if binding.Slot == slot {
			return binding, true
		}
	}
	return Binding{}, false
}

// CloneBindingSet performs a deep copy of the binding set to avoid shared references.
func CloneBindingSet(src BindingSet) BindingSet {
	if len(src) == 0 {
		return nil
	}
	cloned := make(BindingSet, len(src))
	for idx, binding := range src {
		cloned[idx] = binding
		cloned[idx].Policy = binding.Policy.Clone()
	}
	return cloned
}

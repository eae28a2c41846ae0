package media

// Snapshot is the settled content of one slot handed to the submission builder.
type Snapshot struct {
	Binding Binding
	// Items are the non-empty slots in display order.
	Items []Slot
	// Original lists the remote slots the entity was loaded with.
	Original []Slot
}

// HasPending reports whether any item is a pending local file.
func (s Snapshot) HasPending() bool {
	for _, item := range s.Items {
		if item.IsPending() {
			return true
		}
	}
	return false
}

// HasRemote reports whether any item is a remote URL.
func (s Snapshot) HasRemote() bool {
	for _, item := range s.Items {
		if item.IsRemote() {
			return true
		}
	}
	return false
}

// RemoteURLs lists remote URLs in order.
func (s Snapshot) RemoteURLs() []string {
	urls := make([]string, 0, len(s.Items))
	for _, item := range s.Items {
		if u, ok := item.URL(); ok {
			urls = append(urls, u)
		}
	}
	return urls
}

// PendingFiles lists pending files in order.
func (s Snapshot) PendingFiles() []File {
	var files []File
	for _, item := range s.Items {
		if f, ok := item.File(); ok {
			files = append(files, f)
		}
	}
	return files
}

// Cleared reports whether the original held a remote asset and the slot
// now holds nothing, which must be sent as an explicit removal.
func (s Snapshot) Cleared() bool {
	return len(s.Original) > 0 && len(s.Items) == 0
}

// RemoteChanged reports whether the remote URL list differs from the original.
func (s Snapshot) RemoteChanged() bool {
	current := s.RemoteURLs()
	original := make([]string, 0, len(s.Original))
	for _, item := range s.Original {
		if u, ok := item.URL(); ok {
			original = append(original, u)
		}
	}
	if len(current) != len(original) {
		return true
	}
	for idx := range current {
		if current[idx] != original[idx] {
			return true
		}
	}
	return false
}
